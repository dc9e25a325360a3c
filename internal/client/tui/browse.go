// Package tui is the interactive list browser: live search over posts or
// users loaded from the portal.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cascaessama/MobileConectaEdu/internal/client/api"
	"github.com/cascaessama/MobileConectaEdu/internal/client/display"
	"github.com/cascaessama/MobileConectaEdu/internal/client/filter"
	"github.com/cascaessama/MobileConectaEdu/internal/shared/models"
)

type Kind int

const (
	KindPosts Kind = iota
	KindUsers
)

// windowSize is how many rows are drawn around the cursor.
const windowSize = 8

// Source loads the lists. Only the function for the browsed kind is used;
// callers bind their own context.
type Source struct {
	Posts func() ([]models.Post, error)
	Users func() ([]models.User, error)
}

type postsLoadedMsg struct {
	posts []models.Post
	err   error
}

type usersLoadedMsg struct {
	users []models.User
	err   error
}

type Model struct {
	kind   Kind
	src    Source
	search textinput.Model

	posts        []models.Post
	users        []models.User
	visiblePosts []models.Post
	visibleUsers []models.User

	cursor   int
	expanded map[string]bool
	loading  bool
	err      error
}

func New(kind Kind, src Source) Model {
	ti := textinput.New()
	ti.Placeholder = "Search…"
	ti.Prompt = "🔍 "
	ti.CharLimit = 120
	ti.Focus()
	return Model{kind: kind, src: src, search: ti, expanded: map[string]bool{}, loading: true}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.load())
}

func (m Model) load() tea.Cmd {
	src := m.src
	if m.kind == KindUsers {
		return func() tea.Msg {
			users, err := src.Users()
			return usersLoadedMsg{users: users, err: err}
		}
	}
	return func() tea.Msg {
		posts, err := src.Posts()
		return postsLoadedMsg{posts: posts, err: err}
	}
}

// Err is the last load failure, if any.
func (m Model) Err() error { return m.err }

// Visible is the number of rows matching the current search.
func (m Model) Visible() int {
	if m.kind == KindUsers {
		return len(m.visibleUsers)
	}
	return len(m.visiblePosts)
}

func (m *Model) refilter() {
	q := m.search.Value()
	m.visiblePosts = filter.Posts(m.posts, q)
	m.visibleUsers = filter.Users(m.users, q)
	if n := m.Visible(); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case postsLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.posts = nil
		} else {
			m.posts = msg.posts
		}
		m.refilter()
		if api.NeedsLogin(msg.err) {
			return m, tea.Quit
		}
		return m, nil
	case usersLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.users = nil
		} else {
			m.users = msg.users
		}
		m.refilter()
		if api.NeedsLogin(msg.err) {
			return m, tea.Quit
		}
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down", "ctrl+n":
			if m.cursor < m.Visible()-1 {
				m.cursor++
			}
			return m, nil
		case "enter":
			if m.kind == KindPosts && m.cursor < len(m.visiblePosts) {
				id := m.visiblePosts[m.cursor].ID
				m.expanded[id] = !m.expanded[id]
			}
			return m, nil
		case "ctrl+r":
			m.loading = true
			return m, m.load()
		}
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.refilter()
	return m, cmd
}

func (m Model) View() string {
	var b strings.Builder
	title, total := "Posts", len(m.posts)
	if m.kind == KindUsers {
		title, total = "Users", len(m.users)
	}
	fmt.Fprintf(&b, "ConectaEdu • %s (%d/%d)\n", title, m.Visible(), total)
	b.WriteString(m.search.View())
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(display.Muted("Loading…"))
		b.WriteString("\n")
	case m.err != nil:
		b.WriteString(display.Error(m.err.Error()))
		b.WriteString("\n")
	case m.Visible() == 0:
		b.WriteString(display.Muted("Nothing found."))
		b.WriteString("\n")
	default:
		start := 0
		if m.cursor >= windowSize {
			start = m.cursor - windowSize + 1
		}
		end := start + windowSize
		if end > m.Visible() {
			end = m.Visible()
		}
		for i := start; i < end; i++ {
			if m.kind == KindUsers {
				b.WriteString(display.UserRow(m.visibleUsers[i], i == m.cursor))
			} else {
				p := m.visiblePosts[i]
				b.WriteString(display.PostCard(p, m.expanded[p.ID], i == m.cursor))
			}
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	help := "↑/↓ move • ctrl+r reload • esc quit"
	if m.kind == KindPosts {
		help = "↑/↓ move • enter expand • ctrl+r reload • esc quit"
	}
	b.WriteString(display.Muted(help))
	b.WriteString("\n")
	return b.String()
}
