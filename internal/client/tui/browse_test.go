package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cascaessama/MobileConectaEdu/internal/client/api"
	"github.com/cascaessama/MobileConectaEdu/internal/shared/models"
)

func samplePosts() []models.Post {
	return []models.Post{
		{ID: "1", Title: "Aula de Matemática", Body: "Frações e decimais", Author: "Ana"},
		{ID: "2", Title: "Feira de Ciências", Body: "Inscrições abertas", Author: "Bruno"},
		{ID: "3", Title: "Reunião de pais", Body: "Sexta às 19h", Author: "Ana"},
	}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	return nm, cmd
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

func TestLoadCmdUsesSource(t *testing.T) {
	calls := 0
	m := New(KindPosts, Source{Posts: func() ([]models.Post, error) {
		calls++
		return samplePosts(), nil
	}})
	msg := m.load()()
	loaded, ok := msg.(postsLoadedMsg)
	if !ok || calls != 1 || len(loaded.posts) != 3 {
		t.Fatalf("load: %#v calls=%d", msg, calls)
	}
}

func TestLiveSearchFiltersPosts(t *testing.T) {
	m := New(KindPosts, Source{})
	if !strings.Contains(m.View(), "Loading") {
		t.Fatalf("expected loading view")
	}
	m, _ = update(t, m, postsLoadedMsg{posts: samplePosts()})
	if m.Visible() != 3 {
		t.Fatalf("visible: %d", m.Visible())
	}

	m = typeText(t, m, "ana")
	if m.Visible() != 2 {
		t.Fatalf("search by author: %d", m.Visible())
	}
	if !strings.Contains(m.View(), "(2/3)") {
		t.Fatalf("header should show counts:\n%s", m.View())
	}

	m = typeText(t, m, "zzz")
	if m.Visible() != 0 || !strings.Contains(m.View(), "Nothing found.") {
		t.Fatalf("expected empty result")
	}
}

func TestCursorAndExpand(t *testing.T) {
	m := New(KindPosts, Source{})
	m, _ = update(t, m, postsLoadedMsg{posts: samplePosts()})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if m.cursor != 2 {
		t.Fatalf("cursor must stop at last row: %d", m.cursor)
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.expanded["3"] {
		t.Fatalf("enter should expand the selected post")
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.expanded["3"] {
		t.Fatalf("second enter should collapse")
	}

	// narrowing the list pulls the cursor back into range
	m = typeText(t, m, "feira")
	if m.cursor != 0 {
		t.Fatalf("cursor: %d", m.cursor)
	}
}

func TestUsersView(t *testing.T) {
	m := New(KindUsers, Source{})
	m, _ = update(t, m, usersLoadedMsg{users: []models.User{
		{ID: "u1", Username: "ana", Role: models.RoleTeacher},
		{ID: "u2", Username: "caio", Role: models.RoleStudent},
	}})
	m = typeText(t, m, "student")
	if m.Visible() != 1 || !strings.Contains(m.View(), "caio") {
		t.Fatalf("role search failed:\n%s", m.View())
	}
}

func TestLoadErrors(t *testing.T) {
	m := New(KindPosts, Source{})
	m, cmd := update(t, m, postsLoadedMsg{err: errors.New("boom")})
	if cmd != nil {
		t.Fatalf("plain errors keep the browser open")
	}
	if !strings.Contains(m.View(), "boom") || m.Err() == nil {
		t.Fatalf("error not shown")
	}

	m, cmd = update(t, m, postsLoadedMsg{err: api.ErrSessionExpired})
	if cmd == nil {
		t.Fatalf("expired session must quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected quit")
	}
	if !api.NeedsLogin(m.Err()) {
		t.Fatalf("err: %v", m.Err())
	}
}

func TestReloadAndQuit(t *testing.T) {
	m := New(KindPosts, Source{Posts: func() ([]models.Post, error) {
		return samplePosts()[:1], nil
	}})
	m, _ = update(t, m, postsLoadedMsg{posts: samplePosts()})
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	if cmd == nil || !m.loading {
		t.Fatalf("ctrl+r should start a reload")
	}
	m, _ = update(t, m, cmd())
	if m.Visible() != 1 {
		t.Fatalf("reload result: %d", m.Visible())
	}
	_, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatalf("esc must quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected quit")
	}
}
