// Package display renders portal records for the terminal.
package display

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/cascaessama/MobileConectaEdu/internal/shared/models"
)

const previewLen = 160

var (
	primary     = lipgloss.Color("#4A90E2")
	primaryDark = lipgloss.Color("#134E9B")
	border      = lipgloss.Color("#C9E0FF")
	inkMuted    = lipgloss.Color("#64748B")
	danger      = lipgloss.Color("#C0392B")

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(primaryDark)
	metaStyle     = lipgloss.NewStyle().Foreground(inkMuted)
	cardStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border).Padding(0, 1)
	selectedStyle = cardStyle.BorderForeground(primary)
	roleStyle     = lipgloss.NewStyle().Foreground(primary)
	errorStyle    = lipgloss.NewStyle().Foreground(danger)
)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FormatDate renders an ISO-8601 timestamp as day, short month and year.
// Empty or unparseable input yields "".
func FormatDate(iso string) string {
	iso = strings.TrimSpace(iso)
	if iso == "" {
		return ""
	}
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, iso); err == nil {
			return t.Format("02 Jan 2006")
		}
	}
	return ""
}

// PostMeta is the "author • date" line of a post.
func PostMeta(p models.Post) string {
	author := strings.TrimSpace(p.Author)
	if author == "" {
		author = "Unknown author"
	}
	if d := FormatDate(p.CreatedAt); d != "" {
		return author + " • " + d
	}
	return author
}

// PostCard renders a post. Unless full is set the body is cut to a preview.
func PostCard(p models.Post, full, selected bool) string {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		title = "Untitled"
	}
	body := strings.TrimSpace(p.Body)
	switch {
	case body == "":
		body = "No content."
	case !full:
		body = Preview(body, previewLen)
	}
	style := cardStyle
	if selected {
		style = selectedStyle
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(title),
		metaStyle.Render(PostMeta(p)),
		body,
	))
}

// UserRow renders one user line.
func UserRow(u models.User, selected bool) string {
	cursor := "  "
	if selected {
		cursor = "> "
	}
	return cursor + titleStyle.Render(u.Username) + " " + roleStyle.Render("["+string(u.Role)+"]")
}

// Muted renders secondary text such as ids and hints.
func Muted(s string) string { return metaStyle.Render(s) }

func Error(msg string) string { return errorStyle.Render(msg) }

// Preview cuts s to at most n runes on a word boundary when possible.
func Preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	cut := string(r[:n])
	if i := strings.LastIndexAny(cut, " \n\t"); i > n/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " \n\t") + "…"
}
