package display

import (
	"strings"
	"testing"

	"github.com/cascaessama/MobileConectaEdu/internal/shared/models"
)

func TestFormatDate(t *testing.T) {
	cases := map[string]string{
		"2024-05-01T10:00:00.000Z":      "01 May 2024",
		"2024-12-31T23:59:59Z":          "31 Dec 2024",
		"2024-02-03T04:05:06.123-03:00": "03 Feb 2024",
		"2024-07-09":                    "09 Jul 2024",
		"":                              "",
		"not a date":                    "",
		"2024-13-40":                    "",
	}
	for in, want := range cases {
		if got := FormatDate(in); got != want {
			t.Fatalf("FormatDate(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPostMeta(t *testing.T) {
	if got := PostMeta(models.Post{Author: "Ana", CreatedAt: "2024-05-01"}); got != "Ana • 01 May 2024" {
		t.Fatalf("got %q", got)
	}
	if got := PostMeta(models.Post{CreatedAt: "garbage"}); got != "Unknown author" {
		t.Fatalf("got %q", got)
	}
}

func TestPostCardFallbacks(t *testing.T) {
	out := PostCard(models.Post{}, false, false)
	for _, want := range []string{"Untitled", "Unknown author", "No content."} {
		if !strings.Contains(out, want) {
			t.Fatalf("card missing %q:\n%s", want, out)
		}
	}
}

func TestPostCardPreview(t *testing.T) {
	body := strings.Repeat("palavra ", 60)
	short := PostCard(models.Post{Title: "T", Body: body}, false, false)
	full := PostCard(models.Post{Title: "T", Body: body}, true, true)
	if !strings.Contains(short, "…") {
		t.Fatalf("preview must be cut")
	}
	if strings.Count(full, "palavra") != 60 {
		t.Fatalf("full card must keep the whole body")
	}
}

func TestPreview(t *testing.T) {
	if got := Preview("curto", 10); got != "curto" {
		t.Fatalf("got %q", got)
	}
	if got := Preview("uma frase bem longa aqui", 12); got != "uma frase…" {
		t.Fatalf("got %q", got)
	}
	if got := Preview("ççççççççç", 3); got != "ççç…" {
		t.Fatalf("rune cut: %q", got)
	}
}

func TestUserRow(t *testing.T) {
	row := UserRow(models.User{Username: "ana", Role: models.RoleTeacher}, true)
	if !strings.HasPrefix(row, "> ") || !strings.Contains(row, "ana") || !strings.Contains(row, "[teacher]") {
		t.Fatalf("row %q", row)
	}
}
