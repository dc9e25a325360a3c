// Package filter narrows loaded lists by a free-text query on the client.
package filter

import (
	"strings"

	"github.com/cascaessama/MobileConectaEdu/internal/shared/models"
)

// Match returns the items where the trimmed, case-insensitive query occurs in
// any of the strings produced by fields. An empty query returns items as is.
func Match[T any](items []T, query string, fields func(T) []string) []T {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		for _, f := range fields(it) {
			if strings.Contains(strings.ToLower(f), q) {
				out = append(out, it)
				break
			}
		}
	}
	return out
}

func postFields(p models.Post) []string { return []string{p.Title, p.Body, p.Author} }

func userFields(u models.User) []string { return []string{u.Username, string(u.Role)} }

// Posts searches title, body and author.
func Posts(posts []models.Post, query string) []models.Post {
	return Match(posts, query, postFields)
}

// Users searches username and role.
func Users(users []models.User, query string) []models.User {
	return Match(users, query, userFields)
}
