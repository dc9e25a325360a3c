package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strconv"

	"github.com/cascaessama/MobileConectaEdu/internal/shared/models"
)

// field lists the backend keys accepted for one record field, in precedence
// order. A key counts when present with a scalar, non-null value.
type field struct {
	name     string
	keys     []string
	nonEmpty bool
}

var postFields = []field{
	{name: "id", keys: []string{"_id", "id"}, nonEmpty: true},
	{name: "title", keys: []string{"titulo", "title"}},
	{name: "body", keys: []string{"conteudo", "content"}},
	{name: "createdAt", keys: []string{"dataCriacao", "createdAt"}},
	{name: "author", keys: []string{"autor", "author"}},
}

var userFields = []field{
	{name: "id", keys: []string{"_id", "id"}, nonEmpty: true},
	{name: "username", keys: []string{"username"}},
	{name: "role", keys: []string{"userType", "role"}},
}

// Envelope keys that may wrap a list response.
var (
	postEnvelopes = []string{"portal", "posts"}
	userEnvelopes = []string{"items"}
)

// resolve applies table to obj and returns the fields that were found.
func resolve(obj map[string]any, table []field) map[string]string {
	out := make(map[string]string, len(table))
	for _, f := range table {
		for _, k := range f.keys {
			s, ok := scalar(obj[k])
			if !ok || (f.nonEmpty && s == "") {
				continue
			}
			out[f.name] = s
			break
		}
	}
	return out
}

func scalar(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case bool:
		return strconv.FormatBool(t), true
	}
	return "", false
}

var errTrailingData = errors.New("trailing data after JSON value")

// parseJSON decodes text keeping numbers exact. The body must hold exactly
// one JSON value.
func parseJSON(text string) (any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errTrailingData
	}
	return v, nil
}

// unwrapList accepts a bare array or an object holding the array under one of
// keys, checked in order.
func unwrapList(v any, keys []string) []any {
	switch t := v.(type) {
	case []any:
		return t
	case map[string]any:
		for _, k := range keys {
			if arr, ok := t[k].([]any); ok {
				return arr
			}
		}
	}
	return nil
}

func asObject(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func normalizePost(obj map[string]any, newID func() string) models.Post {
	r := resolve(obj, postFields)
	p := models.Post{
		ID:        r["id"],
		Title:     r["title"],
		Body:      r["body"],
		CreatedAt: r["createdAt"],
		Author:    r["author"],
	}
	if p.ID == "" {
		p.ID = newID()
		p.Transient = true
	}
	return p
}

func normalizeUser(obj map[string]any) models.User {
	r := resolve(obj, userFields)
	return models.User{
		ID:       r["id"],
		Username: r["username"],
		Role:     models.ParseRole(r["role"]),
	}
}

// NormalizePosts flattens any accepted posts response into backend order.
func NormalizePosts(v any, newID func() string) []models.Post {
	items := unwrapList(v, postEnvelopes)
	out := make([]models.Post, 0, len(items))
	for _, it := range items {
		out = append(out, normalizePost(asObject(it), newID))
	}
	return out
}

// NormalizeUsers flattens a bare array or {items:[...]} into backend order.
func NormalizeUsers(v any) []models.User {
	items := unwrapList(v, userEnvelopes)
	out := make([]models.User, 0, len(items))
	for _, it := range items {
		out = append(out, normalizeUser(asObject(it)))
	}
	return out
}
