// Package portaltest serves an in-memory imitation of the portal backend for
// tests: login issuing HS256 tokens, posts and paginated users.
package portaltest

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/cascaessama/MobileConectaEdu/internal/shared/models"
)

type account struct {
	ID       string      `json:"_id"`
	Username string      `json:"username"`
	Password string      `json:"-"`
	UserType models.Role `json:"userType"`
}

type post struct {
	ID          string `json:"_id"`
	Titulo      string `json:"titulo"`
	Conteudo    string `json:"conteudo"`
	DataCriacao string `json:"dataCriacao"`
	Autor       string `json:"autor,omitempty"`
}

// Server is a running fake backend. Its URL is the client base URL.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	secret   []byte
	accounts []*account
	posts    []*post
	requests []string

	postsEnvelope string
	usersEnvelope bool
}

// New starts a server that is closed when tb finishes.
func New(tb testing.TB) *Server {
	tb.Helper()
	s := &Server{secret: []byte(uuid.NewString())}
	s.Server = httptest.NewServer(s.router())
	tb.Cleanup(s.Close)
	return s
}

func (s *Server) router() http.Handler {
	mux := chi.NewRouter()
	mux.Use(s.record)
	mux.Post("/users/login", s.handleLogin)

	mux.Group(func(pr chi.Router) {
		pr.Use(s.authMiddleware)
		pr.Get("/portal", s.handleListPosts)
		pr.Post("/portal", s.handleCreatePost)
		pr.Put("/portal/{id}", s.handleUpdatePost)
		pr.Delete("/portal/{id}", s.handleDeletePost)
		pr.Get("/users", s.handleListUsers)
		pr.Post("/users/register", s.handleRegister)
		pr.Put("/users/{id}", s.handleUpdateUser)
		pr.Delete("/users/{id}", s.handleDeleteUser)
	})
	return mux
}

// AddUser seeds an account and returns its id.
func (s *Server) AddUser(username, password string, role models.Role) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := &account{ID: uuid.NewString(), Username: username, Password: password, UserType: role}
	s.accounts = append(s.accounts, a)
	return a.ID
}

// AddPost seeds a post and returns its id.
func (s *Server) AddPost(titulo, conteudo, autor string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &post{ID: uuid.NewString(), Titulo: titulo, Conteudo: conteudo, Autor: autor, DataCriacao: time.Now().UTC().Format(time.RFC3339)}
	s.posts = append(s.posts, p)
	return p.ID
}

// SetPostsEnvelope wraps GET /portal under key ("portal" or "posts"); empty
// serves a bare array.
func (s *Server) SetPostsEnvelope(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.postsEnvelope = key
}

// SetUsersEnvelope wraps GET /users pages as {items:[...]}.
func (s *Server) SetUsersEnvelope(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usersEnvelope = on
}

// ExpireSessions invalidates every token issued so far.
func (s *Server) ExpireSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secret = []byte(uuid.NewString())
}

// Token mints a token for role without going through login.
func (s *Server) Token(username string, role models.Role) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	tok, _ := s.sign(&account{ID: uuid.NewString(), Username: username, UserType: role})
	return tok
}

// Requests returns "METHOD /path?query" for every request served.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// PostTitles returns a snapshot of stored post titles in order.
func (s *Server) PostTitles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.posts))
	for _, p := range s.posts {
		out = append(out, p.Titulo)
	}
	return out
}

// Usernames returns a snapshot of stored usernames in order.
func (s *Server) Usernames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a.Username)
	}
	return out
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		line := req.Method + " " + req.URL.Path
		if req.URL.RawQuery != "" {
			line += "?" + req.URL.RawQuery
		}
		s.mu.Lock()
		s.requests = append(s.requests, line)
		s.mu.Unlock()
		next.ServeHTTP(w, req)
	})
}

func (s *Server) sign(a *account) (string, error) {
	claims := jwt.MapClaims{
		"sub":      a.ID,
		"username": a.Username,
		"userType": string(a.UserType),
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(time.Hour).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		authz := req.Header.Get("Authorization")
		if !strings.HasPrefix(authz, "Bearer ") {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
			return
		}
		s.mu.Lock()
		secret := s.secret
		s.mu.Unlock()
		_, err := jwt.Parse(strings.TrimPrefix(authz, "Bearer "), func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return secret, nil
		})
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
			return
		}
		next.ServeHTTP(w, req)
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, req *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid json"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.Username == body.Username && a.Password == body.Password {
			tok, err := s.sign(a)
			if err != nil {
				writeJSON(w, http.StatusInternalServerError, map[string]string{"message": err.Error()})
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"access_token": tok})
			return
		}
	}
	writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
}

func (s *Server) handleListPosts(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	list := append([]*post{}, s.posts...)
	env := s.postsEnvelope
	s.mu.Unlock()
	if env != "" {
		writeJSON(w, http.StatusOK, map[string]any{env: list})
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreatePost(w http.ResponseWriter, req *http.Request) {
	var body post
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid json"})
		return
	}
	if body.Titulo == "" || body.Conteudo == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "titulo and conteudo are required"})
		return
	}
	body.ID = uuid.NewString()
	s.mu.Lock()
	s.posts = append(s.posts, &body)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, body)
}

func (s *Server) handleUpdatePost(w http.ResponseWriter, req *http.Request) {
	var body post
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid json"})
		return
	}
	id := chi.URLParam(req, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.posts {
		if p.ID == id {
			p.Titulo, p.Conteudo = body.Titulo, body.Conteudo
			if body.Autor != "" {
				p.Autor = body.Autor
			}
			if body.DataCriacao != "" {
				p.DataCriacao = body.DataCriacao
			}
			writeJSON(w, http.StatusOK, p)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "post not found"})
}

func (s *Server) handleDeletePost(w http.ResponseWriter, req *http.Request) {
	id := chi.URLParam(req, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.posts {
		if p.ID == id {
			s.posts = append(s.posts[:i], s.posts[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "post not found"})
}

func (s *Server) handleListUsers(w http.ResponseWriter, req *http.Request) {
	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	s.mu.Lock()
	start := (page - 1) * limit
	list := []*account{}
	if start < len(s.accounts) {
		end := start + limit
		if end > len(s.accounts) {
			end = len(s.accounts)
		}
		list = append(list, s.accounts[start:end]...)
	}
	total := len(s.accounts)
	wrap := s.usersEnvelope
	s.mu.Unlock()
	if wrap {
		writeJSON(w, http.StatusOK, map[string]any{"items": list, "total": total, "page": page})
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleRegister(w http.ResponseWriter, req *http.Request) {
	var body struct {
		Username string      `json:"username"`
		Password string      `json:"password"`
		UserType models.Role `json:"userType"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid json"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.Username == body.Username {
			writeJSON(w, http.StatusConflict, map[string]string{"message": "username already exists"})
			return
		}
	}
	a := &account{ID: uuid.NewString(), Username: body.Username, Password: body.Password, UserType: body.UserType}
	s.accounts = append(s.accounts, a)
	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, req *http.Request) {
	var body struct {
		Username string      `json:"username"`
		Password string      `json:"password"`
		UserType models.Role `json:"userType"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid json"})
		return
	}
	id := chi.URLParam(req, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.ID == id {
			a.Username, a.UserType = body.Username, body.UserType
			if body.Password != "" {
				a.Password = body.Password
			}
			writeJSON(w, http.StatusOK, a)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "user not found"})
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, req *http.Request) {
	id := chi.URLParam(req, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.accounts {
		if a.ID == id {
			s.accounts = append(s.accounts[:i], s.accounts[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "user not found"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
