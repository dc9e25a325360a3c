package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cascaessama/MobileConectaEdu/internal/shared/models"
)

func tokenFor(t *testing.T, userType string) string {
	t.Helper()
	claims := jwt.MapClaims{"sub": "1"}
	if userType != "" {
		claims["userType"] = userType
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func loginServer(t *testing.T, status int, header, body string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/users/login" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if header != "" {
			w.Header().Set("Authorization", header)
		}
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestLoginTokenFieldPrecedence(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"token only", `{"token":"xyz"}`, "xyz"},
		{"access_token first", `{"jwt":"d","accessToken":"c","token":"b","access_token":"a"}`, "a"},
		{"token before accessToken", `{"jwt":"d","accessToken":"c","token":"b"}`, "b"},
		{"accessToken before jwt", `{"jwt":"d","accessToken":"c"}`, "c"},
		{"jwt last", `{"jwt":"d"}`, "d"},
		{"empty skipped", `{"access_token":"","token":"b"}`, "b"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := loginServer(t, http.StatusOK, "", tc.body)
			store := &memStore{}
			s, err := New(ts.URL, store).Login(context.Background(), "ana", "pw")
			if err != nil {
				t.Fatal(err)
			}
			if s.Token != tc.want || store.s.Token != tc.want {
				t.Fatalf("token %q stored %q want %q", s.Token, store.s.Token, tc.want)
			}
			if s.Role != models.RoleStudent {
				t.Fatalf("undecodable token must default to student, got %q", s.Role)
			}
		})
	}
}

func TestLoginHeaderFallback(t *testing.T) {
	tok := tokenFor(t, "teacher")
	for _, header := range []string{"Bearer " + tok, "bearer   " + tok} {
		ts := loginServer(t, http.StatusOK, header, `{"message":"ok"}`)
		store := &memStore{}
		s, err := New(ts.URL, store).Login(context.Background(), "ana", "pw")
		if err != nil {
			t.Fatal(err)
		}
		if s.Token != tok || s.Role != models.RoleTeacher || store.s != s {
			t.Fatalf("session %+v stored %+v", s, store.s)
		}
	}
	ts := loginServer(t, http.StatusOK, "Bearer "+tok, ``)
	if s, err := New(ts.URL, &memStore{}).Login(context.Background(), "ana", "pw"); err != nil || s.Token != tok {
		t.Fatalf("empty body with header: %+v %v", s, err)
	}
}

func TestLoginRoleFromClaims(t *testing.T) {
	for userType, want := range map[string]models.Role{
		"admin":   models.RoleAdmin,
		"teacher": models.RoleTeacher,
		"student": models.RoleStudent,
		"janitor": models.RoleStudent,
		"":        models.RoleStudent,
	} {
		ts := loginServer(t, http.StatusOK, "", `{"access_token":"`+tokenFor(t, userType)+`"}`)
		s, err := New(ts.URL, &memStore{}).Login(context.Background(), "ana", "pw")
		if err != nil || s.Role != want {
			t.Fatalf("userType %q: role %q err %v", userType, s.Role, err)
		}
	}
}

func TestLoginNoAccessToken(t *testing.T) {
	ts := loginServer(t, http.StatusOK, "Basic abc", `{"user":"ana"}`)
	store := &memStore{}
	_, err := New(ts.URL, store).Login(context.Background(), "ana", "pw")
	if !errors.Is(err, ErrNoAccessToken) {
		t.Fatalf("expected ErrNoAccessToken, got %v", err)
	}
	if errors.Is(err, ErrNetwork) || errors.Is(err, ErrBackend) {
		t.Fatalf("no-token must be distinct: %v", err)
	}
	if err.Error() != "no access token returned" || store.s.Authenticated() {
		t.Fatalf("err=%q stored=%+v", err, store.s)
	}
}

func TestLoginNotJSON(t *testing.T) {
	for _, body := range []string{
		`<html>Service starting</html>`,
		`{"token":"xyz"}<html>starting</html>`,
		`{"token":"xyz"} {"token":"abc"}`,
	} {
		ts := loginServer(t, http.StatusOK, "", body)
		store := &memStore{}
		_, err := New(ts.URL, store).Login(context.Background(), "ana", "pw")
		if !errors.Is(err, ErrNotJSON) {
			t.Fatalf("body %q: expected ErrNotJSON, got %v", body, err)
		}
		if store.s.Token != "" {
			t.Fatalf("body %q: token must not be stored", body)
		}
	}
}

func TestLoginRejected(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"invalid credentials", http.StatusUnauthorized, `{"message":"Invalid credentials"}`, "incorrect username or password"},
		{"other message", http.StatusForbidden, `{"message":"account locked"}`, "account locked"},
		{"no message", http.StatusInternalServerError, `oops`, "authentication failed (HTTP 500)"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := loginServer(t, tc.status, "", tc.body)
			store := &memStore{s: loggedIn().s}
			_, err := New(ts.URL, store).Login(context.Background(), "ana", "pw")
			if !errors.Is(err, ErrBackend) || err.Error() != tc.want {
				t.Fatalf("got %v want %q", err, tc.want)
			}
			if errors.Is(err, ErrSessionExpired) || store.clears != 0 {
				t.Fatalf("login rejection is not a session expiry")
			}
		})
	}
}

func TestLoginValidation(t *testing.T) {
	c := New("http://127.0.0.1:1", &memStore{})
	for _, in := range [][2]string{{"", "pw"}, {"ana", " "}} {
		if _, err := c.Login(context.Background(), in[0], in[1]); !errors.Is(err, ErrValidation) {
			t.Fatalf("%v: expected validation error, got %v", in, err)
		}
	}
}

func TestLoginTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer ts.Close()
	start := time.Now()
	_, err := New(ts.URL, &memStore{}, WithLoginTimeout(50*time.Millisecond)).Login(context.Background(), "ana", "pw")
	if !errors.Is(err, ErrTimeout) || errors.Is(err, ErrNetwork) {
		t.Fatalf("expected timeout, got %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Fatalf("timeout not enforced")
	}
}

func TestLoginNetworkError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()
	_, err := New(url, &memStore{}).Login(context.Background(), "ana", "pw")
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
}

func TestLogout(t *testing.T) {
	store := loggedIn()
	if err := New("http://unused", store).Logout(context.Background()); err != nil {
		t.Fatal(err)
	}
	if store.s.Authenticated() {
		t.Fatalf("logout must clear the session")
	}
}
