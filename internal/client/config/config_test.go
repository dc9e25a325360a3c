package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsAndEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONECTAEDU_API_URL", "")
	t.Setenv("CONECTAEDU_SESSION_DSN", "")
	t.Setenv("CONECTAEDU_LOGIN_TIMEOUT", "")
	cfg := Load()
	if cfg.APIURL != DefaultAPIURL || cfg.SessionDSN == "" || cfg.VaultPath == "" {
		t.Fatalf("bad defaults: %+v", cfg)
	}
	if cfg.LoginTimeout != 15*time.Second {
		t.Fatalf("bad numeric defaults: %+v", cfg)
	}

	t.Setenv("CONECTAEDU_API_URL", "http://localhost:3000")
	t.Setenv("CONECTAEDU_SESSION_DSN", "file::memory:")
	t.Setenv("CONECTAEDU_LOGIN_TIMEOUT", "2s")
	cfg = Load()
	if cfg.APIURL != "http://localhost:3000" || cfg.SessionDSN != "file::memory:" {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if cfg.LoginTimeout != 2*time.Second {
		t.Fatalf("numeric env not applied: %+v", cfg)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("CONECTAEDU_VAULT_PATH=/tmp/dotenv_key\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONECTAEDU_VAULT_PATH", "")
	os.Unsetenv("CONECTAEDU_VAULT_PATH")
	cfg := Load()
	if cfg.VaultPath != "/tmp/dotenv_key" {
		t.Fatalf(".env not applied: %q", cfg.VaultPath)
	}
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })
}
