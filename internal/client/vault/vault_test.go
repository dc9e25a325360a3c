package vault

import (
	"bytes"
	"crypto/rand"
	"path/filepath"
	"testing"
)

func TestGenerateSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault_key")

	if Exists(path) {
		t.Fatalf("key should not exist")
	}
	key, err := Generate(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(key) != KeyLength {
		t.Fatalf("len: %d", len(key))
	}
	if !Exists(path) {
		t.Fatalf("key must exist after generate")
	}
	if _, err := Generate(path); err == nil {
		t.Fatalf("second generate must fail")
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(loaded, key) {
		t.Fatalf("loaded key differs")
	}
	again, err := LoadOrGenerate(path)
	if err != nil || !bytes.Equal(again, key) {
		t.Fatalf("LoadOrGenerate must reuse existing key: %v", err)
	}
}

func TestLoadRejectsShortKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault_key")
	if err := Save(path, []byte("short")); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected invalid key length")
	}
}

func TestSealOpen(t *testing.T) {
	key := make([]byte, KeyLength)
	if _, err := rand.Read(key); err != nil {
		t.Fatal(err)
	}
	plaintxt := []byte("bearer-token")
	sealed, err := Seal(key, plaintxt, []byte("@conectaedu/token"))
	if err != nil {
		t.Fatalf("seal error: %v", err)
	}
	if bytes.Equal(sealed, plaintxt) {
		t.Fatalf("sealed must differ from plaintext")
	}
	opened, err := Open(key, sealed, []byte("@conectaedu/token"))
	if err != nil {
		t.Fatalf("open error: %v", err)
	}
	if !bytes.Equal(opened, plaintxt) {
		t.Fatalf("opened mismatch: got %q want %q", opened, plaintxt)
	}
	if _, err := Open(key, sealed, []byte("other")); err == nil {
		t.Fatalf("expected auth error with wrong AAD")
	}
	if _, err := Open(key, []byte("x"), nil); err == nil {
		t.Fatalf("expected error for short ciphertext")
	}
}
