package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"os"
	"strings"
)

// KeyLength defines AES-256 key size.
const KeyLength = 32

// DefaultPath returns the default vault key path in the user's home.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return home + string(os.PathSeparator) + ".conectaedu_vault_key"
}

// Exists checks if a vault key file exists at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Generate creates and stores a new random key at path.
func Generate(path string) ([]byte, error) {
	if Exists(path) {
		return nil, errors.New("vault key already exists")
	}
	key := make([]byte, KeyLength)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	if err := Save(path, key); err != nil {
		return nil, err
	}
	return key, nil
}

// Save writes key to disk base64 encoded with 0600 perms.
func Save(path string, key []byte) error {
	b64 := base64.StdEncoding.EncodeToString(key)
	return os.WriteFile(path, []byte(b64), 0600)
}

// Load reads key from disk.
func Load(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(b)))
	if err != nil {
		return nil, err
	}
	if len(key) != KeyLength {
		return nil, errors.New("invalid key length")
	}
	return key, nil
}

// LoadOrGenerate returns the key at path, creating it on first use.
func LoadOrGenerate(path string) ([]byte, error) {
	if Exists(path) {
		return Load(path)
	}
	return Generate(path)
}

// Seal encrypts plaintext using AES-256-GCM.
// The returned slice is nonce||ciphertext; aad is authenticated but not encrypted.
func Seal(key, plaintext, aad []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	ciphertext := gcm.Seal(nil, nonce, plaintext, aad)
	return append(nonce, ciphertext...), nil
}

// Open decrypts data produced by Seal using the same key and aad.
func Open(key, sealed, aad []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(sealed) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}
	nonce := sealed[:gcm.NonceSize()]
	return gcm.Open(nil, nonce, sealed[gcm.NonceSize():], aad)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	blk, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(blk)
}
