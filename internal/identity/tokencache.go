package identity

import (
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/chacha20poly1305"
)

// TokenCache persists the current session token across daemon restarts,
// encrypted at rest with XChaCha20-Poly1305. The key comes from config; the
// file is only ever readable by the owner.
type TokenCache struct {
	path string
	aead cipher.AEAD
}

func NewTokenCache(path string, key []byte) (*TokenCache, error) {
	if path == "" {
		return nil, errors.New("token cache path is required")
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("token cache key: %w", err)
	}
	return &TokenCache{path: path, aead: aead}, nil
}

func (c *TokenCache) Save(token string) error {
	if token == "" {
		return c.Clear()
	}
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("token cache nonce: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(token), nil)

	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("token cache dir: %w", err)
		}
	}
	if err := os.WriteFile(c.path, sealed, 0o600); err != nil {
		return fmt.Errorf("token cache write: %w", err)
	}
	return nil
}

// Load returns the cached token. A missing file reads as (_, false, nil); a
// corrupt or foreign-key file is an error so the caller can decide to drop it.
func (c *TokenCache) Load() (string, bool, error) {
	sealed, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("token cache read: %w", err)
	}
	if len(sealed) < c.aead.NonceSize() {
		return "", false, errors.New("token cache: truncated file")
	}
	nonce, box := sealed[:c.aead.NonceSize()], sealed[c.aead.NonceSize():]
	token, err := c.aead.Open(nil, nonce, box, nil)
	if err != nil {
		return "", false, fmt.Errorf("token cache decrypt: %w", err)
	}
	return string(token), true, nil
}

func (c *TokenCache) Clear() error {
	err := os.Remove(c.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("token cache clear: %w", err)
	}
	return nil
}
