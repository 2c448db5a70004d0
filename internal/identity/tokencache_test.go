package identity

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func testKey() []byte { return bytes.Repeat([]byte{0xab}, 32) }

func TestTokenCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.bin")
	cache, err := NewTokenCache(path, testKey())
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}

	if err := cache.Save("tok-123"); err != nil {
		t.Fatalf("save: %v", err)
	}

	tok, ok, err := cache.Load()
	if err != nil || !ok || tok != "tok-123" {
		t.Fatalf("load: %q %v %v", tok, ok, err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if bytes.Contains(raw, []byte("tok-123")) {
		t.Fatalf("token stored in the clear")
	}
}

func TestTokenCacheMissingFile(t *testing.T) {
	cache, err := NewTokenCache(filepath.Join(t.TempDir(), "absent.bin"), testKey())
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}

	_, ok, err := cache.Load()
	if err != nil || ok {
		t.Fatalf("expected empty load, got ok=%v err=%v", ok, err)
	}
}

func TestTokenCacheWrongKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.bin")
	cache, err := NewTokenCache(path, testKey())
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	if err := cache.Save("tok-123"); err != nil {
		t.Fatalf("save: %v", err)
	}

	other, err := NewTokenCache(path, bytes.Repeat([]byte{0xcd}, 32))
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	if _, _, err := other.Load(); err == nil {
		t.Fatalf("expected decrypt error")
	}
}

func TestTokenCacheClearAndEmptySave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.bin")
	cache, err := NewTokenCache(path, testKey())
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	if err := cache.Save("tok-123"); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := cache.Save(""); err != nil {
		t.Fatalf("empty save: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected file removed, got %v", err)
	}

	if err := cache.Clear(); err != nil {
		t.Fatalf("clear on missing file: %v", err)
	}
}

func TestTokenCacheRejectsBadKey(t *testing.T) {
	if _, err := NewTokenCache("x", []byte("short")); err == nil {
		t.Fatalf("expected key size error")
	}
	if _, err := NewTokenCache("", testKey()); err == nil {
		t.Fatalf("expected path error")
	}
}
