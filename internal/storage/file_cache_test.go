package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestKey_StableAndLocaleSensitive(t *testing.T) {
	a := Key("Hello  World", "ja")
	b := Key("hello world", "ja")
	if a != b {
		t.Errorf("key should ignore case and whitespace differences: %q vs %q", a, b)
	}
	if Key("hello world", "ja") == Key("hello world", "uk") {
		t.Error("keys for different locales must differ")
	}
}

func TestFileCache_PutGetRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	fc := NewFileCache(path, 24)
	key := Key("some headline", "ja")
	if err := fc.Put(key, "翻訳された見出し"); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := fc.Save(); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	reloaded := NewFileCache(path, 24)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	got, ok := reloaded.Get(key)
	if !ok {
		t.Fatal("expected a cache hit after reload")
	}
	if got != "翻訳された見出し" {
		t.Errorf("unexpected cached value: %q", got)
	}
}

func TestFileCache_MissingFileIsEmpty(t *testing.T) {
	fc := NewFileCache(filepath.Join(t.TempDir(), "absent.json"), 24)
	if err := fc.Load(); err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
	if fc.Len() != 0 {
		t.Errorf("expected empty cache, got %d entries", fc.Len())
	}
}

func TestFileCache_ExpiredEntriesDroppedOnLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	entries := []cachedTranslation{
		{Key: "stale", Value: "old", CreatedAt: time.Now().Add(-48 * time.Hour)},
		{Key: "fresh", Value: "new", CreatedAt: time.Now().Add(-time.Hour)},
	}
	data, err := json.Marshal(entries)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	fc := NewFileCache(path, 24)
	if err := fc.Load(); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if _, ok := fc.Get("stale"); ok {
		t.Error("expired entry should not survive load")
	}
	if _, ok := fc.Get("fresh"); !ok {
		t.Error("fresh entry should survive load")
	}
}

func TestFileCache_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	if err := os.WriteFile(path, []byte("{broken"), 0644); err != nil {
		t.Fatal(err)
	}

	fc := NewFileCache(path, 24)
	if err := fc.Load(); err == nil {
		t.Fatal("expected an error for a corrupt cache file")
	}
}
