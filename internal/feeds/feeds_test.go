package feeds

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yaml")
	content := `sources:
  - name: "Feed One"
    url: "https://one.example/feed"
  - name: "Feed Two"
    url: "https://two.example/rss"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	sources, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(sources))
	}
	if sources[0].Name != "Feed One" || sources[0].URL != "https://one.example/feed" {
		t.Errorf("unexpected first source: %+v", sources[0])
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("sources: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for invalid YAML")
	}
}

func TestDefaults(t *testing.T) {
	sources := Defaults()
	if len(sources) == 0 {
		t.Fatal("expected built-in sources")
	}
	for _, s := range sources {
		if s.Name == "" || s.URL == "" {
			t.Errorf("incomplete built-in source: %+v", s)
		}
	}
}
