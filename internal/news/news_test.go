package news

import (
	"math/rand"
	"reflect"
	"testing"
	"time"
)

func TestFilterRecent_WindowBoundary(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	window := 48 * time.Hour

	items := []Item{
		{Link: "a", Published: now.Add(-window)},                   // exactly on the boundary
		{Link: "b", Published: now.Add(-window - time.Second)},     // one second too old
		{Link: "c", Published: now.Add(-2 * time.Hour)},            // well inside
		{Link: "d", Published: now.Add(time.Minute)},               // future, beyond zero skew
		{Link: "e", Published: now},                                // right now
	}

	got := FilterRecent(items, now, window, 0)

	want := []string{"a", "c", "e"}
	if len(got) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(got))
	}
	for i, link := range want {
		if got[i].Link != link {
			t.Errorf("item %d: expected link %q, got %q", i, link, got[i].Link)
		}
	}
}

func TestFilterRecent_ClockSkew(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	skew := 5 * time.Minute

	items := []Item{
		{Link: "fresh", Published: now.Add(3 * time.Minute)},
		{Link: "too-far", Published: now.Add(10 * time.Minute)},
	}

	got := FilterRecent(items, now, 48*time.Hour, skew)
	if len(got) != 1 || got[0].Link != "fresh" {
		t.Fatalf("expected only the item inside skew tolerance, got %+v", got)
	}
}

func TestFilterRecent_EmptyResultIsValid(t *testing.T) {
	now := time.Now()
	items := []Item{{Link: "old", Published: now.Add(-100 * time.Hour)}}

	got := FilterRecent(items, now, 48*time.Hour, 0)
	if len(got) != 0 {
		t.Fatalf("expected no items, got %d", len(got))
	}
}

func TestDeduplicate_SameLinkMergesSources(t *testing.T) {
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	items := []Item{
		{Title: "Model released", Link: "https://example.com/story", Published: base, Source: "Source A"},
		{Title: "Model released (updated)", Link: "https://example.com/story", Published: base.Add(-time.Hour), Source: "Source B"},
	}

	got := Deduplicate(items)
	if len(got) != 1 {
		t.Fatalf("expected 1 item, got %d", len(got))
	}

	rep := got[0]
	if !rep.Published.Equal(base.Add(-time.Hour)) {
		t.Errorf("expected earliest published time, got %v", rep.Published)
	}
	if rep.Source != "Source B" {
		t.Errorf("expected representative from Source B, got %q", rep.Source)
	}
	if want := []string{"Source A", "Source B"}; !reflect.DeepEqual(rep.Sources, want) {
		t.Errorf("expected sources %v, got %v", want, rep.Sources)
	}
}

func TestDeduplicate_NormalizedTitleMatch(t *testing.T) {
	base := time.Now()

	items := []Item{
		{Title: "OpenAI Ships GPT-5!", Link: "https://a.example/1", Published: base, Source: "A"},
		{Title: "openai ships gpt-5", Link: "https://b.example/1?utm_source=rss", Published: base.Add(-time.Minute), Source: "B"},
		{Title: "Something unrelated", Link: "https://c.example/2", Published: base, Source: "C"},
	}

	got := Deduplicate(items)
	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got))
	}
}

func TestDeduplicate_TieBreakBySourceName(t *testing.T) {
	ts := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	items := []Item{
		{Title: "Same story", Link: "https://example.com/x", Published: ts, Source: "Zeta"},
		{Title: "Same story", Link: "https://example.com/x", Published: ts, Source: "Alpha"},
	}

	got := Deduplicate(items)
	if len(got) != 1 {
		t.Fatalf("expected 1 item, got %d", len(got))
	}
	if got[0].Source != "Alpha" {
		t.Errorf("expected lexicographically first source as representative, got %q", got[0].Source)
	}
}

func TestDeduplicate_OrderIndependent(t *testing.T) {
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	items := []Item{
		{Title: "Story one", Link: "https://a.example/1", Published: base.Add(-time.Hour), Source: "A"},
		{Title: "Story one", Link: "https://b.example/1", Published: base, Source: "B"},
		{Title: "Story two", Link: "https://a.example/2", Published: base, Source: "A"},
		{Title: "Story three", Link: "https://c.example/3", Published: base.Add(-2 * time.Hour), Source: "C"},
	}

	want := Deduplicate(items)

	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 10; trial++ {
		shuffled := make([]Item, len(items))
		copy(shuffled, items)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		got := Deduplicate(shuffled)
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("trial %d: dedup result depends on input order:\nwant %+v\ngot  %+v", trial, want, got)
		}
	}
}

func TestDeduplicate_Idempotent(t *testing.T) {
	base := time.Now()

	items := []Item{
		{Title: "Story one", Link: "https://a.example/1", Published: base, Source: "A"},
		{Title: "Story one", Link: "https://b.example/1", Published: base.Add(-time.Hour), Source: "B"},
		{Title: "Story two", Link: "https://a.example/2", Published: base, Source: "A"},
	}

	once := Deduplicate(items)
	twice := Deduplicate(once)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("dedup is not a fixed point:\nonce  %+v\ntwice %+v", once, twice)
	}
}

func TestDeduplicate_TransitiveClasses(t *testing.T) {
	base := time.Now()

	// a~b share a link, b~c share a title: all three are one story.
	items := []Item{
		{Title: "First headline", Link: "https://example.com/x", Published: base, Source: "A"},
		{Title: "Second headline", Link: "https://example.com/x", Published: base, Source: "B"},
		{Title: "Second headline", Link: "https://mirror.example/y", Published: base, Source: "C"},
	}

	got := Deduplicate(items)
	if len(got) != 1 {
		t.Fatalf("expected a single merged story, got %d", len(got))
	}
	if want := []string{"A", "B", "C"}; !reflect.DeepEqual(got[0].Sources, want) {
		t.Errorf("expected sources %v, got %v", want, got[0].Sources)
	}
}

func TestSortNewestFirst(t *testing.T) {
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	items := []Item{
		{Link: "older", Published: base.Add(-2 * time.Hour)},
		{Link: "newest", Published: base},
		{Link: "middle", Published: base.Add(-time.Hour)},
	}

	SortNewestFirst(items)

	want := []string{"newest", "middle", "older"}
	for i, link := range want {
		if items[i].Link != link {
			t.Errorf("position %d: expected %q, got %q", i, link, items[i].Link)
		}
	}
}
