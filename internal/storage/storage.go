// Package storage caches translations across runs. AI news stories stay in
// the 48h window for two daily runs, so roughly half of every run's
// translations can be reused.
package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// TranslationCache stores provider output keyed by source text and locale.
// Implementations must be safe for concurrent use.
type TranslationCache interface {
	Get(key string) (string, bool)
	Put(key, value string) error
}

// Key derives a stable cache key from the source text and target locale.
func Key(text, locale string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(text)), " ")
	h := sha256.New()
	h.Write([]byte(normalized + "|" + locale))
	return hex.EncodeToString(h.Sum(nil))[:16]
}
