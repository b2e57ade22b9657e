package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// cachedTranslation is one persisted entry.
type cachedTranslation struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

// FileCache keeps translations in a JSON file between runs.
type FileCache struct {
	filePath string
	ttl      time.Duration
	items    map[string]cachedTranslation
	mu       sync.RWMutex
}

func NewFileCache(filePath string, ttlHours int) *FileCache {
	return &FileCache{
		filePath: filePath,
		ttl:      time.Duration(ttlHours) * time.Hour,
		items:    make(map[string]cachedTranslation),
	}
}

// Load reads the cache file, dropping expired entries. A missing file is an
// empty cache, not an error.
func (fc *FileCache) Load() error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	data, err := os.ReadFile(fc.filePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read cache file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var entries []cachedTranslation
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("failed to unmarshal cache: %w", err)
	}

	cutoff := time.Now().Add(-fc.ttl)
	for _, e := range entries {
		if e.CreatedAt.After(cutoff) {
			fc.items[e.Key] = e
		}
	}
	return nil
}

// Save writes the current entries back to disk.
func (fc *FileCache) Save() error {
	fc.mu.RLock()
	entries := make([]cachedTranslation, 0, len(fc.items))
	for _, e := range fc.items {
		entries = append(entries, e)
	}
	fc.mu.RUnlock()

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}
	if err := os.WriteFile(fc.filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return nil
}

func (fc *FileCache) Get(key string) (string, bool) {
	fc.mu.RLock()
	defer fc.mu.RUnlock()

	e, ok := fc.items[key]
	if !ok {
		return "", false
	}
	if e.CreatedAt.Before(time.Now().Add(-fc.ttl)) {
		return "", false
	}
	return e.Value, true
}

func (fc *FileCache) Put(key, value string) error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	fc.items[key] = cachedTranslation{
		Key:       key,
		Value:     value,
		CreatedAt: time.Now(),
	}
	return nil
}

// Len reports how many entries are loaded.
func (fc *FileCache) Len() int {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	return len(fc.items)
}
