package app

import (
	"github.com/bubbles39/AINews/internal/config"
	"github.com/bubbles39/AINews/internal/logger"
	"github.com/bubbles39/AINews/internal/storage"
)

// openCache picks the translation cache backend: Postgres when DATABASE_URL
// is set, otherwise the file cache, otherwise none. The returned closer
// flushes and releases whatever was opened. A broken cache only costs
// provider calls, so every failure here degrades to no cache.
func openCache(cfg *config.Config) (storage.TranslationCache, func()) {
	if cfg.DatabaseURL != "" {
		pc, err := storage.NewPostgresCache(cfg.DatabaseURL, cfg.CacheTTLHours)
		if err != nil {
			logger.Warn("postgres translation cache unavailable", "error", err)
		} else {
			pc.Cleanup()
			return pc, func() {
				if err := pc.Close(); err != nil {
					logger.Warn("closing translation cache", "error", err)
				}
			}
		}
	}

	if cfg.CacheFilePath == "" {
		return nil, func() {}
	}

	fc := storage.NewFileCache(cfg.CacheFilePath, cfg.CacheTTLHours)
	if err := fc.Load(); err != nil {
		logger.Warn("translation cache unreadable, starting empty", "path", cfg.CacheFilePath, "error", err)
	} else if fc.Len() > 0 {
		logger.Debug("translation cache loaded", "entries", fc.Len())
	}
	return fc, func() {
		if err := fc.Save(); err != nil {
			logger.Warn("failed to save translation cache", "error", err)
		}
	}
}
