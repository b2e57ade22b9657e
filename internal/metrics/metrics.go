package metrics

import (
	"sync"
	"time"
)

// Metrics holds process-wide counters exposed by the monitoring endpoints.
type Metrics struct {
	mu sync.RWMutex

	// Counters
	RunsCompleted          int64
	ItemsCollected         int64
	DuplicatesFiltered     int64
	SuccessfulTranslations int64
	FailedTranslations     int64
	SourcesFailed          int64

	// Timings
	LastRunDuration    time.Duration
	TotalRunDuration   time.Duration
	AverageRunDuration time.Duration

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) AddItemsCollected(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ItemsCollected += int64(n)
}

func (m *Metrics) AddDuplicatesFiltered(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DuplicatesFiltered += int64(n)
}

func (m *Metrics) AddSuccessfulTranslations(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SuccessfulTranslations += int64(n)
}

func (m *Metrics) AddFailedTranslations(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FailedTranslations += int64(n)
}

func (m *Metrics) AddSourcesFailed(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SourcesFailed += int64(n)
}

// RecordRun marks a completed run and folds its duration into the averages.
func (m *Metrics) RecordRun(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RunsCompleted++
	m.LastRunDuration = duration
	m.TotalRunDuration += duration
	m.AverageRunDuration = m.TotalRunDuration / time.Duration(m.RunsCompleted)
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"runs_completed":          m.RunsCompleted,
		"items_collected":         m.ItemsCollected,
		"duplicates_filtered":     m.DuplicatesFiltered,
		"successful_translations": m.SuccessfulTranslations,
		"failed_translations":     m.FailedTranslations,
		"sources_failed":          m.SourcesFailed,
		"last_run_duration_ms":    m.LastRunDuration.Milliseconds(),
		"average_run_duration_ms": m.AverageRunDuration.Milliseconds(),
		"last_run_time":           m.LastRunTime.Format(time.RFC3339),
		"last_error_time":         m.LastErrorTime.Format(time.RFC3339),
		"last_error":              m.LastError,
		"is_healthy":              m.IsHealthy,
	}
}
