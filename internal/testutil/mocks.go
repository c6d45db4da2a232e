package testutil

import (
	"context"
	"errors"
	"popcorn/internal/models"
	"popcorn/internal/providers"
	"sync"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

// MockCompressor implements storage.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	// Default: return as-is (identity)
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {}

// Count returns how many records were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.Logs {
		if l.Level == level {
			n++
		}
	}
	return n
}

// MockMetrics implements providers.MetricsProviderInterface and records the
// domain counters.
type MockMetrics struct {
	mu           sync.Mutex
	Upstream     map[string]int // key: "kind:outcome"
	WatchedTotal int
	Persisted    int
	CacheHits    int
	CacheMisses  int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{Upstream: make(map[string]int)}
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}
func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}
func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Persisted++
}
func (m *MockMetrics) SetWatchedTotal(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WatchedTotal = count
}
func (m *MockMetrics) IncUpstreamRequests(kind, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Upstream[kind+":"+outcome]++
}

func (m *MockMetrics) UpstreamCount(kind, outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Upstream[kind+":"+outcome]
}

var ErrMockStorage = errors.New("mock storage failure")

// MockKV implements models.KeyValueStoreInterface in memory.
type MockKV struct {
	mu       sync.Mutex
	Data     map[string][]byte
	Sets     int
	GetErr   error
	FailSets bool
}

func NewMockKV() *MockKV {
	return &MockKV{Data: make(map[string][]byte)}
}

func (m *MockKV) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	v, ok := m.Data[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *MockKV) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sets++
	if m.FailSets {
		return ErrMockStorage
	}
	out := make([]byte, len(value))
	copy(out, value)
	m.Data[key] = out
	return nil
}

// FakeOmdb implements omdb.Searcher and omdb.DetailsFetcher. Unset functions
// answer with an empty result.
type FakeOmdb struct {
	mu           sync.Mutex
	SearchFn     func(ctx context.Context, query string) ([]models.SearchResultSummary, error)
	DetailsFn    func(ctx context.Context, id string) (models.MovieDetails, error)
	SearchCalls  []string
	DetailsCalls []string
}

func (f *FakeOmdb) Search(ctx context.Context, query string) ([]models.SearchResultSummary, error) {
	f.mu.Lock()
	f.SearchCalls = append(f.SearchCalls, query)
	fn := f.SearchFn
	f.mu.Unlock()
	if fn == nil {
		return []models.SearchResultSummary{}, nil
	}
	return fn(ctx, query)
}

func (f *FakeOmdb) Details(ctx context.Context, id string) (models.MovieDetails, error) {
	f.mu.Lock()
	f.DetailsCalls = append(f.DetailsCalls, id)
	fn := f.DetailsFn
	f.mu.Unlock()
	if fn == nil {
		return models.MovieDetails{ImdbID: id}, nil
	}
	return fn(ctx, id)
}

func (f *FakeOmdb) SearchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.SearchCalls)
}

func (f *FakeOmdb) DetailsCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.DetailsCalls)
}
