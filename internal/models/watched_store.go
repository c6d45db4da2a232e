package models

import (
	"errors"
	"fmt"
	"popcorn/internal/providers"
	"sync"
	"time"

	json "github.com/goccy/go-json"
)

// WatchedKey is the storage key holding the whole watched list.
const WatchedKey = "watched"

var ErrMissingID = errors.New("watched entry has no imdbID")

// KeyValueStoreInterface is durable storage for whole values under a key.
// Get returns nil, nil for a key that was never written.
type KeyValueStoreInterface interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
}

// WatchedListStore is the ordered watched list. Every mutation writes the
// whole list back to storage before returning.
type WatchedListStore struct {
	mu       sync.RWMutex
	entries  []WatchedEntry
	revision uint64
	kv       KeyValueStoreInterface
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface
}

func NewWatchedListStore(kv KeyValueStoreInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) *WatchedListStore {
	return &WatchedListStore{
		entries: make([]WatchedEntry, 0),
		kv:      kv,
		logger:  logger,
		metrics: metrics,
	}
}

// Load replaces the in-memory list with the stored one. A missing, null or
// undecodable value leaves the list empty; only a storage read failure is
// returned.
func (s *WatchedListStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make([]WatchedEntry, 0)
	s.revision++

	data, err := s.kv.Get(WatchedKey)
	if err != nil {
		return fmt.Errorf("read watched list: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var stored []WatchedEntry
	if err := json.Unmarshal(data, &stored); err != nil {
		s.logger.Warnf(providers.TypeApp, "Stored watched list is malformed, starting empty: %s", err)
		return nil
	}

	for _, e := range stored {
		if e.ImdbID == "" || s.indexOf(e.ImdbID) >= 0 {
			continue
		}
		s.entries = append(s.entries, e)
	}
	s.metrics.SetWatchedTotal(len(s.entries))
	s.logger.Infof(providers.TypeApp, "Loaded %d watched movies", len(s.entries))
	return nil
}

func (s *WatchedListStore) indexOf(id string) int {
	for i := range s.entries {
		if s.entries[i].ImdbID == id {
			return i
		}
	}
	return -1
}

// save must be called with the write lock held.
func (s *WatchedListStore) save() error {
	s.revision++

	data, err := json.Marshal(s.entries)
	if err != nil {
		return fmt.Errorf("encode watched list: %w", err)
	}

	start := time.Now()
	err = s.kv.Set(WatchedKey, data)
	s.metrics.ObservePersistenceDuration(time.Since(start))
	s.metrics.SetWatchedTotal(len(s.entries))
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting watched list: %s", err)
		return fmt.Errorf("write watched list: %w", err)
	}
	return nil
}

// Add appends e unless an entry with the same id is already there.
func (s *WatchedListStore) Add(e WatchedEntry) error {
	if e.ImdbID == "" {
		return ErrMissingID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(e.ImdbID) >= 0 {
		return nil
	}
	s.entries = append(s.entries, e)
	return s.save()
}

// Update copies the user-owned fields of e onto the existing entry, keeping its
// position. An unknown id is added.
func (s *WatchedListStore) Update(e WatchedEntry) error {
	if e.ImdbID == "" {
		return ErrMissingID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(e.ImdbID)
	if i < 0 {
		s.entries = append(s.entries, e)
		return s.save()
	}
	s.entries[i].UserRating = e.UserRating
	s.entries[i].CountRatingDecisions = e.CountRatingDecisions
	s.entries[i].IsWatched = e.IsWatched
	return s.save()
}

func (s *WatchedListStore) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	s.entries = append(s.entries[:i:i], s.entries[i+1:]...)
	return s.save()
}

// UpsertRating routes a rating change: an update goes through Update, anything
// else through Add, which never overwrites an existing entry.
func (s *WatchedListStore) UpsertRating(e WatchedEntry, isUpdate bool) error {
	if isUpdate {
		return s.Update(e)
	}
	return s.Add(e)
}

func (s *WatchedListStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make([]WatchedEntry, 0)
	return s.save()
}

func (s *WatchedListStore) Find(id string) (WatchedEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return WatchedEntry{}, false
	}
	return s.entries[i], true
}

// Entries returns a copy of the list in insertion order.
func (s *WatchedListStore) Entries() []WatchedEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]WatchedEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *WatchedListStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Revision changes on every mutation; it keys cached views of the list.
func (s *WatchedListStore) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// EntriesWithRevision returns Entries and Revision read under one lock.
func (s *WatchedListStore) EntriesWithRevision() ([]WatchedEntry, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]WatchedEntry, len(s.entries))
	copy(out, s.entries)
	return out, s.revision
}
