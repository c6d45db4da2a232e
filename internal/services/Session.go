package services

import (
	"context"
	"errors"
	"fmt"
	"popcorn/internal/models"
	"popcorn/internal/providers"
	"sync"
)

var (
	ErrNothingSelected = errors.New("no movie is selected")
	ErrInvalidRating   = fmt.Errorf("rating must be between 1 and %d", models.MaxRating)
)

type SessionInterface interface {
	Query(ctx context.Context, query string) SearchState
	Select(ctx context.Context, id string) DetailsState
	Close()
	Rate(ctx context.Context, rating int) (DetailsState, error)
	ToggleWatched(ctx context.Context) (DetailsState, error)
	DeleteWatched(id string) error
	ClearWatched() error
	Watched() []models.WatchedEntry
	Stats() (models.WatchedStats, uint64)
	Snapshot() SessionSnapshot
}

type SessionSnapshot struct {
	Query      string                `json:"query"`
	Search     SearchState           `json:"search"`
	SelectedID *string               `json:"selectedId"`
	Details    DetailsState          `json:"details"`
	Watched    []models.WatchedEntry `json:"watched"`
	Stats      models.WatchedStats   `json:"stats"`
}

// Session ties the search, the details pane and the watched list to one
// current selection. Its lock covers the selection only; network calls run
// outside it so a newer action can cancel an older one.
type Session struct {
	mu         sync.Mutex
	query      string
	selectedID *string

	search  *SearchController
	details *DetailsController
	store   *models.WatchedListStore
	logger  providers.Logger
}

func NewSession(search *SearchController, details *DetailsController, store *models.WatchedListStore, logger providers.Logger) SessionInterface {
	return &Session{
		search:  search,
		details: details,
		store:   store,
		logger:  logger,
	}
}

// Query starts a new search and drops the current selection.
func (s *Session) Query(ctx context.Context, query string) SearchState {
	s.mu.Lock()
	s.query = query
	s.selectedID = nil
	s.mu.Unlock()

	s.details.Reset()
	if query == "" {
		s.search.Clear()
		return s.search.State()
	}
	return s.search.Search(ctx, query)
}

// Select shows id, or closes it when it is already the selection.
func (s *Session) Select(ctx context.Context, id string) DetailsState {
	s.mu.Lock()
	if s.selectedID != nil && *s.selectedID == id {
		s.selectedID = nil
		s.mu.Unlock()
		s.details.Reset()
		return s.details.State()
	}
	s.selectedID = &id
	s.mu.Unlock()

	st := s.details.FetchOrReuse(ctx, &id, s.store.Entries())
	if st.ClearSelection {
		s.dropSelection(id)
	}
	return st
}

// dropSelection clears the selection if it still points at id.
func (s *Session) dropSelection(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectedID != nil && *s.selectedID == id {
		s.selectedID = nil
	}
}

func (s *Session) Close() {
	s.mu.Lock()
	s.selectedID = nil
	s.mu.Unlock()
	s.details.Reset()
}

func (s *Session) shown() (models.MovieDetails, error) {
	st := s.details.State()
	if st.Details == nil || st.IsLoading {
		return models.MovieDetails{}, ErrNothingSelected
	}
	return *st.Details, nil
}

// refresh resolves the shown movie again after the watched list changed.
func (s *Session) refresh(ctx context.Context, id string) DetailsState {
	st := s.details.FetchOrReuse(ctx, &id, s.store.Entries())
	if st.ClearSelection {
		s.dropSelection(id)
	}
	return st
}

// Rate gives the shown movie a user rating. A rated movie counts as watched:
// a movie already marked watched is updated in place, any other is added.
func (s *Session) Rate(ctx context.Context, rating int) (DetailsState, error) {
	if !models.ValidRating(rating) {
		return s.details.State(), ErrInvalidRating
	}
	current, err := s.shown()
	if err != nil {
		return s.details.State(), err
	}

	rated, changed := current.WithRating(rating)
	if !changed {
		return s.details.State(), nil
	}
	if err := s.store.UpsertRating(models.NewWatchedEntry(rated), current.IsWatched); err != nil {
		return s.details.State(), err
	}
	return s.refresh(ctx, current.ImdbID), nil
}

// ToggleWatched adds the shown movie to the watched list, or removes it when
// it is already there.
func (s *Session) ToggleWatched(ctx context.Context) (DetailsState, error) {
	current, err := s.shown()
	if err != nil {
		return s.details.State(), err
	}

	if _, ok := s.store.Find(current.ImdbID); ok {
		err = s.store.Remove(current.ImdbID)
	} else {
		err = s.store.Add(models.NewWatchedEntry(current.WithWatched(true)))
	}
	if err != nil {
		return s.details.State(), err
	}
	return s.refresh(ctx, current.ImdbID), nil
}

// DeleteWatched removes id from the watched list and closes the details pane.
func (s *Session) DeleteWatched(id string) error {
	s.Close()
	return s.store.Remove(id)
}

// ClearWatched empties the watched list and closes the details pane.
func (s *Session) ClearWatched() error {
	s.Close()
	return s.store.Clear()
}

func (s *Session) Watched() []models.WatchedEntry {
	return s.store.Entries()
}

// Stats summarizes the watched list. The revision identifies the list state
// the numbers were computed from.
func (s *Session) Stats() (models.WatchedStats, uint64) {
	entries, rev := s.store.EntriesWithRevision()
	return models.Summarize(entries), rev
}

func (s *Session) Snapshot() SessionSnapshot {
	s.mu.Lock()
	query := s.query
	var selected *string
	if s.selectedID != nil {
		id := *s.selectedID
		selected = &id
	}
	s.mu.Unlock()

	entries, _ := s.store.EntriesWithRevision()
	return SessionSnapshot{
		Query:      query,
		Search:     s.search.State(),
		SelectedID: selected,
		Details:    s.details.State(),
		Watched:    entries,
		Stats:      models.Summarize(entries),
	}
}
