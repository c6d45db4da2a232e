package services

import (
	"context"
	"errors"
	"popcorn/internal/models"
	"popcorn/internal/omdb"
	"popcorn/internal/providers"
	"sync"
)

const (
	MsgDetailsNotFound = "Movie Details Not Found"
	MsgDetailsFailed   = "Something Went Wrong: Unable to fetch movie details"
)

type DetailsState struct {
	Details   *models.MovieDetails `json:"details"`
	IsLoading bool                 `json:"isLoading"`
	Error     string               `json:"error"`
	// ClearSelection asks the caller to drop its selected id after a failed fetch.
	ClearSelection bool `json:"clearSelection"`
}

func (s DetailsState) clone() DetailsState {
	if s.Details != nil {
		d := *s.Details
		s.Details = &d
	}
	return s
}

// DetailsController resolves the selected movie, from the watched list when it
// is there and from OMDb otherwise.
type DetailsController struct {
	mu      sync.Mutex
	client  omdb.DetailsFetcher
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
	slot    latestRequest
	state   DetailsState
}

func NewDetailsController(client omdb.DetailsFetcher, logger providers.Logger, metrics providers.MetricsProviderInterface) *DetailsController {
	return &DetailsController{
		client:  client,
		logger:  logger,
		metrics: metrics,
	}
}

func findWatched(watched []models.WatchedEntry, id string) (models.WatchedEntry, bool) {
	for _, e := range watched {
		if e.ImdbID == id {
			return e, true
		}
	}
	return models.WatchedEntry{}, false
}

// FetchOrReuse resolves selectedID. A nil id leaves the state untouched. An id
// found in watched is served from there without a network call.
func (dc *DetailsController) FetchOrReuse(ctx context.Context, selectedID *string, watched []models.WatchedEntry) DetailsState {
	if selectedID == nil {
		return dc.State()
	}
	id := *selectedID

	dc.mu.Lock()
	if entry, ok := findWatched(watched, id); ok {
		dc.slot.invalidate()
		details := entry.Details()
		dc.state = DetailsState{Details: &details}
		st := dc.state.clone()
		dc.mu.Unlock()
		dc.metrics.IncUpstreamRequests(omdb.KindDetails, providers.OutcomeReused)
		return st
	}

	token := dc.slot.begin(ctx)
	dc.state = DetailsState{IsLoading: true}
	dc.mu.Unlock()

	details, err := dc.client.Details(token.ctx, id)

	dc.mu.Lock()
	defer dc.mu.Unlock()

	if !dc.slot.isCurrent(token) {
		dc.metrics.IncUpstreamRequests(omdb.KindDetails, providers.OutcomeCancelled)
		return dc.state.clone()
	}
	dc.slot.finish(token)
	dc.state.IsLoading = false

	switch {
	case err == nil:
		fresh := details.Fresh()
		dc.state.Details = &fresh
		dc.state.Error = ""
		dc.metrics.IncUpstreamRequests(omdb.KindDetails, providers.OutcomeOK)
	case errors.Is(err, context.Canceled):
		dc.metrics.IncUpstreamRequests(omdb.KindDetails, providers.OutcomeCancelled)
	case errors.Is(err, omdb.ErrNotFound):
		dc.state.Details = nil
		dc.state.Error = MsgDetailsNotFound
		dc.state.ClearSelection = true
		dc.metrics.IncUpstreamRequests(omdb.KindDetails, providers.OutcomeNotFound)
	default:
		dc.logger.Warnf(providers.TypeOmdb, "Details for %s failed: %s", id, err)
		dc.state.Details = nil
		dc.state.Error = MsgDetailsFailed
		dc.state.ClearSelection = true
		dc.metrics.IncUpstreamRequests(omdb.KindDetails, providers.OutcomeError)
	}

	return dc.state.clone()
}

func (dc *DetailsController) State() DetailsState {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	return dc.state.clone()
}

func (dc *DetailsController) ClearError() {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	dc.state.IsLoading = false
	dc.state.Error = ""
	dc.state.ClearSelection = false
}

// Reset cancels any running fetch and forgets the shown record.
func (dc *DetailsController) Reset() {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	dc.slot.invalidate()
	dc.state = DetailsState{}
}
