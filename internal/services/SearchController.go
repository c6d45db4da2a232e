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
	MsgMovieNotFound = "Movie Not Found"
	MsgSearchFailed  = "Something Went Wrong: Unable to fetch movies"
)

type SearchState struct {
	Query     string                       `json:"query"`
	Results   []models.SearchResultSummary `json:"results"`
	IsLoading bool                         `json:"isLoading"`
	Error     string                       `json:"error"`
}

func (s SearchState) clone() SearchState {
	results := make([]models.SearchResultSummary, len(s.Results))
	copy(results, s.Results)
	s.Results = results
	return s
}

// SearchController runs title searches. Only the most recently submitted
// query may change its state; older requests are cancelled and their results
// dropped.
type SearchController struct {
	mu      sync.Mutex
	client  omdb.Searcher
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
	slot    latestRequest
	state   SearchState
}

func NewSearchController(client omdb.Searcher, logger providers.Logger, metrics providers.MetricsProviderInterface) *SearchController {
	return &SearchController{
		client:  client,
		logger:  logger,
		metrics: metrics,
		state:   SearchState{Results: []models.SearchResultSummary{}},
	}
}

// Search submits query and waits for it to settle. If a newer query arrives
// first, the returned state is whatever the newer query has produced so far.
func (sc *SearchController) Search(ctx context.Context, query string) SearchState {
	sc.mu.Lock()
	if query == "" {
		sc.slot.invalidate()
		sc.state = SearchState{Results: []models.SearchResultSummary{}}
		st := sc.state.clone()
		sc.mu.Unlock()
		return st
	}

	token := sc.slot.begin(ctx)
	sc.state = SearchState{
		Query:     query,
		Results:   []models.SearchResultSummary{},
		IsLoading: true,
	}
	sc.mu.Unlock()

	results, err := sc.client.Search(token.ctx, query)

	sc.mu.Lock()
	defer sc.mu.Unlock()

	if !sc.slot.isCurrent(token) {
		sc.metrics.IncUpstreamRequests(omdb.KindSearch, providers.OutcomeCancelled)
		return sc.state.clone()
	}
	sc.slot.finish(token)
	sc.state.IsLoading = false

	switch {
	case err == nil:
		if results == nil {
			results = []models.SearchResultSummary{}
		}
		sc.state.Results = results
		sc.state.Error = ""
		sc.metrics.IncUpstreamRequests(omdb.KindSearch, providers.OutcomeOK)
	case errors.Is(err, context.Canceled):
		sc.metrics.IncUpstreamRequests(omdb.KindSearch, providers.OutcomeCancelled)
	case errors.Is(err, omdb.ErrNotFound):
		sc.state.Error = MsgMovieNotFound
		sc.metrics.IncUpstreamRequests(omdb.KindSearch, providers.OutcomeNotFound)
	default:
		sc.logger.Warnf(providers.TypeOmdb, "Search %q failed: %s", query, err)
		sc.state.Error = MsgSearchFailed
		sc.metrics.IncUpstreamRequests(omdb.KindSearch, providers.OutcomeError)
	}

	return sc.state.clone()
}

func (sc *SearchController) State() SearchState {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.state.clone()
}

// Clear cancels any running search and empties the result list.
func (sc *SearchController) Clear() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.slot.invalidate()
	sc.state = SearchState{Results: []models.SearchResultSummary{}}
}
