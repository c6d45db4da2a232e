package controllers

import (
	"errors"
	"net/http"
	"popcorn/internal/models"
	"popcorn/internal/providers"
	"popcorn/internal/services"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/gorilla/mux"
)

const maxRequestBodySize = 1 << 10 // 1 KB

type ApiController struct {
	logger  providers.Logger
	session services.SessionInterface
	cache   providers.CacheProviderInterface
}

func NewApiController(logger providers.Logger, session services.SessionInterface, cache providers.CacheProviderInterface) *ApiController {
	return &ApiController{
		logger:  logger,
		session: session,
		cache:   cache,
	}
}

type ratingRequest struct {
	Rating int `json:"rating"`
}

type statsResponse struct {
	models.WatchedStats
	Display models.StatsDisplay `json:"display"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	gson, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

// writeActionError maps a failed user action to a status code.
func (ac *ApiController) writeActionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidRating):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrNothingSelected):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		ac.logger.Errorf(providers.TypeApp, "Watched list update failed: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (ac *ApiController) Search(w http.ResponseWriter, r *http.Request) {
	st := ac.session.Query(r.Context(), r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, st)
}

func (ac *ApiController) SelectMovie(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, ac.session.Select(r.Context(), id))
}

func (ac *ApiController) CloseMovie(w http.ResponseWriter, _ *http.Request) {
	ac.session.Close()
	w.WriteHeader(http.StatusNoContent)
}

func (ac *ApiController) Rate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload ratingRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	st, err := ac.session.Rate(r.Context(), payload.Rating)
	if err != nil {
		ac.writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (ac *ApiController) ToggleWatched(w http.ResponseWriter, r *http.Request) {
	st, err := ac.session.ToggleWatched(r.Context())
	if err != nil {
		ac.writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (ac *ApiController) GetWatched(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, ac.session.Watched())
}

func (ac *ApiController) DeleteWatched(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if err := ac.session.DeleteWatched(id); err != nil {
		ac.writeActionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ac *ApiController) ClearWatched(w http.ResponseWriter, _ *http.Request) {
	if err := ac.session.ClearWatched(); err != nil {
		ac.writeActionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetStats is cached per watched list revision, so any mutation invalidates it.
func (ac *ApiController) GetStats(w http.ResponseWriter, _ *http.Request) {
	stats, rev := ac.session.Stats()
	ac.serveFromCacheOrCompute(w, "stats:"+strconv.FormatUint(rev, 10), func() (any, error) {
		return statsResponse{WatchedStats: stats, Display: stats.Display()}, nil
	})
}

func (ac *ApiController) GetState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, ac.session.Snapshot())
}
