package omdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"popcorn/internal/structures"
	"popcorn/internal/testutil"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	conf := &structures.Config{
		Omdb: structures.OmdbConfig{BaseURL: srv.URL + "/", ApiKey: "secret", Timeout: 2 * time.Second},
	}
	return NewClient(conf, &testutil.MockLogger{})
}

func TestSearch_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.URL.Query().Get("apikey"))
		assert.Equal(t, "the batman", r.URL.Query().Get("s"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Search":[
			{"Title":"Batman Begins","Year":"2005","imdbID":"tt1","Type":"movie","Poster":"p1"},
			{"Title":"The Batman","Year":"2022","imdbID":"tt2","Type":"movie","Poster":"p2"},
			{"Title":"Batman","Year":"1989","imdbID":"tt3","Type":"movie","Poster":"N/A"}
		],"totalResults":"3","Response":"True"}`))
	})

	results, err := c.Search(context.Background(), "the batman")

	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "tt2", results[1].ImdbID)
	assert.Equal(t, "The Batman", results[1].Title)
	assert.Equal(t, "2022", results[1].Year)
	assert.Equal(t, "p2", results[1].Poster)
}

func TestSearch_MissingListIsEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"Response":"True"}`))
	})

	results, err := c.Search(context.Background(), "x")

	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestSearch_ResponseFalseIsNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"Response":"False","Error":"Movie not found!"}`))
	})

	_, err := c.Search(context.Background(), "zzzzz")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "Movie not found!")
}

func TestSearch_Non2xx(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.Search(context.Background(), "batman")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.True(t, apiErr.IsAuthError())
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestSearch_ResponseFalseWinsOverStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"Response":"False","Error":"Too many results."}`))
	})

	_, err := c.Search(context.Background(), "a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearch_MalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	})

	_, err := c.Search(context.Background(), "batman")

	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestSearch_Cancelled(t *testing.T) {
	block := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	})
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := c.Search(ctx, "batman")

	assert.ErrorIs(t, err, context.Canceled)
}

func TestDetails_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tt2", r.URL.Query().Get("i"))
		_, _ = w.Write([]byte(`{"Title":"The Batman","Year":"2022","Runtime":"176 min",
			"Genre":"Action, Crime","Director":"Matt Reeves","Actors":"Robert Pattinson",
			"Plot":"Batman ventures...","Poster":"p2","imdbRating":"7.8","imdbID":"tt2",
			"Released":"04 Mar 2022","Response":"True"}`))
	})

	d, err := c.Details(context.Background(), "tt2")

	require.NoError(t, err)
	assert.Equal(t, "tt2", d.ImdbID)
	assert.Equal(t, "The Batman", d.Title)
	assert.Equal(t, 7.8, d.ImdbRating)
	assert.Equal(t, 176.0, d.Runtime.Minutes())
	assert.Equal(t, "Matt Reeves", d.Director)
	assert.False(t, d.IsWatched)
	assert.Equal(t, 0, d.UserRating)
}

func TestDetails_FillsMissingID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"Title":"X","imdbRating":"N/A","Runtime":"N/A","Response":"True"}`))
	})

	d, err := c.Details(context.Background(), "tt7")

	require.NoError(t, err)
	assert.Equal(t, "tt7", d.ImdbID)
	assert.Equal(t, 0.0, d.ImdbRating)
	assert.Equal(t, 0.0, d.Runtime.Minutes())
}

func TestDetails_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"Response":"False","Error":"Incorrect IMDb ID."}`))
	})

	_, err := c.Details(context.Background(), "bogus")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRequestURL_KeepsBaseQuery(t *testing.T) {
	c := &Client{baseURL: "http://example.test/?type=movie", apiKey: "k"}

	u, err := c.requestURL(map[string][]string{"s": {"a b&c"}})

	require.NoError(t, err)
	assert.Equal(t, "http://example.test/?apikey=k&s=a+b%26c&type=movie", u)
}

func TestParseRating(t *testing.T) {
	assert.Equal(t, 7.8, parseRating("7.8"))
	assert.Equal(t, 0.0, parseRating("N/A"))
	assert.Equal(t, 0.0, parseRating(""))
}
