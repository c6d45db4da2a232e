package services

import (
	"context"
	"errors"
	"popcorn/internal/models"
	"popcorn/internal/omdb"
	"popcorn/internal/providers"
	"popcorn/internal/testutil"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func newTestDetails(fake *testutil.FakeOmdb) (*DetailsController, *testutil.MockMetrics) {
	metrics := testutil.NewMockMetrics()
	return NewDetailsController(fake, &testutil.MockLogger{}, metrics), metrics
}

func TestFetchOrReuse_NilSelectionIsNoop(t *testing.T) {
	fake := &testutil.FakeOmdb{}
	dc, _ := newTestDetails(fake)

	st := dc.FetchOrReuse(context.Background(), nil, nil)

	assert.Nil(t, st.Details)
	assert.Equal(t, 0, fake.DetailsCount())
}

func TestFetchOrReuse_FetchReturnsFreshRecord(t *testing.T) {
	fake := &testutil.FakeOmdb{
		DetailsFn: func(_ context.Context, id string) (models.MovieDetails, error) {
			return models.MovieDetails{
				ImdbID:               id,
				Title:                "The Batman",
				Runtime:              "176 min",
				ImdbRating:           7.8,
				IsWatched:            true,
				UserRating:           4,
				CountRatingDecisions: 3,
			}, nil
		},
	}
	dc, metrics := newTestDetails(fake)

	st := dc.FetchOrReuse(context.Background(), strPtr("tt2"), nil)

	require.NotNil(t, st.Details)
	assert.Equal(t, "The Batman", st.Details.Title)
	assert.False(t, st.Details.IsWatched)
	assert.Equal(t, 0, st.Details.UserRating)
	assert.Equal(t, 0, st.Details.CountRatingDecisions)
	assert.False(t, st.IsLoading)
	assert.False(t, st.ClearSelection)
	assert.Equal(t, 1, metrics.UpstreamCount(omdb.KindDetails, providers.OutcomeOK))
}

func TestFetchOrReuse_WatchedEntryIsReused(t *testing.T) {
	fake := &testutil.FakeOmdb{}
	dc, metrics := newTestDetails(fake)
	watched := []models.WatchedEntry{
		models.NewWatchedEntry(models.MovieDetails{ImdbID: "tt1", Title: "One", IsWatched: true, UserRating: 6, CountRatingDecisions: 2}),
		models.NewWatchedEntry(models.MovieDetails{ImdbID: "tt2", Title: "Two", IsWatched: true, UserRating: 9, CountRatingDecisions: 1}),
	}

	st := dc.FetchOrReuse(context.Background(), strPtr("tt2"), watched)

	assert.Equal(t, 0, fake.DetailsCount())
	require.NotNil(t, st.Details)
	assert.Equal(t, watched[1].Details(), *st.Details)
	assert.Equal(t, 1, metrics.UpstreamCount(omdb.KindDetails, providers.OutcomeReused))
}

func TestFetchOrReuse_ReinvokeAfterWatchedChangeUsesReuse(t *testing.T) {
	fake := &testutil.FakeOmdb{}
	dc, _ := newTestDetails(fake)

	st := dc.FetchOrReuse(context.Background(), strPtr("tt2"), nil)
	require.NotNil(t, st.Details)
	assert.Equal(t, 1, fake.DetailsCount())

	rated, _ := st.Details.WithRating(8)
	st = dc.FetchOrReuse(context.Background(), strPtr("tt2"), []models.WatchedEntry{models.NewWatchedEntry(rated)})

	assert.Equal(t, 1, fake.DetailsCount())
	assert.Equal(t, 8, st.Details.UserRating)
	assert.True(t, st.Details.IsWatched)
}

func TestFetchOrReuse_NotFound(t *testing.T) {
	fake := &testutil.FakeOmdb{
		DetailsFn: func(_ context.Context, _ string) (models.MovieDetails, error) {
			return models.MovieDetails{}, omdb.ErrNotFound
		},
	}
	dc, _ := newTestDetails(fake)

	st := dc.FetchOrReuse(context.Background(), strPtr("tt404"), nil)

	assert.Nil(t, st.Details)
	assert.Equal(t, MsgDetailsNotFound, st.Error)
	assert.True(t, st.ClearSelection)
	assert.False(t, st.IsLoading)
}

func TestFetchOrReuse_TransportFailure(t *testing.T) {
	fake := &testutil.FakeOmdb{
		DetailsFn: func(_ context.Context, _ string) (models.MovieDetails, error) {
			return models.MovieDetails{}, errors.New("connection refused")
		},
	}
	dc, metrics := newTestDetails(fake)

	st := dc.FetchOrReuse(context.Background(), strPtr("tt2"), nil)

	assert.Nil(t, st.Details)
	assert.Equal(t, MsgDetailsFailed, st.Error)
	assert.True(t, st.ClearSelection)
	assert.Equal(t, 1, metrics.UpstreamCount(omdb.KindDetails, providers.OutcomeError))
}

func TestFetchOrReuse_ClearError(t *testing.T) {
	fake := &testutil.FakeOmdb{
		DetailsFn: func(_ context.Context, _ string) (models.MovieDetails, error) {
			return models.MovieDetails{}, omdb.ErrNotFound
		},
	}
	dc, _ := newTestDetails(fake)
	dc.FetchOrReuse(context.Background(), strPtr("tt404"), nil)

	dc.ClearError()

	st := dc.State()
	assert.Empty(t, st.Error)
	assert.False(t, st.ClearSelection)
	assert.False(t, st.IsLoading)
}

func TestFetchOrReuse_NewerSelectionWins(t *testing.T) {
	started := make(chan struct{})
	fake := &testutil.FakeOmdb{
		DetailsFn: func(ctx context.Context, id string) (models.MovieDetails, error) {
			if id == "tt1" {
				close(started)
				<-ctx.Done()
				return models.MovieDetails{}, ctx.Err()
			}
			return models.MovieDetails{ImdbID: id, Title: "Two"}, nil
		},
	}
	dc, metrics := newTestDetails(fake)

	done := make(chan struct{})
	go func() {
		dc.FetchOrReuse(context.Background(), strPtr("tt1"), nil)
		close(done)
	}()
	<-started

	st := dc.FetchOrReuse(context.Background(), strPtr("tt2"), nil)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("older fetch was not cancelled")
	}

	require.NotNil(t, st.Details)
	assert.Equal(t, "tt2", dc.State().Details.ImdbID)
	assert.Empty(t, dc.State().Error)
	assert.Equal(t, 1, metrics.UpstreamCount(omdb.KindDetails, providers.OutcomeCancelled))
}

func TestFetchOrReuse_ReuseCancelsInFlightFetch(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	fake := &testutil.FakeOmdb{
		DetailsFn: func(_ context.Context, id string) (models.MovieDetails, error) {
			close(started)
			<-release
			return models.MovieDetails{ImdbID: id, Title: "late"}, nil
		},
	}
	dc, _ := newTestDetails(fake)

	done := make(chan struct{})
	go func() {
		dc.FetchOrReuse(context.Background(), strPtr("tt1"), nil)
		close(done)
	}()
	<-started

	watched := []models.WatchedEntry{models.NewWatchedEntry(models.MovieDetails{ImdbID: "tt2", Title: "stored"})}
	dc.FetchOrReuse(context.Background(), strPtr("tt2"), watched)
	close(release)
	<-done

	assert.Equal(t, "stored", dc.State().Details.Title)
}

func TestDetailsReset(t *testing.T) {
	dc, _ := newTestDetails(&testutil.FakeOmdb{})
	dc.FetchOrReuse(context.Background(), strPtr("tt1"), nil)

	dc.Reset()

	assert.Equal(t, DetailsState{}, dc.State())
}
