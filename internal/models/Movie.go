package models

const MaxRating = 10

// SearchResultSummary is one row of a title search. It lives only as long as
// the search response it came from.
type SearchResultSummary struct {
	ImdbID string `json:"imdbID"`
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	Poster string `json:"Poster"`
	Type   string `json:"Type,omitempty"`
}

// MovieDetails is the full record shown in the details pane. The last three
// fields are owned locally and are the only ones a user action changes.
type MovieDetails struct {
	ImdbID     string  `json:"imdbID"`
	Title      string  `json:"Title"`
	Year       string  `json:"Year"`
	Poster     string  `json:"Poster"`
	Runtime    Runtime `json:"Runtime"`
	ImdbRating float64 `json:"imdbRating"`
	Plot       string  `json:"Plot,omitempty"`
	Released   string  `json:"Released,omitempty"`
	Actors     string  `json:"Actors,omitempty"`
	Director   string  `json:"Director,omitempty"`
	Genre      string  `json:"Genre,omitempty"`

	IsWatched            bool `json:"isWatched"`
	UserRating           int  `json:"userRating"`
	CountRatingDecisions int  `json:"countRatingDecisions"`
}

// Fresh returns a copy with the local fields reset, as for a record that was
// just fetched.
func (d MovieDetails) Fresh() MovieDetails {
	d.IsWatched = false
	d.UserRating = 0
	d.CountRatingDecisions = 0
	return d
}

// WithRating returns a copy rated r. Rating a movie marks it watched and counts
// one more rating decision. A zero or unchanged rating is not a decision and
// reports false.
func (d MovieDetails) WithRating(r int) (MovieDetails, bool) {
	if !ValidRating(r) || r == d.UserRating {
		return d, false
	}
	d.IsWatched = true
	d.UserRating = r
	d.CountRatingDecisions++
	return d, true
}

func (d MovieDetails) WithWatched(watched bool) MovieDetails {
	d.IsWatched = watched
	return d
}

func ValidRating(r int) bool {
	return r >= 1 && r <= MaxRating
}

// WatchedEntry is a movie held in the watched list. It is stored as one flat
// JSON object.
type WatchedEntry struct {
	MovieDetails
}

func NewWatchedEntry(d MovieDetails) WatchedEntry {
	return WatchedEntry{MovieDetails: d}
}

func (e WatchedEntry) Details() MovieDetails {
	return e.MovieDetails
}
