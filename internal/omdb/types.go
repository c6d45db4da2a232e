package omdb

import (
	"popcorn/internal/models"
	"strconv"
	"strings"
)

// envelope carries the fields every OMDb reply has.
type envelope struct {
	Response string `json:"Response"`
	Error    string `json:"Error"`
}

func (e envelope) failed() bool {
	return e.Response == "False"
}

type searchItem struct {
	ImdbID string `json:"imdbID"`
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	Poster string `json:"Poster"`
	Type   string `json:"Type"`
}

type searchResponse struct {
	envelope
	Search       []searchItem `json:"Search"`
	TotalResults string       `json:"totalResults"`
}

type detailsResponse struct {
	envelope
	ImdbID     string `json:"imdbID"`
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Poster     string `json:"Poster"`
	Runtime    string `json:"Runtime"`
	ImdbRating string `json:"imdbRating"`
	Plot       string `json:"Plot"`
	Released   string `json:"Released"`
	Actors     string `json:"Actors"`
	Director   string `json:"Director"`
	Genre      string `json:"Genre"`
}

func (r searchResponse) toSummaries() []models.SearchResultSummary {
	out := make([]models.SearchResultSummary, 0, len(r.Search))
	for _, item := range r.Search {
		out = append(out, models.SearchResultSummary{
			ImdbID: item.ImdbID,
			Title:  item.Title,
			Year:   item.Year,
			Poster: item.Poster,
			Type:   item.Type,
		})
	}
	return out
}

func (r detailsResponse) toDetails() models.MovieDetails {
	return models.MovieDetails{
		ImdbID:     r.ImdbID,
		Title:      r.Title,
		Year:       r.Year,
		Poster:     r.Poster,
		Runtime:    models.Runtime(r.Runtime),
		ImdbRating: parseRating(r.ImdbRating),
		Plot:       r.Plot,
		Released:   r.Released,
		Actors:     r.Actors,
		Director:   r.Director,
		Genre:      r.Genre,
	}
}

// parseRating turns "7.8" into 7.8; "N/A" and anything else unparsable is 0.
func parseRating(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}
