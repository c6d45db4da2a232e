package models

import (
	"fmt"
	"math"
	"strconv"
)

// Mean is an average that may be NaN. JSON has no NaN, so it is written as the
// string "NaN" and callers can still tell "no data" apart from 0.
type Mean float64

func (m Mean) IsNaN() bool {
	return math.IsNaN(float64(m))
}

func (m Mean) MarshalJSON() ([]byte, error) {
	if m.IsNaN() {
		return []byte(`"NaN"`), nil
	}
	return strconv.AppendFloat(nil, float64(m), 'f', -1, 64), nil
}

func (m *Mean) UnmarshalJSON(data []byte) error {
	if string(data) == `"NaN"` || string(data) == "null" {
		*m = Mean(math.NaN())
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid mean %s: %w", data, err)
	}
	*m = Mean(f)
	return nil
}

type WatchedStats struct {
	Count         int  `json:"count"`
	AvgImdbRating Mean `json:"avgImdbRating"`
	AvgUserRating Mean `json:"avgUserRating"`
	AvgRuntime    Mean `json:"avgRuntime"`
}

// StatsDisplay is the summary line as the front end prints it.
type StatsDisplay struct {
	Count      string `json:"count"`
	ImdbRating string `json:"imdbRating"`
	UserRating string `json:"userRating"`
	Runtime    string `json:"runtime"`
}

func average(values []float64) Mean {
	if len(values) == 0 {
		return Mean(math.NaN())
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return Mean(sum / float64(len(values)))
}

func Summarize(entries []WatchedEntry) WatchedStats {
	imdb := make([]float64, 0, len(entries))
	user := make([]float64, 0, len(entries))
	runtime := make([]float64, 0, len(entries))
	for _, e := range entries {
		imdb = append(imdb, e.ImdbRating)
		user = append(user, float64(e.UserRating))
		runtime = append(runtime, e.Runtime.Minutes())
	}

	return WatchedStats{
		Count:         len(entries),
		AvgImdbRating: average(imdb),
		AvgUserRating: average(user),
		AvgRuntime:    average(runtime),
	}
}

func (s WatchedStats) Display() StatsDisplay {
	return StatsDisplay{
		Count:      fmt.Sprintf("%d movies", s.Count),
		ImdbRating: fmt.Sprintf("%.2f", float64(s.AvgImdbRating)),
		UserRating: fmt.Sprintf("%.2f", float64(s.AvgUserRating)),
		Runtime:    fmt.Sprintf("%.0f min", float64(s.AvgRuntime)),
	}
}
