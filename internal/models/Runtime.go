package models

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"

	json "github.com/goccy/go-json"
)

var (
	numberLiteral = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)
	digitRun      = regexp.MustCompile(`[0-9]+`)
)

// Runtime is a movie length as the upstream API reports it ("148 min", "N/A")
// or as a bare number of minutes. It keeps the text it was given.
type Runtime string

func (r Runtime) isNumber() bool {
	return numberLiteral.MatchString(string(r))
}

// Minutes reads the runtime in minutes: a number is taken as is, text yields
// its first run of digits, anything else is 0.
func (r Runtime) Minutes() float64 {
	if r.isNumber() {
		f, err := strconv.ParseFloat(string(r), 64)
		if err == nil {
			return f
		}
	}
	run := digitRun.FindString(string(r))
	if run == "" {
		return 0
	}
	f, err := strconv.ParseFloat(run, 64)
	if err != nil {
		return 0
	}
	return f
}

func (r Runtime) MarshalJSON() ([]byte, error) {
	if r.isNumber() {
		return []byte(r), nil
	}
	return json.Marshal(string(r))
}

func (r *Runtime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*r = ""
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = Runtime(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("runtime must be a string or a number: %w", err)
	}
	*r = Runtime(n.String())
	return nil
}
