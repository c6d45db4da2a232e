// Package omdb talks to the Open Movie Database search and details endpoints.
package omdb

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"popcorn/internal/models"
	"popcorn/internal/providers"
	"popcorn/internal/structures"

	json "github.com/goccy/go-json"
)

const (
	KindSearch  = "search"
	KindDetails = "details"
)

type Searcher interface {
	Search(ctx context.Context, query string) ([]models.SearchResultSummary, error)
}

type DetailsFetcher interface {
	Details(ctx context.Context, id string) (models.MovieDetails, error)
}

// Client issues one GET per call; cancelling ctx aborts the request.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     providers.Logger
}

func NewClient(conf *structures.Config, logger providers.Logger) *Client {
	return &Client{
		baseURL: conf.Omdb.BaseURL,
		apiKey:  conf.Omdb.ApiKey,
		httpClient: &http.Client{
			Timeout: conf.Omdb.Timeout,
		},
		logger: logger,
	}
}

// Search looks titles up by free text. A reply without a Search list is an
// empty result, not an error.
func (c *Client) Search(ctx context.Context, query string) ([]models.SearchResultSummary, error) {
	params := url.Values{}
	params.Set("s", query)

	var resp searchResponse
	if err := c.get(ctx, KindSearch, params, &resp); err != nil {
		return nil, err
	}
	if resp.failed() {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, resp.Error)
	}
	return resp.toSummaries(), nil
}

func (c *Client) Details(ctx context.Context, id string) (models.MovieDetails, error) {
	params := url.Values{}
	params.Set("i", id)

	var resp detailsResponse
	if err := c.get(ctx, KindDetails, params, &resp); err != nil {
		return models.MovieDetails{}, err
	}
	if resp.failed() {
		return models.MovieDetails{}, fmt.Errorf("%w: %s", ErrNotFound, resp.Error)
	}

	details := resp.toDetails()
	if details.ImdbID == "" {
		details.ImdbID = id
	}
	return details, nil
}

func (c *Client) requestURL(params url.Values) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	q := u.Query()
	for k, vs := range params {
		for _, v := range vs {
			q.Set(k, v)
		}
	}
	q.Set("apikey", c.apiKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *Client) get(ctx context.Context, kind string, params url.Values, result any) error {
	target, err := c.requestURL(params)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	// The query string carries the API key, so only the parameters are logged.
	c.logger.Debugf(providers.TypeOmdb, "GET %s %s", kind, params.Encode())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Errorf(providers.TypeOmdb, "OMDb %s returned status %d", kind, resp.StatusCode)
		return &APIError{StatusCode: resp.StatusCode, Kind: kind}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
