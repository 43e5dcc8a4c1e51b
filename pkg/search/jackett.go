package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	ghttp "github.com/grabarr/grabarr/pkg/http"
	"github.com/grabarr/grabarr/pkg/logger"
	"go.uber.org/zap"
)

const (
	// torznab categories
	categoryMovies = "2000"
	categoryTV     = "5000"
)

type JackettClient struct {
	http   ghttp.HTTPClient
	scheme string
	host   string
	apiKey string
}

// NewJackettClient creates a client for the jackett aggregate indexer api
func NewJackettClient(http ghttp.HTTPClient, scheme, host, apiKey string, port int) Client {
	if port != 0 {
		host = fmt.Sprintf("%s:%d", host, port)
	}

	return &JackettClient{
		http:   http,
		scheme: scheme,
		host:   host,
		apiKey: apiKey,
	}
}

type searchResponse struct {
	Results []*Release `json:"Results"`
}

func (c *JackettClient) SearchMovie(ctx context.Context, query string) ([]*Release, error) {
	return c.search(ctx, query, categoryMovies)
}

func (c *JackettClient) SearchSeries(ctx context.Context, query string) ([]*Release, error) {
	return c.search(ctx, query, categoryTV)
}

func (c *JackettClient) search(ctx context.Context, query, category string) ([]*Release, error) {
	if c.http == nil {
		return nil, errors.New("http client is nil")
	}

	log := logger.FromCtx(ctx)

	u := url.URL{
		Host:   c.host,
		Scheme: c.scheme,
		Path:   "/api/v2.0/indexers/all/results",
	}

	q := u.Query()
	q.Set("apikey", c.apiKey)
	q.Set("Query", query)
	q.Set("Category[]", category)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %v", resp.Status)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var response searchResponse
	err = json.Unmarshal(b, &response)
	if err != nil {
		return nil, fmt.Errorf("failed to decode search results: %w", err)
	}

	log.Debug("searched indexers", zap.String("query", query), zap.String("category", category), zap.Int("results", len(response.Results)))
	return response.Results, nil
}
