package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	ghttp "github.com/grabarr/grabarr/pkg/http"
	"github.com/grabarr/grabarr/pkg/logger"
	"go.uber.org/zap"
)

type EpguidesClient struct {
	http   ghttp.HTTPClient
	scheme string
	host   string
}

// NewEpguidesClient creates a client for the epguides json api
func NewEpguidesClient(http ghttp.HTTPClient, scheme, host string) Client {
	return &EpguidesClient{
		http:   http,
		scheme: scheme,
		host:   host,
	}
}

type episodesResponse struct {
	Episodes map[string][]Episode `json:"episodes"`
}

// Catalog returns every known episode keyed by season number
func (c *EpguidesClient) Catalog(ctx context.Context, show string) (map[int][]Episode, error) {
	if c.http == nil {
		return nil, errors.New("http client is nil")
	}

	log := logger.FromCtx(ctx)

	u := url.URL{
		Host:   c.host,
		Scheme: c.scheme,
		Path:   fmt.Sprintf("/show/%s/", showKey(show)),
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("show not found: %s", show)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %v", resp.Status)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var response episodesResponse
	err = json.Unmarshal(b, &response)
	if err != nil {
		return nil, fmt.Errorf("failed to decode episode catalog: %w", err)
	}

	catalog := make(map[int][]Episode, len(response.Episodes))
	for season, episodes := range response.Episodes {
		number, err := strconv.Atoi(season)
		if err != nil {
			log.Debug("skipping unparseable season key", zap.String("show", show), zap.String("season", season))
			continue
		}
		catalog[number] = episodes
	}

	return catalog, nil
}

// showKey normalizes a show name into the identifier epguides uses
func showKey(show string) string {
	var b strings.Builder
	for _, r := range show {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
