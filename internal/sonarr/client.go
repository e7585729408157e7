// Package sonarr is a minimal client for the Sonarr v3 REST API, covering
// series, episode and episode file listings.
package sonarr

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// StatusError reports a non-2xx API response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("sonarr API request failed: HTTP %d body=%s", e.StatusCode, e.Body)
}

// Client talks to one Sonarr instance.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// New creates a client for the given base URL and API key.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + "/api/v3/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sonarr request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// ListSeries returns every series known to Sonarr.
func (c *Client) ListSeries(ctx context.Context) ([]SeriesResource, error) {
	var series []SeriesResource
	if err := c.getJSON(ctx, "series", nil, &series); err != nil {
		return nil, err
	}
	return series, nil
}

// ListEpisodes returns all episodes of one series.
func (c *Client) ListEpisodes(ctx context.Context, seriesID int64) ([]EpisodeResource, error) {
	query := url.Values{"seriesId": []string{strconv.FormatInt(seriesID, 10)}}
	var episodes []EpisodeResource
	if err := c.getJSON(ctx, "episode", query, &episodes); err != nil {
		return nil, err
	}
	return episodes, nil
}

// ListEpisodeFiles returns all episode files of one series.
func (c *Client) ListEpisodeFiles(ctx context.Context, seriesID int64) ([]EpisodeFileResource, error) {
	query := url.Values{"seriesId": []string{strconv.FormatInt(seriesID, 10)}}
	var files []EpisodeFileResource
	if err := c.getJSON(ctx, "episodefile", query, &files); err != nil {
		return nil, err
	}
	return files, nil
}
