package ytsearch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

const DefaultBaseURL = "https://www.youtube.com"

var (
	ErrInitialDataNotFound = errors.New("initial data not found")
	ErrUnexpectedStatus    = errors.New("unexpected status code")
)

type Result struct {
	VideoId      string `json:"video_id"`
	Title        string `json:"title"`
	ThumbnailUrl string `json:"thumbnail_url"`
	Duration     string `json:"duration"`
	AuthorName   string `json:"author_name"`
}

type Client struct {
	httpClient *http.Client
	baseURL    string
}

func New(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
	}
}

// Search returns the video results of the YouTube results page for query in
// the order the page lists them.
func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	searchURL := fmt.Sprintf("%s/results?search_query=%s", c.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	results, err := parseResultsPage(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse results page: %w", err)
	}

	return results, nil
}
