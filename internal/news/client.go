package news

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"fanclub-backend/internal/retry"
)

// ErrNotConfigured is returned when no NEWS_API_KEY is set.
var ErrNotConfigured = errors.New("news api key not configured")

type Article struct {
	Source      string    `json:"source"`
	Author      string    `json:"author,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	URL         string    `json:"url"`
	ImageURL    string    `json:"image_url,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

type Client struct {
	baseURL      string
	apiKey       string
	defaultQuery string
	httpc        *http.Client
}

func NewClient(baseURL, apiKey, defaultQuery string) *Client {
	return &Client{
		baseURL:      baseURL,
		apiKey:       apiKey,
		defaultQuery: defaultQuery,
		httpc:        &http.Client{Timeout: 10 * time.Second},
	}
}

// Articles queries newsapi.org for club coverage, newest first. An empty
// query falls back to the configured club query.
func (c *Client) Articles(ctx context.Context, query string) ([]Article, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}
	if query == "" {
		query = c.defaultQuery
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("language", "en")
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", "30")
	params.Set("apiKey", c.apiKey)

	var payload struct {
		Status   string `json:"status"`
		Articles []struct {
			Source struct {
				Name string `json:"name"`
			} `json:"source"`
			Author      string `json:"author"`
			Title       string `json:"title"`
			Description string `json:"description"`
			URL         string `json:"url"`
			URLToImage  string `json:"urlToImage"`
			PublishedAt string `json:"publishedAt"`
		} `json:"articles"`
	}

	endpoint := c.baseURL + "/everything?" + params.Encode()
	err := retry.DoWithRetry(ctx, 3, 500*time.Millisecond, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		resp, err := c.httpc.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("news api status %d", resp.StatusCode)
		}
		return json.NewDecoder(resp.Body).Decode(&payload)
	})
	if err != nil {
		return nil, err
	}

	articles := make([]Article, 0, len(payload.Articles))
	for _, a := range payload.Articles {
		published, err := time.Parse(time.RFC3339, a.PublishedAt)
		if err != nil {
			continue
		}
		articles = append(articles, Article{
			Source:      a.Source.Name,
			Author:      a.Author,
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			ImageURL:    a.URLToImage,
			PublishedAt: published,
		})
	}

	return articles, nil
}
