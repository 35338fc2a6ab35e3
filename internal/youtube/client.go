// Package youtube fetches playlist metadata from the YouTube Data API and
// turns it into tracker problems.
package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ashureev/dsa90/internal/classify"
	"github.com/ashureev/dsa90/internal/domain"
)

const (
	// DefaultBaseURL is the YouTube Data API v3 root.
	DefaultBaseURL = "https://www.googleapis.com/youtube/v3"
	// DefaultPlaylistID is the "DSA in 90 days" playlist.
	DefaultPlaylistID = "PLVItHqpXY_DArKRcfmGWykqV3u4hDaJLo"

	pageSize = 50
	// maxPages bounds pagination against a feed that never stops returning tokens.
	maxPages = 100
)

var (
	// ErrMissingAPIKey is returned when no API key is configured.
	ErrMissingAPIKey = errors.New("youtube api key is missing")
	// ErrInvalidResponse is returned when a page has no items array.
	ErrInvalidResponse = errors.New("invalid playlist response")
)

// Client reads playlist items from the YouTube Data API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	playlistID string
	logger     *slog.Logger
}

// Options configures a Client.
type Options struct {
	APIKey     string
	PlaylistID string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// New creates a playlist client. Empty options fall back to the defaults.
func New(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	base := strings.TrimSuffix(opts.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	playlist := opts.PlaylistID
	if playlist == "" {
		playlist = DefaultPlaylistID
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: hc,
		baseURL:    base,
		apiKey:     opts.APIKey,
		playlistID: playlist,
		logger:     logger,
	}
}

type playlistPage struct {
	NextPageToken string          `json:"nextPageToken"`
	Items         []*playlistItem `json:"items"`
}

type playlistItem struct {
	Snippet struct {
		Title       string    `json:"title"`
		Description string    `json:"description"`
		PublishedAt time.Time `json:"publishedAt"`
		ResourceID  struct {
			VideoID string `json:"videoId"`
		} `json:"resourceId"`
	} `json:"snippet"`
}

// PlaylistItems pages through the whole playlist.
func (c *Client) PlaylistItems(ctx context.Context) ([]domain.FeedItem, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	var items []domain.FeedItem
	token := ""
	for page := 0; page < maxPages; page++ {
		p, err := c.fetchPage(ctx, token)
		if err != nil {
			return nil, err
		}
		for _, it := range p.Items {
			if it == nil {
				continue
			}
			items = append(items, domain.FeedItem{
				VideoID:     it.Snippet.ResourceID.VideoID,
				Title:       it.Snippet.Title,
				Description: it.Snippet.Description,
				PublishedAt: it.Snippet.PublishedAt,
			})
		}
		if p.NextPageToken == "" {
			return items, nil
		}
		token = p.NextPageToken
	}
	return nil, fmt.Errorf("playlist exceeded %d pages", maxPages)
}

func (c *Client) fetchPage(ctx context.Context, pageToken string) (*playlistPage, error) {
	q := url.Values{}
	q.Set("part", "snippet")
	q.Set("maxResults", fmt.Sprint(pageSize))
	q.Set("playlistId", c.playlistID)
	q.Set("key", c.apiKey)
	if pageToken != "" {
		q.Set("pageToken", pageToken)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/playlistItems?"+q.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(data))
	}

	var raw struct {
		NextPageToken string          `json:"nextPageToken"`
		Items         json.RawMessage `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(raw.Items) == 0 || raw.Items[0] != '[' {
		return nil, ErrInvalidResponse
	}

	page := &playlistPage{NextPageToken: raw.NextPageToken}
	if err := json.Unmarshal(raw.Items, &page.Items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	return page, nil
}

// Problems fetches the playlist and classifies every problem video.
func (c *Client) Problems(ctx context.Context) ([]domain.Problem, error) {
	items, err := c.PlaylistItems(ctx)
	if err != nil {
		return nil, err
	}
	problems := classify.Problems(items)
	c.logger.Info("Playlist fetched", "items", len(items), "problems", len(problems))
	return problems, nil
}

// MatchTitles returns the items whose title contains any of the targets.
func MatchTitles(items []domain.FeedItem, targets []string) []domain.FeedItem {
	var out []domain.FeedItem
	for _, it := range items {
		for _, target := range targets {
			if strings.Contains(it.Title, target) {
				out = append(out, it)
				break
			}
		}
	}
	return out
}
