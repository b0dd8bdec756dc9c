// Package musicbrainz queries the MusicBrainz web service for recording
// metadata. It is only used to backfill album and year when Melon and the
// download info have neither.
package musicbrainz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/modelcycles/yongent/internal/config"
	"github.com/modelcycles/yongent/internal/metadata"
)

// ErrNoRecording is returned when the search yields no recordings.
var ErrNoRecording = errors.New("musicbrainz: no recording found")

// Client queries the MusicBrainz ws/2 JSON API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// New constructs a Client from configuration.
func New(cfg config.MusicBrainz) *Client {
	timeout := time.Duration(cfg.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://musicbrainz.org/ws/2"
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		userAgent:  cfg.UserAgent,
	}
}

// Lookup searches recordings by artist and title and returns the first
// match's release title and year.
func (c *Client) Lookup(ctx context.Context, artist, title string) (*metadata.Recording, error) {
	if strings.TrimSpace(title) == "" {
		return nil, errors.New("musicbrainz: title required")
	}

	query := fmt.Sprintf(`recording:%q AND artist:%q`, title, artist)
	endpoint := c.baseURL + "/recording?fmt=json&limit=1&query=" + url.QueryEscape(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("musicbrainz request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("musicbrainz: unexpected status %d", resp.StatusCode)
	}

	var payload struct {
		Recordings []struct {
			Title    string `json:"title"`
			Releases []struct {
				Title string `json:"title"`
				Date  string `json:"date"`
			} `json:"releases"`
		} `json:"recordings"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode musicbrainz response: %w", err)
	}

	if len(payload.Recordings) == 0 {
		return nil, ErrNoRecording
	}

	recording := &metadata.Recording{}
	if releases := payload.Recordings[0].Releases; len(releases) > 0 {
		recording.Album = releases[0].Title
		if date := releases[0].Date; len(date) >= 4 {
			recording.Year = date[:4]
		}
	}
	return recording, nil
}

var _ metadata.RecordingResolver = (*Client)(nil)
