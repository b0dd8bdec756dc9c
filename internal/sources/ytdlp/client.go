package ytdlp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/modelcycles/yongent/internal/config"
)

var commandContext = exec.CommandContext

// Candidate is one entry from a YouTube search, carrying the fields the
// selection scorer looks at.
type Candidate struct {
	ID              string
	Title           string
	Channel         string
	URL             string
	DurationSeconds float64
}

// TrackInfo is the slice of the yt-dlp info json we keep after a download.
type TrackInfo struct {
	Title       string
	Track       string
	Artist      string
	Album       string
	Composer    string
	Lyricist    string
	ReleaseYear string
	Channel     string
	WebpageURL  string
}

// DownloadResult names the artifacts a completed download leaves behind.
type DownloadResult struct {
	AudioPath string
	Info      TrackInfo
}

// Client defines the yt-dlp operations the pipeline depends on.
type Client interface {
	Search(ctx context.Context, query string) ([]Candidate, error)
	Download(ctx context.Context, url, destDir string) (*DownloadResult, error)
}

// CLI wraps the yt-dlp command-line tool.
type CLI struct {
	binary        string
	cookiesFile   string
	playerClients []string
	searchLimit   int
	socketTimeout int
}

// NewCLI constructs a CLI client from configuration.
func NewCLI(cfg config.YtDlp) *CLI {
	binary := cfg.Binary
	if binary == "" {
		binary = "yt-dlp"
	}
	limit := cfg.SearchLimit
	if limit <= 0 {
		limit = 10
	}
	return &CLI{
		binary:        binary,
		cookiesFile:   cfg.CookiesFile,
		playerClients: append([]string(nil), cfg.PlayerClients...),
		searchLimit:   limit,
		socketTimeout: cfg.SocketTimeout,
	}
}

func (c *CLI) commonArgs() []string {
	args := []string{"--no-warnings", "--no-playlist"}
	if len(c.playerClients) > 0 {
		args = append(args, "--extractor-args", "youtube:player_client="+strings.Join(c.playerClients, ","))
	}
	if c.cookiesFile != "" {
		args = append(args, "--cookies", c.cookiesFile)
	}
	if c.socketTimeout > 0 {
		args = append(args, "--socket-timeout", strconv.Itoa(c.socketTimeout))
	}
	return args
}

// Search runs a flat-playlist YouTube search and returns its entries in
// result order.
func (c *CLI) Search(ctx context.Context, query string) ([]Candidate, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("search query required")
	}

	args := append(c.commonArgs(),
		"--dump-single-json",
		"--flat-playlist",
		fmt.Sprintf("ytsearch%d:%s", c.searchLimit, query),
	)
	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("yt-dlp search failed: %w", err)
	}

	var payload struct {
		Entries []struct {
			ID       string  `json:"id"`
			Title    string  `json:"title"`
			Channel  string  `json:"channel"`
			Uploader string  `json:"uploader"`
			URL      string  `json:"url"`
			Duration float64 `json:"duration"`
		} `json:"entries"`
	}
	if err := json.Unmarshal(output, &payload); err != nil {
		return nil, fmt.Errorf("decode search output: %w", err)
	}

	candidates := make([]Candidate, 0, len(payload.Entries))
	for _, entry := range payload.Entries {
		channel := entry.Channel
		if channel == "" {
			channel = entry.Uploader
		}
		url := entry.URL
		if url == "" && entry.ID != "" {
			url = "https://www.youtube.com/watch?v=" + entry.ID
		}
		candidates = append(candidates, Candidate{
			ID:              entry.ID,
			Title:           entry.Title,
			Channel:         channel,
			URL:             url,
			DurationSeconds: entry.Duration,
		})
	}
	return candidates, nil
}

// Download extracts the audio of a video as mp3 into destDir and returns the
// audio path together with the track info yt-dlp wrote alongside it.
func (c *CLI) Download(ctx context.Context, url, destDir string) (*DownloadResult, error) {
	if url == "" {
		return nil, errors.New("download url required")
	}
	if destDir == "" {
		return nil, errors.New("destination directory required")
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, fmt.Errorf("create destination: %w", err)
	}

	outputTemplate := filepath.Join(destDir, "audio.%(ext)s")
	args := append(c.commonArgs(),
		"--extract-audio",
		"--audio-format", "mp3",
		"--audio-quality", "0",
		"--write-info-json",
		"--output", outputTemplate,
		url,
	)
	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("yt-dlp download failed: %w: %s", err, firstLine(output))
	}

	audioPath := filepath.Join(destDir, "audio.mp3")
	if _, err := os.Stat(audioPath); err != nil {
		return nil, fmt.Errorf("downloaded audio missing: %w", err)
	}

	info, err := readTrackInfo(filepath.Join(destDir, "audio.info.json"))
	if err != nil {
		return nil, err
	}
	return &DownloadResult{AudioPath: audioPath, Info: info}, nil
}

func readTrackInfo(path string) (TrackInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		// The info json is advisory; a download without one still succeeds.
		if errors.Is(err, os.ErrNotExist) {
			return TrackInfo{}, nil
		}
		return TrackInfo{}, fmt.Errorf("read info json: %w", err)
	}

	var payload struct {
		Title       string          `json:"title"`
		Track       string          `json:"track"`
		Artist      string          `json:"artist"`
		Creator     string          `json:"creator"`
		Album       string          `json:"album"`
		Composer    string          `json:"composer"`
		Lyricist    string          `json:"lyricist"`
		ReleaseYear json.RawMessage `json:"release_year"`
		UploadDate  string          `json:"upload_date"`
		Channel     string          `json:"channel"`
		Uploader    string          `json:"uploader"`
		WebpageURL  string          `json:"webpage_url"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return TrackInfo{}, fmt.Errorf("decode info json: %w", err)
	}

	info := TrackInfo{
		Title:      payload.Title,
		Track:      payload.Track,
		Artist:     payload.Artist,
		Album:      payload.Album,
		Composer:   payload.Composer,
		Lyricist:   payload.Lyricist,
		Channel:    payload.Channel,
		WebpageURL: payload.WebpageURL,
	}
	if info.Artist == "" {
		info.Artist = payload.Creator
	}
	if info.Channel == "" {
		info.Channel = payload.Uploader
	}
	info.ReleaseYear = decodeYear(payload.ReleaseYear)
	if info.ReleaseYear == "" && len(payload.UploadDate) >= 4 {
		info.ReleaseYear = payload.UploadDate[:4]
	}
	return info, nil
}

// decodeYear tolerates release_year arriving as either a number or a string.
func decodeYear(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var asNumber int
	if err := json.Unmarshal(raw, &asNumber); err == nil && asNumber > 0 {
		return strconv.Itoa(asNumber)
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return strings.TrimSpace(asString)
	}
	return ""
}

func firstLine(output []byte) string {
	text := strings.TrimSpace(string(output))
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		text = text[:idx]
	}
	return text
}

var _ Client = (*CLI)(nil)
