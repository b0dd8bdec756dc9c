// Package melon scrapes song credits and lyrics from the Melon music
// catalog. Melon has no public API, so the client drives the public search
// and song detail pages with a small set of selector fallbacks that track
// the markup variants seen in the wild.
package melon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/modelcycles/yongent/internal/config"
	"github.com/modelcycles/yongent/internal/metadata"
)

// ErrSongNotFound is returned when the search results contain no song id.
var ErrSongNotFound = errors.New("melon: song not found")

var (
	songDetailPattern = regexp.MustCompile(`goSongDetail\('(\d+)'\)`)
	songIDPattern     = regexp.MustCompile(`songId=(\d+)`)
	yearPattern       = regexp.MustCompile(`(\d{4})`)
)

// searchRowLimit bounds how many result rows are inspected for a song id.
const searchRowLimit = 5

// Client fetches song metadata from Melon.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// New constructs a Client from configuration.
func New(cfg config.Melon) *Client {
	timeout := time.Duration(cfg.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://www.melon.com"
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		userAgent:  cfg.UserAgent,
	}
}

// Lookup searches Melon for the song and scrapes its detail page.
func (c *Client) Lookup(ctx context.Context, artist, title string) (*metadata.Credits, error) {
	query := strings.TrimSpace(artist + " " + title)
	if query == "" {
		return nil, errors.New("melon: empty lookup query")
	}

	songID, err := c.searchSongID(ctx, query)
	if err != nil {
		return nil, err
	}
	return c.fetchSong(ctx, songID)
}

func (c *Client) searchSongID(ctx context.Context, query string) (string, error) {
	searchURL := c.baseURL + "/search/song/index.htm?q=" + url.QueryEscape(query)
	doc, err := c.fetchDocument(ctx, searchURL)
	if err != nil {
		return "", fmt.Errorf("melon search: %w", err)
	}

	songID := ""
	doc.Find("table tbody tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		if i >= searchRowLimit {
			return false
		}
		row.Find("a").EachWithBreak(func(_ int, link *goquery.Selection) bool {
			href, _ := link.Attr("href")
			onclick, _ := link.Attr("onclick")
			text := href + onclick
			if m := songDetailPattern.FindStringSubmatch(text); m != nil {
				songID = m[1]
				return false
			}
			if m := songIDPattern.FindStringSubmatch(text); m != nil {
				songID = m[1]
				return false
			}
			return true
		})
		return songID == ""
	})

	if songID == "" {
		return "", fmt.Errorf("%w: query %q", ErrSongNotFound, query)
	}
	return songID, nil
}

func (c *Client) fetchSong(ctx context.Context, songID string) (*metadata.Credits, error) {
	detailURL := c.baseURL + "/song/detail.htm?songId=" + songID
	doc, err := c.fetchDocument(ctx, detailURL)
	if err != nil {
		return nil, fmt.Errorf("melon song detail: %w", err)
	}

	credits := &metadata.Credits{DetailURL: detailURL}

	credits.ArtworkURL = firstAttr(doc, []string{".image_typeAll img", ".thumb_album img", ".wrap_thumb img"}, "src")
	credits.Title = firstText(doc, []string{".song_name", "#d_song_name", "h2.sub_title"})
	credits.Artist = firstText(doc, []string{".artist_name a", ".artist a", "#d_artist_name a"})

	doc.Find("dl.list").Each(func(_ int, dl *goquery.Selection) {
		labels := dl.Find("dt")
		values := dl.Find("dd")
		count := labels.Length()
		if values.Length() < count {
			count = values.Length()
		}
		for i := 0; i < count; i++ {
			label := strings.TrimSpace(labels.Eq(i).Text())
			value := joinedText(values.Eq(i))
			switch {
			case strings.Contains(label, "작곡"):
				if credits.Composer == "" {
					credits.Composer = value
				}
			case strings.Contains(label, "작사"):
				if credits.Lyricist == "" {
					credits.Lyricist = value
				}
			case strings.Contains(label, "앨범"):
				if credits.Album == "" {
					credits.Album = value
				}
			case strings.Contains(label, "발매일"):
				if credits.ReleaseDate == "" {
					credits.ReleaseDate = value
					if m := yearPattern.FindStringSubmatch(value); m != nil {
						credits.Year = m[1]
					}
				}
			}
		}
	})

	credits.Lyrics = firstLyrics(doc, []string{"#d_video_summary", ".lyric_wrap", "#d_song_lyrics", ".wrap_lyric"})
	if credits.Lyrics == "" {
		credits.Lyrics = c.fetchLyrics(ctx, songID)
	}

	return credits, nil
}

// fetchLyrics hits the lyrics endpoint used by the detail page's AJAX
// loader. Lyrics are optional, so failures degrade to empty.
func (c *Client) fetchLyrics(ctx context.Context, songID string) string {
	doc, err := c.fetchDocument(ctx, c.baseURL+"/song/lyrics.htm?songId="+songID)
	if err != nil {
		return ""
	}
	return firstLyrics(doc, []string{"#d_video_summary", ".lyric_wrap", "#lyric"})
}

func (c *Client) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Referer", c.baseURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return goquery.NewDocumentFromReader(resp.Body)
}

func firstText(doc *goquery.Document, selectors []string) string {
	for _, selector := range selectors {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			if text := strings.TrimSpace(sel.Text()); text != "" {
				return text
			}
		}
	}
	return ""
}

func firstAttr(doc *goquery.Document, selectors []string, attr string) string {
	for _, selector := range selectors {
		if value, ok := doc.Find(selector).First().Attr(attr); ok && value != "" {
			return value
		}
	}
	return ""
}

func firstLyrics(doc *goquery.Document, selectors []string) string {
	for _, selector := range selectors {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			if text := lyricsText(sel); text != "" {
				return text
			}
		}
	}
	return ""
}

// joinedText renders a dd cell. Credit cells list people as separate links,
// so link texts are joined with commas; plain cells fall back to their text.
func joinedText(sel *goquery.Selection) string {
	links := sel.Find("a")
	if links.Length() > 0 {
		parts := make([]string, 0, links.Length())
		links.Each(func(_ int, link *goquery.Selection) {
			if text := strings.TrimSpace(link.Text()); text != "" {
				parts = append(parts, text)
			}
		})
		if len(parts) > 0 {
			return strings.Join(parts, ", ")
		}
	}
	return strings.TrimSpace(sel.Text())
}

// lyricsText flattens a lyrics container, turning <br> breaks into newlines.
func lyricsText(sel *goquery.Selection) string {
	var builder strings.Builder
	for _, node := range sel.Nodes {
		flattenLyrics(&builder, node)
	}

	lines := strings.Split(builder.String(), "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return strings.Join(cleaned, "\n")
}

func flattenLyrics(builder *strings.Builder, node *html.Node) {
	if node.Type == html.TextNode {
		builder.WriteString(node.Data)
		return
	}
	if node.Type == html.ElementNode && node.Data == "br" {
		builder.WriteByte('\n')
		return
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		flattenLyrics(builder, child)
	}
}

var _ metadata.CreditsResolver = (*Client)(nil)
