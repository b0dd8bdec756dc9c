package melon_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/modelcycles/yongent/internal/config"
	"github.com/modelcycles/yongent/internal/sources/melon"
)

const searchPage = `<html><body>
<table><tbody>
<tr><td><a href="/album/detail.htm?albumId=999">앨범</a></td></tr>
<tr><td><a href="javascript:;" onclick="goSongDetail('2862081');">좋은날</a></td></tr>
</tbody></table>
</body></html>`

const searchPageHrefOnly = `<html><body>
<table><tbody>
<tr><td><a href="/song/detail.htm?songId=2862081">좋은날</a></td></tr>
</tbody></table>
</body></html>`

const detailPage = `<html><body>
<div class="wrap_thumb"><img src="https://cdn.melon.example/album.jpg"/></div>
<div class="song_name">좋은날</div>
<div class="artist_name"><a href="#">아이유</a></div>
<dl class="list">
  <dt>앨범</dt><dd><a href="#">Real</a></dd>
  <dt>발매일</dt><dd>2010.12.09</dd>
  <dt>작곡</dt><dd><a href="#">이민수</a></dd>
  <dt>작사</dt><dd><a href="#">김이나</a><a href="#">이민수</a></dd>
</dl>
<div class="lyric_wrap">어쩜 이렇게 하늘은 더 파란 건지<br/>오늘따라 왜 바람은 또 완벽한지</div>
</body></html>`

const detailPageNoLyrics = `<html><body>
<div class="song_name">좋은날</div>
<div class="artist_name"><a href="#">아이유</a></div>
</body></html>`

const lyricsPage = `<html><body>
<div id="d_video_summary">어쩜 이렇게 하늘은 더 파란 건지<br/>오늘따라 왜 바람은 또 완벽한지</div>
</body></html>`

func newTestClient(t *testing.T, handler http.Handler) *melon.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return melon.New(config.Melon{
		BaseURL:        server.URL,
		UserAgent:      "test-agent",
		RequestTimeout: 5,
	})
}

func TestLookupScrapesDetailPage(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search/song/index.htm":
			if got := r.URL.Query().Get("q"); got != "아이유 좋은날" {
				t.Errorf("unexpected search query: %q", got)
			}
			if got := r.Header.Get("User-Agent"); got != "test-agent" {
				t.Errorf("unexpected user agent: %q", got)
			}
			_, _ = w.Write([]byte(searchPage))
		case "/song/detail.htm":
			if got := r.URL.Query().Get("songId"); got != "2862081" {
				t.Errorf("unexpected song id: %q", got)
			}
			_, _ = w.Write([]byte(detailPage))
		default:
			http.NotFound(w, r)
		}
	}))

	credits, err := client.Lookup(context.Background(), "아이유", "좋은날")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if credits.Title != "좋은날" || credits.Artist != "아이유" {
		t.Fatalf("unexpected song fields: %+v", credits)
	}
	if credits.Album != "Real" {
		t.Fatalf("unexpected album: %q", credits.Album)
	}
	if credits.ReleaseDate != "2010.12.09" || credits.Year != "2010" {
		t.Fatalf("unexpected release fields: %+v", credits)
	}
	if credits.Composer != "이민수" {
		t.Fatalf("unexpected composer: %q", credits.Composer)
	}
	if credits.Lyricist != "김이나, 이민수" {
		t.Fatalf("expected joined lyricists, got %q", credits.Lyricist)
	}
	want := "어쩜 이렇게 하늘은 더 파란 건지\n오늘따라 왜 바람은 또 완벽한지"
	if credits.Lyrics != want {
		t.Fatalf("unexpected lyrics: %q", credits.Lyrics)
	}
	if credits.ArtworkURL != "https://cdn.melon.example/album.jpg" {
		t.Fatalf("unexpected artwork url: %q", credits.ArtworkURL)
	}
}

func TestLookupSongIDFromHref(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search/song/index.htm":
			_, _ = w.Write([]byte(searchPageHrefOnly))
		case "/song/detail.htm":
			_, _ = w.Write([]byte(detailPage))
		default:
			http.NotFound(w, r)
		}
	}))

	credits, err := client.Lookup(context.Background(), "아이유", "좋은날")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if credits.Title != "좋은날" {
		t.Fatalf("unexpected title: %q", credits.Title)
	}
}

func TestLookupLyricsFallback(t *testing.T) {
	var lyricsRequested bool
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search/song/index.htm":
			_, _ = w.Write([]byte(searchPage))
		case "/song/detail.htm":
			_, _ = w.Write([]byte(detailPageNoLyrics))
		case "/song/lyrics.htm":
			lyricsRequested = true
			_, _ = w.Write([]byte(lyricsPage))
		default:
			http.NotFound(w, r)
		}
	}))

	credits, err := client.Lookup(context.Background(), "아이유", "좋은날")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if !lyricsRequested {
		t.Fatal("expected fallback lyrics request")
	}
	if credits.Lyrics == "" {
		t.Fatal("expected lyrics from fallback endpoint")
	}
}

func TestLookupNoSongID(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><table><tbody></tbody></table></body></html>`))
	}))

	_, err := client.Lookup(context.Background(), "아무도", "모르는 곡")
	if !errors.Is(err, melon.ErrSongNotFound) {
		t.Fatalf("expected ErrSongNotFound, got %v", err)
	}
}

func TestLookupEmptyQuery(t *testing.T) {
	client := melon.New(config.Melon{})
	if _, err := client.Lookup(context.Background(), "", ""); err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestLookupServerError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	if _, err := client.Lookup(context.Background(), "아이유", "좋은날"); err == nil {
		t.Fatal("expected error on server failure")
	}
}
