package musicbrainz_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/modelcycles/yongent/internal/config"
	"github.com/modelcycles/yongent/internal/sources/musicbrainz"
)

func newTestClient(t *testing.T, handler http.Handler) *musicbrainz.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return musicbrainz.New(config.MusicBrainz{
		BaseURL:        server.URL + "/ws/2",
		UserAgent:      "yongent/1.0 (test)",
		RequestTimeout: 5,
	})
}

func TestLookupReturnsFirstRelease(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ws/2/recording" {
			http.NotFound(w, r)
			return
		}
		query := r.URL.Query().Get("query")
		if !strings.Contains(query, "좋은날") || !strings.Contains(query, "아이유") {
			t.Errorf("unexpected query: %q", query)
		}
		if got := r.Header.Get("User-Agent"); got != "yongent/1.0 (test)" {
			t.Errorf("unexpected user agent: %q", got)
		}
		_, _ = w.Write([]byte(`{"recordings":[{
            "title":"좋은날",
            "releases":[{"title":"Real","date":"2010-12-09"},{"title":"compilation","date":"2012"}]
        }]}`))
	}))

	recording, err := client.Lookup(context.Background(), "아이유", "좋은날")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if recording.Album != "Real" {
		t.Fatalf("unexpected album: %q", recording.Album)
	}
	if recording.Year != "2010" {
		t.Fatalf("unexpected year: %q", recording.Year)
	}
}

func TestLookupNoRecordings(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"recordings":[]}`))
	}))

	_, err := client.Lookup(context.Background(), "아무도", "모르는 곡")
	if !errors.Is(err, musicbrainz.ErrNoRecording) {
		t.Fatalf("expected ErrNoRecording, got %v", err)
	}
}

func TestLookupRecordingWithoutReleases(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"recordings":[{"title":"좋은날"}]}`))
	}))

	recording, err := client.Lookup(context.Background(), "아이유", "좋은날")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if recording.Album != "" || recording.Year != "" {
		t.Fatalf("expected empty recording, got %+v", recording)
	}
}

func TestLookupRequiresTitle(t *testing.T) {
	client := musicbrainz.New(config.MusicBrainz{})
	if _, err := client.Lookup(context.Background(), "아이유", ""); err == nil {
		t.Fatal("expected error for empty title")
	}
}

func TestLookupServerError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	if _, err := client.Lookup(context.Background(), "아이유", "좋은날"); err == nil {
		t.Fatal("expected error on server failure")
	}
}
