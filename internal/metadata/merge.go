// Package metadata assembles the final track metadata from its sources.
//
// The merge order is fixed: Melon credits win, then the yt-dlp track info,
// then the artist/title the user typed, and MusicBrainz only backfills album
// and year. Fields nobody could answer fall back to the configured
// placeholder so downstream files always carry a value.
package metadata

import (
	"context"
	"log/slog"
	"strings"

	"github.com/modelcycles/yongent/internal/logging"
	"github.com/modelcycles/yongent/internal/sources/ytdlp"
)

// Credits carries the song detail a credits resolver scraped.
type Credits struct {
	Title       string
	Artist      string
	Album       string
	ReleaseDate string
	Year        string
	Composer    string
	Lyricist    string
	Lyrics      string
	DetailURL   string
	ArtworkURL  string
}

// Recording carries the release fields a recording resolver answers.
type Recording struct {
	Album string
	Year  string
}

// CreditsResolver resolves full song credits, typically from Melon.
type CreditsResolver interface {
	Lookup(ctx context.Context, artist, title string) (*Credits, error)
}

// RecordingResolver resolves album and year, typically from MusicBrainz.
type RecordingResolver interface {
	Lookup(ctx context.Context, artist, title string) (*Recording, error)
}

// Resolved is the merged metadata handed to the tagger, report writer, and
// job result.
type Resolved struct {
	Title       string
	Artist      string
	Album       string
	ReleaseDate string
	Year        string
	Composer    string
	Lyricist    string
	Lyrics      string
	MelonURL    string
	ArtworkURL  string
	SourceURL   string
}

// Merger runs the metadata waterfall. Both resolvers are optional; lookups
// that fail are logged and treated as empty rather than failing the job.
type Merger struct {
	Credits     CreditsResolver
	Recordings  RecordingResolver
	Placeholder string
	Logger      *slog.Logger
}

// Merge combines all sources for one track. artist and title are the values
// parsed from the user query and may be empty.
func (m *Merger) Merge(ctx context.Context, info ytdlp.TrackInfo, artist, title string) Resolved {
	logger := m.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	lookupArtist := firstNonEmpty(artist, info.Artist, info.Channel)
	lookupTitle := firstNonEmpty(title, info.Title)

	credits := Credits{}
	if m.Credits != nil {
		found, err := m.Credits.Lookup(ctx, lookupArtist, lookupTitle)
		if err != nil {
			logger.Warn("credits lookup failed",
				logging.String(logging.FieldComponent, "metadata"),
				logging.String("artist", lookupArtist),
				logging.String("title", lookupTitle),
				logging.Error(err))
		} else if found != nil {
			credits = *found
		}
	}

	resolved := Resolved{
		Title:       firstNonEmpty(credits.Title, info.Title, title, m.Placeholder),
		Artist:      firstNonEmpty(credits.Artist, info.Artist, info.Channel, artist, m.Placeholder),
		Album:       firstNonEmpty(credits.Album, info.Album),
		ReleaseDate: credits.ReleaseDate,
		Year:        firstNonEmpty(credits.Year, info.ReleaseYear),
		Composer:    firstNonEmpty(credits.Composer, info.Composer, m.Placeholder),
		Lyricist:    firstNonEmpty(credits.Lyricist, info.Lyricist, m.Placeholder),
		Lyrics:      credits.Lyrics,
		MelonURL:    credits.DetailURL,
		ArtworkURL:  credits.ArtworkURL,
		SourceURL:   info.WebpageURL,
	}

	if (resolved.Album == "" || resolved.Year == "") && m.Recordings != nil {
		// Query with real values, never the placeholder sentinel.
		recArtist := firstNonEmpty(credits.Artist, lookupArtist)
		recTitle := firstNonEmpty(credits.Title, lookupTitle)
		recording, err := m.Recordings.Lookup(ctx, recArtist, recTitle)
		if err != nil {
			logger.Warn("recording lookup failed",
				logging.String(logging.FieldComponent, "metadata"),
				logging.Error(err))
		} else if recording != nil {
			if resolved.Album == "" {
				resolved.Album = recording.Album
			}
			if resolved.Year == "" {
				resolved.Year = recording.Year
			}
		}
	}
	if resolved.Album == "" {
		resolved.Album = m.Placeholder
	}
	if resolved.Year == "" {
		resolved.Year = m.Placeholder
	}

	return resolved
}

// IsPlaceholder reports whether a merged value is the configured sentinel
// rather than real data.
func (m *Merger) IsPlaceholder(value string) bool {
	return m.Placeholder != "" && value == m.Placeholder
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
