// Package audio writes ID3 tags to downloaded MP3 files.
package audio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bogem/id3v2"

	"github.com/modelcycles/yongent/internal/metadata"
)

// maxArtworkBytes caps how much of an artwork response is read.
const maxArtworkBytes = 5 << 20

// Tagger embeds resolved metadata into an MP3 file. Fields holding the
// resolution placeholder are skipped so the sentinel never ends up in tags.
type Tagger struct {
	placeholder  string
	embedArtwork bool
	httpClient   *http.Client
}

// NewTagger creates a Tagger. placeholder marks unresolved field values;
// embedArtwork enables downloading and attaching cover art.
func NewTagger(placeholder string, embedArtwork bool) *Tagger {
	return &Tagger{
		placeholder:  placeholder,
		embedArtwork: embedArtwork,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
	}
}

// SaveTags writes the metadata into the MP3 at path.
func (t *Tagger) SaveTags(ctx context.Context, path string, meta metadata.Resolved) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open mp3 tags: %w", err)
	}
	defer tag.Close()

	if value := t.realValue(meta.Title); value != "" {
		tag.SetTitle(value)
	}
	if value := t.realValue(meta.Artist); value != "" {
		tag.SetArtist(value)
	}
	if value := t.realValue(meta.Album); value != "" {
		tag.SetAlbum(value)
	}
	if value := t.realValue(meta.Year); value != "" {
		tag.AddTextFrame("TYER", id3v2.EncodingUTF8, value)
	}
	if value := t.realValue(meta.Composer); value != "" {
		tag.AddTextFrame("TCOM", id3v2.EncodingUTF8, value)
	}
	if value := t.realValue(meta.Lyricist); value != "" {
		tag.AddTextFrame("TEXT", id3v2.EncodingUTF8, value)
	}
	if meta.Lyrics != "" {
		tag.AddUnsynchronisedLyricsFrame(id3v2.UnsynchronisedLyricsFrame{
			Encoding:          id3v2.EncodingUTF8,
			Language:          "kor",
			ContentDescriptor: "",
			Lyrics:            meta.Lyrics,
		})
	}

	if t.embedArtwork && meta.ArtworkURL != "" {
		if artwork, mimeType, err := t.fetchArtwork(ctx, meta.ArtworkURL); err == nil {
			tag.DeleteFrames(tag.CommonID("Attached picture"))
			tag.AddAttachedPicture(id3v2.PictureFrame{
				Encoding:    id3v2.EncodingUTF8,
				MimeType:    mimeType,
				PictureType: id3v2.PTFrontCover,
				Description: "Cover",
				Picture:     artwork,
			})
		}
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("save mp3 tags: %w", err)
	}
	return nil
}

func (t *Tagger) realValue(value string) string {
	if value == "" || (t.placeholder != "" && value == t.placeholder) {
		return ""
	}
	return value
}

func (t *Tagger) fetchArtwork(ctx context.Context, artworkURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, artworkURL, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("artwork status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxArtworkBytes))
	if err != nil {
		return nil, "", err
	}
	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	return data, mimeType, nil
}
