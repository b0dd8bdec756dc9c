// Package report writes the per-song metadata report that accompanies each
// download.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/modelcycles/yongent/internal/metadata"
)

const template = `# %s

- **아티스트**: %s
- **앨범**: %s
- **발매년도**: %s
- **작곡가**: %s
- **작사가**: %s
- **유튜브 링크**: %s
- **다운로드 일시**: %s

## 가사

%s
`

// Writer renders metadata reports as Markdown.
type Writer struct {
	// Placeholder substitutes for lyrics when no source provided any.
	Placeholder string

	// now is a test seam for the downloaded-at timestamp.
	now func() time.Time
}

// NewWriter creates a report writer.
func NewWriter(placeholder string) *Writer {
	return &Writer{Placeholder: placeholder, now: time.Now}
}

// Write renders the report into songDir as "{stem}(Meta).md" and returns the
// file name.
func (w *Writer) Write(songDir, stem string, meta metadata.Resolved) (string, error) {
	if stem == "" {
		return "", fmt.Errorf("report stem required")
	}

	lyrics := meta.Lyrics
	if strings.TrimSpace(lyrics) == "" {
		lyrics = w.Placeholder
	}
	now := time.Now
	if w.now != nil {
		now = w.now
	}

	content := fmt.Sprintf(template,
		meta.Title,
		meta.Artist,
		meta.Album,
		meta.Year,
		meta.Composer,
		meta.Lyricist,
		meta.SourceURL,
		now().Format("2006-01-02 15:04:05"),
		lyrics,
	)

	fileName := stem + "(Meta).md"
	if err := os.WriteFile(filepath.Join(songDir, fileName), []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return fileName, nil
}
