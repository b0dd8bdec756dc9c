package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/modelcycles/yongent/internal/metadata"
)

func TestWriteRendersReport(t *testing.T) {
	dir := t.TempDir()
	writer := NewWriter("확인 필요")
	writer.now = func() time.Time {
		return time.Date(2026, 8, 31, 14, 30, 0, 0, time.UTC)
	}

	meta := metadata.Resolved{
		Title:     "좋은날",
		Artist:    "아이유",
		Album:     "Real",
		Year:      "2010",
		Composer:  "이민수",
		Lyricist:  "김이나",
		Lyrics:    "어쩜 이렇게 하늘은 더 파란 건지",
		SourceURL: "https://www.youtube.com/watch?v=abc",
	}
	fileName, err := writer.Write(dir, "아이유-좋은날", meta)
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if fileName != "아이유-좋은날(Meta).md" {
		t.Fatalf("unexpected file name: %q", fileName)
	}

	data, err := os.ReadFile(filepath.Join(dir, fileName))
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	content := string(data)

	for _, want := range []string{
		"# 좋은날",
		"- **아티스트**: 아이유",
		"- **앨범**: Real",
		"- **발매년도**: 2010",
		"- **작곡가**: 이민수",
		"- **작사가**: 김이나",
		"- **유튜브 링크**: https://www.youtube.com/watch?v=abc",
		"- **다운로드 일시**: 2026-08-31 14:30:00",
		"## 가사",
		"어쩜 이렇게 하늘은 더 파란 건지",
	} {
		if !strings.Contains(content, want) {
			t.Fatalf("report missing %q:\n%s", want, content)
		}
	}
}

func TestWriteLyricsPlaceholder(t *testing.T) {
	dir := t.TempDir()
	writer := NewWriter("확인 필요")

	fileName, err := writer.Write(dir, "stem", metadata.Resolved{Title: "t"})
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, fileName))
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(data), "## 가사\n\n확인 필요") {
		t.Fatalf("expected lyrics placeholder:\n%s", data)
	}
}

func TestWriteRequiresStem(t *testing.T) {
	writer := NewWriter("확인 필요")
	if _, err := writer.Write(t.TempDir(), "", metadata.Resolved{}); err == nil {
		t.Fatal("expected error for empty stem")
	}
}
