package scoring_test

import (
	"testing"

	"github.com/modelcycles/yongent/internal/scoring"
	"github.com/modelcycles/yongent/internal/sources/ytdlp"
)

var keywords = []string{"official", "vevo", "topic"}

func TestScoreComponents(t *testing.T) {
	cases := []struct {
		name      string
		candidate ytdlp.Candidate
		artist    string
		title     string
		want      int
	}{
		{
			name: "full match on official channel",
			candidate: ytdlp.Candidate{
				Title:           "아이유(IU) - 좋은날 Official MV",
				Channel:         "아이유 Official",
				DurationSeconds: 243,
			},
			artist: "아이유",
			title:  "좋은날",
			want:   30 + 20 + 20 + 15 + 10,
		},
		{
			name: "case-insensitive title match",
			candidate: ytdlp.Candidate{
				Title:           "IU GOOD DAY live",
				Channel:         "someone",
				DurationSeconds: 200,
			},
			artist: "iu",
			title:  "good day",
			want:   30 + 20 + 10,
		},
		{
			name: "publisher keyword counted once",
			candidate: ytdlp.Candidate{
				Title:           "something else",
				Channel:         "Official VEVO Topic",
				DurationSeconds: 0,
			},
			artist: "x",
			title:  "y",
			want:   15,
		},
		{
			name: "long videos are penalized",
			candidate: ytdlp.Candidate{
				Title:           "좋은날 full album",
				Channel:         "mix channel",
				DurationSeconds: 3600,
			},
			artist: "아이유",
			title:  "좋은날",
			want:   30 - 10,
		},
		{
			name: "short clips earn no duration bonus",
			candidate: ytdlp.Candidate{
				Title:           "좋은날 teaser",
				Channel:         "1theK",
				DurationSeconds: 45,
			},
			artist: "아이유",
			title:  "좋은날",
			want:   30,
		},
		{
			name: "empty artist and title only score ambient signals",
			candidate: ytdlp.Candidate{
				Title:           "some song official audio",
				Channel:         "label official",
				DurationSeconds: 180,
			},
			want: 15 + 10,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := scoring.Score(tc.candidate, tc.artist, tc.title, keywords)
			if got != tc.want {
				t.Fatalf("Score = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestSelectPicksHighestScore(t *testing.T) {
	candidates := []ytdlp.Candidate{
		{ID: "cover", Title: "좋은날 cover", Channel: "fan channel", DurationSeconds: 210},
		{ID: "mv", Title: "아이유(IU) - 좋은날 Official MV", Channel: "1theK (원더케이)", DurationSeconds: 243},
		{ID: "album", Title: "아이유 좋은날 full album", Channel: "mix", DurationSeconds: 2400},
	}

	best, ok := scoring.Select(candidates, "아이유", "좋은날", keywords)
	if !ok {
		t.Fatal("expected a selection")
	}
	if best.ID != "mv" {
		t.Fatalf("expected official MV to win, got %q", best.ID)
	}
}

func TestSelectTieKeepsSearchOrder(t *testing.T) {
	candidates := []ytdlp.Candidate{
		{ID: "first", Title: "좋은날", Channel: "a", DurationSeconds: 200},
		{ID: "second", Title: "좋은날", Channel: "b", DurationSeconds: 200},
	}

	best, ok := scoring.Select(candidates, "", "좋은날", keywords)
	if !ok {
		t.Fatal("expected a selection")
	}
	if best.ID != "first" {
		t.Fatalf("tie should keep earliest result, got %q", best.ID)
	}
}

func TestSelectEmpty(t *testing.T) {
	if _, ok := scoring.Select(nil, "a", "t", keywords); ok {
		t.Fatal("expected no selection from empty candidates")
	}
}

func TestSelectDeterministic(t *testing.T) {
	candidates := []ytdlp.Candidate{
		{ID: "x", Title: "좋은날 remix", Channel: "dj", DurationSeconds: 300},
		{ID: "y", Title: "아이유 - 좋은날", Channel: "아이유 official", DurationSeconds: 240},
		{ID: "z", Title: "random", Channel: "random", DurationSeconds: 100},
	}
	first, _ := scoring.Select(candidates, "아이유", "좋은날", keywords)
	for i := 0; i < 10; i++ {
		again, _ := scoring.Select(candidates, "아이유", "좋은날", keywords)
		if again.ID != first.ID {
			t.Fatalf("selection changed between runs: %q vs %q", first.ID, again.ID)
		}
	}
}
