// Package scoring ranks YouTube search candidates against a parsed
// artist/title pair so the pipeline downloads the most plausible official
// upload.
package scoring

import (
	"strings"

	"github.com/modelcycles/yongent/internal/sources/ytdlp"
)

// Duration bounds in seconds for the typical single track. Results outside
// the upper bound are usually full albums or live sets.
const (
	minTrackSeconds = 90
	maxTrackSeconds = 420
)

// Score rates one candidate. Matching is case-insensitive substring
// containment; a publisher keyword in the channel name counts at most once.
func Score(candidate ytdlp.Candidate, artist, title string, publisherKeywords []string) int {
	score := 0
	videoTitle := strings.ToLower(candidate.Title)
	channel := strings.ToLower(candidate.Channel)
	loweredArtist := strings.ToLower(strings.TrimSpace(artist))
	loweredTitle := strings.ToLower(strings.TrimSpace(title))

	if loweredTitle != "" && strings.Contains(videoTitle, loweredTitle) {
		score += 30
	}
	if loweredArtist != "" && strings.Contains(videoTitle, loweredArtist) {
		score += 20
	}
	if loweredArtist != "" && strings.Contains(channel, loweredArtist) {
		score += 20
	}

	for _, keyword := range publisherKeywords {
		keyword = strings.ToLower(strings.TrimSpace(keyword))
		if keyword != "" && strings.Contains(channel, keyword) {
			score += 15
			break
		}
	}

	duration := candidate.DurationSeconds
	switch {
	case duration >= minTrackSeconds && duration <= maxTrackSeconds:
		score += 10
	case duration > maxTrackSeconds:
		score -= 10
	}

	return score
}

// Select returns the highest-scoring candidate. Ties keep the earliest
// result, preserving search order. The second return is false when the
// candidate list is empty.
func Select(candidates []ytdlp.Candidate, artist, title string, publisherKeywords []string) (ytdlp.Candidate, bool) {
	if len(candidates) == 0 {
		return ytdlp.Candidate{}, false
	}

	best := candidates[0]
	bestScore := Score(best, artist, title, publisherKeywords)
	for _, candidate := range candidates[1:] {
		if s := Score(candidate, artist, title, publisherKeywords); s > bestScore {
			best = candidate
			bestScore = s
		}
	}
	return best, true
}
