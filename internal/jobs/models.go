package jobs

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a download job.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

var allStatuses = []Status{StatusQueued, StatusRunning, StatusDone, StatusError}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	switch normalized {
	case StatusQueued, StatusRunning, StatusDone, StatusError:
		return normalized, true
	default:
		return "", false
	}
}

// IsTerminal reports whether a status permits no further transitions.
func (s Status) IsTerminal() bool {
	return s == StatusDone || s == StatusError
}

// ResultFiles names the three artifacts a completed job leaves in its song
// directory.
type ResultFiles struct {
	Audio  string `json:"audio"`
	Clip   string `json:"clip"`
	Report string `json:"report"`
}

// Result summarizes a completed job.
type Result struct {
	Title     string      `json:"title"`
	Artist    string      `json:"artist"`
	Album     string      `json:"album"`
	Year      string      `json:"year"`
	Composer  string      `json:"composer"`
	Lyricist  string      `json:"lyricist"`
	SourceURL string      `json:"source_url"`
	SongDir   string      `json:"song_dir"`
	Files     ResultFiles `json:"files"`
}

// Job represents one download request tracked by the store.
type Job struct {
	ID           string
	Status       Status
	Step         string
	Query        string
	SourceURL    string
	OutputDir    string
	ErrorMessage string
	Result       *Result
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SetRunning transitions the job into the running state with an initial step
// label.
func (j *Job) SetRunning(step string) {
	j.Status = StatusRunning
	j.Step = step
	j.ErrorMessage = ""
}

// SetStep updates the progress label of a running job.
func (j *Job) SetStep(step string) {
	j.Step = step
}

// SetDone marks the job completed with its result summary. The error message
// is cleared so Done and Error payloads are never populated together.
func (j *Job) SetDone(result *Result) {
	j.Status = StatusDone
	j.Step = "completed"
	j.Result = result
	j.ErrorMessage = ""
}

// SetFailed marks the job failed with the given message, verbatim.
func (j *Job) SetFailed(message string) {
	j.Status = StatusError
	j.Step = "failed"
	j.ErrorMessage = message
	j.Result = nil
}
