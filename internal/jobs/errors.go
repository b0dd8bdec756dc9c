package jobs

import "errors"

// ErrNotFound is returned when a job id is unknown to the store.
var ErrNotFound = errors.New("job not found")
