package pipeline

import "errors"

// ErrNoSearchResult is returned when the YouTube search yields no usable
// candidate for a query.
var ErrNoSearchResult = errors.New("no youtube search result")
