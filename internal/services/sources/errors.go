package sources

import "fmt"

// FetchError reports a failed HTTP round trip or a non-success status.
// Fetch failures are per-source and never fatal to the pipeline.
type FetchError struct {
	Source     string
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: %s returned status %d", e.Source, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %s: %v", e.Source, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports a page that fetched fine but did not yield the
// expected structure.
type ParseError struct {
	Source string
	URL    string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %s: %s", e.Source, e.URL, e.Reason)
}
