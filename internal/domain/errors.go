package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound is returned by document stores when a document does not exist
	ErrNotFound = errors.New("document not found")

	// ErrAssetUnavailable is recorded when no candidate URL of a media asset could be fetched
	ErrAssetUnavailable = errors.New("asset unavailable")

	// ErrStorageUnauthorized is returned when object storage rejects a write for permission or billing reasons
	ErrStorageUnauthorized = errors.New("storage write not authorized")

	// ErrFatalInput aborts a whole job: unreadable CSV, unreachable checkpoint store
	ErrFatalInput = errors.New("fatal input error")

	// ErrInvalidInput is returned for malformed request input such as an empty site id
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidMedia is returned for malformed media input
	ErrInvalidMedia = errors.New("invalid media entry")

	// ErrLoginRequired is returned by the browser waker when the upstream session is not authenticated
	ErrLoginRequired = errors.New("upstream login required")
)

// FetchError is returned by the source client for any failed site fetch.
// StatusCode is 0 when the request never produced a response.
type FetchError struct {
	SiteID     string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("failed to fetch site %s: %v", e.SiteID, e.Err)
	}
	return fmt.Sprintf("failed to fetch site %s: status %d", e.SiteID, e.StatusCode)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Transient reports whether a later attempt may succeed
func (e *FetchError) Transient() bool {
	return e.StatusCode == 0 ||
		e.StatusCode == http.StatusTooManyRequests ||
		e.StatusCode >= http.StatusInternalServerError
}

// DownloadError is returned when a media URL answers with a non-200 status
type DownloadError struct {
	URL        string
	StatusCode int
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("unexpected status %d for %s", e.StatusCode, e.URL)
}

// NotFound reports whether the source is missing rather than failing
func (e *DownloadError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound || e.StatusCode == http.StatusGone
}
