package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrNoProducts indicates a tracking run was started with nothing to track.
	ErrNoProducts = errors.New("no products to track")

	// ErrSnapshotIncomplete indicates a scrape returned a page without the
	// required product fields (title and price).
	ErrSnapshotIncomplete = errors.New("snapshot missing required fields")
)
