package domain

import "errors"

// Manifest-content irregularities are ordinary result values; only these
// sentinels cross the core boundary as errors.
var (
	// ErrSourceUnreadable means the upstream document could not be read at
	// all. Fatal to the parse call, never to the process.
	ErrSourceUnreadable = errors.New("source unreadable")

	// ErrEmptyManifest means a parse completed but yielded zero valid
	// records.
	ErrEmptyManifest = errors.New("no valid records in manifest")

	// ErrNotFound is the negative result of a delete or lookup miss.
	ErrNotFound = errors.New("awb not found")

	// ErrNoManifest guards operations against a ledger that was never
	// loaded.
	ErrNoManifest = errors.New("no manifest loaded")
)
