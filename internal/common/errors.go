// Package common defines sentinel errors shared by the repositories, services
// and HTTP handlers of the ULM G70 manager. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// The logbook store stamps the record time itself.
	ErrRecordedAtSupplied = errors.New("recorded_at is assigned by the store")

	// Configuration errors.
	ErrUnsupportedDSN = errors.New("unsupported database dsn")
)
