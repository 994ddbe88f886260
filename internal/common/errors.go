// Package common defines shared constants and sentinel errors used across
// the client and the offline cache layers of Alcance Sol. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Validation errors (empty required field, malformed input).
	ErrorValidation = errors.New("validation error")
)

// ErrStorageUnavailable reports that the on-device database could not be
// opened (quota, permissions, corruption). Reads degrade to empty results;
// writes fail with this error.
var ErrStorageUnavailable = errors.New("storage unavailable")
