package offline

import "errors"

var (
	// ErrResourceUnavailable is returned when neither the network nor the
	// cache can answer a request.
	ErrResourceUnavailable = errors.New("resource unavailable offline")

	// ErrNetwork wraps transport failures of requests that are never cached.
	ErrNetwork = errors.New("network request failed")

	// ErrInstallFailed wraps the cause of a failed manifest install.
	ErrInstallFailed = errors.New("install failed")

	// ErrNotCached is returned by CacheStorage.Match for a missing entry.
	ErrNotCached = errors.New("not cached")

	// ErrBucketNotFound is returned when writing to a bucket that does not
	// exist (never opened, or swept).
	ErrBucketNotFound = errors.New("cache bucket not found")

	// ErrClosed is returned by operations on a closed Registration.
	ErrClosed = errors.New("registration closed")
)
