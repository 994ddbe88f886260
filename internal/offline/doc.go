// Package offline is the offline cache controller of the Alcance Sol web
// shell: a versioned cache of application-shell resources and per-request
// caching policies, placed between the browser and the origin.
//
// # Lifecycle
//
// A Registration tracks the workers of one origin. Register installs a new
// Generation (cache name = prefix + version):
//
//	parsed → installing → installed (waiting) → activating → activated
//	                   ↘ redundant (install failed)          ↘ redundant (replaced)
//
// Installing fetches every manifest resource and writes them to the new
// bucket in one batch; any failure discards the bucket and the previous
// worker keeps serving. An installed worker activates at once when
// Options.SkipWaiting is set, when nothing is active yet, or when no client
// is controlled by the active worker; otherwise it waits for those clients
// to close or for an explicit SkipWaiting call. Activation moves the clients
// of the old worker (and, with Options.Claim, uncontrolled clients) to the
// new one, then deletes every bucket with the app prefix except its own.
//
// # Fetch policies
//
//   - Cross-origin, non-GET and /api/ requests go straight to the network.
//   - Navigations are network-first; on failure the cached page is served,
//     then the cached root "/".
//   - Scripts, styles, images and fonts are stale-while-revalidate against
//     the worker's own bucket.
//   - Everything else is network-first with a plain cache fallback.
//
// Only successful (2xx) responses are cached. When nothing can be served the
// result is ErrResourceUnavailable.
//
// # Storage
//
// CacheStorage holds the buckets. NewMemoryStorage keeps them in memory;
// package cachestore persists them in SQLite.
package offline
