package offline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/dmitrijs2005/alcancesol/internal/logging"
	"golang.org/x/sync/errgroup"
)

// State is the lifecycle state of a Worker.
type State int32

const (
	StateParsed State = iota
	StateInstalling
	StateInstalled
	StateActivating
	StateActivated
	StateRedundant
)

func (s State) String() string {
	switch s {
	case StateParsed:
		return "parsed"
	case StateInstalling:
		return "installing"
	case StateInstalled:
		return "installed"
	case StateActivating:
		return "activating"
	case StateActivated:
		return "activated"
	case StateRedundant:
		return "redundant"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Worker serves one Generation.
type Worker struct {
	reg   *Registration
	gen   Generation
	cache string
	state atomic.Int32

	logger logging.Logger
}

func newWorker(reg *Registration, gen Generation) *Worker {
	w := &Worker{
		reg:    reg,
		gen:    gen,
		cache:  gen.CacheName(),
		logger: reg.logger.With("cache", gen.CacheName()),
	}
	w.setState(StateParsed)
	return w
}

func (w *Worker) State() State {
	return State(w.state.Load())
}

func (w *Worker) setState(s State) {
	w.state.Store(int32(s))
}

func (w *Worker) Generation() Generation {
	return w.gen
}

func (w *Worker) CacheName() string {
	return w.cache
}

// install fetches the whole manifest and writes it to the worker's bucket in
// one batch. On failure the bucket is removed and the worker is redundant.
func (w *Worker) install(ctx context.Context) error {
	w.setState(StateInstalling)
	w.logger.Info(ctx, "installing", "version", w.gen.Version)

	storage := w.reg.storage
	if err := storage.Open(ctx, w.cache); err != nil {
		return w.abort(ctx, fmt.Errorf("open bucket: %w", err))
	}

	w.logger.Info(ctx, "caching static assets", "count", len(w.gen.Manifest))

	entries := make([]Entry, len(w.gen.Manifest))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range w.gen.Manifest {
		g.Go(func() error {
			req, err := w.reg.newRequest(gctx, p)
			if err != nil {
				return err
			}
			resp, err := w.reg.fetcher.Fetch(gctx, req)
			if err != nil {
				return fmt.Errorf("%s: %w", p, err)
			}
			if !resp.OK() {
				return fmt.Errorf("%s: status %d", p, resp.Status)
			}
			entries[i] = Entry{Key: CacheKey(req.URL), Response: resp}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return w.abort(ctx, err)
	}

	if err := storage.Put(ctx, w.cache, entries...); err != nil {
		return w.abort(ctx, fmt.Errorf("write bucket: %w", err))
	}

	w.setState(StateInstalled)
	w.logger.Info(ctx, "install complete")
	return nil
}

func (w *Worker) abort(ctx context.Context, cause error) error {
	w.setState(StateRedundant)
	w.logger.Error(ctx, "install failed", "error", cause)

	if _, err := w.reg.storage.Delete(context.WithoutCancel(ctx), w.cache); err != nil {
		w.logger.Warn(ctx, "could not remove partial cache", "error", err)
	}
	return fmt.Errorf("%w: %s: %w", ErrInstallFailed, w.cache, cause)
}

// sweep deletes every bucket of the app except the worker's own.
func (w *Worker) sweep(ctx context.Context) error {
	names, err := w.reg.storage.Buckets(ctx)
	if err != nil {
		return fmt.Errorf("list buckets: %w", err)
	}

	var errs []error
	for _, name := range names {
		if !strings.HasPrefix(name, w.gen.Prefix) || name == w.cache {
			continue
		}
		w.logger.Info(ctx, "deleting old cache", "old", name)
		if _, err := w.reg.storage.Delete(ctx, name); err != nil {
			errs = append(errs, fmt.Errorf("delete %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// Fetch answers req according to its policy class.
func (w *Worker) Fetch(ctx context.Context, req *http.Request) (*Response, error) {
	req = w.reg.absolute(req)
	kind := Classify(req, w.reg.origin)
	w.logger.Debug(ctx, "fetch", "url", req.URL.String(), "kind", kind.String())

	switch kind {
	case KindPassthrough:
		return w.reg.passthrough(ctx, req)
	case KindNavigation:
		return w.networkFirst(ctx, req, true)
	case KindAsset:
		return w.staleWhileRevalidate(ctx, req)
	default:
		return w.networkFirst(ctx, req, false)
	}
}

func (w *Worker) networkFirst(ctx context.Context, req *http.Request, navigation bool) (*Response, error) {
	key := CacheKey(req.URL)

	resp, err := w.reg.fetcher.Fetch(ctx, req)
	if err == nil {
		w.store(ctx, key, resp)
		return resp.served(SourceNetwork), nil
	}
	w.logger.Debug(ctx, "network failed, trying cache", "url", key, "error", err)

	if cached, ok := w.reg.matchAny(ctx, key); ok {
		return cached.served(SourceCache), nil
	}
	if navigation {
		if root, ok := w.reg.matchAny(ctx, "/"); ok {
			return root.served(SourceFallback), nil
		}
	}
	return nil, fmt.Errorf("%s: %w", key, ErrResourceUnavailable)
}

func (w *Worker) staleWhileRevalidate(ctx context.Context, req *http.Request) (*Response, error) {
	key := CacheKey(req.URL)

	cached, err := w.reg.storage.Match(ctx, w.cache, key)
	if err == nil {
		w.revalidate(ctx, req, key)
		return cached.served(SourceCache), nil
	}
	if !errors.Is(err, ErrNotCached) {
		w.logger.Warn(ctx, "cache lookup failed", "url", key, "error", err)
	}

	resp, err := w.reg.fetcher.Fetch(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", key, ErrResourceUnavailable, err)
	}
	w.store(ctx, key, resp)
	return resp.served(SourceNetwork), nil
}

// revalidate refreshes key in the background, detached from the caller's
// cancellation and bounded by Options.RefreshTimeout.
func (w *Worker) revalidate(ctx context.Context, req *http.Request, key string) {
	bg := context.WithoutCancel(ctx)
	w.reg.spawn(func() {
		ctx, cancel := context.WithTimeout(bg, w.reg.opts.RefreshTimeout)
		defer cancel()

		resp, err := w.reg.fetcher.Fetch(ctx, req.Clone(ctx))
		if err != nil {
			w.logger.Debug(ctx, "revalidate failed", "url", key, "error", err)
			return
		}
		w.store(ctx, key, resp)
	})
}

// store caches successful responses in the worker's bucket. Writes of a
// redundant worker, or into a swept bucket, are dropped.
func (w *Worker) store(ctx context.Context, key string, resp *Response) {
	if !resp.OK() || w.State() == StateRedundant {
		return
	}
	err := w.reg.storage.Put(ctx, w.cache, Entry{Key: key, Response: resp})
	switch {
	case err == nil:
	case errors.Is(err, ErrBucketNotFound):
		w.logger.Debug(ctx, "cache swept, response not stored", "url", key)
	default:
		w.logger.Warn(ctx, "could not cache response", "url", key, "error", err)
	}
}
