package offline

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/alcancesol/internal/logging"
)

// DefaultRefreshTimeout bounds a background stale-while-revalidate fetch.
const DefaultRefreshTimeout = 30 * time.Second

// Options tune a Registration.
type Options struct {
	// SkipWaiting activates an installed worker immediately instead of
	// waiting for the clients of the active worker to close.
	SkipWaiting bool
	// Claim makes an activating worker take over uncontrolled clients.
	Claim bool
	// RefreshTimeout bounds background refreshes.
	RefreshTimeout time.Duration

	Logger logging.Logger
}

// DefaultOptions skip waiting and claim clients, as the shell always did.
func DefaultOptions() Options {
	return Options{SkipWaiting: true, Claim: true, RefreshTimeout: DefaultRefreshTimeout}
}

// Registration owns the workers and clients of one origin.
type Registration struct {
	origin  *url.URL
	storage CacheStorage
	fetcher Fetcher
	opts    Options
	logger  logging.Logger

	// activateMu serializes activations.
	activateMu sync.Mutex

	mu         sync.Mutex
	installing *Worker
	waiting    *Worker
	active     *Worker
	clients    map[*Client]struct{}
	closed     bool

	bg sync.WaitGroup
}

// NewRegistration prepares a registration for origin. Nothing is installed
// until Register is called.
func NewRegistration(origin *url.URL, storage CacheStorage, fetcher Fetcher, opts Options) (*Registration, error) {
	if origin == nil || origin.Scheme == "" || origin.Host == "" {
		return nil, fmt.Errorf("origin %v must be an absolute URL", origin)
	}
	if storage == nil || fetcher == nil {
		return nil, fmt.Errorf("storage and fetcher are required")
	}
	if opts.RefreshTimeout <= 0 {
		opts.RefreshTimeout = DefaultRefreshTimeout
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}

	return &Registration{
		origin:  &url.URL{Scheme: origin.Scheme, Host: origin.Host},
		storage: storage,
		fetcher: fetcher,
		opts:    opts,
		logger:  opts.Logger,
		clients: make(map[*Client]struct{}),
	}, nil
}

// Origin returns the controlled origin (scheme and host only).
func (r *Registration) Origin() *url.URL {
	u := *r.origin
	return &u
}

// Register installs gen and, depending on Options and connected clients,
// activates it. Registering the generation that is already installing,
// waiting or active returns that worker unchanged. On install failure the
// previous worker keeps serving and the error wraps ErrInstallFailed.
func (r *Registration) Register(ctx context.Context, gen Generation) (*Worker, error) {
	if err := gen.Validate(); err != nil {
		return nil, fmt.Errorf("invalid generation: %w", err)
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, ErrClosed
	}
	for _, w := range []*Worker{r.active, r.waiting, r.installing} {
		if w != nil && w.cache == gen.CacheName() {
			r.mu.Unlock()
			return w, nil
		}
	}
	w := newWorker(r, gen)
	r.installing = w
	r.mu.Unlock()

	err := w.install(ctx)

	r.mu.Lock()
	if r.installing == w {
		r.installing = nil
	}
	if err != nil {
		r.mu.Unlock()
		return nil, err
	}
	if prev := r.waiting; prev != nil {
		prev.setState(StateRedundant)
	}
	r.waiting = w
	now := r.opts.SkipWaiting || r.active == nil || r.controlledLocked(r.active) == 0
	r.mu.Unlock()

	if !now {
		w.logger.Info(ctx, "waiting for clients to close")
		return w, nil
	}
	if err := r.activateWaiting(ctx); err != nil {
		return w, err
	}
	return w, nil
}

// Resume activates gen from a bucket left by an earlier process, without
// fetching anything. It returns nil when the bucket does not exist or when
// another worker is already installing, waiting or active.
func (r *Registration) Resume(ctx context.Context, gen Generation) (*Worker, error) {
	if err := gen.Validate(); err != nil {
		return nil, fmt.Errorf("invalid generation: %w", err)
	}

	names, err := r.storage.Buckets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list buckets: %w", err)
	}
	if !slices.Contains(names, gen.CacheName()) {
		return nil, nil
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, ErrClosed
	}
	if r.active != nil || r.waiting != nil || r.installing != nil {
		r.mu.Unlock()
		return nil, nil
	}
	w := newWorker(r, gen)
	w.setState(StateInstalled)
	r.waiting = w
	r.mu.Unlock()

	w.logger.Info(ctx, "resuming installed cache")
	if err := r.activateWaiting(ctx); err != nil {
		return w, err
	}
	return w, nil
}

// SkipWaiting activates the waiting worker, if any, regardless of open
// clients. It reports whether a worker was activated.
func (r *Registration) SkipWaiting(ctx context.Context) (bool, error) {
	r.mu.Lock()
	has := r.waiting != nil
	r.mu.Unlock()
	if !has {
		return false, nil
	}
	if err := r.activateWaiting(ctx); err != nil {
		return true, err
	}
	return true, nil
}

func (r *Registration) activateWaiting(ctx context.Context) error {
	r.activateMu.Lock()
	defer r.activateMu.Unlock()

	r.mu.Lock()
	w := r.waiting
	if w == nil {
		r.mu.Unlock()
		return nil
	}
	r.waiting = nil
	old := r.active
	r.active = w
	w.setState(StateActivating)
	if old != nil {
		old.setState(StateRedundant)
	}
	for c := range r.clients {
		if (old != nil && c.controller == old) || (c.controller == nil && r.opts.Claim) {
			c.controller = w
		}
	}
	r.mu.Unlock()

	w.logger.Info(ctx, "activating")
	err := w.sweep(ctx)
	w.setState(StateActivated)
	if err != nil {
		w.logger.Warn(ctx, "old caches not fully removed", "error", err)
		return err
	}
	w.logger.Info(ctx, "activate complete")
	return nil
}

// Connect opens a client controlled by the active worker, or uncontrolled
// when nothing is active yet.
func (r *Registration) Connect() *Client {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := &Client{reg: r, controller: r.active}
	if !r.closed {
		r.clients[c] = struct{}{}
	}
	return c
}

func (r *Registration) release(ctx context.Context, c *Client) {
	r.mu.Lock()
	if _, ok := r.clients[c]; !ok {
		r.mu.Unlock()
		return
	}
	delete(r.clients, c)
	promote := !r.closed && r.waiting != nil && r.active != nil && r.controlledLocked(r.active) == 0
	r.mu.Unlock()

	if promote {
		if err := r.activateWaiting(ctx); err != nil {
			r.logger.Warn(ctx, "activation after last client closed failed", "error", err)
		}
	}
}

func (r *Registration) controlledLocked(w *Worker) int {
	n := 0
	for c := range r.clients {
		if c.controller == w {
			n++
		}
	}
	return n
}

// Active returns the active worker or nil.
func (r *Registration) Active() *Worker {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Waiting returns the installed worker waiting to activate, or nil.
func (r *Registration) Waiting() *Worker {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.waiting
}

// WorkerStatus describes one worker.
type WorkerStatus struct {
	Version string `json:"version"`
	Cache   string `json:"cache"`
	State   string `json:"state"`
}

// Status is a snapshot of the registration.
type Status struct {
	Origin     string        `json:"origin"`
	Active     *WorkerStatus `json:"active,omitempty"`
	Waiting    *WorkerStatus `json:"waiting,omitempty"`
	Installing *WorkerStatus `json:"installing,omitempty"`
	Clients    int           `json:"clients"`
	Buckets    []string      `json:"buckets"`
}

func workerStatus(w *Worker) *WorkerStatus {
	if w == nil {
		return nil
	}
	return &WorkerStatus{Version: w.gen.Version, Cache: w.cache, State: w.State().String()}
}

func (r *Registration) Status(ctx context.Context) (Status, error) {
	r.mu.Lock()
	s := Status{
		Origin:     r.origin.String(),
		Active:     workerStatus(r.active),
		Waiting:    workerStatus(r.waiting),
		Installing: workerStatus(r.installing),
		Clients:    len(r.clients),
	}
	r.mu.Unlock()

	buckets, err := r.storage.Buckets(ctx)
	if err != nil {
		return s, fmt.Errorf("list buckets: %w", err)
	}
	s.Buckets = buckets
	return s, nil
}

// Wait blocks until every background refresh has finished.
func (r *Registration) Wait() {
	r.bg.Wait()
}

// Close stops accepting work and waits for background refreshes.
func (r *Registration) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	r.bg.Wait()
}

// spawn runs fn in a tracked goroutine unless the registration is closed.
func (r *Registration) spawn(fn func()) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.bg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.bg.Done()
		fn()
	}()
}

// newRequest builds the GET of a manifest path.
func (r *Registration) newRequest(ctx context.Context, p string) (*http.Request, error) {
	u := r.origin.ResolveReference(&url.URL{Path: p})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	return req, nil
}

// absolute resolves a host-less request against the origin.
func (r *Registration) absolute(req *http.Request) *http.Request {
	if req.URL.Host != "" {
		return req
	}
	out := req.Clone(req.Context())
	out.URL.Scheme = r.origin.Scheme
	out.URL.Host = r.origin.Host
	out.Host = r.origin.Host
	out.RequestURI = ""
	return out
}

// matchAny searches every bucket in creation order.
func (r *Registration) matchAny(ctx context.Context, key string) (*Response, bool) {
	names, err := r.storage.Buckets(ctx)
	if err != nil {
		r.logger.Warn(ctx, "list buckets failed", "error", err)
		return nil, false
	}
	for _, name := range names {
		if resp, err := r.storage.Match(ctx, name, key); err == nil {
			return resp, true
		}
	}
	return nil, false
}

func (r *Registration) passthrough(ctx context.Context, req *http.Request) (*Response, error) {
	resp, err := r.fetcher.Fetch(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	return resp.served(SourcePassthrough), nil
}
