// Package bridge connects cache artifacts of dependency invocations to the caches of the
// inner build engine. A Bridge loads and re-keys the artifacts a manifest lists, installs
// the merged caches, and after the build writes back only the results this invocation
// produced.
package bridge

import (
	"sync"

	"go.trai.ch/cachebridge/internal/adapters/telemetry"
	"go.trai.ch/cachebridge/internal/core/domain"
	"go.trai.ch/cachebridge/internal/core/ports"
	"go.trai.ch/zerr"
)

// State is the lifecycle position of a Bridge.
type State int

const (
	// StateNew is the state before Initialize.
	StateNew State = iota
	// StateEmpty means no manifest was given and empty caches were installed.
	StateEmpty
	// StateLoading means dependency artifacts are being read.
	StateLoading
	// StateAggregating means loaded artifacts are being merged.
	StateAggregating
	// StateInstalled means the merged caches were handed to the engine.
	StateInstalled
	// StateSaved means the output artifacts were written.
	StateSaved
	// StateFailed means an operation failed and the bridge cannot continue.
	StateFailed
)

// String returns the name of the state.
func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateEmpty:
		return "empty"
	case StateLoading:
		return "loading"
	case StateAggregating:
		return "aggregating"
	case StateInstalled:
		return "installed"
	case StateSaved:
		return "saved"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// provenanceKey identifies one per-target result by name and object identity.
type provenanceKey struct {
	target string
	result *domain.TargetResult
}

// Bridge is the cache bridge of one invocation. It is not reusable across invocations.
type Bridge struct {
	label  domain.Label
	mapper ports.PathMapper
	store  ports.ArtifactStore
	engine ports.Engine
	logger ports.Logger
	tracer ports.Tracer
	jobs   int

	mu       sync.Mutex
	state    State
	manifest *domain.CacheManifest
	configs  *domain.ConfigCache
	results  *domain.ResultsCache
	lastID   int

	inputIDs    map[int]struct{}
	configOwner map[int]string
	originalIDs map[int]int
	carried     map[provenanceKey]struct{}
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithLogger sets the logger.
func WithLogger(l ports.Logger) Option {
	return func(b *Bridge) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithTracer sets the tracer.
func WithTracer(t ports.Tracer) Option {
	return func(b *Bridge) {
		if t != nil {
			b.tracer = t
		}
	}
}

// WithJobs bounds the number of dependency artifacts read concurrently.
func WithJobs(n int) Option {
	return func(b *Bridge) {
		if n > 0 {
			b.jobs = n
		}
	}
}

// New creates a Bridge for label. engine may be nil, in which case the bridge keeps the
// merged caches itself and allocates identifiers from a local counter.
func New(
	label domain.Label,
	mapper ports.PathMapper,
	store ports.ArtifactStore,
	engine ports.Engine,
	opts ...Option,
) *Bridge {
	b := &Bridge{
		label:       label,
		mapper:      mapper,
		store:       store,
		engine:      engine,
		logger:      discardLogger{},
		tracer:      telemetry.NewNoOpTracer(),
		jobs:        domain.DefaultJobs,
		configs:     domain.NewConfigCache(),
		results:     domain.NewResultsCache(),
		inputIDs:    make(map[int]struct{}),
		configOwner: make(map[int]string),
		originalIDs: make(map[int]int),
		carried:     make(map[provenanceKey]struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// State returns the current state.
func (b *Bridge) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Label returns the label the bridge writes artifacts for.
func (b *Bridge) Label() domain.Label {
	return b.label
}

// Caches returns the merged caches as installed. Once the engine owns them, callers must
// not modify them.
func (b *Bridge) Caches() (*domain.ConfigCache, *domain.ResultsCache) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.configs, b.results
}

// Carried reports whether the target result was loaded from a dependency artifact.
func (b *Bridge) Carried(target string, tr *domain.TargetResult) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.carried[provenanceKey{target: target, result: tr}]
	return ok
}

// transition moves the bridge from one of the allowed states to next.
func (b *Bridge) transition(next State, allowed ...State) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, s := range allowed {
		if b.state == s {
			b.state = next
			return nil
		}
	}
	return zerr.With(zerr.With(zerr.Wrap(domain.ErrInvalidState, "bridge transition"),
		"state", b.state.String()), "requested", next.String())
}

func (b *Bridge) setState(s State) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = s
}

// fail records the failure and returns err unchanged.
func (b *Bridge) fail(err error) error {
	b.setState(StateFailed)
	return err
}

// newConfigurationID allocates an identifier from the engine when there is one.
func (b *Bridge) newConfigurationID() int {
	if b.engine != nil {
		return b.engine.NewConfigurationID()
	}
	b.lastID++
	return b.lastID
}

type discardLogger struct{}

func (discardLogger) Debug(string, ...any) {}
func (discardLogger) Info(string, ...any)  {}
func (discardLogger) Warn(string, ...any)  {}
func (discardLogger) Error(error)          {}
