// Package engine implements an in-memory build engine that keeps configuration and results
// caches and reuses cached target results across builds.
package engine

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"go.trai.ch/cachebridge/internal/core/domain"
	"go.trai.ch/zerr"
)

// TargetStatus represents the outcome of one requested target.
type TargetStatus string

const (
	// StatusPending indicates the target has not been reached.
	StatusPending TargetStatus = "Pending"
	// StatusCompleted indicates the target ran and succeeded.
	StatusCompleted TargetStatus = "Completed"
	// StatusFailed indicates the target ran and failed.
	StatusFailed TargetStatus = "Failed"
	// StatusCached indicates the target was skipped because its result was cached.
	StatusCached TargetStatus = "Cached"
)

// TargetFunc builds one target of a configuration.
type TargetFunc func(ctx context.Context, cfg *domain.Configuration, target string) (*domain.TargetResult, error)

// Request asks the engine to build targets of a project.
type Request struct {
	ProjectPath      string
	GlobalProperties map[string]string
	ToolsVersion     string
	Targets          []string
	Run              TargetFunc
}

// Outcome reports what a build did.
type Outcome struct {
	ConfigurationID int
	Result          *domain.Result
	Statuses        map[string]TargetStatus
}

// Engine is an in-memory build engine. It is safe for concurrent use.
type Engine struct {
	mu      sync.Mutex
	lastID  int
	configs *domain.ConfigCache
	results *domain.ResultsCache
}

// New creates an Engine with empty caches.
func New() *Engine {
	return &Engine{
		configs: domain.NewConfigCache(),
		results: domain.NewResultsCache(),
	}
}

// NewConfigurationID reserves an identifier no configuration of this session uses.
func (e *Engine) NewConfigurationID() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.lastID = max(e.lastID, e.configs.MaxID()) + 1
	return e.lastID
}

// InstallCaches replaces the engine caches.
func (e *Engine) InstallCaches(ctx context.Context, configs *domain.ConfigCache, results *domain.ResultsCache) error {
	if err := ctx.Err(); err != nil {
		return zerr.Wrap(err, "install caches")
	}
	if configs == nil || results == nil {
		return zerr.Wrap(domain.ErrEngineInstall, "caches must not be nil")
	}
	for _, r := range results.All() {
		if _, ok := configs.Get(r.ConfigurationID); !ok {
			return zerr.With(zerr.Wrap(domain.ErrEngineInstall, "result without configuration"),
				"configuration_id", r.ConfigurationID)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.configs = configs
	e.results = results
	e.lastID = max(e.lastID, configs.MaxID())
	return nil
}

// ReadBackCaches returns the current caches.
func (e *Engine) ReadBackCaches(ctx context.Context) (*domain.ConfigCache, *domain.ResultsCache, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, zerr.Wrap(err, "read back caches")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.configs, e.results, nil
}

// Execute builds the requested targets in order. A target with a cached result for the
// matching configuration is not run again. Execution stops at the first failing target.
func (e *Engine) Execute(ctx context.Context, req Request) (*Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg, err := e.configuration(req)
	if err != nil {
		return nil, err
	}
	result, ok := e.results.Get(cfg.ID)
	if !ok {
		result = domain.NewResult(cfg.ID)
		e.results.Add(result)
	}

	out := &Outcome{
		ConfigurationID: cfg.ID,
		Result:          result,
		Statuses:        make(map[string]TargetStatus, len(req.Targets)),
	}
	for _, target := range req.Targets {
		out.Statuses[target] = StatusPending
	}

	for _, target := range req.Targets {
		if err := ctx.Err(); err != nil {
			return out, zerr.Wrap(err, "build cancelled")
		}

		if tr, ok := result.Targets[target]; ok && tr.Code != domain.ResultFailure {
			out.Statuses[target] = StatusCached
			continue
		}

		if req.Run == nil {
			return out, zerr.With(zerr.Wrap(domain.ErrBuildFailed, "no target function"), "target", target)
		}
		tr, err := req.Run(ctx, cfg, target)
		if err != nil {
			result.AddTarget(target, &domain.TargetResult{Code: domain.ResultFailure, Messages: []string{err.Error()}})
			result.Error = err.Error()
			out.Statuses[target] = StatusFailed
			return out, zerr.With(zerr.Wrap(fmt.Errorf("%w: %w", domain.ErrBuildFailed, err), "run target"), "target", target)
		}

		result.AddTarget(target, tr)
		if !slices.Contains(cfg.TargetNames, target) {
			cfg.TargetNames = append(cfg.TargetNames, target)
		}
		if tr.Code == domain.ResultFailure {
			out.Statuses[target] = StatusFailed
			return out, zerr.With(zerr.Wrap(domain.ErrBuildFailed, "target failed"), "target", target)
		}
		out.Statuses[target] = StatusCompleted
	}

	return out, nil
}

func (e *Engine) configuration(req Request) (*domain.Configuration, error) {
	if req.ProjectPath == "" {
		return nil, zerr.Wrap(domain.ErrBuildFailed, "request has no project path")
	}

	probe := &domain.Configuration{
		ProjectPath:      req.ProjectPath,
		GlobalProperties: req.GlobalProperties,
	}
	if cfg, ok := e.configs.Match(probe); ok {
		return cfg, nil
	}

	e.lastID = max(e.lastID, e.configs.MaxID()) + 1
	cfg := &domain.Configuration{
		ID:               e.lastID,
		ProjectPath:      req.ProjectPath,
		GlobalProperties: maps.Clone(req.GlobalProperties),
		ToolsVersion:     req.ToolsVersion,
	}
	if err := e.configs.Add(cfg); err != nil {
		return nil, zerr.Wrap(err, "create configuration")
	}
	return cfg, nil
}
