package domain

import (
	"maps"
	"slices"
)

// ResultCode is the outcome of one target.
type ResultCode int

const (
	// ResultSuccess means the target ran and succeeded.
	ResultSuccess ResultCode = iota
	// ResultFailure means the target ran and failed.
	ResultFailure
	// ResultSkipped means the target was skipped by its conditions.
	ResultSkipped
)

// String returns the lower-case name of the code.
func (c ResultCode) String() string {
	switch c {
	case ResultSuccess:
		return "success"
	case ResultFailure:
		return "failure"
	case ResultSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Item is one output item of a target: an item spec (usually a path) plus metadata.
type Item struct {
	Spec     string
	Metadata map[string]string
}

// TargetResult holds the outputs of one target.
type TargetResult struct {
	Code     ResultCode
	Items    []*Item
	Messages []string
}

// Result maps target names to per-target outputs for one configuration.
type Result struct {
	ConfigurationID int
	Targets         map[string]*TargetResult
	Error           string
}

// NewResult creates an empty Result for the given configuration.
func NewResult(configurationID int) *Result {
	return &Result{
		ConfigurationID: configurationID,
		Targets:         make(map[string]*TargetResult),
	}
}

// AddTarget records the result of one target, replacing any previous entry.
func (r *Result) AddTarget(name string, tr *TargetResult) {
	if r.Targets == nil {
		r.Targets = make(map[string]*TargetResult)
	}
	r.Targets[name] = tr
}

// TargetNames returns the target names in sorted order.
func (r *Result) TargetNames() []string {
	return slices.Sorted(maps.Keys(r.Targets))
}

// Clone returns a copy of the result keyed by configurationID. Target results are shared,
// not copied, so their identity survives the clone.
func (r *Result) Clone(configurationID int) *Result {
	return &Result{
		ConfigurationID: configurationID,
		Targets:         maps.Clone(r.Targets),
		Error:           r.Error,
	}
}

// Reduced returns a copy of the result holding only the named targets.
func (r *Result) Reduced(names []string) *Result {
	reduced := &Result{
		ConfigurationID: r.ConfigurationID,
		Targets:         make(map[string]*TargetResult, len(names)),
		Error:           r.Error,
	}
	for _, name := range names {
		if tr, ok := r.Targets[name]; ok {
			reduced.Targets[name] = tr
		}
	}
	return reduced
}
