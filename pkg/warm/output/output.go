// Package output renders the summary of a warm invocation in one of several
// formats (pretty, plain, json, yaml).
//
// Formatters are kept in a registry so the command line can select one by
// name:
//
//	formatter, err := output.Get("json")
//	if err != nil {
//	    return err
//	}
//	var buf bytes.Buffer
//	if err := formatter.Format(&buf, report); err != nil {
//	    return err
//	}
//	fmt.Print(buf.String())
package output

import (
	"bytes"
	"fmt"
	"sort"
	"sync"

	"github.com/jamesainslie/warm/pkg/warm/types"
)

// Report describes one invocation: an optional estimate phase followed by
// an optional warm phase over the same targets.
type Report struct {
	// RunID identifies the invocation in logs.
	RunID string `json:"run_id" yaml:"run_id"`

	// Targets are the directory roots and files that were processed.
	Targets []types.Target `json:"targets" yaml:"targets"`

	// Threads is the worker pool size used by both phases.
	Threads int `json:"threads" yaml:"threads"`

	// FollowLinks reports whether symlinks were traversed while walking.
	FollowLinks bool `json:"follow_links" yaml:"follow_links"`

	// Estimate holds the estimate phase counters, or nil if it was skipped.
	Estimate *types.RunStats `json:"estimate,omitempty" yaml:"estimate,omitempty"`

	// Warm holds the warm phase counters, or nil if it was skipped.
	Warm *types.RunStats `json:"warm,omitempty" yaml:"warm,omitempty"`

	// Warnings are absorbed per-path failures worth showing to the user.
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	// Interrupted is set when the user cancelled the run.
	Interrupted bool `json:"interrupted" yaml:"interrupted"`
}

// EstimatedBytes returns the estimated total, or 0 if no estimate ran.
func (r *Report) EstimatedBytes() uint64 {
	if r.Estimate == nil {
		return 0
	}
	return r.Estimate.Bytes
}

// WarmedBytes returns the number of bytes read, or 0 if no warm pass ran.
func (r *Report) WarmedBytes() uint64 {
	if r.Warm == nil {
		return 0
	}
	return r.Warm.Bytes
}

// Coverage returns warmed bytes as a percentage of the estimate.
// It returns 0 when either phase is missing or the estimate is empty.
func (r *Report) Coverage() float64 {
	if r.Estimate == nil || r.Warm == nil || r.Estimate.Bytes == 0 {
		return 0
	}
	return float64(r.Warm.Bytes) / float64(r.Estimate.Bytes) * 100
}

// Errors returns the total number of absorbed failures across both phases.
func (r *Report) Errors() int64 {
	var n int64
	if r.Estimate != nil {
		n += r.Estimate.Errors
	}
	if r.Warm != nil {
		n += r.Warm.Errors
	}
	return n
}

// Formatter is the interface that all output formatters must implement.
type Formatter interface {
	// Format writes the formatted report to the buffer.
	Format(w *bytes.Buffer, r *Report) error
}

// FormatterFactory is a function that creates a new Formatter instance.
type FormatterFactory func() Formatter

// Registry manages formatter registration and lookup.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]FormatterFactory
}

// NewRegistry creates a new formatter registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]FormatterFactory),
	}
}

// Register adds a formatter factory to the registry, replacing any existing
// formatter with the same name.
func (r *Registry) Register(name string, factory FormatterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get returns a new formatter instance by name.
func (r *Registry) Get(name string) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown formatter: %s", name)
	}
	return factory(), nil
}

// Available returns a sorted list of all registered formatter names.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global formatter registry.
var DefaultRegistry = NewRegistry()

// Register adds a formatter factory to the default registry.
func Register(name string, factory FormatterFactory) {
	DefaultRegistry.Register(name, factory)
}

// Get returns a new formatter instance from the default registry.
func Get(name string) (Formatter, error) {
	return DefaultRegistry.Get(name)
}

// Available returns all formatter names from the default registry.
func Available() []string {
	return DefaultRegistry.Available()
}
