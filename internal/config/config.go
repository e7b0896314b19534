// Package config tunes a value engine and evaluator: allocation caps,
// sweep/vacuum scheduling, recursion depth, and the advisory
// feature-disable mask (spec 9's "Feature-disable mask... honored by
// stdlib bindings, not by core"). Options are built through functional
// options (the same With... option pattern used across this codebase,
// e.g. WithOutput) or loaded from a YAML file via goccy/go-yaml.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/cwscript-lang/cwscript/internal/evaluator"
	"github.com/cwscript-lang/cwscript/internal/value"
)

// Feature is one bit of the advisory feature-disable mask. Core packages
// never consult it; it exists for host-supplied stdlib bindings (file
// I/O, process control) to check before acting.
type Feature uint32

const (
	FeatureFileRead Feature = 1 << iota
	FeatureFileWrite
	FeatureFileStat
	FeatureProcessSpawn
	FeatureNetwork
)

// Mask is a set of disabled Features.
type Mask uint32

// Disabled reports whether f is in the disabled set.
func (m Mask) Disabled(f Feature) bool { return m&Mask(f) != 0 }

// With returns a new Mask with f added to the disabled set.
func (m Mask) With(f Feature) Mask { return m | Mask(f) }

// Without returns a new Mask with f removed from the disabled set.
func (m Mask) Without(f Feature) Mask { return m &^ Mask(f) }

// Options bundles every tuning knob for a value engine plus the
// evaluator built on top of it. Default returns the standard settings
// (unlimited allocation, sweep every call, vacuum every 32nd sweep,
// default recursion depth); a zero Options has VacuumInterval 0 and so
// never vacuums.
type Options struct {
	// MaxTotalBytes caps the engine's lifetime estimated allocation
	// total. 0 means unlimited.
	MaxTotalBytes int64
	// MaxConcurrentBytes caps estimated live bytes. 0 means unlimited.
	MaxConcurrentBytes int64
	// MaxSingleAllocSize caps any single allocation's estimated size.
	// 0 means unlimited.
	MaxSingleAllocSize int64
	// EnableInterning turns on string interning.
	EnableInterning bool

	// SweepInterval is how many top-level expressions run between
	// sweeps. <= 0 is normalized to 1.
	SweepInterval int
	// VacuumInterval is how many successful sweeps are promoted to a
	// vacuum. <= 0 disables vacuuming.
	VacuumInterval int
	// MaxStackDepth caps script-function recursion. <= 0 selects
	// evaluator.DefaultMaxRecursionDepth.
	MaxStackDepth int

	// Features is the advisory feature-disable mask.
	Features Mask
}

// Default returns the options a bare New() would use.
func Default() *Options {
	return &Options{
		SweepInterval:  evaluator.DefaultSweepInterval,
		VacuumInterval: evaluator.DefaultVacuumInterval,
		MaxStackDepth:  evaluator.DefaultMaxRecursionDepth,
	}
}

// Option mutates an in-progress Options during New/Load.
type Option func(*Options)

// WithMaxTotalBytes caps lifetime allocation.
func WithMaxTotalBytes(n int64) Option {
	return func(o *Options) { o.MaxTotalBytes = n }
}

// WithMaxConcurrentBytes caps live allocation.
func WithMaxConcurrentBytes(n int64) Option {
	return func(o *Options) { o.MaxConcurrentBytes = n }
}

// WithMaxSingleAllocSize caps any one allocation's estimated size.
func WithMaxSingleAllocSize(n int64) Option {
	return func(o *Options) { o.MaxSingleAllocSize = n }
}

// WithInterning enables string interning.
func WithInterning(enabled bool) Option {
	return func(o *Options) { o.EnableInterning = enabled }
}

// WithSweepInterval sets the sweep cadence.
func WithSweepInterval(n int) Option {
	return func(o *Options) { o.SweepInterval = n }
}

// WithVacuumInterval sets the vacuum cadence; n <= 0 disables vacuuming.
func WithVacuumInterval(n int) Option {
	return func(o *Options) { o.VacuumInterval = n }
}

// WithMaxStackDepth sets the recursion cap.
func WithMaxStackDepth(n int) Option {
	return func(o *Options) { o.MaxStackDepth = n }
}

// WithDisabledFeatures adds each feature to the disabled mask.
func WithDisabledFeatures(features ...Feature) Option {
	return func(o *Options) {
		for _, f := range features {
			o.Features = o.Features.With(f)
		}
	}
}

// New builds Options from Default plus the given functional options.
func New(opts ...Option) *Options {
	o := Default()
	o.Apply(opts...)
	return o
}

// Apply mutates o in place with each option, in order. Used to layer
// functional options on top of a YAML-loaded Options (Load/Parse).
func (o *Options) Apply(opts ...Option) {
	for _, apply := range opts {
		apply(o)
	}
}

// ValueOptions projects the allocation-related fields into a
// value.Options suitable for value.NewEngine.
func (o *Options) ValueOptions() value.Options {
	return value.Options{
		MaxTotalBytes:      o.MaxTotalBytes,
		MaxConcurrentBytes: o.MaxConcurrentBytes,
		MaxSingleAllocSize: o.MaxSingleAllocSize,
		EnableInterning:    o.EnableInterning,
	}
}

// file is the on-disk YAML shape; it exists separately from Options so
// the YAML surface (snake_case, feature names as strings) can evolve
// independently of the Go-facing functional-option surface.
type file struct {
	MaxTotalBytes      int64    `yaml:"max_total_bytes"`
	MaxConcurrentBytes int64    `yaml:"max_concurrent_bytes"`
	MaxSingleAllocSize int64    `yaml:"max_single_alloc_size"`
	EnableInterning    bool     `yaml:"enable_interning"`
	SweepInterval      int      `yaml:"sweep_interval"`
	VacuumInterval     int      `yaml:"vacuum_interval"`
	MaxStackDepth      int      `yaml:"max_stack_depth"`
	DisableFeatures    []string `yaml:"disable_features"`
}

var featureNames = map[string]Feature{
	"file_read":     FeatureFileRead,
	"file_write":    FeatureFileWrite,
	"file_stat":     FeatureFileStat,
	"process_spawn": FeatureProcessSpawn,
	"network":       FeatureNetwork,
}

// Load reads Options from a YAML file, starting from Default and
// overriding only the fields present in the document. Unknown
// disable_features entries are rejected rather than silently ignored.
func Load(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes Options from YAML bytes (Load's body, split out for
// callers that already have the document in memory, e.g. embedded
// defaults or tests).
func Parse(data []byte) (*Options, error) {
	var f file
	f.SweepInterval = evaluator.DefaultSweepInterval
	f.VacuumInterval = evaluator.DefaultVacuumInterval
	f.MaxStackDepth = evaluator.DefaultMaxRecursionDepth

	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("config: parsing yaml: %w", err)
	}

	o := &Options{
		MaxTotalBytes:      f.MaxTotalBytes,
		MaxConcurrentBytes: f.MaxConcurrentBytes,
		MaxSingleAllocSize: f.MaxSingleAllocSize,
		EnableInterning:    f.EnableInterning,
		SweepInterval:      f.SweepInterval,
		VacuumInterval:     f.VacuumInterval,
		MaxStackDepth:      f.MaxStackDepth,
	}
	for _, name := range f.DisableFeatures {
		feat, ok := featureNames[name]
		if !ok {
			return nil, fmt.Errorf("config: unknown feature %q", name)
		}
		o.Features = o.Features.With(feat)
	}
	return o, nil
}
