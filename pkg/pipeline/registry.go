package pipeline

import (
	"sort"
	"strings"
	"sync"

	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	flag "github.com/spf13/pflag"
)

const (
	// DefaultPipelineName is used when the configuration does not select any pipeline.
	DefaultPipelineName = "default"
	// PipelinesKey is the configuration key listing the pipelines to chain.
	PipelinesKey = "pipelines"
)

// Factory creates a pipeline.
type Factory func() Pipeline

// Registry maps pipeline names to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a factory under name.
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" {
		return ErrEmptyPipelineName
	}

	if factory == nil {
		return errors.Wrapf(ErrPipelineMustBeSet, "pipeline %q", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.factories[name]; ok {
		return errors.Wrapf(ErrPipelineAlreadyRegistered, "pipeline %q", name)
	}

	r.factories[name] = factory

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, factory Factory) {
	err := r.Register(name, factory)
	if err != nil {
		panic(err)
	}
}

// Lookup creates the pipeline registered under name.
func (r *Registry) Lookup(name string) (Pipeline, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, errors.Wrapf(ErrPipelineNotFound, "pipeline %q", name)
	}

	return factory(), nil
}

// Names returns the registered names in lexical order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Resolve chains the pipelines registered under names, in order.
func (r *Registry) Resolve(names []string) (*ChainedPipeline, error) {
	pipelines := make([]Pipeline, 0, len(names))

	for _, name := range names {
		p, err := r.Lookup(name)
		if err != nil {
			return nil, err
		}

		pipelines = append(pipelines, p)
	}

	return NewChainedPipeline(pipelines...), nil
}

// ParseList splits a comma separated list, dropping empty entries.
func ParseList(s string) []string {
	res := []string{}

	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			res = append(res, part)
		}
	}

	return res
}

// PipelineNames returns the pipeline names selected by cfg.
// The value can be a list or a comma separated string. A missing or empty value selects DefaultPipelineName.
func PipelineNames(cfg *koanf.Koanf) []string {
	var names []string

	if cfg != nil && cfg.Exists(PipelinesKey) {
		for _, value := range cfg.Strings(PipelinesKey) {
			names = append(names, ParseList(value)...)
		}

		if len(names) == 0 {
			names = ParseList(cfg.String(PipelinesKey))
		}
	}

	if len(names) == 0 {
		names = []string{DefaultPipelineName}
	}

	return names
}

func (r *Registry) pipelineFromConfig(cfg *koanf.Koanf) (*ChainedPipeline, error) {
	return r.Resolve(PipelineNames(cfg))
}

// AddFlagsFromConfig registers the command line options of the pipelines selected by cfg.
func (r *Registry) AddFlagsFromConfig(fs *flag.FlagSet, cfg *koanf.Koanf) error {
	p, err := r.pipelineFromConfig(cfg)
	if err != nil {
		return err
	}

	p.AddFlags(fs, cfg)

	return nil
}

// NewRunnerFromConfig creates a runner from the pipelines selected by cfg.
func (r *Registry) NewRunnerFromConfig(cfg *koanf.Koanf, flags *flag.FlagSet, opts ...RunnerOption) (*SimpleRunner, error) {
	p, err := r.pipelineFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	return NewRunnerFromPipeline(p, cfg, flags, opts...)
}
