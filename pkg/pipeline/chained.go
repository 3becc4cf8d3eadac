package pipeline

import (
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	flag "github.com/spf13/pflag"

	"github.com/askiada/go-docpipeline/pkg/pipeline/model"
)

// Pipeline resolves an ordered list of steps from configuration.
type Pipeline interface {
	// AddFlags registers the command line options of the pipeline.
	AddFlags(fs *flag.FlagSet, cfg *koanf.Koanf)
	// Steps resolves the ordered steps of the pipeline.
	Steps(cfg *koanf.Koanf, flags *flag.FlagSet) ([]model.Step, error)
}

// StepsPipeline is a pipeline made of a fixed list of steps.
type StepsPipeline []model.Step

func (p StepsPipeline) AddFlags(*flag.FlagSet, *koanf.Koanf) {}

func (p StepsPipeline) Steps(*koanf.Koanf, *flag.FlagSet) ([]model.Step, error) {
	return p, nil
}

// ChainedPipeline concatenates the steps of several pipelines.
type ChainedPipeline struct {
	pipelines []Pipeline
}

// NewChainedPipeline chains pipelines in the given order.
func NewChainedPipeline(pipelines ...Pipeline) *ChainedPipeline {
	return &ChainedPipeline{pipelines: pipelines}
}

// Len returns the number of chained pipelines.
func (c *ChainedPipeline) Len() int {
	return len(c.pipelines)
}

// AddFlags registers the command line options of every chained pipeline.
func (c *ChainedPipeline) AddFlags(fs *flag.FlagSet, cfg *koanf.Koanf) {
	for _, p := range c.pipelines {
		p.AddFlags(fs, cfg)
	}
}

// Steps returns the steps of every chained pipeline, in registration order.
// Steps are neither deduplicated nor reordered.
func (c *ChainedPipeline) Steps(cfg *koanf.Koanf, flags *flag.FlagSet) ([]model.Step, error) {
	var res []model.Step

	for i, p := range c.pipelines {
		if p == nil {
			return nil, errors.Wrapf(ErrPipelineMustBeSet, "pipeline %d", i)
		}

		steps, err := p.Steps(cfg, flags)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to get steps of pipeline %d", i)
		}

		res = append(res, steps...)
	}

	return res, nil
}

var (
	_ Pipeline = (*ChainedPipeline)(nil)
	_ Pipeline = StepsPipeline(nil)
)

// NewRunnerFromPipeline resolves the steps of p and creates a runner from them.
func NewRunnerFromPipeline(p Pipeline, cfg *koanf.Koanf, flags *flag.FlagSet, opts ...RunnerOption) (*SimpleRunner, error) {
	if p == nil {
		return nil, ErrPipelineMustBeSet
	}

	steps, err := p.Steps(cfg, flags)
	if err != nil {
		return nil, errors.Wrap(err, "unable to resolve pipeline steps")
	}

	return NewSimpleRunner(steps, opts...)
}
