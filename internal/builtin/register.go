package builtin

import (
	"github.com/askiada/go-docpipeline/pkg/pipeline"
)

const (
	PlainTextPipeline = "plaintext"
	MarkdownPipeline  = "markdown"
	SanitizePipeline  = "sanitize"
)

// Register adds the builtin pipelines to reg. The default pipeline chains plain text, markdown and sanitize.
func Register(reg *pipeline.Registry) error {
	factories := []struct {
		name    string
		factory pipeline.Factory
	}{
		{PlainTextPipeline, newPlainTextPipeline},
		{MarkdownPipeline, func() pipeline.Pipeline { return markdownPipeline{} }},
		{SanitizePipeline, func() pipeline.Pipeline { return sanitizePipeline{} }},
		{pipeline.DefaultPipelineName, func() pipeline.Pipeline {
			return pipeline.NewChainedPipeline(newPlainTextPipeline(), markdownPipeline{}, sanitizePipeline{})
		}},
	}

	for _, f := range factories {
		err := reg.Register(f.name, f.factory)
		if err != nil {
			return err
		}
	}

	return nil
}

// NewRegistry creates a registry holding the builtin pipelines.
func NewRegistry() *pipeline.Registry {
	reg := pipeline.NewRegistry()
	if err := Register(reg); err != nil {
		panic(err)
	}

	return reg
}
