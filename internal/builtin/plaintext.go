package builtin

import (
	"context"

	"github.com/askiada/go-docpipeline/pkg/pipeline"
	"github.com/askiada/go-docpipeline/pkg/pipeline/model"
)

// plain text is valid markdown, only the type changes
func newPlainTextStep() *pipeline.FuncStep {
	return pipeline.NewFuncStep("plaintext", func(_ context.Context, item *model.WorkItem) (*model.WorkItem, error) {
		return &model.WorkItem{
			Content:  item.Content,
			Filename: item.Filename,
			Type:     TypeMarkdown,
		}, nil
	}, TypePlain)
}

func newPlainTextPipeline() pipeline.Pipeline {
	return pipeline.StepsPipeline{newPlainTextStep()}
}
