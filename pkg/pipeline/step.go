package pipeline

import (
	"context"

	"github.com/askiada/go-docpipeline/pkg/pipeline/model"
)

// FuncStep is a step backed by a function.
type FuncStep struct {
	name      string
	supported model.TypeSet
	fn        func(ctx context.Context, item *model.WorkItem) (*model.WorkItem, error)
}

// NewFuncStep creates a step applying fn to items of the supported data types.
func NewFuncStep(name string, fn func(ctx context.Context, item *model.WorkItem) (*model.WorkItem, error), supportedTypes ...string) *FuncStep {
	return &FuncStep{
		name:      name,
		supported: model.NewTypeSet(supportedTypes...),
		fn:        fn,
	}
}

func (s *FuncStep) String() string {
	return s.name
}

func (s *FuncStep) SupportedTypes() model.TypeSet {
	return s.supported
}

func (s *FuncStep) Apply(ctx context.Context, item *model.WorkItem) (*model.WorkItem, error) {
	return s.fn(ctx, item)
}

var _ model.Step = (*FuncStep)(nil)
