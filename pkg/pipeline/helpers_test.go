package pipeline_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/askiada/go-docpipeline/pkg/pipeline/model"
)

// typeStep converts any supported type to out and appends its name to the content.
type typeStep struct {
	name      string
	supported model.TypeSet
	out       string
	calls     atomic.Int64
	err       error
}

func newTypeStep(t *testing.T, name, out string, supported ...string) *typeStep {
	t.Helper()

	return &typeStep{name: name, supported: model.NewTypeSet(supported...), out: out}
}

func (s *typeStep) String() string {
	return s.name
}

func (s *typeStep) SupportedTypes() model.TypeSet {
	return s.supported
}

func (s *typeStep) Apply(_ context.Context, item *model.WorkItem) (*model.WorkItem, error) {
	s.calls.Add(1)

	if s.err != nil {
		return nil, s.err
	}

	content := append([]byte{}, item.Content...)
	content = append(content, []byte("|"+s.name)...)

	return &model.WorkItem{Content: content, Filename: item.Filename, Type: s.out}, nil
}

// noopStep returns the item it was given.
type noopStep struct {
	supported model.TypeSet
}

func (s noopStep) SupportedTypes() model.TypeSet {
	return s.supported
}

func (s noopStep) Apply(_ context.Context, item *model.WorkItem) (*model.WorkItem, error) {
	return item, nil
}

// recorderHook records every hook call.
type recorderHook struct {
	mu       sync.Mutex
	prepared []string
	skipped  []string
	applied  []string
	converts []int
	finished bool
	err      error
	afterErr error
}

func (h *recorderHook) New() error {
	return nil
}

func (h *recorderHook) PrepareStep(step *model.StepInfo) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.prepared = append(h.prepared, step.Name)

	return nil
}

func (h *recorderHook) OnStepSkipped(step *model.StepInfo, dataType string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.skipped = append(h.skipped, step.Name+":"+dataType)

	return nil
}

func (h *recorderHook) OnStepApplied(step *model.StepInfo, inputType, outputType string, _ time.Duration) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.applied = append(h.applied, step.Name+":"+inputType+"->"+outputType)

	return h.err
}

func (h *recorderHook) AfterConvert(applied int, _ time.Duration) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.converts = append(h.converts, applied)

	return h.afterErr
}

func (h *recorderHook) Finish() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.finished = true

	return nil
}

var _ model.RunnerHook = (*recorderHook)(nil)
