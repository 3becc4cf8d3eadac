package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-docpipeline/pkg/pipeline/model"
)

// SimpleRunner converts items by walking an ordered list of steps.
type SimpleRunner struct {
	steps  []model.Step
	infos  []*model.StepInfo
	hooks  []model.RunnerHook
	logger *slog.Logger
}

// NewSimpleRunner creates a runner from an ordered list of steps.
// The list is not validated, an empty list is legal and rejects every data type.
func NewSimpleRunner(steps []model.Step, opts ...RunnerOption) (*SimpleRunner, error) {
	runner := &SimpleRunner{
		steps:  steps,
		infos:  model.NewStepInfos(steps),
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(runner)
	}

	runner.logger.Debug("creating runner", slog.Int("steps", len(steps)), slog.Any("names", runner.names()))

	for _, hook := range runner.hooks {
		err := hook.New()
		if err != nil {
			return nil, errors.Wrap(err, "unable to apply runner hook")
		}

		for _, info := range runner.infos {
			err = hook.PrepareStep(info)
			if err != nil {
				return nil, errors.Wrapf(err, "unable to prepare step %s", info.Name)
			}
		}
	}

	return runner, nil
}

func (r *SimpleRunner) names() []string {
	names := make([]string, len(r.infos))
	for i, info := range r.infos {
		names[i] = info.Name
	}

	return names
}

// Steps describes the steps of the runner in order.
func (r *SimpleRunner) Steps() []model.StepInfo {
	res := make([]model.StepInfo, len(r.infos))
	for i, info := range r.infos {
		res[i] = *info
	}

	return res
}

// SupportedTypes returns the union of the data types supported by every step.
func (r *SimpleRunner) SupportedTypes() model.TypeSet {
	res := model.NewTypeSet()
	for _, step := range r.steps {
		res.Union(step.SupportedTypes())
	}

	return res
}

// Convert runs the item through the steps supporting its current data type.
// Steps are visited once, in order. The data type is read again before each step since the previous
// step may have changed it. If no step applied, Convert returns an UnsupportedDataTypeError.
// A step error stops the conversion and is returned as is, wrapped with the step name.
func (r *SimpleRunner) Convert(ctx context.Context, content []byte, filename, dataType string) (*model.WorkItem, error) {
	start := time.Now()
	current := &model.WorkItem{
		Content:  content,
		Filename: filename,
		Type:     dataType,
	}
	applied := 0

	for i, step := range r.steps {
		info := r.infos[i]
		dataType = current.Type

		if !step.SupportedTypes().Has(dataType) {
			r.logger.Debug("skipping step", slog.String("type", dataType), slog.String("step", info.Name))

			err := r.onStepSkipped(info, dataType)
			if err != nil {
				return nil, err
			}

			continue
		}

		r.logger.Debug("executing step", slog.String("type", dataType), slog.String("step", info.Name))

		startFn := time.Now()

		next, err := step.Apply(ctx, current)
		if err != nil {
			return nil, errors.Wrapf(err, "step %s", info.Name)
		}

		if next == nil {
			return nil, errors.Wrapf(ErrNilItem, "step %s", info.Name)
		}

		endFn := time.Since(startFn)
		current = next
		applied++

		err = r.onStepApplied(info, dataType, current.Type, endFn)
		if err != nil {
			return nil, err
		}
	}

	var unsupported *UnsupportedDataTypeError
	if applied == 0 {
		unsupported = &UnsupportedDataTypeError{DataType: dataType}
	}

	for _, hook := range r.hooks {
		err := hook.AfterConvert(applied, time.Since(start))
		if err == nil {
			continue
		}

		// IsUnsupportedDataType must still match
		if unsupported != nil {
			return nil, errors.Wrapf(unsupported, "unable to run after convert function: %v", err)
		}

		return nil, errors.Wrap(err, "unable to run after convert function")
	}

	if unsupported != nil {
		return nil, unsupported
	}

	return current, nil
}

func (r *SimpleRunner) onStepSkipped(info *model.StepInfo, dataType string) error {
	for _, hook := range r.hooks {
		err := hook.OnStepSkipped(info, dataType)
		if err != nil {
			return errors.Wrap(err, "unable to run on step skipped function")
		}
	}

	return nil
}

func (r *SimpleRunner) onStepApplied(info *model.StepInfo, inputType, outputType string, d time.Duration) error {
	for _, hook := range r.hooks {
		err := hook.OnStepApplied(info, inputType, outputType, d)
		if err != nil {
			return errors.Wrap(err, "unable to run on step applied function")
		}
	}

	return nil
}

// Finish runs the finish function of every hook.
func (r *SimpleRunner) Finish() error {
	for _, hook := range r.hooks {
		err := hook.Finish()
		if err != nil {
			return errors.Wrap(err, "unable to finish runner hook")
		}
	}

	return nil
}
