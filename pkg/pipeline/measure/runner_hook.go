package measure

import (
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-docpipeline/pkg/pipeline/model"
)

type runnerMeasure struct {
	Measure
}

func (rm *runnerMeasure) New() error {
	rm.AddMetric(ConvertMetricName)
	return nil
}

func (rm *runnerMeasure) PrepareStep(step *model.StepInfo) error {
	if step.Name == ConvertMetricName {
		return errors.Wrapf(ErrReservedMetricName, "step %s", step.Name)
	}

	rm.AddMetric(step.Name)

	return nil
}

func (rm *runnerMeasure) OnStepSkipped(step *model.StepInfo, dataType string) error {
	rm.GetMetric(step.Name).AddSkipped(dataType)
	return nil
}

func (rm *runnerMeasure) OnStepApplied(step *model.StepInfo, inputType, _ string, computationDuration time.Duration) error {
	rm.GetMetric(step.Name).AddDuration(inputType, computationDuration)
	return nil
}

func (rm *runnerMeasure) AfterConvert(applied int, totalDuration time.Duration) error {
	if applied == 0 {
		rm.GetMetric(ConvertMetricName).AddSkipped("")
		return nil
	}

	rm.GetMetric(ConvertMetricName).AddDuration("", totalDuration)

	return nil
}

func (rm *runnerMeasure) Finish() error {
	return nil
}

// RunnerMeasure records step metrics of a runner into measure.
func RunnerMeasure(measure Measure) model.RunnerHook {
	return &runnerMeasure{measure}
}
