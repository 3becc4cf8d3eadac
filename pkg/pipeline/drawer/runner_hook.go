package drawer

import (
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-docpipeline/pkg/pipeline/measure"
	"github.com/askiada/go-docpipeline/pkg/pipeline/model"
)

type runnerDrawer struct {
	Drawer
	m measure.Measure
}

func (rd *runnerDrawer) New() error {
	return nil
}

func (rd *runnerDrawer) PrepareStep(step *model.StepInfo) error {
	for _, dataType := range step.SupportedTypes.Sorted() {
		err := rd.AddType(dataType)
		if err != nil {
			return errors.Wrapf(err, "unable to add type of step %s", step.Name)
		}
	}

	return nil
}

func (rd *runnerDrawer) OnStepSkipped(*model.StepInfo, string) error {
	return nil
}

func (rd *runnerDrawer) OnStepApplied(step *model.StepInfo, inputType, outputType string, _ time.Duration) error {
	return rd.AddTransition(step.Name, inputType, outputType)
}

func (rd *runnerDrawer) AfterConvert(int, time.Duration) error {
	return nil
}

func (rd *runnerDrawer) Finish() error {
	if rd.m != nil {
		err := rd.AddMeasure(rd.m)
		if err != nil {
			return errors.Wrap(err, "unable to add measure to drawer")
		}
	}

	err := rd.Draw()
	if err != nil {
		return errors.Wrap(err, "unable to draw runner")
	}

	return nil
}

// RunnerDrawer draws the data type transitions of a runner when it finishes.
// msr is optional and colours transitions by step duration.
func RunnerDrawer(drawer Drawer, msr measure.Measure) model.RunnerHook {
	return &runnerDrawer{Drawer: drawer, m: msr}
}
