package model

import "time"

// RunnerHook defines the interface for observers plugged into a runner.
// Implementations must be safe for concurrent use since conversions can run in parallel.
type RunnerHook interface {
	// New initialises the hook.
	New() error
	// PrepareStep runs once per step when the runner is created.
	PrepareStep(step *StepInfo) error
	// OnStepSkipped runs everytime a step does not support the current data type.
	OnStepSkipped(step *StepInfo, dataType string) error
	// OnStepApplied runs everytime a step has converted an item.
	OnStepApplied(step *StepInfo, inputType, outputType string, computationDuration time.Duration) error
	// AfterConvert runs after a conversion walked the whole step list.
	AfterConvert(applied int, totalDuration time.Duration) error
	// Finish runs when the runner is finished.
	Finish() error
}
