package measure

import "time"

// Measure holds the metrics of every step of a runner.
type Measure interface {
	AddMetric(name string) Metric
	GetMetric(name string) Metric
	AllMetrics() map[string]Metric
}

// Metric records the activity of a single step.
type Metric interface {
	AddDuration(inputType string, elapsed time.Duration)
	AddSkipped(inputType string)
	AVGDuration() time.Duration
	Applied() int64
	Skipped() int64
	AppliedByType() map[string]int64
}
