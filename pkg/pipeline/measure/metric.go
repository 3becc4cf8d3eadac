package measure

import (
	"sync"
	"time"
)

type DefaultMetric struct {
	byType      map[string]int64
	mu          *sync.Mutex
	stepElapsed time.Duration
	total       int64
	skipped     int64
}

func (mt *DefaultMetric) AddDuration(inputType string, elapsed time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.total++
	mt.stepElapsed += elapsed
	mt.byType[inputType]++
}

func (mt *DefaultMetric) AddSkipped(string) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.skipped++
}

func (mt *DefaultMetric) AVGDuration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	if mt.total == 0 {
		return time.Duration(0)
	}

	return round(time.Duration(float64(mt.stepElapsed) / float64(mt.total)))
}

func (mt *DefaultMetric) Applied() int64 {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.total
}

func (mt *DefaultMetric) Skipped() int64 {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.skipped
}

func (mt *DefaultMetric) AppliedByType() map[string]int64 {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	res := make(map[string]int64, len(mt.byType))
	for dataType, total := range mt.byType {
		res[dataType] = total
	}

	return res
}

func round(d time.Duration) time.Duration {
	switch {
	case d > time.Hour:
		d = d.Round(time.Hour)
	case d > time.Minute:
		d = d.Round(time.Minute)
	case d > time.Second:
		d = d.Round(time.Second)
	case d > time.Millisecond:
		d = d.Round(time.Millisecond)
	case d > time.Microsecond:
		d = d.Round(time.Microsecond)
	}

	return d
}
