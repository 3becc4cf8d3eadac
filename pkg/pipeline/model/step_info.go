package model

import (
	"context"
	"fmt"
	"sort"
)

// TypeSet is a set of data type labels.
type TypeSet map[string]struct{}

// NewTypeSet creates a set holding the given labels.
func NewTypeSet(labels ...string) TypeSet {
	ts := make(TypeSet, len(labels))
	for _, label := range labels {
		ts[label] = struct{}{}
	}

	return ts
}

func (ts TypeSet) Has(label string) bool {
	_, ok := ts[label]
	return ok
}

func (ts TypeSet) Add(labels ...string) {
	for _, label := range labels {
		ts[label] = struct{}{}
	}
}

// Union adds every label of other to the set.
func (ts TypeSet) Union(other TypeSet) {
	for label := range other {
		ts[label] = struct{}{}
	}
}

func (ts TypeSet) Len() int {
	return len(ts)
}

// Sorted returns the labels in lexical order.
func (ts TypeSet) Sorted() []string {
	res := make([]string, 0, len(ts))
	for label := range ts {
		res = append(res, label)
	}

	sort.Strings(res)

	return res
}

// WorkItem is the unit flowing through a runner.
type WorkItem struct {
	Content  []byte
	Filename string
	Type     string
}

// Step is a conversion unit declaring the data types it can consume.
type Step interface {
	// SupportedTypes returns the data types the step accepts as input.
	SupportedTypes() TypeSet
	// Apply converts the item. The returned item belongs to the caller.
	Apply(ctx context.Context, item *WorkItem) (*WorkItem, error)
}

// StepInfo describes a step registered in a runner.
type StepInfo struct {
	Index          int
	Name           string
	SupportedTypes TypeSet
}

// StepName returns the name used to identify a step in logs and hooks.
func StepName(step Step) string {
	if s, ok := step.(fmt.Stringer); ok {
		return s.String()
	}

	return fmt.Sprintf("%T", step)
}

// NewStepInfos describes the steps in order. Duplicated names get a "#n" suffix.
func NewStepInfos(steps []Step) []*StepInfo {
	infos := make([]*StepInfo, len(steps))
	seen := make(map[string]int, len(steps))

	for i, step := range steps {
		name := StepName(step)
		seen[name]++

		if seen[name] > 1 {
			name = fmt.Sprintf("%s#%d", name, seen[name])
		}

		infos[i] = &StepInfo{
			Index:          i,
			Name:           name,
			SupportedTypes: step.SupportedTypes(),
		}
	}

	return infos
}
