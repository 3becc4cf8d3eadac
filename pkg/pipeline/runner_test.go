package pipeline_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-docpipeline/pkg/pipeline"
	"github.com/askiada/go-docpipeline/pkg/pipeline/model"
)

func TestConvertPDFToTEI(t *testing.T) {
	t.Parallel()

	s1 := newTypeStep(t, "pdf2xml", "xml", "pdf")
	s2 := newTypeStep(t, "xml2tei", "tei", "xml")
	runner, err := pipeline.NewSimpleRunner([]model.Step{s1, s2})
	require.NoError(t, err)

	got, err := runner.Convert(context.Background(), []byte("pdf"), "doc.pdf", "pdf")
	require.NoError(t, err)
	assert.Equal(t, &model.WorkItem{Content: []byte("pdf|pdf2xml|xml2tei"), Filename: "doc.pdf", Type: "tei"}, got)
	assert.Equal(t, []string{"pdf", "xml"}, runner.SupportedTypes().Sorted())
}

func TestConvertUnsupportedType(t *testing.T) {
	t.Parallel()

	s1 := newTypeStep(t, "pdf2xml", "xml", "pdf")
	s2 := newTypeStep(t, "xml2tei", "tei", "xml")
	runner, err := pipeline.NewSimpleRunner([]model.Step{s1, s2})
	require.NoError(t, err)

	got, err := runner.Convert(context.Background(), []byte("text"), "doc.txt", "text")
	require.Error(t, err)
	assert.Nil(t, got)

	var unsupported *pipeline.UnsupportedDataTypeError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "text", unsupported.DataType)
	assert.Zero(t, s1.calls.Load())
	assert.Zero(t, s2.calls.Load())
}

func TestConvertEmptyRunner(t *testing.T) {
	t.Parallel()

	runner, err := pipeline.NewSimpleRunner(nil)
	require.NoError(t, err)
	assert.Zero(t, runner.SupportedTypes().Len())

	for _, dataType := range []string{"pdf", "", "text/html"} {
		_, err := runner.Convert(context.Background(), nil, "doc", dataType)

		got, ok := pipeline.IsUnsupportedDataType(err)
		require.True(t, ok)
		assert.Equal(t, dataType, got)
	}
}

func TestConvertSinglePass(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		steps       func(t *testing.T) []model.Step
		input       string
		expected    string
		expectedErr bool
	}{
		"transitive": {
			steps: func(t *testing.T) []model.Step {
				return []model.Step{
					newTypeStep(t, "a2b", "b", "a"),
					newTypeStep(t, "b2c", "c", "b"),
					newTypeStep(t, "c2d", "d", "c"),
				}
			},
			input:    "a",
			expected: "d",
		},
		"earlier step is not visited again": {
			steps: func(t *testing.T) []model.Step {
				return []model.Step{
					newTypeStep(t, "b2c", "c", "b"),
					newTypeStep(t, "a2b", "b", "a"),
				}
			},
			input:    "a",
			expected: "b",
		},
		"skipped steps in between": {
			steps: func(t *testing.T) []model.Step {
				return []model.Step{
					newTypeStep(t, "a2b", "b", "a"),
					newTypeStep(t, "x2y", "y", "x"),
					newTypeStep(t, "b2b", "b", "b"),
				}
			},
			input:    "a",
			expected: "b",
		},
		"type consumed by several steps": {
			steps: func(t *testing.T) []model.Step {
				return []model.Step{
					newTypeStep(t, "a2a", "a", "a"),
					newTypeStep(t, "a2b", "b", "a", "z"),
				}
			},
			input:    "z",
			expected: "b",
		},
		"no step applies": {
			steps: func(t *testing.T) []model.Step {
				return []model.Step{newTypeStep(t, "a2b", "b", "a")}
			},
			input:       "b",
			expectedErr: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			runner, err := pipeline.NewSimpleRunner(tc.steps(t))
			require.NoError(t, err)

			got, err := runner.Convert(context.Background(), nil, "file", tc.input)
			if tc.expectedErr {
				dataType, ok := pipeline.IsUnsupportedDataType(err)
				require.True(t, ok)
				assert.Equal(t, tc.input, dataType)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, got.Type)
			assert.Equal(t, "file", got.Filename)
		})
	}
}

func TestConvertNoopStepCountsAsApplied(t *testing.T) {
	t.Parallel()

	runner, err := pipeline.NewSimpleRunner([]model.Step{noopStep{supported: model.NewTypeSet("pdf")}})
	require.NoError(t, err)

	got, err := runner.Convert(context.Background(), []byte("raw"), "doc.pdf", "pdf")
	require.NoError(t, err)
	assert.Equal(t, &model.WorkItem{Content: []byte("raw"), Filename: "doc.pdf", Type: "pdf"}, got)
}

func TestConvertDeterministic(t *testing.T) {
	t.Parallel()

	runner, err := pipeline.NewSimpleRunner([]model.Step{
		newTypeStep(t, "a2b", "b", "a"),
		newTypeStep(t, "c2d", "d", "c"),
		newTypeStep(t, "b2c", "c", "b"),
	})
	require.NoError(t, err)

	first, err := runner.Convert(context.Background(), []byte("x"), "f", "a")
	require.NoError(t, err)

	for range 10 {
		got, err := runner.Convert(context.Background(), []byte("x"), "f", "a")
		require.NoError(t, err)
		assert.Equal(t, first, got)
	}

	assert.Equal(t, "x|a2b|b2c", string(first.Content))
	assert.Equal(t, "c", first.Type)
}

func TestConvertStepError(t *testing.T) {
	t.Parallel()

	s1 := newTypeStep(t, "a2b", "b", "a")
	s1.err = assert.AnError
	s2 := newTypeStep(t, "a2c", "c", "a")

	runner, err := pipeline.NewSimpleRunner([]model.Step{s1, s2})
	require.NoError(t, err)

	_, err = runner.Convert(context.Background(), nil, "f", "a")
	require.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "a2b")
	assert.Equal(t, int64(1), s1.calls.Load())
	assert.Zero(t, s2.calls.Load())

	_, ok := pipeline.IsUnsupportedDataType(err)
	assert.False(t, ok)
}

func TestConvertNilItem(t *testing.T) {
	t.Parallel()

	step := pipeline.NewFuncStep("nil", func(context.Context, *model.WorkItem) (*model.WorkItem, error) {
		return nil, nil
	}, "a")

	runner, err := pipeline.NewSimpleRunner([]model.Step{step})
	require.NoError(t, err)

	_, err = runner.Convert(context.Background(), nil, "f", "a")
	require.ErrorIs(t, err, pipeline.ErrNilItem)
}

func TestRunnerSupportedTypesUnion(t *testing.T) {
	t.Parallel()

	steps := []model.Step{
		newTypeStep(t, "s1", "x", "a", "b"),
		newTypeStep(t, "s2", "x", "b", "c"),
		newTypeStep(t, "s3", "x"),
	}

	runner, err := pipeline.NewSimpleRunner(steps)
	require.NoError(t, err)

	reversed, err := pipeline.NewSimpleRunner([]model.Step{steps[2], steps[1], steps[0]})
	require.NoError(t, err)

	assert.Equal(t, model.NewTypeSet("a", "b", "c"), runner.SupportedTypes())
	assert.Equal(t, runner.SupportedTypes(), reversed.SupportedTypes())
}

func TestRunnerSteps(t *testing.T) {
	t.Parallel()

	runner, err := pipeline.NewSimpleRunner([]model.Step{
		newTypeStep(t, "same", "b", "a"),
		newTypeStep(t, "same", "c", "b"),
		noopStep{supported: model.NewTypeSet("c")},
	})
	require.NoError(t, err)

	names := []string{}
	for _, info := range runner.Steps() {
		names = append(names, info.Name)
	}

	assert.Equal(t, []string{"same", "same#2", "pipeline_test.noopStep"}, names)
}

func TestRunnerHooks(t *testing.T) {
	t.Parallel()

	hook := &recorderHook{}
	runner, err := pipeline.NewSimpleRunner([]model.Step{
		newTypeStep(t, "a2b", "b", "a"),
		newTypeStep(t, "x2y", "y", "x"),
		newTypeStep(t, "b2c", "c", "b"),
	}, pipeline.RunnerHooks(hook))
	require.NoError(t, err)

	_, err = runner.Convert(context.Background(), nil, "f", "a")
	require.NoError(t, err)

	_, err = runner.Convert(context.Background(), nil, "f", "z")
	require.Error(t, err)

	require.NoError(t, runner.Finish())

	assert.Equal(t, []string{"a2b", "x2y", "b2c"}, hook.prepared)
	assert.Equal(t, []string{"a2b:a->b", "b2c:b->c"}, hook.applied)
	assert.Equal(t, []string{"x2y:b", "a2b:z", "x2y:z", "b2c:z"}, hook.skipped)
	assert.Equal(t, []int{2, 0}, hook.converts)
	assert.True(t, hook.finished)
}

func TestRunnerHookError(t *testing.T) {
	t.Parallel()

	hook := &recorderHook{err: assert.AnError}
	runner, err := pipeline.NewSimpleRunner([]model.Step{newTypeStep(t, "a2b", "b", "a")}, pipeline.RunnerHooks(hook))
	require.NoError(t, err)

	_, err = runner.Convert(context.Background(), nil, "f", "a")
	require.ErrorIs(t, err, assert.AnError)
}

func TestRunnerAfterConvertError(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		dataType    string
		unsupported bool
	}{
		"applied": {
			dataType: "a",
		},
		"unsupported": {
			dataType:    "z",
			unsupported: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			hook := &recorderHook{afterErr: assert.AnError}
			runner, err := pipeline.NewSimpleRunner([]model.Step{newTypeStep(t, "a2b", "b", "a")}, pipeline.RunnerHooks(hook))
			require.NoError(t, err)

			_, err = runner.Convert(context.Background(), nil, "f", tc.dataType)
			require.Error(t, err)
			assert.Contains(t, err.Error(), assert.AnError.Error())

			dataType, ok := pipeline.IsUnsupportedDataType(err)
			assert.Equal(t, tc.unsupported, ok)

			if tc.unsupported {
				assert.Equal(t, "z", dataType)
			} else {
				assert.ErrorIs(t, err, assert.AnError)
			}
		})
	}
}
