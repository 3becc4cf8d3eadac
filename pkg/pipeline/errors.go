package pipeline

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrRunnerMustBeSet           = errors.New("runner must be set")
	ErrPipelineMustBeSet         = errors.New("pipeline must be set")
	ErrNilItem                   = errors.New("step returned a nil item")
	ErrPipelineNotFound          = errors.New("pipeline not found")
	ErrPipelineAlreadyRegistered = errors.New("pipeline already registered")
	ErrEmptyPipelineName         = errors.New("pipeline name must be set")
)

// UnsupportedDataTypeError is returned when no step of a runner applied to an item.
type UnsupportedDataTypeError struct {
	// DataType is the data type in effect when the runner gave up.
	DataType string
}

func (e *UnsupportedDataTypeError) Error() string {
	return fmt.Sprintf("unsupported data type %s", e.DataType)
}

// IsUnsupportedDataType reports whether err holds an UnsupportedDataTypeError and returns its data type.
func IsUnsupportedDataType(err error) (string, bool) {
	var unsupported *UnsupportedDataTypeError
	if errors.As(err, &unsupported) {
		return unsupported.DataType, true
	}

	return "", false
}
