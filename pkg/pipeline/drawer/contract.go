package drawer

import (
	"io"

	"github.com/askiada/go-docpipeline/pkg/pipeline/measure"
)

// Drawer is an interface that defines the methods for drawing the data type transitions of a runner.
type Drawer interface {
	// AddType adds a data type to the drawer.
	AddType(dataType string) error
	// AddTransition records that stepName converted inputType to outputType.
	AddTransition(stepName, inputType, outputType string) error
	// AddMeasure colours the transitions with the step durations.
	AddMeasure(measure measure.Measure) error
	// Draw creates a file with the graph.
	Draw() error
	// DrawTo writes the graph to w.
	DrawTo(w io.Writer) error
}
