package drawer

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"text/template"
	"time"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint

	"github.com/askiada/go-docpipeline/pkg/pipeline/measure"
)

type transition struct {
	source, target string
}

// DOTDrawer is a drawer that creates a Graphviz DOT file with the data type transitions.
type DOTDrawer struct {
	mu          sync.Mutex
	graph       graph.Graph[string, string]
	steps       map[transition][]string
	counts      map[transition]int
	dotFileName string
}

// NewDOTDrawer creates a new DOT drawer.
func NewDOTDrawer(dotFileName string) *DOTDrawer {
	return &DOTDrawer{
		dotFileName: dotFileName,
		graph:       graph.New(graph.StringHash, graph.Directed()),
		steps:       make(map[transition][]string),
		counts:      make(map[transition]int),
	}
}

func (d *DOTDrawer) addType(dataType string) error {
	err := d.graph.AddVertex(dataType)
	if err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
		return errors.Wrap(err, "unable to add vertex")
	}

	return nil
}

// AddType adds a data type to the graph.
func (d *DOTDrawer) AddType(dataType string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.addType(dataType)
}

// AddTransition adds an edge from inputType to outputType labelled with the step name.
func (d *DOTDrawer) AddTransition(stepName, inputType, outputType string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, dataType := range []string{inputType, outputType} {
		err := d.addType(dataType)
		if err != nil {
			return err
		}
	}

	key := transition{source: inputType, target: outputType}
	d.counts[key]++

	names, ok := d.steps[key]
	if !ok {
		d.steps[key] = []string{stepName}

		err := d.graph.AddEdge(inputType, outputType,
			graph.EdgeAttribute("label", stepName),
			graph.EdgeWeight(d.counts[key]),
		)
		if err != nil {
			return errors.Wrapf(err, "unable to add edge from %s to %s", inputType, outputType)
		}

		return nil
	}

	if !contains(names, stepName) {
		names = append(names, stepName)
		d.steps[key] = names
	}

	err := d.graph.UpdateEdge(inputType, outputType,
		graph.EdgeAttribute("label", strings.Join(names, ", ")),
		graph.EdgeWeight(d.counts[key]),
	)
	if err != nil {
		return errors.Wrapf(err, "unable to update edge from %s to %s", inputType, outputType)
	}

	return nil
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}

	return false
}

// Draw creates a DOT file with the graph.
func (d *DOTDrawer) Draw() (err error) {
	file, err := os.Create(d.dotFileName)
	if err != nil {
		return errors.Wrapf(err, "unable to create file %s", d.dotFileName)
	}

	defer func() {
		closeErr := file.Close()
		if err == nil && closeErr != nil {
			err = errors.Wrapf(closeErr, "unable to close file %s", d.dotFileName)
		}
	}()

	err = d.DrawTo(file)
	if err != nil {
		return errors.Wrapf(err, "unable to create dot file %s", d.dotFileName)
	}

	return nil
}

// DrawTo writes the graph in DOT format to wrt.
func (d *DOTDrawer) DrawTo(wrt io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	// types flow left to right, the same way steps are listed
	return dot(d.graph, wrt, graphAttribute("rankdir", "LR"))
}

const maxRGB = 240

// AddMeasure colours every transition from blue to red according to the average duration
// of the slowest step producing it.
func (d *DOTDrawer) AddMeasure(msr measure.Measure) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	elapsed := make(map[transition]time.Duration, len(d.steps))

	var minValue, maxValue time.Duration

	first := true

	for key, names := range d.steps {
		var slowest time.Duration

		for _, name := range names {
			mt := msr.GetMetric(name)
			if mt == nil {
				continue
			}

			if avg := mt.AVGDuration(); avg > slowest {
				slowest = avg
			}
		}

		if slowest == 0 {
			continue
		}

		elapsed[key] = slowest

		if first || slowest < minValue {
			minValue = slowest
		}

		if first || slowest > maxValue {
			maxValue = slowest
		}

		first = false
	}

	for key, curr := range elapsed {
		fraction := 1.0
		if maxValue > minValue {
			fraction = float64(curr-minValue) / float64(maxValue-minValue)
		}

		red := maxRGB * fraction
		blue := maxRGB - red

		colour, err := colors.RGB(uint8(red), 0, uint8(blue)) //nolint
		if err != nil {
			return errors.Wrap(err, "unable to get colour")
		}

		err = d.graph.UpdateEdge(key.source, key.target,
			graph.EdgeAttribute("xlabel", curr.String()),
			graph.EdgeAttribute("fontcolor", "blue"),
			graph.EdgeAttribute("color", colour.ToHEX().String()),
		)
		if err != nil {
			return errors.Wrap(err, "unable to update edge")
		}
	}

	return nil
}

//nolint:lll //this is a template
const dotTemplate = `strict {{.GraphType}} {
	{{range $k, $v := .Attributes}}
		{{$k}}="{{$v}}";
	{{end}}
	{{range $s := .Statements}}
		"{{.Source}}" {{if .Target}}{{$.EdgeOperator}} "{{.Target}}" [ {{range $k, $v := .EdgeAttributes}}{{$k}}="{{$v}}", {{end}} weight={{.EdgeWeight}} ]{{else}}[ {{range $k, $v := .SourceAttributes}}{{$k}}="{{$v}}", {{end}} weight={{.SourceWeight}} ]{{end}};
	{{end}}
	}
	`

type description struct {
	GraphType    string
	Attributes   map[string]string
	EdgeOperator string
	Statements   []statement
}

type statement struct {
	Source           string
	Target           string
	SourceAttributes map[string]string
	EdgeAttributes   map[string]string
	SourceWeight     int
	EdgeWeight       int
}

func dot(g graph.Graph[string, string], wrt io.Writer, options ...func(*description)) error {
	desc, err := generateDOT(g, options...)
	if err != nil {
		return fmt.Errorf("failed to generate DOT description: %w", err)
	}

	return renderDOT(wrt, desc)
}

func graphAttribute(key, value string) func(*description) {
	return func(d *description) {
		d.Attributes[key] = value
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// generateDOT lists vertices and edges in lexical order so the output is stable.
func generateDOT(gra graph.Graph[string, string], options ...func(*description)) (description, error) {
	desc := description{
		GraphType:    "graph",
		Attributes:   make(map[string]string),
		EdgeOperator: "--",
		Statements:   make([]statement, 0),
	}

	for _, option := range options {
		option(&desc)
	}

	if gra.Traits().IsDirected {
		desc.GraphType = "digraph"
		desc.EdgeOperator = "->"
	}

	adjacencyMap, err := gra.AdjacencyMap()
	if err != nil {
		return desc, errors.Wrap(err, "unable to get adjacency map")
	}

	for _, vertex := range sortedKeys(adjacencyMap) {
		_, sourceProperties, err := gra.VertexWithProperties(vertex)
		if err != nil {
			return desc, errors.Wrap(err, "unable to get vertex properties")
		}

		desc.Statements = append(desc.Statements, statement{
			Source:           vertex,
			SourceWeight:     sourceProperties.Weight,
			SourceAttributes: sourceProperties.Attributes,
		})

		adjacencies := adjacencyMap[vertex]
		for _, adjacency := range sortedKeys(adjacencies) {
			edge := adjacencies[adjacency]
			desc.Statements = append(desc.Statements, statement{
				Source:         vertex,
				Target:         adjacency,
				EdgeWeight:     edge.Properties.Weight,
				EdgeAttributes: edge.Properties.Attributes,
			})
		}
	}

	return desc, nil
}

func renderDOT(wrt io.Writer, desc description) error {
	tpl, err := template.New("dotTemplate").Parse(dotTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	err = tpl.Execute(wrt, desc)
	if err != nil {
		return errors.Wrap(err, "unable to execute template")
	}

	return nil
}

var _ Drawer = (*DOTDrawer)(nil)
