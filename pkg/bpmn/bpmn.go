package bpmn

import (
	"errors"
	"fmt"

	"github.com/matzehuels/bpmnlayout/pkg/dag"
)

// Namespace URIs of BPMN 2.0 and its diagram interchange.
const (
	NamespaceModel = "http://www.omg.org/spec/BPMN/20100524/MODEL"
	NamespaceDI    = "http://www.omg.org/spec/BPMN/20100524/DI"
	NamespaceDC    = "http://www.omg.org/spec/DD/20100524/DC"
	NamespaceDD    = "http://www.omg.org/spec/DD/20100524/DI"
)

var (
	// ErrNotBPMN is returned when the root element is not a BPMN definitions
	// element.
	ErrNotBPMN = errors.New("not a BPMN document")

	// ErrDuplicateElement is returned by Document.Graph when two flow
	// elements share an ID.
	ErrDuplicateElement = errors.New("duplicate element id")

	// ErrOffsetMismatch is returned by Inject when the bytes do not belong to
	// the parsed document.
	ErrOffsetMismatch = errors.New("document bytes do not match parsed document")
)

// flowElements are the element types that become layout nodes.
var flowElements = map[string]bool{
	"startEvent":             true,
	"endEvent":               true,
	"intermediateThrowEvent": true,
	"intermediateCatchEvent": true,
	"boundaryEvent":          true,
	"task":                   true,
	"userTask":               true,
	"serviceTask":            true,
	"manualTask":             true,
	"scriptTask":             true,
	"businessRuleTask":       true,
	"sendTask":               true,
	"receiveTask":            true,
	"exclusiveGateway":       true,
	"inclusiveGateway":       true,
	"parallelGateway":        true,
	"eventBasedGateway":      true,
	"complexGateway":         true,
	"subProcess":             true,
	"adHocSubProcess":        true,
	"transaction":            true,
	"callActivity":           true,
}

// IsFlowElement reports whether a BPMN element name is laid out as a node.
func IsFlowElement(name string) bool { return flowElements[name] }

// Element is a flow node of a process.
type Element struct {
	ID      string
	Type    string // local element name, e.g. "userTask"
	Name    string
	Process string // id of the enclosing process
}

// Flow is a sequence flow.
type Flow struct {
	ID     string
	Source string
	Target string
	Name   string
}

// Document is the layout-relevant content of a BPMN file plus the byte
// offsets Inject needs to rewrite its diagram section.
type Document struct {
	// Processes lists process ids in document order.
	Processes []string
	Elements  []Element
	Flows     []Flow

	// HasShapes and HasEdges report existing BPMNShape and BPMNEdge
	// elements anywhere in the document.
	HasShapes bool
	HasEdges  bool

	size int64
	// diagram spans the first BPMNDiagram element, [start, end). Both are
	// -1 when the document has none.
	diagramStart, diagramEnd int64
	// rootEnd is the offset of the closing definitions tag.
	rootEnd int64
}

// ProcessID returns the first process id, or "" when there is none.
func (d *Document) ProcessID() string {
	if len(d.Processes) == 0 {
		return ""
	}
	return d.Processes[0]
}

// HasLayout reports whether the document already carries both shapes and
// edges.
func (d *Document) HasLayout() bool { return d.HasShapes && d.HasEdges }

// HasDiagram reports whether the document has a BPMNDiagram section.
func (d *Document) HasDiagram() bool { return d.diagramStart >= 0 }

// Element returns the element with the given id.
func (d *Document) Element(id string) (Element, bool) {
	for _, e := range d.Elements {
		if e.ID == id {
			return e, true
		}
	}
	return Element{}, false
}

// Graph builds the control-flow graph. Node sizes come from the element type.
// Flows whose source or target is not a flow element are skipped.
func (d *Document) Graph() (*dag.DAG, error) {
	g := dag.New(dag.Metadata{"process": d.ProcessID()})
	for _, e := range d.Elements {
		n := dag.Node{ID: e.ID, Category: e.Type, Label: e.Name}
		if e.Process != "" {
			n.Meta = dag.Metadata{"process": e.Process}
		}
		if err := g.AddNode(n); err != nil {
			if errors.Is(err, dag.ErrDuplicateNodeID) {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateElement, e.ID)
			}
			return nil, fmt.Errorf("element %q: %w", e.ID, err)
		}
	}
	for _, f := range d.Flows {
		if _, ok := g.Node(f.Source); !ok {
			continue
		}
		if _, ok := g.Node(f.Target); !ok {
			continue
		}
		if err := g.AddEdge(dag.Edge{ID: f.ID, From: f.Source, To: f.Target}); err != nil {
			return nil, fmt.Errorf("flow %q: %w", f.ID, err)
		}
	}
	return g, nil
}
