package pipeline

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"

	"github.com/matzehuels/bpmnlayout/pkg/bpmn"
	"github.com/matzehuels/bpmnlayout/pkg/dag"
	bperrors "github.com/matzehuels/bpmnlayout/pkg/errors"
	"github.com/matzehuels/bpmnlayout/pkg/graph"
)

// Input kinds.
const (
	KindBPMN  = "bpmn"
	KindGraph = "graph"
)

// Source is a loaded input: a BPMN document with the graph of its process,
// or a node-link JSON graph.
type Source struct {
	Name     string
	Kind     string
	Data     []byte
	Document *bpmn.Document // nil for graph input
	Graph    *dag.DAG
}

// IsBPMN reports whether the source is a BPMN document.
func (s *Source) IsBPMN() bool { return s != nil && s.Document != nil }

// Load reads BPMN XML or graph JSON, telling them apart by the first
// non-blank byte. A UTF-8 byte order mark is dropped.
func Load(data []byte) (*Source, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, bperrors.New(bperrors.ErrCodeInvalidInput, "input is empty")
	}
	switch trimmed[0] {
	case '<':
		return LoadBPMN(data)
	case '{':
		return LoadGraph(data)
	}
	return nil, bperrors.New(bperrors.ErrCodeInvalidFormat, "input is neither BPMN XML nor graph JSON")
}

// LoadFile reads and loads path. The file name is kept for messages.
func LoadFile(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, bperrors.Wrap(bperrors.ErrCodeFileNotFound, err, "%s", path)
	}
	if err != nil {
		return nil, bperrors.Wrap(bperrors.ErrCodeInvalidInput, err, "read %s", path)
	}
	src, err := Load(data)
	if err != nil {
		return nil, err
	}
	src.Name = filepath.Base(path)
	return src, nil
}

// LoadBPMN parses a BPMN document and builds the graph of its processes.
func LoadBPMN(data []byte) (*Source, error) {
	doc, err := bpmn.ParseBytes(data)
	if err != nil {
		return nil, bperrors.Wrap(bperrors.ErrCodeInvalidDocument, err, "parse BPMN")
	}
	g, err := doc.Graph()
	if err != nil {
		return nil, bperrors.Wrap(bperrors.ErrCodeInvalidDocument, err, "build process graph")
	}
	return &Source{Kind: KindBPMN, Data: data, Document: doc, Graph: g}, nil
}

// LoadGraph decodes a node-link JSON graph. Node IDs are checked before the
// graph is built, so bad input fails with a message naming the node.
func LoadGraph(data []byte) (*Source, error) {
	gj, err := graph.UnmarshalGraph(data)
	if err != nil {
		return nil, bperrors.Wrap(bperrors.ErrCodeInvalidGraph, err, "decode graph")
	}
	if err := bperrors.ValidateStruct(gj); err != nil {
		return nil, bperrors.New(bperrors.ErrCodeInvalidGraph, "%s", bperrors.UserMessage(err))
	}
	for _, n := range gj.Nodes {
		if err := bperrors.ValidateNodeID(n.ID); err != nil {
			return nil, err
		}
	}
	g, err := graph.ToDAG(gj)
	if err != nil {
		return nil, bperrors.Wrap(bperrors.ErrCodeInvalidGraph, err, "build graph")
	}
	return &Source{Kind: KindGraph, Data: data, Graph: g}, nil
}
