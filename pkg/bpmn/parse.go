package bpmn

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

// Parse reads a BPMN 2.0 document. Flow elements and sequence flows are
// collected from every process, including those nested in sub-processes.
// A document without processes parses to an empty Document.
func Parse(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return ParseBytes(data)
}

// ParseBytes is Parse over an in-memory document. The returned Document
// records offsets into data, so Inject must be given the same bytes.
func ParseBytes(data []byte) (*Document, error) {
	doc := &Document{
		size:         int64(len(data)),
		diagramStart: -1,
		diagramEnd:   -1,
		rootEnd:      -1,
	}
	p := parser{doc: doc, dec: xml.NewDecoder(bytes.NewReader(data))}
	if err := p.run(); err != nil {
		return nil, err
	}
	return doc, nil
}

type parser struct {
	doc *Document
	dec *xml.Decoder

	depth        int
	process      string
	processDepth int
	diagramDepth int
}

func (p *parser) run() error {
	for {
		before := p.dec.InputOffset()
		tok, err := p.dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("parse xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			p.depth++
			if err := p.start(t, before); err != nil {
				return err
			}
		case xml.EndElement:
			p.end(t, before)
			p.depth--
		}
	}
	if p.doc.rootEnd < 0 {
		return fmt.Errorf("%w: missing definitions element", ErrNotBPMN)
	}
	return nil
}

func (p *parser) start(t xml.StartElement, offset int64) error {
	if p.depth == 1 {
		if t.Name.Local != "definitions" || !isModel(t.Name.Space) {
			return fmt.Errorf("%w: root element is %q", ErrNotBPMN, t.Name.Local)
		}
		return nil
	}

	switch t.Name.Space {
	case NamespaceDI:
		switch t.Name.Local {
		case "BPMNDiagram":
			if p.doc.diagramStart < 0 {
				p.doc.diagramStart = offset
				p.diagramDepth = p.depth
			}
		case "BPMNShape":
			p.doc.HasShapes = true
		case "BPMNEdge":
			p.doc.HasEdges = true
		}
		return nil
	}
	if !isModel(t.Name.Space) {
		return nil
	}

	name := t.Name.Local
	switch {
	case name == "process":
		id := attr(t, "id")
		p.doc.Processes = append(p.doc.Processes, id)
		if p.process == "" {
			p.process, p.processDepth = id, p.depth
		}
	case p.processDepth == 0:
	case IsFlowElement(name):
		if id := attr(t, "id"); id != "" {
			p.doc.Elements = append(p.doc.Elements, Element{
				ID:      id,
				Type:    name,
				Name:    attr(t, "name"),
				Process: p.process,
			})
		}
	case name == "sequenceFlow":
		f := Flow{
			ID:     attr(t, "id"),
			Source: attr(t, "sourceRef"),
			Target: attr(t, "targetRef"),
			Name:   attr(t, "name"),
		}
		if f.ID != "" && f.Source != "" && f.Target != "" {
			p.doc.Flows = append(p.doc.Flows, f)
		}
	}
	return nil
}

func (p *parser) end(t xml.EndElement, offset int64) {
	switch {
	case p.depth == 1:
		p.doc.rootEnd = offset
	case p.depth == p.diagramDepth && t.Name.Space == NamespaceDI && t.Name.Local == "BPMNDiagram":
		p.doc.diagramEnd = p.dec.InputOffset()
		p.diagramDepth = 0
	case p.depth == p.processDepth && t.Name.Local == "process":
		p.process, p.processDepth = "", 0
	}
}

// isModel accepts the BPMN model namespace and, for hand-written documents,
// no namespace at all.
func isModel(space string) bool {
	return space == NamespaceModel || space == ""
}

func attr(t xml.StartElement, local string) string {
	for _, a := range t.Attr {
		if a.Name.Local == local && a.Name.Space == "" {
			return a.Value
		}
	}
	return ""
}
