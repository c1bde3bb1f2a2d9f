package layout

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/bpmnlayout/pkg/dag"
)

// formatPlain is Graphviz's line-oriented output: one "node" line per node
// with its centre in inches.
const formatPlain graphviz.Format = "plain"

// GraphvizStrategy runs the dot engine and rescales its node centres into a
// fixed box. It does not report back edges or crossings.
type GraphvizStrategy struct {
	SpacingFactor float64
}

func (GraphvizStrategy) Tier() Tier { return TierGraphviz }

func (s GraphvizStrategy) Place(ctx context.Context, g *dag.DAG) (Placement, error) {
	out, err := renderDOT(ctx, ToDOT(g), formatPlain)
	if err != nil {
		return Placement{}, err
	}
	raw, err := parsePlain(out)
	if err != nil {
		return Placement{}, err
	}
	return Placement{Positions: scalePositions(raw, s.SpacingFactor)}, nil
}

// ToDOT writes g as a left-to-right digraph with every node fixed to its
// category size.
func ToDOT(g *dag.DAG) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, fixedsize=true];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		fmt.Fprintf(&buf, "  %q [label=%q, width=%s, height=%s];\n",
			n.ID, n.DisplayLabel(), inches(n.Width), inches(n.Height))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func inches(px float64) string {
	return strconv.FormatFloat(px/72, 'f', 4, 64)
}

func renderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

// parsePlain extracts node centres from Graphviz plain output.
func parsePlain(out []byte) (Positions, error) {
	pos := Positions{}
	sc := bufio.NewScanner(bytes.NewReader(out))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		fields := plainFields(sc.Text())
		if len(fields) < 4 || fields[0] != "node" {
			continue
		}
		x, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("plain output: node %q: %w", fields[1], err)
		}
		y, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, fmt.Errorf("plain output: node %q: %w", fields[1], err)
		}
		pos[fields[1]] = Point{X: x, Y: y}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("plain output: %w", err)
	}
	return pos, nil
}

// plainFields splits a plain-format line on spaces, honouring double quotes
// and backslash escapes inside them.
func plainFields(line string) []string {
	var (
		fields []string
		cur    strings.Builder
		quoted bool
		inTok  bool
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quoted && c == '\\' && i+1 < len(line):
			i++
			cur.WriteByte(line[i])
		case c == '"':
			quoted = !quoted
			inTok = true
		case c == ' ' && !quoted:
			if inTok {
				fields = append(fields, cur.String())
				cur.Reset()
				inTok = false
			}
		default:
			cur.WriteByte(c)
			inTok = true
		}
	}
	if inTok {
		fields = append(fields, cur.String())
	}
	return fields
}

// scalePositions normalises raw positions into [0,1] per axis and maps them
// to Margin + norm*scale*spacing. A degenerate axis uses a range of 100.
// Graphviz puts y=0 at the bottom, so y is flipped.
func scalePositions(raw Positions, spacing float64) Positions {
	if spacing <= 0 {
		spacing = DefaultSpacingFactor
	}
	if len(raw) == 0 {
		return Positions{}
	}

	first := true
	var minX, maxX, minY, maxY float64
	for _, p := range raw {
		if first {
			minX, maxX, minY, maxY = p.X, p.X, p.Y, p.Y
			first = false
			continue
		}
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}
	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 100
	}
	if rangeY == 0 {
		rangeY = 100
	}

	out := make(Positions, len(raw))
	for id, p := range raw {
		nx := (p.X - minX) / rangeX
		ny := (maxY - p.Y) / rangeY
		out[id] = Point{
			X: Margin + nx*spacing*GraphvizXScale,
			Y: Margin + ny*spacing*GraphvizYScale,
		}
	}
	return out
}
