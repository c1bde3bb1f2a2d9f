package layout

import "github.com/matzehuels/bpmnlayout/pkg/dag/transform"

// AssignCoordinates turns ordered layers into positions. Layer L sits at
// x = Margin + L*LayerSpacing*spacing; the n nodes of a layer are spaced
// NodeSpacing*spacing apart and centred on y = Margin, so a single-node
// layer lands exactly on y = Margin.
//
// Layers wider than a few nodes reach negative y. That is intended; the
// renderers translate the diagram by its bounding box.
func AssignCoordinates(l *transform.Layering, spacing float64) Positions {
	if spacing <= 0 {
		spacing = DefaultSpacingFactor
	}
	dx := LayerSpacing * spacing
	dy := NodeSpacing * spacing

	pos := make(Positions, l.NodeCount())
	for layer, ids := range l.Layers {
		x := Margin + float64(layer)*dx
		top := Margin - float64(len(ids)-1)*dy/2
		for i, id := range ids {
			pos[id] = Point{X: x, Y: top + float64(i)*dy}
		}
	}
	return pos
}
