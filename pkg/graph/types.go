package graph

import (
	"github.com/matzehuels/familytree/pkg/member"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Edge kinds.
const (
	KindParent = "parent"
	KindSpouse = "spouse"
)

// Edge styles. Renderers map them onto their own line styles.
const (
	StyleSolid  = "solid"
	StyleDashed = "dashed"
)

// Node fill colors, as Graphviz/X11 color names.
const (
	ColorMale    = "lightblue"
	ColorFemale  = "pink"
	ColorAlien   = "lightgreen"
	ColorDefault = "lightgray"
)

// =============================================================================
// Description - Renderer Input
// =============================================================================

// Description is a renderer-neutral picture of the family tree: one node per
// member and one edge per parent link or spouse pair. It carries no layout.
type Description struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is one member box.
type Node struct {
	ID    member.ID `json:"id"`
	Label string    `json:"label"` // newline-separated lines
	Color string    `json:"color"`
}

// Edge connects two members.
//
// Parent edges run from parent to child and are arrowed. Spouse edges are
// emitted once per unordered pair with From < To and have no arrow.
type Edge struct {
	From  member.ID `json:"from"`
	To    member.ID `json:"to"`
	Kind  string    `json:"kind"`
	Style string    `json:"style"`
}

// Directed reports whether the edge should be drawn with an arrowhead.
func (e Edge) Directed() bool { return e.Kind == KindParent }

// SpousePairs returns the spouse edges of d, for renderers that place
// couples side by side.
func (d Description) SpousePairs() []Edge {
	var out []Edge
	for _, e := range d.Edges {
		if e.Kind == KindSpouse {
			out = append(out, e)
		}
	}
	return out
}
