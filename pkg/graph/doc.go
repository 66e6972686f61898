// Package graph projects the member store into a renderer-neutral graph
// description.
//
// # Architecture
//
// The package sits between the store and the renderers:
//
//   - pkg/store.Store: members and their references
//   - [Description]: nodes and typed, styled edges (this package)
//   - pkg/render/nodelink: DOT generation and Graphviz rendering
//
// Projection performs no layout. A "regenerate" action in a viewer simply
// calls [Project] again and redraws.
//
// # Nodes
//
// Every member becomes a [Node]. The label is the member's name, followed by
// "Age: N" and the occupation when [Options] enable them, one per line. The
// fill color follows the gender:
//
//	Male    lightblue
//	Female  pink
//	Alien   lightgreen
//	other   lightgray
//
// # Edges
//
//   - parent: one per recorded father or mother, from parent to child,
//     solid and arrowed
//   - spouse: one per unordered spouse pair, From < To, dashed and without
//     an arrow, regardless of whether one or both members list the other
//
// # Serialization
//
// [Marshal] and [Write] emit the description as JSON for external tools:
//
//	{
//	  "nodes": [{"id": 1, "label": "Ben Roberson", "color": "lightblue"}],
//	  "edges": [{"from": 1, "to": 2, "kind": "parent", "style": "solid"}]
//	}
//
// # Determinism
//
// Nodes are ordered by ID and edges by (kind, from, to), so projecting an
// unchanged store twice yields identical output, byte for byte once
// serialized.
package graph
