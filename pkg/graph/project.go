package graph

import (
	"cmp"
	"slices"
	"strings"

	"github.com/matzehuels/familytree/pkg/member"
	"github.com/matzehuels/familytree/pkg/store"
)

// Options controls which member details appear in node labels.
type Options struct {
	ShowAge        bool
	ShowOccupation bool
}

// Project maps the members of s onto a [Description].
//
// Nodes are ordered by ID and edges by kind, then From, then To, so two
// calls on an unchanged store return identical descriptions. Project only
// reads the store.
func Project(s *store.Store, opts Options) Description {
	ms := s.List()
	d := Description{Nodes: make([]Node, 0, len(ms))}

	type pair struct{ a, b member.ID }
	seen := make(map[pair]bool)

	for _, m := range ms {
		d.Nodes = append(d.Nodes, Node{ID: m.ID, Label: label(m, opts), Color: Color(m.Gender)})

		for _, p := range []member.ID{m.Father, m.Mother} {
			if p != 0 && s.Contains(p) {
				d.Edges = append(d.Edges, Edge{From: p, To: m.ID, Kind: KindParent, Style: StyleSolid})
			}
		}
		for _, sp := range m.Spouses {
			if !s.Contains(sp) {
				continue
			}
			k := pair{min(m.ID, sp), max(m.ID, sp)}
			if seen[k] {
				continue
			}
			seen[k] = true
			d.Edges = append(d.Edges, Edge{From: k.a, To: k.b, Kind: KindSpouse, Style: StyleDashed})
		}
	}

	slices.SortFunc(d.Edges, func(a, b Edge) int {
		return cmp.Or(
			cmp.Compare(a.Kind, b.Kind),
			cmp.Compare(a.From, b.From),
			cmp.Compare(a.To, b.To),
		)
	})
	return d
}

// Color returns the node fill color for a gender.
func Color(g member.Gender) string {
	switch g {
	case member.GenderMale:
		return ColorMale
	case member.GenderFemale:
		return ColorFemale
	case member.GenderAlien:
		return ColorAlien
	}
	return ColorDefault
}

func label(m member.Member, opts Options) string {
	lines := []string{m.Name}
	if opts.ShowAge {
		if age := m.Text(member.FieldAge); age != "" {
			lines = append(lines, "Age: "+age)
		}
	}
	if opts.ShowOccupation {
		if occ := m.Text(member.FieldOccupation); occ != "" {
			lines = append(lines, occ)
		}
	}
	return strings.Join(lines, "\n")
}
