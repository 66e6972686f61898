// Package pkg provides the core libraries for familytree.
//
// # Overview
//
// familytree keeps a small genealogy: members with optional personal details,
// linked to their father, mother and spouses. The pkg directory is organized
// into these areas:
//
//  1. [member] - The member record, partial updates and field validation
//  2. [store] - The in-memory collection with ID assignment and integrity rules
//  3. [relation] - Derived relatives and normalization of legacy relationship lists
//  4. [io] - The members file format and the legacy import format
//  5. [graph] and [render] - Diagram projection and Graphviz rendering
//  6. [cache], [config], [observability] - Supporting infrastructure
//
// # Architecture
//
// The typical data flow:
//
//	members.json
//	     ↓
//	[io] package (tolerant load, atomic save)
//	     ↓
//	[store] package (create, update, delete with cascade)
//	     ↓
//	[graph] package (nodes and edges, colors and labels)
//	     ↓
//	[render/nodelink] package (DOT, then SVG/PDF/PNG)
//
// # Quick Start
//
//	s := store.New()
//	ben, _ := s.Create(member.Fields{Name: member.String("Ben Roberson")})
//	_, _ = s.Create(member.Fields{Name: member.String("Robert Smith"), Father: member.Ref(ben)})
//
//	kids, _ := relation.Children(s, ben)
//	_ = io.Save(s, "members.json")
//
//	dot := nodelink.ToDOT(graph.Project(s, graph.Options{}), nodelink.Options{})
//	svg, _ := nodelink.RenderSVG(ctx, dot)
//
// # Errors
//
// Every package reports failures through [errors], whose codes separate bad
// input (INVALID_FIELD, INVALID_RELATIONSHIP) from missing data (NOT_FOUND,
// FILE_NOT_FOUND) and malformed files (INVALID_FORMAT, INVALID_SCHEMA).
//
// [member]: https://pkg.go.dev/github.com/matzehuels/familytree/pkg/member
// [store]: https://pkg.go.dev/github.com/matzehuels/familytree/pkg/store
// [relation]: https://pkg.go.dev/github.com/matzehuels/familytree/pkg/relation
// [io]: https://pkg.go.dev/github.com/matzehuels/familytree/pkg/io
// [graph]: https://pkg.go.dev/github.com/matzehuels/familytree/pkg/graph
// [render]: https://pkg.go.dev/github.com/matzehuels/familytree/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/familytree/pkg/render/nodelink
// [cache]: https://pkg.go.dev/github.com/matzehuels/familytree/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/familytree/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/familytree/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/familytree/pkg/errors
package pkg
