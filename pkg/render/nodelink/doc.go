// Package nodelink renders family tree descriptions as node-link diagrams.
//
// # Usage
//
// Convert a description to DOT format, then render to SVG:
//
//	desc := graph.Project(s, graph.Options{ShowAge: true})
//	dot := nodelink.ToDOT(desc, nodelink.Options{Title: "Robersons"})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # DOT Format
//
// The generated DOT uses top-to-bottom layout (rankdir=TB) so generations
// read downwards. Members are filled rounded boxes named by their numeric
// ID. Each spouse pair is placed in a rank=same group, and spouse edges are
// drawn with constraint=false so marriages never push a member down a rank.
//
// The output of [ToDOT] depends only on the description, which makes it a
// suitable cache key for the rendered artifacts.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
