// Package render turns family tree descriptions into images.
//
// # Overview
//
// Rendering happens in two steps:
//
//   - [nodelink] converts a graph.Description to Graphviz DOT and lays it out
//     to SVG in-process with go-graphviz
//   - [ToPDF] and [ToPNG] convert that SVG to other formats using the
//     external rsvg-convert tool (from librsvg)
//
//	dot := nodelink.ToDOT(desc, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//
// # Formats
//
// [Formats] lists the output formats the CLI accepts. "dot" and "json" are
// produced without Graphviz; "pdf" and "png" need rsvg-convert on PATH and
// fail with a clear installation hint otherwise.
//
// [nodelink]: github.com/matzehuels/familytree/pkg/render/nodelink
package render
