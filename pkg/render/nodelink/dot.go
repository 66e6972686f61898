package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-graphviz"

	apperr "github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/graph"
	"github.com/matzehuels/familytree/pkg/observability"
	"github.com/matzehuels/familytree/pkg/render"
)

// Options configures diagram generation.
type Options struct {
	// Title is drawn above the tree when non-empty.
	Title string
	// Transparent drops the white background, for embedding in pages.
	Transparent bool
}

// ToDOT converts a description to Graphviz DOT source.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
//
// Members are filled boxes in their description color. Parent links are
// arrows from parent to child. Spouse links are dashed lines without arrows
// that do not influence ranking, and each couple is pinned to the same rank.
func ToDOT(d graph.Description, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph FamilyTree {\n")
	buf.WriteString("  rankdir=TB;\n")
	if opts.Transparent {
		buf.WriteString("  bgcolor=\"transparent\";\n")
	} else {
		buf.WriteString("  bgcolor=\"white\";\n")
	}
	if opts.Title != "" {
		fmt.Fprintf(&buf, "  label=%s;\n  labelloc=t;\n  fontsize=28;\n", quote(opts.Title))
	}
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=18, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	for _, n := range d.Nodes {
		fmt.Fprintf(&buf, "  %d [label=%s, fillcolor=%s];\n", n.ID, quote(n.Label), quote(n.Color))
	}

	buf.WriteString("\n")
	for _, e := range d.Edges {
		fmt.Fprintf(&buf, "  %d -> %d%s;\n", e.From, e.To, edgeAttrs(e))
	}

	if pairs := d.SpousePairs(); len(pairs) > 0 {
		buf.WriteString("\n")
		for _, e := range pairs {
			fmt.Fprintf(&buf, "  { rank=same; %d; %d; }\n", e.From, e.To)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func edgeAttrs(e graph.Edge) string {
	var attrs []string
	if e.Style != "" && e.Style != graph.StyleSolid {
		attrs = append(attrs, "style="+e.Style)
	}
	if !e.Directed() {
		attrs = append(attrs, "dir=none", "constraint=false")
	}
	if len(attrs) == 0 {
		return ""
	}
	return " [" + strings.Join(attrs, ", ") + "]"
}

// quote renders s as a DOT string literal. Newlines become DOT line breaks.
func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\r\n", `\n`, "\n", `\n`)
	return `"` + r.Replace(s) + `"`
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInternal, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInternal, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the drawing scales from a
// 0,0 origin with pixel width and height matching the view box.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}

// Render produces the artifact for one of the image formats in
// [render.Formats] ("svg", "pdf" or "png"). The "dot" format returns the
// source unchanged. "json" is not an image and is rejected.
func Render(ctx context.Context, dot, format string, scale float64) (data []byte, err error) {
	hooks := observability.Render()
	hooks.OnRenderStart(ctx, format, len(dot))
	defer func(start time.Time) {
		hooks.OnRenderComplete(ctx, format, len(data), time.Since(start), err)
	}(time.Now())

	switch format {
	case render.FormatSVG:
		return RenderSVG(ctx, dot)
	case render.FormatPDF:
		return RenderPDF(ctx, dot)
	case render.FormatPNG:
		return RenderPNG(ctx, dot, scale)
	case render.FormatDOT:
		return []byte(dot), nil
	}
	return nil, apperr.Invalid("format", nil, "%q is not an image format", format).
		WithAllowed(render.FormatSVG, render.FormatPDF, render.FormatPNG, render.FormatDOT)
}
