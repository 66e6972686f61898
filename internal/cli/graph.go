package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
	"github.com/spf13/cobra"

	"github.com/matzehuels/familytree/pkg/cache"
	apperr "github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/graph"
	"github.com/matzehuels/familytree/pkg/render"
	"github.com/matzehuels/familytree/pkg/render/nodelink"
	"github.com/matzehuels/familytree/pkg/store"
)

const (
	defaultGraphName = "family_tree" // output file stem next to the members file
	defaultScale     = 2.0           // PNG resolution multiplier
	stdoutPath       = "-"
)

// graphOpts holds the settings of one diagram rendering.
type graphOpts struct {
	format      string
	output      string
	scale       float64
	noCache     bool
	showAge     bool
	showOcc     bool
	title       string
	transparent bool
}

// graphResult describes a rendered diagram.
type graphResult struct {
	data    []byte
	members int
	links   int
	cached  bool
}

// graphDefaults returns the diagram settings from the config file.
func (c *CLI) graphDefaults() graphOpts {
	return graphOpts{
		format:  c.cfg.Graph.Format,
		scale:   defaultScale,
		showAge: c.cfg.Graph.ShowAge,
		showOcc: c.cfg.Graph.ShowOccupation,
		title:   c.cfg.Graph.Title,
	}
}

func (c *CLI) graphCommand() *cobra.Command {
	var flags graphOpts

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render the family tree as a diagram",
		Long: `Render the family tree with Graphviz.

Formats: svg, pdf, png, dot (Graphviz source) and json (the node and edge
description). PDF and PNG need rsvg-convert from librsvg. Rendered images are
cached, so re-rendering an unchanged tree is instant.`,
		Example: `  familytree graph
  familytree graph -f png --scale 3 -o tree.png
  familytree graph -f dot -o - | dot -Tjpg > tree.jpg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.graphDefaults()
			fl := cmd.Flags()
			if fl.Changed("format") {
				opts.format = flags.format
			}
			if fl.Changed("show-age") {
				opts.showAge = flags.showAge
			}
			if fl.Changed("show-occupation") {
				opts.showOcc = flags.showOcc
			}
			if fl.Changed("title") {
				opts.title = flags.title
			}
			opts.output = flags.output
			opts.scale = flags.scale
			opts.noCache = flags.noCache
			opts.transparent = flags.transparent
			return c.runGraph(cmd, opts)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&flags.format, "format", "f", render.FormatSVG, "output format: svg, pdf, png, dot, json")
	fl.StringVarP(&flags.output, "output", "o", "", "output file, - for stdout (default family_tree.<format> next to the members file)")
	fl.Float64Var(&flags.scale, "scale", defaultScale, "PNG resolution multiplier")
	fl.BoolVar(&flags.noCache, "no-cache", false, "render even if a cached diagram exists")
	fl.BoolVar(&flags.showAge, "show-age", true, "include ages in member boxes")
	fl.BoolVar(&flags.showOcc, "show-occupation", false, "include occupations in member boxes")
	fl.StringVar(&flags.title, "title", "", "diagram title")
	fl.BoolVar(&flags.transparent, "transparent", false, "transparent background")
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(render.Formats, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

func (c *CLI) runGraph(cmd *cobra.Command, opts graphOpts) error {
	ctx := cmd.Context()
	format, err := render.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	opts.format = format
	if opts.scale <= 0 {
		return apperr.Invalid("scale", nil, "must be positive (got %g)", opts.scale)
	}

	s, err := c.openStore(ctx, false)
	if err != nil {
		return err
	}

	spinner := newSpinner(ctx, cmd.ErrOrStderr(), "Rendering "+format+"...")
	spinner.Start()
	res, err := c.renderGraph(ctx, s, opts)
	spinner.Stop()
	if err != nil {
		return err
	}

	if opts.output == stdoutPath {
		_, err := cmd.OutOrStdout().Write(res.data)
		return err
	}
	path := opts.output
	if path == "" {
		path = c.defaultGraphPath(format)
	}
	if err := writeFile(path, res.data); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printSuccess(out, "Rendered %s", format)
	printFile(out, path)
	printStats(out, res.members, res.links, res.cached)
	return nil
}

// renderGraph projects s and produces the diagram in opts.format. Image
// formats go through the diagram cache keyed by the DOT source.
func (c *CLI) renderGraph(ctx context.Context, s *store.Store, opts graphOpts) (graphResult, error) {
	desc := graph.Project(s, graph.Options{ShowAge: opts.showAge, ShowOccupation: opts.showOcc})
	res := graphResult{members: len(desc.Nodes), links: len(desc.Edges)}

	if opts.format == render.FormatJSON {
		data, err := graph.Marshal(desc)
		if err != nil {
			return graphResult{}, err
		}
		res.data = data
		return res, nil
	}

	dot := nodelink.ToDOT(desc, nodelink.Options{Title: opts.title, Transparent: opts.transparent})
	if opts.format == render.FormatDOT {
		res.data = []byte(dot)
		return res, nil
	}

	ch, err := c.newCache(opts.noCache)
	if err != nil {
		return graphResult{}, err
	}
	defer ch.Close()

	key := cache.ArtifactKey(dot, opts.format, opts.scale)
	res.data, res.cached, err = cache.GetOrSet(ctx, ch, key, c.cfg.Cache.TTL.Duration, func() ([]byte, error) {
		return nodelink.Render(ctx, dot, opts.format, opts.scale)
	})
	if err != nil {
		return graphResult{}, err
	}
	return res, nil
}

// defaultGraphPath places the diagram next to the members file.
func (c *CLI) defaultGraphPath(format string) string {
	return filepath.Join(filepath.Dir(c.dataFile), defaultGraphName+"."+format)
}

// writeFile replaces path atomically, creating parent directories.
func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return apperr.Wrap(apperr.ErrCodeIO, err, "create directory for %s", path)
	}
	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return apperr.Wrap(apperr.ErrCodeIO, err, "write %s", path)
	}
	return nil
}
