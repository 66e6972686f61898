package cli

import (
	"io"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/familytree/pkg/buildinfo"
	"github.com/matzehuels/familytree/pkg/cache"
	"github.com/matzehuels/familytree/pkg/config"
	apperr "github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/member"
)

// appName is the application name used for directories and display.
const appName = "familytree"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	dataFile   string
	configFile string
	cfg        config.Config
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Familytree records family members and how they are related",
		Long: `Familytree keeps a family tree in a single JSON file: people, their
parents and their spouses. It validates every change, previews edits before
writing them and renders the tree as a Graphviz diagram.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.dataFile, "data", "d", "",
		"members file (default from config, else "+config.DefaultDataFile+")")
	root.PersistentFlags().StringVar(&c.configFile, "config", "",
		"config file (default $XDG_CONFIG_HOME/familytree/config.toml)")

	root.AddCommand(c.listCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.addCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.removeCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file named by --config, or the user's
// default one if it exists, and fills in the data file unless --data was
// given.
func (c *CLI) loadConfig() error {
	var (
		cfg  config.Config
		path = c.configFile
		err  error
	)
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, path, err = config.LoadDefault()
	}
	if err != nil {
		return err
	}
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}

	c.cfg = cfg
	if c.dataFile == "" {
		c.dataFile = cfg.DataFile
	}
	return nil
}

// newCache returns the diagram cache, or a null cache when caching is off
// or no cache directory is available.
func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache || !c.cfg.Cache.Enabled {
		return cache.NewNullCache(), nil
	}
	dir, err := cache.DefaultDir()
	if err != nil {
		c.Logger.Debug("diagram cache disabled", "reason", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// parseID parses a member ID argument.
func parseID(s string) (member.ID, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, apperr.Invalid(member.FieldID, err, "%q is not a member id", s)
	}
	return member.ID(n), nil
}
