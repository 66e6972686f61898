package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	apperr "github.com/matzehuels/familytree/pkg/errors"
	ftio "github.com/matzehuels/familytree/pkg/io"
	"github.com/matzehuels/familytree/pkg/store"
)

// openStore loads the members file. With create set, a missing file yields
// an empty store so the first add can start a new tree.
func (c *CLI) openStore(ctx context.Context, create bool) (*store.Store, error) {
	logger := loggerFromContext(ctx)
	s, err := ftio.Load(c.dataFile, logger)
	if create && apperr.Is(err, apperr.ErrCodeFileNotFound) {
		logger.Info("starting a new family tree", "path", c.dataFile)
		return store.New(), nil
	}
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded members", "path", c.dataFile, "count", s.Len())
	return s, nil
}

// saveStore writes s back to the members file.
func (c *CLI) saveStore(ctx context.Context, s *store.Store) error {
	if err := ftio.Save(s, c.dataFile); err != nil {
		return err
	}
	loggerFromContext(ctx).Debug("saved members", "path", c.dataFile, "count", s.Len(), "revision", s.Revision())
	return nil
}

// confirm asks a yes/no question on out and reads the answer from in.
// Anything but "y" or "yes" is a no, including end of input.
func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s %s %s ", styleIconWarning.Render("?"), question, StyleDim.Render("[y/N]"))
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, apperr.Wrap(apperr.ErrCodeIO, err, "read answer")
	}
	if errors.Is(err, io.EOF) && line == "" {
		fmt.Fprintln(out)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// completeMemberIDs completes a member ID argument as "id<TAB>name".
func (c *CLI) completeMemberIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	if err := c.loadConfig(); err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	s, err := ftio.Load(c.dataFile, log.New(io.Discard))
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var out []string
	for _, m := range s.List() {
		if id := m.ID.String(); strings.HasPrefix(id, toComplete) {
			out = append(out, id+"\t"+m.Name)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
