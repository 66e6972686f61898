package cli

import (
	"errors"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	apperr "github.com/matzehuels/familytree/pkg/errors"
	ftio "github.com/matzehuels/familytree/pkg/io"
	"github.com/matzehuels/familytree/pkg/relation"
)

func (c *CLI) importCommand() *cobra.Command {
	var (
		policy string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a legacy family file with a separate relationship list",
		Long: `Import a family file in the older two-part layout:

  {"members": [...], "relationships": [{"person_a": 1, "person_b": 3, "kind": "parent"}]}

Parent relationships are turned into father and mother links and spouse
relationships into spouse lists on both members. Endpoints may be member ids
or unique names. The result is written to the members file.

A parent relationship without a role is placed by the parent's gender. With
--parent-policy father-first, parents of unknown gender fill the father slot
first; the default strict policy rejects them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			p := c.cfg.Policy()
			if cmd.Flags().Changed("parent-policy") {
				var err error
				if p, err = relation.ParsePolicy(policy); err != nil {
					return err
				}
			}

			if !force {
				if _, err := os.Stat(c.dataFile); !errors.Is(err, fs.ErrNotExist) {
					return apperr.New(apperr.ErrCodeInvalidInput,
						"%s already exists; pass --force to replace it", c.dataFile)
				}
			}

			prog := newProgress(logger)
			s, edges, err := ftio.ImportLegacy(args[0], logger)
			if err != nil {
				return err
			}
			rep, err := relation.Normalize(s, edges, p)
			if err != nil {
				return err
			}
			if err := c.saveStore(ctx, s); err != nil {
				return err
			}
			prog.done("Imported " + args[0])

			out := cmd.OutOrStdout()
			printSuccess(out, "Imported %d members from %s", s.Len(), args[0])
			printDetail(out, "%d parent links, %d spouse links, %d already present",
				rep.Parents, rep.Spouses, rep.Unchanged)
			for _, kind := range rep.IgnoredKinds() {
				printWarning(out, "Ignored %d %q relationships", rep.Ignored[kind], kind)
			}
			printFile(out, c.dataFile)
			return nil
		},
	}

	cmd.Flags().StringVar(&policy, "parent-policy", relation.PolicyStrict.String(),
		"placement of parents without role or gender: strict, father-first")
	cmd.Flags().BoolVar(&force, "force", false, "replace an existing members file")
	_ = cmd.RegisterFlagCompletionFunc("parent-policy", cobra.FixedCompletions(relation.Policies, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}
