package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	apperr "github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/member"
	"github.com/matzehuels/familytree/pkg/store"
)

// Sort orders for member listings.
const (
	sortLast  = "last"
	sortFirst = "first"
	sortID    = "id"
)

var sortOrders = []string{sortLast, sortFirst, sortID}

func parseSortOrder(s string) (string, error) {
	o := strings.ToLower(strings.TrimSpace(s))
	for _, valid := range sortOrders {
		if o == valid {
			return o, nil
		}
	}
	return "", apperr.Invalid("sort", nil, "unknown sort order %q", s).WithAllowed(sortOrders...)
}

// sortMembers sorts ms in place. Store listings are already in ID order.
func sortMembers(ms []member.Member, order string) {
	switch order {
	case sortLast:
		member.SortByLastName(ms)
	case sortFirst:
		member.SortByFirstName(ms)
	}
}

// =============================================================================
// list / show
// =============================================================================

func (c *CLI) listCommand() *cobra.Command {
	var sortBy string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List family members",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := parseSortOrder(sortBy)
			if err != nil {
				return err
			}
			s, err := c.openStore(cmd.Context(), false)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			ms := s.List()
			if len(ms) == 0 {
				printInfo(out, "No members yet")
				printNextStep(out, "Add the first one", appName+` add --name "Ada Lovelace"`)
				return nil
			}
			sortMembers(ms, order)
			fmt.Fprintln(out, memberTable(s, ms, -1))
			printDetail(out, "%d members in %s", len(ms), c.dataFile)
			return nil
		},
	}

	cmd.Flags().StringVar(&sortBy, "sort", sortLast, "sort order: last, first, id")
	_ = cmd.RegisterFlagCompletionFunc("sort", cobra.FixedCompletions(sortOrders, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

func (c *CLI) showCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "show <id>",
		Short:             "Show a member with their parents, spouses, children and siblings",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeMemberIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := c.openStore(cmd.Context(), false)
			if err != nil {
				return err
			}
			m, ok := s.Get(id)
			if !ok {
				return apperr.New(apperr.ErrCodeNotFound, "member %d not found", id)
			}
			fmt.Fprintln(cmd.OutOrStdout(), memberDetails(s, m))
			return nil
		},
	}
}

// =============================================================================
// add / edit / remove
// =============================================================================

// memberFlags binds one flag per editable member field. Only flags given on
// the command line end up in the resulting Fields.
type memberFlags struct {
	name         string
	age          string
	gender       string
	location     string
	occupation   string
	aspiration   string
	causeOfDeath string
	extra        string
	father       int
	mother       int
	spouses      string
}

func (f *memberFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.name, "name", "n", "", "full name")
	fl.StringVarP(&f.age, "age", "a", "", "age in years (empty clears)")
	fl.StringVarP(&f.gender, "gender", "g", "", "gender: male, female, alien, other (empty clears)")
	fl.StringVar(&f.location, "location", "", "where they live")
	fl.StringVar(&f.occupation, "occupation", "", "occupation")
	fl.StringVar(&f.aspiration, "aspiration", "", "aspiration")
	fl.StringVar(&f.causeOfDeath, "cause-of-death", "", "cause of death")
	fl.StringVar(&f.extra, "extra", "", "free-form notes")
	fl.IntVar(&f.father, "father", 0, "member id of the father (0 clears)")
	fl.IntVar(&f.mother, "mother", 0, "member id of the mother (0 clears)")
	fl.StringVar(&f.spouses, "spouses", "", "comma-separated member ids of spouses (empty clears)")

	genders := make([]string, len(member.Genders))
	for i, g := range member.Genders {
		genders[i] = strings.ToLower(string(g))
	}
	_ = cmd.RegisterFlagCompletionFunc("gender", cobra.FixedCompletions(genders, cobra.ShellCompDirectiveNoFileComp))
}

// fields returns the Fields for the flags set on cmd.
func (f *memberFlags) fields(cmd *cobra.Command) (member.Fields, error) {
	changed := cmd.Flags().Changed
	text := func(flag, v string) *string {
		if changed(flag) {
			return member.String(v)
		}
		return nil
	}

	out := member.Fields{
		Name:             text("name", f.name),
		Age:              text("age", f.age),
		Gender:           text("gender", f.gender),
		Location:         text("location", f.location),
		Occupation:       text("occupation", f.occupation),
		Aspiration:       text("aspiration", f.aspiration),
		CauseOfDeath:     text("cause-of-death", f.causeOfDeath),
		ExtraInformation: text("extra", f.extra),
	}
	if changed("father") {
		out.Father = member.Ref(member.ID(f.father))
	}
	if changed("mother") {
		out.Mother = member.Ref(member.ID(f.mother))
	}
	if changed("spouses") {
		ids, err := parseIDList(f.spouses)
		if err != nil {
			return member.Fields{}, err
		}
		out.Spouses = member.Refs(ids...)
	}
	return out, nil
}

func parseIDList(s string) ([]member.ID, error) {
	var ids []member.ID
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := parseID(part)
		if err != nil {
			return nil, apperr.Invalid(member.FieldSpouses, err, "%q is not a member id", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (c *CLI) addCommand() *cobra.Command {
	var flags memberFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a family member",
		Example: `  familytree add --name "Ben Roberson" --age 65 --gender male
  familytree add --name "Robert Smith" --father 1 --mother 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := flags.fields(cmd)
			if err != nil {
				return err
			}
			s, err := c.openStore(cmd.Context(), true)
			if err != nil {
				return err
			}
			id, err := s.Create(f)
			if err != nil {
				return err
			}
			if err := c.saveStore(cmd.Context(), s); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Added %s", s.DisplayName(id))
			return nil
		},
	}

	flags.register(cmd)
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func (c *CLI) editCommand() *cobra.Command {
	var (
		flags memberFlags
		yes   bool
	)

	cmd := &cobra.Command{
		Use:               "edit <id>",
		Short:             "Change fields of a member, previewing the changes first",
		Example:           `  familytree edit 3 --occupation Surgeon --location ""`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeMemberIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			f, err := flags.fields(cmd)
			if err != nil {
				return err
			}
			if len(f.Supplied()) == 0 {
				return apperr.New(apperr.ErrCodeInvalidInput, "nothing to change; pass at least one field flag")
			}

			s, err := c.openStore(cmd.Context(), false)
			if err != nil {
				return err
			}
			d, err := s.Update(id, f)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if d.Empty() {
				printInfo(out, "%s is already up to date", s.DisplayName(id))
				return nil
			}
			printInfo(out, "Changes to %s:", s.DisplayName(id))
			for _, line := range d.Summary() {
				printDetail(out, "%s", line)
			}
			if !yes {
				ok, err := confirm(cmd.InOrStdin(), out, "Apply these changes?")
				if err != nil {
					return err
				}
				if !ok {
					printInfo(out, "Nothing changed")
					return nil
				}
			}

			if _, err := s.Commit(id, f); err != nil {
				return err
			}
			if err := c.saveStore(cmd.Context(), s); err != nil {
				return err
			}
			printSuccess(out, "Updated %s", s.DisplayName(id))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "apply without asking")

	return cmd
}

func (c *CLI) removeCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:               "remove <id>",
		Aliases:           []string{"rm"},
		Short:             "Remove a member and every link to them",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeMemberIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := c.openStore(cmd.Context(), false)
			if err != nil {
				return err
			}
			if !s.Contains(id) {
				return apperr.New(apperr.ErrCodeNotFound, "member %d not found", id)
			}

			out := cmd.OutOrStdout()
			name := s.DisplayName(id)
			if !yes {
				describeCascade(out, s, id)
				ok, err := confirm(cmd.InOrStdin(), out, fmt.Sprintf("Remove %s?", name))
				if err != nil {
					return err
				}
				if !ok {
					printInfo(out, "Nothing changed")
					return nil
				}
			}

			if err := s.Delete(id); err != nil {
				return err
			}
			if err := c.saveStore(cmd.Context(), s); err != nil {
				return err
			}
			printSuccess(out, "Removed %s", name)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "remove without asking")

	return cmd
}

// describeCascade lists the members whose links to id a delete will clear.
func describeCascade(w io.Writer, s *store.Store, id member.ID) {
	deps := s.Dependents(id)
	if len(deps) == 0 {
		return
	}
	printWarning(w, "%d linked members will lose their link to %s:", len(deps), s.DisplayName(id))
	for _, dep := range deps {
		printDetail(w, "%s", s.DisplayName(dep))
	}
}
