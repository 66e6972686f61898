package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/familytree/pkg/member"
	"github.com/matzehuels/familytree/pkg/relation"
	"github.com/matzehuels/familytree/pkg/store"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorPink   = lipgloss.Color("211") // Pink - female members
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(18)
	styleHeader  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
	iconNone    = "—"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a file output line.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printStats prints diagram statistics on a single line.
func printStats(w io.Writer, members, links int, cached bool) {
	parts := []string{
		StyleDim.Render(fmt.Sprintf("%d members", members)),
		StyleDim.Render(fmt.Sprintf("%d links", links)),
	}
	if cached {
		parts = append(parts, styleCached.Render(iconCached))
	} else {
		parts = append(parts, styleComputed.Render(iconFresh))
	}
	fmt.Fprintln(w, "  "+strings.Join(parts, StyleDim.Render(" · ")))
}

// printNextStep prints a suggested next command.
func printNextStep(w io.Writer, description, cmd string) {
	fmt.Fprintln(w, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// =============================================================================
// Members
// =============================================================================

// memberTable renders ms as a bordered table. The row at cursor is
// highlighted; pass -1 for none.
func memberTable(s *store.Store, ms []member.Member, cursor int) string {
	rows := make([][]string, len(ms))
	for i, m := range ms {
		rows[i] = []string{
			m.ID.String(),
			m.Name,
			orNone(ageText(m)),
			orNone(string(m.Gender)),
			orNone(m.Text(member.FieldLocation)),
			orNone(m.Text(member.FieldOccupation)),
			orNone(parentsText(s, m)),
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Name", "Age", "Gender", "Location", "Occupation", "Parents").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader.Padding(0, 1)
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == cursor {
				return base.Bold(true).Foreground(colorCyan)
			}
			if col == 1 && row < len(ms) {
				return base.Foreground(genderColor(ms[row].Gender))
			}
			if col == 0 {
				return base.Foreground(colorDim)
			}
			return base
		}).
		Render()
}

func genderColor(g member.Gender) lipgloss.Color {
	switch g {
	case member.GenderMale:
		return colorBlue
	case member.GenderFemale:
		return colorPink
	case member.GenderAlien:
		return colorGreen
	}
	return colorWhite
}

// memberDetails renders every field of m together with its resolved
// relatives.
func memberDetails(s *store.Store, m member.Member) string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render(s.DisplayName(m.ID)))
	b.WriteString("\n\n")

	line := func(key, value string) {
		b.WriteString(styleKey.Render(key) + " " + StyleValue.Render(orNone(value)) + "\n")
	}

	line(member.Label(member.FieldAge), ageText(m))
	line(member.Label(member.FieldGender), string(m.Gender))
	for _, f := range []string{
		member.FieldLocation,
		member.FieldOccupation,
		member.FieldAspiration,
		member.FieldCauseOfDeath,
		member.FieldExtraInformation,
	} {
		line(member.Label(f), m.Text(f))
	}

	b.WriteString("\n")
	father, mother, _ := relation.Parents(s, m.ID)
	line(member.Label(member.FieldFather), nameOf(s, father))
	line(member.Label(member.FieldMother), nameOf(s, mother))

	spouses, _ := relation.Spouses(s, m.ID)
	line(member.Label(member.FieldSpouses), namesOf(s, spouses))
	children, _ := relation.Children(s, m.ID)
	line("Children", namesOf(s, children))
	siblings, _ := relation.Siblings(s, m.ID)
	line("Siblings", namesOf(s, siblings))

	return strings.TrimRight(b.String(), "\n")
}

func ageText(m member.Member) string {
	if m.Age == nil {
		return m.AgeGroup
	}
	return fmt.Sprintf("%d (%s)", *m.Age, member.AgeCategory(*m.Age))
}

func parentsText(s *store.Store, m member.Member) string {
	var names []string
	for _, id := range []member.ID{m.Father, m.Mother} {
		if p, ok := s.Get(id); ok {
			names = append(names, p.Name)
		}
	}
	return strings.Join(names, " & ")
}

func nameOf(s *store.Store, m *member.Member) string {
	if m == nil {
		return ""
	}
	return s.DisplayName(m.ID)
}

func namesOf(s *store.Store, ms []member.Member) string {
	names := make([]string, len(ms))
	for i, m := range ms {
		names[i] = s.DisplayName(m.ID)
	}
	return strings.Join(names, ", ")
}

func orNone(s string) string {
	if s == "" {
		return iconNone
	}
	return s
}
