package cli

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/familytree/pkg/member"
	"github.com/matzehuels/familytree/pkg/store"
)

var (
	browseHelpStyle   = lipgloss.NewStyle().Foreground(colorDim)
	browseStatusStyle = lipgloss.NewStyle().Foreground(colorGreen)
	browseErrorStyle  = lipgloss.NewStyle().Foreground(colorRed)
)

func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse, inspect and remove members interactively",
		Long: `Open an interactive member browser.

Keys: ↑/↓ move, s toggles sorting by last or first name, enter shows the
selected member with their relatives, d removes them (after confirmation),
g regenerates the diagram, q quits. Removals are saved immediately.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openStore(ctx, false)
			if err != nil {
				return err
			}

			m := newBrowseModel(s,
				func(s *store.Store) error { return c.saveStore(ctx, s) },
				c.regenerate(ctx, s),
			)

			p := tea.NewProgram(m,
				tea.WithContext(ctx),
				tea.WithAltScreen(),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			final, err := p.Run()
			if err != nil {
				return err
			}
			if bm, ok := final.(browseModel); ok && bm.removed > 0 {
				printSuccess(cmd.OutOrStdout(), "Removed %d members", bm.removed)
			}
			return nil
		},
	}
}

// regenerate returns the browser's diagram action: render s with the
// configured defaults and write it next to the members file.
func (c *CLI) regenerate(ctx context.Context, s *store.Store) func() (string, bool, error) {
	opts := c.graphDefaults()
	path := c.defaultGraphPath(opts.format)
	return func() (string, bool, error) {
		res, err := c.renderGraph(ctx, s, opts)
		if err != nil {
			return "", false, err
		}
		return path, res.cached, writeFile(path, res.data)
	}
}

// =============================================================================
// browseModel - interactive member browser
// =============================================================================

type browseMode int

const (
	modeList browseMode = iota
	modeDetail
	modeConfirmDelete
)

// graphDoneMsg reports the end of a background diagram rendering.
type graphDoneMsg struct {
	path   string
	cached bool
	err    error
}

// browseModel is the bubbletea model of the browse command. It shares the
// store with the graph callback, so deletions are refused while a diagram
// is being rendered.
type browseModel struct {
	store  *store.Store
	save   func(*store.Store) error
	graph  func() (string, bool, error)
	order  string
	rows   []member.Member
	cursor int
	offset int
	height int
	mode   browseMode

	rendering bool
	removed   int
	status    string
	failed    bool
}

func newBrowseModel(s *store.Store, save func(*store.Store) error, graph func() (string, bool, error)) browseModel {
	m := browseModel{
		store:  s,
		save:   save,
		graph:  graph,
		order:  sortLast,
		height: 15,
	}
	m.refresh()
	return m
}

// refresh re-reads and sorts the rows, keeping the cursor in range.
func (m *browseModel) refresh() {
	m.rows = m.store.List()
	sortMembers(m.rows, m.order)
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.scroll()
}

func (m *browseModel) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
	if m.offset > 0 && m.offset+m.height > len(m.rows) {
		m.offset = max(len(m.rows)-m.height, 0)
	}
}

func (m browseModel) selected() (member.Member, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return member.Member{}, false
	}
	return m.rows[m.cursor], true
}

func (m *browseModel) setStatus(failed bool, format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.failed = failed
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-8, 3)
		m.scroll()
	case graphDoneMsg:
		m.rendering = false
		switch {
		case msg.err != nil:
			m.setStatus(true, "Diagram failed: %v", msg.err)
		case msg.cached:
			m.setStatus(false, "Diagram unchanged: %s", msg.path)
		default:
			m.setStatus(false, "Diagram written to %s", msg.path)
		}
	case tea.KeyMsg:
		return m.handleKey(msg.String())
	}
	return m, nil
}

func (m browseModel) handleKey(key string) (tea.Model, tea.Cmd) {
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case modeConfirmDelete:
		if key == "y" || key == "Y" {
			m.deleteSelected()
		} else if sel, ok := m.selected(); ok {
			m.setStatus(false, "Kept %s", m.store.DisplayName(sel.ID))
		}
		m.mode = modeList
		return m, nil

	case modeDetail:
		switch key {
		case "q":
			return m, tea.Quit
		case "esc", "enter", "backspace", "left", "h":
			m.mode = modeList
			return m, nil
		}
	}

	switch key {
	case "q", "esc":
		if m.mode == modeList {
			return m, tea.Quit
		}
	case "up", "k":
		if m.mode == modeList && m.cursor > 0 {
			m.cursor--
			m.scroll()
		}
	case "down", "j":
		if m.mode == modeList && m.cursor < len(m.rows)-1 {
			m.cursor++
			m.scroll()
		}
	case "s":
		if m.order == sortLast {
			m.order = sortFirst
		} else {
			m.order = sortLast
		}
		if sel, ok := m.selected(); ok {
			m.refresh()
			m.moveTo(sel.ID)
		} else {
			m.refresh()
		}
	case "enter", "right", "l":
		if _, ok := m.selected(); ok {
			m.mode = modeDetail
		}
	case "d", "delete":
		if _, ok := m.selected(); !ok {
			break
		}
		if m.rendering {
			m.setStatus(true, "Wait for the diagram to finish")
			break
		}
		m.mode = modeConfirmDelete
	case "g":
		if m.rendering {
			break
		}
		m.rendering = true
		m.setStatus(false, "Rendering diagram...")
		return m, m.renderCmd()
	}
	return m, nil
}

func (m *browseModel) moveTo(id member.ID) {
	for i, r := range m.rows {
		if r.ID == id {
			m.cursor = i
			m.scroll()
			return
		}
	}
}

func (m *browseModel) deleteSelected() {
	sel, ok := m.selected()
	if !ok {
		return
	}
	name := m.store.DisplayName(sel.ID)
	if err := m.store.Delete(sel.ID); err != nil {
		m.setStatus(true, "Remove failed: %v", err)
		return
	}
	m.removed++
	m.refresh()
	if err := m.save(m.store); err != nil {
		m.setStatus(true, "Removed %s but saving failed: %v", name, err)
		return
	}
	m.setStatus(false, "Removed %s", name)
}

func (m browseModel) renderCmd() tea.Cmd {
	graph := m.graph
	return func() tea.Msg {
		path, cached, err := graph()
		return graphDoneMsg{path: path, cached: cached, err: err}
	}
}

func (m browseModel) View() string {
	var b strings.Builder

	order := "last name"
	if m.order == sortFirst {
		order = "first name"
	}
	b.WriteString(StyleTitle.Render("Family Tree"))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %d members · sorted by %s", len(m.rows), order)))
	b.WriteString("\n\n")

	sel, hasSel := m.selected()
	switch {
	case m.mode == modeDetail && hasSel:
		b.WriteString(memberDetails(m.store, sel))
		b.WriteString("\n\n")
		b.WriteString(browseHelpStyle.Render("esc back  d remove  g diagram  q quit"))

	case m.mode == modeConfirmDelete && hasSel:
		var cascade bytes.Buffer
		describeCascade(&cascade, m.store, sel.ID)
		b.WriteString(cascade.String())
		b.WriteString(StyleWarning.Render(fmt.Sprintf("Remove %s? ", m.store.DisplayName(sel.ID))))
		b.WriteString(browseHelpStyle.Render("y confirm  any other key cancels"))

	case len(m.rows) == 0:
		b.WriteString(StyleDim.Render("No members."))
		b.WriteString("\n\n")
		b.WriteString(browseHelpStyle.Render("q quit"))

	default:
		end := min(m.offset+m.height, len(m.rows))
		b.WriteString(memberTable(m.store, m.rows[m.offset:end], m.cursor-m.offset))
		b.WriteString("\n")
		b.WriteString(StyleDim.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.rows))))
		b.WriteString("\n\n")
		b.WriteString(browseHelpStyle.Render("↑/↓ navigate  s sort  ⏎ details  d remove  g diagram  q quit"))
	}

	if m.status != "" {
		b.WriteString("\n")
		if m.failed {
			b.WriteString(browseErrorStyle.Render(m.status))
		} else {
			b.WriteString(browseStatusStyle.Render(m.status))
		}
	}
	return b.String()
}
