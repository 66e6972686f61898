package cli

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/familytree/pkg/member"
	"github.com/matzehuels/familytree/pkg/store"
)

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(t *testing.T, m browseModel, keys ...string) (browseModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(keyMsg(k))
		m = next.(browseModel)
	}
	return m, cmd
}

// browseFixture stores Carl Adams (1), Ben Roberson (2) and Alice Zephyr
// (3), Alice being Ben's daughter.
func browseFixture(t *testing.T) (*store.Store, *int) {
	t.Helper()
	s := store.New()
	for _, f := range []member.Fields{
		{Name: member.String("Carl Adams")},
		{Name: member.String("Ben Roberson"), Gender: member.String("male")},
		{Name: member.String("Alice Zephyr"), Father: member.Ref(2)},
	} {
		if _, err := s.Create(f); err != nil {
			t.Fatal(err)
		}
	}
	saves := 0
	return s, &saves
}

func newTestBrowser(t *testing.T) (browseModel, *store.Store, *int) {
	s, saves := browseFixture(t)
	m := newBrowseModel(s,
		func(*store.Store) error { *saves++; return nil },
		func() (string, bool, error) { return "family_tree.svg", false, nil },
	)
	return m, s, saves
}

func rowNames(m browseModel) []string {
	names := make([]string, len(m.rows))
	for i, r := range m.rows {
		names[i] = r.Name
	}
	return names
}

func TestBrowseSortToggle(t *testing.T) {
	m, _, _ := newTestBrowser(t)

	if got := strings.Join(rowNames(m), ","); got != "Carl Adams,Ben Roberson,Alice Zephyr" {
		t.Fatalf("initial order = %s", got)
	}

	m, _ = press(t, m, "down")
	m, _ = press(t, m, "s")
	if got := strings.Join(rowNames(m), ","); got != "Alice Zephyr,Ben Roberson,Carl Adams" {
		t.Errorf("first-name order = %s", got)
	}
	if sel, _ := m.selected(); sel.Name != "Ben Roberson" {
		t.Errorf("selection after toggle = %q, want Ben Roberson", sel.Name)
	}
	if !strings.Contains(m.View(), "sorted by first name") {
		t.Error("View() does not show the sort order")
	}

	m, _ = press(t, m, "s")
	if m.order != sortLast {
		t.Errorf("order after second toggle = %q", m.order)
	}
}

func TestBrowseNavigationBounds(t *testing.T) {
	m, _, _ := newTestBrowser(t)

	m, _ = press(t, m, "up")
	if m.cursor != 0 {
		t.Errorf("cursor after up at top = %d", m.cursor)
	}
	m, _ = press(t, m, "down", "j", "down", "down")
	if m.cursor != 2 {
		t.Errorf("cursor after moving past the end = %d", m.cursor)
	}
	m, _ = press(t, m, "k")
	if m.cursor != 1 {
		t.Errorf("cursor after k = %d", m.cursor)
	}
}

func TestBrowseDetails(t *testing.T) {
	m, _, _ := newTestBrowser(t)

	m, _ = press(t, m, "down", "enter")
	if m.mode != modeDetail {
		t.Fatalf("mode = %v, want detail", m.mode)
	}
	view := m.View()
	if !strings.Contains(view, "Ben Roberson (#2)") || !strings.Contains(view, "Alice Zephyr (#3)") {
		t.Errorf("detail view missing member or child:\n%s", view)
	}

	m, _ = press(t, m, "esc")
	if m.mode != modeList {
		t.Errorf("mode after esc = %v, want list", m.mode)
	}
}

func TestBrowseDelete(t *testing.T) {
	m, s, saves := newTestBrowser(t)

	m, _ = press(t, m, "down", "d")
	if m.mode != modeConfirmDelete {
		t.Fatalf("mode = %v, want confirm", m.mode)
	}
	if view := m.View(); !strings.Contains(view, "Remove Ben Roberson (#2)?") || !strings.Contains(view, "Alice Zephyr (#3)") {
		t.Errorf("confirm view:\n%s", view)
	}

	m, _ = press(t, m, "n")
	if !s.Contains(2) || *saves != 0 {
		t.Fatal("declined delete removed the member")
	}
	if m.status != "Kept Ben Roberson (#2)" {
		t.Errorf("status = %q", m.status)
	}

	m, _ = press(t, m, "d", "y")
	if s.Contains(2) {
		t.Fatal("confirmed delete kept the member")
	}
	if *saves != 1 || m.removed != 1 {
		t.Errorf("saves = %d, removed = %d", *saves, m.removed)
	}
	if alice, _ := s.Get(3); alice.Father != 0 {
		t.Errorf("Alice father = %d after cascade", alice.Father)
	}
	if len(m.rows) != 2 || m.cursor != 1 {
		t.Errorf("rows = %v, cursor = %d", rowNames(m), m.cursor)
	}
}

func TestBrowseDeleteLastRow(t *testing.T) {
	m, _, _ := newTestBrowser(t)
	m, _ = press(t, m, "down", "down", "d", "y")
	if m.cursor != 1 {
		t.Errorf("cursor after deleting last row = %d, want 1", m.cursor)
	}
	m, _ = press(t, m, "d", "y", "d", "y")
	if len(m.rows) != 0 || !strings.Contains(m.View(), "No members.") {
		t.Errorf("rows = %v", rowNames(m))
	}
	m, _ = press(t, m, "d")
	if m.mode != modeList {
		t.Error("delete on an empty list entered confirmation")
	}
}

func TestBrowseSaveFailure(t *testing.T) {
	s, _ := browseFixture(t)
	m := newBrowseModel(s,
		func(*store.Store) error { return errors.New("disk full") },
		func() (string, bool, error) { return "", false, nil },
	)
	m, _ = press(t, m, "d", "y")
	if !m.failed || !strings.Contains(m.status, "disk full") {
		t.Errorf("status = %q, failed = %v", m.status, m.failed)
	}
}

func TestBrowseRegenerate(t *testing.T) {
	m, s, _ := newTestBrowser(t)

	m, cmd := press(t, m, "g")
	if cmd == nil || !m.rendering {
		t.Fatal("g did not start rendering")
	}

	m, again := press(t, m, "g")
	if again != nil {
		t.Error("second g started another rendering")
	}
	m, _ = press(t, m, "d")
	if m.mode != modeList || !s.Contains(1) {
		t.Error("delete allowed while rendering")
	}

	next, _ := m.Update(cmd())
	m = next.(browseModel)
	if m.rendering || m.status != "Diagram written to family_tree.svg" {
		t.Errorf("after render: rendering = %v, status = %q", m.rendering, m.status)
	}

	next, _ = m.Update(graphDoneMsg{err: errors.New("rsvg-convert missing")})
	m = next.(browseModel)
	if !m.failed || !strings.Contains(m.status, "rsvg-convert missing") {
		t.Errorf("status = %q", m.status)
	}
}

func TestBrowseQuit(t *testing.T) {
	for _, k := range []string{"q", "esc", "ctrl+c"} {
		m, _, _ := newTestBrowser(t)
		_, cmd := press(t, m, k)
		if cmd == nil {
			t.Fatalf("%s returned no command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s did not quit", k)
		}
	}
}

func TestBrowseScroll(t *testing.T) {
	s := store.New()
	for i := range 10 {
		if _, err := s.Create(member.Fields{Name: member.String(string(rune('A'+i)) + " Person")}); err != nil {
			t.Fatal(err)
		}
	}
	m := newBrowseModel(s, func(*store.Store) error { return nil }, func() (string, bool, error) { return "", false, nil })

	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 12})
	m = next.(browseModel)
	if m.height != 4 {
		t.Fatalf("height = %d, want 4", m.height)
	}
	m, _ = press(t, m, "down", "down", "down", "down", "down")
	if m.cursor != 5 || m.offset != 2 {
		t.Errorf("cursor = %d, offset = %d", m.cursor, m.offset)
	}
	if view := m.View(); strings.Contains(view, "A Person") || !strings.Contains(view, "F Person") {
		t.Errorf("view does not scroll:\n%s", view)
	}
}
