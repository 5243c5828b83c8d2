package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/paulmach/orb"

	"github.com/matzehuels/floorgeo/pkg/errors"
	"github.com/matzehuels/floorgeo/pkg/locations"
)

// Cursor step bounds in pixels.
const (
	defaultStep = 10.0
	minStep     = 0.1
	maxStep     = 1000.0
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	statusErrStyle    = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// EditorModel - Interactive location editing
// =============================================================================

// savedMsg reports the outcome of an asynchronous save.
type savedMsg struct {
	count int
	err   error
}

// EditorModel is the bubbletea model driving a [locations.Editor].
//
// The terminal has no pointer, so a cursor in pixel coordinates stands in for
// the mouse: arrows move it, space presses and releases, and moving while a
// record is held drags it along.
type EditorModel struct {
	ctx    context.Context
	editor *locations.Editor
	store  *locations.FileStore

	Cursor orb.Point
	Step   float64

	name        []rune
	focus       int
	status      string
	statusErr   bool
	confirmQuit bool
}

// NewEditorModel creates an editor model over records, saving to store.
func NewEditorModel(ctx context.Context, store *locations.FileStore, records []locations.Record) EditorModel {
	m := EditorModel{
		ctx:    ctx,
		editor: locations.NewEditor(records),
		store:  store,
		Step:   defaultStep,
		focus:  -1,
	}
	if len(records) > 0 {
		m.Cursor = records[0].Point()
		m.focus = 0
	}
	return m
}

// Editor returns the underlying state machine.
func (m EditorModel) Editor() *locations.Editor { return m.editor }

func (m EditorModel) Init() tea.Cmd {
	return nil
}

func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.editor.MarkSaved()
		m.setStatus(fmt.Sprintf("Saved %d locations to %s", msg.count, m.store.Path()))
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.editor.State() == locations.StateNaming {
			return m.updateNaming(msg)
		}
		return m.updateCursor(msg)
	}
	return m, nil
}

// updateCursor handles keys while idle or dragging.
func (m EditorModel) updateCursor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key != "q" && key != "esc" {
		m.confirmQuit = false
	}

	switch key {
	case "q", "esc":
		if m.editor.State() == locations.StateDragging {
			m.release()
			return m, nil
		}
		if m.editor.Dirty() && !m.confirmQuit {
			m.confirmQuit = true
			m.setStatus("Unsaved changes: press s to save or q again to quit")
			return m, nil
		}
		return m, tea.Quit
	case "up", "k":
		m.move(0, -m.Step)
	case "down", "j":
		m.move(0, m.Step)
	case "left", "h":
		m.move(-m.Step, 0)
	case "right", "l":
		m.move(m.Step, 0)
	case "+", "=":
		m.Step = min(m.Step*10, maxStep)
	case "-":
		m.Step = max(m.Step/10, minStep)
	case "tab":
		m.cycle()
	case " ", "enter":
		if m.editor.State() == locations.StateDragging {
			m.release()
			return m, nil
		}
		hit, err := m.editor.Press(m.Cursor[0], m.Cursor[1])
		switch {
		case err != nil:
			m.setError(err)
		case !hit:
			m.setStatus(fmt.Sprintf("No location within %gpx", locations.PickRadius))
		default:
			rec, _ := m.editor.Selected()
			m.Cursor = rec.Point()
			m.setStatus("Moving " + rec.Name)
		}
	case "a":
		if err := m.editor.BeginAdd(); err != nil {
			m.setError(err)
			return m, nil
		}
		m.name = m.name[:0]
		m.setStatus("Name the new location at the cursor")
	case "d", "x":
		i := m.editor.Hit(m.Cursor)
		if i < 0 {
			m.setStatus("No location under the cursor")
			return m, nil
		}
		name := m.editor.Records()[i].Name
		if err := m.editor.Remove(name); err != nil {
			m.setError(err)
			return m, nil
		}
		m.focus = -1
		m.setStatus("Removed " + name)
	case "s":
		return m, m.save()
	}
	return m, nil
}

// updateNaming handles keys while a new record is being named.
func (m EditorModel) updateNaming(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.editor.Cancel()
		m.setStatus("Add cancelled")
	case tea.KeyEnter:
		rec, err := m.editor.Place(string(m.name), m.Cursor[0], m.Cursor[1])
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.name = m.name[:0]
		m.setStatus(fmt.Sprintf("Placed %s at %s", rec.Name, formatPoint(rec.X, rec.Y)))
	case tea.KeyBackspace:
		if len(m.name) > 0 {
			m.name = m.name[:len(m.name)-1]
		}
	case tea.KeySpace:
		m.name = append(m.name, ' ')
	case tea.KeyRunes:
		m.name = append(m.name, msg.Runes...)
	}
	return m, nil
}

func (m *EditorModel) move(dx, dy float64) {
	m.Cursor = orb.Point{m.Cursor[0] + dx, m.Cursor[1] + dy}
	if m.editor.State() == locations.StateDragging {
		if err := m.editor.Drag(m.Cursor[0], m.Cursor[1]); err != nil {
			m.setError(err)
		}
	}
}

func (m *EditorModel) release() {
	rec, _ := m.editor.Selected()
	if err := m.editor.Release(); err != nil {
		m.setError(err)
		return
	}
	m.setStatus(fmt.Sprintf("Dropped %s at %s", rec.Name, formatPoint(rec.X, rec.Y)))
}

// cycle jumps the cursor to the next record.
func (m *EditorModel) cycle() {
	records := m.editor.Records()
	if len(records) == 0 || m.editor.State() != locations.StateIdle {
		return
	}
	m.focus = (m.focus + 1) % len(records)
	m.Cursor = records[m.focus].Point()
}

func (m EditorModel) save() tea.Cmd {
	records := m.editor.Records()
	ctx, store := m.ctx, m.store
	return func() tea.Msg {
		return savedMsg{count: len(records), err: store.Save(ctx, records)}
	}
}

func (m *EditorModel) setStatus(s string) {
	m.status, m.statusErr = s, false
}

func (m *EditorModel) setError(err error) {
	m.status, m.statusErr = errors.UserMessage(err), true
}

func (m EditorModel) View() string {
	var b strings.Builder

	title := "Locations " + m.store.Path()
	if m.editor.Dirty() {
		title += " *"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("cursor %s  step %g  %s",
		formatPoint(m.Cursor[0], m.Cursor[1]), m.Step, m.editor.State())))
	b.WriteString("\n\n")

	b.WriteString(m.recordTable())
	b.WriteString("\n\n")

	if m.editor.State() == locations.StateNaming {
		b.WriteString("Name: " + StyleValue.Render(string(m.name)) + listSelectedStyle.Render("_"))
		b.WriteString("\n")
	}
	if m.status != "" {
		if m.statusErr {
			b.WriteString(statusErrStyle.Render(m.status))
		} else {
			b.WriteString(StyleSuccess.Render(m.status))
		}
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(m.help()))
	return b.String()
}

func (m EditorModel) help() string {
	switch m.editor.State() {
	case locations.StateNaming:
		return "type a name  ⏎ place  esc cancel"
	case locations.StateDragging:
		return "←↑↓→ move  +/- step  space drop"
	default:
		return "←↑↓→ move  +/- step  tab next  space pick  a add  d delete  s save  q quit"
	}
}

func (m EditorModel) recordTable() string {
	records := m.editor.Records()
	if len(records) == 0 {
		return listDimStyle.Render("  no locations yet, press a to add one")
	}

	active := m.editor.Hit(m.Cursor)
	if rec, ok := m.editor.Selected(); ok {
		for i, r := range records {
			if r.Name == rec.Name {
				active = i
			}
		}
	}

	rows := make([][]string, len(records))
	for i, r := range records {
		cursor := "  "
		if i == active {
			cursor = "▸ "
		}
		rows[i] = []string{
			cursor,
			r.Name,
			r.ID,
			strconv.FormatFloat(r.X, 'f', 2, 64),
			strconv.FormatFloat(r.Y, 'f', 2, 64),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Name", "ID", "X", "Y").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row == active:
				return listSelectedStyle
			default:
				return StyleValue
			}
		}).
		Render()
}
