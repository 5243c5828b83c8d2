package cli

import (
	"context"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/floorgeo/pkg/locations"
)

func newTestModel(t *testing.T) (EditorModel, *locations.FileStore) {
	t.Helper()
	store, err := locations.NewFileStore(filepath.Join(t.TempDir(), "locations.json"))
	require.NoError(t, err)
	records := []locations.Record{
		{ID: "gym", Name: "gym", X: 100, Y: 100},
		{ID: "frontgate", Name: "front gate", X: 300, Y: 50},
	}
	return NewEditorModel(context.Background(), store, records), store
}

func press(m EditorModel, keys ...tea.KeyMsg) EditorModel {
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(EditorModel)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
)

func TestEditorModelStartsOnFirstRecord(t *testing.T) {
	m, _ := newTestModel(t)
	assert.Equal(t, orb.Point{100, 100}, m.Cursor)
	assert.Equal(t, defaultStep, m.Step)

	m = press(m, keyTab)
	assert.Equal(t, orb.Point{300, 50}, m.Cursor)
	m = press(m, keyTab)
	assert.Equal(t, orb.Point{100, 100}, m.Cursor)
}

func TestEditorModelDrag(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(m, keySpace)
	require.Equal(t, locations.StateDragging, m.Editor().State())

	m = press(m, keyRight, keyRight, keyDown)
	m = press(m, keySpace)
	require.Equal(t, locations.StateIdle, m.Editor().State())

	gym := m.Editor().Records()[0]
	assert.Equal(t, orb.Point{120, 110}, gym.Point())
	assert.True(t, m.Editor().Dirty())
}

func TestEditorModelPressMiss(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(m, keyRight, keySpace)

	assert.Equal(t, locations.StateIdle, m.Editor().State())
	assert.Contains(t, m.View(), "No location within")
}

func TestEditorModelStep(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(m, runes("+"), runes("+"), runes("+"), runes("+"))
	assert.Equal(t, maxStep, m.Step)

	m = press(m, runes("-"), runes("-"), runes("-"), runes("-"), runes("-"), runes("-"))
	assert.InDelta(t, minStep, m.Step, 1e-12)
}

func TestEditorModelAdd(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(m, runes("a"))
	require.Equal(t, locations.StateNaming, m.Editor().State())
	assert.Contains(t, m.View(), "Name:")

	m = press(m, runes("main"), keySpace, runes("halx"), tea.KeyMsg{Type: tea.KeyBackspace}, runes("l"), keyEnter)
	require.Equal(t, locations.StateIdle, m.Editor().State())

	records := m.Editor().Records()
	require.Len(t, records, 3)
	assert.Equal(t, locations.Record{ID: "mainhall", Name: "main hall", X: 100, Y: 100}, records[2])
}

func TestEditorModelAddInvalidName(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(m, runes("a"), keyEnter)

	assert.Equal(t, locations.StateNaming, m.Editor().State(), "empty name keeps naming")
	assert.True(t, m.statusErr)

	m = press(m, keyEsc)
	assert.Equal(t, locations.StateIdle, m.Editor().State())
	assert.Len(t, m.Editor().Records(), 2)
}

func TestEditorModelDelete(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(m, runes("d"))

	records := m.Editor().Records()
	require.Len(t, records, 1)
	assert.Equal(t, "front gate", records[0].Name)

	m = press(m, runes("d"))
	assert.Len(t, m.Editor().Records(), 1, "nothing under the cursor any more")
}

func TestEditorModelSave(t *testing.T) {
	m, store := newTestModel(t)
	m = press(m, runes("d"))

	next, cmd := m.Update(runes("s"))
	require.NotNil(t, cmd)
	m = next.(EditorModel)

	next, _ = m.Update(cmd())
	m = next.(EditorModel)
	assert.False(t, m.Editor().Dirty())
	assert.Contains(t, m.View(), "Saved 1 locations")

	saved, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, saved, 1)
}

func TestEditorModelQuitConfirm(t *testing.T) {
	m, _ := newTestModel(t)

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd, "clean editor quits at once")

	m = press(m, runes("d"))
	next, cmd := m.Update(runes("q"))
	assert.Nil(t, cmd, "dirty editor asks first")
	m = next.(EditorModel)
	assert.True(t, m.confirmQuit)

	_, cmd = m.Update(runes("q"))
	assert.NotNil(t, cmd)
}

func TestEditorModelEmpty(t *testing.T) {
	store, err := locations.NewFileStore(filepath.Join(t.TempDir(), "locations.json"))
	require.NoError(t, err)

	m := NewEditorModel(context.Background(), store, nil)
	assert.Contains(t, m.View(), "no locations yet")

	m = press(m, keyTab)
	assert.Equal(t, orb.Point{0, 0}, m.Cursor)
}
