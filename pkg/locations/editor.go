package locations

import (
	"github.com/paulmach/orb"
	orbplanar "github.com/paulmach/orb/planar"

	"github.com/matzehuels/floorgeo/pkg/errors"
)

// PickRadius is how close, in pixels, a press must land to select a record.
const PickRadius = 5.0

// State is the editor interaction state.
type State int

const (
	// StateIdle waits for a press or an add request.
	StateIdle State = iota
	// StateDragging moves the selected record with every Drag.
	StateDragging
	// StateNaming waits for a name and a position for a new record.
	StateNaming
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDragging:
		return "dragging"
	case StateNaming:
		return "naming"
	default:
		return "unknown"
	}
}

// Editor is the location editing state machine:
//
//	idle --Press(hit)--> dragging --Release--> idle
//	idle --BeginAdd--> naming --Place--> idle
//	                   naming --Cancel--> idle
//
// Records are keyed by name: placing a record under an existing name
// replaces it. Editor is not safe for concurrent use.
type Editor struct {
	records  []Record
	state    State
	selected int
	dirty    bool
}

// NewEditor starts an idle editor over a copy of records.
func NewEditor(records []Record) *Editor {
	return &Editor{
		records:  append([]Record(nil), records...),
		selected: -1,
	}
}

// State returns the current state.
func (e *Editor) State() State { return e.state }

// Records returns a copy of the current records.
func (e *Editor) Records() []Record {
	return append([]Record(nil), e.records...)
}

// Dirty reports whether records changed since the editor was created or
// [Editor.MarkSaved] was last called.
func (e *Editor) Dirty() bool { return e.dirty }

// MarkSaved clears the dirty flag.
func (e *Editor) MarkSaved() { e.dirty = false }

// Selected returns the record being dragged.
func (e *Editor) Selected() (Record, bool) {
	if e.state != StateDragging || e.selected < 0 {
		return Record{}, false
	}
	return e.records[e.selected], true
}

// Hit returns the index of the record nearest to p within [PickRadius], or
// -1 when no record is close enough.
func (e *Editor) Hit(p orb.Point) int {
	best, bestDist := -1, PickRadius
	for i, r := range e.records {
		if d := orbplanar.Distance(r.Point(), p); d <= bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// Press selects the record under (x, y) and starts dragging it. It reports
// whether a record was hit; a miss leaves the editor idle. Press is only
// valid while idle.
func (e *Editor) Press(x, y float64) (bool, error) {
	if e.state != StateIdle {
		return false, e.invalid("press")
	}
	i := e.Hit(orb.Point{x, y})
	if i < 0 {
		return false, nil
	}
	e.selected = i
	e.state = StateDragging
	return true, nil
}

// Drag moves the selected record to (x, y).
func (e *Editor) Drag(x, y float64) error {
	if e.state != StateDragging {
		return e.invalid("drag")
	}
	if err := errors.ValidateCoordinate("x", x); err != nil {
		return err
	}
	if err := errors.ValidateCoordinate("y", y); err != nil {
		return err
	}
	r := &e.records[e.selected]
	if r.X != x || r.Y != y {
		r.X, r.Y = x, y
		e.dirty = true
	}
	return nil
}

// Release drops the selected record and returns to idle.
func (e *Editor) Release() error {
	if e.state != StateDragging {
		return e.invalid("release")
	}
	e.selected = -1
	e.state = StateIdle
	return nil
}

// BeginAdd enters the naming state.
func (e *Editor) BeginAdd() error {
	if e.state != StateIdle {
		return e.invalid("add")
	}
	e.state = StateNaming
	return nil
}

// Place adds a record named name at (x, y) and returns to idle. An invalid
// name keeps the editor in the naming state so the caller can retry.
func (e *Editor) Place(name string, x, y float64) (Record, error) {
	if e.state != StateNaming {
		return Record{}, e.invalid("place")
	}
	rec, err := NewRecord(name, x, y)
	if err != nil {
		return Record{}, err
	}
	if i := e.index(name); i >= 0 {
		e.records[i] = rec
	} else {
		e.records = append(e.records, rec)
	}
	e.dirty = true
	e.state = StateIdle
	return rec, nil
}

// Cancel abandons an add and returns to idle.
func (e *Editor) Cancel() error {
	if e.state != StateNaming {
		return e.invalid("cancel")
	}
	e.state = StateIdle
	return nil
}

// Remove deletes the record with the given name. Only valid while idle.
func (e *Editor) Remove(name string) error {
	if e.state != StateIdle {
		return e.invalid("remove")
	}
	i := e.index(name)
	if i < 0 {
		return errors.New(errors.ErrCodeNotFound, "no location named %q", name)
	}
	e.records = append(e.records[:i], e.records[i+1:]...)
	e.dirty = true
	return nil
}

func (e *Editor) index(name string) int {
	for i, r := range e.records {
		if r.Name == name {
			return i
		}
	}
	return -1
}

func (e *Editor) invalid(op string) error {
	return errors.New(errors.ErrCodeInvalidInput, "cannot %s while %s", op, e.state)
}
