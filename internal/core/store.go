package core

// store.go holds the ordered record list and the edit pointer.
//
// State is a value. Every transition returns a new State and leaves the
// receiver untouched, so a caller can keep the previous value around (or
// discard the new one when a later step fails). Records are identified by
// their current index; removing an element shifts the ones after it down.

import (
	"fmt"
	"slices"
)

// Mode is the submission mode of a State.
type Mode string

const (
	ModeIdle    Mode = "idle"
	ModeEditing Mode = "editing"
)

// State is the record list plus the optional index being edited.
type State struct {
	records []Record
	edit    int // editing index + 1; zero when idle
}

// NewState returns an idle State holding a copy of records.
// The zero State is an empty, idle list.
func NewState(records ...Record) State {
	return State{records: slices.Clone(records)}
}

// Len returns the number of records.
func (s State) Len() int {
	return len(s.records)
}

// Records returns a copy of the records in display order.
func (s State) Records() []Record {
	return slices.Clone(s.records)
}

// At returns the record at index i.
func (s State) At(i int) (Record, error) {
	if !s.inRange(i) {
		return Record{}, s.rangeErr(i)
	}
	return s.records[i], nil
}

// Editing returns the index being edited and whether an edit is in progress.
func (s State) Editing() (int, bool) {
	return s.edit - 1, s.edit > 0
}

// Mode returns ModeEditing while an edit is in progress.
func (s State) Mode() Mode {
	if _, ok := s.Editing(); ok {
		return ModeEditing
	}
	return ModeIdle
}

// Append adds r at the end of the list.
func (s State) Append(r Record) State {
	next := s.clone()
	next.records = append(next.records, r)
	return next
}

// Update replaces the record at index i. The state is returned unchanged
// with ErrIndexOutOfRange when i does not address a record.
func (s State) Update(i int, r Record) (State, error) {
	if !s.inRange(i) {
		return s, s.rangeErr(i)
	}
	next := s.clone()
	next.records[i] = r
	return next, nil
}

// Remove deletes the record at index i. An edit of that record ends; an
// edit of a later record follows it to its new index.
func (s State) Remove(i int) (State, error) {
	if !s.inRange(i) {
		return s, s.rangeErr(i)
	}
	next := s.clone()
	next.records = slices.Delete(next.records, i, i+1)

	if idx, ok := s.Editing(); ok {
		switch {
		case idx == i:
			next.edit = 0
		case idx > i:
			next.edit = idx
		}
	}
	return next, nil
}

// BeginEdit points the state at index i and returns a copy of that record
// for the form. Beginning a new edit replaces any edit in progress.
func (s State) BeginEdit(i int) (State, Record, error) {
	if !s.inRange(i) {
		return s, Record{}, s.rangeErr(i)
	}
	next := s.clone()
	next.edit = i + 1
	return next, s.records[i], nil
}

// CompleteEdit clears the edit pointer.
func (s State) CompleteEdit() State {
	next := s.clone()
	next.edit = 0
	return next
}

func (s State) clone() State {
	return State{records: slices.Clone(s.records), edit: s.edit}
}

func (s State) inRange(i int) bool {
	return i >= 0 && i < len(s.records)
}

func (s State) rangeErr(i int) error {
	return fmt.Errorf("index %d of %d: %w", i, len(s.records), ErrIndexOutOfRange)
}
