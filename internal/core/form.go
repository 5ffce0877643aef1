package core

// Outcome describes what a submission did.
type Outcome string

const (
	OutcomeAppended Outcome = "appended"
	OutcomeUpdated  Outcome = "updated"
	OutcomeRejected Outcome = "rejected"
)

// Form is the complete state of one registration form: the record list,
// the values currently in the inputs, and the errors shown next to them.
type Form struct {
	State  State
	Buffer Record
	Errors ErrorMap
}

// NewForm returns an idle form with an empty list and buffer.
func NewForm() Form {
	return Form{Buffer: EmptyRecord(), Errors: ErrorMap{}}
}

// Mode is a shorthand for f.State.Mode().
func (f Form) Mode() Mode {
	return f.State.Mode()
}

// SubmitLabel is the text of the submit button.
func (f Form) SubmitLabel() string {
	if f.Mode() == ModeEditing {
		return "Update"
	}
	return "Submit"
}

// Submit validates the candidate and, when valid, appends it (idle) or
// replaces the record being edited and returns to idle.
//
// A rejected candidate leaves the list and the edit pointer alone; the
// buffer keeps the candidate so the user can correct it.
func (f Form) Submit(c Record) (Form, Outcome) {
	errs := Validate(c)
	if !errs.Valid() {
		return Form{State: f.State, Buffer: c, Errors: errs}, OutcomeRejected
	}

	next := Form{Buffer: EmptyRecord(), Errors: ErrorMap{}}

	idx, editing := f.State.Editing()
	if !editing {
		next.State = f.State.Append(c)
		return next, OutcomeAppended
	}

	st, err := f.State.Update(idx, c)
	if err != nil {
		// Remove keeps the edit pointer in range, so this is a no-op guard.
		return f, OutcomeRejected
	}
	next.State = st.CompleteEdit()
	return next, OutcomeUpdated
}

// Edit loads the record at index i into the buffer and enters edit mode.
func (f Form) Edit(i int) (Form, error) {
	st, r, err := f.State.BeginEdit(i)
	if err != nil {
		return f, err
	}
	return Form{State: st, Buffer: r, Errors: ErrorMap{}}, nil
}

// Delete removes the record at index i. The buffer is cleared when the
// record being edited is the one removed.
func (f Form) Delete(i int) (Form, error) {
	st, err := f.State.Remove(i)
	if err != nil {
		return f, err
	}

	next := Form{State: st, Buffer: f.Buffer, Errors: f.Errors.Clone()}
	if idx, ok := f.State.Editing(); ok && idx == i {
		next.Buffer = EmptyRecord()
		next.Errors = ErrorMap{}
	}
	return next, nil
}
