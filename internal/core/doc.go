// Package core provides the business logic for the registration form.
//
// This package contains all domain logic independent of any UI or transport
// layer. It can be used by web handlers, the CLI, or tests without
// modification.
//
// # Architecture
//
// The package is organized around a few small pieces:
//
//   - Record: the five raw field values a user enters.
//   - Validate: a pure function from a Record to an [ErrorMap].
//   - State: the ordered record list plus the optional edit pointer.
//   - Form: State together with the input buffer and displayed errors.
//   - Service: one Form per browser session, with an idle sweeper.
//
// # Submission
//
// [Form.Submit] validates the candidate first. A rejected candidate changes
// nothing except the displayed errors; an edit in progress stays in
// progress. A valid candidate is appended when idle, or replaces the record
// being edited, after which the form returns to idle and the buffer is
// cleared:
//
//	f := core.NewForm()
//	f, outcome := f.Submit(core.Record{
//	    Name: "John", Address: "1234567890", CountryCode: "US",
//	    MobileNumber: "1234567890", Age: "25",
//	})
//	// outcome == core.OutcomeAppended, f.State.Len() == 1
//
// # Edit Mode
//
// State has two modes. [State.BeginEdit] moves Idle to Editing and
// [State.CompleteEdit] moves back. There is no cancel action; an edit ends
// with a successful submission or when its record is deleted.
//
// # Error Handling
//
// Field problems are data, returned as an ErrorMap. Everything else uses the
// sentinel errors in errors.go and is mapped to user messages with
// [MapError].
package core
