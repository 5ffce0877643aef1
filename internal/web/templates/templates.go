// Package templates renders the registration page.
//
// Components live in the .templ files; run `templ generate` after editing
// them.
package templates

import (
	"fmt"

	"github.com/JonMunkholm/regform/internal/core"
	"github.com/a-h/templ"
)

// PageData is everything the registration page shows.
type PageData struct {
	Form      core.Form
	Countries []core.Country
}

func isEditing(st core.State, i int) bool {
	editing, ok := st.Editing()
	return ok && editing == i
}

func recordID(i int) string {
	return fmt.Sprintf("record-%d", i)
}

func recordAction(i int, op string) templ.SafeURL {
	return templ.URL(fmt.Sprintf("/records/%d/%s", i, op))
}
