package templates

import (
	"bytes"
	"context"
	"testing"

	"github.com/JonMunkholm/regform/internal/core"
	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestPage_IdleEmpty(t *testing.T) {
	html := render(t, Page(PageData{Form: core.NewForm(), Countries: core.Countries()}))

	assert.Contains(t, html, `<button type="submit">Submit</button>`)
	assert.Contains(t, html, `<option value="US">United States (+1)</option>`)
	assert.Contains(t, html, `<div class="submitted-data"></div>`)
	assert.NotContains(t, html, `class="error"`)
}

func TestFormView_ShowsErrorsAndEscapes(t *testing.T) {
	f, _ := core.NewForm().Submit(core.Record{Name: `<script>alert(1)</script>`, CountryCode: "IN"})

	html := render(t, FormView(PageData{Form: f, Countries: core.Countries()}))

	assert.Contains(t, html, "Name must contain only letters")
	assert.Contains(t, html, "Address is required")
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, `<option value="IN" selected>`)
}

func TestRecordList_EditingMarksRowAndLabel(t *testing.T) {
	f, _ := core.NewForm().Submit(core.Record{
		Name: "John", Address: "1234567890", CountryCode: "US", MobileNumber: "1234567890", Age: "25",
	})
	f, err := f.Edit(0)
	require.NoError(t, err)

	html := render(t, Page(PageData{Form: f, Countries: core.Countries()}))

	assert.Contains(t, html, `class="data-item editing" id="record-0"`)
	assert.Contains(t, html, `action="/records/0/edit"`)
	assert.Contains(t, html, `action="/records/0/delete"`)
	assert.Contains(t, html, `<button type="submit">Update</button>`)
	assert.Contains(t, html, `value="John"`)
}

func TestErrorAlert(t *testing.T) {
	html := render(t, ErrorAlert("Record not found", "Reload the page", "IDX001"))
	assert.Contains(t, html, "<strong>Record not found</strong>")
	assert.Contains(t, html, "<code>IDX001</code>")
}

func TestErrorAlert_OmitsEmptyParts(t *testing.T) {
	html := render(t, ErrorAlert("Something went wrong", "", ""))
	assert.Contains(t, html, "<strong>Something went wrong</strong>")
	assert.NotContains(t, html, "<span>")
	assert.NotContains(t, html, "<code>")
}

func TestFormView_PrefillsEveryField(t *testing.T) {
	f := core.NewForm()
	f.Buffer = core.Record{
		Name: "Jane", Address: "42 Long Road", CountryCode: "GB", MobileNumber: "0712345678", Age: "31",
	}

	html := render(t, FormView(PageData{Form: f, Countries: core.Countries()}))

	for _, field := range core.Fields() {
		if field == core.FieldCountryCode {
			continue
		}
		assert.Contains(t, html, `name="`+field+`" value="`+f.Buffer.Value(field)+`"`, field)
	}
	assert.Contains(t, html, `<option value="GB" selected>`)
}
