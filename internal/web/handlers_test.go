package web

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/regform/internal/config"
	"github.com/JonMunkholm/regform/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Port: 8080, RequestTimeout: 5 * time.Second},
		Session:  config.SessionConfig{CookieName: "regform_session"},
		Security: config.SecurityConfig{EnableCSP: true},
	}
}

func newTestServer(t *testing.T, mutate ...func(*config.Config)) *Server {
	t.Helper()
	cfg := testConfig()
	for _, m := range mutate {
		m(cfg)
	}
	srv := NewServer(core.NewService(core.SessionConfig{}), cfg)
	t.Cleanup(srv.Close)
	return srv
}

// client carries the session cookie between requests like a browser.
type client struct {
	t       *testing.T
	h       http.Handler
	cookies []*http.Cookie
}

func newClient(t *testing.T, srv *Server) *client {
	return &client{t: t, h: srv.Router()}
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	c.t.Helper()
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)
	if cs := rec.Result().Cookies(); len(cs) > 0 {
		c.cookies = cs
	}
	return rec
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *client) postForm(path string, vals url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(vals.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *client) sendJSON(method, path string, v any) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if v != nil {
		require.NoError(c.t, json.NewEncoder(&body).Encode(v))
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func formValues(r core.Record) url.Values {
	return url.Values{
		core.FieldName:         {r.Name},
		core.FieldAddress:      {r.Address},
		core.FieldCountryCode:  {r.CountryCode},
		core.FieldMobileNumber: {r.MobileNumber},
		core.FieldAge:          {r.Age},
	}
}

func john() core.Record {
	return core.Record{Name: "John Doe", Address: "123 Main Street", CountryCode: "US", MobileNumber: "1234567890", Age: "25"}
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestIndex_IssuesSessionCookie(t *testing.T) {
	c := newClient(t, newTestServer(t))

	rec := c.get("/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<button type="submit">Submit</button>`)
	require.Len(t, c.cookies, 1)
	ck := c.cookies[0]
	assert.Equal(t, "regform_session", ck.Name)
	assert.True(t, ck.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, ck.SameSite)

	// A live cookie is reused, not replaced.
	rec = c.get("/")
	assert.Empty(t, rec.Result().Cookies())
}

func TestIndex_UnknownCookieGetsFreshSession(t *testing.T) {
	c := newClient(t, newTestServer(t))
	c.cookies = []*http.Cookie{{Name: "regform_session", Value: "not-a-uuid"}}

	rec := c.get("/")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, rec.Result().Cookies(), 1)
	assert.NotEqual(t, "not-a-uuid", rec.Result().Cookies()[0].Value)
}

func TestSubmit_ValidRedirectsAndLists(t *testing.T) {
	c := newClient(t, newTestServer(t))
	c.get("/")

	rec := c.postForm("/submit", formValues(john()))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	body := c.get("/").Body.String()
	assert.Contains(t, body, `id="record-0"`)
	assert.Contains(t, body, "Name: John Doe")
	assert.Contains(t, body, `value=""`)
}

func TestSubmit_InvalidRendersErrors(t *testing.T) {
	c := newClient(t, newTestServer(t))
	c.get("/")

	bad := john()
	bad.Name = ""
	bad.Age = "17"
	rec := c.postForm("/submit", formValues(bad))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Name is required")
	assert.Contains(t, body, "Age must be a number and at least 18")
	assert.Contains(t, body, `value="123 Main Street"`)
	assert.NotContains(t, body, `id="record-0"`)
}

func TestEditFlow(t *testing.T) {
	c := newClient(t, newTestServer(t))
	c.get("/")
	c.postForm("/submit", formValues(john()))

	rec := c.postForm("/records/0/edit", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	body := c.get("/").Body.String()
	assert.Contains(t, body, `<button type="submit">Update</button>`)
	assert.Contains(t, body, `value="John Doe"`)
	assert.Contains(t, body, `class="data-item editing"`)

	jane := john()
	jane.Name = "Jane Doe"
	rec = c.postForm("/submit", formValues(jane))
	require.Equal(t, http.StatusSeeOther, rec.Code)

	body = c.get("/").Body.String()
	assert.Contains(t, body, "Name: Jane Doe")
	assert.NotContains(t, body, "Name: John Doe")
	assert.NotContains(t, body, `id="record-1"`)
	assert.Contains(t, body, `<button type="submit">Submit</button>`)
}

func TestDelete(t *testing.T) {
	c := newClient(t, newTestServer(t))
	c.get("/")
	c.postForm("/submit", formValues(john()))

	rec := c.postForm("/records/0/delete", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.NotContains(t, c.get("/").Body.String(), `id="record-0"`)
}

func TestRecordRoutes_BadIndex(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"edit out of range", "/records/3/edit"},
		{"delete out of range", "/records/0/delete"},
		{"non numeric", "/records/abc/edit"},
		{"negative", "/records/-1/delete"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClient(t, newTestServer(t))
			rec := c.postForm(tt.path, nil)

			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Contains(t, rec.Body.String(), "IDX001")
		})
	}
}

func TestRecordRoutes_HTMXErrorFragment(t *testing.T) {
	c := newClient(t, newTestServer(t))
	req := httptest.NewRequest(http.MethodPost, "/records/9/edit", nil)
	req.Header.Set("HX-Request", "true")

	rec := c.do(req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `role="alert"`)
	assert.Contains(t, rec.Body.String(), "<code>IDX001</code>")
}

func TestSessionsAreIsolated(t *testing.T) {
	srv := newTestServer(t)
	a := newClient(t, srv)
	b := newClient(t, srv)
	a.get("/")
	b.get("/")

	a.postForm("/submit", formValues(john()))

	assert.Contains(t, a.get("/").Body.String(), `id="record-0"`)
	assert.NotContains(t, b.get("/").Body.String(), `id="record-0"`)
}

func TestExportCSV(t *testing.T) {
	c := newClient(t, newTestServer(t))
	c.get("/")
	c.postForm("/submit", formValues(john()))

	rec := c.get("/export.csv")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "registrations.csv")

	rows, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, core.ExportHeader, rows[0])
	assert.Equal(t, []string{"John Doe", "123 Main Street", "US", "1234567890", "25"}, rows[1])
}

func TestHealthAndHeaders(t *testing.T) {
	c := newClient(t, newTestServer(t))

	rec := c.get("/healthz")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "default-src 'self'")
	assert.Empty(t, rec.Result().Cookies())
}

func TestCSPDisabled(t *testing.T) {
	c := newClient(t, newTestServer(t, func(cfg *config.Config) { cfg.Security.EnableCSP = false }))
	assert.Empty(t, c.get("/healthz").Header().Get("Content-Security-Policy"))
}

func TestStaticStylesheet(t *testing.T) {
	c := newClient(t, newTestServer(t))
	rec := c.get("/static/style.css")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ".data-item")
}

func TestAPI_RecordLifecycle(t *testing.T) {
	c := newClient(t, newTestServer(t))

	rec := c.sendJSON(http.MethodPost, "/api/records", john())
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[submitResponse](t, rec)
	assert.Equal(t, core.OutcomeAppended, created.Outcome)
	assert.Len(t, created.Form.Records, 1)

	rec = c.get("/api/records")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[recordsResponse](t, rec)
	assert.Equal(t, core.ModeIdle, list.Mode)
	assert.Nil(t, list.EditingIndex)
	assert.Equal(t, []core.Record{john()}, list.Records)

	rec = c.sendJSON(http.MethodPost, "/api/records/0/edit", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	edit := decode[editResponse](t, rec)
	assert.Equal(t, 0, edit.Index)
	assert.Equal(t, john(), edit.Record)

	list = decode[recordsResponse](t, c.get("/api/records"))
	assert.Equal(t, core.ModeEditing, list.Mode)
	require.NotNil(t, list.EditingIndex)
	assert.Equal(t, 0, *list.EditingIndex)

	jane := john()
	jane.Name = "Jane"
	rec = c.sendJSON(http.MethodPost, "/api/records", jane)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[submitResponse](t, rec)
	assert.Equal(t, core.OutcomeUpdated, updated.Outcome)
	assert.Equal(t, core.ModeIdle, updated.Form.Mode)
	assert.Equal(t, []core.Record{jane}, updated.Form.Records)

	rec = c.sendJSON(http.MethodDelete, "/api/records/0", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = c.sendJSON(http.MethodDelete, "/api/records/0", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "IDX001", decode[ErrorResponse](t, rec).Code)
}

func TestAPI_SubmitInvalid(t *testing.T) {
	c := newClient(t, newTestServer(t))
	bad := john()
	bad.MobileNumber = "12345"
	bad.CountryCode = ""

	rec := c.sendJSON(http.MethodPost, "/api/records", bad)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decode[submitResponse](t, rec)
	assert.Equal(t, core.OutcomeRejected, resp.Outcome)
	assert.Equal(t, "Mobile number must be at least 10 digits long and contain only numbers", resp.Errors[core.FieldMobileNumber])
	assert.Equal(t, "Country code is required", resp.Errors[core.FieldCountryCode])
	assert.Empty(t, resp.Form.Records)
}

func TestAPI_MalformedBody(t *testing.T) {
	c := newClient(t, newTestServer(t))
	req := httptest.NewRequest(http.MethodPost, "/api/records", strings.NewReader(`{"name":`))
	req.Header.Set("Content-Type", "application/json")

	rec := c.do(req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "REQ001", decode[ErrorResponse](t, rec).Code)
}

func TestAPI_Validate(t *testing.T) {
	c := newClient(t, newTestServer(t))

	rec := c.sendJSON(http.MethodPost, "/api/validate", john())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"valid":true,"errors":{}}`, rec.Body.String())

	bad := john()
	bad.Name = "John3"
	rec = c.sendJSON(http.MethodPost, "/api/validate", bad)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[validateResponse](t, rec)
	assert.False(t, resp.Valid)
	assert.Equal(t, "Name must contain only letters", resp.Errors[core.FieldName])

	// Validation never touches the stored list.
	assert.Empty(t, decode[recordsResponse](t, c.get("/api/records")).Records)
}

func TestAPI_NumericAge(t *testing.T) {
	c := newClient(t, newTestServer(t))
	body := map[string]any{
		"name":         "John Doe",
		"address":      "123 Main Street",
		"countryCode":  "US",
		"mobileNumber": "1234567890",
		"age":          25,
	}

	rec := c.sendJSON(http.MethodPost, "/api/validate", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"valid":true,"errors":{}}`, rec.Body.String())

	body["age"] = 17
	rec = c.sendJSON(http.MethodPost, "/api/validate", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Age must be a number and at least 18", decode[validateResponse](t, rec).Errors[core.FieldAge])

	body["age"] = 25
	rec = c.sendJSON(http.MethodPost, "/api/records", body)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[submitResponse](t, rec)
	require.Len(t, created.Form.Records, 1)
	assert.Equal(t, "25", created.Form.Records[0].Age)

	body["age"] = true
	rec = c.sendJSON(http.MethodPost, "/api/records", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "REQ001", decode[ErrorResponse](t, rec).Code)
}

func TestAPI_UnknownFieldRejected(t *testing.T) {
	c := newClient(t, newTestServer(t))
	req := httptest.NewRequest(http.MethodPost, "/api/validate", strings.NewReader(`{"name":"John","email":"j@example.com"}`))
	req.Header.Set("Content-Type", "application/json")

	rec := c.do(req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "REQ001", decode[ErrorResponse](t, rec).Code)
}

func TestAPI_Countries(t *testing.T) {
	c := newClient(t, newTestServer(t))

	rec := c.get("/api/countries")

	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]countryResponse](t, rec)
	require.Len(t, list, 4)
	assert.Equal(t, countryResponse{Code: "US", Dial: "+1", Name: "United States", Label: "United States (+1)"}, list[0])
}

func TestAPI_RequiresKeyWhenConfigured(t *testing.T) {
	srv := newTestServer(t, func(cfg *config.Config) {
		cfg.Security.RequireAPIKey = true
		cfg.Security.APIKeys = []string{"secret"}
	})
	c := newClient(t, srv)

	assert.Equal(t, http.StatusUnauthorized, c.get("/api/countries").Code)

	req := httptest.NewRequest(http.MethodGet, "/api/countries", nil)
	req.Header.Set("X-API-Key", "secret")
	assert.Equal(t, http.StatusOK, c.do(req).Code)

	// Pages stay open.
	assert.Equal(t, http.StatusOK, c.get("/").Code)
}

func TestRateLimit(t *testing.T) {
	srv := newTestServer(t, func(cfg *config.Config) {
		cfg.Rate.Enabled = true
		cfg.Rate.RequestsPerMinute = 2
	})
	c := newClient(t, srv)

	assert.Equal(t, http.StatusOK, c.get("/healthz").Code)
	assert.Equal(t, http.StatusOK, c.get("/healthz").Code)

	rec := c.get("/healthz")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "RATE001")
}

func TestRateLimiter_WindowAndEviction(t *testing.T) {
	rl := &rateLimiter{
		visitors: make(map[string]*visitor),
		rate:     1,
		window:   time.Minute,
		done:     make(chan struct{}),
	}
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.allow("1.1.1.1"))
	assert.False(t, rl.allow("1.1.1.1"))
	assert.True(t, rl.allow("2.2.2.2"))

	now = now.Add(61 * time.Second)
	assert.True(t, rl.allow("1.1.1.1"))

	now = now.Add(3 * time.Minute)
	assert.Equal(t, 2, rl.evictStale())
	assert.Empty(t, rl.visitors)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{core.ErrIndexOutOfRange, http.StatusNotFound},
		{core.ErrSessionNotFound, http.StatusNotFound},
		{&core.InvalidRecordError{Errors: core.ErrorMap{"name": "x"}}, http.StatusUnprocessableEntity},
		{errMalformedRequest, http.StatusBadRequest},
		{errRateLimited, http.StatusTooManyRequests},
		{core.ErrTooManySessions, http.StatusServiceUnavailable},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}
