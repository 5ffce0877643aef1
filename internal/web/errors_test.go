package web

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JonMunkholm/regform/internal/core"
	"github.com/JonMunkholm/regform/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureLogs routes the default logger into a buffer for the test and
// returns a func that decodes every entry written so far.
func captureLogs(t *testing.T) func() []map[string]any {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(logging.New(&buf, "debug", "json"))
	t.Cleanup(func() { slog.SetDefault(prev) })

	return func() []map[string]any {
		var entries []map[string]any
		sc := bufio.NewScanner(bytes.NewReader(buf.Bytes()))
		for sc.Scan() {
			var e map[string]any
			require.NoError(t, json.Unmarshal(sc.Bytes(), &e))
			entries = append(entries, e)
		}
		return entries
	}
}

func findEntry(entries []map[string]any, msg string) map[string]any {
	for _, e := range entries {
		if e["msg"] == msg {
			return e
		}
	}
	return nil
}

func TestRespondError_UnmappedErrorLoggedAsError(t *testing.T) {
	logs := captureLogs(t)
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/records", nil)
	rec := httptest.NewRecorder()

	srv.respondError(rec, req, errors.New("boom"), http.StatusBadRequest)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "ERR000", decode[ErrorResponse](t, rec).Code)

	entry := findEntry(logs(), "request error")
	require.NotNil(t, entry)
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, false, entry["user_facing"])
}

func TestRespondError_MappedClientErrorLoggedAsWarn(t *testing.T) {
	logs := captureLogs(t)
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/records", nil)
	rec := httptest.NewRecorder()

	srv.respondError(rec, req, fmt.Errorf("delete: %w", core.ErrIndexOutOfRange), 0)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "IDX001", decode[ErrorResponse](t, rec).Code)

	entry := findEntry(logs(), "request error")
	require.NotNil(t, entry)
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, true, entry["user_facing"])
}

func TestMutations_LogRequestAndSession(t *testing.T) {
	logs := captureLogs(t)
	c := newClient(t, newTestServer(t))

	require.Equal(t, http.StatusSeeOther, c.postForm("/submit", formValues(john())).Code)
	require.Equal(t, http.StatusSeeOther, c.postForm("/records/0/delete", nil).Code)

	entries := logs()
	for _, msg := range []string{"submission stored", "record deleted"} {
		entry := findEntry(entries, msg)
		require.NotNil(t, entry, msg)
		assert.NotEmpty(t, entry["request_id"], msg)
		assert.NotEmpty(t, entry["session_id"], msg)
	}
	assert.Equal(t, string(core.OutcomeAppended), findEntry(entries, "submission stored")["outcome"])
}
