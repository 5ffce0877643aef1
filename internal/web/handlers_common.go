package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/regform/internal/core"
	"github.com/JonMunkholm/regform/internal/logging"
	"github.com/go-chi/chi/v5"
)

// maxBodySize bounds form and JSON bodies (64KB).
const maxBodySize = 64 << 10

var errMalformedRequest = errors.New("malformed request")

// parseIndex reads the {index} URL parameter. Anything that is not a
// non-negative integer is reported as a missing record.
func parseIndex(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "index")
	i, err := strconv.Atoi(raw)
	if err != nil || i < 0 {
		return 0, fmt.Errorf("invalid record index %q: %w", raw, core.ErrIndexOutOfRange)
	}
	return i, nil
}

// recordFromForm reads a candidate from urlencoded form values.
// Missing inputs are treated as empty.
func recordFromForm(w http.ResponseWriter, r *http.Request) (core.Record, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := r.ParseForm(); err != nil {
		return core.Record{}, fmt.Errorf("%w: %v", errMalformedRequest, err)
	}
	return core.Record{
		Name:         r.PostFormValue(core.FieldName),
		Address:      r.PostFormValue(core.FieldAddress),
		CountryCode:  r.PostFormValue(core.FieldCountryCode),
		MobileNumber: r.PostFormValue(core.FieldMobileNumber),
		Age:          r.PostFormValue(core.FieldAge),
	}, nil
}

// recordFromJSON decodes a candidate from a JSON body.
func recordFromJSON(w http.ResponseWriter, r *http.Request) (core.Record, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var rec core.Record
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&rec); err != nil {
		return core.Record{}, fmt.Errorf("%w: %v", errMalformedRequest, err)
	}
	return rec, nil
}

// submit stores a candidate in the request's session and logs the outcome.
func (s *Server) submit(r *http.Request, rec core.Record) (core.Form, core.Outcome, error) {
	f, outcome, err := s.service.Submit(r.Context(), sessionID(r), rec)
	if err != nil {
		return f, outcome, err
	}

	logger := logging.WithFields(r.Context(), "outcome", outcome, "records", f.State.Len())
	if outcome == core.OutcomeRejected {
		logger.Info("submission rejected", "fields", f.Errors.Fields())
	} else {
		logger.Info("submission stored")
	}
	return f, outcome, nil
}

func (s *Server) edit(r *http.Request, i int) (core.Form, error) {
	f, err := s.service.Edit(r.Context(), sessionID(r), i)
	if err != nil {
		return f, err
	}
	logging.WithFields(r.Context(), "index", i).Debug("edit started")
	return f, nil
}

func (s *Server) remove(r *http.Request, i int) (core.Form, error) {
	f, err := s.service.Delete(r.Context(), sessionID(r), i)
	if err != nil {
		return f, err
	}
	logging.WithFields(r.Context(), "index", i, "records", f.State.Len()).Info("record deleted")
	return f, nil
}
