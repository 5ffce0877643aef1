package web

import (
	"net/http"

	"github.com/JonMunkholm/regform/internal/core"
)

type countryResponse struct {
	Code  string `json:"code"`
	Dial  string `json:"dial"`
	Name  string `json:"name"`
	Label string `json:"label"`
}

type validateResponse struct {
	Valid  bool          `json:"valid"`
	Errors core.ErrorMap `json:"errors"`
}

// recordsResponse is the JSON view of a form's list. EditingIndex is null
// while idle.
type recordsResponse struct {
	Mode         core.Mode     `json:"mode"`
	EditingIndex *int          `json:"editingIndex"`
	Records      []core.Record `json:"records"`
}

type submitResponse struct {
	Outcome core.Outcome    `json:"outcome"`
	Errors  core.ErrorMap   `json:"errors,omitempty"`
	Form    recordsResponse `json:"form"`
}

type editResponse struct {
	Index  int         `json:"index"`
	Record core.Record `json:"record"`
}

func toRecordsResponse(st core.State) recordsResponse {
	resp := recordsResponse{Mode: st.Mode(), Records: st.Records()}
	if resp.Records == nil {
		resp.Records = []core.Record{}
	}
	if i, ok := st.Editing(); ok {
		resp.EditingIndex = &i
	}
	return resp
}

// handleAPICountries lists the supported country codes.
func (s *Server) handleAPICountries(w http.ResponseWriter, r *http.Request) {
	list := core.Countries()
	out := make([]countryResponse, len(list))
	for i, c := range list {
		out[i] = countryResponse{Code: c.Code, Dial: c.Dial, Name: c.Name, Label: c.Label()}
	}
	writeJSON(w, r, http.StatusOK, out)
}

// handleAPIValidate validates a candidate without storing it.
func (s *Server) handleAPIValidate(w http.ResponseWriter, r *http.Request) {
	rec, err := recordFromJSON(w, r)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	errs := core.Validate(rec)
	if errs == nil {
		errs = core.ErrorMap{}
	}
	writeJSON(w, r, http.StatusOK, validateResponse{Valid: errs.Valid(), Errors: errs})
}

// handleAPIRecords returns the session's list and mode.
func (s *Server) handleAPIRecords(w http.ResponseWriter, r *http.Request) {
	f, err := s.service.Snapshot(r.Context(), sessionID(r))
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	writeJSON(w, r, http.StatusOK, toRecordsResponse(f.State))
}

// handleAPISubmit appends or updates a record: 201 when appended, 200 when
// an edit completed, 422 with field errors when rejected.
func (s *Server) handleAPISubmit(w http.ResponseWriter, r *http.Request) {
	rec, err := recordFromJSON(w, r)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	f, outcome, err := s.submit(r, rec)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	resp := submitResponse{Outcome: outcome, Form: toRecordsResponse(f.State)}
	status := http.StatusOK
	switch outcome {
	case core.OutcomeAppended:
		status = http.StatusCreated
	case core.OutcomeRejected:
		status = http.StatusUnprocessableEntity
		resp.Errors = f.Errors
	}
	writeJSON(w, r, status, resp)
}

// handleAPIEdit enters edit mode and returns the record to pre-populate.
func (s *Server) handleAPIEdit(w http.ResponseWriter, r *http.Request) {
	i, err := parseIndex(r)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	f, err := s.edit(r, i)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	writeJSON(w, r, http.StatusOK, editResponse{Index: i, Record: f.Buffer})
}

// handleAPIDelete removes a record.
func (s *Server) handleAPIDelete(w http.ResponseWriter, r *http.Request) {
	i, err := parseIndex(r)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	if _, err := s.remove(r, i); err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
