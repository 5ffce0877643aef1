package web

import (
	"bytes"
	"net/http"

	"github.com/JonMunkholm/regform/internal/core"
	"github.com/JonMunkholm/regform/internal/logging"
	"github.com/JonMunkholm/regform/internal/web/templates"
)

// handleIndex renders the form and the record list.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	f, err := s.service.Snapshot(r.Context(), sessionID(r))
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	s.renderPage(w, r, f, http.StatusOK)
}

// handleSubmit stores the posted candidate. A rejected candidate re-renders
// the page with inline errors; anything else redirects back to the page.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	rec, err := recordFromForm(w, r)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	f, outcome, err := s.submit(r, rec)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	if outcome == core.OutcomeRejected {
		s.renderPage(w, r, f, http.StatusUnprocessableEntity)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleEdit loads a record into the form.
func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	i, err := parseIndex(r)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	if _, err := s.edit(r, i); err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleDelete removes a record from the list.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	i, err := parseIndex(r)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	if _, err := s.remove(r, i); err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleExport downloads the session's records as CSV.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	f, err := s.service.Snapshot(r.Context(), sessionID(r))
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	var buf bytes.Buffer
	if err := core.WriteCSV(&buf, f.State.Records()); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="registrations.csv"`)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, f core.Form, status int) {
	data := templates.PageData{Form: f, Countries: core.Countries()}

	var buf bytes.Buffer
	if err := templates.Page(data).Render(r.Context(), &buf); err != nil {
		logging.FromContext(r.Context()).Error("render page", "error", err)
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
