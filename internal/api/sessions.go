package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/openprobe/thermodec/internal/annotation"
	"github.com/openprobe/thermodec/internal/archive"
)

// handleListSessions returns all archived decode sessions, newest first.
func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.repo.ListSessions(r.Context())
	if err != nil {
		s.logger.Error("failed to list sessions", "error", err)
		writeInternalError(w, "failed to list sessions")
		return
	}
	if sessions == nil {
		sessions = []archive.Session{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

// handleGetSession returns a single decode session by ID.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	session, err := s.repo.GetSession(r.Context(), id)
	if err != nil {
		if errors.Is(err, archive.ErrSessionNotFound) {
			writeNotFound(w, "session not found")
			return
		}
		s.logger.Error("failed to get session", "session_id", id, "error", err)
		writeInternalError(w, "failed to get session")
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// handleListAnnotations returns a session's annotations in bus order.
// An optional ?row= query parameter filters to one annotation row
// (bits, registers, info, warnings); ?limit= and ?offset= page the result.
func (s *Server) handleListAnnotations(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	row := r.URL.Query().Get("row")
	if row != "" {
		if _, ok := annotation.ParseRow(row); !ok {
			writeBadRequest(w, "unknown annotation row: "+row)
			return
		}
	}

	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeBadRequest(w, "invalid limit")
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		writeBadRequest(w, "invalid offset")
		return
	}

	if _, err := s.repo.GetSession(r.Context(), id); err != nil {
		if errors.Is(err, archive.ErrSessionNotFound) {
			writeNotFound(w, "session not found")
			return
		}
		s.logger.Error("failed to get session", "session_id", id, "error", err)
		writeInternalError(w, "failed to get session")
		return
	}

	annotations, err := s.repo.ListAnnotations(r.Context(), id, row, limit, offset)
	if err != nil {
		s.logger.Error("failed to list annotations", "session_id", id, "error", err)
		writeInternalError(w, "failed to list annotations")
		return
	}
	if annotations == nil {
		annotations = []archive.Annotation{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"annotations": annotations,
		"count":       len(annotations),
	})
}

// queryInt parses an optional non-negative integer query parameter,
// returning def when the parameter is absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return v, nil
}

// handleListMeasurements returns a session's temperature measurements in bus order.
func (s *Server) handleListMeasurements(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, err := s.repo.GetSession(r.Context(), id); err != nil {
		if errors.Is(err, archive.ErrSessionNotFound) {
			writeNotFound(w, "session not found")
			return
		}
		s.logger.Error("failed to get session", "session_id", id, "error", err)
		writeInternalError(w, "failed to get session")
		return
	}

	measurements, err := s.repo.ListMeasurements(r.Context(), id)
	if err != nil {
		s.logger.Error("failed to list measurements", "session_id", id, "error", err)
		writeInternalError(w, "failed to list measurements")
		return
	}
	if measurements == nil {
		measurements = []archive.Measurement{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"measurements": measurements,
		"count":        len(measurements),
	})
}
