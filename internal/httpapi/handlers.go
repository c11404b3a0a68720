package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"unicode"

	"phonestore/internal/inventory"
)

const (
	msgReadFailed   = "failed to read phones"
	msgCreateFailed = "failed to create phone"
	msgUpdateFailed = "failed to update phone"
	msgDeleteFailed = "failed to delete phone"
	msgNotFound     = "phone not found"
	msgInvalidJSON  = "invalid JSON"
	msgDeleted      = "phone deleted"
)

// ErrorBody is the JSON shape of every failed response.
type ErrorBody struct {
	Error string `json:"error"`
}

// MessageBody is the JSON shape of a successful delete.
type MessageBody struct {
	Message string `json:"message"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	phones, err := s.svc.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, msgReadFailed)
		return
	}
	writeJSON(w, http.StatusOK, phones)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var p inventory.Phone
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		s.logger.Debug("rejecting create body", "error", err)
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	created, err := s.svc.Create(r.Context(), p)
	if err != nil {
		writeError(w, http.StatusInternalServerError, msgCreateFailed)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, msgNotFound)
		return
	}

	var patch inventory.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.logger.Debug("rejecting update body", "id", id, "error", err)
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	updated, err := s.svc.Update(r.Context(), id, patch)
	if err != nil {
		if errors.Is(err, inventory.ErrNotFound) {
			writeError(w, http.StatusNotFound, msgNotFound)
			return
		}
		writeError(w, http.StatusInternalServerError, msgUpdateFailed)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, msgNotFound)
		return
	}

	if err := s.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, inventory.ErrNotFound) {
			writeError(w, http.StatusNotFound, msgNotFound)
			return
		}
		writeError(w, http.StatusInternalServerError, msgDeleteFailed)
		return
	}
	writeJSON(w, http.StatusOK, MessageBody{Message: msgDeleted})
}

// pathID reads the {id} path segment the way clients of the JavaScript API
// had it read: leading whitespace and an optional sign, then the longest run
// of digits (hex after "0x"). Trailing junk is ignored, so "2abc" is phone 2.
// A segment with no leading digits names no phone.
func pathID(r *http.Request) (int64, bool) {
	return leadingInt(r.PathValue("id"))
}

func leadingInt(s string) (int64, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	sign := ""
	if s != "" && (s[0] == '+' || s[0] == '-') {
		if s[0] == '-' {
			sign = "-"
		}
		s = s[1:]
	}

	base, isDigit := 10, func(c byte) bool { return '0' <= c && c <= '9' }
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base, s = 16, s[2:]
		isDigit = func(c byte) bool {
			return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
		}
	}

	end := 0
	for end < len(s) && isDigit(s[end]) {
		end++
	}
	if end == 0 {
		return 0, false
	}

	id, err := strconv.ParseInt(sign+s[:end], base, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorBody{Error: msg})
}
