package server

import (
	"encoding/json"
	"log"
	"net/http"

	"wgadmin-webui/internal/settings"
	"wgadmin-webui/internal/version"
)

// sanitizeSettings strips stored credentials before a settings payload leaves
// the API.
func sanitizeSettings(s settings.Settings) settings.Settings {
	s.AuthPasswordHash = ""
	s.AuthToken = ""
	return s
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	current, err := s.settings.Get()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"settings": sanitizeSettings(current)})
}

func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var payload settings.Settings
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	current, err := s.settings.Get()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	// Credentials are managed through the auth endpoints, never through here.
	payload.AuthPasswordHash = current.AuthPasswordHash
	payload.AuthToken = current.AuthToken
	if payload.TokenTTLMinutes < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "tokenTTLMinutes must not be negative"})
		return
	}

	if err := s.settings.Save(payload); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if err := s.diag.Configure(payload.DiagLogEnabled, payload.DiagLogLevel); err != nil {
		log.Printf("diagnostics logger reconfigure failed: %v", err)
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, version.Current())
}
