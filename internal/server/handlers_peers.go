package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"wgadmin-webui/internal/audit"
	"wgadmin-webui/internal/tokens"
	"wgadmin-webui/internal/wireguard"
)

// handlePeersPage renders the admin dashboard. A SourceUnavailable failure
// shows a visible warning with an empty table instead of an error page.
func (s *Server) handlePeersPage(w http.ResponseWriter, r *http.Request) {
	warning := r.URL.Query().Get("warning")
	notice := r.URL.Query().Get("notice")

	peers, err := s.service.ListPeers(r.Context(), true)
	if err != nil {
		log.Printf("unable to read wireguard config: %v", err)
		warning = "Unable to read the WireGuard config: " + err.Error()
		peers = nil
	}

	if err := s.tokens.DeactivateExpired(time.Now()); err != nil {
		log.Printf("token cleanup failed: %v", err)
	}
	tokenMap, err := s.tokens.ActiveByIdentifier(time.Now())
	if err != nil {
		log.Printf("loading active tokens failed: %v", err)
		tokenMap = map[string]*tokens.Token{}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := map[string]any{
		"Peers":    peers,
		"TokenMap": tokenMap,
		"Warning":  warning,
		"Notice":   notice,
	}
	if err := s.templates.ExecuteTemplate(w, "layout.html", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleListPeers(w http.ResponseWriter, r *http.Request) {
	includeRuntime := r.URL.Query().Get("runtime") != "false"
	peers, err := s.service.ListPeers(r.Context(), includeRuntime)
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"peers": peers})
}

func (s *Server) handleGetPeer(w http.ResponseWriter, r *http.Request) {
	peer, err := s.service.GetPeer(r.Context(), chi.URLParam(r, "identifier"))
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}
	if peer == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "peer not found"})
		return
	}
	writeJSON(w, http.StatusOK, peer)
}

// createPeer validates and provisions a new peer, returning a user-facing
// error message on rejection.
func (s *Server) createPeer(r *http.Request, name, allowedIPs string) (string, error) {
	existing, err := s.service.ListPeers(r.Context(), false)
	if err != nil {
		return "unable to read existing peers: " + err.Error(), err
	}
	name = strings.TrimSpace(name)
	if err := validatePeerName(name, existing); err != nil {
		return err.Error(), err
	}
	normalized, err := validateAllowedIPs(allowedIPs, existing)
	if err != nil {
		return err.Error(), err
	}

	if _, err := s.service.CreatePeer(r.Context(), name, strings.Join(normalized, ",")); err != nil {
		s.diag.Errorf("create peer %s: %v", name, err)
		return "could not create peer: " + err.Error(), err
	}
	if err := s.audit.Record(audit.ActionCreate, name, performedBy, map[string]any{
		"allowed_ips": strings.Join(normalized, ","),
	}); err != nil {
		log.Printf("audit record failed: %v", err)
	}
	return "", nil
}

func (s *Server) handleCreatePeer(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name       string `json:"name"`
		AllowedIPs string `json:"allowedIps"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	if message, err := s.createPeer(r, payload.Name, payload.AllowedIPs); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, wireguard.ErrSourceUnavailable) {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, map[string]string{"error": message})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

func (s *Server) handleCreatePeerForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if message, err := s.createPeer(r, r.FormValue("name"), r.FormValue("allowed_ips")); err != nil {
		redirectWithFlash(w, r, "warning", message)
		return
	}
	redirectWithFlash(w, r, "notice", "Peer "+strings.TrimSpace(r.FormValue("name"))+" created.")
}

// togglePeer enables or disables a peer and records the action.
func (s *Server) togglePeer(r *http.Request, identifier string, enable bool) error {
	if _, err := s.service.SetPeerEnabled(r.Context(), identifier, enable); err != nil {
		s.diag.Errorf("toggle peer %s: %v", identifier, err)
		return err
	}
	action := audit.ActionDisable
	if enable {
		action = audit.ActionEnable
	}
	if err := s.audit.Record(action, identifier, performedBy, nil); err != nil {
		log.Printf("audit record failed: %v", err)
	}
	return nil
}

func (s *Server) handleTogglePeer(enable bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identifier := chi.URLParam(r, "identifier")
		if err := s.togglePeer(r, identifier, enable); err != nil {
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func (s *Server) handleTogglePeerForm(enable bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identifier := chi.URLParam(r, "identifier")
		if err := s.togglePeer(r, identifier, enable); err != nil {
			redirectWithFlash(w, r, "warning", "Unable to update peer: "+err.Error())
			return
		}
		state := "disabled"
		if enable {
			state = "enabled"
		}
		redirectWithFlash(w, r, "notice", identifier+" "+state+".")
	}
}

func (s *Server) deletePeer(r *http.Request, identifier string) error {
	if _, err := s.service.DeletePeer(r.Context(), identifier); err != nil {
		s.diag.Errorf("delete peer %s: %v", identifier, err)
		return err
	}
	if err := s.audit.Record(audit.ActionDelete, identifier, performedBy, nil); err != nil {
		log.Printf("audit record failed: %v", err)
	}
	return nil
}

func (s *Server) handleDeletePeer(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")
	if err := s.deletePeer(r, identifier); err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleDeletePeerForm(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")
	if err := s.deletePeer(r, identifier); err != nil {
		redirectWithFlash(w, r, "warning", "Unable to delete peer: "+err.Error())
		return
	}
	redirectWithFlash(w, r, "notice", identifier+" deleted.")
}

// activatePeer mints a public download token for the peer and returns the
// absolute link.
func (s *Server) activatePeer(r *http.Request, identifier string) (string, error) {
	peer, err := s.service.GetPeer(r.Context(), identifier)
	if err != nil {
		return "", err
	}
	if peer == nil {
		return "", errPeerNotFound
	}

	ttl := tokens.DefaultTTL
	if stored, err := s.settings.Get(); err == nil && stored.TokenTTLMinutes > 0 {
		ttl = time.Duration(stored.TokenTTLMinutes) * time.Minute
	}
	token, err := s.tokens.Create(peer.Identifier, peer.Name, ttl)
	if err != nil {
		return "", err
	}
	// Refresh the peer's on-disk QR artifact for the share page. The page
	// renders its own QR from the config text, so a failure here only logs.
	if _, err := s.service.GenerateQR(r.Context(), peer.Identifier); err != nil {
		s.diag.Debugf("qr artifact refresh for %s: %v", peer.Identifier, err)
	}
	if err := s.audit.Record(audit.ActionActivate, peer.Identifier, performedBy, nil); err != nil {
		log.Printf("audit record failed: %v", err)
	}
	return s.absoluteURL(r, "/config/"+token.Token), nil
}

var errPeerNotFound = errors.New("peer not found")

func (s *Server) handleActivatePeer(w http.ResponseWriter, r *http.Request) {
	link, err := s.activatePeer(r, chi.URLParam(r, "identifier"))
	if err != nil {
		status := http.StatusBadGateway
		switch {
		case errors.Is(err, errPeerNotFound):
			status = http.StatusNotFound
		case errors.Is(err, wireguard.ErrSourceUnavailable):
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": link})
}

func (s *Server) handleActivatePeerForm(w http.ResponseWriter, r *http.Request) {
	link, err := s.activatePeer(r, chi.URLParam(r, "identifier"))
	if err != nil {
		redirectWithFlash(w, r, "warning", "Unable to create download link: "+err.Error())
		return
	}
	redirectWithFlash(w, r, "notice", "Download link: "+link)
}

func (s *Server) handleAuditLog(w http.ResponseWriter, r *http.Request) {
	entries, err := s.audit.Recent(100)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}
