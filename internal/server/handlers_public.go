package server

import (
	"html/template"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"

	"wgadmin-webui/internal/qr"
	"wgadmin-webui/internal/tokens"
)

// resolveDownloadToken looks up an active token and enforces expiry,
// deactivating tokens that have lapsed. Returns nil when the link is invalid
// in any way; the caller renders a uniform not-found response so the endpoint
// does not leak which tokens exist.
func (s *Server) resolveDownloadToken(value string) *tokens.Token {
	token, err := s.tokens.GetActive(value)
	if err != nil {
		log.Printf("token lookup failed: %v", err)
		return nil
	}
	if token == nil {
		return nil
	}
	if token.Expired(time.Now()) {
		if err := s.tokens.Deactivate(token.ID); err != nil {
			log.Printf("token deactivation failed: %v", err)
		}
		return nil
	}
	return token
}

func (s *Server) renderExpired(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	if err := s.templates.ExecuteTemplate(w, "expired.html", nil); err != nil {
		log.Printf("render expired page: %v", err)
	}
}

func (s *Server) handlePublicConfig(w http.ResponseWriter, r *http.Request) {
	token := s.resolveDownloadToken(chi.URLParam(r, "token"))
	if token == nil {
		s.renderExpired(w)
		return
	}

	peer, err := s.service.GetPeer(r.Context(), token.ClientIdentifier)
	if err != nil || peer == nil {
		s.renderExpired(w)
		return
	}
	configText, err := s.service.ConfigForPeer(peer)
	if err != nil {
		s.renderExpired(w)
		return
	}

	dataURL, err := qr.DataURL(configText)
	if err != nil {
		log.Printf("qr rendering failed for %s: %v", peer.Identifier, err)
		dataURL = ""
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	// template.URL keeps html/template from rewriting the data: scheme to
	// #ZgotmplZ; the empty fallback stays a plain string so {{if}} suppresses
	// the <img> tag entirely.
	var qrURL any = ""
	if dataURL != "" {
		qrURL = template.URL(dataURL)
	}
	data := map[string]any{
		"Peer":       peer,
		"Token":      token,
		"ConfigText": configText,
		"QRDataURL":  qrURL,
	}
	if err := s.templates.ExecuteTemplate(w, "config.html", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handlePublicConfigDownload(w http.ResponseWriter, r *http.Request) {
	token := s.resolveDownloadToken(chi.URLParam(r, "token"))
	if token == nil {
		http.NotFound(w, r)
		return
	}

	peer, err := s.service.GetPeer(r.Context(), token.ClientIdentifier)
	if err != nil || peer == nil {
		http.NotFound(w, r)
		return
	}
	path := s.service.ConfigPathForPeer(peer)
	if _, err := os.Stat(path); err != nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="`+peer.Identifier+`.conf"`)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	http.ServeFile(w, r, path)
}
