package server

import (
	"encoding/json"
	"net/http"
	"net/url"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

// redirectWithFlash sends the browser back to the peers page with a one-shot
// message carried in the query string.
func redirectWithFlash(w http.ResponseWriter, r *http.Request, kind, message string) {
	target := "/"
	if message != "" {
		target = "/?" + url.Values{kind: {message}}.Encode()
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// absoluteURL builds an externally reachable URL for path. A configured base
// URL wins; otherwise the request's scheme and host are used.
func (s *Server) absoluteURL(r *http.Request, path string) string {
	if s.baseURL != "" {
		return strTrimRightSlash(s.baseURL) + path
	}
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host + path
}

func strTrimRightSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}
