// Package server wires the HTTP surface: the admin peer pages, the JSON API,
// and the public token-gated config download endpoints.
package server

import (
	"database/sql"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"wgadmin-webui/internal/audit"
	"wgadmin-webui/internal/auth"
	"wgadmin-webui/internal/database"
	"wgadmin-webui/internal/diaglog"
	"wgadmin-webui/internal/settings"
	"wgadmin-webui/internal/tokens"
	"wgadmin-webui/internal/wireguard"
	"wgadmin-webui/ui"
)

// performedBy is recorded in the audit log. The interface is single-admin;
// there is no richer identity to attach.
const performedBy = "admin"

// Server handles HTTP requests and periodic maintenance.
type Server struct {
	service   *wireguard.Service
	tokens    *tokens.Store
	audit     *audit.Store
	auth      *auth.Manager
	settings  *settings.Manager
	diag      *diaglog.Manager
	db        *sql.DB
	templates *template.Template

	// baseURL, when set, prefixes generated public download links; otherwise
	// links are built from the request.
	baseURL string

	cleanupInterval time.Duration
}

// Options collects the server's collaborators.
type Options struct {
	Service  *wireguard.Service
	Tokens   *tokens.Store
	Audit    *audit.Store
	Auth     *auth.Manager
	Settings *settings.Manager
	Diag     *diaglog.Manager
	DB       *sql.DB
	BaseURL  string
}

// New creates an HTTP server.
func New(opts Options) (*Server, error) {
	tmpl, err := template.ParseFS(ui.Assets, "web/templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Server{
		service:         opts.Service,
		tokens:          opts.Tokens,
		audit:           opts.Audit,
		auth:            opts.Auth,
		settings:        opts.Settings,
		diag:            opts.Diag,
		db:              opts.DB,
		templates:       tmpl,
		baseURL:         opts.BaseURL,
		cleanupInterval: time.Hour,
	}, nil
}

// Router constructs the http.Handler with all routes.
func (s *Server) Router() (http.Handler, error) {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(s.auth.Middleware)

	r.Get("/", s.handlePeersPage)
	r.Get("/login", s.handleLoginGet)
	r.Post("/login", s.handleLoginPost)
	r.Post("/logout", s.handleLogout)

	// HTML form actions from the peers page.
	r.Post("/peers/create", s.handleCreatePeerForm)
	r.Post("/peers/{identifier}/enable", s.handleTogglePeerForm(true))
	r.Post("/peers/{identifier}/disable", s.handleTogglePeerForm(false))
	r.Post("/peers/{identifier}/delete", s.handleDeletePeerForm)
	r.Post("/peers/{identifier}/activate", s.handleActivatePeerForm)

	staticFS, err := fs.Sub(ui.Assets, "web/static")
	if err != nil {
		return nil, err
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	r.Route("/api", func(api chi.Router) {
		api.Get("/peers", s.handleListPeers)
		api.Post("/peers", s.handleCreatePeer)
		api.Get("/peers/{identifier}", s.handleGetPeer)
		api.Post("/peers/{identifier}/enable", s.handleTogglePeer(true))
		api.Post("/peers/{identifier}/disable", s.handleTogglePeer(false))
		api.Delete("/peers/{identifier}", s.handleDeletePeer)
		api.Post("/peers/{identifier}/activate", s.handleActivatePeer)
		api.Get("/audit", s.handleAuditLog)
		api.Get("/settings", s.handleGetSettings)
		api.Put("/settings", s.handleSaveSettings)
		api.Get("/version", s.handleVersion)
		api.Get("/auth/token", s.handleGetAuthToken)
		api.Post("/auth/token", s.handleRegenerateAuthToken)
		api.Post("/auth/password", s.handleChangePassword)
	})

	// Public, token-gated.
	r.Get("/config/{token}", s.handlePublicConfig)
	r.Get("/config/{token}/download", s.handlePublicConfigDownload)

	return r, nil
}

// StartBackground runs periodic maintenance: deactivating expired download
// tokens and pruning stale database rows.
func (s *Server) StartBackground(stop <-chan struct{}) {
	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := s.tokens.DeactivateExpired(time.Now()); err != nil {
				log.Printf("token cleanup failed: %v", err)
			}
			if err := database.Cleanup(s.db); err != nil {
				log.Printf("database cleanup failed: %v", err)
			}
		case <-stop:
			return
		}
	}
}
