package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"wgadmin-webui/internal/audit"
	"wgadmin-webui/internal/auth"
	"wgadmin-webui/internal/config"
	"wgadmin-webui/internal/database"
	"wgadmin-webui/internal/diaglog"
	"wgadmin-webui/internal/server"
	"wgadmin-webui/internal/settings"
	"wgadmin-webui/internal/tokens"
	"wgadmin-webui/internal/wireguard"
)

func main() {
	configPath := flag.String("config", "/etc/wgadmin-webui/config.toml", "path to the TOML config file")
	addr := flag.String("addr", "", "listen address (overrides the config file)")
	dataDir := flag.String("data-dir", "", "data directory (overrides the config file)")
	flag.Parse()

	// A .env next to the binary is honoured for WGADMIN_* overrides.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: failed to load .env: %v", err)
	}

	opts, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *addr != "" {
		opts.ListenAddr = *addr
	}
	if *dataDir != "" {
		opts.DataDir = *dataDir
	}

	db, err := database.Open(filepath.Join(opts.DataDir, "wgadmin.db"))
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	settingsManager := settings.NewManager(filepath.Join(opts.DataDir, "settings.json"))
	authManager := auth.NewManager(settingsManager)
	if err := authManager.EnsureDefaults(); err != nil {
		log.Fatalf("failed to initialise credentials: %v", err)
	}

	diag := diaglog.New(filepath.Join(opts.DataDir, "diagnostics.log"))
	defer diag.Close()
	if stored, err := settingsManager.Get(); err == nil {
		if err := diag.Configure(stored.DiagLogEnabled, stored.DiagLogLevel); err != nil {
			log.Printf("warning: diagnostics log unavailable: %v", err)
		}
	}

	execer := wireguard.NewExecutor()
	scripts := &wireguard.ScriptRunner{
		Dir:     opts.ScriptsDir,
		UseSudo: opts.UseSudo,
		SudoBin: opts.SudoBin,
		Timeout: opts.ScriptTimeout(),
		Exec:    execer,
	}

	// With sudo the config is read through the privileged helper script;
	// otherwise the file is read directly under a shared lock.
	var source wireguard.ConfigSource
	if opts.UseSudo {
		source = &wireguard.ScriptSource{Runner: scripts}
	} else {
		source = &wireguard.FileSource{Path: opts.WGConfigPath}
	}

	service := wireguard.New(wireguard.Options{
		Config:          source,
		Runtime:         &wireguard.DumpSource{Interface: opts.WGInterface, Exec: execer},
		Scripts:         scripts,
		ClientConfigDir: opts.ClientConfigDir,
		PublicConfDir:   opts.PublicConfDir,
		Diag:            diag,
	})

	srv, err := server.New(server.Options{
		Service:  service,
		Tokens:   tokens.NewStore(db),
		Audit:    audit.NewStore(db),
		Auth:     authManager,
		Settings: settingsManager,
		Diag:     diag,
		DB:       db,
		BaseURL:  opts.BaseURL,
	})
	if err != nil {
		log.Fatalf("failed to build server: %v", err)
	}
	router, err := srv.Router()
	if err != nil {
		log.Fatalf("failed to prepare router: %v", err)
	}

	stop := make(chan struct{})
	go srv.StartBackground(stop)

	httpServer := &http.Server{
		Addr:         opts.ListenAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("wgadmin web ui listening on %s", opts.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	<-sigCh
	log.Println("shutting down...")
	close(stop)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("graceful shutdown error: %v", err)
	}
}
