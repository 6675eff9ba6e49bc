package wireguard

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// diagnostics is the subset of the diaglog manager the service uses.
type diagnostics interface {
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
}

type nopDiagnostics struct{}

func (nopDiagnostics) Debugf(string, ...any) {}
func (nopDiagnostics) Warnf(string, ...any)  {}

// Options wires a Service to its collaborators. Config is required; Runtime
// and Scripts may be nil for read-only, config-only use (tests mostly).
type Options struct {
	Config  ConfigSource
	Runtime RuntimeSource
	Scripts *ScriptRunner

	// ClientConfigDir holds generated per-peer client configs; PublicConfDir
	// is the fallback location checked when a peer's file is not there.
	ClientConfigDir string
	PublicConfDir   string

	Diag diagnostics
}

// Service exposes peer listing, lookup, and script-backed mutations for one
// WireGuard interface. It is stateless: every call re-reads its sources.
type Service struct {
	config          ConfigSource
	runtime         RuntimeSource
	scripts         *ScriptRunner
	clientConfigDir string
	publicConfDir   string
	diag            diagnostics
}

func New(opts Options) *Service {
	diag := opts.Diag
	if diag == nil {
		diag = nopDiagnostics{}
	}
	return &Service{
		config:          opts.Config,
		runtime:         opts.Runtime,
		scripts:         opts.Scripts,
		clientConfigDir: opts.ClientConfigDir,
		publicConfDir:   opts.PublicConfDir,
		diag:            diag,
	}
}

// ListPeers parses the config into peers, in file order. With includeRuntime
// set it overlays live statistics; a failed runtime query degrades to
// config-only data rather than an error. Only a failure to obtain the config
// text itself is returned, wrapped in ErrSourceUnavailable.
func (s *Service) ListPeers(ctx context.Context, includeRuntime bool) ([]Peer, error) {
	text, err := s.config.ReadConfig(ctx)
	if err != nil {
		return nil, err
	}
	result := parseConfig(splitLines(text))
	if result.skipped > 0 {
		s.diag.Warnf("config parse: skipped %d peer block(s) without a public key", result.skipped)
	}
	if includeRuntime && s.runtime != nil {
		dump, err := s.runtime.ReadDump(ctx)
		if err != nil {
			s.diag.Debugf("runtime status unavailable: %v", err)
		} else {
			mergeRuntime(result.peers, parseRuntimeDump(dump))
		}
	}
	return result.peers, nil
}

// GetPeer finds a peer addressed by either its identifier or its public key.
// The input is trimmed; matching is exact and case-sensitive, first match in
// file order wins. A nil peer with nil error means not found.
func (s *Service) GetPeer(ctx context.Context, identifier string) (*Peer, error) {
	identifier = strings.TrimSpace(identifier)
	peers, err := s.ListPeers(ctx, true)
	if err != nil {
		return nil, err
	}
	for i := range peers {
		if peers[i].Identifier == identifier || peers[i].PublicKey == identifier {
			return &peers[i], nil
		}
	}
	return nil, nil
}

// CreatePeer provisions a new peer through the management script.
func (s *Service) CreatePeer(ctx context.Context, name, allowedIPs string) (map[string]any, error) {
	return s.scripts.Run(ctx, createScript, []string{"--name", name, "--allowed-ips", allowedIPs})
}

// DeletePeer removes a peer through the management script.
func (s *Service) DeletePeer(ctx context.Context, identifier string) (map[string]any, error) {
	return s.scripts.Run(ctx, deleteScript, []string{"--id", identifier})
}

// SetPeerEnabled toggles a peer through the management script.
func (s *Service) SetPeerEnabled(ctx context.Context, identifier string, enabled bool) (map[string]any, error) {
	flag := "--disable"
	if enabled {
		flag = "--enable"
	}
	return s.scripts.Run(ctx, toggleScript, []string{flag, "--id", identifier})
}

// GenerateQR asks the QR script to (re)render a peer's QR artifact.
func (s *Service) GenerateQR(ctx context.Context, identifier string) (map[string]any, error) {
	return s.scripts.Run(ctx, qrScript, []string{"--id", identifier})
}

// ConfigPathForPeer returns where the peer's client config should live:
// the client config dir, falling back to the public dir when absent there.
func (s *Service) ConfigPathForPeer(peer *Peer) string {
	primary := filepath.Join(s.clientConfigDir, peer.Identifier+".conf")
	if _, err := os.Stat(primary); err == nil {
		return primary
	}
	return filepath.Join(s.publicConfDir, peer.Identifier+".conf")
}

// ConfigForPeer reads the peer's client config file.
func (s *Service) ConfigForPeer(peer *Peer) (string, error) {
	path := s.ConfigPathForPeer(peer)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("client config for %s: %w", peer.Identifier, err)
	}
	return string(data), nil
}

// splitLines splits on \n and tolerates CRLF endings.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
