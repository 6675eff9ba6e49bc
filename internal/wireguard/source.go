package wireguard

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gofrs/flock"
)

// ConfigSource produces the raw WireGuard config text. Implementations wrap
// any acquisition failure in ErrSourceUnavailable.
type ConfigSource interface {
	ReadConfig(ctx context.Context) (string, error)
}

// RuntimeSource produces the raw `wg show ... dump` text. It is best-effort;
// failures only disable runtime augmentation.
type RuntimeSource interface {
	ReadDump(ctx context.Context) (string, error)
}

// FileSource reads the config file directly. It takes a shared advisory lock
// while reading because the management scripts rewrite the file out of
// process; the lock wait is bounded by LockTimeout.
type FileSource struct {
	Path        string
	LockTimeout time.Duration
}

const defaultLockTimeout = 5 * time.Second

func (s *FileSource) ReadConfig(ctx context.Context) (string, error) {
	// Check the file before locking: flock opens its path with O_CREATE, so
	// locking an absent config would create an empty one and read it as a
	// valid zero-peer config.
	if _, err := os.Stat(s.Path); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, s.Path, err)
	}

	timeout := s.LockTimeout
	if timeout <= 0 {
		timeout = defaultLockTimeout
	}
	lockCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	lock := flock.New(s.Path)
	locked, err := lock.TryRLockContext(lockCtx, 100*time.Millisecond)
	if err != nil || !locked {
		return "", fmt.Errorf("%w: lock %s: %v", ErrSourceUnavailable, s.Path, err)
	}
	defer lock.Unlock()

	data, err := os.ReadFile(s.Path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, s.Path, err)
	}
	return string(data), nil
}

// ScriptSource reads the config through the privileged wg_read_config.sh
// helper, for deployments where the web process itself cannot open the file.
type ScriptSource struct {
	Runner *ScriptRunner
}

func (s *ScriptSource) ReadConfig(ctx context.Context) (string, error) {
	result, err := s.Runner.Run(ctx, readConfigScript, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	text, _ := result["config"].(string)
	if text == "" {
		return "", fmt.Errorf("%w: %s returned no config", ErrSourceUnavailable, readConfigScript)
	}
	return text, nil
}

// DumpSource queries live peer statistics with `wg show <iface> dump`.
type DumpSource struct {
	Interface string
	Exec      Executor
}

func (s *DumpSource) ReadDump(ctx context.Context) (string, error) {
	out, err := s.Exec.Output(ctx, "wg", "show", s.Interface, "dump")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRuntimeUnavailable, err)
	}
	return string(out), nil
}
