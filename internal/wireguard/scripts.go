package wireguard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Management script names. The scripts live in the configured scripts
// directory, accept flag-style arguments, and print a JSON object on stdout.
const (
	readConfigScript = "wg_read_config.sh"
	createScript     = "wg_create_peer.sh"
	deleteScript     = "wg_delete_peer.sh"
	toggleScript     = "wg_toggle_peer.sh"
	qrScript         = "wg_generate_qr.sh"
)

const defaultScriptTimeout = 15 * time.Second

// ScriptRunner invokes the external peer-management scripts, optionally
// through sudo, with a bounded timeout per invocation.
type ScriptRunner struct {
	Dir     string
	UseSudo bool
	SudoBin string
	Timeout time.Duration
	Exec    Executor
}

// Run executes the named script and decodes its stdout as a JSON object.
// Empty stdout decodes to an empty result. Script failures, timeouts, and
// non-JSON output all surface as *ScriptError.
func (r *ScriptRunner) Run(ctx context.Context, script string, args []string) (map[string]any, error) {
	path := filepath.Join(r.Dir, script)
	if _, err := os.Stat(path); err != nil {
		return nil, &ScriptError{Script: script, Err: fmt.Errorf("script not found: %s", path)}
	}

	name := path
	argv := args
	if r.UseSudo {
		sudo := r.SudoBin
		if sudo == "" {
			sudo = "sudo"
		}
		name = sudo
		argv = append([]string{path}, args...)
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = defaultScriptTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := r.Exec.Output(ctx, name, argv...)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &ScriptError{Script: script, Err: fmt.Errorf("timed out after %s", timeout)}
		}
		serr := &ScriptError{Script: script, Err: err}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			serr.Stderr = strings.TrimSpace(string(exitErr.Stderr))
		}
		return nil, serr
	}

	stdout := strings.TrimSpace(string(out))
	if stdout == "" {
		return map[string]any{}, nil
	}
	var result map[string]any
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		return nil, &ScriptError{Script: script, Err: fmt.Errorf("non-JSON output: %s", stdout)}
	}
	return result, nil
}
