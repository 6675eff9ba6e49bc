package wireguard

import (
	"errors"
	"fmt"
)

// ErrSourceUnavailable marks failures to obtain the config text at all
// (missing file, permission denied, privileged-helper failure or timeout).
// Callers must surface it distinctly from an empty peer list.
var ErrSourceUnavailable = errors.New("wireguard config source unavailable")

// ErrRuntimeUnavailable marks failures of the live-status query. It is
// best-effort: ListPeers swallows it and returns config-only data.
var ErrRuntimeUnavailable = errors.New("wireguard runtime status unavailable")

// ScriptError reports a management script that could not be run or that
// failed, carrying whatever stderr it produced.
type ScriptError struct {
	Script string
	Err    error
	Stderr string
}

func (e *ScriptError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s failed: %v: %s", e.Script, e.Err, e.Stderr)
	}
	return fmt.Sprintf("%s failed: %v", e.Script, e.Err)
}

func (e *ScriptError) Unwrap() error { return e.Err }
