package wireguard

import (
	"context"
	"os/exec"
)

// Executor abstracts external command execution (management scripts, the
// privileged config read, and the wg status dump) so tests can substitute a
// deterministic implementation. The context bounds the command's lifetime.
type Executor interface {
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

type osExec struct{}

// NewExecutor returns an Executor backed by os/exec.
func NewExecutor() Executor { return osExec{} }

// Output returns the command's stdout. On failure the returned *exec.ExitError
// carries the captured stderr.
func (osExec) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}
