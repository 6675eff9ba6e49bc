package wireguard

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// MockExec is a deterministic executor used by unit tests. Outputs and errors
// are keyed by the space-joined command line.
type MockExec struct {
	mu sync.Mutex

	OutputCalls [][]string

	OutputErrors map[string]error
	Outputs      map[string][]byte
}

func (m *MockExec) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	call := append([]string{name}, args...)
	m.OutputCalls = append(m.OutputCalls, call)
	key := strings.Join(call, " ")
	out := m.Outputs[key]
	if err, ok := m.OutputErrors[key]; ok {
		return out, err
	}
	if out == nil {
		return nil, errors.New("mock output not configured")
	}
	return out, nil
}
