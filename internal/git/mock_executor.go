package git

import (
	"context"
	"strings"
	"sync"
)

// MockExecutor is a test double for CommandExecutor.
// It returns scripted output keyed on the exact argument vector, so engine
// behavior can be tested without a git binary.
type MockExecutor struct {
	mu        sync.Mutex
	responses map[string]mockResponse
	calls     [][]string
}

type mockResponse struct {
	output string
	err    error
}

// NewMockExecutor creates an executor with no scripted responses.
func NewMockExecutor() *MockExecutor {
	return &MockExecutor{responses: make(map[string]mockResponse)}
}

// On scripts the result for one argument vector.
func (m *MockExecutor) On(args []string, output string, err error) *MockExecutor {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[mockKey(args)] = mockResponse{output: output, err: err}
	return m
}

// Exec returns the scripted result, or a *ProcessError for unscripted calls.
func (m *MockExecutor) Exec(_ context.Context, dir string, args ...string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, append([]string(nil), args...))
	resp, ok := m.responses[mockKey(args)]
	if !ok {
		return "", &ProcessError{
			Dir:      dir,
			Args:     args,
			Stderr:   "unexpected command: git " + strings.Join(args, " "),
			ExitCode: 128,
		}
	}
	return resp.output, resp.err
}

// Calls returns every argument vector seen so far.
func (m *MockExecutor) Calls() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns how many times args were executed.
func (m *MockExecutor) CallCount(args []string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := mockKey(args)
	n := 0
	for _, c := range m.calls {
		if mockKey(c) == key {
			n++
		}
	}
	return n
}

func mockKey(args []string) string {
	return strings.Join(args, "\x00")
}
