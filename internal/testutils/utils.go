package testutils

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gi8lino/deskkit/internal/request"
)

// MustWriteFile writes data to a file or fails the test, creating parent directories if needed.
func MustWriteFile(t *testing.T, path, content string) {
	t.Helper()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create directory %q: %v", dir, err)
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test file %q: %v", path, err)
	}
}

// MockExecutor records every descriptor it receives and answers through ExecuteFn.
type MockExecutor struct {
	ExecuteFn func(ctx context.Context, d request.Descriptor) (any, error)

	mu    sync.Mutex
	calls []request.Descriptor
}

// Execute records d and delegates to ExecuteFn. Without ExecuteFn it returns nil, nil.
func (m *MockExecutor) Execute(ctx context.Context, d request.Descriptor) (any, error) {
	m.mu.Lock()
	m.calls = append(m.calls, d)
	m.mu.Unlock()

	if m.ExecuteFn == nil {
		return nil, nil
	}
	return m.ExecuteFn(ctx, d)
}

// Calls returns a copy of the recorded descriptors.
func (m *MockExecutor) Calls() []request.Descriptor {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]request.Descriptor, len(m.calls))
	copy(out, m.calls)
	return out
}
