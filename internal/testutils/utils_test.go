package testutils_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gi8lino/deskkit/internal/request"
	"github.com/gi8lino/deskkit/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMustWriteFile ensures that MustWriteFile creates files and parent directories correctly.
func TestMustWriteFile(t *testing.T) {
	t.Parallel()

	t.Run("creates file with content", func(t *testing.T) {
		t.Parallel()

		tmpDir := t.TempDir()
		filePath := filepath.Join(tmpDir, "subdir", "testfile.txt")
		expected := "hello, world"

		testutils.MustWriteFile(t, filePath, expected)

		data, err := os.ReadFile(filePath)
		assert.NoError(t, err)
		assert.Equal(t, expected, string(data))
	})
}

func TestMockExecutor_Execute(t *testing.T) {
	t.Parallel()

	t.Run("records descriptors and returns expected values", func(t *testing.T) {
		t.Parallel()

		exec := &testutils.MockExecutor{
			ExecuteFn: func(ctx context.Context, d request.Descriptor) (any, error) {
				return map[string]any{"url": d.URL}, nil
			},
		}

		out, err := exec.Execute(context.Background(), request.Descriptor{Method: "GET", URL: "https://x/y"})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"url": "https://x/y"}, out)

		calls := exec.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, "GET", calls[0].Method)
	})

	t.Run("propagates errors from ExecuteFn", func(t *testing.T) {
		t.Parallel()

		expectedErr := errors.New("request failed")
		exec := &testutils.MockExecutor{
			ExecuteFn: func(ctx context.Context, d request.Descriptor) (any, error) {
				return nil, expectedErr
			},
		}

		out, err := exec.Execute(t.Context(), request.Descriptor{})
		assert.Nil(t, out)
		assert.Equal(t, expectedErr, err)
	})

	t.Run("nil ExecuteFn yields nil", func(t *testing.T) {
		t.Parallel()

		exec := &testutils.MockExecutor{}
		out, err := exec.Execute(t.Context(), request.Descriptor{})
		assert.NoError(t, err)
		assert.Nil(t, out)
	})
}
