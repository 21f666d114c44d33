package scratch_test

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gi8lino/deskkit/internal/scratch"
	"github.com/gi8lino/deskkit/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_List(t *testing.T) {
	t.Parallel()

	t.Run("newest first across subdirectories", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		older := filepath.Join(root, "a.md")
		newer := filepath.Join(root, "2024", "b.md")
		testutils.MustWriteFile(t, older, "old")
		testutils.MustWriteFile(t, newer, "new")

		past := time.Now().Add(-time.Hour)
		require.NoError(t, os.Chtimes(older, past, past))

		files, err := (&scratch.Store{Root: root}).List()
		require.NoError(t, err)
		require.Len(t, files, 2)
		assert.Equal(t, newer, files[0].Path)
		assert.Equal(t, older, files[1].Path)
		assert.Equal(t, int64(3), files[1].Size)
	})

	t.Run("missing root is empty", func(t *testing.T) {
		t.Parallel()

		files, err := (&scratch.Store{Root: filepath.Join(t.TempDir(), "nope")}).List()
		require.NoError(t, err)
		assert.Empty(t, files)
	})
}

func TestStore_New(t *testing.T) {
	t.Parallel()

	t.Run("keeps edited file with category suffix and template", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		testutils.MustWriteFile(t, filepath.Join(root, "tpl", "daily.md"), "# Daily\n")

		var gotEditor string
		var gotArgs []string
		store := &scratch.Store{
			Root:       root,
			Editor:     "vim",
			EditorArgs: []string{"+set backupcopy=yes"},
			Categories: map[string]string{"daily": "md"},
			Templates:  map[string]string{"daily": "tpl/daily.md"},
			Launcher: scratch.LauncherFunc(func(ctx context.Context, editor string, args []string) error {
				gotEditor = editor
				gotArgs = args
				path := args[len(args)-1]
				seed, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				return os.WriteFile(path, append(seed, []byte("- shipped\n")...), 0o644)
			}),
		}

		file, ok, err := store.New(context.Background(), "daily")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.True(t, strings.HasSuffix(file.Path, ".md"))
		assert.Equal(t, "vim", gotEditor)
		assert.Equal(t, []string{"+set backupcopy=yes", file.Path}, gotArgs)

		data, err := os.ReadFile(file.Path)
		require.NoError(t, err)
		assert.Equal(t, "# Daily\n- shipped\n", string(data))
	})

	t.Run("removes unedited file", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		store := &scratch.Store{
			Root:     root,
			Editor:   "vim",
			Launcher: scratch.LauncherFunc(func(ctx context.Context, editor string, args []string) error { return nil }),
		}

		file, ok, err := store.New(context.Background(), "txt")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.True(t, strings.HasSuffix(file.Path, ".txt"))
		_, statErr := os.Stat(file.Path)
		assert.True(t, errors.Is(statErr, os.ErrNotExist))
	})

	t.Run("editor failure", func(t *testing.T) {
		t.Parallel()

		store := &scratch.Store{
			Root:     t.TempDir(),
			Editor:   "vim",
			Launcher: scratch.LauncherFunc(func(ctx context.Context, editor string, args []string) error { return errors.New("boom") }),
		}

		_, _, err := store.New(context.Background(), "md")
		assert.EqualError(t, err, "run editor: boom")
	})

	t.Run("missing template", func(t *testing.T) {
		t.Parallel()

		store := &scratch.Store{
			Root:      t.TempDir(),
			Editor:    "vim",
			Templates: map[string]string{"md": "missing.md"},
			Launcher:  scratch.LauncherFunc(func(ctx context.Context, editor string, args []string) error { return nil }),
		}

		_, _, err := store.New(context.Background(), "md")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `read template for "md"`)
	})

	t.Run("no editor", func(t *testing.T) {
		t.Parallel()

		_, _, err := (&scratch.Store{Root: t.TempDir()}).New(context.Background(), "md")
		assert.EqualError(t, err, "no editor configured")
	})
}

func TestExecLauncher_Launch(t *testing.T) {
	t.Parallel()

	bin, err := exec.LookPath("true")
	if err != nil {
		t.Skip("true not available")
	}

	assert.NoError(t, scratch.ExecLauncher{}.Launch(context.Background(), bin, nil))
}
