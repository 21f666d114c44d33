package scratch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// File is one journal entry below the store root.
type File struct {
	Path    string
	ModTime time.Time
	Size    int64
}

// Store manages journal files below Root.
type Store struct {
	Root       string
	Editor     string
	EditorArgs []string
	Categories map[string]string // category -> file suffix
	Templates  map[string]string // category -> template file
	Launcher   Launcher
}

// List walks Root recursively and returns every file, newest first.
func (s *Store) List() ([]File, error) {
	var files []File
	err := filepath.WalkDir(s.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, File{Path: path, ModTime: info.ModTime(), Size: info.Size()})
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", s.Root, err)
	}

	sort.SliceStable(files, func(i, j int) bool {
		return files[i].ModTime.After(files[j].ModTime)
	})
	return files, nil
}

// New creates a file for category seeded with its template and opens it in the
// editor. When the content length is unchanged after the editor exits, the file
// is removed and ok is false.
func (s *Store) New(ctx context.Context, category string) (file File, ok bool, err error) {
	if s.Editor == "" {
		return File{}, false, errors.New("no editor configured")
	}
	if s.Launcher == nil {
		return File{}, false, errors.New("no launcher configured")
	}

	seed, err := s.template(category)
	if err != nil {
		return File{}, false, err
	}

	if err := os.MkdirAll(s.Root, 0o755); err != nil {
		return File{}, false, fmt.Errorf("create root: %w", err)
	}

	f, err := os.CreateTemp(s.Root, "*."+s.suffix(category))
	if err != nil {
		return File{}, false, fmt.Errorf("create file: %w", err)
	}
	path := f.Name()
	if _, err := f.Write(seed); err != nil {
		f.Close() // nolint:errcheck
		return File{}, false, fmt.Errorf("write template: %w", err)
	}
	if err := f.Close(); err != nil {
		return File{}, false, fmt.Errorf("close %s: %w", path, err)
	}

	args := append(append([]string{}, s.EditorArgs...), path)
	if err := s.Launcher.Launch(ctx, s.Editor, args); err != nil {
		return File{}, false, fmt.Errorf("run editor: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return File{}, false, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() == int64(len(seed)) {
		if err := os.Remove(path); err != nil {
			return File{}, false, fmt.Errorf("remove unedited %s: %w", path, err)
		}
		return File{Path: path}, false, nil
	}

	return File{Path: path, ModTime: info.ModTime(), Size: info.Size()}, true, nil
}

// suffix returns the file suffix for category, defaulting to the category name.
func (s *Store) suffix(category string) string {
	if sfx, ok := s.Categories[category]; ok && sfx != "" {
		return sfx
	}
	return category
}

// template returns the seed content for category. Relative template paths are
// resolved against Root.
func (s *Store) template(category string) ([]byte, error) {
	p, ok := s.Templates[category]
	if !ok || p == "" {
		return nil, nil
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(s.Root, p)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("read template for %q: %w", category, err)
	}
	return b, nil
}
