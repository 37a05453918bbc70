package discovery

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingFS fails ReadDir for the listed directories.
type failingFS struct {
	fs.FS
	fail map[string]error
}

func (f failingFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if err, ok := f.fail[name]; ok {
		return nil, err
	}
	return fs.ReadDir(f.FS, name)
}

func file() *fstest.MapFile {
	return &fstest.MapFile{Data: []byte("# note")}
}

func slashed(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.ToSlash(p)
	}
	return out
}

func TestDiscover_FindsNotesAtAnyDepth(t *testing.T) {
	fsys := fstest.MapFS{
		"a.md":               file(),
		"b/c.md":             file(),
		"b/d.txt":            file(),
		"b/e/f/g/deep.md":    file(),
		"readme.markdown":    file(),
		"notes.md.bak":       file(),
		".git/HEAD":          file(),
		".git/notes/x.md":    file(),
		".obsidian/cache.md": file(),
		"z.md":               file(),
	}

	result, err := New(fsys, "vault", Options{}).Discover()
	require.NoError(t, err)

	assert.Equal(t, []string{"a.md", "b/c.md", "b/e/f/g/deep.md", "z.md"}, slashed(result.Files))
	assert.Empty(t, result.Skipped)
}

func TestDiscover_DepthFirstOrder(t *testing.T) {
	fsys := fstest.MapFS{
		"1.md":     file(),
		"2/a.md":   file(),
		"2/b/c.md": file(),
		"2/d.md":   file(),
		"3.md":     file(),
	}

	result, err := New(fsys, "vault", Options{}).Discover()
	require.NoError(t, err)

	assert.Equal(t, []string{"1.md", "2/a.md", "2/b/c.md", "2/d.md", "3.md"}, slashed(result.Files))
}

func TestDiscover_EmptyDirectory(t *testing.T) {
	result, err := Discover(t.TempDir(), Options{})
	require.NoError(t, err)
	assert.NotNil(t, result.Files)
	assert.Empty(t, result.Files)
}

func TestDiscover_UnreadableSubdirectoryIsSkipped(t *testing.T) {
	fsys := failingFS{
		FS: fstest.MapFS{
			"one.md":           file(),
			"locked/secret.md": file(),
			"open/two.md":      file(),
			"three.md":         file(),
		},
		fail: map[string]error{"locked": fs.ErrPermission},
	}

	result, err := New(fsys, "vault", Options{}).Discover()
	require.NoError(t, err)

	assert.Equal(t, []string{"one.md", "open/two.md", "three.md"}, slashed(result.Files))
	require.Len(t, result.Skipped, 1)
	assert.ErrorIs(t, result.Skipped[0], fs.ErrPermission)
}

func TestDiscover_RootErrors(t *testing.T) {
	t.Run("missing root", func(t *testing.T) {
		_, err := Discover(filepath.Join(t.TempDir(), "nope"), Options{})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrDirectoryUnreadable)

		var dirErr *DirectoryUnreadableError
		require.True(t, errors.As(err, &dirErr))
		assert.Contains(t, dirErr.Path, "nope")
	})

	t.Run("root is a file", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "note.md")
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))

		_, err := Discover(p, Options{})
		assert.ErrorIs(t, err, ErrDirectoryUnreadable)
	})

	t.Run("root cannot be listed", func(t *testing.T) {
		fsys := failingFS{
			FS:   fstest.MapFS{"a.md": file()},
			fail: map[string]error{".": fs.ErrPermission},
		}
		_, err := New(fsys, "vault", Options{}).Discover()
		assert.ErrorIs(t, err, ErrDirectoryUnreadable)
		assert.ErrorIs(t, err, fs.ErrPermission)
	})
}

func TestDiscover_Symlinks(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "real.md"), []byte("x"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "dir"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "dir", "inner.md"), []byte("x"), 0o644))

	if err := os.Symlink(filepath.Join(root, "real.md"), filepath.Join(root, "link.md")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	require.NoError(t, os.Symlink(filepath.Join(root, "missing.md"), filepath.Join(root, "broken.md")))
	require.NoError(t, os.Symlink(filepath.Join(root, "dir"), filepath.Join(root, "loop.md")))

	result, err := Discover(root, Options{})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"dir/inner.md", "link.md", "real.md"}, slashed(result.Files))
	require.Len(t, result.Skipped, 1)
	assert.Contains(t, result.Skipped[0].Error(), "broken.md")
}

func TestDiscover_InjectedPolicies(t *testing.T) {
	fsys := fstest.MapFS{
		"keep.md":           file(),
		"drafts/wip.md":     file(),
		"archive/old.md":    file(),
		"todo.txt":          file(),
		"node_modules/x.md": file(),
	}

	result, err := New(fsys, "vault", Options{
		SkipDir: SkipDirs("archive", "node_modules"),
	}).Discover()
	require.NoError(t, err)
	assert.Equal(t, []string{"drafts/wip.md", "keep.md"}, slashed(result.Files))

	result, err = New(fsys, "vault", Options{
		IsNote: func(name string) bool { return strings.HasSuffix(name, ".txt") },
	}).Discover()
	require.NoError(t, err)
	assert.Equal(t, []string{"todo.txt"}, slashed(result.Files))
}

func TestDiscover_DeepNestingUsesWorkList(t *testing.T) {
	const depth = 2000
	parts := make([]string, depth)
	for i := range parts {
		parts[i] = "d"
	}
	deep := path.Join(append(parts, "bottom.md")...)

	result, err := New(fstest.MapFS{deep: file()}, "vault", Options{}).Discover()
	require.NoError(t, err)
	assert.Equal(t, []string{deep}, slashed(result.Files))
}

func TestIsNoteFile(t *testing.T) {
	assert.True(t, IsNoteFile("today.md"))
	assert.True(t, IsNoteFile(".hidden.md"))
	assert.False(t, IsNoteFile("today.MD"))
	assert.False(t, IsNoteFile("today.md.swp"))
	assert.False(t, IsNoteFile("md"))
}
