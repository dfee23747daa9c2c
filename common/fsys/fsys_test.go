package fsys_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/0glabs/0g-snapshot/common/fsys"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeOf(t *testing.T) {
	tests := []struct {
		mode     fs.FileMode
		expected fsys.Type
	}{
		{0644, fsys.TypeRegular},
		{fs.ModeDir | 0755, fsys.TypeDirectory},
		{fs.ModeSymlink | 0777, fsys.TypeSymlink},
		{fs.ModeDevice, fsys.TypeBlockDevice},
		{fs.ModeDevice | fs.ModeCharDevice, fsys.TypeCharDevice},
		{fs.ModeNamedPipe, fsys.TypeFIFO},
		{fs.ModeSocket, fsys.TypeSocket},
		{fs.ModeIrregular, fsys.TypeUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, fsys.TypeOf(tt.mode), "mode %v", tt.mode)
	}
}

func TestParseType(t *testing.T) {
	typ, ok := fsys.ParseType("dir")
	assert.True(t, ok)
	assert.Equal(t, fsys.TypeDirectory, typ)

	typ, ok = fsys.ParseType("ukn")
	assert.True(t, ok)
	assert.False(t, typ.Supported())

	_, ok = fsys.ParseType("directory")
	assert.False(t, ok)
}

func TestPathHelpers(t *testing.T) {
	assert.Equal(t, "a/b", fsys.Join("a", "b"))
	assert.Equal(t, "/b", fsys.Join("/", "b"))
	assert.Equal(t, "b", fsys.Join("", "b"))

	assert.Equal(t, "dir", fsys.Base("/tmp/dir/"))
	assert.Equal(t, "dir", fsys.Base("dir"))
	assert.Equal(t, "/", fsys.Base("/"))
	assert.Equal(t, "/", fsys.Base("///"))

	assert.Equal(t, "/tmp/out", fsys.TrimTrailingSlash("/tmp/out//"))
	assert.Equal(t, "/", fsys.TrimTrailingSlash("/"))

	assert.True(t, fsys.ValidName("a.txt"))
	assert.False(t, fsys.ValidName(""))
	assert.False(t, fsys.ValidName(".."))
	assert.False(t, fsys.ValidName("a/b"))
}

func TestMemFs(t *testing.T) {
	m := fsys.NewMemFs()

	require.NoError(t, m.Mkdir("/root"))
	require.NoError(t, m.WriteFile("/root/b.txt", []byte("bee")))
	require.NoError(t, m.WriteFile("/root/a.txt", []byte("a")))
	require.NoError(t, m.Symlink("../elsewhere", "/root/link"))
	require.NoError(t, m.AddSpecial("/root/pipe", fsys.TypeFIFO))

	// listing order follows creation order
	names, err := m.ReadDir("/root")
	require.NoError(t, err)
	assert.Equal(t, []string{"b.txt", "a.txt", "link", "pipe"}, names)

	info, err := m.Lstat("/root/b.txt")
	require.NoError(t, err)
	assert.Equal(t, fsys.Info{Name: "b.txt", Type: fsys.TypeRegular, Size: 3}, info)

	target, err := m.Readlink("/root/link")
	require.NoError(t, err)
	assert.Equal(t, "../elsewhere", target)

	_, err = m.Lstat("/root/missing")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	assert.ErrorIs(t, m.Mkdir("/root"), fs.ErrExist)
	assert.ErrorIs(t, m.Mkdir("/missing/child"), fs.ErrNotExist)
	assert.ErrorIs(t, m.WriteFile("/root/a.txt/x", nil), fsys.ErrNotDirectory)

	_, err = m.ReadFile("/root/pipe")
	assert.Error(t, err)

	abs, err := m.Abs("root/")
	require.NoError(t, err)
	assert.Equal(t, "/root", abs)
}

func TestOsFs(t *testing.T) {
	tempDir := t.TempDir()
	o := fsys.NewOsFs()

	dirPath := filepath.Join(tempDir, "dir")
	require.NoError(t, o.Mkdir(dirPath))
	require.NoError(t, o.WriteFile(filepath.Join(dirPath, "file.txt"), []byte("content")))
	require.NoError(t, o.Symlink("file.txt", filepath.Join(dirPath, "link")))

	info, err := o.Lstat(dirPath)
	require.NoError(t, err)
	assert.Equal(t, fsys.TypeDirectory, info.Type)

	info, err = o.Lstat(filepath.Join(dirPath, "link"))
	require.NoError(t, err)
	assert.Equal(t, fsys.TypeSymlink, info.Type)

	target, err := o.Readlink(filepath.Join(dirPath, "link"))
	require.NoError(t, err)
	assert.Equal(t, "file.txt", target)

	data, err := o.ReadFile(filepath.Join(dirPath, "file.txt"))
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))

	names, err := o.ReadDir(dirPath)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"file.txt", "link"}, names)

	_, err = o.Lstat(filepath.Join(tempDir, "missing"))
	assert.ErrorIs(t, err, fs.ErrNotExist)

	assert.ErrorIs(t, o.Mkdir(dirPath), fs.ErrExist)

	abs, err := o.Abs(".")
	require.NoError(t, err)
	wd, _ := os.Getwd()
	assert.Equal(t, wd, abs)
}

// statOnlyFs hides every optional interface of the wrapped filesystem.
type statOnlyFs struct {
	afero.Fs
}

func TestAferoFs(t *testing.T) {
	for name, backend := range map[string]afero.Fs{
		"lstater":   afero.NewMemMapFs(),
		"stat only": statOnlyFs{afero.NewMemMapFs()},
	} {
		t.Run(name, func(t *testing.T) {
			a := fsys.NewAferoFs(backend)

			require.NoError(t, a.Mkdir("/dir"))
			require.NoError(t, a.WriteFile("/dir/file.txt", []byte("content")))

			info, err := a.Lstat("/dir")
			require.NoError(t, err)
			assert.Equal(t, fsys.TypeDirectory, info.Type)

			info, err = a.Lstat("/dir/file.txt")
			require.NoError(t, err)
			assert.Equal(t, fsys.Info{Name: "file.txt", Type: fsys.TypeRegular, Size: 7}, info)

			names, err := a.ReadDir("/dir")
			require.NoError(t, err)
			assert.Equal(t, []string{"file.txt"}, names)

			data, err := a.ReadFile("/dir/file.txt")
			require.NoError(t, err)
			assert.Equal(t, "content", string(data))

			_, err = a.Lstat("/dir/missing")
			assert.ErrorIs(t, err, fs.ErrNotExist)

			// in-memory afero filesystems have no symbolic links
			assert.ErrorIs(t, a.Symlink("file.txt", "/dir/link"), fsys.ErrLinkNotSupported)
			_, err = a.Readlink("/dir/file.txt")
			assert.ErrorIs(t, err, fsys.ErrLinkNotSupported)
		})
	}
}
