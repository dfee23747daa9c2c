package fsys

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

const (
	defaultFileMode os.FileMode = 0644
	defaultDirMode  os.FileMode = 0755
)

var ErrLinkNotSupported = errors.New("symbolic links not supported by underlying filesystem")

// OsFs implements Provider on top of an afero filesystem, which is the operating system
// filesystem by default. File permissions are not preserved, files are created with 0644 and
// directories with 0755.
type OsFs struct {
	fs afero.Fs
}

// NewOsFs returns a provider backed by the operating system filesystem.
func NewOsFs() *OsFs {
	return &OsFs{afero.NewOsFs()}
}

// NewAferoFs returns a provider backed by the given afero filesystem. Symbolic link operations
// require the filesystem to implement afero.Lstater, afero.LinkReader and afero.Linker.
func NewAferoFs(fs afero.Fs) *OsFs {
	return &OsFs{fs}
}

func (o *OsFs) Lstat(path string) (Info, error) {
	var (
		info os.FileInfo
		err  error
	)

	if lstater, ok := o.fs.(afero.Lstater); ok {
		info, _, err = lstater.LstatIfPossible(path)
	} else {
		info, err = o.fs.Stat(path)
	}

	if err != nil {
		return Info{}, err
	}

	return Info{
		Name: info.Name(),
		Type: TypeOf(info.Mode()),
		Size: info.Size(),
	}, nil
}

func (o *OsFs) ReadDir(path string) ([]string, error) {
	infos, err := afero.ReadDir(o.fs, path)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name())
	}

	return names, nil
}

func (o *OsFs) ReadFile(path string) ([]byte, error) {
	return afero.ReadFile(o.fs, path)
}

func (o *OsFs) Readlink(path string) (string, error) {
	reader, ok := o.fs.(afero.LinkReader)
	if !ok {
		return "", &os.PathError{Op: "readlink", Path: path, Err: ErrLinkNotSupported}
	}

	return reader.ReadlinkIfPossible(path)
}

func (o *OsFs) Abs(path string) (string, error) {
	return filepath.Abs(path)
}

func (o *OsFs) Mkdir(path string) error {
	return o.fs.Mkdir(path, defaultDirMode)
}

func (o *OsFs) WriteFile(path string, data []byte) error {
	return afero.WriteFile(o.fs, path, data, defaultFileMode)
}

func (o *OsFs) Symlink(target, path string) error {
	linker, ok := o.fs.(afero.Linker)
	if !ok {
		return &os.PathError{Op: "symlink", Path: path, Err: ErrLinkNotSupported}
	}

	return linker.SymlinkIfPossible(target, path)
}
