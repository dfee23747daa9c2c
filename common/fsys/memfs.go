package fsys

import (
	"io/fs"
	"path"
	"sync"

	"github.com/pkg/errors"
)

var (
	ErrNotDirectory = errors.New("not a directory")
	ErrIsDirectory  = errors.New("is a directory")
	ErrNotSymlink   = errors.New("not a symbolic link")
)

type memEntry struct {
	typ      Type
	data     []byte
	target   string
	children []string // child names in creation order (only for directories)
}

// MemFs is an in-memory Provider. Directory listings are returned in creation order and
// intermediate symbolic links are never followed. It is safe for concurrent use.
type MemFs struct {
	mu      sync.RWMutex
	entries map[string]*memEntry
}

// NewMemFs returns an empty in-memory filesystem that only contains the root directory "/".
func NewMemFs() *MemFs {
	return &MemFs{
		entries: map[string]*memEntry{
			Separator: {typ: TypeDirectory},
		},
	}
}

// clean converts name into the absolute key used in the entries map.
func clean(name string) string {
	return path.Clean(Separator + name)
}

func (m *MemFs) Lstat(name string) (Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p := clean(name)
	entry, ok := m.entries[p]
	if !ok {
		return Info{}, &fs.PathError{Op: "lstat", Path: name, Err: fs.ErrNotExist}
	}

	return Info{
		Name: Base(p),
		Type: entry.typ,
		Size: int64(len(entry.data)),
	}, nil
}

func (m *MemFs) ReadDir(name string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, err := m.lookup("readdir", name)
	if err != nil {
		return nil, err
	}

	if entry.typ != TypeDirectory {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: ErrNotDirectory}
	}

	return append([]string(nil), entry.children...), nil
}

func (m *MemFs) ReadFile(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, err := m.lookup("read", name)
	if err != nil {
		return nil, err
	}

	switch entry.typ {
	case TypeRegular:
		return append([]byte(nil), entry.data...), nil
	case TypeDirectory:
		return nil, &fs.PathError{Op: "read", Path: name, Err: ErrIsDirectory}
	default:
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrInvalid}
	}
}

func (m *MemFs) Readlink(name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, err := m.lookup("readlink", name)
	if err != nil {
		return "", err
	}

	if entry.typ != TypeSymlink {
		return "", &fs.PathError{Op: "readlink", Path: name, Err: ErrNotSymlink}
	}

	return entry.target, nil
}

func (m *MemFs) Abs(name string) (string, error) {
	return clean(name), nil
}

func (m *MemFs) Mkdir(name string) error {
	return m.create("mkdir", name, &memEntry{typ: TypeDirectory})
}

func (m *MemFs) WriteFile(name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := clean(name)
	if entry, ok := m.entries[p]; ok {
		if entry.typ != TypeRegular {
			return &fs.PathError{Op: "write", Path: name, Err: ErrIsDirectory}
		}
		entry.data = append([]byte(nil), data...)
		return nil
	}

	return m.add("write", p, &memEntry{typ: TypeRegular, data: append([]byte(nil), data...)})
}

func (m *MemFs) Symlink(target, name string) error {
	return m.create("symlink", name, &memEntry{typ: TypeSymlink, target: target})
}

// AddSpecial creates an entry of a type that cannot be restored, e.g. a FIFO or a socket.
func (m *MemFs) AddSpecial(name string, typ Type) error {
	return m.create("mknod", name, &memEntry{typ: typ})
}

// Len returns the number of entries, including the root directory.
func (m *MemFs) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.entries)
}

func (m *MemFs) lookup(op, name string) (*memEntry, error) {
	entry, ok := m.entries[clean(name)]
	if !ok {
		return nil, &fs.PathError{Op: op, Path: name, Err: fs.ErrNotExist}
	}

	return entry, nil
}

func (m *MemFs) create(op, name string, entry *memEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := clean(name)
	if _, ok := m.entries[p]; ok {
		return &fs.PathError{Op: op, Path: name, Err: fs.ErrExist}
	}

	return m.add(op, p, entry)
}

// add links a new entry into its parent directory, the caller must hold the write lock.
func (m *MemFs) add(op, p string, entry *memEntry) error {
	parent, ok := m.entries[path.Dir(p)]
	if !ok {
		return &fs.PathError{Op: op, Path: p, Err: fs.ErrNotExist}
	}

	if parent.typ != TypeDirectory {
		return &fs.PathError{Op: op, Path: p, Err: ErrNotDirectory}
	}

	parent.children = append(parent.children, Base(p))
	m.entries[p] = entry

	return nil
}
