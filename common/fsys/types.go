// Package fsys defines the minimal filesystem capabilities needed to capture and restore a file
// tree, along with an OS backed implementation and an in-memory one.
package fsys

import (
	"io/fs"
)

// Type represents the type of a filesystem entry.
type Type string

const (
	TypeRegular     Type = "file"
	TypeDirectory   Type = "dir"
	TypeSymlink     Type = "symlink"
	TypeBlockDevice Type = "blockdev"
	TypeCharDevice  Type = "chardev"
	TypeFIFO        Type = "fifo"
	TypeSocket      Type = "socket"
	TypeUnknown     Type = "ukn"
)

// ParseType converts a wire name into a Type.
func ParseType(name string) (Type, bool) {
	switch t := Type(name); t {
	case TypeRegular, TypeDirectory, TypeSymlink,
		TypeBlockDevice, TypeCharDevice, TypeFIFO, TypeSocket, TypeUnknown:
		return t, true
	default:
		return "", false
	}
}

// Supported returns whether entries of this type can be captured and restored.
func (t Type) Supported() bool {
	return t == TypeRegular || t == TypeDirectory || t == TypeSymlink
}

func (t Type) String() string {
	return string(t)
}

// TypeOf classifies a file mode as returned by lstat.
func TypeOf(mode fs.FileMode) Type {
	switch {
	case mode&fs.ModeSymlink != 0:
		return TypeSymlink
	case mode.IsDir():
		return TypeDirectory
	case mode.IsRegular():
		return TypeRegular
	case mode&fs.ModeDevice != 0 && mode&fs.ModeCharDevice != 0:
		return TypeCharDevice
	case mode&fs.ModeDevice != 0:
		return TypeBlockDevice
	case mode&fs.ModeNamedPipe != 0:
		return TypeFIFO
	case mode&fs.ModeSocket != 0:
		return TypeSocket
	default:
		return TypeUnknown
	}
}

// Info holds the entry metadata the snapshot format cares about.
type Info struct {
	Name string // Base name of the entry
	Type Type   // Entry type, symbolic links are not followed
	Size int64  // Size in bytes (only meaningful for regular files)
}

// Reader is the set of read capabilities required to capture a tree.
type Reader interface {
	// Lstat returns entry info without following symbolic links. A missing entry yields an error
	// matching fs.ErrNotExist.
	Lstat(path string) (Info, error)
	// ReadDir returns the names of the immediate children in listing order.
	ReadDir(path string) ([]string, error)
	ReadFile(path string) ([]byte, error)
	Readlink(path string) (string, error)
	// Abs resolves path into an absolute path, used for diagnostics only.
	Abs(path string) (string, error)
}

// Writer is the set of write capabilities required to restore a tree.
type Writer interface {
	Lstat(path string) (Info, error)
	Mkdir(path string) error
	WriteFile(path string, data []byte) error
	Symlink(target, path string) error
}

// Provider supports both capturing and restoring.
type Provider interface {
	Reader
	Writer
}
