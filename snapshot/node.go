package snapshot

import (
	"github.com/0glabs/0g-snapshot/common/fsys"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Kind discriminates the variants of Node.
type Kind int

const (
	KindFile Kind = iota + 1
	KindDirectory
	KindSymlink
	KindUnsupported
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDirectory:
		return "directory"
	case KindSymlink:
		return "symlink"
	case KindUnsupported:
		return "unsupported"
	default:
		return "invalid"
	}
}

// Encoding determines how file contents are represented in a document.
type Encoding string

const (
	EncodingText   Encoding = "text"   // Contents stored as a literal string
	EncodingBinary Encoding = "binary" // Contents stored as standard base64
)

// Node is a filesystem entry in a snapshot tree. It is implemented by *File, *Directory,
// *Symlink and *Unsupported only.
type Node interface {
	Kind() Kind
	entry() *Entry
}

// Entry holds the fields shared by all node kinds.
type Entry struct {
	Name string // Base name of the entry, a single path segment except for the root
}

func (e *Entry) entry() *Entry { return e }

// NameOf returns the name of any node.
func NameOf(node Node) string {
	return node.entry().Name
}

// SetName renames any node, e.g. to rehome a root.
func SetName(node Node, name string) {
	node.entry().Name = name
}

// File represents a regular file. Data always holds the raw bytes, the Encoding only selects
// the document representation.
type File struct {
	Entry
	Encoding Encoding
	Data     []byte
	Size     int64 // Byte length at capture time, informational only
}

// Directory represents a directory and its children in listing order.
type Directory struct {
	Entry
	Children []Node
}

// Symlink represents a symbolic link. The target is stored verbatim and never resolved.
type Symlink struct {
	Entry
	Target string
}

// Unsupported represents an entry that cannot be captured, e.g. a device file, a FIFO or a socket.
type Unsupported struct {
	Entry
	Type fsys.Type
}

func (*File) Kind() Kind        { return KindFile }
func (*Directory) Kind() Kind   { return KindDirectory }
func (*Symlink) Kind() Kind     { return KindSymlink }
func (*Unsupported) Kind() Kind { return KindUnsupported }

// NewFile creates a file node, capturing its size from data.
func NewFile(name string, encoding Encoding, data []byte) *File {
	return &File{
		Entry:    Entry{name},
		Encoding: encoding,
		Data:     data,
		Size:     int64(len(data)),
	}
}

// NewDirectory creates a directory node, children are kept in the given order.
func NewDirectory(name string, children ...Node) *Directory {
	return &Directory{
		Entry:    Entry{name},
		Children: children,
	}
}

// NewSymlink creates a symbolic link node.
func NewSymlink(name, target string) *Symlink {
	return &Symlink{
		Entry:  Entry{name},
		Target: target,
	}
}

// NewUnsupported creates a node for an entry of the given unsupported type.
func NewUnsupported(name string, typ fsys.Type) *Unsupported {
	return &Unsupported{
		Entry: Entry{name},
		Type:  typ,
	}
}

// Hash returns the keccak256 hash of the file contents.
func (file *File) Hash() common.Hash {
	return crypto.Keccak256Hash(file.Data)
}

// Snapshot is a captured tree along with the absolute source path, which is kept for
// diagnostics only and never used on restore.
type Snapshot struct {
	Root       Node
	SourcePath string
}
