package snapshot

import (
	"bytes"
	"encoding/base64"
	"encoding/json"

	"github.com/0glabs/0g-snapshot/common/fsys"
	"github.com/pkg/errors"
)

var (
	_ json.Marshaler   = (*Snapshot)(nil)
	_ json.Unmarshaler = (*Snapshot)(nil)
)

// jsonNode is the document representation of a Node. Pointer fields distinguish absent fields
// from zero values, so that required fields can be validated.
type jsonNode struct {
	Type     string       `json:"type"`
	Path     string       `json:"path"`
	PathAbs  string       `json:"pathAbs,omitempty"`  // Absolute source path (root only)
	Encoding Encoding     `json:"encoding,omitempty"` // Contents encoding (only for files)
	Contents *string      `json:"contents,omitempty"` // Text or base64 contents (only for files)
	Size     *int64       `json:"size,omitempty"`     // Byte length (only for files)
	Children *[]*jsonNode `json:"children,omitempty"` // Ordered entries (only for directories)
	Target   *string      `json:"target,omitempty"`   // Link target (only for symbolic links)
}

func newJSONNode(node Node) (*jsonNode, error) {
	result := jsonNode{Path: NameOf(node)}

	switch n := node.(type) {
	case *File:
		var contents string
		switch n.Encoding {
		case EncodingText:
			contents = string(n.Data)
		case EncodingBinary:
			contents = base64.StdEncoding.EncodeToString(n.Data)
		default:
			return nil, errors.Errorf("invalid encoding '%s' of file %s", n.Encoding, n.Name)
		}
		size := n.Size
		result.Type = string(fsys.TypeRegular)
		result.Encoding = n.Encoding
		result.Contents = &contents
		result.Size = &size
	case *Directory:
		children := make([]*jsonNode, 0, len(n.Children))
		for _, child := range n.Children {
			jchild, err := newJSONNode(child)
			if err != nil {
				return nil, err
			}
			children = append(children, jchild)
		}
		result.Type = string(fsys.TypeDirectory)
		result.Children = &children
	case *Symlink:
		target := n.Target
		result.Type = string(fsys.TypeSymlink)
		result.Target = &target
	case *Unsupported:
		result.Type = string(n.Type)
	default:
		return nil, errors.Errorf("unknown node type %T", node)
	}

	return &result, nil
}

// toNode validates the document node and converts it into a Node. The root name is not
// validated, since decoders ignore it.
func (j *jsonNode) toNode(relpath string, root bool) (Node, error) {
	if !root && !fsys.ValidName(j.Path) {
		return nil, malformed(relpath, "invalid path segment '%s'", j.Path)
	}

	typ, ok := fsys.ParseType(j.Type)
	if !ok {
		return nil, malformed(relpath, "unknown type '%s'", j.Type)
	}

	switch typ {
	case fsys.TypeRegular:
		return j.toFile(relpath)
	case fsys.TypeDirectory:
		return j.toDirectory(relpath)
	case fsys.TypeSymlink:
		if j.Target == nil || *j.Target == "" {
			return nil, malformed(relpath, "symlink without target")
		}
		return NewSymlink(j.Path, *j.Target), nil
	default:
		return NewUnsupported(j.Path, typ), nil
	}
}

func (j *jsonNode) toFile(relpath string) (Node, error) {
	if j.Contents == nil {
		return nil, malformed(relpath, "file without contents")
	}

	var data []byte
	switch j.Encoding {
	case EncodingText:
		data = []byte(*j.Contents)
	case EncodingBinary:
		var err error
		if data, err = base64.StdEncoding.DecodeString(*j.Contents); err != nil {
			return nil, malformed(relpath, "invalid base64 contents: %v", err)
		}
	default:
		return nil, malformed(relpath, "invalid encoding '%s'", j.Encoding)
	}

	file := NewFile(j.Path, j.Encoding, data)
	if j.Size != nil {
		if *j.Size < 0 {
			return nil, malformed(relpath, "negative size %d", *j.Size)
		}
		file.Size = *j.Size
	}

	return file, nil
}

func (j *jsonNode) toDirectory(relpath string) (Node, error) {
	if j.Children == nil {
		return nil, malformed(relpath, "directory without children")
	}

	dir := NewDirectory(j.Path)
	names := make(map[string]struct{}, len(*j.Children))

	for i, jchild := range *j.Children {
		if jchild == nil {
			return nil, malformed(relpath, "null child at index %d", i)
		}

		if _, ok := names[jchild.Path]; ok {
			return nil, malformed(relpath, "duplicate child '%s'", jchild.Path)
		}
		names[jchild.Path] = struct{}{}

		child, err := jchild.toNode(fsys.Join(relpath, jchild.Path), false)
		if err != nil {
			return nil, err
		}
		dir.Children = append(dir.Children, child)
	}

	return dir, nil
}

func (snap *Snapshot) toJSON() (*jsonNode, error) {
	if snap.Root == nil {
		return nil, errors.New("snapshot has no root node")
	}

	root, err := newJSONNode(snap.Root)
	if err != nil {
		return nil, err
	}
	root.PathAbs = snap.SourcePath

	return root, nil
}

// MarshalJSON implements the json.Marshaler interface.
func (snap *Snapshot) MarshalJSON() ([]byte, error) {
	root, err := snap.toJSON()
	if err != nil {
		return nil, err
	}

	return json.Marshal(root)
}

// UnmarshalJSON implements the json.Unmarshaler interface. Any schema violation is reported as
// ErrMalformedDocument.
func (snap *Snapshot) UnmarshalJSON(data []byte) error {
	var root *jsonNode
	if err := json.Unmarshal(data, &root); err != nil {
		return errors.WithMessagef(ErrMalformedDocument, "invalid JSON: %v", err)
	}

	if root == nil {
		return errors.WithMessage(ErrMalformedDocument, "document is null")
	}

	node, err := root.toNode(root.Path, true)
	if err != nil {
		return err
	}

	snap.Root = node
	snap.SourcePath = root.PathAbs

	return nil
}

// MarshalDocument serializes the snapshot as a JSON document terminated by a newline.
func MarshalDocument(snap *Snapshot, indent bool) ([]byte, error) {
	root, err := snap.toJSON()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if indent {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(root); err != nil {
		return nil, errors.WithMessage(err, "failed to marshal snapshot to JSON")
	}

	return buf.Bytes(), nil
}

// UnmarshalDocument parses and validates a JSON document.
func UnmarshalDocument(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := snap.UnmarshalJSON(data); err != nil {
		return nil, err
	}

	return &snap, nil
}
