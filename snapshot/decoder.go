package snapshot

import (
	"context"
	"io/fs"
	"time"

	zgcommon "github.com/0glabs/0g-snapshot/common"
	"github.com/0glabs/0g-snapshot/common/fsys"
	"github.com/0glabs/0g-snapshot/common/parallel"
	"github.com/0glabs/0g-snapshot/common/util"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DecoderOption configures a Decoder.
type DecoderOption struct {
	zgcommon.LogOption

	Routines       int           // Number of files written concurrently within a directory
	ReportInterval time.Duration // Interval to report progress at info level, 0 to disable
}

// Decoder restores Node trees onto a filesystem.
type Decoder struct {
	fs     fsys.Writer
	opt    DecoderOption
	logger *logrus.Logger
}

// NewDecoder creates a Decoder writing to the given filesystem.
func NewDecoder(filesystem fsys.Writer, opt ...DecoderOption) *Decoder {
	var o DecoderOption
	if len(opt) > 0 {
		o = opt[0]
	}

	if o.Routines <= 0 {
		o.Routines = 1
	}

	return &Decoder{
		fs:     filesystem,
		opt:    o,
		logger: zgcommon.NewLogger(o.LogOption),
	}
}

// pendingNode is a node to restore at its resolved path.
type pendingNode struct {
	node Node
	path string
}

// Restore decodes the snapshot root at destination.
func (decoder *Decoder) Restore(ctx context.Context, snap *Snapshot, destination string) error {
	return decoder.Decode(ctx, snap.Root, destination)
}

// Decode recreates the tree of root at destination, which must not exist yet. The root name is
// ignored and every other node is created at its parent path joined with its name. Directories
// are created before any of their children. Unsupported nodes are reported and skipped, while any
// other failure aborts the restore, leaving already created entries on disk.
func (decoder *Decoder) Decode(ctx context.Context, root Node, destination string) error {
	if root == nil {
		return errors.WithMessage(ErrMalformedDocument, "no root node to decode")
	}

	destination = fsys.TrimTrailingSlash(destination)

	if _, err := decoder.fs.Lstat(destination); err == nil {
		return errors.WithMessagef(ErrAlreadyExists, "target file/folder '%s'", destination)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return newIOError("stat", destination, err)
	}

	decoder.logger.WithField("path", destination).Debug("Writing back the original file structure")

	reminder := util.NewReminder(decoder.logger, decoder.opt.ReportInterval)
	nodes := 0

	stack := []pendingNode{{root, destination}}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		dir, ok := current.node.(*Directory)
		if !ok {
			// only reachable for a root that is not a directory
			if err := decoder.decodeLeaf(current.node, current.path); err != nil {
				return err
			}
			nodes++
			continue
		}

		subdirs, err := decoder.decodeDirectory(ctx, dir, current.path)
		if err != nil {
			return err
		}

		nodes += 1 + len(dir.Children) - len(subdirs)
		reminder.RemindWith("Restoring file system tree", "nodes", nodes)

		for i := len(subdirs) - 1; i >= 0; i-- {
			stack = append(stack, subdirs[i])
		}
	}

	return nil
}

// decodeDirectory creates the directory, then its files, symbolic links and unsupported
// children. Subdirectories are returned to be decoded later.
func (decoder *Decoder) decodeDirectory(ctx context.Context, dir *Directory, path string) ([]pendingNode, error) {
	decoder.logger.Debugf("%s (dir)", path)

	for _, child := range dir.Children {
		if child == nil {
			return nil, errors.WithMessagef(ErrMalformedDocument, "nil child in directory %s", path)
		}
		if name := NameOf(child); !fsys.ValidName(name) {
			return nil, errors.WithMessagef(ErrMalformedDocument, "invalid name '%s' in directory %s", name, path)
		}
	}

	if err := decoder.fs.Mkdir(path); err != nil {
		return nil, newIOError("create directory", path, err)
	}

	writer := fileWriter{decoder: decoder}
	var subdirs []pendingNode

	for _, child := range dir.Children {
		childPath := fsys.Join(path, NameOf(child))

		switch n := child.(type) {
		case *Directory:
			subdirs = append(subdirs, pendingNode{n, childPath})
		case *File:
			writer.files = append(writer.files, n)
			writer.paths = append(writer.paths, childPath)
		default:
			if err := decoder.decodeLeaf(child, childPath); err != nil {
				return nil, err
			}
		}
	}

	if err := writer.write(ctx); err != nil {
		return nil, err
	}

	return subdirs, nil
}

// decodeLeaf restores any node other than a directory.
func (decoder *Decoder) decodeLeaf(node Node, path string) error {
	switch n := node.(type) {
	case *File:
		return decoder.decodeFile(n, path)
	case *Symlink:
		decoder.logger.Debugf("%s (symlink)", path)
		if err := decoder.fs.Symlink(n.Target, path); err != nil {
			return newIOError("create symbolic link", path, err)
		}
		return nil
	case *Unsupported:
		decoder.logger.WithFields(logrus.Fields{
			"path": path,
			"type": n.Type,
		}).Warn("Cannot recreate entry of unsupported type")
		return nil
	case *Directory:
		return errors.Errorf("directory %s is not a leaf", path)
	default:
		return errors.Errorf("unknown node type %T at %s", node, path)
	}
}

func (decoder *Decoder) decodeFile(file *File, path string) error {
	decoder.logger.Debugf("%s (file, %v, %s)", path, common.StorageSize(len(file.Data)), file.Encoding)

	if file.Size != int64(len(file.Data)) {
		decoder.logger.WithFields(logrus.Fields{
			"path":     path,
			"size":     file.Size,
			"contents": len(file.Data),
		}).Debug("Recorded size differs from contents length")
	}

	if err := decoder.fs.WriteFile(path, file.Data); err != nil {
		return newIOError("write file", path, err)
	}

	return nil
}

var _ parallel.Interface = (*fileWriter)(nil)

// fileWriter writes the files of a directory that has already been created.
type fileWriter struct {
	decoder *Decoder
	files   []*File
	paths   []string
}

func (writer *fileWriter) write(ctx context.Context) error {
	routines := writer.decoder.opt.Routines
	if routines <= 1 || len(writer.files) <= 1 {
		for i, file := range writer.files {
			if err := writer.decoder.decodeFile(file, writer.paths[i]); err != nil {
				return err
			}
		}
		return nil
	}

	return parallel.Serial(ctx, writer, len(writer.files), parallel.SerialOption{
		Routines: routines,
		Window:   routines,
	})
}

// ParallelDo implements the parallel.Interface interface.
func (writer *fileWriter) ParallelDo(ctx context.Context, routine, task int) (interface{}, error) {
	return nil, writer.decoder.decodeFile(writer.files[task], writer.paths[task])
}

// ParallelCollect implements the parallel.Interface interface.
func (writer *fileWriter) ParallelCollect(result *parallel.Result) error {
	return nil
}
