package snapshot

import (
	"context"
	"io/fs"
	"time"
	"unicode/utf8"

	zgcommon "github.com/0glabs/0g-snapshot/common"
	"github.com/0glabs/0g-snapshot/common/detect"
	"github.com/0glabs/0g-snapshot/common/fsys"
	"github.com/0glabs/0g-snapshot/common/parallel"
	"github.com/0glabs/0g-snapshot/common/util"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// EncoderOption configures an Encoder.
type EncoderOption struct {
	zgcommon.LogOption

	IsText           detect.Predicate // Text classification, defaults to detect.IsText
	Routines         int              // Number of files read concurrently within a directory
	PruneUnsupported bool             // Whether to drop entries of unsupported types from the tree
	ReportInterval   time.Duration    // Interval to report progress at info level, 0 to disable
}

// Encoder captures filesystem trees into Node trees.
type Encoder struct {
	fs     fsys.Reader
	opt    EncoderOption
	logger *logrus.Logger
}

// NewEncoder creates an Encoder reading from the given filesystem.
func NewEncoder(filesystem fsys.Reader, opt ...EncoderOption) *Encoder {
	var o EncoderOption
	if len(opt) > 0 {
		o = opt[0]
	}

	if o.IsText == nil {
		o.IsText = detect.IsText
	}

	if o.Routines <= 0 {
		o.Routines = 1
	}

	return &Encoder{
		fs:     filesystem,
		opt:    o,
		logger: zgcommon.NewLogger(o.LogOption),
	}
}

// pendingDir is a directory node whose children are not captured yet.
type pendingDir struct {
	node *Directory
	path string
}

// Capture encodes the tree at rootPath and records its absolute path for diagnostics.
func (encoder *Encoder) Capture(ctx context.Context, rootPath string) (*Snapshot, error) {
	root, err := encoder.Encode(ctx, rootPath)
	if err != nil {
		return nil, err
	}

	abs, err := encoder.fs.Abs(fsys.TrimTrailingSlash(rootPath))
	if err != nil {
		encoder.logger.WithError(err).WithField("path", rootPath).Warn("Failed to resolve absolute path")
	}

	return &Snapshot{Root: root, SourcePath: abs}, nil
}

// Encode captures the tree at rootPath depth first. Symbolic links are never followed. Entries
// of unsupported types below the root are reported and kept as Unsupported nodes (or pruned),
// while any other failure aborts the whole capture.
func (encoder *Encoder) Encode(ctx context.Context, rootPath string) (Node, error) {
	rootPath = fsys.TrimTrailingSlash(rootPath)

	info, err := encoder.fs.Lstat(rootPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.WithMessagef(ErrNotFound, "source file/folder '%s'", rootPath)
		}
		return nil, newIOError("stat", rootPath, err)
	}

	if !info.Type.Supported() {
		return nil, errors.WithMessagef(ErrUnsupportedRootType, "'%s' is of type %s", rootPath, info.Type)
	}

	encoder.logger.WithField("path", rootPath).Debug("Treating path as file system input")

	root, err := encoder.encodeEntry(rootPath, fsys.Base(rootPath), info)
	if err != nil {
		return nil, err
	}

	reminder := util.NewReminder(encoder.logger, encoder.opt.ReportInterval)
	nodes := 1

	dir, ok := root.(*Directory)
	if !ok {
		return root, nil
	}

	stack := []pendingDir{{dir, rootPath}}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		subdirs, err := encoder.encodeDirectory(ctx, current)
		if err != nil {
			return nil, err
		}

		nodes += len(current.node.Children)
		reminder.RemindWith("Capturing file system tree", "nodes", nodes)

		// push in reverse order to visit subdirectories in listing order
		for i := len(subdirs) - 1; i >= 0; i-- {
			stack = append(stack, subdirs[i])
		}
	}

	return root, nil
}

// encodeEntry creates the node of a single entry. Directories are returned without children.
func (encoder *Encoder) encodeEntry(path, name string, info fsys.Info) (Node, error) {
	switch info.Type {
	case fsys.TypeDirectory:
		encoder.logger.Debugf("%s (dir)", path)
		return NewDirectory(name), nil
	case fsys.TypeSymlink:
		target, err := encoder.fs.Readlink(path)
		if err != nil {
			return nil, newIOError("read symbolic link", path, err)
		}
		encoder.logger.Debugf("%s (symlink)", path)
		return NewSymlink(name, target), nil
	case fsys.TypeRegular:
		return encoder.encodeFile(path, name)
	default:
		encoder.logger.WithFields(logrus.Fields{
			"path": path,
			"type": info.Type,
		}).Warn("Ignoring entry of unsupported type")
		return NewUnsupported(name, info.Type), nil
	}
}

// encodeFile reads the file once and chooses its encoding. Text encoding requires valid UTF-8
// so that contents survive the document round trip whatever the predicate decides.
func (encoder *Encoder) encodeFile(path, name string) (*File, error) {
	data, err := encoder.fs.ReadFile(path)
	if err != nil {
		return nil, newIOError("read file", path, err)
	}

	encoding := EncodingBinary
	if utf8.Valid(data) && encoder.opt.IsText(path, data) {
		encoding = EncodingText
	}

	encoder.logger.Debugf("%s (file, %v, %s)", path, common.StorageSize(len(data)), encoding)

	return NewFile(name, encoding, data), nil
}

// encodeDirectory captures the children of a directory and returns its subdirectories, whose
// children are still to be captured.
func (encoder *Encoder) encodeDirectory(ctx context.Context, dir pendingDir) ([]pendingDir, error) {
	names, err := encoder.fs.ReadDir(dir.path)
	if err != nil {
		return nil, newIOError("read directory", dir.path, err)
	}

	children := make([]Node, len(names))
	loader := fileLoader{encoder: encoder, children: children}

	for i, name := range names {
		path := fsys.Join(dir.path, name)

		info, err := encoder.fs.Lstat(path)
		if err != nil {
			return nil, newIOError("stat", path, err)
		}

		// regular files are loaded below, possibly in parallel
		if info.Type == fsys.TypeRegular {
			loader.indices = append(loader.indices, i)
			loader.paths = append(loader.paths, path)
			loader.names = append(loader.names, name)
			continue
		}

		if children[i], err = encoder.encodeEntry(path, name, info); err != nil {
			return nil, err
		}
	}

	if err := loader.load(ctx); err != nil {
		return nil, err
	}

	var subdirs []pendingDir
	for i, child := range children {
		switch n := child.(type) {
		case *Directory:
			subdirs = append(subdirs, pendingDir{n, fsys.Join(dir.path, names[i])})
		case *Unsupported:
			if encoder.opt.PruneUnsupported {
				continue
			}
		}

		dir.node.Children = append(dir.node.Children, child)
	}

	return subdirs, nil
}

var _ parallel.Interface = (*fileLoader)(nil)

// fileLoader reads and classifies the regular files of a directory.
type fileLoader struct {
	encoder  *Encoder
	children []Node // Children of the directory in listing order

	indices []int // Indices in children of files to load
	paths   []string
	names   []string
}

func (loader *fileLoader) load(ctx context.Context) error {
	routines := loader.encoder.opt.Routines
	if routines <= 1 || len(loader.paths) <= 1 {
		for i := range loader.paths {
			file, err := loader.encoder.encodeFile(loader.paths[i], loader.names[i])
			if err != nil {
				return err
			}
			loader.children[loader.indices[i]] = file
		}
		return nil
	}

	// the window bounds the number of file contents buffered ahead of collection
	return parallel.Serial(ctx, loader, len(loader.paths), parallel.SerialOption{
		Routines: routines,
		Window:   routines,
	})
}

// ParallelDo implements the parallel.Interface interface.
func (loader *fileLoader) ParallelDo(ctx context.Context, routine, task int) (interface{}, error) {
	return loader.encoder.encodeFile(loader.paths[task], loader.names[task])
}

// ParallelCollect implements the parallel.Interface interface.
func (loader *fileLoader) ParallelCollect(result *parallel.Result) error {
	loader.children[loader.indices[result.Task]] = result.Value.(*File)
	return nil
}
