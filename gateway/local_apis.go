package gateway

import (
	"encoding/json"
	"path/filepath"

	"github.com/0glabs/0g-snapshot/common"
	"github.com/0glabs/0g-snapshot/common/api"
	"github.com/0glabs/0g-snapshot/common/detect"
	"github.com/0glabs/0g-snapshot/common/fsys"
	"github.com/0glabs/0g-snapshot/snapshot"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// dryRunRoot is where documents are restored in memory to validate them.
const dryRunRoot = "/dry-run"

type controller struct {
	config Config
	fs     fsys.Provider
	isText detect.Predicate
	logger *logrus.Logger
}

func (ctrl *controller) getFilePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(ctrl.config.Repo, path)
}

// bind decodes the JSON request body. Malformed bodies are reported as validation errors.
func bind(c *gin.Context, input interface{}) error {
	err := c.ShouldBindJSON(input)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return validationErrors
	}

	return api.ErrValidation.WithData(err.Error())
}

func (ctrl *controller) capture(c *gin.Context) (interface{}, error) {
	var input struct {
		Path             string `json:"path" binding:"required"`
		Format           string `json:"format"`
		PruneUnsupported bool   `json:"pruneUnsupported"`
	}

	if err := bind(c, &input); err != nil {
		return nil, err
	}

	format := snapshot.FormatJSON
	if input.Format != "" {
		var err error
		if format, err = snapshot.ParseFormat(input.Format); err != nil {
			return nil, api.ErrValidation.WithData(err.Error())
		}
	}

	encoder := snapshot.NewEncoder(ctrl.fs, snapshot.EncoderOption{
		LogOption:        common.LogOption{Logger: ctrl.logger},
		IsText:           ctrl.isText,
		Routines:         ctrl.config.Routines,
		PruneUnsupported: input.PruneUnsupported,
	})

	snap, err := encoder.Capture(c.Request.Context(), ctrl.getFilePath(input.Path))
	if err != nil {
		return nil, toBusinessError(err)
	}

	ctrl.logger.WithFields(logrus.Fields{
		"path":   snap.SourcePath,
		"format": format,
	}).Debug("Succeeded to capture file system tree")

	// other formats are returned as base64 encoded bytes
	if format == snapshot.FormatJSON {
		return snap, nil
	}

	return snapshot.Marshal(snap, format, false)
}

func (ctrl *controller) restore(c *gin.Context) (interface{}, error) {
	var input struct {
		Destination string          `json:"destination" binding:"required"`
		Document    json.RawMessage `json:"document" binding:"required"`
		Subpath     string          `json:"subpath"`
		DryRun      bool            `json:"dryRun"`
	}

	if err := bind(c, &input); err != nil {
		return nil, err
	}

	snap, err := snapshot.UnmarshalDocument(input.Document)
	if err != nil {
		return nil, toBusinessError(err)
	}

	root := snap.Root
	if input.Subpath != "" {
		if root, err = snapshot.Locate(root, input.Subpath); err != nil {
			return nil, api.ErrValidation.WithData(err.Error())
		}
	}

	destination := ctrl.getFilePath(input.Destination)
	opt := snapshot.DecoderOption{
		LogOption: common.LogOption{Logger: ctrl.logger},
		Routines:  ctrl.config.Routines,
	}

	if !input.DryRun {
		if err = snapshot.NewDecoder(ctrl.fs, opt).Decode(c.Request.Context(), root, destination); err != nil {
			return nil, toBusinessError(err)
		}

		return nil, nil
	}

	// dry run against an empty in-memory file system, with the destination checked for real
	if _, err = ctrl.fs.Lstat(destination); err == nil {
		return nil, ErrDestinationExists.WithData(destination)
	}

	memfs := fsys.NewMemFs()
	if err = snapshot.NewDecoder(memfs, opt).Decode(c.Request.Context(), root, dryRunRoot); err != nil {
		return nil, toBusinessError(err)
	}

	return map[string]interface{}{
		"destination": destination,
		"entries":     memfs.Len() - 1,
	}, nil
}

func (ctrl *controller) list(c *gin.Context) (interface{}, error) {
	var input struct {
		Document json.RawMessage `json:"document" binding:"required"`
	}

	if err := bind(c, &input); err != nil {
		return nil, err
	}

	snap, err := snapshot.UnmarshalDocument(input.Document)
	if err != nil {
		return nil, toBusinessError(err)
	}

	_, relpaths := snapshot.Flatten(snap.Root)

	return relpaths, nil
}
