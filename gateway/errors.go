package gateway

import (
	"github.com/0glabs/0g-snapshot/common/api"
	"github.com/0glabs/0g-snapshot/snapshot"
	"github.com/pkg/errors"
)

// Snapshot errors
var (
	ErrSourceNotFound    = api.NewBusinessError(101, "Source path not found")
	ErrDestinationExists = api.NewBusinessError(102, "Destination path already exists")
	ErrUnsupportedRoot   = api.NewBusinessError(103, "Unsupported root type")
	ErrMalformedDocument = api.NewBusinessError(104, "Malformed document")
)

// toBusinessError maps snapshot errors to business errors, other errors are left as is.
func toBusinessError(err error) error {
	switch {
	case errors.Is(err, snapshot.ErrNotFound):
		return ErrSourceNotFound.WithData(err.Error())
	case errors.Is(err, snapshot.ErrAlreadyExists):
		return ErrDestinationExists.WithData(err.Error())
	case errors.Is(err, snapshot.ErrUnsupportedRootType):
		return ErrUnsupportedRoot.WithData(err.Error())
	case errors.Is(err, snapshot.ErrMalformedDocument):
		return ErrMalformedDocument.WithData(err.Error())
	default:
		return err
	}
}
