package snapshot

import (
	"github.com/ipfs/go-unixfsnode/data"
	"github.com/ipfs/go-unixfsnode/data/builder"
	"github.com/pkg/errors"
)

// WrapUnixFS embeds a document into a UnixFS raw data node.
func WrapUnixFS(document []byte) ([]byte, error) {
	ufs, err := builder.BuildUnixFS(func(b *builder.Builder) {
		builder.DataType(b, data.Data_Raw)
		builder.Data(b, document)
	})
	if err != nil {
		return nil, errors.WithMessage(err, "failed to build UnixFS node")
	}

	return data.EncodeUnixFSData(ufs), nil
}

// UnwrapUnixFS extracts a document from a UnixFS raw data node.
func UnwrapUnixFS(b []byte) ([]byte, error) {
	ufs, err := data.DecodeUnixFSData(b)
	if err != nil {
		return nil, errors.WithMessagef(ErrMalformedDocument, "failed to decode UnixFS data: %v", err)
	}

	if ufs.FieldDataType().Int() != data.Data_Raw {
		return nil, errors.WithMessage(ErrMalformedDocument, "unexpected UnixFS data type, expected raw data")
	}

	if !ufs.FieldData().Exists() {
		return nil, errors.WithMessage(ErrMalformedDocument, "UnixFS node without data")
	}

	return ufs.FieldData().Must().Bytes(), nil
}
