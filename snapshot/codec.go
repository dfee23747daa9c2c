package snapshot

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// Format is the framing of a serialized snapshot.
type Format string

const (
	FormatJSON   Format = "json"   // Plain JSON document
	FormatPacked Format = "packed" // JSON document in a checksummed binary envelope
	FormatUnixFS Format = "unixfs" // JSON document in a UnixFS raw node
)

var (
	CodecVersion    = uint16(1)
	CodecMagicBytes = crypto.Keccak256([]byte("0g-snapshot-codec"))

	checksumSize = len(crypto.Keccak256(nil))
)

// ParseFormat converts a format name into a Format.
func ParseFormat(name string) (Format, error) {
	switch format := Format(name); format {
	case FormatJSON, FormatPacked, FormatUnixFS:
		return format, nil
	default:
		return "", errors.Errorf("unsupported format '%s', expected one of json, packed, unixfs", name)
	}
}

// DetectFormat guesses the format of serialized data.
func DetectFormat(data []byte) Format {
	if bytes.HasPrefix(data, CodecMagicBytes) {
		return FormatPacked
	}

	if trimmed := bytes.TrimLeft(data, " \t\r\n"); len(trimmed) > 0 && trimmed[0] == '{' {
		return FormatJSON
	}

	return FormatUnixFS
}

// Marshal serializes the snapshot in the given format.
func Marshal(snap *Snapshot, format Format, indent bool) ([]byte, error) {
	document, err := MarshalDocument(snap, indent && format == FormatJSON)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatJSON:
		return document, nil
	case FormatPacked:
		return Pack(document)
	case FormatUnixFS:
		return WrapUnixFS(document)
	default:
		return nil, errors.Errorf("unsupported format '%s'", format)
	}
}

// Unmarshal deserializes a snapshot, detecting its format automatically.
func Unmarshal(data []byte) (*Snapshot, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.WithMessage(ErrMalformedDocument, "empty document")
	}

	var (
		document []byte
		err      error
	)

	switch DetectFormat(data) {
	case FormatPacked:
		document, err = Unpack(data)
	case FormatUnixFS:
		document, err = UnwrapUnixFS(data)
	default:
		document = data
	}

	if err != nil {
		return nil, err
	}

	return UnmarshalDocument(document)
}

// Pack frames a document into the binary envelope:
// MagicBytes + CodecVersion (2 bytes) + Document Length (4 bytes) + Checksum + Document.
func Pack(document []byte) ([]byte, error) {
	if len(document) > math.MaxUint32 {
		return nil, errors.New("document too large")
	}

	totalLength := len(CodecMagicBytes) + 2 + 4 + checksumSize + len(document)
	data := make([]byte, 0, totalLength)

	data = append(data, CodecMagicBytes...)
	data = binary.BigEndian.AppendUint16(data, CodecVersion)
	data = binary.BigEndian.AppendUint32(data, uint32(len(document)))
	data = append(data, crypto.Keccak256(document)...)
	data = append(data, document...)

	return data, nil
}

// Unpack verifies the binary envelope and returns the framed document.
func Unpack(data []byte) ([]byte, error) {
	offset := 0

	if len(data) < offset+len(CodecMagicBytes) {
		return nil, errors.WithMessage(ErrMalformedDocument, "not enough data to read magic bytes")
	}
	if !bytes.Equal(data[:len(CodecMagicBytes)], CodecMagicBytes) {
		return nil, errors.WithMessage(ErrMalformedDocument, "invalid magic bytes")
	}
	offset += len(CodecMagicBytes)

	if len(data) < offset+2 {
		return nil, errors.WithMessage(ErrMalformedDocument, "not enough data to read codec version")
	}
	if version := binary.BigEndian.Uint16(data[offset:]); version != CodecVersion {
		return nil, errors.WithMessagef(ErrMalformedDocument, "unsupported codec version: got %d, expected %d", version, CodecVersion)
	}
	offset += 2

	if len(data) < offset+4 {
		return nil, errors.WithMessage(ErrMalformedDocument, "not enough data to read document length")
	}
	length := int64(binary.BigEndian.Uint32(data[offset:]))
	offset += 4

	if len(data) < offset+checksumSize {
		return nil, errors.WithMessage(ErrMalformedDocument, "not enough data to read checksum")
	}
	checksum := data[offset : offset+checksumSize]
	offset += checksumSize

	if int64(len(data)-offset) != length {
		return nil, errors.WithMessagef(ErrMalformedDocument, "document length mismatch: got %d, expected %d", len(data)-offset, length)
	}
	document := data[offset:]

	if !bytes.Equal(crypto.Keccak256(document), checksum) {
		return nil, errors.WithMessage(ErrMalformedDocument, "checksum mismatch")
	}

	return document, nil
}
