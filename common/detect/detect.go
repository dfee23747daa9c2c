// Package detect decides whether file contents should be treated as text or binary data.
package detect

import (
	"bytes"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gabriel-vasile/mimetype"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
)

const textMIME = "text/plain"

// Predicate reports whether the contents of the file at path are text.
type Predicate func(path string, data []byte) bool

var binaryExtensions = map[string]struct{}{
	".7z": {}, ".a": {}, ".avi": {}, ".bin": {}, ".bmp": {}, ".bz2": {}, ".class": {}, ".dll": {},
	".dylib": {}, ".exe": {}, ".gif": {}, ".gz": {}, ".ico": {}, ".jar": {}, ".jpeg": {}, ".jpg": {},
	".mov": {}, ".mp3": {}, ".mp4": {}, ".o": {}, ".pdf": {}, ".png": {}, ".so": {}, ".tar": {},
	".wasm": {}, ".webp": {}, ".xz": {}, ".zip": {}, ".zst": {},
}

// IsText is the default Predicate. Data with NUL bytes or invalid UTF-8 is never text, files
// with well-known binary extensions are not text, and everything else must be detected as a
// descendant of text/plain.
func IsText(path string, data []byte) bool {
	if !utf8.Valid(data) || bytes.IndexByte(data, 0) >= 0 {
		return false
	}

	if _, ok := binaryExtensions[strings.ToLower(filepath.Ext(path))]; ok {
		return false
	}

	if len(data) == 0 {
		return true
	}

	for mime := mimetype.Detect(data); mime != nil; mime = mime.Parent() {
		if mime.Is(textMIME) {
			return true
		}
	}

	return false
}

type cacheKey struct {
	ext  string
	hash common.Hash
}

// Cached wraps a predicate with an LRU cache keyed by the lower-cased file extension and the
// content hash. The predicate must not depend on any other part of the path.
func Cached(predicate Predicate, size int) (Predicate, error) {
	cache, err := lru.New[cacheKey, bool](size)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create classification cache")
	}

	return func(path string, data []byte) bool {
		key := cacheKey{
			ext:  strings.ToLower(filepath.Ext(path)),
			hash: crypto.Keccak256Hash(data),
		}
		if isText, ok := cache.Get(key); ok {
			return isText
		}

		isText := predicate(path, data)
		cache.Add(key, isText)

		return isText
	}, nil
}
