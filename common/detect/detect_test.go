package detect_test

import (
	"testing"

	"github.com/0glabs/0g-snapshot/common/detect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsText(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		data     []byte
		expected bool
	}{
		{"plain text", "a.txt", []byte("hello, world\n"), true},
		{"empty file", "empty", []byte{}, true},
		{"json", "data.json", []byte(`{"key": "value"}`), true},
		{"utf8 text", "notes.md", []byte("héllo wörld ✓\n"), true},
		{"nul byte", "a.txt", []byte("abc\x00def"), false},
		{"invalid utf8", "a.txt", []byte{0xff, 0xfe, 0xfd}, false},
		{"binary extension", "image.png", []byte("looks like text"), false},
		{"png header", "noext", []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, detect.IsText(tt.path, tt.data))
		})
	}
}

func TestCached(t *testing.T) {
	calls := 0
	predicate := func(path string, data []byte) bool {
		calls++
		return detect.IsText(path, data)
	}

	cached, err := detect.Cached(predicate, 16)
	require.NoError(t, err)

	assert.True(t, cached("/d/b.txt", []byte("same")))
	assert.True(t, cached("/e/c.TXT", []byte("same")))
	assert.Equal(t, 1, calls)

	// the extension takes part in the classification
	assert.False(t, cached("/e/a.png", []byte("same")))
	assert.Equal(t, 2, calls)
	assert.True(t, cached("/d/b.txt", []byte("same")))
	assert.Equal(t, 2, calls)

	assert.False(t, cached("/d/b.txt", []byte{0xff, 0xfe}))
	assert.Equal(t, 3, calls)

	_, err = detect.Cached(predicate, 0)
	assert.Error(t, err)
}

func TestCachedEviction(t *testing.T) {
	cached, err := detect.Cached(detect.IsText, 1)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		assert.True(t, cached("/d/b.txt", []byte("hello world\n")))
		assert.False(t, cached("/e/a.png", []byte("hello world\n")))
	}
}
