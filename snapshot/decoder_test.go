package snapshot_test

import (
	"context"
	"testing"

	"github.com/0glabs/0g-snapshot/common"
	"github.com/0glabs/0g-snapshot/common/fsys"
	"github.com/0glabs/0g-snapshot/snapshot"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDestinationFs(t *testing.T) *fsys.MemFs {
	m := fsys.NewMemFs()
	require.NoError(t, m.Mkdir("/tmp"))
	return m
}

// assertSameTree checks that both directory trees have the same entries, whatever the order of
// children and the root names.
func assertSameTree(t *testing.T, expected, actual snapshot.Node) {
	result, err := snapshot.Diff(expected, actual)
	require.NoError(t, err)
	assert.Equal(t, snapshot.DiffStatusUnchanged, result.Status)
}

func TestDecodeDocument(t *testing.T) {
	snap, err := snapshot.UnmarshalDocument([]byte(
		`{"type":"dir","path":"root","children":[{"type":"file","path":"a.txt","encoding":"text","contents":"hi","size":2}]}`,
	))
	require.NoError(t, err)

	m := newDestinationFs(t)
	require.NoError(t, snapshot.NewDecoder(m).Restore(context.Background(), snap, "/tmp/out"))

	info, err := m.Lstat("/tmp/out")
	require.NoError(t, err)
	assert.Equal(t, fsys.TypeDirectory, info.Type)

	// the root name is not part of any restored path
	_, err = m.Lstat("/tmp/out/root")
	assert.Error(t, err)

	data, err := m.ReadFile("/tmp/out/a.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("hi"), data)
}

func TestDecodeTree(t *testing.T) {
	for _, routines := range []int{1, 4} {
		m := newDestinationFs(t)
		decoder := snapshot.NewDecoder(m, snapshot.DecoderOption{Routines: routines})

		require.NoError(t, decoder.Decode(context.Background(), exampleTree(), "/tmp/out/"))

		data, err := m.ReadFile("/tmp/out/image.bin")
		require.NoError(t, err)
		assert.Equal(t, []byte{0x00, 0xff, 0x7f}, data)

		data, err = m.ReadFile("/tmp/out/subdir/file2.txt")
		require.NoError(t, err)
		assert.Equal(t, []byte("nested"), data)

		target, err := m.Readlink("/tmp/out/link")
		require.NoError(t, err)
		assert.Equal(t, "../target", target)

		names, err := m.ReadDir("/tmp/out/subdir/empty")
		require.NoError(t, err)
		assert.Empty(t, names)

		// the fifo is skipped
		_, err = m.Lstat("/tmp/out/pipe")
		assert.Error(t, err)

		// captured back, the tree only lacks the unsupported entry
		root, err := snapshot.NewEncoder(m).Encode(context.Background(), "/tmp/out")
		require.NoError(t, err)

		expected := exampleTree()
		expected.Children = expected.Children[:4]
		assertSameTree(t, expected, root)
	}
}

func TestDecodeSingleEntries(t *testing.T) {
	m := newDestinationFs(t)
	decoder := snapshot.NewDecoder(m)

	require.NoError(t, decoder.Decode(context.Background(), snapshot.NewSymlink("link", "../target"), "/tmp/link"))
	target, err := m.Readlink("/tmp/link")
	require.NoError(t, err)
	assert.Equal(t, "../target", target)

	require.NoError(t, decoder.Decode(context.Background(), snapshot.NewFile("f", snapshot.EncodingText, []byte("x")), "/tmp/f"))
	data, err := m.ReadFile("/tmp/f")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), data)
}

func TestDecodeExistingDestination(t *testing.T) {
	m := newDestinationFs(t)
	require.NoError(t, m.WriteFile("/tmp/out", []byte("occupied")))
	entries := m.Len()

	err := snapshot.NewDecoder(m).Decode(context.Background(), exampleTree(), "/tmp/out")
	assert.ErrorIs(t, err, snapshot.ErrAlreadyExists)
	assert.Equal(t, entries, m.Len())

	data, err := m.ReadFile("/tmp/out")
	require.NoError(t, err)
	assert.Equal(t, []byte("occupied"), data)
}

func TestDecodeUnsupported(t *testing.T) {
	logger, hook := test.NewNullLogger()

	root := snapshot.NewDirectory("root",
		snapshot.NewUnsupported("sock", fsys.TypeSocket),
		snapshot.NewFile("after.txt", snapshot.EncodingText, []byte("after")),
	)

	m := newDestinationFs(t)
	decoder := snapshot.NewDecoder(m, snapshot.DecoderOption{
		LogOption: common.LogOption{Logger: logger},
	})
	require.NoError(t, decoder.Decode(context.Background(), root, "/tmp/out"))

	_, err := m.Lstat("/tmp/out/sock")
	assert.Error(t, err)

	data, err := m.ReadFile("/tmp/out/after.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("after"), data)

	var warned bool
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel && entry.Data["path"] == "/tmp/out/sock" {
			warned = true
		}
	}
	assert.True(t, warned)

	// an unsupported root is skipped as well
	require.NoError(t, decoder.Decode(context.Background(), snapshot.NewUnsupported("p", fsys.TypeFIFO), "/tmp/p"))
	_, err = m.Lstat("/tmp/p")
	assert.Error(t, err)
}

func TestDecodeIOFailure(t *testing.T) {
	root := snapshot.NewDirectory("root",
		snapshot.NewFile("a.txt", snapshot.EncodingText, []byte("a")),
		snapshot.NewFile("b.txt", snapshot.EncodingText, []byte("b")),
		snapshot.NewFile("c.txt", snapshot.EncodingText, []byte("c")),
		snapshot.NewDirectory("sub"),
	)

	for _, routines := range []int{1, 4} {
		m := &faultyFs{MemFs: newDestinationFs(t), failPath: "/tmp/out/b.txt"}
		decoder := snapshot.NewDecoder(m, snapshot.DecoderOption{Routines: routines})

		err := decoder.Decode(context.Background(), root, "/tmp/out")
		assert.ErrorIs(t, err, snapshot.ErrIOFailure)
		assert.ErrorIs(t, err, errDisk)
		assert.EqualError(t, err, "failed to write file /tmp/out/b.txt: disk failure")

		// the restore stops before descending into subdirectories
		_, err = m.Lstat("/tmp/out/sub")
		assert.Error(t, err)
	}
}

func TestDecodeMissingParent(t *testing.T) {
	err := snapshot.NewDecoder(fsys.NewMemFs()).Decode(context.Background(), exampleTree(), "/missing/out")
	assert.ErrorIs(t, err, snapshot.ErrIOFailure)
}

func TestDecodeNilRoot(t *testing.T) {
	err := snapshot.NewDecoder(fsys.NewMemFs()).Decode(context.Background(), nil, "/out")
	assert.ErrorIs(t, err, snapshot.ErrMalformedDocument)
}

func TestDecodeInvalidChildName(t *testing.T) {
	for _, name := range []string{"../escape", "..", ".", "", "a/b"} {
		root := snapshot.NewDirectory("root",
			snapshot.NewDirectory("sub", snapshot.NewFile(name, snapshot.EncodingText, []byte("x"))),
		)

		m := newDestinationFs(t)
		err := snapshot.NewDecoder(m).Decode(context.Background(), root, "/tmp/out")
		assert.ErrorIs(t, err, snapshot.ErrMalformedDocument, "name %q", name)

		// nothing is written inside or next to the offending directory
		_, err = m.Lstat("/tmp/out/sub")
		assert.Error(t, err)
		_, err = m.Lstat("/tmp/out/escape")
		assert.Error(t, err)
		_, err = m.Lstat("/tmp/escape")
		assert.Error(t, err)
	}
}
