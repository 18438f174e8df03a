package archive

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gzipBytes(t *testing.T, text string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write([]byte(text))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestReadsFromBytes(t *testing.T) {
	src := FromBytes(gzipBytes(t, "usr/bin/foo  pkgA\n"))

	rd, err := src.Open()
	require.NoError(t, err)
	defer rd.Close()

	text, err := io.ReadAll(rd)
	require.NoError(t, err)
	assert.Equal(t, "usr/bin/foo  pkgA\n", string(text))
}

func TestReadsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Contents-amd64.gz")
	require.NoError(t, os.WriteFile(path, gzipBytes(t, "hello\n"), 0o644))

	rd, err := FromFile(path).Open()
	require.NoError(t, err)
	defer rd.Close()

	text, err := io.ReadAll(rd)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(text))
}

func TestSourceIsReopenable(t *testing.T) {
	src := FromBytes(gzipBytes(t, "line\n"))

	for i := 0; i < 2; i++ {
		rd, err := src.Open()
		require.NoError(t, err)
		text, err := io.ReadAll(rd)
		require.NoError(t, err)
		assert.Equal(t, "line\n", string(text))
		rd.Close()
	}
}

func TestRejectsCorruptData(t *testing.T) {
	_, err := FromBytes([]byte("this is not gzip data")).Open()
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestRejectsCorruptDataMidStream(t *testing.T) {
	good := gzipBytes(t, "usr/bin/foo  pkgA\n")
	// Valid header, garbage body.
	mangled := append([]byte{}, good[:12]...)
	mangled = append(mangled, []byte("garbagegarbagegarbage")...)

	rd, err := FromBytes(mangled).Open()
	require.NoError(t, err)
	defer rd.Close()

	_, err = io.ReadAll(rd)
	assert.Error(t, err)
}

func TestMissingFileIsIOFailure(t *testing.T) {
	_, err := FromFile(filepath.Join(t.TempDir(), "nope.gz")).Open()
	assert.ErrorIs(t, err, ErrIO)
}

func TestClassifyPassesThroughClassifiedErrors(t *testing.T) {
	assert := assert.New(t)
	assert.NoError(Classify(nil))
	assert.ErrorIs(Classify(gzip.ErrHeader), ErrCorrupt)
	assert.ErrorIs(Classify(gzip.ErrChecksum), ErrCorrupt)
	assert.ErrorIs(Classify(os.ErrPermission), ErrIO)

	already := Classify(gzip.ErrHeader)
	assert.Equal(already, Classify(already))
}
