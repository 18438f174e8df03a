package archive

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrCorrupt means the byte stream is not valid gzip data.
var ErrCorrupt = errors.New("corrupt archive")

// ErrIO means the underlying file or stream could not be read.
var ErrIO = errors.New("archive read failed")

// Source is a compressed Contents archive, either on disk or already in
// memory. The zero value is not usable; construct with FromFile or FromBytes.
type Source struct {
	path     string
	buf      []byte
	inMemory bool
}

func FromFile(path string) Source {
	return Source{path: path}
}

func FromBytes(buf []byte) Source {
	return Source{buf: buf, inMemory: true}
}

// Open returns a reader over the decompressed text. Each call starts a fresh
// pass; the returned reader itself cannot be rewound.
func (s Source) Open() (*Reader, error) {
	var raw io.ReadCloser
	if s.inMemory {
		raw = io.NopCloser(bytes.NewReader(s.buf))
	} else {
		f, err := os.Open(s.path)
		if err != nil {
			return nil, Classify(err)
		}
		raw = f
	}

	gz, err := gzip.NewReader(raw)
	if err != nil {
		raw.Close()
		return nil, Classify(err)
	}
	return &Reader{gz: gz, raw: raw}, nil
}

// Reader decompresses a Source. Read errors are classified as ErrCorrupt or
// ErrIO; gzip checksum failures only surface near the end of the stream, so
// mid-stream corruption is still reported through Read.
type Reader struct {
	gz  *gzip.Reader
	raw io.ReadCloser
}

func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.gz.Read(p)
	if err != nil && err != io.EOF {
		return n, Classify(err)
	}
	return n, err
}

func (r *Reader) Close() error {
	err := r.gz.Close()
	if cerr := r.raw.Close(); err == nil {
		err = cerr
	}
	return err
}

// Classify wraps err as ErrCorrupt when it indicates invalid gzip data and as
// ErrIO otherwise. Already-classified errors pass through unchanged.
func Classify(err error) error {
	if err == nil || errors.Is(err, ErrCorrupt) || errors.Is(err, ErrIO) {
		return err
	}
	var corrupt flate.CorruptInputError
	if errors.Is(err, gzip.ErrHeader) || errors.Is(err, gzip.ErrChecksum) || errors.As(err, &corrupt) {
		return fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return fmt.Errorf("%w: %w", ErrIO, err)
}
