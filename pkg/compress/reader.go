// Package compress opens input files, transparently decompressing them based on their extension.
package compress

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	gzip "github.com/klauspost/pgzip"
)

type Codec string

const (
	CodecNone   Codec = ""
	CodecGzip   Codec = "gzip"
	CodecZstd   Codec = "zstd"
	CodecSnappy Codec = "snappy"
)

// CodecFor returns the codec implied by the file extension of path.
func CodecFor(path string) Codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".gzip":
		return CodecGzip
	case ".zst", ".zstd":
		return CodecZstd
	case ".sz":
		return CodecSnappy
	default:
		return CodecNone
	}
}

// Open opens the file at path and returns a reader over its decompressed contents.  Closing the
// returned reader closes the underlying file.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	rc, err := NewReader(f, CodecFor(path))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return rc, nil
}

// NewReader wraps f with a decompressor for codec.
func NewReader(f *os.File, codec Codec) (io.ReadCloser, error) {
	switch codec {
	case CodecNone:
		return f, nil
	case CodecGzip:
		gr, err := gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
		return &decompressReader{r: gr, closeFn: gr.Close, f: f}, nil
	case CodecZstd:
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, err
		}
		return &decompressReader{r: zr, closeFn: func() error { zr.Close(); return nil }, f: f}, nil
	case CodecSnappy:
		return &decompressReader{r: snappy.NewReader(f), f: f}, nil
	default:
		return nil, fmt.Errorf("unknown codec %q", codec)
	}
}

type decompressReader struct {
	r       io.Reader
	closeFn func() error
	f       *os.File
}

func (d *decompressReader) Read(p []byte) (int, error) {
	return d.r.Read(p)
}

func (d *decompressReader) Close() error {
	var err error
	if d.closeFn != nil {
		err = d.closeFn()
	}
	if ferr := d.f.Close(); err == nil {
		err = ferr
	}
	return err
}
