package compress

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	gzip "github.com/klauspost/pgzip"
	"github.com/stretchr/testify/require"
)

func TestCodecFor(t *testing.T) {
	require.Equal(t, CodecNone, CodecFor("/var/log/app.log"))
	require.Equal(t, CodecGzip, CodecFor("/var/log/app.log.gz"))
	require.Equal(t, CodecGzip, CodecFor("/var/log/app.log.GZ"))
	require.Equal(t, CodecZstd, CodecFor("/var/log/app.log.zst"))
	require.Equal(t, CodecSnappy, CodecFor("/var/log/app.log.sz"))
}

func TestOpen(t *testing.T) {
	const content = "first line\nsecond line\n"
	dir := t.TempDir()

	plain := filepath.Join(dir, "test.log")
	require.NoError(t, os.WriteFile(plain, []byte(content), 0644))

	var gz bytes.Buffer
	gw := gzip.NewWriter(&gz)
	_, err := gw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	gzPath := filepath.Join(dir, "test.log.gz")
	require.NoError(t, os.WriteFile(gzPath, gz.Bytes(), 0644))

	var zs bytes.Buffer
	zw, err := zstd.NewWriter(&zs)
	require.NoError(t, err)
	_, err = zw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	zstPath := filepath.Join(dir, "test.log.zst")
	require.NoError(t, os.WriteFile(zstPath, zs.Bytes(), 0644))

	var sz bytes.Buffer
	sw := snappy.NewBufferedWriter(&sz)
	_, err = sw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, sw.Close())
	szPath := filepath.Join(dir, "test.log.sz")
	require.NoError(t, os.WriteFile(szPath, sz.Bytes(), 0644))

	for _, path := range []string{plain, gzPath, zstPath, szPath} {
		t.Run(filepath.Base(path), func(t *testing.T) {
			rc, err := Open(path)
			require.NoError(t, err)
			b, err := io.ReadAll(rc)
			require.NoError(t, err)
			require.NoError(t, rc.Close())
			require.Equal(t, content, string(b))
		})
	}
}

func TestOpen_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Open(filepath.Join(dir, "missing.log"))
	require.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.log.gz")
	require.NoError(t, os.WriteFile(bad, []byte("not gzip"), 0644))
	_, err = Open(bad)
	require.Error(t, err)
}
