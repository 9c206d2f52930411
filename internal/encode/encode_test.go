package encode

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestFileTextContent(t *testing.T) {
	path := writeFile(t, "notes.md", []byte("# Notes\n\nhello world\n"))

	content, isBinary, err := File(path)
	require.NoError(t, err)
	assert.False(t, isBinary)
	assert.Equal(t, "# Notes\n\nhello world\n", content)
}

func TestFileBinaryContentRoundTrips(t *testing.T) {
	raw := []byte{0x89, 0x50, 0x4e, 0x47, 0x00, 0xff, 0xfe, 0x01}
	path := writeFile(t, "image.png", raw)

	content, isBinary, err := File(path)
	require.NoError(t, err)
	assert.True(t, isBinary)

	decoded, err := base64.StdEncoding.DecodeString(content)
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)
}

func TestFileEmptyIsText(t *testing.T) {
	path := writeFile(t, "empty.txt", nil)

	content, isBinary, err := File(path)
	require.NoError(t, err)
	assert.False(t, isBinary)
	assert.Empty(t, content)
}

func TestFileUnreadableIsError(t *testing.T) {
	_, _, err := File(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestChecksumMatchesRawBytes(t *testing.T) {
	data := []byte("checksum me")
	path := writeFile(t, "data.txt", data)

	sum, err := Checksum(path)
	require.NoError(t, err)

	want := sha256.Sum256(data)
	assert.Equal(t, hex.EncodeToString(want[:]), sum)
}

func TestChecksumStableAcrossCalls(t *testing.T) {
	path := writeFile(t, "data.bin", []byte{0x00, 0x01, 0xff, 0xfe})

	first, err := Checksum(path)
	require.NoError(t, err)
	second, err := Checksum(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestChecksumStreamsLargeFiles(t *testing.T) {
	// Larger than one chunk so the streaming path folds multiple reads.
	data := make([]byte, checksumChunkSize*3+17)
	for i := range data {
		data[i] = byte(i % 251)
	}
	path := writeFile(t, "large.bin", data)

	sum, err := Checksum(path)
	require.NoError(t, err)

	want := sha256.Sum256(data)
	assert.Equal(t, hex.EncodeToString(want[:]), sum)
}

func TestChecksumMissingFile(t *testing.T) {
	_, err := Checksum(filepath.Join(t.TempDir(), "missing.bin"))
	assert.Error(t, err)
}
