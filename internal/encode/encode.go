// Package encode prepares file content for the JSON transport payload and
// computes checksums for integrity tracking.
package encode

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"unicode/utf8"
)

// checksumChunkSize is the read size used when streaming a file into the digest.
const checksumChunkSize = 4096

// File reads a file and returns its transport representation. Valid UTF-8
// comes back verbatim with isBinary=false; anything else is base64-encoded
// with isBinary=true. An empty file is empty text.
func File(path string) (content string, isBinary bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if utf8.Valid(data) {
		return string(data), false, nil
	}
	return base64.StdEncoding.EncodeToString(data), true, nil
}

// Checksum computes the SHA-256 hex digest of a file's raw bytes, streaming
// in fixed-size chunks. The digest is always over the original bytes, never
// the transport encoding, so it is stable across encoding choices.
func Checksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	buf := make([]byte, checksumChunkSize)
	for {
		n, readErr := f.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return "", fmt.Errorf("failed to read %s: %w", path, readErr)
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
