package fs

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// MaxImageSize is the largest file ReadDataURL accepts.
const MaxImageSize = 10 << 20

// ReadDataURL reads the image at rawPath and returns it encoded as a
// "data:<mime>;base64,<payload>" URL, the form in which uploaded photos are
// stored. Only regular files whose content sniffs as an image are accepted.
func ReadDataURL(rawPath string) (string, error) {
	absPath, err := filepath.Abs(rawPath)
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return "", fmt.Errorf("stat path: %w", err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("not a regular file: %s", absPath)
	}
	if info.Size() > MaxImageSize {
		return "", fmt.Errorf("file too large: %s (%d bytes, limit %d)", absPath, info.Size(), MaxImageSize)
	}

	f, err := os.Open(absPath)
	if err != nil {
		return "", fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxImageSize+1))
	if err != nil {
		return "", fmt.Errorf("reading file: %w", err)
	}
	if len(data) > MaxImageSize {
		return "", fmt.Errorf("file too large: %s", absPath)
	}

	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("not an image: %s (%s)", absPath, mime)
	}

	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
