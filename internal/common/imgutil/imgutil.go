package imgutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultMaxBytes bounds an uploaded or read image.
const DefaultMaxBytes int64 = 10 << 20

// ErrNotImage is returned when content does not sniff as an image.
var ErrNotImage = errors.New("content is not an image")

// ErrTooLarge is returned when content exceeds the byte limit.
var ErrTooLarge = errors.New("image too large")

// ExpandHome expands a leading '~' to the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}

// PathExists checks if the given path exists.
func PathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, os.ErrNotExist)
}

// DetectImage sniffs data and returns its image MIME type. The declared
// client type is never trusted.
func DetectImage(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrNotImage
	}
	m := mimetype.Detect(data)
	for ; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "image/") {
			return m.String(), nil
		}
	}
	return "", fmt.Errorf("%w: detected %s", ErrNotImage, mimetype.Detect(data).String())
}

// ReadLimited reads r up to maxBytes, failing with ErrTooLarge beyond it.
func ReadLimited(r io.Reader, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, ErrTooLarge
	}
	return data, nil
}

// ReadImage loads an image file from disk and sniffs its type.
func ReadImage(path string, maxBytes int64) (data []byte, mimeType string, err error) {
	p, err := ExpandHome(path)
	if err != nil {
		return nil, "", err
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, "", fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	data, err = ReadLimited(f, maxBytes)
	if err != nil {
		return nil, "", err
	}
	mimeType, err = DetectImage(data)
	if err != nil {
		return nil, "", err
	}
	return data, mimeType, nil
}
