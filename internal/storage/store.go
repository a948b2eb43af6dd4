// Package storage writes rendered site files to their destination.
package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

// ErrDuplicatePath is returned when two files of one build target the same path.
var ErrDuplicatePath = errors.New("output path written twice")

// OutputStore receives the files of a build.
type OutputStore interface {
	// Put stores data at a site-relative path such as /blog/index.html.
	Put(ctx context.Context, sitePath string, data []byte) error
	// Open reads back a stored file.
	Open(sitePath string) (io.ReadCloser, error)
	// Entries lists what was stored, in sitePath order.
	Entries() []Entry
}

// Entry describes one stored file.
type Entry struct {
	Path string `json:"path"`
	Hash string `json:"sha256"`
	Size int64  `json:"size"`
}

// CleanPath canonicalizes a site path. Paths that resolve outside the site
// root, or to the root itself, are rejected.
func CleanPath(sitePath string) (string, error) {
	if strings.ContainsRune(sitePath, 0) {
		return "", fmt.Errorf("invalid output path %q", sitePath)
	}
	clean := path.Clean("/" + strings.ReplaceAll(sitePath, "\\", "/"))
	if clean == "/" {
		return "", fmt.Errorf("output path %q names the site root", sitePath)
	}
	return clean, nil
}

func hashOf(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
