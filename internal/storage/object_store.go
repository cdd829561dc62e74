// Package storage persists uploaded files.
package storage

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ObjectStore writes a named object and returns a reference to it.
type ObjectStore interface {
	Put(ctx context.Context, name, contentType string, data io.Reader) (string, error)
}

// UniqueName prefixes the base name of a client supplied file name with a
// random UUID. Directory components (either separator style) are dropped.
func UniqueName(original string) string {
	base := filepath.Base(strings.ReplaceAll(original, "\\", "/"))
	base = strings.TrimSpace(base)
	if base == "" || base == "." || base == "/" || base == ".." {
		base = "upload"
	}
	return uuid.NewString() + "_" + base
}
