// Package storage persists uploaded files and resolves stored paths into
// public URLs.
package storage

import (
	"context"
	"io"
	"strings"
)

// Storage stores files under relative paths such as "projects/<uuid>.png".
// Records keep the relative path; URLs are produced at projection time.
type Storage interface {
	Save(ctx context.Context, path string, r io.Reader, contentType string) error
	Delete(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)
	URL(path string) string
}

// Entity-scoped buckets for uploaded images.
const (
	BucketProjects           = "projects"
	BucketExperiences        = "experiences"
	BucketResourceThumbnails = "resources/thumbnails"
)

// PublicURL joins base, the /storage prefix and a stored path. Paths that are
// already absolute URLs are returned unchanged; an empty path yields "".
func PublicURL(base, path string) string {
	if path == "" {
		return ""
	}
	if IsAbsoluteURL(path) {
		return path
	}
	return strings.TrimRight(base, "/") + "/storage/" + strings.TrimLeft(path, "/")
}

func IsAbsoluteURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "//")
}
