// Package mediakey classifies blob-storage object keys by media kind
// and extracts the base names the reconciliation job matches on.
package mediakey

import "strings"

// Recognized container/image suffixes, lowercase with leading dot.
var (
	VideoExtensions = []string{".mp4", ".mov", ".mkv", ".avi", ".webm"}
	ImageExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}
)

// IsVideo reports whether the key names a video object.
func IsVideo(key string) bool {
	return hasAnySuffix(key, VideoExtensions)
}

// IsImage reports whether the key names an image object.
func IsImage(key string) bool {
	return hasAnySuffix(key, ImageExtensions)
}

// BaseName strips the extension from a key. Thumbnail matching pairs a
// video and an image sharing the same base name.
func BaseName(key string) string {
	if i := strings.LastIndex(key, "."); i > strings.LastIndex(key, "/") {
		return key[:i]
	}
	return key
}

// Ext returns the lowercase extension without the dot, or "unknown".
func Ext(key string) string {
	if i := strings.LastIndex(key, "."); i >= 0 && i < len(key)-1 {
		return strings.ToLower(key[i+1:])
	}
	return "unknown"
}

// Filename returns the last path segment of a key.
func Filename(key string) string {
	if i := strings.LastIndex(key, "/"); i >= 0 {
		return key[i+1:]
	}
	return key
}

func hasAnySuffix(key string, suffixes []string) bool {
	lower := strings.ToLower(key)
	for _, s := range suffixes {
		if strings.HasSuffix(lower, s) {
			return true
		}
	}
	return false
}
