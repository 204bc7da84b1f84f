package analyst

import (
	"path/filepath"
	"strings"
)

// Default MIME types for media whose extension is not recognized.
const (
	DefaultImageMIME = "image/jpeg"
	DefaultVideoMIME = "video/mp4"
)

var mediaTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
}

// MIMEType returns the media type for a file name, or "" if unknown.
func MIMEType(path string) string {
	return mediaTypes[strings.ToLower(filepath.Ext(path))]
}

// IsImage reports whether path has an accepted image extension.
func IsImage(path string) bool {
	return strings.HasPrefix(MIMEType(path), "image/")
}

// IsVideo reports whether path has an accepted video extension.
func IsVideo(path string) bool {
	return strings.HasPrefix(MIMEType(path), "video/")
}

func mimeOr(path, fallback string) string {
	if t := MIMEType(path); t != "" {
		return t
	}
	return fallback
}
