package model

import "strings"

// MediaKind is the tagged variant of a course media item.
type MediaKind string

const (
	MediaImage   MediaKind = "image"
	MediaVideo   MediaKind = "video"
	MediaUnknown MediaKind = "unknown"
)

var mediaKinds = map[string]MediaKind{
	"png":  MediaImage,
	"jpg":  MediaImage,
	"jpeg": MediaImage,
	"gif":  MediaImage,
	"mp4":  MediaVideo,
	"avi":  MediaVideo,
	"mov":  MediaVideo,
}

// KindOf maps a file extension (with or without the dot) to its kind.
func KindOf(ext string) MediaKind {
	ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	if k, ok := mediaKinds[ext]; ok {
		return k
	}
	return MediaUnknown
}

// Rotates reports whether items of this kind are advanced by the rotation timer.
// Videos only change on explicit navigation.
func (k MediaKind) Rotates() bool {
	return k == MediaImage
}

// MediaItem is one image or video attached to a course.
type MediaItem struct {
	ID       int64     `json:"id"`
	CourseID int64     `json:"course_id"`
	Type     string    `json:"media_type"`
	Kind     MediaKind `json:"kind"`
	URL      string    `json:"media_url"`
}

// NormalizeMediaPath turns a stored media path into a URL path fragment.
// Paths are stored with Windows separators by the backend.
func NormalizeMediaPath(p string) string {
	p = strings.ReplaceAll(strings.TrimSpace(p), "\\", "/")
	return strings.TrimLeft(p, "/")
}
