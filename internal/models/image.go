// ABOUTME: ImageRef is a tagged reference to a photo: none, app-local file, device URI, or remote URL.
// ABOUTME: Encodes to and decodes from the single nullable string column used on disk.
package models

import (
	"path/filepath"
	"strings"
)

// LocalPathPrefix marks a path relative to the app's private files directory.
const LocalPathPrefix = "@filesDir/"

// ImageKind discriminates ImageRef values.
type ImageKind int

const (
	ImageNone ImageKind = iota
	ImageLocal
	ImageDevice
	ImageRemote
)

func (k ImageKind) String() string {
	switch k {
	case ImageLocal:
		return "local"
	case ImageDevice:
		return "device"
	case ImageRemote:
		return "remote"
	default:
		return "none"
	}
}

// ImageRef points at an image. Value is the relative path for ImageLocal,
// the URI or absolute path for ImageDevice and the URL for ImageRemote.
type ImageRef struct {
	Kind  ImageKind
	Value string
}

// LocalImage references a file relative to the app's files directory.
func LocalImage(rel string) ImageRef {
	return ImageRef{Kind: ImageLocal, Value: strings.TrimPrefix(rel, "/")}
}

// DeviceImage references a content://, file:// URI or an absolute path.
func DeviceImage(uri string) ImageRef {
	return ImageRef{Kind: ImageDevice, Value: uri}
}

// RemoteImage references an http(s) URL.
func RemoteImage(url string) ImageRef {
	return ImageRef{Kind: ImageRemote, Value: url}
}

// ParseImageRef classifies a persisted image string by prefix.
func ParseImageRef(s string) ImageRef {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return ImageRef{}
	case strings.HasPrefix(s, LocalPathPrefix):
		return LocalImage(strings.TrimPrefix(s, LocalPathPrefix))
	case strings.HasPrefix(s, "http://"), strings.HasPrefix(s, "https://"):
		return RemoteImage(s)
	default:
		return DeviceImage(s)
	}
}

// IsZero reports whether the reference is empty.
func (r ImageRef) IsZero() bool {
	return r.Kind == ImageNone || r.Value == ""
}

// String returns the persisted form, "" for no image.
func (r ImageRef) String() string {
	if r.IsZero() {
		return ""
	}
	if r.Kind == ImageLocal {
		return LocalPathPrefix + r.Value
	}
	return r.Value
}

// Encode returns the value for a nullable column: nil for no image.
func (r ImageRef) Encode() *string {
	if r.IsZero() {
		return nil
	}
	s := r.String()
	return &s
}

// Resolve returns something a loader can open: a filesystem path for local
// and absolute device references, otherwise the URI or URL unchanged.
func (r ImageRef) Resolve(filesDir string) string {
	switch r.Kind {
	case ImageLocal:
		return filepath.Join(filesDir, filepath.FromSlash(r.Value))
	case ImageDevice, ImageRemote:
		return r.Value
	default:
		return ""
	}
}

// MarshalText implements encoding.TextMarshaler so exports keep the disk form.
func (r ImageRef) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *ImageRef) UnmarshalText(b []byte) error {
	*r = ParseImageRef(string(b))
	return nil
}
