package artifacts

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Artifact is a generated image persisted under a random id. Artifacts are
// written once and never modified.
type Artifact struct {
	ID        uuid.UUID
	Filename  string
	MimeType  string
	PublicURL string
	Size      int64
}

type Store interface {
	Save(ctx context.Context, data []byte, mimeType string) (*Artifact, error)
}

// ExtensionFor picks the file extension for a provider MIME type. Anything that
// is not recognizably JPEG is stored as png.
func ExtensionFor(mimeType string) string {
	m := strings.ToLower(mimeType)
	switch {
	case strings.Contains(m, "png"):
		return "png"
	case strings.Contains(m, "jpeg"), strings.Contains(m, "jpg"):
		return "jpg"
	default:
		return "png"
	}
}

// NewFilename returns a fresh id and the {id}.{ext} filename derived from it.
func NewFilename(mimeType string) (uuid.UUID, string) {
	id := uuid.New()
	return id, id.String() + "." + ExtensionFor(mimeType)
}

// JoinURL appends filename to a public base path.
func JoinURL(baseURL, filename string) string {
	return strings.TrimRight(baseURL, "/") + "/" + filename
}

// ValidName reports whether name has the {uuid}.{png|jpg} form every store
// writes.
func ValidName(name string) bool {
	ext := filepath.Ext(name)
	if ext != ".png" && ext != ".jpg" {
		return false
	}
	_, err := uuid.Parse(strings.TrimSuffix(name, ext))
	return err == nil
}

// MimeTypeFor is the inverse of ExtensionFor for a valid artifact name.
func MimeTypeFor(name string) string {
	if filepath.Ext(name) == ".jpg" {
		return "image/jpeg"
	}
	return "image/png"
}
