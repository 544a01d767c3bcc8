package handlers

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"fm-configurator/internal/artifacts"
	"fm-configurator/internal/models"
)

// Artifacts never change once written.
const artifactCacheControl = "public, max-age=31536000, immutable"

// ArtifactServer answers GET /uploads/:name.
type ArtifactServer interface {
	Serve(c *gin.Context)
}

// ArtifactsHandler serves artifacts from the local artifact directory.
type ArtifactsHandler struct {
	store *artifacts.FileStore
}

func NewArtifactsHandler(store *artifacts.FileStore) *ArtifactsHandler {
	return &ArtifactsHandler{store: store}
}

// Serve godoc
// @Summary     Fetch a generated image
// @Tags        artifacts
// @Produce     image/png
// @Produce     image/jpeg
// @Param       name path string true "Artifact file name ({uuid}.png or {uuid}.jpg)"
// @Success     200 {file} file
// @Failure     404 {object} models.ErrorResponse
// @Router      /uploads/{name} [get]
func (h *ArtifactsHandler) Serve(c *gin.Context) {
	path, err := h.store.Path(c.Param("name"))
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "artifact not found"})
		return
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			_ = c.Error(err)
		}
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "artifact not found"})
		return
	}

	c.Header("Cache-Control", artifactCacheControl)
	c.File(path)
}

// ArtifactDownloader reads artifact bytes from a remote bucket.
type ArtifactDownloader interface {
	Download(ctx context.Context, filename string) ([]byte, error)
}

// BucketArtifactsHandler proxies artifacts kept in object storage so their
// public URL stays on this service.
type BucketArtifactsHandler struct {
	source ArtifactDownloader
}

func NewBucketArtifactsHandler(source ArtifactDownloader) *BucketArtifactsHandler {
	return &BucketArtifactsHandler{source: source}
}

func (h *BucketArtifactsHandler) Serve(c *gin.Context) {
	name := c.Param("name")
	if !artifacts.ValidName(name) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "artifact not found"})
		return
	}

	data, err := h.source.Download(c.Request.Context(), name)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "artifact not found"})
		return
	}

	c.Header("Cache-Control", artifactCacheControl)
	c.Data(http.StatusOK, artifacts.MimeTypeFor(name), data)
}
