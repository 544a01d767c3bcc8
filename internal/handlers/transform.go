package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"fm-configurator/internal/models"
	"fm-configurator/internal/services"
)

type TransformHandler struct {
	service        *services.TransformService
	maxUploadBytes int64
}

func NewTransformHandler(service *services.TransformService, maxUploadBytes int64) *TransformHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 32 << 20
	}
	return &TransformHandler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
	}
}

// Transform godoc
// @Summary     Restyle an uploaded photo
// @Description Sends the photo and a style prompt to Gemini, stores the returned image
// @Description under a fresh UUID and returns its public URL together with the base64 payload.
// @Tags        transform
// @Accept      multipart/form-data
// @Produce     json
// @Param       file         formData file   true  "Source photo"
// @Param       style        formData string false "Style key (tokyo, anime, simpsons, pixar, gta); defaults to anime"
// @Param       customPrompt formData string false "Additional free-text instructions"
// @Success     200 {object} models.TransformResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /api/transform-gemini [post]
func (h *TransformHandler) Transform(c *gin.Context) {
	start := time.Now()

	req, serr := h.readRequest(c)
	if serr != nil {
		observe("transform", start, serr)
		c.JSON(serr.StatusCode(), models.ErrorResponse{Error: serr.Message})
		return
	}

	res := h.service.Transform(c.Request.Context(), req)
	observe("transform", start, res.Err)
	if !res.OK() {
		_ = c.Error(res.Err)
		c.JSON(res.Err.StatusCode(), models.ErrorResponse{Error: res.Err.Message})
		return
	}

	c.JSON(http.StatusOK, res.Value)
}

func (h *TransformHandler) readRequest(c *gin.Context) (services.TransformRequest, *services.StageError) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	if err := c.Request.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return services.TransformRequest{}, services.ValidationError(services.StageReceived, "file too large")
		}
		return services.TransformRequest{}, services.ValidationError(services.StageReceived, services.MsgMissingFile)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return services.TransformRequest{}, services.ValidationError(services.StageValidated, services.MsgMissingFile)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return services.TransformRequest{}, services.ValidationError(services.StageValidated, services.MsgMissingFile)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return services.TransformRequest{}, services.ValidationError(services.StageValidated, services.MsgMissingFile)
	}

	style := c.PostForm("style")
	if style == "" {
		style = "anime"
	}

	return services.TransformRequest{
		Image:              data,
		MimeType:           uploadMimeType(fileHeader.Header.Get("Content-Type"), data),
		Style:              style,
		CustomInstructions: strings.TrimSpace(c.PostForm("customPrompt")),
	}, nil
}

// uploadMimeType trusts the part's Content-Type when it names an image and
// otherwise sniffs the bytes, falling back to image/png.
func uploadMimeType(declared string, data []byte) string {
	if strings.HasPrefix(declared, "image/") {
		return declared
	}
	if detected := mimetype.Detect(data); strings.HasPrefix(detected.String(), "image/") {
		return detected.String()
	}
	return "image/png"
}
