package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"fm-configurator/internal/models"
	"fm-configurator/internal/services"
)

type GenerateHandler struct {
	service *services.GenerateService
}

func NewGenerateHandler(service *services.GenerateService) *GenerateHandler {
	return &GenerateHandler{service: service}
}

// GenerateGemini godoc
// @Summary     Generate an image from text with Gemini
// @Description Composes a prompt from the task text, an optional style and extra instructions.
// @Description The image is returned inline and is not stored.
// @Tags        generate
// @Accept      json
// @Produce     json
// @Param       request body models.GenerateGeminiRequest true "Prompt and optional style"
// @Success     200 {object} models.GenerateGeminiResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /api/generate-gemini [post]
func (h *GenerateHandler) GenerateGemini(c *gin.Context) {
	start := time.Now()

	var req models.GenerateGeminiRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: services.MsgMissingPrompt})
		return
	}
	text, isString := req.Prompt.(string)
	if !isString {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: services.MsgMissingPrompt})
		return
	}

	res := h.service.GenerateGemini(c.Request.Context(), services.GenerateGeminiRequest{
		Prompt:       text,
		Style:        optionalText(req.Style),
		CustomPrompt: optionalText(req.CustomPrompt),
	})
	observe("generate-gemini", start, res.Err)
	if !res.OK() {
		_ = c.Error(res.Err)
		c.JSON(res.Err.StatusCode(), models.ErrorResponse{Error: res.Err.Message})
		return
	}

	c.JSON(http.StatusOK, res.Value)
}

// Generate godoc
// @Summary     Generate an image from text with OpenAI
// @Tags        generate
// @Accept      json
// @Produce     json
// @Param       request body models.GenerateRequest true "Prompt"
// @Success     200 {object} models.GenerateResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /api/generate [post]
func (h *GenerateHandler) Generate(c *gin.Context) {
	start := time.Now()

	var req models.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: services.MsgMissingPrompt})
		return
	}
	text, isString := req.Prompt.(string)
	if !isString {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: services.MsgMissingPrompt})
		return
	}

	res := h.service.Generate(c.Request.Context(), text)
	observe("generate", start, res.Err)
	if !res.OK() {
		_ = c.Error(res.Err)
		c.JSON(res.Err.StatusCode(), models.ErrorResponse{Error: res.Err.Message})
		return
	}

	c.JSON(http.StatusOK, res.Value)
}

// optionalText reads an optional JSON field as text. Absent, null, false, 0
// and "" all mean "not given".
func optionalText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case bool:
		if !t {
			return ""
		}
		return "true"
	case float64:
		if t == 0 {
			return ""
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}
