package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fm-configurator/internal/models"
)

const serviceName = "fm-configurator"

// HealthHandler godoc
// @Summary     Health check
// @Description Liveness check. Does not contact Gemini or the artifact backend.
// @Tags        health
// @Accept      json
// @Produce     json
// @Success     200 {object} models.HealthResponse
// @Router      /health [get]
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:  "ok",
		Service: serviceName,
	})
}
