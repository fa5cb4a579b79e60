package api

import (
	"github.com/gin-gonic/gin"

	"school-activities/internal/common/logger"
)

// NewRouter builds the gin engine with the standard middleware chain.
func NewRouter(h *Handler, log logger.Logger) *gin.Engine {
	r := gin.New()
	r.Use(
		RequestID(),
		AccessLog(log),
		Metrics(),
		Recovery(log),
	)
	h.RegisterRoutes(r)
	return r
}
