// Package api exposes the enrollment service over HTTP.
package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "school-activities/internal/common/errors"
	"school-activities/internal/common/logger"
	"school-activities/internal/enrollment"
)

const landingPage = "/static/index.html"

type Handler struct {
	service    *enrollment.Service
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
	staticDir  string
}

func NewHandler(service *enrollment.Service, log logger.Logger, staticDir string) *Handler {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Handler{
		service:    service,
		errHandler: apperrors.NewErrorHandler(log),
		logger:     log,
		staticDir:  staticDir,
	}
}

// RegisterRoutes mounts every endpoint on r.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.root)
	r.GET("/health", h.health)
	r.GET("/ready", h.ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if h.staticDir != "" {
		r.Static("/static", h.staticDir)
	}

	activities := r.Group("/activities")
	{
		activities.GET("", h.listActivities)
		activities.POST("/:activity_name/signup", h.signup)
		activities.DELETE("/:activity_name/participants", h.unregister)
	}
}

func (h *Handler) root(c *gin.Context) {
	c.Redirect(http.StatusTemporaryRedirect, landingPage)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (h *Handler) ready(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func (h *Handler) listActivities(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.ListActivities(c.Request.Context()))
}

func (h *Handler) signup(c *gin.Context) {
	email, ok := h.requireEmail(c)
	if !ok {
		return
	}

	conf, err := h.service.Signup(c.Request.Context(), c.Param("activity_name"), email)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, conf)
}

func (h *Handler) unregister(c *gin.Context) {
	email, ok := h.requireEmail(c)
	if !ok {
		return
	}

	conf, err := h.service.Unregister(c.Request.Context(), c.Param("activity_name"), email)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, conf)
}

// requireEmail writes a 422 and returns false when the email query
// parameter is missing or blank.
func (h *Handler) requireEmail(c *gin.Context) (string, bool) {
	email := c.Query("email")
	if strings.TrimSpace(email) == "" {
		h.fail(c, apperrors.NewValidationError("email query parameter is required"))
		return "", false
	}
	return email, true
}

func (h *Handler) fail(c *gin.Context, err error) {
	status, detail := h.errHandler.Resolve(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}
