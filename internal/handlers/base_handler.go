package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/skillpath/user-service/internal/roadmap"
	"github.com/skillpath/user-service/internal/services"
	"github.com/skillpath/user-service/internal/utils"
	"github.com/skillpath/user-service/internal/validator"
)

// ErrorResponse is the error envelope every endpoint uses.
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// MessageResponse is a plain acknowledgement payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// BaseHandler carries the shared handler utilities.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs a request-scoped info line.
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.FromContext(c, h.logger).Info(msg, args...)
}

// LogError logs a request-scoped error line.
func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	utils.FromContext(c, h.logger).Error(msg, append(args, "error", err)...)
}

// parseIDParam parses a positive numeric path parameter; it writes the error
// response itself and returns 0 on failure.
func (h *BaseHandler) parseIDParam(c *gin.Context, name string) uint {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + name + " parameter",
			Details: raw,
		})
		return 0
	}
	return uint(id)
}

// handleServiceError maps service errors onto HTTP status codes.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: verrs,
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrAuthenticationFailed):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: err.Error()})

	case errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrInvalidResetToken),
		errors.Is(err, services.ErrResetTokenExpired),
		errors.Is(err, services.ErrNoRoadmap),
		errors.Is(err, roadmap.ErrNodeNotActive),
		errors.Is(err, roadmap.ErrMalformedDocument):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})

	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, roadmap.ErrNodeNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: err.Error()})

	default:
		h.LogError(c, err, "Unhandled service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
	}
}
