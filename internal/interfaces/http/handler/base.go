// Package handler holds the gin handlers of the orders API.
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vishwahegdek/zenkar-platform-sub001/internal/domain/shared"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/infrastructure/logger"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/interfaces/http/dto"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a 200 envelope
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 envelope
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// BadRequest sends a 400 INVALID_INPUT envelope
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(shared.CodeInvalidInput, message))
}

// HandleError maps err onto the envelope. Errors that are not domain errors
// are logged with their cause and answered as INTERNAL_ERROR.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	status, resp := dto.FromError(err)
	if status >= http.StatusInternalServerError {
		logger.L(c.Request.Context()).Error("Request failed", zap.Error(err))
	}
	_ = c.Error(err)
	c.JSON(status, resp)
}

// pathID parses a positive integer path parameter
func (h *BaseHandler) pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		h.BadRequest(c, "Invalid "+name+": must be a positive integer")
		return 0, false
	}
	return id, true
}

// requireUser returns the acting user for routes that are scoped to one
func (h *BaseHandler) requireUser(c *gin.Context) (int64, bool) {
	id := middleware.UserID(c)
	if id == nil {
		h.BadRequest(c, middleware.HeaderUserID+" header is required")
		return 0, false
	}
	return *id, true
}
