package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jpashop/backend/internal/domain/shared"
	"github.com/jpashop/backend/internal/infrastructure/logger"
	"github.com/jpashop/backend/internal/interfaces/http/dto"
	"github.com/jpashop/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// BaseHandler writes the dto.Response envelope for the resource handlers
type BaseHandler struct{}

func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Error answers with an error envelope carrying the request id
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// BindingError reports a failed ShouldBind* as ERR_VALIDATION with field details
func (h *BaseHandler) BindingError(c *gin.Context, err error) {
	middleware.HandleValidationError(c, err)
}

// HandleDomainError picks the status from the domain error's code. Other
// errors are logged with the route and hidden behind a generic 500.
func (h *BaseHandler) HandleDomainError(c *gin.Context, err error) {
	if de, ok := shared.AsDomainError(err); ok {
		code := dto.NormalizeErrorCode(de.Code)
		h.Error(c, dto.GetHTTPStatus(code), code, de.Message)
		return
	}

	_ = c.Error(err)
	logger.L(c.Request.Context()).Error("Unhandled error", zap.String("path", c.FullPath()), zap.Error(err))
	h.InternalError(c, "An unexpected error occurred")
}

// parseID reads :id as a UUID; on failure the 400 has already been written
func (h *BaseHandler) parseID(c *gin.Context, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err == nil {
		return id, true
	}
	h.BadRequest(c, "Invalid "+what+" ID format")
	return uuid.Nil, false
}
