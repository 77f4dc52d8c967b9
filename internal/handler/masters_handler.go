package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/freightdesk/service-booking/internal/application"
	"github.com/freightdesk/service-booking/internal/auth"
	"github.com/freightdesk/service-booking/internal/middleware"
	"github.com/freightdesk/service-booking/internal/response"
)

// MastersHandler serves master-data lists.
type MastersHandler struct {
	service *application.MasterService
}

// NewMastersHandler creates a new MastersHandler.
func NewMastersHandler(service *application.MasterService) *MastersHandler {
	return &MastersHandler{service: service}
}

// RegisterRoutes registers master-data routes on the given router group.
func (h *MastersHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	masters := r.Group("/api/v1/masters")
	masters.Use(middleware.AuthMiddleware(jwtManager))
	{
		masters.GET("/shipping-lines", h.ListShippingLines)
	}
}

// ListShippingLines handles GET /api/v1/masters/shipping-lines.
func (h *MastersHandler) ListShippingLines(c *gin.Context) {
	result, err := h.service.ListShippingLines(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
