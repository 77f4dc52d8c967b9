package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/freightdesk/service-booking/internal/application"
	"github.com/freightdesk/service-booking/internal/auth"
	"github.com/freightdesk/service-booking/internal/middleware"
	"github.com/freightdesk/service-booking/internal/response"
)

// AdminBookingHandler serves the admin dashboard endpoints.
type AdminBookingHandler struct {
	service *application.BookingService
}

// NewAdminBookingHandler creates a new AdminBookingHandler.
func NewAdminBookingHandler(service *application.BookingService) *AdminBookingHandler {
	return &AdminBookingHandler{service: service}
}

// RegisterRoutes registers admin routes on the given router group.
func (h *AdminBookingHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	admin := r.Group("/api/v1/admin")
	admin.Use(middleware.AuthMiddleware(jwtManager))
	admin.Use(middleware.RequireRole(auth.RoleAdmin))
	{
		admin.GET("/bookings", h.ListAllBookings)
		admin.GET("/bookings/stats", h.GetStats)
	}
}

// ListAllBookings handles GET /api/v1/admin/bookings.
func (h *AdminBookingHandler) ListAllBookings(c *gin.Context) {
	page, limit := parsePagination(c)

	items, total, err := h.service.ListAllBookings(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, items, total, page, limit)
}

// GetStats handles GET /api/v1/admin/bookings/stats.
func (h *AdminBookingHandler) GetStats(c *gin.Context) {
	result, err := h.service.GetBookingStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
