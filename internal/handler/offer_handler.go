package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/freightdesk/service-booking/internal/application"
	"github.com/freightdesk/service-booking/internal/auth"
	"github.com/freightdesk/service-booking/internal/middleware"
	"github.com/freightdesk/service-booking/internal/response"
)

// OfferHandler handles HTTP requests for offer operations.
type OfferHandler struct {
	service *application.OfferService
}

// NewOfferHandler creates a new OfferHandler.
func NewOfferHandler(service *application.OfferService) *OfferHandler {
	return &OfferHandler{service: service}
}

// RegisterRoutes registers all offer routes on the given router group.
func (h *OfferHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	offers := r.Group("/api/v1/offers")
	offers.Use(authMW)
	{
		offers.POST("", middleware.RequireRole(auth.RoleProvider), h.CreateOffer)
		offers.GET("", h.ListOffers)
		offers.GET("/:id", h.GetOffer)
		offers.POST("/:id/accept", middleware.RequireRole(auth.RoleClient), h.AcceptOffer)
		offers.POST("/:id/withdraw", middleware.RequireRole(auth.RoleProvider), h.WithdrawOffer)
	}
}

// CreateOffer handles POST /api/v1/offers.
func (h *OfferHandler) CreateOffer(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.CreateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateOffer(c.Request.Context(), identity, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListOffers handles GET /api/v1/offers. Providers see their own offers,
// everyone else browses the open marketplace.
func (h *OfferHandler) ListOffers(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	page, limit := parsePagination(c)

	role, _ := middleware.GetRole(c)
	if role == auth.RoleProvider && c.Query("mine") == "true" {
		result, err := h.service.GetProviderOffers(c.Request.Context(), identity, page, limit)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
		return
	}

	result, err := h.service.ListOpenOffers(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetOffer handles GET /api/v1/offers/:id.
func (h *OfferHandler) GetOffer(c *gin.Context) {
	offerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid offer ID")
		return
	}

	result, err := h.service.GetOffer(c.Request.Context(), offerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// AcceptOffer handles POST /api/v1/offers/:id/accept.
func (h *OfferHandler) AcceptOffer(c *gin.Context) {
	offerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid offer ID")
		return
	}

	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.service.AcceptOffer(c.Request.Context(), offerID, identity, middleware.GetDisplayName(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// WithdrawOffer handles POST /api/v1/offers/:id/withdraw.
func (h *OfferHandler) WithdrawOffer(c *gin.Context) {
	offerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid offer ID")
		return
	}

	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.service.WithdrawOffer(c.Request.Context(), offerID, identity)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
