package handlers

import (
	"net/http"

	"merchant-bi-api/internal/models"
	"merchant-bi-api/internal/services"

	"github.com/gin-gonic/gin"
)

// MerchantHandler handles merchant lookups
type MerchantHandler struct {
	merchantService services.MerchantService
}

// NewMerchantHandler creates a new merchant handler
func NewMerchantHandler(merchantService services.MerchantService) *MerchantHandler {
	return &MerchantHandler{
		merchantService: merchantService,
	}
}

// @Summary List merchants
// @Tags merchants
// @Produce json
// @Success 200 {array} models.Merchant
// @Failure 500 {object} ErrorResponse
// @Router /merchants [get]
func (h *MerchantHandler) ListMerchants(c *gin.Context) {
	merchants, err := h.merchantService.ListMerchants(c.Request.Context())
	if err != nil {
		respondError(c, "Failed to list merchants", err)
		return
	}
	if merchants == nil {
		merchants = []*models.Merchant{}
	}

	c.JSON(http.StatusOK, merchants)
}

// @Summary Get a merchant
// @Tags merchants
// @Produce json
// @Param id path int true "Merchant ID"
// @Success 200 {object} models.Merchant
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /merchants/{id} [get]
func (h *MerchantHandler) GetMerchant(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	merchant, err := h.merchantService.GetMerchant(c.Request.Context(), id)
	if err != nil {
		respondError(c, "Merchant not found", err)
		return
	}

	c.JSON(http.StatusOK, merchant)
}

// @Summary Find a merchant
// @Description First merchant (lowest ID) matching every supplied filter, or null. Names match case-insensitively.
// @Tags merchants
// @Produce json
// @Param id query int false "Merchant ID"
// @Param name query string false "Merchant name"
// @Param created_at query string false "Creation date (YYYY-MM-DD)"
// @Param updated_at query string false "Update date (YYYY-MM-DD)"
// @Success 200 {object} models.Merchant
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /merchants/find [get]
func (h *MerchantHandler) FindMerchant(c *gin.Context) {
	filters, err := merchantFilters(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	merchant, err := h.merchantService.FindMerchant(c.Request.Context(), filters)
	if err != nil {
		respondError(c, "Failed to find merchant", err)
		return
	}

	c.JSON(http.StatusOK, merchant)
}

// @Summary Find all merchants
// @Description Every merchant matching the supplied filters
// @Tags merchants
// @Produce json
// @Param id query int false "Merchant ID"
// @Param name query string false "Merchant name"
// @Param created_at query string false "Creation date (YYYY-MM-DD)"
// @Param updated_at query string false "Update date (YYYY-MM-DD)"
// @Success 200 {array} models.Merchant
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /merchants/find_all [get]
func (h *MerchantHandler) FindAllMerchants(c *gin.Context) {
	filters, err := merchantFilters(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	merchants, err := h.merchantService.FindAllMerchants(c.Request.Context(), filters)
	if err != nil {
		respondError(c, "Failed to find merchants", err)
		return
	}
	if merchants == nil {
		merchants = []*models.Merchant{}
	}

	c.JSON(http.StatusOK, merchants)
}
