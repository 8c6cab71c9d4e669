package handlers

import (
	"fmt"
	"net/http"

	"merchant-bi-api/internal/models"
	"merchant-bi-api/internal/services"

	"github.com/gin-gonic/gin"
)

// RevenueResponse carries one merchant's successful revenue in major units
type RevenueResponse struct {
	Revenue models.Money `json:"revenue" swaggertype:"string" example:"20000.0"`
}

// TotalRevenueResponse carries the successful revenue of every merchant for one date
type TotalRevenueResponse struct {
	TotalRevenue models.Money `json:"total_revenue" swaggertype:"string" example:"400.0"`
}

// BusinessIntelligenceHandler serves the merchant business intelligence queries
type BusinessIntelligenceHandler struct {
	bi services.BusinessIntelligenceService
}

// NewBusinessIntelligenceHandler creates a new business intelligence handler
func NewBusinessIntelligenceHandler(bi services.BusinessIntelligenceService) *BusinessIntelligenceHandler {
	return &BusinessIntelligenceHandler{bi: bi}
}

// @Summary Merchant revenue
// @Description Successful revenue of one merchant, optionally restricted to one UTC calendar date
// @Tags business-intelligence
// @Produce json
// @Param id path int true "Merchant ID"
// @Param date query string false "Invoice date (YYYY-MM-DD)"
// @Success 200 {object} RevenueResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /merchants/{id}/revenue [get]
func (h *BusinessIntelligenceHandler) MerchantRevenue(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	date, err := queryDate(c, "date")
	if err != nil {
		badRequest(c, err)
		return
	}

	revenue, err := h.bi.MerchantRevenue(c.Request.Context(), id, date)
	if err != nil {
		respondError(c, "Failed to compute merchant revenue", err)
		return
	}

	c.JSON(http.StatusOK, RevenueResponse{Revenue: revenue})
}

// @Summary Total revenue for a date
// @Description Successful revenue across all merchants for one UTC calendar date
// @Tags business-intelligence
// @Produce json
// @Param date query string true "Invoice date (YYYY-MM-DD)"
// @Success 200 {object} TotalRevenueResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /merchants/revenue [get]
func (h *BusinessIntelligenceHandler) TotalRevenue(c *gin.Context) {
	date, err := queryDate(c, "date")
	if err != nil {
		badRequest(c, err)
		return
	}
	if date == nil {
		badRequest(c, fmt.Errorf("date is required"))
		return
	}

	total, err := h.bi.TotalRevenueForDate(c.Request.Context(), *date)
	if err != nil {
		respondError(c, "Failed to compute total revenue", err)
		return
	}

	c.JSON(http.StatusOK, TotalRevenueResponse{TotalRevenue: total})
}

// @Summary Merchants with the most revenue
// @Description Top merchants by successful revenue. Ties go to the lower merchant ID.
// @Tags business-intelligence
// @Produce json
// @Param quantity query int true "Number of merchants"
// @Success 200 {array} models.Merchant
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /merchants/most_revenue [get]
func (h *BusinessIntelligenceHandler) MostRevenue(c *gin.Context) {
	n, err := quantityParam(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	rankings, err := h.bi.MostRevenue(c.Request.Context(), n)
	if err != nil {
		respondError(c, "Failed to rank merchants", err)
		return
	}

	c.JSON(http.StatusOK, rankedMerchants(rankings))
}

// @Summary Merchants with the most items sold
// @Description Top merchants by successful units sold. Ties go to the lower merchant ID.
// @Tags business-intelligence
// @Produce json
// @Param quantity query int true "Number of merchants"
// @Success 200 {array} models.Merchant
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /merchants/most_items [get]
func (h *BusinessIntelligenceHandler) MostItems(c *gin.Context) {
	n, err := quantityParam(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	rankings, err := h.bi.MostItems(c.Request.Context(), n)
	if err != nil {
		respondError(c, "Failed to rank merchants", err)
		return
	}

	c.JSON(http.StatusOK, rankedMerchants(rankings))
}

// @Summary Favorite customer
// @Description The customer with the most successful transactions with the merchant, or null
// @Tags business-intelligence
// @Produce json
// @Param id path int true "Merchant ID"
// @Success 200 {object} models.Customer
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /merchants/{id}/favorite_customer [get]
func (h *BusinessIntelligenceHandler) FavoriteCustomer(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	customer, err := h.bi.FavoriteCustomer(c.Request.Context(), id)
	if err != nil {
		respondError(c, "Failed to find favorite customer", err)
		return
	}

	c.JSON(http.StatusOK, customer)
}

// @Summary Customers with pending invoices
// @Description Customers holding at least one invoice with the merchant that was never paid
// @Tags business-intelligence
// @Produce json
// @Param id path int true "Merchant ID"
// @Success 200 {array} models.Customer
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /merchants/{id}/customers_with_pending_invoices [get]
func (h *BusinessIntelligenceHandler) CustomersWithPendingInvoices(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	customers, err := h.bi.CustomersWithPendingInvoices(c.Request.Context(), id)
	if err != nil {
		respondError(c, "Failed to find customers with pending invoices", err)
		return
	}
	if customers == nil {
		customers = []*models.Customer{}
	}

	c.JSON(http.StatusOK, customers)
}

func rankedMerchants(rankings []models.MerchantRanking) []models.Merchant {
	merchants := make([]models.Merchant, 0, len(rankings))
	for _, r := range rankings {
		merchants = append(merchants, r.Merchant)
	}
	return merchants
}
