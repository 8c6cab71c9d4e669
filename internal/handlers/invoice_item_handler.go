package handlers

import (
	"net/http"

	"merchant-bi-api/internal/models"
	"merchant-bi-api/internal/services"

	"github.com/gin-gonic/gin"
)

// InvoiceItemHandler handles invoice item searches
type InvoiceItemHandler struct {
	invoiceItemService services.InvoiceItemService
}

// NewInvoiceItemHandler creates a new invoice item handler
func NewInvoiceItemHandler(invoiceItemService services.InvoiceItemService) *InvoiceItemHandler {
	return &InvoiceItemHandler{
		invoiceItemService: invoiceItemService,
	}
}

// @Summary Find an invoice item
// @Description First invoice item (lowest ID) matching every supplied filter, or null
// @Tags invoice-items
// @Produce json
// @Param id query int false "Invoice item ID"
// @Param invoice_id query int false "Invoice ID"
// @Param item_id query int false "Item ID"
// @Param quantity query int false "Quantity"
// @Param unit_price query string false "Unit price in major units, e.g. 136.35"
// @Param created_at query string false "Creation date (YYYY-MM-DD)"
// @Param updated_at query string false "Update date (YYYY-MM-DD)"
// @Success 200 {object} models.InvoiceItem
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /invoice_items/find [get]
func (h *InvoiceItemHandler) FindInvoiceItem(c *gin.Context) {
	filters, err := invoiceItemFilters(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	item, err := h.invoiceItemService.FindInvoiceItem(c.Request.Context(), filters)
	if err != nil {
		respondError(c, "Failed to find invoice item", err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// @Summary Find all invoice items
// @Tags invoice-items
// @Produce json
// @Param id query int false "Invoice item ID"
// @Param invoice_id query int false "Invoice ID"
// @Param item_id query int false "Item ID"
// @Param quantity query int false "Quantity"
// @Param unit_price query string false "Unit price in major units, e.g. 136.35"
// @Param created_at query string false "Creation date (YYYY-MM-DD)"
// @Param updated_at query string false "Update date (YYYY-MM-DD)"
// @Success 200 {array} models.InvoiceItem
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /invoice_items/find_all [get]
func (h *InvoiceItemHandler) FindAllInvoiceItems(c *gin.Context) {
	filters, err := invoiceItemFilters(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	items, err := h.invoiceItemService.FindAllInvoiceItems(c.Request.Context(), filters)
	if err != nil {
		respondError(c, "Failed to find invoice items", err)
		return
	}
	if items == nil {
		items = []*models.InvoiceItem{}
	}

	c.JSON(http.StatusOK, items)
}
