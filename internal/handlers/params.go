package handlers

import (
	"fmt"
	"strconv"

	"merchant-bi-api/internal/models"

	"github.com/gin-gonic/gin"
)

// pathID parses the :id path parameter
func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("id must be a positive integer")
	}
	return id, nil
}

// queryID parses an optional id-valued query parameter
func queryID(c *gin.Context, key string) (*int64, error) {
	value, ok := c.GetQuery(key)
	if !ok {
		return nil, nil
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id < 1 {
		return nil, fmt.Errorf("%s must be a positive integer", key)
	}
	return &id, nil
}

// queryInt64 parses an optional integer query parameter
func queryInt64(c *gin.Context, key string) (*int64, error) {
	value, ok := c.GetQuery(key)
	if !ok {
		return nil, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", key)
	}
	return &n, nil
}

// queryDate parses an optional date query parameter
func queryDate(c *gin.Context, key string) (*models.Date, error) {
	value, ok := c.GetQuery(key)
	if !ok {
		return nil, nil
	}
	date, err := models.ParseDate(value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &date, nil
}

// queryMoney parses an optional major-unit amount such as 136.35
func queryMoney(c *gin.Context, key string) (*models.Money, error) {
	value, ok := c.GetQuery(key)
	if !ok {
		return nil, nil
	}
	amount, err := models.ParseMoney(value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &amount, nil
}

// quantityParam parses the required ranking size
func quantityParam(c *gin.Context) (int, error) {
	value, ok := c.GetQuery("quantity")
	if !ok {
		return 0, fmt.Errorf("quantity is required")
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("quantity must be an integer")
	}
	return n, nil
}

// merchantFilters reads the whitelisted merchant search parameters. Other keys are ignored.
func merchantFilters(c *gin.Context) (models.MerchantFilters, error) {
	var (
		filters models.MerchantFilters
		err     error
	)

	if filters.ID, err = queryID(c, "id"); err != nil {
		return filters, err
	}
	if name, ok := c.GetQuery("name"); ok {
		filters.Name = &name
	}
	if filters.CreatedAt, err = queryDate(c, "created_at"); err != nil {
		return filters, err
	}
	if filters.UpdatedAt, err = queryDate(c, "updated_at"); err != nil {
		return filters, err
	}
	return filters, nil
}

// invoiceItemFilters reads the whitelisted invoice item search parameters. Other keys are
// ignored.
func invoiceItemFilters(c *gin.Context) (models.InvoiceItemFilters, error) {
	var (
		filters models.InvoiceItemFilters
		err     error
	)

	if filters.ID, err = queryID(c, "id"); err != nil {
		return filters, err
	}
	if filters.InvoiceID, err = queryID(c, "invoice_id"); err != nil {
		return filters, err
	}
	if filters.ItemID, err = queryID(c, "item_id"); err != nil {
		return filters, err
	}
	if filters.Quantity, err = queryInt64(c, "quantity"); err != nil {
		return filters, err
	}
	if filters.UnitPrice, err = queryMoney(c, "unit_price"); err != nil {
		return filters, err
	}
	if filters.CreatedAt, err = queryDate(c, "created_at"); err != nil {
		return filters, err
	}
	if filters.UpdatedAt, err = queryDate(c, "updated_at"); err != nil {
		return filters, err
	}
	return filters, nil
}
