package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"merchant-bi-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// dateParams are the query parameters that carry a calendar date
var dateParams = []string{"date", "created_at", "updated_at"}

// idParams are the query and path parameters that carry a record id
var idParams = []string{"id", "invoice_id", "item_id"}

// RequestValidation middleware rejects malformed ids, dates and counts before they reach a
// handler. Parameters it does not know are left for the handler's whitelist to drop.
func RequestValidation() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := validatePathParams(c); err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid path parameters", err.Error())
			return
		}

		if err := validateQueryParams(c); err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid query parameters", err.Error())
			return
		}

		c.Next()
	}
}

func validatePathParams(c *gin.Context) error {
	if value := c.Param("id"); value != "" {
		if err := validateID(value); err != nil {
			return fmt.Errorf("invalid id parameter: %w", err)
		}
	}
	return nil
}

func validateQueryParams(c *gin.Context) error {
	for _, param := range idParams {
		if value, ok := c.GetQuery(param); ok {
			if err := validateID(value); err != nil {
				return fmt.Errorf("invalid %s parameter: %w", param, err)
			}
		}
	}

	for _, param := range dateParams {
		if value, ok := c.GetQuery(param); ok {
			if _, err := models.ParseDate(value); err != nil {
				return fmt.Errorf("invalid %s parameter: must be a date such as 2012-03-27", param)
			}
		}
	}

	for _, param := range []string{"quantity"} {
		if value, ok := c.GetQuery(param); ok {
			if err := validate.Var(value, "required,number"); err != nil {
				return fmt.Errorf("invalid %s parameter: must be a whole number", param)
			}
		}
	}

	if value, ok := c.GetQuery("unit_price"); ok {
		if err := validate.Var(value, "required,numeric"); err != nil {
			return fmt.Errorf("invalid unit_price parameter: must be a decimal amount")
		}
	}

	return nil
}

func validateID(value string) error {
	if err := validate.Var(value, "required,number"); err != nil {
		return fmt.Errorf("must be a positive integer")
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id < 1 {
		return fmt.Errorf("must be a positive integer")
	}
	return nil
}
