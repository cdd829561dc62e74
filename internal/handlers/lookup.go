package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/lodging-intake-service/internal/address"
	"github.com/PratikDhanave/lodging-intake-service/internal/models"
	"github.com/PratikDhanave/lodging-intake-service/internal/postal"
)

// RegisterLookupRoutes registers the address helper endpoints.
//
// GET /api/postal-codes/:code         postal code -> city
// GET /api/cities/:name/postal-codes  city -> postal codes
func RegisterLookupRoutes(r gin.IRoutes, helper *address.Helper) {
	r.GET("/api/postal-codes/:code", func(c *gin.Context) {
		res, err := helper.CityByCode(c.Request.Context(), c.Param("code"))
		if err != nil {
			writeLookupError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	})

	r.GET("/api/cities/:name/postal-codes", func(c *gin.Context) {
		name := c.Param("name")
		places, err := helper.CodesByCity(c.Request.Context(), name)
		if err != nil {
			writeLookupError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.CityLookupResponse{
			City:      name,
			Results:   places,
			Ambiguous: len(places) > 1,
		})
	})
}

func writeLookupError(c *gin.Context, err error) {
	switch {
	case postal.IsValidationError(err):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid postal code", Warning: err.Error()})
	case errors.Is(err, address.ErrCityTooShort):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "city name too short", Warning: err.Error()})
	case errors.Is(err, address.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: models.NotFoundMessage})
	case errors.Is(err, address.ErrLookupFailed):
		c.JSON(http.StatusBadGateway, models.ErrorResponse{Error: err.Error(), ManualEntry: true})
	default:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "lookup failed"})
	}
}
