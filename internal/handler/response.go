package handler

import (
	"net/http"

	"property-service/internal/validation"

	"github.com/labstack/echo/v4"
)

// validationFailed renders the 422 envelope with the itemized per-field
// error map.
func validationFailed(c echo.Context, errs validation.Errors) error {
	return c.JSON(http.StatusUnprocessableEntity, echo.Map{
		"message": "The given data was invalid.",
		"errors":  errs,
	})
}

// propertyNotFound renders the uniform 404 used for missing, inactive, and
// foreign records alike.
func propertyNotFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, echo.Map{"message": "Property not found"})
}
