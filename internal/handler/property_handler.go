package handler

import (
	"errors"
	"net/http"
	"strconv"

	"property-service/internal/middleware"
	"property-service/internal/model"
	"property-service/internal/repository"
	"property-service/internal/validation"
	"property-service/pkg/logger"
	"property-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// PropertyStore is the repository surface the property handlers use.
type PropertyStore interface {
	List(ownerID uint, f repository.ListFilters, o repository.ListOptions) ([]model.Property, repository.PageMeta, error)
	Get(ownerID, id uint) (*model.Property, error)
	Create(ownerID uint, fields *validation.Fields) (*model.Property, error)
	Update(ownerID, id uint, changes map[string]interface{}) (*model.Property, error)
	Deactivate(ownerID, id uint) error
}

// PropertyHandler serves the /properties CRUD surface.
type PropertyHandler struct {
	properties PropertyStore
}

func NewPropertyHandler(properties PropertyStore) *PropertyHandler {
	return &PropertyHandler{properties: properties}
}

// List returns one page of the caller's active properties.
//
// Query parameters: type, min_price, max_price, city, sort_by, sort_order,
// per_page, page.
func (h *PropertyHandler) List(c echo.Context) error {
	log := logger.FromContext(c)
	ownerID, _ := middleware.CurrentUserID(c)
	prometheus.RecordPropertyOperation("list")

	filters := repository.ListFilters{
		Type: c.QueryParam("type"),
		City: c.QueryParam("city"),
	}
	if raw := c.QueryParam("min_price"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			filters.MinPrice = &v
		}
	}
	if raw := c.QueryParam("max_price"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			filters.MaxPrice = &v
		}
	}

	opts := repository.ListOptions{
		SortBy:    c.QueryParam("sort_by"),
		SortOrder: c.QueryParam("sort_order"),
	}
	if raw := c.QueryParam("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			opts.Page = v
		}
	}
	if raw := c.QueryParam("per_page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			opts.PerPage = v
		}
	}

	properties, meta, err := h.properties.List(ownerID, filters, opts)
	if err != nil {
		log.Error("failed to list properties", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to retrieve properties"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data": properties,
		"meta": meta,
	})
}

// Create validates the payload, stores the property, and returns 201. The
// post-creation notification runs out-of-band and cannot fail the request.
func (h *PropertyHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	ownerID, _ := middleware.CurrentUserID(c)

	var in validation.PropertyInput
	if err := c.Bind(&in); err != nil {
		log.Error("failed to parse property payload", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request data"})
	}

	fields, errs := validation.ValidateCreate(&in)
	if errs.Any() {
		return validationFailed(c, errs)
	}

	property, err := h.properties.Create(ownerID, fields)
	if err != nil {
		log.Error("failed to create property", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to create property"})
	}
	prometheus.RecordPropertyOperation("create")

	log.Info("property created",
		zap.Uint("property_id", property.ID),
		zap.String("name", property.Name),
		zap.String("type", property.RealEstateType))
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Property created successfully",
		"data":    property,
	})
}

// Get returns one of the caller's active properties by id.
func (h *PropertyHandler) Get(c echo.Context) error {
	log := logger.FromContext(c)
	ownerID, _ := middleware.CurrentUserID(c)

	id, err := parseID(c)
	if err != nil {
		return propertyNotFound(c)
	}

	property, err := h.properties.Get(ownerID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return propertyNotFound(c)
		}
		log.Error("failed to fetch property", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to retrieve property"})
	}
	prometheus.RecordPropertyOperation("get")

	return c.JSON(http.StatusOK, echo.Map{"data": property})
}

// Update applies a partial update to one of the caller's active properties.
// Type-dependent rules are validated against the record as it would look
// after the update.
func (h *PropertyHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)
	ownerID, _ := middleware.CurrentUserID(c)

	id, err := parseID(c)
	if err != nil {
		return propertyNotFound(c)
	}

	current, err := h.properties.Get(ownerID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return propertyNotFound(c)
		}
		log.Error("failed to fetch property for update", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to update property"})
	}

	var in validation.PropertyInput
	if err := c.Bind(&in); err != nil {
		log.Error("failed to parse property payload", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request data"})
	}

	changes, errs := validation.ValidateUpdate(&in, current)
	if errs.Any() {
		return validationFailed(c, errs)
	}

	property, err := h.properties.Update(ownerID, id, changes)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return propertyNotFound(c)
		}
		log.Error("failed to update property", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to update property"})
	}
	prometheus.RecordPropertyOperation("update")

	log.Info("property updated", zap.Uint("property_id", property.ID))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Property updated successfully",
		"data":    property,
	})
}

// Delete soft-deletes one of the caller's active properties. Repeating the
// call yields 404 because the record no longer appears in active reads.
func (h *PropertyHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)
	ownerID, _ := middleware.CurrentUserID(c)

	id, err := parseID(c)
	if err != nil {
		return propertyNotFound(c)
	}

	if err := h.properties.Deactivate(ownerID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return propertyNotFound(c)
		}
		log.Error("failed to delete property", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to delete property"})
	}
	prometheus.RecordPropertyOperation("delete")

	log.Info("property deleted", zap.Uint("property_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Property deleted successfully"})
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
