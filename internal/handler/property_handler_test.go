package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"property-service/internal/model"
	"property-service/internal/repository"
	"property-service/internal/validation"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePropertyStore struct {
	listResult   []model.Property
	listMeta     repository.PageMeta
	listFilters  repository.ListFilters
	listOptions  repository.ListOptions
	getResult    *model.Property
	getErr       error
	created      *model.Property
	createErr    error
	updated      *model.Property
	updateErr    error
	lastChanges  map[string]interface{}
	deactivated  []uint
	deactivate   error
	lastOwnerID  uint
	createFields *validation.Fields
}

func (f *fakePropertyStore) List(ownerID uint, filters repository.ListFilters, opts repository.ListOptions) ([]model.Property, repository.PageMeta, error) {
	f.lastOwnerID = ownerID
	f.listFilters = filters
	f.listOptions = opts
	return f.listResult, f.listMeta, nil
}

func (f *fakePropertyStore) Get(ownerID, id uint) (*model.Property, error) {
	f.lastOwnerID = ownerID
	return f.getResult, f.getErr
}

func (f *fakePropertyStore) Create(ownerID uint, fields *validation.Fields) (*model.Property, error) {
	f.lastOwnerID = ownerID
	f.createFields = fields
	return f.created, f.createErr
}

func (f *fakePropertyStore) Update(ownerID, id uint, changes map[string]interface{}) (*model.Property, error) {
	f.lastOwnerID = ownerID
	f.lastChanges = changes
	return f.updated, f.updateErr
}

func (f *fakePropertyStore) Deactivate(ownerID, id uint) error {
	f.lastOwnerID = ownerID
	f.deactivated = append(f.deactivated, id)
	return f.deactivate
}

// newAuthedContext builds an echo context carrying the identity the auth
// middleware would have stored.
func newAuthedContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user", &model.User{ID: 7, Name: "Jordan", Email: "jordan@example.com"})
	c.Set("user_id", uint(7))
	return c, rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func activeHouse() *model.Property {
	return &model.Property{
		ID:             1,
		UserID:         7,
		Name:           "Beach House",
		RealEstateType: model.TypeHouse,
		Street:         "Ocean Drive",
		ExternalNumber: "45",
		Neighborhood:   "Seaside",
		City:           "Cancun",
		Country:        "MX",
		Rooms:          4,
		Bathrooms:      2,
		Price:          500000,
		Status:         true,
	}
}

func TestPropertyList(t *testing.T) {
	t.Run("envelope with data and meta", func(t *testing.T) {
		store := &fakePropertyStore{
			listResult: []model.Property{*activeHouse()},
			listMeta:   repository.PageMeta{CurrentPage: 1, LastPage: 1, PerPage: 15, Total: 1},
		}
		h := NewPropertyHandler(store)

		c, rec := newAuthedContext(t, http.MethodGet, "/api/properties", "")
		require.NoError(t, h.List(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Len(t, body["data"], 1)
		meta := body["meta"].(map[string]interface{})
		assert.Equal(t, float64(1), meta["current_page"])
		assert.Equal(t, float64(15), meta["per_page"])
		assert.Equal(t, float64(1), meta["total"])
		assert.Equal(t, uint(7), store.lastOwnerID)
	})

	t.Run("query parameters reach the repository", func(t *testing.T) {
		store := &fakePropertyStore{listResult: []model.Property{}}
		h := NewPropertyHandler(store)

		c, _ := newAuthedContext(t, http.MethodGet,
			"/api/properties?type=house&city=cancun&min_price=100000&max_price=900000&sort_by=price&sort_order=asc&page=2&per_page=5", "")
		require.NoError(t, h.List(c))

		assert.Equal(t, "house", store.listFilters.Type)
		assert.Equal(t, "cancun", store.listFilters.City)
		require.NotNil(t, store.listFilters.MinPrice)
		assert.Equal(t, 100000.0, *store.listFilters.MinPrice)
		require.NotNil(t, store.listFilters.MaxPrice)
		assert.Equal(t, 900000.0, *store.listFilters.MaxPrice)
		assert.Equal(t, "price", store.listOptions.SortBy)
		assert.Equal(t, "asc", store.listOptions.SortOrder)
		assert.Equal(t, 2, store.listOptions.Page)
		assert.Equal(t, 5, store.listOptions.PerPage)
	})
}

func TestPropertyCreate(t *testing.T) {
	t.Run("valid payload returns 201", func(t *testing.T) {
		created := activeHouse()
		store := &fakePropertyStore{created: created}
		h := NewPropertyHandler(store)

		payload := `{
			"name": "Beach House",
			"real_estate_type": "house",
			"street": "Ocean Drive",
			"external_number": "45",
			"neighborhood": "Seaside",
			"city": "Cancun",
			"country": "MX",
			"rooms": 4,
			"bathrooms": 2,
			"price": 500000
		}`
		c, rec := newAuthedContext(t, http.MethodPost, "/api/properties", payload)
		require.NoError(t, h.Create(c))

		assert.Equal(t, http.StatusCreated, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Property created successfully", body["message"])
		assert.NotNil(t, body["data"])
		require.NotNil(t, store.createFields)
		assert.Equal(t, "Beach House", store.createFields.Name)
		assert.Equal(t, uint(7), store.lastOwnerID)
	})

	t.Run("invalid payload returns 422 with itemized errors", func(t *testing.T) {
		store := &fakePropertyStore{}
		h := NewPropertyHandler(store)

		// Apartment without an internal number and with a bad country code
		payload := `{
			"name": "Loft",
			"real_estate_type": "apartment",
			"street": "5th Avenue",
			"external_number": "10",
			"neighborhood": "Midtown",
			"city": "New York",
			"country": "usa",
			"rooms": 1,
			"bathrooms": 1,
			"price": 900000
		}`
		c, rec := newAuthedContext(t, http.MethodPost, "/api/properties", payload)
		require.NoError(t, h.Create(c))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "The given data was invalid.", body["message"])
		errs := body["errors"].(map[string]interface{})
		assert.Contains(t, errs, "internal_number")
		assert.Contains(t, errs, "country")
		assert.Nil(t, store.createFields, "the store must not be reached on validation failure")
	})

	t.Run("malformed JSON returns 400", func(t *testing.T) {
		h := NewPropertyHandler(&fakePropertyStore{})

		c, rec := newAuthedContext(t, http.MethodPost, "/api/properties", `{"name": `)
		require.NoError(t, h.Create(c))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestPropertyGet(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		store := &fakePropertyStore{getResult: activeHouse()}
		h := NewPropertyHandler(store)

		c, rec := newAuthedContext(t, http.MethodGet, "/api/properties/1", "")
		c.SetParamNames("id")
		c.SetParamValues("1")
		require.NoError(t, h.Get(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		data := body["data"].(map[string]interface{})
		assert.Equal(t, "Beach House", data["name"])
	})

	t.Run("missing property returns 404", func(t *testing.T) {
		store := &fakePropertyStore{getErr: repository.ErrNotFound}
		h := NewPropertyHandler(store)

		c, rec := newAuthedContext(t, http.MethodGet, "/api/properties/99", "")
		c.SetParamNames("id")
		c.SetParamValues("99")
		require.NoError(t, h.Get(c))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Property not found", body["message"])
	})

	t.Run("non-numeric id returns 404", func(t *testing.T) {
		h := NewPropertyHandler(&fakePropertyStore{})

		c, rec := newAuthedContext(t, http.MethodGet, "/api/properties/abc", "")
		c.SetParamNames("id")
		c.SetParamValues("abc")
		require.NoError(t, h.Get(c))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestPropertyUpdate(t *testing.T) {
	t.Run("partial update succeeds", func(t *testing.T) {
		updated := activeHouse()
		updated.Price = 600000
		store := &fakePropertyStore{getResult: activeHouse(), updated: updated}
		h := NewPropertyHandler(store)

		c, rec := newAuthedContext(t, http.MethodPut, "/api/properties/1", `{"price": 600000}`)
		c.SetParamNames("id")
		c.SetParamValues("1")
		require.NoError(t, h.Update(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Property updated successfully", body["message"])
		assert.Equal(t, map[string]interface{}{"price": 600000.0}, store.lastChanges)
	})

	t.Run("cross-field rules use the persisted record", func(t *testing.T) {
		store := &fakePropertyStore{getResult: activeHouse()}
		h := NewPropertyHandler(store)

		// Changing a house into an apartment without supplying the
		// internal number the merged record would need.
		c, rec := newAuthedContext(t, http.MethodPut, "/api/properties/1", `{"real_estate_type": "apartment"}`)
		c.SetParamNames("id")
		c.SetParamValues("1")
		require.NoError(t, h.Update(c))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := decodeBody(t, rec)
		errs := body["errors"].(map[string]interface{})
		assert.Contains(t, errs, "internal_number")
		assert.Nil(t, store.lastChanges)
	})

	t.Run("missing property returns 404 before validation", func(t *testing.T) {
		store := &fakePropertyStore{getErr: repository.ErrNotFound}
		h := NewPropertyHandler(store)

		c, rec := newAuthedContext(t, http.MethodPut, "/api/properties/99", `{"price": 1}`)
		c.SetParamNames("id")
		c.SetParamValues("99")
		require.NoError(t, h.Update(c))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestPropertyDelete(t *testing.T) {
	t.Run("soft delete succeeds", func(t *testing.T) {
		store := &fakePropertyStore{}
		h := NewPropertyHandler(store)

		c, rec := newAuthedContext(t, http.MethodDelete, "/api/properties/1", "")
		c.SetParamNames("id")
		c.SetParamValues("1")
		require.NoError(t, h.Delete(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Property deleted successfully", body["message"])
		assert.Equal(t, []uint{1}, store.deactivated)
	})

	t.Run("repeated delete returns 404", func(t *testing.T) {
		store := &fakePropertyStore{deactivate: repository.ErrNotFound}
		h := NewPropertyHandler(store)

		c, rec := newAuthedContext(t, http.MethodDelete, "/api/properties/1", "")
		c.SetParamNames("id")
		c.SetParamValues("1")
		require.NoError(t, h.Delete(c))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Property not found", body["message"])
	})
}
