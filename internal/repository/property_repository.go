package repository

import (
	"errors"
	"fmt"

	"property-service/internal/model"
	"property-service/internal/validation"

	"gorm.io/gorm"
)

// DefaultPerPage matches the original listing page size.
const DefaultPerPage = 15

// allowedSorts is the allow-list of sortable columns. Anything else falls
// back to the default ordering instead of reaching the SQL layer.
var allowedSorts = map[string]bool{
	"price":      true,
	"created_at": true,
	"name":       true,
	"rooms":      true,
	"bathrooms":  true,
}

// Notifier receives the post-creation side effect. The repository only
// depends on this interface so the dispatcher can be faked in tests; a
// failing or missing dispatch never fails the create.
type Notifier interface {
	PropertyCreated(p model.Property)
}

// ListFilters are the supported listing filters.
type ListFilters struct {
	Type     string
	City     string
	MinPrice *float64
	MaxPrice *float64
}

// ListOptions control sorting and pagination.
type ListOptions struct {
	SortBy    string
	SortOrder string
	Page      int
	PerPage   int
}

// PageMeta describes the returned page.
type PageMeta struct {
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
}

// PropertyRepository implements ownership-scoped CRUD over properties.
// Every operation takes the owner explicitly; reads exclude soft-deleted
// rows.
type PropertyRepository struct {
	db       *gorm.DB
	notifier Notifier
}

func NewPropertyRepository(db *gorm.DB, notifier Notifier) *PropertyRepository {
	return &PropertyRepository{db: db, notifier: notifier}
}

func ownedBy(ownerID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", ownerID)
	}
}

func ofType(t string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("real_estate_type = ?", t)
	}
}

func priceAtLeast(min float64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("price >= ?", min)
	}
}

func priceAtMost(max float64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("price <= ?", max)
	}
}

func inCity(city string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("city ILIKE ?", "%"+city+"%")
	}
}

// scopesFor composes the predicate list for a listing query.
func scopesFor(ownerID uint, f ListFilters) []func(*gorm.DB) *gorm.DB {
	scopes := []func(*gorm.DB) *gorm.DB{ownedBy(ownerID), model.Active}
	if f.Type != "" {
		scopes = append(scopes, ofType(f.Type))
	}
	if f.MinPrice != nil {
		scopes = append(scopes, priceAtLeast(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		scopes = append(scopes, priceAtMost(*f.MaxPrice))
	}
	if f.City != "" {
		scopes = append(scopes, inCity(f.City))
	}
	return scopes
}

// orderClause builds the ORDER BY expression from the allow-listed sort
// column and direction, defaulting to newest first.
func orderClause(sortBy, sortOrder string) string {
	if !allowedSorts[sortBy] {
		return "created_at DESC"
	}
	dir := "DESC"
	if sortOrder == "asc" {
		dir = "ASC"
	}
	return fmt.Sprintf("%s %s", sortBy, dir)
}

// List returns one page of the owner's active properties.
func (r *PropertyRepository) List(ownerID uint, f ListFilters, o ListOptions) ([]model.Property, PageMeta, error) {
	if o.PerPage <= 0 {
		o.PerPage = DefaultPerPage
	}
	if o.Page <= 0 {
		o.Page = 1
	}

	scopes := scopesFor(ownerID, f)

	var total int64
	if err := r.db.Model(&model.Property{}).Scopes(scopes...).Count(&total).Error; err != nil {
		return nil, PageMeta{}, err
	}

	properties := []model.Property{}
	err := r.db.Scopes(scopes...).
		Order(orderClause(o.SortBy, o.SortOrder)).
		Offset((o.Page - 1) * o.PerPage).
		Limit(o.PerPage).
		Find(&properties).Error
	if err != nil {
		return nil, PageMeta{}, err
	}

	lastPage := int((total + int64(o.PerPage) - 1) / int64(o.PerPage))
	if lastPage < 1 {
		lastPage = 1
	}
	meta := PageMeta{
		CurrentPage: o.Page,
		LastPage:    lastPage,
		PerPage:     o.PerPage,
		Total:       total,
	}
	return properties, meta, nil
}

// Get returns the owner's active property with the given id. A missing,
// inactive, or foreign record is uniformly ErrNotFound.
func (r *PropertyRepository) Get(ownerID, id uint) (*model.Property, error) {
	var p model.Property
	err := r.db.Scopes(ownedBy(ownerID), model.Active).First(&p, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Create inserts a validated property for the owner and hands it to the
// notification dispatcher. The dispatch is fire and forget.
func (r *PropertyRepository) Create(ownerID uint, fields *validation.Fields) (*model.Property, error) {
	p := model.Property{
		UserID:         ownerID,
		Name:           fields.Name,
		RealEstateType: fields.RealEstateType,
		Street:         fields.Street,
		ExternalNumber: fields.ExternalNumber,
		InternalNumber: fields.InternalNumber,
		Neighborhood:   fields.Neighborhood,
		City:           fields.City,
		Country:        fields.Country,
		Rooms:          fields.Rooms,
		Bathrooms:      fields.Bathrooms,
		Price:          fields.Price,
		Comments:       fields.Comments,
		Status:         true,
	}
	if err := r.db.Create(&p).Error; err != nil {
		return nil, err
	}

	if r.notifier != nil {
		r.notifier.PropertyCreated(p)
	}
	return &p, nil
}

// Update applies the provided columns to the owner's active property and
// returns the refreshed record.
func (r *PropertyRepository) Update(ownerID, id uint, changes map[string]interface{}) (*model.Property, error) {
	p, err := r.Get(ownerID, id)
	if err != nil {
		return nil, err
	}

	if len(changes) > 0 {
		if err := r.db.Model(p).Updates(changes).Error; err != nil {
			return nil, err
		}
	}
	return r.Get(ownerID, id)
}

// Deactivate soft-deletes the owner's active property. A second call for
// the same id fails with ErrNotFound because the first call already
// removed the record from every active-scoped read.
func (r *PropertyRepository) Deactivate(ownerID, id uint) error {
	p, err := r.Get(ownerID, id)
	if err != nil {
		return err
	}
	return r.db.Model(p).Update("status", false).Error
}
