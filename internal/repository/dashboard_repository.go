package repository

import (
	"math"
	"time"

	"property-service/internal/model"

	"gorm.io/gorm"
)

// Statistics are the headline dashboard numbers. Price aggregates cover
// active properties only and collapse to 0 for a zero-property owner.
type Statistics struct {
	TotalProperties         int64   `json:"total_properties"`
	TotalActiveProperties   int64   `json:"total_active_properties"`
	TotalInactiveProperties int64   `json:"total_inactive_properties"`
	AveragePrice            float64 `json:"average_price"`
	TotalValue              float64 `json:"total_value"`
}

// TypeSummary is one row of the per-type grouping.
type TypeSummary struct {
	Type         string  `json:"type"`
	Count        int64   `json:"count"`
	AveragePrice float64 `json:"average_price"`
}

// RecentProperty is the lightweight projection used for the recent list.
type RecentProperty struct {
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	Price     float64 `json:"price"`
	City      string  `json:"city"`
	CreatedAt string  `json:"created_at"`
}

// Overview is the full dashboard response body.
type Overview struct {
	Statistics       Statistics       `json:"statistics"`
	PropertiesByType []TypeSummary    `json:"properties_by_type"`
	RecentProperties []RecentProperty `json:"recent_properties"`
}

// recentLimit caps the recent-properties list.
const recentLimit = 5

// DashboardRepository computes read-only statistics over one owner's
// properties.
type DashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

func (r *DashboardRepository) forOwner(ownerID uint) *gorm.DB {
	return r.db.Model(&model.Property{}).Where("user_id = ?", ownerID)
}

// Overview gathers every dashboard statistic for the owner.
func (r *DashboardRepository) Overview(ownerID uint) (*Overview, error) {
	var active, inactive int64
	if err := r.forOwner(ownerID).Scopes(model.Active).Count(&active).Error; err != nil {
		return nil, err
	}
	if err := r.forOwner(ownerID).Scopes(model.Inactive).Count(&inactive).Error; err != nil {
		return nil, err
	}

	var averagePrice, totalValue float64
	row := r.forOwner(ownerID).Scopes(model.Active).
		Select("COALESCE(AVG(price), 0), COALESCE(SUM(price), 0)").Row()
	if err := row.Scan(&averagePrice, &totalValue); err != nil {
		return nil, err
	}

	byType := []TypeSummary{}
	err := r.forOwner(ownerID).Scopes(model.Active).
		Select("real_estate_type AS type, COUNT(*) AS count, COALESCE(AVG(price), 0) AS average_price").
		Group("real_estate_type").
		Scan(&byType).Error
	if err != nil {
		return nil, err
	}
	for i := range byType {
		byType[i].AveragePrice = roundTo(byType[i].AveragePrice, 2)
	}

	var recent []model.Property
	err = r.db.Scopes(ownedBy(ownerID), model.Active).
		Order("created_at DESC").
		Limit(recentLimit).
		Find(&recent).Error
	if err != nil {
		return nil, err
	}

	recentProjected := make([]RecentProperty, 0, len(recent))
	for _, p := range recent {
		recentProjected = append(recentProjected, RecentProperty{
			ID:        p.ID,
			Name:      p.Name,
			Type:      p.RealEstateType,
			Price:     p.Price,
			City:      p.City,
			CreatedAt: p.CreatedAt.Format(time.RFC3339),
		})
	}

	return &Overview{
		Statistics: Statistics{
			TotalProperties:         active,
			TotalActiveProperties:   active,
			TotalInactiveProperties: inactive,
			AveragePrice:            roundTo(averagePrice, 2),
			TotalValue:              roundTo(totalValue, 2),
		},
		PropertiesByType: byType,
		RecentProperties: recentProjected,
	}, nil
}

func roundTo(v float64, places int) float64 {
	factor := math.Pow10(places)
	return math.Round(v*factor) / factor
}
