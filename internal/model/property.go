package model

import (
	"time"

	"gorm.io/gorm"
)

// Real estate type constants. Used for validation and the dashboard grouping.
const (
	TypeHouse            = "house"
	TypeApartment        = "apartment"
	TypeLand             = "land"
	TypeCommercialGround = "commercial_ground"
)

// Types lists every accepted real_estate_type value.
var Types = []string{
	TypeHouse,
	TypeApartment,
	TypeLand,
	TypeCommercialGround,
}

// TypesRequiringInternalNumber lists the types for which internal_number is mandatory.
var TypesRequiringInternalNumber = []string{
	TypeApartment,
	TypeCommercialGround,
}

// TypesAllowingZeroBathrooms lists the types that may have zero bathrooms.
var TypesAllowingZeroBathrooms = []string{
	TypeLand,
	TypeCommercialGround,
}

// Property represents a real estate property owned by a user.
//
// Records are never physically removed: Status is a soft-delete flag and
// every normal read filters on Status=true via the Active scope.
type Property struct {
	ID             uint      `json:"id" gorm:"primarykey"`
	UserID         uint      `json:"user_id" gorm:"index;not null"`
	Name           string    `json:"name" gorm:"type:varchar(128);not null"`
	RealEstateType string    `json:"real_estate_type" gorm:"type:varchar(32);index;not null"`
	Street         string    `json:"street" gorm:"type:varchar(128);not null"`
	ExternalNumber string    `json:"external_number" gorm:"type:varchar(12);not null"`
	InternalNumber *string   `json:"internal_number" gorm:"type:varchar(12)"`
	Neighborhood   string    `json:"neighborhood" gorm:"type:varchar(128);not null"`
	City           string    `json:"city" gorm:"type:varchar(64);not null"`
	Country        string    `json:"country" gorm:"type:char(2);not null"`
	Rooms          int       `json:"rooms" gorm:"not null;default:0"`
	Bathrooms      float64   `json:"bathrooms" gorm:"type:decimal(3,1);default:0"`
	Price          float64   `json:"price" gorm:"type:decimal(12,2);index;not null"`
	Comments       *string   `json:"comments" gorm:"type:text"`
	Status         bool      `json:"status" gorm:"default:true"`
	CreatedAt      time.Time `json:"created_at" gorm:"index"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// IsValidType reports whether t is one of the accepted real estate types.
func IsValidType(t string) bool {
	for _, v := range Types {
		if v == t {
			return true
		}
	}
	return false
}

// RequiresInternalNumber reports whether the property's type makes
// internal_number mandatory.
func (p *Property) RequiresInternalNumber() bool {
	return contains(TypesRequiringInternalNumber, p.RealEstateType)
}

// AllowsZeroBathrooms reports whether the property's type accepts zero bathrooms.
func (p *Property) AllowsZeroBathrooms() bool {
	return contains(TypesAllowingZeroBathrooms, p.RealEstateType)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// Active scopes a query to non-deleted rows.
func Active(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", true)
}

// Inactive scopes a query to soft-deleted rows.
func Inactive(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", false)
}
