package validation

import (
	"math"
	"regexp"
	"strings"

	"property-service/internal/model"
)

// PropertyInput is the raw create/update payload. Pointer fields let update
// mode distinguish absent fields from zero values; a JSON null is treated
// the same as an absent field.
type PropertyInput struct {
	Name           *string  `json:"name"`
	RealEstateType *string  `json:"real_estate_type"`
	Street         *string  `json:"street"`
	ExternalNumber *string  `json:"external_number"`
	InternalNumber *string  `json:"internal_number"`
	Neighborhood   *string  `json:"neighborhood"`
	City           *string  `json:"city"`
	Country        *string  `json:"country"`
	Rooms          *int     `json:"rooms"`
	Bathrooms      *float64 `json:"bathrooms"`
	Price          *float64 `json:"price"`
	Comments       *string  `json:"comments"`
}

// Fields is a fully validated and normalized property payload, ready to be
// persisted.
type Fields struct {
	Name           string
	RealEstateType string
	Street         string
	ExternalNumber string
	InternalNumber *string
	Neighborhood   string
	City           string
	Country        string
	Rooms          int
	Bathrooms      float64
	Price          float64
	Comments       *string
}

var (
	externalNumberPattern = regexp.MustCompile(`^[a-zA-Z0-9-]+$`)
	internalNumberPattern = regexp.MustCompile(`^[a-zA-Z0-9\s-]+$`)
	countryPattern        = regexp.MustCompile(`^[A-Z]{2}$`)
)

// Normalize cleans the input before validation: trims the free-text address
// fields and uppercases the country code.
func (in *PropertyInput) Normalize() {
	trim := func(s *string) *string {
		if s == nil {
			return nil
		}
		t := strings.TrimSpace(*s)
		return &t
	}
	in.Name = trim(in.Name)
	in.Street = trim(in.Street)
	in.ExternalNumber = trim(in.ExternalNumber)
	in.InternalNumber = trim(in.InternalNumber)
	if in.Country != nil {
		c := strings.ToUpper(strings.TrimSpace(*in.Country))
		in.Country = &c
	}
}

// ValidateCreate checks a create payload: all base fields are required and
// the two type-dependent rules are evaluated against the submitted type.
// Returns the normalized record or the itemized error map.
func ValidateCreate(in *PropertyInput) (*Fields, Errors) {
	in.Normalize()
	errs := Errors{}

	checkRequired(errs, in)
	validateStatic(errs, in)

	effectiveType := ""
	if in.RealEstateType != nil {
		effectiveType = *in.RealEstateType
	}
	validateCrossField(errs, effectiveType, in.InternalNumber, in.Bathrooms)

	if errs.Any() {
		return nil, errs
	}

	fields := &Fields{
		Name:           *in.Name,
		RealEstateType: *in.RealEstateType,
		Street:         *in.Street,
		ExternalNumber: *in.ExternalNumber,
		InternalNumber: in.InternalNumber,
		Neighborhood:   *in.Neighborhood,
		City:           *in.City,
		Country:        *in.Country,
		Rooms:          *in.Rooms,
		Bathrooms:      *in.Bathrooms,
		Price:          *in.Price,
		Comments:       in.Comments,
	}
	return fields, nil
}

// ValidateUpdate checks a partial update payload: absent fields are left
// alone, present fields must satisfy every rule that applies on create.
// The type-dependent rules are evaluated against the record as it would
// look after the update, merging the payload over the persisted row, so a
// partial update can never slip past the cross-field invariants.
// Returns a column→value map of the normalized changes.
func ValidateUpdate(in *PropertyInput, current *model.Property) (map[string]interface{}, Errors) {
	in.Normalize()
	errs := Errors{}

	validateStatic(errs, in)

	effectiveType := current.RealEstateType
	if in.RealEstateType != nil {
		effectiveType = *in.RealEstateType
	}
	effectiveInternal := current.InternalNumber
	if in.InternalNumber != nil {
		effectiveInternal = in.InternalNumber
	}
	effectiveBathrooms := current.Bathrooms
	if in.Bathrooms != nil {
		effectiveBathrooms = *in.Bathrooms
	}
	validateCrossField(errs, effectiveType, effectiveInternal, &effectiveBathrooms)

	if errs.Any() {
		return nil, errs
	}

	changes := map[string]interface{}{}
	if in.Name != nil {
		changes["name"] = *in.Name
	}
	if in.RealEstateType != nil {
		changes["real_estate_type"] = *in.RealEstateType
	}
	if in.Street != nil {
		changes["street"] = *in.Street
	}
	if in.ExternalNumber != nil {
		changes["external_number"] = *in.ExternalNumber
	}
	if in.InternalNumber != nil {
		changes["internal_number"] = *in.InternalNumber
	}
	if in.Neighborhood != nil {
		changes["neighborhood"] = *in.Neighborhood
	}
	if in.City != nil {
		changes["city"] = *in.City
	}
	if in.Country != nil {
		changes["country"] = *in.Country
	}
	if in.Rooms != nil {
		changes["rooms"] = *in.Rooms
	}
	if in.Bathrooms != nil {
		changes["bathrooms"] = *in.Bathrooms
	}
	if in.Price != nil {
		changes["price"] = *in.Price
	}
	if in.Comments != nil {
		changes["comments"] = *in.Comments
	}
	return changes, nil
}

// checkRequired reports every base field missing from a create payload.
func checkRequired(errs Errors, in *PropertyInput) {
	if in.Name == nil || *in.Name == "" {
		errs.Add("name", "The property name is required.")
	}
	if in.RealEstateType == nil || *in.RealEstateType == "" {
		errs.Add("real_estate_type", "Please select a property type.")
	}
	if in.Street == nil || *in.Street == "" {
		errs.Add("street", "The street name is required.")
	}
	if in.ExternalNumber == nil || *in.ExternalNumber == "" {
		errs.Add("external_number", "The external number is required.")
	}
	if in.Neighborhood == nil || *in.Neighborhood == "" {
		errs.Add("neighborhood", "The neighborhood is required.")
	}
	if in.City == nil || *in.City == "" {
		errs.Add("city", "The city is required.")
	}
	if in.Country == nil || *in.Country == "" {
		errs.Add("country", "The country code is required.")
	}
	if in.Rooms == nil {
		errs.Add("rooms", "The number of rooms is required.")
	}
	if in.Bathrooms == nil {
		errs.Add("bathrooms", "The number of bathrooms is required.")
	}
	if in.Price == nil {
		errs.Add("price", "The price is required.")
	}
}

// validateStatic applies the single-field constraints to every field that is
// present in the payload.
func validateStatic(errs Errors, in *PropertyInput) {
	if in.Name != nil && len(*in.Name) > 128 {
		errs.Add("name", "The property name cannot exceed 128 characters.")
	}

	if in.RealEstateType != nil && *in.RealEstateType != "" && !model.IsValidType(*in.RealEstateType) {
		errs.Add("real_estate_type", "Invalid property type selected.")
	}

	if in.Street != nil && len(*in.Street) > 128 {
		errs.Add("street", "The street name cannot exceed 128 characters.")
	}

	if in.ExternalNumber != nil && *in.ExternalNumber != "" {
		if len(*in.ExternalNumber) > 12 {
			errs.Add("external_number", "The external number cannot exceed 12 characters.")
		}
		if !externalNumberPattern.MatchString(*in.ExternalNumber) {
			errs.Add("external_number", "The external number can only contain letters, numbers, and dashes.")
		}
	}

	if in.InternalNumber != nil && *in.InternalNumber != "" {
		if len(*in.InternalNumber) > 12 {
			errs.Add("internal_number", "The internal number cannot exceed 12 characters.")
		}
		if !internalNumberPattern.MatchString(*in.InternalNumber) {
			errs.Add("internal_number", "The internal number can only contain letters, numbers, dashes, and spaces.")
		}
	}

	if in.Neighborhood != nil && len(*in.Neighborhood) > 128 {
		errs.Add("neighborhood", "The neighborhood cannot exceed 128 characters.")
	}
	if in.City != nil && len(*in.City) > 64 {
		errs.Add("city", "The city cannot exceed 64 characters.")
	}

	if in.Country != nil && *in.Country != "" {
		if len(*in.Country) != 2 {
			errs.Add("country", "The country code must be exactly 2 characters (ISO 3166 Alpha-2).")
		}
		if !countryPattern.MatchString(*in.Country) {
			errs.Add("country", "The country code must be 2 uppercase letters (e.g., US, MX, CA).")
		}
	}

	if in.Rooms != nil && *in.Rooms < 0 {
		errs.Add("rooms", "The number of rooms cannot be negative.")
	}

	if in.Bathrooms != nil {
		if *in.Bathrooms < 0 {
			errs.Add("bathrooms", "The number of bathrooms cannot be negative.")
		}
		if !hasAtMostDecimals(*in.Bathrooms, 1) {
			errs.Add("bathrooms", "The bathrooms format is invalid (e.g., 1, 1.5, 2).")
		}
	}

	if in.Price != nil {
		if *in.Price < 0.01 {
			errs.Add("price", "The price must be greater than 0.")
		}
		if !hasAtMostDecimals(*in.Price, 2) {
			errs.Add("price", "The price format is invalid (max 2 decimal places).")
		}
	}

	if in.Comments != nil && len(*in.Comments) > 128 {
		errs.Add("comments", "Comments cannot exceed 128 characters.")
	}
}

// validateCrossField applies the two type-dependent rules. An invalid or
// unknown effective type already fails the enum rule, so both checks are
// skipped rather than guessed at.
func validateCrossField(errs Errors, effectiveType string, internalNumber *string, bathrooms *float64) {
	if !model.IsValidType(effectiveType) {
		return
	}

	if contains(model.TypesRequiringInternalNumber, effectiveType) {
		if internalNumber == nil || strings.TrimSpace(*internalNumber) == "" {
			errs.Add("internal_number", "The internal number is required for apartments and commercial grounds.")
		}
	}

	if bathrooms != nil && !contains(model.TypesAllowingZeroBathrooms, effectiveType) && *bathrooms < 1 {
		errs.Add("bathrooms", "The bathrooms must be at least 1 for this property type.")
	}
}

// hasAtMostDecimals reports whether v has no more than places decimal digits.
func hasAtMostDecimals(v float64, places int) bool {
	scaled := v * math.Pow10(places)
	return math.Abs(scaled-math.Round(scaled)) < 1e-6
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
