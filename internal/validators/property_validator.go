package validators

import (
	"fmt"

	"homeradar-properties/internal/models"
)

type propertyValidator struct{}

func NewPropertyValidator() PropertyValidator {
	return &propertyValidator{}
}

func (v *propertyValidator) ValidateCreate(property *models.Property) error {
	if property.Address.StreetAddress == "" || property.Address.City == "" {
		return fmt.Errorf("street address and city are required")
	}
	return v.validateCommon(property)
}

func (v *propertyValidator) ValidateUpdate(property *models.Property) error {
	if property.PropertyID == "" {
		return fmt.Errorf("property ID is required")
	}
	if property.Address.StreetAddress == "" || property.Address.City == "" {
		return fmt.Errorf("street address and city are required")
	}
	return v.validateCommon(property)
}

func (v *propertyValidator) ValidateSearch(req *models.SearchRequest) error {
	if req.RadiusKm <= 0 {
		return fmt.Errorf("radius must be greater than zero")
	}
	if req.Latitude < -90 || req.Latitude > 90 {
		return fmt.Errorf("latitude must be between -90 and 90")
	}
	if req.Longitude < -180 || req.Longitude > 180 {
		return fmt.Errorf("longitude must be between -180 and 180")
	}
	return nil
}

func (v *propertyValidator) validateCommon(property *models.Property) error {
	if property.Latitude < -90 || property.Latitude > 90 {
		return fmt.Errorf("latitude must be between -90 and 90")
	}
	if property.Longitude < -180 || property.Longitude > 180 {
		return fmt.Errorf("longitude must be between -180 and 180")
	}
	if property.AreaSqft < 0 || property.LotAreaSqft < 0 {
		return fmt.Errorf("area values cannot be negative")
	}
	if property.Bedrooms < 0 || property.Bathrooms < 0 {
		return fmt.Errorf("bedroom and bathroom counts cannot be negative")
	}
	return nil
}
