package transformers

import (
	"homeradar-properties/internal/models"
)

type ListingTransformer interface {
	Transform(listing *models.ExternalListing) (*models.Property, error)
}

type AddressTransformer interface {
	NormalizeAddressComponent(input string) string
}
