package transformers

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"homeradar-properties/internal/models"
	"homeradar-properties/internal/taxonomy"
)

type listingTransformer struct {
	addrTrans AddressTransformer
}

func NewListingTransformer(addrTrans AddressTransformer) ListingTransformer {
	return &listingTransformer{addrTrans: addrTrans}
}

// Transform builds a Property from an external listing record. Category and
// status labels go through the taxonomy tables; absent numeric fields stay at
// their zero value and fractional bathroom counts are floored.
func (t *listingTransformer) Transform(listing *models.ExternalListing) (*models.Property, error) {
	if listing == nil {
		return nil, fmt.Errorf("listing is nil")
	}
	if listing.ExternalID == "" {
		return nil, fmt.Errorf("listing has no external id")
	}

	bathrooms := int(math.Floor(listing.Bathrooms))
	if bathrooms < 0 {
		bathrooms = 0
	}

	property := &models.Property{
		PropertyID: uuid.New().String(),
		ExternalID: listing.ExternalID,
		Address: models.Address{
			StreetAddress: t.addrTrans.NormalizeAddressComponent(listing.StreetAddress),
			City:          t.addrTrans.NormalizeAddressComponent(listing.City),
			State:         t.addrTrans.NormalizeAddressComponent(listing.State),
			ZipCode:       t.addrTrans.NormalizeAddressComponent(listing.ZipCode),
		},
		Latitude:    listing.Latitude,
		Longitude:   listing.Longitude,
		Category:    taxonomy.NormalizeCategory(listing.RawCategory),
		Status:      taxonomy.NormalizeStatus(listing.RawStatus),
		AreaSqft:    listing.AreaSqft,
		LotAreaSqft: listing.LotAreaSqft,
		BuildYear:   listing.BuildYear,
		Bedrooms:    listing.Bedrooms,
		Bathrooms:   bathrooms,
		Description: listing.Description,
	}
	return property, nil
}
