package zillow

import (
	"context"
	"math"

	"homeradar-properties/internal/models"
)

// searchResponse mirrors the wire shape of the listing search endpoint.
type searchResponse struct {
	Results    []listingRecord `json:"results"`
	Page       int             `json:"page"`
	TotalPages int             `json:"totalPages"`
}

type listingRecord struct {
	ZPID    string `json:"zpid"`
	Address struct {
		Street  string  `json:"street"`
		City    string  `json:"city"`
		State   string  `json:"state"`
		ZipCode string  `json:"zipcode"`
		Lat     float64 `json:"latitude"`
		Lon     float64 `json:"longitude"`
	} `json:"address"`
	UseCode    string `json:"useCode"`
	HomeStatus string `json:"homeStatus"`
	Facts      struct {
		Bedrooms     int     `json:"bedrooms"`
		Bathrooms    float64 `json:"bathrooms"`
		FinishedSqFt int     `json:"finishedSqFt"`
		LotSizeSqFt  int     `json:"lotSizeSqFt"`
		YearBuilt    int     `json:"yearBuilt"`
	} `json:"editedFacts"`
	Description string `json:"description"`
}

// SearchPage is one page of decoded listing records for an area.
type SearchPage struct {
	Listings   []models.ExternalListing
	Page       int
	TotalPages int
}

// SearchArea fetches one page of listings for a geographic area.
func (c *Client) SearchArea(ctx context.Context, area string, page, pageSize int) (*SearchPage, error) {
	body, err := c.get(ctx, "/v2/search", pageQuery(area, page, pageSize))
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := decode(body, &resp); err != nil {
		return nil, err
	}

	listings := make([]models.ExternalListing, 0, len(resp.Results))
	for _, r := range resp.Results {
		listings = append(listings, toExternalListing(r))
	}
	return &SearchPage{Listings: listings, Page: resp.Page, TotalPages: resp.TotalPages}, nil
}

// FetchAreaListings walks every page for an area and returns the combined
// records. Pagination stops at totalPages or on the first empty page.
func (c *Client) FetchAreaListings(ctx context.Context, area string, pageSize int) ([]models.ExternalListing, error) {
	var all []models.ExternalListing
	totalPages := math.MaxInt
	for page := 1; page <= totalPages; page++ {
		result, err := c.SearchArea(ctx, area, page, pageSize)
		if err != nil {
			return nil, err
		}
		if result.TotalPages > 0 {
			totalPages = result.TotalPages
		}
		if len(result.Listings) == 0 {
			break
		}
		all = append(all, result.Listings...)
	}
	return all, nil
}

func toExternalListing(r listingRecord) models.ExternalListing {
	return models.ExternalListing{
		ExternalID:    r.ZPID,
		StreetAddress: r.Address.Street,
		City:          r.Address.City,
		State:         r.Address.State,
		ZipCode:       r.Address.ZipCode,
		Latitude:      r.Address.Lat,
		Longitude:     r.Address.Lon,
		RawCategory:   r.UseCode,
		RawStatus:     r.HomeStatus,
		AreaSqft:      r.Facts.FinishedSqFt,
		LotAreaSqft:   r.Facts.LotSizeSqFt,
		BuildYear:     r.Facts.YearBuilt,
		Bedrooms:      r.Facts.Bedrooms,
		Bathrooms:     r.Facts.Bathrooms,
		Description:   r.Description,
	}
}
