// Package taxonomy maps free-form external listing vocabulary onto the closed
// category and status sets. Unknown or missing input falls back to the default
// value so that surprising upstream vocabulary never aborts ingestion.
package taxonomy

import (
	"strings"

	"homeradar-properties/internal/models"
)

var categorySynonyms = map[string]models.Category{
	"single family":      models.CategoryHouse,
	"single family home": models.CategoryHouse,
	"house":              models.CategoryHouse,
	"detached":           models.CategoryHouse,
	"condo":              models.CategoryCondo,
	"condominium":        models.CategoryCondo,
	"apartment":          models.CategoryApartment,
	"apt":                models.CategoryApartment,
	"townhouse":          models.CategoryTownhouse,
	"town house":         models.CategoryTownhouse,
	"townhome":           models.CategoryTownhouse,
	"multi family":       models.CategoryMultiFamily,
	"multi-family":       models.CategoryMultiFamily,
	"multifamily":        models.CategoryMultiFamily,
	"duplex":             models.CategoryMultiFamily,
}

var statusSynonyms = map[string]models.Status{
	"for sale":          models.StatusForSale,
	"for sale by owner": models.StatusForSale,
	"for_sale":          models.StatusForSale,
	"active":            models.StatusForSale,
	"sold":              models.StatusSold,
	"recently sold":     models.StatusSold,
	"foreclosed":        models.StatusForeclosed,
	"foreclosure":       models.StatusForeclosed,
	"pending":           models.StatusPending,
	"sale pending":      models.StatusPending,
	"off market":        models.StatusOffMarket,
	"off_market":        models.StatusOffMarket,
}

// NormalizeCategory maps a raw category label to a Category. Comparison is
// case-insensitive; empty or unrecognized input returns DefaultCategory.
func NormalizeCategory(raw string) models.Category {
	key := strings.ToLower(strings.TrimSpace(raw))
	if c, ok := categorySynonyms[key]; ok {
		return c
	}
	return models.DefaultCategory
}

// NormalizeStatus maps a raw status label to a Status. Comparison is
// case-insensitive; empty or unrecognized input returns DefaultStatus.
func NormalizeStatus(raw string) models.Status {
	key := strings.ToLower(strings.TrimSpace(raw))
	if s, ok := statusSynonyms[key]; ok {
		return s
	}
	return models.DefaultStatus
}
