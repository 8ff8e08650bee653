package models

// ExternalListing is one decoded record from an external listing feed.
// Numeric fields may be zero when the upstream record omits them; Bathrooms
// arrives as a fractional count and is floored during transformation.
type ExternalListing struct {
	ExternalID    string  `json:"externalId"`
	StreetAddress string  `json:"streetAddress"`
	City          string  `json:"city"`
	State         string  `json:"state"`
	ZipCode       string  `json:"zipCode"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	RawCategory   string  `json:"rawCategory"`
	RawStatus     string  `json:"rawStatus"`
	AreaSqft      int     `json:"areaSqft"`
	LotAreaSqft   int     `json:"lotAreaSqft"`
	BuildYear     int     `json:"buildYear"`
	Bedrooms      int     `json:"bedrooms"`
	Bathrooms     float64 `json:"bathrooms"`
	Description   string  `json:"description"`
}

// IngestionSummary reports the per-invocation outcome of an ingestion run.
type IngestionSummary struct {
	Accepted         int `json:"accepted"`
	SkippedDuplicate int `json:"skippedDuplicate"`
	SkippedError     int `json:"skippedError"`
}
