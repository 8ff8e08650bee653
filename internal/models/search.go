package models

// SearchRequest describes a radius search around an origin point.
type SearchRequest struct {
	Latitude  float64 `json:"latitude" form:"lat"`
	Longitude float64 `json:"longitude" form:"lon"`
	RadiusKm  float64 `json:"radiusKm" form:"radius_km"`
}

// SearchResult pairs a matched property with its great-circle distance from
// the search origin. DistanceM is always DistanceKm * 1000, never computed
// independently.
type SearchResult struct {
	Property   Property `json:"property"`
	DistanceKm float64  `json:"distanceKm"`
	DistanceM  float64  `json:"distanceM"`
}

// ListFilter holds the equality filters supported by the list endpoint.
// Empty fields are ignored.
type ListFilter struct {
	City     string
	State    string
	Status   Status
	Category Category
}
