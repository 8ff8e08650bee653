package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category is the closed set of property categories.
type Category string

const (
	CategoryHouse       Category = "HOUSE"
	CategoryCondo       Category = "CONDO"
	CategoryApartment   Category = "APARTMENT"
	CategoryTownhouse   Category = "TOWNHOUSE"
	CategoryMultiFamily Category = "MULTI_FAMILY"

	// DefaultCategory is used when external vocabulary is missing or unknown.
	DefaultCategory = CategoryHouse
)

// Status is the closed set of listing statuses.
type Status string

const (
	StatusForSale    Status = "FOR_SALE"
	StatusSold       Status = "SOLD"
	StatusForeclosed Status = "FORECLOSED"
	StatusPending    Status = "PENDING"
	StatusOffMarket  Status = "OFF_MARKET"

	// DefaultStatus is used when external vocabulary is missing or unknown.
	DefaultStatus = StatusForSale
)

type Address struct {
	StreetAddress string `json:"streetAddress" bson:"streetAddress"`
	City          string `json:"city" bson:"city"`
	State         string `json:"state" bson:"state"`
	ZipCode       string `json:"zipCode" bson:"zipCode"`
}

// Property is the durable property record. CreatedAt/UpdatedAt are set by the
// repository on write, never by callers. ExternalID is empty for manually
// created records and unique across the store otherwise.
type Property struct {
	ID          primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	PropertyID  string             `json:"propertyId" bson:"propertyId"`
	ExternalID  string             `json:"externalId,omitempty" bson:"externalId,omitempty"`
	Address     Address            `json:"address" bson:"address"`
	Latitude    float64            `json:"latitude" bson:"latitude"`
	Longitude   float64            `json:"longitude" bson:"longitude"`
	Category    Category           `json:"category" bson:"category"`
	Status      Status             `json:"status" bson:"status"`
	AreaSqft    int                `json:"areaSqft" bson:"areaSqft"`
	LotAreaSqft int                `json:"lotAreaSqft" bson:"lotAreaSqft"`
	BuildYear   int                `json:"buildYear" bson:"buildYear"`
	Bedrooms    int                `json:"bedrooms" bson:"bedrooms"`
	Bathrooms   int                `json:"bathrooms" bson:"bathrooms"`
	Description string             `json:"description" bson:"description"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Sale is an owned child record of a Property.
type Sale struct {
	ID         primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	PropertyID string             `json:"propertyId" bson:"propertyId"`
	SaleDate   time.Time          `json:"saleDate" bson:"saleDate"`
	SalePrice  float64            `json:"salePrice" bson:"salePrice"`
	BuyerName  string             `json:"buyerName" bson:"buyerName"`
	SellerName string             `json:"sellerName" bson:"sellerName"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
}

// MaintenanceRecord is an owned child record of a Property.
type MaintenanceRecord struct {
	ID              primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	PropertyID      string             `json:"propertyId" bson:"propertyId"`
	MaintenanceDate time.Time          `json:"maintenanceDate" bson:"maintenanceDate"`
	Scale           string             `json:"scale" bson:"scale"`
	Cost            float64            `json:"cost" bson:"cost"`
	Description     string             `json:"description" bson:"description"`
	ContractorName  string             `json:"contractorName" bson:"contractorName"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
}

// DisasterRecord is an owned child record of a Property.
type DisasterRecord struct {
	ID           primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	PropertyID   string             `json:"propertyId" bson:"propertyId"`
	DisasterType string             `json:"disasterType" bson:"disasterType"`
	DisasterDate time.Time          `json:"disasterDate" bson:"disasterDate"`
	Severity     string             `json:"severity" bson:"severity"`
	Description  string             `json:"description" bson:"description"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
}

type PaginationMeta struct {
	Total  int64   `json:"total"`
	Offset int     `json:"offset"`
	Limit  int     `json:"limit"`
	Next   *string `json:"next,omitempty"`
	Prev   *string `json:"prev,omitempty"`
}

type PaginatedPropertiesResponse struct {
	Data []Property     `json:"data"`
	Meta PaginationMeta `json:"meta"`
}
