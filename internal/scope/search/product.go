package search

import (
	"strconv"
	"time"
)

// Listing status values
const (
	StatusAvailable = "Tersedia"
	StatusSold      = "Terjual"
)

// Product is a car listing as served by the catalog API.
// The engine only reads products; it never modifies them.
type Product struct {
	ID             string    `json:"_id"`
	CarName        string    `json:"carName"`
	Brand          string    `json:"brand"`
	Model          string    `json:"model"`
	Variant        string    `json:"variant"`
	Type           string    `json:"type"` // Body type
	Transmission   string    `json:"transmission"`
	FuelType       string    `json:"fuelType"`
	CarColor       string    `json:"carColor,omitempty"`
	PlateNumber    string    `json:"plateNumber,omitempty"`
	DriveSystem    string    `json:"driveSystem,omitempty"`
	Price          *int64    `json:"price,omitempty"` // nil when the listing has no price
	YearOfAssembly int       `json:"yearOfAssembly,omitempty"`
	LegacyYear     int       `json:"year,omitempty"` // Older records only carry "year"
	TravelDistance int       `json:"travelDistance,omitempty"`
	CC             int       `json:"cc,omitempty"`
	Status         string    `json:"status,omitempty"`
	Images         []string  `json:"images,omitempty"`
	ViewCount      int       `json:"viewCount"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt,omitempty"`
}

// Year returns the assembly year, falling back to the legacy year field.
// Zero means the year is unknown.
func (p *Product) Year() int {
	if p.YearOfAssembly != 0 {
		return p.YearOfAssembly
	}
	return p.LegacyYear
}

// PriceValue returns the price and whether the product has one.
func (p *Product) PriceValue() (int64, bool) {
	if p.Price == nil {
		return 0, false
	}
	return *p.Price, true
}

// SortPrice is the price used for ordering; a missing price sorts as 0.
func (p *Product) SortPrice() int64 {
	v, _ := p.PriceValue()
	return v
}

func (p *Product) yearString() string {
	if y := p.Year(); y != 0 {
		return strconv.Itoa(y)
	}
	return ""
}

// ViewedItem is the lightweight record kept in a visitor's recently viewed history.
type ViewedItem struct {
	ID      string `json:"id"`
	Brand   string `json:"brand"`
	Model   string `json:"model"`
	Variant string `json:"variant"`
}

// ViewedFrom builds the history record for a product.
func ViewedFrom(p *Product) ViewedItem {
	return ViewedItem{
		ID:      p.ID,
		Brand:   p.Brand,
		Model:   p.Model,
		Variant: p.Variant,
	}
}

// PriceOf is a convenience for building products with a price.
func PriceOf(v int64) *int64 {
	return &v
}
