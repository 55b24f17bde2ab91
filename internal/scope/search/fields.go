package search

import (
	"fmt"
	"strconv"
)

// FieldKey names a product field that can be searched or suggested.
type FieldKey string

// Readable product fields
const (
	FieldCarName      FieldKey = "carName"
	FieldBrand        FieldKey = "brand"
	FieldModel        FieldKey = "model"
	FieldVariant      FieldKey = "variant"
	FieldYear         FieldKey = "year"
	FieldType         FieldKey = "type"
	FieldTransmission FieldKey = "transmission"
	FieldFuelType     FieldKey = "fuelType"
	FieldPlateNumber  FieldKey = "plateNumber"
	FieldCarColor     FieldKey = "carColor"
	FieldDriveSystem  FieldKey = "driveSystem"
	FieldPrice        FieldKey = "price"
)

// Accessor reads a field as a string. Absent values read as "".
type Accessor func(p *Product) string

var accessors = map[FieldKey]Accessor{
	FieldCarName:      func(p *Product) string { return p.CarName },
	FieldBrand:        func(p *Product) string { return p.Brand },
	FieldModel:        func(p *Product) string { return p.Model },
	FieldVariant:      func(p *Product) string { return p.Variant },
	FieldYear:         func(p *Product) string { return p.yearString() },
	FieldType:         func(p *Product) string { return p.Type },
	FieldTransmission: func(p *Product) string { return p.Transmission },
	FieldFuelType:     func(p *Product) string { return p.FuelType },
	FieldPlateNumber:  func(p *Product) string { return p.PlateNumber },
	FieldCarColor:     func(p *Product) string { return p.CarColor },
	FieldDriveSystem:  func(p *Product) string { return p.DriveSystem },
	FieldPrice: func(p *Product) string {
		if v, ok := p.PriceValue(); ok {
			return strconv.FormatInt(v, 10)
		}
		return ""
	},
}

// DefaultSearchFields are matched by free-text tokens.
var DefaultSearchFields = []FieldKey{
	FieldCarName,
	FieldBrand,
	FieldModel,
	FieldVariant,
	FieldYear,
	FieldType,
	FieldTransmission,
	FieldFuelType,
}

// DefaultSuggestionTargets feed the "did you mean" candidates.
var DefaultSuggestionTargets = []FieldKey{FieldBrand, FieldModel, FieldCarName}

// resolve maps keys to accessors, rejecting unknown keys.
func resolve(keys []FieldKey) ([]Accessor, error) {
	out := make([]Accessor, 0, len(keys))
	for _, k := range keys {
		fn, ok := accessors[k]
		if !ok {
			return nil, fmt.Errorf("unknown product field %q", k)
		}
		out = append(out, fn)
	}
	return out, nil
}

// ParseFieldKeys validates a list of field names, e.g. from configuration.
func ParseFieldKeys(names []string) ([]FieldKey, error) {
	keys := make([]FieldKey, 0, len(names))
	for _, n := range names {
		k := FieldKey(n)
		if _, ok := accessors[k]; !ok {
			return nil, fmt.Errorf("unknown product field %q", n)
		}
		keys = append(keys, k)
	}
	return keys, nil
}
