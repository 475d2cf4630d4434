// Package furniture defines the furniture record shared by the store, the
// interchange formats and the presentation layer.
package furniture

import (
	"math"
	"strconv"
	"strings"

	"github.com/lepinkainen/furnish/internal/errors"
)

// Columns lists the record fields in interchange order.
var Columns = []string{"Name", "Description", "Price", "Height", "Width", "Length"}

// Furniture is one item of the store's inventory. Name is the business key.
type Furniture struct {
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description" yaml:"description"`
	Price       float64 `json:"price" yaml:"price"`
	Height      int     `json:"height" yaml:"height"`
	Width       int     `json:"width" yaml:"width"`
	Length      int     `json:"length" yaml:"length"`
}

// New creates a Furniture record from already typed values.
func New(name, description string, price float64, height, width, length int) Furniture {
	return Furniture{
		Name:        name,
		Description: description,
		Price:       price,
		Height:      height,
		Width:       width,
		Length:      length,
	}
}

// Validate runs the input checks the presentation layer applies before
// writing a record. It returns the first failing field as a ValidationError.
func (f Furniture) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return errors.NewValidationError("name", "is required")
	}
	if strings.TrimSpace(f.Description) == "" {
		return errors.NewValidationError("description", "is required")
	}
	if math.IsNaN(f.Price) || math.IsInf(f.Price, 0) {
		return errors.NewValidationError("price", "must be a number")
	}
	if f.Price < 0 {
		return errors.NewValidationError("price", "must not be negative")
	}

	dims := []struct {
		field string
		value int
	}{
		{"height", f.Height},
		{"width", f.Width},
		{"length", f.Length},
	}
	for _, d := range dims {
		if d.value <= 0 {
			return errors.NewValidationError(d.field, "must be positive")
		}
	}

	return nil
}

// Fields returns the record as text in Columns order. Numbers use
// locale-invariant notation.
func (f Furniture) Fields() []string {
	return []string{
		f.Name,
		f.Description,
		FormatPrice(f.Price),
		strconv.Itoa(f.Height),
		strconv.Itoa(f.Width),
		strconv.Itoa(f.Length),
	}
}

// Row returns the record keyed by lower-case column name, for row-oriented sinks.
func (f Furniture) Row() map[string]any {
	return map[string]any{
		"name":        f.Name,
		"description": f.Description,
		"price":       f.Price,
		"height":      f.Height,
		"width":       f.Width,
		"length":      f.Length,
	}
}

// FormatPrice formats a price with the shortest representation that parses back exactly.
func FormatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}

// Parse builds a record from raw text fields. Numeric fields are trimmed and
// parsed with strconv; failures are reported as ValidationErrors naming the
// field. Range checks are left to Validate.
func Parse(name, description, price, height, width, length string) (Furniture, error) {
	p, err := parsePrice(price)
	if err != nil {
		return Furniture{}, err
	}

	h, err := parseDimension("height", height)
	if err != nil {
		return Furniture{}, err
	}
	w, err := parseDimension("width", width)
	if err != nil {
		return Furniture{}, err
	}
	l, err := parseDimension("length", length)
	if err != nil {
		return Furniture{}, err
	}

	return New(name, description, p, h, w, l), nil
}

// ParseFields is Parse for a slice in Columns order.
func ParseFields(fields []string) (Furniture, error) {
	if len(fields) != len(Columns) {
		return Furniture{}, errors.NewValidationError("record", "expected "+strconv.Itoa(len(Columns))+" fields, got "+strconv.Itoa(len(fields)))
	}
	return Parse(fields[0], fields[1], fields[2], fields[3], fields[4], fields[5])
}

func parsePrice(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, errors.NewValidationError("price", "is required")
	}
	p, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(p) || math.IsInf(p, 0) {
		return 0, errors.NewValidationError("price", strconv.Quote(value)+" is not a number")
	}
	return p, nil
}

func parseDimension(field, value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, errors.NewValidationError(field, "is required")
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.NewValidationError(field, strconv.Quote(value)+" is not a whole number")
	}
	return n, nil
}
