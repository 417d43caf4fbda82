package domain

import (
	"fmt"
	"math"
	"time"
)

// FieldType is the storage type of an importable column.
type FieldType int

const (
	FieldText FieldType = iota
	FieldBool
	FieldInt
	FieldNumeric
	FieldDate
)

func (t FieldType) String() string {
	switch t {
	case FieldBool:
		return "boolean"
	case FieldInt:
		return "integer"
	case FieldNumeric:
		return "number"
	case FieldDate:
		return "date"
	}
	return "text"
}

// Column names share one type across every table; anything not listed is text.
var fieldTypes = map[string]FieldType{
	"is_published":        FieldBool,
	"is_featured":         FieldBool,
	"is_primary":          FieldBool,
	"does_not_expire":     FieldBool,
	"is_current":          FieldBool,
	"is_ongoing":          FieldBool,
	"has_certificate":     FieldBool,
	"show_email":          FieldBool,
	"show_phone":          FieldBool,
	"show_location":       FieldBool,
	"display_order":       FieldInt,
	"team_size":           FieldInt,
	"duration_hours":      FieldInt,
	"years_of_experience": FieldNumeric,
	"issue_date":          FieldDate,
	"expiration_date":     FieldDate,
	"availability_date":   FieldDate,
}

func FieldTypeOf(name string) FieldType {
	return fieldTypes[name]
}

// maxExactInt is the largest integer a JSON number carries without loss.
const maxExactInt = 1 << 53

// CoerceField checks a loosely typed snapshot value against the column type
// of name and returns the value storage should receive. nil clears the
// column. Dates arrive as YYYY-MM-DD strings, an empty string meaning nil.
func CoerceField(name string, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	typ := FieldTypeOf(name)
	switch typ {
	case FieldText:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case FieldBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case FieldInt:
		switch n := v.(type) {
		case int64:
			return n, nil
		case int:
			return int64(n), nil
		case float64:
			if n == math.Trunc(n) && math.Abs(n) <= maxExactInt {
				return int64(n), nil
			}
			return nil, fmt.Errorf("%w: %q must be a whole number, got %v", ErrInvalidData, name, n)
		}
	case FieldNumeric:
		switch n := v.(type) {
		case float64, int64:
			return n, nil
		case int:
			return int64(n), nil
		}
	case FieldDate:
		switch d := v.(type) {
		case time.Time:
			return d, nil
		case string:
			if d == "" {
				return nil, nil
			}
			parsed, err := time.Parse(time.DateOnly, d)
			if err != nil {
				return nil, fmt.Errorf("%w: %q must be a YYYY-MM-DD date, got %q", ErrInvalidData, name, d)
			}
			return parsed, nil
		}
	}
	return nil, fmt.Errorf("%w: %q must be %s, got %T", ErrInvalidData, name, typ, v)
}
