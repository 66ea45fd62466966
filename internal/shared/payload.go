package shared

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Payload is a decoded JSON object whose numbers are kept as json.Number.
// Clients send numeric fields either as JSON numbers or as strings.
type Payload map[string]any

// Missing lists the fields that are absent, null or the empty string.
func (p Payload) Missing(fields ...string) []string {
	var missing []string
	for _, field := range fields {
		value, ok := p[field]
		if !ok || value == nil {
			missing = append(missing, field)
			continue
		}
		if s, isString := value.(string); isString && s == "" {
			missing = append(missing, field)
		}
	}
	return missing
}

// RequireFields fails with a format error naming every missing field.
func (p Payload) RequireFields(fields ...string) error {
	if missing := p.Missing(fields...); len(missing) > 0 {
		return MissingFieldsError(missing)
	}
	return nil
}

// RequireNonNegative checks that each present field is a number >= 0. Absent
// fields are skipped. The first offending field is reported.
func (p Payload) RequireNonNegative(fields ...string) error {
	for _, field := range fields {
		value, ok := p[field]
		if !ok || value == nil {
			continue
		}
		d, err := toDecimal(value)
		if err != nil {
			return FormatError("%s must be a number", field)
		}
		if d.IsNegative() {
			return FormatError("%s must be non-negative", field)
		}
	}
	return nil
}

// Decimal parses a numeric field.
func (p Payload) Decimal(field string) (decimal.Decimal, error) {
	d, err := toDecimal(p[field])
	if err != nil {
		return decimal.Zero, FormatError("%s must be a number", field)
	}
	return d, nil
}

// DecimalOr parses an optional numeric field, returning def when absent.
func (p Payload) DecimalOr(field string, def decimal.Decimal) (decimal.Decimal, error) {
	if value, ok := p[field]; !ok || value == nil {
		return def, nil
	}
	return p.Decimal(field)
}

// Int parses an integral field that fits a Postgres INT column.
func (p Payload) Int(field string) (int64, error) {
	d, err := p.Decimal(field)
	if err != nil {
		return 0, err
	}
	if !d.IsInteger() {
		return 0, FormatError("%s must be an integer", field)
	}
	if d.GreaterThan(decimal.NewFromInt(math.MaxInt32)) || d.LessThan(decimal.NewFromInt(math.MinInt32)) {
		return 0, FormatError("%s is out of range", field)
	}
	return d.IntPart(), nil
}

// IntOr parses an optional integral field, returning def when absent.
func (p Payload) IntOr(field string, def int64) (int64, error) {
	if value, ok := p[field]; !ok || value == nil {
		return def, nil
	}
	return p.Int(field)
}

// OptionalInt parses a nullable integral field. Null and "" yield nil.
func (p Payload) OptionalInt(field string) (*int64, error) {
	if len(p.Missing(field)) > 0 {
		return nil, nil
	}
	v, err := p.Int(field)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// String returns a textual field, or "" when absent.
func (p Payload) String(field string) string {
	switch v := p[field].(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func toDecimal(value any) (decimal.Decimal, error) {
	switch v := value.(type) {
	case json.Number:
		return decimal.NewFromString(v.String())
	case string:
		return decimal.NewFromString(strings.TrimSpace(v))
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero, fmt.Errorf("shared: %v is not finite", v)
		}
		return decimal.NewFromFloat(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case int32:
		return decimal.NewFromInt32(v), nil
	default:
		return decimal.Zero, fmt.Errorf("shared: %T is not a number", value)
	}
}
