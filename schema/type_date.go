// This file defines the Date SchemaType: an in-memory time.Time that
// persists as an RFC 3339 string, since persisted form and in-memory form
// may differ and Parse/Value must be inverses.
package schema

import "time"

// DateType casts values to time.Time and persists them as RFC 3339 strings.
type DateType struct {
	baseType
}

// NewDateType constructs a Date SchemaType with the given options.
func NewDateType(options TypeOptions) SchemaType {
	return &DateType{baseType: newBaseType("Date", options)}
}

func (t *DateType) Cast(value any, doc Doc) any {
	if value == nil {
		d := t.baseType.Cast(value, doc)
		if ts, ok := d.(string); ok {
			if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
				return parsed
			}
		}
		return d
	}
	switch v := value.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse(time.RFC3339, v); err == nil {
			return parsed
		}
		return value
	default:
		if f, ok := toFloat(value); ok {
			return time.UnixMilli(int64(f)).UTC()
		}
		return value
	}
}

func (t *DateType) Parse(value any) any {
	if s, ok := value.(string); ok {
		if parsed, err := time.Parse(time.RFC3339, s); err == nil {
			return parsed
		}
	}
	return value
}

func (t *DateType) Value(value any, _ Doc) any {
	if value == nil {
		return Undefined
	}
	if ts, ok := value.(time.Time); ok {
		return ts.UTC().Format(time.RFC3339Nano)
	}
	return value
}

func (t *DateType) Compare(a, b any) int {
	at, aok := a.(time.Time)
	bt, bok := b.(time.Time)
	if !aok || !bok {
		return t.baseType.Compare(a, b)
	}
	switch {
	case at.Before(bt):
		return -1
	case at.After(bt):
		return 1
	default:
		return 0
	}
}
