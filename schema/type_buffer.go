// This file defines the Buffer SchemaType: []byte in memory, a hex string
// on the wire, since JSON has no native binary type.
package schema

import "encoding/hex"

// BufferType casts values to []byte and persists them hex-encoded.
type BufferType struct {
	baseType
}

// NewBufferType constructs a Buffer SchemaType with the given options.
func NewBufferType(options TypeOptions) SchemaType {
	return &BufferType{baseType: newBaseType("Buffer", options)}
}

func (t *BufferType) Cast(value any, doc Doc) any {
	if value == nil {
		d := t.baseType.Cast(value, doc)
		if s, ok := d.(string); ok {
			if decoded, err := hex.DecodeString(s); err == nil {
				return decoded
			}
		}
		return d
	}
	switch v := value.(type) {
	case []byte:
		return v
	case string:
		if decoded, err := hex.DecodeString(v); err == nil {
			return decoded
		}
		return []byte(v)
	default:
		return value
	}
}

func (t *BufferType) Parse(value any) any {
	if s, ok := value.(string); ok {
		if decoded, err := hex.DecodeString(s); err == nil {
			return decoded
		}
	}
	return value
}

func (t *BufferType) Value(value any, _ Doc) any {
	if value == nil {
		return Undefined
	}
	if b, ok := value.([]byte); ok {
		return hex.EncodeToString(b)
	}
	return value
}

func (t *BufferType) Compare(a, b any) int {
	ab, aok := a.([]byte)
	bb, bok := b.([]byte)
	if !aok || !bok {
		return t.baseType.Compare(a, b)
	}
	n := len(ab)
	if len(bb) < n {
		n = len(bb)
	}
	for i := 0; i < n; i++ {
		if ab[i] != bb[i] {
			if ab[i] < bb[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(ab) < len(bb):
		return -1
	case len(ab) > len(bb):
		return 1
	default:
		return 0
	}
}
