package codec

import (
	"fmt"

	"github.com/ssargent/valkyrdb/pkg/schema"
)

// Value is a typed field value. The concrete types form a closed set
// mirroring schema.FieldType: Int32, Float32 and Text.
type Value interface {
	// Type reports the schema type this value encodes as.
	Type() schema.FieldType
}

// Int32 is the value of an "int" field.
type Int32 int32

// Float32 is the value of a "float" field.
type Float32 float32

// Text is the value of a "char(N)" field.
type Text string

func (Int32) Type() schema.FieldType   { return schema.TypeInt32 }
func (Float32) Type() schema.FieldType { return schema.TypeFloat32 }
func (Text) Type() schema.FieldType    { return schema.TypeChar }

// Record is a transient mapping of field name to typed value. It exists only
// as codec input and output; its persisted form is always the fixed-width
// buffer produced by Encode.
type Record map[string]Value

// Native returns the record as a map of plain Go values (int32, float32,
// string), suitable for JSON encoding or display.
func (r Record) Native() map[string]any {
	out := make(map[string]any, len(r))
	for name, v := range r {
		switch v := v.(type) {
		case Int32:
			out[name] = int32(v)
		case Float32:
			out[name] = float32(v)
		case Text:
			out[name] = string(v)
		}
	}
	return out
}

// FromNative builds a Record for s from plain Go values, coercing each value
// to its declared field type. JSON numbers arrive as float64; they are
// accepted for int fields only when integral and in range.
func FromNative(s *schema.Schema, values map[string]any) (Record, error) {
	rec := make(Record, len(values))
	for name, raw := range values {
		fd, ok := s.Field(name)
		if !ok {
			return nil, fmt.Errorf("record field %q: %w", name, ErrExtraField)
		}
		v, err := coerce(fd, raw)
		if err != nil {
			return nil, fmt.Errorf("record field %q: %w", name, err)
		}
		rec[name] = v
	}
	return rec, nil
}

func coerce(fd schema.FieldDescriptor, raw any) (Value, error) {
	switch fd.Type {
	case schema.TypeInt32:
		switch n := raw.(type) {
		case int:
			return Int32(int32(n)), nil
		case int32:
			return Int32(n), nil
		case int64:
			return Int32(int32(n)), nil
		case float64:
			if n != float64(int32(n)) {
				return nil, fmt.Errorf("%w: %v is not a 32-bit integer", ErrTypeMismatch, n)
			}
			return Int32(int32(n)), nil
		}
	case schema.TypeFloat32:
		switch n := raw.(type) {
		case int:
			return Float32(float32(n)), nil
		case int32:
			return Float32(float32(n)), nil
		case int64:
			return Float32(float32(n)), nil
		case float32:
			return Float32(n), nil
		case float64:
			return Float32(float32(n)), nil
		}
	case schema.TypeChar:
		if s, ok := raw.(string); ok {
			return Text(s), nil
		}
	}
	return nil, fmt.Errorf("%w: cannot store %T as %s", ErrTypeMismatch, raw, fd.Type)
}
