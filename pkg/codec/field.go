package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/ssargent/valkyrdb/pkg/schema"
)

// Field-level errors. Encode fails only on a value/type mismatch; decode
// fails only when the buffer is shorter than the field's declared width.
var (
	ErrTypeMismatch = errors.New("value type mismatch")
	ErrTruncated    = errors.New("buffer truncated")
)

// encodeField writes v into dst, which must be exactly fd.Width bytes.
// Numeric fields are little-endian; char fields are zero-padded, and values
// longer than the declared width are truncated to the first Width bytes.
func encodeField(fd schema.FieldDescriptor, v Value, dst []byte) error {
	if v == nil || v.Type() != fd.Type {
		return fmt.Errorf("%w: field %q declared %s, got %s", ErrTypeMismatch, fd.Name, fd.Type, valueTypeName(v))
	}

	switch v := v.(type) {
	case Int32:
		binary.LittleEndian.PutUint32(dst, uint32(int32(v)))
	case Float32:
		binary.LittleEndian.PutUint32(dst, math.Float32bits(float32(v)))
	case Text:
		n := copy(dst, v)
		for i := n; i < fd.Width; i++ {
			dst[i] = 0
		}
	}
	return nil
}

// decodeField reads one value from src, which must hold at least fd.Width
// bytes. Char fields are returned with trailing fill bytes stripped.
func decodeField(fd schema.FieldDescriptor, src []byte) (Value, error) {
	if len(src) < fd.Width {
		return nil, fmt.Errorf("%w: field %q needs %d bytes, have %d", ErrTruncated, fd.Name, fd.Width, len(src))
	}

	switch fd.Type {
	case schema.TypeInt32:
		return Int32(int32(binary.LittleEndian.Uint32(src))), nil
	case schema.TypeFloat32:
		return Float32(math.Float32frombits(binary.LittleEndian.Uint32(src))), nil
	case schema.TypeChar:
		return Text(bytes.TrimRight(src[:fd.Width], "\x00")), nil
	default:
		return nil, fmt.Errorf("%w: field %q has unsupported type %s", ErrTypeMismatch, fd.Name, fd.Type)
	}
}

func valueTypeName(v Value) string {
	if v == nil {
		return "nil"
	}
	return v.Type().String()
}
