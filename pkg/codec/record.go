package codec

import (
	"errors"
	"fmt"

	"github.com/ssargent/valkyrdb/pkg/schema"
)

// Record-level errors. All are local to one encode or decode call; one bad
// record never affects others.
var (
	ErrMissingField = errors.New("missing field")
	ErrExtraField   = errors.New("field not in schema")
	ErrSizeMismatch = errors.New("buffer size mismatch")
)

// Encode serializes rec into a fixed-width buffer laid out per s: field bytes
// in schema declaration order, each at its precomputed offset. The record
// must contain exactly the fields the schema declares. Encoding the same
// (schema, record) pair always yields byte-identical output.
func Encode(s *schema.Schema, rec Record) ([]byte, error) {
	buf := make([]byte, s.RecordSize())

	for _, fd := range s.Fields() {
		v, ok := rec[fd.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingField, fd.Name)
		}
		if err := encodeField(fd, v, buf[fd.Offset:fd.Offset+fd.Width]); err != nil {
			return nil, err
		}
	}

	// Strict mode: an unknown field would otherwise be dropped silently.
	if len(rec) != len(s.Fields()) {
		for name := range rec {
			if _, ok := s.Field(name); !ok {
				return nil, fmt.Errorf("%w: %q", ErrExtraField, name)
			}
		}
	}

	return buf, nil
}

// Decode deserializes a fixed-width buffer into a Record. The buffer length
// must equal s.RecordSize() exactly. Decode is total and deterministic for
// well-formed buffers.
func Decode(s *schema.Schema, buf []byte) (Record, error) {
	if len(buf) != s.RecordSize() {
		return nil, fmt.Errorf("%w: got %d bytes, schema requires %d", ErrSizeMismatch, len(buf), s.RecordSize())
	}

	rec := make(Record, len(s.Fields()))
	for _, fd := range s.Fields() {
		v, err := decodeField(fd, buf[fd.Offset:fd.Offset+fd.Width])
		if err != nil {
			return nil, err
		}
		rec[fd.Name] = v
	}
	return rec, nil
}
