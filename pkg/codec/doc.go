// Package codec converts structured, typed records to and from the
// fixed-width byte layout stored in ValkyrDB heap pages.
//
// # Record Format
//
// A record encodes to exactly schema.RecordSize() bytes: the fields of the
// table in schema declaration order, each at its precomputed byte offset.
// Per field type:
//
//	int      4 bytes, two's-complement int32, little-endian
//	float    4 bytes, IEEE-754 single precision, little-endian
//	char(N)  exactly N bytes
//
// Char values shorter than N are padded with fill bytes (0x00); values whose
// byte length exceeds N are truncated to the first N bytes. This truncation
// is deliberate and lossy. On decode, trailing fill bytes are stripped, so a
// char(5) holding "ab" decodes as "ab", not "ab\x00\x00\x00".
//
// The byte order is fixed: every numeric field is little-endian on disk.
// This layout is the binary contract between the codec and any other reader
// of a ValkyrDB heap file.
//
// # Round Trip
//
// For any record valid against a schema, with no char value exceeding its
// declared width, Decode(s, must(Encode(s, r))) == r: numeric fields
// byte-for-byte, char fields equal after trailing fill stripping.
//
// # Error Handling
//
// Encode is strict: every declared field must be present (ErrMissingField),
// no undeclared field may appear (ErrExtraField), and each value must match
// its declared type (ErrTypeMismatch). Decode requires the exact record
// width (ErrSizeMismatch). Errors carry the offending field name and are
// local to the one call that produced them.
//
// # Thread Safety
//
// The codec holds no state. Schemas are immutable after parsing, so Encode
// and Decode are safe to call concurrently on a shared schema.
package codec
