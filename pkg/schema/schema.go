// Package schema parses declarative JSON table descriptions into immutable,
// offset-resolved schemas that drive the fixed-width record codec.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Errors returned by Parse. All are fatal at table-open time.
var (
	ErrMalformed      = errors.New("malformed schema")
	ErrUnknownType    = errors.New("unknown field type")
	ErrDuplicateField = errors.New("duplicate field name")
	ErrInvalidWidth   = errors.New("invalid char width")
)

// FieldType is the closed set of storable field types.
type FieldType int

const (
	TypeInt32 FieldType = iota
	TypeFloat32
	TypeChar
)

func (t FieldType) String() string {
	switch t {
	case TypeInt32:
		return "int"
	case TypeFloat32:
		return "float"
	case TypeChar:
		return "char"
	default:
		return fmt.Sprintf("FieldType(%d)", int(t))
	}
}

// FieldDescriptor describes one field of a table: its declared type, its
// fixed width in bytes and its byte offset within an encoded record.
type FieldDescriptor struct {
	Name   string
	Type   FieldType
	Width  int
	Offset int
}

// Schema is the normalized, immutable description of one table. Offsets are
// contiguous in declaration order starting at zero. A Schema holds no mutable
// state after Parse and is safe for concurrent read-only use.
type Schema struct {
	tableName  string
	fileName   string
	fields     []FieldDescriptor
	byName     map[string]int
	recordSize int
}

type fieldJSON struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type tableJSON struct {
	TableName string      `json:"table_name"`
	FileName  string      `json:"file_name"`
	Fields    []fieldJSON `json:"fields"`
}

// Parse builds a Schema from a single JSON table description. Parsing is pure
// and deterministic: the same input always yields the same Schema or error.
func Parse(data []byte) (*Schema, error) {
	var tj tableJSON
	if err := json.Unmarshal(data, &tj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return build(tj)
}

// ParseTables builds schemas from a schema file holding either a single table
// object or a JSON array of table objects.
func ParseTables(data []byte) ([]*Schema, error) {
	trimmed := strings.TrimLeft(string(data), " \t\r\n")
	if !strings.HasPrefix(trimmed, "[") {
		s, err := Parse(data)
		if err != nil {
			return nil, err
		}
		return []*Schema{s}, nil
	}

	var tjs []tableJSON
	if err := json.Unmarshal(data, &tjs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(tjs) == 0 {
		return nil, fmt.Errorf("%w: empty table list", ErrMalformed)
	}

	schemas := make([]*Schema, 0, len(tjs))
	for _, tj := range tjs {
		s, err := build(tj)
		if err != nil {
			return nil, err
		}
		schemas = append(schemas, s)
	}
	return schemas, nil
}

func build(tj tableJSON) (*Schema, error) {
	if tj.TableName == "" {
		return nil, fmt.Errorf("%w: missing table_name", ErrMalformed)
	}
	if len(tj.Fields) == 0 {
		return nil, fmt.Errorf("%w: table %q has no fields", ErrMalformed, tj.TableName)
	}

	s := &Schema{
		tableName: tj.TableName,
		fileName:  tj.FileName,
		fields:    make([]FieldDescriptor, 0, len(tj.Fields)),
		byName:    make(map[string]int, len(tj.Fields)),
	}

	offset := 0
	for _, fj := range tj.Fields {
		if fj.Name == "" {
			return nil, fmt.Errorf("%w: table %q has a field with no name", ErrMalformed, tj.TableName)
		}
		if _, dup := s.byName[fj.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateField, fj.Name)
		}

		ftype, width, err := parseType(fj.Type)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", fj.Name, err)
		}

		s.byName[fj.Name] = len(s.fields)
		s.fields = append(s.fields, FieldDescriptor{
			Name:   fj.Name,
			Type:   ftype,
			Width:  width,
			Offset: offset,
		})
		offset += width
	}
	s.recordSize = offset

	return s, nil
}

// parseType resolves a declared type token to a FieldType and its width in
// bytes. Recognized tokens: "int", "float", "char(N)" with N > 0.
func parseType(token string) (FieldType, int, error) {
	switch t := strings.TrimSpace(token); {
	case t == "int":
		return TypeInt32, 4, nil
	case t == "float":
		return TypeFloat32, 4, nil
	case strings.HasPrefix(t, "char(") && strings.HasSuffix(t, ")"):
		n, err := strconv.Atoi(t[len("char(") : len(t)-1])
		if err != nil {
			return 0, 0, fmt.Errorf("%w: %q", ErrUnknownType, token)
		}
		if n <= 0 {
			return 0, 0, fmt.Errorf("%w: char(%d)", ErrInvalidWidth, n)
		}
		return TypeChar, n, nil
	default:
		return 0, 0, fmt.Errorf("%w: %q", ErrUnknownType, token)
	}
}

// TableName returns the declared table name.
func (s *Schema) TableName() string {
	return s.tableName
}

// FileName returns the declared storage file name. It may be empty; the
// caller decides the fallback (conventionally "<table_name>.heap").
func (s *Schema) FileName() string {
	return s.fileName
}

// Fields returns the field descriptors in declaration order. The returned
// slice is owned by the Schema and must not be modified.
func (s *Schema) Fields() []FieldDescriptor {
	return s.fields
}

// Field looks up a descriptor by field name.
func (s *Schema) Field(name string) (FieldDescriptor, bool) {
	i, ok := s.byName[name]
	if !ok {
		return FieldDescriptor{}, false
	}
	return s.fields[i], true
}

// RecordSize returns the total fixed width in bytes of one encoded record.
func (s *Schema) RecordSize() int {
	return s.recordSize
}
