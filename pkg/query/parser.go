// Package query implements ValkyrDB's small SQL-like statement language:
// SELECT with an optional single equality predicate, and INSERT with an
// explicit field list. Statements execute against a catalog of open tables.
package query

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrSyntax is returned for statements the grammar does not accept.
var ErrSyntax = errors.New("syntax error")

// Statement is a parsed query statement: *SelectStatement or
// *InsertStatement.
type Statement interface {
	isStatement()
}

// SelectStatement is "SELECT fields FROM table [WHERE field = value]".
// Fields is []{"*"} for a star select.
type SelectStatement struct {
	Table  string
	Fields []string
	Where  *Predicate
}

// InsertStatement is "INSERT INTO table (f1, ...) VALUES (v1, ...)".
// Values hold parsed literals: int64, float64 or string.
type InsertStatement struct {
	Table  string
	Fields []string
	Values []any
}

// Predicate is a single equality condition on one field.
type Predicate struct {
	Field string
	Value any
}

func (*SelectStatement) isStatement() {}
func (*InsertStatement) isStatement() {}

var (
	selectRe = regexp.MustCompile(`(?is)^SELECT\s+([*\w,\s]+?)\s+FROM\s+(\w+)(?:\s+WHERE\s+(.+))?$`)
	insertRe = regexp.MustCompile(`(?is)^INSERT\s+INTO\s+(\w+)\s*\(([\w,\s]+)\)\s*VALUES\s*\((.+)\)$`)
	whereRe  = regexp.MustCompile(`(?s)^(\w+)\s*=\s*(.+)$`)
)

// Parse parses a single statement. A trailing semicolon is tolerated.
func Parse(input string) (Statement, error) {
	q := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(input), ";"))

	switch {
	case len(q) >= 6 && strings.EqualFold(q[:6], "SELECT"):
		return parseSelect(q)
	case len(q) >= 6 && strings.EqualFold(q[:6], "INSERT"):
		return parseInsert(q)
	default:
		return nil, fmt.Errorf("%w: statement must start with SELECT or INSERT", ErrSyntax)
	}
}

func parseSelect(q string) (*SelectStatement, error) {
	m := selectRe.FindStringSubmatch(q)
	if m == nil {
		return nil, fmt.Errorf("%w: invalid SELECT", ErrSyntax)
	}

	fields, err := splitNames(m[1])
	if err != nil {
		return nil, err
	}
	if len(fields) > 1 {
		for _, f := range fields {
			if f == "*" {
				return nil, fmt.Errorf("%w: %q cannot be combined with field names", ErrSyntax, "*")
			}
		}
	}

	stmt := &SelectStatement{Table: m[2], Fields: fields}

	if cond := strings.TrimSpace(m[3]); cond != "" {
		cm := whereRe.FindStringSubmatch(cond)
		if cm == nil {
			return nil, fmt.Errorf("%w: invalid WHERE condition", ErrSyntax)
		}
		value, err := parseLiteral(strings.TrimSpace(cm[2]))
		if err != nil {
			return nil, err
		}
		stmt.Where = &Predicate{Field: cm[1], Value: value}
	}
	return stmt, nil
}

func parseInsert(q string) (*InsertStatement, error) {
	m := insertRe.FindStringSubmatch(q)
	if m == nil {
		return nil, fmt.Errorf("%w: invalid INSERT", ErrSyntax)
	}

	fields, err := splitNames(m[2])
	if err != nil {
		return nil, err
	}

	rawValues := splitList(m[3])
	values := make([]any, 0, len(rawValues))
	for _, raw := range rawValues {
		v, err := parseLiteral(strings.TrimSpace(raw))
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}

	if len(fields) != len(values) {
		return nil, fmt.Errorf("%w: %d fields but %d values", ErrSyntax, len(fields), len(values))
	}
	return &InsertStatement{Table: m[1], Fields: fields, Values: values}, nil
}

func splitNames(list string) ([]string, error) {
	parts := strings.Split(list, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		name := strings.TrimSpace(p)
		if name == "" {
			return nil, fmt.Errorf("%w: empty name in list %q", ErrSyntax, list)
		}
		names = append(names, name)
	}
	return names, nil
}

// splitList splits a VALUES list on commas outside single quotes.
func splitList(list string) []string {
	var parts []string
	var sb strings.Builder
	inQuote := false
	for _, r := range list {
		switch {
		case r == '\'':
			inQuote = !inQuote
			sb.WriteRune(r)
		case r == ',' && !inQuote:
			parts = append(parts, sb.String())
			sb.Reset()
		default:
			sb.WriteRune(r)
		}
	}
	parts = append(parts, sb.String())
	return parts
}

// parseLiteral interprets one literal token: 'single quoted' strings,
// integers, or floating-point numbers.
func parseLiteral(tok string) (any, error) {
	if len(tok) >= 2 && strings.HasPrefix(tok, "'") && strings.HasSuffix(tok, "'") {
		return tok[1 : len(tok)-1], nil
	}
	if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return n, nil
	}
	if f, err := strconv.ParseFloat(tok, 64); err == nil {
		return f, nil
	}
	return nil, fmt.Errorf("%w: bad literal %q (strings must be single-quoted)", ErrSyntax, tok)
}
