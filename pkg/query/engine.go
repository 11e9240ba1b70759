package query

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ssargent/valkyrdb/pkg/catalog"
	"github.com/ssargent/valkyrdb/pkg/codec"
	"github.com/ssargent/valkyrdb/pkg/heap"
	"github.com/ssargent/valkyrdb/pkg/schema"
)

// Engine executes parsed statements against a catalog of open tables.
type Engine struct {
	catalog *catalog.Catalog
	log     logrus.FieldLogger
}

// NewEngine builds an engine over c.
func NewEngine(c *catalog.Catalog, log logrus.FieldLogger) *Engine {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Engine{catalog: c, log: log}
}

// Result is the outcome of one statement. INSERT sets RID; SELECT sets
// Fields (projection order) and Rows.
type Result struct {
	RID    *heap.RID
	Fields []string
	Rows   []Row
}

// Row is one selected record, projected to the requested fields.
type Row struct {
	RID    heap.RID
	Values map[string]any
}

// Execute parses and runs one statement.
func (e *Engine) Execute(input string) (*Result, error) {
	stmt, err := Parse(input)
	if err != nil {
		return nil, err
	}
	return e.Run(stmt)
}

// Run executes an already-parsed statement.
func (e *Engine) Run(stmt Statement) (*Result, error) {
	switch stmt := stmt.(type) {
	case *InsertStatement:
		return e.runInsert(stmt)
	case *SelectStatement:
		return e.runSelect(stmt)
	default:
		return nil, fmt.Errorf("unsupported statement type %T", stmt)
	}
}

func (e *Engine) runInsert(stmt *InsertStatement) (*Result, error) {
	tbl, err := e.catalog.Table(stmt.Table)
	if err != nil {
		return nil, err
	}

	values := make(map[string]any, len(stmt.Fields))
	for i, name := range stmt.Fields {
		if _, dup := values[name]; dup {
			return nil, fmt.Errorf("%w: field %q listed twice", ErrSyntax, name)
		}
		values[name] = stmt.Values[i]
	}

	rec, err := codec.FromNative(tbl.Schema(), values)
	if err != nil {
		return nil, err
	}
	rid, err := tbl.Insert(rec)
	if err != nil {
		return nil, err
	}
	return &Result{RID: &rid}, nil
}

func (e *Engine) runSelect(stmt *SelectStatement) (*Result, error) {
	tbl, err := e.catalog.Table(stmt.Table)
	if err != nil {
		return nil, err
	}
	s := tbl.Schema()

	fields, err := resolveProjection(s, stmt.Fields)
	if err != nil {
		return nil, err
	}

	var want codec.Value
	if stmt.Where != nil {
		rec, err := codec.FromNative(s, map[string]any{stmt.Where.Field: stmt.Where.Value})
		if err != nil {
			return nil, fmt.Errorf("WHERE %s: %w", stmt.Where.Field, err)
		}
		want = rec[stmt.Where.Field]
	}

	result := &Result{Fields: fields, Rows: []Row{}}

	sc := tbl.Scan()
	defer sc.Close()
	for sc.Next() {
		item := sc.Item()
		if item.Err != nil {
			// A damaged slot costs one row, not the query.
			e.log.WithFields(logrus.Fields{
				"table": stmt.Table,
				"rid":   item.RID.String(),
			}).WithError(item.Err).Warn("skipping undecodable record")
			continue
		}
		if want != nil && item.Record[stmt.Where.Field] != want {
			continue
		}

		native := item.Record.Native()
		values := make(map[string]any, len(fields))
		for _, f := range fields {
			values[f] = native[f]
		}
		result.Rows = append(result.Rows, Row{RID: item.RID, Values: values})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// resolveProjection expands "*" and checks every named field exists.
func resolveProjection(s *schema.Schema, fields []string) ([]string, error) {
	if len(fields) == 1 && fields[0] == "*" {
		all := make([]string, 0, len(s.Fields()))
		for _, fd := range s.Fields() {
			all = append(all, fd.Name)
		}
		return all, nil
	}
	for _, f := range fields {
		if _, ok := s.Field(f); !ok {
			return nil, fmt.Errorf("table %q has no field %q", s.TableName(), f)
		}
	}
	return fields, nil
}
