// Package catalog owns the set of open tables for one process: it loads a
// schema file, opens one heap file per table and hands out table handles.
// The catalog is explicit caller-owned state with an open/close lifecycle;
// there is no process-wide registry.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/ssargent/valkyrdb/pkg/heap"
	"github.com/ssargent/valkyrdb/pkg/schema"
	"github.com/ssargent/valkyrdb/pkg/table"
)

// ErrUnknownTable is returned for a table name the schema file does not
// declare.
var ErrUnknownTable = errors.New("unknown table")

// Catalog maps table names to open table handles.
type Catalog struct {
	tables map[string]*table.Table
	order  []string
	log    logrus.FieldLogger
}

// Open reads the schema file at schemaPath (one table object or an array of
// them), opens each table's heap file under dataDir and returns the catalog.
// Heap files are created on first open.
func Open(schemaPath, dataDir string, log logrus.FieldLogger) (*Catalog, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	data, err := os.ReadFile(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}
	schemas, err := schema.ParseTables(data)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dataDir, 0750); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	c := &Catalog{
		tables: make(map[string]*table.Table, len(schemas)),
		log:    log,
	}
	for _, s := range schemas {
		if _, dup := c.tables[s.TableName()]; dup {
			c.Close()
			return nil, fmt.Errorf("%w: table %q declared twice", schema.ErrMalformed, s.TableName())
		}

		fileName := s.FileName()
		if fileName == "" {
			fileName = s.TableName() + ".heap"
		}
		path := filepath.Join(dataDir, fileName)

		h, err := heap.Open(path)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("table %q: %w", s.TableName(), err)
		}

		c.tables[s.TableName()] = table.New(s, h)
		c.order = append(c.order, s.TableName())
		log.WithFields(logrus.Fields{
			"table":       s.TableName(),
			"file":        path,
			"record_size": s.RecordSize(),
		}).Debug("opened table")
	}
	return c, nil
}

// Table returns the handle for name.
func (c *Catalog) Table(name string) (*table.Table, error) {
	t, ok := c.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTable, name)
	}
	return t, nil
}

// Tables returns the table names in schema-file declaration order.
func (c *Catalog) Tables() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Close closes every open table, returning the first error encountered.
func (c *Catalog) Close() error {
	var firstErr error
	for _, name := range c.order {
		if t, ok := c.tables[name]; ok {
			if err := t.Close(); err != nil && firstErr == nil {
				firstErr = fmt.Errorf("close table %q: %w", name, err)
			}
			delete(c.tables, name)
		}
	}
	c.order = nil
	return firstErr
}
