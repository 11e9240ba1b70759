// Package table binds a parsed schema to a record store and exposes typed
// insert/get/delete/scan operations. All physical storage is delegated to
// the store; all byte layout to the codec.
package table

import (
	"fmt"

	"github.com/ssargent/valkyrdb/pkg/codec"
	"github.com/ssargent/valkyrdb/pkg/heap"
	"github.com/ssargent/valkyrdb/pkg/schema"
)

// RecordStore is the storage collaborator a Table writes through. The heap
// File is the primary implementation; pkg/storage provides a pebble-backed
// one. Implementations report heap.ErrNotFound for absent or deleted RIDs.
type RecordStore interface {
	Insert(rec []byte) (heap.RID, error)
	Get(rid heap.RID) ([]byte, error)
	Delete(rid heap.RID) error
	Scan() heap.Cursor
	Close() error
}

// Table is the handle for one table: one schema bound to one record store.
// Operations are synchronous and not safe for concurrent use unless the
// store itself is.
type Table struct {
	schema *schema.Schema
	store  RecordStore
}

// New binds schema to store. The store must have been opened (or created)
// by the caller; Close closes it.
func New(s *schema.Schema, store RecordStore) *Table {
	return &Table{schema: s, store: store}
}

// Schema returns the table's schema.
func (t *Table) Schema() *schema.Schema {
	return t.schema
}

// Insert encodes rec and stores the resulting buffer, returning the RID the
// store assigned. Encode errors are propagated unchanged.
func (t *Table) Insert(rec codec.Record) (heap.RID, error) {
	buf, err := codec.Encode(t.schema, rec)
	if err != nil {
		return heap.RID{}, err
	}
	rid, err := t.store.Insert(buf)
	if err != nil {
		return heap.RID{}, fmt.Errorf("table %s: %w", t.schema.TableName(), err)
	}
	return rid, nil
}

// Get fetches and decodes the record at rid. Absent or deleted records
// report heap.ErrNotFound.
func (t *Table) Get(rid heap.RID) (codec.Record, error) {
	buf, err := t.store.Get(rid)
	if err != nil {
		return nil, err
	}
	return codec.Decode(t.schema, buf)
}

// Delete removes the record at rid.
func (t *Table) Delete(rid heap.RID) error {
	return t.store.Delete(rid)
}

// Scan returns a scanner over all live records. A decode failure on one
// slot is reported on that item; the scan continues with the rest of the
// table.
func (t *Table) Scan() *Scanner {
	return &Scanner{schema: t.schema, cur: t.store.Scan()}
}

// Close closes the underlying record store.
func (t *Table) Close() error {
	return t.store.Close()
}

// ScanItem is one scanned record. Err is set when the stored bytes failed
// to decode against the table schema; RID is always valid.
type ScanItem struct {
	RID    heap.RID
	Record codec.Record
	Err    error
}

// Scanner iterates the decoded records of a table.
type Scanner struct {
	schema *schema.Schema
	cur    heap.Cursor
	item   ScanItem
}

// Next advances to the next record, reporting false when the underlying
// scan is exhausted or failed.
func (s *Scanner) Next() bool {
	if !s.cur.Next() {
		return false
	}
	rec, err := codec.Decode(s.schema, s.cur.Record())
	s.item = ScanItem{RID: s.cur.RID(), Record: rec, Err: err}
	return true
}

// Item returns the current record, valid until the next call to Next.
func (s *Scanner) Item() ScanItem {
	return s.item
}

// Err returns the storage-level error that ended the scan early, if any.
func (s *Scanner) Err() error {
	return s.cur.Err()
}

// Close releases the underlying cursor.
func (s *Scanner) Close() error {
	return s.cur.Close()
}
