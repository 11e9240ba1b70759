// Package storage provides a pebble-backed record store, an alternative to
// the slotted-page heap for embedding ValkyrDB tables in a pebble keyspace.
// It implements the same store contract the table handle expects.
package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"

	"github.com/ssargent/valkyrdb/pkg/heap"
)

// Record keys are 'r' + the packed RID, big-endian so pebble iterates in
// RID order. The next RID to assign persists under the seq key.
var seqKey = []byte("meta:seq")

func recordKey(rid heap.RID) []byte {
	k := make([]byte, 9)
	k[0] = 'r'
	binary.BigEndian.PutUint64(k[1:], rid.Pack())
	return k
}

// Store keeps fixed-width record buffers in a pebble database, minting RIDs
// from a persisted sequence. Safe for concurrent use.
type Store struct {
	db *pebble.DB

	mu      sync.Mutex
	nextRID uint64
}

// Open opens (creating if needed) a pebble-backed store at path.
func Open(path string) (*Store, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open pebble store: %w", err)
	}

	s := &Store{db: db}
	val, closer, err := db.Get(seqKey)
	switch {
	case errors.Is(err, pebble.ErrNotFound):
		// Fresh store.
	case err != nil:
		db.Close()
		return nil, fmt.Errorf("read sequence: %w", err)
	default:
		s.nextRID = binary.BigEndian.Uint64(val)
		if err := closer.Close(); err != nil {
			db.Close()
			return nil, err
		}
	}
	return s, nil
}

// Insert stores rec under a freshly assigned RID.
func (s *Store) Insert(rec []byte) (heap.RID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rid := heap.Unpack(s.nextRID)

	var seq [8]byte
	binary.BigEndian.PutUint64(seq[:], s.nextRID+1)

	batch := s.db.NewBatch()
	if err := batch.Set(recordKey(rid), rec, nil); err != nil {
		return heap.RID{}, fmt.Errorf("stage record: %w", err)
	}
	if err := batch.Set(seqKey, seq[:], nil); err != nil {
		return heap.RID{}, fmt.Errorf("stage sequence: %w", err)
	}
	if err := s.db.Apply(batch, pebble.NoSync); err != nil {
		return heap.RID{}, fmt.Errorf("apply insert: %w", err)
	}

	s.nextRID++
	return rid, nil
}

// Get returns a copy of the record stored at rid.
func (s *Store) Get(rid heap.RID) ([]byte, error) {
	val, closer, err := s.db.Get(recordKey(rid))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, fmt.Errorf("%w: rid %s", heap.ErrNotFound, rid)
	}
	if err != nil {
		return nil, fmt.Errorf("read record: %w", err)
	}
	defer closer.Close()

	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

// Delete removes the record at rid, reporting heap.ErrNotFound when absent.
func (s *Store) Delete(rid heap.RID) error {
	key := recordKey(rid)

	_, closer, err := s.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return fmt.Errorf("%w: rid %s", heap.ErrNotFound, rid)
	}
	if err != nil {
		return fmt.Errorf("read record: %w", err)
	}
	if err := closer.Close(); err != nil {
		return err
	}

	if err := s.db.Delete(key, pebble.NoSync); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return nil
}

// Scan returns a cursor over all records in RID order.
func (s *Store) Scan() heap.Cursor {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte{'r'},
		UpperBound: []byte{'r' + 1},
	})
	return &cursor{iter: iter, err: err}
}

// Close closes the pebble database.
func (s *Store) Close() error {
	return s.db.Close()
}

type cursor struct {
	iter    *pebble.Iterator
	err     error
	started bool

	rid heap.RID
	rec []byte
}

func (c *cursor) Next() bool {
	if c.err != nil || c.iter == nil {
		return false
	}

	var valid bool
	if !c.started {
		valid = c.iter.First()
		c.started = true
	} else {
		valid = c.iter.Next()
	}
	if !valid {
		c.err = c.iter.Error()
		return false
	}

	c.rid = heap.Unpack(binary.BigEndian.Uint64(c.iter.Key()[1:]))
	val := c.iter.Value()
	c.rec = make([]byte, len(val))
	copy(c.rec, val)
	return true
}

func (c *cursor) RID() heap.RID  { return c.rid }
func (c *cursor) Record() []byte { return c.rec }
func (c *cursor) Err() error     { return c.err }

func (c *cursor) Close() error {
	if c.iter == nil {
		return c.err
	}
	return c.iter.Close()
}
