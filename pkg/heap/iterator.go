package heap

// Cursor provides streaming access to stored record buffers. It is
// implemented by the heap Iterator and by alternate record stores.
type Cursor interface {
	// Next advances to the next live record, reporting false at the end
	// of the scan or on error.
	Next() bool
	// RID returns the id of the current record.
	RID() RID
	// Record returns the current record bytes. The slice is owned by the
	// caller.
	Record() []byte
	// Err returns the error that ended the scan early, if any.
	Err() error
	Close() error
}

// Iterator walks every live slot of a heap file in page, then slot, order.
// Tombstoned slots are skipped. The page count is captured when the scan
// starts; records inserted afterwards belong to the next scan.
type Iterator struct {
	file     *File
	numPages uint32

	pageNum uint32
	pg      page
	slot    int

	rid RID
	rec []byte
	err error
}

func (it *Iterator) Next() bool {
	if it.err != nil {
		return false
	}

	for {
		if it.pg == nil {
			if it.pageNum >= it.numPages {
				return false
			}
			pg, err := it.file.readPage(it.pageNum)
			if err != nil {
				it.err = err
				return false
			}
			it.pg = pg
			it.slot = -1
		}

		it.slot++
		if it.slot >= it.pg.slotCount() {
			it.pg = nil
			it.pageNum++
			continue
		}

		rec := it.pg.record(it.slot)
		if rec == nil {
			continue // tombstone
		}

		it.rid = RID{Page: it.pageNum, Slot: uint16(it.slot)}
		it.rec = make([]byte, len(rec))
		copy(it.rec, rec)
		return true
	}
}

func (it *Iterator) RID() RID {
	return it.rid
}

func (it *Iterator) Record() []byte {
	return it.rec
}

func (it *Iterator) Err() error {
	return it.err
}

// Close releases the iterator. The underlying file stays open; it belongs
// to the File.
func (it *Iterator) Close() error {
	it.pg = nil
	it.pageNum = it.numPages
	return nil
}
