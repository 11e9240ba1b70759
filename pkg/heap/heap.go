// Package heap implements ValkyrDB's slotted-page heap files: unordered
// fixed-size pages holding records addressed by RID (page, slot). The heap
// stores opaque byte buffers; encoding them is the codec's concern.
package heap

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Errors surfaced by heap file operations.
var (
	ErrNotFound       = errors.New("record not found")
	ErrRecordTooLarge = errors.New("record exceeds page capacity")
)

// File is an open heap file. A File is not safe for concurrent use; callers
// own serialization, conventionally one table handle per file.
type File struct {
	path string
	file *os.File
}

// Create creates (or truncates) a heap file holding a single empty page.
func Create(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_TRUNC, 0600)
	if err != nil {
		return nil, fmt.Errorf("create heap file: %w", err)
	}
	h := &File{path: path, file: f}
	if err := h.writePage(0, newPage()); err != nil {
		f.Close()
		return nil, err
	}
	return h, nil
}

// Open opens an existing heap file, initializing it with one empty page when
// the file is missing or empty.
func Open(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("open heap file: %w", err)
	}
	h := &File{path: path, file: f}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat heap file: %w", err)
	}
	if stat.Size() == 0 {
		if err := h.writePage(0, newPage()); err != nil {
			f.Close()
			return nil, err
		}
	} else if stat.Size()%PageSize != 0 {
		f.Close()
		return nil, fmt.Errorf("open heap file %s: size %d is not page-aligned", path, stat.Size())
	}
	return h, nil
}

// Path returns the file path this heap was opened with.
func (h *File) Path() string {
	return h.path
}

// NumPages returns the current page count.
func (h *File) NumPages() (uint32, error) {
	stat, err := h.file.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat heap file: %w", err)
	}
	return uint32(stat.Size() / PageSize), nil
}

// Insert stores rec in the first page with room, appending a fresh page when
// none has space, and returns the assigned RID.
func (h *File) Insert(rec []byte) (RID, error) {
	if len(rec) > MaxRecordSize {
		return RID{}, fmt.Errorf("%w: %d > %d", ErrRecordTooLarge, len(rec), MaxRecordSize)
	}

	numPages, err := h.NumPages()
	if err != nil {
		return RID{}, err
	}

	for pageNum := uint32(0); pageNum < numPages; pageNum++ {
		pg, err := h.readPage(pageNum)
		if err != nil {
			return RID{}, err
		}
		if slot, ok := pg.insert(rec); ok {
			if err := h.writePage(pageNum, pg); err != nil {
				return RID{}, err
			}
			return RID{Page: pageNum, Slot: uint16(slot)}, nil
		}
	}

	pg := newPage()
	slot, _ := pg.insert(rec)
	if err := h.writePage(numPages, pg); err != nil {
		return RID{}, err
	}
	return RID{Page: numPages, Slot: uint16(slot)}, nil
}

// Get returns a copy of the record bytes stored at rid. Tombstoned and
// never-assigned slots report ErrNotFound.
func (h *File) Get(rid RID) ([]byte, error) {
	pg, err := h.pageFor(rid)
	if err != nil {
		return nil, err
	}
	rec := pg.record(int(rid.Slot))
	if rec == nil {
		return nil, fmt.Errorf("%w: rid %s", ErrNotFound, rid)
	}
	out := make([]byte, len(rec))
	copy(out, rec)
	return out, nil
}

// Delete tombstones the slot at rid. Deleting an absent or already-deleted
// record reports ErrNotFound.
func (h *File) Delete(rid RID) error {
	pg, err := h.pageFor(rid)
	if err != nil {
		return err
	}
	if pg.record(int(rid.Slot)) == nil {
		return fmt.Errorf("%w: rid %s", ErrNotFound, rid)
	}
	pg.tombstone(int(rid.Slot))
	return h.writePage(rid.Page, pg)
}

// Scan returns a cursor over all live records in page, then slot, order.
// Each call starts a fresh scan from the beginning.
func (h *File) Scan() Cursor {
	numPages, err := h.NumPages()
	return &Iterator{file: h, numPages: numPages, slot: -1, err: err}
}

// Close closes the underlying file.
func (h *File) Close() error {
	return h.file.Close()
}

func (h *File) pageFor(rid RID) (page, error) {
	numPages, err := h.NumPages()
	if err != nil {
		return nil, err
	}
	if rid.Page >= numPages {
		return nil, fmt.Errorf("%w: rid %s", ErrNotFound, rid)
	}
	return h.readPage(rid.Page)
}

func (h *File) readPage(pageNum uint32) (page, error) {
	pg := make(page, PageSize)
	if _, err := h.file.ReadAt(pg, int64(pageNum)*PageSize); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("read page %d: short page: %w", pageNum, err)
		}
		return nil, fmt.Errorf("read page %d: %w", pageNum, err)
	}
	return pg, nil
}

func (h *File) writePage(pageNum uint32, pg page) error {
	if _, err := h.file.WriteAt(pg, int64(pageNum)*PageSize); err != nil {
		return fmt.Errorf("write page %d: %w", pageNum, err)
	}
	return nil
}
