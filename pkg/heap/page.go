package heap

import (
	"encoding/binary"
)

// Page layout, back to front:
//
//	[records ...free space...][slot entries][footer]
//
// The footer is the last 4 bytes: slot count (uint16) then free-space offset
// (uint16), little-endian. The slot directory grows downward from the
// footer; each entry is 4 bytes: record offset (uint16), record length
// (uint16). A slot with length 0 is a tombstone.
const (
	// PageSize is the fixed size of every heap page.
	PageSize = 4096

	footerSize    = 4
	slotEntrySize = 4

	// MaxRecordSize is the largest record that fits in an empty page,
	// leaving room for the footer and one slot entry.
	MaxRecordSize = PageSize - footerSize - slotEntrySize
)

type page []byte

func newPage() page {
	p := make(page, PageSize)
	p.setFooter(0, 0)
	return p
}

func (p page) slotCount() int {
	return int(binary.LittleEndian.Uint16(p[PageSize-footerSize:]))
}

func (p page) freeOffset() int {
	return int(binary.LittleEndian.Uint16(p[PageSize-2:]))
}

func (p page) setFooter(slotCount, freeOffset int) {
	binary.LittleEndian.PutUint16(p[PageSize-footerSize:], uint16(slotCount))
	binary.LittleEndian.PutUint16(p[PageSize-2:], uint16(freeOffset))
}

func slotPos(slot int) int {
	return PageSize - footerSize - (slot+1)*slotEntrySize
}

func (p page) slot(i int) (offset, length int) {
	pos := slotPos(i)
	offset = int(binary.LittleEndian.Uint16(p[pos:]))
	length = int(binary.LittleEndian.Uint16(p[pos+2:]))
	return offset, length
}

func (p page) setSlot(i, offset, length int) {
	pos := slotPos(i)
	binary.LittleEndian.PutUint16(p[pos:], uint16(offset))
	binary.LittleEndian.PutUint16(p[pos+2:], uint16(length))
}

func (p page) freeSpace() int {
	slotTableStart := PageSize - footerSize - p.slotCount()*slotEntrySize
	return slotTableStart - p.freeOffset()
}

// insert places rec into the page and returns its new slot index. Reports
// false when the record plus a slot entry does not fit.
func (p page) insert(rec []byte) (slot int, ok bool) {
	if p.freeSpace() < len(rec)+slotEntrySize {
		return 0, false
	}

	slotCount, freeOffset := p.slotCount(), p.freeOffset()
	copy(p[freeOffset:], rec)
	p.setSlot(slotCount, freeOffset, len(rec))
	p.setFooter(slotCount+1, freeOffset+len(rec))
	return slotCount, true
}

// record returns the bytes stored in slot i, or nil for a slot that is out
// of range or tombstoned. The returned slice aliases the page.
func (p page) record(i int) []byte {
	if i < 0 || i >= p.slotCount() {
		return nil
	}
	offset, length := p.slot(i)
	if length == 0 {
		return nil
	}
	return p[offset : offset+length]
}

// tombstone marks slot i deleted by zeroing its length. The record bytes are
// left in place; the slot index stays occupied so later RIDs keep their
// meaning.
func (p page) tombstone(i int) {
	offset, _ := p.slot(i)
	p.setSlot(i, offset, 0)
}
