package heap

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// RID identifies one record slot in a heap file: page number plus slot index
// within the page's slot directory. RIDs are assigned by the storage layer
// and are opaque to the codec above it.
type RID struct {
	Page uint32
	Slot uint16
}

// ErrBadRID is returned by ParseRID for input that is not "<page>.<slot>".
var ErrBadRID = errors.New("malformed record id")

func (r RID) String() string {
	return fmt.Sprintf("%d.%d", r.Page, r.Slot)
}

// Pack folds the RID into a single uint64, usable as an ordered key by
// stores that are not page-structured.
func (r RID) Pack() uint64 {
	return uint64(r.Page)<<16 | uint64(r.Slot)
}

// Unpack is the inverse of Pack.
func Unpack(v uint64) RID {
	return RID{Page: uint32(v >> 16), Slot: uint16(v)}
}

// ParseRID parses the "<page>.<slot>" form produced by String.
func ParseRID(s string) (RID, error) {
	pageStr, slotStr, ok := strings.Cut(s, ".")
	if !ok {
		return RID{}, fmt.Errorf("%w: %q", ErrBadRID, s)
	}
	page, err := strconv.ParseUint(pageStr, 10, 32)
	if err != nil {
		return RID{}, fmt.Errorf("%w: %q", ErrBadRID, s)
	}
	slot, err := strconv.ParseUint(slotStr, 10, 16)
	if err != nil {
		return RID{}, fmt.Errorf("%w: %q", ErrBadRID, s)
	}
	return RID{Page: uint32(page), Slot: uint16(slot)}, nil
}
