package heap

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func tempHeap(t *testing.T) *File {
	t.Helper()
	dir := t.TempDir()
	h, err := Create(filepath.Join(dir, "test.heap"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	t.Cleanup(func() { h.Close() })
	return h
}

func TestHeap_InsertGetDelete(t *testing.T) {
	h := tempHeap(t)

	rec := []byte("hello heap")
	rid, err := h.Insert(rec)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if rid.Page != 0 || rid.Slot != 0 {
		t.Errorf("first rid = %s, want 0.0", rid)
	}

	got, err := h.Get(rid)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !bytes.Equal(got, rec) {
		t.Errorf("Get = %q, want %q", got, rec)
	}

	if err := h.Delete(rid); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := h.Get(rid); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete: error = %v, want ErrNotFound", err)
	}
	if err := h.Delete(rid); !errors.Is(err, ErrNotFound) {
		t.Errorf("double delete: error = %v, want ErrNotFound", err)
	}
}

func TestHeap_GetUnknownRID(t *testing.T) {
	h := tempHeap(t)

	for _, rid := range []RID{{Page: 0, Slot: 5}, {Page: 9, Slot: 0}} {
		if _, err := h.Get(rid); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get(%s): error = %v, want ErrNotFound", rid, err)
		}
	}
}

func TestHeap_SpillsToNewPage(t *testing.T) {
	h := tempHeap(t)

	// Each record consumes 1000 + 4 slot bytes; a page fits four.
	rec := make([]byte, 1000)
	var last RID
	for i := 0; i < 5; i++ {
		rec[0] = byte(i)
		rid, err := h.Insert(rec)
		if err != nil {
			t.Fatalf("Insert %d failed: %v", i, err)
		}
		last = rid
	}

	if last.Page != 1 {
		t.Errorf("fifth record landed on page %d, want 1", last.Page)
	}

	numPages, err := h.NumPages()
	if err != nil {
		t.Fatalf("NumPages failed: %v", err)
	}
	if numPages != 2 {
		t.Errorf("NumPages = %d, want 2", numPages)
	}

	got, err := h.Get(last)
	if err != nil {
		t.Fatalf("Get from second page failed: %v", err)
	}
	if got[0] != 4 {
		t.Errorf("record payload = %d, want 4", got[0])
	}
}

func TestHeap_InsertReusesFreedPageSpace(t *testing.T) {
	h := tempHeap(t)

	small, err := h.Insert([]byte("small"))
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if _, err := h.Insert(make([]byte, 2000)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	// First-fit: the next record goes to page 0 while it still has room.
	rid, err := h.Insert([]byte("tiny"))
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if rid.Page != small.Page {
		t.Errorf("insert landed on page %d, want %d", rid.Page, small.Page)
	}
}

func TestHeap_RejectsOversizedRecord(t *testing.T) {
	h := tempHeap(t)

	if _, err := h.Insert(make([]byte, MaxRecordSize+1)); !errors.Is(err, ErrRecordTooLarge) {
		t.Errorf("error = %v, want ErrRecordTooLarge", err)
	}
}

func TestHeap_Scan(t *testing.T) {
	h := tempHeap(t)

	var want [][]byte
	for i := 0; i < 10; i++ {
		rec := []byte(fmt.Sprintf("record-%02d", i))
		if _, err := h.Insert(rec); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
		want = append(want, rec)
	}

	cur := h.Scan()
	defer cur.Close()

	var got [][]byte
	for cur.Next() {
		got = append(got, cur.Record())
	}
	if err := cur.Err(); err != nil {
		t.Fatalf("scan error: %v", err)
	}

	if len(got) != len(want) {
		t.Fatalf("scanned %d records, want %d", len(got), len(want))
	}
	for i := range want {
		if !bytes.Equal(got[i], want[i]) {
			t.Errorf("record %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestHeap_ScanSkipsTombstones(t *testing.T) {
	h := tempHeap(t)

	var rids []RID
	for i := 0; i < 4; i++ {
		rid, err := h.Insert([]byte{byte(i)})
		if err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
		rids = append(rids, rid)
	}
	if err := h.Delete(rids[1]); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	cur := h.Scan()
	defer cur.Close()

	var seen []byte
	for cur.Next() {
		seen = append(seen, cur.Record()[0])
		if cur.RID() == rids[1] {
			t.Error("scan returned a tombstoned rid")
		}
	}
	if err := cur.Err(); err != nil {
		t.Fatalf("scan error: %v", err)
	}
	if !bytes.Equal(seen, []byte{0, 2, 3}) {
		t.Errorf("scanned payloads = %v, want [0 2 3]", seen)
	}
}

func TestHeap_ScanRestartable(t *testing.T) {
	h := tempHeap(t)
	for i := 0; i < 3; i++ {
		if _, err := h.Insert([]byte{byte(i)}); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	for pass := 0; pass < 2; pass++ {
		cur := h.Scan()
		count := 0
		for cur.Next() {
			count++
		}
		cur.Close()
		if count != 3 {
			t.Errorf("pass %d scanned %d records, want 3", pass, count)
		}
	}
}

func TestHeap_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "persist.heap")

	h, err := Create(path)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	rid, err := h.Insert([]byte("durable"))
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := h.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	h2, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer h2.Close()

	got, err := h2.Get(rid)
	if err != nil {
		t.Fatalf("Get after reopen failed: %v", err)
	}
	if !bytes.Equal(got, []byte("durable")) {
		t.Errorf("Get = %q, want %q", got, "durable")
	}
}

func TestHeap_OpenInitializesMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fresh.heap")

	h, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer h.Close()

	numPages, err := h.NumPages()
	if err != nil {
		t.Fatalf("NumPages failed: %v", err)
	}
	if numPages != 1 {
		t.Errorf("NumPages = %d, want 1", numPages)
	}
}

func TestHeap_OpenRejectsUnalignedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ragged.heap")
	if err := os.WriteFile(path, make([]byte, PageSize+17), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := Open(path); err == nil {
		t.Error("Open must reject a file that is not page-aligned")
	}
}

func TestRID_StringParseRoundTrip(t *testing.T) {
	for _, rid := range []RID{{0, 0}, {3, 14}, {4294967295, 65535}} {
		parsed, err := ParseRID(rid.String())
		if err != nil {
			t.Fatalf("ParseRID(%q) failed: %v", rid.String(), err)
		}
		if parsed != rid {
			t.Errorf("round trip = %v, want %v", parsed, rid)
		}
	}

	for _, bad := range []string{"", "3", "3.x", "x.3", "-1.2", "3.70000"} {
		if _, err := ParseRID(bad); !errors.Is(err, ErrBadRID) {
			t.Errorf("ParseRID(%q) error = %v, want ErrBadRID", bad, err)
		}
	}
}

func TestRID_PackUnpack(t *testing.T) {
	for _, rid := range []RID{{0, 0}, {1, 2}, {70000, 40000}} {
		if got := Unpack(rid.Pack()); got != rid {
			t.Errorf("Unpack(Pack(%v)) = %v", rid, got)
		}
	}
}
