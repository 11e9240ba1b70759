package storage

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ssargent/valkyrdb/pkg/heap"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "pebble"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_InsertGetDelete(t *testing.T) {
	s := tempStore(t)

	rec := []byte("fixed width bytes")
	rid, err := s.Insert(rec)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := s.Get(rid)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !bytes.Equal(got, rec) {
		t.Errorf("Get = %q, want %q", got, rec)
	}

	if err := s.Delete(rid); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Get(rid); !errors.Is(err, heap.ErrNotFound) {
		t.Errorf("Get after delete: error = %v, want heap.ErrNotFound", err)
	}
	if err := s.Delete(rid); !errors.Is(err, heap.ErrNotFound) {
		t.Errorf("double delete: error = %v, want heap.ErrNotFound", err)
	}
}

func TestStore_RIDsAreUnique(t *testing.T) {
	s := tempStore(t)

	seen := make(map[heap.RID]bool)
	for i := 0; i < 100; i++ {
		rid, err := s.Insert([]byte{byte(i)})
		if err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
		if seen[rid] {
			t.Fatalf("rid %s assigned twice", rid)
		}
		seen[rid] = true
	}
}

func TestStore_ScanInRIDOrder(t *testing.T) {
	s := tempStore(t)

	var want []heap.RID
	for i := 0; i < 10; i++ {
		rid, err := s.Insert([]byte{byte(i)})
		if err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
		want = append(want, rid)
	}

	cur := s.Scan()
	defer cur.Close()

	var got []heap.RID
	for cur.Next() {
		got = append(got, cur.RID())
	}
	if err := cur.Err(); err != nil {
		t.Fatalf("scan error: %v", err)
	}

	if len(got) != len(want) {
		t.Fatalf("scanned %d records, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: rid %s, want %s", i, got[i], want[i])
		}
	}
}

func TestStore_SequenceSurvivesReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "pebble")

	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	first, err := s.Insert([]byte("one"))
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	s2, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s2.Close()

	second, err := s2.Insert([]byte("two"))
	if err != nil {
		t.Fatalf("Insert after reopen failed: %v", err)
	}
	if second == first {
		t.Errorf("rid %s reused after reopen", second)
	}

	got, err := s2.Get(first)
	if err != nil {
		t.Fatalf("Get after reopen failed: %v", err)
	}
	if !bytes.Equal(got, []byte("one")) {
		t.Errorf("Get = %q, want %q", got, "one")
	}
}
