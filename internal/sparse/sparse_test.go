package sparse

import (
	"reflect"
	"testing"
)

func TestSetBasics(t *testing.T) {
	s := New(8)
	if s.Len() != 0 || s.Contains(0) {
		t.Fatal("new set not empty")
	}

	s.Insert(3)
	s.Insert(0)
	s.Insert(7)
	s.Insert(3) // duplicate

	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}
	for _, v := range []uint32{0, 3, 7} {
		if !s.Contains(v) {
			t.Errorf("Contains(%d) = false, want true", v)
		}
	}
	for _, v := range []uint32{1, 2, 6} {
		if s.Contains(v) {
			t.Errorf("Contains(%d) = true, want false", v)
		}
	}
	if got := s.Members(); !reflect.DeepEqual(got, []uint32{3, 0, 7}) {
		t.Errorf("Members() = %v, want insertion order [3 0 7]", got)
	}
}

func TestSetOutOfRange(t *testing.T) {
	s := New(4)
	s.Insert(4) // at capacity, ignored
	s.Insert(100)
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
	if s.Contains(100) {
		t.Error("Contains past capacity should be false")
	}
}

func TestSetClear(t *testing.T) {
	s := New(4)
	s.Insert(1)
	s.Insert(2)
	s.Clear()
	if s.Len() != 0 || s.Contains(1) || s.Contains(2) {
		t.Error("Clear left members behind")
	}
	// Reusable after Clear without zeroing
	s.Insert(2)
	if !s.Contains(2) || s.Contains(1) {
		t.Error("set corrupted after Clear and reuse")
	}
}

func TestSetZeroCapacity(t *testing.T) {
	s := New(0)
	s.Insert(0)
	if s.Len() != 0 || s.Contains(0) {
		t.Error("zero-capacity set should stay empty")
	}
}
