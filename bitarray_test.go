package bitarray

import "testing"

// TestNewBitStorage_Empty covers S1: a default/zero-length storage has
// size 0.
func TestNewBitStorage_Empty(t *testing.T) {
	s := NewBitStorage(0)
	if s.Size() != 0 {
		t.Errorf("expected size 0, got %d", s.Size())
	}
	if len(s.Data()) != tailGuardBytes {
		t.Errorf("expected %d tail-guard-only bytes, got %d", tailGuardBytes, len(s.Data()))
	}
}

// TestNewBitStorage_AllZero covers S1: BitStorage(27) has size 27 and
// every bit reads 0.
func TestNewBitStorage_AllZero(t *testing.T) {
	s := NewBitStorage(27)
	if s.Size() != 27 {
		t.Errorf("expected size 27, got %d", s.Size())
	}
	for i := 0; i < 27; i++ {
		if s.Get(i) {
			t.Errorf("bit %d should read 0 on a fresh storage", i)
		}
	}
}

// TestSetGet_Invariant covers invariant 1: s[i] immediately after
// s[i] = v equals v, for every i and v.
func TestSetGet_Invariant(t *testing.T) {
	s := NewBitStorage(100)
	for i := 0; i < 100; i++ {
		s.Set(i, true)
		if !s.Get(i) {
			t.Fatalf("bit %d: expected true after Set(true)", i)
		}
		s.Set(i, false)
		if s.Get(i) {
			t.Fatalf("bit %d: expected false after Set(false)", i)
		}
	}
}

// TestTailZeroGuard covers invariant 2: bytes at index >= ceil(n/8) stay
// zero no matter what bits are set below that boundary.
func TestTailZeroGuard(t *testing.T) {
	const n = 53
	s := NewBitStorage(n)
	for i := 0; i < n; i++ {
		s.Set(i, true)
	}
	data := s.Data()
	start := byteLen(n)
	for i := start; i < len(data); i++ {
		if data[i] != 0 {
			t.Errorf("tail byte %d should be zero, got 0x%02X", i, data[i])
		}
	}
	if len(data) < start+tailGuardBytes {
		t.Errorf("expected at least %d tail-guard bytes past %d, got buffer of length %d", tailGuardBytes, start, len(data))
	}
}

// TestBitRef_AtAndIndex checks that At() returns a handle reading and
// writing the same bit as BitStorage.Get/Set.
func TestBitRef_AtAndIndex(t *testing.T) {
	s := NewBitStorage(16)
	r := s.At(9)
	if r.Get() {
		t.Fatal("expected false before Set")
	}
	r.Set(true)
	if !s.Get(9) {
		t.Fatal("Set via BitRef did not propagate to storage")
	}
	if r.ByteOffset() != 1 || r.BitPos() != 1 {
		t.Errorf("expected byte offset 1, bit pos 1; got %d, %d", r.ByteOffset(), r.BitPos())
	}
}

// TestOutOfBoundsIndex_Panics covers the fail-fast contract for
// out-of-bounds access.
func TestOutOfBoundsIndex_Panics(t *testing.T) {
	s := NewBitStorage(8)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on out-of-bounds Get")
		}
	}()
	s.Get(8)
}
