package bitarray

// BitRef is a non-owning handle to a single logical bit within a
// BitStorage. It is both readable as a value and assignable as a
// target, re-architecting the classic "proxy bit" pattern as a tagged
// mutable reference rather than an operator-overloaded value type: the
// index operator (BitStorage.At) returns a BitRef carrying the owning
// storage plus the bit's logical index, and Get/Set do the byte/position
// arithmetic on demand.
//
// A BitRef's lifetime must not outlive the BitStorage it was taken from.
// Kernels (kernel/dotprod, kernel/convolve) additionally use a BitRef to
// name the start of a sub-range: ByteOffset/BitPos/Bytes/StorageLen give
// them everything needed to address into the underlying buffer without
// copying into an aligned scratch buffer first.
type BitRef struct {
	storage BitStorage
	bit     int
}

// Get reads the referenced bit.
func (r BitRef) Get() bool {
	return r.storage.Get(r.bit)
}

// Set writes the referenced bit in place.
func (r BitRef) Set(v bool) {
	r.storage.Set(r.bit, v)
}

// ByteOffset returns the byte index the referenced bit starts in:
// floor(bit/8).
func (r BitRef) ByteOffset() int {
	return r.bit / 8
}

// BitPos returns the sub-byte bit position of the referenced bit, in
// [0, 7], where 0 is the least-significant bit.
func (r BitRef) BitPos() int {
	return r.bit % 8
}

// Bytes returns the raw byte view of the owning storage, tail-zero guard
// included. Kernels load unaligned 64-bit words directly from this.
func (r BitRef) Bytes() []byte {
	return r.storage.Data()
}

// StorageLen returns the logical bit length of the owning storage, used
// by kernels to validate that a requested range does not exceed the
// storage's logical end by more than the tail-zero guard.
func (r BitRef) StorageLen() int {
	return r.storage.Size()
}

// CheckRange validates that reading length bits starting at this ref
// does not exceed the owning storage's logical end by more than the
// tail-zero guard — i.e. that the kernel's unaligned loads stay within
// guaranteed-zero or real data. op names the caller for the panic
// message. This is a contract violation, not a recoverable error: it
// panics rather than returning one.
func (r BitRef) CheckRange(length int, op string) {
	if length < 0 {
		panic(&IndexError{Index: r.bit, Size: r.storage.Size(), Op: op})
	}
	end := r.bit + length
	guardedEnd := byteLen(r.storage.Size())*8 + tailGuardBytes*8
	if end > guardedEnd {
		panic(&IndexError{Index: end, Size: r.storage.Size(), Op: op})
	}
}
