package qmx

import (
	"errors"
	"slices"
)

// Reader provides random access to a QMX-compressed posting list.
// Load decodes the stream once into an internal buffer that is reused
// across Load calls. A Reader is not safe for concurrent use; create
// multiple readers from the same buffer if concurrent access is needed.
type Reader struct {
	// values holds the decoded integers (decoded once on Load)
	values []uint32

	// pos is the current position for sequential iteration (0-based)
	pos int

	// count is the number of live integers in the stream
	count int

	// isSorted indicates the decoded values are monotonically
	// non-decreasing, enabling binary search in SkipTo
	isSorted bool

	// loaded indicates the reader has been loaded with data
	loaded bool
}

// ErrInvalidBuffer is returned when the buffer cannot hold the claimed count.
var ErrInvalidBuffer = errors.New("qmx: invalid buffer")

// ErrNotLoaded is returned when operations are called before Load().
var ErrNotLoaded = errors.New("qmx: reader not loaded")

// ErrPositionOutOfRange is returned when accessing a position beyond the list.
var ErrPositionOutOfRange = errors.New("qmx: position out of range")

// NewReader creates an empty Reader that must be loaded with Load() before use.
func NewReader() *Reader {
	return &Reader{}
}

// Load decodes a QMX-compressed byte buffer into the reader. The wire
// format carries no length header, so the caller passes the integer count
// it handed to Encode. Load resets all internal state and can be called
// repeatedly to reuse the reader and its decode buffer.
func (r *Reader) Load(buf []byte, count int) error {
	if count < 0 || DecodedLen(buf) < count {
		return ErrInvalidBuffer
	}

	r.values = Decode(r.values, count, buf)
	r.count = count
	r.isSorted = slices.IsSorted(r.values)
	r.pos = 0
	r.loaded = true
	return nil
}

// IsLoaded returns whether the reader has been loaded with data.
func (r *Reader) IsLoaded() bool {
	return r.loaded
}

// Len returns the number of integers in the list.
func (r *Reader) Len() int {
	return r.count
}

// Pos returns the current position for sequential iteration.
func (r *Reader) Pos() int {
	return r.pos
}

// Reset resets the reader position to the beginning for sequential iteration.
func (r *Reader) Reset() {
	r.pos = 0
}

// IsSorted returns whether the decoded values are monotonically
// non-decreasing. SkipTo uses binary search in that case.
func (r *Reader) IsSorted() bool {
	return r.isSorted
}

// Get returns the value at the specified position.
// Returns an error if the reader is not loaded or pos is out of range.
func (r *Reader) Get(pos int) (uint32, error) {
	if !r.loaded {
		return 0, ErrNotLoaded
	}
	if pos < 0 || pos >= r.count {
		return 0, ErrPositionOutOfRange
	}
	return r.values[pos], nil
}

// Next returns the next value in sequence and its position.
// Returns (0, 0, false) if not loaded or no more elements remain.
func (r *Reader) Next() (value uint32, pos int, ok bool) {
	if !r.loaded || r.pos >= r.count {
		return 0, 0, false
	}
	value = r.values[r.pos]
	pos = r.pos
	r.pos++
	return value, pos, true
}

// SkipTo advances to and returns the first value >= req at or after the
// current position. Sorted data uses binary search; otherwise a linear
// scan returns the first occurrence in iteration order.
func (r *Reader) SkipTo(req uint32) (value uint32, pos int, ok bool) {
	if !r.loaded || r.count == 0 {
		return 0, 0, false
	}
	if r.isSorted {
		return r.skipToBinarySearch(req)
	}
	return r.skipToLinear(req)
}

func (r *Reader) skipToBinarySearch(req uint32) (value uint32, pos int, ok bool) {
	idx, _ := slices.BinarySearch(r.values[r.pos:], req)
	absPos := r.pos + idx
	if absPos >= r.count {
		r.pos = r.count
		return 0, 0, false
	}
	r.pos = absPos + 1
	return r.values[absPos], absPos, true
}

func (r *Reader) skipToLinear(req uint32) (value uint32, pos int, ok bool) {
	for r.pos < r.count {
		v := r.values[r.pos]
		p := r.pos
		r.pos++
		if v >= req {
			return v, p, true
		}
	}
	return 0, 0, false
}

// Values copies all decoded values into the provided destination slice.
// If dst has insufficient capacity, a new slice is allocated.
// Returns nil if the reader is not loaded.
func (r *Reader) Values(dst []uint32) []uint32 {
	if !r.loaded {
		return nil
	}
	if cap(dst) < r.count {
		dst = make([]uint32, r.count)
	} else {
		dst = dst[:r.count]
	}
	copy(dst, r.values[:r.count])
	return dst
}
