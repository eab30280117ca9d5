package qmx

// Iterator decodes a QMX stream one block at a time, for traversals that
// touch a prefix of a long posting list and for memory-constrained fan-out
// over millions of lists. Only one block (at most MaxBlockLength integers)
// is materialized at a time; the compressed buffer is read in place and
// must stay valid while the iterator is in use, which suits mmap-backed
// storage.
//
// An Iterator is not safe for concurrent use. Unlike Reader it cannot seek
// backward; re-Init to restart.
type Iterator struct {
	src []byte

	// in and keys are the payload and selector cursors of the decode walk.
	in   int
	keys int

	// remaining counts the live integers not yet returned.
	remaining int

	// run is the number of blocks left under the current selector; typ is
	// that selector's type nibble.
	run int
	typ uint8

	// block buffers the current decoded block.
	block  [MaxBlockLength]uint32
	length int
	next   int
}

// Init points the iterator at an encoded stream holding count integers.
// It may be called repeatedly to reuse the iterator.
func (it *Iterator) Init(src []byte, count int) {
	it.src = src
	it.in = 0
	it.keys = len(src) - 1
	it.remaining = count
	it.run = 0
	it.typ = 0
	it.length = 0
	it.next = 0
}

// Next returns the next integer. It returns false when count integers
// have been returned or the stream is exhausted early.
func (it *Iterator) Next() (uint32, bool) {
	if it.remaining <= 0 {
		return 0, false
	}
	for it.next >= it.length {
		if !it.decodeBlock() {
			return 0, false
		}
	}
	v := it.block[it.next]
	it.next++
	it.remaining--
	return v, true
}

// decodeBlock expands the next block into the block buffer, advancing to
// the next selector when the current run is spent.
func (it *Iterator) decodeBlock() bool {
	for it.run == 0 {
		if it.in > it.keys {
			return false
		}
		k := it.src[it.keys]
		it.keys--
		t := k >> 4
		if t == 0x0F {
			// Reserved selector: skip one payload byte, as Decode does.
			it.in++
			continue
		}
		it.typ = t
		it.run = maxRunLength - int(k&0x0F)
	}

	unpackFuncs[it.typ](it.block[:], it.src[it.in:])
	it.in += blockBytes[it.typ]
	it.length = blockLengths[it.typ]
	it.next = 0
	it.run--
	return true
}
