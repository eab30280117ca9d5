package qmx

// Decode-free stream introspection. Both helpers walk the selector region
// backward exactly as Decode does, but never touch payload contents, so
// they are allocation-free and cheap enough to run over millions of
// posting lists (sizing destination buffers, building stats for a
// compression report) before any payload is expanded.

// Stats summarizes the block structure of an encoded stream.
type Stats struct {
	// Integers is the total decoded length, including the zero-padded
	// tail of the final block.
	Integers int
	// Blocks counts packed blocks; Selectors counts selector bytes
	// (each covers up to 16 blocks).
	Blocks    int
	Selectors int
	// PayloadBytes is the size of the payload region; the selector region
	// occupies the remaining len(src)-PayloadBytes bytes.
	PayloadBytes int
	// BlocksPerWidth counts blocks by selector type nibble, in the order
	// of widths 0,1,2,3,4,5,6,7,8,9,10,12,16,21,32.
	BlocksPerWidth [15]int
}

// DecodedLen returns the total number of integers src decodes to,
// including the padding tail. It is always >= the count passed to Encode
// and less than count+MaxBlockLength.
func DecodedLen(src []byte) int {
	in, keys := 0, len(src)-1
	total := 0
	for in <= keys {
		k := src[keys]
		keys--
		t := k >> 4
		if t == 0x0F {
			in++
			continue
		}
		run := maxRunLength - int(k&0x0F)
		total += run * blockLengths[t]
		in += run * blockBytes[t]
	}
	return total
}

// BlockStats reports the block structure of src.
func BlockStats(src []byte) Stats {
	var st Stats
	in, keys := 0, len(src)-1
	for in <= keys {
		k := src[keys]
		keys--
		t := k >> 4
		if t == 0x0F {
			in++
			continue
		}
		run := maxRunLength - int(k&0x0F)
		st.Selectors++
		st.Blocks += run
		st.BlocksPerWidth[t] += run
		st.Integers += run * blockLengths[t]
		in += run * blockBytes[t]
	}
	st.PayloadBytes = in
	return st
}
