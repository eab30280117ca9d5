package qmx

// The packer walks the planned width buffer, collapses adjacent
// equal-width blocks into runs, and emits one selector byte per chunk of
// up to 16 blocks followed by the packed payloads. Selectors accumulate in
// scratch and are appended to the stream reversed, so the decoder can read
// them backward from the final byte while consuming payloads forward.

// packRuns emits the full encoded stream for src into dst and returns the
// byte count, or 0 if dst cannot hold it.
func (c *Codec) packRuns(dst []byte, src []uint32, widths []uint8) int {
	n := len(src)
	out := 0
	selCount := 0

	for i := 0; i < n; {
		w := widths[i]
		blockLen := blockLengthLUT[w]
		if blockLen == 0 {
			panic(illegalWidth(w))
		}

		// Maximal run of equal-width blocks starting at i.
		blocks := 1
		for j := i + blockLen; j < n && widths[j] == w; j += blockLen {
			blocks++
		}

		payloadLen := blockBytesLUT[w]
		sel := selectorTypeLUT[w] << 4
		for blocks > 0 {
			chunk := min(blocks, maxRunLength)
			c.selectors[selCount] = sel | ^uint8(chunk-1)&0x0F
			selCount++

			for k := 0; k < chunk; k++ {
				if out+payloadLen > len(dst) {
					return 0
				}
				s := src[i:min(i+blockLen, n)]
				if len(s) < blockLen {
					s = c.padTail(s, blockLen)
				}
				packBlock(dst[out:], s, w)
				out += payloadLen
				i += blockLen
			}
			blocks -= chunk
		}
	}

	// Selector region, reversed so the first block's selector lands on the
	// last byte of the stream.
	if out+selCount > len(dst) {
		return 0
	}
	for k := selCount - 1; k >= 0; k-- {
		dst[out] = c.selectors[k]
		out++
	}
	return out
}

// packBlock packs one full block of blockLength(w) integers at width w.
// Width 0 carries no payload; widths 8, 16 and 32 store integers
// sequentially as bytes, halfwords and words; everything else interleaves
// across the four 32-bit lanes of the payload word(s).
func packBlock(dst []byte, s []uint32, w uint8) {
	switch w {
	case 0:
	case 7:
		pack7(dst, s)
	case 8:
		for i, v := range s {
			dst[i] = byte(v)
		}
	case 9:
		pack9(dst, s)
	case 12:
		pack12(dst, s)
	case 16:
		for i, v := range s {
			bo.PutUint16(dst[2*i:], uint16(v))
		}
	case 21:
		pack21(dst, s)
	case 32:
		for i, v := range s {
			bo.PutUint32(dst[4*i:], v)
		}
	default:
		packSingle(dst, s, w)
	}
}

// packSingle handles the single-word widths 1-6 and 10. Lane l of the
// 128-bit payload accumulates s[l], s[l+4], s[l+8], ... in successive
// w-bit fields from bit 0.
func packSingle(dst []byte, s []uint32, w uint8) {
	for lane := 0; lane < laneCount; lane++ {
		var acc uint32
		shift := uint(0)
		for k := lane; k < len(s); k += laneCount {
			acc |= s[k] << shift
			shift += uint(w)
		}
		bo.PutUint32(dst[lane*4:], acc)
	}
}

// The double-word widths split one integer per lane across the boundary
// between the two payload words: its low bits finish the first word and
// its high bits open the second. The split points below mirror the
// decoder's combining shifts exactly.

// pack7 packs 36 integers: s[0..15] and the low 4 bits of s[16..19] in the
// first word, the high 3 bits of s[16..19] and s[20..35] in the second.
func pack7(dst []byte, s []uint32) {
	for lane := 0; lane < laneCount; lane++ {
		w1 := s[lane] | s[4+lane]<<7 | s[8+lane]<<14 | s[12+lane]<<21 | (s[16+lane]&0xF)<<28
		w2 := s[16+lane]>>4 | s[20+lane]<<3 | s[24+lane]<<10 | s[28+lane]<<17 | s[32+lane]<<24
		bo.PutUint32(dst[lane*4:], w1)
		bo.PutUint32(dst[16+lane*4:], w2)
	}
}

// pack9 packs 28 integers with the straddle at s[12..15] (low 5 / high 4).
func pack9(dst []byte, s []uint32) {
	for lane := 0; lane < laneCount; lane++ {
		w1 := s[lane] | s[4+lane]<<9 | s[8+lane]<<18 | (s[12+lane]&0x1F)<<27
		w2 := s[12+lane]>>5 | s[16+lane]<<4 | s[20+lane]<<13 | s[24+lane]<<22
		bo.PutUint32(dst[lane*4:], w1)
		bo.PutUint32(dst[16+lane*4:], w2)
	}
}

// pack12 packs 20 integers with the straddle at s[8..11] (low 8 / high 4).
func pack12(dst []byte, s []uint32) {
	for lane := 0; lane < laneCount; lane++ {
		w1 := s[lane] | s[4+lane]<<12 | (s[8+lane]&0xFF)<<24
		w2 := s[8+lane]>>8 | s[12+lane]<<4 | s[16+lane]<<16
		bo.PutUint32(dst[lane*4:], w1)
		bo.PutUint32(dst[16+lane*4:], w2)
	}
}

// pack21 packs 12 integers with the straddle at s[4..7] (low 11 / high 10).
func pack21(dst []byte, s []uint32) {
	for lane := 0; lane < laneCount; lane++ {
		w1 := s[lane] | (s[4+lane]&0x7FF)<<21
		w2 := s[4+lane]>>11 | s[8+lane]<<10
		bo.PutUint32(dst[lane*4:], w1)
		bo.PutUint32(dst[16+lane*4:], w2)
	}
}
