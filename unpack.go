package qmx

// The decoder reads selectors backward from the last byte of the stream
// and payloads forward from the first, dispatching each selector's type
// nibble through a 15-entry kernel table. The run nibble stores the
// bitwise complement of (run-1), so a selector decodes 16-(low nibble)
// consecutive blocks of one width.
//
// JASS reference (compress_integer_qmx_improved.cpp::decodeArray): a
// 256-label switch with fall-through implements the run loop, one label
// per (width, run) pair. A plain counted loop over the kernel table is
// semantically identical; the wire format only requires that run
// consecutive blocks are decoded.

// unpackFuncs maps a selector type nibble to the kernel that expands one
// block. Entries for the byte- and halfword-widening widths are replaced
// by SSE2 kernels at init when the CPU supports them.
var unpackFuncs = [15]func(dst []uint32, src []byte){
	unpackConst1,
	unpack1, unpack2, unpack3, unpack4, unpack5, unpack6,
	unpack7, unpack8, unpack9, unpack10, unpack12,
	unpack16, unpack21, unpack32,
}

var simdAvailable bool

func init() {
	initSIMDSelection()
}

// IsSIMDavailable reports whether SIMD-accelerated unpack kernels are active.
func IsSIMDavailable() bool {
	return simdAvailable
}

// Decode expands src into dst and returns dst[:count]. The stream carries
// no length header, so the caller supplies the integer count it passed to
// Encode. Decode reserves MaxBlockLength integers of slack beyond count
// (growing dst if its capacity is short) because the final block may
// decode past the requested count; the returned slice hides the overrun.
//
// Decode allocates nothing when cap(dst) >= count+MaxBlockLength and is
// safe for concurrent use. A malformed stream produces garbage values or
// an out-of-bounds panic; the format carries no redundancy to detect
// corruption.
func Decode(dst []uint32, count int, src []byte) []uint32 {
	if count <= 0 {
		return dst[:0]
	}
	need := count + MaxBlockLength
	if cap(dst) < need {
		dst = make([]uint32, need)
	}
	out := dst[:need]

	in, keys, pos := 0, len(src)-1, 0
	for in <= keys {
		k := src[keys]
		keys--
		t := k >> 4
		if t == 0x0F {
			// Reserved selector range: no encoder emits it. Skip one
			// payload byte, matching the reference behavior.
			in++
			continue
		}
		run := maxRunLength - int(k&0x0F)
		unpack := unpackFuncs[t]
		step := blockBytes[t]
		length := blockLengths[t]
		for ; run > 0; run-- {
			unpack(out[pos:], src[in:])
			pos += length
			in += step
		}
	}
	return out[:count]
}

// unpackConst1 expands a width-0 block: 256 ones, no payload.
func unpackConst1(dst []uint32, _ []byte) {
	for i := range dst[:256] {
		dst[i] = 1
	}
}

// unpackSingle expands a single-word block of the shift widths (1-6, 10):
// four lane registers shifted right by w per step, low w bits stored.
func unpackSingle(dst []uint32, src []byte, w uint, steps int) {
	l0 := bo.Uint32(src)
	l1 := bo.Uint32(src[4:])
	l2 := bo.Uint32(src[8:])
	l3 := bo.Uint32(src[12:])
	mask := uint32(1)<<w - 1
	for k := 0; k < steps; k++ {
		dst[4*k] = l0 & mask
		dst[4*k+1] = l1 & mask
		dst[4*k+2] = l2 & mask
		dst[4*k+3] = l3 & mask
		l0 >>= w
		l1 >>= w
		l2 >>= w
		l3 >>= w
	}
}

func unpack1(dst []uint32, src []byte)  { unpackSingle(dst, src, 1, 32) }
func unpack2(dst []uint32, src []byte)  { unpackSingle(dst, src, 2, 16) }
func unpack3(dst []uint32, src []byte)  { unpackSingle(dst, src, 3, 10) }
func unpack4(dst []uint32, src []byte)  { unpackSingle(dst, src, 4, 8) }
func unpack5(dst []uint32, src []byte)  { unpackSingle(dst, src, 5, 6) }
func unpack6(dst []uint32, src []byte)  { unpackSingle(dst, src, 6, 5) }
func unpack10(dst []uint32, src []byte) { unpackSingle(dst, src, 10, 3) }

// unpack8 widens 16 packed bytes to 16 integers. Replaced by an SSE2
// kernel on amd64.
func unpack8(dst []uint32, src []byte) {
	_ = dst[15]
	for i, b := range src[:16] {
		dst[i] = uint32(b)
	}
}

// unpack16 widens 8 packed halfwords to 8 integers. Replaced by an SSE2
// kernel on amd64.
func unpack16(dst []uint32, src []byte) {
	_ = dst[7]
	for i := 0; i < 8; i++ {
		dst[i] = uint32(bo.Uint16(src[2*i:]))
	}
}

// unpack32 copies 4 words through unchanged.
func unpack32(dst []uint32, src []byte) {
	_ = dst[3]
	for i := 0; i < 4; i++ {
		dst[i] = bo.Uint32(src[4*i:])
	}
}

// The double-word kernels mirror the split layouts in pack.go: full fields
// from the first word, one combining shift for the integer straddling the
// word boundary, then full fields from the second word.

func unpack7(dst []uint32, src []byte) {
	_ = dst[35]
	for lane := 0; lane < laneCount; lane++ {
		v1 := bo.Uint32(src[lane*4:])
		v2 := bo.Uint32(src[16+lane*4:])
		dst[lane] = v1 & 0x7F
		dst[4+lane] = v1 >> 7 & 0x7F
		dst[8+lane] = v1 >> 14 & 0x7F
		dst[12+lane] = v1 >> 21 & 0x7F
		dst[16+lane] = (v2<<4 | v1>>28) & 0x7F
		v2 >>= 3
		dst[20+lane] = v2 & 0x7F
		dst[24+lane] = v2 >> 7 & 0x7F
		dst[28+lane] = v2 >> 14 & 0x7F
		dst[32+lane] = v2 >> 21 & 0x7F
	}
}

func unpack9(dst []uint32, src []byte) {
	_ = dst[27]
	for lane := 0; lane < laneCount; lane++ {
		v1 := bo.Uint32(src[lane*4:])
		v2 := bo.Uint32(src[16+lane*4:])
		dst[lane] = v1 & 0x1FF
		dst[4+lane] = v1 >> 9 & 0x1FF
		dst[8+lane] = v1 >> 18 & 0x1FF
		dst[12+lane] = (v2<<5 | v1>>27) & 0x1FF
		v2 >>= 4
		dst[16+lane] = v2 & 0x1FF
		dst[20+lane] = v2 >> 9 & 0x1FF
		dst[24+lane] = v2 >> 18 & 0x1FF
	}
}

func unpack12(dst []uint32, src []byte) {
	_ = dst[19]
	for lane := 0; lane < laneCount; lane++ {
		v1 := bo.Uint32(src[lane*4:])
		v2 := bo.Uint32(src[16+lane*4:])
		dst[lane] = v1 & 0xFFF
		dst[4+lane] = v1 >> 12 & 0xFFF
		dst[8+lane] = (v2<<8 | v1>>24) & 0xFFF
		v2 >>= 4
		dst[12+lane] = v2 & 0xFFF
		dst[16+lane] = v2 >> 12 & 0xFFF
	}
}

func unpack21(dst []uint32, src []byte) {
	_ = dst[11]
	for lane := 0; lane < laneCount; lane++ {
		v1 := bo.Uint32(src[lane*4:])
		v2 := bo.Uint32(src[16+lane*4:])
		dst[lane] = v1 & 0x1FFFFF
		dst[4+lane] = (v2<<11 | v1>>21) & 0x1FFFFF
		v2 >>= 10
		dst[8+lane] = v2 & 0x1FFFFF
	}
}
