package qmx

import (
	"fmt"
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeEmpty(t *testing.T) {
	assert := assert.New(t)
	c := NewCodec()
	assert.Equal(0, c.Encode(make([]byte, 64), nil), "empty input should encode to zero bytes")
	assert.Empty(c.EncodeAppend(nil, nil))
	assert.Empty(Decode(nil, 0, nil))
}

func TestEncodeAllZeros256(t *testing.T) {
	assert := assert.New(t)
	src := make([]uint32, 256)
	buf := assertRoundTrip(t, src)

	// Zero needs one bit, so 256 zeros pack into two width-1 blocks of
	// 128, covered by a single run-of-2 selector.
	assert.Equal(33, len(buf), "expected 32 payload bytes plus one selector")
	assert.Equal(byte(0x1E), buf[32], "width-1 selector with run length 2")
	for _, b := range buf[:32] {
		assert.Equal(byte(0), b, "zero payload expected")
	}
}

func TestEncodeAllOnes256(t *testing.T) {
	assert := assert.New(t)
	src := make([]uint32, 256)
	for i := range src {
		src[i] = 1
	}
	buf := assertRoundTrip(t, src)

	// A full run of ones is a single width-0 block: one selector byte and
	// no payload at all.
	assert.Equal([]byte{0x0F}, buf)
}

func TestEncodeSingleLargeValue(t *testing.T) {
	assert := assert.New(t)
	buf := assertRoundTrip(t, []uint32{1 << 21})

	// 2^21 needs 22 bits, one more than width 21 holds, so it rounds up to
	// a width-32 block, padded to four integers.
	assert.Equal(17, len(buf))
	assert.Equal(byte(0xEF), buf[16], "width-32 selector with run length 1")

	got := Decode(nil, 4, buf)
	assert.Equal([]uint32{1 << 21, 0, 0, 0}, got)
}

func TestEncodeMixedPromotion(t *testing.T) {
	assert := assert.New(t)
	src := make([]uint32, 64)
	for i := range src {
		src[i] = 3
	}
	src[3] = 8
	buf := assertRoundTrip(t, src)

	// The 4-bit value at position 3 lifts its whole quad, so the planner
	// emits a width-4 block for positions 0-31 and a width-2 block for the
	// rest: 32 payload bytes and two selectors.
	assert.Equal(34, len(buf))
	assert.Equal(byte(0x2F), buf[32], "width-2 selector decoded second")
	assert.Equal(byte(0x4F), buf[33], "width-4 selector decoded first")
}

func TestEncode7BitStraddle(t *testing.T) {
	assert := assert.New(t)
	src := make([]uint32, 36)
	for i := range src {
		src[i] = uint32(64 + i)
	}
	buf := assertRoundTrip(t, src)

	// 36 seven-bit values fill exactly one double-word block.
	assert.Equal(33, len(buf))
	assert.Equal(byte(0x7F), buf[32], "width-7 selector with run length 1")
}

func TestEncodeFullBlockPerWidth(t *testing.T) {
	for typ, w := range widthBits {
		t.Run(fmt.Sprintf("width_%02d", w), func(t *testing.T) {
			assert := assert.New(t)
			src := make([]uint32, blockLengths[typ])
			for i := range src {
				src[i] = maxValueForWidth(w)
			}
			buf := assertRoundTrip(t, src)
			assert.Equal(blockBytes[typ]+1, len(buf), "one block plus one selector")
			assert.Equal(uint8(typ)<<4|0x0F, buf[len(buf)-1], "selector type mismatch")
		})
	}
}

func TestEncodeLongRunChunking(t *testing.T) {
	assert := assert.New(t)
	// 17 width-1 blocks force the run to split into a 16-chunk and a
	// 1-chunk: selector low nibble 0x0 then 0xF.
	src := make([]uint32, 128*17)
	buf := assertRoundTrip(t, src)
	assert.Equal(17*16+2, len(buf))
	assert.Equal(byte(0x10), buf[len(buf)-1], "first selector covers 16 blocks")
	assert.Equal(byte(0x1F), buf[len(buf)-2], "second selector covers the final block")
}

func TestEncodeDstTooSmall(t *testing.T) {
	assert := assert.New(t)
	c := NewCodec()
	rng := rand.New(rand.NewSource(7))
	src := make([]uint32, 1000)
	for i := range src {
		src[i] = rng.Uint32()
	}
	assert.Equal(0, c.Encode(make([]byte, 16), src), "undersized destination should report 0")
	assert.NotZero(c.Encode(make([]byte, MaxEncodedLen(len(src))), src))
}

func TestDecodeReservedSelector(t *testing.T) {
	assert := assert.New(t)
	// A reserved selector consumes one payload byte and is otherwise
	// ignored; the width-0 selector behind it still decodes.
	buf := []byte{0x00, 0x0F, 0xFF}
	assert.Equal(256, DecodedLen(buf))
	got := Decode(nil, 256, buf)
	for _, v := range got {
		assert.Equal(uint32(1), v)
	}
}

func TestCodecScratchReuse(t *testing.T) {
	c := NewCodec()
	rng := rand.New(rand.NewSource(99))
	for _, n := range []int{1000, 10, 5000, 0, 333} {
		src := make([]uint32, n)
		for i := range src {
			src[i] = uint32(rng.Intn(1 << 12))
		}
		buf := c.EncodeAppend(nil, src)
		got := Decode(nil, n, buf)
		assert.True(t, slices.Equal(src, got), "scratch reuse broke a round trip at n=%d", n)
	}
}

func TestRoundTripDistributions(t *testing.T) {
	distributions := []struct {
		name string
		gen  func(rng *rand.Rand) uint32
	}{
		{"uniform_full", func(rng *rand.Rand) uint32 { return rng.Uint32() }},
		{"uniform_small", func(rng *rand.Rand) uint32 { return uint32(rng.Intn(64)) }},
		{"dgaps", func(rng *rand.Rand) uint32 {
			if rng.Intn(4) > 0 {
				return 1
			}
			return uint32(rng.Intn(1 << 16))
		}},
		{"zeros_and_ones", func(rng *rand.Rand) uint32 { return uint32(rng.Intn(2)) }},
		{"powers", func(rng *rand.Rand) uint32 { return 1 << uint(rng.Intn(32)) }},
	}

	for _, dist := range distributions {
		t.Run(dist.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(2025))
			for trial := 0; trial < 50; trial++ {
				n := rng.Intn(2000)
				src := make([]uint32, n)
				for i := range src {
					src[i] = dist.gen(rng)
				}
				assertRoundTrip(t, src)
			}
		})
	}
}

func TestRoundTripLengthSweep(t *testing.T) {
	rng := rand.New(rand.NewSource(4711))
	for n := 0; n <= 300; n++ {
		src := make([]uint32, n)
		for i := range src {
			src[i] = uint32(rng.Intn(1 << uint(rng.Intn(22))))
		}
		assertRoundTrip(t, src)
	}
	for _, n := range []int{1000, 4096, 9999, 10000} {
		src := make([]uint32, n)
		for i := range src {
			src[i] = rng.Uint32() >> uint(rng.Intn(32))
		}
		assertRoundTrip(t, src)
	}
}

var (
	resultBytes []byte
	resultU32   []uint32
)

func BenchmarkEncode(b *testing.B) {
	c := NewCodec()
	src := genGaps(4096, 42)
	dst := make([]byte, MaxEncodedLen(len(src)))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		c.Encode(dst, src)
	}
	resultBytes = dst
}

func BenchmarkDecode(b *testing.B) {
	c := NewCodec()
	src := genGaps(4096, 42)
	buf := c.EncodeAppend(nil, src)
	dst := make([]uint32, 0, len(src)+MaxBlockLength)
	b.ReportAllocs()
	b.SetBytes(int64(len(src) * 4))
	for i := 0; i < b.N; i++ {
		dst = Decode(dst, len(src), buf)
	}
	resultU32 = dst
}

// Helpers

// genGaps produces a d-gap style sequence: long runs of 1 with occasional
// larger gaps, the distribution QMX is built for.
func genGaps(n int, seed int64) []uint32 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]uint32, n)
	for i := range out {
		switch rng.Intn(8) {
		case 0:
			out[i] = uint32(rng.Intn(1<<17) + 1)
		case 1:
			out[i] = uint32(rng.Intn(200) + 1)
		default:
			out[i] = 1
		}
	}
	return out
}

func maxValueForWidth(w uint8) uint32 {
	switch w {
	case 0:
		return 1
	case 1:
		// The value 1 belongs to width 0; zero is the only width-1 value.
		return 0
	case 32:
		return ^uint32(0)
	default:
		return 1<<w - 1
	}
}

func assertRoundTrip(t *testing.T, src []uint32) []byte {
	t.Helper()
	c := NewCodec()
	buf := c.EncodeAppend(nil, src)
	if len(src) == 0 {
		assert.Empty(t, buf)
		return buf
	}
	assert.NotEmpty(t, buf, "encode produced no output")
	got := Decode(nil, len(src), buf)
	assert.Equal(t, len(src), len(got), "length mismatch")
	assert.Equal(t, src, got)
	return buf
}
