package qmx

// The block planner rewrites the per-integer width buffer into a legal
// tiling: runs of one width whose lengths are whole multiples of that
// width's block length, with no block containing an integer wider than the
// block. It operates in place and writes into the zero-filled lookahead
// past index n, never past n+wastage.
//
// JASS reference (compress_integer_qmx_improved.cpp): the length buffer is
// four-wise maxed so all four lanes of a 128-bit write share one width,
// then walked with the end-of-list special cases and the promotion loop.

// planWidths transforms widths[0:n] (with its zero lookahead) into the
// block plan the packer consumes. After it returns, every block's entries
// carry the block's width, so the packer can detect runs by value.
func planWidths(widths []uint8, n int) {
	// Four-wise max: the four integers sharing a lane position across a
	// block must agree on a width.
	for i := 0; i < n; i += 4 {
		m := max(widths[i], widths[i+1], widths[i+2], widths[i+3])
		widths[i], widths[i+1], widths[i+2], widths[i+3] = m, m, m, m
	}

	for i := 0; i < n; {
		promoteTail(widths, i, n-i)
		i = emitBlock(widths, i)
	}
}

// promoteTail widens the plan near the end of the source. A small-width
// block there would spend most of its payload on padding. With fewer than
// 4 integers left, the next 8 widths become 8, 16 or 32, whichever first
// holds their maximum. With fewer than 8 left, they become 8 (or the next
// 16 become 16) when the maximum allows; wider entries are left alone.
// With fewer than 16 left, the next 16 become 8 only if none is wider.
// The cursor is always quad-aligned, so these writes preserve lane
// alignment.
func promoteTail(widths []uint8, i, remaining int) {
	switch {
	case remaining < 4:
		switch m := maxWidth(widths[i : i+8]); {
		case m <= 8:
			fillWidths(widths[i:i+8], 8)
		case m <= 16:
			fillWidths(widths[i:i+8], 16)
		default:
			fillWidths(widths[i:i+8], 32)
		}
	case remaining < 8:
		switch m := maxWidth(widths[i : i+8]); {
		case m <= 8:
			fillWidths(widths[i:i+8], 8)
		case m <= 16:
			fillWidths(widths[i:i+16], 16)
		}
	case remaining < 16:
		if maxWidth(widths[i:i+16]) <= 8 {
			fillWidths(widths[i:i+16], 8)
		}
	}
}

// emitBlock fixes the width of the block starting at i, promoting it until
// every integer in the block fits, stamps the block's entries and returns
// the start of the next block. The four-wise max above guarantees entries
// within a quad agree, so scanning every fourth entry is exhaustive.
func emitBlock(widths []uint8, i int) int {
	w := widths[i]
	for {
		blockLen := blockLengthLUT[w]
		if blockLen == 0 {
			panic(illegalWidth(w))
		}
		promoted := false
		for j := 0; j < blockLen; j += 4 {
			if widths[i+j] > w {
				w = nextWidthLUT[w]
				promoted = true
				break
			}
		}
		if !promoted {
			fillWidths(widths[i:i+blockLen], w)
			return i + blockLen
		}
	}
}

func maxWidth(s []uint8) uint8 {
	var m uint8
	for _, w := range s {
		m = max(m, w)
	}
	return m
}

func fillWidths(s []uint8, w uint8) {
	for i := range s {
		s[i] = w
	}
}
