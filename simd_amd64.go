//go:build amd64 && !noasm

package qmx

import (
	"golang.org/x/sys/cpu"
)

//go:generate go run -tags avogen ./internal/avo -out unpack_widen_amd64.s

// initSIMDSelection swaps the widening kernels for their SSE2 forms. The
// shift-width kernels stay on the generic path for now.
// TODO: emit PSRLQ/PAND kernels for the shift widths from the avo
// generator and route them through unpackFuncs as well.
func initSIMDSelection() {
	if cpu.X86.HasSSE2 {
		unpackFuncs[selectorTypeLUT[8]] = unpack8SSE
		unpackFuncs[selectorTypeLUT[16]] = unpack16SSE
		simdAvailable = true
	}
}

// Assembly entry points provided by unpack_widen_amd64.s.
//
//go:noescape
func unpack8to32SSE(src *byte, dst *uint32)

//go:noescape
func unpack16to32SSE(src *byte, dst *uint32)

func unpack8SSE(dst []uint32, src []byte) {
	_ = src[15]
	_ = dst[15]
	unpack8to32SSE(&src[0], &dst[0])
}

func unpack16SSE(dst []uint32, src []byte) {
	_ = src[15]
	_ = dst[7]
	unpack16to32SSE(&src[0], &dst[0])
}
