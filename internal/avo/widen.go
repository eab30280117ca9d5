//go:build avogen
// +build avogen

package main

import (
	. "github.com/mmcloughlin/avo/build"
	op "github.com/mmcloughlin/avo/operand"
	"github.com/mmcloughlin/avo/reg"
)

// This file generates the SSE2 widening kernels for the byte- and
// halfword-width blocks. Both are straight zero-extensions: PUNPCKLBW /
// PUNPCKHBW against a zero register lift bytes to words, PUNPCKLWL /
// PUNPCKHWL lift words to doublewords. The shift-width blocks keep their
// generic Go kernels until a shift/mask generator lands here.

// genWiden8Kernel emits the width-8 block kernel: 16 packed bytes widened
// to 16 uint32 values (64 output bytes).
func genWiden8Kernel() {
	TEXT("unpack8to32SSE", NOSPLIT, "func(src *byte, dst *uint32)")
	Doc("unpack8to32SSE widens the 16 packed bytes of a width-8 block to 16 uint32 values.")

	src := Load(Param("src"), GP64()).(reg.GPVirtual)
	dst := Load(Param("dst"), GP64()).(reg.GPVirtual)

	zero := XMM()
	// SIMD PXOR: the zero source for every unpack step.
	PXOR(zero, zero)

	block := XMM()
	MOVOU(op.Mem{Base: src}, block)

	// Low 8 bytes -> words, then each word quartet -> doublewords.
	lo := XMM()
	MOVO(block, lo)
	PUNPCKLBW(zero, lo)

	loLo := XMM()
	MOVO(lo, loLo)
	PUNPCKLWL(zero, loLo)
	MOVOU(loLo, op.Mem{Base: dst})

	PUNPCKHWL(zero, lo)
	MOVOU(lo, op.Mem{Base: dst, Disp: 16})

	// High 8 bytes take the same path.
	PUNPCKHBW(zero, block)

	hiLo := XMM()
	MOVO(block, hiLo)
	PUNPCKLWL(zero, hiLo)
	MOVOU(hiLo, op.Mem{Base: dst, Disp: 32})

	PUNPCKHWL(zero, block)
	MOVOU(block, op.Mem{Base: dst, Disp: 48})

	RET()
}

// genWiden16Kernel emits the width-16 block kernel: 8 packed halfwords
// widened to 8 uint32 values (32 output bytes).
func genWiden16Kernel() {
	TEXT("unpack16to32SSE", NOSPLIT, "func(src *byte, dst *uint32)")
	Doc("unpack16to32SSE widens the 8 packed halfwords of a width-16 block to 8 uint32 values.")

	src := Load(Param("src"), GP64()).(reg.GPVirtual)
	dst := Load(Param("dst"), GP64()).(reg.GPVirtual)

	zero := XMM()
	PXOR(zero, zero)

	block := XMM()
	MOVOU(op.Mem{Base: src}, block)

	lo := XMM()
	MOVO(block, lo)
	PUNPCKLWL(zero, lo)
	MOVOU(lo, op.Mem{Base: dst})

	PUNPCKHWL(zero, block)
	MOVOU(block, op.Mem{Base: dst, Disp: 16})

	RET()
}
