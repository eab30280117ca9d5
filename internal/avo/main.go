//go:build avogen
// +build avogen

package main

import (
	"flag"
	"strings"

	. "github.com/mmcloughlin/avo/build"
)

var (
	component = flag.String("component", "all", "component to generate")
)

// main emits the widening kernels so go:generate stays simple.
func main() {
	flag.Parse()

	comp := strings.ToLower(*component)

	Package("github.com/Akron/qmx-go")
	ConstraintExpr("amd64")
	ConstraintExpr("!noasm")

	if comp == "widen" || comp == "all" {
		genWiden8Kernel()
		genWiden16Kernel()
	}

	Generate()
}
