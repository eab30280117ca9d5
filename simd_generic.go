//go:build !amd64 || noasm

package qmx

// initSIMDSelection is a no-op without assembly kernels; the table keeps
// its generic entries.
func initSIMDSelection() {}
