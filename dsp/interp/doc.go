// Package interp provides fractional-sample interpolation kernels and the
// interpolation-mode selection shared by the delay-line primitives.
package interp
