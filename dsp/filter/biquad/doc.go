// Package biquad implements second-order IIR sections in Direct Form I
// with RBJ cookbook coefficient designs.
//
// Direct Form I keeps separate input and output histories whose values
// remain valid signal samples when coefficients change between calls, so
// sweeping a cutoff does not inject transients the way Direct Form II's
// abstract state does.
package biquad
