// Package unit defines the stereo processing contract shared by all
// effects, plus helpers for block processing, static composition and
// parameter introspection.
//
// A Unit consumes and produces one stereo frame per call. Effects that
// can process more efficiently in bulk additionally implement
// BlockProcessor; ProcessBlock detects that at runtime and falls back to
// the per-sample path otherwise.
package unit
