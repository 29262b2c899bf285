// Package chain hosts effect units in a reorderable rack and bridges
// parameter writes from control threads to the audio thread.
//
// The bridge is lock free: writers publish plain parameter values into
// per-slot atomics and raise dirty flags; the audio thread folds all
// pending writes into the hosted units at block start, so many writes
// within one block collapse into a single application and the last
// write wins. Structural changes (insert, remove, move, bypass) travel
// through a bounded command queue that is drained at the same point.
package chain
