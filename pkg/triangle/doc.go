// Package triangle builds the additive triangle known as Meru Prastara
// (Pascal's Triangle).
//
// # Overview
//
// Row i holds i+1 values. The outermost values are 1 and every interior value
// is the sum of the two values directly above it:
//
//	        1
//	       1 1
//	      1 2 1
//	     1 3 3 1
//	    1 4 6 4 1
//
// [Build] produces the first n rows top-down in a single left-to-right fold.
// Each row is a fresh slice; no two rows share backing storage.
//
// # Integer Width
//
// Values are stored as uint64. The largest value in row 67 is C(67,33),
// roughly 1.42e19, which still fits; row 68 would overflow. [Build] therefore
// rejects row counts above [MaxRows] instead of wrapping silently.
//
// # Parity
//
// [Row.Parity] marks odd entries. Plotting the odd entries of the first 2^k
// rows reveals the Sierpinski triangle.
//
// # Concurrency
//
// All functions are pure and safe for concurrent use.
package triangle
