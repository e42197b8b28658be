// Package pingala enumerates Pingala's metrical patterns: every sequence of a
// fixed length over the two syllable weights laghu (short, written "|") and
// guru (long, written "S").
//
// # Ordering
//
// The enumeration order is part of the contract. For length n the result is
// every pattern of length n-1 prefixed with [Short], in order, followed by
// every pattern of length n-1 prefixed with [Long], in order:
//
//	n=1: |  S
//	n=2: || |S S| SS
//	n=3: ||| ||S |S| |SS S|| S|S SS| SSS
//
// This is the same as counting n-bit numbers most significant bit first, with
// Short as 0 and Long as 1. Pattern i of length n is the binary spelling of i.
//
// # Size Limits
//
// There are 2^n patterns of length n. [Enumerate] materializes them all and
// accepts lengths up to [MaxLength]. [Stream] yields them one at a time and
// accepts lengths up to [MaxStreamLength].
//
// # Meru Prastara
//
// Grouping the patterns of length n by how many long syllables they contain
// gives row n of the triangle; see [CountByLong].
package pingala
