// Package binomial lays out a binary branching tree over the plane and
// groups its terminal nodes by height.
//
// # Overview
//
// Starting from an origin, every node branches into an "up" child and a
// "down" child displaced by two fixed vectors. After depth steps the tree has
// 2^depth terminal nodes. When the two vectors recombine (same horizontal
// step, opposite vertical step) many terminals land on the same height, and
// grouping them by height yields depth+1 distinct levels whose path counts
// are exactly row depth of the triangle (see package triangle).
//
// # Keys
//
// Terminals are grouped by a [Key], the vertical coordinate rounded to
// [Options.Precision] decimal places and stored as an integer. Comparing
// integers keeps grouping exact; floating-point keys would split levels that
// differ only in the last ulp.
//
// # Collisions
//
// When two terminals share a key the [Policy] decides what the bucket keeps:
//
//   - [LastWriteWins] stores the most recent terminal, matching the reference
//     drawing code. The bucket still counts every arrival.
//   - [Merge] keeps every colliding point in generation order.
//
// # Labeling
//
// [Label] sorts the keys from highest to lowest and pairs them positionally
// with a triangle row. A length difference is reported as a SIZE_MISMATCH
// error; nothing is silently truncated.
//
// # Cone
//
// [Cone] builds the fixed-grid "cone of uncertainty" used for the weather
// example: rows of evenly spread points fanning out from an origin, without
// any branching or collision handling.
package binomial
