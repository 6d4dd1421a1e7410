// Package query filters, sorts and paginates descriptor sets
// deterministically across stateless calls.
//
// Ordering is stable and independent of provider enumeration order, which is
// what makes pagination offsets meaningful between a page and its
// continuation. Continuation tokens are opaque and salt-bound: a token only
// replays against the exact query that minted it.
package query
