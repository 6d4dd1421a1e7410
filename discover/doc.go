// Package discover locates modules under configured search roots.
//
// A module is any directory carrying a go.mod file. Roots are scanned
// concurrently and results are merged into one deterministic listing, so
// repeated scans of an unchanged tree always agree.
package discover
