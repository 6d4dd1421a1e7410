// Package observe provides observability primitives for query execution.
//
// It is a pure instrumentation library: no query logic, no transport, no
// I/O beyond exporter setup. The operation layer wires the observer around
// each named query operation.
package observe
