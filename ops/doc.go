// Package ops is the operation surface of the query engine.
//
// Each operation accepts a QueryRequest, runs the full pipeline (open
// module, normalize, filter, sort, page, govern size) and returns exactly
// one serialized envelope. Faults never escape as Go errors: every failure
// is classified and rendered as an error envelope at the boundary.
package ops
