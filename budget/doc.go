// Package budget enforces response size ceilings on query results.
//
// A Governor trims pages that would exceed a size target, rejects any
// envelope over the hard ceiling, and produces advisory pagination hints
// when the projected unpaginated result would be uncomfortably large.
package budget
