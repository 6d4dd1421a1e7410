// Package normalize turns raw introspection facts into renderable, immutable
// descriptors.
//
// Descriptors are snapshots: once materialized they hold no reference back to
// the provider or the open module handle, so handle lifetime ends at the call
// boundary. Rendering (friendly type names, member signatures) happens here
// once, so every downstream consumer sees the same strings.
package normalize
