// Package introspect defines the provider boundary for reading structural
// type metadata out of compiled modules.
//
// It is a pure metadata layer: providers read type and member facts, they
// never execute module code. The default GoPackagesProvider reads Go package
// metadata via golang.org/x/tools/go/packages; other binary formats plug in
// behind the same Provider interface.
package introspect
