package normalize

import (
	"strings"

	"github.com/modscope/modscope/introspect"
)

// primitiveAliases maps canonical primitive type names to their rendered
// aliases. Lookups try the qualified name first, then the simple name, so
// providers that emit already-short primitive names pass through unchanged.
var primitiveAliases = map[string]string{
	"Boolean": "bool",
	"Byte":    "byte",
	"SByte":   "sbyte",
	"Char":    "char",
	"Int16":   "short",
	"UInt16":  "ushort",
	"Int32":   "int",
	"UInt32":  "uint",
	"Int64":   "long",
	"UInt64":  "ulong",
	"Single":  "float",
	"Double":  "double",
	"Decimal": "decimal",
	"String":  "string",
	"Object":  "object",
	"Void":    "void",
}

// RenderTypeName renders a friendly name for a type reference. The renderer
// recurses through element types and generic arguments:
//
//	byref                -> <elem>&
//	pointer              -> <elem>*
//	array (rank r)       -> <elem>[ , x(r-1) ]
//	constructed generic  -> Name<Arg1,Arg2> with the arity suffix stripped
//	primitive            -> alias table
//	anything else        -> simple name
func RenderTypeName(ref introspect.TypeRef) string {
	switch ref.Kind {
	case introspect.KindByRef:
		return renderElem(ref) + "&"
	case introspect.KindPointer:
		return renderElem(ref) + "*"
	case introspect.KindArray:
		rank := ref.Rank
		if rank < 1 {
			rank = 1
		}
		return renderElem(ref) + "[" + strings.Repeat(",", rank-1) + "]"
	case introspect.KindGenericParam:
		return ref.Name
	}

	if alias, ok := primitiveAliases[ref.Qualified]; ok {
		return alias
	}
	if alias, ok := primitiveAliases[ref.Name]; ok {
		return alias
	}

	if len(ref.TypeArgs) == 0 {
		return ref.Name
	}

	name := stripArity(ref.Name)
	args := make([]string, len(ref.TypeArgs))
	for i, arg := range ref.TypeArgs {
		args[i] = RenderTypeName(arg)
	}
	return name + "<" + strings.Join(args, ",") + ">"
}

func renderElem(ref introspect.TypeRef) string {
	if ref.Elem == nil {
		return stripArity(ref.Name)
	}
	return RenderTypeName(*ref.Elem)
}

// stripArity removes a trailing generic arity suffix ("List`1" -> "List").
func stripArity(name string) string {
	if i := strings.IndexByte(name, '`'); i >= 0 {
		return name[:i]
	}
	return name
}
