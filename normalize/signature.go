package normalize

import (
	"strings"

	"github.com/modscope/modscope/introspect"
)

// modifierKeyword picks the single modifier keyword for a member signature.
// The keywords are mutually exclusive, in precedence order:
// abstract > virtual (non-override) > override > sealed.
func modifierKeyword(m *introspect.RawMember) string {
	switch {
	case m.Abstract:
		return "abstract"
	case m.Virtual && !m.Overrides():
		return "virtual"
	case m.Overrides():
		return "override"
	case m.Sealed:
		return "sealed"
	default:
		return ""
	}
}

// renderParameter renders one parameter for a signature: modifier keyword,
// type, name, and "= default" when optional with a literal default.
func renderParameter(p introspect.RawParameter) string {
	var b strings.Builder
	switch {
	case p.Out:
		b.WriteString("out ")
	case p.Ref:
		b.WriteString("ref ")
	case p.In:
		b.WriteString("in ")
	case p.Variadic:
		b.WriteString("params ")
	}
	b.WriteString(RenderTypeName(p.Type))
	if p.Name != "" {
		b.WriteString(" ")
		b.WriteString(p.Name)
	}
	if p.Optional && p.HasDefault {
		b.WriteString(" = ")
		b.WriteString(p.Default)
	}
	return b.String()
}

func renderParameterList(params []introspect.RawParameter) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = renderParameter(p)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func signaturePrefix(m *introspect.RawMember) string {
	var b strings.Builder
	b.WriteString(m.Accessibility.String())
	b.WriteString(" ")
	if m.Static {
		b.WriteString("static ")
	}
	if mod := modifierKeyword(m); mod != "" {
		b.WriteString(mod)
		b.WriteString(" ")
	}
	return b.String()
}

// methodSignature renders a method as
// "<access> [static] [modifier] <type> <name>[<T,..>](params)".
func methodSignature(m *introspect.RawMember) string {
	var b strings.Builder
	b.WriteString(signaturePrefix(m))
	b.WriteString(RenderTypeName(m.Type))
	b.WriteString(" ")
	b.WriteString(m.Name)
	if len(m.GenericParams) > 0 {
		names := make([]string, len(m.GenericParams))
		for i, gp := range m.GenericParams {
			names[i] = gp.Name
		}
		b.WriteString("<" + strings.Join(names, ",") + ">")
	}
	b.WriteString(renderParameterList(m.Params))
	return b.String()
}

// propertySignature renders a property, using "this[...]" for indexers.
func propertySignature(m *introspect.RawMember) string {
	var b strings.Builder
	b.WriteString(signaturePrefix(m))
	b.WriteString(RenderTypeName(m.Type))
	b.WriteString(" ")
	if m.Indexer {
		b.WriteString("this[")
		parts := make([]string, len(m.Params))
		for i, p := range m.Params {
			parts[i] = renderParameter(p)
		}
		b.WriteString(strings.Join(parts, ", "))
		b.WriteString("]")
	} else {
		b.WriteString(m.Name)
	}
	accessors := make([]string, 0, 2)
	if m.Readable {
		accessors = append(accessors, "get;")
	}
	if m.Writable {
		accessors = append(accessors, "set;")
	}
	b.WriteString(" { " + strings.Join(accessors, " ") + " }")
	return b.String()
}

func fieldSignature(m *introspect.RawMember) string {
	var b strings.Builder
	b.WriteString(m.Accessibility.String())
	b.WriteString(" ")
	switch {
	case m.Const:
		b.WriteString("const ")
	case m.Static:
		b.WriteString("static ")
	}
	if m.Readonly {
		b.WriteString("readonly ")
	}
	if m.Volatile {
		b.WriteString("volatile ")
	}
	b.WriteString(RenderTypeName(m.Type))
	b.WriteString(" ")
	b.WriteString(m.Name)
	if m.Const && m.Literal != "" {
		b.WriteString(" = ")
		b.WriteString(m.Literal)
	}
	return b.String()
}

func eventSignature(m *introspect.RawMember) string {
	var b strings.Builder
	b.WriteString(signaturePrefix(m))
	b.WriteString("event ")
	b.WriteString(RenderTypeName(m.Type))
	b.WriteString(" ")
	b.WriteString(m.Name)
	return b.String()
}

// constructorSignature renders a constructor under its declaring type's
// simple name.
func constructorSignature(m *introspect.RawMember, declaringSimple string) string {
	var b strings.Builder
	b.WriteString(m.Accessibility.String())
	b.WriteString(" ")
	if m.StaticInit {
		b.WriteString("static ")
	}
	b.WriteString(declaringSimple)
	b.WriteString(renderParameterList(m.Params))
	return b.String()
}
