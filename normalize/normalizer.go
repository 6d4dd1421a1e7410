package normalize

import (
	"strings"

	"github.com/modscope/modscope/introspect"
)

// nestedSeparator is the module-native nested-type separator. Queries
// written with dots resolve against it and vice versa.
const nestedSeparator = "+"

// LookupType resolves a type name against a module. The ladder is:
// exact qualified-name match (respecting caseSensitive), then a linear scan
// comparing qualified and simple names, then a retry with nesting separators
// converted, so both dotted and module-native nested-name forms resolve.
// Returns ok=false when nothing matches.
func LookupType(p introspect.Provider, h *introspect.ModuleHandle, name string, caseSensitive bool) (introspect.TypeIdentity, bool, error) {
	ids, err := p.EnumerateTypes(h)
	if err != nil {
		return introspect.TypeIdentity{}, false, err
	}

	eq := func(a, b string) bool { return a == b }
	if !caseSensitive {
		eq = strings.EqualFold
	}

	for _, candidate := range lookupCandidates(name) {
		for _, id := range ids {
			if eq(id.Qualified, candidate) {
				return id, true, nil
			}
		}
		for _, id := range ids {
			if eq(id.Simple, candidate) {
				return id, true, nil
			}
		}
	}
	return introspect.TypeIdentity{}, false, nil
}

// lookupCandidates expands a query into separator variants. The original
// form always comes first so exact matches win. Dots convert to the nested
// separator from the right, one segment at a time, so a dotted query for a
// type nested at any depth still resolves ("Ns.A.B.C" tries "Ns.A.B+C",
// "Ns.A+B+C", then "Ns+A+B+C").
func lookupCandidates(name string) []string {
	candidates := []string{name}
	if strings.Contains(name, nestedSeparator) {
		candidates = append(candidates, strings.ReplaceAll(name, nestedSeparator, "."))
	}
	for i := strings.LastIndex(name, "."); i >= 0; i = strings.LastIndex(name[:i], ".") {
		candidates = append(candidates, name[:i]+strings.ReplaceAll(name[i:], ".", nestedSeparator))
	}
	return candidates
}

// NormalizeType materializes the descriptor for one type. Returns ok=false
// when the identity does not resolve. The descriptor is a deep snapshot;
// closing the handle afterwards does not invalidate it.
func NormalizeType(p introspect.Provider, h *introspect.ModuleHandle, id introspect.TypeIdentity) (*TypeDescriptor, bool, error) {
	raw, ok, err := p.ResolveType(h, id)
	if err != nil || !ok {
		return nil, ok, err
	}
	desc := typeDescriptor(raw)
	return &desc, true, nil
}

// NormalizeTypes materializes summary descriptors for every type in the
// module, in enumeration order.
func NormalizeTypes(p introspect.Provider, h *introspect.ModuleHandle) ([]TypeDescriptor, error) {
	ids, err := p.EnumerateTypes(h)
	if err != nil {
		return nil, err
	}

	descs := make([]TypeDescriptor, 0, len(ids))
	for i, id := range ids {
		raw, ok, err := p.ResolveType(h, id)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		desc := typeDescriptor(raw)
		desc.Order = i
		descs = append(descs, desc)
	}
	return descs, nil
}

// NormalizeMembers materializes member descriptors for one type, in
// declaration order.
func NormalizeMembers(p introspect.Provider, h *introspect.ModuleHandle, id introspect.TypeIdentity, include introspect.IncludeFlags) ([]MemberDescriptor, error) {
	raws, err := p.EnumerateMembers(h, id, include)
	if err != nil {
		return nil, err
	}

	members := make([]MemberDescriptor, len(raws))
	for i := range raws {
		members[i] = NormalizeMember(&raws[i], id.Simple)
	}
	return members, nil
}

func typeDescriptor(raw *introspect.RawType) TypeDescriptor {
	desc := TypeDescriptor{
		Name:          raw.Identity.Simple,
		QualifiedName: raw.Identity.Qualified,
		Namespace:     raw.Identity.Namespace,
		Kind:          raw.Kind.String(),
		Accessibility: raw.Accessibility.String(),
		IsAbstract:    raw.Abstract,
		IsSealed:      raw.Sealed,
		IsStatic:      raw.Static,
		IsGeneric:     raw.Generic,
		IsNested:      raw.Nested,
		Module:        raw.Module,
		BaseType:      raw.BaseType,
		Interfaces:    append([]string(nil), raw.Interfaces...),
		Attributes:    normalizeAttributes(raw.Attributes, raw.AttributeErr),
	}
	for _, gp := range raw.GenericParams {
		desc.GenericParams = append(desc.GenericParams, GenericParam{
			Name:        gp.Name,
			Position:    gp.Position,
			Constraints: append([]string(nil), gp.Constraints...),
		})
	}
	for i := range raw.NestedTypes {
		nested := typeDescriptor(&raw.NestedTypes[i])
		nested.Order = i
		desc.NestedTypes = append(desc.NestedTypes, nested)
	}
	return desc
}

// NormalizeMember materializes one member descriptor. declaringSimple is the
// simple name of the declaring type, used to render constructor signatures.
func NormalizeMember(raw *introspect.RawMember, declaringSimple string) MemberDescriptor {
	desc := MemberDescriptor{
		Kind:          raw.Kind.String(),
		Name:          raw.Name,
		Type:          RenderTypeName(raw.Type),
		Accessibility: raw.Accessibility.String(),
		IsStatic:      raw.Static,
		IsVirtual:     raw.Virtual,
		IsAbstract:    raw.Abstract,
		IsSealed:      raw.Sealed,
		IsOverride:    raw.Overrides(),
		IsInherited:   raw.Inherited,
		Attributes:    normalizeAttributes(raw.Attributes, raw.AttributeErr),
		Order:         raw.DeclOrder,
		isPublic:      raw.Accessibility.Public(),
	}

	switch raw.Kind {
	case introspect.MemberMethod:
		desc.Signature = methodSignature(raw)
		detail := &MethodDetail{
			Parameters:  normalizeParameters(raw.Params),
			IsOperator:  raw.Operator,
			IsExtension: raw.Extension,
		}
		for _, gp := range raw.GenericParams {
			detail.GenericParams = append(detail.GenericParams, GenericParam{
				Name:        gp.Name,
				Position:    gp.Position,
				Constraints: append([]string(nil), gp.Constraints...),
			})
		}
		desc.Method = detail

	case introspect.MemberProperty:
		desc.Signature = propertySignature(raw)
		desc.Property = &PropertyDetail{
			CanRead:      raw.Readable,
			CanWrite:     raw.Writable,
			IndexParams:  normalizeParameters(raw.Params),
			GetterAccess: accessorAccess(raw.Readable, raw.GetterAccess),
			SetterAccess: accessorAccess(raw.Writable, raw.SetterAccess),
		}

	case introspect.MemberField:
		desc.Signature = fieldSignature(raw)
		desc.Field = &FieldDetail{
			IsConst:    raw.Const,
			IsReadonly: raw.Readonly,
			IsVolatile: raw.Volatile,
			Literal:    raw.Literal,
		}

	case introspect.MemberEvent:
		desc.Signature = eventSignature(raw)
		desc.Event = &EventDetail{
			HandlerType:  RenderTypeName(raw.Type),
			AddAccess:    raw.AddAccess.String(),
			RemoveAccess: raw.RemoveAccess.String(),
		}

	case introspect.MemberConstructor:
		desc.Signature = constructorSignature(raw, declaringSimple)
		desc.Constructor = &ConstructorDetail{
			Parameters:          normalizeParameters(raw.Params),
			IsStaticInitializer: raw.StaticInit,
		}
	}

	return desc
}

func normalizeParameters(raws []introspect.RawParameter) []ParameterDescriptor {
	params := make([]ParameterDescriptor, len(raws))
	for i, rp := range raws {
		params[i] = ParameterDescriptor{
			Name:       rp.Name,
			Type:       RenderTypeName(rp.Type),
			HasDefault: rp.HasDefault,
			Default:    rp.Default,
			Optional:   rp.Optional,
			Out:        rp.Out,
			Ref:        rp.Ref,
			In:         rp.In,
			Variadic:   rp.Variadic,
			Attributes: normalizeAttributes(rp.Attributes, nil),
		}
	}
	return params
}

// normalizeAttributes converts raw attributes, swallowing extraction
// failures to an empty list. A broken attribute blob on one member must
// never fail the whole call.
func normalizeAttributes(raws []introspect.RawAttribute, extractErr error) []Attribute {
	if extractErr != nil {
		return []Attribute{}
	}
	attrs := make([]Attribute, len(raws))
	for i, ra := range raws {
		attrs[i] = Attribute{Name: ra.Name, Args: append([]string(nil), ra.Args...)}
	}
	return attrs
}

func accessorAccess(present bool, a introspect.Accessibility) string {
	if !present {
		return ""
	}
	return a.String()
}
