package introspect

import (
	"fmt"
	"go/ast"
	"go/types"
	"os"

	"golang.org/x/tools/go/packages"
)

// GoPackagesProvider reads type metadata from Go packages via
// golang.org/x/tools/go/packages. It loads export data only; module code is
// never built or executed.
//
// Go has no statics on types, no properties, events or constructors, so this
// provider only ever emits method and field members. Promoted members from
// embedded types surface as inherited.
type GoPackagesProvider struct {
	// Patterns are the load patterns relative to the opened directory.
	// Defaults to "./...".
	Patterns []string
}

// NewGoPackagesProvider creates a provider with default load patterns.
func NewGoPackagesProvider() *GoPackagesProvider {
	return &GoPackagesProvider{Patterns: []string{"./..."}}
}

// Open loads the Go packages rooted at path.
func (p *GoPackagesProvider) Open(path string) (*ModuleHandle, error) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return nil, ErrModuleNotFound
	}

	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedTypes | packages.NeedTypesInfo,
		Dir:  path,
	}

	patterns := p.Patterns
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("introspect: loading packages: %w", err)
	}

	var usable []*packages.Package
	for _, pkg := range pkgs {
		if pkg.Types != nil {
			usable = append(usable, pkg)
		}
	}
	if len(usable) == 0 {
		return nil, ErrModuleNotFound
	}

	return &ModuleHandle{
		Path:    path,
		Name:    usable[0].PkgPath,
		Payload: usable,
	}, nil
}

// EnumerateTypes lists all named types declared in the loaded packages.
// Scope names are pre-sorted by go/types, so the order is stable across
// calls against an unchanged module.
func (p *GoPackagesProvider) EnumerateTypes(h *ModuleHandle) ([]TypeIdentity, error) {
	pkgs, err := p.packages(h)
	if err != nil {
		return nil, err
	}

	var ids []TypeIdentity
	for _, pkg := range pkgs {
		scope := pkg.Types.Scope()
		for _, name := range scope.Names() {
			tn, ok := scope.Lookup(name).(*types.TypeName)
			if !ok || tn.IsAlias() {
				continue
			}
			ids = append(ids, TypeIdentity{
				Qualified: pkg.PkgPath + "." + name,
				Simple:    name,
				Namespace: pkg.PkgPath,
			})
		}
	}
	return ids, nil
}

// ResolveType returns the raw facts for the named type.
func (p *GoPackagesProvider) ResolveType(h *ModuleHandle, id TypeIdentity) (*RawType, bool, error) {
	pkgs, err := p.packages(h)
	if err != nil {
		return nil, false, err
	}

	named, pkg := p.lookup(pkgs, id)
	if named == nil {
		return nil, false, nil
	}

	obj := named.Obj()
	raw := &RawType{
		Identity: TypeIdentity{
			Qualified: pkg.PkgPath + "." + obj.Name(),
			Simple:    obj.Name(),
			Namespace: pkg.PkgPath,
		},
		Kind:    classify(named),
		Module:  h.Name,
		Generic: named.TypeParams().Len() > 0,
	}
	if !ast.IsExported(obj.Name()) {
		raw.Accessibility = AccessPrivate
	}

	switch under := named.Underlying().(type) {
	case *types.Interface:
		raw.Abstract = true
		for i := 0; i < under.NumEmbeddeds(); i++ {
			raw.Interfaces = append(raw.Interfaces, shortType(under.EmbeddedType(i)))
		}
	case *types.Struct:
		// no base type for structs
	default:
		raw.BaseType = shortType(named.Underlying())
	}

	for i := 0; i < named.TypeParams().Len(); i++ {
		tp := named.TypeParams().At(i)
		raw.GenericParams = append(raw.GenericParams, RawGenericParam{
			Name:        tp.Obj().Name(),
			Position:    i,
			Constraints: []string{shortType(tp.Constraint())},
		})
	}

	return raw, true, nil
}

// EnumerateMembers lists methods and struct fields for the named type.
// Promoted methods and fields from embedded types are flagged inherited.
func (p *GoPackagesProvider) EnumerateMembers(h *ModuleHandle, id TypeIdentity, include IncludeFlags) ([]RawMember, error) {
	pkgs, err := p.packages(h)
	if err != nil {
		return nil, err
	}

	named, pkg := p.lookup(pkgs, id)
	if named == nil {
		return nil, nil
	}
	qualified := pkg.PkgPath + "." + named.Obj().Name()

	declared := make(map[string]bool, named.NumMethods())
	for i := 0; i < named.NumMethods(); i++ {
		declared[named.Method(i).Name()] = true
	}

	var members []RawMember
	order := 0

	appendMethod := func(fn *types.Func, inherited bool) {
		m := RawMember{
			Kind:              MemberMethod,
			Name:              fn.Name(),
			Accessibility:     accessOf(fn.Name()),
			DeclaringType:     qualified,
			BaseDeclaringType: qualified,
			Inherited:         inherited,
			DeclOrder:         order,
		}
		sig := fn.Type().(*types.Signature)
		m.Type = resultRef(sig)
		m.Params = paramRefs(sig)
		for i := 0; i < sig.TypeParams().Len(); i++ {
			tp := sig.TypeParams().At(i)
			m.GenericParams = append(m.GenericParams, RawGenericParam{Name: tp.Obj().Name(), Position: i})
		}
		members = append(members, m)
		order++
	}

	// Full method set on the pointer type covers value and pointer receivers
	// plus promotions from embedded types.
	mset := types.NewMethodSet(types.NewPointer(named))
	for i := 0; i < mset.Len(); i++ {
		fn, ok := mset.At(i).Obj().(*types.Func)
		if !ok {
			continue
		}
		inherited := !declared[fn.Name()]
		if inherited && !include.Inherited {
			continue
		}
		if !include.NonPublic && !ast.IsExported(fn.Name()) {
			continue
		}
		if !include.Instance {
			continue // Go methods are always instance members
		}
		appendMethod(fn, inherited)
	}

	if st, ok := named.Underlying().(*types.Struct); ok {
		for i := 0; i < st.NumFields(); i++ {
			f := st.Field(i)
			if !include.NonPublic && !ast.IsExported(f.Name()) {
				continue
			}
			if !include.Instance {
				continue
			}
			members = append(members, RawMember{
				Kind:              MemberField,
				Name:              f.Name(),
				Type:              refFor(f.Type()),
				Accessibility:     accessOf(f.Name()),
				DeclaringType:     qualified,
				BaseDeclaringType: qualified,
				DeclOrder:         order,
			})
			order++
		}
	}

	return members, nil
}

// Close releases the loaded packages.
func (p *GoPackagesProvider) Close(h *ModuleHandle) error {
	if h == nil {
		return nil
	}
	h.Payload = nil
	h.closed = true
	return nil
}

func (p *GoPackagesProvider) packages(h *ModuleHandle) ([]*packages.Package, error) {
	if h == nil {
		return nil, ErrNilHandle
	}
	pkgs, ok := h.Payload.([]*packages.Package)
	if !ok || h.closed {
		return nil, ErrClosedHandle
	}
	return pkgs, nil
}

func (p *GoPackagesProvider) lookup(pkgs []*packages.Package, id TypeIdentity) (*types.Named, *packages.Package) {
	for _, pkg := range pkgs {
		name := id.Simple
		if name == "" {
			name = id.Qualified
		}
		obj := pkg.Types.Scope().Lookup(name)
		if obj == nil {
			continue
		}
		if id.Qualified != "" && pkg.PkgPath+"."+name != id.Qualified && id.Qualified != name {
			continue
		}
		if named, ok := obj.Type().(*types.Named); ok {
			return named, pkg
		}
	}
	return nil, nil
}

func classify(named *types.Named) TypeKind {
	switch under := named.Underlying().(type) {
	case *types.Interface:
		return KindInterface
	case *types.Struct:
		return KindStruct
	case *types.Signature:
		return KindDelegate
	case *types.Basic:
		if under.Info()&types.IsInteger != 0 {
			return KindEnum
		}
		return KindClass
	default:
		return KindClass
	}
}

func accessOf(name string) Accessibility {
	if ast.IsExported(name) {
		return AccessPublic
	}
	return AccessPrivate
}

// refFor maps a go/types type onto the renderable TypeRef shape.
func refFor(t types.Type) TypeRef {
	switch tt := t.(type) {
	case *types.Pointer:
		elem := refFor(tt.Elem())
		return TypeRef{Kind: KindPointer, Elem: &elem}
	case *types.Slice:
		elem := refFor(tt.Elem())
		return TypeRef{Kind: KindArray, Rank: 1, Elem: &elem}
	case *types.Array:
		elem := refFor(tt.Elem())
		return TypeRef{Kind: KindArray, Rank: 1, Elem: &elem}
	case *types.Signature:
		return TypeRef{Kind: KindDelegate, Name: shortType(tt)}
	case *types.Basic:
		return TypeRef{Kind: KindClass, Name: tt.Name()}
	case *types.TypeParam:
		return TypeRef{Kind: KindGenericParam, Name: tt.Obj().Name()}
	case *types.Named:
		ref := TypeRef{
			Kind:      classify(tt),
			Name:      tt.Obj().Name(),
			Qualified: qualifiedName(tt),
			Namespace: pkgPathOf(tt),
		}
		if args := tt.TypeArgs(); args != nil {
			for i := 0; i < args.Len(); i++ {
				ref.TypeArgs = append(ref.TypeArgs, refFor(args.At(i)))
			}
		}
		return ref
	default:
		return TypeRef{Kind: KindClass, Name: shortType(t)}
	}
}

func resultRef(sig *types.Signature) TypeRef {
	switch sig.Results().Len() {
	case 0:
		return TypeRef{Kind: KindClass, Name: "void"}
	case 1:
		return refFor(sig.Results().At(0).Type())
	default:
		return TypeRef{Kind: KindClass, Name: shortType(sig.Results())}
	}
}

func paramRefs(sig *types.Signature) []RawParameter {
	params := make([]RawParameter, 0, sig.Params().Len())
	for i := 0; i < sig.Params().Len(); i++ {
		pv := sig.Params().At(i)
		rp := RawParameter{Name: pv.Name(), Type: refFor(pv.Type())}
		if sig.Variadic() && i == sig.Params().Len()-1 {
			rp.Variadic = true
			// render the variadic slice as its element type
			if rp.Type.Kind == KindArray && rp.Type.Elem != nil {
				rp.Type = *rp.Type.Elem
			}
		}
		params = append(params, rp)
	}
	return params
}

func qualifiedName(named *types.Named) string {
	if pkg := named.Obj().Pkg(); pkg != nil {
		return pkg.Path() + "." + named.Obj().Name()
	}
	return named.Obj().Name()
}

func pkgPathOf(named *types.Named) string {
	if pkg := named.Obj().Pkg(); pkg != nil {
		return pkg.Path()
	}
	return ""
}

func shortType(t types.Type) string {
	return types.TypeString(t, func(pkg *types.Package) string {
		return pkg.Name()
	})
}

// Ensure GoPackagesProvider implements Provider
var _ Provider = (*GoPackagesProvider)(nil)
