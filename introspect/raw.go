package introspect

// TypeKind classifies a raw type.
type TypeKind int

const (
	KindClass TypeKind = iota
	KindInterface
	KindEnum
	KindStruct
	KindDelegate
	KindArray
	KindPointer
	KindByRef
	KindGenericParam
)

func (k TypeKind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindInterface:
		return "interface"
	case KindEnum:
		return "enum"
	case KindStruct:
		return "struct"
	case KindDelegate:
		return "delegate"
	case KindArray:
		return "array"
	case KindPointer:
		return "pointer"
	case KindByRef:
		return "byref"
	case KindGenericParam:
		return "generic-parameter"
	default:
		return "class"
	}
}

// Accessibility is a member or type visibility level.
type Accessibility int

const (
	AccessPublic Accessibility = iota
	AccessPrivate
	AccessProtected
	AccessInternal
	AccessProtectedInternal
	AccessPrivateProtected
)

func (a Accessibility) String() string {
	switch a {
	case AccessPublic:
		return "public"
	case AccessPrivate:
		return "private"
	case AccessProtected:
		return "protected"
	case AccessInternal:
		return "internal"
	case AccessProtectedInternal:
		return "protected internal"
	case AccessPrivateProtected:
		return "private protected"
	default:
		return "private"
	}
}

// Public reports whether the level is publicly visible.
func (a Accessibility) Public() bool {
	return a == AccessPublic
}

// TypeIdentity identifies one type within a module.
type TypeIdentity struct {
	// Qualified is the namespace-qualified name, using the provider's native
	// nested-type separator where nesting applies.
	Qualified string

	// Simple is the bare type name, arity suffix intact for open generics.
	Simple string

	// Namespace is the declaring namespace or package path. May be empty.
	Namespace string
}

// TypeRef is a recursive, renderable reference to a type. Refs carry just
// enough shape for friendly-name rendering: element types for arrays,
// pointers and byrefs, type arguments for constructed generics.
type TypeRef struct {
	Kind      TypeKind
	Name      string
	Qualified string
	Namespace string

	// Elem is the element type for array, pointer and byref refs.
	Elem *TypeRef

	// Rank is the array rank; zero means not an array, 1 a vector.
	Rank int

	// TypeArgs are the arguments of a constructed generic.
	TypeArgs []TypeRef
}

// RawAttribute is a declared attribute on a type, member or parameter.
type RawAttribute struct {
	Name string
	Args []string
}

// RawGenericParam is a declared generic parameter.
type RawGenericParam struct {
	Name        string
	Position    int
	Constraints []string
}

// RawType carries the full structural facts for one type, as read from
// module metadata. It is a snapshot: nothing in it refers back to the
// provider or the open handle.
type RawType struct {
	Identity      TypeIdentity
	Kind          TypeKind
	Accessibility Accessibility

	Abstract bool
	Sealed   bool
	Static   bool
	Generic  bool
	Nested   bool

	// Module is the name of the owning module.
	Module string

	// BaseType is the rendered base-type name. Empty when there is none.
	BaseType string

	// Interfaces are the names of directly implemented interfaces.
	Interfaces []string

	Attributes []RawAttribute

	// AttributeErr records a failed attribute extraction. Consumers recover
	// locally to an empty list; it never escalates to a call failure.
	AttributeErr error

	GenericParams []RawGenericParam

	// NestedTypes are the types declared inside this one. The tree is
	// acyclic and owned by the parent.
	NestedTypes []RawType
}

// MemberKind tags the variant of a RawMember.
type MemberKind int

const (
	MemberMethod MemberKind = iota
	MemberProperty
	MemberField
	MemberEvent
	MemberConstructor
)

func (k MemberKind) String() string {
	switch k {
	case MemberMethod:
		return "method"
	case MemberProperty:
		return "property"
	case MemberField:
		return "field"
	case MemberEvent:
		return "event"
	case MemberConstructor:
		return "constructor"
	default:
		return "method"
	}
}

// RawParameter is one parameter of a method, constructor or indexer.
type RawParameter struct {
	Name string
	Type TypeRef

	HasDefault bool
	Default    string

	Optional bool
	Out      bool
	Ref      bool
	In       bool
	Variadic bool

	Attributes []RawAttribute
}

// RawMember carries the structural facts for one member. The Kind tag
// selects which of the kind-specific fields are meaningful.
type RawMember struct {
	Kind MemberKind
	Name string

	// Type is the member's principal type: return type for methods,
	// property type, field type, or handler type for events.
	Type TypeRef

	Accessibility Accessibility

	Static   bool
	Virtual  bool
	Abstract bool
	Sealed   bool

	// DeclaringType and BaseDeclaringType name where the member and its
	// base definition live. A method overrides iff its base definition
	// differs from itself.
	DeclaringType     string
	BaseDeclaringType string

	// Inherited marks members surfaced from a base type.
	Inherited bool

	// DeclOrder is the member's position in declaration order, used as the
	// stable sort tiebreak.
	DeclOrder int

	Attributes   []RawAttribute
	AttributeErr error

	// Method, constructor and indexer parameters.
	Params []RawParameter

	// Method-only.
	GenericParams []RawGenericParam
	Operator      bool
	Extension     bool

	// Property-only.
	Readable     bool
	Writable     bool
	Indexer      bool
	GetterAccess Accessibility
	SetterAccess Accessibility

	// Field-only.
	Const    bool
	Readonly bool
	Volatile bool
	Literal  string

	// Event-only.
	AddAccess    Accessibility
	RemoveAccess Accessibility

	// Constructor-only.
	StaticInit bool
}

// Overrides reports whether the member's base definition differs from its
// own declaration.
func (m *RawMember) Overrides() bool {
	return m.BaseDeclaringType != "" && m.BaseDeclaringType != m.DeclaringType
}
