package normalize

// Attribute is a declared attribute on a type, member or parameter.
type Attribute struct {
	Name string   `json:"name"`
	Args []string `json:"args,omitempty"`
}

// GenericParam describes one declared generic parameter.
type GenericParam struct {
	Name        string   `json:"name"`
	Position    int      `json:"position"`
	Constraints []string `json:"constraints,omitempty"`
}

// TypeDescriptor is the normalized, renderable record for one type.
// Nested types form an acyclic tree owned by the parent descriptor.
type TypeDescriptor struct {
	Name          string           `json:"name"`
	QualifiedName string           `json:"qualifiedName"`
	Namespace     string           `json:"namespace,omitempty"`
	Kind          string           `json:"kind"`
	Accessibility string           `json:"accessibility"`
	IsAbstract    bool             `json:"isAbstract,omitempty"`
	IsSealed      bool             `json:"isSealed,omitempty"`
	IsStatic      bool             `json:"isStatic,omitempty"`
	IsGeneric     bool             `json:"isGeneric,omitempty"`
	IsNested      bool             `json:"isNested,omitempty"`
	Module        string           `json:"module,omitempty"`
	BaseType      string           `json:"baseType,omitempty"`
	Interfaces    []string         `json:"interfaces,omitempty"`
	Attributes    []Attribute      `json:"attributes"`
	GenericParams []GenericParam   `json:"genericParameters,omitempty"`
	NestedTypes   []TypeDescriptor `json:"nestedTypes,omitempty"`

	// Order is the type's position in enumeration order and is the stable
	// sort tiebreak. It is not part of the rendered payload.
	Order int `json:"-"`
}

// ParameterDescriptor is the normalized record for one parameter.
type ParameterDescriptor struct {
	Name       string      `json:"name"`
	Type       string      `json:"type"`
	HasDefault bool        `json:"hasDefault,omitempty"`
	Default    string      `json:"default,omitempty"`
	Optional   bool        `json:"optional,omitempty"`
	Out        bool        `json:"out,omitempty"`
	Ref        bool        `json:"ref,omitempty"`
	In         bool        `json:"in,omitempty"`
	Variadic   bool        `json:"variadic,omitempty"`
	Attributes []Attribute `json:"attributes,omitempty"`
}

// MethodDetail is the method-specific payload of a MemberDescriptor.
type MethodDetail struct {
	Parameters    []ParameterDescriptor `json:"parameters"`
	GenericParams []GenericParam        `json:"genericParameters,omitempty"`
	IsOperator    bool                  `json:"isOperator,omitempty"`
	IsExtension   bool                  `json:"isExtension,omitempty"`
}

// PropertyDetail is the property-specific payload of a MemberDescriptor.
type PropertyDetail struct {
	CanRead       bool                  `json:"canRead"`
	CanWrite      bool                  `json:"canWrite"`
	IndexParams   []ParameterDescriptor `json:"indexParameters,omitempty"`
	GetterAccess  string                `json:"getterAccessibility,omitempty"`
	SetterAccess  string                `json:"setterAccessibility,omitempty"`
}

// FieldDetail is the field-specific payload of a MemberDescriptor.
type FieldDetail struct {
	IsConst    bool   `json:"isConst,omitempty"`
	IsReadonly bool   `json:"isReadonly,omitempty"`
	IsVolatile bool   `json:"isVolatile,omitempty"`
	Literal    string `json:"literal,omitempty"`
}

// EventDetail is the event-specific payload of a MemberDescriptor.
type EventDetail struct {
	HandlerType  string `json:"handlerType"`
	AddAccess    string `json:"addAccessibility,omitempty"`
	RemoveAccess string `json:"removeAccessibility,omitempty"`
}

// ConstructorDetail is the constructor-specific payload of a MemberDescriptor.
type ConstructorDetail struct {
	Parameters          []ParameterDescriptor `json:"parameters"`
	IsStaticInitializer bool                  `json:"isStaticInitializer,omitempty"`
}

// MemberDescriptor is the normalized record for one member. Kind selects
// which detail payload is set; exactly one of Method, Property, Field,
// Event, Constructor is non-nil.
type MemberDescriptor struct {
	Kind          string      `json:"memberKind"`
	Name          string      `json:"name"`
	Type          string      `json:"type"`
	Accessibility string      `json:"accessibility"`
	IsStatic      bool        `json:"isStatic,omitempty"`
	IsVirtual     bool        `json:"isVirtual,omitempty"`
	IsAbstract    bool        `json:"isAbstract,omitempty"`
	IsSealed      bool        `json:"isSealed,omitempty"`
	IsOverride    bool        `json:"isOverride,omitempty"`
	IsInherited   bool        `json:"isInherited,omitempty"`
	Signature     string      `json:"signature"`
	Attributes    []Attribute `json:"attributes"`

	Method      *MethodDetail      `json:"method,omitempty"`
	Property    *PropertyDetail    `json:"property,omitempty"`
	Field       *FieldDetail       `json:"field,omitempty"`
	Event       *EventDetail       `json:"event,omitempty"`
	Constructor *ConstructorDetail `json:"constructor,omitempty"`

	// Order is the member's declaration order, the stable sort tiebreak.
	Order int `json:"-"`

	isPublic bool
}

// Pipeline accessors. These satisfy the query package's Entry interface so
// descriptors can flow through the filter/sort/page pipeline.

func (d TypeDescriptor) EntryName() string          { return d.Name }
func (d TypeDescriptor) EntryKind() string          { return d.Kind }
func (d TypeDescriptor) EntryAccessibility() string { return d.Accessibility }
func (d TypeDescriptor) EntryPublic() bool          { return d.Accessibility == "public" }
func (d TypeDescriptor) EntryStatic() bool          { return d.IsStatic }
func (d TypeDescriptor) EntryInherited() bool       { return false }
func (d TypeDescriptor) EntryOrder() int            { return d.Order }

func (d TypeDescriptor) EntryAttributes() []string {
	names := make([]string, len(d.Attributes))
	for i, a := range d.Attributes {
		names[i] = a.Name
	}
	return names
}

func (d MemberDescriptor) EntryName() string          { return d.Name }
func (d MemberDescriptor) EntryKind() string          { return d.Kind }
func (d MemberDescriptor) EntryAccessibility() string { return d.Accessibility }
func (d MemberDescriptor) EntryPublic() bool          { return d.isPublic }
func (d MemberDescriptor) EntryStatic() bool          { return d.IsStatic }
func (d MemberDescriptor) EntryInherited() bool       { return d.IsInherited }
func (d MemberDescriptor) EntryOrder() int            { return d.Order }

func (d MemberDescriptor) EntryAttributes() []string {
	names := make([]string, len(d.Attributes))
	for i, a := range d.Attributes {
		names[i] = a.Name
	}
	return names
}
