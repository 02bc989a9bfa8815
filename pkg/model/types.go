package model

type Kind int

const (
	KindInvalid      Kind = iota
	KindPrimitive         // string, int, bool, Date, Guid, ...
	KindClass             // reference to a Class in the model
	KindEnum              // reference to an Enum in the model
	KindCollection        // many of Elem
	KindGenericParam      // T inside a generic definition
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindClass:
		return "class"
	case KindEnum:
		return "enum"
	case KindCollection:
		return "collection"
	case KindGenericParam:
		return "generic-param"
	default:
		return "invalid"
	}
}

// StringType is the host name of the textual string primitive.
const StringType = "string"

type TypeRef struct {
	Kind Kind
	Name string // primitive or generic parameter name

	Class *Class     // KindClass
	Args  []*TypeRef // KindClass: instantiation arguments, overrides Class.GenericArguments
	Enum  *Enum      // KindEnum
	Elem  *TypeRef   // KindCollection

	// Enumerable marks a non-collection host type that can still be iterated
	// (a string, a custom list type). It feeds the repeated-member check.
	Enumerable bool
}

func Primitive(name string) *TypeRef {
	return &TypeRef{Kind: KindPrimitive, Name: name}
}

// String is the string primitive. Strings are enumerable in most host type
// systems, which is what makes them the collection special case.
func String() *TypeRef {
	return &TypeRef{Kind: KindPrimitive, Name: StringType, Enumerable: true}
}

func Param(name string) *TypeRef {
	return &TypeRef{Kind: KindGenericParam, Name: name}
}

func ClassRef(c *Class, args ...*TypeRef) *TypeRef {
	return &TypeRef{Kind: KindClass, Class: c, Args: args}
}

func EnumRef(e *Enum) *TypeRef {
	return &TypeRef{Kind: KindEnum, Enum: e}
}

func CollectionOf(elem *TypeRef) *TypeRef {
	return &TypeRef{Kind: KindCollection, Elem: elem, Enumerable: true}
}

// HostName is the key type converters are registered under: the full name of
// a class or enum, the bare name of a primitive. Collections and generic
// parameters have none.
func (t *TypeRef) HostName() string {
	if t == nil {
		return ""
	}
	switch t.Kind {
	case KindPrimitive:
		return t.Name
	case KindClass:
		if t.Class != nil {
			return t.Class.FullName()
		}
	case KindEnum:
		if t.Enum != nil {
			return t.Enum.FullName()
		}
	}
	return ""
}

// IsString reports whether t is the textual string primitive.
func (t *TypeRef) IsString() bool {
	return t != nil && t.Kind == KindPrimitive && t.Name == StringType
}

// IsRepeated reports whether a member of type t holds many values. Strings
// are never repeated even though they are enumerable.
func (t *TypeRef) IsRepeated() bool {
	if t == nil || t.IsString() {
		return false
	}
	return t.Kind == KindCollection || t.Enumerable
}
