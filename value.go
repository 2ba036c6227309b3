package msplit

import "fmt"

// ValueKind is the verifier-level category of a stack or local slot.
type ValueKind uint8

const (
	// ValueTop is an unusable slot: an unset local, or the second half of a
	// long or double.
	ValueTop ValueKind = iota
	ValueInt
	ValueFloat
	ValueLong
	ValueDouble
	ValueNull
	// ValueUninitializedThis is the receiver of a constructor before the
	// super/this constructor call.
	ValueUninitializedThis
	// ValueUninitialized is the result of NEW before its constructor runs.
	// Site identifies the NEW instruction.
	ValueUninitialized
	// ValueObject is an initialized reference of internal name Type.
	ValueObject
)

// Value is one physical slot of the symbolic operand stack or local
// variable array. Values are comparable; two uninitialized values are equal
// only when they share a Site.
type Value struct {
	Kind ValueKind
	Type string
	Site *Label
}

var (
	Top               = Value{Kind: ValueTop}
	Int               = Value{Kind: ValueInt}
	Float             = Value{Kind: ValueFloat}
	Long              = Value{Kind: ValueLong}
	Double            = Value{Kind: ValueDouble}
	Null              = Value{Kind: ValueNull}
	UninitializedThis = Value{Kind: ValueUninitializedThis}
)

// Object returns an initialized reference value.
func Object(internalName string) Value {
	return Value{Kind: ValueObject, Type: internalName}
}

// Uninitialized returns the value pushed by the NEW instruction at site.
func Uninitialized(site *Label, internalName string) Value {
	return Value{Kind: ValueUninitialized, Type: internalName, Site: site}
}

// IsWide reports whether v occupies two slots (the second being Top).
func (v Value) IsWide() bool {
	return v.Kind == ValueLong || v.Kind == ValueDouble
}

// ValueOf returns the first slot of a value of type t. Booleans, chars,
// bytes and shorts are all ints on the operand stack.
func ValueOf(t Type) Value {
	switch t.Sort() {
	case SortBoolean, SortChar, SortByte, SortShort, SortInt:
		return Int
	case SortFloat:
		return Float
	case SortLong:
		return Long
	case SortDouble:
		return Double
	case SortArray, SortObject:
		return Object(t.InternalName())
	}
	return Top
}

func (v Value) String() string {
	switch v.Kind {
	case ValueTop:
		return "top"
	case ValueInt:
		return "int"
	case ValueFloat:
		return "float"
	case ValueLong:
		return "long"
	case ValueDouble:
		return "double"
	case ValueNull:
		return "null"
	case ValueUninitializedThis:
		return "uninitializedThis"
	case ValueUninitialized:
		name := "?"
		if v.Site != nil {
			name = v.Site.Name
		}
		return fmt.Sprintf("uninitialized(%s:%s)", name, v.Type)
	case ValueObject:
		return v.Type
	}
	return fmt.Sprintf("value(%d)", v.Kind)
}
