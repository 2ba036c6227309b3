package msplit

import (
	"strings"

	"github.com/pkg/errors"
)

// Sort is the category of a JVM type.
type Sort uint8

const (
	SortVoid Sort = iota
	SortBoolean
	SortChar
	SortByte
	SortShort
	SortInt
	SortFloat
	SortLong
	SortDouble
	SortArray
	SortObject
	SortMethod
)

// Type is a JVM field or method type identified by its descriptor, e.g.
// "I", "[Ljava/lang/String;" or "(IJ)V".
type Type struct {
	desc string
}

var (
	VoidType    = Type{"V"}
	BooleanType = Type{"Z"}
	CharType    = Type{"C"}
	ByteType    = Type{"B"}
	ShortType   = Type{"S"}
	IntType     = Type{"I"}
	FloatType   = Type{"F"}
	LongType    = Type{"J"}
	DoubleType  = Type{"D"}
)

// ErrBadDescriptor is returned for malformed type descriptors.
var ErrBadDescriptor = errors.New("malformed type descriptor")

// ParseType validates desc as a field or method descriptor.
func ParseType(desc string) (Type, error) {
	if strings.HasPrefix(desc, "(") {
		i := 1
		for i < len(desc) && desc[i] != ')' {
			end, ok := scanField(desc, i)
			if !ok {
				return Type{}, errors.Wrapf(ErrBadDescriptor, "%q: bad argument at offset %d", desc, i)
			}
			i = end
		}
		if i >= len(desc) {
			return Type{}, errors.Wrapf(ErrBadDescriptor, "%q: missing ')'", desc)
		}
		i++
		if desc[i:] != "V" {
			end, ok := scanField(desc, i)
			if !ok || end != len(desc) {
				return Type{}, errors.Wrapf(ErrBadDescriptor, "%q: bad return type", desc)
			}
		}
		return Type{desc}, nil
	}
	if desc == "V" {
		return VoidType, nil
	}
	end, ok := scanField(desc, 0)
	if !ok || end != len(desc) {
		return Type{}, errors.Wrapf(ErrBadDescriptor, "%q", desc)
	}
	return Type{desc}, nil
}

// MustType is like ParseType but panics on malformed input. Intended for
// constants and tests.
func MustType(desc string) Type {
	t, err := ParseType(desc)
	if err != nil {
		panic(err)
	}
	return t
}

// ObjectType returns the type for an internal name. Internal names of
// array classes are already descriptors ("[I") and are kept as-is.
func ObjectType(internalName string) Type {
	if strings.HasPrefix(internalName, "[") {
		return Type{internalName}
	}
	return Type{"L" + internalName + ";"}
}

// scanField returns the offset just past the field descriptor starting at i.
func scanField(desc string, i int) (int, bool) {
	for i < len(desc) && desc[i] == '[' {
		i++
	}
	if i >= len(desc) {
		return i, false
	}
	switch desc[i] {
	case 'Z', 'C', 'B', 'S', 'I', 'F', 'J', 'D':
		return i + 1, true
	case 'L':
		semi := strings.IndexByte(desc[i:], ';')
		if semi <= 1 {
			return i, false
		}
		return i + semi + 1, true
	}
	return i, false
}

// Descriptor returns the type descriptor.
func (t Type) Descriptor() string { return t.desc }

// Sort returns the category of t.
func (t Type) Sort() Sort {
	if t.desc == "" {
		return SortVoid
	}
	switch t.desc[0] {
	case 'Z':
		return SortBoolean
	case 'C':
		return SortChar
	case 'B':
		return SortByte
	case 'S':
		return SortShort
	case 'I':
		return SortInt
	case 'F':
		return SortFloat
	case 'J':
		return SortLong
	case 'D':
		return SortDouble
	case '[':
		return SortArray
	case 'L':
		return SortObject
	case '(':
		return SortMethod
	}
	return SortVoid
}

// InternalName returns the internal name of an object or array type.
func (t Type) InternalName() string {
	switch t.Sort() {
	case SortObject:
		return t.desc[1 : len(t.desc)-1]
	case SortArray:
		return t.desc
	}
	return ""
}

// Size is the number of stack or local slots a value of type t occupies.
func (t Type) Size() int {
	switch t.Sort() {
	case SortVoid, SortMethod:
		return 0
	case SortLong, SortDouble:
		return 2
	}
	return 1
}

// ElementType strips one array dimension.
func (t Type) ElementType() Type {
	if t.Sort() != SortArray {
		return Type{}
	}
	return Type{t.desc[1:]}
}

// ArgumentTypes returns the parameter types of a method type.
func (t Type) ArgumentTypes() []Type {
	if t.Sort() != SortMethod {
		return nil
	}
	var args []Type
	for i := 1; i < len(t.desc) && t.desc[i] != ')'; {
		end, ok := scanField(t.desc, i)
		if !ok {
			return args
		}
		args = append(args, Type{t.desc[i:end]})
		i = end
	}
	return args
}

// ArgumentsSize is the number of stack slots the method's arguments take,
// not counting the receiver.
func (t Type) ArgumentsSize() int {
	n := 0
	for _, a := range t.ArgumentTypes() {
		n += a.Size()
	}
	return n
}

// ReturnType returns the return type of a method type.
func (t Type) ReturnType() Type {
	if t.Sort() != SortMethod {
		return Type{}
	}
	return Type{t.desc[strings.IndexByte(t.desc, ')')+1:]}
}

// String renders t the way Java source spells it: "int", "java.lang.String[]".
func (t Type) String() string {
	switch t.Sort() {
	case SortVoid:
		return "void"
	case SortBoolean:
		return "boolean"
	case SortChar:
		return "char"
	case SortByte:
		return "byte"
	case SortShort:
		return "short"
	case SortInt:
		return "int"
	case SortFloat:
		return "float"
	case SortLong:
		return "long"
	case SortDouble:
		return "double"
	case SortArray:
		return t.ElementType().String() + "[]"
	case SortObject:
		return strings.ReplaceAll(t.InternalName(), "/", ".")
	case SortMethod:
		args := t.ArgumentTypes()
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = a.String()
		}
		return "(" + strings.Join(parts, ", ") + ")" + t.ReturnType().String()
	}
	return t.desc
}
