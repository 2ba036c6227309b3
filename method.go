package msplit

import (
	"strings"

	"github.com/pkg/errors"
)

// Method access flags.
const (
	AccPublic       = 0x0001
	AccPrivate      = 0x0002
	AccProtected    = 0x0004
	AccStatic       = 0x0008
	AccFinal        = 0x0010
	AccSynchronized = 0x0020
	AccBridge       = 0x0040
	AccVarargs      = 0x0080
	AccNative       = 0x0100
	AccAbstract     = 0x0400
	AccStrict       = 0x0800
	AccSynthetic    = 0x1000
)

var accessNames = []struct {
	flag int
	name string
}{
	{AccPublic, "public"},
	{AccPrivate, "private"},
	{AccProtected, "protected"},
	{AccStatic, "static"},
	{AccFinal, "final"},
	{AccSynchronized, "synchronized"},
	{AccBridge, "bridge"},
	{AccVarargs, "varargs"},
	{AccNative, "native"},
	{AccAbstract, "abstract"},
	{AccStrict, "strict"},
	{AccSynthetic, "synthetic"},
}

// LookupAccess returns the flag for a modifier keyword such as "static".
func LookupAccess(name string) (int, bool) {
	for _, a := range accessNames {
		if a.name == name {
			return a.flag, true
		}
	}
	return 0, false
}

// AccessString renders access flags as space separated keywords.
func AccessString(access int) string {
	var parts []string
	for _, a := range accessNames {
		if access&a.flag != 0 {
			parts = append(parts, a.name)
		}
	}
	return strings.Join(parts, " ")
}

// TryCatchBlock protects the instructions in [Start, End) with the handler
// at Handler. Type is the caught internal name, empty for finally blocks.
type TryCatchBlock struct {
	Start   *Label
	End     *Label
	Handler *Label
	Type    string
}

// Method is a method body as produced by a class reader: an ordered
// instruction list (labels, line numbers and frames included) plus its
// exception table.
type Method struct {
	Access         int
	Name           string
	Desc           string
	Instructions   []*Insn
	TryCatchBlocks []TryCatchBlock
}

// IsStatic reports whether the method has no receiver.
func (m *Method) IsStatic() bool { return m.Access&AccStatic != 0 }

// IsConstructor reports whether the method is an instance initializer.
func (m *Method) IsConstructor() bool { return m.Name == "<init>" }

// Type parses the method descriptor.
func (m *Method) Type() (Type, error) {
	t, err := ParseType(m.Desc)
	if err != nil {
		return Type{}, err
	}
	if t.Sort() != SortMethod {
		return Type{}, errors.Wrapf(ErrBadDescriptor, "%q is not a method descriptor", m.Desc)
	}
	return t, nil
}

// InitialLocals returns the local variable array at method entry: the
// receiver for instance methods, then the parameters. Longs and doubles
// take two slots, the second being Top.
func (m *Method) InitialLocals(owner string) ([]Value, error) {
	t, err := m.Type()
	if err != nil {
		return nil, err
	}
	var locals []Value
	if !m.IsStatic() {
		if m.IsConstructor() {
			locals = append(locals, UninitializedThis)
		} else {
			locals = append(locals, Object(owner))
		}
	}
	for _, arg := range t.ArgumentTypes() {
		v := ValueOf(arg)
		locals = append(locals, v)
		if v.IsWide() {
			locals = append(locals, Top)
		}
	}
	return locals, nil
}
