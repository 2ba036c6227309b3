package msplit

import (
	"fmt"
	"strconv"
	"strings"
)

// Label marks a position in an instruction list. Labels are compared by
// identity; the Name is only used for printing.
type Label struct {
	Name string
}

func (l *Label) String() string {
	if l == nil {
		return "<nil>"
	}
	return l.Name
}

// InsnKind tags the variant held by an Insn.
type InsnKind uint8

const (
	InsnPlain InsnKind = iota // no operand
	InsnInt                   // BIPUSH, SIPUSH, NEWARRAY
	InsnVar                   // xLOAD, xSTORE, RET
	InsnIinc
	InsnType // NEW, ANEWARRAY, CHECKCAST, INSTANCEOF
	InsnField
	InsnMethod
	InsnInvokeDynamic
	InsnJump
	InsnLdc
	InsnTableSwitch
	InsnLookupSwitch
	InsnMultiANewArray
	InsnLabel
	InsnLineNumber
	InsnFrame
)

// Access describes how a local variable instruction touches its slot.
type Access uint8

const (
	AccessRead Access = 1 << iota
	AccessWrite

	AccessReadWrite = AccessRead | AccessWrite
)

// NEWARRAY operand values.
const (
	TBoolean = 4
	TChar    = 5
	TFloat   = 6
	TDouble  = 7
	TByte    = 8
	TShort   = 9
	TInt     = 10
	TLong    = 11
)

// Insn is one element of a method's instruction list. Only the fields that
// belong to Kind are meaningful.
type Insn struct {
	Kind InsnKind
	Op   Opcode

	// Operand is the immediate of InsnInt, the slot of InsnVar/InsnIinc,
	// the dimension count of InsnMultiANewArray and the line of
	// InsnLineNumber.
	Operand int
	// Incr is the IINC increment.
	Incr int

	// Owner, Name and Desc describe field and method references. InsnType
	// and InsnMultiANewArray keep their type in Desc. Interface is set for
	// interface method references.
	Owner     string
	Name      string
	Desc      string
	Interface bool

	// Const is the LDC constant: int32, float32, int64, float64, string,
	// Type, Handle or ConstantDynamic.
	Const any

	// Label is the jump target of InsnJump, the label defined by InsnLabel
	// and the start label of InsnLineNumber.
	Label *Label

	// Switch operands. Min is the lowest TABLESWITCH key; Keys are the
	// LOOKUPSWITCH keys, parallel to Targets.
	Default *Label
	Targets []*Label
	Min     int
	Keys    []int32

	// Frame contents. Longs and doubles appear once, without their Top.
	Locals []Value
	Stack  []Value
}

// Handle is a method handle constant.
type Handle struct {
	Tag   int
	Owner string
	Name  string
	Desc  string
}

// ConstantDynamic is a dynamically computed constant.
type ConstantDynamic struct {
	Name string
	Desc string
}

// NewInsn returns an instruction without operands.
func NewInsn(op Opcode) *Insn { return &Insn{Kind: InsnPlain, Op: op} }

// NewIntInsn returns BIPUSH, SIPUSH or NEWARRAY.
func NewIntInsn(op Opcode, operand int) *Insn {
	return &Insn{Kind: InsnInt, Op: op, Operand: operand}
}

// NewVarInsn returns a load, store or RET of slot.
func NewVarInsn(op Opcode, slot int) *Insn {
	return &Insn{Kind: InsnVar, Op: op, Operand: slot}
}

// NewIincInsn returns IINC slot incr.
func NewIincInsn(slot, incr int) *Insn {
	return &Insn{Kind: InsnIinc, Op: OpIinc, Operand: slot, Incr: incr}
}

// NewTypeInsn returns NEW, ANEWARRAY, CHECKCAST or INSTANCEOF.
func NewTypeInsn(op Opcode, internalName string) *Insn {
	return &Insn{Kind: InsnType, Op: op, Desc: internalName}
}

// NewFieldInsn returns a GETFIELD/PUTFIELD/GETSTATIC/PUTSTATIC.
func NewFieldInsn(op Opcode, owner, name, desc string) *Insn {
	return &Insn{Kind: InsnField, Op: op, Owner: owner, Name: name, Desc: desc}
}

// NewMethodInsn returns an INVOKEVIRTUAL/SPECIAL/STATIC/INTERFACE.
func NewMethodInsn(op Opcode, owner, name, desc string, itf bool) *Insn {
	return &Insn{Kind: InsnMethod, Op: op, Owner: owner, Name: name, Desc: desc, Interface: itf}
}

// NewInvokeDynamicInsn returns an INVOKEDYNAMIC call site.
func NewInvokeDynamicInsn(name, desc string) *Insn {
	return &Insn{Kind: InsnInvokeDynamic, Op: OpInvokedynamic, Name: name, Desc: desc}
}

// NewJumpInsn returns a conditional or unconditional branch to target.
func NewJumpInsn(op Opcode, target *Label) *Insn {
	return &Insn{Kind: InsnJump, Op: op, Label: target}
}

// NewLdcInsn returns LDC cst.
func NewLdcInsn(cst any) *Insn {
	return &Insn{Kind: InsnLdc, Op: OpLdc, Const: cst}
}

// NewTableSwitchInsn returns TABLESWITCH over keys low..low+len(targets)-1.
func NewTableSwitchInsn(low int, dflt *Label, targets ...*Label) *Insn {
	return &Insn{Kind: InsnTableSwitch, Op: OpTableswitch, Min: low, Default: dflt, Targets: targets}
}

// NewLookupSwitchInsn returns LOOKUPSWITCH; keys and targets are parallel.
func NewLookupSwitchInsn(dflt *Label, keys []int32, targets []*Label) *Insn {
	return &Insn{Kind: InsnLookupSwitch, Op: OpLookupswitch, Default: dflt, Keys: keys, Targets: targets}
}

// NewMultiANewArrayInsn returns MULTIANEWARRAY desc dims.
func NewMultiANewArrayInsn(desc string, dims int) *Insn {
	return &Insn{Kind: InsnMultiANewArray, Op: OpMultianewarray, Desc: desc, Operand: dims}
}

// NewLabelInsn returns the pseudo-instruction defining l.
func NewLabelInsn(l *Label) *Insn {
	return &Insn{Kind: InsnLabel, Op: OpNone, Label: l}
}

// NewLineNumberInsn returns a debug line marker.
func NewLineNumberInsn(line int, start *Label) *Insn {
	return &Insn{Kind: InsnLineNumber, Op: OpNone, Operand: line, Label: start}
}

// NewFrameInsn returns a stack map frame. Longs and doubles are listed once.
func NewFrameInsn(locals, stack []Value) *Insn {
	return &Insn{Kind: InsnFrame, Op: OpNone, Locals: locals, Stack: stack}
}

// IsBranch reports whether the instruction has resolvable targets.
func (i *Insn) IsBranch() bool {
	switch i.Kind {
	case InsnJump, InsnTableSwitch, InsnLookupSwitch:
		return true
	}
	return false
}

// BranchTargets returns every label control may transfer to: the jump
// target, or the switch default followed by the cases in order.
func (i *Insn) BranchTargets() []*Label {
	switch i.Kind {
	case InsnJump:
		return []*Label{i.Label}
	case InsnTableSwitch, InsnLookupSwitch:
		out := make([]*Label, 0, len(i.Targets)+1)
		out = append(out, i.Default)
		return append(out, i.Targets...)
	}
	return nil
}

// LocalAccess reports the slot touched by a local variable instruction.
func (i *Insn) LocalAccess() (slot int, access Access, ok bool) {
	switch i.Kind {
	case InsnIinc:
		return i.Operand, AccessReadWrite, true
	case InsnVar:
		switch i.Op {
		case OpIload, OpLload, OpFload, OpDload, OpAload, OpRet:
			return i.Operand, AccessRead, true
		case OpIstore, OpLstore, OpFstore, OpDstore, OpAstore:
			return i.Operand, AccessWrite, true
		}
	}
	return 0, 0, false
}

// IsPseudo reports whether the instruction is a label, line number or frame.
func (i *Insn) IsPseudo() bool {
	return i.Kind == InsnLabel || i.Kind == InsnLineNumber || i.Kind == InsnFrame
}

func (i *Insn) String() string {
	switch i.Kind {
	case InsnLabel:
		return i.Label.String() + ":"
	case InsnLineNumber:
		return fmt.Sprintf("LINE %d %s", i.Operand, i.Label)
	case InsnFrame:
		return fmt.Sprintf("FRAME %s %s", valueList(i.Locals), valueList(i.Stack))
	case InsnPlain:
		return i.Op.String()
	case InsnInt, InsnVar:
		return fmt.Sprintf("%s %d", i.Op, i.Operand)
	case InsnIinc:
		return fmt.Sprintf("IINC %d %d", i.Operand, i.Incr)
	case InsnType:
		return fmt.Sprintf("%s %s", i.Op, i.Desc)
	case InsnField:
		return fmt.Sprintf("%s %s %s %s", i.Op, i.Owner, i.Name, i.Desc)
	case InsnMethod:
		s := fmt.Sprintf("%s %s %s %s", i.Op, i.Owner, i.Name, i.Desc)
		if i.Interface {
			s += " itf"
		}
		return s
	case InsnInvokeDynamic:
		return fmt.Sprintf("INVOKEDYNAMIC %s %s", i.Name, i.Desc)
	case InsnJump:
		return fmt.Sprintf("%s %s", i.Op, i.Label)
	case InsnLdc:
		return "LDC " + ConstString(i.Const)
	case InsnTableSwitch:
		parts := []string{"TABLESWITCH", strconv.Itoa(i.Min)}
		for _, t := range i.Targets {
			parts = append(parts, t.String())
		}
		return strings.Join(append(parts, "default", i.Default.String()), " ")
	case InsnLookupSwitch:
		parts := []string{"LOOKUPSWITCH"}
		for n, t := range i.Targets {
			parts = append(parts, fmt.Sprintf("%d:%s", i.Keys[n], t))
		}
		return strings.Join(append(parts, "default", i.Default.String()), " ")
	case InsnMultiANewArray:
		return fmt.Sprintf("MULTIANEWARRAY %s %d", i.Desc, i.Operand)
	}
	return fmt.Sprintf("insn(kind=%d op=%s)", i.Kind, i.Op)
}

// ConstString renders an LDC constant in the text assembly syntax.
func ConstString(c any) string {
	switch v := c.(type) {
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10) + "L"
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32) + "F"
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64) + "D"
	case string:
		return strconv.Quote(v)
	case Type:
		return v.Descriptor()
	case Handle:
		return fmt.Sprintf("handle(%d %s %s %s)", v.Tag, v.Owner, v.Name, v.Desc)
	case ConstantDynamic:
		return fmt.Sprintf("condy(%s %s)", v.Name, v.Desc)
	}
	return fmt.Sprint(c)
}

func valueList(vs []Value) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
