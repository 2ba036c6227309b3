// Package asmfmt reads and writes method bodies in a line oriented text
// assembly:
//
//	TRYCATCH L0 L1 L2 java/io/IOException
//	L0:
//	LINE 12 L0
//	  ALOAD 0
//	  INVOKEVIRTUAL java/io/Reader read ()I
//	  IFLT L1
//	L1:
//	FRAME [com/example/Foo] []
//	  RETURN
//	L2:
//	FRAME [com/example/Foo] [java/lang/Throwable]
//	  ATHROW
//
// Every line is an instruction, a label definition or a directive. Text
// after "//" outside a string literal is a comment.
package asmfmt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/speakeasy-api/openapi/sequencedmap"

	"github.com/speakeasy-api/msplit"
)

// SyntaxError reports a line that could not be parsed.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Listing is a parsed method body.
type Listing struct {
	Instructions   []*msplit.Insn
	TryCatchBlocks []msplit.TryCatchBlock
	// Labels holds every label by name, in order of first appearance.
	Labels *sequencedmap.Map[string, *msplit.Label]
}

// Method wraps the listing into a method with the given signature.
func (l *Listing) Method(access int, name, desc string) *msplit.Method {
	return &msplit.Method{
		Access:         access,
		Name:           name,
		Desc:           desc,
		Instructions:   l.Instructions,
		TryCatchBlocks: l.TryCatchBlocks,
	}
}

// Label returns the label called name, or nil.
func (l *Listing) Label(name string) *msplit.Label {
	lbl, _ := l.Labels.Get(name)
	return lbl
}

// IndexOf returns the instruction index defining the label called name,
// or -1.
func (l *Listing) IndexOf(name string) int {
	lbl := l.Label(name)
	for i, insn := range l.Instructions {
		if insn.Kind == msplit.InsnLabel && insn.Label == lbl {
			return i
		}
	}
	return -1
}

type parser struct {
	listing *Listing
	defined map[string]int
	line    int
}

// Parse reads a listing. Labels may be referenced before their definition
// but every referenced label must be defined exactly once.
func Parse(src string) (*Listing, error) {
	p := &parser{
		listing: &Listing{Labels: sequencedmap.New[string, *msplit.Label]()},
		defined: make(map[string]int),
	}
	for n, raw := range strings.Split(src, "\n") {
		p.line = n + 1
		text := strings.TrimSpace(stripComment(raw))
		if text == "" {
			continue
		}
		if err := p.parseLine(text); err != nil {
			return nil, err
		}
	}
	for name := range p.listing.Labels.All() {
		if _, ok := p.defined[name]; !ok {
			return nil, errors.WithStack(&SyntaxError{Line: p.line, Msg: fmt.Sprintf("label %s is never defined", name)})
		}
	}
	return p.listing, nil
}

// MustParse is like Parse but panics on error. It is meant for fixtures.
func MustParse(src string) *Listing {
	l, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return l
}

func (p *parser) errorf(format string, args ...any) error {
	return errors.WithStack(&SyntaxError{Line: p.line, Msg: fmt.Sprintf(format, args...)})
}

func (p *parser) label(name string) *msplit.Label {
	if l, ok := p.listing.Labels.Get(name); ok {
		return l
	}
	l := &msplit.Label{Name: name}
	p.listing.Labels.Set(name, l)
	return l
}

func (p *parser) emit(insn *msplit.Insn) {
	p.listing.Instructions = append(p.listing.Instructions, insn)
}

func (p *parser) parseLine(text string) error {
	mnemonic, rest, _ := strings.Cut(text, " ")
	rest = strings.TrimSpace(rest)

	if rest == "" && strings.HasSuffix(mnemonic, ":") {
		name := strings.TrimSuffix(mnemonic, ":")
		if name == "" {
			return p.errorf("empty label name")
		}
		if prev, ok := p.defined[name]; ok {
			return p.errorf("label %s already defined on line %d", name, prev)
		}
		p.defined[name] = p.line
		p.emit(msplit.NewLabelInsn(p.label(name)))
		return nil
	}

	switch mnemonic {
	case "LINE":
		f := strings.Fields(rest)
		if len(f) != 2 {
			return p.errorf("LINE wants a line number and a label")
		}
		n, err := strconv.Atoi(f[0])
		if err != nil {
			return p.errorf("bad line number %q", f[0])
		}
		p.emit(msplit.NewLineNumberInsn(n, p.label(f[1])))
		return nil
	case "FRAME":
		return p.parseFrame(rest)
	case "TRYCATCH":
		f := strings.Fields(rest)
		if len(f) != 3 && len(f) != 4 {
			return p.errorf("TRYCATCH wants start, end and handler labels and an optional type")
		}
		tcb := msplit.TryCatchBlock{Start: p.label(f[0]), End: p.label(f[1]), Handler: p.label(f[2])}
		if len(f) == 4 {
			tcb.Type = f[3]
		}
		p.listing.TryCatchBlocks = append(p.listing.TryCatchBlocks, tcb)
		return nil
	}

	op, ok := msplit.LookupOpcode(mnemonic)
	if !ok {
		return p.errorf("unknown instruction %q", mnemonic)
	}
	insn, err := p.parseInsn(op, rest)
	if err != nil {
		return err
	}
	p.emit(insn)
	return nil
}

func (p *parser) parseInsn(op msplit.Opcode, rest string) (*msplit.Insn, error) {
	f := strings.Fields(rest)
	want := func(n int) error {
		if len(f) != n {
			return p.errorf("%s wants %d operands, got %d", op, n, len(f))
		}
		return nil
	}
	atoi := func(s string) (int, error) {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, p.errorf("%s: bad integer %q", op, s)
		}
		return n, nil
	}

	switch kindOf(op) {
	case msplit.InsnPlain:
		if err := want(0); err != nil {
			return nil, err
		}
		return msplit.NewInsn(op), nil
	case msplit.InsnInt:
		if err := want(1); err != nil {
			return nil, err
		}
		if op == msplit.OpNewarray {
			if t, ok := arrayTypeCodes[f[0]]; ok {
				return msplit.NewIntInsn(op, t), nil
			}
		}
		n, err := atoi(f[0])
		if err != nil {
			return nil, err
		}
		return msplit.NewIntInsn(op, n), nil
	case msplit.InsnVar:
		if err := want(1); err != nil {
			return nil, err
		}
		n, err := atoi(f[0])
		if err != nil {
			return nil, err
		}
		return msplit.NewVarInsn(op, n), nil
	case msplit.InsnIinc:
		if err := want(2); err != nil {
			return nil, err
		}
		slot, err := atoi(f[0])
		if err != nil {
			return nil, err
		}
		incr, err := atoi(f[1])
		if err != nil {
			return nil, err
		}
		return msplit.NewIincInsn(slot, incr), nil
	case msplit.InsnType:
		if err := want(1); err != nil {
			return nil, err
		}
		return msplit.NewTypeInsn(op, f[0]), nil
	case msplit.InsnField:
		if err := want(3); err != nil {
			return nil, err
		}
		return msplit.NewFieldInsn(op, f[0], f[1], f[2]), nil
	case msplit.InsnMethod:
		itf := len(f) == 4 && f[3] == "itf"
		if !itf {
			if err := want(3); err != nil {
				return nil, err
			}
		}
		return msplit.NewMethodInsn(op, f[0], f[1], f[2], itf || op == msplit.OpInvokeinterface), nil
	case msplit.InsnInvokeDynamic:
		if err := want(2); err != nil {
			return nil, err
		}
		return msplit.NewInvokeDynamicInsn(f[0], f[1]), nil
	case msplit.InsnJump:
		if err := want(1); err != nil {
			return nil, err
		}
		return msplit.NewJumpInsn(op, p.label(f[0])), nil
	case msplit.InsnLdc:
		c, err := p.parseConst(rest)
		if err != nil {
			return nil, err
		}
		return msplit.NewLdcInsn(c), nil
	case msplit.InsnTableSwitch:
		return p.parseTableSwitch(f)
	case msplit.InsnLookupSwitch:
		return p.parseLookupSwitch(f)
	case msplit.InsnMultiANewArray:
		if err := want(2); err != nil {
			return nil, err
		}
		dims, err := atoi(f[1])
		if err != nil {
			return nil, err
		}
		return msplit.NewMultiANewArrayInsn(f[0], dims), nil
	}
	return nil, p.errorf("cannot parse %s", op)
}

// splitDefault separates "... default L" into the leading operands and the
// default label.
func (p *parser) splitDefault(op msplit.Opcode, f []string) ([]string, *msplit.Label, error) {
	if len(f) < 2 || f[len(f)-2] != "default" {
		return nil, nil, p.errorf("%s must end with \"default <label>\"", op)
	}
	return f[:len(f)-2], p.label(f[len(f)-1]), nil
}

func (p *parser) parseTableSwitch(f []string) (*msplit.Insn, error) {
	cases, dflt, err := p.splitDefault(msplit.OpTableswitch, f)
	if err != nil {
		return nil, err
	}
	if len(cases) < 1 {
		return nil, p.errorf("TABLESWITCH wants a low key")
	}
	low, err := strconv.Atoi(cases[0])
	if err != nil {
		return nil, p.errorf("TABLESWITCH: bad low key %q", cases[0])
	}
	targets := make([]*msplit.Label, 0, len(cases)-1)
	for _, name := range cases[1:] {
		targets = append(targets, p.label(name))
	}
	return msplit.NewTableSwitchInsn(low, dflt, targets...), nil
}

func (p *parser) parseLookupSwitch(f []string) (*msplit.Insn, error) {
	cases, dflt, err := p.splitDefault(msplit.OpLookupswitch, f)
	if err != nil {
		return nil, err
	}
	keys := make([]int32, 0, len(cases))
	targets := make([]*msplit.Label, 0, len(cases))
	for _, c := range cases {
		k, name, ok := strings.Cut(c, ":")
		if !ok {
			return nil, p.errorf("LOOKUPSWITCH case %q is not key:label", c)
		}
		key, err := strconv.ParseInt(k, 10, 32)
		if err != nil {
			return nil, p.errorf("LOOKUPSWITCH: bad key %q", k)
		}
		keys = append(keys, int32(key))
		targets = append(targets, p.label(name))
	}
	return msplit.NewLookupSwitchInsn(dflt, keys, targets), nil
}

// parseConst reads an LDC operand: an int, a long (L suffix), a float (F),
// a double (D), a quoted string, a type descriptor, handle(...) or
// condy(...).
func (p *parser) parseConst(s string) (any, error) {
	if s == "" {
		return nil, p.errorf("LDC wants a constant")
	}
	switch {
	case s[0] == '"':
		v, err := strconv.Unquote(s)
		if err != nil {
			return nil, p.errorf("LDC: bad string %s", s)
		}
		return v, nil
	case s[0] == 'L' || s[0] == '[' || s[0] == '(':
		t, err := msplit.ParseType(s)
		if err != nil {
			return nil, p.errorf("LDC: %v", err)
		}
		return t, nil
	case strings.HasPrefix(s, "handle(") && strings.HasSuffix(s, ")"):
		f := strings.Fields(s[len("handle(") : len(s)-1])
		if len(f) != 4 {
			return nil, p.errorf("LDC: handle wants tag, owner, name and descriptor")
		}
		tag, err := strconv.Atoi(f[0])
		if err != nil {
			return nil, p.errorf("LDC: bad handle tag %q", f[0])
		}
		return msplit.Handle{Tag: tag, Owner: f[1], Name: f[2], Desc: f[3]}, nil
	case strings.HasPrefix(s, "condy(") && strings.HasSuffix(s, ")"):
		f := strings.Fields(s[len("condy(") : len(s)-1])
		if len(f) != 2 {
			return nil, p.errorf("LDC: condy wants a name and a descriptor")
		}
		return msplit.ConstantDynamic{Name: f[0], Desc: f[1]}, nil
	}

	num, suffix := s, s[len(s)-1]
	switch suffix {
	case 'L', 'F', 'D':
		num = s[:len(s)-1]
	}
	switch suffix {
	case 'L':
		v, err := strconv.ParseInt(num, 10, 64)
		if err != nil {
			return nil, p.errorf("LDC: bad long %q", s)
		}
		return v, nil
	case 'F':
		v, err := strconv.ParseFloat(num, 32)
		if err != nil {
			return nil, p.errorf("LDC: bad float %q", s)
		}
		return float32(v), nil
	case 'D':
		v, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return nil, p.errorf("LDC: bad double %q", s)
		}
		return v, nil
	}
	v, err := strconv.ParseInt(num, 10, 32)
	if err != nil {
		return nil, p.errorf("LDC: bad constant %q", s)
	}
	return int32(v), nil
}

// parseFrame reads "[locals] [stack]".
func (p *parser) parseFrame(rest string) error {
	locals, rest, err := p.parseValueList(rest)
	if err != nil {
		return err
	}
	stack, rest, err := p.parseValueList(rest)
	if err != nil {
		return err
	}
	if strings.TrimSpace(rest) != "" {
		return p.errorf("FRAME: unexpected %q", rest)
	}
	p.emit(msplit.NewFrameInsn(locals, stack))
	return nil
}

// parseValueList reads one bracketed, comma separated list. Array types
// start with '[' but never contain ']', so the first ']' closes the list.
func (p *parser) parseValueList(s string) ([]msplit.Value, string, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") {
		return nil, "", p.errorf("FRAME: expected '[' in %q", s)
	}
	end := strings.IndexByte(s, ']')
	if end < 0 {
		return nil, "", p.errorf("FRAME: unterminated list %q", s)
	}
	body, rest := strings.TrimSpace(s[1:end]), s[end+1:]
	out := []msplit.Value{}
	if body == "" {
		return out, rest, nil
	}
	for _, item := range strings.Split(body, ",") {
		v, err := p.parseValue(strings.TrimSpace(item))
		if err != nil {
			return nil, "", err
		}
		out = append(out, v)
	}
	return out, rest, nil
}

func (p *parser) parseValue(s string) (msplit.Value, error) {
	switch s {
	case "top":
		return msplit.Top, nil
	case "int":
		return msplit.Int, nil
	case "float":
		return msplit.Float, nil
	case "long":
		return msplit.Long, nil
	case "double":
		return msplit.Double, nil
	case "null":
		return msplit.Null, nil
	case "uninitializedThis":
		return msplit.UninitializedThis, nil
	case "":
		return msplit.Value{}, p.errorf("FRAME: empty value")
	}
	if inner, ok := strings.CutPrefix(s, "uninitialized("); ok {
		inner, ok = strings.CutSuffix(inner, ")")
		name, typ, found := strings.Cut(inner, ":")
		if !ok || !found {
			return msplit.Value{}, p.errorf("FRAME: bad uninitialized value %q", s)
		}
		return msplit.Uninitialized(p.label(name), typ), nil
	}
	return msplit.Object(s), nil
}

// stripComment removes a trailing "//" comment that is not inside a string
// literal.
func stripComment(line string) string {
	inString := false
	for i := 0; i < len(line); i++ {
		switch c := line[i]; {
		case c == '\\' && inString:
			i++
		case c == '"':
			inString = !inString
		case c == '/' && !inString && i+1 < len(line) && line[i+1] == '/':
			return line[:i]
		}
	}
	return line
}

var arrayTypeCodes = map[string]int{
	"T_BOOLEAN": msplit.TBoolean,
	"T_CHAR":    msplit.TChar,
	"T_FLOAT":   msplit.TFloat,
	"T_DOUBLE":  msplit.TDouble,
	"T_BYTE":    msplit.TByte,
	"T_SHORT":   msplit.TShort,
	"T_INT":     msplit.TInt,
	"T_LONG":    msplit.TLong,
}

// kindOf returns the instruction variant an opcode is written as.
func kindOf(op msplit.Opcode) msplit.InsnKind {
	switch op {
	case msplit.OpBipush, msplit.OpSipush, msplit.OpNewarray:
		return msplit.InsnInt
	case msplit.OpIload, msplit.OpLload, msplit.OpFload, msplit.OpDload, msplit.OpAload,
		msplit.OpIstore, msplit.OpLstore, msplit.OpFstore, msplit.OpDstore, msplit.OpAstore, msplit.OpRet:
		return msplit.InsnVar
	case msplit.OpIinc:
		return msplit.InsnIinc
	case msplit.OpNew, msplit.OpAnewarray, msplit.OpCheckcast, msplit.OpInstanceof:
		return msplit.InsnType
	case msplit.OpGetstatic, msplit.OpPutstatic, msplit.OpGetfield, msplit.OpPutfield:
		return msplit.InsnField
	case msplit.OpInvokevirtual, msplit.OpInvokespecial, msplit.OpInvokestatic, msplit.OpInvokeinterface:
		return msplit.InsnMethod
	case msplit.OpInvokedynamic:
		return msplit.InsnInvokeDynamic
	case msplit.OpLdc:
		return msplit.InsnLdc
	case msplit.OpTableswitch:
		return msplit.InsnTableSwitch
	case msplit.OpLookupswitch:
		return msplit.InsnLookupSwitch
	case msplit.OpMultianewarray:
		return msplit.InsnMultiANewArray
	case msplit.OpJsr, msplit.OpGoto:
		return msplit.InsnJump
	}
	if op.IsConditionalJump() {
		return msplit.InsnJump
	}
	return msplit.InsnPlain
}
