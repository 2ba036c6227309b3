package asmfmt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/speakeasy-api/msplit"
)

// FormatCfg controls the layout produced by Format.
type FormatCfg struct {
	// Indent prefixes every instruction line. Labels and directives are not
	// indented.
	Indent string
	// Index appends the instruction index as a trailing comment.
	Index bool
	// ArrayTypeNames writes NEWARRAY operands as T_INT etc.
	ArrayTypeNames bool
}

// DefaultFormatCfg returns the layout used by the command line tools.
func DefaultFormatCfg() FormatCfg {
	return FormatCfg{Indent: "  ", ArrayTypeNames: true}
}

// ValidateConfig checks cfg and returns it with defaults filled in.
func ValidateConfig(cfg FormatCfg) (FormatCfg, error) {
	if strings.TrimLeft(cfg.Indent, " \t") != "" {
		return cfg, errors.Errorf("invalid indent %q; only spaces and tabs are allowed", cfg.Indent)
	}
	return cfg, nil
}

// Format writes m's try/catch table and instructions. Labels without a
// name are called L<n> in order of first appearance. Parse(Format(m))
// yields an equivalent method.
func Format(m *msplit.Method, cfg FormatCfg) (string, error) {
	cfg, err := ValidateConfig(cfg)
	if err != nil {
		return "", err
	}
	f := &formatter{cfg: cfg, names: make(map[*msplit.Label]string), used: make(map[string]bool)}
	f.nameLabels(m)

	var b strings.Builder
	for _, tcb := range m.TryCatchBlocks {
		fmt.Fprintf(&b, "TRYCATCH %s %s %s", f.name(tcb.Start), f.name(tcb.End), f.name(tcb.Handler))
		if tcb.Type != "" {
			b.WriteString(" " + tcb.Type)
		}
		b.WriteByte('\n')
	}
	for i, insn := range m.Instructions {
		line, indent := f.insn(insn)
		if indent {
			b.WriteString(cfg.Indent)
		}
		b.WriteString(line)
		if cfg.Index {
			fmt.Fprintf(&b, "  // %d", i)
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}

type formatter struct {
	cfg   FormatCfg
	names map[*msplit.Label]string
	used  map[string]bool
}

func (f *formatter) nameLabels(m *msplit.Method) {
	// Keep given names first so generated ones cannot collide with them.
	for _, insn := range m.Instructions {
		if insn.Kind == msplit.InsnLabel && insn.Label != nil && insn.Label.Name != "" && !f.used[insn.Label.Name] {
			f.names[insn.Label] = insn.Label.Name
			f.used[insn.Label.Name] = true
		}
	}
	next := 0
	for _, insn := range m.Instructions {
		if insn.Kind != msplit.InsnLabel || insn.Label == nil {
			continue
		}
		if _, ok := f.names[insn.Label]; ok {
			continue
		}
		for f.used["L"+strconv.Itoa(next)] {
			next++
		}
		name := "L" + strconv.Itoa(next)
		f.names[insn.Label] = name
		f.used[name] = true
	}
}

func (f *formatter) name(l *msplit.Label) string {
	if n, ok := f.names[l]; ok {
		return n
	}
	return l.String()
}

func (f *formatter) insn(insn *msplit.Insn) (string, bool) {
	switch insn.Kind {
	case msplit.InsnLabel:
		return f.name(insn.Label) + ":", false
	case msplit.InsnLineNumber:
		return fmt.Sprintf("LINE %d %s", insn.Operand, f.name(insn.Label)), false
	case msplit.InsnFrame:
		return fmt.Sprintf("FRAME %s %s", f.values(insn.Locals), f.values(insn.Stack)), false
	case msplit.InsnInt:
		if insn.Op == msplit.OpNewarray && f.cfg.ArrayTypeNames {
			for name, code := range arrayTypeCodes {
				if code == insn.Operand {
					return "NEWARRAY " + name, true
				}
			}
		}
	case msplit.InsnJump:
		return fmt.Sprintf("%s %s", insn.Op, f.name(insn.Label)), true
	case msplit.InsnTableSwitch:
		parts := []string{"TABLESWITCH", strconv.Itoa(insn.Min)}
		for _, t := range insn.Targets {
			parts = append(parts, f.name(t))
		}
		return strings.Join(append(parts, "default", f.name(insn.Default)), " "), true
	case msplit.InsnLookupSwitch:
		parts := []string{"LOOKUPSWITCH"}
		for n, t := range insn.Targets {
			parts = append(parts, fmt.Sprintf("%d:%s", insn.Keys[n], f.name(t)))
		}
		return strings.Join(append(parts, "default", f.name(insn.Default)), " "), true
	}
	return insn.String(), true
}

func (f *formatter) values(vs []msplit.Value) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		if v.Kind == msplit.ValueUninitialized {
			parts[i] = fmt.Sprintf("uninitialized(%s:%s)", f.name(v.Site), v.Type)
			continue
		}
		parts[i] = v.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
