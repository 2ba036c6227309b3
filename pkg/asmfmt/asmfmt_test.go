package asmfmt

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/speakeasy-api/msplit"
)

const sample = `
TRYCATCH L0 L1 L2 java/io/IOException
L0:
LINE 12 L0
  ALOAD 0
  INVOKEVIRTUAL java/io/Reader read ()I
  IFLT L1
  LDC "a // not a comment" // a comment
  POP
L1:
FRAME [com/example/Foo] []
  RETURN
L2:
FRAME [com/example/Foo] [java/lang/Throwable]
  ATHROW
`

func TestParse(t *testing.T) {
	l, err := Parse(sample)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	var got []string
	for _, insn := range l.Instructions {
		got = append(got, insn.String())
	}
	want := []string{
		"L0:",
		"LINE 12 L0",
		"ALOAD 0",
		"INVOKEVIRTUAL java/io/Reader read ()I",
		"IFLT L1",
		`LDC "a // not a comment"`,
		"POP",
		"L1:",
		"FRAME [com/example/Foo] []",
		"RETURN",
		"L2:",
		"FRAME [com/example/Foo] [java/lang/Throwable]",
		"ATHROW",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("instructions mismatch (-want +got):\n%s", diff)
	}

	if len(l.TryCatchBlocks) != 1 {
		t.Fatalf("expected 1 try/catch block, got %d", len(l.TryCatchBlocks))
	}
	tcb := l.TryCatchBlocks[0]
	if tcb.Start != l.Label("L0") || tcb.End != l.Label("L1") || tcb.Handler != l.Label("L2") {
		t.Errorf("try/catch labels not shared with instructions: %+v", tcb)
	}
	if tcb.Type != "java/io/IOException" {
		t.Errorf("expected caught type java/io/IOException, got %q", tcb.Type)
	}
	if got := l.Instructions[4].Label; got != l.Label("L1") {
		t.Errorf("jump target is not the defined label")
	}
	if idx := l.IndexOf("L2"); idx != 10 {
		t.Errorf("IndexOf(L2) = %d, want 10", idx)
	}

	var names []string
	for name := range l.Labels.All() {
		names = append(names, name)
	}
	if diff := cmp.Diff([]string{"L0", "L1", "L2"}, names); diff != "" {
		t.Errorf("label order mismatch (-want +got):\n%s", diff)
	}
}

func TestParseOperands(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, insn *msplit.Insn)
	}{
		{"iinc", "IINC 3 -1", func(t *testing.T, insn *msplit.Insn) {
			if insn.Kind != msplit.InsnIinc || insn.Operand != 3 || insn.Incr != -1 {
				t.Errorf("got %+v", insn)
			}
		}},
		{"newarray name", "NEWARRAY T_LONG", func(t *testing.T, insn *msplit.Insn) {
			if insn.Operand != msplit.TLong {
				t.Errorf("operand = %d, want %d", insn.Operand, msplit.TLong)
			}
		}},
		{"newarray code", "NEWARRAY 10", func(t *testing.T, insn *msplit.Insn) {
			if insn.Operand != msplit.TInt {
				t.Errorf("operand = %d, want %d", insn.Operand, msplit.TInt)
			}
		}},
		{"ldc long", "LDC 7L", func(t *testing.T, insn *msplit.Insn) {
			if insn.Const != int64(7) {
				t.Errorf("const = %#v", insn.Const)
			}
		}},
		{"ldc float", "LDC 1.5F", func(t *testing.T, insn *msplit.Insn) {
			if insn.Const != float32(1.5) {
				t.Errorf("const = %#v", insn.Const)
			}
		}},
		{"ldc double", "LDC 2.25D", func(t *testing.T, insn *msplit.Insn) {
			if insn.Const != 2.25 {
				t.Errorf("const = %#v", insn.Const)
			}
		}},
		{"ldc int", "LDC -4", func(t *testing.T, insn *msplit.Insn) {
			if insn.Const != int32(-4) {
				t.Errorf("const = %#v", insn.Const)
			}
		}},
		{"ldc class", "LDC Ljava/lang/String;", func(t *testing.T, insn *msplit.Insn) {
			typ, ok := insn.Const.(msplit.Type)
			if !ok || typ.Sort() != msplit.SortObject {
				t.Errorf("const = %#v", insn.Const)
			}
		}},
		{"ldc method type", "LDC (IJ)V", func(t *testing.T, insn *msplit.Insn) {
			typ, ok := insn.Const.(msplit.Type)
			if !ok || typ.Sort() != msplit.SortMethod {
				t.Errorf("const = %#v", insn.Const)
			}
		}},
		{"ldc handle", "LDC handle(6 a/B m ()V)", func(t *testing.T, insn *msplit.Insn) {
			want := msplit.Handle{Tag: 6, Owner: "a/B", Name: "m", Desc: "()V"}
			if insn.Const != want {
				t.Errorf("const = %#v", insn.Const)
			}
		}},
		{"ldc condy", "LDC condy(c J)", func(t *testing.T, insn *msplit.Insn) {
			if insn.Const != (msplit.ConstantDynamic{Name: "c", Desc: "J"}) {
				t.Errorf("const = %#v", insn.Const)
			}
		}},
		{"interface call", "INVOKEINTERFACE java/util/List size ()I", func(t *testing.T, insn *msplit.Insn) {
			if !insn.Interface {
				t.Errorf("INVOKEINTERFACE should be an interface call")
			}
		}},
		{"static interface call", "INVOKESTATIC java/util/List of ()Ljava/util/List; itf", func(t *testing.T, insn *msplit.Insn) {
			if !insn.Interface || insn.Op != msplit.OpInvokestatic {
				t.Errorf("got %+v", insn)
			}
		}},
		{"multianewarray", "MULTIANEWARRAY [[I 2", func(t *testing.T, insn *msplit.Insn) {
			if insn.Desc != "[[I" || insn.Operand != 2 {
				t.Errorf("got %+v", insn)
			}
		}},
		{"frame", "FRAME [int, long, [I] [uninitialized(L9:java/lang/Object), null]", func(t *testing.T, insn *msplit.Insn) {
			if got := len(insn.Locals); got != 3 || insn.Locals[2] != msplit.Object("[I") {
				t.Errorf("locals = %v", insn.Locals)
			}
			if insn.Stack[0].Kind != msplit.ValueUninitialized || insn.Stack[0].Site.Name != "L9" {
				t.Errorf("stack = %v", insn.Stack)
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := tt.input + "\nL9:\n"
			l, err := Parse(src)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.input, err)
			}
			tt.check(t, l.Instructions[0])
		})
	}
}

func TestParseSwitches(t *testing.T) {
	l := MustParse(`
  TABLESWITCH 3 A B default C
  LOOKUPSWITCH -1:C 10:A default B
A:
B:
C:
`)
	ts := l.Instructions[0]
	if ts.Min != 3 || ts.Default != l.Label("C") || len(ts.Targets) != 2 {
		t.Errorf("tableswitch = %+v", ts)
	}
	ls := l.Instructions[1]
	if diff := cmp.Diff([]int32{-1, 10}, ls.Keys); diff != "" {
		t.Errorf("lookupswitch keys (-want +got):\n%s", diff)
	}
	if ls.Targets[0] != l.Label("C") || ls.Default != l.Label("B") {
		t.Errorf("lookupswitch targets = %v default %v", ls.Targets, ls.Default)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		line    int
		message string
	}{
		{"unknown opcode", "NOP\nFROB 1", 2, `unknown instruction "FROB"`},
		{"missing operand", "ILOAD", 1, "ILOAD wants 1 operands, got 0"},
		{"undefined label", "GOTO nowhere", 1, "label nowhere is never defined"},
		{"duplicate label", "A:\nA:", 2, "label A already defined on line 1"},
		{"bad switch", "TABLESWITCH 0 A", 1, `TABLESWITCH must end with "default <label>"`},
		{"bad frame", "FRAME [int", 1, `FRAME: unterminated list "[int"`},
		{"bad ldc", "LDC 12Q", 1, `LDC: bad constant "12Q"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("expected *SyntaxError, got %v", err)
			}
			if se.Line != tt.line || se.Msg != tt.message {
				t.Errorf("got line %d %q, want line %d %q", se.Line, se.Msg, tt.line, tt.message)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	start, end := &msplit.Label{}, &msplit.Label{Name: "L0"}
	m := &msplit.Method{
		Instructions: []*msplit.Insn{
			msplit.NewLabelInsn(start),
			msplit.NewIntInsn(msplit.OpNewarray, msplit.TInt),
			msplit.NewJumpInsn(msplit.OpGoto, end),
			msplit.NewLabelInsn(end),
			msplit.NewFrameInsn([]msplit.Value{msplit.Uninitialized(start, "a/B")}, nil),
			msplit.NewInsn(msplit.OpReturn),
		},
		TryCatchBlocks: []msplit.TryCatchBlock{{Start: start, End: end, Handler: end}},
	}

	got, err := Format(m, FormatCfg{Indent: "    ", Index: true, ArrayTypeNames: true})
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	want := strings.Join([]string{
		"TRYCATCH L1 L0 L0",
		"L1:  // 0",
		"    NEWARRAY T_INT  // 1",
		"    GOTO L0  // 2",
		"L0:  // 3",
		"FRAME [uninitialized(L1:a/B)] []  // 4",
		"    RETURN  // 5",
		"",
	}, "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Format mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatRoundTrip(t *testing.T) {
	l := MustParse(sample)
	m := l.Method(msplit.AccPublic, "run", "()V")

	out, err := Format(m, DefaultFormatCfg())
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	again, err := Parse(out)
	if err != nil {
		t.Fatalf("Parse(Format(...)): %v\n%s", err, out)
	}
	out2, err := Format(again.Method(msplit.AccPublic, "run", "()V"), DefaultFormatCfg())
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if diff := cmp.Diff(out, out2); diff != "" {
		t.Errorf("round trip changed the listing (-first +second):\n%s", diff)
	}
}

func TestValidateConfig(t *testing.T) {
	if _, err := ValidateConfig(FormatCfg{Indent: "\t"}); err != nil {
		t.Errorf("tab indent rejected: %v", err)
	}
	if _, err := ValidateConfig(FormatCfg{Indent: "> "}); err == nil {
		t.Errorf("expected an error for a non-blank indent")
	}
}
