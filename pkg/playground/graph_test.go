package playground

import (
	"strconv"
	"strings"
	"testing"
)

const loopFixture = `
owner: com/example/Foo
name: count
desc: (I)V
access: [public, static]
min: 3
max: 6
code: |
  L0:
  LINE 1 L0
    ICONST_0
    ISTORE 1
  L1:
  LINE 2 L1
  FRAME [int, int] []
    ILOAD 1
    ILOAD 0
    IF_ICMPGE L2
    IINC 1 1
    GOTO L1
  L2:
  LINE 3 L2
  FRAME [int, int] []
    ILOAD 1
    ICONST_2
    IMUL
    ISTORE 0
    RETURN
`

const handlerFixture = `
owner: com/example/Foo
name: guarded
desc: ()V
access: [static]
code: |
  TRYCATCH L0 L1 L2 java/lang/RuntimeException
  L0:
    NOP
  L1:
    RETURN
  L2:
  FRAME [] [java/lang/Throwable]
    ATHROW
`

func TestGraph(t *testing.T) {
	f, err := ParseFixture(loopFixture)
	if err != nil {
		t.Fatalf("ParseFixture failed: %v", err)
	}
	a, err := Analyze(f)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if a.Err != nil {
		t.Fatalf("unexpected defect: %v", a.Err)
	}
	if len(a.SplitPoints) == 0 {
		t.Fatalf("expected split points")
	}

	first := a.SplitPoints[0]
	out := Graph(a.Method, a.SplitPoints, first.Start)

	for _, want := range []string{
		"digraph",
		"IF_ICMPGE L2",
		"dashed",
		"lightblue",
		"len [4]",
		"split " + strconv.Itoa(first.Start) + "+" + strconv.Itoa(first.Length),
	} {
		if !strings.Contains(out, want) {
			t.Errorf("graph missing %q:\n%s", want, out)
		}
	}
}

func TestGraphHandlerEdges(t *testing.T) {
	f, err := ParseFixture(handlerFixture)
	if err != nil {
		t.Fatalf("ParseFixture failed: %v", err)
	}
	m, _, err := f.Method()
	if err != nil {
		t.Fatalf("Method failed: %v", err)
	}
	out := Graph(m, nil, -1)
	for _, want := range []string{"dotted", "java/lang/RuntimeException"} {
		if !strings.Contains(out, want) {
			t.Errorf("graph missing %q:\n%s", want, out)
		}
	}
}

func TestGraphWithoutFocus(t *testing.T) {
	f, err := ParseFixture(straightLineFixture)
	if err != nil {
		t.Fatalf("ParseFixture failed: %v", err)
	}
	a, err := Analyze(f)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	out := Graph(a.Method, a.SplitPoints, -1)
	if strings.Contains(out, "subgraph") {
		t.Errorf("no cluster expected without a focus:\n%s", out)
	}
}
