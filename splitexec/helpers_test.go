package splitexec

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/speakeasy-api/msplit"
	"github.com/speakeasy-api/msplit/pkg/asmfmt"
)

const testOwner = "com/example/Foo"

// splitPointOpts compares split points, treating nil and empty slices as
// equal and types by descriptor.
var splitPointOpts = cmp.Options{
	cmpopts.EquateEmpty(),
	cmp.Comparer(func(a, b msplit.Type) bool { return a.Descriptor() == b.Descriptor() }),
}

// ParseMethod builds a method from the text assembly.
func ParseMethod(t *testing.T, access int, name, desc, src string) (*msplit.Method, *asmfmt.Listing) {
	t.Helper()
	l, err := asmfmt.Parse(src)
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}
	return l.Method(access, name, desc), l
}

// StaticMethod is ParseMethod for a public static method called "run".
func StaticMethod(t *testing.T, desc, src string) *msplit.Method {
	t.Helper()
	m, _ := ParseMethod(t, msplit.AccPublic|msplit.AccStatic, "run", desc, src)
	return m
}

// CollectSplitPoints enumerates m with a fresh splitter.
func CollectSplitPoints(t *testing.T, m *msplit.Method, minSize, maxSize int) []SplitPoint {
	t.Helper()
	got, err := SplitPoints(testOwner, m, minSize, maxSize)
	if err != nil {
		t.Fatalf("SplitPoints failed: %v", err)
	}
	return got
}

// Types parses descriptors into types.
func Types(descs ...string) []msplit.Type {
	out := make([]msplit.Type, len(descs))
	for i, d := range descs {
		out[i] = msplit.MustType(d)
	}
	return out
}

func starts(sps []SplitPoint) []int {
	out := make([]int, len(sps))
	for i, sp := range sps {
		out[i] = sp.Start
	}
	return out
}

func findStart(t *testing.T, sps []SplitPoint, start int) SplitPoint {
	t.Helper()
	for _, sp := range sps {
		if sp.Start == start {
			return sp
		}
	}
	t.Fatalf("no split point starts at %d; starts are %v", start, starts(sps))
	return SplitPoint{}
}

// straightLine is ten instructions without branches.
const straightLine = `
  ICONST_1
  ICONST_2
  IADD
  ISTORE 0
  ILOAD 0
  ICONST_3
  IMUL
  ISTORE 1
  NOP
  RETURN
`

// countingLoop is a while loop with line numbers and frames. Branches:
// 9 -> 12 and 11 -> 4.
const countingLoop = `
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

// sequentialIfs has two forward branches that do not overlap: 3 -> 7 and
// 11 -> 16.
const sequentialIfs = `
L0:
LINE 1 L0
  ILOAD 0
  IFEQ L1
  IINC 0 1
  ICONST_2
  ISTORE 1
L1:
LINE 2 L1
FRAME [int] []
  ILOAD 0
  IFLT L2
  ILOAD 0
  ICONST_3
  IMUL
  ISTORE 0
L2:
FRAME [int] []
  ILOAD 0
  IRETURN
`

// guardedSwitch protects a LOOKUPSWITCH with a handler at the end. Protected
// region [0, 11), handler at 14, switch 2 -> 3 and 2 -> 6.
const guardedSwitch = `
TRYCATCH L0 L1 L2 java/lang/RuntimeException
L0:
  ILOAD 0
  LOOKUPSWITCH 1:L3 5:L3 default L4
L3:
FRAME [int] []
  IINC 0 1
L4:
FRAME [int] []
  ILOAD 0
  ISTORE 1
  NOP
L1:
  ILOAD 0
  IRETURN
L2:
FRAME [int] [java/lang/Throwable]
  ATHROW
`
