package playground

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/speakeasy-api/msplit"
	"github.com/speakeasy-api/msplit/splitexec"
)

func types(descs ...string) []msplit.Type {
	out := make([]msplit.Type, len(descs))
	for i, d := range descs {
		out[i] = msplit.MustType(d)
	}
	return out
}

func TestBoundarySchema(t *testing.T) {
	sp := splitexec.SplitPoint{
		Start:                  4,
		Length:                 6,
		LocalsRead:             []int{0, 2},
		NeededFromStackAtStart: types("I", "Ljava/lang/String;"),
		PutOnStackAtEnd:        types("J"),
	}
	s := BoundarySchema(sp)

	if diff := cmp.Diff([]string{"stackIn", "stackOut", "localsRead", "localsWritten"}, s.Required); diff != "" {
		t.Errorf("required (-want +got):\n%s", diff)
	}

	stackIn, ok := s.Properties.Get("stackIn")
	if !ok {
		t.Fatalf("stackIn property missing")
	}
	in := stackIn.GetLeft()
	if len(in.PrefixItems) != 2 || in.MinItems == nil || *in.MinItems != 2 || *in.MaxItems != 2 {
		t.Fatalf("stackIn should be a 2-tuple, got %d prefix items", len(in.PrefixItems))
	}
	if f := in.PrefixItems[1].GetLeft().Format; f == nil || *f != "java/lang/String" {
		t.Errorf("reference item should keep its internal name, got %v", f)
	}

	localsRead, _ := s.Properties.Get("localsRead")
	if got := len(localsRead.GetLeft().Items.GetLeft().Enum); got != 2 {
		t.Errorf("localsRead should enumerate 2 slots, got %d", got)
	}

	want := "stackIn=(int32, java/lang/String) stackOut=(int64) localsRead={0,2} localsWritten={}"
	if got := SummarizeBoundary(s); got != want {
		t.Errorf("SummarizeBoundary = %q, want %q", got, want)
	}
}

func TestBoundarySchemaTypes(t *testing.T) {
	tests := []struct {
		desc string
		want string
	}{
		{"Z", "boolean"},
		{"B", "int8"},
		{"C", "uint16"},
		{"S", "int16"},
		{"F", "float"},
		{"D", "double"},
		{"[I", "[I"},
		{"[[Ljava/lang/Object;", "[[Ljava/lang/Object;"},
		{"La/B;", "a/B"},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			s := BoundarySchema(splitexec.SplitPoint{PutOnStackAtEnd: types(tt.desc)})
			got := SummarizeBoundary(s)
			if !strings.Contains(got, "stackOut=("+tt.want+")") {
				t.Errorf("SummarizeBoundary = %q, want stackOut=(%s)", got, tt.want)
			}
		})
	}
}

func TestSummarizeBoundaryNil(t *testing.T) {
	if got := SummarizeBoundary(nil); got != "" {
		t.Errorf("expected empty summary, got %q", got)
	}
}
