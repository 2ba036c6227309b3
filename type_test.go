package msplit

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		desc string
		sort Sort
		size int
		str  string
	}{
		{"V", SortVoid, 0, "void"},
		{"Z", SortBoolean, 1, "boolean"},
		{"J", SortLong, 2, "long"},
		{"D", SortDouble, 2, "double"},
		{"Ljava/lang/String;", SortObject, 1, "java.lang.String"},
		{"[[I", SortArray, 1, "int[][]"},
		{"(IJLjava/lang/Object;)V", SortMethod, 0, "(int, long, java.lang.Object)void"},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			typ, err := ParseType(tt.desc)
			if err != nil {
				t.Fatalf("ParseType(%q): %v", tt.desc, err)
			}
			if typ.Sort() != tt.sort || typ.Size() != tt.size {
				t.Errorf("got sort %d size %d, want sort %d size %d", typ.Sort(), typ.Size(), tt.sort, tt.size)
			}
			if got := typ.String(); got != tt.str {
				t.Errorf("String() = %q, want %q", got, tt.str)
			}
		})
	}
}

func TestParseTypeErrors(t *testing.T) {
	for _, desc := range []string{"", "Q", "L;", "Ljava/lang/String", "[", "(I", "(I)", "(I)VV", "II"} {
		if _, err := ParseType(desc); !errors.Is(err, ErrBadDescriptor) {
			t.Errorf("ParseType(%q): expected ErrBadDescriptor, got %v", desc, err)
		}
	}
}

func TestMethodTypeParts(t *testing.T) {
	mt := MustType("(I[JLa/B;D)[Ljava/lang/String;")
	var args []string
	for _, a := range mt.ArgumentTypes() {
		args = append(args, a.Descriptor())
	}
	if diff := cmp.Diff([]string{"I", "[J", "La/B;", "D"}, args); diff != "" {
		t.Errorf("arguments (-want +got):\n%s", diff)
	}
	if got := mt.ArgumentsSize(); got != 5 {
		t.Errorf("ArgumentsSize() = %d, want 5", got)
	}
	ret := mt.ReturnType()
	if ret.Descriptor() != "[Ljava/lang/String;" || ret.InternalName() != "[Ljava/lang/String;" {
		t.Errorf("return type %q", ret.Descriptor())
	}
	if got := ret.ElementType().InternalName(); got != "java/lang/String" {
		t.Errorf("element internal name %q", got)
	}
	if got := ObjectType("a/B").Descriptor(); got != "La/B;" {
		t.Errorf("ObjectType(a/B) = %q", got)
	}
}

func TestInitialLocals(t *testing.T) {
	tests := []struct {
		name   string
		method Method
		want   []Value
	}{
		{"static", Method{Access: AccStatic, Name: "f", Desc: "(JI)V"},
			[]Value{Long, Top, Int}},
		{"instance", Method{Name: "f", Desc: "(D[Z)V"},
			[]Value{Object("a/Owner"), Double, Top, Object("[Z")}},
		{"constructor", Method{Name: "<init>", Desc: "(Ljava/lang/String;)V"},
			[]Value{UninitializedThis, Object("java/lang/String")}},
		{"narrow ints", Method{Access: AccStatic, Name: "f", Desc: "(BCSZ)V"},
			[]Value{Int, Int, Int, Int}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.method.InitialLocals("a/Owner")
			if err != nil {
				t.Fatalf("InitialLocals: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("locals (-want +got):\n%s", diff)
			}
		})
	}

	if _, err := (&Method{Desc: "I"}).InitialLocals("a/Owner"); !errors.Is(err, ErrBadDescriptor) {
		t.Errorf("expected ErrBadDescriptor for a field descriptor, got %v", err)
	}
}

func TestAccessString(t *testing.T) {
	if got := AccessString(AccPublic | AccStatic | AccFinal); got != "public static final" {
		t.Errorf("AccessString = %q", got)
	}
	if flag, ok := LookupAccess("synchronized"); !ok || flag != AccSynchronized {
		t.Errorf("LookupAccess(synchronized) = %d %v", flag, ok)
	}
}
