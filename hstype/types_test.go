package hstype

import (
	"errors"
	"testing"
)

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindScalar, "Scalar"},
		{KindUnit, "Unit"},
		{KindCString, "CString"},
		{KindPtr, "Ptr"},
		{KindIO, "IO"},
		{KindFunPtr, "FunPtr"},
		{Kind(999), "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("Kind.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrimitive_Kind(t *testing.T) {
	for _, p := range Primitives() {
		want := KindScalar
		switch p {
		case Unit:
			want = KindUnit
		case CString:
			want = KindCString
		}
		if got := p.Kind(); got != want {
			t.Errorf("%s.Kind() = %v, want %v", p, got, want)
		}
	}
}

func TestPrimitives(t *testing.T) {
	ps := Primitives()
	if len(ps) != 16 {
		t.Fatalf("len(Primitives()) = %d, want 16", len(ps))
	}
	if ps[0] != CChar || ps[len(ps)-1] != CString {
		t.Errorf("Primitives() = %v, want CChar first and CString last", ps)
	}
	if got := Primitive(0).String(); got != "Unknown" {
		t.Errorf("Primitive(0).String() = %q, want Unknown", got)
	}
}

func TestLookupPrimitive(t *testing.T) {
	for _, p := range Primitives() {
		got, ok := LookupPrimitive(p.String())
		if p == Unit {
			if ok {
				t.Errorf("LookupPrimitive(%q) succeeded, want miss", p.String())
			}
			continue
		}
		if !ok || got != p {
			t.Errorf("LookupPrimitive(%q) = %v, %v; want %v, true", p.String(), got, ok, p)
		}
	}
	if _, ok := LookupPrimitive("CSize"); ok {
		t.Error("LookupPrimitive(CSize) succeeded, want miss")
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{CInt, "CInt"},
		{CULLong, "CULLong"},
		{Unit, "()"},
		{CString, "CString"},
		{Ptr(CChar), "Ptr (CChar)"},
		{IO(Unit), "IO (())"},
		{Ptr(Ptr(CInt)), "Ptr (Ptr (CInt))"},
		{MustFunPtr(CInt), "FunPtr(CInt)"},
		{MustFunPtr(CInt, CInt, CDouble), "FunPtr(CInt -> CInt -> CDouble)"},
		{MustFunPtr(MustFunPtr(CInt, CInt), IO(Unit)), "FunPtr(FunPtr(CInt -> CInt) -> IO (()))"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.typ.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFunPtr_Empty(t *testing.T) {
	fp, err := FunPtr()
	if !errors.Is(err, ErrFunPtrWithoutTypeArgument) {
		t.Fatalf("FunPtr() error = %v, want ErrFunPtrWithoutTypeArgument", err)
	}
	if fp != nil {
		t.Errorf("FunPtr() = %v, want nil", fp)
	}

	defer func() {
		if recover() == nil {
			t.Error("MustFunPtr() did not panic")
		}
	}()
	MustFunPtr()
}

func TestFunPtr_Accessors(t *testing.T) {
	in := []Type{Ptr(CInt), CChar, CDouble}
	fp := MustFunPtr(in...)

	// The constructor must not alias the caller's slice.
	in[0] = CBool
	if !Equal(fp.Types()[0], Ptr(CInt)) {
		t.Errorf("Types()[0] = %v after caller mutation, want Ptr (CInt)", fp.Types()[0])
	}

	args := fp.Args()
	if len(args) != 2 || !Equal(args[0], Ptr(CInt)) || args[1] != CChar {
		t.Errorf("Args() = %v, want [Ptr (CInt) CChar]", args)
	}
	args[0] = CBool
	if !Equal(fp.Args()[0], Ptr(CInt)) {
		t.Error("Args() exposes internal storage")
	}
	if fp.Result() != CDouble {
		t.Errorf("Result() = %v, want CDouble", fp.Result())
	}
	if fp.Len() != 3 {
		t.Errorf("Len() = %d, want 3", fp.Len())
	}

	single := MustFunPtr(Unit)
	if len(single.Args()) != 0 || single.Result() != Unit {
		t.Errorf("FunPtr(()) args=%v result=%v, want no args and ()", single.Args(), single.Result())
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Type
		want bool
	}{
		{"same primitive", CInt, CInt, true},
		{"same width distinct spelling", CLong, CLLong, false},
		{"char spellings", CChar, CSChar, false},
		{"pointer", Ptr(CInt), Ptr(CInt), true},
		{"pointer elem differs", Ptr(CInt), Ptr(CUInt), false},
		{"io vs plain", IO(CInt), CInt, false},
		{"cstring vs ptr cchar", CString, Ptr(CChar), false},
		{"funptr", MustFunPtr(CInt, CDouble), MustFunPtr(CInt, CDouble), true},
		{"funptr arity", MustFunPtr(CInt, CDouble), MustFunPtr(CDouble), false},
		{"nested funptr", MustFunPtr(MustFunPtr(CInt, CInt), CDouble), MustFunPtr(MustFunPtr(CInt, CInt), CDouble), true},
		{"nil nil", nil, nil, true},
		{"nil value", nil, CInt, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestError(t *testing.T) {
	err := unsupported("Foo")
	if !errors.Is(err, &Error{Code: CodeUnsupportedType}) {
		t.Error("unsupported error should match its class")
	}
	if !errors.Is(err, &Error{Code: CodeUnsupportedType, Text: "Foo"}) {
		t.Error("unsupported error should match its text")
	}
	if errors.Is(err, &Error{Code: CodeUnsupportedType, Text: "Bar"}) {
		t.Error("unsupported error should not match another text")
	}
	if errors.Is(err, ErrUnmatchedParenthesis) {
		t.Error("unsupported error should not match another code")
	}
	if got, want := err.Error(), "type `Foo` isn't in the list of supported Haskell C-FFI types"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
