package runtime

import (
	"strings"
	"testing"

	"github.com/raymyers/pdcc/pkg/pdtypes"
)

func TestSignatures(t *testing.T) {
	want := []string{
		"void __pd_print(const char* s)",
		"void __pd_print_int(long long n)",
		"long long __pd_string_len(const char* s)",
		"const char* __pd_string_concat(const char* a, const char* b)",
		"const char* __pd_int_to_string(long long n)",
	}

	got := Builtins()
	if len(got) != len(want) {
		t.Fatalf("expected %d builtins, got %d", len(want), len(got))
	}
	for i, b := range got {
		if b.Signature() != want[i] {
			t.Errorf("builtin %d signature = %q, want %q", i, b.Signature(), want[i])
		}
		if !strings.Contains(Source(), want[i]+" {") {
			t.Errorf("Source() is missing %q", want[i])
		}
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name   string
		cname  string
		params int
		void   bool
	}{
		{"print", "__pd_print", 1, true},
		{"print_int", "__pd_print_int", 1, true},
		{"string_len", "__pd_string_len", 1, false},
		{"string_concat", "__pd_string_concat", 2, false},
		{"int_to_string", "__pd_int_to_string", 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, ok := Lookup(tt.name)
			if !ok {
				t.Fatalf("Lookup(%q) failed", tt.name)
			}
			if b.CName != tt.cname {
				t.Errorf("CName = %q, want %q", b.CName, tt.cname)
			}
			if len(b.Params) != tt.params {
				t.Errorf("params = %d, want %d", len(b.Params), tt.params)
			}
			if b.IsVoid() != tt.void {
				t.Errorf("IsVoid = %v, want %v", b.IsVoid(), tt.void)
			}
			byC, ok := Lookup(tt.cname)
			if !ok || byC.Name != tt.name {
				t.Errorf("Lookup(%q) = %+v, %v", tt.cname, byC, ok)
			}
		})
	}

	if _, ok := Lookup("printf"); ok {
		t.Error("printf is not a builtin")
	}
}

func TestConcatTypes(t *testing.T) {
	b, _ := Lookup(ConcatName)
	if !pdtypes.Equal(b.Result, pdtypes.String()) {
		t.Errorf("concat result = %v", b.Result)
	}
	conv, _ := Lookup(IntToStringName)
	if !pdtypes.Equal(conv.Params[0], pdtypes.Int()) || !pdtypes.Equal(conv.Result, pdtypes.String()) {
		t.Errorf("int_to_string signature = %v -> %v", conv.Params, conv.Result)
	}
}

func TestIncludesAndSourceLayout(t *testing.T) {
	inc := Includes()
	if strings.Join(inc, ",") != "stdio.h,stdlib.h,string.h" {
		t.Errorf("Includes() = %v", inc)
	}
	inc[0] = "mutated.h"
	if Includes()[0] != "stdio.h" {
		t.Error("Includes() must return a copy")
	}

	src := Source()
	if !strings.HasSuffix(src, "}\n") {
		t.Errorf("Source() should end with a closing brace line")
	}
	if strings.Count(src, "}\n\n") != len(Builtins())-1 {
		t.Errorf("expected builtins separated by blank lines:\n%s", src)
	}
	if !strings.Contains(src, "malloc(32)") {
		t.Error("int_to_string must allocate a 32-byte buffer")
	}
}
