// Package runtime holds the fixed C runtime shim that every generated program
// carries, and the static table of builtins it provides.
package runtime

import (
	"strings"

	"github.com/raymyers/pdcc/pkg/pdtypes"
)

// Builtin describes one runtime function callable from Palladium
type Builtin struct {
	Name   string // source-level name
	CName  string // name of the C function in the shim
	Params []pdtypes.Type
	Result pdtypes.Type
	Source string // C definition
}

// Signature returns the C prototype of the builtin, without a trailing semicolon
func (b Builtin) Signature() string {
	head, _, _ := strings.Cut(b.Source, " {")
	return head
}

// IsVoid reports whether the builtin produces no value
func (b Builtin) IsVoid() bool {
	return pdtypes.Equal(b.Result, pdtypes.Void())
}

var includes = []string{"stdio.h", "stdlib.h", "string.h"}

var builtins = []Builtin{
	{
		Name:   "print",
		CName:  "__pd_print",
		Params: []pdtypes.Type{pdtypes.String()},
		Result: pdtypes.Void(),
		Source: `void __pd_print(const char* s) {
    printf("%s\n", s);
}
`,
	},
	{
		Name:   "print_int",
		CName:  "__pd_print_int",
		Params: []pdtypes.Type{pdtypes.Int()},
		Result: pdtypes.Void(),
		Source: `void __pd_print_int(long long n) {
    printf("%lld\n", n);
}
`,
	},
	{
		Name:   "string_len",
		CName:  "__pd_string_len",
		Params: []pdtypes.Type{pdtypes.String()},
		Result: pdtypes.Int(),
		Source: `long long __pd_string_len(const char* s) {
    return (long long)strlen(s);
}
`,
	},
	{
		Name:   "string_concat",
		CName:  "__pd_string_concat",
		Params: []pdtypes.Type{pdtypes.String(), pdtypes.String()},
		Result: pdtypes.String(),
		Source: `const char* __pd_string_concat(const char* a, const char* b) {
    size_t la = strlen(a);
    size_t lb = strlen(b);
    char* result = malloc(la + lb + 1);
    memcpy(result, a, la);
    memcpy(result + la, b, lb + 1);
    return result;
}
`,
	},
	{
		Name:   "int_to_string",
		CName:  "__pd_int_to_string",
		Params: []pdtypes.Type{pdtypes.Int()},
		Result: pdtypes.String(),
		Source: `const char* __pd_int_to_string(long long n) {
    char* buffer = malloc(32);
    snprintf(buffer, 32, "%lld", n);
    return buffer;
}
`,
	},
}

var byName = func() map[string]Builtin {
	m := make(map[string]Builtin, 2*len(builtins))
	for _, b := range builtins {
		m[b.Name] = b
		m[b.CName] = b
	}
	return m
}()

// Builtins returns the builtin table in emission order
func Builtins() []Builtin {
	out := make([]Builtin, len(builtins))
	copy(out, builtins)
	return out
}

// Lookup finds a builtin by its source name or its C name
func Lookup(name string) (Builtin, bool) {
	b, ok := byName[name]
	return b, ok
}

// Includes returns the headers the shim needs
func Includes() []string {
	out := make([]string, len(includes))
	copy(out, includes)
	return out
}

// Source returns the shim definitions, separated by blank lines
func Source() string {
	parts := make([]string, len(builtins))
	for i, b := range builtins {
		parts[i] = b.Source
	}
	return strings.Join(parts, "\n")
}

// ConcatName and IntToStringName are the shim functions the lowering of
// string + uses directly.
const (
	ConcatName      = "__pd_string_concat"
	IntToStringName = "__pd_int_to_string"
)
