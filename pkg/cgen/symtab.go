package cgen

import (
	"strings"

	"github.com/raymyers/pdcc/pkg/ast"
	"github.com/raymyers/pdcc/pkg/pdtypes"
)

// Symbol is a declared variable
type Symbol struct {
	Name    string
	Type    pdtypes.Type
	Pos     ast.Pos
	Hoisted bool // declared inside a nested block, C declaration lives at function top
}

// SymbolTable maps identifiers to their declarations for one function body.
// It is flat: the source language has no block scoping.
type SymbolTable struct {
	symbols map[string]Symbol
	order   []string
	temps   int // compiler temporaries handed out so far
}

// NewSymbolTable creates an empty table
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: make(map[string]Symbol)}
}

// Declare adds a symbol, failing if the name is already declared
func (st *SymbolTable) Declare(sym Symbol) error {
	if prev, ok := st.symbols[sym.Name]; ok {
		if prev.Pos.IsValid() {
			return errorf(ErrDuplicateDeclaration, sym.Pos, "%s (previously declared at %d:%d)", sym.Name, prev.Pos.Line, prev.Pos.Col)
		}
		return errorf(ErrDuplicateDeclaration, sym.Pos, "%s", sym.Name)
	}
	st.symbols[sym.Name] = sym
	st.order = append(st.order, sym.Name)
	return nil
}

// Lookup returns the symbol declared under name
func (st *SymbolTable) Lookup(name string) (Symbol, bool) {
	sym, ok := st.symbols[name]
	return sym, ok
}

// Symbols returns all symbols in declaration order
func (st *SymbolTable) Symbols() []Symbol {
	out := make([]Symbol, len(st.order))
	for i, name := range st.order {
		out[i] = st.symbols[name]
	}
	return out
}

// Len returns the number of declared symbols
func (st *SymbolTable) Len() int {
	return len(st.order)
}

var cKeywords = map[string]bool{
	"auto": true, "break": true, "case": true, "char": true, "const": true,
	"continue": true, "default": true, "do": true, "double": true, "else": true,
	"enum": true, "extern": true, "float": true, "for": true, "goto": true,
	"if": true, "inline": true, "int": true, "long": true, "register": true,
	"restrict": true, "return": true, "short": true, "signed": true, "sizeof": true,
	"static": true, "struct": true, "switch": true, "typedef": true, "union": true,
	"unsigned": true, "void": true, "volatile": true, "while": true,
	"_Bool": true, "_Complex": true, "_Imaginary": true, "_Alignas": true,
	"_Alignof": true, "_Atomic": true, "_Generic": true, "_Noreturn": true,
	"_Static_assert": true, "_Thread_local": true,
}

// names the generated translation unit already uses at file scope
var reservedNames = map[string]bool{
	"printf": true, "snprintf": true, "strlen": true, "memcpy": true, "malloc": true,
	"free": true, "size_t": true, "NULL": true,
}

// headerMacros are object-like macros from the runtime includes. A
// declaration using one of them as its name would be rewritten by the
// preprocessor.
var headerMacros = map[string]bool{
	"EOF": true, "BUFSIZ": true, "FILENAME_MAX": true, "FOPEN_MAX": true,
	"L_tmpnam": true, "TMP_MAX": true, "SEEK_SET": true, "SEEK_CUR": true,
	"SEEK_END": true, "_IOFBF": true, "_IOLBF": true, "_IONBF": true,
	"stdin": true, "stdout": true, "stderr": true, "RAND_MAX": true,
	"EXIT_SUCCESS": true, "EXIT_FAILURE": true, "MB_CUR_MAX": true,
}

// libcNames are the functions and types declared at file scope by the
// runtime includes. Locals may shadow them but the entry function may not.
var libcNames = map[string]bool{
	// stdio.h
	"FILE": true, "fpos_t": true, "remove": true, "rename": true, "tmpfile": true,
	"tmpnam": true, "fclose": true, "fflush": true, "fopen": true, "freopen": true,
	"setbuf": true, "setvbuf": true, "fprintf": true, "fscanf": true, "scanf": true,
	"sprintf": true, "sscanf": true, "vfprintf": true, "vfscanf": true, "vprintf": true,
	"vscanf": true, "vsnprintf": true, "vsprintf": true, "vsscanf": true, "fgetc": true,
	"fgets": true, "fputc": true, "fputs": true, "getc": true, "getchar": true,
	"gets": true, "putc": true, "putchar": true, "puts": true, "ungetc": true,
	"fread": true, "fwrite": true, "fgetpos": true, "fseek": true, "fsetpos": true,
	"ftell": true, "rewind": true, "clearerr": true, "feof": true, "ferror": true,
	"perror": true,
	// stdlib.h
	"div_t": true, "ldiv_t": true, "lldiv_t": true, "wchar_t": true, "atof": true,
	"atoi": true, "atol": true, "atoll": true, "strtod": true, "strtof": true,
	"strtold": true, "strtol": true, "strtoll": true, "strtoul": true, "strtoull": true,
	"rand": true, "srand": true, "calloc": true, "realloc": true, "abort": true,
	"atexit": true, "exit": true, "_Exit": true, "getenv": true, "system": true,
	"bsearch": true, "qsort": true, "abs": true, "labs": true, "llabs": true,
	"div": true, "ldiv": true, "lldiv": true, "mblen": true, "mbtowc": true,
	"wctomb": true, "mbstowcs": true, "wcstombs": true,
	// string.h
	"memmove": true, "strcpy": true, "strncpy": true, "strcat": true, "strncat": true,
	"memcmp": true, "strcmp": true, "strcoll": true, "strncmp": true, "strxfrm": true,
	"memchr": true, "strchr": true, "strcspn": true, "strpbrk": true, "strrchr": true,
	"strspn": true, "strstr": true, "strtok": true, "memset": true, "strerror": true,
}

// checkIdentifier rejects names that would not survive as C identifiers
func checkIdentifier(name string, pos ast.Pos) error {
	if !isCIdentifier(name) {
		return errorf(ErrInvalidIdentifier, pos, "%q is not a valid identifier", name)
	}
	if cKeywords[name] {
		return errorf(ErrInvalidIdentifier, pos, "%s is a C keyword", name)
	}
	if strings.HasPrefix(name, "__pd_") {
		return errorf(ErrInvalidIdentifier, pos, "%s uses the runtime prefix __pd_", name)
	}
	if reservedNames[name] {
		return errorf(ErrInvalidIdentifier, pos, "%s collides with a runtime name", name)
	}
	if headerMacros[name] {
		return errorf(ErrInvalidIdentifier, pos, "%s is a C library macro", name)
	}
	return nil
}

// checkEntryName is checkIdentifier plus the file-scope library names the
// entry function would otherwise redeclare.
func checkEntryName(name string) error {
	if err := checkIdentifier(name, ast.Pos{}); err != nil {
		return err
	}
	if libcNames[name] {
		return errorf(ErrInvalidIdentifier, ast.Pos{}, "%s collides with a C library name", name)
	}
	return nil
}

func isCIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
