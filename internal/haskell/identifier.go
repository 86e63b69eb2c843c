package haskell

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Haskell 2010 reserved words, plus the FFI keywords.
var reservedWords = map[string]bool{
	"case":     true,
	"class":    true,
	"data":     true,
	"default":  true,
	"deriving": true,
	"do":       true,
	"else":     true,
	"foreign":  true,
	"if":       true,
	"import":   true,
	"in":       true,
	"infix":    true,
	"infixl":   true,
	"infixr":   true,
	"instance": true,
	"let":      true,
	"module":   true,
	"newtype":  true,
	"of":       true,
	"then":     true,
	"type":     true,
	"where":    true,
	"_":        true,
}

// varName turns a Go function name into a Haskell variable name: the first
// letter is lowered and reserved words get a trailing apostrophe.
func varName(goName string) string {
	r, size := utf8.DecodeRuneInString(goName)
	name := string(unicode.ToLower(r)) + goName[size:]
	if reservedWords[name] {
		return name + "'"
	}
	return name
}

// ModuleName derives a Haskell module name from a Go package name:
// "mylib" becomes "Mylib" and "my_lib" becomes "MyLib".
func ModuleName(pkgName string) string {
	var b strings.Builder
	for part := range strings.SplitSeq(pkgName, "_") {
		r, size := utf8.DecodeRuneInString(part)
		if r == utf8.RuneError {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(part[size:])
	}
	return b.String()
}

// validModuleName reports whether name is a dotted list of conids.
func validModuleName(name string) bool {
	if name == "" {
		return false
	}
	for part := range strings.SplitSeq(name, ".") {
		r, _ := utf8.DecodeRuneInString(part)
		if !unicode.IsUpper(r) {
			return false
		}
		for _, c := range part {
			if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '_' && c != '\'' {
				return false
			}
		}
	}
	return true
}
