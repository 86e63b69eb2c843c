package hstype

import (
	"iter"
	"strings"
)

// Parse parses a type in the grammar
//
//	Type       := "()" | "(" Type ")" | "IO" Type | "Ptr" Type
//	            | "FunPtr" FunPtrArgs | PrimitiveName
//	FunPtrArgs := "(" ArrowList ")" | ArrowList
//	ArrowList  := Type ("->" Type)*
//
// Whitespace only separates tokens. The first error found is returned
// unchanged; parsing never yields a partial result.
func Parse(s string) (Type, error) {
	if !balanced(s) {
		return nil, ErrUnmatchedParenthesis
	}
	return parse(s)
}

// ParseSignature parses a bare arrow list such as "CString -> IO ()" into a
// function pointer, as if it were the argument of FunPtr.
func ParseSignature(s string) (*FunPtrType, error) {
	if !balanced(s) {
		return nil, ErrUnmatchedParenthesis
	}
	return parseArrowList(s)
}

func parse(s string) (Type, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "()":
		return Unit, nil
	case strings.HasPrefix(s, "("):
		if closing(s) != len(s)-1 {
			return nil, ErrUnmatchedParenthesis
		}
		return parse(s[1 : len(s)-1])
	case strings.HasPrefix(s, "IO"):
		elem, err := parse(s[len("IO"):])
		if err != nil {
			return nil, err
		}
		return IO(elem), nil
	case strings.HasPrefix(s, "Ptr"):
		elem, err := parse(s[len("Ptr"):])
		if err != nil {
			return nil, err
		}
		return Ptr(elem), nil
	case strings.HasPrefix(s, "FunPtr"):
		return parseArrowList(s[len("FunPtr"):])
	}
	if p, ok := LookupPrimitive(s); ok {
		return p, nil
	}
	return nil, unsupported(s)
}

func parseArrowList(s string) (*FunPtrType, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "(") && closing(s) == len(s)-1 {
		s = s[1 : len(s)-1]
	}

	var types []Type
	for piece := range Arrows(s) {
		t, err := parse(piece)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return FunPtr(types...)
}

// Arrows splits s on every "->" that is not nested inside parentheses.
// Pieces are yielded untrimmed, in order. Iteration stops for good once the
// remaining text is empty or whitespace; a trailing "->" therefore adds no
// piece. Calling Arrows again restarts from the beginning of s.
func Arrows(s string) iter.Seq[string] {
	return func(yield func(string) bool) {
		rest := s
		for strings.TrimSpace(rest) != "" {
			piece, next := rest, ""
			depth := 0
		scan:
			for i := 0; i < len(rest); i++ {
				switch rest[i] {
				case '(':
					depth++
				case ')':
					depth--
				case '-':
					if depth == 0 && strings.HasPrefix(rest[i:], "->") {
						piece, next = rest[:i], rest[i+len("->"):]
						break scan
					}
				}
			}
			if !yield(piece) {
				return
			}
			rest = next
		}
	}
}

// closing returns the index of the `)` matching the `(` at s[0], or -1.
func closing(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// balanced reports whether every `(` in s is closed and no `)` closes
// nothing.
func balanced(s string) bool {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}
