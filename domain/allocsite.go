package domain

import "fmt"

// Kind classifies the syntactic origin of an allocation site.
type Kind uint8

const (
	// KindInvalid marks the zero value; never a legal allocation kind.
	KindInvalid Kind = iota
	KindConst
	KindObject
	KindFunction
	KindClass
	KindModule
	KindMethod
	KindBoundMethod
	KindException
	KindGenFrame
	KindList
	KindDict
	KindTuple
	KindSet
	KindCell
	KindUnknown
)

var kindNames = [...]string{
	KindInvalid:     "invalid",
	KindConst:       "CONST",
	KindObject:      "OBJECT",
	KindFunction:    "FUNCTION",
	KindClass:       "CLASS",
	KindModule:      "MODULE",
	KindMethod:      "METHOD",
	KindBoundMethod: "BOUND_METHOD",
	KindException:   "EXCEPTION",
	KindGenFrame:    "GEN_FRAME",
	KindList:        "LIST",
	KindDict:        "DICT",
	KindTuple:       "TUPLE",
	KindSet:         "SET",
	KindCell:        "CELL",
	KindUnknown:     "UNKNOWN",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Callable reports whether an object of this kind can appear as the
// callee of a Call constraint (§4.4).
func (k Kind) Callable() bool {
	switch k {
	case KindFunction, KindClass, KindBoundMethod, KindMethod:
		return true
	}
	return false
}

// AllocSite identifies a single syntactic allocation point in the
// analysed program. Two sites are equal iff every field matches; this
// is what gives the analysis heap-cloning: the same AllocSite paired
// with distinct Contexts yields distinct AbstractObjects.
type AllocSite struct {
	File   string
	Line   int
	Column int
	Kind   Kind
	Name   string
}

// NewAllocSite constructs an allocation site. It is a thin constructor
// kept mainly for readability at call sites in the translator.
func NewAllocSite(file string, line, col int, kind Kind, name string) AllocSite {
	return AllocSite{File: file, Line: line, Column: col, Kind: kind, Name: name}
}

func (s AllocSite) String() string {
	if s.Name != "" {
		return fmt.Sprintf("%s@%s:%d:%d(%s)", s.Kind, s.File, s.Line, s.Column, s.Name)
	}
	return fmt.Sprintf("%s@%s:%d:%d", s.Kind, s.File, s.Line, s.Column)
}

// IsZero reports whether s is the zero value (never a valid site).
func (s AllocSite) IsZero() bool {
	return s == AllocSite{}
}
