// Package ir defines the shape of the intermediate representation the
// core consumes from the (out-of-scope) parsing front end: a
// control-flow-graph-per-function form over a fixed statement kind
// set (§6). The core never parses source and never touches the
// filesystem; it only walks these types.
package ir

import "fmt"

// Site is the (file, line, column) provenance carried by every
// statement, reused verbatim as the position field of the AllocSite
// and call-site identifiers the core derives from it.
type Site struct {
	File   string
	Line   int
	Column int
}

func (s Site) String() string {
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
}

// ID returns a canonical string identifying this site, suitable for
// use as a call-string element under k-CFA.
func (s Site) ID() string {
	return s.String()
}

// StmtKind enumerates the fixed statement kinds the translator
// recognises (§6).
type StmtKind uint8

const (
	StmtInvalid StmtKind = iota
	StmtCopy
	StmtLiteral
	StmtContainerLiteral
	StmtLoadAttr
	StmtStoreAttr
	StmtLoadSubscript
	StmtStoreSubscript
	StmtCall
	StmtReturn
	StmtDefFunc
	StmtDefClass
	StmtImport
	StmtImportFrom
	StmtRaise
	StmtCatch
	StmtYield
	StmtAwait
	StmtWithEnter
	StmtWithExit
	StmtForIter
	StmtForNext
	StmtBinOp
	StmtDel
	StmtPhi
)

// ContainerKind distinguishes the built-in container literal forms.
type ContainerKind uint8

const (
	ContainerList ContainerKind = iota
	ContainerDict
	ContainerTuple
	ContainerSet
)

// Stmt is one instruction in a function's control-flow graph. Not
// every field is meaningful for every Kind; see the per-kind
// constructors in this package's callers (translate.Translator) for
// the fields each kind actually reads.
type Stmt struct {
	Kind StmtKind
	Site Site

	// Generic operands, named after their most common role.
	Dst  string // assigned variable name, when applicable
	Src  string // copied/loaded-from/raised variable name
	Src2 string // secondary operand (e.g. RHS of a binary op, store value)

	Selector string // attribute name, or dict key literal if statically known
	Key      string // for subscript ops: the statically-known key literal, if any

	Args    []string // call argument variable names
	Targets []string // catch targets, with-as targets, for-loop item targets

	Container ContainerKind
	Elements  []string // container literal element variable names (dict: value vars)
	Keys      []string // container literal key literals, parallel to Elements (dict only)

	Func      *FunctionIR // StmtDefFunc payload
	Class     *ClassIR    // StmtDefClass payload
	FreeVars  []string    // captured free variable names, for StmtDefFunc
	Decorator []string    // decorator callee variable names, innermost first

	Module   string // StmtImport/StmtImportFrom: imported module name
	FromName string // StmtImportFrom: the symbol being imported
	AsName   string // binding name for StmtImport/StmtImportFrom
}

// BasicBlock is a straight-line sequence of statements.
type BasicBlock struct {
	Index int
	Instr []*Stmt
}

// FunctionIR is the CFG of one function, method, or lambda as emitted
// by the external front end.
type FunctionIR struct {
	QualName string // globally unique qualified name, used as Variable.Scope
	Params   []string
	IsMethod bool // first param is a receiver
	Blocks   []*BasicBlock

	// FreeVars names the variables captured from an enclosing scope;
	// each is reached through a __closure__ cell (§4.6, §9).
	FreeVars []string
	// EnclosingScope is the scope (function or module) in which this
	// function is lexically defined; free variables are resolved
	// there at DefFunc time.
	EnclosingScope string
	// IsGenerator marks a function containing yield statements, so
	// the solver binds it a generator-frame identity at dispatch.
	IsGenerator bool

	// Site is the definition site, used to build the FUNCTION
	// AllocSite.
	Site Site
}

// AllBlocksInstrs iterates every statement across every block, in
// block order. The analysis is flow-insensitive, so this linear walk
// suffices for constraint generation (§4.2 design note).
func (f *FunctionIR) AllBlocksInstrs(yield func(*Stmt)) {
	for _, b := range f.Blocks {
		for _, s := range b.Instr {
			yield(s)
		}
	}
}

// ClassIR is the declaration of a class: its ordered base identifiers
// (for MRO) and the statements of its class-scope body, executed once
// to populate __dict__ (§4.6).
type ClassIR struct {
	QualName string
	Bases    []string // qualified names of immediate base classes
	Body     []*Stmt  // class-scope statements (defs, assignments, decorators)
	Site     Site
}

// ModuleIR is the top-level CFG of one source unit: a sequence of
// module-scope statements plus the functions and classes declared
// within it (for convenient registry pre-population by the composer).
type ModuleIR struct {
	Name      string
	Path      string
	Body      []*Stmt
	Functions []*FunctionIR
	Classes   []*ClassIR
	Exports   []string // names bound at module scope considered part of the public surface
}
