package domain

import "fmt"

// Variable is a (scope, name, context) triple. Variables that share a
// lexical scope and name but differ in Context are distinct entities:
// this is the mechanism by which k-CFA clones a function's locals per
// calling context.
type Variable struct {
	Scope string // function or module identifier
	Name  string
	Ctx   Context
}

// NewVariable constructs a Variable.
func NewVariable(scope, name string, ctx Context) Variable {
	return Variable{Scope: scope, Name: name, Ctx: ctx}
}

func (v Variable) String() string {
	return fmt.Sprintf("%s.%s@%s", v.Scope, v.Name, v.Ctx)
}

// ReturnName is the reserved name of a function's implicit return
// variable ($return in the spec's Return-constraint form).
const ReturnName = "$return"

// RaisedName is the reserved name of the implicit variable accumulating
// raised exception objects along reachable paths (§4.6, exception flow).
const RaisedName = "$raised"

// ReturnVariable builds the implicit $return variable for a scope.
func ReturnVariable(scope string, ctx Context) Variable {
	return NewVariable(scope, ReturnName, ctx)
}

// RaisedVariable builds the implicit $raised variable for a scope.
func RaisedVariable(scope string, ctx Context) Variable {
	return NewVariable(scope, RaisedName, ctx)
}

// SelfFnName is the reserved name of the implicit variable bound, at
// call dispatch, to the FUNCTION object currently executing. It is how
// a function body reaches its own closure cells (§4.6, §9).
const SelfFnName = "$fn"

// GenFrameName is the reserved name of the implicit variable bound, at
// call dispatch, to the function's generator-frame object, through
// which yield/await values flow (§4.6).
const GenFrameName = "$genframe"

// SelfFnVariable builds the implicit $fn variable for a scope.
func SelfFnVariable(scope string, ctx Context) Variable {
	return NewVariable(scope, SelfFnName, ctx)
}

// GenFrameVariable builds the implicit $genframe variable for a scope.
func GenFrameVariable(scope string, ctx Context) Variable {
	return NewVariable(scope, GenFrameName, ctx)
}

// CellSelector names the field on a FUNCTION object under which the
// closure cell for a captured free variable `name` is stored.
func CellSelector(name string) string {
	return "cell:" + name
}
