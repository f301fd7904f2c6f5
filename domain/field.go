package domain

import "fmt"

// Reserved field selectors (§3, Field entity).
const (
	SelElem     = "elem"     // list/tuple/set positional element
	SelValue    = "value"    // dict value (keys are tracked separately; see KeyPrefix)
	SelSelf     = "__self__"
	SelFunc     = "__func__"
	SelClosure  = "__closure__"
	SelBases    = "__bases__"
	SelDict     = "__dict__"
	SelYield    = "__yield_value__"
	KeyPrefix   = "key:" // field_sensitivity_mode=attr-name dict-key tracking, e.g. "key:\"x\""
)

// Field is a (base_object, selector) pair naming a single storage
// location on an abstract object: a named attribute, a positional
// element tag, or a reserved internal selector.
type Field struct {
	Base     AbstractObject
	Selector string
}

// NewField constructs a Field.
func NewField(base AbstractObject, selector string) Field {
	return Field{Base: base, Selector: selector}
}

func (f Field) String() string {
	return fmt.Sprintf("%s.%s", f.Base, f.Selector)
}

// DictKeySelector returns the collapsed-vs-precise selector for a dict
// store/load with a statically known key literal, per
// field_sensitivity_mode (§6, §9 Open Questions). When collapsed, the
// aggregate SelValue selector is always used.
func DictKeySelector(collapsed bool, keyLiteral string) string {
	if collapsed || keyLiteral == "" {
		return SelValue
	}
	return KeyPrefix + keyLiteral
}
