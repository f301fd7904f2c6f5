package state

import (
	"gopkg.in/yaml.v3"

	"github.com/lkgv/pystan-pointer/domain"
)

// ExportedSymbol is one exported name's points-to set, stripped of
// context-specific detail and qualified to the empty context, as
// required for a module summary (§4.8).
type ExportedSymbol struct {
	Name    string                  `yaml:"name"`
	Objects []domain.AbstractObject `yaml:"objects"`
}

// ClassRegistration records a class_id + base tuple introduced by a
// module, so importers can extend MRO without re-analysing the
// defining module (§4.8).
type ClassRegistration struct {
	QualName string   `yaml:"qualName"`
	Bases    []string `yaml:"bases"`
}

// Summary is the exportable, context-free record of a single module's
// analysis (§4.8, §6). It outlives the per-module analysis and is
// consumed read-only by importers.
type Summary struct {
	Path string `yaml:"path"`

	Exports []ExportedSymbol `yaml:"exports"`

	// EscapedSites are the allocation sites reachable from any
	// export (stripped of context, since an AllocSite carries none).
	EscapedSites []domain.AllocSite `yaml:"escapedSites"`

	Classes []ClassRegistration `yaml:"classes"`

	// BuiltinAugmentations names any built-in summary the module
	// locally declared (e.g. via a recognised decorator factory),
	// augmenting the shared builtin table for its own analysis.
	BuiltinAugmentations []string `yaml:"builtinAugmentations"`
}

// Export looks up one exported symbol's points-to set by name.
func (s *Summary) Export(name string) (*ExportedSymbol, bool) {
	for i := range s.Exports {
		if s.Exports[i].Name == name {
			return &s.Exports[i], true
		}
	}
	return nil, false
}

// Marshal serialises the summary. No specific wire format is
// prescribed (§6); YAML is used here as it is already the
// serialization format this codebase reaches for elsewhere.
func (s *Summary) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

// UnmarshalSummary deserialises bytes produced by Marshal. Round
// tripping must preserve pts-equality for every exported symbol (§8).
func UnmarshalSummary(data []byte) (*Summary, error) {
	var s Summary
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Equal reports whether two summaries are pts-equal for every
// exported symbol, per the round-trip testable property (§8). It
// intentionally ignores slice ordering.
func (s *Summary) Equal(other *Summary) bool {
	if s.Path != other.Path || len(s.Exports) != len(other.Exports) {
		return false
	}
	for _, e := range s.Exports {
		oe, ok := other.Export(e.Name)
		if !ok {
			return false
		}
		if !sameObjects(e.Objects, oe.Objects) {
			return false
		}
	}
	return true
}

func sameObjects(a, b []domain.AbstractObject) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[domain.AbstractObject]struct{}, len(a))
	for _, o := range a {
		set[o] = struct{}{}
	}
	for _, o := range b {
		if _, ok := set[o]; !ok {
			return false
		}
	}
	return true
}
