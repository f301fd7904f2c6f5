package state

import (
	"fmt"
	"sync/atomic"

	"github.com/lkgv/pystan-pointer/ir"
)

// Category is one of the nine unknown-resolution failure kinds (§7).
type Category uint8

const (
	CategoryCalleeEmpty Category = iota
	CategoryCalleeNonCallable
	CategoryFunctionNotInRegistry
	CategoryMissingDependencies
	CategoryDynamicAttribute
	CategoryFieldLoadEmpty
	CategoryImportNotFound
	CategoryAllocContextFailure
	CategoryTranslationError
)

var categoryNames = map[Category]string{
	CategoryCalleeEmpty:           "callee-empty",
	CategoryCalleeNonCallable:     "callee-non-callable",
	CategoryFunctionNotInRegistry: "function-not-in-registry",
	CategoryMissingDependencies:   "missing-dependencies",
	CategoryDynamicAttribute:      "dynamic-attribute",
	CategoryFieldLoadEmpty:        "field-load-empty",
	CategoryImportNotFound:        "import-not-found",
	CategoryAllocContextFailure:   "alloc-context-failure",
	CategoryTranslationError:      "translation-error",
}

func (c Category) String() string {
	if n, ok := categoryNames[c]; ok {
		return n
	}
	return fmt.Sprintf("Category(%d)", uint8(c))
}

// AllocatesUnknown reports whether this category's policy delivers a
// fresh UNKNOWN object to the target (every category except
// field-load-empty, which never allocates, and alloc-context-failure,
// which falls back to the empty context rather than allocating; see
// §7 Policy).
func (c Category) AllocatesUnknown() bool {
	switch c {
	case CategoryFieldLoadEmpty, CategoryAllocContextFailure:
		return false
	default:
		return true
	}
}

// Record is one logged unknown-resolution event.
type Record struct {
	Category Category
	Site     ir.Site
	Message  string
}

func (r Record) String() string {
	return fmt.Sprintf("[%s] %s: %s", r.Category, r.Site, r.Message)
}

// Tracker accumulates Records across an analysis run. Counting is
// always maintained (total_unknowns, §8); detailed Records are kept
// only when verbose/log_unknown_details is enabled, per §7 category 6
// and §6 track_unknowns/verbose/log_unknown_details.
type Tracker struct {
	verbose bool
	counts  [9]int64
	records []Record
}

// NewTracker returns a tracker with detailed recording disabled.
func NewTracker() *Tracker {
	return &Tracker{}
}

// SetVerbose toggles whether detailed Records are retained in
// addition to the running counters.
func (t *Tracker) SetVerbose(v bool) { t.verbose = v }

// Report records one unknown-resolution event.
func (t *Tracker) Report(cat Category, site ir.Site, format string, args ...interface{}) {
	atomic.AddInt64(&t.counts[cat], 1)
	if t.verbose {
		t.records = append(t.records, Record{Category: cat, Site: site, Message: fmt.Sprintf(format, args...)})
	}
}

// Total returns the sum of counts across all nine categories
// (total_unknowns, §8).
func (t *Tracker) Total() int {
	var n int64
	for _, c := range t.counts {
		n += c
	}
	return int(n)
}

// CountsByCategory returns a snapshot map of per-category counts.
func (t *Tracker) CountsByCategory() map[Category]int {
	out := make(map[Category]int, len(t.counts))
	for i, c := range t.counts {
		out[Category(i)] = int(c)
	}
	return out
}

// Records returns the detailed records collected so far (empty unless
// verbose was enabled). Its length equals Total() precisely when
// verbose tracking was enabled for the whole run (§8 "Unknown
// accounting").
func (t *Tracker) Records() []Record {
	return append([]Record(nil), t.records...)
}
