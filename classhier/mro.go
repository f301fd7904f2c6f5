// Package classhier maintains class base relationships and computes
// method resolution order (MRO) by C3 linearization, with caching and
// a conservative fallback on inconsistency (§4.5).
package classhier

import (
	"strings"

	"github.com/lkgv/pystan-pointer/ir"
	"github.com/lkgv/pystan-pointer/state"
)

type cacheEntry struct {
	baseKey string
	mro     []string
}

// Hierarchy is the class-hierarchy service. It is conceptually
// write-once-per-program from the solver's perspective: Register calls
// arrive as CLASS objects are allocated, and MRO queries are answered
// (and cached) on demand (§4.5, §5).
type Hierarchy struct {
	bases   map[string][]string
	cache   map[string]cacheEntry
	unknown *state.Tracker
	site    ir.Site // last site seen, attached to inconsistency reports
}

// New returns an empty class hierarchy. tracker may be nil, in which
// case inconsistencies are silently handled (still falling back
// conservatively, just not logged).
func New(tracker *state.Tracker) *Hierarchy {
	return &Hierarchy{
		bases:   make(map[string][]string),
		cache:   make(map[string]cacheEntry),
		unknown: tracker,
	}
}

// Register records classID's ordered immediate bases. Re-registering
// with a changed base tuple invalidates any cached MRO for classID
// (§3 Invariants: "cached MRO is recomputed only if the class's base
// tuple is updated").
func (h *Hierarchy) Register(classID string, bases []string) {
	h.bases[classID] = append([]string(nil), bases...)
}

// Bootstrap seeds bases for a class whose definition lies outside the
// analysed sources, via the optional external ClassBootstrap
// collaborator (§6).
func (h *Hierarchy) Bootstrap(b ir.ClassBootstrap, classID string) {
	if b == nil {
		return
	}
	if bases, ok := b.Bases(classID); ok {
		if _, known := h.bases[classID]; !known {
			h.Register(classID, bases)
		}
	}
}

// Bases returns the immediate bases previously registered for
// classID, or nil if unknown.
func (h *Hierarchy) Bases(classID string) []string {
	return append([]string(nil), h.bases[classID]...)
}

func baseKey(bases []string) string {
	return strings.Join(bases, "\x1f")
}

// MRO returns the method resolution order for classID: a
// linearization in which the class precedes all its bases. It is
// memoized, keyed by classID and the hash of its current base tuple,
// so repeated queries (the common case -- base tuples rarely change)
// are O(1).
//
// On an inconsistent C3 linearization, MRO falls back to a
// conservative order (class itself, then depth-first, left-to-right
// pre-order over bases, deduplicated) and records the inconsistency
// in the unknown tracker, per §4.5.
func (h *Hierarchy) MRO(classID string) []string {
	bases := h.bases[classID]
	key := baseKey(bases)
	if e, ok := h.cache[classID]; ok && e.baseKey == key {
		return append([]string(nil), e.mro...)
	}

	mro, ok := linearizeC3(classID, h.bases)
	if !ok {
		if h.unknown != nil {
			h.unknown.Report(state.CategoryMissingDependencies, h.site,
				"C3 linearization inconsistent for %s; falling back to DFS preorder", classID)
		}
		mro = fallbackPreorder(classID, h.bases)
	}

	h.cache[classID] = cacheEntry{baseKey: key, mro: mro}
	return append([]string(nil), mro...)
}

// SetSite attaches a provenance site to subsequently reported
// inconsistencies (purely cosmetic; MRO itself is pure given its
// inputs).
func (h *Hierarchy) SetSite(site ir.Site) { h.site = site }

// linearizeC3 computes the C3 linearization of classID given the
// ordered-bases relation `bases`. It returns ok=false if no consistent
// merge exists (e.g. conflicting base orders).
func linearizeC3(classID string, bases map[string][]string) (out []string, ok bool) {
	seen := make(map[string]bool)
	return c3Merge(classID, bases, seen)
}

func c3Merge(classID string, bases map[string][]string, visiting map[string]bool) ([]string, bool) {
	if visiting[classID] {
		return nil, false // cyclic bases tuple; treat as inconsistent
	}
	visiting[classID] = true
	defer delete(visiting, classID)

	direct := bases[classID]
	if len(direct) == 0 {
		return []string{classID}, true
	}

	seqs := make([][]string, 0, len(direct)+1)
	for _, b := range direct {
		lin, ok := c3Merge(b, bases, visiting)
		if !ok {
			return nil, false
		}
		seqs = append(seqs, lin)
	}
	seqs = append(seqs, append([]string(nil), direct...))

	merged, ok := merge(seqs)
	if !ok {
		return nil, false
	}
	return append([]string{classID}, merged...), true
}

// merge implements the C3 merge step: repeatedly take the head of the
// first list that does not appear in the tail of any other list.
func merge(seqs [][]string) ([]string, bool) {
	var out []string
	for {
		seqs = removeEmpty(seqs)
		if len(seqs) == 0 {
			return out, true
		}
		var head string
		found := false
		for _, s := range seqs {
			candidate := s[0]
			if !inAnyTail(candidate, seqs) {
				head = candidate
				found = true
				break
			}
		}
		if !found {
			return nil, false
		}
		out = append(out, head)
		for i := range seqs {
			seqs[i] = removeHead(seqs[i], head)
		}
	}
}

func inAnyTail(x string, seqs [][]string) bool {
	for _, s := range seqs {
		for _, y := range s[1:] {
			if y == x {
				return true
			}
		}
	}
	return false
}

func removeHead(s []string, x string) []string {
	if len(s) > 0 && s[0] == x {
		return s[1:]
	}
	return s
}

func removeEmpty(seqs [][]string) [][]string {
	out := seqs[:0]
	for _, s := range seqs {
		if len(s) > 0 {
			out = append(out, s)
		}
	}
	return out
}

// fallbackPreorder produces the conservative linearization used when
// C3 fails: classID itself, then a depth-first, left-to-right
// pre-order walk over its transitive bases, deduplicated (§4.5).
func fallbackPreorder(classID string, bases map[string][]string) []string {
	var out []string
	seen := make(map[string]bool)
	var visit func(string)
	visit = func(c string) {
		if seen[c] {
			return
		}
		seen[c] = true
		out = append(out, c)
		for _, b := range bases[c] {
			visit(b)
		}
	}
	visit(classID)
	return out
}
