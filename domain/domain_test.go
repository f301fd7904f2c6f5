package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocSiteEquality(t *testing.T) {
	a := NewAllocSite("m.py", 3, 1, KindObject, "A")
	b := NewAllocSite("m.py", 3, 1, KindObject, "A")
	c := NewAllocSite("m.py", 4, 1, KindObject, "A")
	assert.Equal(t, a, b, "identical sites should be equal")
	assert.NotEqual(t, a, c, "sites differing in line should not be equal")
}

func TestContextEmptySingleton(t *testing.T) {
	assert.Equal(t, Empty, NewSequenceContext(ShapeCallString, nil), "empty sequence must collapse to Empty")
	assert.Equal(t, Empty, NewHybridContext(nil, nil), "empty hybrid must collapse to Empty")
}

func TestContextDepthBudget(t *testing.T) {
	c := NewSequenceContext(ShapeCallString, []string{"s1", "s2"})
	require.Equal(t, 2, c.Depth())
	assert.Equal(t, []string{"s1", "s2"}, c.Elems())
}

func TestHybridContextParts(t *testing.T) {
	c := NewHybridContext([]string{"site1"}, []string{"objA", "objB"})
	parts := c.HybridParts()
	assert.Equal(t, []string{"site1"}, parts[0], "call-string half")
	assert.Equal(t, []string{"objA", "objB"}, parts[1], "object half")
	assert.Equal(t, 3, c.Depth())
}

func TestAbstractObjectHeapCloning(t *testing.T) {
	site := NewAllocSite("m.py", 10, 1, KindObject, "A")
	c1 := NewSequenceContext(ShapeCallString, []string{"site:1"})
	c2 := NewSequenceContext(ShapeCallString, []string{"site:2"})
	o1 := NewAbstractObject(site, c1)
	o2 := NewAbstractObject(site, c2)
	assert.NotEqual(t, o1, o2, "same site, different context, must be distinct objects")
	assert.Equal(t, o1, NewAbstractObject(site, c1), "identical pairing must compare equal")
}

func TestPointsToSetMonotone(t *testing.T) {
	s := NewPointsToSet(0)
	site := NewAllocSite("m.py", 1, 1, KindObject, "A")
	o := NewAbstractObject(site, Empty)
	require.True(t, s.Add(o), "first add should report growth")
	assert.False(t, s.Add(o), "duplicate add should report no growth")
	require.Equal(t, 1, s.Len())

	before := s.Slice()
	s2 := NewPointsToSet(0)
	s2.Add(o)
	site2 := NewAllocSite("m.py", 2, 1, KindObject, "B")
	s2.Add(NewAbstractObject(site2, Empty))
	require.True(t, s.UnionInto(s2), "union should report growth")
	assert.Greater(t, len(s.Slice()), len(before), "monotonicity violated")
}

func TestFieldDictKeySelector(t *testing.T) {
	assert.Equal(t, SelValue, DictKeySelector(true, `"x"`), "collapsed mode must use aggregate selector")
	assert.Equal(t, KeyPrefix+`"x"`, DictKeySelector(false, `"x"`), "precise mode must key by literal")
}
