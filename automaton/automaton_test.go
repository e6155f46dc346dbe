package automaton

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func acceptsStr(a *Automaton, syms ...string) bool {
	labels := make([][2]string, len(syms))
	for i, s := range syms {
		labels[i] = [2]string{s, s}
	}
	return Accepts(a, labels...)
}

func TestZeroOneSymbol(t *testing.T) {
	require.False(t, acceptsStr(Zero()))
	require.True(t, acceptsStr(One()))
	require.False(t, acceptsStr(One(), "a"))

	a := FromSymbol("a")
	require.True(t, acceptsStr(a, "a"))
	require.False(t, acceptsStr(a))
	require.False(t, acceptsStr(a, "b"))
}

func TestConcatUnionStar(t *testing.T) {
	ab := Concat(FromSymbol("a"), FromSymbol("b"))
	require.True(t, acceptsStr(ab, "a", "b"))
	require.False(t, acceptsStr(ab, "a"))
	require.False(t, acceptsStr(ab, "b", "a"))

	aOrB := Union(FromSymbol("a"), FromSymbol("b"))
	require.True(t, acceptsStr(aOrB, "a"))
	require.True(t, acceptsStr(aOrB, "b"))
	require.False(t, acceptsStr(aOrB, "a", "b"))

	aStar := Star(FromSymbol("a"))
	require.True(t, acceptsStr(aStar))
	require.True(t, acceptsStr(aStar, "a"))
	require.True(t, acceptsStr(aStar, "a", "a", "a"))
	require.False(t, acceptsStr(aStar, "b"))
}

func TestIntersectAndComplement(t *testing.T) {
	alphabet := map[string]struct{}{"a": {}, "b": {}}

	abOrBa := Union(
		Concat(FromSymbol("a"), FromSymbol("b")),
		Concat(FromSymbol("b"), FromSymbol("a")),
	)
	aThenAny := Concat(FromSymbol("a"), FromSymbols("a", "b"))
	onlyAB := Intersect(abOrBa, aThenAny)
	require.True(t, acceptsStr(onlyAB, "a", "b"))
	require.False(t, acceptsStr(onlyAB, "b", "a"))

	notA := Complement(FromSymbol("a"), alphabet)
	require.False(t, acceptsStr(notA, "a"))
	require.True(t, acceptsStr(notA, "b"))
	require.True(t, acceptsStr(notA))
}

func TestEquivAndSubseteq(t *testing.T) {
	aOrB1 := Union(FromSymbol("a"), FromSymbol("b"))
	aOrB2 := Union(FromSymbol("b"), FromSymbol("a"))
	require.True(t, Equiv(aOrB1, aOrB2))

	justA := FromSymbol("a")
	require.False(t, Equiv(justA, aOrB1))
	require.True(t, Subseteq(justA, aOrB1))
	require.False(t, Subseteq(aOrB1, justA))
}

func TestProductAndImage(t *testing.T) {
	left := FromSymbol("a")
	right := FromSymbol("b")
	prod := Product(left, right)
	require.True(t, Accepts(prod, [2]string{"a", "b"}))
	require.False(t, Accepts(prod, [2]string{"a", "a"}))

	img := Image(left, prod)
	require.True(t, acceptsStr(img, "b"))
	require.False(t, acceptsStr(img, "a"))

	rev := ReverseImage(right, prod)
	require.True(t, acceptsStr(rev, "a"))
}

func TestExtractPathsIsAcyclic(t *testing.T) {
	loop := Star(FromSymbol("a"))
	paths := ExtractPaths(loop)
	require.Len(t, paths, 2)
	require.Len(t, paths[0], 0)
	require.Equal(t, []string{"a"}, paths[1])
}

func TestPriorityUnion(t *testing.T) {
	alphabet := map[string]struct{}{"a": {}}
	r1 := Product(FromSymbol("a"), FromSymbol("a"))
	r2 := Product(FromSymbol("a"), FromSymbol("b"))
	pu := PriorityUnion(alphabet, r1, r2)
	require.True(t, Accepts(pu, [2]string{"a", "b"}))
	require.False(t, Accepts(pu, [2]string{"a", "a"}))
}

// TestPriorityUnionRestrictsByInput exercises an operand whose output
// differs from its input, so overlap must be judged on the INPUT track: a
// naive implementation that restricts the accumulator by its output track
// instead would let r1's mapping leak through alongside r2's.
func TestPriorityUnionRestrictsByInput(t *testing.T) {
	alphabet := map[string]struct{}{"a": {}, "x": {}, "y": {}}
	r1 := Product(FromSymbol("a"), FromSymbol("x"))
	r2 := Product(FromSymbol("a"), FromSymbol("y"))
	pu := PriorityUnion(alphabet, r1, r2)
	require.True(t, Accepts(pu, [2]string{"a", "y"}))
	require.False(t, Accepts(pu, [2]string{"a", "x"}))
}
