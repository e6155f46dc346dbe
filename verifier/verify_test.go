package verifier

import (
	"testing"

	"github.com/stretchr/testify/require"

	"rela/ipguard"
	"rela/network"
	"rela/rir"
)

// fakeChange is a minimal network.NetworkChange over an in-memory FEC
// slice, used throughout this file in place of JSON-backed NetworkChange.
type fakeChange struct {
	name string
	fecs []network.FEC
}

func (c *fakeChange) Name() string           { return c.name }
func (c *fakeChange) CountFEC() int          { return len(c.fecs) }
func (c *fakeChange) Iterate() []network.FEC { return c.fecs }
func (c *fakeChange) GetFEC(dstIp string) network.FEC {
	for _, fec := range c.fecs {
		if fec == nil {
			continue
		}
		for _, k := range fec.GetIPTrafficKeys() {
			if k == dstIp {
				return fec
			}
		}
	}
	return nil
}

func pathFEC(before, after []network.NetworkPath, dstIp string) *network.RelaPathFEC {
	return &network.RelaPathFEC{
		Before:        before,
		After:         after,
		IpTrafficKeys: []network.IpTrafficKey{{DstIp: dstIp}},
	}
}

// Scenario 1: subpath replace — spec.md §8.1.
func TestSubpathReplacePasses(t *testing.T) {
	fec := pathFEC(
		[]network.NetworkPath{{"r1", "r2", "r3"}},
		[]network.NetworkPath{{"r1", "r4", "r3"}},
		"10.0.0.1",
	)
	change := &fakeChange{name: "subpath-replace", fecs: []network.FEC{fec}}

	dot := rir.Star(rir.Neg())
	spec := rir.Equal(
		rir.Image(rir.PreState, rir.Identity(dot).Concat(rir.Product(rir.Sym("r2"), rir.Sym("r4")), rir.Identity(dot))),
		rir.PostState,
	)

	result := Verify(spec, change, nil)
	require.Equal(t, []int{0}, result.Passed)
	require.Empty(t, result.Failed)
	require.True(t, result.OK())
}

// Scenario 2: link expansion — spec.md §8.2.
func TestLinkExpansion(t *testing.T) {
	dot := rir.Star(rir.Neg())
	spec := rir.Equal(
		rir.Image(rir.PreState, rir.Identity(dot).Concat(rir.Product(rir.Sym("r2"), rir.Sym("r2").Union(rir.Sym("r4"))), rir.Identity(dot))),
		rir.PostState,
	)

	passing := pathFEC(
		[]network.NetworkPath{{"r1", "r2", "r3"}},
		[]network.NetworkPath{{"r1", "r2", "r3"}, {"r1", "r4", "r3"}},
		"10.0.0.1",
	)
	change := &fakeChange{name: "link-expansion", fecs: []network.FEC{passing}}
	result := Verify(spec, change, nil)
	require.Equal(t, []int{0}, result.Passed)

	failing := pathFEC(
		[]network.NetworkPath{{"r1", "r2", "r3"}},
		[]network.NetworkPath{{"r1", "r2", "r3"}, {"r1", "r4", "r3"}, {"r1", "r5", "r3"}},
		"10.0.0.1",
	)
	change2 := &fakeChange{name: "link-expansion-extra", fecs: []network.FEC{failing}}
	result2 := Verify(spec, change2, nil)
	require.Equal(t, []int{0}, result2.Failed)

	subsetSpec := rir.SubsetEq(
		rir.Image(rir.PreState, rir.Identity(dot).Concat(rir.Product(rir.Sym("r2"), rir.Sym("r2").Union(rir.Sym("r4"))), rir.Identity(dot))),
		rir.PostState,
	)
	result3 := Verify(subsetSpec, change2, nil)
	require.Equal(t, []int{0}, result3.Passed)
}

// Scenario 5: prefix-guard — spec.md §8.5.
func TestPrefixGuard(t *testing.T) {
	preEqPost := rir.Equal(rir.PreState, rir.PostState)
	dot := rir.Star(rir.Neg())
	change := rir.Equal(
		rir.Image(rir.PreState, rir.Identity(dot).Concat(rir.Product(rir.Sym("r2"), rir.Sym("r4")), rir.Identity(dot))),
		rir.PostState,
	)
	guard := ipguard.New("10.0.0.0/8")

	fec := pathFEC(
		[]network.NetworkPath{{"r1", "r2", "r3"}},
		[]network.NetworkPath{{"r1", "r4", "r3"}},
		"10.1.2.3",
	)
	nc := &fakeChange{name: "guard", fecs: []network.FEC{fec}}

	thenChange := rir.PrefixITE(preEqPost, change, guard)
	result := Verify(thenChange, nc, nil)
	require.Equal(t, []int{0}, result.Failed, "guard should have selected preEqPost (then), which fails since the paths differ")

	swapped := rir.PrefixITE(change, preEqPost, guard)
	result2 := Verify(swapped, nc, nil)
	require.Equal(t, []int{0}, result2.Passed, "guard should have selected the subpath-replace spec (then), which passes")
}

func TestSNotInvertsPassAndFail(t *testing.T) {
	fec := pathFEC(
		[]network.NetworkPath{{"r1", "r2"}},
		[]network.NetworkPath{{"r1", "r2"}},
		"10.0.0.1",
	)
	change := &fakeChange{name: "identity", fecs: []network.FEC{fec}}

	eq := rir.Equal(rir.PreState, rir.PostState)
	result := Verify(eq, change, nil)
	require.Equal(t, []int{0}, result.Passed)

	notEq := rir.Not(eq)
	result2 := Verify(notEq, change, nil)
	require.Equal(t, []int{0}, result2.Failed)

	notNotEq := rir.Not(notEq)
	result3 := Verify(notNotEq, change, nil)
	require.Equal(t, result.Passed, result3.Passed)
	require.Equal(t, result.Failed, result3.Failed)
}

func TestSAndSOrSetAlgebra(t *testing.T) {
	matching := pathFEC([]network.NetworkPath{{"a"}}, []network.NetworkPath{{"a"}}, "1")
	mismatching := pathFEC([]network.NetworkPath{{"a"}}, []network.NetworkPath{{"b"}}, "2")
	change := &fakeChange{name: "mixed", fecs: []network.FEC{matching, mismatching}}

	eq := rir.Equal(rir.PreState, rir.PostState)
	alwaysTrue := rir.Equal(rir.Epsilon, rir.Epsilon)

	and := rir.And(eq, alwaysTrue)
	resultAnd := Verify(and, change, nil)
	require.Equal(t, []int{0}, resultAnd.Passed)
	require.Equal(t, []int{1}, resultAnd.Failed)

	or := rir.Or(eq, rir.Not(alwaysTrue))
	resultOr := Verify(or, change, nil)
	require.Equal(t, []int{0}, resultOr.Passed)
	require.Equal(t, []int{1}, resultOr.Failed)
}

func TestSelectionFiltersAndIsIdempotent(t *testing.T) {
	a := pathFEC([]network.NetworkPath{{"a"}}, []network.NetworkPath{{"a"}}, "1")
	b := pathFEC([]network.NetworkPath{{"a"}}, []network.NetworkPath{{"a"}}, "2")
	change := &fakeChange{name: "two", fecs: []network.FEC{a, b}}
	eq := rir.Equal(rir.PreState, rir.PostState)

	sel := Selection{1: {}}
	result := Verify(eq, change, sel)
	require.Equal(t, []int{1}, result.Passed)
	require.Empty(t, result.Failed)
	require.Empty(t, result.Skipped)

	result2 := Verify(eq, change, sel)
	require.Equal(t, result.Passed, result2.Passed)
}

func TestNilFECIsSkipped(t *testing.T) {
	good := pathFEC([]network.NetworkPath{{"a"}}, []network.NetworkPath{{"a"}}, "1")
	change := &fakeChange{name: "with-nil", fecs: []network.FEC{good, nil}}
	eq := rir.Equal(rir.PreState, rir.PostState)

	result := Verify(eq, change, nil)
	require.Equal(t, []int{0}, result.Passed)
	require.Equal(t, []int{1}, result.Skipped)
}

func TestReflexiveEqualAndSubsetEqAlwaysPass(t *testing.T) {
	fec := pathFEC([]network.NetworkPath{{"a", "b"}}, []network.NetworkPath{{"c"}}, "1")
	change := &fakeChange{name: "reflexive", fecs: []network.FEC{fec}}

	require.True(t, Verify(rir.Equal(rir.PreState, rir.PreState), change, nil).OK())
	require.True(t, Verify(rir.SubsetEq(rir.PreState, rir.PreState), change, nil).OK())
}
