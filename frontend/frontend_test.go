package frontend

import (
	"testing"

	"github.com/stretchr/testify/require"

	"rela/network"
	"rela/rir"
	"rela/verifier"
)

func TestFESpecString(t *testing.T) {
	a := rir.Sym("a")
	b := rir.Sym("b")
	anyPath := rir.Star(rir.Neg())

	spec := Concat(
		Atomic(a.Union(b), Remove(b)),
		Atomic(anyPath, Preserve()),
	)
	spec = Else(spec, Atomic(anyPath, Preserve()))

	require.Equal(t, "a + b : remove(b);\n.* : preserve;\nelse .* : preserve;", spec.String())
}

// A preserve-only FESpec over Sigma* compiles to
// "preState ▶ I(.*) = postState ▶ I(.*)", which judges the same as
// "preState = postState": it must pass on an FEC whose before/after states are identical and fail
// otherwise.
func TestCompilePreserveEquivalence(t *testing.T) {
	anyPath := rir.Star(rir.Neg())
	compiled := Compile(Atomic(anyPath, Preserve()))

	identical := &network.RelaPathFEC{
		Before: []network.NetworkPath{{"r1", "r2"}},
		After:  []network.NetworkPath{{"r1", "r2"}},
	}
	changed := &network.RelaPathFEC{
		Before: []network.NetworkPath{{"r1", "r2"}},
		After:  []network.NetworkPath{{"r1", "r3"}},
	}
	nc := &fakeChange{fecs: []network.FEC{identical, changed}}

	result := verifier.Verify(compiled, nc, nil)
	require.Equal(t, []int{0}, result.Passed)
	require.Equal(t, []int{1}, result.Failed)
}

// A replace FESpec over the single-symbol domain r2 rewrites r2 to r4: it
// passes on an FEC whose one-hop path r2 becomes r4.
func TestCompileReplace(t *testing.T) {
	r2 := rir.Sym("r2")
	r4 := rir.Sym("r4")
	compiled := Compile(Atomic(r2, Replace(r2, r4)))

	fec := &network.RelaPathFEC{
		Before: []network.NetworkPath{{"r2"}},
		After:  []network.NetworkPath{{"r4"}},
	}
	nc := &fakeChange{fecs: []network.FEC{fec}}
	result := verifier.Verify(compiled, nc, nil)
	require.Equal(t, []int{0}, result.Passed)
}

type fakeChange struct {
	fecs []network.FEC
}

func (c *fakeChange) Name() string           { return "fe-test" }
func (c *fakeChange) CountFEC() int          { return len(c.fecs) }
func (c *fakeChange) Iterate() []network.FEC { return c.fecs }
func (c *fakeChange) GetFEC(string) network.FEC { return nil }
