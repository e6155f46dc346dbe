package counterexample

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"rela/network"
	"rela/rir"
)

func pathFEC(before, after []network.NetworkPath) *network.RelaPathFEC {
	return &network.RelaPathFEC{Before: before, After: after}
}

func sortedPaths(paths [][]string) [][]string {
	out := append([][]string(nil), paths...)
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		for k := 0; k < len(a) && k < len(b); k++ {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return len(a) < len(b)
	})
	return out
}

// Scenario 4 (spec.md §8.4), adapted to a path-set FEC: identity mapping
// over Sigma* on an FEC whose after-state adds one new path. The generator
// must surface exactly the new path, grouped under its starting symbol.
func TestCounterExampleCompleteness(t *testing.T) {
	fec := pathFEC(
		[]network.NetworkPath{{"r1", "r2", "r3"}},
		[]network.NetworkPath{{"r1", "r2", "r3"}, {"r1", "r4", "r3"}},
	)
	dot := rir.Star(rir.Neg())
	spec := rir.Equal(rir.Image(rir.PreState, rir.Identity(dot)), rir.PostState)

	recs, errs := Generate(spec, []FailingFEC{{ID: "fec-0", FEC: fec}})
	require.Empty(t, errs)
	require.Len(t, recs, 1)

	rec := recs[0]
	require.Equal(t, "fec-0", rec.FecID)
	require.Equal(t, [][]string{{"r1", "r2", "r3"}}, sortedPaths(rec.BeforePaths))
	require.Equal(t, sortedPaths([][]string{{"r1", "r2", "r3"}, {"r1", "r4", "r3"}}), sortedPaths(rec.AfterPaths))
	require.Equal(t, [][]string{{"r1", "r2", "r3"}}, sortedPaths(rec.LeftPaths))
	require.Equal(t, sortedPaths([][]string{{"r1", "r2", "r3"}, {"r1", "r4", "r3"}}), sortedPaths(rec.RightPaths))
}

func TestCounterExampleNoneOnPassingFEC(t *testing.T) {
	fec := pathFEC(
		[]network.NetworkPath{{"r1", "r2"}},
		[]network.NetworkPath{{"r1", "r2"}},
	)
	spec := rir.Equal(rir.PreState, rir.PostState)
	recs, errs := Generate(spec, []FailingFEC{{ID: "fec-0", FEC: fec}})
	require.Empty(t, errs)
	require.Empty(t, recs)
}

// Scenario 6 (spec.md §8.6): a disjunction only yields counterexamples for
// an FEC when both sides fail on it.
func TestSOrOnlyEmitsWhenBothSidesFail(t *testing.T) {
	oneSideFails := pathFEC(
		[]network.NetworkPath{{"a"}},
		[]network.NetworkPath{{"a"}},
	)
	bothSidesFail := pathFEC(
		[]network.NetworkPath{{"a"}},
		[]network.NetworkPath{{"b"}},
	)

	eq := rir.Equal(rir.PreState, rir.PostState)
	alwaysFails := rir.Equal(rir.Sym("x"), rir.Sym("y"))
	or := rir.Or(eq, alwaysFails)

	recs, errs := Generate(or, []FailingFEC{{ID: "one-side", FEC: oneSideFails}})
	require.Empty(t, errs)
	require.Empty(t, recs, "eq passes on this FEC even though alwaysFails doesn't, so SOr must not report it")

	recs2, errs2 := Generate(or, []FailingFEC{{ID: "both-sides", FEC: bothSidesFail}})
	require.Empty(t, errs2)
	require.NotEmpty(t, recs2, "both eq and alwaysFails fail on this FEC, so SOr should report both sides' records")
}

func TestSNotForwardsToChild(t *testing.T) {
	fec := pathFEC(
		[]network.NetworkPath{{"a"}},
		[]network.NetworkPath{{"b"}},
	)
	eq := rir.Equal(rir.PreState, rir.PostState)
	direct, _ := Generate(eq, []FailingFEC{{ID: "f", FEC: fec}})
	viaNot, _ := Generate(rir.Not(rir.Not(eq)), []FailingFEC{{ID: "f", FEC: fec}})
	require.Equal(t, len(direct), len(viaNot))
}

func TestNilFECReportsError(t *testing.T) {
	eq := rir.Equal(rir.PreState, rir.PostState)
	_, errs := Generate(eq, []FailingFEC{{ID: "missing", FEC: nil}})
	require.Contains(t, errs, "missing")
}
