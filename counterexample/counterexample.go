// Package counterexample computes, for a failing FEC, the concrete witness
// paths that explain why a Spec does not hold: the symmetric difference of
// the two sides' automata, enumerated and grouped by the starting symbol of
// each violating path. Grounded on
// rela/counterexample/counterexample.py.
package counterexample

import (
	"fmt"

	"github.com/projectdiscovery/gologger"

	"rela/automaton"
	"rela/construct"
	"rela/network"
	"rela/rir"
)

// CounterExample is one witness record for one FEC: the before/after
// network state restricted to paths starting with the violating symbol,
// and the left/right sides of the Spec similarly restricted. Grounded on
// rela/counterexample/counterexample.py's CounterExample dataclass.
type CounterExample struct {
	FecID      string
	Spec       string
	BeforePaths [][]string
	AfterPaths  [][]string
	LeftPaths   [][]string
	RightPaths  [][]string
}

// FailingFEC pairs a FEC with an identifier the caller assigns (e.g. its
// index, or a dstIp), mirroring how generate_counterexamples.py's CLI
// keys failing FECs.
type FailingFEC struct {
	ID  string
	FEC network.FEC
}

// Generate computes counterexamples for spec over every fec in fecs. A
// per-FEC failure (construction panic) is reported via errs and otherwise
// skipped, mirroring §7's "Counterexample generation failure at a specific
// FEC: FEC id is added to error_cases; other FECs continue."
func Generate(spec *rir.Spec, fecs []FailingFEC) (results []CounterExample, errs map[string]error) {
	errs = map[string]error{}
	for _, ff := range fecs {
		if ff.FEC == nil {
			errs[ff.ID] = fmt.Errorf("counterexample: FEC is nil")
			continue
		}
		recs, err := generateOne(spec, ff.ID, ff.FEC)
		if err != nil {
			gologger.Warning().Msgf("Skipping counterexample generation for FEC %s: %v", ff.ID, err)
			errs[ff.ID] = err
			continue
		}
		results = append(results, recs...)
	}
	return results, errs
}

// generateOne dispatches per spec.Op: SEqual/SSubsetEq are atomic judgments
// handled directly; SNot forwards to its child; SAnd unions both sides'
// records; SPrefixITE forwards to fec's resolved branch; SOr keeps
// records only when fec fails on both sides, per §4.6 and §9's explicit
// resolution of the SOr ambiguity.
func generateOne(spec *rir.Spec, fecID string, fec network.FEC) (recs []CounterExample, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()

	switch spec.Op {
	case rir.SEqual, rir.SSubsetEq:
		return atomicCounterExamples(spec, fecID, fec), nil

	case rir.SNot:
		return generateOne(spec.Sub[0], fecID, fec)

	case rir.SAnd:
		l, errL := generateOne(spec.Sub[0], fecID, fec)
		if errL != nil {
			return nil, errL
		}
		r, errR := generateOne(spec.Sub[1], fecID, fec)
		if errR != nil {
			return nil, errR
		}
		return append(l, r...), nil

	case rir.SPrefixITE:
		return generateOne(resolvedBranch(spec, fec), fecID, fec)

	case rir.SOr:
		lFails := atomicFails(spec.Sub[0], fec)
		rFails := atomicFails(spec.Sub[1], fec)
		if !lFails || !rFails {
			return nil, nil
		}
		l, errL := generateOne(spec.Sub[0], fecID, fec)
		if errL != nil {
			return nil, errL
		}
		r, errR := generateOne(spec.Sub[1], fecID, fec)
		if errR != nil {
			return nil, errR
		}
		return append(l, r...), nil

	default:
		return nil, fmt.Errorf("counterexample: unhandled Spec op %v", spec.Op)
	}
}

// resolvedBranch picks SPrefixITE's then/else branch for fec the same way
// verifier.decidePrefixITE does: then on the first IP key that falls into
// the guard's prefix list, else otherwise (§4.5 step 3).
func resolvedBranch(spec *rir.Spec, fec network.FEC) *rir.Spec {
	for _, dip := range fec.GetIPTrafficKeys() {
		if spec.Guard.Contains(dip) {
			return spec.Then
		}
	}
	return spec.Else
}

// atomicFails reports whether spec yields at least one counterexample
// record on fec, used to decide SOr's "both sides failed" gate. For an
// SEqual/SSubsetEq that is whether it fails; an SNot-wrapped spec counts
// as failing when its child fails, since generateOne forwards SNot to the
// child.
func atomicFails(spec *rir.Spec, fec network.FEC) bool {
	recs, err := generateOne(spec, "", fec)
	return err == nil && len(recs) > 0
}

func atomicCounterExamples(spec *rir.Spec, fecID string, fec network.FEC) []CounterExample {
	alphabet := alphabetFor(spec, fec)
	ctx := construct.Context{Alphabet: alphabet, FEC: fec}

	l := construct.Lower(ctx, spec.P)
	r := construct.Lower(ctx, spec.Q)
	pre := construct.Lower(ctx, rir.PreState)
	post := construct.Lower(ctx, rir.PostState)

	extra := automaton.Minus(l, r, alphabet)
	var missing *automaton.Automaton
	if spec.Op == rir.SEqual {
		missing = automaton.Minus(r, l, alphabet)
	} else {
		missing = automaton.Zero()
	}
	violating := automaton.Union(extra, missing)

	starts := startingSymbols(violating)
	if len(starts) == 0 {
		return nil
	}

	specStr := spec.String()
	recs := make([]CounterExample, 0, len(starts))
	for _, sym := range starts {
		filter := startsWithFilter(sym, alphabet)
		recs = append(recs, CounterExample{
			FecID:       fecID,
			Spec:        specStr,
			BeforePaths: automaton.ExtractPaths(automaton.Intersect(pre, filter)),
			AfterPaths:  automaton.ExtractPaths(automaton.Intersect(post, filter)),
			LeftPaths:   automaton.ExtractPaths(automaton.Intersect(l, filter)),
			RightPaths:  automaton.ExtractPaths(automaton.Intersect(r, filter)),
		})
	}
	return recs
}

func alphabetFor(spec *rir.Spec, fec network.FEC) map[string]struct{} {
	alphabet := fec.ComputeAlphabet()
	if alphabet == nil {
		alphabet = map[string]struct{}{}
	}
	for sym := range rir.ScanProp(spec.P) {
		alphabet[sym] = struct{}{}
	}
	for sym := range rir.ScanProp(spec.Q) {
		alphabet[sym] = struct{}{}
	}
	return alphabet
}

// startsWithFilter builds {sym} . Σ*, the automaton accepting any path
// that begins with sym, mirroring the "sym . Sigma*" regex the original
// builds per violating flow.
func startsWithFilter(sym string, alphabet map[string]struct{}) *automaton.Automaton {
	symbols := make([]string, 0, len(alphabet))
	for s := range alphabet {
		symbols = append(symbols, s)
	}
	dotStar := automaton.Star(automaton.FromSymbols(symbols...))
	return automaton.Concat(automaton.FromSymbol(sym), dotStar)
}

// startingSymbols returns the set of first symbols among every acyclic
// path a accepts, the "violating flow set" D of §4.6 step 3.
func startingSymbols(a *automaton.Automaton) []string {
	seen := map[string]struct{}{}
	for _, path := range automaton.ExtractPaths(a) {
		if len(path) == 0 {
			continue
		}
		seen[path[0]] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	return out
}
