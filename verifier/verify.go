// Package verifier decides, for each FEC of a NetworkChange, whether a Spec
// holds: equality or containment between the automata the left/right Prop
// operands lower to, fusing atomic outcomes across Boolean combinators by
// per-FEC-index set algebra. Grounded on
// rela/verification/specverifier.py and verificationresult.py.
package verifier

import (
	"fmt"

	"github.com/projectdiscovery/gologger"

	"rela/automaton"
	"rela/construct"
	"rela/ipguard"
	"rela/network"
	"rela/rir"
)

// Selection restricts verification to a subset of FEC indices. A nil
// Selection means "every FEC in the change", mirroring verify's
// selected_indices optional parameter.
type Selection map[int]struct{}

// Includes reports whether idx is selected: every index, when sel is nil.
func (sel Selection) Includes(idx int) bool {
	if sel == nil {
		return true
	}
	_, ok := sel[idx]
	return ok
}

// Verify decides spec against every selected FEC of change, returning the
// aggregated Result. Grounded on specverifier.py's verify entry point.
func Verify(spec *rir.Spec, change network.NetworkChange, sel Selection) Result {
	fecs := change.Iterate()
	p, f, s := decide(spec, fecs, sel)
	return Result{
		Data:    change.Name(),
		Spec:    spec.String(),
		NTotal:  len(fecs),
		Passed:  sortedIndices(p),
		Failed:  sortedIndices(f),
		Skipped: sortedIndices(s),
	}
}

// indexSet is an unordered set of FEC indices, the unit Boolean combinators
// compose by intersection/union/difference.
type indexSet map[int]struct{}

func newIndexSet(indices ...int) indexSet {
	s := make(indexSet, len(indices))
	for _, i := range indices {
		s[i] = struct{}{}
	}
	return s
}

func (s indexSet) union(other indexSet) indexSet {
	out := make(indexSet, len(s)+len(other))
	for i := range s {
		out[i] = struct{}{}
	}
	for i := range other {
		out[i] = struct{}{}
	}
	return out
}

func (s indexSet) intersect(other indexSet) indexSet {
	out := indexSet{}
	for i := range s {
		if _, ok := other[i]; ok {
			out[i] = struct{}{}
		}
	}
	return out
}

func (s indexSet) minus(other indexSet) indexSet {
	out := indexSet{}
	for i := range s {
		if _, ok := other[i]; !ok {
			out[i] = struct{}{}
		}
	}
	return out
}

func sortedIndices(s indexSet) []int {
	out := make([]int, 0, len(s))
	for i := range s {
		out = append(out, i)
	}
	// insertion sort is fine here: FEC counts are small and this keeps
	// the dependency surface to what the kernel already imports.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// decide recursively evaluates spec over fecs, returning the (passed,
// failed, skipped) index sets per §4.5's Boolean combinator set algebra.
func decide(spec *rir.Spec, fecs []network.FEC, sel Selection) (passed, failed, skipped indexSet) {
	switch spec.Op {
	case rir.SEqual, rir.SSubsetEq:
		return decideAtomic(spec, fecs, sel)

	case rir.SNot:
		p, f, s := decide(spec.Sub[0], fecs, sel)
		return f, p, s

	case rir.SAnd:
		p1, f1, s1 := decide(spec.Sub[0], fecs, sel)
		p2, f2, s2 := decide(spec.Sub[1], fecs, sel)
		s := s1.union(s2)
		return p1.intersect(p2).minus(s), f1.union(f2).minus(s), s

	case rir.SOr:
		p1, f1, s1 := decide(spec.Sub[0], fecs, sel)
		p2, f2, s2 := decide(spec.Sub[1], fecs, sel)
		s := s1.union(s2)
		return p1.union(p2).minus(s), f1.intersect(f2).minus(s), s

	case rir.SPrefixITE:
		return decidePrefixITE(spec, fecs, sel)

	default:
		panic(fmt.Errorf("verifier: unhandled Spec op %v", spec.Op))
	}
}

// decidePrefixITE resolves each FEC to spec.Then or spec.Else per its guard
// before evaluating, grouping the resolved FECs by branch so each branch's
// set-algebra result only ever reflects the FECs it was asked to decide.
// A selected nil (unparseable) FEC goes to neither branch and is skipped.
func decidePrefixITE(spec *rir.Spec, fecs []network.FEC, sel Selection) (passed, failed, skipped indexSet) {
	thenSel := Selection{}
	elseSel := Selection{}
	nilSkipped := indexSet{}
	for idx, fec := range fecs {
		if !sel.Includes(idx) {
			continue
		}
		if fec == nil {
			nilSkipped[idx] = struct{}{}
			continue
		}
		if matchesGuard(fec, spec.Guard) {
			thenSel[idx] = struct{}{}
		} else {
			elseSel[idx] = struct{}{}
		}
	}
	pT, fT, sT := decide(spec.Then, fecs, thenSel)
	pE, fE, sE := decide(spec.Else, fecs, elseSel)
	return pT.union(pE), fT.union(fE), sT.union(sE).union(nilSkipped)
}

func matchesGuard(fec network.FEC, guard ipguard.Guard) bool {
	for _, dip := range fec.GetIPTrafficKeys() {
		if guard.Contains(dip) {
			return true
		}
	}
	return false
}

// decideAtomic builds both sides of an SEqual/SSubsetEq for every selected,
// parseable FEC and decides the relation, catching any panic raised during
// construction or decision as a skip rather than a failure, per §7's
// "Automaton construction or decision failure at a specific FEC" contract.
func decideAtomic(spec *rir.Spec, fecs []network.FEC, sel Selection) (passed, failed, skipped indexSet) {
	p, f, s := indexSet{}, indexSet{}, indexSet{}
	specAlphabet := rir.ScanProp(spec.P)
	for sym := range rir.ScanProp(spec.Q) {
		specAlphabet[sym] = struct{}{}
	}

	for idx, fec := range fecs {
		if !sel.Includes(idx) {
			continue
		}
		if fec == nil {
			s[idx] = struct{}{}
			continue
		}
		ok, err := decideOne(spec, fec, specAlphabet)
		if err != nil {
			gologger.Warning().Msgf("Skipping FEC #%d: %v", idx, err)
			s[idx] = struct{}{}
			continue
		}
		if ok {
			p[idx] = struct{}{}
		} else {
			f[idx] = struct{}{}
		}
	}
	return p, f, s
}

func decideOne(spec *rir.Spec, fec network.FEC, specAlphabet rir.Alphabet) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()

	alphabet := fec.ComputeAlphabet()
	if alphabet == nil {
		alphabet = map[string]struct{}{}
	}
	for sym := range specAlphabet {
		alphabet[sym] = struct{}{}
	}

	ctx := construct.Context{Alphabet: alphabet, FEC: fec}
	l := construct.Lower(ctx, spec.P)
	r := construct.Lower(ctx, spec.Q)

	switch spec.Op {
	case rir.SEqual:
		return automaton.Equiv(l, r), nil
	case rir.SSubsetEq:
		return automaton.Subseteq(l, r), nil
	default:
		return false, fmt.Errorf("verifier: decideOne called with non-atomic op %v", spec.Op)
	}
}
