package rir

import "slices"

// Alphabet is a set of literal symbols, as collected by Scan*.
type Alphabet map[string]struct{}

func (a Alphabet) add(sym string) { a[sym] = struct{}{} }

func (a Alphabet) addAll(b Alphabet) {
	for sym := range b {
		a[sym] = struct{}{}
	}
}

// Sorted returns the alphabet's symbols in ascending order, for callers
// that need a deterministic iteration order (DOT export, path enumeration).
func (a Alphabet) Sorted() []string {
	out := make([]string, 0, len(a))
	for sym := range a {
		out = append(out, sym)
	}
	slices.Sort(out)
	return out
}

// ScanProp collects every literal symbol a Prop expression introduces.
// PPredicate contributes nothing: its matching set is resolved against the
// live network alphabet at construction time (construct package), not here.
func ScanProp(p *Prop) Alphabet {
	out := Alphabet{}
	switch p.Op {
	case PSymbol:
		out.add(p.Symbol)
	case PPredicate, PEmptySet, PEpsilon, PPreState, PPostState:
		// no literal symbols
	case PNegSymbols:
		for _, sym := range p.Neg {
			out.add(sym)
		}
	case PUnion, PConcat, PIntersect:
		for _, arg := range p.Sub {
			out.addAll(ScanProp(arg))
		}
	case PStar, PComplement:
		out.addAll(ScanProp(p.Sub[0]))
	case PImage, PReverseImage:
		out.addAll(ScanProp(p.Sub[0]))
		out.addAll(ScanRel(p.Rel))
	}
	return out
}

// ScanRel collects every literal symbol a Rel expression introduces.
func ScanRel(r *Rel) Alphabet {
	out := Alphabet{}
	switch r.Op {
	case RProduct:
		out.addAll(ScanProp(r.P))
		out.addAll(ScanProp(r.Q))
	case RIdentity:
		out.addAll(ScanProp(r.P))
	case REmptySet, REpsilon:
		// no literal symbols
	case RUnion, RConcat, RCompose, RPriorityUnion:
		for _, arg := range r.Sub {
			out.addAll(ScanRel(arg))
		}
	case RStar:
		out.addAll(ScanRel(r.Sub[0]))
	}
	return out
}

// ScanSpec collects every literal symbol a Spec expression introduces.
func ScanSpec(s *Spec) Alphabet {
	out := Alphabet{}
	switch s.Op {
	case SEqual, SSubsetEq:
		out.addAll(ScanProp(s.P))
		out.addAll(ScanProp(s.Q))
	case SNot:
		out.addAll(ScanSpec(s.Sub[0]))
	case SAnd, SOr:
		out.addAll(ScanSpec(s.Sub[0]))
		out.addAll(ScanSpec(s.Sub[1]))
	case SPrefixITE:
		out.addAll(ScanSpec(s.Then))
		out.addAll(ScanSpec(s.Else))
	}
	return out
}
