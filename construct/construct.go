// Package construct lowers an RIR Prop or Rel expression to the automaton
// it denotes, given the alphabet and the FEC (before/after network state)
// the expression is being evaluated against. Grounded on
// rela/automata/constructor.py's FSTConstructor visitor: one function per
// rir.Op, each recursing into its sub-expressions before combining them
// with the matching automaton package primitive.
package construct

import (
	"fmt"
	"strings"

	"rela/automaton"
	"rela/network"
	"rela/rir"
)

// Context is the constructor's global state: the alphabet expressions are
// resolved against, and the FEC that PreState/PostState resolve to.
type Context struct {
	Alphabet map[string]struct{}
	FEC      network.FEC
}

// Lower builds the automaton a Prop expression denotes.
func Lower(ctx Context, p *rir.Prop) *automaton.Automaton {
	switch p.Op {
	case rir.PSymbol:
		return automaton.FromSymbol(p.Symbol)

	case rir.PPredicate:
		var matches []string
		for symbol := range ctx.Alphabet {
			if strings.Contains(symbol, p.Value) {
				matches = append(matches, symbol)
			}
		}
		return automaton.FromSymbols(matches...)

	case rir.PNegSymbols:
		return automaton.FromNegSymbols(p.Neg, ctx.Alphabet)

	case rir.PEmptySet:
		return automaton.Zero()

	case rir.PEpsilon:
		return automaton.One()

	case rir.PPreState:
		return fromFEC(ctx.FEC, false)

	case rir.PPostState:
		return fromFEC(ctx.FEC, true)

	case rir.PUnion:
		return automaton.Union(lowerAll(ctx, p.Sub)...)

	case rir.PConcat:
		return automaton.Concat(lowerAll(ctx, p.Sub)...)

	case rir.PStar:
		return automaton.Star(Lower(ctx, p.Sub[0]))

	case rir.PIntersect:
		return automaton.Intersect(lowerAll(ctx, p.Sub)...)

	case rir.PComplement:
		return automaton.Complement(Lower(ctx, p.Sub[0]), ctx.Alphabet)

	case rir.PImage:
		return automaton.Image(Lower(ctx, p.Sub[0]), LowerRel(ctx, p.Rel))

	case rir.PReverseImage:
		return automaton.ReverseImage(Lower(ctx, p.Sub[0]), LowerRel(ctx, p.Rel))

	default:
		panic(fmt.Errorf("construct: unhandled Prop op %v", p.Op))
	}
}

// LowerRel builds the automaton a Rel expression denotes.
func LowerRel(ctx Context, r *rir.Rel) *automaton.Automaton {
	switch r.Op {
	case rir.REmptySet:
		return automaton.Zero()

	case rir.REpsilon:
		return automaton.One()

	case rir.RIdentity:
		return Lower(ctx, r.P)

	case rir.RProduct:
		return automaton.Product(Lower(ctx, r.P), Lower(ctx, r.Q))

	case rir.RConcat:
		return automaton.Concat(lowerAllRel(ctx, r.Sub)...)

	case rir.RUnion:
		return automaton.Union(lowerAllRel(ctx, r.Sub)...)

	case rir.RStar:
		return automaton.Star(LowerRel(ctx, r.Sub[0]))

	case rir.RCompose:
		return automaton.Compose(lowerAllRel(ctx, r.Sub)...)

	case rir.RPriorityUnion:
		return automaton.PriorityUnion(ctx.Alphabet, lowerAllRel(ctx, r.Sub)...)

	default:
		panic(fmt.Errorf("construct: unhandled Rel op %v", r.Op))
	}
}

func lowerAll(ctx Context, subs []*rir.Prop) []*automaton.Automaton {
	out := make([]*automaton.Automaton, len(subs))
	for i, sub := range subs {
		out[i] = Lower(ctx, sub)
	}
	return out
}

func lowerAllRel(ctx Context, subs []*rir.Rel) []*automaton.Automaton {
	out := make([]*automaton.Automaton, len(subs))
	for i, sub := range subs {
		out[i] = LowerRel(ctx, sub)
	}
	return out
}

// fromFEC dispatches PreState/PostState construction on the FEC's
// concrete representation: a PathFEC builds from a path set, a GraphFEC
// from a forwarding graph.
func fromFEC(fec network.FEC, after bool) *automaton.Automaton {
	if fec == nil {
		panic(fmt.Errorf("construct: fec is not set"))
	}
	switch f := fec.(type) {
	case network.PathFEC:
		if after {
			return fromPathSet(f.AfterPaths())
		}
		return fromPathSet(f.BeforePaths())
	case network.GraphFEC:
		if after {
			return fromForwardingGraph(f.AfterGraph())
		}
		return fromForwardingGraph(f.BeforeGraph())
	default:
		panic(fmt.Errorf("construct: unsupported FEC type %T", fec))
	}
}
