package rir

import (
	"strings"
	"unicode/utf8"
)

// String renders p with the same minimal-parenthesization rules as the
// original pretty-printer: concatenation binds tightest, union next,
// intersection and complement bind around image/reverse-image, and a
// multi-rune PSymbol is parenthesized when it appears inside a PConcat
// (since adjacent symbols would otherwise read as one longer symbol).
func (p *Prop) String() string {
	switch p.Op {
	case PSymbol:
		return p.Symbol
	case PPredicate:
		return "{" + p.Field + "=" + p.Value + "}"
	case PNegSymbols:
		if len(p.Neg) == 0 {
			return "."
		}
		parts := make([]string, len(p.Neg))
		for i, sym := range p.Neg {
			if len(sym) == 1 {
				parts[i] = sym
			} else {
				parts[i] = "(" + sym + ")"
			}
		}
		return "[^" + strings.Join(parts, "") + "]"
	case PEmptySet:
		return "0"
	case PEpsilon:
		return "1"
	case PPreState:
		return "preState"
	case PPostState:
		return "postState"
	case PConcat:
		parts := make([]string, len(p.Sub))
		for i, arg := range p.Sub {
			parts[i] = parenIf(arg, pConcatNeedsParen(arg))
		}
		return strings.Join(parts, "")
	case PUnion:
		parts := make([]string, len(p.Sub))
		for i, arg := range p.Sub {
			parts[i] = parenIf(arg, arg.Op == PIntersect || arg.Op == PImage || arg.Op == PReverseImage)
		}
		return strings.Join(parts, " + ")
	case PStar:
		arg := p.Sub[0]
		if arg.Op == PSymbol || arg.Op == PNegSymbols {
			return arg.String() + "*"
		}
		return "(" + arg.String() + ")*"
	case PIntersect:
		parts := make([]string, len(p.Sub))
		for i, arg := range p.Sub {
			parts[i] = parenIf(arg, arg.Op == PUnion || arg.Op == PComplement || arg.Op == PImage || arg.Op == PReverseImage)
		}
		return strings.Join(parts, " ∩ ")
	case PComplement:
		arg := p.Sub[0]
		if arg.Op == PUnion || arg.Op == PIntersect || arg.Op == PImage || arg.Op == PReverseImage {
			return "~(" + arg.String() + ")"
		}
		return "~" + arg.String()
	case PImage:
		arg := p.Sub[0]
		pStr := parenIf(arg, arg.Op == PUnion || arg.Op == PIntersect || arg.Op == PImage || arg.Op == PReverseImage)
		rStr := parenIfRel(p.Rel, p.Rel.Op == RUnion || p.Rel.Op == RProduct)
		return pStr + " ▶ " + rStr
	case PReverseImage:
		arg := p.Sub[0]
		pStr := parenIf(arg, arg.Op == PUnion || arg.Op == PIntersect || arg.Op == PImage || arg.Op == PReverseImage)
		rStr := parenIfRel(p.Rel, p.Rel.Op == RUnion || p.Rel.Op == RProduct)
		return rStr + " ◀ " + pStr
	default:
		return "?"
	}
}

func pConcatNeedsParen(arg *Prop) bool {
	switch arg.Op {
	case PUnion, PIntersect, PComplement, PImage, PReverseImage:
		return true
	case PSymbol:
		return utf8.RuneCountInString(arg.Symbol) > 1
	default:
		return false
	}
}

func parenIf(p *Prop, paren bool) string {
	if paren {
		return "(" + p.String() + ")"
	}
	return p.String()
}

func parenIfRel(r *Rel, paren bool) string {
	if paren {
		return "(" + r.String() + ")"
	}
	return r.String()
}

// String renders r with the original's parenthesization: RProduct shown as
// "p x q", RConcat/RUnion/RCompose/RPriorityUnion parenthesize an RProduct
// operand (and RConcat also an RUnion operand), RStar parenthesizes any
// multi-term operand.
func (r *Rel) String() string {
	switch r.Op {
	case RProduct:
		pStr := parenIf(r.P, r.P.Op == PUnion || r.P.Op == PIntersect || r.P.Op == PImage || r.P.Op == PReverseImage)
		qStr := parenIf(r.Q, r.Q.Op == PUnion || r.Q.Op == PIntersect || r.Q.Op == PImage || r.Q.Op == PReverseImage)
		return pStr + " x " + qStr
	case RIdentity:
		return "I(" + r.P.String() + ")"
	case REmptySet:
		return "0"
	case REpsilon:
		return "1"
	case RConcat:
		parts := make([]string, len(r.Sub))
		for i, arg := range r.Sub {
			parts[i] = parenIfRel(arg, arg.Op == RUnion || arg.Op == RProduct)
		}
		return strings.Join(parts, "")
	case RUnion:
		parts := make([]string, len(r.Sub))
		for i, arg := range r.Sub {
			parts[i] = parenIfRel(arg, arg.Op == RProduct)
		}
		return strings.Join(parts, " + ")
	case RCompose:
		parts := make([]string, len(r.Sub))
		for i, arg := range r.Sub {
			parts[i] = parenIfRel(arg, arg.Op == RProduct)
		}
		return strings.Join(parts, " o ")
	case RPriorityUnion:
		parts := make([]string, len(r.Sub))
		for i, arg := range r.Sub {
			parts[i] = parenIfRel(arg, arg.Op == RProduct)
		}
		return strings.Join(parts, " // ")
	case RStar:
		arg := r.Sub[0]
		if arg.Op == RConcat || arg.Op == RUnion || arg.Op == RProduct || arg.Op == RCompose || arg.Op == RPriorityUnion {
			return "(" + arg.String() + ")*"
		}
		return arg.String() + "*"
	default:
		return "?"
	}
}

// String renders s the way SpecVerifier's __str__ overrides do: equality
// and subset as infix, Boolean combinators fully parenthesized on both
// sides, SPrefixITE as "IF guard THEN p ELSE q".
func (s *Spec) String() string {
	switch s.Op {
	case SEqual:
		return s.P.String() + " = " + s.Q.String()
	case SSubsetEq:
		return s.P.String() + " ⊆ " + s.Q.String()
	case SOr:
		return "(" + s.Sub[0].String() + ") | (" + s.Sub[1].String() + ")"
	case SAnd:
		return "(" + s.Sub[0].String() + ") & (" + s.Sub[1].String() + ")"
	case SNot:
		return "~(" + s.Sub[0].String() + ")"
	case SPrefixITE:
		return "IF " + s.Guard.String() + " THEN " + s.Then.String() + " ELSE " + s.Else.String()
	default:
		return "?"
	}
}
