// Package frontend implements the compact spec sugar documented in
// spec.md §6: Preserve/Add/Remove/Replace/Drop/Any modifiers applied to a
// domain Regex, concatenated and else-chained into a full FESpec, then
// compiled down to RIR. spec.md calls this surface language "deliberately
// out of scope" as a collaborator, but ships its exact compilation table;
// this package restores it as a supplemented feature (§6, SPEC_FULL.md).
// Grounded on rela/language/frontend/frontend.py and fevisitor.py.
//
// frontend depends on rir, never the reverse: the core C1-C7 components
// know nothing of this package.
package frontend

import "rela/rir"

// Regex is the Prop subset the front-end surface exposes: every rir.Prop
// constructor except PImage/PReverseImage/PreState/PostState (which have
// no surface syntax) is valid here. Reusing rir.Prop directly avoids a
// redundant parallel AST, since compiler.py's visit_p_* methods do nothing
// but rebuild the identical RIR node from the FE node field-for-field.
type Regex = rir.Prop

// modKind discriminates Modifier's six forms.
type modKind int

const (
	modPreserve modKind = iota
	modAdd
	modRemove
	modReplace
	modDrop
	modAny
)

// Modifier is one of Preserve/Add(p)/Remove(p)/Replace(p1,p2)/Drop/Any(p),
// applied to a Regex to describe how a domain's paths change across the
// network change. Grounded on frontend.py's Modifier hierarchy.
type Modifier struct {
	kind  modKind
	p, p2 *Regex
}

func Preserve() Modifier { return Modifier{kind: modPreserve} }
func Add(p *Regex) Modifier { return Modifier{kind: modAdd, p: p} }
func Remove(p *Regex) Modifier { return Modifier{kind: modRemove, p: p} }
func Replace(p1, p2 *Regex) Modifier { return Modifier{kind: modReplace, p: p1, p2: p2} }
func Drop() Modifier { return Modifier{kind: modDrop} }
func AnyMod(p *Regex) Modifier { return Modifier{kind: modAny, p: p} }

func (m Modifier) String() string {
	switch m.kind {
	case modPreserve:
		return "preserve"
	case modAdd:
		return "add(" + m.p.String() + ")"
	case modRemove:
		return "remove(" + m.p.String() + ")"
	case modReplace:
		return "replace(" + m.p.String() + ", " + m.p2.String() + ")"
	case modDrop:
		return "drop"
	case modAny:
		return "any(" + m.p.String() + ")"
	default:
		return "?"
	}
}

// specKind discriminates FESpec's three forms.
type specKind int

const (
	specAtomic specKind = iota
	specConcat
	specElse
)

// FESpec is the surface specification language: an atomic (domain,
// modifier) pair, or two FESpecs concatenated (sequential application) or
// else-chained (fallback when the first's domain doesn't match). Grounded
// on frontend.py's FESpec hierarchy.
type FESpec struct {
	kind   specKind
	r      *Regex
	m      Modifier
	s1, s2 *FESpec
}

// Atomic constructs "r : m;", asserting modifier m over domain r.
func Atomic(r *Regex, m Modifier) *FESpec {
	return &FESpec{kind: specAtomic, r: r, m: m}
}

// Concat sequences two FESpecs: both apply, sequentially.
func Concat(s1, s2 *FESpec) *FESpec {
	return &FESpec{kind: specConcat, s1: s1, s2: s2}
}

// Else constructs a fallback FESpec: s2 applies wherever s1's domain
// doesn't match.
func Else(s1, s2 *FESpec) *FESpec {
	return &FESpec{kind: specElse, s1: s1, s2: s2}
}

// String renders s with the explicit §6 rules: ConcatSpec joins its
// operands with a newline, ElseSpec with "\nelse ". (§9's Open Question
// notes the original's ConcatSpec printer claims the same but its test
// strings elide the newline; this follows the explicit rule, not the
// source's test strings.)
func (s *FESpec) String() string {
	switch s.kind {
	case specAtomic:
		return s.r.String() + " : " + s.m.String() + ";"
	case specConcat:
		return s.s1.String() + "\n" + s.s2.String()
	case specElse:
		return s.s1.String() + "\nelse " + s.s2.String()
	default:
		return "?"
	}
}
