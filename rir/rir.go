// Package rir implements the regular intermediate representation (RIR): the
// algebraic language of Prop (regular path sets), Rel (rational relations
// between path sets), and Spec (decidable judgments over Props) that network
// change specifications are written in.
//
// Each of the three families is represented the way regexp/syntax.Regexp
// represents a parsed regular expression: one tagged struct per family with
// an Op discriminant and a handful of generically-named fields, rather than
// a small hierarchy of types behind an interface. This keeps every node
// trivially constructible and keeps the packages that operate over RIR
// (scanner, constructor, printer) as a single exhaustive switch over Op
// instead of a virtual dispatch through an Accept method. That switch is
// the "visitor protocol": scanner.go, construct.Lower and the String
// methods in print.go are its three implementations, one per node kind
// each.
package rir

import (
	"fmt"

	"rela/ipguard"
)

// PropOp discriminates the node kinds of a Prop expression.
type PropOp int

const (
	PSymbol PropOp = iota
	PPredicate
	PNegSymbols
	PEmptySet
	PEpsilon
	PPreState
	PPostState
	PUnion
	PConcat
	PStar
	PIntersect
	PComplement
	PImage
	PReverseImage
)

// Prop is a regular expression over the alphabet of network locations; it
// denotes a set of network paths.
type Prop struct {
	Op PropOp

	// Sub holds operands that are themselves Props: two-or-more for
	// PUnion/PConcat/PIntersect, exactly one for PStar/PComplement, and
	// exactly one (the Prop operand) for PImage/PReverseImage.
	Sub []*Prop

	// Rel holds the relation operand of PImage/PReverseImage.
	Rel *Rel

	Symbol string // PSymbol
	Field  string // PPredicate
	Value  string // PPredicate
	Neg    []string // PNegSymbols; empty means "any single alphabet symbol"
}

// RelOp discriminates the node kinds of a Rel expression.
type RelOp int

const (
	RProduct RelOp = iota
	RIdentity
	REmptySet
	REpsilon
	RUnion
	RConcat
	RStar
	RCompose
	RPriorityUnion
)

// Rel is a rational relation between two sets of network paths.
type Rel struct {
	Op RelOp

	// Sub holds operands that are themselves Rels: two-or-more for
	// RUnion/RConcat/RCompose/RPriorityUnion, exactly one for RStar.
	Sub []*Rel

	P *Prop // RProduct left operand, RIdentity operand
	Q *Prop // RProduct right operand
}

// SpecOp discriminates the node kinds of a Spec expression.
type SpecOp int

const (
	SEqual SpecOp = iota
	SSubsetEq
	SNot
	SAnd
	SOr
	SPrefixITE
)

// Spec is a decidable judgment over Prop expressions.
type Spec struct {
	Op SpecOp

	// Sub holds operands that are themselves Specs: exactly one for
	// SNot, exactly two for SAnd/SOr.
	Sub []*Spec

	P, Q *Prop // SEqual/SSubsetEq operands

	Then, Else *Spec        // SPrefixITE branches
	Guard      ipguard.Guard // SPrefixITE guard
}

// Canonical singletons. Per the data model, preState, postState,
// PEmptySet, PEpsilon, REmptySet, and REpsilon carry no payload: they are
// represented once here rather than heap-allocated on every use.
var (
	EmptySet = &Prop{Op: PEmptySet}
	Epsilon  = &Prop{Op: PEpsilon}
	PreState = &Prop{Op: PPreState}
	PostState = &Prop{Op: PPostState}

	RelEmptySet = &Rel{Op: REmptySet}
	RelEpsilon  = &Rel{Op: REpsilon}
)

func mustf(cond bool, format string, a ...any) {
	if !cond {
		panic(fmt.Errorf(format, a...))
	}
}

// Sym constructs a single-symbol Prop. Symbol must be non-empty.
func Sym(symbol string) *Prop {
	mustf(symbol != "", "rir: PSymbol argument must not be empty")
	return &Prop{Op: PSymbol, Symbol: symbol}
}

// Pred constructs a Prop matching every alphabet symbol containing value as
// a substring. field is documentary only.
func Pred(field, value string) *Prop {
	mustf(value != "", "rir: PPredicate value must not be empty")
	return &Prop{Op: PPredicate, Field: field, Value: value}
}

// Neg constructs a Prop matching any single alphabet symbol not in symbols.
// An empty symbols list denotes "any single symbol".
func Neg(symbols ...string) *Prop {
	return &Prop{Op: PNegSymbols, Neg: append([]string(nil), symbols...)}
}

// Dot is the Prop matching any single alphabet symbol (Neg() with no args).
func Dot() *Prop { return Neg() }

// Union constructs the union of two or more Props.
func Union(args ...*Prop) *Prop {
	mustf(len(args) >= 2, "rir: PUnion requires at least two arguments")
	return &Prop{Op: PUnion, Sub: args}
}

// Concat constructs the concatenation of two or more Props.
func Concat(args ...*Prop) *Prop {
	mustf(len(args) >= 2, "rir: PConcat requires at least two arguments")
	return &Prop{Op: PConcat, Sub: args}
}

// Star constructs the Kleene closure of a Prop.
func Star(p *Prop) *Prop {
	return &Prop{Op: PStar, Sub: []*Prop{p}}
}

// Intersect constructs the intersection of two or more Props.
func Intersect(args ...*Prop) *Prop {
	mustf(len(args) >= 2, "rir: PIntersect requires at least two arguments")
	return &Prop{Op: PIntersect, Sub: args}
}

// Complement constructs the complement of a Prop relative to an alphabet
// supplied at construction by the FST constructor (C4), not here.
func Complement(p *Prop) *Prop {
	return &Prop{Op: PComplement, Sub: []*Prop{p}}
}

// Image constructs the image of p under r.
func Image(p *Prop, r *Rel) *Prop {
	return &Prop{Op: PImage, Sub: []*Prop{p}, Rel: r}
}

// ReverseImage constructs the reverse image of p under r.
func ReverseImage(p *Prop, r *Rel) *Prop {
	return &Prop{Op: PReverseImage, Sub: []*Prop{p}, Rel: r}
}

// Product constructs the Rel recognizing pairs (x, y) with x in p and y in q.
func Product(p, q *Prop) *Rel {
	return &Rel{Op: RProduct, P: p, Q: q}
}

// Identity constructs the identity relation of a Prop.
func Identity(p *Prop) *Rel {
	return &Rel{Op: RIdentity, P: p}
}

// RUnionOf constructs the union of two or more Rels.
func RUnionOf(args ...*Rel) *Rel {
	mustf(len(args) >= 2, "rir: RUnion requires at least two arguments")
	return &Rel{Op: RUnion, Sub: args}
}

// RConcatOf constructs the concatenation of two or more Rels.
func RConcatOf(args ...*Rel) *Rel {
	mustf(len(args) >= 2, "rir: RConcat requires at least two arguments")
	return &Rel{Op: RConcat, Sub: args}
}

// RStarOf constructs the Kleene closure of a Rel.
func RStarOf(r *Rel) *Rel {
	return &Rel{Op: RStar, Sub: []*Rel{r}}
}

// RComposeOf constructs the relational composition of two or more Rels.
func RComposeOf(args ...*Rel) *Rel {
	mustf(len(args) >= 2, "rir: RCompose requires at least two arguments")
	return &Rel{Op: RCompose, Sub: args}
}

// RPriorityUnionOf constructs the priority union of two or more Rels: on
// overlap of inputs between operands, the later operand's output wins.
func RPriorityUnionOf(args ...*Rel) *Rel {
	mustf(len(args) >= 2, "rir: RPriorityUnion requires at least two arguments")
	return &Rel{Op: RPriorityUnion, Sub: args}
}

// Equal constructs the Spec asserting L(p) = L(q).
func Equal(p, q *Prop) *Spec {
	return &Spec{Op: SEqual, P: p, Q: q}
}

// SubsetEq constructs the Spec asserting L(p) subseteq L(q).
func SubsetEq(p, q *Prop) *Spec {
	return &Spec{Op: SSubsetEq, P: p, Q: q}
}

// Not constructs the negation of a Spec.
func Not(s *Spec) *Spec {
	return &Spec{Op: SNot, Sub: []*Spec{s}}
}

// And constructs the conjunction of two Specs.
func And(p, q *Spec) *Spec {
	return &Spec{Op: SAnd, Sub: []*Spec{p, q}}
}

// Or constructs the disjunction of two Specs.
func Or(p, q *Spec) *Spec {
	return &Spec{Op: SOr, Sub: []*Spec{p, q}}
}

// PrefixITE constructs an if-then-else Spec: then is selected when any IP
// traffic key of the FEC under test falls into guard's prefix list, else
// otherwise.
func PrefixITE(then, els *Spec, guard ipguard.Guard) *Spec {
	return &Spec{Op: SPrefixITE, Then: then, Else: els, Guard: guard}
}

// --- Operator sugar -------------------------------------------------------
//
// Go has no operator overloading, so the sugar documented in spec.md §4.2
// (p+q, p|q, ~p, p*q, p>>r, r<<p, p==q, p<=q, r1|r2, r1+r2, r1//r2, s1&s2,
// s1|s2, ~s) is expressed as methods with doc comments naming the operator
// they stand in for.

// Concat is sugar for p+q.
func (p *Prop) Concat(qs ...*Prop) *Prop { return Concat(append([]*Prop{p}, qs...)...) }

// Union is sugar for p|q.
func (p *Prop) Union(qs ...*Prop) *Prop { return Union(append([]*Prop{p}, qs...)...) }

// Complement is sugar for ~p.
func (p *Prop) Complement() *Prop { return Complement(p) }

// Product is sugar for p*q.
func (p *Prop) Product(q *Prop) *Rel { return Product(p, q) }

// Image is sugar for p>>r.
func (p *Prop) Image(r *Rel) *Prop { return Image(p, r) }

// Equal is sugar for p==q.
func (p *Prop) Equal(q *Prop) *Spec { return Equal(p, q) }

// SubsetEq is sugar for p<=q.
func (p *Prop) SubsetEq(q *Prop) *Spec { return SubsetEq(p, q) }

// ReverseImage is sugar for r<<p.
func (r *Rel) ReverseImage(p *Prop) *Prop { return ReverseImage(p, r) }

// Union is sugar for r1|r2.
func (r *Rel) Union(qs ...*Rel) *Rel { return RUnionOf(append([]*Rel{r}, qs...)...) }

// Concat is sugar for r1+r2.
func (r *Rel) Concat(qs ...*Rel) *Rel { return RConcatOf(append([]*Rel{r}, qs...)...) }

// PriorityUnion is sugar for r1//r2.
func (r *Rel) PriorityUnion(qs ...*Rel) *Rel { return RPriorityUnionOf(append([]*Rel{r}, qs...)...) }

// Compose is sugar for composing r with qs via RCompose.
func (r *Rel) Compose(qs ...*Rel) *Rel { return RComposeOf(append([]*Rel{r}, qs...)...) }

// And is sugar for s1&s2.
func (s *Spec) And(t *Spec) *Spec { return And(s, t) }

// Or is sugar for s1|s2.
func (s *Spec) Or(t *Spec) *Spec { return Or(s, t) }

// Not is sugar for ~s.
func (s *Spec) Not() *Spec { return Not(s) }
