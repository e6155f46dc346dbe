package automaton

import "sort"

// Intersect builds the intersection of two or more automata by
// determinizing every operand and taking their synchronous product: a
// state pair (s1, s2) moves on symbol x only when both operands have an
// x-arc from their respective states. Operands are expected to be in FSA
// form (every arc's in equals its out); mirrors fst_intersect.
func Intersect(args ...*Automaton) *Automaton {
	if len(args) == 0 {
		return Zero()
	}
	acc := Determinize(args[0])
	for _, next := range args[1:] {
		acc = intersect2(acc, Determinize(next))
	}
	return reachable(acc)
}

func intersect2(p, q *Automaton) *Automaton {
	out := &Automaton{}
	type pair struct{ a, b int }
	ids := map[pair]int{}
	var todo []pair
	get := func(pr pair) int {
		if id, ok := ids[pr]; ok {
			return id
		}
		id := len(out.states)
		ids[pr] = id
		out.states = append(out.states, state{final: p.states[pr.a].final && q.states[pr.b].final})
		todo = append(todo, pr)
		return id
	}
	out.start = get(pair{p.start, q.start})
	for i := 0; i < len(todo); i++ {
		pr := todo[i]
		for _, a1 := range p.states[pr.a].arcs {
			for _, a2 := range q.states[pr.b].arcs {
				if a1.in == a2.in && a1.out == a2.out {
					to := get(pair{a1.to, a2.to})
					out.addArc(ids[pr], to, a1.in, a1.out)
				}
			}
		}
	}
	return out
}

// complete adds all missing (symbol, symbol) transitions of alphabet to a
// sink state, assuming a is already deterministic, mirroring
// _complete_fst.
func complete(a *Automaton, alphabet map[string]struct{}) *Automaton {
	out := &Automaton{states: append([]state(nil), a.states...), start: a.start}
	for i := range out.states {
		out.states[i].arcs = append([]arc(nil), a.states[i].arcs...)
	}
	sink := out.addState()
	for s := 0; s < len(a.states); s++ {
		have := map[string]bool{}
		for _, ar := range a.states[s].arcs {
			have[ar.in] = true
		}
		for sym := range alphabet {
			if !have[sym] {
				out.addArc(s, sink, sym, sym)
			}
		}
	}
	for sym := range alphabet {
		out.addArc(sink, sink, sym, sym)
	}
	return out
}

// Complement builds the complement of a relative to alphabet: determinize,
// complete over the alphabet, flip every state's finality, mirroring
// fst_complement (minimize is skipped; it is an optional optimization, not
// required for the complement to be correct).
func Complement(a *Automaton, alphabet map[string]struct{}) *Automaton {
	d := Determinize(a)
	c := complete(d, alphabet)
	out := &Automaton{states: append([]state(nil), c.states...), start: c.start}
	for i, st := range c.states {
		out.states[i].final = !st.final
	}
	return reachable(out)
}

// Minus builds the FSA difference p - q, mirroring fst_minus.
func Minus(p, q *Automaton, alphabet map[string]struct{}) *Automaton {
	return Intersect(p, Complement(q, alphabet))
}

// canonicalSignature renders a deterministic, minimized automaton as a
// string unique up to isomorphism, by renumbering states in BFS arc order
// (arcs sorted by label at each state) and printing the transition table.
func canonicalSignature(a *Automaton) string {
	order := []int{a.start}
	id := map[int]int{a.start: 0}
	var sb []byte
	for pos := 0; pos < len(order); pos++ {
		s := order[pos]
		arcs := append([]arc(nil), a.states[s].arcs...)
		sort.Slice(arcs, func(i, j int) bool {
			if arcs[i].in != arcs[j].in {
				return arcs[i].in < arcs[j].in
			}
			return arcs[i].out < arcs[j].out
		})
		if a.states[s].final {
			sb = append(sb, 'F')
		} else {
			sb = append(sb, 'f')
		}
		for _, ar := range arcs {
			if _, ok := id[ar.to]; !ok {
				id[ar.to] = len(order)
				order = append(order, ar.to)
			}
			sb = append(sb, []byte(ar.in)...)
			sb = append(sb, '/')
			sb = append(sb, []byte(ar.out)...)
			sb = append(sb, '>')
			for v := id[ar.to]; v > 0; v /= 10 {
				sb = append(sb, byte('0'+v%10))
			}
			sb = append(sb, ';')
		}
		sb = append(sb, '|')
	}
	return string(sb)
}

// Equiv reports whether p and q recognize the same language, by
// determinizing, completing both over the symbols either one uses,
// minimizing, and comparing canonical forms, mirroring fst_eq (hfst's
// compare). Completing first folds every dead state into the one sink, so
// equal languages always reach the same minimal automaton.
func Equiv(p, q *Automaton) bool {
	alphabet := map[string]struct{}{}
	for _, a := range []*Automaton{p, q} {
		for _, st := range a.states {
			for _, ar := range st.arcs {
				if !ar.null() {
					alphabet[ar.in] = struct{}{}
				}
			}
		}
	}
	cp := reachable(minimize(complete(Determinize(p), alphabet)))
	cq := reachable(minimize(complete(Determinize(q), alphabet)))
	return canonicalSignature(cp) == canonicalSignature(cq)
}

// Subseteq reports whether L(p) is a subset of L(q): L(p intersect q)
// equals L(p), mirroring fst_subseteq.
func Subseteq(p, q *Automaton) bool {
	return Equiv(Intersect(p, q), p)
}

// Invert swaps the input and output track of every arc, mirroring
// fst_invert.
func Invert(a *Automaton) *Automaton {
	out := &Automaton{states: make([]state, len(a.states)), start: a.start}
	for i, st := range a.states {
		ns := state{final: st.final, arcs: make([]arc, len(st.arcs))}
		for j, ar := range st.arcs {
			ns.arcs[j] = arc{to: ar.to, in: ar.out, out: ar.in}
		}
		out.states[i] = ns
	}
	return out
}

// inputProject discards the output track, replacing it with the input
// track on every arc (the result is in FSA form), mirroring
// fst_input_project.
func inputProject(a *Automaton) *Automaton {
	out := &Automaton{states: make([]state, len(a.states)), start: a.start}
	for i, st := range a.states {
		ns := state{final: st.final, arcs: make([]arc, len(st.arcs))}
		for j, ar := range st.arcs {
			ns.arcs[j] = arc{to: ar.to, in: ar.in, out: ar.in}
		}
		out.states[i] = ns
	}
	return out
}

// outputProject discards the input track, replacing it with the output
// track on every arc (the result is in FSA form).
func outputProject(a *Automaton) *Automaton {
	out := &Automaton{states: make([]state, len(a.states)), start: a.start}
	for i, st := range a.states {
		ns := state{final: st.final, arcs: make([]arc, len(st.arcs))}
		for j, ar := range st.arcs {
			ns.arcs[j] = arc{to: ar.to, in: ar.out, out: ar.out}
		}
		out.states[i] = ns
	}
	return out
}

// Product builds the FST accepting all string pairs (x, y) where x is
// accepted by the left FSA and y by the right FSA: a cross product of
// states with three families of arcs (left alone, right alone, both
// together), mirroring fst_from_fsa_product exactly, including
// determinizing both operands first in place of the original's
// remove_epsilons (a stronger, equally sufficient precondition for the
// per-state arc enumeration the construction relies on).
func Product(l, r *Automaton) *Automaton {
	ld := Determinize(l)
	rd := Determinize(r)
	out := &Automaton{}
	type pair struct{ a, b int }
	ids := map[pair]int{}
	var todo []pair
	get := func(pr pair) int {
		if id, ok := ids[pr]; ok {
			return id
		}
		id := len(out.states)
		ids[pr] = id
		out.states = append(out.states, state{final: ld.states[pr.a].final && rd.states[pr.b].final})
		todo = append(todo, pr)
		return id
	}
	out.start = get(pair{ld.start, rd.start})
	for i := 0; i < len(todo); i++ {
		pr := todo[i]
		from := ids[pr]
		for _, a1 := range ld.states[pr.a].arcs {
			to := get(pair{a1.to, pr.b})
			out.addArc(from, to, a1.in, Eps)
		}
		for _, a2 := range rd.states[pr.b].arcs {
			to := get(pair{pr.a, a2.to})
			out.addArc(from, to, Eps, a2.in)
		}
		for _, a1 := range ld.states[pr.a].arcs {
			for _, a2 := range rd.states[pr.b].arcs {
				to := get(pair{a1.to, a2.to})
				out.addArc(from, to, a1.in, a2.in)
			}
		}
	}
	return reachable(out)
}

// Compose builds the relational composition of two or more automata: a
// cross product of states where a move is one operand taking a null arc
// alone, t1 alone taking an arc with an empty output track, t2 alone
// taking an arc with an empty input track, or both taking real arcs whose
// boundary symbols match (t1's output equals t2's input).
func Compose(args ...*Automaton) *Automaton {
	if len(args) == 0 {
		return Zero()
	}
	acc := args[0]
	for _, next := range args[1:] {
		acc = compose2(acc, next)
	}
	return acc
}

func compose2(t1, t2 *Automaton) *Automaton {
	out := &Automaton{}
	type pair struct{ a, b int }
	ids := map[pair]int{}
	var todo []pair
	get := func(pr pair) int {
		if id, ok := ids[pr]; ok {
			return id
		}
		id := len(out.states)
		ids[pr] = id
		out.states = append(out.states, state{final: t1.states[pr.a].final && t2.states[pr.b].final})
		todo = append(todo, pr)
		return id
	}
	out.start = get(pair{t1.start, t2.start})
	for i := 0; i < len(todo); i++ {
		pr := todo[i]
		from := ids[pr]
		for _, a1 := range t1.states[pr.a].arcs {
			if a1.null() {
				to := get(pair{a1.to, pr.b})
				out.addArc(from, to, Eps, Eps)
				continue
			}
			if a1.out == Eps {
				to := get(pair{a1.to, pr.b})
				out.addArc(from, to, a1.in, Eps)
			}
		}
		for _, a2 := range t2.states[pr.b].arcs {
			if a2.null() {
				to := get(pair{pr.a, a2.to})
				out.addArc(from, to, Eps, Eps)
				continue
			}
			if a2.in == Eps {
				to := get(pair{pr.a, a2.to})
				out.addArc(from, to, Eps, a2.out)
			}
		}
		for _, a1 := range t1.states[pr.a].arcs {
			if a1.null() || a1.out == Eps {
				continue
			}
			for _, a2 := range t2.states[pr.b].arcs {
				if a2.null() || a2.in == Eps {
					continue
				}
				if a1.out == a2.in {
					to := get(pair{a1.to, a2.to})
					out.addArc(from, to, a1.in, a2.out)
				}
			}
		}
	}
	return reachable(out)
}

// Image builds the image of p (an FSA) under r: compose p with r along
// p's track and project the result onto r's output track, mirroring
// fst_image.
func Image(p, r *Automaton) *Automaton {
	return outputProject(Compose(p, r))
}

// ReverseImage builds the reverse image of p under r: the image of p
// under the inverse of r, mirroring fst_reverse_image.
func ReverseImage(p, r *Automaton) *Automaton {
	return Image(p, Invert(r))
}

// PriorityUnion builds the priority union of two or more relations:
// folded left to right so that, on an input accepted by both the
// accumulator and the next operand, the next operand's output wins. Each
// step restricts the accumulator to inputs outside next's input domain by
// composing the domain-complement (in identity/FSA shape) onto the
// accumulator's INPUT track — not its output track, which is what actually
// overlaps between operands per the "later relation wins on overlapping
// input" definition HFST's priority_union implements as a single opaque
// call.
func PriorityUnion(alphabet map[string]struct{}, args ...*Automaton) *Automaton {
	if len(args) == 0 {
		return Zero()
	}
	acc := args[0]
	for _, next := range args[1:] {
		domain := inputProject(next)
		outsideDomain := Complement(domain, alphabet)
		restricted := Compose(outsideDomain, acc)
		acc = Union(restricted, next)
	}
	return acc
}
