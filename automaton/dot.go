package automaton

import (
	"fmt"
	"io"
)

// WriteDOT renders a in Graphviz DOT format, the same recursive
// depth-first walk with a visited-state set as nex's WriteDotGraph/
// dotGraphBuilder, generalized from single-rune edge labels to the arc's
// (in, out) symbol pair.
func WriteDOT(out io.Writer, a *Automaton, id string) {
	fmt.Fprintf(out, "digraph %v {\n  %d[shape=box];\n", id, a.start)
	done := make([]bool, len(a.states))
	var show func(s int)
	show = func(s int) {
		if done[s] {
			return
		}
		done[s] = true
		if a.states[s].final {
			fmt.Fprintf(out, "  %d[style=filled,color=green];\n", s)
		}
		for _, ar := range a.states[s].arcs {
			label := arcLabel(ar)
			fmt.Fprintf(out, "  %d -> %d[label=%q];\n", s, ar.to, label)
		}
		for _, ar := range a.states[s].arcs {
			show(ar.to)
		}
	}
	show(a.start)
	fmt.Fprintln(out, "}")
}

func arcLabel(ar arc) string {
	in, out := ar.in, ar.out
	if in == Eps {
		in = "ε"
	}
	if out == Eps {
		out = "ε"
	}
	if in == out {
		return in
	}
	return in + ":" + out
}
