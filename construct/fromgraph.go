package construct

import (
	"rela/automaton"
	"rela/network"
)

// fromForwardingGraph builds the automaton recognizing every path from a
// source node to a sink node of g, one state per graph node plus the
// builder's own start state wired to each source. Grounded on
// fst_from_forwarding_graph.
func fromForwardingGraph(g network.ForwardingGraph) *automaton.Automaton {
	b := automaton.NewBuilder()
	states := make(map[string]int, len(g.Nodes()))
	for node := range g.Nodes() {
		s := b.AddState()
		states[node] = s
		if g.IsSink(node) {
			b.SetFinal(s)
		}
	}
	for node := range g.Nodes() {
		for next, labels := range g.OutEdges(node) {
			for label := range labels {
				b.AddArc(states[node], states[next], label, label)
			}
		}
		if g.IsSource(node) {
			b.AddArc(b.Start(), states[node], node, node)
		}
	}
	return b.Build()
}

// fromPathSet builds the automaton recognizing the union of paths, each
// path itself the concatenation of its hop symbols. Grounded on
// fst_from_path_set; the Union[str, List[str]] "parallel hop" branch of
// NetworkPath has no producer in the JSON formats this module reads, so
// every hop is treated as a single symbol.
func fromPathSet(paths []network.NetworkPath) *automaton.Automaton {
	if len(paths) == 0 {
		return automaton.Zero()
	}
	perPath := make([]*automaton.Automaton, len(paths))
	for i, path := range paths {
		perPath[i] = fromPath(path)
	}
	return unionAll(perPath)
}

func fromPath(path network.NetworkPath) *automaton.Automaton {
	if len(path) == 0 {
		return automaton.One()
	}
	hops := make([]*automaton.Automaton, len(path))
	for i, hop := range path {
		hops[i] = automaton.FromSymbol(hop)
	}
	return concatAll(hops)
}

func unionAll(args []*automaton.Automaton) *automaton.Automaton {
	switch len(args) {
	case 0:
		return automaton.Zero()
	case 1:
		return args[0]
	default:
		return automaton.Union(args...)
	}
}

func concatAll(args []*automaton.Automaton) *automaton.Automaton {
	switch len(args) {
	case 0:
		return automaton.One()
	case 1:
		return args[0]
	default:
		return automaton.Concat(args...)
	}
}
