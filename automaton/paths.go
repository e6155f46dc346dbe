package automaton

// ExtractPaths enumerates the input-track symbol sequences of every simple
// path from start to a final state: a state is never revisited within one
// path, so the result is an acyclic basis of the language rather than an
// unrolling of any cycle the automaton contains, mirroring
// fst_extract_paths's max_cycles=0 contract.
func ExtractPaths(a *Automaton) [][]string {
	var out [][]string
	onPath := make([]bool, len(a.states))
	var walk func(s int, path []string)
	walk = func(s int, path []string) {
		if onPath[s] {
			return
		}
		onPath[s] = true
		defer func() { onPath[s] = false }()

		if a.states[s].final {
			out = append(out, append([]string(nil), path...))
		}
		for _, ar := range a.states[s].arcs {
			if ar.in == Eps {
				walk(ar.to, path)
				continue
			}
			walk(ar.to, append(path, ar.in))
		}
	}
	walk(a.start, nil)
	return out
}
