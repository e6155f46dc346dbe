package automaton

// Builder constructs an Automaton state by state for call sites that need
// direct control over states and arcs rather than algebraic composition
// (concat, union, star) — forwarding-graph lowering in construct. Mirrors nex's graphBuilder: accumulate nodes/edges,
// then hand back the finished value.
type Builder struct {
	a *Automaton
}

func NewBuilder() *Builder {
	return &Builder{a: newAutomaton()}
}

// Start returns the builder's fixed initial state.
func (b *Builder) Start() int { return b.a.start }

func (b *Builder) AddState() int { return b.a.addState() }

func (b *Builder) AddArc(from, to int, in, out string) { b.a.addArc(from, to, in, out) }

func (b *Builder) SetFinal(s int) { b.a.setFinal(s) }

func (b *Builder) Build() *Automaton { return b.a }
