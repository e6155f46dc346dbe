package network

// FEC is a forwarding equivalence class: one or more packets that share
// the same forwarding behavior before and after a network change,
// represented either as forwarding graphs or as sets of forwarding paths.
// Grounded on rela/networkmodel/fec.py.
type FEC interface {
	GetBeforeState() any
	GetAfterState() any
	// GetIPTrafficKeys returns the destination IPs of the traffic keys
	// this FEC covers, mirroring RelaGraphFEC.get_ip_traffic_keys.
	GetIPTrafficKeys() []string
	ComputeAlphabet() map[string]struct{}
}

// NetworkPath is one forwarding path: an ordered sequence of alphabet
// symbols a packet traverses. Grounded on
// rela/networkmodel/networkpath.py (a bare list-of-strings alias there;
// the Union[str, List[str]] branch for parallel sub-paths has no
// producer in the JSON formats this module reads, so it is not modeled).
type NetworkPath []string

// PathFEC is a FEC whose before/after states are explicit sets of
// forwarding paths.
type PathFEC interface {
	FEC
	BeforePaths() []NetworkPath
	AfterPaths() []NetworkPath
}

// GraphFEC is a FEC whose before/after states are forwarding graphs.
type GraphFEC interface {
	FEC
	BeforeGraph() ForwardingGraph
	AfterGraph() ForwardingGraph
}

// IpTrafficKey identifies a class of IP traffic a FEC covers, grounded on
// rela/networkmodel/relagraphformat/iptraffickey.py.
type IpTrafficKey struct {
	SrcIp string
	DstIp string
	Qos   int
}

// RelaGraphFEC is the graph-represented FEC used by all three
// relagraphformat precisions, grounded on
// rela/networkmodel/relagraphformat/graphfec.py.
type RelaGraphFEC struct {
	IpTrafficKeys []IpTrafficKey
	GraphBefore   ForwardingGraph
	GraphAfter    ForwardingGraph
}

func (f *RelaGraphFEC) GetBeforeState() any { return f.GraphBefore }
func (f *RelaGraphFEC) GetAfterState() any  { return f.GraphAfter }
func (f *RelaGraphFEC) BeforeGraph() ForwardingGraph { return f.GraphBefore }
func (f *RelaGraphFEC) AfterGraph() ForwardingGraph  { return f.GraphAfter }

func (f *RelaGraphFEC) GetIPTrafficKeys() []string {
	out := make([]string, len(f.IpTrafficKeys))
	for i, key := range f.IpTrafficKeys {
		out[i] = key.DstIp
	}
	return out
}

func (f *RelaGraphFEC) ComputeAlphabet() map[string]struct{} {
	out := make(map[string]struct{})
	for sym := range f.GraphBefore.Alphabet() {
		out[sym] = struct{}{}
	}
	for sym := range f.GraphAfter.Alphabet() {
		out[sym] = struct{}{}
	}
	return out
}

// RelaPathFEC is the path-set-represented FEC: before/after state is an
// explicit list of forwarding paths rather than a graph, grounded on
// rela/networkmodel/relapathformat/pathfec.py. Used directly by the
// end-to-end scenarios in spec.md §8 (subpath replace, link expansion)
// where the before/after state is given as literal paths rather than a
// graph to traverse.
type RelaPathFEC struct {
	IpTrafficKeys []IpTrafficKey
	Before        []NetworkPath
	After         []NetworkPath
}

func (f *RelaPathFEC) GetBeforeState() any       { return f.Before }
func (f *RelaPathFEC) GetAfterState() any        { return f.After }
func (f *RelaPathFEC) BeforePaths() []NetworkPath { return f.Before }
func (f *RelaPathFEC) AfterPaths() []NetworkPath  { return f.After }

func (f *RelaPathFEC) GetIPTrafficKeys() []string {
	out := make([]string, len(f.IpTrafficKeys))
	for i, key := range f.IpTrafficKeys {
		out[i] = key.DstIp
	}
	return out
}

// ComputeAlphabet is the union of every symbol appearing in any before or
// after path, mirroring RelaPathFEC.get_alphabet.
func (f *RelaPathFEC) ComputeAlphabet() map[string]struct{} {
	out := make(map[string]struct{})
	for _, path := range f.Before {
		for _, sym := range path {
			out[sym] = struct{}{}
		}
	}
	for _, path := range f.After {
		for _, sym := range path {
			out[sym] = struct{}{}
		}
	}
	return out
}
