// Package network adapts network-change data into the forwarding
// equivalence classes (FECs) the verifier and counterexample generator
// operate over, at three precisions: device-level, interface/link-level,
// and device-group-level. Grounded on
// rela/networkmodel/relagraphformat/*.py.
package network

import "encoding/json"

// ForwardingGraph is a directed graph of one network state (before or
// after a change): nodes are network locations, edges are labeled with
// the alphabet symbols that the automaton kernel consumes, and a path
// from any source to any sink is one forwarded packet's journey.
type ForwardingGraph interface {
	Alphabet() map[string]struct{}
	Nodes() map[string]struct{}
	// OutEdges returns, for node, the set of edge labels leading to each
	// reachable next node.
	OutEdges(node string) map[string]map[string]struct{}
	IsSource(node string) bool
	IsSink(node string) bool
}

// rawGraph is the wire shape shared by all three precisions: a map from
// node to its outgoing edges, each keyed by next-hop node and holding the
// (possibly empty) list of interface names used for that hop.
type rawGraph struct {
	NodeToOutEdgesMap map[string]map[string][]string `json:"nodeToOutEdgesMap"`
	SourceNodes       []string                        `json:"sourceNodes"`
	SinkNodes         []string                        `json:"sinkNodes"`
}

func toSet(items []string) map[string]struct{} {
	out := make(map[string]struct{}, len(items))
	for _, s := range items {
		out[s] = struct{}{}
	}
	return out
}

// --- Device level ----------------------------------------------------------

// DeviceLevelGraph is a forwarding graph whose edge labels are simply the
// next hop's device name, mirroring RelaDeviceLevelForwardingGraph.
type DeviceLevelGraph struct {
	graph         map[string]map[string]struct{}
	sources, sinks map[string]struct{}
}

func ParseDeviceLevelGraph(data []byte) (*DeviceLevelGraph, error) {
	var raw rawGraph
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	graph := make(map[string]map[string]struct{}, len(raw.NodeToOutEdgesMap))
	for node, outEdges := range raw.NodeToOutEdgesMap {
		nexts := make(map[string]struct{}, len(outEdges))
		for next := range outEdges {
			nexts[next] = struct{}{}
		}
		graph[node] = nexts
	}
	return &DeviceLevelGraph{graph: graph, sources: toSet(raw.SourceNodes), sinks: toSet(raw.SinkNodes)}, nil
}

func (g *DeviceLevelGraph) Alphabet() map[string]struct{} {
	out := make(map[string]struct{})
	for node := range g.graph {
		out[node] = struct{}{}
	}
	for node := range g.sinks {
		out[node] = struct{}{}
	}
	return out
}

func (g *DeviceLevelGraph) Nodes() map[string]struct{} { return g.Alphabet() }

func (g *DeviceLevelGraph) OutEdges(node string) map[string]map[string]struct{} {
	out := make(map[string]map[string]struct{})
	for next := range g.graph[node] {
		out[next] = map[string]struct{}{next: {}}
	}
	return out
}

func (g *DeviceLevelGraph) IsSource(node string) bool { _, ok := g.sources[node]; return ok }
func (g *DeviceLevelGraph) IsSink(node string) bool   { _, ok := g.sinks[node]; return ok }

// --- Link level --------------------------------------------------------

// LinkLevelGraph is a forwarding graph whose edge labels are
// "{nextNode}|{interfaceName}" pairs, mirroring
// RelaLinkLevelForwardingGraph. A hop with no interface name (a sink hop)
// falls back to the bare next-node name.
type LinkLevelGraph struct {
	graph         map[string]map[string][]string
	sources, sinks map[string]struct{}
}

func ParseLinkLevelGraph(data []byte) (*LinkLevelGraph, error) {
	var raw rawGraph
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return &LinkLevelGraph{graph: raw.NodeToOutEdgesMap, sources: toSet(raw.SourceNodes), sinks: toSet(raw.SinkNodes)}, nil
}

func (g *LinkLevelGraph) Alphabet() map[string]struct{} {
	out := make(map[string]struct{})
	for node, outEdges := range g.graph {
		_ = node
		for next, ifaces := range outEdges {
			if len(ifaces) == 0 {
				out[next] = struct{}{}
				continue
			}
			for _, iface := range ifaces {
				out[next+"|"+iface] = struct{}{}
			}
		}
	}
	for src := range g.sources {
		out[src] = struct{}{}
	}
	return out
}

func (g *LinkLevelGraph) Nodes() map[string]struct{} {
	out := make(map[string]struct{}, len(g.graph))
	for node := range g.graph {
		out[node] = struct{}{}
	}
	for node := range g.sinks {
		out[node] = struct{}{}
	}
	return out
}

func (g *LinkLevelGraph) OutEdges(node string) map[string]map[string]struct{} {
	out := make(map[string]map[string]struct{})
	for next, ifaces := range g.graph[node] {
		labels := make(map[string]struct{})
		if len(ifaces) == 0 {
			labels[next] = struct{}{}
		} else {
			for _, iface := range ifaces {
				labels[next+"|"+iface] = struct{}{}
			}
		}
		out[next] = labels
	}
	return out
}

func (g *LinkLevelGraph) IsSource(node string) bool { _, ok := g.sources[node]; return ok }
func (g *LinkLevelGraph) IsSink(node string) bool   { _, ok := g.sinks[node]; return ok }

// --- Device group level --------------------------------------------------

// DeviceGroupLevelGraph is a device-level graph whose node names have been
// rewritten from "device|vrf" to "group|vrf" via a device-to-group
// mapping, mirroring RelaDeviceGroupLevelForwardingGraph.
type DeviceGroupLevelGraph struct {
	graph         map[string]map[string]struct{}
	sources, sinks map[string]struct{}
}

// ParseDeviceGroupLevelGraph parses a device-group-level forwarding graph,
// rewriting each "device|vrf" node name via mapping (device -> group); a
// device absent from mapping keeps its own name. Node names with no "|vrf"
// suffix pass through unchanged.
func ParseDeviceGroupLevelGraph(mapping map[string]string, data []byte) (*DeviceGroupLevelGraph, error) {
	var raw rawGraph
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	replace := func(node string) string {
		i := indexByte(node, '|')
		if i < 0 {
			return node
		}
		j := indexByte(node[i+1:], '|')
		if j >= 0 {
			return node
		}
		device, vrf := node[:i], node[i+1:]
		if group, ok := mapping[device]; ok {
			return group + "|" + vrf
		}
		return node
	}

	graph := make(map[string]map[string]struct{})
	for node, outEdges := range raw.NodeToOutEdgesMap {
		rewritten := replace(node)
		nexts := graph[rewritten]
		if nexts == nil {
			nexts = map[string]struct{}{}
			graph[rewritten] = nexts
		}
		for next := range outEdges {
			nexts[replace(next)] = struct{}{}
		}
	}
	sources := make(map[string]struct{}, len(raw.SourceNodes))
	for _, node := range raw.SourceNodes {
		sources[replace(node)] = struct{}{}
	}
	sinks := make(map[string]struct{}, len(raw.SinkNodes))
	for _, node := range raw.SinkNodes {
		sinks[replace(node)] = struct{}{}
	}
	return &DeviceGroupLevelGraph{graph: graph, sources: sources, sinks: sinks}, nil
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

func (g *DeviceGroupLevelGraph) Alphabet() map[string]struct{} {
	out := make(map[string]struct{})
	for node := range g.graph {
		out[node] = struct{}{}
	}
	for node := range g.sinks {
		out[node] = struct{}{}
	}
	return out
}

func (g *DeviceGroupLevelGraph) Nodes() map[string]struct{} { return g.Alphabet() }

func (g *DeviceGroupLevelGraph) OutEdges(node string) map[string]map[string]struct{} {
	out := make(map[string]map[string]struct{})
	for next := range g.graph[node] {
		out[next] = map[string]struct{}{next: {}}
	}
	return out
}

func (g *DeviceGroupLevelGraph) IsSource(node string) bool { _, ok := g.sources[node]; return ok }
func (g *DeviceGroupLevelGraph) IsSink(node string) bool   { _, ok := g.sinks[node]; return ok }
