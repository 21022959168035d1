package sim

import "sort"

// Edge is one directed directly-follows relation between two activities.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// DFG is the directly-follows graph: observed transition frequencies
// between consecutive activities within the same case.
type DFG map[Edge]int

// ComputeDFG counts directly-follows pairs across all cases.
func ComputeDFG(log *EventLog) DFG {
	dfg := make(DFG)
	for _, c := range log.Cases {
		for i := 1; i < len(c.Instances); i++ {
			edge := Edge{
				Source: c.Instances[i-1].Activity,
				Target: c.Instances[i].Activity,
			}
			dfg[edge]++
		}
	}
	return dfg
}

// FilterMinFrequency keeps only edges observed at least minFreq times.
func (d DFG) FilterMinFrequency(minFreq int) DFG {
	out := make(DFG)
	for edge, count := range d {
		if count >= minFreq {
			out[edge] = count
		}
	}
	return out
}

// FilterEdges keeps only the given edges. A nil or empty allow set returns
// the graph unchanged.
func (d DFG) FilterEdges(allowed []Edge) DFG {
	if len(allowed) == 0 {
		return d
	}
	allow := make(map[Edge]struct{}, len(allowed))
	for _, e := range allowed {
		allow[e] = struct{}{}
	}
	out := make(DFG)
	for edge, count := range d {
		if _, ok := allow[edge]; ok {
			out[edge] = count
		}
	}
	return out
}

// GraphNode is one activity node in the rendered graph.
type GraphNode struct {
	ID string `json:"id"`
}

// GraphEdge is one weighted directly-follows edge in the rendered graph.
type GraphEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Weight int    `json:"weight"`
}

// GraphElements is the presentation-neutral form of the DFG: all nodes
// touched by an edge plus the weighted edges, both deterministically sorted.
type GraphElements struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// Elements flattens the DFG into sorted nodes and weighted edges.
func (d DFG) Elements() GraphElements {
	nodeSet := make(map[string]struct{})
	edges := make([]GraphEdge, 0, len(d))
	for edge, count := range d {
		nodeSet[edge.Source] = struct{}{}
		nodeSet[edge.Target] = struct{}{}
		edges = append(edges, GraphEdge{Source: edge.Source, Target: edge.Target, Weight: count})
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		return edges[i].Target < edges[j].Target
	})

	nodes := make([]GraphNode, 0, len(nodeSet))
	for id := range nodeSet {
		nodes = append(nodes, GraphNode{ID: id})
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	return GraphElements{Nodes: nodes, Edges: edges}
}
