package playground

import (
	"fmt"

	"github.com/emicklei/dot"

	"github.com/speakeasy-api/msplit"
	"github.com/speakeasy-api/msplit/splitexec"
)

// Graph renders the method as a DOT control flow graph with one node per
// instruction. Split point starts are filled and labelled with their
// lengths. When focus is the start of a split point, that range is drawn
// as a cluster.
func Graph(m *msplit.Method, sps []splitexec.SplitPoint, focus int) string {
	g := dot.NewGraph(dot.Directed)
	g.Attr("rankdir", "TB")

	lengths := make(map[int][]int)
	var focused *splitexec.SplitPoint
	for i := range sps {
		lengths[sps[i].Start] = append(lengths[sps[i].Start], sps[i].Length)
		if sps[i].Start == focus && focused == nil {
			focused = &sps[i]
		}
	}

	var cluster *dot.Graph
	if focused != nil {
		cluster = g.Subgraph(fmt.Sprintf("split %d+%d", focused.Start, focused.Length), dot.ClusterOption{})
	}

	labels := make(map[*msplit.Label]int)
	nodes := make([]dot.Node, len(m.Instructions))
	for i, insn := range m.Instructions {
		if insn.Kind == msplit.InsnLabel {
			labels[insn.Label] = i
		}

		parent := g
		if focused != nil && focused.Contains(i) {
			parent = cluster
		}
		n := parent.Node(fmt.Sprintf("n%d", i)).Label(fmt.Sprintf("%d: %s", i, insn))
		if insn.IsPseudo() {
			n = n.Attr("shape", "plaintext")
		} else {
			n = n.Box()
		}
		if ls, ok := lengths[i]; ok {
			n = n.Attr("style", "filled").Attr("fillcolor", "lightblue").Attr("xlabel", fmt.Sprintf("len %v", ls))
		}
		nodes[i] = n
	}

	for i, insn := range m.Instructions {
		if !insn.Op.EndsFlow() && i+1 < len(nodes) {
			g.Edge(nodes[i], nodes[i+1])
		}
		for _, target := range insn.BranchTargets() {
			if j, ok := labels[target]; ok {
				g.Edge(nodes[i], nodes[j]).Dashed()
			}
		}
	}

	for _, tcb := range m.TryCatchBlocks {
		start, okStart := labels[tcb.Start]
		handler, okHandler := labels[tcb.Handler]
		if !okStart || !okHandler {
			continue
		}
		caught := tcb.Type
		if caught == "" {
			caught = "any"
		}
		g.Edge(nodes[start], nodes[handler]).Dotted().Label(caught)
	}

	return g.String()
}
