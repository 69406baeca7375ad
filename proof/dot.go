package proof

import (
	"fmt"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"
)

// dotNode wraps a proof Node so it satisfies both graph.Node and
// dot.Node/encoding.Attributer, giving each proved clause and each
// resolution pivot its own GraphViz node (§4.6's "DOT emission: one node
// per proved clause ..., one intermediate node per resolution pivot").
type dotNode struct {
	id    int64
	label string
	kind  string // "hypothesis" | "lemma" | "resolution" | "pivot"
}

func (n dotNode) ID() int64 { return n.id }

func (n dotNode) DOTID() string { return fmt.Sprintf("n%d", n.id) }

func (n dotNode) Attributes() []encoding.Attribute {
	color := "black"
	switch n.kind {
	case "hypothesis":
		color = "steelblue"
	case "lemma":
		color = "darkorange"
	case "resolution":
		color = "forestgreen"
	case "pivot":
		color = "gray40"
	}
	return []encoding.Attribute{
		{Key: "label", Value: n.label},
		{Key: "color", Value: color},
		{Key: "style", Value: "filled"},
	}
}

// ToDOT builds the resolution DAG rooted at root into a gonum
// simple.DirectedGraph and marshals it to GraphViz DOT, tagging the run
// with runID as a leading comment for correlating separate DOT dumps
// (§2's uuid-for-DOT-correlation wiring).
func ToDOT(root *Node, runID uuid.UUID) ([]byte, error) {
	g := simple.NewDirectedGraph()
	clauseIDs := make(map[string]int64)
	var nextID int64

	allocClause := func(n *Node) (int64, bool) {
		k := key(n.Atoms)
		if id, ok := clauseIDs[k]; ok {
			return id, false
		}
		id := nextID
		nextID++
		clauseIDs[k] = id
		return id, true
	}

	var walk func(*Node) int64
	walk = func(n *Node) int64 {
		id, fresh := allocClause(n)
		if !fresh {
			return id
		}

		kind := "resolution"
		if n.Kind == StepHypothesis {
			kind = "hypothesis"
		} else if n.Kind == StepLemma {
			kind = "lemma"
		}
		g.AddNode(dotNode{id: id, label: n.String(), kind: kind})

		if n.Kind != StepResolution {
			return id
		}

		pivotID := nextID
		nextID++
		g.AddNode(dotNode{id: pivotID, label: n.Pivot.String(), kind: "pivot"})
		g.SetEdge(g.NewEdge(nodeByID(g, id), nodeByID(g, pivotID)))

		leftID := walk(n.Parent1)
		rightID := walk(n.Parent2)
		g.SetEdge(g.NewEdge(nodeByID(g, pivotID), nodeByID(g, leftID)))
		g.SetEdge(g.NewEdge(nodeByID(g, pivotID), nodeByID(g, rightID)))

		return id
	}
	walk(root)

	data, err := dot.Marshal(g, "proof", "", "  ")
	if err != nil {
		return nil, fmt.Errorf("proof: marshal DOT: %w", err)
	}
	header := []byte(fmt.Sprintf("// proof run %s\n", runID))
	return append(header, data...), nil
}

func nodeByID(g *simple.DirectedGraph, id int64) graph.Node {
	return g.Node(id)
}
