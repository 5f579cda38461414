package softbody

// Link appends one directed record owner -> target with the given rest
// length. Nodes without a constraint container (anchors) silently keep no
// record. Returns true if the record was stored.
func Link(g *Graph, owner, target NodeID, rest float64) bool {
	i, ok := g.index(owner)
	if !ok || !g.masks[i].Has(KindConstraints) || !g.Valid(target) {
		return false
	}
	g.constraints[i] = append(g.constraints[i], Constraint{Target: target, RestLength: rest})
	return true
}

// Connect creates an undirected structural edge between a and b: a record on
// a referencing b and a record on b referencing a, both with the same rest
// length. The record of an endpoint without a container is skipped.
// Returns the number of records stored.
func Connect(g *Graph, a, b NodeID, rest float64) int {
	stored := 0
	if Link(g, a, b, rest) {
		stored++
	}
	if Link(g, b, a, rest) {
		stored++
	}
	return stored
}

// Edges returns every structural edge of the graph once, as the pair of its
// endpoints with the smaller handle first. An edge is reported when at least
// one endpoint stores a record for it.
func Edges(g *Graph) []Edge {
	seen := make(map[[2]NodeID]struct{})
	var edges []Edge
	for _, n := range g.Query(KindConstraints) {
		list, _ := g.Constraints(n)
		for _, c := range list {
			a, b := n, c.Target
			if b < a {
				a, b = b, a
			}
			key := [2]NodeID{a, b}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			edges = append(edges, Edge{A: a, B: b, RestLength: c.RestLength})
		}
	}
	return edges
}

// Edge is an undirected structural edge.
type Edge struct {
	A, B       NodeID
	RestLength float64
}
