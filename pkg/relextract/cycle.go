package relextract

// DetectCycle runs a DFS over the graph induced by antisymmetric-predicate
// relations and returns the first cycle found, or nil if the graph is
// acyclic. Symmetric and typed-inverse-pair predicates are excluded: a
// symmetric edge always forms a trivial 2-cycle and is not a modeling
// error.
func DetectCycle(rels []Relation) []Relation {
	adjacency := make(map[string][]Relation)
	for _, r := range rels {
		info, ok := Vocabulary[r.Pred]
		if !ok || info.Symmetry != Antisymmetric {
			continue
		}
		adjacency[r.Subj] = append(adjacency[r.Subj], r)
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int)
	var path []Relation

	var visit func(node string) []Relation
	visit = func(node string) []Relation {
		color[node] = gray
		for _, edge := range adjacency[node] {
			path = append(path, edge)
			switch color[edge.Obj] {
			case white:
				if cyc := visit(edge.Obj); cyc != nil {
					return cyc
				}
			case gray:
				return append([]Relation{}, path...)
			}
			path = path[:len(path)-1]
		}
		color[node] = black
		return nil
	}

	nodes := make([]string, 0, len(adjacency))
	for n := range adjacency {
		nodes = append(nodes, n)
	}
	for _, n := range nodes {
		if color[n] == white {
			path = path[:0]
			if cyc := visit(n); cyc != nil {
				return cyc
			}
		}
	}
	return nil
}
