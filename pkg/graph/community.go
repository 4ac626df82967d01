package graph

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/kittclouds/gokitt/pkg/model"
)

// minComponentSplit is the minimum connected-component size eligible for
// further modularity-based splitting into level-1 sub-communities.
const minComponentSplit = 6

// maxModularityNodes caps the component size the modularity optimisation
// runs over; larger components are kept as level-0 only.
const maxModularityNodes = 200

// Community is a set of entities that cluster together by relation
// connectivity, plus a generated natural-language summary.
type Community struct {
	ID        string
	Level     int
	EntityIDs []string
	Summary   string
}

type edge struct {
	to     int
	weight float64
}

// DetectCommunities partitions a graph's entities into level-0 connected
// components (via BFS over the relation adjacency) and, for components at
// least minComponentSplit large, further splits them into level-1
// sub-communities via greedy modularity optimisation.
func DetectCommunities(g Graph) []Community {
	if len(g.Entities) == 0 {
		return nil
	}

	idIndex := make(map[string]int, len(g.Entities))
	for i, e := range g.Entities {
		idIndex[e.ID] = i
	}

	adj := make([][]edge, len(g.Entities))
	totalWeight := 0.0
	for _, r := range g.Relations {
		si, okS := idIndex[r.Subj]
		ti, okT := idIndex[r.Obj]
		if !okS || !okT || si == ti {
			continue
		}
		w := r.Confidence
		if w <= 0 {
			w = 0.5
		}
		adj[si] = append(adj[si], edge{to: ti, weight: w})
		adj[ti] = append(adj[ti], edge{to: si, weight: w})
		totalWeight += w
	}

	visited := make([]bool, len(g.Entities))
	var components [][]int
	for i := range g.Entities {
		if visited[i] {
			continue
		}
		var comp []int
		queue := []int{i}
		visited[i] = true
		for len(queue) > 0 {
			node := queue[0]
			queue = queue[1:]
			comp = append(comp, node)
			for _, e := range adj[node] {
				if !visited[e.to] {
					visited[e.to] = true
					queue = append(queue, e.to)
				}
			}
		}
		components = append(components, comp)
	}

	var communities []Community
	for ci, comp := range components {
		communities = append(communities, Community{
			ID:        fmt.Sprintf("community-0-%d", ci),
			Level:     0,
			EntityIDs: componentEntityIDs(comp, g.Entities),
		})

		if len(comp) >= minComponentSplit && len(comp) <= maxModularityNodes && totalWeight > 0 {
			for si, sub := range modularitySplit(comp, adj, totalWeight) {
				communities = append(communities, Community{
					ID:        fmt.Sprintf("community-1-%d-%d", ci, si),
					Level:     1,
					EntityIDs: componentEntityIDs(sub, g.Entities),
				})
			}
		}
	}
	return communities
}

func componentEntityIDs(comp []int, entities []*model.GlobalEntity) []string {
	ids := make([]string, len(comp))
	for i, idx := range comp {
		ids[i] = entities[idx].ID
	}
	return ids
}

// modularitySplit applies a greedy modularity optimisation (simplified
// Louvain, single pass to local optimum) to split a connected component
// into two or more sub-communities. Returns the original component
// unsplit if no improving move exists.
func modularitySplit(comp []int, adj [][]edge, totalWeight float64) [][]int {
	n := len(comp)
	if n < minComponentSplit {
		return [][]int{comp}
	}

	localIdx := make(map[int]int, n)
	for i, node := range comp {
		localIdx[node] = i
	}

	community := make([]int, n)
	for i := range community {
		community[i] = i
	}

	strength := make([]float64, n)
	for i, node := range comp {
		for _, e := range adj[node] {
			if _, ok := localIdx[e.to]; ok {
				strength[i] += e.weight
			}
		}
	}

	m2 := 2.0 * totalWeight
	if m2 == 0 {
		return [][]int{comp}
	}

	commStrength := make(map[int]float64, n)
	for i := range comp {
		commStrength[community[i]] += strength[i]
	}

	const maxPasses = 20
	for pass := 0; pass < maxPasses; pass++ {
		moved := false
		for i, node := range comp {
			commWeights := make(map[int]float64)
			for _, e := range adj[node] {
				li, ok := localIdx[e.to]
				if !ok {
					continue
				}
				commWeights[community[li]] += e.weight
			}

			currentComm := community[i]
			kiIn := commWeights[currentComm]
			ki := strength[i]
			sigmaCurrent := commStrength[currentComm]
			removeDelta := kiIn/m2 - (sigmaCurrent*ki)/(m2*m2)

			bestComm := currentComm
			bestGain := 0.0
			for c, wic := range commWeights {
				if c == currentComm {
					continue
				}
				sigmaC := commStrength[c]
				gain := (wic/m2 - (sigmaC*ki)/(m2*m2)) - removeDelta
				if gain > bestGain {
					bestGain = gain
					bestComm = c
				}
			}

			if bestComm != currentComm {
				commStrength[currentComm] -= ki
				commStrength[bestComm] += ki
				community[i] = bestComm
				moved = true
			}
		}
		if !moved {
			break
		}
	}

	groups := make(map[int][]int)
	for i, node := range comp {
		groups[community[i]] = append(groups[community[i]], node)
	}
	result := make([][]int, 0, len(groups))
	for _, g := range groups {
		result = append(result, g)
	}
	if len(result) <= 1 {
		return [][]int{comp}
	}
	sort.Slice(result, func(i, j int) bool { return result[i][0] < result[j][0] })
	return result
}

// Summarizer generates a natural-language summary for one community given
// its member entities. The default DescriptiveSummarizer is purely
// deterministic; callers may substitute an LLM-backed implementation.
type Summarizer interface {
	Summarize(ctx context.Context, members []*model.GlobalEntity) (string, error)
}

// DescriptiveSummarizer builds a summary by listing member names grouped
// by type, with no external dependency.
type DescriptiveSummarizer struct{}

func (DescriptiveSummarizer) Summarize(_ context.Context, members []*model.GlobalEntity) (string, error) {
	byType := make(map[model.EntityType][]string)
	var order []model.EntityType
	for _, m := range members {
		if _, ok := byType[m.Type]; !ok {
			order = append(order, m.Type)
		}
		byType[m.Type] = append(byType[m.Type], m.Canonical)
	}

	var parts []string
	for _, t := range order {
		parts = append(parts, fmt.Sprintf("%s: %s", t.String(), strings.Join(byType[t], ", ")))
	}
	return strings.Join(parts, "; "), nil
}

// SummarizeCommunities generates summaries for every community concurrently
// (bounded by concurrency), using the given Summarizer. A failed summary
// leaves Community.Summary empty and does not abort the others.
func SummarizeCommunities(ctx context.Context, communities []Community, entities []*model.GlobalEntity, summarizer Summarizer, concurrency int) []Community {
	if concurrency <= 0 {
		concurrency = 8
	}
	byID := make(map[string]*model.GlobalEntity, len(entities))
	for _, e := range entities {
		byID[e.ID] = e
	}

	out := make([]Community, len(communities))
	copy(out, communities)

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		sem = make(chan struct{}, concurrency)
	)

	for i := range out {
		members := make([]*model.GlobalEntity, 0, len(out[i].EntityIDs))
		for _, id := range out[i].EntityIDs {
			if e, ok := byID[id]; ok {
				members = append(members, e)
			}
		}
		if len(members) == 0 {
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(idx int, members []*model.GlobalEntity) {
			defer wg.Done()
			defer func() { <-sem }()

			summary, err := summarizer.Summarize(ctx, members)
			if err != nil {
				return
			}
			mu.Lock()
			out[idx].Summary = summary
			mu.Unlock()
		}(i, members)
	}
	wg.Wait()
	return out
}
