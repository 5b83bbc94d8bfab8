// Package prereq resolves transitive prerequisite chains over the course
// catalog.
//
// Courses are loaded into an arena: each course becomes a node addressed by
// its index, and prerequisite edges are stored as index lists. Loading walks
// the catalog one frontier at a time so a chain of depth d costs d batched
// lookups. Traversal uses an explicit stack and a visited set, so cycles and
// diamonds terminate and every course appears at most once.
package prereq

import (
	"context"
	"fmt"

	"github.com/yigit/courseregistry/internal/app/models"
)

// CourseLoader fetches courses by ID. Unknown IDs are omitted from the result.
type CourseLoader interface {
	GetByIDs(ctx context.Context, ids []int64) ([]*models.Course, error)
}

type node struct {
	course *models.Course
	edges  []int
}

// Graph is an arena of course nodes with index-based prerequisite edges.
type Graph struct {
	nodes []node
	index map[int64]int
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{index: make(map[int64]int)}
}

// Add inserts a course node, returning its index. Adding a course twice
// returns the existing index.
func (g *Graph) Add(c *models.Course) int {
	if i, ok := g.index[c.ID]; ok {
		return i
	}
	g.nodes = append(g.nodes, node{course: c})
	i := len(g.nodes) - 1
	g.index[c.ID] = i
	return i
}

// Link resolves every node's prerequisite IDs into edges. References to
// courses that are not in the graph (deleted courses) are dropped.
func (g *Graph) Link() {
	for i := range g.nodes {
		g.nodes[i].edges = g.nodes[i].edges[:0]
		for _, pid := range g.nodes[i].course.Prerequisites {
			if j, ok := g.index[pid]; ok {
				g.nodes[i].edges = append(g.nodes[i].edges, j)
			}
		}
	}
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Load builds the subgraph reachable from rootID.
func Load(ctx context.Context, loader CourseLoader, rootID int64) (*Graph, error) {
	g := NewGraph()
	frontier := []int64{rootID}
	for len(frontier) > 0 {
		courses, err := loader.GetByIDs(ctx, frontier)
		if err != nil {
			return nil, fmt.Errorf("error loading prerequisite courses: %w", err)
		}

		var next []int64
		queued := make(map[int64]struct{})
		for _, c := range courses {
			if _, seen := g.index[c.ID]; seen {
				continue
			}
			g.Add(c)
			for _, pid := range c.Prerequisites {
				if _, seen := g.index[pid]; seen {
					continue
				}
				if _, ok := queued[pid]; ok {
					continue
				}
				queued[pid] = struct{}{}
				next = append(next, pid)
			}
		}
		frontier = next
	}
	g.Link()
	return g, nil
}

// Chain returns the transitive prerequisites of rootID in depth-first
// pre-order: each direct prerequisite in stored order, followed by its own
// chain. The root itself is never part of its chain.
func (g *Graph) Chain(rootID int64) []models.CourseSummary {
	root, ok := g.index[rootID]
	if !ok {
		return nil
	}

	visited := make([]bool, len(g.nodes))
	visited[root] = true

	chain := make([]models.CourseSummary, 0, g.Len()-1)
	stack := reversed(g.nodes[root].edges)
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[i] {
			continue
		}
		visited[i] = true
		chain = append(chain, g.nodes[i].course.Summary())
		stack = append(stack, reversed(g.nodes[i].edges)...)
	}
	return chain
}

func reversed(in []int) []int {
	out := make([]int, len(in))
	for i, v := range in {
		out[len(in)-1-i] = v
	}
	return out
}

// ResolveChain loads the graph reachable from courseID and returns its
// de-duplicated prerequisite chain.
func ResolveChain(ctx context.Context, loader CourseLoader, courseID int64) ([]models.CourseSummary, error) {
	g, err := Load(ctx, loader, courseID)
	if err != nil {
		return nil, err
	}
	return g.Chain(courseID), nil
}
