package prereq

import (
	"context"
	"testing"

	"github.com/yigit/courseregistry/internal/app/models"
)

type mapLoader struct {
	courses map[int64]*models.Course
	calls   int
}

func (l *mapLoader) GetByIDs(_ context.Context, ids []int64) ([]*models.Course, error) {
	l.calls++
	var out []*models.Course
	for _, id := range ids {
		if c, ok := l.courses[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func catalog(edges map[int64][]int64) *mapLoader {
	l := &mapLoader{courses: make(map[int64]*models.Course)}
	for id, prereqs := range edges {
		l.courses[id] = &models.Course{ID: id, CourseName: courseName(id), Prerequisites: prereqs}
	}
	return l
}

func courseName(id int64) string {
	return string(rune('A' + id - 1))
}

func ids(chain []models.CourseSummary) []int64 {
	out := make([]int64, len(chain))
	for i, c := range chain {
		out[i] = c.ID
	}
	return out
}

func equal(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestResolveChainPreOrder(t *testing.T) {
	// 1 -> 2 -> 4, 1 -> 3
	loader := catalog(map[int64][]int64{1: {2, 3}, 2: {4}, 3: nil, 4: nil})

	chain, err := ResolveChain(context.Background(), loader, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ids(chain); !equal(got, []int64{2, 4, 3}) {
		t.Fatalf("expected [2 4 3], got %v", got)
	}
	if chain[0].CourseName != "B" {
		t.Fatalf("expected summary name B, got %s", chain[0].CourseName)
	}
}

func TestResolveChainCycleTerminates(t *testing.T) {
	// 1 -> 2 -> 1
	loader := catalog(map[int64][]int64{1: {2}, 2: {1}})

	chain, err := ResolveChain(context.Background(), loader, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ids(chain); !equal(got, []int64{2}) {
		t.Fatalf("expected [2], got %v", got)
	}
}

func TestResolveChainDiamondHasNoDuplicates(t *testing.T) {
	// 1 -> 2 -> 4, 1 -> 3 -> 4
	loader := catalog(map[int64][]int64{1: {2, 3}, 2: {4}, 3: {4}, 4: nil})

	chain, err := ResolveChain(context.Background(), loader, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ids(chain); !equal(got, []int64{2, 4, 3}) {
		t.Fatalf("expected [2 4 3], got %v", got)
	}
	if loader.calls != 3 {
		t.Fatalf("expected one lookup per depth level (3), got %d", loader.calls)
	}
}

func TestResolveChainSelfReferenceAndMissing(t *testing.T) {
	// 1 -> 1, 1 -> 9 (deleted)
	loader := catalog(map[int64][]int64{1: {1, 9}})

	chain, err := ResolveChain(context.Background(), loader, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chain) != 0 {
		t.Fatalf("expected empty chain, got %v", ids(chain))
	}
}

func TestResolveChainUnknownRoot(t *testing.T) {
	chain, err := ResolveChain(context.Background(), catalog(nil), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chain != nil {
		t.Fatalf("expected nil chain, got %v", chain)
	}
}

func TestLoadSkipsDeletedCourses(t *testing.T) {
	// 1 -> 2, 1 -> 9 where 9 was deleted
	loader := catalog(map[int64][]int64{1: {2, 9}, 2: nil})

	g, err := Load(context.Background(), loader, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Len() != 2 {
		t.Fatalf("expected 2 nodes, got %d", g.Len())
	}
	if got := ids(g.Chain(1)); !equal(got, []int64{2}) {
		t.Fatalf("expected [2], got %v", got)
	}
}
