package book

import (
	"math/rand"
	"sort"
	"testing"
)

func TestRBTreeUpsertFindDelete(t *testing.T) {
	tree := newRBTree()
	lvl := tree.Upsert(100)
	if lvl == nil {
		t.Fatal("Upsert returned nil")
	}
	if got := tree.Find(100); got != lvl {
		t.Error("Find did not return the same level")
	}

	tree.Upsert(200)
	if tree.Min().price != 100 {
		t.Error("expected min=100")
	}
	if tree.Max().price != 200 {
		t.Error("expected max=200")
	}

	if !tree.Delete(100) {
		t.Error("Delete failed")
	}
	if tree.Find(100) != nil {
		t.Error("expected level 100 to be gone")
	}
}

func TestRBTreeDeleteMissing(t *testing.T) {
	tree := newRBTree()
	if tree.Delete(123) {
		t.Error("expected false when deleting a missing level")
	}
}

func TestRBTreeEmptyMinMax(t *testing.T) {
	tree := newRBTree()
	if tree.Min() != nil || tree.Max() != nil {
		t.Error("expected nil min/max on empty tree")
	}
}

func TestRBTreeUpsertDuplicate(t *testing.T) {
	tree := newRBTree()
	a := tree.Upsert(150)
	b := tree.Upsert(150)
	if a != b {
		t.Error("Upsert should return the existing level")
	}
	if tree.Size() != 1 {
		t.Errorf("size = %d, want 1", tree.Size())
	}
}

func TestRBTreeOrderedTraversal(t *testing.T) {
	tree := newRBTree()
	rng := rand.New(rand.NewSource(1))
	prices := rng.Perm(500)
	for _, p := range prices {
		tree.Upsert(int64(p))
	}

	// Delete a deterministic subset to exercise rebalancing.
	deleted := map[int64]bool{}
	for i := 0; i < 200; i++ {
		p := int64(rng.Intn(500))
		if tree.Delete(p) {
			deleted[p] = true
		}
	}

	var want []int64
	for p := int64(0); p < 500; p++ {
		if !deleted[p] {
			want = append(want, p)
		}
	}

	var got []int64
	tree.Ascend(func(lvl *priceLevel) bool {
		got = append(got, lvl.price)
		return true
	})
	if len(got) != len(want) || !sort.SliceIsSorted(got, func(i, j int) bool { return got[i] < got[j] }) {
		t.Fatalf("ascend broken: %d levels, sorted=%v", len(got), sort.SliceIsSorted(got, func(i, j int) bool { return got[i] < got[j] }))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ascend[%d] = %d, want %d", i, got[i], want[i])
		}
	}

	var desc []int64
	tree.Descend(func(lvl *priceLevel) bool {
		desc = append(desc, lvl.price)
		return true
	})
	for i := range desc {
		if desc[i] != got[len(got)-1-i] {
			t.Fatal("descend is not the reverse of ascend")
		}
	}
}

func TestRBTreeTraversalEarlyStop(t *testing.T) {
	tree := newRBTree()
	for p := int64(1); p <= 10; p++ {
		tree.Upsert(p)
	}
	n := 0
	tree.Ascend(func(*priceLevel) bool {
		n++
		return n < 3
	})
	if n != 3 {
		t.Errorf("visited %d levels, want 3", n)
	}
}
