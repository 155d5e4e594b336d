package memory

import "testing"

type widget struct {
	ID   uint64
	Name string
}

func TestPoolZeroesOnPut(t *testing.T) {
	p := NewPool(func() *widget { return &widget{} })

	w := p.Get()
	w.ID = 42
	w.Name = "dirty"
	p.Put(w)

	// Whatever Get returns next must carry no state from a previous user.
	got := p.Get()
	if got.ID != 0 || got.Name != "" {
		t.Fatalf("recycled value not zeroed: %+v", got)
	}
}

func TestPoolConstructor(t *testing.T) {
	p := NewPool(func() *widget { return &widget{Name: "fresh"} })
	if got := p.Get(); got.Name != "fresh" {
		t.Fatalf("constructor not used: %+v", got)
	}
}
