package session

import "testing"

func TestAddBrandKeepsOrderAndDedupes(t *testing.T) {
	s := &Session{}
	s.AddBrand("Nike")
	s.AddBrand("Asics")
	s.AddBrand("Nike")

	if len(s.Brands) != 2 {
		t.Fatalf("expected 2 brands, got %d", len(s.Brands))
	}
	if s.Brands[0] != "Nike" || s.Brands[1] != "Asics" {
		t.Fatalf("unexpected brand order: %v", s.Brands)
	}
}

func TestSelectionComplete(t *testing.T) {
	s := &Session{}
	if s.SelectionComplete() {
		t.Fatal("empty session reported complete")
	}
	s.AddBrand("Nike")
	s.Sex = "Мужской"
	if s.SelectionComplete() {
		t.Fatal("session without sizes reported complete")
	}
	s.AddSize("27")
	if !s.SelectionComplete() {
		t.Fatal("full selection reported incomplete")
	}
}

func TestResetClearsEverything(t *testing.T) {
	s := &Session{}
	s.Flow = FlowAwaitDelivery
	s.Price = 129.95
	s.AddBrand("Hoka")
	s.Sex = "Женский"
	s.AddSize("24,5")
	s.Post = &Post{Text: "hello"}

	s.Reset()

	if s.Flow != FlowNone || s.Price != 0 || s.Sex != "" || s.Post != nil {
		t.Fatalf("reset left state behind: %+v", s)
	}
	if len(s.Brands) != 0 || len(s.Sizes) != 0 {
		t.Fatalf("reset left selections behind: %+v", s)
	}
}

func TestStoreFlowWithoutSession(t *testing.T) {
	store := NewStore()
	if got := store.Flow(42); got != FlowNone {
		t.Fatalf("expected FlowNone for unknown chat, got %v", got)
	}
	if store.Len() != 0 {
		t.Fatal("Flow lookup must not create a session")
	}

	store.Get(42).Flow = FlowAwaitRate
	if got := store.Flow(42); got != FlowAwaitRate {
		t.Fatalf("expected FlowAwaitRate, got %v", got)
	}
	if store.Len() != 1 {
		t.Fatalf("expected one session, got %d", store.Len())
	}
}

func TestStoreGetReturnsSameSession(t *testing.T) {
	store := NewStore()
	a := store.Get(7)
	a.AddBrand("Puma")
	b := store.Get(7)
	if len(b.Brands) != 1 || b.Brands[0] != "Puma" {
		t.Fatalf("expected shared session state, got %v", b.Brands)
	}
}
