package ecs

import (
	"errors"
	"testing"

	"github.com/milk9111/enemyai/ecs/component"
)

func TestEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, CreateEntity(w))
			}
			if len(Entities(w)) != c.create {
				t.Fatalf("expected %d entities, got %d", c.create, len(Entities(w)))
			}
			if c.destroyIndex < 0 {
				return
			}
			if !DestroyEntity(w, ents[c.destroyIndex]) {
				t.Fatalf("DestroyEntity should return true for alive entity")
			}
			if IsAlive(w, ents[c.destroyIndex]) {
				t.Fatalf("entity should not be alive after destruction")
			}
			if DestroyEntity(w, ents[c.destroyIndex]) {
				t.Fatalf("double destroy should fail")
			}
			if EntityCount(w) != c.create-1 {
				t.Fatalf("count = %d, want %d", EntityCount(w), c.create-1)
			}
		})
	}
}

func TestRecycledSlotRejectsStaleHandle(t *testing.T) {
	w := NewWorld()
	hp := component.NewComponent[float64]()

	old := CreateEntity(w)
	if err := Add(w, old, hp.Kind(), float64Ptr(5)); err != nil {
		t.Fatal(err)
	}
	DestroyEntity(w, old)

	fresh := CreateEntity(w)
	if fresh.id() != old.id() {
		t.Fatalf("expected slot reuse")
	}
	if fresh == old {
		t.Fatalf("recycled entity must have a new generation")
	}
	if IsAlive(w, old) {
		t.Fatalf("stale handle resolved")
	}
	if _, ok := Get(w, fresh, hp.Kind()); ok {
		t.Fatalf("component leaked into recycled slot")
	}
	if err := Add(w, old, hp.Kind(), float64Ptr(1)); !errors.Is(err, component.ErrEntityNotAlive) {
		t.Fatalf("Add on stale handle = %v", err)
	}
}

func TestComponents(t *testing.T) {
	w := NewWorld()
	ints := component.NewComponent[int]("ints")
	strs := component.NewComponent[string]("strs")

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)

	tests := []struct {
		name     string
		setup    func() error
		check    func(t *testing.T)
		teardown func() bool
	}{
		{
			name:  "add_int_to_e1",
			setup: func() error { return Add(w, e1, ints.Kind(), intPtr(10)) },
			check: func(t *testing.T) {
				v, ok := Get(w, e1, ints.Kind())
				if !ok || *v != 10 {
					t.Fatalf("expected 10, got %v ok=%v", v, ok)
				}
				if Has(w, e2, ints.Kind()) {
					t.Fatalf("e2 should not have ints")
				}
			},
			teardown: func() bool { return Remove(w, e1, ints.Kind()) },
		},
		{
			name: "mutate_through_pointer",
			setup: func() error {
				return Add(w, e2, strs.Kind(), stringPtr("a"))
			},
			check: func(t *testing.T) {
				v, _ := Get(w, e2, strs.Kind())
				*v = "b"
				again, _ := Get(w, e2, strs.Kind())
				if *again != "b" {
					t.Fatalf("expected stored pointer to be shared")
				}
			},
			teardown: func() bool { return Remove(w, e2, strs.Kind()) },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.setup(); err != nil {
				t.Fatalf("setup failed: %v", err)
			}
			tc.check(t)
			if !tc.teardown() {
				t.Fatalf("teardown failed for %s", tc.name)
			}
		})
	}

	if err := Add[int](w, e1, ints.Kind(), nil); !errors.Is(err, component.ErrNilComponent) {
		t.Fatalf("nil add = %v", err)
	}
	if err := Add(w, e1, component.ComponentKind[int]{}, intPtr(1)); !errors.Is(err, component.ErrInvalidComponentKind) {
		t.Fatalf("zero kind add = %v", err)
	}
}

func TestForEachVariants(t *testing.T) {
	w := NewWorld()
	ka := component.NewComponentKind[int]()
	kb := component.NewComponentKind[int]()
	kc := component.NewComponentKind[int]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)
	e3 := CreateEntity(w)
	for _, add := range []struct {
		e    Entity
		kind component.ComponentKind[int]
	}{
		{e1, ka}, {e2, ka}, {e2, kb}, {e2, kc}, {e3, kb}, {e3, kc},
	} {
		if err := Add(w, add.e, add.kind, intPtr(1)); err != nil {
			t.Fatal(err)
		}
	}

	cases := []struct {
		name string
		run  func() []Entity
		want []Entity
	}{
		{"one", func() (res []Entity) {
			ForEach(w, ka, func(e Entity, _ *int) { res = append(res, e) })
			return
		}, []Entity{e1, e2}},
		{"two", func() (res []Entity) {
			ForEach2(w, kb, kc, func(e Entity, _, _ *int) { res = append(res, e) })
			return
		}, []Entity{e2, e3}},
		{"three", func() (res []Entity) {
			ForEach3(w, ka, kb, kc, func(e Entity, _, _, _ *int) { res = append(res, e) })
			return
		}, []Entity{e2}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := toSet(c.run())
			if len(got) != len(c.want) {
				t.Fatalf("got %v, want %v", got, c.want)
			}
			for _, e := range c.want {
				if _, ok := got[e]; !ok {
					t.Fatalf("missing %v in %v", e, got)
				}
			}
		})
	}

	DestroyEntity(w, e2)
	var res []Entity
	ForEach3(w, ka, kb, kc, func(e Entity, _, _, _ *int) { res = append(res, e) })
	if len(res) != 0 {
		t.Fatalf("expected empty result after destroy, got %v", res)
	}
}

func TestSchedulerStepDefersDestroy(t *testing.T) {
	w := NewWorld()
	e := CreateEntity(w)
	var order []string
	var aliveInSecond bool

	s := NewScheduler(
		SystemFunc(func(w *World) {
			order = append(order, "first")
			DestroyLater(w, e)
			DestroyLater(w, e)
		}),
		nil,
		SystemFunc(func(w *World) {
			order = append(order, "second")
			aliveInSecond = IsAlive(w, e)
		}),
	)
	s.Step(w, 0.5)

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("order = %v", order)
	}
	if !aliveInSecond {
		t.Fatalf("entity destroyed before the end of the step")
	}
	if IsAlive(w, e) {
		t.Fatalf("entity survived the step")
	}
	if w.Now() != 0.5 || w.Dt() != 0.5 {
		t.Fatalf("clock = %v/%v", w.Now(), w.Dt())
	}
	events := w.Events().Drain()
	if len(events) != 1 || events[0].Type != EventEntityDestroyed || events[0].Entity != e {
		t.Fatalf("events = %+v", events)
	}
}

func toSet(ents []Entity) map[Entity]struct{} {
	m := make(map[Entity]struct{}, len(ents))
	for _, e := range ents {
		m[e] = struct{}{}
	}
	return m
}

func intPtr(i int) *int {
	return &i
}

func stringPtr(s string) *string {
	return &s
}

func float64Ptr(f float64) *float64 {
	return &f
}
