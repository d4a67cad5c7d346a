package ecs

import "github.com/milk9111/enemyai/ecs/component"

// World owns entities and their component stores.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]store
	events   EventQueue
	pending  []Entity
	now      float64
	dt       float64
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]store)}
}

// CreateEntity allocates a new entity.
func CreateEntity(w *World) Entity {
	return w.entities.create()
}

// DestroyEntity removes every component of e and invalidates the handle.
func DestroyEntity(w *World, e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, s := range w.stores {
		s.remove(e.id())
	}
	w.entities.destroy(e)
	w.events.Push(Event{Type: EventEntityDestroyed, Entity: e})
	return true
}

// DestroyLater queues e for destruction at the end of the current update.
func DestroyLater(w *World, e Entity) {
	if w == nil || !w.entities.isAlive(e) {
		return
	}
	for _, p := range w.pending {
		if p == e {
			return
		}
	}
	w.pending = append(w.pending, e)
}

// FlushDestroyed destroys every queued entity and returns how many died.
func FlushDestroyed(w *World) int {
	if w == nil || len(w.pending) == 0 {
		return 0
	}
	pending := w.pending
	w.pending = nil
	n := 0
	for _, e := range pending {
		if DestroyEntity(w, e) {
			n++
		}
	}
	return n
}

// IsAlive reports whether an entity handle is valid.
func IsAlive(w *World, e Entity) bool {
	return w != nil && w.entities.isAlive(e)
}

// Entities returns every live entity in slot order.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	return w.entities.all()
}

// EntityCount returns the number of live entities.
func EntityCount(w *World) int {
	if w == nil {
		return 0
	}
	return w.entities.count
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// Advance moves the world clock forward by dt seconds.
func (w *World) Advance(dt float64) {
	if w == nil || dt < 0 {
		return
	}
	w.dt = dt
	w.now += dt
}

// Now is the world clock in seconds.
func (w *World) Now() float64 {
	if w == nil {
		return 0
	}
	return w.now
}

// Dt is the step length of the last Advance.
func (w *World) Dt() float64 {
	if w == nil {
		return 0
	}
	return w.dt
}
