package state

import (
	"fmt"
	"slices"

	"github.com/roach88/rotasim/internal/effects"
)

// Instance is one active effect on an entity.
type Instance struct {
	ID     string          `json:"id"`
	Effect *effects.Effect `json:"-"`
}

// InstanceSnapshot is the serialisable form of an Instance.
type InstanceSnapshot struct {
	ID     string           `json:"id"`
	Effect effects.Snapshot `json:"effect"`
}

// EffectManager stores the active effect instances of one entity, indexed by
// tag. Instances iterate in insertion order.
type EffectManager struct {
	counter   int
	order     []string
	instances map[string]*Instance
	tagCounts map[effects.Tag]int
}

// NewEffectManager returns an empty manager.
func NewEffectManager() *EffectManager {
	return &EffectManager{
		instances: make(map[string]*Instance),
		tagCounts: make(map[effects.Tag]int),
	}
}

// Add inserts e and returns the instance holding it.
//
// When an instance of the same effect id is already active and stackable,
// e is folded into it and the existing instance is returned. Otherwise a new
// instance with id "<effectId>_<counter>" is created.
func (m *EffectManager) Add(e *effects.Effect) *Instance {
	if existing := m.byEffectID(e.ID); existing != nil && existing.Effect.IsStackable() {
		stack(existing.Effect, e)
		return existing
	}

	id := fmt.Sprintf("%s_%d", e.ID, m.counter)
	m.counter++

	inst := &Instance{ID: id, Effect: e}
	m.instances[id] = inst
	m.order = append(m.order, id)
	m.updateTags(e, 1)
	return inst
}

func stack(existing, incoming *effects.Effect) {
	if existing.CurrentStacks == 0 {
		existing.CurrentStacks = min(existing.MaxStacks, incoming.CurrentStacks)
	}
	if existing.CurrentStacks < existing.MaxStacks {
		existing.CurrentStacks = min(existing.MaxStacks, existing.CurrentStacks+incoming.CurrentStacks)
	}

	switch existing.StackStrategy {
	case effects.RefreshDuration:
		existing.StartTime = incoming.StartTime
	case effects.AddDuration:
		if !existing.IsPermanent() {
			existing.Duration += incoming.Duration
		}
	}
}

// Remove deletes the instance and reports whether it existed.
func (m *EffectManager) Remove(instanceID string) (*Instance, bool) {
	inst, ok := m.instances[instanceID]
	if !ok {
		return nil, false
	}
	delete(m.instances, instanceID)
	m.order = slices.DeleteFunc(m.order, func(id string) bool { return id == instanceID })
	m.updateTags(inst.Effect, -1)
	return inst, true
}

// Get returns the instance with the given id.
func (m *EffectManager) Get(instanceID string) (*Instance, bool) {
	inst, ok := m.instances[instanceID]
	return inst, ok
}

// HasTag reports whether any active instance carries tag.
func (m *EffectManager) HasTag(tag effects.Tag) bool {
	return m.tagCounts[tag] > 0
}

// HasAnyTag reports whether any active instance carries one of tags.
func (m *EffectManager) HasAnyTag(tags ...effects.Tag) bool {
	for _, t := range tags {
		if m.HasTag(t) {
			return true
		}
	}
	return false
}

// ByTag returns the active instances carrying tag, in insertion order.
func (m *EffectManager) ByTag(tag effects.Tag) []*Instance {
	var out []*Instance
	for _, id := range m.order {
		if inst := m.instances[id]; inst.Effect.HasTag(tag) {
			out = append(out, inst)
		}
	}
	return out
}

// All returns every active instance in insertion order.
func (m *EffectManager) All() []*Instance {
	out := make([]*Instance, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.instances[id])
	}
	return out
}

// Tags returns the tags carried by at least one active instance, sorted.
func (m *EffectManager) Tags() []effects.Tag {
	var out []effects.Tag
	for tag, n := range m.tagCounts {
		if n > 0 {
			out = append(out, tag)
		}
	}
	slices.Sort(out)
	return out
}

// Len returns the number of active instances.
func (m *EffectManager) Len() int {
	return len(m.order)
}

// Snapshot returns the active instances in insertion order.
func (m *EffectManager) Snapshot() []InstanceSnapshot {
	out := make([]InstanceSnapshot, 0, len(m.order))
	for _, inst := range m.All() {
		out = append(out, InstanceSnapshot{ID: inst.ID, Effect: inst.Effect.Snapshot()})
	}
	return out
}

func (m *EffectManager) byEffectID(effectID string) *Instance {
	for _, id := range m.order {
		if inst := m.instances[id]; inst.Effect.ID == effectID {
			return inst
		}
	}
	return nil
}

func (m *EffectManager) updateTags(e *effects.Effect, delta int) {
	for _, tag := range e.Tags {
		m.tagCounts[tag] = max(0, m.tagCounts[tag]+delta)
	}
}
