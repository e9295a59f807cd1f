// Package editor holds the editable state of the config builder: an ordered
// collection of groups, each owning ordered targets and label pairs.
// Every mutation reports upward to a single Trigger once the change is
// complete, so the serializer never observes a half-applied edit.
package editor

import (
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/pkordes/pfscgen/internal/domain"
)

// Trigger is the re-derivation entry point invoked after every mutation.
// notify.Notifier satisfies it.
type Trigger interface {
	Notify()
}

// TriggerFunc adapts a plain function to Trigger.
type TriggerFunc func()

// Notify calls f.
func (f TriggerFunc) Notify() { f() }

// GroupCollection is the root of the editable tree.
// The zero value is not usable; construct with NewGroupCollection.
type GroupCollection struct {
	mu      sync.Mutex
	groups  []*GroupEditor
	trigger Trigger
}

// NewGroupCollection returns an empty collection. A nil trigger is allowed;
// use SetTrigger once the notifier has been built.
func NewGroupCollection(t Trigger) *GroupCollection {
	return &GroupCollection{trigger: t}
}

// SetTrigger replaces the re-derivation trigger.
func (c *GroupCollection) SetTrigger(t Trigger) {
	c.mu.Lock()
	c.trigger = t
	c.mu.Unlock()
}

// AddGroup appends a new group. With a nil spec the group starts with one
// blank target and one blank label.
func (c *GroupCollection) AddGroup(spec *domain.GroupSpec) *GroupEditor {
	g := newGroupEditor(c, spec)

	c.mu.Lock()
	c.groups = append(c.groups, g)
	c.mu.Unlock()

	c.changed()
	return g
}

// LoadDefault adds the example group shown when the editor opens.
func (c *GroupCollection) LoadDefault() *GroupEditor {
	spec := domain.DefaultGroupSpec()
	return c.AddGroup(&spec)
}

// RemoveGroup deletes the group with the given id and reports whether it was
// present. Re-derivation is triggered either way.
func (c *GroupCollection) RemoveGroup(id uuid.UUID) bool {
	c.mu.Lock()
	i := slices.IndexFunc(c.groups, func(g *GroupEditor) bool { return g.id == id })
	if i >= 0 {
		c.groups[i].detached = true
		c.groups = slices.Delete(c.groups, i, i+1)
	}
	c.mu.Unlock()

	c.changed()
	return i >= 0
}

// Group looks a group up by id.
func (c *GroupCollection) Group(id uuid.UUID) (*GroupEditor, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, g := range c.groups {
		if g.id == id {
			return g, true
		}
	}
	return nil, false
}

// Groups returns the groups in display order.
func (c *GroupCollection) Groups() []*GroupEditor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.groups)
}

// Len returns the number of groups.
func (c *GroupCollection) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.groups)
}

// Snapshot copies the whole tree under the collection lock.
func (c *GroupCollection) Snapshot() []domain.Group {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Group, len(c.groups))
	for i, g := range c.groups {
		out[i] = g.snapshotLocked()
	}
	return out
}

// Records serializes the current tree. See Serialize.
func (c *GroupCollection) Records() ([]domain.Record, error) {
	return Serialize(c.Snapshot())
}

// changed fires the trigger. It must be called without c.mu held.
func (c *GroupCollection) changed() {
	c.mu.Lock()
	t := c.trigger
	c.mu.Unlock()
	if t != nil {
		t.Notify()
	}
}
