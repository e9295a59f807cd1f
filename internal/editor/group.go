package editor

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/pkordes/pfscgen/internal/domain"
)

// untitled is shown in place of an empty group name.
const untitled = "Unnamed Group"

// GroupEditor edits one group. Its identity is fixed at creation and does not
// depend on the name. All state is guarded by the owning collection's lock.
type GroupEditor struct {
	coll      *GroupCollection
	id        uuid.UUID
	name      string
	targets   []domain.Target
	labels    []domain.LabelPair
	collapsed bool
	detached  bool // removed from coll; edits no longer re-derive
}

func newGroupEditor(c *GroupCollection, spec *domain.GroupSpec) *GroupEditor {
	g := &GroupEditor{coll: c, id: uuid.New()}

	var (
		targets = []string{""}
		labels  = []domain.Label{{}}
	)
	if spec != nil {
		g.name = spec.Name
		if spec.Targets != nil {
			targets = spec.Targets
		}
		if spec.Labels != nil {
			labels = spec.Labels
		}
	}

	g.targets = make([]domain.Target, 0, len(targets))
	for _, v := range targets {
		g.targets = append(g.targets, domain.Target{ID: uuid.New(), Value: v})
	}
	g.labels = make([]domain.LabelPair, 0, len(labels))
	for _, l := range labels {
		g.labels = append(g.labels, domain.LabelPair{ID: uuid.New(), Key: l.Key, Value: l.Value})
	}
	return g
}

// ID returns the group's identity.
func (g *GroupEditor) ID() uuid.UUID { return g.id }

// Name returns the group name as typed.
func (g *GroupEditor) Name() string {
	g.coll.mu.Lock()
	defer g.coll.mu.Unlock()
	return g.name
}

// Title is the heading shown for the group, which falls back to
// "Unnamed Group" while the name is blank.
func (g *GroupEditor) Title() string {
	if n := g.Name(); n != "" {
		return n
	}
	return untitled
}

// Rename updates the display name.
func (g *GroupEditor) Rename(name string) {
	g.mutate(func() { g.name = name })
}

// Collapsed reports the collapse state.
func (g *GroupEditor) Collapsed() bool {
	g.coll.mu.Lock()
	defer g.coll.mu.Unlock()
	return g.collapsed
}

// SetCollapsed sets the collapse state. It is view state only and does not
// trigger re-derivation.
func (g *GroupEditor) SetCollapsed(collapsed bool) {
	g.coll.mu.Lock()
	g.collapsed = collapsed
	g.coll.mu.Unlock()
}

// ToggleCollapsed flips the collapse state and returns the new value.
func (g *GroupEditor) ToggleCollapsed() bool {
	g.coll.mu.Lock()
	defer g.coll.mu.Unlock()
	g.collapsed = !g.collapsed
	return g.collapsed
}

// AddTarget appends a target row and returns its id.
func (g *GroupEditor) AddTarget(value string) uuid.UUID {
	id := uuid.New()
	g.mutate(func() {
		g.targets = append(g.targets, domain.Target{ID: id, Value: value})
	})
	return id
}

// RemoveTarget deletes a target row and reports whether it existed.
// A group may be emptied of targets; it is not repopulated.
func (g *GroupEditor) RemoveTarget(id uuid.UUID) bool {
	var found bool
	g.mutate(func() {
		n := len(g.targets)
		g.targets = slices.DeleteFunc(g.targets, func(t domain.Target) bool { return t.ID == id })
		found = len(g.targets) < n
	})
	return found
}

// SetTarget replaces the value of an existing target row.
func (g *GroupEditor) SetTarget(id uuid.UUID, value string) error {
	g.coll.mu.Lock()
	i := slices.IndexFunc(g.targets, func(t domain.Target) bool { return t.ID == id })
	if i < 0 {
		g.coll.mu.Unlock()
		return fmt.Errorf("editor.GroupEditor.SetTarget: target %s: %w", id, domain.ErrNotFound)
	}
	g.targets[i].Value = value
	g.coll.mu.Unlock()

	g.changed()
	return nil
}

// Targets returns a copy of the target rows in order.
func (g *GroupEditor) Targets() []domain.Target {
	g.coll.mu.Lock()
	defer g.coll.mu.Unlock()
	return slices.Clone(g.targets)
}

// AddLabel appends a label row and returns its id.
func (g *GroupEditor) AddLabel(key, value string) uuid.UUID {
	id := uuid.New()
	g.mutate(func() {
		g.labels = append(g.labels, domain.LabelPair{ID: id, Key: key, Value: value})
	})
	return id
}

// RemoveLabel deletes a label row and reports whether it existed.
func (g *GroupEditor) RemoveLabel(id uuid.UUID) bool {
	var found bool
	g.mutate(func() {
		n := len(g.labels)
		g.labels = slices.DeleteFunc(g.labels, func(l domain.LabelPair) bool { return l.ID == id })
		found = len(g.labels) < n
	})
	return found
}

// SetLabel replaces the key and value of an existing label row.
func (g *GroupEditor) SetLabel(id uuid.UUID, key, value string) error {
	g.coll.mu.Lock()
	i := slices.IndexFunc(g.labels, func(l domain.LabelPair) bool { return l.ID == id })
	if i < 0 {
		g.coll.mu.Unlock()
		return fmt.Errorf("editor.GroupEditor.SetLabel: label %s: %w", id, domain.ErrNotFound)
	}
	g.labels[i].Key = key
	g.labels[i].Value = value
	g.coll.mu.Unlock()

	g.changed()
	return nil
}

// Labels returns a copy of the label rows in order.
func (g *GroupEditor) Labels() []domain.LabelPair {
	g.coll.mu.Lock()
	defer g.coll.mu.Unlock()
	return slices.Clone(g.labels)
}

// Snapshot returns a copy of the group.
func (g *GroupEditor) Snapshot() domain.Group {
	g.coll.mu.Lock()
	defer g.coll.mu.Unlock()
	return g.snapshotLocked()
}

func (g *GroupEditor) snapshotLocked() domain.Group {
	return domain.Group{
		ID:        g.id,
		Name:      g.name,
		Targets:   slices.Clone(g.targets),
		Labels:    slices.Clone(g.labels),
		Collapsed: g.collapsed,
	}
}

// mutate applies fn under the collection lock, then re-derives.
func (g *GroupEditor) mutate(fn func()) {
	g.coll.mu.Lock()
	fn()
	g.coll.mu.Unlock()

	g.changed()
}

func (g *GroupEditor) changed() {
	g.coll.mu.Lock()
	detached := g.detached
	g.coll.mu.Unlock()
	if !detached {
		g.coll.changed()
	}
}
