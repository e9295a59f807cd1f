package editor_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/pfscgen/internal/domain"
	"github.com/pkordes/pfscgen/internal/editor"
)

// countingTrigger records how many times re-derivation was requested.
type countingTrigger struct {
	calls int
}

func (c *countingTrigger) Notify() { c.calls++ }

// compile-time check: countingTrigger must satisfy editor.Trigger.
var _ editor.Trigger = (*countingTrigger)(nil)

func newCollection() (*editor.GroupCollection, *countingTrigger) {
	trig := &countingTrigger{}
	return editor.NewGroupCollection(trig), trig
}

// ---- GroupCollection -------------------------------------------------------

func TestAddGroup_NilSpecStartsWithBlankRows(t *testing.T) {
	c, trig := newCollection()

	g := c.AddGroup(nil)

	require.Equal(t, 1, c.Len())
	assert.Equal(t, 1, trig.calls)
	require.Len(t, g.Targets(), 1)
	assert.Equal(t, "", g.Targets()[0].Value)
	require.Len(t, g.Labels(), 1)
	assert.Equal(t, "", g.Labels()[0].Key)
	assert.Equal(t, "", g.Labels()[0].Value)
	assert.Equal(t, "Unnamed Group", g.Title())
}

func TestAddGroup_WithSpec(t *testing.T) {
	c, _ := newCollection()

	g := c.AddGroup(&domain.GroupSpec{
		Name:    "web",
		Targets: []string{"a:80", "b:80"},
		Labels:  []domain.Label{{Key: "env", Value: "prod"}},
	})

	assert.Equal(t, "web", g.Name())
	assert.Equal(t, "web", g.Title())
	require.Len(t, g.Targets(), 2)
	assert.Equal(t, "b:80", g.Targets()[1].Value)
	require.Len(t, g.Labels(), 1)
	assert.Equal(t, "env", g.Labels()[0].Key)
}

func TestAddGroup_SpecWithNilSlicesGetsDefaults(t *testing.T) {
	c, _ := newCollection()

	g := c.AddGroup(&domain.GroupSpec{Name: "only-name"})

	assert.Len(t, g.Targets(), 1)
	assert.Len(t, g.Labels(), 1)
}

func TestAddGroup_SpecWithEmptySlicesHasNoRows(t *testing.T) {
	c, _ := newCollection()

	g := c.AddGroup(&domain.GroupSpec{Targets: []string{}, Labels: []domain.Label{}})

	assert.Empty(t, g.Targets())
	assert.Empty(t, g.Labels())
}

func TestAddGroup_AppendsInOrder(t *testing.T) {
	c, _ := newCollection()

	first := c.AddGroup(&domain.GroupSpec{Name: "first"})
	second := c.AddGroup(&domain.GroupSpec{Name: "second"})

	groups := c.Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, first.ID(), groups[0].ID())
	assert.Equal(t, second.ID(), groups[1].ID())
	assert.NotEqual(t, first.ID(), second.ID())
}

func TestRemoveGroup_KeepsSiblings(t *testing.T) {
	c, trig := newCollection()
	first := c.AddGroup(&domain.GroupSpec{Name: "first", Targets: []string{"a"}})
	before := first.Snapshot()
	second := c.AddGroup(nil)

	removed := c.RemoveGroup(second.ID())

	require.True(t, removed)
	assert.Equal(t, 3, trig.calls)
	groups := c.Groups()
	require.Len(t, groups, 1)
	assert.Equal(t, first.ID(), groups[0].ID())
	assert.Equal(t, before, groups[0].Snapshot())
}

func TestRemoveGroup_UnknownIDIsNoOp(t *testing.T) {
	c, trig := newCollection()
	c.AddGroup(nil)

	removed := c.RemoveGroup(uuid.New())

	assert.False(t, removed)
	assert.Equal(t, 1, c.Len())
	// Removal always re-derives, even when nothing matched.
	assert.Equal(t, 2, trig.calls)
}

func TestRemoveGroup_DetachedEditorNoLongerTriggers(t *testing.T) {
	c, trig := newCollection()
	g := c.AddGroup(nil)
	c.RemoveGroup(g.ID())
	calls := trig.calls

	g.AddTarget("late")

	assert.Equal(t, calls, trig.calls)
}

func TestGroup_Lookup(t *testing.T) {
	c, _ := newCollection()
	g := c.AddGroup(nil)

	got, ok := c.Group(g.ID())
	require.True(t, ok)
	assert.Same(t, g, got)

	_, ok = c.Group(uuid.New())
	assert.False(t, ok)
}

func TestLoadDefault(t *testing.T) {
	c, _ := newCollection()

	g := c.LoadDefault()

	assert.Equal(t, "example", g.Name())
	require.Len(t, g.Targets(), 1)
	assert.Equal(t, "youtube.com", g.Targets()[0].Value)
	require.Len(t, g.Labels(), 2)
	assert.Equal(t, "instance_name", g.Labels()[0].Key)
	assert.Equal(t, "platform", g.Labels()[1].Key)
}

func TestSetTrigger_ReplacesTrigger(t *testing.T) {
	c := editor.NewGroupCollection(nil)
	c.AddGroup(nil) // nil trigger must not panic

	var calls int
	c.SetTrigger(editor.TriggerFunc(func() { calls++ }))
	c.AddGroup(nil)

	assert.Equal(t, 1, calls)
}

// ---- GroupEditor -----------------------------------------------------------

func TestGroupEditor_TargetsAddRemove(t *testing.T) {
	c, trig := newCollection()
	g := c.AddGroup(&domain.GroupSpec{Targets: []string{}})

	a := g.AddTarget("a")
	b := g.AddTarget("b")
	require.Len(t, g.Targets(), 2)

	require.True(t, g.RemoveTarget(a))
	require.True(t, g.RemoveTarget(b))
	assert.False(t, g.RemoveTarget(b))

	// Emptied groups stay empty.
	assert.Empty(t, g.Targets())
	assert.Equal(t, 6, trig.calls)
}

func TestGroupEditor_SetTarget(t *testing.T) {
	c, trig := newCollection()
	g := c.AddGroup(nil)
	id := g.Targets()[0].ID

	require.NoError(t, g.SetTarget(id, "node:9100"))
	assert.Equal(t, "node:9100", g.Targets()[0].Value)
	assert.Equal(t, 2, trig.calls)

	err := g.SetTarget(uuid.New(), "x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 2, trig.calls, "failed edits do not re-derive")
}

func TestGroupEditor_LabelsAddSetRemove(t *testing.T) {
	c, trig := newCollection()
	g := c.AddGroup(&domain.GroupSpec{Labels: []domain.Label{}})

	id := g.AddLabel("env", "dev")
	require.NoError(t, g.SetLabel(id, "env", "prod"))
	assert.Equal(t, "prod", g.Labels()[0].Value)

	assert.ErrorIs(t, g.SetLabel(uuid.New(), "k", "v"), domain.ErrNotFound)

	require.True(t, g.RemoveLabel(id))
	assert.False(t, g.RemoveLabel(id))
	assert.Empty(t, g.Labels())
	assert.Equal(t, 5, trig.calls)
}

func TestGroupEditor_RenameKeepsIdentity(t *testing.T) {
	c, trig := newCollection()
	g := c.AddGroup(nil)
	id := g.ID()
	targets := g.Targets()

	g.Rename("renamed")

	assert.Equal(t, id, g.ID())
	assert.Equal(t, "renamed", g.Name())
	assert.Equal(t, targets, g.Targets())
	assert.Equal(t, 2, trig.calls)
}

func TestGroupEditor_CollapseDoesNotTrigger(t *testing.T) {
	c, trig := newCollection()
	g := c.AddGroup(nil)

	g.SetCollapsed(true)
	assert.True(t, g.Collapsed())
	assert.False(t, g.ToggleCollapsed())

	assert.Equal(t, 1, trig.calls)
}
