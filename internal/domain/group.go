// Package domain contains the core data types for the file_sd config builder.
// It is imported by every other internal package (editor, notify, service, handler).
package domain

import "github.com/google/uuid"

// Target is a single address/endpoint string to be monitored.
// Owned by exactly one group.
type Target struct {
	ID    uuid.UUID
	Value string
}

// LabelPair is one key/value annotation applied to every target of its group.
// Keys are not unique while editing; collisions resolve at serialization.
type LabelPair struct {
	ID    uuid.UUID
	Key   string
	Value string
}

// Group is a point-in-time copy of one editable group.
// Name and Collapsed are editing conveniences and never reach a Record.
type Group struct {
	ID        uuid.UUID
	Name      string
	Targets   []Target
	Labels    []LabelPair
	Collapsed bool
}

// Label is an ordered key/value pair used when seeding a group.
type Label struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// GroupSpec seeds a new group. A nil Targets slice yields one blank target and
// a nil Labels slice yields one blank label; empty non-nil slices yield none.
type GroupSpec struct {
	Name    string
	Targets []string
	Labels  []Label
}

// DefaultGroupSpec is the example group loaded when the editor starts.
func DefaultGroupSpec() GroupSpec {
	return GroupSpec{
		Name:    "example",
		Targets: []string{"youtube.com"},
		Labels: []Label{
			{Key: "instance_name", Value: "Facebook"},
			{Key: "platform", Value: "facebook"},
		},
	}
}

// Record is one entry of a Prometheus file_sd document.
type Record struct {
	Targets []string          `json:"targets" yaml:"targets"`
	Labels  map[string]string `json:"labels" yaml:"labels"`
}
