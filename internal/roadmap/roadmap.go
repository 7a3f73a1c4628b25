// Package roadmap parses and advances a user's learning-roadmap document.
//
// A roadmap is an ordered sequence of nodes, each with a lifecycle status.
// The intended invariant is that at most one node is active at a time; the
// document does not enforce it structurally, only CompleteNode does.
package roadmap

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Node status values.
const (
	StatusNotStarted = "not-started"
	StatusActive     = "active"
	StatusCompleted  = "completed"
)

var (
	// ErrMalformedDocument means the stored document is not valid JSON.
	ErrMalformedDocument = errors.New("malformed roadmap document")

	// ErrNodeNotFound means no node carries the requested id.
	ErrNodeNotFound = errors.New("roadmap node not found")

	// ErrNodeNotActive means completion was requested for a node that is not
	// the currently active one.
	ErrNodeNotActive = errors.New("roadmap node is not active")
)

// Node is one unit of a roadmap.
type Node struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	EstimatedHours int      `json:"estimatedHours"`
	Status         string   `json:"status"`
	Topics         []string `json:"topics"`
}

// Roadmap is an ordered sequence of learning nodes with progress status.
type Roadmap struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Nodes       []Node `json:"nodes"`
}

// Parse decodes a roadmap document.
func Parse(data []byte) (*Roadmap, error) {
	var r Roadmap
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return &r, nil
}

// Serialize encodes the roadmap back into its document form.
func (r *Roadmap) Serialize() ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize roadmap: %w", err)
	}
	return data, nil
}

// ActiveNode returns the first active node, or nil when none is active.
func (r *Roadmap) ActiveNode() *Node {
	for i := range r.Nodes {
		if r.Nodes[i].Status == StatusActive {
			return &r.Nodes[i]
		}
	}
	return nil
}

// CompleteNode marks the node with the given id as completed and promotes
// its immediate successor to active. Only the currently active node may be
// completed; this enforces forward-only, single-active-node progression.
// Completing the last node leaves the roadmap with no active node.
func (r *Roadmap) CompleteNode(nodeID string) error {
	idx := -1
	for i := range r.Nodes {
		if r.Nodes[i].ID == nodeID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrNodeNotFound
	}

	if r.Nodes[idx].Status != StatusActive {
		return ErrNodeNotActive
	}

	r.Nodes[idx].Status = StatusCompleted
	if idx+1 < len(r.Nodes) {
		r.Nodes[idx+1].Status = StatusActive
	}

	return nil
}
