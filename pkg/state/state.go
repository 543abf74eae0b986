// Package state tracks which phase a sync run is in and rejects phase changes
// that skip backwards or jump over required steps.
package state

import (
	"gitlab.com/tozd/go/errors"
)

// ErrIllegalTransition is a programming error: the run tried to move along an
// edge that does not exist
var ErrIllegalTransition = errors.Base("illegal phase transition")

// Phase is one step of a sync run
type Phase string

const (
	Idle                        Phase = "idle"
	WorkspacesInitializing      Phase = "workspaces_initializing"
	Reconciled                  Phase = "reconciled"
	AwaitingRemoteOnlySelection Phase = "awaiting_remote_only_selection"
	AwaitingChangedSelection    Phase = "awaiting_changed_selection"
	Applied                     Phase = "applied"
	Done                        Phase = "done"
)

func (p Phase) String() string { return string(p) }

// edges lists the forward moves. Awaiting phases may be skipped when their
// bucket is empty. Done is reachable from every phase and handled separately.
var edges = map[Phase][]Phase{
	Idle:                        {WorkspacesInitializing},
	WorkspacesInitializing:      {Reconciled},
	Reconciled:                  {AwaitingRemoteOnlySelection, AwaitingChangedSelection, Applied},
	AwaitingRemoteOnlySelection: {AwaitingChangedSelection, Applied},
	AwaitingChangedSelection:    {Applied},
	Applied:                     {},
}

// ⚙️ Machine is the phase tracker for one run. It is not safe for concurrent use.
type Machine struct {
	current Phase
	history []Phase
}

// NewMachine starts in Idle
func NewMachine() *Machine {
	return &Machine{current: Idle, history: []Phase{Idle}}
}

// Current returns the phase the run is in
func (m *Machine) Current() Phase {
	return m.current
}

// Advance moves to the next phase
func (m *Machine) Advance(to Phase) error {
	if !m.CanAdvance(to) {
		return errors.Errorf("%s -> %s: %w", m.current, to, ErrIllegalTransition)
	}
	m.current = to
	m.history = append(m.history, to)
	return nil
}

// CanAdvance reports whether Advance(to) would succeed
func (m *Machine) CanAdvance(to Phase) bool {
	if m.current == Done {
		return false
	}
	if to == Done {
		return true
	}
	for _, next := range edges[m.current] {
		if next == to {
			return true
		}
	}
	return false
}

// History returns every phase visited so far, starting with Idle
func (m *Machine) History() []Phase {
	return append([]Phase(nil), m.history...)
}
