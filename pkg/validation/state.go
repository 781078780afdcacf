package validation

import "fmt"

// Phase is the generation acceptance state. A run moves strictly forward
// through the pending/valid pairs and ends Accepted, or jumps to Rejected
// from any state. There is no partial acceptance: one invalid zone rejects
// the whole building's output.
type Phase string

const (
	PhaseGeometryPending Phase = "geometry_pending"
	PhaseGeometryValid   Phase = "geometry_valid"
	PhaseTopologyPending Phase = "topology_pending"
	PhaseTopologyValid   Phase = "topology_valid"
	PhaseAccepted        Phase = "accepted"
	PhaseRejected        Phase = "rejected"
)

// next maps each phase to its single legal successor.
var next = map[Phase]Phase{
	PhaseGeometryPending: PhaseGeometryValid,
	PhaseGeometryValid:   PhaseTopologyPending,
	PhaseTopologyPending: PhaseTopologyValid,
	PhaseTopologyValid:   PhaseAccepted,
}

// State tracks acceptance of one building-generation run.
type State struct {
	phase  Phase
	reason string
}

// NewState starts a run at GeometryPending.
func NewState() *State {
	return &State{phase: PhaseGeometryPending}
}

// Phase returns the current phase.
func (s *State) Phase() Phase {
	return s.phase
}

// Reason returns the rejection reason, empty unless Rejected.
func (s *State) Reason() string {
	return s.reason
}

// Advance moves to the next phase in order. It is a programmer error to
// advance a terminal state.
func (s *State) Advance() {
	n, ok := next[s.phase]
	if !ok {
		panic(fmt.Sprintf("validation: advance from terminal phase %q", s.phase))
	}
	s.phase = n
}

// Reject moves to Rejected with the given reason, from any non-terminal
// state. Rejecting twice keeps the first reason.
func (s *State) Reject(reason string) {
	if s.phase == PhaseRejected {
		return
	}
	if s.phase == PhaseAccepted {
		panic("validation: reject after accept")
	}
	s.phase = PhaseRejected
	s.reason = reason
}

// Accepted reports whether the run reached acceptance.
func (s *State) Accepted() bool {
	return s.phase == PhaseAccepted
}
