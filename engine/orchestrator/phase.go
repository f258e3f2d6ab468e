package orchestrator

import "fmt"

// Phase is the stage of the frame the orchestrator is in.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseShadow
	PhaseFilter
	PhaseRestore
	PhaseComposite
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseShadow:
		return "shadow"
	case PhaseFilter:
		return "filter"
	case PhaseRestore:
		return "restore"
	case PhaseComposite:
		return "composite"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Step is one phase transition. Light is the directional light index for the shadow and
// filter phases and -1 otherwise.
type Step struct {
	Phase Phase
	Light int
}

func (s Step) String() string {
	if s.Light < 0 {
		return s.Phase.String()
	}
	return fmt.Sprintf("%s(%d)", s.Phase, s.Light)
}
