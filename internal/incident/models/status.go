package models

// Status is the incident workflow state.
type Status string

const (
	// StatusOpen: reported, no action plan yet. The only initial state.
	StatusOpen Status = "OPEN"

	// StatusInProgress: action plan started, deadline set.
	StatusInProgress Status = "IN_PROGRESS"

	// StatusExtensionRequested: sector manager asked for more time; waiting
	// on the risk manager's decision.
	StatusExtensionRequested Status = "EXTENSION_REQUESTED"

	// StatusClosed: plan content finalized. Terminal; no further deadline
	// mutation permitted.
	StatusClosed Status = "CLOSED"
)

// transitions encodes the legal state machine edges.
var transitions = map[Status][]Status{
	StatusOpen:               {StatusInProgress},
	StatusInProgress:         {StatusExtensionRequested, StatusClosed},
	StatusExtensionRequested: {StatusInProgress},
	StatusClosed:             {},
}

// CanTransitionTo reports whether moving from s to target is legal.
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are possible.
func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}

// Valid reports whether s is a known state.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}
