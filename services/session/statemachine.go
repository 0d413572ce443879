package session

import (
	"fmt"

	"mentorhub/models"
)

// transitions is the full lifecycle graph. Terminal states have no outgoing
// edges; nothing reopens a completed, cancelled, or no-show session.
var transitions = map[string][]string{
	models.SessionScheduled:  {models.SessionInProgress, models.SessionCancelled, models.SessionNoShow},
	models.SessionInProgress: {models.SessionCompleted, models.SessionCancelled},
	models.SessionCompleted:  {},
	models.SessionCancelled:  {},
	models.SessionNoShow:     {},
}

// InvalidTransitionError reports a lifecycle edge that does not exist.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition session from %s to %s", e.From, e.To)
}

// CanTransition reports whether the lifecycle graph has an edge from one
// status to another.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns an InvalidTransitionError when the edge is
// missing, including for unknown statuses.
func ValidateTransition(from, to string) error {
	if !CanTransition(from, to) {
		return &InvalidTransitionError{From: from, To: to}
	}
	return nil
}
