package session

import (
	"errors"
	"testing"

	"mentorhub/models"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to string }{
		{models.SessionScheduled, models.SessionInProgress},
		{models.SessionScheduled, models.SessionCancelled},
		{models.SessionScheduled, models.SessionNoShow},
		{models.SessionInProgress, models.SessionCompleted},
		{models.SessionInProgress, models.SessionCancelled},
	}
	for _, tc := range allowed {
		if !CanTransition(tc.from, tc.to) {
			t.Errorf("%s -> %s should be allowed", tc.from, tc.to)
		}
	}

	denied := []struct{ from, to string }{
		{models.SessionScheduled, models.SessionCompleted},
		{models.SessionInProgress, models.SessionNoShow},
		{models.SessionCompleted, models.SessionInProgress},
		{models.SessionCancelled, models.SessionScheduled},
		{models.SessionNoShow, models.SessionCompleted},
		{"UNKNOWN", models.SessionCompleted},
		{models.SessionScheduled, "UNKNOWN"},
	}
	for _, tc := range denied {
		if CanTransition(tc.from, tc.to) {
			t.Errorf("%s -> %s should be denied", tc.from, tc.to)
		}
	}
}

func TestValidateTransitionError(t *testing.T) {
	err := ValidateTransition(models.SessionCompleted, models.SessionInProgress)
	var ite *InvalidTransitionError
	if !errors.As(err, &ite) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
	if ite.From != models.SessionCompleted || ite.To != models.SessionInProgress {
		t.Fatalf("error edge = %s -> %s", ite.From, ite.To)
	}
}
