package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestConflictErrorMatchesConcurrentModification(t *testing.T) {
	err := fmt.Errorf("save: %w", &ConflictError{PaperID: "p1", ExpectedVersion: 1, CurrentVersion: 2})
	if !errors.Is(err, ErrConcurrentModification) {
		t.Fatalf("expected ErrConcurrentModification, got %v", err)
	}
	var conflict *ConflictError
	if !errors.As(err, &conflict) || conflict.CurrentVersion != 2 {
		t.Fatalf("expected ConflictError with current version 2, got %v", err)
	}
}

func TestReason(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "wrapped not found", err: fmt.Errorf("get: %w", ErrPaperNotFound), want: "paper_not_found"},
		{name: "lookup failure", err: fmt.Errorf("%w: %w", ErrEvaluationFailed, ErrIndexLookupFailed), want: "evaluation_failed"},
		{name: "compensation wins", err: errors.Join(ErrPaperIneligible, ErrCompensationFailed), want: "compensation_failed"},
		{name: "conflict", err: &ConflictError{}, want: "concurrent_modification"},
		{name: "unknown", err: errors.New("boom"), want: ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Reason(tc.err); got != tc.want {
				t.Fatalf("Reason() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestReasonOrFallsBack(t *testing.T) {
	if got := ReasonOr(errors.New("boom"), ReasonRequestFailed); got != "request_failed" {
		t.Fatalf("expected request_failed, got %q", got)
	}
	if got := ReasonOr(ErrDuplicateRequest, ReasonRequestFailed); got != "duplicate_request" {
		t.Fatalf("expected duplicate_request, got %q", got)
	}
}
