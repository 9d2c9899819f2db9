package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrPaperNotFound          = errors.New("paper not found")
	ErrPaperAlreadyExists     = errors.New("paper already exists")
	ErrPaperIneligible        = errors.New("paper is not eligible for referee assignment")
	ErrConcurrentModification = errors.New("paper was modified concurrently")
	ErrStorageFailure         = errors.New("storage failure")
	ErrEvaluationFailed       = errors.New("candidate evaluation failed")
	ErrIndexLookupFailed      = errors.New("assignment index lookup failed")
	ErrIndexSaveFailed        = errors.New("assignment index save failed")
	ErrRequestNotFound        = errors.New("review request not found")
	ErrDuplicateRequest       = errors.New("duplicate review request")
	ErrInvalidDecision        = errors.New("invalid review decision")
	ErrAlreadyResolved        = errors.New("review request already resolved")
	ErrDeliveryFailed         = errors.New("review request was not delivered")
	ErrLimitReached           = errors.New("reviewer assignment limit reached")
	ErrCompensationFailed     = errors.New("assignment rollback failed")
)

// ConflictError carries the versions involved in a rejected paper write.
type ConflictError struct {
	PaperID         string
	ExpectedVersion int64
	CurrentVersion  int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("paper %s: expected version %d, current version %d",
		e.PaperID, e.ExpectedVersion, e.CurrentVersion)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConcurrentModification
}

const (
	ReasonRequestFailed = "request_failed"
	ReasonSaveFailed    = "save_failed"
)

var reasonCodes = []struct {
	err    error
	reason string
}{
	{ErrCompensationFailed, "compensation_failed"},
	{ErrEvaluationFailed, "evaluation_failed"},
	{ErrIndexLookupFailed, "lookup_failure"},
	{ErrIndexSaveFailed, "save_failure"},
	{ErrConcurrentModification, "concurrent_modification"},
	{ErrPaperNotFound, "paper_not_found"},
	{ErrPaperAlreadyExists, "paper_already_exists"},
	{ErrPaperIneligible, "paper_ineligible"},
	{ErrRequestNotFound, "request_not_found"},
	{ErrDuplicateRequest, "duplicate_request"},
	{ErrInvalidDecision, "invalid_decision"},
	{ErrAlreadyResolved, "already_resolved"},
	{ErrDeliveryFailed, "delivery_failed"},
	{ErrLimitReached, "limit_reached"},
	{ErrStorageFailure, "storage_failure"},
	{ErrInvalidInput, "invalid_input"},
}

// Reason returns the stable reason code for err, or "" when err has no
// known kind.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	for _, item := range reasonCodes {
		if errors.Is(err, item.err) {
			return item.reason
		}
	}
	return ""
}

// ReasonOr returns Reason(err), falling back to the given catch-all code.
func ReasonOr(err error, fallback string) string {
	if reason := Reason(err); reason != "" {
		return reason
	}
	return fallback
}
