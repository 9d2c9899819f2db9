package services

import (
	"testing"

	"refdesk/contexts/peer-review/referee-assignment-service/domain/entities"

	"github.com/google/go-cmp/cmp"
)

func TestAggregateViolationsGroupsInFirstSeenOrder(t *testing.T) {
	input := []entities.Violation{
		{ReviewerEmail: "b@x.org", Rule: entities.RuleLimitReached, Message: "limit"},
		{ReviewerEmail: "a@x.org", Rule: entities.RuleInvalidEmail, Message: "format"},
		{},
		{ReviewerEmail: "b@x.org", Rule: entities.RuleDuplicateEntry, Message: "dup"},
		{Rule: entities.RuleInvalidEmail, Message: "blank"},
	}

	got := AggregateViolations(input)
	want := []entities.ViolationGroup{
		{Email: "b@x.org", Entries: []entities.Violation{input[0], input[3]}},
		{Email: "a@x.org", Entries: []entities.Violation{input[1]}},
		{Email: "unknown", Entries: []entities.Violation{input[4]}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("groups mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregateViolationsEmpty(t *testing.T) {
	got := AggregateViolations(nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestAggregateViolationsPreservesEveryEntry(t *testing.T) {
	input := []entities.Violation{
		{ReviewerEmail: "a@x.org", Rule: entities.RuleInvalidEmail},
		{ReviewerEmail: "a@x.org", Rule: entities.RuleDuplicateEntry},
		{ReviewerEmail: "c@x.org", Rule: entities.RuleDuplicateAssignment},
	}
	total := 0
	for _, group := range AggregateViolations(input) {
		total += len(group.Entries)
	}
	if total != len(input) {
		t.Fatalf("expected %d entries across groups, got %d", len(input), total)
	}
}
