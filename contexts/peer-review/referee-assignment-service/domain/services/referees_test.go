package services

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAppendRefereeDoesNotMutateInput(t *testing.T) {
	current := make([]string, 1, 4)
	current[0] = "a@x.org"

	next := AppendReferee(current, "b@x.org")
	if diff := cmp.Diff([]string{"a@x.org", "b@x.org"}, next); diff != "" {
		t.Fatalf("referees mismatch (-want +got):\n%s", diff)
	}
	if len(current) != 1 || current[:2][1] != "" {
		t.Fatalf("input slice was modified: %v", current[:2])
	}
}

func TestAppendRefereeIsIdempotent(t *testing.T) {
	current := []string{"a@x.org", "b@x.org"}
	next := AppendReferee(current, "a@x.org")
	if diff := cmp.Diff(current, next); diff != "" {
		t.Fatalf("referees mismatch (-want +got):\n%s", diff)
	}
	next[0] = "changed"
	if current[0] != "a@x.org" {
		t.Fatal("expected a copy when the referee is already listed")
	}
}

func TestUniqueEmails(t *testing.T) {
	got := UniqueEmails([]string{" Ann@X.org ", "", "bo@x.org", "ann@x.org", "  "})
	if diff := cmp.Diff([]string{"ann@x.org", "bo@x.org"}, got); diff != "" {
		t.Fatalf("emails mismatch (-want +got):\n%s", diff)
	}
}
