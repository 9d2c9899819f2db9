package kvadapter

import (
	"context"
	"encoding/json"

	"refdesk/contexts/peer-review/referee-assignment-service/ports"
)

// Key layout shared by the repositories in this package. Exported prefixes
// let tests target one record family with memory.Store fault injection.
const (
	PaperKeyPrefix             = "paper:"
	AssignmentKeyPrefix        = "assignment:"
	ReviewerKeyPrefix          = "reviewer:"
	RequestKeyPrefix           = "request:"
	PendingRequestKeyPrefix    = "request-pending:"
	requestAssignmentKeyPrefix = "request-assignment:"
	paperRequestsKeyPrefix     = "request-paper:"
)

func paperKey(paperID string) string {
	return PaperKeyPrefix + paperID
}

func assignmentKey(paperID string, email string) string {
	return AssignmentKeyPrefix + paperID + ":" + email
}

func reviewerKey(email string) string {
	return ReviewerKeyPrefix + email
}

func requestKey(requestID string) string {
	return RequestKeyPrefix + requestID
}

func requestAssignmentKey(assignmentID string) string {
	return requestAssignmentKeyPrefix + assignmentID
}

func pendingRequestKey(paperID string, email string) string {
	return PendingRequestKeyPrefix + paperID + ":" + email
}

func paperRequestsKey(paperID string) string {
	return paperRequestsKeyPrefix + paperID
}

// readJSON decodes the value at key into target. found is false for absent keys.
func readJSON(ctx context.Context, store ports.KeyValueStore, key string, target any) (bool, error) {
	raw, found, err := store.Read(ctx, key)
	if err != nil || !found {
		return false, err
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return false, err
	}
	return true, nil
}

func writeJSON(ctx context.Context, store ports.KeyValueStore, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return store.Write(ctx, key, raw)
}

func readString(ctx context.Context, store ports.KeyValueStore, key string) (string, bool, error) {
	raw, found, err := store.Read(ctx, key)
	if err != nil || !found {
		return "", false, err
	}
	return string(raw), true, nil
}

func removeString(items []string, target string) []string {
	filtered := make([]string, 0, len(items))
	for _, item := range items {
		if item != target {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

func containsString(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}
