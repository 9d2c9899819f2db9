package services

import "refdesk/contexts/peer-review/referee-assignment-service/domain/entities"

const unknownReviewerKey = "unknown"

// AggregateViolations groups violations by reviewer e-mail in first-seen order.
func AggregateViolations(violations []entities.Violation) []entities.ViolationGroup {
	groups := make([]entities.ViolationGroup, 0)
	positions := make(map[string]int)
	for _, item := range violations {
		if item == (entities.Violation{}) {
			continue
		}
		key := item.ReviewerEmail
		if key == "" {
			key = unknownReviewerKey
		}
		idx, ok := positions[key]
		if !ok {
			idx = len(groups)
			positions[key] = idx
			groups = append(groups, entities.ViolationGroup{Email: key})
		}
		groups[idx].Entries = append(groups[idx].Entries, item)
	}
	return groups
}
