package entities

type ViolationRule string

const (
	RuleInvalidEmail        ViolationRule = "invalid_email"
	RuleDuplicateEntry      ViolationRule = "duplicate_entry"
	RuleDuplicateAssignment ViolationRule = "duplicate_assignment"
	RuleLimitReached        ViolationRule = "limit_reached"
)

// Violation is a non-fatal business-rule outcome returned as data.
type Violation struct {
	ReviewerEmail string        `json:"reviewer_email"`
	Rule          ViolationRule `json:"rule"`
	Message       string        `json:"message"`
}

// ViolationGroup collects the violations reported for one reviewer.
type ViolationGroup struct {
	Email   string      `json:"email"`
	Entries []Violation `json:"entries"`
}
