package services

import "refdesk/contexts/peer-review/referee-assignment-service/domain/valueobjects"

// AppendReferee returns current plus email, unless email is already listed.
// The input slice is never mutated.
func AppendReferee(current []string, email string) []string {
	for _, item := range current {
		if item == email {
			return append([]string(nil), current...)
		}
	}
	next := make([]string, 0, len(current)+1)
	next = append(next, current...)
	return append(next, email)
}

// UniqueEmails normalizes the list, drops blanks and keeps the first
// occurrence of every address.
func UniqueEmails(emails []string) []string {
	seen := make(map[string]struct{}, len(emails))
	items := make([]string, 0, len(emails))
	for _, raw := range emails {
		email := valueobjects.NormalizeEmail(raw)
		if email == "" {
			continue
		}
		if _, ok := seen[email]; ok {
			continue
		}
		seen[email] = struct{}{}
		items = append(items, email)
	}
	return items
}
