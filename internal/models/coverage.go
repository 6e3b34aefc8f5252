// internal/models/coverage.go
package models

// PolicyCoverage records which checklist items a user ticked for a policy.
type PolicyCoverage struct {
	PolicyID    string          `json:"policy_id"`
	Inclusions  map[string]bool `json:"inclusions"`
	Exclusions  map[string]bool `json:"exclusions"`
	CustomNotes string          `json:"custom_notes"`
}
