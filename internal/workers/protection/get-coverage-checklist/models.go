// internal/workers/protection/get-coverage-checklist/models.go
package getcoveragechecklist

import "github.com/arthverse/arthverse/internal/scoring/protection"

type Input struct {
	Category string `json:"category"`
	PolicyID string `json:"policyId,omitempty"`
}

type Output struct {
	Category    string                     `json:"category"`
	Inclusions  []protection.ChecklistItem `json:"inclusions"`
	Exclusions  []protection.ChecklistItem `json:"exclusions"`
	Gaps        []string                   `json:"gaps"`
	Customized  bool                       `json:"customized"`
	CustomNotes string                     `json:"customNotes,omitempty"`
	UnknownKeys []string                   `json:"unknownKeys,omitempty"`
}
