// internal/common/validation/validator.go
package validation

import (
	_ "embed"
	"fmt"
	"sort"

	"github.com/xeipuuv/gojsonschema"

	"github.com/arthverse/arthverse/internal/common/errors"
	"github.com/arthverse/arthverse/pkg/registry"
)

//go:embed schemas/questionnaire.json
var questionnaireSchema []byte

// Validator holds compiled JSON schemas for job inputs and questionnaires.
type Validator struct {
	inputs        map[string]*gojsonschema.Schema
	questionnaire *gojsonschema.Schema
}

// New compiles the input schema of every activity in reg. A nil registry
// yields a validator that only checks questionnaires.
func New(reg *registry.ActivityRegistry) (*Validator, error) {
	q, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(questionnaireSchema))
	if err != nil {
		return nil, fmt.Errorf("compile questionnaire schema: %w", err)
	}

	v := &Validator{inputs: map[string]*gojsonschema.Schema{}, questionnaire: q}
	if reg == nil {
		return v, nil
	}

	for _, a := range reg.Activities {
		if len(a.InputSchema) == 0 {
			continue
		}
		s, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(a.InputSchema))
		if err != nil {
			return nil, fmt.Errorf("compile input schema for %s: %w", a.TaskType, err)
		}
		v.inputs[a.TaskType] = s
	}
	return v, nil
}

// ValidateInput checks raw job variables against the task's input schema.
// Task types without a schema pass.
func (v *Validator) ValidateInput(taskType string, variables []byte) error {
	if v == nil {
		return nil
	}
	s, ok := v.inputs[taskType]
	if !ok {
		return nil
	}
	return check(s, gojsonschema.NewBytesLoader(variables))
}

// ValidateQuestionnaire checks the shape of a questionnaire document. Value
// ranges are not enforced here.
func (v *Validator) ValidateQuestionnaire(document []byte) error {
	if v == nil {
		return nil
	}
	return check(v.questionnaire, gojsonschema.NewBytesLoader(document))
}

func (v *Validator) HasSchema(taskType string) bool {
	if v == nil {
		return false
	}
	_, ok := v.inputs[taskType]
	return ok
}

func check(s *gojsonschema.Schema, doc gojsonschema.JSONLoader) error {
	result, err := s.Validate(doc)
	if err != nil {
		return errors.NewSchemaValidationError([]string{err.Error()})
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		problems = append(problems, e.String())
	}
	sort.Strings(problems)
	return errors.NewSchemaValidationError(problems)
}
