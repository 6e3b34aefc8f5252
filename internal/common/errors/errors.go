// Package errors maps worker failures to BPMN error codes and retry policy.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

type ErrorCode string

// Business errors are thrown to the process; technical errors are retried.
const (
	ErrCodeInvalidInput           ErrorCode = "INVALID_INPUT"
	ErrCodeInvalidQuestionnaire   ErrorCode = "INVALID_QUESTIONNAIRE"
	ErrCodeQuestionnaireNotFound  ErrorCode = "QUESTIONNAIRE_NOT_FOUND"
	ErrCodeRiskProfileNotFound    ErrorCode = "RISK_PROFILE_NOT_FOUND"
	ErrCodeInvalidCategory        ErrorCode = "INVALID_CATEGORY"
	ErrCodeSchemaValidationFailed ErrorCode = "SCHEMA_VALIDATION_FAILED"

	ErrCodeQueryFailed        ErrorCode = "DATABASE_QUERY_FAILED"
	ErrCodeScorePersistFailed ErrorCode = "SCORE_PERSIST_FAILED"
	ErrCodeIndexingFailed     ErrorCode = "INDEXING_FAILED"
	ErrCodeNotificationFailed ErrorCode = "NOTIFICATION_FAILED"
	ErrCodeTimeout            ErrorCode = "TIMEOUT"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError is the structured failure every worker returns from execute.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata attaches a key to the error variables sent to the engine.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = map[string]interface{}{}
	}
	e.Metadata[key] = value
	return e
}

// AsStandardError finds a StandardError anywhere in err's chain.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// ==========================
// 2. BPMN Error Integration
// ==========================

type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns the variables attached to a thrown or failed job.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

func NewInvalidInputError(err error) *StandardError {
	return newError(ErrCodeInvalidInput, "Job variables could not be parsed", err.Error(), false, err)
}

func NewInvalidQuestionnaireError(details string) *StandardError {
	return newError(ErrCodeInvalidQuestionnaire, "Questionnaire is malformed", details, false, nil)
}

func NewQuestionnaireNotFoundError(userID string) *StandardError {
	return newError(ErrCodeQuestionnaireNotFound, "No questionnaire on record",
		fmt.Sprintf("userId: %s", userID), false, nil)
}

func NewRiskProfileNotFoundError(userID string) *StandardError {
	return newError(ErrCodeRiskProfileNotFound, "No risk profile on record",
		fmt.Sprintf("userId: %s", userID), false, nil)
}

func NewInvalidCategoryError(category string) *StandardError {
	return newError(ErrCodeInvalidCategory, "Unknown insurance category",
		fmt.Sprintf("category: %s", category), false, nil)
}

// NewSchemaValidationError carries the joined validator messages as details.
func NewSchemaValidationError(problems []string) *StandardError {
	return newError(ErrCodeSchemaValidationFailed, "Input failed schema validation",
		strings.Join(problems, "; "), false, nil)
}

func NewQueryFailedError(entity string, err error) *StandardError {
	return newError(ErrCodeQueryFailed, "Database query failed",
		fmt.Sprintf("entity: %s, error: %s", entity, err.Error()), true, err)
}

func NewScorePersistFailedError(table string, err error) *StandardError {
	return newError(ErrCodeScorePersistFailed, "Could not persist result",
		fmt.Sprintf("table: %s, error: %s", table, err.Error()), true, err)
}

func NewIndexingFailedError(index string, err error) *StandardError {
	return newError(ErrCodeIndexingFailed, "Snapshot indexing failed",
		fmt.Sprintf("index: %s, error: %s", index, err.Error()), true, err)
}

func NewNotificationFailedError(channel string, err error) *StandardError {
	return newError(ErrCodeNotificationFailed, "Notification delivery failed",
		fmt.Sprintf("channel: %s, error: %s", channel, err.Error()), true, err)
}

func NewTimeoutError(operation string, err error) *StandardError {
	return newError(ErrCodeTimeout, "Operation timed out",
		fmt.Sprintf("operation: %s", operation), true, err)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// GetRetryCount returns how many times a code may be retried before it is
// thrown to the process.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeQueryFailed,
		ErrCodeScorePersistFailed,
		ErrCodeIndexingFailed,
		ErrCodeNotificationFailed:
		return 3
	case ErrCodeTimeout:
		return 2
	default:
		return 0
	}
}

func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           string(stdErr.Code),
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeInvalidInput, ErrCodeInvalidQuestionnaire, ErrCodeInvalidCategory, ErrCodeSchemaValidationFailed:
		return "VALIDATION"
	case ErrCodeQuestionnaireNotFound, ErrCodeRiskProfileNotFound:
		return "NOT_FOUND"
	case ErrCodeQueryFailed, ErrCodeScorePersistFailed:
		return "DATABASE"
	case ErrCodeIndexingFailed:
		return "SEARCH"
	case ErrCodeNotificationFailed:
		return "NOTIFICATION"
	default:
		return "OTHER"
	}
}
