// internal/workers/protection/get-coverage-checklist/handler.go
package getcoveragechecklist

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/goccy/go-json"

	"github.com/arthverse/arthverse/internal/common/camunda"
	"github.com/arthverse/arthverse/internal/common/errors"
	"github.com/arthverse/arthverse/internal/common/logger"
	"github.com/arthverse/arthverse/internal/common/metrics"
	"github.com/arthverse/arthverse/internal/common/validation"
	"github.com/arthverse/arthverse/internal/models"
	"github.com/arthverse/arthverse/internal/scoring/protection"
	"github.com/arthverse/arthverse/internal/store"
)

const TaskType = "get-coverage-checklist"

type CoverageStore interface {
	LoadCoverage(ctx context.Context, policyID string) (*models.PolicyCoverage, error)
}

type Handler struct {
	config     *Config
	store      CoverageStore
	validator  *validation.Validator
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, st CoverageStore, v *validation.Validator, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		store:      st,
		validator:  v,
		errHandler: errors.NewErrorHandler(log),
		logger:     log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.run(ctx, job)
	if err != nil {
		metrics.JobFailed(TaskType, string(errors.Normalize(err).Code))
		h.errHandler.HandleJobError(ctx, client, job, err)
		return
	}

	if err := camunda.CompleteJob(client, job, output); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{"jobKey": job.Key, "error": err})
		return
	}
	metrics.JobCompleted(TaskType)
}

func (h *Handler) run(ctx context.Context, job entities.Job) (*Output, error) {
	variables := []byte(job.Variables)
	if err := h.validator.ValidateInput(TaskType, variables); err != nil {
		return nil, err
	}

	var input Input
	if err := json.Unmarshal(variables, &input); err != nil {
		return nil, errors.NewInvalidInputError(err)
	}
	return h.execute(ctx, &input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	category := models.PolicyCategory(strings.ToLower(strings.TrimSpace(input.Category)))
	checklist, err := protection.ChecklistFor(category)
	if err != nil {
		return nil, errors.NewInvalidCategoryError(input.Category)
	}

	output := &Output{Category: string(category)}
	if input.PolicyID != "" {
		cov, err := h.store.LoadCoverage(ctx, input.PolicyID)
		switch {
		case stderrors.Is(err, store.ErrNotFound):
			h.logger.Debug("no saved coverage, using defaults", map[string]interface{}{"policyId": input.PolicyID})
		case err != nil:
			return nil, errors.NewQueryFailedError("policy_coverages", err)
		default:
			output.UnknownKeys = checklist.ApplyCoverage(cov)
			output.Customized = true
			output.CustomNotes = cov.CustomNotes
			if len(output.UnknownKeys) > 0 {
				h.logger.Warn("saved coverage has unknown keys", map[string]interface{}{
					"policyId": input.PolicyID,
					"keys":     output.UnknownKeys,
				})
			}
		}
	}

	output.Inclusions = checklist.Inclusions
	output.Exclusions = checklist.Exclusions
	output.Gaps = checklist.Gaps()
	if output.Gaps == nil {
		output.Gaps = []string{}
	}
	return output, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
