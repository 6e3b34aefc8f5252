// internal/workers/protection/evaluate-protection-gap/handler.go
package evaluateprotectiongap

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/goccy/go-json"

	"github.com/arthverse/arthverse/internal/common/camunda"
	"github.com/arthverse/arthverse/internal/common/errors"
	"github.com/arthverse/arthverse/internal/common/logger"
	"github.com/arthverse/arthverse/internal/common/metrics"
	"github.com/arthverse/arthverse/internal/common/observability"
	"github.com/arthverse/arthverse/internal/common/validation"
	"github.com/arthverse/arthverse/internal/models"
	"github.com/arthverse/arthverse/internal/scoring/protection"
	"github.com/arthverse/arthverse/internal/store"
)

const TaskType = "evaluate-protection-gap"

type Store interface {
	LoadRiskProfile(ctx context.Context, userID string) (*models.RiskProfile, error)
	ListPolicies(ctx context.Context, userID string) ([]models.InsurancePolicy, error)
	SaveProtectionGap(ctx context.Context, userID string, result *protection.Result, at time.Time) (*store.StoredProtectionGap, error)
}

type Handler struct {
	config     *Config
	store      Store
	validator  *validation.Validator
	obs        *observability.Observability
	errHandler *errors.ErrorHandler
	logger     logger.Logger
	now        func() time.Time
}

func NewHandler(config *Config, st Store, v *validation.Validator, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		store:      st,
		validator:  v,
		obs:        obs,
		errHandler: errors.NewErrorHandler(log),
		logger:     log,
		now:        time.Now,
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
	profile, err := h.profile(ctx, input)
	if err != nil {
		return nil, err
	}
	policies, err := h.policies(ctx, input)
	if err != nil {
		return nil, err
	}

	result := protection.Evaluate(profile, policies)

	metrics.ObserveProtectionScore(result.ProtectionScore)
	for _, c := range result.Categories() {
		metrics.ObserveCategoryStatus(c.Category, string(c.Status))
	}
	h.obs.RecordScore(ctx, "protection", result.ProtectionScore)

	saved, err := h.store.SaveProtectionGap(ctx, input.UserID, result, h.now())
	if err != nil {
		return nil, errors.NewScorePersistFailedError("protection_gaps", err).WithMetadata("userId", input.UserID)
	}

	h.logger.Info("protection gap evaluated", map[string]interface{}{
		"userId":           input.UserID,
		"gapId":            saved.ID,
		"protectionScore":  result.ProtectionScore,
		"unprotectedAreas": len(result.UnprotectedAreas),
		"policies":         len(policies),
	})

	return &Output{
		GapID:            saved.ID,
		ProtectionScore:  result.ProtectionScore,
		UnprotectedAreas: result.UnprotectedAreas,
		CalculatedAt:     saved.CalculatedAt.Format(time.RFC3339),
		Result:           result,
	}, nil
}

func (h *Handler) profile(ctx context.Context, input *Input) (*models.RiskProfile, error) {
	if input.Profile != nil {
		p := *input.Profile
		if p.UserID == "" {
			p.UserID = input.UserID
		}
		return &p, nil
	}

	p, err := h.store.LoadRiskProfile(ctx, input.UserID)
	if stderrors.Is(err, store.ErrNotFound) {
		return nil, errors.NewRiskProfileNotFoundError(input.UserID)
	}
	if err != nil {
		return nil, errors.NewQueryFailedError("risk_profiles", err)
	}
	return p, nil
}

// policies returns the inline or stored policies after checking every
// category and policy type.
func (h *Handler) policies(ctx context.Context, input *Input) ([]models.InsurancePolicy, error) {
	var policies []models.InsurancePolicy
	if input.Policies != nil {
		policies = *input.Policies
	} else {
		stored, err := h.store.ListPolicies(ctx, input.UserID)
		if err != nil {
			return nil, errors.NewQueryFailedError("insurance_policies", err)
		}
		policies = stored
	}

	for i := range policies {
		if err := policies[i].Validate(); err != nil {
			return nil, errors.NewInvalidCategoryError(string(policies[i].Category)).
				WithMetadata("policyType", string(policies[i].PolicyType)).
				WithMetadata("reason", err.Error())
		}
	}
	return policies, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
