// internal/workers/financial-health/compute-health-score/handler.go
package computehealthscore

import (
	"bytes"
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
	"github.com/arthverse/arthverse/internal/scoring/healthscore"
	"github.com/arthverse/arthverse/internal/store"
)

const TaskType = "compute-health-score"

// Store is the persistence the handler needs.
type Store interface {
	LoadQuestionnaire(ctx context.Context, userID string) (*store.QuestionnaireRecord, error)
	SaveHealthScore(ctx context.Context, userID string, result *healthscore.ScoreResult, at time.Time) (*store.StoredHealthScore, error)
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
	document, storedAge, err := h.questionnaire(ctx, input)
	if err != nil {
		return nil, err
	}

	if err := h.validator.ValidateQuestionnaire(document); err != nil {
		details := err.Error()
		if stdErr, ok := errors.AsStandardError(err); ok {
			details = stdErr.Details
		}
		return nil, errors.NewInvalidQuestionnaireError(details)
	}

	q, err := models.DecodeQuestionnaire(document)
	if err != nil {
		return nil, errors.NewInvalidQuestionnaireError(err.Error())
	}
	if negatives := q.NegativeFields(); len(negatives) > 0 {
		h.logger.Warn("questionnaire has negative amounts", map[string]interface{}{
			"userId": input.UserID,
			"fields": negatives,
		})
	}

	age := storedAge
	if input.Age != nil {
		age = *input.Age
	}

	result := healthscore.Compute(q, age)
	metrics.ObserveHealthScore(result.Score, string(result.Rating))
	h.obs.RecordScore(ctx, "health", result.Score)

	saved, err := h.store.SaveHealthScore(ctx, input.UserID, result, h.now())
	if err != nil {
		return nil, errors.NewScorePersistFailedError("health_scores", err).WithMetadata("userId", input.UserID)
	}

	h.logger.Info("health score computed", map[string]interface{}{
		"userId":  input.UserID,
		"scoreId": saved.ID,
		"score":   result.Score,
		"rating":  result.Rating,
		"age":     result.Age,
	})

	return &Output{
		ScoreID:      saved.ID,
		Score:        result.Score,
		Rating:       string(result.Rating),
		CalculatedAt: saved.CalculatedAt.Format(time.RFC3339),
		Result:       result,
	}, nil
}

// questionnaire returns the document to score and the age on file, or 0.
func (h *Handler) questionnaire(ctx context.Context, input *Input) ([]byte, int, error) {
	inline := bytes.TrimSpace(input.Questionnaire)
	if len(inline) > 0 && !bytes.Equal(inline, []byte("null")) {
		return inline, 0, nil
	}

	rec, err := h.store.LoadQuestionnaire(ctx, input.UserID)
	if stderrors.Is(err, store.ErrNotFound) {
		return nil, 0, errors.NewQuestionnaireNotFoundError(input.UserID)
	}
	if err != nil {
		return nil, 0, errors.NewQueryFailedError("questionnaires", err)
	}

	age := 0
	if rec.Age != nil {
		age = *rec.Age
	}
	return rec.Document, age, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
