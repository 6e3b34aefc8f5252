// internal/workers/reporting/index-financial-snapshot/handler.go
package indexfinancialsnapshot

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/arthverse/arthverse/internal/common/camunda"
	"github.com/arthverse/arthverse/internal/common/errors"
	"github.com/arthverse/arthverse/internal/common/logger"
	"github.com/arthverse/arthverse/internal/common/metrics"
	"github.com/arthverse/arthverse/internal/common/validation"
	"github.com/arthverse/arthverse/internal/store"
)

const TaskType = "index-financial-snapshot"

type ScoreReader interface {
	LatestHealthScore(ctx context.Context, userID string) (*store.StoredHealthScore, error)
	LatestProtectionGap(ctx context.Context, userID string) (*store.StoredProtectionGap, error)
}

type Handler struct {
	config     *Config
	client     *elasticsearch.Client
	scores     ScoreReader
	validator  *validation.Validator
	errHandler *errors.ErrorHandler
	logger     logger.Logger
	now        func() time.Time
}

func NewHandler(config *Config, client *elasticsearch.Client, scores ScoreReader, v *validation.Validator, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		client:     client,
		scores:     scores,
		validator:  v,
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
	if err := h.fillFromStore(ctx, input); err != nil {
		return nil, err
	}
	if input.HealthScore == nil && input.ProtectionGap == nil {
		return nil, errors.NewInvalidInputError(fmt.Errorf("no health score or protection gap for user %s", input.UserID))
	}

	doc := buildSnapshot(input.UserID, input.ScoreID, input.GapID, input.HealthScore, input.ProtectionGap, h.now())
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.NewIndexingFailedError(h.config.Index, err)
	}

	documentID := input.ScoreID
	if documentID == "" {
		documentID = uuid.NewString()
	}

	res, err := h.client.Index(
		h.config.Index,
		bytes.NewReader(body),
		h.client.Index.WithContext(ctx),
		h.client.Index.WithDocumentID(documentID),
	)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.NewTimeoutError("index snapshot", err)
		}
		return nil, errors.NewIndexingFailedError(h.config.Index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, errors.NewIndexingFailedError(h.config.Index, fmt.Errorf("elasticsearch returned %s", res.Status()))
	}

	var indexed struct {
		ID     string `json:"_id"`
		Result string `json:"result"`
	}
	if err := json.NewDecoder(res.Body).Decode(&indexed); err != nil {
		return nil, errors.NewIndexingFailedError(h.config.Index, fmt.Errorf("decode response: %w", err))
	}
	if indexed.ID == "" {
		indexed.ID = documentID
	}

	h.logger.Info("snapshot indexed", map[string]interface{}{
		"userId":     input.UserID,
		"documentId": indexed.ID,
		"index":      h.config.Index,
		"result":     indexed.Result,
	})

	return &Output{DocumentID: indexed.ID, Indexed: true, Result: indexed.Result}, nil
}

// fillFromStore loads the latest stored results for whatever the input lacks.
// A user with no stored result of a kind is not an error here.
func (h *Handler) fillFromStore(ctx context.Context, input *Input) error {
	if input.HealthScore == nil {
		rec, err := h.scores.LatestHealthScore(ctx, input.UserID)
		switch {
		case stderrors.Is(err, store.ErrNotFound):
		case err != nil:
			return errors.NewQueryFailedError("health_scores", err)
		default:
			input.HealthScore = rec.Result
			if input.ScoreID == "" {
				input.ScoreID = rec.ID
			}
		}
	}

	if input.ProtectionGap == nil {
		rec, err := h.scores.LatestProtectionGap(ctx, input.UserID)
		switch {
		case stderrors.Is(err, store.ErrNotFound):
		case err != nil:
			return errors.NewQueryFailedError("protection_gaps", err)
		default:
			input.ProtectionGap = rec.Result
			if input.GapID == "" {
				input.GapID = rec.ID
			}
		}
	}
	return nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
