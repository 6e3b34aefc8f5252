// internal/workers/communication/send-score-summary/handler.go
package sendscoresummary

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/arthverse/arthverse/internal/common/aws"
	"github.com/arthverse/arthverse/internal/common/camunda"
	"github.com/arthverse/arthverse/internal/common/errors"
	"github.com/arthverse/arthverse/internal/common/logger"
	"github.com/arthverse/arthverse/internal/common/metrics"
	"github.com/arthverse/arthverse/internal/common/validation"
	"github.com/arthverse/arthverse/internal/store"
)

const TaskType = "send-score-summary"

type Mailer interface {
	Send(ctx context.Context, email aws.Email) (string, error)
}

type SMSSender interface {
	Send(ctx context.Context, phone, message string) (string, error)
}

// Directory resolves contacts and stored results for users the process
// did not pass inline.
type Directory interface {
	LoadContact(ctx context.Context, userID string) (*store.Contact, error)
	LatestHealthScore(ctx context.Context, userID string) (*store.StoredHealthScore, error)
	LatestProtectionGap(ctx context.Context, userID string) (*store.StoredProtectionGap, error)
}

type Handler struct {
	config     *Config
	mailer     Mailer
	sms        SMSSender
	directory  Directory
	validator  *validation.Validator
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, mailer Mailer, sms SMSSender, dir Directory, v *validation.Validator, log logger.Logger) (*Handler, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		mailer:     mailer,
		sms:        sms,
		directory:  dir,
		validator:  v,
		errHandler: errors.NewErrorHandler(log),
		logger:     log,
	}, nil
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
	if err := h.resolve(ctx, input); err != nil {
		return nil, err
	}
	if input.HealthScore == nil && input.ProtectionGap == nil {
		return nil, errors.NewInvalidInputError(fmt.Errorf("no results to summarise for user %s", input.UserID))
	}

	output := &Output{NotificationID: uuid.NewString()}

	if h.config.EmailEnabled && input.Email != "" {
		email, err := buildEmail(input.Email, newSummary(input.HealthScore, input.ProtectionGap))
		if err != nil {
			return nil, errors.NewNotificationFailedError("email", err)
		}
		id, err := h.mailer.Send(ctx, email)
		if err != nil {
			return nil, errors.NewNotificationFailedError("email", err).WithMetadata("userId", input.UserID)
		}
		output.EmailSent = true
		output.EmailMessageID = id
		metrics.NotificationSent("email")
	}

	if h.shouldText(input) {
		id, err := h.sms.Send(ctx, input.Phone, buildSMS(input.ProtectionGap))
		switch {
		case err != nil && output.EmailSent:
			// a retry would send the email again
			h.logger.Warn("sms alert failed after email was sent", map[string]interface{}{
				"userId": input.UserID,
				"error":  err,
			})
		case err != nil:
			return nil, errors.NewNotificationFailedError("sms", err).WithMetadata("userId", input.UserID)
		default:
			output.SMSSent = true
			output.SMSMessageID = id
			metrics.NotificationSent("sms")
		}
	}

	h.logger.Info("score summary sent", map[string]interface{}{
		"userId":         input.UserID,
		"notificationId": output.NotificationID,
		"emailSent":      output.EmailSent,
		"smsSent":        output.SMSSent,
	})
	return output, nil
}

func (h *Handler) shouldText(input *Input) bool {
	return h.config.SMSEnabled &&
		input.Phone != "" &&
		input.ProtectionGap != nil &&
		input.ProtectionGap.ProtectionScore < h.config.SMSThreshold
}

// resolve fills the contact details and results the input lacks.
func (h *Handler) resolve(ctx context.Context, input *Input) error {
	if input.Email == "" && input.Phone == "" {
		contact, err := h.directory.LoadContact(ctx, input.UserID)
		switch {
		case stderrors.Is(err, store.ErrNotFound):
			return errors.NewInvalidInputError(fmt.Errorf("unknown user %s", input.UserID))
		case err != nil:
			return errors.NewQueryFailedError("users", err)
		}
		input.Email = contact.Email
		input.Phone = contact.Phone
	}

	if input.HealthScore == nil {
		rec, err := h.directory.LatestHealthScore(ctx, input.UserID)
		switch {
		case stderrors.Is(err, store.ErrNotFound):
		case err != nil:
			return errors.NewQueryFailedError("health_scores", err)
		default:
			input.HealthScore = rec.Result
		}
	}

	if input.ProtectionGap == nil {
		rec, err := h.directory.LatestProtectionGap(ctx, input.UserID)
		switch {
		case stderrors.Is(err, store.ErrNotFound):
		case err != nil:
			return errors.NewQueryFailedError("protection_gaps", err)
		default:
			input.ProtectionGap = rec.Result
		}
	}
	return nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
