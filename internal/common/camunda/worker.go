// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"fmt"
	"time"

	"github.com/arthverse/arthverse/internal/common/config"
	"github.com/arthverse/arthverse/internal/common/logger"
	"github.com/arthverse/arthverse/internal/common/metrics"
	"github.com/arthverse/arthverse/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// JobHandler is implemented by every task handler.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job)
}

type Worker struct {
	taskType string
	worker   worker.JobWorker
	logger   logger.Logger
}

// Instrument wraps a handler in a job span and records its metrics and panics.
func Instrument(taskType string, h JobHandler, obs *observability.Observability, log logger.Logger) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		start := time.Now()
		done := metrics.TrackJob(taskType)
		ctx, span := obs.StartSpan(context.Background(), taskType,
			attribute.Int64("job.key", job.GetKey()),
			attribute.Int64("process.instance.key", job.GetProcessInstanceKey()),
		)
		defer func() {
			done()
			obs.RecordJob(ctx, taskType, time.Since(start))
			if r := recover(); r != nil {
				span.SetStatus(codes.Error, fmt.Sprint(r))
				metrics.JobFailed(taskType, "PANIC")
				log.Error("handler panicked", map[string]interface{}{
					"taskType": taskType,
					"jobKey":   job.Key,
					"panic":    fmt.Sprint(r),
				})
			}
			span.End()
		}()
		h.Handle(client, job)
	}
}

// Open starts a job worker for taskType with its configured limits.
func Open(client zbc.Client, taskType string, settings config.WorkerConfig, h JobHandler, obs *observability.Observability, log logger.Logger) *Worker {
	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(Instrument(taskType, h, obs, log)).
		MaxJobsActive(settings.MaxJobsActive).
		Timeout(config.Duration(settings.Timeout)).
		Name(taskType + "-worker").
		Open()

	log.Info("worker opened", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": settings.MaxJobsActive,
		"timeoutMs":     settings.Timeout,
	})

	return &Worker{taskType: taskType, worker: jobWorker, logger: log}
}

func (w *Worker) TaskType() string {
	return w.taskType
}

// Stop closes the job worker and waits for in-flight jobs.
func (w *Worker) Stop() {
	w.logger.Info("stopping worker", map[string]interface{}{"taskType": w.taskType})
	w.worker.Close()
	w.worker.AwaitClose()
}
