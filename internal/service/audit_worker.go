package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gmaohq/gmao/internal/domain"
	"github.com/gmaohq/gmao/internal/metrics"
)

// Auditor is an alias for the canonical domain.Auditor interface.
type Auditor = domain.Auditor

// AuditEnqueuer accepts audit jobs for asynchronous recording.
type AuditEnqueuer interface {
	Enqueue(job *AuditJob)
}

// AuditJob represents a single audit entry to be recorded.
type AuditJob struct {
	Action     string
	EntityType string
	EntityID   string
	Actor      string
	Detail     map[string]any
}

// auditWriteTimeout bounds a single audit insert.
const auditWriteTimeout = 5 * time.Second

// AuditWorker buffers audit entries and writes them from a single goroutine.
// Mutations never wait on the audit table.
type AuditWorker struct {
	auditor Auditor
	log     *logrus.Logger
	jobs    chan *AuditJob
}

// NewAuditWorker creates an AuditWorker with the given queue capacity.
func NewAuditWorker(auditor Auditor, log *logrus.Logger, queueSize int) *AuditWorker {
	if queueSize <= 0 {
		queueSize = 1000
	}
	return &AuditWorker{
		auditor: auditor,
		log:     log,
		jobs:    make(chan *AuditJob, queueSize),
	}
}

// Enqueue adds an audit job. Non-blocking; drops the job if the queue is full.
func (w *AuditWorker) Enqueue(job *AuditJob) {
	select {
	case w.jobs <- job:
		metrics.AuditQueueDepth.Set(float64(len(w.jobs)))
	default:
		metrics.ErrorsTotal.WithLabelValues("audit_dropped").Inc()
		w.log.WithFields(logrus.Fields{
			"action":    job.Action,
			"entity_id": job.EntityID,
		}).Warn("audit queue full, dropping entry")
	}
}

// Run processes audit jobs until the context is cancelled, then drains remaining jobs.
func (w *AuditWorker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return
		case job := <-w.jobs:
			w.process(job)
		}
	}
}

func (w *AuditWorker) drain() {
	for {
		select {
		case job := <-w.jobs:
			w.process(job)
		default:
			return
		}
	}
}

func (w *AuditWorker) process(job *AuditJob) {
	metrics.AuditQueueDepth.Set(float64(len(w.jobs)))

	// Detached from the request: the entry outlives it.
	ctx, cancel := context.WithTimeout(context.Background(), auditWriteTimeout)
	defer cancel()

	if err := w.auditor.RecordAudit(
		ctx, job.Action, job.EntityType, job.EntityID, job.Actor, job.Detail,
	); err != nil {
		w.log.WithError(err).WithField("action", job.Action).Warn("audit record failed")
	}
}

// auditTrail enqueues audit entries on behalf of a service (best-effort, non-blocking).
type auditTrail struct {
	worker AuditEnqueuer
}

func (a auditTrail) record(action, entityType, entityID, actor string, detail map[string]any) {
	if a.worker == nil {
		return
	}
	a.worker.Enqueue(&AuditJob{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Actor:      actor,
		Detail:     detail,
	})
}
