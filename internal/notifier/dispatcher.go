package notifier

import (
	"context"
	"sync"
	"time"

	"property-service/internal/model"
	"property-service/pkg/config"
	"property-service/prometheus"

	"go.uber.org/zap"
)

// State is the lifecycle of a single dispatch attempt.
type State string

const (
	StatePending           State = "pending"
	StateRunning           State = "running"
	StateSucceeded         State = "succeeded"
	StateRetrying          State = "retrying"
	StatePermanentlyFailed State = "permanently_failed"
)

// OwnerSource resolves a property's owner. Lookup failures are the
// retryable failure path of a dispatch attempt.
type OwnerSource interface {
	OwnerOf(ctx context.Context, p *model.Property) (*model.User, error)
}

// Mailer sends the creation email. Send failures are swallowed inside a
// successful attempt; an unconfigured transport skips the email entirely.
type Mailer interface {
	Configured() bool
	Send(ctx context.Context, toEmail, toName, subject, plainText, htmlContent string) error
}

type job struct {
	property model.Property
}

// Dispatcher runs the post-creation notification out-of-band. Jobs are
// queued on a buffered channel and processed by a single worker with at
// most MaxAttempts tries, each under AttemptTimeout. No outcome is ever
// surfaced to the request that created the property.
type Dispatcher struct {
	owners OwnerSource
	mailer Mailer
	log    *zap.Logger
	cfg    config.NotifyConfig

	jobs     chan job
	wg       sync.WaitGroup
	stopOnce sync.Once
}

func NewDispatcher(owners OwnerSource, mailer Mailer, log *zap.Logger, cfg config.NotifyConfig) *Dispatcher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = 120 * time.Second
	}
	return &Dispatcher{
		owners: owners,
		mailer: mailer,
		log:    log,
		cfg:    cfg,
		jobs:   make(chan job, cfg.QueueSize),
	}
}

// Start launches the worker goroutine.
func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for j := range d.jobs {
			d.process(j)
		}
	}()
}

// Stop closes the queue and waits for outstanding jobs to drain.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() {
		close(d.jobs)
	})
	d.wg.Wait()
}

// PropertyCreated enqueues a notification job. Never blocks the caller: a
// full queue drops the job with a warning.
func (d *Dispatcher) PropertyCreated(p model.Property) {
	select {
	case d.jobs <- job{property: p}:
		prometheus.RecordNotificationOutcome(string(StatePending))
	default:
		d.log.Warn("notification queue full, dropping job",
			zap.Uint("property_id", p.ID))
		prometheus.RecordNotificationOutcome("dropped")
	}
}

func (d *Dispatcher) process(j job) {
	log := d.log.With(zap.Uint("property_id", j.property.ID))

	for attempt := 1; attempt <= d.cfg.MaxAttempts; attempt++ {
		prometheus.RecordNotificationOutcome(string(StateRunning))

		ctx, cancel := context.WithTimeout(context.Background(), d.cfg.AttemptTimeout)
		err := d.runAttempt(ctx, j)
		cancel()

		if err == nil {
			prometheus.RecordNotificationOutcome(string(StateSucceeded))
			log.Info("property notification job completed",
				zap.Int("attempt", attempt))
			return
		}

		if attempt < d.cfg.MaxAttempts {
			prometheus.RecordNotificationOutcome(string(StateRetrying))
			log.Warn("property notification attempt failed, retrying",
				zap.Int("attempt", attempt),
				zap.Error(err))
			time.Sleep(d.cfg.RetryDelay)
			continue
		}

		prometheus.RecordNotificationOutcome(string(StatePermanentlyFailed))
		log.Error("property notification failed",
			zap.Int("attempts", attempt),
			zap.Error(err))
	}
}

// runAttempt performs one dispatch attempt: log the creation event, then
// best-effort email. Only the owner lookup can fail the attempt; an email
// send failure is logged and the attempt still succeeds.
func (d *Dispatcher) runAttempt(ctx context.Context, j job) error {
	owner, err := d.owners.OwnerOf(ctx, &j.property)
	if err != nil {
		return err
	}

	d.log.Info("property created notification",
		zap.Uint("property_id", j.property.ID),
		zap.String("property_name", j.property.Name),
		zap.String("owner_email", owner.Email),
		zap.String("owner_name", owner.Name))

	if !d.mailer.Configured() {
		d.log.Info("mail not configured, skipping email notification",
			zap.Uint("property_id", j.property.ID))
		return nil
	}

	subject, plainText, htmlContent := buildCreationEmail(&j.property, owner)
	if err := d.mailer.Send(ctx, owner.Email, owner.Name, subject, plainText, htmlContent); err != nil {
		d.log.Warn("failed to send email, but job continues",
			zap.Uint("property_id", j.property.ID),
			zap.Error(err))
		return nil
	}

	d.log.Info("email sent successfully",
		zap.Uint("property_id", j.property.ID),
		zap.String("recipient", owner.Email))
	return nil
}
