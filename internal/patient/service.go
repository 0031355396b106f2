package patient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"careline/internal/billing"
	"careline/internal/events"
	"careline/pkg/sentinel"
)

// BillingClient is the synchronous billing collaborator. The call blocks with
// a bounded timeout owned by the implementation; failure fails the whole
// create operation.
type BillingClient interface {
	CreateAccount(ctx context.Context, patientID, name, email string) (billing.AccountResponse, error)
}

// EventPublisher emits the patient-created event. Best effort: the
// coordinator absorbs any error.
type EventPublisher interface {
	Publish(ctx context.Context, ev events.PatientEvent) error
}

// Coordinator orchestrates the patient write path. Creation is a sequence of
// independent failure domains with no automatic rollback across them:
//
//  1. email uniqueness fast path
//  2. local persistence
//  3. synchronous billing RPC
//  4. fire-and-forget event publication
//
// A billing failure after a successful persist leaves an orphaned record with
// no billing account. That inconsistency window is accepted and logged, not
// hidden; compensation is manual.
type Coordinator struct {
	store     Store
	billing   BillingClient
	publisher EventPublisher
	logger    *slog.Logger
	metrics   *Metrics
	now       func() time.Time
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithClock overrides the registration-date time source.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		c.now = now
	}
}

// WithMetrics attaches Prometheus counters.
func WithMetrics(m *Metrics) Option {
	return func(c *Coordinator) {
		c.metrics = m
	}
}

func NewCoordinator(store Store, billing BillingClient, publisher EventPublisher, logger *slog.Logger, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:     store,
		billing:   billing,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Create runs the full write-coordination flow and returns the created
// record. On a duplicate email nothing is persisted, no billing call is made
// and no event is published.
func (c *Coordinator) Create(ctx context.Context, req WriteRequest) (Record, error) {
	exists, err := c.store.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %v", sentinel.ErrPersistence, err)
	}
	if exists {
		return Record{}, sentinel.ErrDuplicateEmail
	}

	rec := Record{
		ID:             uuid.New(),
		Name:           req.Name,
		Email:          req.Email,
		Address:        req.Address,
		DateOfBirth:    req.DateOfBirth,
		RegisteredDate: c.now(),
	}
	if err := c.store.Insert(ctx, rec); err != nil {
		if errors.Is(err, sentinel.ErrDuplicateEmail) {
			// Lost the race; the unique constraint is the authority.
			return Record{}, sentinel.ErrDuplicateEmail
		}
		return Record{}, fmt.Errorf("%w: %v", sentinel.ErrPersistence, err)
	}

	if _, err := c.billing.CreateAccount(ctx, rec.ID.String(), rec.Name, rec.Email); err != nil {
		// The record stays persisted with no billing account. Known
		// inconsistency window; surfaced, not rolled back.
		c.logger.ErrorContext(ctx, "billing call failed after persist; record retained",
			"patient_id", rec.ID, "error", err)
		if c.metrics != nil {
			c.metrics.OrphanedRecords.Inc()
		}
		return Record{}, fmt.Errorf("create billing account: %w", err)
	}

	c.publish(ctx, rec)

	if c.metrics != nil {
		c.metrics.PatientsCreated.Inc()
	}
	c.logger.InfoContext(ctx, "patient created", "patient_id", rec.ID)
	return rec, nil
}

// publish emits the patient-created event. Failures are logged and absorbed:
// the primary write's outcome never depends on the messaging layer.
func (c *Coordinator) publish(ctx context.Context, rec Record) {
	ev := events.PatientEvent{
		PatientID: rec.ID.String(),
		Name:      rec.Name,
		Email:     rec.Email,
	}
	if err := c.publisher.Publish(ctx, ev); err != nil {
		c.logger.ErrorContext(ctx, "patient event publish failed",
			"patient_id", rec.ID, "error", err)
	}
}

// Update applies field changes to an existing record after re-checking email
// uniqueness against everyone but the record itself. No billing call and no
// event on update.
func (c *Coordinator) Update(ctx context.Context, id uuid.UUID, req WriteRequest) (Record, error) {
	rec, err := c.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Record{}, sentinel.ErrNotFound
		}
		return Record{}, fmt.Errorf("%w: %v", sentinel.ErrPersistence, err)
	}

	taken, err := c.store.ExistsByEmailExcept(ctx, req.Email, id)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %v", sentinel.ErrPersistence, err)
	}
	if taken {
		return Record{}, sentinel.ErrDuplicateEmail
	}

	rec.Name = req.Name
	rec.Email = req.Email
	rec.Address = req.Address
	rec.DateOfBirth = req.DateOfBirth

	if err := c.store.Update(ctx, rec); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrDuplicateEmail):
			return Record{}, sentinel.ErrDuplicateEmail
		case errors.Is(err, sentinel.ErrNotFound):
			return Record{}, sentinel.ErrNotFound
		default:
			return Record{}, fmt.Errorf("%w: %v", sentinel.ErrPersistence, err)
		}
	}
	return rec, nil
}

func (c *Coordinator) Get(ctx context.Context, id uuid.UUID) (Record, error) {
	return c.store.FindByID(ctx, id)
}

func (c *Coordinator) List(ctx context.Context) ([]Record, error) {
	return c.store.List(ctx)
}

func (c *Coordinator) Delete(ctx context.Context, id uuid.UUID) error {
	return c.store.Delete(ctx, id)
}
