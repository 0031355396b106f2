package patient

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careline/internal/billing"
	"careline/internal/events"
	"careline/pkg/sentinel"
)

type fakeBilling struct {
	calls     int
	patientID string
	name      string
	email     string
	err       error
}

func (f *fakeBilling) CreateAccount(_ context.Context, patientID, name, email string) (billing.AccountResponse, error) {
	f.calls++
	f.patientID, f.name, f.email = patientID, name, email
	if f.err != nil {
		return billing.AccountResponse{}, f.err
	}
	return billing.AccountResponse{AccountID: "acc-1", Status: "ACTIVE"}, nil
}

type fakePublisher struct {
	published []events.PatientEvent
	err       error
}

func (f *fakePublisher) Publish(_ context.Context, ev events.PatientEvent) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, ev)
	return nil
}

type failingStore struct {
	Store
	insertErr error
	existsErr error
}

func (f *failingStore) Insert(ctx context.Context, rec Record) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	return f.Store.Insert(ctx, rec)
}

func (f *failingStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	return f.Store.ExistsByEmail(ctx, email)
}

func testCoordinator(store Store, b BillingClient, p EventPublisher) *Coordinator {
	return NewCoordinator(store, b, p, slog.New(slog.DiscardHandler))
}

func aliceRequest() WriteRequest {
	return WriteRequest{
		Name:        "Alice",
		Email:       "a@x.com",
		Address:     "1 Main St",
		DateOfBirth: time.Date(1990, 2, 3, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateSuccess(t *testing.T) {
	store := NewInMemoryStore()
	bill := &fakeBilling{}
	pub := &fakePublisher{}
	coord := testCoordinator(store, bill, pub)
	ctx := context.Background()

	rec, err := coord.Create(ctx, aliceRequest())
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, rec.ID)
	assert.Equal(t, "Alice", rec.Name)
	assert.Equal(t, "a@x.com", rec.Email)
	assert.False(t, rec.RegisteredDate.IsZero())

	// Billing called exactly once with the new record's identity.
	require.Equal(t, 1, bill.calls)
	assert.Equal(t, rec.ID.String(), bill.patientID)
	assert.Equal(t, "Alice", bill.name)
	assert.Equal(t, "a@x.com", bill.email)

	// Exactly one event with matching fields.
	require.Len(t, pub.published, 1)
	assert.Equal(t, events.PatientEvent{
		PatientID: rec.ID.String(),
		Name:      "Alice",
		Email:     "a@x.com",
	}, pub.published[0])

	stored, err := store.FindByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec, stored)
}

func TestCreateDuplicateEmailHasNoSideEffects(t *testing.T) {
	store := NewInMemoryStore()
	bill := &fakeBilling{}
	pub := &fakePublisher{}
	coord := testCoordinator(store, bill, pub)
	ctx := context.Background()

	_, err := coord.Create(ctx, aliceRequest())
	require.NoError(t, err)
	bill.calls = 0
	pub.published = nil

	req := aliceRequest()
	req.Name = "Another Alice"
	_, err = coord.Create(ctx, req)
	assert.ErrorIs(t, err, sentinel.ErrDuplicateEmail)

	// No new record, no billing call, no event.
	records, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Zero(t, bill.calls)
	assert.Empty(t, pub.published)
}

func TestCreatePersistenceFailureStopsFlow(t *testing.T) {
	bill := &fakeBilling{}
	pub := &fakePublisher{}
	store := &failingStore{Store: NewInMemoryStore(), insertErr: errors.New("store unavailable")}
	coord := testCoordinator(store, bill, pub)

	_, err := coord.Create(context.Background(), aliceRequest())
	assert.ErrorIs(t, err, sentinel.ErrPersistence)
	assert.Zero(t, bill.calls)
	assert.Empty(t, pub.published)
}

func TestCreateInsertRaceMapsToDuplicate(t *testing.T) {
	store := &failingStore{Store: NewInMemoryStore(), insertErr: sentinel.ErrDuplicateEmail}
	coord := testCoordinator(store, &fakeBilling{}, &fakePublisher{})

	_, err := coord.Create(context.Background(), aliceRequest())
	assert.ErrorIs(t, err, sentinel.ErrDuplicateEmail)
}

func TestCreateBillingFailureRetainsRecord(t *testing.T) {
	store := NewInMemoryStore()
	bill := &fakeBilling{err: sentinel.ErrBillingUnavailable}
	pub := &fakePublisher{}
	coord := testCoordinator(store, bill, pub)
	ctx := context.Background()

	_, err := coord.Create(ctx, aliceRequest())
	require.ErrorIs(t, err, sentinel.ErrBillingUnavailable)

	// The already-persisted record is not rolled back: a subsequent lookup
	// still finds it. Known inconsistency window.
	records, listErr := store.List(ctx)
	require.NoError(t, listErr)
	require.Len(t, records, 1)
	assert.Equal(t, "a@x.com", records[0].Email)

	// The flow stopped before publication.
	assert.Empty(t, pub.published)
}

func TestCreatePublishFailureIsAbsorbed(t *testing.T) {
	store := NewInMemoryStore()
	bill := &fakeBilling{}
	pub := &fakePublisher{err: errors.New("broker down")}
	coord := testCoordinator(store, bill, pub)

	rec, err := coord.Create(context.Background(), aliceRequest())
	require.NoError(t, err, "publish failures must never fail the create")
	assert.NotEqual(t, uuid.Nil, rec.ID)
	assert.Equal(t, 1, bill.calls)
}

func TestUpdateNotFound(t *testing.T) {
	coord := testCoordinator(NewInMemoryStore(), &fakeBilling{}, &fakePublisher{})

	_, err := coord.Update(context.Background(), uuid.New(), aliceRequest())
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestUpdateEmailCollisionLeavesRecordUnmodified(t *testing.T) {
	store := NewInMemoryStore()
	coord := testCoordinator(store, &fakeBilling{}, &fakePublisher{})
	ctx := context.Background()

	alice, err := coord.Create(ctx, aliceRequest())
	require.NoError(t, err)

	bobReq := aliceRequest()
	bobReq.Name = "Bob"
	bobReq.Email = "b@x.com"
	bob, err := coord.Create(ctx, bobReq)
	require.NoError(t, err)

	steal := bobReq
	steal.Email = alice.Email
	_, err = coord.Update(ctx, bob.ID, steal)
	assert.ErrorIs(t, err, sentinel.ErrDuplicateEmail)

	unchanged, err := store.FindByID(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, bob, unchanged)
}

func TestUpdateSuccessHasNoSideEffects(t *testing.T) {
	store := NewInMemoryStore()
	bill := &fakeBilling{}
	pub := &fakePublisher{}
	coord := testCoordinator(store, bill, pub)
	ctx := context.Background()

	rec, err := coord.Create(ctx, aliceRequest())
	require.NoError(t, err)
	bill.calls = 0
	pub.published = nil

	req := WriteRequest{
		Name:        "Alice Cooper",
		Email:       "a@x.com",
		Address:     "2 Side St",
		DateOfBirth: rec.DateOfBirth,
	}
	updated, err := coord.Update(ctx, rec.ID, req)
	require.NoError(t, err)

	assert.Equal(t, "Alice Cooper", updated.Name)
	assert.Equal(t, "2 Side St", updated.Address)
	assert.Equal(t, rec.RegisteredDate, updated.RegisteredDate, "registration date is immutable")

	// Updates never call billing or publish events.
	assert.Zero(t, bill.calls)
	assert.Empty(t, pub.published)

	// A record may keep its own email on update.
	same := req
	_, err = coord.Update(ctx, rec.ID, same)
	assert.NoError(t, err)
}
