package repository

import (
	"context"
	"testing"
	"time"

	"backend/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitOfWork_TransactionLifecycle(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	uow := NewUnitOfWork(db)

	_, err := uow.Commit(ctx)
	assert.ErrorIs(t, err, ErrNoTransaction)
	assert.ErrorIs(t, uow.Rollback(), ErrNoTransaction)

	require.NoError(t, uow.BeginTransaction(ctx))
	assert.True(t, uow.InTransaction())
	assert.ErrorIs(t, uow.BeginTransaction(ctx), ErrTransactionActive)

	require.NoError(t, uow.Rollback())
	assert.False(t, uow.InTransaction())
}

func TestUnitOfWork_EmptyCommitIsNoOp(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	uow := NewUnitOfWork(db)

	require.NoError(t, uow.BeginTransaction(ctx))
	affected, err := uow.Commit(ctx)
	require.NoError(t, err)
	assert.Zero(t, affected)
	assert.False(t, uow.InTransaction())
}

func TestUnitOfWork_AuditStamping(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	frozen := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	uow := NewUnitOfWork(db)
	uow.now = func() time.Time { return frozen }

	client := newTestClient("11111111000111")
	uow.Clients().Add(client)
	affected, err := uow.SaveChanges(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)
	assert.True(t, client.CreatedAt.Equal(frozen))
	assert.True(t, client.UpdatedAt.Equal(frozen))

	later := frozen.Add(2 * time.Hour)
	uow2 := NewUnitOfWork(db)
	uow2.now = func() time.Time { return later }
	client.CompanyName = "Acme Renamed"
	uow2.Clients().Update(client)
	_, err = uow2.SaveChanges(ctx)
	require.NoError(t, err)

	stored, err := uow2.Clients().GetByID(ctx, client.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.CreatedAt.Equal(frozen), "create stamp must survive updates")
	assert.True(t, stored.UpdatedAt.Equal(later))
}

func TestUnitOfWork_BackdatedCreateSurvives(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	imported := time.Date(2020, 6, 15, 0, 0, 0, 0, time.UTC)
	uow := NewUnitOfWork(db)

	client := newTestClient("22222222000122")
	client.CreatedAt = imported
	uow.Clients().Add(client)
	_, err := uow.SaveChanges(ctx)
	require.NoError(t, err)

	stored, err := uow.Clients().GetByID(ctx, client.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.CreatedAt.Equal(imported), "explicit creation stamp must not be overwritten")
	assert.True(t, stored.UpdatedAt.After(imported))
}

func TestUnitOfWork_CommitIsAtomic(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	uow := NewUnitOfWork(db)
	require.NoError(t, uow.BeginTransaction(ctx))

	first := newTestClient("33333333000133")
	duplicate := newTestClient("33333333000133")
	uow.Clients().Add(first)
	uow.Clients().Add(duplicate)

	_, err := uow.Commit(ctx)
	require.Error(t, err)
	var constraintErr *ConstraintViolationError
	assert.ErrorAs(t, err, &constraintErr)
	assert.False(t, uow.InTransaction())

	count, err := NewUnitOfWork(db).Clients().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count, "a failed commit must leave nothing durable")
}

func TestUnitOfWork_DuplicateTaxIDClassified(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	mustCreateClient(t, db, "44444444000144")

	uow := NewUnitOfWork(db)
	uow.Clients().Add(newTestClient("44444444000144"))
	_, err := uow.SaveChanges(ctx)

	var constraintErr *ConstraintViolationError
	require.ErrorAs(t, err, &constraintErr)
	assert.Contains(t, constraintErr.Constraint, "tax_id")
}

func TestUnitOfWork_CheckConstraintClassified(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	client := mustCreateClient(t, db, "55555555000155")
	costCenter := mustCreateCostCenter(t, db, client, "CC-01", nil)
	statuses := mustSeedStatuses(t, db)

	issue := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	uow := NewUnitOfWork(db)
	uow.Invoices().Add(&model.Invoice{
		ClientID:           client.ID,
		CostCenterID:       costCenter.ID,
		InvoiceStatusID:    statuses[model.StatusReceived].ID,
		InvoiceNumber:      "NF-1",
		Amount:             decimal.NewFromInt(-1),
		TotalAmount:        decimal.NewFromInt(10),
		IssueDate:          issue,
		DueDate:            issue.AddDate(0, 1, 0),
		ServicePeriodStart: issue.AddDate(0, -1, 0),
		ServicePeriodEnd:   issue,
		IsActive:           true,
	})
	_, err := uow.SaveChanges(ctx)

	var constraintErr *ConstraintViolationError
	require.ErrorAs(t, err, &constraintErr)
}

func TestUnitOfWork_RollbackDiscardsStagedChanges(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	uow := NewUnitOfWork(db)
	require.NoError(t, uow.BeginTransaction(ctx))
	uow.Clients().Add(newTestClient("66666666000166"))
	require.NoError(t, uow.Rollback())

	// The discarded change must not leak into a later flush.
	require.NoError(t, uow.BeginTransaction(ctx))
	affected, err := uow.Commit(ctx)
	require.NoError(t, err)
	assert.Zero(t, affected)

	count, err := uow.Clients().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestUnitOfWork_SaveChangesInsideTransactionDefersCommit(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	uow := NewUnitOfWork(db)
	require.NoError(t, uow.BeginTransaction(ctx))
	uow.Clients().Add(newTestClient("77777777000177"))
	affected, err := uow.SaveChanges(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)
	assert.True(t, uow.InTransaction(), "SaveChanges inside a transaction must not commit it")

	require.NoError(t, uow.Rollback())

	count, err := NewUnitOfWork(db).Clients().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
