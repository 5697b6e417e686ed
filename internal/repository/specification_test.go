package repository

import (
	"context"
	"testing"
	"time"

	"backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpecification_LastOrderingWins(t *testing.T) {
	spec := NewSpecification(nil).
		OrderBy("name").
		OrderByDescending("created_at")

	column, desc, ok := spec.Order()
	require.True(t, ok)
	assert.Equal(t, "created_at", column)
	assert.True(t, desc)
}

func TestSpecification_AccumulatesIncludes(t *testing.T) {
	spec := NewSpecification(nil).
		Include("Client").
		Include("InvoiceHistories.ToStatus")

	assert.Equal(t, []string{"Client", "InvoiceHistories.ToStatus"}, spec.Includes())

	_, _, paged := spec.Paging()
	assert.False(t, paged)
}

func TestEvaluator_OrderingAndPaging(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	client := mustCreateClient(t, db, "10000000000101")
	costCenter := mustCreateCostCenter(t, db, client, "CC-01", nil)
	statuses := mustSeedStatuses(t, db)

	base := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	for i, number := range []string{"NF-3", "NF-1", "NF-2"} {
		mustCreateInvoice(t, db, client, costCenter, statuses[model.StatusReceived].ID, number, base.AddDate(0, i, 0))
	}

	uow := NewUnitOfWork(db)

	spec := NewSpecification(InvoicesByClient(client.ID).Criteria()).
		OrderBy("invoice_number")
	ordered, err := uow.Invoices().ListBySpec(ctx, spec)
	require.NoError(t, err)
	require.Len(t, ordered, 3)
	assert.Equal(t, "NF-1", ordered[0].InvoiceNumber)
	assert.Equal(t, "NF-2", ordered[1].InvoiceNumber)
	assert.Equal(t, "NF-3", ordered[2].InvoiceNumber)

	paged := NewSpecification(InvoicesByClient(client.ID).Criteria()).
		OrderBy("invoice_number").
		Paginate(1, 1)
	page, err := uow.Invoices().ListBySpec(ctx, paged)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "NF-2", page[0].InvoiceNumber)
}

func TestEvaluator_CountIgnoresPaging(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	client := mustCreateClient(t, db, "10000000000102")
	costCenter := mustCreateCostCenter(t, db, client, "CC-01", nil)
	statuses := mustSeedStatuses(t, db)

	base := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		mustCreateInvoice(t, db, client, costCenter, statuses[model.StatusReceived].ID, "NF-"+string(rune('A'+i)), base.AddDate(0, 0, i))
	}

	spec := PaginatedInvoices(1, 2, &client.ID, nil)
	uow := NewUnitOfWork(db)

	page, err := uow.Invoices().ListBySpec(ctx, spec)
	require.NoError(t, err)
	assert.Len(t, page, 2)

	total, err := uow.Invoices().CountBySpec(ctx, spec)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total, "count must reflect the filter alone, not the page")
}

func TestEvaluator_OverdueInvoices(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	client := mustCreateClient(t, db, "10000000000103")
	costCenter := mustCreateCostCenter(t, db, client, "CC-01", nil)
	statuses := mustSeedStatuses(t, db)

	reference := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	overdue := mustCreateInvoice(t, db, client, costCenter, statuses[model.StatusReceived].ID, "NF-OLD", reference.AddDate(0, -1, 0))
	mustCreateInvoice(t, db, client, costCenter, statuses[model.StatusReceived].ID, "NF-NEW", reference.AddDate(0, 1, 0))

	// A paid invoice past its due date is not overdue.
	paid := mustCreateInvoice(t, db, client, costCenter, statuses[model.StatusPaid].ID, "NF-PAID", reference.AddDate(0, -2, 0))
	paidAt := reference.AddDate(0, -1, -15)
	paid.PaidDate = &paidAt
	uowPaid := NewUnitOfWork(db)
	uowPaid.Invoices().Update(paid)
	_, err := uowPaid.SaveChanges(ctx)
	require.NoError(t, err)

	uow := NewUnitOfWork(db)
	list, err := uow.Invoices().ListOverdue(ctx, reference)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, overdue.ID, list[0].ID)
}

func TestEvaluator_IncludesPreloadRelations(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	client := mustCreateClient(t, db, "10000000000104")
	costCenter := mustCreateCostCenter(t, db, client, "CC-01", nil)
	statuses := mustSeedStatuses(t, db)
	invoice := mustCreateInvoice(t, db, client, costCenter, statuses[model.StatusReceived].ID, "NF-7", time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC))

	uow := NewUnitOfWork(db)
	loaded, err := uow.Invoices().GetWithFullDetails(ctx, invoice.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.NotNil(t, loaded.Client)
	require.NotNil(t, loaded.CostCenter)
	require.NotNil(t, loaded.InvoiceStatus)
	assert.Equal(t, client.ID, loaded.Client.ID)
	assert.Equal(t, model.StatusReceived, loaded.InvoiceStatus.Name)
}

func TestCriteria_JunctionsCompose(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	active := mustCreateClient(t, db, "10000000000105")
	inactive := mustCreateClient(t, db, "10000000000106")

	uow := NewUnitOfWork(db)
	inactive.IsActive = false
	uow.Clients().Update(inactive)
	_, err := uow.SaveChanges(ctx)
	require.NoError(t, err)

	found, err := uow.Clients().Find(ctx, And(
		Eq("is_active", true),
		Or(Eq("tax_id", active.TaxID), Eq("tax_id", inactive.TaxID)),
	))
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, active.ID, found[0].ID)

	nullMatches, err := uow.Clients().Find(ctx, IsNull("trade_name"))
	require.NoError(t, err)
	assert.Len(t, nullMatches, 2)
}
