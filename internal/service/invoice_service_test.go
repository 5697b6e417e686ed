package service

import (
	"context"
	"testing"
	"time"

	"backend/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func invoiceFixture(t *testing.T) (InvoiceService, ClientResponse, CostCenterResponse, InvoiceStatusService) {
	t.Helper()
	_, newUOW := seededFactory(t)

	clients := NewClientService(newUOW)
	costCenters := NewCostCenterService(newUOW)
	client := mustCreateClientVia(t, clients, "33444555000166")
	costCenter := mustCreateCostCenterVia(t, costCenters, client.ID, "OPS")

	return NewInvoiceService(newUOW, nil), client, costCenter, NewInvoiceStatusService(newUOW)
}

func validInvoiceRequest(client ClientResponse, costCenter CostCenterResponse, number string) CreateInvoiceRequest {
	issue := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return CreateInvoiceRequest{
		ClientID:           client.ID,
		CostCenterID:       costCenter.ID,
		InvoiceNumber:      number,
		Amount:             decimal.NewFromFloat(1500.50),
		TotalAmount:        decimal.NewFromFloat(1650.55),
		IssueDate:          issue,
		DueDate:            issue.AddDate(0, 1, 0),
		ServicePeriodStart: issue.AddDate(0, -1, 0),
		ServicePeriodEnd:   issue,
	}
}

func TestInvoiceService_CreateStartsInReceived(t *testing.T) {
	invoices, client, costCenter, _ := invoiceFixture(t)
	ctx := context.Background()

	created, err := invoices.CreateInvoice(ctx, validInvoiceRequest(client, costCenter, "NF-100"))
	require.NoError(t, err)
	assert.Equal(t, model.StatusReceived, created.StatusName)
	assert.True(t, created.Amount.Equal(decimal.NewFromFloat(1500.50)))

	fetched, err := invoices.GetInvoice(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "NF-100", fetched.InvoiceNumber)
	assert.Equal(t, client.ID, fetched.ClientID)
}

func TestInvoiceService_CreateCollectsEveryViolation(t *testing.T) {
	invoices, client, costCenter, _ := invoiceFixture(t)
	ctx := context.Background()

	req := validInvoiceRequest(client, costCenter, "NF-101")
	req.Amount = decimal.NewFromInt(-5)
	req.TotalAmount = decimal.Zero
	req.DueDate = req.IssueDate.AddDate(0, 0, -1)
	req.ServicePeriodEnd = req.ServicePeriodStart.AddDate(0, 0, -1)

	_, err := invoices.CreateInvoice(ctx, req)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Len(t, validationErr.Messages, 4, "all violations surface together")
}

func TestInvoiceService_CostCenterMustBelongToClient(t *testing.T) {
	_, newUOW := seededFactory(t)
	ctx := context.Background()

	clients := NewClientService(newUOW)
	costCenters := NewCostCenterService(newUOW)
	invoices := NewInvoiceService(newUOW, nil)

	clientA := mustCreateClientVia(t, clients, "33444555000167")
	clientB := mustCreateClientVia(t, clients, "33444555000168")
	foreignCostCenter := mustCreateCostCenterVia(t, costCenters, clientB.ID, "OPS-B")

	_, err := invoices.CreateInvoice(ctx, validInvoiceRequest(clientA, foreignCostCenter, "NF-900"))
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Messages, "Cost center must belong to the invoice's client.")
}

func TestInvoiceService_DuplicateNumberPerClient(t *testing.T) {
	invoices, client, costCenter, _ := invoiceFixture(t)
	ctx := context.Background()

	_, err := invoices.CreateInvoice(ctx, validInvoiceRequest(client, costCenter, "NF-102"))
	require.NoError(t, err)

	_, err = invoices.CreateInvoice(ctx, validInvoiceRequest(client, costCenter, "NF-102"))
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Messages, invoiceNumberTakenMessage("NF-102"))
}

func TestInvoiceService_ChangeStatusWritesHistory(t *testing.T) {
	invoices, client, costCenter, statuses := invoiceFixture(t)
	ctx := context.Background()

	created, err := invoices.CreateInvoice(ctx, validInvoiceRequest(client, costCenter, "NF-103"))
	require.NoError(t, err)

	all, err := statuses.ListStatuses(ctx)
	require.NoError(t, err)
	byName := make(map[string]InvoiceStatusResponse, len(all))
	for _, status := range all {
		byName[status.Name] = status
	}

	processing, err := invoices.ChangeStatus(ctx, created.ID, "user-1", ChangeInvoiceStatusRequest{
		ToStatusID:   byName[model.StatusProcessing].ID,
		ChangeReason: "conferido",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusProcessing, processing.StatusName)

	paid, err := invoices.ChangeStatus(ctx, created.ID, "user-1", ChangeInvoiceStatusRequest{
		ToStatusID: byName[model.StatusPaid].ID,
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusPaid, paid.StatusName)
	require.NotNil(t, paid.PaidDate, "reaching Paid records the payment date")

	history, err := invoices.ListHistory(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, model.StatusPaid, history[0].ToStatus, "newest first")
	assert.Equal(t, model.StatusProcessing, history[1].ToStatus)
	require.NotNil(t, history[0].ChangedByUserID)
	assert.Equal(t, "user-1", *history[0].ChangedByUserID)
}

func TestInvoiceService_FinalStatusBlocksTransitions(t *testing.T) {
	invoices, client, costCenter, statuses := invoiceFixture(t)
	ctx := context.Background()

	created, err := invoices.CreateInvoice(ctx, validInvoiceRequest(client, costCenter, "NF-104"))
	require.NoError(t, err)

	all, err := statuses.ListStatuses(ctx)
	require.NoError(t, err)
	byName := make(map[string]InvoiceStatusResponse, len(all))
	for _, status := range all {
		byName[status.Name] = status
	}

	_, err = invoices.ChangeStatus(ctx, created.ID, "user-1", ChangeInvoiceStatusRequest{
		ToStatusID: byName[model.StatusCancelled].ID,
	})
	require.NoError(t, err)

	_, err = invoices.ChangeStatus(ctx, created.ID, "user-1", ChangeInvoiceStatusRequest{
		ToStatusID: byName[model.StatusReceived].ID,
	})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)

	// The refused transition left no history behind.
	history, err := invoices.ListHistory(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestInvoiceStatusService_DeleteReferencedFailsFast(t *testing.T) {
	invoices, client, costCenter, statuses := invoiceFixture(t)
	ctx := context.Background()

	created, err := invoices.CreateInvoice(ctx, validInvoiceRequest(client, costCenter, "NF-105"))
	require.NoError(t, err)

	all, err := statuses.ListStatuses(ctx)
	require.NoError(t, err)
	var received InvoiceStatusResponse
	for _, status := range all {
		if status.Name == model.StatusReceived {
			received = status
		}
	}

	err = statuses.DeleteStatus(ctx, received.ID)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)

	require.NoError(t, invoices.DeleteInvoice(ctx, created.ID))
}
