package repository

import (
	"context"
	"time"

	"backend/internal/model"

	"github.com/google/uuid"
)

// InvoiceRepository adds number-uniqueness and detail lookups for invoices.
type InvoiceRepository struct {
	*Repository[model.Invoice]
}

func newInvoiceRepository(uow *UnitOfWork) *InvoiceRepository {
	return &InvoiceRepository{newRepository[model.Invoice](uow)}
}

func (r *InvoiceRepository) GetByNumber(ctx context.Context, clientID uuid.UUID, invoiceNumber string) (*model.Invoice, error) {
	return r.FirstOrDefault(ctx, And(
		Eq("client_id", clientID),
		Eq("invoice_number", invoiceNumber),
	))
}

// NumberExists backs the pre-write uniqueness check for
// (client, invoice number); the composite unique index is the backstop.
func (r *InvoiceRepository) NumberExists(ctx context.Context, clientID uuid.UUID, invoiceNumber string, excludeID *uuid.UUID) (bool, error) {
	criteria := []Criterion{
		Eq("client_id", clientID),
		Eq("invoice_number", invoiceNumber),
	}
	if excludeID != nil {
		criteria = append(criteria, NotEq("id", *excludeID))
	}
	return r.Exists(ctx, And(criteria...))
}

func (r *InvoiceRepository) GetWithFullDetails(ctx context.Context, invoiceID uuid.UUID) (*model.Invoice, error) {
	return r.GetBySpec(ctx, InvoiceWithFullDetails(invoiceID))
}

func (r *InvoiceRepository) ListOverdue(ctx context.Context, referenceDate time.Time) ([]model.Invoice, error) {
	return r.ListBySpec(ctx, OverdueInvoices(referenceDate))
}
