package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
)

// InvoiceHistoryRepository reads the append-only transition log. History rows
// are only ever inserted (staged through Add alongside the invoice update)
// and cascade-deleted with their invoice.
type InvoiceHistoryRepository struct {
	*Repository[model.InvoiceHistory]
}

func newInvoiceHistoryRepository(uow *UnitOfWork) *InvoiceHistoryRepository {
	return &InvoiceHistoryRepository{newRepository[model.InvoiceHistory](uow)}
}

func (r *InvoiceHistoryRepository) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]model.InvoiceHistory, error) {
	var histories []model.InvoiceHistory
	err := r.uow.conn(ctx).
		Where("invoice_id = ?", invoiceID).
		Preload("FromStatus").
		Preload("ToStatus").
		Order("changed_at DESC").
		Find(&histories).Error
	if err != nil {
		return nil, err
	}
	return histories, nil
}
