package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
)

// InvoiceStatusRepository covers the status lookup table.
type InvoiceStatusRepository struct {
	*Repository[model.InvoiceStatus]
}

func newInvoiceStatusRepository(uow *UnitOfWork) *InvoiceStatusRepository {
	return &InvoiceStatusRepository{newRepository[model.InvoiceStatus](uow)}
}

func (r *InvoiceStatusRepository) GetByName(ctx context.Context, name string) (*model.InvoiceStatus, error) {
	return r.FirstOrDefault(ctx, Eq("name", name))
}

func (r *InvoiceStatusRepository) ListOrdered(ctx context.Context) ([]model.InvoiceStatus, error) {
	var statuses []model.InvoiceStatus
	err := r.uow.conn(ctx).
		Order("sort_order").
		Order("name").
		Find(&statuses).Error
	if err != nil {
		return nil, err
	}
	return statuses, nil
}

// IsReferenced reports whether any invoice or history row points at the
// status. Referenced statuses are restrict-protected and must not be deleted.
func (r *InvoiceStatusRepository) IsReferenced(ctx context.Context, statusID uuid.UUID) (bool, error) {
	var count int64
	err := r.uow.conn(ctx).
		Model(&model.Invoice{}).
		Where("invoice_status_id = ?", statusID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}

	err = r.uow.conn(ctx).
		Model(&model.InvoiceHistory{}).
		Where("from_status_id = ? OR to_status_id = ?", statusID, statusID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
