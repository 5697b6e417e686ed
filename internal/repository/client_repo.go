package repository

import (
	"context"
	"errors"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClientRepository adds client-specific lookups on top of the generic
// operations.
type ClientRepository struct {
	*Repository[model.Client]
}

func newClientRepository(uow *UnitOfWork) *ClientRepository {
	return &ClientRepository{newRepository[model.Client](uow)}
}

func (r *ClientRepository) GetByTaxID(ctx context.Context, taxID string) (*model.Client, error) {
	return r.FirstOrDefault(ctx, Eq("tax_id", taxID))
}

func (r *ClientRepository) GetActiveClients(ctx context.Context) ([]model.Client, error) {
	var clients []model.Client
	err := r.uow.conn(ctx).
		Where("is_active = ?", true).
		Order("company_name").
		Find(&clients).Error
	if err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *ClientRepository) GetWithCostCenters(ctx context.Context, clientID uuid.UUID) (*model.Client, error) {
	var client model.Client
	err := r.uow.conn(ctx).
		Preload("CostCenters").
		Preload("CostCenters.ResponsiblePersons").
		First(&client, "id = ?", clientID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *ClientRepository) GetWithInvoices(ctx context.Context, clientID uuid.UUID) (*model.Client, error) {
	var client model.Client
	err := r.uow.conn(ctx).
		Preload("Invoices.InvoiceStatus").
		Preload("Invoices.CostCenter").
		First(&client, "id = ?", clientID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// HasCostCenters and HasInvoices back the restrict-delete fail-fast checks.

func (r *ClientRepository) HasCostCenters(ctx context.Context, clientID uuid.UUID) (bool, error) {
	var count int64
	err := r.uow.conn(ctx).
		Model(&model.CostCenter{}).
		Where("client_id = ?", clientID).
		Count(&count).Error
	return count > 0, err
}

func (r *ClientRepository) HasInvoices(ctx context.Context, clientID uuid.UUID) (bool, error) {
	var count int64
	err := r.uow.conn(ctx).
		Model(&model.Invoice{}).
		Where("client_id = ?", clientID).
		Count(&count).Error
	return count > 0, err
}
