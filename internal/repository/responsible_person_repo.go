package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
)

// ResponsiblePersonRepository adds the scope-aware lookups the invariant
// validation relies on. A scope is either a client or a cost center.
type ResponsiblePersonRepository struct {
	*Repository[model.ResponsiblePerson]
}

func newResponsiblePersonRepository(uow *UnitOfWork) *ResponsiblePersonRepository {
	return &ResponsiblePersonRepository{newRepository[model.ResponsiblePerson](uow)}
}

func scopeCriterion(scope model.ContactScope) Criterion {
	if scope.ClientID != nil {
		return Eq("client_id", *scope.ClientID)
	}
	if scope.CostCenterID != nil {
		return Eq("cost_center_id", *scope.CostCenterID)
	}
	return nil
}

func (r *ResponsiblePersonRepository) GetByClient(ctx context.Context, clientID uuid.UUID) ([]model.ResponsiblePerson, error) {
	return r.listScope(ctx, "client_id = ?", clientID, false)
}

func (r *ResponsiblePersonRepository) GetActiveByClient(ctx context.Context, clientID uuid.UUID) ([]model.ResponsiblePerson, error) {
	return r.listScope(ctx, "client_id = ?", clientID, true)
}

func (r *ResponsiblePersonRepository) GetByCostCenter(ctx context.Context, costCenterID uuid.UUID) ([]model.ResponsiblePerson, error) {
	return r.listScope(ctx, "cost_center_id = ?", costCenterID, false)
}

// listScope orders the primary contact first, then by name.
func (r *ResponsiblePersonRepository) listScope(ctx context.Context, cond string, ownerID uuid.UUID, activeOnly bool) ([]model.ResponsiblePerson, error) {
	query := r.uow.conn(ctx).Where(cond, ownerID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var persons []model.ResponsiblePerson
	err := query.
		Order("is_primary_contact DESC").
		Order("name").
		Find(&persons).Error
	if err != nil {
		return nil, err
	}
	return persons, nil
}

// GetPrimaryContact returns the scope's primary contact, nil when none.
func (r *ResponsiblePersonRepository) GetPrimaryContact(ctx context.Context, scope model.ContactScope) (*model.ResponsiblePerson, error) {
	return r.FirstOrDefault(ctx, And(
		scopeCriterion(scope),
		Eq("is_primary_contact", true),
	))
}

// HasPrimaryContact reports whether another person in the scope is already
// the primary contact, optionally excluding one row (the candidate itself on
// update).
func (r *ResponsiblePersonRepository) HasPrimaryContact(ctx context.Context, scope model.ContactScope, excludeID *uuid.UUID) (bool, error) {
	criteria := []Criterion{
		scopeCriterion(scope),
		Eq("is_primary_contact", true),
	}
	if excludeID != nil {
		criteria = append(criteria, NotEq("id", *excludeID))
	}
	return r.Exists(ctx, And(criteria...))
}

// EmailExists reports whether another person in the scope already uses the
// email, optionally excluding one row.
func (r *ResponsiblePersonRepository) EmailExists(ctx context.Context, email string, scope model.ContactScope, excludeID *uuid.UUID) (bool, error) {
	criteria := []Criterion{
		scopeCriterion(scope),
		Eq("email", email),
	}
	if excludeID != nil {
		criteria = append(criteria, NotEq("id", *excludeID))
	}
	return r.Exists(ctx, And(criteria...))
}
