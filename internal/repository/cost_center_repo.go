package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
)

// CostCenterRepository adds hierarchy and ownership lookups for cost centers.
type CostCenterRepository struct {
	*Repository[model.CostCenter]
}

func newCostCenterRepository(uow *UnitOfWork) *CostCenterRepository {
	return &CostCenterRepository{newRepository[model.CostCenter](uow)}
}

func (r *CostCenterRepository) GetByCode(ctx context.Context, clientID uuid.UUID, code string) (*model.CostCenter, error) {
	return r.FirstOrDefault(ctx, And(
		Eq("client_id", clientID),
		Eq("code", code),
	))
}

func (r *CostCenterRepository) GetByClient(ctx context.Context, clientID uuid.UUID) ([]model.CostCenter, error) {
	var centers []model.CostCenter
	err := r.uow.conn(ctx).
		Where("client_id = ?", clientID).
		Preload("ResponsiblePersons").
		Order("name").
		Find(&centers).Error
	if err != nil {
		return nil, err
	}
	return centers, nil
}

// GetHierarchy returns the subtree rooted at the given cost center in
// preorder. The traversal runs over an in-memory arena of the client's nodes
// keyed by id and carries a visited set: the schema forbids cycles, but the
// walk must not hang if that invariant is ever broken.
func (r *CostCenterRepository) GetHierarchy(ctx context.Context, rootID uuid.UUID) ([]model.CostCenter, error) {
	root, err := r.GetByID(ctx, rootID)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return []model.CostCenter{}, nil
	}

	siblings, err := r.Find(ctx, Eq("client_id", root.ClientID))
	if err != nil {
		return nil, err
	}

	children := make(map[uuid.UUID][]*model.CostCenter, len(siblings))
	for i := range siblings {
		node := &siblings[i]
		if node.ParentCostCenterID != nil {
			parent := *node.ParentCostCenterID
			children[parent] = append(children[parent], node)
		}
	}

	result := make([]model.CostCenter, 0, len(siblings))
	visited := make(map[uuid.UUID]bool, len(siblings))
	stack := []*model.CostCenter{root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[node.ID] {
			continue
		}
		visited[node.ID] = true
		result = append(result, *node)

		kids := children[node.ID]
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, kids[i])
		}
	}
	return result, nil
}

func (r *CostCenterRepository) GetWithResponsiblePersons(ctx context.Context, costCenterID uuid.UUID) (*model.CostCenter, error) {
	return r.FirstOrDefault(ctx, Eq("id", costCenterID), "ResponsiblePersons")
}

func (r *CostCenterRepository) HasChildren(ctx context.Context, costCenterID uuid.UUID) (bool, error) {
	return r.Exists(ctx, Eq("parent_cost_center_id", costCenterID))
}

func (r *CostCenterRepository) HasInvoices(ctx context.Context, costCenterID uuid.UUID) (bool, error) {
	var count int64
	err := r.uow.conn(ctx).
		Model(&model.Invoice{}).
		Where("cost_center_id = ?", costCenterID).
		Count(&count).Error
	return count > 0, err
}
