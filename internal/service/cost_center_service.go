package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateCostCenterRequest struct {
	ClientID           string `json:"client_id" binding:"required,uuid"`
	Code               string `json:"code" binding:"required,max=50"`
	Name               string `json:"name" binding:"required,max=200"`
	Description        string `json:"description" binding:"max=500"`
	ParentCostCenterID string `json:"parent_cost_center_id" binding:"omitempty,uuid"`
}

type UpdateCostCenterRequest struct {
	Code        string `json:"code" binding:"required,max=50"`
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description" binding:"max=500"`
	IsActive    *bool  `json:"is_active"`
}

type CostCenterResponse struct {
	ID                 string  `json:"id"`
	ClientID           string  `json:"client_id"`
	Code               string  `json:"code"`
	Name               string  `json:"name"`
	Description        *string `json:"description"`
	ParentCostCenterID *string `json:"parent_cost_center_id"`
	IsActive           bool    `json:"is_active"`
	CreatedAt          string  `json:"created_at"`
	UpdatedAt          string  `json:"updated_at"`
}

// --- Interface ---

type CostCenterService interface {
	CreateCostCenter(ctx context.Context, req CreateCostCenterRequest) (CostCenterResponse, error)
	GetCostCenter(ctx context.Context, id string) (CostCenterResponse, error)
	ListByClient(ctx context.Context, clientID string) ([]CostCenterResponse, error)
	GetHierarchy(ctx context.Context, rootID string) ([]CostCenterResponse, error)
	UpdateCostCenter(ctx context.Context, id string, req UpdateCostCenterRequest) (CostCenterResponse, error)
	DeleteCostCenter(ctx context.Context, id string) error
}

type costCenterService struct {
	newUOW func() *repository.UnitOfWork
}

func NewCostCenterService(newUOW func() *repository.UnitOfWork) CostCenterService {
	return &costCenterService{newUOW: newUOW}
}

// --- Implementation ---

func (s *costCenterService) CreateCostCenter(ctx context.Context, req CreateCostCenterRequest) (CostCenterResponse, error) {
	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		return CostCenterResponse{}, fmt.Errorf("invalid client id: %w", err)
	}

	uow := s.newUOW()

	client, err := uow.Clients().GetByID(ctx, clientID)
	if err != nil {
		return CostCenterResponse{}, fmt.Errorf("failed to fetch client: %w", err)
	}
	if client == nil {
		return CostCenterResponse{}, &ValidationError{Messages: []string{"A valid client must be specified."}}
	}

	var parentID *uuid.UUID
	if req.ParentCostCenterID != "" {
		parsed, parseErr := uuid.Parse(req.ParentCostCenterID)
		if parseErr != nil {
			return CostCenterResponse{}, fmt.Errorf("invalid parent cost center id: %w", parseErr)
		}
		parent, parentErr := uow.CostCenters().GetByID(ctx, parsed)
		if parentErr != nil {
			return CostCenterResponse{}, fmt.Errorf("failed to fetch parent cost center: %w", parentErr)
		}
		if parent == nil {
			return CostCenterResponse{}, &ValidationError{Messages: []string{"Parent cost center does not exist."}}
		}
		if parent.ClientID != clientID {
			return CostCenterResponse{}, &ValidationError{Messages: []string{"Parent cost center must belong to the same client."}}
		}
		parentID = &parsed
	}

	existing, err := uow.CostCenters().GetByCode(ctx, clientID, req.Code)
	if err != nil {
		return CostCenterResponse{}, fmt.Errorf("failed to check code: %w", err)
	}
	if existing != nil {
		return CostCenterResponse{}, &ValidationError{Messages: []string{codeTakenMessage(req.Code)}}
	}

	costCenter := &model.CostCenter{
		ClientID:           clientID,
		Code:               req.Code,
		Name:               req.Name,
		Description:        optional(req.Description),
		ParentCostCenterID: parentID,
		IsActive:           true,
	}

	uow.CostCenters().Add(costCenter)
	if _, err := uow.SaveChanges(ctx); err != nil {
		return CostCenterResponse{}, mapCostCenterConstraint(err, req.Code)
	}

	return toCostCenterResponse(*costCenter), nil
}

func (s *costCenterService) GetCostCenter(ctx context.Context, id string) (CostCenterResponse, error) {
	costCenterID, err := uuid.Parse(id)
	if err != nil {
		return CostCenterResponse{}, fmt.Errorf("invalid cost center id: %w", err)
	}

	costCenter, err := s.newUOW().CostCenters().GetByID(ctx, costCenterID)
	if err != nil {
		return CostCenterResponse{}, fmt.Errorf("failed to fetch cost center: %w", err)
	}
	if costCenter == nil {
		return CostCenterResponse{}, ErrNotFound
	}
	return toCostCenterResponse(*costCenter), nil
}

func (s *costCenterService) ListByClient(ctx context.Context, clientID string) ([]CostCenterResponse, error) {
	parsed, err := uuid.Parse(clientID)
	if err != nil {
		return nil, fmt.Errorf("invalid client id: %w", err)
	}

	centers, err := s.newUOW().CostCenters().GetByClient(ctx, parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cost centers: %w", err)
	}
	return toCostCenterResponses(centers), nil
}

// GetHierarchy returns the subtree rooted at the given cost center in
// preorder.
func (s *costCenterService) GetHierarchy(ctx context.Context, rootID string) ([]CostCenterResponse, error) {
	parsed, err := uuid.Parse(rootID)
	if err != nil {
		return nil, fmt.Errorf("invalid cost center id: %w", err)
	}

	centers, err := s.newUOW().CostCenters().GetHierarchy(ctx, parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch hierarchy: %w", err)
	}
	if len(centers) == 0 {
		return nil, ErrNotFound
	}
	return toCostCenterResponses(centers), nil
}

func (s *costCenterService) UpdateCostCenter(ctx context.Context, id string, req UpdateCostCenterRequest) (CostCenterResponse, error) {
	costCenterID, err := uuid.Parse(id)
	if err != nil {
		return CostCenterResponse{}, fmt.Errorf("invalid cost center id: %w", err)
	}

	uow := s.newUOW()
	costCenter, err := uow.CostCenters().GetByID(ctx, costCenterID)
	if err != nil {
		return CostCenterResponse{}, fmt.Errorf("failed to fetch cost center: %w", err)
	}
	if costCenter == nil {
		return CostCenterResponse{}, ErrNotFound
	}

	if costCenter.Code != req.Code {
		existing, codeErr := uow.CostCenters().GetByCode(ctx, costCenter.ClientID, req.Code)
		if codeErr != nil {
			return CostCenterResponse{}, fmt.Errorf("failed to check code: %w", codeErr)
		}
		if existing != nil && existing.ID != costCenterID {
			return CostCenterResponse{}, &ValidationError{Messages: []string{codeTakenMessage(req.Code)}}
		}
	}

	costCenter.Code = req.Code
	costCenter.Name = req.Name
	costCenter.Description = optional(req.Description)
	if req.IsActive != nil {
		costCenter.IsActive = *req.IsActive
	}

	uow.CostCenters().Update(costCenter)
	if _, err := uow.SaveChanges(ctx); err != nil {
		return CostCenterResponse{}, mapCostCenterConstraint(err, req.Code)
	}

	return toCostCenterResponse(*costCenter), nil
}

// DeleteCostCenter fails fast while child cost centers or invoices exist,
// before any transaction is opened. Responsible persons cascade with the
// cost center.
func (s *costCenterService) DeleteCostCenter(ctx context.Context, id string) error {
	costCenterID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid cost center id: %w", err)
	}

	uow := s.newUOW()
	costCenter, err := uow.CostCenters().GetByID(ctx, costCenterID)
	if err != nil {
		return fmt.Errorf("failed to fetch cost center: %w", err)
	}
	if costCenter == nil {
		return ErrNotFound
	}

	hasChildren, err := uow.CostCenters().HasChildren(ctx, costCenterID)
	if err != nil {
		return fmt.Errorf("failed to check children: %w", err)
	}
	if hasChildren {
		return &ValidationError{Messages: []string{"Cost center cannot be deleted while child cost centers exist."}}
	}

	hasInvoices, err := uow.CostCenters().HasInvoices(ctx, costCenterID)
	if err != nil {
		return fmt.Errorf("failed to check invoices: %w", err)
	}
	if hasInvoices {
		return &ValidationError{Messages: []string{"Cost center cannot be deleted while invoices exist."}}
	}

	uow.CostCenters().Remove(costCenter)
	if _, err := uow.SaveChanges(ctx); err != nil {
		return err
	}
	return nil
}

// --- Helpers ---

func codeTakenMessage(code string) string {
	return fmt.Sprintf("A cost center with code %q already exists for this client.", code)
}

func mapCostCenterConstraint(err error, code string) error {
	var constraintErr *repository.ConstraintViolationError
	if errors.As(err, &constraintErr) && strings.Contains(constraintErr.Constraint, "client_code") {
		return &ValidationError{Messages: []string{codeTakenMessage(code)}}
	}
	return err
}

func toCostCenterResponse(costCenter model.CostCenter) CostCenterResponse {
	resp := CostCenterResponse{
		ID:          costCenter.ID.String(),
		ClientID:    costCenter.ClientID.String(),
		Code:        costCenter.Code,
		Name:        costCenter.Name,
		Description: costCenter.Description,
		IsActive:    costCenter.IsActive,
		CreatedAt:   costCenter.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   costCenter.UpdatedAt.Format(time.RFC3339),
	}
	if costCenter.ParentCostCenterID != nil {
		parent := costCenter.ParentCostCenterID.String()
		resp.ParentCostCenterID = &parent
	}
	return resp
}

func toCostCenterResponses(centers []model.CostCenter) []CostCenterResponse {
	result := make([]CostCenterResponse, 0, len(centers))
	for _, costCenter := range centers {
		result = append(result, toCostCenterResponse(costCenter))
	}
	return result
}
