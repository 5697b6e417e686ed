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

type CreateInvoiceStatusRequest struct {
	Name        string `json:"name" binding:"required,max=50"`
	Description string `json:"description" binding:"max=200"`
	Color       string `json:"color" binding:"max=20"`
	SortOrder   int    `json:"sort_order"`
	IsFinal     bool   `json:"is_final"`
}

type UpdateInvoiceStatusRequest struct {
	Name        string `json:"name" binding:"required,max=50"`
	Description string `json:"description" binding:"max=200"`
	Color       string `json:"color" binding:"max=20"`
	SortOrder   int    `json:"sort_order"`
	IsActive    *bool  `json:"is_active"`
	IsFinal     *bool  `json:"is_final"`
}

type InvoiceStatusResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
	SortOrder   int     `json:"sort_order"`
	IsActive    bool    `json:"is_active"`
	IsFinal     bool    `json:"is_final"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// --- Interface ---

type InvoiceStatusService interface {
	CreateStatus(ctx context.Context, req CreateInvoiceStatusRequest) (InvoiceStatusResponse, error)
	ListStatuses(ctx context.Context) ([]InvoiceStatusResponse, error)
	UpdateStatus(ctx context.Context, id string, req UpdateInvoiceStatusRequest) (InvoiceStatusResponse, error)
	DeleteStatus(ctx context.Context, id string) error
}

type invoiceStatusService struct {
	newUOW func() *repository.UnitOfWork
}

func NewInvoiceStatusService(newUOW func() *repository.UnitOfWork) InvoiceStatusService {
	return &invoiceStatusService{newUOW: newUOW}
}

// --- Implementation ---

func (s *invoiceStatusService) CreateStatus(ctx context.Context, req CreateInvoiceStatusRequest) (InvoiceStatusResponse, error) {
	uow := s.newUOW()

	existing, err := uow.InvoiceStatuses().GetByName(ctx, req.Name)
	if err != nil {
		return InvoiceStatusResponse{}, fmt.Errorf("failed to check status name: %w", err)
	}
	if existing != nil {
		return InvoiceStatusResponse{}, &ValidationError{Messages: []string{statusNameTakenMessage(req.Name)}}
	}

	status := &model.InvoiceStatus{
		Name:        req.Name,
		Description: optional(req.Description),
		Color:       optional(req.Color),
		SortOrder:   req.SortOrder,
		IsActive:    true,
		IsFinal:     req.IsFinal,
	}

	uow.InvoiceStatuses().Add(status)
	if _, err := uow.SaveChanges(ctx); err != nil {
		return InvoiceStatusResponse{}, mapStatusConstraint(err, req.Name)
	}
	return toStatusResponse(*status), nil
}

func (s *invoiceStatusService) ListStatuses(ctx context.Context) ([]InvoiceStatusResponse, error) {
	statuses, err := s.newUOW().InvoiceStatuses().ListOrdered(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list statuses: %w", err)
	}
	result := make([]InvoiceStatusResponse, 0, len(statuses))
	for _, status := range statuses {
		result = append(result, toStatusResponse(status))
	}
	return result, nil
}

func (s *invoiceStatusService) UpdateStatus(ctx context.Context, id string, req UpdateInvoiceStatusRequest) (InvoiceStatusResponse, error) {
	statusID, err := uuid.Parse(id)
	if err != nil {
		return InvoiceStatusResponse{}, fmt.Errorf("invalid status id: %w", err)
	}

	uow := s.newUOW()
	status, err := uow.InvoiceStatuses().GetByID(ctx, statusID)
	if err != nil {
		return InvoiceStatusResponse{}, fmt.Errorf("failed to fetch status: %w", err)
	}
	if status == nil {
		return InvoiceStatusResponse{}, ErrNotFound
	}

	if status.Name != req.Name {
		existing, nameErr := uow.InvoiceStatuses().GetByName(ctx, req.Name)
		if nameErr != nil {
			return InvoiceStatusResponse{}, fmt.Errorf("failed to check status name: %w", nameErr)
		}
		if existing != nil && existing.ID != statusID {
			return InvoiceStatusResponse{}, &ValidationError{Messages: []string{statusNameTakenMessage(req.Name)}}
		}
	}

	status.Name = req.Name
	status.Description = optional(req.Description)
	status.Color = optional(req.Color)
	status.SortOrder = req.SortOrder
	if req.IsActive != nil {
		status.IsActive = *req.IsActive
	}
	if req.IsFinal != nil {
		status.IsFinal = *req.IsFinal
	}

	uow.InvoiceStatuses().Update(status)
	if _, err := uow.SaveChanges(ctx); err != nil {
		return InvoiceStatusResponse{}, mapStatusConstraint(err, req.Name)
	}
	return toStatusResponse(*status), nil
}

// DeleteStatus fails fast while any invoice or history row references the
// status.
func (s *invoiceStatusService) DeleteStatus(ctx context.Context, id string) error {
	statusID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid status id: %w", err)
	}

	uow := s.newUOW()
	status, err := uow.InvoiceStatuses().GetByID(ctx, statusID)
	if err != nil {
		return fmt.Errorf("failed to fetch status: %w", err)
	}
	if status == nil {
		return ErrNotFound
	}

	referenced, err := uow.InvoiceStatuses().IsReferenced(ctx, statusID)
	if err != nil {
		return fmt.Errorf("failed to check status references: %w", err)
	}
	if referenced {
		return &ValidationError{Messages: []string{"Status cannot be deleted while invoices or history entries reference it."}}
	}

	uow.InvoiceStatuses().Remove(status)
	if _, err := uow.SaveChanges(ctx); err != nil {
		return err
	}
	return nil
}

// --- Helpers ---

func statusNameTakenMessage(name string) string {
	return fmt.Sprintf("A status named %q already exists.", name)
}

func mapStatusConstraint(err error, name string) error {
	var constraintErr *repository.ConstraintViolationError
	if errors.As(err, &constraintErr) && strings.Contains(constraintErr.Constraint, "statuses_name") {
		return &ValidationError{Messages: []string{statusNameTakenMessage(name)}}
	}
	return err
}

func toStatusResponse(status model.InvoiceStatus) InvoiceStatusResponse {
	return InvoiceStatusResponse{
		ID:          status.ID.String(),
		Name:        status.Name,
		Description: status.Description,
		Color:       status.Color,
		SortOrder:   status.SortOrder,
		IsActive:    status.IsActive,
		IsFinal:     status.IsFinal,
		CreatedAt:   status.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   status.UpdatedAt.Format(time.RFC3339),
	}
}
