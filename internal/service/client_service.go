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

type CreateClientRequest struct {
	CompanyName   string `json:"company_name" binding:"required,max=200"`
	TradeName     string `json:"trade_name" binding:"max=200"`
	TaxID         string `json:"tax_id" binding:"required,min=11,max=14"`
	Email         string `json:"email" binding:"omitempty,email,max=100"`
	Phone         string `json:"phone" binding:"max=20"`
	Address       string `json:"address" binding:"max=500"`
	ContactPerson string `json:"contact_person" binding:"max=100"`
}

type UpdateClientRequest struct {
	CompanyName   string `json:"company_name" binding:"required,max=200"`
	TradeName     string `json:"trade_name" binding:"max=200"`
	TaxID         string `json:"tax_id" binding:"required,min=11,max=14"`
	Email         string `json:"email" binding:"omitempty,email,max=100"`
	Phone         string `json:"phone" binding:"max=20"`
	Address       string `json:"address" binding:"max=500"`
	ContactPerson string `json:"contact_person" binding:"max=100"`
	IsActive      *bool  `json:"is_active"`
}

type ClientFilter struct {
	Search     string
	ActiveOnly bool
	Page       int
	Limit      int
}

type ClientResponse struct {
	ID            string  `json:"id"`
	CompanyName   string  `json:"company_name"`
	TradeName     *string `json:"trade_name"`
	TaxID         string  `json:"tax_id"`
	Email         *string `json:"email"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
	ContactPerson *string `json:"contact_person"`
	IsActive      bool    `json:"is_active"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

// --- Interface ---

type ClientService interface {
	CreateClient(ctx context.Context, req CreateClientRequest) (ClientResponse, error)
	GetClient(ctx context.Context, id string) (ClientResponse, error)
	ListClients(ctx context.Context, filter ClientFilter) ([]ClientResponse, int64, error)
	UpdateClient(ctx context.Context, id string, req UpdateClientRequest) (ClientResponse, error)
	DeactivateClient(ctx context.Context, id string) error
	DeleteClient(ctx context.Context, id string) error
}

type clientService struct {
	newUOW func() *repository.UnitOfWork
}

func NewClientService(newUOW func() *repository.UnitOfWork) ClientService {
	return &clientService{newUOW: newUOW}
}

// --- Implementation ---

func (s *clientService) CreateClient(ctx context.Context, req CreateClientRequest) (ClientResponse, error) {
	uow := s.newUOW()

	existing, err := uow.Clients().GetByTaxID(ctx, req.TaxID)
	if err != nil {
		return ClientResponse{}, fmt.Errorf("failed to check tax id: %w", err)
	}
	if existing != nil {
		return ClientResponse{}, &ValidationError{Messages: []string{taxIDTakenMessage(req.TaxID)}}
	}

	client := &model.Client{
		CompanyName:   req.CompanyName,
		TradeName:     optional(req.TradeName),
		TaxID:         req.TaxID,
		Email:         optional(req.Email),
		Phone:         optional(req.Phone),
		Address:       optional(req.Address),
		ContactPerson: optional(req.ContactPerson),
		IsActive:      true,
	}

	uow.Clients().Add(client)
	if _, err := uow.SaveChanges(ctx); err != nil {
		return ClientResponse{}, mapClientConstraint(err, req.TaxID)
	}

	return toClientResponse(*client), nil
}

func (s *clientService) GetClient(ctx context.Context, id string) (ClientResponse, error) {
	clientID, err := uuid.Parse(id)
	if err != nil {
		return ClientResponse{}, fmt.Errorf("invalid client id: %w", err)
	}

	client, err := s.newUOW().Clients().GetByID(ctx, clientID)
	if err != nil {
		return ClientResponse{}, fmt.Errorf("failed to fetch client: %w", err)
	}
	if client == nil {
		return ClientResponse{}, ErrNotFound
	}
	return toClientResponse(*client), nil
}

func (s *clientService) ListClients(ctx context.Context, filter ClientFilter) ([]ClientResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	var parts []repository.Criterion
	if filter.ActiveOnly {
		parts = append(parts, repository.Eq("is_active", true))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		parts = append(parts, repository.Or(
			repository.Like("LOWER(company_name)", pattern),
			repository.Like("LOWER(trade_name)", pattern),
			repository.Like("tax_id", "%"+search+"%"),
			repository.Like("LOWER(email)", pattern),
		))
	}

	var criteria repository.Criterion
	if len(parts) > 0 {
		criteria = repository.And(parts...)
	}

	spec := repository.NewSpecification(criteria).
		OrderBy("company_name").
		Paginate((filter.Page-1)*filter.Limit, filter.Limit)

	uow := s.newUOW()
	clients, err := uow.Clients().ListBySpec(ctx, spec)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch clients: %w", err)
	}
	total, err := uow.Clients().CountBySpec(ctx, spec)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count clients: %w", err)
	}

	result := make([]ClientResponse, 0, len(clients))
	for _, client := range clients {
		result = append(result, toClientResponse(client))
	}
	return result, total, nil
}

func (s *clientService) UpdateClient(ctx context.Context, id string, req UpdateClientRequest) (ClientResponse, error) {
	clientID, err := uuid.Parse(id)
	if err != nil {
		return ClientResponse{}, fmt.Errorf("invalid client id: %w", err)
	}

	uow := s.newUOW()
	client, err := uow.Clients().GetByID(ctx, clientID)
	if err != nil {
		return ClientResponse{}, fmt.Errorf("failed to fetch client: %w", err)
	}
	if client == nil {
		return ClientResponse{}, ErrNotFound
	}

	if client.TaxID != req.TaxID {
		existing, err := uow.Clients().GetByTaxID(ctx, req.TaxID)
		if err != nil {
			return ClientResponse{}, fmt.Errorf("failed to check tax id: %w", err)
		}
		if existing != nil && existing.ID != clientID {
			return ClientResponse{}, &ValidationError{Messages: []string{taxIDTakenMessage(req.TaxID)}}
		}
	}

	client.CompanyName = req.CompanyName
	client.TradeName = optional(req.TradeName)
	client.TaxID = req.TaxID
	client.Email = optional(req.Email)
	client.Phone = optional(req.Phone)
	client.Address = optional(req.Address)
	client.ContactPerson = optional(req.ContactPerson)
	if req.IsActive != nil {
		client.IsActive = *req.IsActive
	}

	uow.Clients().Update(client)
	if _, err := uow.SaveChanges(ctx); err != nil {
		return ClientResponse{}, mapClientConstraint(err, req.TaxID)
	}

	return toClientResponse(*client), nil
}

func (s *clientService) DeactivateClient(ctx context.Context, id string) error {
	clientID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid client id: %w", err)
	}

	uow := s.newUOW()
	client, err := uow.Clients().GetByID(ctx, clientID)
	if err != nil {
		return fmt.Errorf("failed to fetch client: %w", err)
	}
	if client == nil {
		return ErrNotFound
	}

	client.IsActive = false
	uow.Clients().Update(client)
	if _, err := uow.SaveChanges(ctx); err != nil {
		return err
	}
	return nil
}

// DeleteClient hard-deletes a client. Restrict relationships are checked
// before any transaction is opened so a doomed delete never touches the
// store's transaction boundary. Responsible persons go with the client via
// the cascade constraint.
func (s *clientService) DeleteClient(ctx context.Context, id string) error {
	clientID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid client id: %w", err)
	}

	uow := s.newUOW()
	client, err := uow.Clients().GetByID(ctx, clientID)
	if err != nil {
		return fmt.Errorf("failed to fetch client: %w", err)
	}
	if client == nil {
		return ErrNotFound
	}

	hasCostCenters, err := uow.Clients().HasCostCenters(ctx, clientID)
	if err != nil {
		return fmt.Errorf("failed to check cost centers: %w", err)
	}
	if hasCostCenters {
		return &ValidationError{Messages: []string{"Client cannot be deleted while cost centers exist."}}
	}

	hasInvoices, err := uow.Clients().HasInvoices(ctx, clientID)
	if err != nil {
		return fmt.Errorf("failed to check invoices: %w", err)
	}
	if hasInvoices {
		return &ValidationError{Messages: []string{"Client cannot be deleted while invoices exist."}}
	}

	uow.Clients().Remove(client)
	if _, err := uow.SaveChanges(ctx); err != nil {
		return err
	}
	return nil
}

// --- Helpers ---

func taxIDTakenMessage(taxID string) string {
	return fmt.Sprintf("A client with Tax ID %s already exists.", taxID)
}

// mapClientConstraint converts a unique-index race on tax_id into the same
// message the pre-check produces.
func mapClientConstraint(err error, taxID string) error {
	var constraintErr *repository.ConstraintViolationError
	if errors.As(err, &constraintErr) && strings.Contains(constraintErr.Constraint, "tax_id") {
		return &ValidationError{Messages: []string{taxIDTakenMessage(taxID)}}
	}
	return err
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func toClientResponse(client model.Client) ClientResponse {
	return ClientResponse{
		ID:            client.ID.String(),
		CompanyName:   client.CompanyName,
		TradeName:     client.TradeName,
		TaxID:         client.TaxID,
		Email:         client.Email,
		Phone:         client.Phone,
		Address:       client.Address,
		ContactPerson: client.ContactPerson,
		IsActive:      client.IsActive,
		CreatedAt:     client.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     client.UpdatedAt.Format(time.RFC3339),
	}
}
