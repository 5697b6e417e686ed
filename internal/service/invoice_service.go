package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreateInvoiceRequest struct {
	ClientID           string           `json:"client_id" binding:"required,uuid"`
	CostCenterID       string           `json:"cost_center_id" binding:"required,uuid"`
	InvoiceNumber      string           `json:"invoice_number" binding:"required,max=100"`
	Amount             decimal.Decimal  `json:"amount" binding:"required"`
	TaxAmount          *decimal.Decimal `json:"tax_amount"`
	TotalAmount        decimal.Decimal  `json:"total_amount" binding:"required"`
	IssueDate          time.Time        `json:"issue_date" binding:"required"`
	DueDate            time.Time        `json:"due_date" binding:"required"`
	ServicePeriodStart time.Time        `json:"service_period_start" binding:"required"`
	ServicePeriodEnd   time.Time        `json:"service_period_end" binding:"required"`
	ServiceType        string           `json:"service_type" binding:"max=50"`
	Description        string           `json:"description" binding:"max=1000"`
	Notes              string           `json:"notes" binding:"max=1000"`
}

type UpdateInvoiceRequest struct {
	Amount             decimal.Decimal  `json:"amount" binding:"required"`
	TaxAmount          *decimal.Decimal `json:"tax_amount"`
	TotalAmount        decimal.Decimal  `json:"total_amount" binding:"required"`
	IssueDate          time.Time        `json:"issue_date" binding:"required"`
	DueDate            time.Time        `json:"due_date" binding:"required"`
	ServicePeriodStart time.Time        `json:"service_period_start" binding:"required"`
	ServicePeriodEnd   time.Time        `json:"service_period_end" binding:"required"`
	ServiceType        string           `json:"service_type" binding:"max=50"`
	Description        string           `json:"description" binding:"max=1000"`
	Notes              string           `json:"notes" binding:"max=1000"`
}

type ChangeInvoiceStatusRequest struct {
	ToStatusID   string `json:"to_status_id" binding:"required,uuid"`
	ChangeReason string `json:"change_reason" binding:"max=500"`
	Comments     string `json:"comments" binding:"max=1000"`
}

type InvoiceFilter struct {
	ClientID string
	StatusID string
	Page     int
	Limit    int
}

type InvoiceResponse struct {
	ID                 string           `json:"id"`
	ClientID           string           `json:"client_id"`
	CostCenterID       string           `json:"cost_center_id"`
	InvoiceStatusID    string           `json:"invoice_status_id"`
	StatusName         string           `json:"status_name,omitempty"`
	InvoiceNumber      string           `json:"invoice_number"`
	Amount             decimal.Decimal  `json:"amount"`
	TaxAmount          *decimal.Decimal `json:"tax_amount"`
	TotalAmount        decimal.Decimal  `json:"total_amount"`
	IssueDate          time.Time        `json:"issue_date"`
	DueDate            time.Time        `json:"due_date"`
	ServicePeriodStart time.Time        `json:"service_period_start"`
	ServicePeriodEnd   time.Time        `json:"service_period_end"`
	ServiceType        *string          `json:"service_type"`
	Description        *string          `json:"description"`
	PaidDate           *time.Time       `json:"paid_date"`
	Notes              *string          `json:"notes"`
	IsActive           bool             `json:"is_active"`
	CreatedAt          string           `json:"created_at"`
	UpdatedAt          string           `json:"updated_at"`
}

type InvoiceHistoryResponse struct {
	ID              string    `json:"id"`
	FromStatus      string    `json:"from_status"`
	ToStatus        string    `json:"to_status"`
	ChangeReason    *string   `json:"change_reason"`
	Comments        *string   `json:"comments"`
	ChangedByUserID *string   `json:"changed_by_user_id"`
	ChangedAt       time.Time `json:"changed_at"`
}

// --- Interface ---

type InvoiceService interface {
	CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (InvoiceResponse, error)
	GetInvoice(ctx context.Context, id string) (InvoiceResponse, error)
	ListInvoices(ctx context.Context, filter InvoiceFilter) ([]InvoiceResponse, int64, error)
	ListOverdue(ctx context.Context) ([]InvoiceResponse, error)
	UpdateInvoice(ctx context.Context, id string, req UpdateInvoiceRequest) (InvoiceResponse, error)
	ChangeStatus(ctx context.Context, id string, userID string, req ChangeInvoiceStatusRequest) (InvoiceResponse, error)
	DeleteInvoice(ctx context.Context, id string) error
	ListHistory(ctx context.Context, id string) ([]InvoiceHistoryResponse, error)
}

type invoiceService struct {
	newUOW func() *repository.UnitOfWork
	hub    *websocket.Hub
	now    func() time.Time
}

func NewInvoiceService(newUOW func() *repository.UnitOfWork, hub *websocket.Hub) InvoiceService {
	return &invoiceService{newUOW: newUOW, hub: hub, now: time.Now}
}

// --- Implementation ---

func (s *invoiceService) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (InvoiceResponse, error) {
	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid client id: %w", err)
	}
	costCenterID, err := uuid.Parse(req.CostCenterID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid cost center id: %w", err)
	}

	var result ValidationResult
	if !req.Amount.IsPositive() {
		result.add("Amount must be greater than zero.")
	}
	if !req.TotalAmount.IsPositive() {
		result.add("Total amount must be greater than zero.")
	}
	if req.DueDate.Before(req.IssueDate) {
		result.add("Due date cannot be earlier than the issue date.")
	}
	if req.ServicePeriodEnd.Before(req.ServicePeriodStart) {
		result.add("Service period end cannot be earlier than its start.")
	}

	uow := s.newUOW()

	client, err := uow.Clients().GetByID(ctx, clientID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("failed to fetch client: %w", err)
	}
	if client == nil {
		result.add("A valid client must be specified.")
	}

	costCenter, err := uow.CostCenters().GetByID(ctx, costCenterID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("failed to fetch cost center: %w", err)
	}
	if costCenter == nil {
		result.add("A valid cost center must be specified.")
	} else if costCenter.ClientID != clientID {
		result.add("Cost center must belong to the invoice's client.")
	}

	if client != nil {
		exists, numErr := uow.Invoices().NumberExists(ctx, clientID, req.InvoiceNumber, nil)
		if numErr != nil {
			return InvoiceResponse{}, fmt.Errorf("failed to check invoice number: %w", numErr)
		}
		if exists {
			result.add(invoiceNumberTakenMessage(req.InvoiceNumber))
		}
	}

	if !result.Valid() {
		return InvoiceResponse{}, validationError(result)
	}

	status, err := uow.InvoiceStatuses().GetByName(ctx, model.StatusReceived)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("failed to fetch initial status: %w", err)
	}
	if status == nil {
		return InvoiceResponse{}, fmt.Errorf("initial invoice status %q is not seeded", model.StatusReceived)
	}

	received := s.now()
	invoice := &model.Invoice{
		ClientID:           clientID,
		CostCenterID:       costCenterID,
		InvoiceStatusID:    status.ID,
		InvoiceNumber:      req.InvoiceNumber,
		Amount:             req.Amount,
		TaxAmount:          req.TaxAmount,
		TotalAmount:        req.TotalAmount,
		IssueDate:          req.IssueDate,
		DueDate:            req.DueDate,
		ServicePeriodStart: req.ServicePeriodStart,
		ServicePeriodEnd:   req.ServicePeriodEnd,
		ServiceType:        optional(req.ServiceType),
		Description:        optional(req.Description),
		Notes:              optional(req.Notes),
		ReceivedDate:       &received,
		IsActive:           true,
	}

	uow.Invoices().Add(invoice)
	if _, err := uow.SaveChanges(ctx); err != nil {
		return InvoiceResponse{}, mapInvoiceConstraint(err, req.InvoiceNumber)
	}

	invoice.InvoiceStatus = status
	return toInvoiceResponse(*invoice), nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (InvoiceResponse, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid invoice id: %w", err)
	}

	invoice, err := s.newUOW().Invoices().GetWithFullDetails(ctx, invoiceID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("failed to fetch invoice: %w", err)
	}
	if invoice == nil {
		return InvoiceResponse{}, ErrNotFound
	}
	return toInvoiceResponse(*invoice), nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter InvoiceFilter) ([]InvoiceResponse, int64, error) {
	var clientID, statusID *uuid.UUID
	if filter.ClientID != "" {
		parsed, err := uuid.Parse(filter.ClientID)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid client id: %w", err)
		}
		clientID = &parsed
	}
	if filter.StatusID != "" {
		parsed, err := uuid.Parse(filter.StatusID)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid status id: %w", err)
		}
		statusID = &parsed
	}

	spec := repository.PaginatedInvoices(filter.Page, filter.Limit, clientID, statusID)
	invoices := s.newUOW().Invoices()

	list, err := invoices.ListBySpec(ctx, spec)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list invoices: %w", err)
	}
	total, err := invoices.CountBySpec(ctx, spec)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count invoices: %w", err)
	}
	return toInvoiceResponses(list), total, nil
}

func (s *invoiceService) ListOverdue(ctx context.Context) ([]InvoiceResponse, error) {
	list, err := s.newUOW().Invoices().ListOverdue(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue invoices: %w", err)
	}
	return toInvoiceResponses(list), nil
}

func (s *invoiceService) UpdateInvoice(ctx context.Context, id string, req UpdateInvoiceRequest) (InvoiceResponse, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid invoice id: %w", err)
	}

	var result ValidationResult
	if !req.Amount.IsPositive() {
		result.add("Amount must be greater than zero.")
	}
	if !req.TotalAmount.IsPositive() {
		result.add("Total amount must be greater than zero.")
	}
	if req.DueDate.Before(req.IssueDate) {
		result.add("Due date cannot be earlier than the issue date.")
	}
	if req.ServicePeriodEnd.Before(req.ServicePeriodStart) {
		result.add("Service period end cannot be earlier than its start.")
	}
	if !result.Valid() {
		return InvoiceResponse{}, validationError(result)
	}

	uow := s.newUOW()
	invoice, err := uow.Invoices().GetByID(ctx, invoiceID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("failed to fetch invoice: %w", err)
	}
	if invoice == nil {
		return InvoiceResponse{}, ErrNotFound
	}

	invoice.Amount = req.Amount
	invoice.TaxAmount = req.TaxAmount
	invoice.TotalAmount = req.TotalAmount
	invoice.IssueDate = req.IssueDate
	invoice.DueDate = req.DueDate
	invoice.ServicePeriodStart = req.ServicePeriodStart
	invoice.ServicePeriodEnd = req.ServicePeriodEnd
	invoice.ServiceType = optional(req.ServiceType)
	invoice.Description = optional(req.Description)
	invoice.Notes = optional(req.Notes)

	uow.Invoices().Update(invoice)
	if _, err := uow.SaveChanges(ctx); err != nil {
		return InvoiceResponse{}, mapInvoiceConstraint(err, invoice.InvoiceNumber)
	}
	return toInvoiceResponse(*invoice), nil
}

// ChangeStatus moves an invoice to a new status and appends a history row in
// the same transaction; either both land or neither does. The websocket
// broadcast happens only after the commit succeeds.
func (s *invoiceService) ChangeStatus(ctx context.Context, id string, userID string, req ChangeInvoiceStatusRequest) (InvoiceResponse, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid invoice id: %w", err)
	}
	toStatusID, err := uuid.Parse(req.ToStatusID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid status id: %w", err)
	}

	uow := s.newUOW()
	if err := uow.BeginTransaction(ctx); err != nil {
		return InvoiceResponse{}, err
	}
	defer uow.Rollback()

	invoice, err := uow.Invoices().GetByID(ctx, invoiceID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("failed to fetch invoice: %w", err)
	}
	if invoice == nil {
		return InvoiceResponse{}, ErrNotFound
	}

	fromStatus, err := uow.InvoiceStatuses().GetByID(ctx, invoice.InvoiceStatusID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("failed to fetch current status: %w", err)
	}
	toStatus, err := uow.InvoiceStatuses().GetByID(ctx, toStatusID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("failed to fetch target status: %w", err)
	}
	if toStatus == nil {
		return InvoiceResponse{}, &ValidationError{Messages: []string{"A valid target status must be specified."}}
	}
	if fromStatus != nil && fromStatus.IsFinal {
		return InvoiceResponse{}, &ValidationError{Messages: []string{
			fmt.Sprintf("Invoice is in final status %q and cannot transition further.", fromStatus.Name),
		}}
	}
	if invoice.InvoiceStatusID == toStatusID {
		return InvoiceResponse{}, &ValidationError{Messages: []string{"Invoice is already in the requested status."}}
	}

	changedAt := s.now()
	fromStatusID := invoice.InvoiceStatusID

	invoice.InvoiceStatusID = toStatusID
	switch toStatus.Name {
	case model.StatusPaid:
		invoice.PaidDate = &changedAt
	case model.StatusProcessing:
		invoice.ProcessedDate = &changedAt
	}

	history := &model.InvoiceHistory{
		InvoiceID:       invoice.ID,
		FromStatusID:    fromStatusID,
		ToStatusID:      toStatusID,
		ChangeReason:    optional(req.ChangeReason),
		Comments:        optional(req.Comments),
		ChangedByUserID: optional(userID),
		ChangedAt:       changedAt,
	}

	uow.Invoices().Update(invoice)
	uow.InvoiceHistories().Add(history)

	if _, err := uow.Commit(ctx); err != nil {
		return InvoiceResponse{}, err
	}

	if s.hub != nil {
		fromName := ""
		if fromStatus != nil {
			fromName = fromStatus.Name
		}
		s.hub.BroadcastInvoiceEvent(websocket.InvoiceEvent{
			Type:          websocket.EventInvoiceStatusChanged,
			InvoiceID:     invoice.ID.String(),
			InvoiceNumber: invoice.InvoiceNumber,
			FromStatus:    fromName,
			ToStatus:      toStatus.Name,
			ChangedAt:     changedAt,
		})
	}

	invoice.InvoiceStatus = toStatus
	return toInvoiceResponse(*invoice), nil
}

func (s *invoiceService) DeleteInvoice(ctx context.Context, id string) error {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid invoice id: %w", err)
	}

	uow := s.newUOW()
	invoice, err := uow.Invoices().GetByID(ctx, invoiceID)
	if err != nil {
		return fmt.Errorf("failed to fetch invoice: %w", err)
	}
	if invoice == nil {
		return ErrNotFound
	}

	uow.Invoices().Remove(invoice)
	if _, err := uow.SaveChanges(ctx); err != nil {
		return err
	}
	return nil
}

func (s *invoiceService) ListHistory(ctx context.Context, id string) ([]InvoiceHistoryResponse, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid invoice id: %w", err)
	}

	uow := s.newUOW()
	invoice, err := uow.Invoices().GetByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch invoice: %w", err)
	}
	if invoice == nil {
		return nil, ErrNotFound
	}

	histories, err := uow.InvoiceHistories().ListByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch invoice history: %w", err)
	}

	result := make([]InvoiceHistoryResponse, 0, len(histories))
	for _, history := range histories {
		entry := InvoiceHistoryResponse{
			ID:              history.ID.String(),
			ChangeReason:    history.ChangeReason,
			Comments:        history.Comments,
			ChangedByUserID: history.ChangedByUserID,
			ChangedAt:       history.ChangedAt,
		}
		if history.FromStatus != nil {
			entry.FromStatus = history.FromStatus.Name
		}
		if history.ToStatus != nil {
			entry.ToStatus = history.ToStatus.Name
		}
		result = append(result, entry)
	}
	return result, nil
}

// --- Helpers ---

func invoiceNumberTakenMessage(number string) string {
	return fmt.Sprintf("An invoice with number %q already exists for this client.", number)
}

func mapInvoiceConstraint(err error, number string) error {
	var constraintErr *repository.ConstraintViolationError
	if errors.As(err, &constraintErr) && strings.Contains(constraintErr.Constraint, "client_number") {
		return &ValidationError{Messages: []string{invoiceNumberTakenMessage(number)}}
	}
	return err
}

func toInvoiceResponse(invoice model.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:                 invoice.ID.String(),
		ClientID:           invoice.ClientID.String(),
		CostCenterID:       invoice.CostCenterID.String(),
		InvoiceStatusID:    invoice.InvoiceStatusID.String(),
		InvoiceNumber:      invoice.InvoiceNumber,
		Amount:             invoice.Amount,
		TaxAmount:          invoice.TaxAmount,
		TotalAmount:        invoice.TotalAmount,
		IssueDate:          invoice.IssueDate,
		DueDate:            invoice.DueDate,
		ServicePeriodStart: invoice.ServicePeriodStart,
		ServicePeriodEnd:   invoice.ServicePeriodEnd,
		ServiceType:        invoice.ServiceType,
		Description:        invoice.Description,
		PaidDate:           invoice.PaidDate,
		Notes:              invoice.Notes,
		IsActive:           invoice.IsActive,
		CreatedAt:          invoice.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          invoice.UpdatedAt.Format(time.RFC3339),
	}
	if invoice.InvoiceStatus != nil {
		resp.StatusName = invoice.InvoiceStatus.Name
	}
	return resp
}

func toInvoiceResponses(invoices []model.Invoice) []InvoiceResponse {
	result := make([]InvoiceResponse, 0, len(invoices))
	for _, invoice := range invoices {
		result = append(result, toInvoiceResponse(invoice))
	}
	return result
}
