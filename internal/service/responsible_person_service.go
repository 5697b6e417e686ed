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

type CreateResponsiblePersonRequest struct {
	ClientID              string `json:"client_id" binding:"omitempty,uuid"`
	CostCenterID          string `json:"cost_center_id" binding:"omitempty,uuid"`
	Name                  string `json:"name" binding:"required,max=100"`
	Email                 string `json:"email" binding:"required,max=100"`
	Phone                 string `json:"phone" binding:"max=20"`
	Role                  string `json:"role" binding:"max=100"`
	Department            string `json:"department" binding:"max=50"`
	ReceivesNotifications *bool  `json:"receives_notifications"`
	IsPrimaryContact      bool   `json:"is_primary_contact"`
}

type UpdateResponsiblePersonRequest struct {
	Name                  string `json:"name" binding:"required,max=100"`
	Email                 string `json:"email" binding:"required,max=100"`
	Phone                 string `json:"phone" binding:"max=20"`
	Role                  string `json:"role" binding:"max=100"`
	Department            string `json:"department" binding:"max=50"`
	IsActive              *bool  `json:"is_active"`
	ReceivesNotifications *bool  `json:"receives_notifications"`
	IsPrimaryContact      *bool  `json:"is_primary_contact"`
}

type ResponsiblePersonResponse struct {
	ID                    string  `json:"id"`
	ClientID              *string `json:"client_id"`
	CostCenterID          *string `json:"cost_center_id"`
	Name                  string  `json:"name"`
	Email                 string  `json:"email"`
	Phone                 *string `json:"phone"`
	Role                  *string `json:"role"`
	Department            *string `json:"department"`
	IsActive              bool    `json:"is_active"`
	ReceivesNotifications bool    `json:"receives_notifications"`
	IsPrimaryContact      bool    `json:"is_primary_contact"`
	CreatedAt             string  `json:"created_at"`
	UpdatedAt             string  `json:"updated_at"`
}

// --- Interface ---

type ResponsiblePersonService interface {
	CreatePerson(ctx context.Context, req CreateResponsiblePersonRequest) (ResponsiblePersonResponse, error)
	GetPerson(ctx context.Context, id string) (ResponsiblePersonResponse, error)
	ListByClient(ctx context.Context, clientID string, activeOnly bool) ([]ResponsiblePersonResponse, error)
	ListByCostCenter(ctx context.Context, costCenterID string) ([]ResponsiblePersonResponse, error)
	UpdatePerson(ctx context.Context, id string, req UpdateResponsiblePersonRequest) (ResponsiblePersonResponse, error)
	DeletePerson(ctx context.Context, id string) error
}

type responsiblePersonService struct {
	newUOW func() *repository.UnitOfWork
}

func NewResponsiblePersonService(newUOW func() *repository.UnitOfWork) ResponsiblePersonService {
	return &responsiblePersonService{newUOW: newUOW}
}

// --- Implementation ---

func (s *responsiblePersonService) CreatePerson(ctx context.Context, req CreateResponsiblePersonRequest) (ResponsiblePersonResponse, error) {
	uow := s.newUOW()

	scope, err := s.resolveScope(ctx, uow, req.ClientID, req.CostCenterID)
	if err != nil {
		return ResponsiblePersonResponse{}, err
	}

	person := &model.ResponsiblePerson{
		ClientID:              scope.ClientID,
		CostCenterID:          scope.CostCenterID,
		Name:                  req.Name,
		Email:                 req.Email,
		Phone:                 optional(req.Phone),
		Role:                  optional(req.Role),
		Department:            optional(req.Department),
		IsActive:              true,
		ReceivesNotifications: true,
		IsPrimaryContact:      req.IsPrimaryContact,
	}
	if req.ReceivesNotifications != nil {
		person.ReceivesNotifications = *req.ReceivesNotifications
	}

	validator := NewResponsiblePersonValidator(uow.ResponsiblePersons())
	result, err := validator.ValidateForCreate(ctx, person)
	if err != nil {
		return ResponsiblePersonResponse{}, fmt.Errorf("failed to validate responsible person: %w", err)
	}
	if !result.Valid() {
		return ResponsiblePersonResponse{}, validationError(result)
	}

	uow.ResponsiblePersons().Add(person)
	if _, err := uow.SaveChanges(ctx); err != nil {
		return ResponsiblePersonResponse{}, mapPersonConstraint(err, req.Email)
	}

	return toPersonResponse(*person), nil
}

func (s *responsiblePersonService) GetPerson(ctx context.Context, id string) (ResponsiblePersonResponse, error) {
	personID, err := uuid.Parse(id)
	if err != nil {
		return ResponsiblePersonResponse{}, fmt.Errorf("invalid responsible person id: %w", err)
	}

	person, err := s.newUOW().ResponsiblePersons().GetByID(ctx, personID)
	if err != nil {
		return ResponsiblePersonResponse{}, fmt.Errorf("failed to fetch responsible person: %w", err)
	}
	if person == nil {
		return ResponsiblePersonResponse{}, ErrNotFound
	}
	return toPersonResponse(*person), nil
}

func (s *responsiblePersonService) ListByClient(ctx context.Context, clientID string, activeOnly bool) ([]ResponsiblePersonResponse, error) {
	parsed, err := uuid.Parse(clientID)
	if err != nil {
		return nil, fmt.Errorf("invalid client id: %w", err)
	}

	persons := s.newUOW().ResponsiblePersons()
	var list []model.ResponsiblePerson
	if activeOnly {
		list, err = persons.GetActiveByClient(ctx, parsed)
	} else {
		list, err = persons.GetByClient(ctx, parsed)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch responsible persons: %w", err)
	}
	return toPersonResponses(list), nil
}

func (s *responsiblePersonService) ListByCostCenter(ctx context.Context, costCenterID string) ([]ResponsiblePersonResponse, error) {
	parsed, err := uuid.Parse(costCenterID)
	if err != nil {
		return nil, fmt.Errorf("invalid cost center id: %w", err)
	}

	list, err := s.newUOW().ResponsiblePersons().GetByCostCenter(ctx, parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch responsible persons: %w", err)
	}
	return toPersonResponses(list), nil
}

// UpdatePerson keeps the owning scope fixed; a person cannot move between
// clients or cost centers.
func (s *responsiblePersonService) UpdatePerson(ctx context.Context, id string, req UpdateResponsiblePersonRequest) (ResponsiblePersonResponse, error) {
	personID, err := uuid.Parse(id)
	if err != nil {
		return ResponsiblePersonResponse{}, fmt.Errorf("invalid responsible person id: %w", err)
	}

	uow := s.newUOW()
	person, err := uow.ResponsiblePersons().GetByID(ctx, personID)
	if err != nil {
		return ResponsiblePersonResponse{}, fmt.Errorf("failed to fetch responsible person: %w", err)
	}
	if person == nil {
		return ResponsiblePersonResponse{}, ErrNotFound
	}

	person.Name = req.Name
	person.Email = req.Email
	person.Phone = optional(req.Phone)
	person.Role = optional(req.Role)
	person.Department = optional(req.Department)
	if req.IsActive != nil {
		person.IsActive = *req.IsActive
	}
	if req.ReceivesNotifications != nil {
		person.ReceivesNotifications = *req.ReceivesNotifications
	}
	if req.IsPrimaryContact != nil {
		person.IsPrimaryContact = *req.IsPrimaryContact
	}

	validator := NewResponsiblePersonValidator(uow.ResponsiblePersons())
	result, err := validator.ValidateForUpdate(ctx, person)
	if err != nil {
		return ResponsiblePersonResponse{}, fmt.Errorf("failed to validate responsible person: %w", err)
	}
	if !result.Valid() {
		return ResponsiblePersonResponse{}, validationError(result)
	}

	uow.ResponsiblePersons().Update(person)
	if _, err := uow.SaveChanges(ctx); err != nil {
		return ResponsiblePersonResponse{}, mapPersonConstraint(err, req.Email)
	}

	return toPersonResponse(*person), nil
}

func (s *responsiblePersonService) DeletePerson(ctx context.Context, id string) error {
	personID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid responsible person id: %w", err)
	}

	uow := s.newUOW()
	person, err := uow.ResponsiblePersons().GetByID(ctx, personID)
	if err != nil {
		return fmt.Errorf("failed to fetch responsible person: %w", err)
	}
	if person == nil {
		return ErrNotFound
	}

	uow.ResponsiblePersons().Remove(person)
	if _, err := uow.SaveChanges(ctx); err != nil {
		return err
	}
	return nil
}

// --- Helpers ---

func (s *responsiblePersonService) resolveScope(ctx context.Context, uow *repository.UnitOfWork, clientID, costCenterID string) (model.ContactScope, error) {
	if (clientID == "") == (costCenterID == "") {
		return model.ContactScope{}, &ValidationError{Messages: []string{"Exactly one owning client or cost center must be specified."}}
	}

	if clientID != "" {
		parsed, err := uuid.Parse(clientID)
		if err != nil {
			return model.ContactScope{}, fmt.Errorf("invalid client id: %w", err)
		}
		client, err := uow.Clients().GetByID(ctx, parsed)
		if err != nil {
			return model.ContactScope{}, fmt.Errorf("failed to fetch client: %w", err)
		}
		if client == nil {
			return model.ContactScope{}, &ValidationError{Messages: []string{"A valid client must be specified."}}
		}
		return model.ClientScope(parsed), nil
	}

	parsed, err := uuid.Parse(costCenterID)
	if err != nil {
		return model.ContactScope{}, fmt.Errorf("invalid cost center id: %w", err)
	}
	costCenter, err := uow.CostCenters().GetByID(ctx, parsed)
	if err != nil {
		return model.ContactScope{}, fmt.Errorf("failed to fetch cost center: %w", err)
	}
	if costCenter == nil {
		return model.ContactScope{}, &ValidationError{Messages: []string{"A valid cost center must be specified."}}
	}
	return model.CostCenterScope(parsed), nil
}

// mapPersonConstraint translates a lost race on the partial unique indexes
// into the same message the validator pre-check produces.
func mapPersonConstraint(err error, email string) error {
	var constraintErr *repository.ConstraintViolationError
	if !errors.As(err, &constraintErr) {
		return err
	}
	switch {
	case strings.Contains(constraintErr.Constraint, "primary"):
		return &ValidationError{Messages: []string{msgPrimaryContactTaken}}
	case strings.Contains(constraintErr.Constraint, "email"):
		return &ValidationError{Messages: []string{fmt.Sprintf(msgEmailTakenFmt, email)}}
	}
	return err
}

func toPersonResponse(person model.ResponsiblePerson) ResponsiblePersonResponse {
	resp := ResponsiblePersonResponse{
		ID:                    person.ID.String(),
		Name:                  person.Name,
		Email:                 person.Email,
		Phone:                 person.Phone,
		Role:                  person.Role,
		Department:            person.Department,
		IsActive:              person.IsActive,
		ReceivesNotifications: person.ReceivesNotifications,
		IsPrimaryContact:      person.IsPrimaryContact,
		CreatedAt:             person.CreatedAt.Format(time.RFC3339),
		UpdatedAt:             person.UpdatedAt.Format(time.RFC3339),
	}
	if person.ClientID != nil {
		id := person.ClientID.String()
		resp.ClientID = &id
	}
	if person.CostCenterID != nil {
		id := person.CostCenterID.String()
		resp.CostCenterID = &id
	}
	return resp
}

func toPersonResponses(persons []model.ResponsiblePerson) []ResponsiblePersonResponse {
	result := make([]ResponsiblePersonResponse, 0, len(persons))
	for _, person := range persons {
		result = append(result, toPersonResponse(person))
	}
	return result
}
