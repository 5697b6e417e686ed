package service

import (
	"context"
	"fmt"
	"regexp"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Violation messages shared between the pre-check and the constraint-error
// mapping, so a race lost at the store surfaces the same text the validator
// would have produced.
const (
	msgPrimaryContactTaken = "This scope already has a primary contact. Only one primary contact is allowed per client or cost center."
	msgEmailTakenFmt       = "A responsible person with email '%s' already exists in this scope."
)

// ResponsiblePersonValidator enforces the invariants that span multiple
// responsible-person rows and therefore cannot live in a single-row check.
// It reads through the same unit of work that will perform the write, so the
// check and the write share one consistent view. It remains a check-then-act
// pre-check: the partial unique indexes are the final backstop under
// concurrent writers.
type ResponsiblePersonValidator interface {
	ValidateForCreate(ctx context.Context, person *model.ResponsiblePerson) (ValidationResult, error)
	ValidateForUpdate(ctx context.Context, person *model.ResponsiblePerson) (ValidationResult, error)
	ValidatePrimaryContact(ctx context.Context, scope model.ContactScope, excludeID *uuid.UUID) (ValidationResult, error)
	ValidateEmailUniqueness(ctx context.Context, email string, scope model.ContactScope, excludeID *uuid.UUID) (ValidationResult, error)
}

type responsiblePersonValidator struct {
	persons *repository.ResponsiblePersonRepository
}

func NewResponsiblePersonValidator(persons *repository.ResponsiblePersonRepository) ResponsiblePersonValidator {
	return &responsiblePersonValidator{persons: persons}
}

func (v *responsiblePersonValidator) ValidateForCreate(ctx context.Context, person *model.ResponsiblePerson) (ValidationResult, error) {
	return v.validate(ctx, person, nil)
}

func (v *responsiblePersonValidator) ValidateForUpdate(ctx context.Context, person *model.ResponsiblePerson) (ValidationResult, error) {
	return v.validate(ctx, person, &person.ID)
}

func (v *responsiblePersonValidator) validate(ctx context.Context, person *model.ResponsiblePerson, excludeID *uuid.UUID) (ValidationResult, error) {
	var result ValidationResult

	if person.Name == "" {
		result.add("Name is required.")
	} else if len(person.Name) > 100 {
		result.add("Name cannot exceed 100 characters.")
	}

	if person.Email == "" {
		result.add("Email is required.")
	} else if !emailPattern.MatchString(person.Email) {
		result.add("Email format is invalid.")
	} else if len(person.Email) > 100 {
		result.add("Email cannot exceed 100 characters.")
	}

	if person.Phone != nil && len(*person.Phone) > 20 {
		result.add("Phone cannot exceed 20 characters.")
	}
	if person.Role != nil && len(*person.Role) > 100 {
		result.add("Role cannot exceed 100 characters.")
	}
	if person.Department != nil && len(*person.Department) > 50 {
		result.add("Department cannot exceed 50 characters.")
	}

	scope := person.Scope()
	if !scope.Valid() {
		result.add("Exactly one owning client or cost center must be specified.")
		return result, nil
	}

	if person.Email != "" && emailPattern.MatchString(person.Email) {
		emailResult, err := v.ValidateEmailUniqueness(ctx, person.Email, scope, excludeID)
		if err != nil {
			return ValidationResult{}, err
		}
		result.merge(emailResult)
	}

	if person.IsPrimaryContact {
		primaryResult, err := v.ValidatePrimaryContact(ctx, scope, excludeID)
		if err != nil {
			return ValidationResult{}, err
		}
		result.merge(primaryResult)
	}

	return result, nil
}

func (v *responsiblePersonValidator) ValidatePrimaryContact(ctx context.Context, scope model.ContactScope, excludeID *uuid.UUID) (ValidationResult, error) {
	var result ValidationResult
	hasPrimary, err := v.persons.HasPrimaryContact(ctx, scope, excludeID)
	if err != nil {
		return ValidationResult{}, err
	}
	if hasPrimary {
		result.add(msgPrimaryContactTaken)
	}
	return result, nil
}

func (v *responsiblePersonValidator) ValidateEmailUniqueness(ctx context.Context, email string, scope model.ContactScope, excludeID *uuid.UUID) (ValidationResult, error) {
	var result ValidationResult
	if email == "" {
		result.add("Email is required.")
		return result, nil
	}
	if !emailPattern.MatchString(email) {
		result.add("Email format is invalid.")
		return result, nil
	}
	exists, err := v.persons.EmailExists(ctx, email, scope, excludeID)
	if err != nil {
		return ValidationResult{}, err
	}
	if exists {
		result.add(fmt.Sprintf(msgEmailTakenFmt, email))
	}
	return result, nil
}
