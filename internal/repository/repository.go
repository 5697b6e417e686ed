package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository provides the shared read and staging operations for one
// aggregate root. Reads go through the owning unit of work's connection, so a
// transaction in progress sees its own snapshot. Writes never touch the store
// directly; they are staged into the unit of work's change set and become
// durable only when it commits.
type Repository[T any] struct {
	uow *UnitOfWork
}

func newRepository[T any](uow *UnitOfWork) *Repository[T] {
	return &Repository[T]{uow: uow}
}

// GetByID is a point lookup. A miss returns (nil, nil): absence is a valid
// empty result, not an error.
func (r *Repository[T]) GetByID(ctx context.Context, id uuid.UUID) (*T, error) {
	var entity T
	err := r.uow.conn(ctx).First(&entity, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *Repository[T]) GetAll(ctx context.Context) ([]T, error) {
	var entities []T
	if err := r.uow.conn(ctx).Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

// Find runs an ad hoc filtered read with optional eager-load paths, for the
// simple cases that don't warrant a named specification.
func (r *Repository[T]) Find(ctx context.Context, criteria Criterion, includePaths ...string) ([]T, error) {
	query := applyCriterion(r.uow.conn(ctx), criteria)
	for _, path := range includePaths {
		query = query.Preload(path)
	}
	var entities []T
	if err := query.Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

func (r *Repository[T]) FirstOrDefault(ctx context.Context, criteria Criterion, includePaths ...string) (*T, error) {
	query := applyCriterion(r.uow.conn(ctx), criteria)
	for _, path := range includePaths {
		query = query.Preload(path)
	}
	var entity T
	err := query.First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *Repository[T]) Exists(ctx context.Context, criteria Criterion) (bool, error) {
	count, err := r.CountWhere(ctx, criteria)
	return count > 0, err
}

func (r *Repository[T]) Count(ctx context.Context) (int64, error) {
	return r.CountWhere(ctx, nil)
}

func (r *Repository[T]) CountWhere(ctx context.Context, criteria Criterion) (int64, error) {
	var count int64
	query := applyCriterion(r.uow.conn(ctx).Model(new(T)), criteria)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListBySpec runs a specification-driven read.
func (r *Repository[T]) ListBySpec(ctx context.Context, spec *Specification) ([]T, error) {
	var entities []T
	query := ApplySpecification(r.uow.conn(ctx), spec, false)
	if err := query.Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

// GetBySpec returns the first entity matching the specification, or nil.
func (r *Repository[T]) GetBySpec(ctx context.Context, spec *Specification) (*T, error) {
	var entity T
	err := ApplySpecification(r.uow.conn(ctx), spec, false).First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

// CountBySpec counts matches of the specification's filter alone.
func (r *Repository[T]) CountBySpec(ctx context.Context, spec *Specification) (int64, error) {
	var count int64
	query := ApplySpecification(r.uow.conn(ctx).Model(new(T)), spec, true)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Add stages an insert. No durability until the unit of work commits.
func (r *Repository[T]) Add(entity *T) {
	r.uow.stage(changeAdd, entity)
}

func (r *Repository[T]) AddRange(entities []*T) {
	for _, entity := range entities {
		r.uow.stage(changeAdd, entity)
	}
}

// Update stages a full update of the entity by primary key.
func (r *Repository[T]) Update(entity *T) {
	r.uow.stage(changeUpdate, entity)
}

// Remove stages a delete of the entity by primary key.
func (r *Repository[T]) Remove(entity *T) {
	r.uow.stage(changeRemove, entity)
}

func (r *Repository[T]) RemoveRange(entities []*T) {
	for _, entity := range entities {
		r.uow.stage(changeRemove, entity)
	}
}
