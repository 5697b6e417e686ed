package repository

import (
	"context"
	"time"

	"backend/internal/model"

	"gorm.io/gorm"
)

type changeKind int

const (
	changeAdd changeKind = iota
	changeUpdate
	changeRemove
)

type stagedChange struct {
	kind   changeKind
	entity any
}

// UnitOfWork owns one database handle and, while a transaction is active, the
// transaction built on it. It is the only authority that makes staged changes
// durable. Repositories are memoized per instance and borrow the handle;
// neither the unit of work nor its repositories are safe for concurrent use,
// and neither may outlive the instance or be shared with another one.
//
// Transaction lifecycle: Idle -> Active (BeginTransaction) -> Idle
// (Commit/Rollback). Commit and Rollback outside Active fail fast.
type UnitOfWork struct {
	db     *gorm.DB
	tx     *gorm.DB
	staged []stagedChange

	// Memoized repository accessors, explicit fields rather than hidden
	// lazy-init state so the cache is inspectable.
	clients          *ClientRepository
	costCenters      *CostCenterRepository
	persons          *ResponsiblePersonRepository
	invoices         *InvoiceRepository
	invoiceStatuses  *InvoiceStatusRepository
	invoiceHistories *InvoiceHistoryRepository

	now func() time.Time
}

func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{db: db, now: time.Now}
}

// NewFactory returns a constructor producing one unit of work per call.
// Services create one per logical operation; instances are request-scoped.
func NewFactory(db *gorm.DB) func() *UnitOfWork {
	return func() *UnitOfWork { return NewUnitOfWork(db) }
}

// conn returns the active transaction when one is open, otherwise the root
// handle. Every store call flows through here so cancellation propagates.
func (u *UnitOfWork) conn(ctx context.Context) *gorm.DB {
	if u.tx != nil {
		return u.tx.WithContext(ctx)
	}
	return u.db.WithContext(ctx)
}

func (u *UnitOfWork) stage(kind changeKind, entity any) {
	u.staged = append(u.staged, stagedChange{kind: kind, entity: entity})
}

// InTransaction reports whether the lifecycle is in the Active state.
func (u *UnitOfWork) InTransaction() bool { return u.tx != nil }

func (u *UnitOfWork) Clients() *ClientRepository {
	if u.clients == nil {
		u.clients = newClientRepository(u)
	}
	return u.clients
}

func (u *UnitOfWork) CostCenters() *CostCenterRepository {
	if u.costCenters == nil {
		u.costCenters = newCostCenterRepository(u)
	}
	return u.costCenters
}

func (u *UnitOfWork) ResponsiblePersons() *ResponsiblePersonRepository {
	if u.persons == nil {
		u.persons = newResponsiblePersonRepository(u)
	}
	return u.persons
}

func (u *UnitOfWork) Invoices() *InvoiceRepository {
	if u.invoices == nil {
		u.invoices = newInvoiceRepository(u)
	}
	return u.invoices
}

func (u *UnitOfWork) InvoiceStatuses() *InvoiceStatusRepository {
	if u.invoiceStatuses == nil {
		u.invoiceStatuses = newInvoiceStatusRepository(u)
	}
	return u.invoiceStatuses
}

func (u *UnitOfWork) InvoiceHistories() *InvoiceHistoryRepository {
	if u.invoiceHistories == nil {
		u.invoiceHistories = newInvoiceHistoryRepository(u)
	}
	return u.invoiceHistories
}

// BeginTransaction opens the unit of work's transaction.
func (u *UnitOfWork) BeginTransaction(ctx context.Context) error {
	if u.tx != nil {
		return ErrTransactionActive
	}
	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return classify(tx.Error)
	}
	u.tx = tx
	return nil
}

// Commit stamps audit fields, flushes the staged change set and commits. On
// any failure it rolls back and surfaces a classified error; the transaction
// handle is released before Commit returns either way. Committing with
// nothing staged is a successful no-op returning zero affected rows.
func (u *UnitOfWork) Commit(ctx context.Context) (int64, error) {
	if u.tx == nil {
		return 0, ErrNoTransaction
	}
	tx := u.tx

	affected, err := u.flush(ctx, tx)
	if err != nil {
		tx.Rollback()
		u.tx = nil
		return 0, classify(err)
	}
	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		u.tx = nil
		return 0, classify(err)
	}
	u.tx = nil
	return affected, nil
}

// Rollback discards all staged changes and releases the transaction handle.
func (u *UnitOfWork) Rollback() error {
	if u.tx == nil {
		return ErrNoTransaction
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	u.staged = nil
	if err != nil {
		return classify(err)
	}
	return nil
}

// SaveChanges applies audit stamping and durability in one atomic step,
// for the common one-unit-of-work-per-request path. When a transaction is
// already active the flush lands inside it without committing, mirroring
// Commit's stamping semantics; the caller still owns the commit.
func (u *UnitOfWork) SaveChanges(ctx context.Context) (int64, error) {
	if u.tx != nil {
		affected, err := u.flush(ctx, u.tx)
		if err != nil {
			return 0, classify(err)
		}
		return affected, nil
	}

	var affected int64
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := u.flush(ctx, tx)
		if err != nil {
			return err
		}
		affected = n
		return nil
	})
	if err != nil {
		return 0, classify(err)
	}
	return affected, nil
}

// flush applies exactly the change set staged at call time. The audit pass
// runs once over that snapshot; entities staged afterwards belong to the next
// flush. Changes are applied in staging order so dependent rows (an invoice
// update followed by its history insert) land correctly.
func (u *UnitOfWork) flush(ctx context.Context, tx *gorm.DB) (int64, error) {
	batch := u.staged
	u.staged = nil
	if len(batch) == 0 {
		return 0, nil
	}

	now := u.now()
	for _, change := range batch {
		audited, ok := change.entity.(model.Audited)
		if !ok {
			continue
		}
		switch change.kind {
		case changeAdd:
			audited.TouchCreated(now)
		case changeUpdate:
			audited.TouchUpdated(now)
		}
	}

	var affected int64
	for _, change := range batch {
		db := tx.WithContext(ctx)
		var result *gorm.DB
		switch change.kind {
		case changeAdd:
			result = db.Create(change.entity)
		case changeUpdate:
			result = db.Save(change.entity)
		case changeRemove:
			result = db.Delete(change.entity)
		}
		if result.Error != nil {
			return 0, result.Error
		}
		affected += result.RowsAffected
	}
	return affected, nil
}
