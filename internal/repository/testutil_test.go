package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"backend/internal/database"
	"backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB opens an isolated in-memory store carrying the full schema,
// including the partial unique indexes and check constraints the invariants
// lean on.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	return db
}

func newTestClient(taxID string) *model.Client {
	return &model.Client{
		CompanyName: "Acme Ltda " + taxID,
		TaxID:       taxID,
		IsActive:    true,
	}
}

func mustCreateClient(t *testing.T, db *gorm.DB, taxID string) *model.Client {
	t.Helper()
	uow := NewUnitOfWork(db)
	client := newTestClient(taxID)
	uow.Clients().Add(client)
	_, err := uow.SaveChanges(context.Background())
	require.NoError(t, err)
	return client
}

func mustCreateCostCenter(t *testing.T, db *gorm.DB, client *model.Client, code string, parent *model.CostCenter) *model.CostCenter {
	t.Helper()
	uow := NewUnitOfWork(db)
	costCenter := &model.CostCenter{
		ClientID: client.ID,
		Code:     code,
		Name:     "CC " + code,
		IsActive: true,
	}
	if parent != nil {
		costCenter.ParentCostCenterID = &parent.ID
	}
	uow.CostCenters().Add(costCenter)
	_, err := uow.SaveChanges(context.Background())
	require.NoError(t, err)
	return costCenter
}

func mustSeedStatuses(t *testing.T, db *gorm.DB) map[string]*model.InvoiceStatus {
	t.Helper()
	require.NoError(t, database.SeedInvoiceStatuses(db))

	var statuses []model.InvoiceStatus
	require.NoError(t, db.Find(&statuses).Error)

	byName := make(map[string]*model.InvoiceStatus, len(statuses))
	for i := range statuses {
		byName[statuses[i].Name] = &statuses[i]
	}
	return byName
}

func mustCreateInvoice(t *testing.T, db *gorm.DB, client *model.Client, costCenter *model.CostCenter, statusID uuid.UUID, number string, due time.Time) *model.Invoice {
	t.Helper()
	issue := due.AddDate(0, 0, -30)
	uow := NewUnitOfWork(db)
	invoice := &model.Invoice{
		ClientID:           client.ID,
		CostCenterID:       costCenter.ID,
		InvoiceStatusID:    statusID,
		InvoiceNumber:      number,
		Amount:             decimal.NewFromInt(100),
		TotalAmount:        decimal.NewFromInt(110),
		IssueDate:          issue,
		DueDate:            due,
		ServicePeriodStart: issue.AddDate(0, -1, 0),
		ServicePeriodEnd:   issue,
		IsActive:           true,
	}
	uow.Invoices().Add(invoice)
	_, err := uow.SaveChanges(context.Background())
	require.NoError(t, err)
	return invoice
}
