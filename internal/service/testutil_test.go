package service

import (
	"context"
	"fmt"
	"testing"

	"backend/internal/database"
	"backend/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared&_foreign_keys=on", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	return db
}

func seededFactory(t *testing.T) (*gorm.DB, func() *repository.UnitOfWork) {
	t.Helper()
	db := openTestDB(t)
	require.NoError(t, database.SeedInvoiceStatuses(db))
	return db, repository.NewFactory(db)
}

func mustCreateClientVia(t *testing.T, clients ClientService, taxID string) ClientResponse {
	t.Helper()
	client, err := clients.CreateClient(context.Background(), CreateClientRequest{
		CompanyName: "Empresa " + taxID,
		TaxID:       taxID,
	})
	require.NoError(t, err)
	return client
}

func mustCreateCostCenterVia(t *testing.T, costCenters CostCenterService, clientID, code string) CostCenterResponse {
	t.Helper()
	costCenter, err := costCenters.CreateCostCenter(context.Background(), CreateCostCenterRequest{
		ClientID: clientID,
		Code:     code,
		Name:     "Centro " + code,
	})
	require.NoError(t, err)
	return costCenter
}
