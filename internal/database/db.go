package database

import (
	"fmt"
	"time"

	"backend/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a connection pool using GORM and brings the
// schema up to date.
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate auto-migrates the models and creates the partial unique indexes
// gorm tags cannot express. Shared with the test store.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.Client{},
		&model.CostCenter{},
		&model.ResponsiblePerson{},
		&model.InvoiceStatus{},
		&model.Invoice{},
		&model.InvoiceHistory{},
		&model.User{},
	)
	if err != nil {
		return fmt.Errorf("auto-migrate failed: %w", err)
	}

	// Partial unique indexes: the authoritative backstop for the
	// single-primary-contact and email-per-scope invariants. The validation
	// service is only the UX pre-check in front of these.
	indexes := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_responsible_people_primary_client
			ON responsible_people (client_id)
			WHERE is_primary_contact AND client_id IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_responsible_people_primary_cost_center
			ON responsible_people (cost_center_id)
			WHERE is_primary_contact AND cost_center_id IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_responsible_people_client_email
			ON responsible_people (client_id, email)
			WHERE client_id IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_responsible_people_cost_center_email
			ON responsible_people (cost_center_id, email)
			WHERE cost_center_id IS NOT NULL`,
	}
	for _, stmt := range indexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("index creation failed: %w", err)
		}
	}

	return nil
}

// SeedInvoiceStatuses inserts the default status rows when missing.
func SeedInvoiceStatuses(db *gorm.DB) error {
	defaults := []model.InvoiceStatus{
		{Name: model.StatusReceived, SortOrder: 1},
		{Name: model.StatusProcessing, SortOrder: 2},
		{Name: model.StatusApproved, SortOrder: 3},
		{Name: model.StatusPaid, SortOrder: 4, IsFinal: true},
		{Name: model.StatusCancelled, SortOrder: 5, IsFinal: true},
	}

	now := time.Now()
	for _, status := range defaults {
		status.IsActive = true
		status.CreatedAt = now
		status.UpdatedAt = now
		err := db.Where("name = ?", status.Name).FirstOrCreate(&status).Error
		if err != nil {
			return fmt.Errorf("seeding status %q failed: %w", status.Name, err)
		}
	}
	return nil
}
