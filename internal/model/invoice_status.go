package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Default status names seeded on startup.
const (
	StatusReceived   = "Received"
	StatusProcessing = "Processing"
	StatusApproved   = "Approved"
	StatusPaid       = "Paid"
	StatusCancelled  = "Cancelled"
)

// InvoiceStatus is a lookup row referenced by invoices and their history.
// Deleting a status is restricted while any reference exists. IsFinal marks
// terminal statuses (no further transitions allowed).
type InvoiceStatus struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(50);not null;uniqueIndex:ux_invoice_statuses_name" json:"name"`
	Description *string   `gorm:"type:varchar(200)" json:"description"`
	Color       *string   `gorm:"type:varchar(20)" json:"color"`
	SortOrder   int       `gorm:"not null;default:0" json:"sort_order"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	IsFinal     bool      `gorm:"not null;default:false" json:"is_final"`
	Audit

	Invoices []Invoice `gorm:"foreignKey:InvoiceStatusID;constraint:OnDelete:RESTRICT" json:"invoices,omitempty"`
}

func (s *InvoiceStatus) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
