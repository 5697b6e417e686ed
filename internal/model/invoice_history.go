package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InvoiceHistory is an immutable, append-only record of a status transition.
// It carries its own ChangedAt instead of the shared audit pair and is never
// updated after insert. Rows are cascade-deleted with their invoice; the
// referenced statuses are restrict-protected.
type InvoiceHistory struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	InvoiceID       uuid.UUID `gorm:"type:uuid;not null;index" json:"invoice_id"`
	FromStatusID    uuid.UUID `gorm:"type:uuid;not null" json:"from_status_id"`
	ToStatusID      uuid.UUID `gorm:"type:uuid;not null" json:"to_status_id"`
	ChangeReason    *string   `gorm:"type:varchar(500)" json:"change_reason"`
	Comments        *string   `gorm:"type:varchar(1000)" json:"comments"`
	ChangedByUserID *string   `gorm:"type:varchar(100)" json:"changed_by_user_id"`
	ChangedAt       time.Time `gorm:"not null" json:"changed_at"`

	Invoice    *Invoice       `json:"invoice,omitempty"`
	FromStatus *InvoiceStatus `gorm:"foreignKey:FromStatusID;constraint:OnDelete:RESTRICT" json:"from_status,omitempty"`
	ToStatus   *InvoiceStatus `gorm:"foreignKey:ToStatusID;constraint:OnDelete:RESTRICT" json:"to_status,omitempty"`
}

func (h *InvoiceHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}
