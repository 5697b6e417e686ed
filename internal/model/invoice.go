package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Invoice is a billing document tied to a client and one of its cost centers.
// InvoiceNumber is unique per client. Amount and TotalAmount must be positive
// and the date pairs ordered; the checks below are the store-level backstop
// for the service validation.
type Invoice struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ClientID        uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:ux_invoices_client_number;index" json:"client_id"`
	CostCenterID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"cost_center_id"`
	InvoiceStatusID uuid.UUID  `gorm:"type:uuid;not null;index" json:"invoice_status_id"`
	InvoiceNumber   string     `gorm:"type:varchar(100);not null;uniqueIndex:ux_invoices_client_number" json:"invoice_number"`

	Amount      decimal.Decimal  `gorm:"type:decimal(18,2);not null;check:chk_invoices_amount,amount > 0" json:"amount"`
	TaxAmount   *decimal.Decimal `gorm:"type:decimal(18,2)" json:"tax_amount"`
	TotalAmount decimal.Decimal  `gorm:"type:decimal(18,2);not null;check:chk_invoices_total_amount,total_amount > 0" json:"total_amount"`

	IssueDate          time.Time `gorm:"not null;check:chk_invoices_due_date,due_date >= issue_date" json:"issue_date"`
	DueDate            time.Time `gorm:"not null" json:"due_date"`
	ServicePeriodStart time.Time `gorm:"not null;check:chk_invoices_service_period,service_period_end >= service_period_start" json:"service_period_start"`
	ServicePeriodEnd   time.Time `gorm:"not null" json:"service_period_end"`

	ServiceType   *string    `gorm:"type:varchar(50)" json:"service_type"`
	Description   *string    `gorm:"type:varchar(1000)" json:"description"`
	DocumentPath  *string    `gorm:"type:varchar(500)" json:"document_path"`
	ReceivedDate  *time.Time `json:"received_date"`
	ProcessedDate *time.Time `json:"processed_date"`
	PaidDate      *time.Time `json:"paid_date"`
	Notes         *string    `gorm:"type:varchar(1000)" json:"notes"`
	IsActive      bool       `gorm:"not null;default:true" json:"is_active"`
	Audit

	Client           *Client          `json:"client,omitempty"`
	CostCenter       *CostCenter      `json:"cost_center,omitempty"`
	InvoiceStatus    *InvoiceStatus   `json:"invoice_status,omitempty"`
	InvoiceHistories []InvoiceHistory `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"invoice_histories,omitempty"`
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
