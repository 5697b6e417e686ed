package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client is a billed company. TaxId (CNPJ/CPF) is globally unique across
// active and inactive clients. Deleting a client is restricted while cost
// centers or invoices still reference it; its responsible persons go with it.
type Client struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyName   string    `gorm:"type:varchar(200);not null" json:"company_name"`
	TradeName     *string   `gorm:"type:varchar(200)" json:"trade_name"`
	TaxID         string    `gorm:"type:varchar(14);uniqueIndex:ux_clients_tax_id;not null" json:"tax_id"`
	Email         *string   `gorm:"type:varchar(100)" json:"email"`
	Phone         *string   `gorm:"type:varchar(20)" json:"phone"`
	Address       *string   `gorm:"type:varchar(500)" json:"address"`
	ContactPerson *string   `gorm:"type:varchar(100)" json:"contact_person"`
	IsActive      bool      `gorm:"not null;default:true" json:"is_active"`
	Audit

	CostCenters        []CostCenter        `gorm:"foreignKey:ClientID;constraint:OnDelete:RESTRICT" json:"cost_centers,omitempty"`
	Invoices           []Invoice           `gorm:"foreignKey:ClientID;constraint:OnDelete:RESTRICT" json:"invoices,omitempty"`
	ResponsiblePersons []ResponsiblePerson `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"responsible_persons,omitempty"`
}

func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
