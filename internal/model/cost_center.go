package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CostCenter belongs to exactly one client and may reference a parent cost
// center of the same client, forming a tree. Code is unique within a client.
// Deleting a cost center cascades to its responsible persons but is
// restricted while child cost centers or invoices exist.
type CostCenter struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ClientID           uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:ux_cost_centers_client_code;index" json:"client_id"`
	Code               string     `gorm:"type:varchar(50);not null;uniqueIndex:ux_cost_centers_client_code" json:"code"`
	Name               string     `gorm:"type:varchar(200);not null" json:"name"`
	Description        *string    `gorm:"type:varchar(500)" json:"description"`
	ParentCostCenterID *uuid.UUID `gorm:"type:uuid;index" json:"parent_cost_center_id"`
	IsActive           bool       `gorm:"not null;default:true" json:"is_active"`
	Audit

	Client             *Client             `json:"client,omitempty"`
	ParentCostCenter   *CostCenter         `gorm:"foreignKey:ParentCostCenterID" json:"parent_cost_center,omitempty"`
	ChildCostCenters   []CostCenter        `gorm:"foreignKey:ParentCostCenterID;constraint:OnDelete:RESTRICT" json:"child_cost_centers,omitempty"`
	ResponsiblePersons []ResponsiblePerson `gorm:"foreignKey:CostCenterID;constraint:OnDelete:CASCADE" json:"responsible_persons,omitempty"`
	Invoices           []Invoice           `gorm:"foreignKey:CostCenterID;constraint:OnDelete:RESTRICT" json:"invoices,omitempty"`
}

func (cc *CostCenter) BeforeCreate(tx *gorm.DB) error {
	if cc.ID == uuid.Nil {
		cc.ID = uuid.New()
	}
	return nil
}
