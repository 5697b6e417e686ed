package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ResponsiblePerson is a contact attached to either a client or a cost
// center: exactly one of ClientID/CostCenterID is set and defines the owning
// scope. Within a scope the email is unique and at most one person may be the
// primary contact; both rules are backed by partial unique indexes created in
// the database package.
type ResponsiblePerson struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ClientID     *uuid.UUID `gorm:"type:uuid;index" json:"client_id"`
	CostCenterID *uuid.UUID `gorm:"type:uuid;index" json:"cost_center_id"`
	Name         string     `gorm:"type:varchar(100);not null" json:"name"`
	Email        string     `gorm:"type:varchar(100);not null" json:"email"`
	Phone        *string    `gorm:"type:varchar(20)" json:"phone"`
	Role         *string    `gorm:"type:varchar(100)" json:"role"`
	Department   *string    `gorm:"type:varchar(50)" json:"department"`
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
	ReceivesNotifications bool `gorm:"not null;default:true" json:"receives_notifications"`
	IsPrimaryContact      bool `gorm:"not null;default:false" json:"is_primary_contact"`
	Audit

	Client     *Client     `json:"client,omitempty"`
	CostCenter *CostCenter `json:"cost_center,omitempty"`
}

func (p *ResponsiblePerson) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ContactScope identifies the owning scope of a responsible person: a client
// or a cost center, exactly one of them.
type ContactScope struct {
	ClientID     *uuid.UUID
	CostCenterID *uuid.UUID
}

// Scope returns the person's owning scope.
func (p *ResponsiblePerson) Scope() ContactScope {
	return ContactScope{ClientID: p.ClientID, CostCenterID: p.CostCenterID}
}

// Valid reports whether exactly one owner is set.
func (s ContactScope) Valid() bool {
	return (s.ClientID != nil) != (s.CostCenterID != nil)
}

func ClientScope(clientID uuid.UUID) ContactScope {
	return ContactScope{ClientID: &clientID}
}

func CostCenterScope(costCenterID uuid.UUID) ContactScope {
	return ContactScope{CostCenterID: &costCenterID}
}
