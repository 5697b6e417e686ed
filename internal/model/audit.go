package model

import "time"

// Audit carries the server-maintained timestamps shared by every aggregate.
// The unit of work is the single stamper; gorm's automatic time tracking is
// disabled so the stamp runs exactly once per flush and callers can backdate
// CreatedAt by supplying a non-zero value.
type Audit struct {
	CreatedAt time.Time `gorm:"autoCreateTime:false" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false" json:"updated_at"`
}

// TouchCreated stamps a newly created entity. CreatedAt is only set when the
// caller left it at the zero value.
func (a *Audit) TouchCreated(now time.Time) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
}

// TouchUpdated stamps a modified entity.
func (a *Audit) TouchUpdated(now time.Time) {
	a.UpdatedAt = now
}

// Audited is implemented by every entity embedding Audit.
type Audited interface {
	TouchCreated(now time.Time)
	TouchUpdated(now time.Time)
}
