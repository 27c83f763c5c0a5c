package models

import (
	"time"
)

// Account is keyed by the identity provider's user id.
type Account struct {
	ID        string    `gorm:"type:varchar(255);primaryKey" json:"id"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Premium   bool      `gorm:"not null;default:false" json:"premium"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (Account) TableName() string {
	return "accounts"
}

// Entitlement is the part of an account the quota gate reads.
type Entitlement struct {
	Premium bool `json:"premium"`
}

func (a *Account) Entitlement() Entitlement {
	return Entitlement{Premium: a.Premium}
}
