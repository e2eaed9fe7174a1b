package models

import "time"

// APIKey identifies a calling client. Keys are never updated or deleted;
// Active exists for future revocation.
type APIKey struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"key"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Active    bool      `gorm:"default:true;not null" json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

func (APIKey) TableName() string {
	return "api_keys"
}
