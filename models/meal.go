package models

import (
	"time"

	"github.com/lib/pq"
)

// Meal is a recipe entry. Category and ImageURL are never empty once stored.
type Meal struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Description *string        `gorm:"type:text" json:"description"`
	Category    pq.StringArray `gorm:"type:text[];not null" json:"category"`
	ImageURL    pq.StringArray `gorm:"column:image_url;type:text[];not null" json:"image_url"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (Meal) TableName() string {
	return "meals"
}
