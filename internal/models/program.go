package models

import (
	"time"

	"gorm.io/gorm"
)

type Program struct {
	ID          string  `json:"id" gorm:"primaryKey;size:36"`
	Name        string  `json:"name" gorm:"not null;size:200"`
	Description *string `json:"description" gorm:"type:text"`

	// Minimum test score (percent) for a passing result.
	PassPercentage float64 `json:"pass_percentage" gorm:"not null;default:70"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Program) TableName() string {
	return "programs"
}
