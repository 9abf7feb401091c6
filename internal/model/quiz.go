package model

import (
	"time"
)

type Quiz struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	Title       string     `json:"title" gorm:"size:100;not null"`
	Description string     `json:"description,omitempty" gorm:"type:text"`
	CreatorID   uint       `json:"creator_id" gorm:"not null;index"`
	Creator     User       `json:"-" gorm:"foreignKey:CreatorID"`
	Questions   []Question `json:"questions,omitempty" gorm:"foreignKey:QuizID"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
