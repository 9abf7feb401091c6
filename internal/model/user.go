package model

import (
	"time"
)

type User struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	Username       string    `json:"username" gorm:"size:50;not null;uniqueIndex"`
	Email          string    `json:"email" gorm:"size:100;not null;uniqueIndex"`
	HashedPassword string    `json:"-" gorm:"size:100;not null"`
	IsActive       bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
