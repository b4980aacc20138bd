package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	RoleStatusActive   = "Active"
	RoleStatusInactive = "Inactive"
)

// Role groups users under one permissions document
type Role struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Color       string         `gorm:"type:varchar(20)" json:"color"`
	Status      string         `gorm:"type:varchar(20);not null;default:Active" json:"status"`
	Permissions datatypes.JSON `json:"permissions"` // permission.Document, legacy and modern shapes mixed
	UserCount   int64          `gorm:"-" json:"userCount"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
}
