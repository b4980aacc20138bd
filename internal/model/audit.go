package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	ActionLogin                 = "LOGIN"
	ActionCreateRole            = "CREATE_ROLE"
	ActionUpdateRole            = "UPDATE_ROLE"
	ActionUpdateRolePermissions = "UPDATE_ROLE_PERMISSIONS"
	ActionDeleteRole            = "DELETE_ROLE"
	ActionCreateUser            = "CREATE_USER"
	ActionUpdateUser            = "UPDATE_USER"
	ActionDeleteUser            = "DELETE_USER"
	ActionSeed                  = "SEED"
)

// AuditLog tracks Who, What, and When for role and user administration
type AuditLog struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	UserID     *uint          `gorm:"index" json:"userId"` // nil for system actions such as the bootstrap seed
	User       *User          `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL;" json:"user,omitempty"`
	Action     string         `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string         `gorm:"type:varchar(50);index" json:"entityId"`
	EntityName string         `gorm:"type:varchar(255)" json:"entityName,omitempty"`
	Details    datatypes.JSON `json:"details"`
	CreatedAt  time.Time      `gorm:"index" json:"createdAt"`
}
