package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleAdmin          UserRole = "admin"
	RoleAssistantAdmin UserRole = "assistant_admin"
	RoleCoordinator    UserRole = "coordinator"
	RoleTrainer        UserRole = "trainer"
	RolePICSupervisor  UserRole = "pic_supervisor"
	RoleParticipant    UserRole = "participant"
)

// ValidRoles lists every role a user record may carry. "chief trainer" is
// deliberately absent: chief is a per-session assignment tag, not a role.
var ValidRoles = []UserRole{
	RoleAdmin,
	RoleAssistantAdmin,
	RoleCoordinator,
	RoleTrainer,
	RolePICSupervisor,
	RoleParticipant,
}

func (r UserRole) Valid() bool {
	for _, v := range ValidRoles {
		if r == v {
			return true
		}
	}
	return false
}

type User struct {
	ID       string   `json:"id" gorm:"primaryKey;size:36"`
	Email    string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	FullName string   `json:"full_name" gorm:"not null;size:100"`
	IDNumber string   `json:"id_number" gorm:"uniqueIndex;not null;size:50"`
	Role     UserRole `json:"role" gorm:"not null;size:20;index"`

	CompanyID   *string `json:"company_id" gorm:"size:36;index"`
	Location    *string `json:"location" gorm:"size:200"`
	PhoneNumber *string `json:"phone_number" gorm:"size:30"`

	// Never serialized; login verifies against it.
	PasswordHash string `json:"-" gorm:"not null;size:100"`

	IsActive bool `json:"is_active" gorm:"not null;default:true"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}
