package models

import (
	"strings"

	"gorm.io/gorm"
)

const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
)

type User struct {
	gorm.Model
	Email     string `json:"email" gorm:"unique;not null"`
	Password  string `json:"-" gorm:"not null"`
	FirstName string `json:"first_name" gorm:"default:''"`
	LastName  string `json:"last_name" gorm:"default:''"`
	Bio       string `json:"bio" gorm:"type:text"`
	Role      string `json:"role" gorm:"default:'student'"` // student, instructor
	IsActive  bool   `json:"is_active" gorm:"default:true"`
}

// FullName returns first and last name joined with a space
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IsStudent reports whether the user has the student role
func (u *User) IsStudent() bool {
	return u.Role == RoleStudent
}

// IsInstructor reports whether the user has the instructor role
func (u *User) IsInstructor() bool {
	return u.Role == RoleInstructor
}
