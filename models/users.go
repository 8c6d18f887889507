package models

import "time"

const (
	RoleCustomer = "CUSTOMER"
	RoleStaff    = "STAFF"
	RoleChef     = "CHEF"
	RoleAdmin    = "ADMIN"
)

type User struct {
	ID        uint      `gorm:"primaryKey"`
	FullName  string    `gorm:"type:varchar(100);not null"`
	Email     string    `gorm:"type:varchar(255);unique;not null"`
	Phone     string    `gorm:"type:varchar(20);unique;not null"`
	Password  string    `gorm:"type:varchar(255);not null" json:"-"`
	Role      string    `gorm:"type:varchar(20);not null;default:'CUSTOMER'"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// IsStaff reports whether the user works in the restaurant rather than ordering from it.
func (u *User) IsStaff() bool {
	return IsStaffRole(u.Role)
}

func IsStaffRole(role string) bool {
	switch role {
	case RoleStaff, RoleChef, RoleAdmin:
		return true
	}
	return false
}
