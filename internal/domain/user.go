package domain

import "time" // Timestamps

// Roles a user can hold
const (
	RoleUser  = "user"  // Regular account
	RoleAdmin = "admin" // Inventory administrator
)

// DefaultMonthlyBudget is the budget limit used when nothing else is known
const DefaultMonthlyBudget = 1000.0

// User Model
type User struct {
	ID            uint      `gorm:"primaryKey" json:"id"`                                           // Primary key
	Name          string    `gorm:"size:100;not null" json:"name"`                                  // Display name
	Email         string    `gorm:"size:191;uniqueIndex;not null" json:"email"`                     // Unique email
	Password      string    `gorm:"not null" json:"-"`                                              // Hashed password
	Role          string    `gorm:"size:16;not null;default:user" json:"role"`                      // Role: user or admin
	MonthlyBudget float64   `gorm:"type:decimal(10,2);not null;default:1000" json:"monthly_budget"` // Monthly spending limit
	CreatedAt     time.Time `json:"created_at"`                                                     // Registration time
}

// IsAdmin reports whether the user holds the admin role
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
