package domain

import "time" // Timestamps

// Reminder Model, unique per user and shoe
type Reminder struct {
	ID        uint      `gorm:"primaryKey" json:"id"`                                       // Primary key
	UserID    uint      `gorm:"not null;uniqueIndex:idx_reminder_user_shoe" json:"-"`       // Foreign key to User
	ShoeID    uint      `gorm:"not null;uniqueIndex:idx_reminder_user_shoe" json:"shoe_id"` // Foreign key to Shoe
	Shoe      Shoe      `gorm:"constraint:OnDelete:CASCADE;" json:"-"`                      // Reminded shoe
	CreatedAt time.Time `json:"-"`                                                          // Insert time
}

// ReminderView is a reminder joined with the current shoe data
type ReminderView struct {
	ReminderID uint `json:"reminder_id"` // Reminder ID
	ShoeView
}
