package domain

import "time" // Timestamps

// WishlistEntry Model; presence of the pair means the user liked the shoe
type WishlistEntry struct {
	ID        uint      `gorm:"primaryKey" json:"-"`                                              // Primary key
	UserID    uint      `gorm:"not null;uniqueIndex:idx_wishlist_user_shoe" json:"-"`             // Foreign key to User
	ShoeID    uint      `gorm:"not null;uniqueIndex:idx_wishlist_user_shoe;index" json:"shoe_id"` // Foreign key to Shoe
	CreatedAt time.Time `json:"-"`                                                                // Insert time
}

// HypeEntry is one row of the hype ranking
type HypeEntry struct {
	ID         uint   `json:"id"`          // Shoe ID
	ModelName  string `json:"model_name"`  // Shoe model name
	ImageURL   string `json:"image_url"`   // Shoe image
	LikesCount int64  `json:"likes_count"` // Number of wishlist entries
}
