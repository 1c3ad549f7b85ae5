package domain

import "time" // Release dates

// ShoeStatus is derived from the release date and never stored
type ShoeStatus string

const (
	StatusUpcoming ShoeStatus = "Upcoming" // Release date still ahead
	StatusReleased ShoeStatus = "Released" // Release date reached or passed
)

// Brand Model
type Brand struct {
	ID   uint   `gorm:"primaryKey" json:"id"`                      // Primary key
	Name string `gorm:"size:100;uniqueIndex;not null" json:"name"` // Brand name
}

// Category Model
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`                      // Primary key
	Name string `gorm:"size:100;uniqueIndex;not null" json:"name"` // Category name
}

// Shoe Model
type Shoe struct {
	ID          uint      `gorm:"primaryKey" json:"id"`                     // Primary key
	ModelName   string    `gorm:"size:191;not null" json:"model_name"`      // Model name
	Slug        string    `gorm:"size:191;index" json:"slug"`               // URL slug derived from the model name
	BrandID     uint      `gorm:"index" json:"brand_id"`                    // Foreign key to Brand
	Brand       *Brand    `gorm:"constraint:OnDelete:SET NULL;" json:"-"`   // Owning brand
	CategoryID  uint      `gorm:"index" json:"category_id"`                 // Foreign key to Category
	Category    *Category `gorm:"constraint:OnDelete:SET NULL;" json:"-"`   // Owning category
	Price       float64   `gorm:"type:decimal(10,2);not null" json:"price"` // Retail price
	ReleaseDate time.Time `gorm:"index;not null" json:"release_date"`       // Drop date
	ImageURL    string    `gorm:"size:512" json:"image_url"`                // Product image
	ShopLink    string    `gorm:"size:512" json:"shop_link"`                // Purchase link
	SKU         string    `gorm:"size:64" json:"sku"`                       // Stock keeping unit
	Description string    `gorm:"type:text" json:"description"`             // Free text description
}

// StatusAt derives the release status relative to now.
// A release date equal to now counts as released.
func (s Shoe) StatusAt(now time.Time) ShoeStatus {
	if s.ReleaseDate.After(now) {
		return StatusUpcoming
	}
	return StatusReleased
}

// ShoeView is the catalog representation returned by the API
type ShoeView struct {
	Shoe
	BrandName    string     `json:"brand_name"`    // Joined brand name
	CategoryName string     `json:"category_name"` // Joined category name
	Status       ShoeStatus `json:"status"`        // Derived status
}

// NewShoeView builds the API view of a shoe at the given instant
func NewShoeView(s Shoe, now time.Time) ShoeView {
	v := ShoeView{Shoe: s, Status: s.StatusAt(now)}
	if s.Brand != nil {
		v.BrandName = s.Brand.Name
	}
	if s.Category != nil {
		v.CategoryName = s.Category.Name
	}
	return v
}
