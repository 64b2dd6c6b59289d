package entities

import "time"

// Account owns exactly one library: the LastUpdated stamp lives on the row
// and the books hang off it, ordered by Position.
type Account struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:64;not null" json:"username"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	LastUpdated  int64     `gorm:"not null;default:0" json:"lastUpdated"`
	Books        []Book    `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE" json:"books,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Library is the account's synchronised state as a single value.
type Library struct {
	Books       []Book `json:"books"`
	LastUpdated int64  `json:"lastUpdated"`
}
