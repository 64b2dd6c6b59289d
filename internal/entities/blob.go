package entities

import "time"

// Blob is a stored binary payload (cover image or document bytes).
type Blob struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Filename  string    `gorm:"size:1024"`
	Size      int64     `gorm:"not null"`
	Data      []byte    `gorm:"not null"`
	CreatedAt time.Time `gorm:"index"`
}
