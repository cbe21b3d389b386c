package entities

import "time"

// Prompt represents a saved library prompt. Tags are stored as a JSON
// array in a text column, matching sqlite's lack of array types.
type Prompt struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	Title     string `gorm:"type:varchar(255);not null"`
	Text      string `gorm:"type:text;not null"`
	Tags      string `gorm:"type:text"`
	Favorite  bool   `gorm:"not null;default:false;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Prompt) TableName() string {
	return "prompts"
}
