package entities

import "time"

// Setting represents one typed key/value pair.
type Setting struct {
	Key       string `gorm:"type:varchar(128);primaryKey"`
	Value     string `gorm:"type:text;not null"`
	Type      string `gorm:"type:varchar(16);not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Setting) TableName() string {
	return "settings"
}
