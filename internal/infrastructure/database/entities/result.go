package entities

import "time"

// Result represents one persisted model outcome.
type Result struct {
	ID             uint   `gorm:"primaryKey;autoIncrement"`
	PromptID       uint   `gorm:"index"`
	ModelID        uint   `gorm:"index"`
	ModelName      string `gorm:"type:varchar(128);not null"`
	ResponseText   string `gorm:"type:text"`
	ErrorKind      string `gorm:"type:varchar(32);index"`
	ErrorMessage   string `gorm:"type:text"`
	ResponseTimeMs int64  `gorm:"not null;default:0"`
	TokensUsed     int    `gorm:"not null;default:0"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index"`
}

func (Result) TableName() string {
	return "results"
}
