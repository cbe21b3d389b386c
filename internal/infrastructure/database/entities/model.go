package entities

import "time"

// Model represents a persisted dispatch target.
type Model struct {
	ID            uint    `gorm:"primaryKey;autoIncrement"`
	DisplayName   string  `gorm:"type:varchar(128);uniqueIndex;not null"`
	RemoteName    string  `gorm:"type:varchar(128);not null"`
	Kind          string  `gorm:"type:varchar(32);not null"`
	EndpointURL   string  `gorm:"type:varchar(512);not null"`
	CredentialRef string  `gorm:"type:varchar(128)"`
	Active        bool    `gorm:"not null;default:false;index"`
	Temperature   float64 `gorm:"not null;default:0.7"`
	MaxTokens     int     `gorm:"not null;default:2000"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (Model) TableName() string {
	return "models"
}
