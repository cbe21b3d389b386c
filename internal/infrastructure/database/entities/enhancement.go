package entities

import "time"

// Enhancement represents one persisted prompt-rewriting run. The
// alternatives and recommendations lists are stored as JSON text.
type Enhancement struct {
	ID              uint   `gorm:"primaryKey;autoIncrement"`
	OriginalPrompt  string `gorm:"type:text;not null"`
	Enhanced        string `gorm:"type:text;not null"`
	Alternatives    string `gorm:"type:text"`
	Explanation     string `gorm:"type:text"`
	Recommendations string `gorm:"type:text"`
	Type            string `gorm:"type:varchar(32);not null;index"`
	ModelName       string `gorm:"type:varchar(128);not null"`
	PromptID        *uint  `gorm:"index"`
	CreatedAt       time.Time `gorm:"autoCreateTime;index"`
}

func (Enhancement) TableName() string {
	return "prompt_enhancements"
}
