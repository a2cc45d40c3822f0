// models/message_log.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageLog struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key"`
	AccountID    uuid.UUID  `gorm:"type:uuid;index;not null"`
	LeadID       uuid.UUID  `gorm:"type:uuid;index;not null"`
	OccurrenceID *uuid.UUID `gorm:"type:uuid;index"`
	Kind         string     `gorm:"type:varchar(20)"` // confirmation, reminder
	Message      string     `gorm:"type:text"`
	Status       string     `gorm:"type:varchar(20)"` // sent, failed
	ErrorMessage string     `gorm:"type:text"`
	Channel      string     `gorm:"type:varchar(20)"` // whatsapp, sms
	SentAt       time.Time
	gorm.Model
}

func (m *MessageLog) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return
}
