package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Lead pipeline statuses
const (
	LeadStatusNew       = "new"
	LeadStatusContacted = "contacted"
	LeadStatusQuoted    = "quoted"
	LeadStatusConverted = "converted"
	LeadStatusLost      = "lost"
)

type Lead struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key"`
	AccountID       uuid.UUID `gorm:"type:uuid;index;not null"`
	CreatedByUserID uuid.UUID `gorm:"type:uuid;index"`

	Name   string `gorm:"not null"`
	Phone  string `gorm:"not null;index"`
	Email  string
	Source string
	Status string `gorm:"type:varchar(20);default:'new'"`

	// Quoted job total in minor currency units (pence/cents). Used as the
	// lowest-precedence amount when issuing payment links.
	QuotedTotal *int64

	Notes       string     `gorm:"type:text"`
	LastContact *time.Time
	IsActive    bool       `gorm:"default:true"`

	Series []BookingSeries `gorm:"foreignKey:LeadID"`

	gorm.Model
}

func (l *Lead) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return
}
