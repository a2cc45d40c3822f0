package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SeriesStatusActive    = "active"
	SeriesStatusCancelled = "cancelled"
)

// BookingSeries is the recurring booking template. Occurrences have no
// existence outside their parent series.
type BookingSeries struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	AccountID uuid.UUID `gorm:"type:uuid;index;not null"`
	LeadID    uuid.UUID `gorm:"type:uuid;index;not null"`

	Title           string
	Timezone        string    `gorm:"default:'Europe/London'"`
	StartsAt        time.Time `gorm:"not null"`
	DurationMinutes int       `gorm:"not null"`
	RepeatType      string    `gorm:"type:varchar(20);default:'none'"`

	// UntilDate wins over OccurrenceCount as the generation stop condition
	// when both are supplied; the count is kept as metadata either way.
	UntilDate       *time.Time
	OccurrenceCount *int

	Notes  string `gorm:"type:text"`
	Status string `gorm:"type:varchar(20);default:'active'"`

	Occurrences []BookingOccurrence `gorm:"foreignKey:SeriesID"`

	gorm.Model
}

func (s *BookingSeries) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
