package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Scheduling statuses
const (
	OccurrenceStatusScheduled = "scheduled"
	OccurrenceStatusCompleted = "completed"
	OccurrenceStatusCancelled = "cancelled"
)

// Payment statuses
const (
	PaymentStatusWaiting     = "waiting_payment"
	PaymentStatusInvoiceSent = "invoice_sent"
	PaymentStatusPaid        = "paid"
)

// BookingOccurrence is one dated instance of a BookingSeries.
type BookingOccurrence struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	SeriesID  uuid.UUID `gorm:"type:uuid;index;not null"`
	AccountID uuid.UUID `gorm:"type:uuid;index;not null"`

	StartsAt time.Time `gorm:"not null;index"`
	EndsAt   time.Time `gorm:"not null"`
	Status   string    `gorm:"type:varchar(20);default:'scheduled'"`

	// Set on the first reschedule only, preserving the pre-move time.
	OriginalStartAt *time.Time

	Notes string `gorm:"type:text"`

	PaymentStatus string `gorm:"type:varchar(20);default:'waiting_payment'"`
	PaymentLink   string
	// Minor currency units. Set when a payment link is issued; status-only
	// transitions never clear it.
	PaymentAmount *int64
	PaymentNotes  string `gorm:"type:text"`
	PaidAt        *time.Time

	gorm.Model
}

func (o *BookingOccurrence) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return
}
