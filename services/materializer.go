// services/materializer.go
package services

import (
	"time"

	"bookflow-backend/models"

	"github.com/google/uuid"
)

// BuildOccurrences maps expanded dates onto occurrence rows ready for a
// batch insert. Every row starts life scheduled and waiting for payment.
// Retry and rollback decisions belong to the caller.
func BuildOccurrences(seriesID, accountID uuid.UUID, dates []time.Time, durationMinutes int) []models.BookingOccurrence {
	occurrences := make([]models.BookingOccurrence, 0, len(dates))
	for _, date := range dates {
		occurrences = append(occurrences, models.BookingOccurrence{
			ID:            uuid.New(),
			SeriesID:      seriesID,
			AccountID:     accountID,
			StartsAt:      date,
			EndsAt:        date.Add(time.Duration(durationMinutes) * time.Minute),
			Status:        models.OccurrenceStatusScheduled,
			PaymentStatus: models.PaymentStatusWaiting,
		})
	}
	return occurrences
}
