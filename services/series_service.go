// services/series_service.go
package services

import (
	"context"
	"errors"
	"log"
	"time"

	"bookflow-backend/models"
	"bookflow-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateSeriesRequest is the transport-agnostic payload for creating a
// recurring booking series. AccountID is set server-side from the auth
// context, never from the client body.
type CreateSeriesRequest struct {
	AccountID        uuid.UUID `json:"-"`
	LeadID           string    `json:"leadId" binding:"required"`
	StartsAt         string    `json:"startsAt" binding:"required"`
	DurationMinutes  int       `json:"durationMinutes"`
	RepeatType       string    `json:"repeatType"`
	UntilDate        *string   `json:"untilDate"`
	OccurrenceCount  *int      `json:"occurrenceCount"`
	Notes            string    `json:"notes"`
	Timezone         string    `json:"timezone"`
	UpdateLeadStatus *bool     `json:"updateLeadStatus"`
}

type SeriesSummary struct {
	ID              uuid.UUID `json:"id"`
	LeadID          uuid.UUID `json:"leadId"`
	Title           string    `json:"title"`
	StartsAt        string    `json:"startsAt"`
	DurationMinutes int       `json:"durationMinutes"`
	RepeatType      string    `json:"repeatType"`
	Status          string    `json:"status"`
}

type CreateSeriesResult struct {
	Series                  SeriesSummary `json:"series"`
	OccurrencesCreatedCount int           `json:"occurrencesCreatedCount"`
}

// SeriesCreator is implemented by both execution paths: the remote
// managed-function client and the direct-store SeriesService.
type SeriesCreator interface {
	CreateSeries(ctx context.Context, req CreateSeriesRequest) (*CreateSeriesResult, error)
}

type SeriesService struct {
	db *gorm.DB
}

func NewSeriesService(db *gorm.DB) *SeriesService {
	return &SeriesService{db: db}
}

const defaultDurationMinutes = 120

// CreateSeries validates the request, persists the series, materializes its
// occurrence batch and marks the lead converted. If the occurrence batch
// fails after the series row exists, the series row is deleted again before
// the error is returned: an orphaned series with zero occurrences must never
// be observable.
func (s *SeriesService) CreateSeries(ctx context.Context, req CreateSeriesRequest) (*CreateSeriesResult, error) {
	db := s.db.WithContext(ctx)

	leadID, err := uuid.Parse(req.LeadID)
	if err != nil {
		return nil, NewValidationError("Invalid lead ID format")
	}

	startsAt, err := utils.ParseDateTime(req.StartsAt)
	if err != nil {
		return nil, NewValidationError("Invalid start date/time")
	}

	duration := req.DurationMinutes
	if duration == 0 {
		duration = defaultDurationMinutes
	}
	if duration < 0 {
		return nil, NewValidationError("Duration must be positive")
	}

	repeat, err := ParseRepeatType(req.RepeatType)
	if err != nil {
		return nil, NewValidationError("Invalid repeat type")
	}

	var until *time.Time
	if req.UntilDate != nil && *req.UntilDate != "" {
		parsed, err := utils.ParseDate(*req.UntilDate)
		if err != nil {
			return nil, NewValidationError("Invalid until date")
		}
		until = &parsed
	}

	count := DefaultOccurrenceCount(repeat)
	if req.OccurrenceCount != nil {
		if *req.OccurrenceCount <= 0 {
			return nil, NewValidationError("Occurrence count must be positive")
		}
		count = *req.OccurrenceCount
	}

	var lead models.Lead
	if err := db.Where("id = ? AND account_id = ?", leadID, req.AccountID).
		First(&lead).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("Lead not found")
		}
		return nil, NewPersistenceError("Failed to look up lead", err)
	}

	series := models.BookingSeries{
		ID:              uuid.New(),
		AccountID:       req.AccountID,
		LeadID:          lead.ID,
		Title:           "Booking - " + lead.Name,
		Timezone:        req.Timezone,
		StartsAt:        startsAt,
		DurationMinutes: duration,
		RepeatType:      string(repeat),
		UntilDate:       until,
		OccurrenceCount: req.OccurrenceCount,
		Notes:           req.Notes,
		Status:          models.SeriesStatusActive,
	}

	if err := db.Create(&series).Error; err != nil {
		return nil, NewPersistenceError("Failed to create series", err)
	}

	dates := ExpandDates(startsAt, repeat, until, count)
	occurrences := BuildOccurrences(series.ID, req.AccountID, dates, duration)

	if err := db.Create(&occurrences).Error; err != nil {
		// Compensation: the series row must not outlive a failed batch.
		if delErr := db.Unscoped().Delete(&models.BookingSeries{}, "id = ?", series.ID).Error; delErr != nil {
			log.Printf("[series] compensation delete failed for series %s: %v", series.ID, delErr)
		}
		return nil, NewPersistenceError("Failed to create occurrences", err)
	}

	if req.UpdateLeadStatus == nil || *req.UpdateLeadStatus {
		// Best-effort: a failed lead update never rolls back the booking.
		if err := db.Model(&models.Lead{}).Where("id = ?", lead.ID).
			Update("status", models.LeadStatusConverted).Error; err != nil {
			log.Printf("[series] failed to mark lead %s converted: %v", lead.ID, err)
		}
	}

	return &CreateSeriesResult{
		Series: SeriesSummary{
			ID:              series.ID,
			LeadID:          series.LeadID,
			Title:           series.Title,
			StartsAt:        series.StartsAt.Format(time.RFC3339),
			DurationMinutes: series.DurationMinutes,
			RepeatType:      series.RepeatType,
			Status:          series.Status,
		},
		OccurrencesCreatedCount: len(occurrences),
	}, nil
}

// CancelSeries marks the series cancelled and cancels its remaining
// scheduled occurrences. Completed and already-cancelled occurrences are
// left alone.
func (s *SeriesService) CancelSeries(ctx context.Context, accountID, seriesID uuid.UUID) error {
	db := s.db.WithContext(ctx)

	var series models.BookingSeries
	if err := db.Where("id = ? AND account_id = ?", seriesID, accountID).
		First(&series).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError("Series not found")
		}
		return NewPersistenceError("Failed to look up series", err)
	}

	if series.Status == models.SeriesStatusCancelled {
		return NewValidationError("Series is already cancelled")
	}

	if err := db.Model(&series).Update("status", models.SeriesStatusCancelled).Error; err != nil {
		return NewPersistenceError("Failed to cancel series", err)
	}

	if err := db.Model(&models.BookingOccurrence{}).
		Where("series_id = ? AND status = ?", seriesID, models.OccurrenceStatusScheduled).
		Update("status", models.OccurrenceStatusCancelled).Error; err != nil {
		return NewPersistenceError("Failed to cancel remaining occurrences", err)
	}

	return nil
}
