// services/occurrence_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bookflow-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OccurrenceService drives the per-occurrence lifecycle after creation:
// scheduling status first (scheduled -> completed | cancelled), then the
// payment sub-machine once an occurrence is completed
// (waiting_payment -> invoice_sent -> paid, with direct -> paid allowed).
type OccurrenceService struct {
	db       *gorm.DB
	payments PaymentLinkCreator
}

func NewOccurrenceService(db *gorm.DB, payments PaymentLinkCreator) *OccurrenceService {
	return &OccurrenceService{db: db, payments: payments}
}

func (s *OccurrenceService) get(ctx context.Context, accountID, id uuid.UUID) (*models.BookingOccurrence, error) {
	var occ models.BookingOccurrence
	err := s.db.WithContext(ctx).
		Where("id = ? AND account_id = ?", id, accountID).
		First(&occ).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("Occurrence not found")
		}
		return nil, NewPersistenceError("Failed to look up occurrence", err)
	}
	return &occ, nil
}

// Complete moves a scheduled occurrence to completed, the entry state of
// the payment sub-machine.
func (s *OccurrenceService) Complete(ctx context.Context, accountID, id uuid.UUID) (*models.BookingOccurrence, error) {
	occ, err := s.get(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	if occ.Status != models.OccurrenceStatusScheduled {
		return nil, NewValidationError(fmt.Sprintf("Cannot complete a %s occurrence", occ.Status))
	}
	if err := s.db.WithContext(ctx).Model(occ).
		Update("status", models.OccurrenceStatusCompleted).Error; err != nil {
		return nil, NewPersistenceError("Failed to update occurrence", err)
	}
	return occ, nil
}

// Cancel moves a scheduled occurrence to its terminal cancelled state.
func (s *OccurrenceService) Cancel(ctx context.Context, accountID, id uuid.UUID) (*models.BookingOccurrence, error) {
	occ, err := s.get(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	if occ.Status != models.OccurrenceStatusScheduled {
		return nil, NewValidationError(fmt.Sprintf("Cannot cancel a %s occurrence", occ.Status))
	}
	if err := s.db.WithContext(ctx).Model(occ).
		Update("status", models.OccurrenceStatusCancelled).Error; err != nil {
		return nil, NewPersistenceError("Failed to update occurrence", err)
	}
	return occ, nil
}

// Reschedule moves a scheduled occurrence to a new start, keeping the series
// duration. The pre-move start is preserved in original_start_at on the
// first move only.
func (s *OccurrenceService) Reschedule(ctx context.Context, accountID, id uuid.UUID, newStart time.Time) (*models.BookingOccurrence, error) {
	occ, err := s.get(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	if occ.Status != models.OccurrenceStatusScheduled {
		return nil, NewValidationError(fmt.Sprintf("Cannot reschedule a %s occurrence", occ.Status))
	}

	duration := occ.EndsAt.Sub(occ.StartsAt)
	updates := map[string]interface{}{
		"starts_at": newStart,
		"ends_at":   newStart.Add(duration),
	}
	if occ.OriginalStartAt == nil {
		original := occ.StartsAt
		updates["original_start_at"] = original
		occ.OriginalStartAt = &original
	}
	if err := s.db.WithContext(ctx).Model(occ).Updates(updates).Error; err != nil {
		return nil, NewPersistenceError("Failed to reschedule occurrence", err)
	}
	return occ, nil
}

// UpdateNotes replaces the operational notes on an occurrence.
func (s *OccurrenceService) UpdateNotes(ctx context.Context, accountID, id uuid.UUID, notes string) (*models.BookingOccurrence, error) {
	occ, err := s.get(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(occ).Update("notes", notes).Error; err != nil {
		return nil, NewPersistenceError("Failed to update occurrence notes", err)
	}
	return occ, nil
}

// CreatePaymentLink issues a payment link for a completed occurrence and
// moves it to invoice_sent. Link, amount and status are written in a single
// update so a stored link can never coexist with waiting_payment.
//
// Amount precedence: explicit manual input, then the amount already stored
// on the occurrence, then the lead's quoted total. First positive value wins.
func (s *OccurrenceService) CreatePaymentLink(ctx context.Context, accountID, id uuid.UUID, manualAmount *int64, description string) (*models.BookingOccurrence, error) {
	occ, err := s.get(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	if occ.Status != models.OccurrenceStatusCompleted {
		return nil, NewValidationError("Payment links can only be issued for completed occurrences")
	}
	if occ.PaymentStatus == models.PaymentStatusPaid {
		return nil, NewValidationError("Occurrence is already paid")
	}

	quoted, err := s.quotedTotalFor(ctx, occ.SeriesID)
	if err != nil {
		return nil, err
	}

	amount, ok := ResolveAmount(manualAmount, occ.PaymentAmount, quoted)
	if !ok {
		return nil, NewValidationError("No payment amount available")
	}

	if description == "" {
		description = fmt.Sprintf("Booking on %s", occ.StartsAt.Format("02 Jan 2006"))
	}

	link, err := s.payments.CreatePaymentLink(ctx, amount, description)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"payment_status": models.PaymentStatusInvoiceSent,
		"payment_link":   link.URL,
		"payment_amount": amount,
	}
	// Updates writes the map values back into occ.
	if err := s.db.WithContext(ctx).Model(occ).Updates(updates).Error; err != nil {
		return nil, NewPersistenceError("Failed to store payment link", err)
	}
	return occ, nil
}

// MarkPaid records payment on a completed occurrence. Works from both
// waiting_payment and invoice_sent; the invoice step is never forced.
// Stamps paid_at and appends a provenance note, and touches neither the
// stored amount nor the link.
func (s *OccurrenceService) MarkPaid(ctx context.Context, accountID, id uuid.UUID, note string) (*models.BookingOccurrence, error) {
	occ, err := s.get(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	if occ.Status != models.OccurrenceStatusCompleted {
		return nil, NewValidationError("Only completed occurrences can be marked paid")
	}
	if occ.PaymentStatus == models.PaymentStatusPaid {
		return nil, NewValidationError("Occurrence is already paid")
	}

	now := time.Now()
	provenance := "Marked paid " + now.Format("02 Jan 2006 15:04")
	if note != "" {
		provenance += " - " + note
	}

	updates := map[string]interface{}{
		"payment_status": models.PaymentStatusPaid,
		"paid_at":        now,
		"payment_notes":  appendNote(occ.PaymentNotes, provenance),
	}
	if err := s.db.WithContext(ctx).Model(occ).Updates(updates).Error; err != nil {
		return nil, NewPersistenceError("Failed to mark occurrence paid", err)
	}
	return occ, nil
}

func (s *OccurrenceService) quotedTotalFor(ctx context.Context, seriesID uuid.UUID) (*int64, error) {
	var lead models.Lead
	err := s.db.WithContext(ctx).
		Joins("JOIN booking_series ON booking_series.lead_id = leads.id").
		Where("booking_series.id = ?", seriesID).
		First(&lead).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, NewPersistenceError("Failed to look up lead quote", err)
	}
	return lead.QuotedTotal, nil
}

// ResolveAmount applies the charge amount precedence: manual input beats the
// stored occurrence amount, which beats the lead's quoted total. The first
// present positive value wins; absent all three there is no amount.
func ResolveAmount(manual, stored, quoted *int64) (int64, bool) {
	for _, candidate := range []*int64{manual, stored, quoted} {
		if candidate != nil && *candidate > 0 {
			return *candidate, true
		}
	}
	return 0, false
}

func appendNote(existing, note string) string {
	if strings.TrimSpace(existing) == "" {
		return note
	}
	return existing + "\n" + note
}
