package services

import (
	"context"
	"testing"
	"time"

	"bookflow-backend/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Lead{},
		&models.BookingSeries{},
		&models.BookingOccurrence{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedLead(t *testing.T, db *gorm.DB, accountID uuid.UUID) models.Lead {
	t.Helper()
	lead := models.Lead{
		ID:        uuid.New(),
		AccountID: accountID,
		Name:      "Jamie Fletcher",
		Phone:     "+447700900123",
		Status:    models.LeadStatusQuoted,
		IsActive:  true,
	}
	if err := db.Create(&lead).Error; err != nil {
		t.Fatalf("seed lead: %v", err)
	}
	return lead
}

func TestSeriesService_CreateSeries_WeeklySeries(t *testing.T) {
	db := openTestDB(t)
	accountID := uuid.New()
	lead := seedLead(t, db, accountID)
	svc := NewSeriesService(db)

	count := 4
	result, err := svc.CreateSeries(context.Background(), CreateSeriesRequest{
		AccountID:       accountID,
		LeadID:          lead.ID.String(),
		StartsAt:        "2025-03-10T09:00:00Z",
		DurationMinutes: 90,
		RepeatType:      "weekly",
		OccurrenceCount: &count,
		Notes:           "fortnightly clean, keys under mat",
	})
	if err != nil {
		t.Fatalf("create series: %v", err)
	}

	if result.OccurrencesCreatedCount != 4 {
		t.Fatalf("expected 4 occurrences, got %d", result.OccurrencesCreatedCount)
	}
	if result.Series.Status != models.SeriesStatusActive {
		t.Fatalf("expected active series, got %s", result.Series.Status)
	}
	if result.Series.LeadID != lead.ID {
		t.Fatalf("series not linked to lead")
	}

	var occurrences []models.BookingOccurrence
	if err := db.Where("series_id = ?", result.Series.ID).Order("starts_at").Find(&occurrences).Error; err != nil {
		t.Fatalf("load occurrences: %v", err)
	}
	if len(occurrences) != 4 {
		t.Fatalf("expected 4 persisted occurrences, got %d", len(occurrences))
	}
	for _, occ := range occurrences {
		if occ.Status != models.OccurrenceStatusScheduled {
			t.Fatalf("occurrence should start scheduled, got %s", occ.Status)
		}
		if occ.PaymentStatus != models.PaymentStatusWaiting {
			t.Fatalf("occurrence should start waiting_payment, got %s", occ.PaymentStatus)
		}
		if got := occ.EndsAt.Sub(occ.StartsAt); got != 90*time.Minute {
			t.Fatalf("expected 90 minute duration, got %v", got)
		}
	}

	// Lead conversion is on by default
	var updated models.Lead
	if err := db.First(&updated, "id = ?", lead.ID).Error; err != nil {
		t.Fatalf("reload lead: %v", err)
	}
	if updated.Status != models.LeadStatusConverted {
		t.Fatalf("expected converted lead, got %s", updated.Status)
	}
}

func TestSeriesService_CreateSeries_LeadNotFound(t *testing.T) {
	db := openTestDB(t)
	svc := NewSeriesService(db)

	_, err := svc.CreateSeries(context.Background(), CreateSeriesRequest{
		AccountID: uuid.New(),
		LeadID:    uuid.New().String(),
		StartsAt:  "2025-03-10T09:00:00Z",
	})
	if !IsKind(err, ErrNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}

	// Nothing may be persisted on a failed lookup
	var seriesCount int64
	db.Model(&models.BookingSeries{}).Count(&seriesCount)
	if seriesCount != 0 {
		t.Fatalf("expected no series rows, got %d", seriesCount)
	}
}

func TestSeriesService_CreateSeries_InvalidInput(t *testing.T) {
	db := openTestDB(t)
	accountID := uuid.New()
	lead := seedLead(t, db, accountID)
	svc := NewSeriesService(db)

	negativeCount := -1
	tests := []struct {
		name string
		req  CreateSeriesRequest
	}{
		{"bad lead id", CreateSeriesRequest{AccountID: accountID, LeadID: "not-a-uuid", StartsAt: "2025-03-10T09:00:00Z"}},
		{"bad start", CreateSeriesRequest{AccountID: accountID, LeadID: lead.ID.String(), StartsAt: "next tuesday"}},
		{"negative duration", CreateSeriesRequest{AccountID: accountID, LeadID: lead.ID.String(), StartsAt: "2025-03-10T09:00:00Z", DurationMinutes: -30}},
		{"bad repeat", CreateSeriesRequest{AccountID: accountID, LeadID: lead.ID.String(), StartsAt: "2025-03-10T09:00:00Z", RepeatType: "hourly"}},
		{"negative count", CreateSeriesRequest{AccountID: accountID, LeadID: lead.ID.String(), StartsAt: "2025-03-10T09:00:00Z", RepeatType: "weekly", OccurrenceCount: &negativeCount}},
	}

	for _, tt := range tests {
		if _, err := svc.CreateSeries(context.Background(), tt.req); !IsKind(err, ErrValidation) {
			t.Fatalf("%s: expected validation error, got %v", tt.name, err)
		}
	}
}

func TestSeriesService_CreateSeries_CompensatesOnOccurrenceFailure(t *testing.T) {
	db := openTestDB(t)
	accountID := uuid.New()
	lead := seedLead(t, db, accountID)
	svc := NewSeriesService(db)

	// Make the occurrence batch insert fail after the series row exists.
	if err := db.Migrator().DropTable(&models.BookingOccurrence{}); err != nil {
		t.Fatalf("drop occurrences table: %v", err)
	}

	_, err := svc.CreateSeries(context.Background(), CreateSeriesRequest{
		AccountID:  accountID,
		LeadID:     lead.ID.String(),
		StartsAt:   "2025-03-10T09:00:00Z",
		RepeatType: "weekly",
	})
	if !IsKind(err, ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}

	// Compensation: no series row may survive, soft-deleted or otherwise.
	var seriesCount int64
	db.Unscoped().Model(&models.BookingSeries{}).Count(&seriesCount)
	if seriesCount != 0 {
		t.Fatalf("expected compensation to remove the series row, found %d", seriesCount)
	}

	// And the lead must not have been converted.
	var updated models.Lead
	if err := db.First(&updated, "id = ?", lead.ID).Error; err != nil {
		t.Fatalf("reload lead: %v", err)
	}
	if updated.Status == models.LeadStatusConverted {
		t.Fatal("lead must not be converted when creation failed")
	}
}

func TestSeriesService_CreateSeries_SkipsLeadUpdateWhenDisabled(t *testing.T) {
	db := openTestDB(t)
	accountID := uuid.New()
	lead := seedLead(t, db, accountID)
	svc := NewSeriesService(db)

	noUpdate := false
	_, err := svc.CreateSeries(context.Background(), CreateSeriesRequest{
		AccountID:        accountID,
		LeadID:           lead.ID.String(),
		StartsAt:         "2025-03-10T09:00:00Z",
		UpdateLeadStatus: &noUpdate,
	})
	if err != nil {
		t.Fatalf("create series: %v", err)
	}

	var updated models.Lead
	if err := db.First(&updated, "id = ?", lead.ID).Error; err != nil {
		t.Fatalf("reload lead: %v", err)
	}
	if updated.Status != models.LeadStatusQuoted {
		t.Fatalf("lead status should be untouched, got %s", updated.Status)
	}
}

func TestSeriesService_CreateSeries_UntilDateWinsOverCount(t *testing.T) {
	db := openTestDB(t)
	accountID := uuid.New()
	lead := seedLead(t, db, accountID)
	svc := NewSeriesService(db)

	until := "2025-04-01"
	count := 52
	result, err := svc.CreateSeries(context.Background(), CreateSeriesRequest{
		AccountID:       accountID,
		LeadID:          lead.ID.String(),
		StartsAt:        "2025-01-15T09:00:00Z",
		RepeatType:      "monthly",
		UntilDate:       &until,
		OccurrenceCount: &count,
	})
	if err != nil {
		t.Fatalf("create series: %v", err)
	}

	if result.OccurrencesCreatedCount != 3 {
		t.Fatalf("expected the date bound to stop generation at 3, got %d", result.OccurrencesCreatedCount)
	}

	// The requested count survives as metadata on the series.
	var series models.BookingSeries
	if err := db.First(&series, "id = ?", result.Series.ID).Error; err != nil {
		t.Fatalf("reload series: %v", err)
	}
	if series.OccurrenceCount == nil || *series.OccurrenceCount != 52 {
		t.Fatalf("expected stored count 52, got %v", series.OccurrenceCount)
	}
}

func TestSeriesService_CancelSeries(t *testing.T) {
	db := openTestDB(t)
	accountID := uuid.New()
	lead := seedLead(t, db, accountID)
	svc := NewSeriesService(db)

	count := 3
	result, err := svc.CreateSeries(context.Background(), CreateSeriesRequest{
		AccountID:       accountID,
		LeadID:          lead.ID.String(),
		StartsAt:        "2025-03-10T09:00:00Z",
		RepeatType:      "weekly",
		OccurrenceCount: &count,
	})
	if err != nil {
		t.Fatalf("create series: %v", err)
	}

	// Complete the first occurrence before cancelling the series.
	var first models.BookingOccurrence
	if err := db.Where("series_id = ?", result.Series.ID).Order("starts_at").First(&first).Error; err != nil {
		t.Fatalf("load first occurrence: %v", err)
	}
	if err := db.Model(&first).Update("status", models.OccurrenceStatusCompleted).Error; err != nil {
		t.Fatalf("complete occurrence: %v", err)
	}

	if err := svc.CancelSeries(context.Background(), accountID, result.Series.ID); err != nil {
		t.Fatalf("cancel series: %v", err)
	}

	var series models.BookingSeries
	if err := db.First(&series, "id = ?", result.Series.ID).Error; err != nil {
		t.Fatalf("reload series: %v", err)
	}
	if series.Status != models.SeriesStatusCancelled {
		t.Fatalf("expected cancelled series, got %s", series.Status)
	}

	var occurrences []models.BookingOccurrence
	if err := db.Where("series_id = ?", result.Series.ID).Order("starts_at").Find(&occurrences).Error; err != nil {
		t.Fatalf("load occurrences: %v", err)
	}
	if occurrences[0].Status != models.OccurrenceStatusCompleted {
		t.Fatalf("completed occurrence must stay completed, got %s", occurrences[0].Status)
	}
	for _, occ := range occurrences[1:] {
		if occ.Status != models.OccurrenceStatusCancelled {
			t.Fatalf("remaining occurrences should be cancelled, got %s", occ.Status)
		}
	}

	// Cancelling twice is rejected
	if err := svc.CancelSeries(context.Background(), accountID, result.Series.ID); !IsKind(err, ErrValidation) {
		t.Fatalf("expected validation error on double cancel, got %v", err)
	}

	if err := svc.CancelSeries(context.Background(), accountID, uuid.New()); !IsKind(err, ErrNotFound) {
		t.Fatalf("expected not_found for unknown series, got %v", err)
	}
}
