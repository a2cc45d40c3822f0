// services/message_service.go
package services

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"bookflow-backend/models"
	"bookflow-backend/utils"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

type MessageService struct {
	db     *gorm.DB
	client *twilio.RestClient
}

func NewMessageService(db *gorm.DB) *MessageService {
	// Initialize Twilio client
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &MessageService{
		db: db,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

func (s *MessageService) StartScheduler() {
	c := cron.New()

	// Run every day at 9 AM
	c.AddFunc("0 9 * * *", s.SendOccurrenceReminders)

	c.Start()
	log.Println("Occurrence reminder scheduler started")
}

// SendBookingConfirmation texts the lead after a series is created.
// Best-effort: failures are logged, never surfaced to the creation flow.
func (s *MessageService) SendBookingConfirmation(lead models.Lead, summary SeriesSummary, occurrenceCount int) {
	startsAt, err := time.Parse(time.RFC3339, summary.StartsAt)
	if err != nil {
		log.Printf("Failed to parse series start for confirmation SMS: %v", err)
		return
	}

	message := fmt.Sprintf("Hi %s, your booking is confirmed for %s.",
		lead.Name, startsAt.Format("Mon 02 Jan at 15:04"))
	if occurrenceCount > 1 {
		message += fmt.Sprintf(" We've scheduled %d visits (%s).", occurrenceCount, summary.RepeatType)
	}

	s.send(lead, message, "confirmation", nil)
}

// SendOccurrenceReminders texts every lead with a scheduled occurrence
// tomorrow.
func (s *MessageService) SendOccurrenceReminders() {
	log.Println("Starting occurrence reminder processing...")

	windowStart, windowEnd := reminderWindow(time.Now())

	var occurrences []models.BookingOccurrence
	if err := s.db.
		Where("status = ? AND starts_at >= ? AND starts_at < ?",
			models.OccurrenceStatusScheduled, windowStart, windowEnd).
		Find(&occurrences).Error; err != nil {
		log.Printf("Failed to fetch tomorrow's occurrences: %v", err)
		return
	}

	for _, occ := range occurrences {
		var lead models.Lead
		err := s.db.
			Joins("JOIN booking_series ON booking_series.lead_id = leads.id").
			Where("booking_series.id = ?", occ.SeriesID).
			First(&lead).Error
		if err != nil {
			log.Printf("Occurrence %s: failed to resolve lead: %v", occ.ID, err)
			continue
		}

		message := fmt.Sprintf("Hi %s, a reminder about your booking tomorrow at %s.",
			lead.Name, occ.StartsAt.Format("15:04"))
		occID := occ.ID
		s.send(lead, message, "reminder", &occID)
	}

	log.Println("Occurrence reminder processing completed")
}

// reminderWindow is the local-midnight day window covering tomorrow.
func reminderWindow(now time.Time) (time.Time, time.Time) {
	start := utils.BeginningOfDay(now.AddDate(0, 0, 1))
	return start, start.AddDate(0, 0, 1)
}

func (s *MessageService) send(lead models.Lead, message, kind string, occurrenceID *uuid.UUID) {
	// Determine channel (WhatsApp if available, else SMS)
	channel := "sms"
	var to string

	// Use WhatsApp if phone is in E.164 format and starts with '+'
	if strings.HasPrefix(lead.Phone, "+") {
		to = "whatsapp:" + lead.Phone
		channel = "whatsapp"
	} else {
		to = lead.Phone
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetBody(message)

	if channel == "whatsapp" {
		params.SetFrom("whatsapp:" + os.Getenv("TWILIO_WHATSAPP_NUMBER"))
	} else {
		params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))
	}

	resp, err := s.client.Api.CreateMessage(params)
	status := "sent"
	errorMsg := ""

	if err != nil {
		log.Printf("Failed to send message to %s: %v", lead.Phone, err)
		status = "failed"
		errorMsg = err.Error()
	} else if resp.Sid != nil {
		log.Printf("Message sent to %s, SID: %s", lead.Phone, *resp.Sid)
	} else {
		log.Printf("Message sent to %s, but no SID returned", lead.Phone)
	}

	messageLog := models.MessageLog{
		AccountID:    lead.AccountID,
		LeadID:       lead.ID,
		OccurrenceID: occurrenceID,
		Kind:         kind,
		Message:      message,
		Status:       status,
		ErrorMessage: errorMsg,
		Channel:      channel,
		SentAt:       time.Now(),
	}

	if err := s.db.Create(&messageLog).Error; err != nil {
		log.Printf("Failed to log message for lead %s: %v", lead.ID, err)
	}
}
