// controllers/occurrence.go
package controllers

import (
	"net/http"

	"bookflow-backend/models"
	"bookflow-backend/services"
	"bookflow-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UpdateOccurrenceStatusInput struct {
	Status string `json:"status" binding:"required,oneof=completed cancelled"`
}

type RescheduleOccurrenceInput struct {
	StartsAt string `json:"startsAt" binding:"required"`
}

type UpdateOccurrenceNotesInput struct {
	Notes string `json:"notes"`
}

type CreatePaymentLinkInput struct {
	Amount      *int64 `json:"amount"` // minor currency units; optional manual override
	Description string `json:"description"`
}

type MarkPaidInput struct {
	Note string `json:"note"`
}

type OccurrenceController struct {
	DB          *gorm.DB
	Occurrences *services.OccurrenceService
}

func NewOccurrenceController(db *gorm.DB, occurrences *services.OccurrenceService) *OccurrenceController {
	return &OccurrenceController{DB: db, Occurrences: occurrences}
}

// GetOccurrences lists occurrences for the operational review board, with
// optional status/seriesId/date-range filters
func (oc *OccurrenceController) GetOccurrences(c *gin.Context) {
	accountID, ok := accountUUID(c)
	if !ok {
		return
	}

	query := oc.DB.Where("account_id = ?", accountID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if paymentStatus := c.Query("paymentStatus"); paymentStatus != "" {
		query = query.Where("payment_status = ?", paymentStatus)
	}
	if seriesID := c.Query("seriesId"); seriesID != "" {
		query = query.Where("series_id = ?", seriesID)
	}
	if from := c.Query("from"); from != "" {
		fromTime, err := utils.ParseDate(from)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid from date")
			return
		}
		query = query.Where("starts_at >= ?", fromTime)
	}
	if to := c.Query("to"); to != "" {
		toTime, err := utils.ParseDate(to)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid to date")
			return
		}
		query = query.Where("starts_at < ?", toTime.AddDate(0, 0, 1))
	}

	var occurrences []models.BookingOccurrence
	if err := query.Order("starts_at").Find(&occurrences).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve occurrences")
		return
	}

	c.JSON(http.StatusOK, occurrences)
}

// UpdateStatus completes or cancels a scheduled occurrence
func (oc *OccurrenceController) UpdateStatus(c *gin.Context) {
	accountID, ok := accountUUID(c)
	if !ok {
		return
	}

	occurrenceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid occurrence ID format")
		return
	}

	var input UpdateOccurrenceStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var occ *models.BookingOccurrence
	switch input.Status {
	case models.OccurrenceStatusCompleted:
		occ, err = oc.Occurrences.Complete(c.Request.Context(), accountID, occurrenceUUID)
	case models.OccurrenceStatusCancelled:
		occ, err = oc.Occurrences.Cancel(c.Request.Context(), accountID, occurrenceUUID)
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, occ)
}

// Reschedule moves an occurrence to a new start time
func (oc *OccurrenceController) Reschedule(c *gin.Context) {
	accountID, ok := accountUUID(c)
	if !ok {
		return
	}

	occurrenceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid occurrence ID format")
		return
	}

	var input RescheduleOccurrenceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	newStart, err := utils.ParseDateTime(input.StartsAt)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid start date/time")
		return
	}

	occ, err := oc.Occurrences.Reschedule(c.Request.Context(), accountID, occurrenceUUID, newStart)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, occ)
}

// UpdateNotes replaces the notes on an occurrence
func (oc *OccurrenceController) UpdateNotes(c *gin.Context) {
	accountID, ok := accountUUID(c)
	if !ok {
		return
	}

	occurrenceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid occurrence ID format")
		return
	}

	var input UpdateOccurrenceNotesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	occ, err := oc.Occurrences.UpdateNotes(c.Request.Context(), accountID, occurrenceUUID, input.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, occ)
}

// CreatePaymentLink issues a payment link for a completed occurrence
func (oc *OccurrenceController) CreatePaymentLink(c *gin.Context) {
	accountID, ok := accountUUID(c)
	if !ok {
		return
	}

	occurrenceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid occurrence ID format")
		return
	}

	var input CreatePaymentLinkInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	occ, err := oc.Occurrences.CreatePaymentLink(c.Request.Context(), accountID, occurrenceUUID, input.Amount, input.Description)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, occ)
}

// MarkPaid records payment on a completed occurrence
func (oc *OccurrenceController) MarkPaid(c *gin.Context) {
	accountID, ok := accountUUID(c)
	if !ok {
		return
	}

	occurrenceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid occurrence ID format")
		return
	}

	var input MarkPaidInput
	if err := c.ShouldBindJSON(&input); err != nil && c.Request.ContentLength > 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	occ, err := oc.Occurrences.MarkPaid(c.Request.Context(), accountID, occurrenceUUID, input.Note)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, occ)
}
