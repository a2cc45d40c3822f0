// controllers/series.go
package controllers

import (
	"errors"
	"net/http"

	"bookflow-backend/models"
	"bookflow-backend/services"
	"bookflow-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SeriesController struct {
	DB       *gorm.DB
	Creator  services.SeriesCreator // dual-path: remote function first, direct store on transport failure
	Series   *services.SeriesService
	Messages *services.MessageService
}

func NewSeriesController(db *gorm.DB, creator services.SeriesCreator, series *services.SeriesService, messages *services.MessageService) *SeriesController {
	return &SeriesController{DB: db, Creator: creator, Series: series, Messages: messages}
}

// CreateSeries creates a booking series plus its occurrence batch
func (sc *SeriesController) CreateSeries(c *gin.Context) {
	accountID, ok := accountUUID(c)
	if !ok {
		return
	}

	var req services.CreateSeriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	req.AccountID = accountID

	result, err := sc.Creator.CreateSeries(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// Confirmation SMS is best-effort and never blocks the response
	var lead models.Lead
	if err := sc.DB.First(&lead, "id = ?", result.Series.LeadID).Error; err == nil {
		go sc.Messages.SendBookingConfirmation(lead, result.Series, result.OccurrencesCreatedCount)
	}

	c.JSON(http.StatusCreated, result)
}

// GetSeriesList retrieves all booking series for the account
func (sc *SeriesController) GetSeriesList(c *gin.Context) {
	accountID, ok := accountUUID(c)
	if !ok {
		return
	}

	query := sc.DB.Where("account_id = ?", accountID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if leadID := c.Query("leadId"); leadID != "" {
		query = query.Where("lead_id = ?", leadID)
	}

	var series []models.BookingSeries
	if err := query.Order("starts_at").Find(&series).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve series")
		return
	}

	c.JSON(http.StatusOK, series)
}

// GetSeries retrieves a specific series with its occurrences
func (sc *SeriesController) GetSeries(c *gin.Context) {
	accountID, ok := accountUUID(c)
	if !ok {
		return
	}

	seriesUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid series ID format")
		return
	}

	var series models.BookingSeries
	if err := sc.DB.Preload("Occurrences", func(db *gorm.DB) *gorm.DB {
		return db.Order("booking_occurrences.starts_at")
	}).Where("account_id = ? AND id = ?", accountID, seriesUUID).
		First(&series).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Series not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, series)
}

// CancelSeries cancels the series and its remaining scheduled occurrences
func (sc *SeriesController) CancelSeries(c *gin.Context) {
	accountID, ok := accountUUID(c)
	if !ok {
		return
	}

	seriesUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid series ID format")
		return
	}

	if err := sc.Series.CancelSeries(c.Request.Context(), accountID, seriesUUID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Series cancelled"})
}
