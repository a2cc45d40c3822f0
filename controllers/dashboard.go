// controllers/dashboard.go
package controllers

import (
	"net/http"
	"time"

	"bookflow-backend/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type DashboardOverview struct {
	TotalLeads          int64                      `json:"totalLeads"`
	ConvertedLeads      int64                      `json:"convertedLeads"`
	ActiveSeries        int64                      `json:"activeSeries"`
	UpcomingOccurrences int64                      `json:"upcomingOccurrences"` // next 7 days
	CollectedThisMonth  int64                      `json:"collectedThisMonth"`  // minor currency units
	AwaitingPayment     []models.BookingOccurrence `json:"awaitingPayment"`
}

type DashboardController struct {
	DB *gorm.DB
}

func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{DB: db}
}

// GetOverview is the operational review surface: what's coming up, what's
// been done but not paid for, and what's been collected this month.
func (dc *DashboardController) GetOverview(c *gin.Context) {
	accountID, ok := accountUUID(c)
	if !ok {
		return
	}

	var overview DashboardOverview
	now := time.Now()

	dc.DB.Model(&models.Lead{}).
		Where("account_id = ?", accountID).
		Count(&overview.TotalLeads)

	dc.DB.Model(&models.Lead{}).
		Where("account_id = ? AND status = ?", accountID, models.LeadStatusConverted).
		Count(&overview.ConvertedLeads)

	dc.DB.Model(&models.BookingSeries{}).
		Where("account_id = ? AND status = ?", accountID, models.SeriesStatusActive).
		Count(&overview.ActiveSeries)

	dc.DB.Model(&models.BookingOccurrence{}).
		Where("account_id = ? AND status = ? AND starts_at BETWEEN ? AND ?",
			accountID, models.OccurrenceStatusScheduled, now, now.AddDate(0, 0, 7)).
		Count(&overview.UpcomingOccurrences)

	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	dc.DB.Model(&models.BookingOccurrence{}).
		Where("account_id = ? AND payment_status = ? AND paid_at >= ?",
			accountID, models.PaymentStatusPaid, firstOfMonth).
		Select("COALESCE(SUM(payment_amount), 0)").
		Scan(&overview.CollectedThisMonth)

	if err := dc.DB.
		Where("account_id = ? AND status = ? AND payment_status <> ?",
			accountID, models.OccurrenceStatusCompleted, models.PaymentStatusPaid).
		Order("starts_at").
		Limit(20).
		Find(&overview.AwaitingPayment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load awaiting-payment list"})
		return
	}

	c.JSON(http.StatusOK, overview)
}
