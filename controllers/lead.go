// controllers/lead.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"bookflow-backend/models"
	"bookflow-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateLeadInput defines the expected JSON structure for creating a lead
type CreateLeadInput struct {
	Name        string  `json:"name" binding:"required"`
	Phone       string  `json:"phone" binding:"required"`
	Email       *string `json:"email"`
	Source      string  `json:"source"`
	QuotedTotal *int64  `json:"quotedTotal"` // minor currency units
	Notes       string  `json:"notes"`
}

// UpdateLeadInput defines the expected JSON structure for updating a lead
type UpdateLeadInput struct {
	Name        *string    `json:"name"`
	Phone       *string    `json:"phone"`
	Email       *string    `json:"email"`
	Source      *string    `json:"source"`
	Status      *string    `json:"status" binding:"omitempty,oneof=new contacted quoted converted lost"`
	QuotedTotal *int64     `json:"quotedTotal"`
	Notes       *string    `json:"notes"`
	LastContact *time.Time `json:"lastContact"`
	IsActive    *bool      `json:"isActive"`
}

type LeadController struct {
	DB *gorm.DB
}

func NewLeadController(db *gorm.DB) *LeadController {
	return &LeadController{DB: db}
}

// CreateLead creates a new lead for the account
func (lc *LeadController) CreateLead(c *gin.Context) {
	accountID, ok := accountUUID(c)
	if !ok {
		return
	}

	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	var input CreateLeadInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	if input.QuotedTotal != nil && *input.QuotedTotal <= 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "Quoted total must be positive")
		return
	}

	// Check if phone already exists for this account
	var existingLead models.Lead
	if err := lc.DB.Where("account_id = ? AND phone = ?", accountID, input.Phone).
		First(&existingLead).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Lead with this phone number already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	lead := models.Lead{
		ID:              uuid.New(),
		AccountID:       accountID,
		CreatedByUserID: uuid.MustParse(userID.(string)),
		Name:            input.Name,
		Phone:           input.Phone,
		Source:          input.Source,
		Status:          models.LeadStatusNew,
		QuotedTotal:     input.QuotedTotal,
		Notes:           input.Notes,
		IsActive:        true,
	}

	if input.Email != nil {
		lead.Email = *input.Email
	}

	if err := lc.DB.Create(&lead).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create lead")
		return
	}

	c.JSON(http.StatusCreated, lead)
}

// GetLeads retrieves all leads for the account, optionally filtered by status
func (lc *LeadController) GetLeads(c *gin.Context) {
	accountID, ok := accountUUID(c)
	if !ok {
		return
	}

	query := lc.DB.Where("account_id = ?", accountID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var leads []models.Lead
	if err := query.Order("created_at DESC").Find(&leads).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve leads")
		return
	}

	c.JSON(http.StatusOK, leads)
}

// GetLead retrieves a specific lead by ID
func (lc *LeadController) GetLead(c *gin.Context) {
	accountID, ok := accountUUID(c)
	if !ok {
		return
	}

	leadUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid lead ID format")
		return
	}

	var lead models.Lead
	if err := lc.DB.Preload("Series").
		Where("account_id = ? AND id = ?", accountID, leadUUID).
		First(&lead).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Lead not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, lead)
}

// UpdateLead updates an existing lead
func (lc *LeadController) UpdateLead(c *gin.Context) {
	accountID, ok := accountUUID(c)
	if !ok {
		return
	}

	leadUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid lead ID format")
		return
	}

	var input UpdateLeadInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var lead models.Lead
	if err := lc.DB.Where("account_id = ? AND id = ?", accountID, leadUUID).
		First(&lead).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Lead not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Phone != nil {
		if !utils.ValidatePhone(*input.Phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
			return
		}
		lead.Phone = *input.Phone
	}
	if input.Name != nil {
		lead.Name = *input.Name
	}
	if input.Email != nil {
		lead.Email = *input.Email
	}
	if input.Source != nil {
		lead.Source = *input.Source
	}
	if input.Status != nil {
		lead.Status = *input.Status
	}
	if input.QuotedTotal != nil {
		if *input.QuotedTotal <= 0 {
			utils.RespondWithError(c, http.StatusBadRequest, "Quoted total must be positive")
			return
		}
		lead.QuotedTotal = input.QuotedTotal
	}
	if input.Notes != nil {
		lead.Notes = *input.Notes
	}
	if input.LastContact != nil {
		lead.LastContact = input.LastContact
	}
	if input.IsActive != nil {
		lead.IsActive = *input.IsActive
	}

	if err := lc.DB.Save(&lead).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update lead")
		return
	}

	c.JSON(http.StatusOK, lead)
}

// DeleteLead soft deletes a lead
func (lc *LeadController) DeleteLead(c *gin.Context) {
	accountID, ok := accountUUID(c)
	if !ok {
		return
	}

	leadUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid lead ID format")
		return
	}

	result := lc.DB.Where("account_id = ? AND id = ?", accountID, leadUUID).
		Delete(&models.Lead{})

	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete lead")
		return
	}

	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Lead not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Lead deleted successfully"})
}
