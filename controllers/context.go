// controllers/context.go
package controllers

import (
	"net/http"

	"bookflow-backend/services"
	"bookflow-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// accountUUID pulls the authenticated account id off the gin context.
// Writes the error response itself when the token is missing or malformed.
func accountUUID(c *gin.Context) (uuid.UUID, bool) {
	accountID, exists := c.Get("accountId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Account ID not found in context")
		return uuid.Nil, false
	}

	id, err := uuid.Parse(accountID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid account ID format")
		return uuid.Nil, false
	}
	return id, true
}

// respondServiceError maps the service error taxonomy onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch services.KindOf(err) {
	case services.ErrValidation:
		status = http.StatusBadRequest
	case services.ErrNotFound:
		status = http.StatusNotFound
	case services.ErrTransport:
		status = http.StatusBadGateway
	}
	utils.RespondWithError(c, status, err.Error())
}
