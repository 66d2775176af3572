package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/habits/pkg/types"
)

// Client-facing messages.
const (
	msgInvalidBody    = "Invalid request body"
	msgInvalidHabitID = "Invalid habit id"
	msgNotFound       = "Habit not found"
	msgDuplicateEntry = "Duplicate entry prevented"
	msgNoFileUploaded = "No file uploaded"
	msgNoFileSelected = "No file selected"
	msgInternal       = "Internal server error"
)

// respondError maps a store error to a status code and JSON error body.
// Unexpected errors are logged and hidden behind a generic message.
func (s *Server) respondError(c *gin.Context, op string, err error) {
	switch {
	case types.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, types.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
	case errors.Is(err, types.ErrEntryRejected):
		s.logger.Warn(op+": entry rejected", zap.Error(err), zap.String(requestIDKey, c.GetString(requestIDKey)))
		c.JSON(http.StatusBadRequest, gin.H{"error": msgDuplicateEntry})
	default:
		s.logger.Error(op+" failed", zap.Error(err), zap.String(requestIDKey, c.GetString(requestIDKey)))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
	}
}

// badRequest aborts with a 400 and the given message.
func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
