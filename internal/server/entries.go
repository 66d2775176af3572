package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mesh-intelligence/habits/pkg/types"
)

// entryRequest is the body of POST /api/entries.
type entryRequest struct {
	HabitID int64  `json:"habit_id"`
	Date    string `json:"date"`
	Value   string `json:"value"`
}

func (s *Server) entriesForDate(c *gin.Context) {
	entries, err := s.store.EntriesForDate(c.Request.Context(), c.Param("date"))
	if err != nil {
		s.respondError(c, "entries for date", err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (s *Server) entriesForMonth(c *gin.Context) {
	year, yerr := strconv.Atoi(c.Param("year"))
	month, merr := strconv.Atoi(c.Param("month"))
	if yerr != nil || merr != nil {
		badRequest(c, types.ErrInvalidMonth.Error())
		return
	}

	entries, err := s.store.EntriesForMonth(c.Request.Context(), year, month)
	if err != nil {
		s.respondError(c, "entries for month", err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (s *Server) upsertEntry(c *gin.Context) {
	var req entryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, msgInvalidBody)
		return
	}

	err := s.store.UpsertEntry(c.Request.Context(), types.HabitEntry{
		HabitID: req.HabitID,
		Date:    req.Date,
		Value:   req.Value,
	})
	if err != nil {
		s.respondError(c, "upsert entry", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) deleteEntry(c *gin.Context) {
	habitID, ok := pathID(c, "habit_id")
	if !ok {
		return
	}

	if err := s.store.DeleteEntry(c.Request.Context(), habitID, c.Param("date")); err != nil {
		s.respondError(c, "delete entry", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
