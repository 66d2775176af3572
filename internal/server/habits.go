package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mesh-intelligence/habits/pkg/types"
)

func (s *Server) listHabits(c *gin.Context) {
	habits, err := s.store.ListHabits(c.Request.Context())
	if err != nil {
		s.respondError(c, "list habits", err)
		return
	}
	c.JSON(http.StatusOK, habits)
}

func (s *Server) createHabit(c *gin.Context) {
	var in types.HabitInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, msgInvalidBody)
		return
	}

	habit, err := s.store.CreateHabit(c.Request.Context(), in)
	if err != nil {
		s.respondError(c, "create habit", err)
		return
	}
	c.JSON(http.StatusOK, habit)
}

func (s *Server) updateHabit(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in types.HabitInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, msgInvalidBody)
		return
	}

	if err := s.store.UpdateHabit(c.Request.Context(), id, in); err != nil {
		s.respondError(c, "update habit", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) deleteHabit(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := s.store.DeleteHabit(c.Request.Context(), id); err != nil {
		s.respondError(c, "delete habit", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// pathID parses a positive integer path parameter. On failure it writes a
// 400 response and returns false.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, msgInvalidHabitID)
		return 0, false
	}
	return id, true
}
