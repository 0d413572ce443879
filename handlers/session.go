package handlers

import (
	"net/http"

	"mentorhub/models"

	"github.com/gin-gonic/gin"
)

// BookSessionHandler books a session for the calling mentee and charges the
// agreed price in one request.
func (hb *HandlerBundle) BookSessionHandler(c *gin.Context) {
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	req.MenteeID = c.GetString("accountID")

	booked, txn, err := hb.Sessions.Book(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"session":     booked,
		"transaction": txn,
	})
}

// TransitionSessionHandler moves a session along its lifecycle.
func (hb *HandlerBundle) TransitionSessionHandler(c *gin.Context) {
	var req models.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	result, err := hb.Sessions.Transition(c.Request.Context(), c.Param("sessionID"), c.GetString("accountID"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetSessionHandler returns a single session for one of its participants.
func (hb *HandlerBundle) GetSessionHandler(c *gin.Context) {
	s, err := hb.Sessions.GetByID(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		respondError(c, err)
		return
	}
	callerID := c.GetString("accountID")
	if callerID != s.MentorID && callerID != s.MenteeID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a participant of this session"})
		return
	}
	c.JSON(http.StatusOK, s)
}

// MentorScheduleHandler returns a mentor's blocking sessions as calendar-safe
// busy windows, so mentees can see occupied slots before booking.
func (hb *HandlerBundle) MentorScheduleHandler(c *gin.Context) {
	sessions, err := hb.Sessions.ListByMentor(c.Request.Context(), c.Param("mentorID"))
	if err != nil {
		respondError(c, err)
		return
	}
	busy := make([]models.PublicSessionData, 0, len(sessions))
	for i := range sessions {
		if sessions[i].IsBlocking() {
			busy = append(busy, sessions[i].Public())
		}
	}
	c.JSON(http.StatusOK, gin.H{"schedule": busy})
}

// ListMySessionsHandler returns the caller's sessions in the requested role.
func (hb *HandlerBundle) ListMySessionsHandler(c *gin.Context) {
	callerID := c.GetString("accountID")

	var (
		sessions []models.Session
		err      error
	)
	if c.Query("as") == models.RoleMentor {
		sessions, err = hb.Sessions.ListByMentor(c.Request.Context(), callerID)
	} else {
		sessions, err = hb.Sessions.ListByMentee(c.Request.Context(), callerID)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}
