package models

import "time"

// AvailabilitySlot is a mentor-authored weekly recurring availability window.
// Times are wall-clock "HH:MM" strings; DayOfWeek follows time.Weekday (0 = Sunday).
type AvailabilitySlot struct {
	ID        string    `bson:"id" json:"id"`
	MentorID  string    `bson:"mentor_id" json:"mentorId"`
	DayOfWeek int       `bson:"day_of_week" json:"dayOfWeek"`
	StartTime string    `bson:"start_time" json:"startTime"`
	EndTime   string    `bson:"end_time" json:"endTime"`
	IsActive  bool      `bson:"is_active" json:"isActive"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// CreateAvailabilityRequest is the payload for adding a weekly slot.
type CreateAvailabilityRequest struct {
	DayOfWeek *int   `json:"dayOfWeek" binding:"required"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
}
