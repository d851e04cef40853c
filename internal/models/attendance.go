package models

import "time"

// Attendance tracks one participant's day at a session. Clock-in must
// precede clock-out; both happen at most once per (participant, session,
// date). Certificate eligibility requires at least one row with a non-null
// clock_out.
type Attendance struct {
	ID            string `json:"id" gorm:"primaryKey;size:36"`
	ParticipantID string `json:"participant_id" gorm:"not null;size:36;uniqueIndex:idx_attendance_day"`
	SessionID     string `json:"session_id" gorm:"not null;size:36;uniqueIndex:idx_attendance_day;index"`
	Date          string `json:"date" gorm:"not null;size:10;uniqueIndex:idx_attendance_day"`

	ClockIn  *string `json:"clock_in" gorm:"size:30"`
	ClockOut *string `json:"clock_out" gorm:"size:30"`

	CreatedAt time.Time `json:"created_at"`
}

func (Attendance) TableName() string {
	return "attendance"
}
