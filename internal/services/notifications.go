package services

import (
	"log"
	"time"
)

// NotificationGateway pushes an event to one recipient on a named channel.
// Delivery is best-effort: lifecycle and ledger outcomes never depend on it.
type NotificationGateway interface {
	Publish(channel string, userID int64, payload any) error
}

// Notification types carried on the "sessions" channel.
const (
	NotifyRequest            = "REQUEST"
	NotifyAccepted           = "ACCEPTED"
	NotifyDeclined           = "DECLINED"
	NotifyStarted            = "STARTED"
	NotifyCancelledByMentor  = "CANCELLED_BY_MENTOR"
	NotifyCancelledByLearner = "CANCELLED_BY_LEARNER"
)

const actionOpenFeedbackForm = "OPEN_FEEDBACK_FORM"

// SessionEvent is the payload for session lifecycle notifications.
type SessionEvent struct {
	SessionID        int64     `json:"session_id"`
	MentorID         int64     `json:"mentor_id"`
	LearnerID        int64     `json:"learner_id"`
	MentorName       string    `json:"mentor_name"`
	LearnerName      string    `json:"learner_name"`
	SkillName        string    `json:"skill_name"`
	ScheduledTime    time.Time `json:"scheduled_time"`
	DurationMinutes  int       `json:"duration_minutes"`
	NotificationType string    `json:"notification_type"`
	Actionable       bool      `json:"actionable"`
	Action           string    `json:"action,omitempty"`
	Message          string    `json:"message"`
}

// MatchEvent is the payload for the "matches" channel.
type MatchEvent struct {
	LearnerID  int64  `json:"learner_id"`
	MentorID   int64  `json:"mentor_id"`
	MentorName string `json:"mentor_name"`
	SkillName  string `json:"skill_name"`
	Message    string `json:"message"`
}

// publish sends fire-and-forget: a failed delivery is logged and swallowed
// because the state change it announces has already committed.
func publish(gateway NotificationGateway, channel string, userID int64, payload any) {
	if gateway == nil {
		return
	}
	if err := gateway.Publish(channel, userID, payload); err != nil {
		log.Printf("failed to publish %s notification to user %d: %v", channel, userID, err)
	}
}
