package models

import "time"

const (
	SessionRequested  = "REQUESTED"
	SessionAccepted   = "ACCEPTED"
	SessionLive       = "LIVE"
	SessionInProgress = "IN_PROGRESS"
	SessionCompleted  = "COMPLETED"
	SessionCancelled  = "CANCELLED"
)

const (
	RoleMentor  = "MENTOR"
	RoleLearner = "LEARNER"
)

const (
	ParticipantInvited = "INVITED"
	ParticipantJoined  = "JOINED"
	ParticipantLeft    = "LEFT"
)

// Session is the aggregate root. Participants are always loaded with it so
// lifecycle decisions never depend on a lazy association.
type Session struct {
	ID                 int64                `json:"id"`
	SkillID            int64                `json:"skill_id"`
	Agenda             *string              `json:"agenda"`
	Status             string               `json:"status"`
	ScheduledTime      time.Time            `json:"scheduled_time"`
	DurationMinutes    int                  `json:"duration_minutes"`
	LearningOutcomes   *string              `json:"learning_outcomes"`
	SessionType        string               `json:"session_type"`
	CancelledBy        *int64               `json:"cancelled_by"`
	CancellationReason *string              `json:"cancellation_reason"`
	Participants       []SessionParticipant `json:"participants"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at"`
}

type SessionParticipant struct {
	ID        int64      `json:"id"`
	SessionID int64      `json:"session_id"`
	UserID    int64      `json:"user_id"`
	Username  string     `json:"username"`
	Role      string     `json:"role"`
	Status    string     `json:"status"`
	JoinedAt  *time.Time `json:"joined_at"`
	LeftAt    *time.Time `json:"left_at"`
}

// Mentor returns the mentor participant, if the roster has one.
func (s *Session) Mentor() *SessionParticipant {
	for i := range s.Participants {
		if s.Participants[i].Role == RoleMentor {
			return &s.Participants[i]
		}
	}
	return nil
}

// Learner returns the first learner participant. Group sessions have more;
// the booking learner is inserted first.
func (s *Session) Learner() *SessionParticipant {
	for i := range s.Participants {
		if s.Participants[i].Role == RoleLearner {
			return &s.Participants[i]
		}
	}
	return nil
}

func (s *Session) LearnerByUserID(userID int64) *SessionParticipant {
	for i := range s.Participants {
		if s.Participants[i].Role == RoleLearner && s.Participants[i].UserID == userID {
			return &s.Participants[i]
		}
	}
	return nil
}

func (s *Session) Terminal() bool {
	return s.Status == SessionCompleted || s.Status == SessionCancelled
}

// SessionDetail is the outward session shape, enriched with participant
// names, the skill name and the mentor's availability window.
type SessionDetail struct {
	Session
	MentorID           *int64        `json:"mentor_id"`
	MentorName         string        `json:"mentor_name"`
	LearnerID          *int64        `json:"learner_id"`
	LearnerName        string        `json:"learner_name"`
	SkillName          string        `json:"skill_name"`
	MentorAvailability *Availability `json:"mentor_availability,omitempty"`
}
