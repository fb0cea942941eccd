package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/Sourabh-codesjava/Talent-Tandem/internal/models"
	"github.com/Sourabh-codesjava/Talent-Tandem/internal/repository"
	"github.com/jackc/pgx/v5"
)

// ParticipantService manages session rosters outside the booking flow:
// participants added here enter as JOINED immediately, and removals notify
// the removed user before the record is deleted.
type ParticipantService struct {
	sessionRepo *repository.SessionRepository
	userRepo    sessionUserReader
	notifier    NotificationGateway
}

func NewParticipantService(
	sessionRepo *repository.SessionRepository,
	userRepo sessionUserReader,
	notifier NotificationGateway,
) *ParticipantService {
	return &ParticipantService{sessionRepo: sessionRepo, userRepo: userRepo, notifier: notifier}
}

// AddParticipants adds each user to the session as a JOINED learner and
// notifies them. A user already on the roster is skipped, not an error.
func (s *ParticipantService) AddParticipants(ctx context.Context, sessionID int64, userIDs []int64) ([]models.SessionParticipant, error) {
	if len(userIDs) == 0 {
		return nil, ErrInvalidInput
	}

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}
	if session.Terminal() {
		return nil, ErrIllegalState
	}

	existing := make(map[int64]struct{}, len(session.Participants))
	for _, p := range session.Participants {
		existing[p.UserID] = struct{}{}
	}

	added := make([]models.SessionParticipant, 0, len(userIDs))
	for _, userID := range userIDs {
		if _, ok := existing[userID]; ok {
			continue
		}

		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrResourceNotFound
			}
			return nil, err
		}

		participant, err := s.sessionRepo.AddParticipant(ctx, sessionID, userID, models.RoleLearner, models.ParticipantJoined)
		if err != nil {
			return nil, err
		}
		participant.Username = user.Username
		added = append(added, *participant)
		existing[userID] = struct{}{}
		log.Printf("user %d added to session %d roster", userID, sessionID)

		publish(s.notifier, "sessions", userID, SessionEvent{
			SessionID:       sessionID,
			LearnerID:       userID,
			LearnerName:     user.Username,
			ScheduledTime:   session.ScheduledTime,
			DurationMinutes: session.DurationMinutes,
			Actionable:      false,
			Message:         fmt.Sprintf("You have been added to session %d", sessionID),
		})
	}

	return added, nil
}

// RemoveParticipant notifies the user, then deletes their roster record.
func (s *ParticipantService) RemoveParticipant(ctx context.Context, sessionID, participantID int64) error {
	participant, err := s.sessionRepo.GetParticipant(ctx, participantID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrResourceNotFound
		}
		return err
	}
	if participant.SessionID != sessionID {
		return ErrResourceNotFound
	}

	publish(s.notifier, "sessions", participant.UserID, SessionEvent{
		SessionID:   sessionID,
		LearnerID:   participant.UserID,
		LearnerName: participant.Username,
		Actionable:  false,
		Message:     fmt.Sprintf("You have been removed from session %d", sessionID),
	})

	if err := s.sessionRepo.DeleteParticipant(ctx, participantID); err != nil {
		return err
	}
	log.Printf("participant %d removed from session %d", participantID, sessionID)
	return nil
}

func (s *ParticipantService) ListParticipants(ctx context.Context, sessionID int64) ([]models.SessionParticipant, error) {
	if _, err := s.sessionRepo.GetByID(ctx, sessionID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}
	return s.sessionRepo.ListParticipants(ctx, sessionID)
}

func (s *ParticipantService) ListUserParticipations(ctx context.Context, userID int64) ([]models.SessionParticipant, error) {
	return s.sessionRepo.ListParticipationsByUserID(ctx, userID)
}
