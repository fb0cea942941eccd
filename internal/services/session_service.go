package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Sourabh-codesjava/Talent-Tandem/internal/models"
	"github.com/Sourabh-codesjava/Talent-Tandem/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SessionCoinCost is the flat price of a session: debited from the booking
// learner up front, credited to the mentor at completion.
const SessionCoinCost = 10

const (
	SessionTypeOneToOne = "ONE_TO_ONE"
	SessionTypeGroup    = "GROUP"
)

type sessionUserReader interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

type skillReader interface {
	GetByID(ctx context.Context, skillID int64) (*models.Skill, error)
}

type availabilityReader interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Availability, error)
}

type SessionService struct {
	db               *pgxpool.Pool
	sessionRepo      *repository.SessionRepository
	walletRepo       *repository.WalletRepository
	userRepo         sessionUserReader
	skillRepo        skillReader
	availabilityRepo availabilityReader
	notifier         NotificationGateway
}

func NewSessionService(
	db *pgxpool.Pool,
	sessionRepo *repository.SessionRepository,
	walletRepo *repository.WalletRepository,
	userRepo sessionUserReader,
	skillRepo skillReader,
	availabilityRepo availabilityReader,
	notifier NotificationGateway,
) *SessionService {
	return &SessionService{
		db:               db,
		sessionRepo:      sessionRepo,
		walletRepo:       walletRepo,
		userRepo:         userRepo,
		skillRepo:        skillRepo,
		availabilityRepo: availabilityRepo,
		notifier:         notifier,
	}
}

type BookSessionInput struct {
	MentorID         int64
	SkillID          int64
	LearnerID        int64
	LearnerIDs       []int64
	Agenda           *string
	ScheduledTime    time.Time
	DurationMinutes  int
	LearningOutcomes *string
	SessionType      string
}

// BookSession debits the booking learner and creates the REQUESTED session
// with its roster in one transaction: either the coins move and the session
// exists, or neither happened.
func (s *SessionService) BookSession(ctx context.Context, input BookSessionInput) (*models.SessionDetail, error) {
	if input.MentorID <= 0 || input.SkillID <= 0 || input.DurationMinutes <= 0 {
		return nil, ErrInvalidInput
	}

	sessionType := strings.ToUpper(strings.TrimSpace(input.SessionType))
	if sessionType == "" {
		sessionType = SessionTypeOneToOne
	}

	learnerIDs := input.LearnerIDs
	if sessionType != SessionTypeGroup || len(learnerIDs) == 0 {
		if input.LearnerID <= 0 {
			return nil, ErrInvalidInput
		}
		learnerIDs = []int64{input.LearnerID}
	}
	payingLearnerID := learnerIDs[0]

	if _, err := s.userRepo.GetByID(ctx, input.MentorID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}
	if _, err := s.skillRepo.GetByID(ctx, input.SkillID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}
	for _, learnerID := range learnerIDs {
		if _, err := s.userRepo.GetByID(ctx, learnerID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrResourceNotFound
			}
			return nil, err
		}
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txSessionRepo := repository.NewSessionRepository(tx)
	txWalletRepo := repository.NewWalletRepository(tx)

	if _, err := txWalletRepo.DebitIfSufficient(ctx, payingLearnerID, SessionCoinCost); err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		if _, err := txWalletRepo.GetByUserID(ctx, payingLearnerID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrResourceNotFound
			}
			return nil, err
		}
		return nil, ErrInsufficientCoins
	}
	log.Printf("debited %d coins from learner %d for booking", SessionCoinCost, payingLearnerID)

	session, err := txSessionRepo.Create(ctx, repository.CreateSessionInput{
		SkillID:          input.SkillID,
		Agenda:           input.Agenda,
		ScheduledTime:    input.ScheduledTime,
		DurationMinutes:  input.DurationMinutes,
		LearningOutcomes: input.LearningOutcomes,
		SessionType:      sessionType,
	})
	if err != nil {
		return nil, err
	}

	if _, err := txSessionRepo.AddParticipant(ctx, session.ID, input.MentorID, models.RoleMentor, models.ParticipantInvited); err != nil {
		return nil, err
	}
	for _, learnerID := range learnerIDs {
		if _, err := txSessionRepo.AddParticipant(ctx, session.ID, learnerID, models.RoleLearner, models.ParticipantInvited); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	detail, err := s.GetSession(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	publish(s.notifier, "sessions", input.MentorID, SessionEvent{
		SessionID:        detail.ID,
		MentorID:         input.MentorID,
		LearnerID:        payingLearnerID,
		MentorName:       detail.MentorName,
		LearnerName:      detail.LearnerName,
		SkillName:        detail.SkillName,
		ScheduledTime:    detail.ScheduledTime,
		DurationMinutes:  detail.DurationMinutes,
		NotificationType: NotifyRequest,
		Actionable:       true,
		Message:          fmt.Sprintf("New session request from %s for %s", detail.LearnerName, detail.SkillName),
	})

	return detail, nil
}

// SetStatus is the generic accept/decline path used by the mentor on a
// REQUESTED session. It moves no coins: a decline through here leaves the
// learner's booking debit in place, unlike the dedicated cancel operations.
func (s *SessionService) SetStatus(ctx context.Context, sessionID int64, requestedStatus string) (*models.SessionDetail, error) {
	nextStatus, err := normalizeSessionStatus(requestedStatus)
	if err != nil {
		return nil, err
	}

	if _, err := s.sessionRepo.UpdateStatusIfCurrent(ctx, sessionID, models.SessionRequested, nextStatus); err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		if _, err := s.sessionRepo.GetByID(ctx, sessionID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrResourceNotFound
			}
			return nil, err
		}
		return nil, ErrIllegalState
	}

	detail, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if detail.LearnerID != nil {
		event := SessionEvent{
			SessionID:     detail.ID,
			LearnerID:     *detail.LearnerID,
			MentorName:    detail.MentorName,
			LearnerName:   detail.LearnerName,
			SkillName:     detail.SkillName,
			ScheduledTime: detail.ScheduledTime,
			Actionable:    false,
		}
		if detail.MentorID != nil {
			event.MentorID = *detail.MentorID
		}
		if nextStatus == models.SessionAccepted {
			event.NotificationType = NotifyAccepted
			event.Message = fmt.Sprintf("Your session has been accepted by %s!", detail.MentorName)
		} else {
			event.NotificationType = NotifyDeclined
			event.Message = fmt.Sprintf("Your session request was declined by %s", detail.MentorName)
		}
		publish(s.notifier, "sessions", *detail.LearnerID, event)
	}

	return detail, nil
}

type StartSessionResult struct {
	SessionID int64  `json:"session_id"`
	Status    string `json:"status"`
	Message   string `json:"message"`
}

// StartSession moves an ACCEPTED session to LIVE. Only the session's mentor
// may start it; no coins move.
func (s *SessionService) StartSession(ctx context.Context, sessionID int64, actingUserID int64) (*StartSessionResult, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Status != models.SessionAccepted {
		return nil, ErrIllegalState
	}

	mentor := session.Mentor()
	if mentor == nil {
		return nil, ErrResourceNotFound
	}
	if mentor.UserID != actingUserID {
		return nil, ErrUnauthorized
	}

	if _, err := s.sessionRepo.UpdateStatusIfCurrent(ctx, sessionID, models.SessionAccepted, models.SessionLive); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrIllegalState
		}
		return nil, err
	}
	log.Printf("session %d marked as LIVE by mentor %d", sessionID, actingUserID)

	for i := range session.Participants {
		p := &session.Participants[i]
		counterpart := mentor.Username
		if p.Role == models.RoleMentor {
			if learner := session.Learner(); learner != nil {
				counterpart = learner.Username
			}
		}
		publish(s.notifier, "sessions", p.UserID, SessionEvent{
			SessionID:        sessionID,
			MentorID:         mentor.UserID,
			LearnerID:        p.UserID,
			MentorName:       mentor.Username,
			LearnerName:      p.Username,
			ScheduledTime:    session.ScheduledTime,
			DurationMinutes:  session.DurationMinutes,
			NotificationType: NotifyStarted,
			Actionable:       true,
			Message:          fmt.Sprintf("Your session with %s has started!", counterpart),
		})
	}

	return &StartSessionResult{
		SessionID: sessionID,
		Status:    models.SessionLive,
		Message:   "Session started successfully.",
	}, nil
}

type JoinSessionResult struct {
	SessionID          int64  `json:"session_id"`
	LearnerCoins       int    `json:"learner_coins"`
	ForceBecomeTeacher bool   `json:"force_become_teacher"`
	Message            string `json:"message"`
}

// JoinSession marks the learner's participant record JOINED. Idempotent: a
// second join returns the current wallet snapshot with no side effects. The
// coins were collected at booking, so none move here.
func (s *SessionService) JoinSession(ctx context.Context, sessionID int64, actingUserID int64) (*JoinSessionResult, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	participant := session.LearnerByUserID(actingUserID)
	if participant == nil {
		return nil, ErrResourceNotFound
	}

	if participant.Status == models.ParticipantJoined {
		coins, err := s.walletCoins(ctx, actingUserID)
		if err != nil {
			return nil, err
		}
		return &JoinSessionResult{
			SessionID:          sessionID,
			LearnerCoins:       coins,
			ForceBecomeTeacher: false,
			Message:            "Already joined this session",
		}, nil
	}

	if _, err := s.sessionRepo.MarkParticipantJoined(ctx, participant.ID); err != nil {
		return nil, err
	}
	log.Printf("learner %d joined session %d", actingUserID, sessionID)

	coins, err := s.walletCoins(ctx, actingUserID)
	if err != nil {
		return nil, err
	}

	return &JoinSessionResult{
		SessionID:          sessionID,
		LearnerCoins:       coins,
		ForceBecomeTeacher: coins == 0,
		Message:            "Session joined successfully.",
	}, nil
}

type CompleteSessionResult struct {
	LearnerCoins       int    `json:"learner_coins"`
	MentorCoins        int    `json:"mentor_coins"`
	ForceBecomeTeacher bool   `json:"force_become_teacher"`
	Message            string `json:"message"`
}

// CompleteSession credits the session cost to the mentor and terminalizes
// the session, both inside one transaction.
func (s *SessionService) CompleteSession(ctx context.Context, sessionID int64, actingUserID int64) (*CompleteSessionResult, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txSessionRepo := repository.NewSessionRepository(tx)
	txWalletRepo := repository.NewWalletRepository(tx)

	session, err := txSessionRepo.GetByIDForUpdate(ctx, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}
	if session.Terminal() {
		return nil, ErrIllegalState
	}

	mentor := session.Mentor()
	if mentor == nil {
		return nil, ErrResourceNotFound
	}
	if mentor.UserID != actingUserID {
		return nil, ErrUnauthorized
	}
	learner := session.Learner()
	if learner == nil {
		return nil, ErrResourceNotFound
	}

	if _, err := txWalletRepo.Credit(ctx, mentor.UserID, SessionCoinCost); err != nil {
		return nil, err
	}
	if _, err := txSessionRepo.UpdateStatusIfCurrent(ctx, sessionID, session.Status, models.SessionCompleted); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrIllegalState
		}
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	log.Printf("session %d completed, %d coins credited to mentor %d", sessionID, SessionCoinCost, mentor.UserID)

	publish(s.notifier, "feedback", learner.UserID, SessionEvent{
		SessionID:   sessionID,
		MentorID:    mentor.UserID,
		LearnerID:   learner.UserID,
		MentorName:  mentor.Username,
		LearnerName: learner.Username,
		Actionable:  true,
		Action:      actionOpenFeedbackForm,
		Message:     "Session completed! Please provide feedback.",
	})

	learnerCoins, err := s.walletCoins(ctx, learner.UserID)
	if err != nil {
		return nil, err
	}
	mentorCoins, err := s.walletCoins(ctx, mentor.UserID)
	if err != nil {
		return nil, err
	}

	return &CompleteSessionResult{
		LearnerCoins:       learnerCoins,
		MentorCoins:        mentorCoins,
		ForceBecomeTeacher: learnerCoins == 0,
		Message:            fmt.Sprintf("Session completed successfully. %d coins transferred to mentor.", SessionCoinCost),
	}, nil
}

// CancelSessionByMentor refunds the learner in full and terminalizes the
// session. Refund and status change commit together.
func (s *SessionService) CancelSessionByMentor(ctx context.Context, sessionID int64, actingUserID int64) (*models.SessionDetail, error) {
	return s.cancelSession(ctx, sessionID, actingUserID, models.RoleMentor)
}

// CancelSessionByLearner mirrors CancelSessionByMentor with the learner as
// the acting party. The refund policy is the same: no penalty.
func (s *SessionService) CancelSessionByLearner(ctx context.Context, sessionID int64, actingUserID int64) (*models.SessionDetail, error) {
	return s.cancelSession(ctx, sessionID, actingUserID, models.RoleLearner)
}

func (s *SessionService) cancelSession(ctx context.Context, sessionID int64, actingUserID int64, actingRole string) (*models.SessionDetail, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txSessionRepo := repository.NewSessionRepository(tx)
	txWalletRepo := repository.NewWalletRepository(tx)

	session, err := txSessionRepo.GetByIDForUpdate(ctx, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}
	if session.Terminal() {
		return nil, ErrIllegalState
	}

	mentor := session.Mentor()
	learner := session.Learner()
	if mentor == nil || learner == nil {
		return nil, ErrResourceNotFound
	}

	var reason string
	var notifyUserID int64
	var notificationType string
	var message string
	switch actingRole {
	case models.RoleMentor:
		if mentor.UserID != actingUserID {
			return nil, ErrUnauthorized
		}
		reason = "Cancelled by mentor"
		notifyUserID = learner.UserID
		notificationType = NotifyCancelledByMentor
		message = fmt.Sprintf("Session cancelled by mentor. %d coins refunded to your wallet.", SessionCoinCost)
	case models.RoleLearner:
		if learner.UserID != actingUserID {
			return nil, ErrUnauthorized
		}
		reason = "Cancelled by learner"
		notifyUserID = mentor.UserID
		notificationType = NotifyCancelledByLearner
		message = fmt.Sprintf("Session cancelled by %s. %d coins refunded.", learner.Username, SessionCoinCost)
	default:
		return nil, ErrInvalidInput
	}

	if _, err := txWalletRepo.Credit(ctx, learner.UserID, SessionCoinCost); err != nil {
		return nil, err
	}
	if _, err := txSessionRepo.Cancel(ctx, sessionID, actingUserID, reason); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrIllegalState
		}
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	log.Printf("session %d cancelled by %s %d, %d coins refunded to learner %d",
		sessionID, strings.ToLower(actingRole), actingUserID, SessionCoinCost, learner.UserID)

	publish(s.notifier, "sessions", notifyUserID, SessionEvent{
		SessionID:        sessionID,
		MentorID:         mentor.UserID,
		LearnerID:        learner.UserID,
		MentorName:       mentor.Username,
		LearnerName:      learner.Username,
		ScheduledTime:    session.ScheduledTime,
		NotificationType: notificationType,
		Actionable:       false,
		Message:          message,
	})

	return s.GetSession(ctx, sessionID)
}

func (s *SessionService) GetSession(ctx context.Context, sessionID int64) (*models.SessionDetail, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.buildSessionDetail(ctx, session)
}

func (s *SessionService) ListSessionsByUser(ctx context.Context, userID int64) ([]models.SessionDetail, error) {
	sessions, err := s.sessionRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	details := make([]models.SessionDetail, 0, len(sessions))
	for i := range sessions {
		detail, err := s.buildSessionDetail(ctx, &sessions[i])
		if err != nil {
			return nil, err
		}
		details = append(details, *detail)
	}
	return details, nil
}

func (s *SessionService) loadSession(ctx context.Context, sessionID int64) (*models.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}
	return session, nil
}

func (s *SessionService) walletCoins(ctx context.Context, userID int64) (int, error) {
	wallet, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrResourceNotFound
		}
		return 0, err
	}
	return wallet.Coins, nil
}

func (s *SessionService) buildSessionDetail(ctx context.Context, session *models.Session) (*models.SessionDetail, error) {
	detail := &models.SessionDetail{
		Session:     *session,
		MentorName:  "Mentor",
		LearnerName: "Learner",
		SkillName:   "Unknown Skill",
	}

	if mentor := session.Mentor(); mentor != nil {
		mentorID := mentor.UserID
		detail.MentorID = &mentorID
		detail.MentorName = mentor.Username

		availability, err := s.availabilityRepo.GetByUserID(ctx, mentorID)
		if err == nil {
			detail.MentorAvailability = availability
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
	}
	if learner := session.Learner(); learner != nil {
		learnerID := learner.UserID
		detail.LearnerID = &learnerID
		detail.LearnerName = learner.Username
	}

	skill, err := s.skillRepo.GetByID(ctx, session.SkillID)
	if err == nil {
		detail.SkillName = skill.Name
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	return detail, nil
}

func normalizeSessionStatus(status string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "ACCEPT", "ACCEPTED":
		return models.SessionAccepted, nil
	case "CANCEL", "CANCELLED", "DECLINE", "DECLINED":
		return models.SessionCancelled, nil
	default:
		return "", ErrInvalidInput
	}
}
