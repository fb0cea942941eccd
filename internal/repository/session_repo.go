package repository

import (
	"context"
	"time"

	"github.com/Sourabh-codesjava/Talent-Tandem/internal/models"
)

type CreateSessionInput struct {
	SkillID          int64
	Agenda           *string
	ScheduledTime    time.Time
	DurationMinutes  int
	LearningOutcomes *string
	SessionType      string
}

type SessionRepository struct {
	db DBTX
}

func NewSessionRepository(db DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = `id, skill_id, agenda, status, scheduled_time, duration_minutes,
		learning_outcomes, session_type, cancelled_by, cancellation_reason, created_at, updated_at`

func (r *SessionRepository) Create(ctx context.Context, input CreateSessionInput) (*models.Session, error) {
	query := `
		INSERT INTO sessions (skill_id, agenda, status, scheduled_time, duration_minutes, learning_outcomes, session_type)
		VALUES ($1, $2, 'REQUESTED', $3, $4, $5, $6)
		RETURNING ` + sessionColumns
	row := r.db.QueryRow(
		ctx,
		query,
		input.SkillID,
		input.Agenda,
		input.ScheduledTime,
		input.DurationMinutes,
		input.LearningOutcomes,
		input.SessionType,
	)
	return scanSession(row)
}

// GetByID loads the session together with its full participant roster. The
// aggregate is always complete; callers never follow up with lazy loads.
func (r *SessionRepository) GetByID(ctx context.Context, sessionID int64) (*models.Session, error) {
	return r.getByID(ctx, sessionID, false)
}

// GetByIDForUpdate locks the session row for the rest of the transaction.
// Lifecycle operations use it so two transitions on the same session
// serialize.
func (r *SessionRepository) GetByIDForUpdate(ctx context.Context, sessionID int64) (*models.Session, error) {
	return r.getByID(ctx, sessionID, true)
}

func (r *SessionRepository) getByID(ctx context.Context, sessionID int64, forUpdate bool) (*models.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE id = $1`
	if forUpdate {
		query += `
		FOR UPDATE`
	}

	session, err := scanSession(r.db.QueryRow(ctx, query, sessionID))
	if err != nil {
		return nil, err
	}

	participants, err := r.ListParticipants(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	session.Participants = participants
	return session, nil
}

func (r *SessionRepository) ListByUserID(ctx context.Context, userID int64) ([]models.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE id IN (SELECT session_id FROM session_participants WHERE user_id = $1)
		ORDER BY scheduled_time ASC, id ASC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]models.Session, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range sessions {
		participants, err := r.ListParticipants(ctx, sessions[i].ID)
		if err != nil {
			return nil, err
		}
		sessions[i].Participants = participants
	}
	return sessions, nil
}

// UpdateStatusIfCurrent is the compare-and-set transition primitive: no rows
// means the session moved out of currentStatus underneath the caller.
func (r *SessionRepository) UpdateStatusIfCurrent(
	ctx context.Context,
	sessionID int64,
	currentStatus string,
	nextStatus string,
) (*models.Session, error) {
	query := `
		UPDATE sessions
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING ` + sessionColumns
	return scanSession(r.db.QueryRow(ctx, query, sessionID, currentStatus, nextStatus))
}

// Cancel terminalizes a non-terminal session, recording who cancelled and
// why. No rows means the session was already COMPLETED or CANCELLED.
func (r *SessionRepository) Cancel(
	ctx context.Context,
	sessionID int64,
	cancelledBy int64,
	reason string,
) (*models.Session, error) {
	query := `
		UPDATE sessions
		SET status = 'CANCELLED', cancelled_by = $2, cancellation_reason = $3, updated_at = NOW()
		WHERE id = $1 AND status NOT IN ('COMPLETED', 'CANCELLED')
		RETURNING ` + sessionColumns
	return scanSession(r.db.QueryRow(ctx, query, sessionID, cancelledBy, reason))
}

func (r *SessionRepository) AddParticipant(
	ctx context.Context,
	sessionID int64,
	userID int64,
	role string,
	status string,
) (*models.SessionParticipant, error) {
	query := `
		INSERT INTO session_participants (session_id, user_id, role, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, session_id, user_id, role, status, joined_at, left_at
	`
	var p models.SessionParticipant
	err := r.db.QueryRow(ctx, query, sessionID, userID, role, status).Scan(
		&p.ID,
		&p.SessionID,
		&p.UserID,
		&p.Role,
		&p.Status,
		&p.JoinedAt,
		&p.LeftAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *SessionRepository) ListParticipants(ctx context.Context, sessionID int64) ([]models.SessionParticipant, error) {
	query := `
		SELECT sp.id, sp.session_id, sp.user_id, u.username, sp.role, sp.status, sp.joined_at, sp.left_at
		FROM session_participants sp
		JOIN users u ON u.id = sp.user_id
		WHERE sp.session_id = $1
		ORDER BY sp.id ASC
	`
	rows, err := r.db.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	participants := make([]models.SessionParticipant, 0)
	for rows.Next() {
		var p models.SessionParticipant
		if err := rows.Scan(&p.ID, &p.SessionID, &p.UserID, &p.Username, &p.Role, &p.Status, &p.JoinedAt, &p.LeftAt); err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return participants, nil
}

func (r *SessionRepository) GetParticipant(ctx context.Context, participantID int64) (*models.SessionParticipant, error) {
	query := `
		SELECT sp.id, sp.session_id, sp.user_id, u.username, sp.role, sp.status, sp.joined_at, sp.left_at
		FROM session_participants sp
		JOIN users u ON u.id = sp.user_id
		WHERE sp.id = $1
	`
	var p models.SessionParticipant
	err := r.db.QueryRow(ctx, query, participantID).Scan(
		&p.ID,
		&p.SessionID,
		&p.UserID,
		&p.Username,
		&p.Role,
		&p.Status,
		&p.JoinedAt,
		&p.LeftAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *SessionRepository) ListParticipationsByUserID(ctx context.Context, userID int64) ([]models.SessionParticipant, error) {
	query := `
		SELECT sp.id, sp.session_id, sp.user_id, u.username, sp.role, sp.status, sp.joined_at, sp.left_at
		FROM session_participants sp
		JOIN users u ON u.id = sp.user_id
		WHERE sp.user_id = $1
		ORDER BY sp.id ASC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	participations := make([]models.SessionParticipant, 0)
	for rows.Next() {
		var p models.SessionParticipant
		if err := rows.Scan(&p.ID, &p.SessionID, &p.UserID, &p.Username, &p.Role, &p.Status, &p.JoinedAt, &p.LeftAt); err != nil {
			return nil, err
		}
		participations = append(participations, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return participations, nil
}

func (r *SessionRepository) MarkParticipantJoined(ctx context.Context, participantID int64) (*models.SessionParticipant, error) {
	query := `
		UPDATE session_participants
		SET status = 'JOINED', joined_at = NOW()
		WHERE id = $1
		RETURNING id, session_id, user_id, role, status, joined_at, left_at
	`
	var p models.SessionParticipant
	err := r.db.QueryRow(ctx, query, participantID).Scan(
		&p.ID,
		&p.SessionID,
		&p.UserID,
		&p.Role,
		&p.Status,
		&p.JoinedAt,
		&p.LeftAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *SessionRepository) DeleteParticipant(ctx context.Context, participantID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM session_participants WHERE id = $1`, participantID)
	return err
}

type sessionRow interface {
	Scan(dest ...any) error
}

func scanSession(row sessionRow) (*models.Session, error) {
	var session models.Session
	err := row.Scan(
		&session.ID,
		&session.SkillID,
		&session.Agenda,
		&session.Status,
		&session.ScheduledTime,
		&session.DurationMinutes,
		&session.LearningOutcomes,
		&session.SessionType,
		&session.CancelledBy,
		&session.CancellationReason,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &session, nil
}
