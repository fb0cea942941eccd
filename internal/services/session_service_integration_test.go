package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Sourabh-codesjava/Talent-Tandem/internal/models"
	"github.com/Sourabh-codesjava/Talent-Tandem/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

var (
	testDBOnce sync.Once
	testDBPool *pgxpool.Pool
	testDBErr  error
)

func TestSessionLifecycleBookToComplete(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	service := newIntegrationSessionService(pool)

	mentorID := createTestAccount(t, ctx, pool, models.RoleMentor, 0)
	learnerID := createTestAccount(t, ctx, pool, models.RoleLearner, 100)
	skillID := createTestSkill(t, ctx, pool)
	t.Cleanup(func() { cleanupTestData(t, ctx, pool, skillID, mentorID, learnerID) })

	scheduled := time.Date(2030, 3, 15, 9, 0, 0, 0, time.UTC)
	detail, err := service.BookSession(ctx, BookSessionInput{
		MentorID:        mentorID,
		SkillID:         skillID,
		LearnerID:       learnerID,
		ScheduledTime:   scheduled,
		DurationMinutes: 60,
	})
	if err != nil {
		t.Fatalf("BookSession: %v", err)
	}

	if detail.Status != models.SessionRequested {
		t.Fatalf("expected REQUESTED session, got %q", detail.Status)
	}
	if len(detail.Participants) != 2 {
		t.Fatalf("expected 2 participants, got %d", len(detail.Participants))
	}
	for _, p := range detail.Participants {
		if p.Status != models.ParticipantInvited {
			t.Fatalf("expected INVITED participant, got %q", p.Status)
		}
	}
	assertCoins(t, ctx, pool, learnerID, 100-SessionCoinCost)

	if _, err := service.SetStatus(ctx, detail.ID, "ACCEPTED"); err != nil {
		t.Fatalf("SetStatus ACCEPTED: %v", err)
	}
	if _, err := service.StartSession(ctx, detail.ID, mentorID); err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	joined, err := service.JoinSession(ctx, detail.ID, learnerID)
	if err != nil {
		t.Fatalf("JoinSession: %v", err)
	}
	if joined.LearnerCoins != 100-SessionCoinCost {
		t.Fatalf("expected %d learner coins, got %d", 100-SessionCoinCost, joined.LearnerCoins)
	}

	// Join is idempotent.
	again, err := service.JoinSession(ctx, detail.ID, learnerID)
	if err != nil {
		t.Fatalf("second JoinSession: %v", err)
	}
	if again.LearnerCoins != joined.LearnerCoins {
		t.Fatalf("second join changed coins: %d -> %d", joined.LearnerCoins, again.LearnerCoins)
	}

	result, err := service.CompleteSession(ctx, detail.ID, mentorID)
	if err != nil {
		t.Fatalf("CompleteSession: %v", err)
	}
	if result.MentorCoins != SessionCoinCost {
		t.Fatalf("expected mentor credited %d coins, got %d", SessionCoinCost, result.MentorCoins)
	}
	assertCoins(t, ctx, pool, mentorID, SessionCoinCost)

	if _, err := service.CompleteSession(ctx, detail.ID, mentorID); !errors.Is(err, ErrIllegalState) {
		t.Fatalf("expected ErrIllegalState completing twice, got %v", err)
	}
}

func TestBookSessionFailsWithoutEnoughCoins(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	service := newIntegrationSessionService(pool)

	mentorID := createTestAccount(t, ctx, pool, models.RoleMentor, 0)
	learnerID := createTestAccount(t, ctx, pool, models.RoleLearner, SessionCoinCost-1)
	skillID := createTestSkill(t, ctx, pool)
	t.Cleanup(func() { cleanupTestData(t, ctx, pool, skillID, mentorID, learnerID) })

	_, err := service.BookSession(ctx, BookSessionInput{
		MentorID:        mentorID,
		SkillID:         skillID,
		LearnerID:       learnerID,
		ScheduledTime:   time.Date(2030, 4, 1, 12, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
	})
	if !errors.Is(err, ErrInsufficientCoins) {
		t.Fatalf("expected ErrInsufficientCoins, got %v", err)
	}
	assertCoins(t, ctx, pool, learnerID, SessionCoinCost-1)
}

func TestCancelByMentorRefundsLearner(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	service := newIntegrationSessionService(pool)

	mentorID := createTestAccount(t, ctx, pool, models.RoleMentor, 0)
	learnerID := createTestAccount(t, ctx, pool, models.RoleLearner, 100)
	skillID := createTestSkill(t, ctx, pool)
	t.Cleanup(func() { cleanupTestData(t, ctx, pool, skillID, mentorID, learnerID) })

	detail, err := service.BookSession(ctx, BookSessionInput{
		MentorID:        mentorID,
		SkillID:         skillID,
		LearnerID:       learnerID,
		ScheduledTime:   time.Date(2030, 5, 10, 8, 0, 0, 0, time.UTC),
		DurationMinutes: 45,
	})
	if err != nil {
		t.Fatalf("BookSession: %v", err)
	}
	assertCoins(t, ctx, pool, learnerID, 100-SessionCoinCost)

	cancelled, err := service.CancelSessionByMentor(ctx, detail.ID, mentorID)
	if err != nil {
		t.Fatalf("CancelSessionByMentor: %v", err)
	}
	if cancelled.Status != models.SessionCancelled {
		t.Fatalf("expected CANCELLED, got %q", cancelled.Status)
	}
	if cancelled.CancellationReason == nil || *cancelled.CancellationReason != "Cancelled by mentor" {
		t.Fatalf("unexpected cancellation reason: %v", cancelled.CancellationReason)
	}
	assertCoins(t, ctx, pool, learnerID, 100)

	if _, err := service.CancelSessionByLearner(ctx, detail.ID, learnerID); !errors.Is(err, ErrIllegalState) {
		t.Fatalf("expected ErrIllegalState cancelling a cancelled session, got %v", err)
	}
}

func TestDeclineViaStatusKeepsBookingDebit(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	service := newIntegrationSessionService(pool)

	mentorID := createTestAccount(t, ctx, pool, models.RoleMentor, 0)
	learnerID := createTestAccount(t, ctx, pool, models.RoleLearner, 100)
	skillID := createTestSkill(t, ctx, pool)
	t.Cleanup(func() { cleanupTestData(t, ctx, pool, skillID, mentorID, learnerID) })

	detail, err := service.BookSession(ctx, BookSessionInput{
		MentorID:        mentorID,
		SkillID:         skillID,
		LearnerID:       learnerID,
		ScheduledTime:   time.Date(2030, 6, 1, 10, 0, 0, 0, time.UTC),
		DurationMinutes: 30,
	})
	if err != nil {
		t.Fatalf("BookSession: %v", err)
	}

	declined, err := service.SetStatus(ctx, detail.ID, "CANCELLED")
	if err != nil {
		t.Fatalf("SetStatus CANCELLED: %v", err)
	}
	if declined.Status != models.SessionCancelled {
		t.Fatalf("expected CANCELLED, got %q", declined.Status)
	}

	// The generic decline path moves no coins.
	assertCoins(t, ctx, pool, learnerID, 100-SessionCoinCost)
}

func TestStartSessionRejectsNonMentor(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	service := newIntegrationSessionService(pool)

	mentorID := createTestAccount(t, ctx, pool, models.RoleMentor, 0)
	learnerID := createTestAccount(t, ctx, pool, models.RoleLearner, 100)
	skillID := createTestSkill(t, ctx, pool)
	t.Cleanup(func() { cleanupTestData(t, ctx, pool, skillID, mentorID, learnerID) })

	detail, err := service.BookSession(ctx, BookSessionInput{
		MentorID:        mentorID,
		SkillID:         skillID,
		LearnerID:       learnerID,
		ScheduledTime:   time.Date(2030, 7, 1, 10, 0, 0, 0, time.UTC),
		DurationMinutes: 30,
	})
	if err != nil {
		t.Fatalf("BookSession: %v", err)
	}

	if _, err := service.StartSession(ctx, detail.ID, mentorID); !errors.Is(err, ErrIllegalState) {
		t.Fatalf("expected ErrIllegalState starting a REQUESTED session, got %v", err)
	}

	if _, err := service.SetStatus(ctx, detail.ID, "ACCEPTED"); err != nil {
		t.Fatalf("SetStatus ACCEPTED: %v", err)
	}
	if _, err := service.StartSession(ctx, detail.ID, learnerID); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for non-mentor, got %v", err)
	}
}

func integrationTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	testDBOnce.Do(func() {
		_ = godotenv.Load(".env")
		_ = godotenv.Load(filepath.Join("..", "..", ".env"))

		dbURL := os.Getenv("DB_URL")
		if dbURL == "" {
			testDBErr = fmt.Errorf("DB_URL is not set")
			return
		}

		cfg, err := pgxpool.ParseConfig(dbURL)
		if err != nil {
			testDBErr = err
			return
		}

		testDBPool, testDBErr = pgxpool.NewWithConfig(context.Background(), cfg)
		if testDBErr != nil {
			return
		}
		testDBErr = testDBPool.Ping(context.Background())
	})

	if testDBErr != nil {
		t.Skipf("skipping integration test: %v", testDBErr)
	}
	return testDBPool
}

func newIntegrationSessionService(pool *pgxpool.Pool) *SessionService {
	return NewSessionService(
		pool,
		repository.NewSessionRepository(pool),
		repository.NewWalletRepository(pool),
		repository.NewUserRepository(pool),
		repository.NewSkillRepository(pool),
		repository.NewAvailabilityRepository(pool),
		nil,
	)
}

func createTestAccount(t *testing.T, ctx context.Context, pool *pgxpool.Pool, role string, coins int) int64 {
	t.Helper()

	userRepo := repository.NewUserRepository(pool)
	user := &models.User{
		Email:        fmt.Sprintf("session-test-%s-%d@example.com", role, time.Now().UnixNano()),
		Username:     fmt.Sprintf("tester-%d", time.Now().UnixNano()),
		PasswordHash: "test-hash",
		Role:         role,
	}
	if err := userRepo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser(%s): %v", role, err)
	}

	walletRepo := repository.NewWalletRepository(pool)
	if _, err := walletRepo.Create(ctx, user.ID, coins); err != nil {
		t.Fatalf("create wallet: %v", err)
	}

	return user.ID
}

func createTestSkill(t *testing.T, ctx context.Context, pool *pgxpool.Pool) int64 {
	t.Helper()

	var skillID int64
	name := fmt.Sprintf("test-skill-%d", time.Now().UnixNano())
	if err := pool.QueryRow(ctx, "INSERT INTO skills (name) VALUES ($1) RETURNING id", name).Scan(&skillID); err != nil {
		t.Fatalf("create skill: %v", err)
	}
	return skillID
}

func assertCoins(t *testing.T, ctx context.Context, pool *pgxpool.Pool, userID int64, want int) {
	t.Helper()

	wallet, err := repository.NewWalletRepository(pool).GetByUserID(ctx, userID)
	if err != nil {
		t.Fatalf("GetByUserID wallet: %v", err)
	}
	if wallet.Coins != want {
		t.Fatalf("expected %d coins for user %d, got %d", want, userID, wallet.Coins)
	}
}

func cleanupTestData(t *testing.T, ctx context.Context, pool *pgxpool.Pool, skillID int64, userIDs ...int64) {
	t.Helper()

	if _, err := pool.Exec(ctx, "DELETE FROM session_participants WHERE user_id = ANY($1)", userIDs); err != nil {
		t.Fatalf("cleanup session participants: %v", err)
	}
	if _, err := pool.Exec(ctx, "DELETE FROM sessions WHERE skill_id = $1", skillID); err != nil {
		t.Fatalf("cleanup sessions: %v", err)
	}
	if _, err := pool.Exec(ctx, "DELETE FROM wallets WHERE user_id = ANY($1)", userIDs); err != nil {
		t.Fatalf("cleanup wallets: %v", err)
	}
	if _, err := pool.Exec(ctx, "DELETE FROM users WHERE id = ANY($1)", userIDs); err != nil {
		t.Fatalf("cleanup users: %v", err)
	}
	if _, err := pool.Exec(ctx, "DELETE FROM skills WHERE id = $1", skillID); err != nil {
		t.Fatalf("cleanup skills: %v", err)
	}
}
