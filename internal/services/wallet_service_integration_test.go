package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Sourabh-codesjava/Talent-Tandem/internal/models"
	"github.com/Sourabh-codesjava/Talent-Tandem/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@example.com", prefix, time.Now().UnixNano())
}

func newIntegrationWalletService(pool *pgxpool.Pool) *WalletService {
	return NewWalletService(
		repository.NewWalletRepository(pool),
		repository.NewUserRepository(pool),
	)
}

func TestWalletDebitRejectsOverdraft(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	service := newIntegrationWalletService(pool)

	userID := createTestAccount(t, ctx, pool, models.RoleLearner, 5)
	t.Cleanup(func() { cleanupTestUsers(t, ctx, pool, userID) })

	if _, err := service.Debit(ctx, userID, 6); !errors.Is(err, ErrInsufficientCoins) {
		t.Fatalf("expected ErrInsufficientCoins, got %v", err)
	}
	assertCoins(t, ctx, pool, userID, 5)

	wallet, err := service.Debit(ctx, userID, 5)
	if err != nil {
		t.Fatalf("Debit to zero: %v", err)
	}
	if wallet.Coins != 0 {
		t.Fatalf("expected 0 coins, got %d", wallet.Coins)
	}

	if _, err := service.Debit(ctx, userID, 1); !errors.Is(err, ErrInsufficientCoins) {
		t.Fatalf("expected ErrInsufficientCoins at zero balance, got %v", err)
	}
}

func TestWalletCreditAndBalanceCheck(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	service := newIntegrationWalletService(pool)

	userID := createTestAccount(t, ctx, pool, models.RoleMentor, 0)
	t.Cleanup(func() { cleanupTestUsers(t, ctx, pool, userID) })

	wallet, err := service.Credit(ctx, userID, 30)
	if err != nil {
		t.Fatalf("Credit: %v", err)
	}
	if wallet.Coins != 30 {
		t.Fatalf("expected 30 coins, got %d", wallet.Coins)
	}

	enough, err := service.HasEnoughCoins(ctx, userID, 30)
	if err != nil {
		t.Fatalf("HasEnoughCoins: %v", err)
	}
	if !enough {
		t.Fatalf("expected 30 coins to satisfy a 30 coin check")
	}

	enough, err = service.HasEnoughCoins(ctx, userID, 31)
	if err != nil {
		t.Fatalf("HasEnoughCoins: %v", err)
	}
	if enough {
		t.Fatalf("expected 30 coins to fail a 31 coin check")
	}
}

func TestWalletRejectsNonPositiveAmounts(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	service := newIntegrationWalletService(pool)

	userID := createTestAccount(t, ctx, pool, models.RoleLearner, 10)
	t.Cleanup(func() { cleanupTestUsers(t, ctx, pool, userID) })

	if _, err := service.Credit(ctx, userID, 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for zero credit, got %v", err)
	}
	if _, err := service.Debit(ctx, userID, -3); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative debit, got %v", err)
	}
}

func TestSelectRoleOpensWalletOnce(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	service := newIntegrationWalletService(pool)

	userRepo := repository.NewUserRepository(pool)
	user := &models.User{
		Email:        uniqueEmail("role-select"),
		Username:     fmt.Sprintf("role-select-%d", time.Now().UnixNano()),
		PasswordHash: "test-hash",
		Role:         "PENDING",
	}
	if err := userRepo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	t.Cleanup(func() { cleanupTestUsers(t, ctx, pool, user.ID) })

	result, err := service.SelectRole(ctx, user.ID, models.RoleLearner)
	if err != nil {
		t.Fatalf("SelectRole: %v", err)
	}
	if result.InitialCoins != LearnerInitialCoins {
		t.Fatalf("expected %d initial coins, got %d", LearnerInitialCoins, result.InitialCoins)
	}
	if result.User.Role != models.RoleLearner || !result.User.HasLearnerProfile {
		t.Fatalf("expected learner role recorded, got %+v", result.User)
	}

	if _, err := service.SelectRole(ctx, user.ID, models.RoleMentor); !errors.Is(err, ErrWalletExists) {
		t.Fatalf("expected ErrWalletExists on second selection, got %v", err)
	}
}

func cleanupTestUsers(t *testing.T, ctx context.Context, pool *pgxpool.Pool, userIDs ...int64) {
	t.Helper()

	if _, err := pool.Exec(ctx, "DELETE FROM wallets WHERE user_id = ANY($1)", userIDs); err != nil {
		t.Fatalf("cleanup wallets: %v", err)
	}
	if _, err := pool.Exec(ctx, "DELETE FROM users WHERE id = ANY($1)", userIDs); err != nil {
		t.Fatalf("cleanup users: %v", err)
	}
}
