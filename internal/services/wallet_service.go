package services

import (
	"context"
	"errors"
	"log"

	"github.com/Sourabh-codesjava/Talent-Tandem/internal/models"
	"github.com/Sourabh-codesjava/Talent-Tandem/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrResourceNotFound  = errors.New("resource not found")
	ErrUnauthorized      = errors.New("unauthorized access")
	ErrIllegalState      = errors.New("illegal state transition")
	ErrInsufficientCoins = errors.New("insufficient coins")
	ErrInvalidInput      = errors.New("invalid input")
	ErrWalletExists      = errors.New("wallet already exists")
)

// Starting balances granted at role selection.
const (
	LearnerInitialCoins = 100
	MentorInitialCoins  = 0
)

const uniqueViolationCode = "23505"

type walletUserReader interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	SetRoleProfile(ctx context.Context, userID int64, role string) (*models.User, error)
}

type WalletService struct {
	walletRepo *repository.WalletRepository
	userRepo   walletUserReader
}

func NewWalletService(walletRepo *repository.WalletRepository, userRepo walletUserReader) *WalletService {
	return &WalletService{walletRepo: walletRepo, userRepo: userRepo}
}

func (s *WalletService) CreateWallet(ctx context.Context, userID int64, initialCoins int) (*models.Wallet, error) {
	if initialCoins < 0 {
		return nil, ErrInvalidInput
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}

	wallet, err := s.walletRepo.Create(ctx, userID, initialCoins)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, ErrWalletExists
		}
		return nil, err
	}
	log.Printf("wallet created for user %d with %d coins", userID, initialCoins)
	return wallet, nil
}

func (s *WalletService) GetWallet(ctx context.Context, userID int64) (*models.Wallet, error) {
	wallet, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}
	return wallet, nil
}

// Credit adds coins, creating a zero-balance wallet on demand.
func (s *WalletService) Credit(ctx context.Context, userID int64, coins int) (*models.Wallet, error) {
	if coins <= 0 {
		return nil, ErrInvalidInput
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}

	wallet, err := s.walletRepo.Credit(ctx, userID, coins)
	if err != nil {
		return nil, err
	}
	log.Printf("credited %d coins to user %d, new balance %d", coins, userID, wallet.Coins)
	return wallet, nil
}

// Debit subtracts coins. The sufficiency check and the subtraction are one
// conditional statement, so no overdraft can slip in between them.
func (s *WalletService) Debit(ctx context.Context, userID int64, coins int) (*models.Wallet, error) {
	if coins <= 0 {
		return nil, ErrInvalidInput
	}

	wallet, err := s.walletRepo.DebitIfSufficient(ctx, userID, coins)
	if err == nil {
		log.Printf("debited %d coins from user %d, new balance %d", coins, userID, wallet.Coins)
		return wallet, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	if _, err := s.walletRepo.GetByUserID(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}
	return nil, ErrInsufficientCoins
}

func (s *WalletService) HasEnoughCoins(ctx context.Context, userID int64, required int) (bool, error) {
	wallet, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, ErrResourceNotFound
		}
		return false, err
	}
	return wallet.Coins >= required, nil
}

type RoleSelectionResult struct {
	User         *models.User   `json:"user"`
	Wallet       *models.Wallet `json:"wallet"`
	InitialCoins int            `json:"initial_coins"`
}

// SelectRole records the user's chosen role and opens their wallet with the
// role's starting balance. A second selection conflicts on the wallet.
func (s *WalletService) SelectRole(ctx context.Context, userID int64, role string) (*RoleSelectionResult, error) {
	if role != models.RoleMentor && role != models.RoleLearner {
		return nil, ErrInvalidInput
	}

	initialCoins := MentorInitialCoins
	if role == models.RoleLearner {
		initialCoins = LearnerInitialCoins
	}

	wallet, err := s.CreateWallet(ctx, userID, initialCoins)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.SetRoleProfile(ctx, userID, role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}

	log.Printf("user %d selected role %s with %d starting coins", userID, role, initialCoins)
	return &RoleSelectionResult{User: user, Wallet: wallet, InitialCoins: initialCoins}, nil
}
