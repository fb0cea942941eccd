package repository

import (
	"context"

	"github.com/Sourabh-codesjava/Talent-Tandem/internal/models"
)

type WalletRepository struct {
	db DBTX
}

func NewWalletRepository(db DBTX) *WalletRepository {
	return &WalletRepository{db: db}
}

func (r *WalletRepository) Create(ctx context.Context, userID int64, coins int) (*models.Wallet, error) {
	query := `
		INSERT INTO wallets (user_id, coins)
		VALUES ($1, $2)
		RETURNING id, user_id, coins, created_at, updated_at
	`
	var wallet models.Wallet
	err := r.db.QueryRow(ctx, query, userID, coins).Scan(
		&wallet.ID,
		&wallet.UserID,
		&wallet.Coins,
		&wallet.CreatedAt,
		&wallet.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (r *WalletRepository) GetByUserID(ctx context.Context, userID int64) (*models.Wallet, error) {
	query := `
		SELECT id, user_id, coins, created_at, updated_at
		FROM wallets
		WHERE user_id = $1
	`
	var wallet models.Wallet
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&wallet.ID,
		&wallet.UserID,
		&wallet.Coins,
		&wallet.CreatedAt,
		&wallet.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

// Credit adds coins, creating a missing wallet on the fly. The upsert is a
// single statement, so the read-modify-write cannot lose a concurrent update.
func (r *WalletRepository) Credit(ctx context.Context, userID int64, coins int) (*models.Wallet, error) {
	query := `
		INSERT INTO wallets (user_id, coins)
		VALUES ($1, $2)
		ON CONFLICT (user_id)
		DO UPDATE SET coins = wallets.coins + EXCLUDED.coins, updated_at = NOW()
		RETURNING id, user_id, coins, created_at, updated_at
	`
	var wallet models.Wallet
	err := r.db.QueryRow(ctx, query, userID, coins).Scan(
		&wallet.ID,
		&wallet.UserID,
		&wallet.Coins,
		&wallet.CreatedAt,
		&wallet.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

// DebitIfSufficient subtracts coins only when the balance covers them. No
// rows means the wallet is missing or the balance is short; the caller
// disambiguates with GetByUserID.
func (r *WalletRepository) DebitIfSufficient(ctx context.Context, userID int64, coins int) (*models.Wallet, error) {
	query := `
		UPDATE wallets
		SET coins = coins - $2, updated_at = NOW()
		WHERE user_id = $1 AND coins >= $2
		RETURNING id, user_id, coins, created_at, updated_at
	`
	var wallet models.Wallet
	err := r.db.QueryRow(ctx, query, userID, coins).Scan(
		&wallet.ID,
		&wallet.UserID,
		&wallet.Coins,
		&wallet.CreatedAt,
		&wallet.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}
