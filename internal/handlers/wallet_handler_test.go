package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Sourabh-codesjava/Talent-Tandem/internal/models"
	"github.com/Sourabh-codesjava/Talent-Tandem/internal/services"
	"github.com/gofiber/fiber/v2"
)

type stubWalletService struct {
	wallet     *models.Wallet
	walletErr  error
	roleResult *services.RoleSelectionResult
	roleErr    error

	lastUserID int64
	lastCoins  int
	lastRole   string
}

func (s *stubWalletService) GetWallet(_ context.Context, userID int64) (*models.Wallet, error) {
	s.lastUserID = userID
	return s.wallet, s.walletErr
}

func (s *stubWalletService) Credit(_ context.Context, userID int64, coins int) (*models.Wallet, error) {
	s.lastUserID = userID
	s.lastCoins = coins
	return s.wallet, s.walletErr
}

func (s *stubWalletService) Debit(_ context.Context, userID int64, coins int) (*models.Wallet, error) {
	s.lastUserID = userID
	s.lastCoins = coins
	return s.wallet, s.walletErr
}

func (s *stubWalletService) HasEnoughCoins(_ context.Context, userID int64, required int) (bool, error) {
	s.lastUserID = userID
	s.lastCoins = required
	if s.walletErr != nil {
		return false, s.walletErr
	}
	return s.wallet != nil && s.wallet.Coins >= required, nil
}

func (s *stubWalletService) SelectRole(_ context.Context, userID int64, role string) (*services.RoleSelectionResult, error) {
	s.lastUserID = userID
	s.lastRole = role
	return s.roleResult, s.roleErr
}

func newWalletTestApp(service *stubWalletService) *fiber.App {
	handler := &WalletHandler{service: service}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", "42")
		c.Locals("role", "LEARNER")
		return c.Next()
	})
	app.Post("/api/v1/users/role", handler.SelectRole)
	app.Get("/api/v1/wallets/me", handler.GetMyWallet)
	app.Post("/api/v1/wallets/credit", handler.Credit)
	app.Post("/api/v1/wallets/debit", handler.Debit)
	return app
}

func TestSelectRoleCreatesWallet(t *testing.T) {
	service := &stubWalletService{
		roleResult: &services.RoleSelectionResult{
			User:         &models.User{ID: 42, Role: models.RoleLearner},
			Wallet:       &models.Wallet{UserID: 42, Coins: 100},
			InitialCoins: 100,
		},
	}
	app := newWalletTestApp(service)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/role", strings.NewReader(`{"role": "learner"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if service.lastRole != models.RoleLearner {
		t.Fatalf("expected normalized role LEARNER, got %q", service.lastRole)
	}
	if service.lastUserID != 42 {
		t.Fatalf("expected user id 42, got %d", service.lastUserID)
	}
}

func TestSelectRoleMapsExistingWalletToConflict(t *testing.T) {
	service := &stubWalletService{roleErr: services.ErrWalletExists}
	app := newWalletTestApp(service)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/role", strings.NewReader(`{"role": "MENTOR"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestGetMyWalletReturnsBalance(t *testing.T) {
	service := &stubWalletService{wallet: &models.Wallet{UserID: 42, Coins: 70}}
	app := newWalletTestApp(service)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/wallets/me", nil)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Wallet models.Wallet `json:"wallet"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Wallet.Coins != 70 {
		t.Fatalf("expected 70 coins, got %d", body.Wallet.Coins)
	}
}

func TestDebitMapsInsufficientCoins(t *testing.T) {
	service := &stubWalletService{walletErr: services.ErrInsufficientCoins}
	app := newWalletTestApp(service)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/wallets/debit", strings.NewReader(`{"coins": 10}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusPaymentRequired {
		t.Fatalf("expected 402, got %d", resp.StatusCode)
	}
}

func TestCreditPassesAmount(t *testing.T) {
	service := &stubWalletService{wallet: &models.Wallet{UserID: 42, Coins: 110}}
	app := newWalletTestApp(service)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/wallets/credit", strings.NewReader(`{"coins": 10}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastCoins != 10 {
		t.Fatalf("expected 10 coins passed through, got %d", service.lastCoins)
	}
}
