package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/Sourabh-codesjava/Talent-Tandem/internal/models"
	"github.com/Sourabh-codesjava/Talent-Tandem/internal/services"
	"github.com/gofiber/fiber/v2"
)

type walletApplicationService interface {
	GetWallet(ctx context.Context, userID int64) (*models.Wallet, error)
	Credit(ctx context.Context, userID int64, coins int) (*models.Wallet, error)
	Debit(ctx context.Context, userID int64, coins int) (*models.Wallet, error)
	HasEnoughCoins(ctx context.Context, userID int64, required int) (bool, error)
	SelectRole(ctx context.Context, userID int64, role string) (*services.RoleSelectionResult, error)
}

type WalletHandler struct {
	service walletApplicationService
}

func NewWalletHandler(service walletApplicationService) *WalletHandler {
	return &WalletHandler{service: service}
}

type selectRoleRequest struct {
	Role string `json:"role"`
}

type coinAmountRequest struct {
	Coins int `json:"coins"`
}

// SelectRole sets the caller's role and opens their wallet with the role's
// starting balance.
func (h *WalletHandler) SelectRole(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req selectRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	result, err := h.service.SelectRole(c.Context(), userID, strings.ToUpper(strings.TrimSpace(req.Role)))
	if err != nil {
		return mapWalletError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *WalletHandler) GetMyWallet(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	wallet, err := h.service.GetWallet(c.Context(), userID)
	if err != nil {
		return mapWalletError(c, err)
	}

	return c.JSON(fiber.Map{"wallet": wallet})
}

func (h *WalletHandler) Credit(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req coinAmountRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	wallet, err := h.service.Credit(c.Context(), userID, req.Coins)
	if err != nil {
		return mapWalletError(c, err)
	}

	return c.JSON(fiber.Map{"wallet": wallet})
}

func (h *WalletHandler) Debit(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req coinAmountRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	wallet, err := h.service.Debit(c.Context(), userID, req.Coins)
	if err != nil {
		return mapWalletError(c, err)
	}

	return c.JSON(fiber.Map{"wallet": wallet})
}

func mapWalletError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrWalletExists):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Wallet already exists"})
	case errors.Is(err, services.ErrInsufficientCoins):
		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{"error": "Insufficient coins"})
	case errors.Is(err, services.ErrResourceNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Resource not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process wallet request"})
	}
}
