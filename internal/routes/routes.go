package routes

import (
	"github.com/Sourabh-codesjava/Talent-Tandem/internal/config"
	"github.com/Sourabh-codesjava/Talent-Tandem/internal/handlers"
	"github.com/Sourabh-codesjava/Talent-Tandem/internal/middleware"
	"github.com/Sourabh-codesjava/Talent-Tandem/internal/notify"
	"github.com/Sourabh-codesjava/Talent-Tandem/internal/repository"
	"github.com/Sourabh-codesjava/Talent-Tandem/internal/services"
	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool) {
	userRepo := repository.NewUserRepository(db)
	skillRepo := repository.NewSkillRepository(db)
	walletRepo := repository.NewWalletRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	teachSkillRepo := repository.NewTeachSkillRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)

	hub := notify.NewHub()
	go hub.Run()

	var explainer services.MatchExplainer
	if cfg.GeminiAPIKey != "" {
		explainer = services.NewGeminiExplainer(cfg.GeminiAPIKey, cfg.GeminiModel)
	}

	walletService := services.NewWalletService(walletRepo, userRepo)
	sessionService := services.NewSessionService(db, sessionRepo, walletRepo, userRepo, skillRepo, availabilityRepo, hub)
	matchingService := services.NewMatchingService(teachSkillRepo, skillRepo, explainer, hub)
	participantService := services.NewParticipantService(sessionRepo, userRepo, hub)

	authHandler := handlers.NewAuthHandler(userRepo, cfg.JWTSecret)
	walletHandler := handlers.NewWalletHandler(walletService)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	matchHandler := handlers.NewMatchHandler(matchingService)
	participantHandler := handlers.NewParticipantHandler(participantService)
	skillHandler := handlers.NewSkillHandler(skillRepo)
	notifyHandler := handlers.NewNotifyHandler(hub, cfg.JWTSecret)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", middleware.AuthRequired(cfg.JWTSecret), authHandler.Me)

	authProtected := api.Group("/v1", middleware.AuthRequired(cfg.JWTSecret))

	users := authProtected.Group("/users")
	users.Post("/role", walletHandler.SelectRole)
	users.Get("/participations", participantHandler.ListMyParticipations)

	wallets := authProtected.Group("/wallets")
	wallets.Get("/me", walletHandler.GetMyWallet)
	wallets.Post("/credit", walletHandler.Credit)
	wallets.Post("/debit", walletHandler.Debit)

	authProtected.Get("/skills", skillHandler.ListSkills)
	authProtected.Post("/teach-skills", matchHandler.DeclareTeachSkill)
	authProtected.Get("/matches", matchHandler.FindMatches)

	sessions := authProtected.Group("/sessions")
	sessions.Post("/book", sessionHandler.BookSession)
	sessions.Get("", sessionHandler.ListSessions)
	sessions.Get("/:id", sessionHandler.GetSession)
	sessions.Put("/:id/status", sessionHandler.UpdateStatus)
	sessions.Post("/:id/start", sessionHandler.StartSession)
	sessions.Post("/:id/join", sessionHandler.JoinSession)
	sessions.Post("/:id/complete", sessionHandler.CompleteSession)
	sessions.Post("/:id/cancel-by-mentor", sessionHandler.CancelByMentor)
	sessions.Post("/:id/cancel-by-learner", sessionHandler.CancelByLearner)
	sessions.Get("/:id/participants", participantHandler.ListParticipants)
	sessions.Post("/:id/participants", participantHandler.AddParticipants)
	sessions.Delete("/:id/participants/:participantId", participantHandler.RemoveParticipant)

	api.Use("/v1/ws", notifyHandler.WebSocketAuth)
	api.Get("/v1/ws", websocket.New(notifyHandler.HandleWebSocket))
}
