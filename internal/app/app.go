package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/talentloop/talentloop/internal/config"
	"github.com/talentloop/talentloop/internal/db"
	"github.com/talentloop/talentloop/internal/repository"
	"github.com/talentloop/talentloop/internal/service"
)

type App struct {
	Cfg                 *config.Config
	DB                  *sqlx.DB
	IdentityService     *service.IdentityService
	AuditService        *service.AuditService
	NotificationService *service.NotificationService
	GoalService         *service.GoalService
	ReviewService       *service.ReviewService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	goalRepository := repository.NewGoalRepository(database)
	completionRepository := repository.NewCompletionRepository(database)
	evidenceRepository := repository.NewEvidenceRepository(database)
	feedbackRepository := repository.NewFeedbackRepository(database)
	progressRepository := repository.NewProgressRepository(database)
	auditRepository := repository.NewAuditRepository(database)
	notificationRepository := repository.NewNotificationRepository(database)
	reviewRepository := repository.NewReviewRepository(database)

	// Services
	identityService := service.NewIdentityService(userRepository)
	auditService := service.NewAuditService(auditRepository)
	emailService := service.NewEmailService(cfg.ResendAPIKey, cfg.EmailFrom, cfg.AppName, cfg.IsDevelopment())
	notificationService := service.NewNotificationService(notificationRepository, userRepository, emailService, cfg.NotifyEmailEnabled)
	goalService := service.NewGoalService(
		database,
		goalRepository,
		completionRepository,
		evidenceRepository,
		feedbackRepository,
		progressRepository,
		identityService,
		auditService,
		notificationService,
		cfg.EvidenceRequired,
	)
	reviewService := service.NewReviewService(database, reviewRepository, identityService, auditService, notificationService)

	return &App{
		Cfg:                 cfg,
		DB:                  database,
		IdentityService:     identityService,
		AuditService:        auditService,
		NotificationService: notificationService,
		GoalService:         goalService,
		ReviewService:       reviewService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
