package routes

import (
	"net/http"

	"github.com/talentloop/talentloop/internal/app"
	"github.com/talentloop/talentloop/internal/handler"
	"github.com/talentloop/talentloop/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	goal := handler.NewGoalHandler(app.GoalService)
	notification := handler.NewNotificationHandler(app.NotificationService)
	audit := handler.NewAuditHandler(app.AuditService)
	review := handler.NewReviewHandler(app.ReviewService)

	mux := http.NewServeMux()

	// Health
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Goals
	mux.HandleFunc("POST /api/goals", middleware.RequireAuth(goal.Create))
	mux.HandleFunc("GET /api/goals", middleware.RequireAuth(goal.List))
	mux.HandleFunc("GET /api/goals/{id}", middleware.RequireAuth(goal.Detail))
	mux.HandleFunc("POST /api/goals/{id}/approve", middleware.RequireAuth(goal.Approve))
	mux.HandleFunc("POST /api/goals/{id}/request-changes", middleware.RequireAuth(goal.RequestChanges))
	mux.HandleFunc("POST /api/goals/{id}/resubmit", middleware.RequireAuth(goal.Resubmit))
	mux.HandleFunc("POST /api/goals/{id}/withdraw", middleware.RequireAuth(goal.Withdraw))
	mux.HandleFunc("DELETE /api/goals/{id}", middleware.RequireAuth(goal.Delete))

	// Completion & evidence
	mux.HandleFunc("POST /api/goals/{id}/completion", middleware.RequireAuth(goal.SubmitCompletion))
	mux.HandleFunc("POST /api/goals/{id}/completion/approve", middleware.RequireAuth(goal.ApproveCompletion))
	mux.HandleFunc("POST /api/goals/{id}/completion/reject", middleware.RequireAuth(goal.RejectCompletion))
	mux.HandleFunc("POST /api/goals/{id}/completion/request-evidence", middleware.RequireAuth(goal.RequestAdditionalEvidence))
	mux.HandleFunc("POST /api/goals/{id}/completion/evidence", middleware.RequireAuth(goal.AddEvidence))
	mux.HandleFunc("POST /api/evidence/{id}/verify", middleware.RequireAuth(goal.VerifyEvidence))

	// Progress & feedback
	mux.HandleFunc("POST /api/goals/{id}/progress", middleware.RequireAuth(goal.AddProgress))
	mux.HandleFunc("GET /api/goals/{id}/progress", middleware.RequireAuth(goal.ProgressHistory))
	mux.HandleFunc("GET /api/goals/{id}/feedback", middleware.RequireAuth(goal.Feedback))

	// Notifications
	mux.HandleFunc("GET /api/notifications", middleware.RequireAuth(notification.Inbox))
	mux.HandleFunc("POST /api/notifications/{id}/read", middleware.RequireAuth(notification.MarkRead))

	// Audit (admin only; enforced in the service)
	mux.HandleFunc("GET /api/audit", middleware.RequireAuth(audit.Query))

	// Reviews
	mux.HandleFunc("POST /api/reviews", middleware.RequireAuth(review.Start))
	mux.HandleFunc("POST /api/reviews/{id}/submit", middleware.RequireAuth(review.SubmitSelfAssessment))
	mux.HandleFunc("POST /api/reviews/{id}/complete", middleware.RequireAuth(review.Complete))
	mux.HandleFunc("GET /api/reviews", middleware.RequireAuth(review.List))

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.RequestLogging,
		middleware.AuthMiddleware(app.Cfg.JWTSecret, app.IdentityService),
	)

	return handler
}
