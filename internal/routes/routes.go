package routes

import (
	"net/http"

	"github.com/rescuelink/api/internal/app"
	"github.com/rescuelink/api/internal/handler"
	"github.com/rescuelink/api/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(app.HealthChecks())
	auth := handler.NewAuthHandler(app.AuthService)
	user := handler.NewUserHandler(app.UserService)
	rescue := handler.NewRescueCaseHandler(app.RescueCaseService)
	image := handler.NewImageHandler(app.ImageService)
	donation := handler.NewDonationHandler(app.DonationService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /healthz", health.Healthz)

	// Auth (rate limited)
	rateLimiter := middleware.RateLimit(app.AuthLimiter, app.Cfg.TrustProxyHeaders)
	mux.HandleFunc("POST /auth/register", rateLimiter(auth.Register))
	mux.HandleFunc("POST /auth/login", rateLimiter(auth.Login))

	// Bearer token optional; an authenticated caller reports as themselves
	mux.HandleFunc("POST /cases", rescue.Create)
	mux.HandleFunc("GET /cases/{id}", rescue.Show)

	mux.HandleFunc("POST /donations", donation.Create)
	mux.HandleFunc("GET /donations", donation.List)
	mux.HandleFunc("GET /donations/{id}", donation.Show)

	// ============================================================================
	// PROTECTED ROUTES
	// ============================================================================

	// Rescue cases
	mux.HandleFunc("POST /cases/nearby", middleware.RequireAuth(rescue.Nearby))
	mux.HandleFunc("PUT /cases/{id}/assign", middleware.RequireAuth(rescue.Assign))
	mux.HandleFunc("PUT /cases/{id}/status", middleware.RequireAuth(rescue.UpdateStatus))
	mux.HandleFunc("POST /cases/images", middleware.RequireAuth(image.Upload))
	mux.HandleFunc("GET /me/cases/reported", middleware.RequireAuth(rescue.Reported))
	mux.HandleFunc("GET /me/cases/assigned", middleware.RequireAuth(rescue.Assigned))

	// Users
	mux.HandleFunc("GET /users/me", middleware.RequireAuth(user.Me))
	mux.HandleFunc("PUT /users/me/location", middleware.RequireAuth(user.UpdateLocation))
	mux.HandleFunc("POST /users/nearby", middleware.RequireAuth(user.NearbyVolunteers))

	// Donations
	mux.HandleFunc("PATCH /donations/{id}", middleware.RequireAuth(donation.UpdateStatus))
	mux.HandleFunc("DELETE /donations/{id}", middleware.RequireAuth(donation.Delete))

	return middleware.Chain(mux,
		middleware.Recover(),
		middleware.RequestID,
		middleware.RequestLogging,
		middleware.Timeout(app.Cfg.RequestTimeout),
		middleware.Authenticate(app.AuthService),
	)
}
