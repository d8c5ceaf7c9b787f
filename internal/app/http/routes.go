package routes

import (
	"net/http"

	"vidshelf/config"
	adminapi "vidshelf/internal/api/admin"
	authapi "vidshelf/internal/api/auth"
	"vidshelf/internal/api/billing"
	"vidshelf/internal/api/plans"
	stripewebhooks "vidshelf/internal/api/stripewebhook"
	"vidshelf/internal/api/users"
	videosapi "vidshelf/internal/api/videos"
	"vidshelf/internal/app/http/middleware"
	domainusers "vidshelf/internal/domain/users"
	"vidshelf/internal/infra/ratelimit"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(r *gin.Engine, limiter *ratelimit.Limiter) {
	// Signed by Stripe; the raw body must reach the handler untouched.
	r.POST("/webhook", stripewebhooks.StripeWebhook)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/plan", plans.GetPlan)

	// Identity endpoints are rate limited per client IP.
	public := r.Group("/")
	public.Use(middleware.RateLimit(limiter))
	public.POST("/register", middleware.SanitizeAndCleanInputMiddleware("password"), authapi.Register)
	public.POST("/login", authapi.Login)
	public.POST("/logout", authapi.Logout)

	if config.GoogleEnabled() {
		public.GET("/auth/google", authapi.GoogleStart)
		public.GET("/auth/google/callback", authapi.GoogleCallback)
	}

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware())
	auth.GET("/me", users.GetCurrentUser)
	auth.PATCH("/me", middleware.SanitizeAndCleanInputMiddleware(), users.UpdateCurrentUser)
	auth.POST("/change-password", authapi.ChangePassword)
	auth.GET("/subscription", billing.GetSubscription)
	auth.POST("/checkout", billing.CreateCheckoutSession)
	auth.POST("/billing-portal", billing.CreateBillingPortal)

	// Subscribed users
	subscribed := auth.Group("/")
	subscribed.Use(middleware.RequireActiveSubscription())
	subscribed.GET("/videos", videosapi.ListVideos)
	subscribed.POST("/videos", videosapi.CreateVideo)
	subscribed.DELETE("/videos", videosapi.DeleteVideo)

	// Admin page, reachable from a browser session cookie
	r.GET("/admin/users",
		middleware.OptionalAuth(),
		middleware.RequireRoleOrRedirect(domainusers.RoleAdmin, "/"),
		adminapi.UsersPage,
	)

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRole(domainusers.RoleAdmin))
	admin.PUT("/users/:id/role", adminapi.UpdateUserRole)
	admin.GET("/api/users", adminapi.ListAllUsers)
	admin.GET("/api/users/:id", adminapi.GetUserDetails)
	admin.GET("/api/stats", adminapi.GetAdminStats)
}
