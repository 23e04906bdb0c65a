package routes

import (
	"HaloBackend/controllers"
	"HaloBackend/metrics"
	"HaloBackend/middlewares"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Options selects the optional middleware around the HTTP surface.
// A nil Verifier disables authentication; a nil Limiter disables rate limiting.
type Options struct {
	Logger         *logrus.Logger
	Verifier       middlewares.TokenVerifier
	EnforceAuth    bool
	Limiter        middlewares.Limiter
	MetricsEnabled bool
	AllowedOrigins []string
}

func SetupRouter(opts Options) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.CORS(opts.AllowedOrigins))
	r.Use(middlewares.RequestLogger(opts.Logger))
	if opts.MetricsEnabled {
		r.Use(metrics.Middleware())
		r.GET("/metrics", metrics.Handler())
	}

	RegisterRoutes(r, opts)
	return r
}

func RegisterRoutes(r *gin.Engine, opts Options) {
	var auth gin.HandlerFunc = passThrough
	if opts.Verifier != nil {
		auth = middlewares.Authenticate(opts.Verifier, opts.EnforceAuth, opts.Logger)
	}
	var limit gin.HandlerFunc = passThrough
	if opts.Limiter != nil {
		limit = middlewares.RateLimit(opts.Limiter, opts.Logger)
	}

	r.GET("/health", controllers.Health)
	r.POST("/moderate/image", controllers.ModerateImage)
	r.GET("/debug/auth", auth, controllers.DebugAuth)

	child := r.Group("/child")
	{
		child.GET("/usage_summary/:uid", controllers.UsageSummary)
		child.GET("/flashcards", controllers.Flashcards)
	}
	childWrites := r.Group("/child")
	childWrites.Use(auth)
	{
		childWrites.POST("/register", controllers.RegisterChild)
		childWrites.POST("/app_usage", controllers.PushAppUsage)
		childWrites.POST("/journal", controllers.SaveJournal)
		childWrites.POST("/reminder", controllers.SetReminder)
		childWrites.POST("/report_message", limit, controllers.ReportMessage)
		childWrites.POST("/report_text", limit, controllers.ReportText)
		childWrites.POST("/sos", controllers.SendSOS)
		childWrites.POST("/location", controllers.UpdateLocation)
	}

	parent := r.Group("/parent")
	{
		parent.GET("/find_child/:childId", controllers.FindChild)
		parent.GET("/alerts/:parentId", controllers.ParentAlerts)
		parent.GET("/ws/:parentId", controllers.ServeFeed)
	}
	parentWrites := r.Group("/parent")
	parentWrites.Use(auth)
	{
		parentWrites.POST("/register", controllers.RegisterParent)
		parentWrites.PUT("/alert/:alertId", controllers.AcknowledgeAlert)
	}
}

func passThrough(c *gin.Context) {
	c.Next()
}
