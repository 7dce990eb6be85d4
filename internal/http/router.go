package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"taskhive/internal/service"
)

// RouterOptions parametriza el interceptor de autenticación.
type RouterOptions struct {
	SkipPrefixes   []string
	RequestTimeout time.Duration
}

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	sessions service.SessionStore,
	opts RouterOptions,
	authH *AuthHandler,
	teamH *TeamHandler,
	taskH *TaskHandler,
	profileH *ProfileHandler,
) *gin.Engine {
	r := gin.New()

	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	skip := append([]string{"/metrics", "/healthz"}, opts.SkipPrefixes...)

	// Middlewares basicos: logging, recovery, JSON content-type, metricas
	// y el interceptor de sesion delante de todos los handlers.
	r.Use(
		zapLoggerMiddleware(logger),
		gin.Recovery(),
		jsonContentTypeMiddleware(),
		metricsMiddleware(),
		SessionAuth(sessions, skip, opts.RequestTimeout),
	)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	auth := r.Group("/auth")
	auth.POST("/signup", authH.SignUp)
	auth.POST("/login", authH.Login)
	auth.POST("/logout", authH.Logout)

	teams := r.Group("/teams")
	teams.GET("", teamH.ListMine)
	teams.POST("", teamH.Create)
	teams.GET("/joinable", teamH.ListJoinable)
	teams.GET("/:id", teamH.Get)
	teams.POST("/:id/join", teamH.Join)
	teams.POST("/:id/leave", teamH.Leave)
	teams.GET("/:id/roles", teamH.ListRoles)
	teams.POST("/:id/roles", teamH.CreateRole)
	teams.GET("/:id/tasks", taskH.ListForTeam)

	r.PUT("/roles/member", teamH.ChangeMemberRole)

	tasks := r.Group("/tasks")
	tasks.POST("", taskH.Create)
	tasks.GET("", taskH.ListAll)
	tasks.GET("/assigned", taskH.ListAssigned)
	tasks.GET("/:id", taskH.Get)
	tasks.POST("/:id/assign", taskH.Assign)

	profile := r.Group("/profile")
	profile.GET("", profileH.Get)
	profile.PUT("/avatar", profileH.SetAvatar)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
