package router

import (
	"fmt"
	"strings"

	"github.com/clipstash/internal/cache"
	"github.com/clipstash/internal/config"
	"github.com/clipstash/internal/constants"
	"github.com/clipstash/internal/http/handlers"
	"github.com/clipstash/internal/logger"
	"github.com/clipstash/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	handler := handlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = constants.RedisPrefixDefault
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		Message:       "Too many login attempts. Try again in %d seconds.",
	}
	otpSendRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:otp_send", redisPrefix),
		WindowSeconds: cfg.Email.Otp.SendIntervalSeconds,
		MaxRequests:   1,
		Message:       "OTP was sent recently. Try again in %d seconds.",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// 用户认证接口
	auth := r.Group("/auth")
	{
		auth.POST("/signup", handler.Signup)
		auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), handler.Login)
		auth.POST("/email-verify", handler.VerifyEmail)
		auth.POST("/resend-email-verify", RateLimitMiddleware(redisClient, otpSendRule, KeyByIPAndJSONField("email")), handler.ResendEmailVerify)
		auth.POST("/forgot-password", RateLimitMiddleware(redisClient, otpSendRule, KeyByIPAndJSONField("email")), handler.ForgotPassword)
		auth.POST("/reset-password", handler.ResetPassword)
	}

	// 公开接口
	r.GET("/api/captcha/image", handler.GetImageCaptcha)

	// 用户接口（需鉴权）
	user := r.Group("")
	user.Use(UserJWTAuthMiddleware(cfg.JWT.SecretKey))
	{
		user.GET("/me", handler.Me)
		user.GET("/me/login-logs", handler.MyLoginLogs)

		user.POST("/api/videos", handler.UploadVideo)
		user.GET("/api/videos", handler.ListVideos)
		user.GET("/api/videos/:id", handler.GetVideo)
		user.PATCH("/api/videos/:id", handler.UpdateVideo)
		user.DELETE("/api/videos/:id", handler.DeleteVideo)
		user.POST("/api/videos/:id/trim", handler.TrimVideo)
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
