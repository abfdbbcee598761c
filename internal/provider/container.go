package provider

import (
	"github.com/clipstash/internal/cache"
	"github.com/clipstash/internal/config"
	"github.com/clipstash/internal/logger"
	"github.com/clipstash/internal/models"
	"github.com/clipstash/internal/queue"
	"github.com/clipstash/internal/repository"
	"github.com/clipstash/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo         repository.UserRepository
	VideoRepo        repository.VideoRepository
	UserLoginLogRepo repository.UserLoginLogRepository

	// Services
	AuthService         *service.AuthService
	EmailService        *service.EmailService
	VideoService        *service.VideoService
	CaptchaService      *service.CaptchaService
	UserLoginLogService *service.UserLoginLogService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.VideoRepo = repository.NewVideoRepository(db)
	c.UserLoginLogRepo = repository.NewUserLoginLogRepository(db)
}

func (c *Container) initServices() {
	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.AuthService = service.NewAuthService(c.Config, c.UserRepo, c.EmailService, c.QueueClient)
	c.VideoService = service.NewVideoService(c.Config, c.VideoRepo)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.UserLoginLogService = service.NewUserLoginLogService(c.UserLoginLogRepo)
}
