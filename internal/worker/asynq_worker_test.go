package worker

import (
	"context"
	"testing"
	"time"

	"github.com/clipstash/internal/config"
	"github.com/clipstash/internal/models"
	"github.com/clipstash/internal/provider"
	"github.com/clipstash/internal/queue"
	"github.com/clipstash/internal/repository"
	"github.com/clipstash/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

func setupConsumerTest(t *testing.T) (*Consumer, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Video{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	cfg := &config.Config{}
	cfg.Video.TrashRetentionDays = 30
	cfg.Video.MaxPageSize = 100

	userRepo := repository.NewUserRepository(db)
	videoRepo := repository.NewVideoRepository(db)
	c := &provider.Container{
		Config:       cfg,
		UserRepo:     userRepo,
		VideoRepo:    videoRepo,
		EmailService: service.NewEmailService(&config.EmailConfig{Enabled: false}),
		VideoService: service.NewVideoService(cfg, videoRepo),
	}
	return NewConsumer(c), db
}

func TestRegisterNilMux(t *testing.T) {
	consumer, _ := setupConsumerTest(t)
	// 不应 panic
	consumer.Register(nil)
}

func TestHandleWelcomeEmailSkipCases(t *testing.T) {
	consumer, db := setupConsumerTest(t)
	ctx := context.Background()

	if err := consumer.handleWelcomeEmail(ctx, nil); err != nil {
		t.Fatalf("nil task should be skipped, got %v", err)
	}

	bad := asynq.NewTask(queue.TaskWelcomeEmail, []byte("{"))
	if err := consumer.handleWelcomeEmail(ctx, bad); err == nil {
		t.Fatalf("broken payload should fail")
	}

	zero, err := queue.NewWelcomeEmailTask(queue.WelcomeEmailPayload{UserID: 0})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleWelcomeEmail(ctx, zero); err != nil {
		t.Fatalf("zero user id should be skipped, got %v", err)
	}

	missing, err := queue.NewWelcomeEmailTask(queue.WelcomeEmailPayload{UserID: 987654})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleWelcomeEmail(ctx, missing); err != nil {
		t.Fatalf("missing user should be skipped, got %v", err)
	}

	// 邮件服务关闭时按跳过处理，任务不重试
	user := &models.User{
		Username:     "worker-welcome",
		Email:        "worker-welcome@example.com",
		PasswordHash: "x",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	task, err := queue.NewWelcomeEmailTask(queue.WelcomeEmailPayload{UserID: user.ID})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleWelcomeEmail(ctx, task); err != nil {
		t.Fatalf("disabled email service should be skipped, got %v", err)
	}
}

func TestHandleVideoPurge(t *testing.T) {
	consumer, db := setupConsumerTest(t)
	ctx := context.Background()
	userID := uint(771)

	video, err := consumer.VideoService.Upload(userID, service.UploadVideoInput{
		Title:    "worker-purge-old",
		FileURL:  "https://cdn.example.com/worker-purge.mp4",
		Duration: 12,
	})
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	kept, err := consumer.VideoService.Upload(userID, service.UploadVideoInput{
		Title:    "worker-purge-kept",
		FileURL:  "https://cdn.example.com/worker-kept.mp4",
		Duration: 12,
	})
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	if err := consumer.VideoService.Delete(userID, video.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	backdated := time.Now().AddDate(0, 0, -40)
	if err := db.Unscoped().Model(&models.Video{}).Where("id = ?", video.ID).
		Update("deleted_at", backdated).Error; err != nil {
		t.Fatalf("backdate deleted_at failed: %v", err)
	}

	task, err := queue.NewVideoPurgeTask(queue.VideoPurgePayload{RetentionDays: 30})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleVideoPurge(ctx, task); err != nil {
		t.Fatalf("purge failed: %v", err)
	}

	var count int64
	if err := db.Unscoped().Model(&models.Video{}).Where("id = ?", video.ID).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expired video should be physically removed")
	}
	if err := db.Unscoped().Model(&models.Video{}).Where("id = ?", kept.ID).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("live video should survive purge")
	}
}

func TestHandleVideoPurgeNilVideoService(t *testing.T) {
	consumer := NewConsumer(&provider.Container{})
	task, err := queue.NewVideoPurgeTask(queue.VideoPurgePayload{})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleVideoPurge(context.Background(), task); err != nil {
		t.Fatalf("nil video service should be skipped, got %v", err)
	}
}
