package worker

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/clipstash/internal/logger"
	"github.com/clipstash/internal/provider"
	"github.com/clipstash/internal/queue"
	"github.com/clipstash/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskWelcomeEmail, c.handleWelcomeEmail)
	mux.HandleFunc(queue.TaskVideoPurge, c.handleVideoPurge)
}

func (c *Consumer) handleWelcomeEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_welcome_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.WelcomeEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_welcome_email_unmarshal_failed", "error", err)
		return err
	}
	if payload.UserID == 0 {
		logger.Debugw("worker_welcome_email_skip_invalid_payload", "user_id", payload.UserID)
		return nil
	}
	user, err := c.UserRepo.GetByID(payload.UserID)
	if err != nil {
		logger.Warnw("worker_welcome_email_fetch_user_failed", "user_id", payload.UserID, "error", err)
		return err
	}
	if user == nil {
		logger.Debugw("worker_welcome_email_skip_user_not_found", "user_id", payload.UserID)
		return nil
	}
	receiverEmail := strings.TrimSpace(user.Email)
	if receiverEmail == "" {
		logger.Debugw("worker_welcome_email_skip_empty_receiver", "user_id", user.ID)
		return nil
	}
	if c.EmailService == nil {
		logger.Warnw("worker_welcome_email_skip_email_service_nil", "user_id", user.ID)
		return nil
	}
	if err := c.EmailService.SendWelcomeEmail(receiverEmail, user.Username); err != nil {
		if errors.Is(err, service.ErrEmailServiceDisabled) || errors.Is(err, service.ErrEmailServiceNotConfigured) {
			logger.Debugw("worker_welcome_email_skip_disabled", "user_id", user.ID)
			return nil
		}
		logger.Warnw("worker_welcome_email_send_failed",
			"user_id", user.ID,
			"receiver_email", receiverEmail,
			"error", err,
		)
		return err
	}
	return nil
}

func (c *Consumer) handleVideoPurge(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_video_purge_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.VideoPurgePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_video_purge_unmarshal_failed", "error", err)
		return err
	}
	if c.VideoService == nil {
		logger.Warnw("worker_video_purge_skip_video_service_nil")
		return nil
	}
	retentionDays := payload.RetentionDays
	if retentionDays <= 0 && c.Config != nil {
		retentionDays = c.Config.Video.TrashRetentionDays
	}
	purged, err := c.VideoService.PurgeTrash(retentionDays)
	if err != nil {
		logger.Warnw("worker_video_purge_failed", "retention_days", retentionDays, "error", err)
		return err
	}
	if purged > 0 {
		logger.Infow("worker_video_purge_done", "retention_days", retentionDays, "purged", purged)
	}
	return nil
}
