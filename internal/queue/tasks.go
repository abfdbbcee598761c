package queue

import (
	"encoding/json"

	"github.com/clipstash/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskWelcomeEmail 注册欢迎邮件任务
	TaskWelcomeEmail = constants.TaskWelcomeEmail
	// TaskVideoPurge 视频回收站清理任务
	TaskVideoPurge = constants.TaskVideoPurge
)

// WelcomeEmailPayload 欢迎邮件任务载荷
type WelcomeEmailPayload struct {
	UserID uint `json:"user_id"`
}

// VideoPurgePayload 回收站清理任务载荷
type VideoPurgePayload struct {
	RetentionDays int `json:"retention_days"`
}

// NewWelcomeEmailTask 创建欢迎邮件任务
func NewWelcomeEmailTask(payload WelcomeEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskWelcomeEmail, body), nil
}

// NewVideoPurgeTask 创建回收站清理任务
func NewVideoPurgeTask(payload VideoPurgePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskVideoPurge, body), nil
}
