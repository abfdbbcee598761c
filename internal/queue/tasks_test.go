package queue

import (
	"encoding/json"
	"testing"
)

func TestNewWelcomeEmailTask(t *testing.T) {
	task, err := NewWelcomeEmailTask(WelcomeEmailPayload{UserID: 42})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if task.Type() != TaskWelcomeEmail {
		t.Fatalf("task type want %s got %s", TaskWelcomeEmail, task.Type())
	}
	var payload WelcomeEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		t.Fatalf("unmarshal payload failed: %v", err)
	}
	if payload.UserID != 42 {
		t.Fatalf("user id want 42 got %d", payload.UserID)
	}
}

func TestNewVideoPurgeTask(t *testing.T) {
	task, err := NewVideoPurgeTask(VideoPurgePayload{RetentionDays: 30})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if task.Type() != TaskVideoPurge {
		t.Fatalf("task type want %s got %s", TaskVideoPurge, task.Type())
	}
	var payload VideoPurgePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		t.Fatalf("unmarshal payload failed: %v", err)
	}
	if payload.RetentionDays != 30 {
		t.Fatalf("retention days want 30 got %d", payload.RetentionDays)
	}
}

func TestClientDisabledIsSafe(t *testing.T) {
	var client *Client
	if client.Enabled() {
		t.Fatalf("nil client should report disabled")
	}
	if err := client.EnqueueWelcomeEmail(WelcomeEmailPayload{UserID: 1}); err != nil {
		t.Fatalf("disabled client enqueue should be a no-op, got %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("nil client close should be a no-op, got %v", err)
	}
}
