package service

import (
	"testing"

	"github.com/clipstash/internal/constants"
	"github.com/clipstash/internal/models"
	"github.com/clipstash/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupLoginLogServiceTest(t *testing.T) (*UserLoginLogService, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.UserLoginLog{}); err != nil {
		t.Fatalf("migrate login log failed: %v", err)
	}
	return NewUserLoginLogService(repository.NewUserLoginLogRepository(db)), db
}

func TestRecordLoginNormalization(t *testing.T) {
	svc, db := setupLoginLogServiceTest(t)

	// 成功记录：邮箱小写化，失败原因清空
	err := svc.Record(RecordUserLoginInput{
		UserID:     301,
		Email:      "  Login-Log@Example.COM ",
		Status:     "SUCCESS",
		FailReason: "should-be-dropped",
		ClientIP:   " 10.0.0.1 ",
	})
	if err != nil {
		t.Fatalf("record success failed: %v", err)
	}

	var entry models.UserLoginLog
	if err := db.Where("user_id = ?", 301).First(&entry).Error; err != nil {
		t.Fatalf("load entry failed: %v", err)
	}
	if entry.Email != "login-log@example.com" {
		t.Fatalf("email should be normalized, got %s", entry.Email)
	}
	if entry.Status != constants.LoginLogStatusSuccess {
		t.Fatalf("status want success got %s", entry.Status)
	}
	if entry.FailReason != "" {
		t.Fatalf("success entry should have no fail reason, got %s", entry.FailReason)
	}
	if entry.ClientIP != "10.0.0.1" {
		t.Fatalf("client ip should be trimmed, got %q", entry.ClientIP)
	}

	// 非法状态视为失败，缺失原因补默认值
	err = svc.Record(RecordUserLoginInput{
		UserID: 302,
		Email:  "login-log-2@example.com",
		Status: "whatever",
	})
	if err != nil {
		t.Fatalf("record failed entry failed: %v", err)
	}
	if err := db.Where("user_id = ?", 302).First(&entry).Error; err != nil {
		t.Fatalf("load entry failed: %v", err)
	}
	if entry.Status != constants.LoginLogStatusFailed {
		t.Fatalf("status want failed got %s", entry.Status)
	}
	if entry.FailReason != constants.LoginLogFailReasonInternalError {
		t.Fatalf("fail reason want internal_error got %s", entry.FailReason)
	}
}

func TestRecordLoginNilService(t *testing.T) {
	var svc *UserLoginLogService
	if err := svc.Record(RecordUserLoginInput{Email: "nil@example.com"}); err != nil {
		t.Fatalf("nil service record should be a no-op, got %v", err)
	}
	logs, total, err := svc.ListByUser(1, 1, 10)
	if err != nil {
		t.Fatalf("nil service list should be a no-op, got %v", err)
	}
	if total != 0 || len(logs) != 0 {
		t.Fatalf("nil service list should be empty")
	}
}

func TestListLoginLogsByUser(t *testing.T) {
	svc, _ := setupLoginLogServiceTest(t)
	for i := 0; i < 3; i++ {
		if err := svc.Record(RecordUserLoginInput{
			UserID: 311,
			Email:  "login-log-list@example.com",
			Status: constants.LoginLogStatusSuccess,
		}); err != nil {
			t.Fatalf("record failed: %v", err)
		}
	}
	if err := svc.Record(RecordUserLoginInput{
		UserID:     312,
		Email:      "login-log-other@example.com",
		Status:     constants.LoginLogStatusFailed,
		FailReason: constants.LoginLogFailReasonInvalidCredentials,
	}); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	logs, total, err := svc.ListByUser(311, 1, 2)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 3 {
		t.Fatalf("total want 3 got %d", total)
	}
	if len(logs) != 2 {
		t.Fatalf("page size want 2 got %d", len(logs))
	}
	for _, entry := range logs {
		if entry.UserID != 311 {
			t.Fatalf("list should be scoped to the user, got user_id %d", entry.UserID)
		}
	}
}
