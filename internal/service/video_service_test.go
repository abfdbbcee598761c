package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/clipstash/internal/config"
	"github.com/clipstash/internal/models"
	"github.com/clipstash/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupVideoServiceTest(t *testing.T) (*VideoService, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Video{}); err != nil {
		t.Fatalf("migrate video failed: %v", err)
	}
	cfg := &config.Config{}
	cfg.Video.TrashRetentionDays = 30
	cfg.Video.MaxPageSize = 100
	return NewVideoService(cfg, repository.NewVideoRepository(db)), db
}

func uploadTestVideo(t *testing.T, svc *VideoService, userID uint, title string, duration float64, tags ...string) *models.Video {
	t.Helper()
	video, err := svc.Upload(userID, UploadVideoInput{
		Title:       title,
		Description: "description of " + title,
		Tags:        tags,
		FileURL:     "https://cdn.example.com/" + title + ".mp4",
		FileSize:    1024,
		Duration:    duration,
	})
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	return video
}

func TestUploadRequiresTitle(t *testing.T) {
	svc, _ := setupVideoServiceTest(t)

	if _, err := svc.Upload(1, UploadVideoInput{Title: "   "}); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("want ErrMissingFields got %v", err)
	}
}

func TestGetVideoOwnerScoped(t *testing.T) {
	svc, _ := setupVideoServiceTest(t)
	video := uploadTestVideo(t, svc, 101, "owner-scoped", 120)

	got, err := svc.Get(101, video.ID)
	if err != nil {
		t.Fatalf("owner get failed: %v", err)
	}
	if got.ID != video.ID {
		t.Fatalf("unexpected video: %d", got.ID)
	}

	if _, err := svc.Get(102, video.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("other user should get ErrNotFound, got %v", err)
	}
}

func TestUpdateVideoFields(t *testing.T) {
	svc, _ := setupVideoServiceTest(t)
	video := uploadTestVideo(t, svc, 111, "update-fields", 60, "one", "two")

	newTitle := "Renamed"
	newDesc := "fresh description"
	updated, err := svc.Update(111, video.ID, UpdateVideoInput{Title: &newTitle, Description: &newDesc})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Title != "Renamed" || updated.Description != "fresh description" {
		t.Fatalf("unexpected update result: %+v", updated)
	}
	if len(updated.Tags) != 2 {
		t.Fatalf("tags should be untouched, got %v", updated.Tags)
	}

	emptyTags := []string{}
	updated, err = svc.Update(111, video.ID, UpdateVideoInput{Tags: &emptyTags})
	if err != nil {
		t.Fatalf("tags update failed: %v", err)
	}
	if len(updated.Tags) != 0 {
		t.Fatalf("tags should be cleared, got %v", updated.Tags)
	}

	blank := "  "
	if _, err := svc.Update(111, video.ID, UpdateVideoInput{Title: &blank}); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("blank title: want ErrMissingFields got %v", err)
	}

	if _, err := svc.Update(999, video.ID, UpdateVideoInput{Title: &newTitle}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("other user update: want ErrNotFound got %v", err)
	}
}

func TestDeleteVideo(t *testing.T) {
	svc, _ := setupVideoServiceTest(t)
	video := uploadTestVideo(t, svc, 121, "delete-me", 45)

	if err := svc.Delete(122, video.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("other user delete: want ErrNotFound got %v", err)
	}
	if err := svc.Delete(121, video.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.Get(121, video.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted video should be gone, got %v", err)
	}
	if err := svc.Delete(121, video.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: want ErrNotFound got %v", err)
	}
}

func TestTrimVideo(t *testing.T) {
	svc, _ := setupVideoServiceTest(t)
	video := uploadTestVideo(t, svc, 131, "trim-source", 300, "clip")

	cases := []struct {
		name  string
		start float64
		end   float64
	}{
		{name: "negative start", start: -1, end: 10},
		{name: "end before start", start: 20, end: 10},
		{name: "end equals start", start: 20, end: 20},
		{name: "end beyond duration", start: 0, end: 301},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Trim(131, video.ID, tc.start, tc.end); !errors.Is(err, ErrInvalidTrimRange) {
				t.Fatalf("want ErrInvalidTrimRange got %v", err)
			}
		})
	}

	trimmed, err := svc.Trim(131, video.ID, 10, 65)
	if err != nil {
		t.Fatalf("trim failed: %v", err)
	}
	if trimmed.ID == video.ID {
		t.Fatalf("trim should create a new record")
	}
	if trimmed.Title != "trim-source (Trimmed)" {
		t.Fatalf("unexpected trimmed title: %s", trimmed.Title)
	}
	if !strings.HasSuffix(trimmed.Description, "Trimmed from 00:10 to 01:05") {
		t.Fatalf("unexpected trimmed description: %s", trimmed.Description)
	}
	if trimmed.Duration != 55 {
		t.Fatalf("trimmed duration want 55 got %f", trimmed.Duration)
	}
	if len(trimmed.Tags) != 1 || trimmed.Tags[0] != "clip" {
		t.Fatalf("tags should carry over, got %v", trimmed.Tags)
	}

	// 原视频保持不变
	original, err := svc.Get(131, video.ID)
	if err != nil {
		t.Fatalf("reload original failed: %v", err)
	}
	if original.Duration != 300 {
		t.Fatalf("original duration should be unchanged, got %f", original.Duration)
	}
}

func TestTrimVideoEmptyDescription(t *testing.T) {
	svc, _ := setupVideoServiceTest(t)
	userID := uint(171)
	video, err := svc.Upload(userID, UploadVideoInput{
		Title:    "trim-no-description",
		FileURL:  "https://cdn.example.com/trim-no-description.mp4",
		Duration: 120,
	})
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	trimmed, err := svc.Trim(userID, video.ID, 0, 30)
	if err != nil {
		t.Fatalf("trim failed: %v", err)
	}
	if trimmed.Description != "Trimmed from 00:00 to 00:30" {
		t.Fatalf("empty source description should not gain a separator, got %q", trimmed.Description)
	}
}

func TestListVideosFilters(t *testing.T) {
	svc, _ := setupVideoServiceTest(t)
	userID := uint(141)
	uploadTestVideo(t, svc, userID, "list-alpha walkthrough", 100, "tutorial")
	uploadTestVideo(t, svc, userID, "list-beta review", 200, "review")
	uploadTestVideo(t, svc, userID, "list-gamma walkthrough", 50, "tutorial")
	uploadTestVideo(t, svc, 142, "list-other-user", 10, "tutorial")

	videos, total, err := svc.List(userID, ListVideosInput{Title: "list-"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 3 || len(videos) != 3 {
		t.Fatalf("owner list want 3 got total=%d len=%d", total, len(videos))
	}

	videos, total, err = svc.List(userID, ListVideosInput{Title: "walkthrough"})
	if err != nil {
		t.Fatalf("title filter failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("title filter want 2 got %d", total)
	}

	videos, total, err = svc.List(userID, ListVideosInput{Tag: "review"})
	if err != nil {
		t.Fatalf("tag filter failed: %v", err)
	}
	if total != 1 || videos[0].Title != "list-beta review" {
		t.Fatalf("tag filter unexpected result: total=%d", total)
	}

	videos, _, err = svc.List(userID, ListVideosInput{Title: "list-", SortBy: "duration"})
	if err != nil {
		t.Fatalf("sorted list failed: %v", err)
	}
	if len(videos) != 3 || videos[0].Duration != 200 {
		t.Fatalf("duration sort should be descending, got %+v", videos)
	}

	videos, total, err = svc.List(userID, ListVideosInput{Title: "list-", Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("paged list failed: %v", err)
	}
	if total != 3 || len(videos) != 1 {
		t.Fatalf("page 2 want 1 item got %d (total %d)", len(videos), total)
	}
}

func TestListVideosLimitCapped(t *testing.T) {
	svc, _ := setupVideoServiceTest(t)
	svc.cfg.Video.MaxPageSize = 2
	userID := uint(151)
	uploadTestVideo(t, svc, userID, "cap-one", 10)
	uploadTestVideo(t, svc, userID, "cap-two", 10)
	uploadTestVideo(t, svc, userID, "cap-three", 10)

	videos, total, err := svc.List(userID, ListVideosInput{Title: "cap-", Limit: 50})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 3 || len(videos) != 2 {
		t.Fatalf("limit should cap at 2, got %d (total %d)", len(videos), total)
	}
}

func TestPurgeTrash(t *testing.T) {
	svc, db := setupVideoServiceTest(t)
	userID := uint(161)
	old := uploadTestVideo(t, svc, userID, "purge-old", 10)
	fresh := uploadTestVideo(t, svc, userID, "purge-fresh", 10)
	kept := uploadTestVideo(t, svc, userID, "purge-kept", 10)

	if err := svc.Delete(userID, old.ID); err != nil {
		t.Fatalf("delete old failed: %v", err)
	}
	if err := svc.Delete(userID, fresh.ID); err != nil {
		t.Fatalf("delete fresh failed: %v", err)
	}

	// 将一条软删除记录回拨到保留期之外
	backdated := time.Now().AddDate(0, 0, -40)
	if err := db.Unscoped().Model(&models.Video{}).Where("id = ?", old.ID).
		Update("deleted_at", backdated).Error; err != nil {
		t.Fatalf("backdate deleted_at failed: %v", err)
	}

	purged, err := svc.PurgeTrash(30)
	if err != nil {
		t.Fatalf("purge failed: %v", err)
	}
	if purged != 1 {
		t.Fatalf("purge count want 1 got %d", purged)
	}

	var count int64
	if err := db.Unscoped().Model(&models.Video{}).Where("id = ?", old.ID).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("old video should be physically removed")
	}

	// 保留期内的软删除记录与未删除记录不受影响
	if err := db.Unscoped().Model(&models.Video{}).Where("id IN ?", []uint{fresh.ID, kept.ID}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("remaining records want 2 got %d", count)
	}
}
