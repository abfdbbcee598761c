package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/clipstash/internal/config"
	"github.com/clipstash/internal/models"
	"github.com/clipstash/internal/repository"
)

// VideoService 视频元数据服务
type VideoService struct {
	cfg       *config.Config
	videoRepo repository.VideoRepository
}

// NewVideoService 创建视频服务
func NewVideoService(cfg *config.Config, videoRepo repository.VideoRepository) *VideoService {
	return &VideoService{
		cfg:       cfg,
		videoRepo: videoRepo,
	}
}

// UploadVideoInput 视频元数据创建输入
type UploadVideoInput struct {
	Title       string
	Description string
	Tags        []string
	FileURL     string
	FileSize    int64
	Duration    float64
}

// Upload 创建视频元数据记录
func (s *VideoService) Upload(userID uint, in UploadVideoInput) (*models.Video, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrMissingFields
	}

	now := time.Now()
	video := &models.Video{
		UserID:      userID,
		Title:       title,
		Description: in.Description,
		Tags:        models.StringList(in.Tags),
		FileURL:     in.FileURL,
		FileSize:    in.FileSize,
		Duration:    in.Duration,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.videoRepo.Create(video); err != nil {
		return nil, err
	}
	return video, nil
}

// ListVideosInput 视频列表查询输入
type ListVideosInput struct {
	Page   int
	Limit  int
	Title  string
	Tag    string
	SortBy string
}

// List 查询用户名下的视频列表
func (s *VideoService) List(userID uint, in ListVideosInput) ([]models.Video, int64, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	limit := in.Limit
	if limit <= 0 {
		limit = 10
	}
	if max := s.maxPageSize(); limit > max {
		limit = max
	}

	return s.videoRepo.List(repository.VideoListFilter{
		Page:     page,
		PageSize: limit,
		UserID:   userID,
		Title:    strings.TrimSpace(in.Title),
		Tag:      strings.TrimSpace(in.Tag),
		SortBy:   strings.TrimSpace(in.SortBy),
	})
}

// Get 获取用户名下的单个视频
func (s *VideoService) Get(userID, id uint) (*models.Video, error) {
	video, err := s.videoRepo.GetByIDForUser(id, userID)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, ErrNotFound
	}
	return video, nil
}

// UpdateVideoInput 视频元数据更新输入（nil 表示不更新该字段）
type UpdateVideoInput struct {
	Title       *string
	Description *string
	Tags        *[]string
}

// Update 更新视频元数据，仅允许标题、描述与标签
func (s *VideoService) Update(userID, id uint, in UpdateVideoInput) (*models.Video, error) {
	video, err := s.Get(userID, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		trimmed := strings.TrimSpace(*in.Title)
		if trimmed == "" {
			return nil, ErrMissingFields
		}
		video.Title = trimmed
	}
	if in.Description != nil {
		video.Description = *in.Description
	}
	if in.Tags != nil {
		video.Tags = models.StringList(*in.Tags)
	}

	video.UpdatedAt = time.Now()
	if err := s.videoRepo.Update(video); err != nil {
		return nil, err
	}
	return video, nil
}

// Delete 软删除用户名下的视频
func (s *VideoService) Delete(userID, id uint) error {
	affected, err := s.videoRepo.Delete(id, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Trim 基于已有视频生成剪辑后的新元数据记录
// 纯元数据复制：不触碰媒体文件，时长按区间换算。
func (s *VideoService) Trim(userID, id uint, start, end float64) (*models.Video, error) {
	video, err := s.Get(userID, id)
	if err != nil {
		return nil, err
	}
	if start < 0 || end <= start || end > video.Duration {
		return nil, ErrInvalidTrimRange
	}

	annotation := fmt.Sprintf("Trimmed from %s to %s", formatTimestamp(start), formatTimestamp(end))
	description := annotation
	if video.Description != "" {
		description = video.Description + "\n" + annotation
	}

	now := time.Now()
	trimmed := &models.Video{
		UserID:      userID,
		Title:       video.Title + " (Trimmed)",
		Description: description,
		Tags:        video.Tags,
		FileURL:     video.FileURL,
		FileSize:    video.FileSize,
		Duration:    end - start,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.videoRepo.Create(trimmed); err != nil {
		return nil, err
	}
	return trimmed, nil
}

// PurgeTrash 物理清理超过保留期的软删除视频，返回清理数量
func (s *VideoService) PurgeTrash(retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		retentionDays = s.trashRetentionDays()
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	return s.videoRepo.PurgeTrashedBefore(cutoff)
}

func (s *VideoService) maxPageSize() int {
	if s.cfg != nil && s.cfg.Video.MaxPageSize > 0 {
		return s.cfg.Video.MaxPageSize
	}
	return 100
}

func (s *VideoService) trashRetentionDays() int {
	if s.cfg != nil && s.cfg.Video.TrashRetentionDays > 0 {
		return s.cfg.Video.TrashRetentionDays
	}
	return 30
}

// formatTimestamp 将秒数格式化为 mm:ss
func formatTimestamp(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
