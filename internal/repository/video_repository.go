package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/clipstash/internal/constants"
	"github.com/clipstash/internal/models"

	"gorm.io/gorm"
)

// VideoRepository 视频元数据访问接口
type VideoRepository interface {
	Create(video *models.Video) error
	GetByIDForUser(id, userID uint) (*models.Video, error)
	List(filter VideoListFilter) ([]models.Video, int64, error)
	Update(video *models.Video) error
	Delete(id, userID uint) (int64, error)
	PurgeTrashedBefore(cutoff time.Time) (int64, error)
}

// GormVideoRepository GORM 实现
type GormVideoRepository struct {
	db *gorm.DB
}

// NewVideoRepository 创建视频仓库
func NewVideoRepository(db *gorm.DB) *GormVideoRepository {
	return &GormVideoRepository{db: db}
}

// Create 创建视频元数据
func (r *GormVideoRepository) Create(video *models.Video) error {
	return r.db.Create(video).Error
}

// GetByIDForUser 获取指定用户名下的视频，非本人视频按不存在处理
func (r *GormVideoRepository) GetByIDForUser(id, userID uint) (*models.Video, error) {
	var video models.Video
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&video).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &video, nil
}

// List 查询用户名下的视频列表
func (r *GormVideoRepository) List(filter VideoListFilter) ([]models.Video, int64, error) {
	query := r.db.Model(&models.Video{}).Where("user_id = ?", filter.UserID)

	if filter.Title != "" {
		query = query.Where(fmt.Sprintf("title %s ?", likeOperator(r.db)), "%"+filter.Title+"%")
	}
	if filter.Tag != "" {
		// 标签以 JSON 数组落库，按元素精确匹配
		query = query.Where("tags LIKE ?", "%\""+filter.Tag+"\"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var videos []models.Video
	if err := query.Order(videoSortExpr(filter.SortBy)).Find(&videos).Error; err != nil {
		return nil, 0, err
	}
	return videos, total, nil
}

// videoSortExpr 将排序字段白名单化，未知字段回退到创建时间。
func videoSortExpr(sortBy string) string {
	switch sortBy {
	case constants.VideoSortTitle:
		return "title DESC"
	case constants.VideoSortDuration:
		return "duration DESC"
	case constants.VideoSortCreatedAt:
		return "created_at DESC"
	default:
		return "created_at DESC"
	}
}

// Update 更新视频元数据
func (r *GormVideoRepository) Update(video *models.Video) error {
	return r.db.Save(video).Error
}

// Delete 软删除用户名下的视频，返回受影响行数
func (r *GormVideoRepository) Delete(id, userID uint) (int64, error) {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Video{})
	return result.RowsAffected, result.Error
}

// PurgeTrashedBefore 物理清理早于 cutoff 软删除的视频
func (r *GormVideoRepository) PurgeTrashedBefore(cutoff time.Time) (int64, error) {
	result := r.db.Unscoped().
		Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
		Delete(&models.Video{})
	return result.RowsAffected, result.Error
}
