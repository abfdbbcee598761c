package models

import (
	"time"

	"gorm.io/gorm"
)

// Video 视频元数据表
// 说明：仅存储元数据，媒体文件本体由外部存储持有，这里只记录引用。
type Video struct {
	ID          uint           `gorm:"primarykey" json:"id"`         // 主键
	UserID      uint           `gorm:"index;not null" json:"user_id"` // 归属用户ID
	Title       string         `gorm:"not null;index" json:"title"`  // 标题
	Description string         `gorm:"type:text" json:"description"` // 描述
	Tags        StringList     `gorm:"type:text" json:"tags"`        // 标签列表（JSON 数组）
	FileURL     string         `gorm:"type:text" json:"file_url"`    // 媒体文件引用
	FileSize    int64          `json:"file_size"`                    // 文件大小（字节）
	Duration    float64        `json:"duration"`                     // 时长（秒）
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`      // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`      // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`               // 软删除时间
}

// TableName 指定表名
func (Video) TableName() string {
	return "videos"
}
