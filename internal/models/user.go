package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户表
type User struct {
	ID              uint           `gorm:"primarykey" json:"id"`                 // 主键
	Username        string         `gorm:"uniqueIndex;not null" json:"username"` // 用户名
	Email           string         `gorm:"uniqueIndex;not null" json:"email"`    // 邮箱（统一小写存储）
	PasswordHash    string         `gorm:"not null" json:"-"`                    // 密码哈希（不返回给前端）
	FirstName       string         `gorm:"default:''" json:"first_name"`         // 名
	LastName        string         `gorm:"default:''" json:"last_name"`          // 姓
	Address         string         `gorm:"type:text" json:"address"`             // 联系地址
	ProfileImage    string         `gorm:"type:text" json:"profile_image"`       // 头像地址
	QRCode          string         `gorm:"type:varchar(64)" json:"qr_code"`      // 用户收款码标识
	Balance         Money          `gorm:"type:decimal(12,2)" json:"balance"`    // 账户余额
	IsEmailVerified bool           `gorm:"not null;default:false" json:"is_email_verified"` // 邮箱是否已验证
	EmailOtp        *string        `gorm:"type:varchar(16)" json:"-"`            // 邮箱验证 OTP
	OtpExpiry       *time.Time     `json:"-"`                                    // 邮箱验证 OTP 过期时间
	ResetOtp        *string        `gorm:"type:varchar(16)" json:"-"`            // 密码重置 OTP
	ResetOtpExpiry  *time.Time     `json:"-"`                                    // 密码重置 OTP 过期时间
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`              // 创建时间
	UpdatedAt       time.Time      `gorm:"index" json:"updated_at"`              // 更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                       // 软删除时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
