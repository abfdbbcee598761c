package repository

import "time"

// VideoListFilter 查询视频列表的过滤条件
type VideoListFilter struct {
	Page     int
	PageSize int
	UserID   uint
	Title    string
	Tag      string
	SortBy   string
}

// UserLoginLogListFilter 查询用户登录日志列表的过滤条件
type UserLoginLogListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	Email       string
	Status      string
	FailReason  string
	ClientIP    string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}
