package handlers

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/clipstash/internal/http/response"
	"github.com/clipstash/internal/service"

	"github.com/gin-gonic/gin"
)

// UploadVideoRequest 视频元数据创建请求
type UploadVideoRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	FileURL     string   `json:"file_url"`
	FileSize    int64    `json:"file_size"`
	Duration    float64  `json:"duration"`
}

// UploadVideo 创建视频元数据
func (h *Handler) UploadVideo(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	var req UploadVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "Title is required.", err)
		return
	}

	video, err := h.VideoService.Upload(userID, service.UploadVideoInput{
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		FileURL:     req.FileURL,
		FileSize:    req.FileSize,
		Duration:    req.Duration,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			respondError(c, response.CodeBadRequest, "Title is required.", nil)
		default:
			respondError(c, response.CodeInternal, "Error uploading video.", err)
		}
		return
	}

	response.Created(c, "Video uploaded successfully.", video)
}

// ListVideos 查询视频列表
func (h *Handler) ListVideos(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	videos, total, err := h.VideoService.List(userID, service.ListVideosInput{
		Page:   page,
		Limit:  limit,
		Title:  c.Query("title"),
		Tag:    c.Query("tag"),
		SortBy: c.Query("sort_by"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "Error fetching videos.", err)
		return
	}

	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	response.SuccessWithPage(c, videos, buildPagination(page, limit, total))
}

// GetVideo 获取单个视频
func (h *Handler) GetVideo(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	videoID, ok := parseVideoID(c)
	if !ok {
		return
	}

	video, err := h.VideoService.Get(userID, videoID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "Video not found.", nil)
		default:
			respondError(c, response.CodeInternal, "Error fetching video.", err)
		}
		return
	}

	response.Success(c, video)
}

// UpdateVideoRequest 视频元数据更新请求
type UpdateVideoRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Tags        []string `json:"tags"`
}

// UpdateVideo 更新视频元数据（仅允许 title/description/tags）
func (h *Handler) UpdateVideo(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	videoID, ok := parseVideoID(c)
	if !ok {
		return
	}

	// 先以通用结构读入以拒绝白名单之外的字段
	var raw map[string]json.RawMessage
	if err := c.ShouldBindJSON(&raw); err != nil {
		respondError(c, response.CodeBadRequest, "Invalid updates.", err)
		return
	}
	for field := range raw {
		switch field {
		case "title", "description", "tags":
		default:
			respondError(c, response.CodeBadRequest, "Invalid updates.", nil)
			return
		}
	}

	var req UpdateVideoRequest
	if err := unmarshalFields(raw, &req); err != nil {
		respondError(c, response.CodeBadRequest, "Invalid updates.", err)
		return
	}

	input := service.UpdateVideoInput{
		Title:       req.Title,
		Description: req.Description,
	}
	if _, ok := raw["tags"]; ok {
		input.Tags = &req.Tags
	}

	video, err := h.VideoService.Update(userID, videoID, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "Video not found.", nil)
		case errors.Is(err, service.ErrMissingFields):
			respondError(c, response.CodeBadRequest, "Title cannot be empty.", nil)
		default:
			respondError(c, response.CodeInternal, "Error updating video.", err)
		}
		return
	}

	response.SuccessWithMsg(c, "Video updated successfully.", video)
}

// DeleteVideo 删除视频（软删除）
func (h *Handler) DeleteVideo(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	videoID, ok := parseVideoID(c)
	if !ok {
		return
	}

	if err := h.VideoService.Delete(userID, videoID); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "Video not found.", nil)
		default:
			respondError(c, response.CodeInternal, "Error deleting video.", err)
		}
		return
	}

	response.SuccessWithMsg(c, "Video deleted successfully.", gin.H{"deleted": true})
}

// TrimVideoRequest 视频剪辑请求
type TrimVideoRequest struct {
	Start *float64 `json:"start" binding:"required"`
	End   *float64 `json:"end" binding:"required"`
}

// TrimVideo 基于区间生成剪辑后的新元数据记录
func (h *Handler) TrimVideo(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	videoID, ok := parseVideoID(c)
	if !ok {
		return
	}

	var req TrimVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "Start and end are required.", err)
		return
	}

	video, err := h.VideoService.Trim(userID, videoID, *req.Start, *req.End)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "Video not found.", nil)
		case errors.Is(err, service.ErrInvalidTrimRange):
			respondError(c, response.CodeBadRequest, "Invalid trim range.", nil)
		default:
			respondError(c, response.CodeInternal, "Error trimming video.", err)
		}
		return
	}

	response.Created(c, "Video trimmed successfully.", video)
}

func parseVideoID(c *gin.Context) (uint, bool) {
	raw := strings.TrimSpace(c.Param("id"))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "Invalid video id.", nil)
		return 0, false
	}
	return uint(id), true
}

func unmarshalFields(raw map[string]json.RawMessage, dest *UpdateVideoRequest) error {
	payload, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(payload, dest)
}
