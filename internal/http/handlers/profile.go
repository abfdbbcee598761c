package handlers

import (
	"errors"
	"strconv"

	"github.com/clipstash/internal/http/response"
	"github.com/clipstash/internal/service"

	"github.com/gin-gonic/gin"
)

// Me 获取当前登录用户信息
func (h *Handler) Me(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	user, err := h.AuthService.GetUserByID(userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "User not found.", nil)
		default:
			respondError(c, response.CodeInternal, "Error fetching user details.", err)
		}
		return
	}
	if user == nil {
		respondError(c, response.CodeNotFound, "User not found.", nil)
		return
	}

	response.SuccessWithMsg(c, "User details fetched successfully!", userPayload(user))
}

// MyLoginLogs 查询当前用户的登录日志
func (h *Handler) MyLoginLogs(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	logs, total, err := h.UserLoginLogService.ListByUser(userID, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "Error fetching login logs.", err)
		return
	}

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	response.SuccessWithPage(c, logs, buildPagination(page, pageSize, total))
}
