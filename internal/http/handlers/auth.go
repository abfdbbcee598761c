package handlers

import (
	"errors"

	"github.com/clipstash/internal/constants"
	"github.com/clipstash/internal/http/response"
	"github.com/clipstash/internal/models"
	"github.com/clipstash/internal/service"

	"github.com/gin-gonic/gin"
)

// CaptchaPayloadRequest 验证码载荷
type CaptchaPayloadRequest struct {
	CaptchaID   string `json:"captcha_id"`
	CaptchaCode string `json:"captcha_code"`
}

// ToServicePayload 转换为服务层载荷
func (r CaptchaPayloadRequest) ToServicePayload() service.CaptchaVerifyPayload {
	return service.CaptchaVerifyPayload{
		CaptchaID:   r.CaptchaID,
		CaptchaCode: r.CaptchaCode,
	}
}

// SignupRequest 注册请求
type SignupRequest struct {
	Username        string `json:"username" binding:"required"`
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Address         string `json:"address"`
}

// Signup 用户注册
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "All fields are required.", err)
		return
	}

	user, token, expiresAt, err := h.AuthService.Signup(service.SignupInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Address:         req.Address,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			respondError(c, response.CodeBadRequest, "All fields are required.", nil)
		case errors.Is(err, service.ErrPasswordMismatch):
			respondError(c, response.CodeBadRequest, "Passwords do not match.", nil)
		case errors.Is(err, service.ErrInvalidEmail):
			respondError(c, response.CodeBadRequest, "Invalid email address.", nil)
		case errors.Is(err, service.ErrWeakPassword):
			respondError(c, response.CodeBadRequest, err.Error(), nil)
		case errors.Is(err, service.ErrEmailExists), errors.Is(err, service.ErrUsernameExists):
			respondError(c, response.CodeConflict, "Email or username already in use.", nil)
		default:
			respondError(c, response.CodeInternal, "Error in registration.", err)
		}
		return
	}

	response.Created(c, "Registration successful.", gin.H{
		"user":       userPayload(user),
		"token":      token,
		"expires_at": expiresAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email          string                `json:"email" binding:"required"`
	Password       string                `json:"password" binding:"required"`
	CaptchaPayload CaptchaPayloadRequest `json:"captcha_payload"`
}

// Login 用户登录
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.recordLogin(c, req.Email, 0, constants.LoginLogStatusFailed, constants.LoginLogFailReasonBadRequest)
		respondError(c, response.CodeBadRequest, "Email and password are required.", err)
		return
	}

	if !h.verifyCaptcha(c, constants.CaptchaSceneLogin, req.CaptchaPayload, req.Email) {
		return
	}

	user, token, expiresAt, err := h.AuthService.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			h.recordLogin(c, req.Email, 0, constants.LoginLogStatusFailed, constants.LoginLogFailReasonBadRequest)
			respondError(c, response.CodeBadRequest, "Invalid email address.", nil)
		case errors.Is(err, service.ErrNotFound):
			h.recordLogin(c, req.Email, 0, constants.LoginLogStatusFailed, constants.LoginLogFailReasonUserNotFound)
			respondError(c, response.CodeNotFound, "User not found.", nil)
		case errors.Is(err, service.ErrInvalidCredentials):
			h.recordLogin(c, req.Email, 0, constants.LoginLogStatusFailed, constants.LoginLogFailReasonInvalidCredentials)
			respondError(c, response.CodeUnauthorized, "Invalid credentials.", nil)
		default:
			h.recordLogin(c, req.Email, 0, constants.LoginLogStatusFailed, constants.LoginLogFailReasonInternalError)
			respondError(c, response.CodeInternal, "Error logging in.", err)
		}
		return
	}

	h.recordLogin(c, user.Email, user.ID, constants.LoginLogStatusSuccess, "")
	response.SuccessWithMsg(c, "Login successful.", gin.H{
		"user":       userPayload(user),
		"token":      token,
		"expires_at": expiresAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// EmailRequest 仅携带邮箱的请求
type EmailRequest struct {
	Email          string                `json:"email" binding:"required"`
	CaptchaPayload CaptchaPayloadRequest `json:"captcha_payload"`
}

// ResendEmailVerify 重发邮箱验证 OTP
func (h *Handler) ResendEmailVerify(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "Email is required.", err)
		return
	}

	if !h.verifyCaptcha(c, constants.CaptchaSceneOtpSendCode, req.CaptchaPayload, "") {
		return
	}

	if err := h.AuthService.IssueEmailVerificationOtp(req.Email); err != nil {
		h.respondOtpIssueError(c, err, "Error in resending OTP.")
		return
	}

	response.SuccessWithMsg(c, "OTP sent successfully. Please check your email.", gin.H{"sent": true})
}

// VerifyEmailRequest 邮箱验证请求
type VerifyEmailRequest struct {
	Email string `json:"email" binding:"required"`
	Otp   string `json:"otp" binding:"required"`
}

// VerifyEmail 校验邮箱验证 OTP
func (h *Handler) VerifyEmail(c *gin.Context) {
	var req VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "Email and OTP are required.", err)
		return
	}

	if err := h.AuthService.VerifyEmail(req.Email, req.Otp); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			respondError(c, response.CodeBadRequest, "Invalid email address.", nil)
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "User not found.", nil)
		case errors.Is(err, service.ErrAlreadyVerified):
			respondError(c, response.CodeBadRequest, "Email is already verified.", nil)
		case errors.Is(err, service.ErrOtpInvalidOrExpired):
			respondError(c, response.CodeBadRequest, "Invalid or expired OTP.", nil)
		default:
			respondError(c, response.CodeInternal, "Error verifying email.", err)
		}
		return
	}

	response.SuccessWithMsg(c, "Email verified successfully.", gin.H{"verified": true})
}

// ForgotPassword 发送密码重置 OTP
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "Email is required.", err)
		return
	}

	if !h.verifyCaptcha(c, constants.CaptchaSceneOtpSendCode, req.CaptchaPayload, "") {
		return
	}

	if err := h.AuthService.RequestPasswordReset(req.Email); err != nil {
		h.respondOtpIssueError(c, err, "Error sending reset OTP.")
		return
	}

	response.SuccessWithMsg(c, "Reset OTP sent to your email.", gin.H{"sent": true})
}

// ResetPasswordRequest 重置密码请求
type ResetPasswordRequest struct {
	Email           string `json:"email" binding:"required"`
	Otp             string `json:"otp" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// ResetPassword 使用 OTP 重置密码
func (h *Handler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "All fields are required.", err)
		return
	}

	if err := h.AuthService.ResetPassword(req.Email, req.Otp, req.NewPassword, req.ConfirmPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			respondError(c, response.CodeBadRequest, "All fields are required.", nil)
		case errors.Is(err, service.ErrPasswordMismatch):
			respondError(c, response.CodeBadRequest, "Passwords do not match.", nil)
		case errors.Is(err, service.ErrInvalidEmail):
			respondError(c, response.CodeBadRequest, "Invalid email address.", nil)
		case errors.Is(err, service.ErrWeakPassword):
			respondError(c, response.CodeBadRequest, err.Error(), nil)
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "User not found.", nil)
		case errors.Is(err, service.ErrOtpInvalidOrExpired):
			respondError(c, response.CodeBadRequest, "Invalid or expired OTP.", nil)
		default:
			respondError(c, response.CodeInternal, "Error resetting password.", err)
		}
		return
	}

	response.SuccessWithMsg(c, "Password reset successfully.", gin.H{"reset": true})
}

// respondOtpIssueError 统一处理 OTP 签发类错误
func (h *Handler) respondOtpIssueError(c *gin.Context, err error, fallbackMsg string) {
	switch {
	case errors.Is(err, service.ErrInvalidEmail):
		respondError(c, response.CodeBadRequest, "Invalid email address.", nil)
	case errors.Is(err, service.ErrNotFound):
		respondError(c, response.CodeNotFound, "User not found.", nil)
	case errors.Is(err, service.ErrAlreadyVerified):
		respondError(c, response.CodeBadRequest, "Email is already verified.", nil)
	case errors.Is(err, service.ErrEmailRecipientRejected):
		respondError(c, response.CodeBadRequest, "Email recipient rejected.", nil)
	case errors.Is(err, service.ErrEmailServiceDisabled),
		errors.Is(err, service.ErrEmailServiceNotConfigured):
		respondError(c, response.CodeInternal, "Email service is not configured.", err)
	default:
		respondError(c, response.CodeInternal, fallbackMsg, err)
	}
}

// verifyCaptcha 按场景校验验证码，失败时写出响应并返回 false
func (h *Handler) verifyCaptcha(c *gin.Context, scene string, payload CaptchaPayloadRequest, loginEmail string) bool {
	if h.CaptchaService == nil {
		return true
	}
	err := h.CaptchaService.Verify(scene, payload.ToServicePayload())
	if err == nil {
		return true
	}
	switch {
	case errors.Is(err, service.ErrCaptchaRequired):
		if scene == constants.CaptchaSceneLogin {
			h.recordLogin(c, loginEmail, 0, constants.LoginLogStatusFailed, constants.LoginLogFailReasonCaptchaRequired)
		}
		respondError(c, response.CodeBadRequest, "Captcha is required.", nil)
	case errors.Is(err, service.ErrCaptchaInvalid):
		if scene == constants.CaptchaSceneLogin {
			h.recordLogin(c, loginEmail, 0, constants.LoginLogStatusFailed, constants.LoginLogFailReasonCaptchaInvalid)
		}
		respondError(c, response.CodeBadRequest, "Captcha is invalid.", nil)
	default:
		if scene == constants.CaptchaSceneLogin {
			h.recordLogin(c, loginEmail, 0, constants.LoginLogStatusFailed, constants.LoginLogFailReasonCaptchaConfigInvalid)
		}
		respondError(c, response.CodeInternal, "Captcha verification failed.", err)
	}
	return false
}

// recordLogin 记录登录行为，失败不影响主流程
func (h *Handler) recordLogin(c *gin.Context, email string, userID uint, status, failReason string) {
	if h.UserLoginLogService == nil {
		return
	}
	requestID := ""
	if value, ok := c.Get("request_id"); ok {
		if id, ok := value.(string); ok {
			requestID = id
		}
	}
	if err := h.UserLoginLogService.Record(service.RecordUserLoginInput{
		UserID:     userID,
		Email:      email,
		Status:     status,
		FailReason: failReason,
		ClientIP:   c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
		RequestID:  requestID,
	}); err != nil {
		requestLog(c).Warnw("login_log_record_failed", "error", err)
	}
}

func userPayload(user *models.User) gin.H {
	return gin.H{
		"id":                user.ID,
		"username":          user.Username,
		"email":             user.Email,
		"first_name":        user.FirstName,
		"last_name":         user.LastName,
		"address":           user.Address,
		"profile_image":     user.ProfileImage,
		"balance":           user.Balance,
		"is_email_verified": user.IsEmailVerified,
		"created_at":        user.CreatedAt,
	}
}
