package constants

// 登录日志状态常量
const (
	LoginLogStatusSuccess = "success"
	LoginLogStatusFailed  = "failed"
)

// 登录日志失败原因常量
const (
	LoginLogFailReasonBadRequest           = "bad_request"
	LoginLogFailReasonCaptchaRequired      = "captcha_required"
	LoginLogFailReasonCaptchaInvalid       = "captcha_invalid"
	LoginLogFailReasonCaptchaConfigInvalid = "captcha_config_invalid"
	LoginLogFailReasonUserNotFound         = "user_not_found"
	LoginLogFailReasonInvalidCredentials   = "invalid_credentials"
	LoginLogFailReasonInternalError        = "internal_error"
)

// 验证码用途常量（邮箱 OTP）
const (
	OtpPurposeVerifyEmail   = "verify_email"
	OtpPurposeResetPassword = "reset_password"
)

// 验证码提供方常量
const (
	CaptchaProviderNone  = "none"
	CaptchaProviderImage = "image"
)

// 验证码校验场景常量
const (
	CaptchaSceneLogin       = "login"
	CaptchaSceneOtpSendCode = "otp_send_code"
)

// 视频列表排序字段常量
const (
	VideoSortCreatedAt = "created_at"
	VideoSortTitle     = "title"
	VideoSortDuration  = "duration"
)

// 队列常量
const (
	QueueDefault     = "default"
	TaskWelcomeEmail = "user:welcome_email"
	TaskVideoPurge   = "video:trash_purge"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "cs"
)
