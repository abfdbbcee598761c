package service

import "errors"

// 服务层业务错误，handler 通过 errors.Is 映射为响应码
var (
	ErrNotFound                  = errors.New("resource not found")
	ErrMissingFields             = errors.New("missing required fields")
	ErrInvalidEmail              = errors.New("invalid email address")
	ErrPasswordMismatch          = errors.New("passwords do not match")
	ErrWeakPassword              = errors.New("password does not meet policy")
	ErrEmailExists               = errors.New("email already registered")
	ErrUsernameExists            = errors.New("username already taken")
	ErrInvalidCredentials        = errors.New("invalid credentials")
	ErrAlreadyVerified           = errors.New("email already verified")
	ErrOtpInvalidOrExpired       = errors.New("invalid or expired otp")
	ErrInvalidTrimRange          = errors.New("invalid trim range")
	ErrEmailServiceDisabled      = errors.New("email service disabled")
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	ErrEmailRecipientRejected    = errors.New("email recipient rejected")
	ErrCaptchaRequired           = errors.New("captcha required")
	ErrCaptchaInvalid            = errors.New("captcha invalid")
	ErrCaptchaConfigInvalid      = errors.New("captcha config invalid")
)
