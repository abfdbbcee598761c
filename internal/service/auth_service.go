package service

import (
	"crypto/rand"
	"errors"
	"math/big"
	"net/mail"
	"strings"
	"time"

	"github.com/clipstash/internal/config"
	"github.com/clipstash/internal/constants"
	"github.com/clipstash/internal/logger"
	"github.com/clipstash/internal/models"
	"github.com/clipstash/internal/queue"
	"github.com/clipstash/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// 新用户初始余额
var signupInitialBalance = decimal.NewFromInt(10000)

// AuthService 用户凭证与邮箱验证服务
type AuthService struct {
	cfg         *config.Config
	userRepo    repository.UserRepository
	mailSender  MailSender
	queueClient *queue.Client
}

// NewAuthService 创建认证服务
func NewAuthService(cfg *config.Config, userRepo repository.UserRepository, mailSender MailSender, queueClient *queue.Client) *AuthService {
	return &AuthService{
		cfg:         cfg,
		userRepo:    userRepo,
		mailSender:  mailSender,
		queueClient: queueClient,
	}
}

// UserJWTClaims 用户 JWT 声明
type UserJWTClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateJWT 生成用户 JWT Token
func (s *AuthService) GenerateJWT(user *models.User) (string, time.Time, error) {
	expiresAt := time.Now().Add(time.Duration(resolveJWTExpireHours(s.cfg.JWT)) * time.Hour)
	claims := UserJWTClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseJWT 解析用户 JWT Token
func (s *AuthService) ParseJWT(tokenString string) (*UserJWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &UserJWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*UserJWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// SignupInput 注册输入
type SignupInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	FirstName       string
	LastName        string
	Address         string
}

// Signup 用户注册，成功后直接返回登录态
func (s *AuthService) Signup(in SignupInput) (*models.User, string, time.Time, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil, "", time.Time{}, ErrMissingFields
	}
	if in.Password != in.ConfirmPassword {
		return nil, "", time.Time{}, ErrPasswordMismatch
	}
	normalized, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, in.Password); err != nil {
		return nil, "", time.Time{}, err
	}

	if exist, err := s.userRepo.GetByEmail(normalized); err != nil {
		return nil, "", time.Time{}, err
	} else if exist != nil {
		return nil, "", time.Time{}, ErrEmailExists
	}
	if exist, err := s.userRepo.GetByUsername(username); err != nil {
		return nil, "", time.Time{}, err
	} else if exist != nil {
		return nil, "", time.Time{}, ErrUsernameExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	user := &models.User{
		Username:        username,
		Email:           normalized,
		PasswordHash:    string(hashedPassword),
		FirstName:       strings.TrimSpace(in.FirstName),
		LastName:        strings.TrimSpace(in.LastName),
		Address:         strings.TrimSpace(in.Address),
		QRCode:          "QR-" + uuid.NewString(),
		Balance:         models.NewMoneyFromDecimal(signupInitialBalance),
		IsEmailVerified: false,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, "", time.Time{}, err
	}

	token, expiresAt, err := s.GenerateJWT(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	// 欢迎邮件走队列，失败不影响注册
	if s.queueClient.Enabled() {
		if err := s.queueClient.EnqueueWelcomeEmail(queue.WelcomeEmailPayload{UserID: user.ID}); err != nil {
			logger.Warnw("welcome_email_enqueue_failed", "user_id", user.ID, "error", err)
		}
	}

	return user, token, expiresAt, nil
}

// Login 用户登录
func (s *AuthService) Login(email, password string) (*models.User, string, time.Time, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if user == nil {
		return nil, "", time.Time{}, ErrNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.GenerateJWT(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, expiresAt, nil
}

// IssueEmailVerificationOtp 签发邮箱验证 OTP 并发送
// 先落库再发信：发送失败时 OTP 仍然有效，调用方可重试发送。
func (s *AuthService) IssueEmailVerificationOtp(email string) error {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	if user.IsEmailVerified {
		return ErrAlreadyVerified
	}

	code, err := randomOtpCode(resolveOtpLength(s.cfg.Email.Otp))
	if err != nil {
		return err
	}
	expiry := time.Now().Add(time.Duration(resolveOtpExpireMinutes(s.cfg.Email.Otp)) * time.Minute)

	user.EmailOtp = &code
	user.OtpExpiry = &expiry
	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(user); err != nil {
		return err
	}

	return s.mailSender.SendOtpEmail(user.Email, code, constants.OtpPurposeVerifyEmail)
}

// VerifyEmail 校验邮箱验证 OTP
func (s *AuthService) VerifyEmail(email, otp string) error {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	if user.IsEmailVerified {
		return ErrAlreadyVerified
	}
	if !otpMatches(user.EmailOtp, user.OtpExpiry, otp) {
		return ErrOtpInvalidOrExpired
	}

	user.IsEmailVerified = true
	user.EmailOtp = nil
	user.OtpExpiry = nil
	user.UpdatedAt = time.Now()
	return s.userRepo.Update(user)
}

// RequestPasswordReset 签发密码重置 OTP 并发送
func (s *AuthService) RequestPasswordReset(email string) error {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}

	code, err := randomOtpCode(resolveOtpLength(s.cfg.Email.Otp))
	if err != nil {
		return err
	}
	expiry := time.Now().Add(time.Duration(resolveOtpExpireMinutes(s.cfg.Email.Otp)) * time.Minute)

	user.ResetOtp = &code
	user.ResetOtpExpiry = &expiry
	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(user); err != nil {
		return err
	}

	return s.mailSender.SendOtpEmail(user.Email, code, constants.OtpPurposeResetPassword)
}

// ResetPassword 使用 OTP 重置密码
func (s *AuthService) ResetPassword(email, otp, newPassword, confirmPassword string) error {
	if newPassword == "" || otp == "" {
		return ErrMissingFields
	}
	if newPassword != confirmPassword {
		return ErrPasswordMismatch
	}
	normalized, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, newPassword); err != nil {
		return err
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	if !otpMatches(user.ResetOtp, user.ResetOtpExpiry, otp) {
		return ErrOtpInvalidOrExpired
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hashedPassword)
	user.ResetOtp = nil
	user.ResetOtpExpiry = nil
	user.UpdatedAt = time.Now()
	return s.userRepo.Update(user)
}

// GetUserByID 获取用户信息
func (s *AuthService) GetUserByID(id uint) (*models.User, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	return s.userRepo.GetByID(id)
}

// otpMatches 校验 OTP 是否匹配且未过期；到达过期时刻即视为过期。
func otpMatches(stored *string, expiry *time.Time, otp string) bool {
	if stored == nil || expiry == nil {
		return false
	}
	if !time.Now().Before(*expiry) {
		return false
	}
	return strings.TrimSpace(*stored) == strings.TrimSpace(otp)
}

func normalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(normalized); err != nil {
		return "", ErrInvalidEmail
	}
	return normalized, nil
}

// NormalizeEmail 统一邮箱格式
func NormalizeEmail(email string) (string, error) {
	return normalizeEmail(email)
}

func resolveJWTExpireHours(cfg config.JWTConfig) int {
	if cfg.ExpireHours <= 0 {
		return 24
	}
	return cfg.ExpireHours
}

func resolveOtpExpireMinutes(cfg config.OtpConfig) int {
	if cfg.ExpireMinutes <= 0 {
		return 10
	}
	return cfg.ExpireMinutes
}

func resolveOtpLength(cfg config.OtpConfig) int {
	if cfg.Length < 4 || cfg.Length > 10 {
		return 4
	}
	return cfg.Length
}

// randomOtpCode 生成定长数字 OTP，首位不为 0。
func randomOtpCode(length int) (string, error) {
	min := big.NewInt(1)
	for i := 1; i < length; i++ {
		min.Mul(min, big.NewInt(10))
	}
	span := new(big.Int).Mul(min, big.NewInt(9))
	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return "", err
	}
	return n.Add(n, min).String(), nil
}
