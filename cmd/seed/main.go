package main

import (
	"fmt"
	"strings"

	"github.com/clipstash/internal/config"
	"github.com/clipstash/internal/logger"
	"github.com/clipstash/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 添加演示用户
	users := []struct {
		Username  string
		Email     string
		Password  string
		FirstName string
		LastName  string
	}{
		{Username: "alice", Email: "alice@example.com", Password: "alice-demo-password", FirstName: "Alice", LastName: "Walker"},
		{Username: "bob", Email: "bob@example.com", Password: "bob-demo-password", FirstName: "Bob", LastName: "Stone"},
	}

	userIDs := map[string]uint{}
	for _, seed := range users {
		email := strings.ToLower(strings.TrimSpace(seed.Email))
		var existing models.User
		if err := models.DB.Where("email = ?", email).First(&existing).Error; err == nil {
			stdLog.Printf("User already exists: %s", email)
			userIDs[seed.Username] = existing.ID
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
		if err != nil {
			stdLog.Printf("Failed to hash password for %s: %v", email, err)
			continue
		}
		user := models.User{
			Username:        seed.Username,
			Email:           email,
			PasswordHash:    string(hash),
			FirstName:       seed.FirstName,
			LastName:        seed.LastName,
			QRCode:          "QR-" + uuid.NewString(),
			Balance:         models.NewMoneyFromDecimal(decimal.NewFromInt(10000)),
			IsEmailVerified: true,
		}
		if err := models.DB.Create(&user).Error; err != nil {
			stdLog.Printf("Failed to create user %s: %v", email, err)
			continue
		}
		stdLog.Printf("Created user: %s", email)
		userIDs[seed.Username] = user.ID
	}

	// 添加演示视频
	videos := []struct {
		Owner       string
		Title       string
		Description string
		Tags        []string
		Duration    float64
		FileSize    int64
	}{
		{Owner: "alice", Title: "City Timelapse", Description: "A night timelapse over the harbor.", Tags: []string{"timelapse", "city"}, Duration: 185.4, FileSize: 104_857_600},
		{Owner: "alice", Title: "Cooking Pasta", Description: "Fifteen minute carbonara walkthrough.", Tags: []string{"cooking", "tutorial"}, Duration: 912.0, FileSize: 524_288_000},
		{Owner: "bob", Title: "Trail Ride", Description: "Helmet cam footage from the ridge trail.", Tags: []string{"mtb", "outdoors"}, Duration: 640.7, FileSize: 314_572_800},
	}

	for _, seed := range videos {
		ownerID, ok := userIDs[seed.Owner]
		if !ok || ownerID == 0 {
			stdLog.Printf("Skipping video %q: owner %s not found", seed.Title, seed.Owner)
			continue
		}
		var count int64
		models.DB.Model(&models.Video{}).Where("user_id = ? AND title = ?", ownerID, seed.Title).Count(&count)
		if count > 0 {
			stdLog.Printf("Video already exists: %s", seed.Title)
			continue
		}
		video := models.Video{
			UserID:      ownerID,
			Title:       seed.Title,
			Description: seed.Description,
			Tags:        models.StringList(seed.Tags),
			FileURL:     fmt.Sprintf("https://cdn.example.com/videos/%s.mp4", uuid.NewString()),
			FileSize:    seed.FileSize,
			Duration:    seed.Duration,
		}
		if err := models.DB.Create(&video).Error; err != nil {
			stdLog.Printf("Failed to create video %q: %v", seed.Title, err)
			continue
		}
		stdLog.Printf("Created video: %s", seed.Title)
	}

	stdLog.Printf("Seed finished")
}
