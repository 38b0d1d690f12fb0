package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/blogicum/blogicum/models"
)

var db *gorm.DB

// InitDatabase connects to MySQL using the loaded configuration, migrates
// the schema and seeds reference data on a fresh database.
func InitDatabase() *gorm.DB {
	if db != nil {
		return db
	}

	cfg := Get()
	dsn := cfg.DatabaseURI
	if dsn == "" {
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBName,
		)
	}

	gLogger := logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             2 * time.Second,
			LogLevel:                  toGormLogLevel(cfg.LogLevel),
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	var err error
	db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: gLogger})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("database ping failed: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Location{},
		&models.Post{},
		&models.Comment{},
	); err != nil {
		log.Fatalf("auto migration failed: %v", err)
	}

	seedReferenceData(db)

	return db
}

// DB provides access to the initialized gorm instance.
func DB() *gorm.DB {
	if db == nil {
		log.Fatal("database not initialized, call InitDatabase first")
	}
	return db
}

// SetDB swaps the gorm instance; tests use it to install a mock connection.
func SetDB(d *gorm.DB) {
	db = d
}

// seedReferenceData creates the initial categories and locations when the
// tables are empty, matching the reference deployment's fixtures.
func seedReferenceData(db *gorm.DB) {
	var count int64
	if err := db.Model(&models.Category{}).Count(&count).Error; err == nil && count == 0 {
		categories := []models.Category{
			{Title: "Travel", Description: "Stories about travel and adventure", Slug: "travel", IsPublished: true},
			{Title: "Technology", Description: "News and articles about technology", Slug: "technology", IsPublished: true},
			{Title: "Cooking", Description: "Recipes and cooking advice", Slug: "cooking", IsPublished: true},
			{Title: "Sports", Description: "News and articles about sports", Slug: "sports", IsPublished: true},
			{Title: "Art", Description: "Articles about art and culture", Slug: "art", IsPublished: true},
		}
		if err := db.Create(&categories).Error; err != nil {
			log.Printf("failed to seed categories: %v", err)
		}
	}

	if err := db.Model(&models.Location{}).Count(&count).Error; err == nil && count == 0 {
		locations := []models.Location{
			{Name: "Moscow", IsPublished: true},
			{Name: "Saint Petersburg", IsPublished: true},
			{Name: "Novosibirsk", IsPublished: true},
			{Name: "Yekaterinburg", IsPublished: true},
			{Name: "Kazan", IsPublished: true},
		}
		if err := db.Create(&locations).Error; err != nil {
			log.Printf("failed to seed locations: %v", err)
		}
	}
}

// toGormLogLevel maps the application log level to GORM's logger level.
func toGormLogLevel(level string) logger.LogLevel {
	switch level {
	case "debug":
		return logger.Info
	case "error":
		return logger.Error
	case "silent":
		return logger.Silent
	default:
		return logger.Warn
	}
}
