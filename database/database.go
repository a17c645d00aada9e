package database

import (
	"fmt"
	"log"

	config "github.com/dlGuiri/Dental-Lens/configs"
	"github.com/dlGuiri/Dental-Lens/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() {
	var err error
	dsn := config.Config("DATABASE_URL")

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
	if err != nil {
		log.Fatalf("🔥 Failed to connect to database: %v", err)
	}

	fmt.Println("✅ Database connected successfully")
}

func Migrate() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Conversation{},
		&models.Message{},
		&models.Task{},
		&models.Appointment{},
		&models.ScanRecord{},
	)
	if err != nil {
		log.Fatalf("🔥 Failed to migrate database: %v", err)
	}
	fmt.Println("✅ Database migration successful")
}

// SeedDentist makes sure the clinic's own dentist account exists so a
// fresh install is usable without a manual signup.
func SeedDentist() {
	dentistEmail := config.Config("DENTIST_EMAIL")
	dentistPassword := config.Config("DENTIST_PASSWORD")
	if dentistEmail == "" || dentistPassword == "" {
		log.Println("Dentist seed credentials not configured, skipping seed.")
		return
	}

	var count int64
	err := DB.Model(&models.User{}).Where("email = ?", dentistEmail).Count(&count).Error
	if err != nil {
		log.Fatalf("🔥 Failed to check for dentist user: %v", err)
		return
	}

	if count > 0 {
		log.Println("Dentist user already exists.")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(dentistPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("🔥 Failed to hash dentist password: %v", err)
		return
	}

	dentist := models.User{
		Name:     config.Config("DENTIST_NAME"),
		Email:    dentistEmail,
		Password: string(hashedPassword),
		Role:     models.RoleDentist,
	}

	if err := DB.Create(&dentist).Error; err != nil {
		log.Fatalf("🔥 Failed to seed dentist user: %v", err)
		return
	}

	log.Println("✅ Dentist user seeded successfully")
}
