package bootstrap

import (
	"errors"
	"time"

	"anoa.com/municipalservices/internal/entity"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.Citizen{},
		&entity.Login{},
		&entity.BuildingType{},
		&entity.Building{},
		&entity.Address{},
		&entity.CitizenAddress{},
		&entity.Department{},
		&entity.Utility{},
		&entity.Bill{},
		&entity.Request{},
		&entity.Notification{},
	)
}

func SeedBuildingTypes(db *gorm.DB) error {
	defaultTypes := []entity.BuildingType{
		{TypeName: "RESIDENTIAL", Category: "housing"},
		{TypeName: "COMMERCIAL", Category: "business"},
		{TypeName: "INDUSTRIAL", Category: "industry"},
		{TypeName: "INSTITUTIONAL", Category: "public"},
	}

	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "type_name"}},
		DoNothing: true,
	}).Create(&defaultTypes).Error
}

func SeedDepartments(db *gorm.DB) error {
	departments := []entity.Department{
		{Name: "Water Supply"},
		{Name: "Electricity"},
		{Name: "Sanitation"},
		{Name: "Gas Distribution"},
	}

	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&departments).Error
}

// SeedAdmin creates the first ADMIN citizen and login. Without a password the
// account signs in with its date of birth, 01011970.
func SeedAdmin(db *gorm.DB, email, password string, log *zap.Logger) error {
	if email == "" {
		log.Warn("ADMIN_EMAIL not set, skipping admin seed")
		return nil
	}

	var existing entity.Login
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		log.Info("admin login already exists, skipping seed", zap.String("email", email))
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	var hash *string
	if password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		value := string(hashed)
		hash = &value
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		admin := entity.Citizen{
			FullName:    "Administrator",
			DateOfBirth: time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC),
		}
		if err := tx.Create(&admin).Error; err != nil {
			return err
		}

		return tx.Create(&entity.Login{
			CitizenID:    admin.ID,
			Email:        email,
			PasswordHash: hash,
			Role:         entity.RoleAdmin,
		}).Error
	})
	if err != nil {
		return err
	}

	log.Info("admin login seeded", zap.String("email", email), zap.Bool("password_set", hash != nil))
	return nil
}
