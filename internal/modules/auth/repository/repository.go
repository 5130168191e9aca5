package repository

import (
	"context"

	"anoa.com/municipalservices/internal/entity"
	"anoa.com/municipalservices/internal/modules/auth/dto"
	"anoa.com/municipalservices/pkg/database"
	"gorm.io/gorm"
)

type LoginRepository interface {
	Create(ctx context.Context, login *entity.Login) error
	FindByEmail(ctx context.Context, email string) (*entity.Login, error)
	FindByCitizenID(ctx context.Context, citizenID uint) (*entity.Login, error)
	FindByIDs(ctx context.Context, ids []uint) ([]*entity.Login, error)
	UpdatePasswordHash(ctx context.Context, loginID uint, hash string) error
	DeleteByCitizenID(ctx context.Context, citizenID uint) (int64, error)
	FindProfileAddresses(ctx context.Context, citizenID uint) ([]dto.ProfileAddress, error)
}

type loginRepository struct {
	db *gorm.DB
}

func NewLoginRepository(db *gorm.DB) LoginRepository {
	return &loginRepository{db: db}
}

func (r *loginRepository) Create(ctx context.Context, login *entity.Login) error {
	return database.Conn(ctx, r.db).Create(login).Error
}

// FindByEmail matches the stored email exactly.
func (r *loginRepository) FindByEmail(ctx context.Context, email string) (*entity.Login, error) {
	var login entity.Login
	if err := database.Conn(ctx, r.db).
		Preload("Citizen").
		Where("email = ?", email).
		First(&login).Error; err != nil {
		return nil, err
	}
	return &login, nil
}

func (r *loginRepository) FindByCitizenID(ctx context.Context, citizenID uint) (*entity.Login, error) {
	var login entity.Login
	if err := database.Conn(ctx, r.db).Where("citizen_id = ?", citizenID).First(&login).Error; err != nil {
		return nil, err
	}
	return &login, nil
}

func (r *loginRepository) FindByIDs(ctx context.Context, ids []uint) ([]*entity.Login, error) {
	var logins []*entity.Login
	if len(ids) == 0 {
		return logins, nil
	}
	err := database.Conn(ctx, r.db).Where("id IN ?", ids).Find(&logins).Error
	return logins, err
}

func (r *loginRepository) UpdatePasswordHash(ctx context.Context, loginID uint, hash string) error {
	return database.Conn(ctx, r.db).
		Model(&entity.Login{}).
		Where("id = ?", loginID).
		Update("password_hash", hash).Error
}

func (r *loginRepository) DeleteByCitizenID(ctx context.Context, citizenID uint) (int64, error) {
	result := database.Conn(ctx, r.db).Where("citizen_id = ?", citizenID).Delete(&entity.Login{})
	return result.RowsAffected, result.Error
}

func (r *loginRepository) FindProfileAddresses(ctx context.Context, citizenID uint) ([]dto.ProfileAddress, error) {
	var rows []dto.ProfileAddress
	err := database.Conn(ctx, r.db).
		Table("citizen_addresses AS ca").
		Select(`a.id AS address_id, a.flat_no, b.id AS building_id, b.building_name,
			b.street, b.zone, b.pincode, ca.role, ca.start_date, ca.end_date`).
		Joins("JOIN addresses a ON a.id = ca.address_id").
		Joins("JOIN buildings b ON b.id = a.building_id").
		Where("ca.citizen_id = ?", citizenID).
		Order("ca.start_date DESC, a.id").
		Scan(&rows).Error
	return rows, err
}
