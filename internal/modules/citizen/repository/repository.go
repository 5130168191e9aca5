package repository

import (
	"context"

	"anoa.com/municipalservices/internal/entity"
	"anoa.com/municipalservices/pkg/database"
	"gorm.io/gorm"
)

type CitizenRepository interface {
	Create(ctx context.Context, citizen *entity.Citizen) error
	FindByID(ctx context.Context, id uint) (*entity.Citizen, error)
	FindByIDs(ctx context.Context, ids []uint) ([]*entity.Citizen, error)
	List(ctx context.Context, search string) ([]*entity.Citizen, error)
	Update(ctx context.Context, id uint, updates map[string]interface{}) error
	Delete(ctx context.Context, id uint) (int64, error)
	Exists(ctx context.Context, id uint) (bool, error)
}

type citizenRepository struct {
	db *gorm.DB
}

func NewCitizenRepository(db *gorm.DB) CitizenRepository {
	return &citizenRepository{db: db}
}

func (r *citizenRepository) Create(ctx context.Context, citizen *entity.Citizen) error {
	return database.Conn(ctx, r.db).Create(citizen).Error
}

func (r *citizenRepository) FindByID(ctx context.Context, id uint) (*entity.Citizen, error) {
	var citizen entity.Citizen
	if err := database.Conn(ctx, r.db).Preload("Login").First(&citizen, id).Error; err != nil {
		return nil, err
	}
	return &citizen, nil
}

func (r *citizenRepository) FindByIDs(ctx context.Context, ids []uint) ([]*entity.Citizen, error) {
	var citizens []*entity.Citizen
	if len(ids) == 0 {
		return citizens, nil
	}
	err := database.Conn(ctx, r.db).Preload("Login").Where("id IN ?", ids).Find(&citizens).Error
	return citizens, err
}

// List matches search against name, phone and login email, case-insensitively.
func (r *citizenRepository) List(ctx context.Context, search string) ([]*entity.Citizen, error) {
	var citizens []*entity.Citizen
	query := database.Conn(ctx, r.db).Preload("Login").Order("citizens.id")

	if search != "" {
		pattern := "%" + search + "%"
		query = query.
			Joins("LEFT JOIN logins ON logins.citizen_id = citizens.id").
			Where("citizens.full_name ILIKE ? OR citizens.phone ILIKE ? OR logins.email ILIKE ?", pattern, pattern, pattern)
	}

	err := query.Find(&citizens).Error
	return citizens, err
}

func (r *citizenRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) error {
	return database.Conn(ctx, r.db).Model(&entity.Citizen{}).Where("id = ?", id).Updates(updates).Error
}

func (r *citizenRepository) Delete(ctx context.Context, id uint) (int64, error) {
	result := database.Conn(ctx, r.db).Delete(&entity.Citizen{}, id)
	return result.RowsAffected, result.Error
}

func (r *citizenRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := database.Conn(ctx, r.db).Model(&entity.Citizen{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
