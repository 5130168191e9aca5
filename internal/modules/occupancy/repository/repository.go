package repository

import (
	"context"

	"anoa.com/municipalservices/internal/entity"
	"anoa.com/municipalservices/internal/modules/occupancy/dto"
	"anoa.com/municipalservices/pkg/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OccupancyRepository interface {
	Create(ctx context.Context, link *entity.CitizenAddress) error
	Find(ctx context.Context, addressID, citizenID uint) (*entity.CitizenAddress, error)
	ListByAddress(ctx context.Context, addressID uint) ([]dto.OccupantView, error)
	Update(ctx context.Context, addressID, citizenID uint, updates map[string]interface{}) (int64, error)
	Delete(ctx context.Context, addressID, citizenID uint) (int64, error)
}

type occupancyRepository struct {
	db *gorm.DB
}

func NewOccupancyRepository(db *gorm.DB) OccupancyRepository {
	return &occupancyRepository{db: db}
}

func (r *occupancyRepository) Create(ctx context.Context, link *entity.CitizenAddress) error {
	return database.Conn(ctx, r.db).Omit(clause.Associations).Create(link).Error
}

func (r *occupancyRepository) Find(ctx context.Context, addressID, citizenID uint) (*entity.CitizenAddress, error) {
	var link entity.CitizenAddress
	if err := database.Conn(ctx, r.db).
		Where("address_id = ? AND citizen_id = ?", addressID, citizenID).
		First(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *occupancyRepository) ListByAddress(ctx context.Context, addressID uint) ([]dto.OccupantView, error) {
	var views []dto.OccupantView
	err := database.Conn(ctx, r.db).
		Table("citizen_addresses AS ca").
		Select("ca.citizen_id, ca.address_id, c.full_name, c.phone, ca.role, ca.start_date, ca.end_date").
		Joins("JOIN citizens c ON c.id = ca.citizen_id").
		Where("ca.address_id = ?", addressID).
		Order("ca.start_date, ca.citizen_id").
		Scan(&views).Error
	return views, err
}

func (r *occupancyRepository) Update(ctx context.Context, addressID, citizenID uint, updates map[string]interface{}) (int64, error) {
	result := database.Conn(ctx, r.db).
		Model(&entity.CitizenAddress{}).
		Where("address_id = ? AND citizen_id = ?", addressID, citizenID).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *occupancyRepository) Delete(ctx context.Context, addressID, citizenID uint) (int64, error) {
	result := database.Conn(ctx, r.db).
		Where("address_id = ? AND citizen_id = ?", addressID, citizenID).
		Delete(&entity.CitizenAddress{})
	return result.RowsAffected, result.Error
}
