package repository

import (
	"context"

	"anoa.com/municipalservices/internal/entity"
	"anoa.com/municipalservices/pkg/database"
	"gorm.io/gorm"
)

type RequestRepository interface {
	Create(ctx context.Context, request *entity.Request) error
	FindByID(ctx context.Context, id uint) (*entity.Request, error)
	ListAll(ctx context.Context) ([]*entity.Request, error)
	ListByCitizen(ctx context.Context, citizenID uint) ([]*entity.Request, error)
	Update(ctx context.Context, id uint, updates map[string]interface{}) (int64, error)
	Delete(ctx context.Context, id uint) (int64, error)
}

type requestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) Create(ctx context.Context, request *entity.Request) error {
	return database.Conn(ctx, r.db).Omit("Citizen").Create(request).Error
}

func (r *requestRepository) FindByID(ctx context.Context, id uint) (*entity.Request, error) {
	var request entity.Request
	if err := database.Conn(ctx, r.db).First(&request, id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *requestRepository) ListAll(ctx context.Context) ([]*entity.Request, error) {
	var requests []*entity.Request
	err := database.Conn(ctx, r.db).Order("id DESC").Find(&requests).Error
	return requests, err
}

func (r *requestRepository) ListByCitizen(ctx context.Context, citizenID uint) ([]*entity.Request, error) {
	var requests []*entity.Request
	err := database.Conn(ctx, r.db).
		Where("citizen_id = ?", citizenID).
		Order("id DESC").
		Find(&requests).Error
	return requests, err
}

func (r *requestRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) (int64, error) {
	result := database.Conn(ctx, r.db).Model(&entity.Request{}).Where("id = ?", id).Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *requestRepository) Delete(ctx context.Context, id uint) (int64, error) {
	result := database.Conn(ctx, r.db).Delete(&entity.Request{}, id)
	return result.RowsAffected, result.Error
}
