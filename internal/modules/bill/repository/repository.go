package repository

import (
	"context"

	"anoa.com/municipalservices/internal/entity"
	"anoa.com/municipalservices/internal/modules/bill/dto"
	"anoa.com/municipalservices/pkg/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BillRepository interface {
	Create(ctx context.Context, bill *entity.Bill) error
	FindByID(ctx context.Context, id uint) (*entity.Bill, error)
	Update(ctx context.Context, id uint, updates map[string]interface{}) (int64, error)
	Delete(ctx context.Context, id uint) (int64, error)

	// ListViews returns every bill, or only the bills of addresses the citizen
	// is linked to when citizenID is set.
	ListViews(ctx context.Context, citizenID *uint) ([]dto.BillView, error)
	FindView(ctx context.Context, id uint, citizenID *uint) (*dto.BillView, error)
}

type billRepository struct {
	db *gorm.DB
}

func NewBillRepository(db *gorm.DB) BillRepository {
	return &billRepository{db: db}
}

func (r *billRepository) Create(ctx context.Context, bill *entity.Bill) error {
	return database.Conn(ctx, r.db).Omit(clause.Associations).Create(bill).Error
}

func (r *billRepository) FindByID(ctx context.Context, id uint) (*entity.Bill, error) {
	var bill entity.Bill
	if err := database.Conn(ctx, r.db).Preload("Utility").First(&bill, id).Error; err != nil {
		return nil, err
	}
	return &bill, nil
}

func (r *billRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) (int64, error) {
	result := database.Conn(ctx, r.db).Model(&entity.Bill{}).Where("id = ?", id).Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *billRepository) Delete(ctx context.Context, id uint) (int64, error) {
	result := database.Conn(ctx, r.db).Delete(&entity.Bill{}, id)
	return result.RowsAffected, result.Error
}

func (r *billRepository) viewQuery(ctx context.Context, citizenID *uint) *gorm.DB {
	query := database.Conn(ctx, r.db).
		Table("bills AS bl").
		Select(`bl.id AS bill_id, bl.address_id, bl.utility_id, u.type AS bill_type, bl.units, bl.amount,
			bl.due_date, bl.status, a.flat_no, b.id AS building_id, b.building_name, b.street,
			bl.created_at, bl.updated_at`).
		Joins("LEFT JOIN utilities u ON u.id = bl.utility_id").
		Joins("JOIN addresses a ON a.id = bl.address_id").
		Joins("JOIN buildings b ON b.id = a.building_id")

	if citizenID != nil {
		query = query.
			Joins("JOIN citizen_addresses ca ON ca.address_id = bl.address_id").
			Where("ca.citizen_id = ?", *citizenID)
	}
	return query
}

func (r *billRepository) ListViews(ctx context.Context, citizenID *uint) ([]dto.BillView, error) {
	var views []dto.BillView
	err := r.viewQuery(ctx, citizenID).Order("bl.due_date DESC, bl.id DESC").Scan(&views).Error
	return views, err
}

func (r *billRepository) FindView(ctx context.Context, id uint, citizenID *uint) (*dto.BillView, error) {
	var views []dto.BillView
	if err := r.viewQuery(ctx, citizenID).Where("bl.id = ?", id).Limit(1).Scan(&views).Error; err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &views[0], nil
}
