package repository

import (
	"context"

	"anoa.com/municipalservices/internal/entity"
	"anoa.com/municipalservices/pkg/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UtilityRepository interface {
	// FindOrCreate returns the utility labelled label, inserting it first when
	// absent. Concurrent callers converge on the same row.
	FindOrCreate(ctx context.Context, label string) (*entity.Utility, bool, error)
	FindByID(ctx context.Context, id uint) (*entity.Utility, error)
	List(ctx context.Context) ([]*entity.Utility, error)
	ListTypes(ctx context.Context) ([]string, error)
	Update(ctx context.Context, id uint, updates map[string]interface{}) (int64, error)
}

type utilityRepository struct {
	db *gorm.DB
}

func NewUtilityRepository(db *gorm.DB) UtilityRepository {
	return &utilityRepository{db: db}
}

func (r *utilityRepository) FindOrCreate(ctx context.Context, label string) (*entity.Utility, bool, error) {
	conn := database.Conn(ctx, r.db)

	utility := entity.Utility{Type: label}
	result := conn.Omit(clause.Associations).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "type"}}, DoNothing: true}).
		Create(&utility)
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected == 1 {
		return &utility, true, nil
	}

	var existing entity.Utility
	if err := conn.Where("type = ?", label).First(&existing).Error; err != nil {
		return nil, false, err
	}
	return &existing, false, nil
}

func (r *utilityRepository) FindByID(ctx context.Context, id uint) (*entity.Utility, error) {
	var utility entity.Utility
	if err := database.Conn(ctx, r.db).Preload("Department").First(&utility, id).Error; err != nil {
		return nil, err
	}
	return &utility, nil
}

func (r *utilityRepository) List(ctx context.Context) ([]*entity.Utility, error) {
	var utilities []*entity.Utility
	err := database.Conn(ctx, r.db).Preload("Department").Order("id").Find(&utilities).Error
	return utilities, err
}

func (r *utilityRepository) ListTypes(ctx context.Context) ([]string, error) {
	var types []string
	err := database.Conn(ctx, r.db).
		Model(&entity.Utility{}).
		Where("type IS NOT NULL").
		Distinct("type").
		Order("type").
		Pluck("type", &types).Error
	return types, err
}

func (r *utilityRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) (int64, error) {
	result := database.Conn(ctx, r.db).Model(&entity.Utility{}).Where("id = ?", id).Updates(updates)
	return result.RowsAffected, result.Error
}
