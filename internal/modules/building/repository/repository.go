package repository

import (
	"context"

	"anoa.com/municipalservices/internal/entity"
	"anoa.com/municipalservices/pkg/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BuildingRepository interface {
	Create(ctx context.Context, building *entity.Building) error
	FindByID(ctx context.Context, id uint) (*entity.Building, error)
	List(ctx context.Context, typeName string) ([]*entity.Building, error)
	Delete(ctx context.Context, id uint) (int64, error)
	Exists(ctx context.Context, id uint) (bool, error)

	FindTypeByID(ctx context.Context, id uint) (*entity.BuildingType, error)
	ListTypes(ctx context.Context) ([]*entity.BuildingType, error)
}

type buildingRepository struct {
	db *gorm.DB
}

func NewBuildingRepository(db *gorm.DB) BuildingRepository {
	return &buildingRepository{db: db}
}

func (r *buildingRepository) Create(ctx context.Context, building *entity.Building) error {
	return database.Conn(ctx, r.db).Omit(clause.Associations).Create(building).Error
}

func (r *buildingRepository) FindByID(ctx context.Context, id uint) (*entity.Building, error) {
	var building entity.Building
	if err := database.Conn(ctx, r.db).Preload("Type").First(&building, id).Error; err != nil {
		return nil, err
	}
	return &building, nil
}

// List filters by a case-insensitive substring of the building type name.
func (r *buildingRepository) List(ctx context.Context, typeName string) ([]*entity.Building, error) {
	var buildings []*entity.Building
	query := database.Conn(ctx, r.db).Preload("Type").Order("buildings.id")

	if typeName != "" {
		query = query.
			Joins("JOIN building_types bt ON bt.id = buildings.type_id").
			Where("bt.type_name ILIKE ?", "%"+typeName+"%")
	}

	err := query.Find(&buildings).Error
	return buildings, err
}

func (r *buildingRepository) Delete(ctx context.Context, id uint) (int64, error) {
	result := database.Conn(ctx, r.db).Delete(&entity.Building{}, id)
	return result.RowsAffected, result.Error
}

func (r *buildingRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := database.Conn(ctx, r.db).Model(&entity.Building{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *buildingRepository) FindTypeByID(ctx context.Context, id uint) (*entity.BuildingType, error) {
	var buildingType entity.BuildingType
	if err := database.Conn(ctx, r.db).First(&buildingType, id).Error; err != nil {
		return nil, err
	}
	return &buildingType, nil
}

func (r *buildingRepository) ListTypes(ctx context.Context) ([]*entity.BuildingType, error) {
	var types []*entity.BuildingType
	err := database.Conn(ctx, r.db).Order("type_name").Find(&types).Error
	return types, err
}
