package repository

import (
	"context"

	"anoa.com/municipalservices/internal/entity"
	"anoa.com/municipalservices/internal/modules/address/dto"
	"anoa.com/municipalservices/pkg/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AddressRepository interface {
	Create(ctx context.Context, address *entity.Address) error
	FindByID(ctx context.Context, id uint) (*entity.Address, error)
	FindInBuilding(ctx context.Context, buildingID, addressID uint) (*entity.Address, error)
	ListByBuilding(ctx context.Context, buildingID uint) ([]*entity.Address, error)
	ListViews(ctx context.Context) ([]dto.AddressView, error)
	FindViewsByIDs(ctx context.Context, ids []uint) ([]dto.AddressView, error)
	UpdateFlatNo(ctx context.Context, id uint, flatNo string) error
	Delete(ctx context.Context, buildingID, addressID uint) (int64, error)
	// CountByBuilding locks the building row for the rest of the transaction
	// before counting, so concurrent deletes see each other.
	CountByBuilding(ctx context.Context, buildingID uint) (int64, error)
	Exists(ctx context.Context, id uint) (bool, error)
}

type addressRepository struct {
	db *gorm.DB
}

func NewAddressRepository(db *gorm.DB) AddressRepository {
	return &addressRepository{db: db}
}

func (r *addressRepository) Create(ctx context.Context, address *entity.Address) error {
	return database.Conn(ctx, r.db).Omit(clause.Associations).Create(address).Error
}

func (r *addressRepository) FindByID(ctx context.Context, id uint) (*entity.Address, error) {
	var address entity.Address
	if err := database.Conn(ctx, r.db).First(&address, id).Error; err != nil {
		return nil, err
	}
	return &address, nil
}

func (r *addressRepository) FindInBuilding(ctx context.Context, buildingID, addressID uint) (*entity.Address, error) {
	var address entity.Address
	if err := database.Conn(ctx, r.db).
		Where("id = ? AND building_id = ?", addressID, buildingID).
		First(&address).Error; err != nil {
		return nil, err
	}
	return &address, nil
}

func (r *addressRepository) ListByBuilding(ctx context.Context, buildingID uint) ([]*entity.Address, error) {
	var addresses []*entity.Address
	err := database.Conn(ctx, r.db).Where("building_id = ?", buildingID).Order("id").Find(&addresses).Error
	return addresses, err
}

func (r *addressRepository) viewQuery(ctx context.Context) *gorm.DB {
	return database.Conn(ctx, r.db).
		Table("addresses AS a").
		Select(`a.id AS address_id, a.flat_no, b.id AS building_id, b.building_name,
			b.street, b.zone, b.pincode, bt.type_name`).
		Joins("JOIN buildings b ON b.id = a.building_id").
		Joins("LEFT JOIN building_types bt ON bt.id = b.type_id")
}

func (r *addressRepository) ListViews(ctx context.Context) ([]dto.AddressView, error) {
	var views []dto.AddressView
	err := r.viewQuery(ctx).Order("b.id, a.id").Scan(&views).Error
	return views, err
}

func (r *addressRepository) FindViewsByIDs(ctx context.Context, ids []uint) ([]dto.AddressView, error) {
	var views []dto.AddressView
	if len(ids) == 0 {
		return views, nil
	}
	err := r.viewQuery(ctx).Where("a.id IN ?", ids).Scan(&views).Error
	return views, err
}

func (r *addressRepository) UpdateFlatNo(ctx context.Context, id uint, flatNo string) error {
	return database.Conn(ctx, r.db).Model(&entity.Address{}).Where("id = ?", id).Update("flat_no", flatNo).Error
}

func (r *addressRepository) Delete(ctx context.Context, buildingID, addressID uint) (int64, error) {
	result := database.Conn(ctx, r.db).
		Where("id = ? AND building_id = ?", addressID, buildingID).
		Delete(&entity.Address{})
	return result.RowsAffected, result.Error
}

func (r *addressRepository) CountByBuilding(ctx context.Context, buildingID uint) (int64, error) {
	conn := database.Conn(ctx, r.db)

	var building entity.Building
	if err := conn.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ?", buildingID).
		Take(&building).Error; err != nil {
		return 0, err
	}

	var count int64
	err := conn.Model(&entity.Address{}).Where("building_id = ?", buildingID).Count(&count).Error
	return count, err
}

func (r *addressRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := database.Conn(ctx, r.db).Model(&entity.Address{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
