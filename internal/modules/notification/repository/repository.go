package repository

import (
	"context"

	"anoa.com/municipalservices/internal/entity"
	"anoa.com/municipalservices/internal/modules/notification/dto"
	"anoa.com/municipalservices/pkg/database"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	CreateBatch(ctx context.Context, notifications []entity.Notification) error
	ListByLogin(ctx context.Context, loginID uint) ([]entity.Notification, error)
	FindByID(ctx context.Context, id uint) (*entity.Notification, error)
	Delete(ctx context.Context, id uint) (int64, error)

	// LoginIDsForAddress returns the logins of every citizen linked to the address.
	LoginIDsForAddress(ctx context.Context, addressID uint) ([]uint, error)
	LoginIDsForCitizen(ctx context.Context, citizenID uint) ([]uint, error)

	FindBillRows(ctx context.Context, billIDs []uint) ([]dto.BillRow, error)
	FindRequests(ctx context.Context, requestIDs []uint) ([]entity.Request, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) CreateBatch(ctx context.Context, notifications []entity.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return database.Conn(ctx, r.db).Create(&notifications).Error
}

func (r *notificationRepository) ListByLogin(ctx context.Context, loginID uint) ([]entity.Notification, error) {
	var notifications []entity.Notification
	err := database.Conn(ctx, r.db).
		Where("login_id = ?", loginID).
		Order("created_at desc, id desc").
		Find(&notifications).Error
	return notifications, err
}

func (r *notificationRepository) FindByID(ctx context.Context, id uint) (*entity.Notification, error) {
	var notification entity.Notification
	if err := database.Conn(ctx, r.db).First(&notification, id).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *notificationRepository) Delete(ctx context.Context, id uint) (int64, error) {
	result := database.Conn(ctx, r.db).Delete(&entity.Notification{}, id)
	return result.RowsAffected, result.Error
}

func (r *notificationRepository) LoginIDsForAddress(ctx context.Context, addressID uint) ([]uint, error) {
	var ids []uint
	err := database.Conn(ctx, r.db).
		Table("logins AS l").
		Joins("JOIN citizen_addresses ca ON ca.citizen_id = l.citizen_id").
		Where("ca.address_id = ?", addressID).
		Distinct().
		Order("l.id").
		Pluck("l.id", &ids).Error
	return ids, err
}

func (r *notificationRepository) LoginIDsForCitizen(ctx context.Context, citizenID uint) ([]uint, error) {
	var ids []uint
	err := database.Conn(ctx, r.db).
		Model(&entity.Login{}).
		Where("citizen_id = ?", citizenID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *notificationRepository) FindBillRows(ctx context.Context, billIDs []uint) ([]dto.BillRow, error) {
	var rows []dto.BillRow
	if len(billIDs) == 0 {
		return rows, nil
	}
	err := database.Conn(ctx, r.db).
		Table("bills AS bl").
		Select(`bl.id AS bill_id, u.type AS bill_type, bl.amount, bl.due_date, bl.status,
			a.flat_no, b.building_name, b.street`).
		Joins("LEFT JOIN utilities u ON u.id = bl.utility_id").
		Joins("JOIN addresses a ON a.id = bl.address_id").
		Joins("JOIN buildings b ON b.id = a.building_id").
		Where("bl.id IN ?", billIDs).
		Scan(&rows).Error
	return rows, err
}

func (r *notificationRepository) FindRequests(ctx context.Context, requestIDs []uint) ([]entity.Request, error) {
	var requests []entity.Request
	if len(requestIDs) == 0 {
		return requests, nil
	}
	err := database.Conn(ctx, r.db).Where("id IN ?", requestIDs).Find(&requests).Error
	return requests, err
}
