package service

import (
	"context"
	"encoding/json"
	"fmt"

	"anoa.com/municipalservices/internal/entity"
	loginRepo "anoa.com/municipalservices/internal/modules/auth/repository"
	"anoa.com/municipalservices/internal/modules/notification/dto"
	notifRepo "anoa.com/municipalservices/internal/modules/notification/repository"
	"anoa.com/municipalservices/pkg/apperror"
	"anoa.com/municipalservices/pkg/database"
	"anoa.com/municipalservices/pkg/token"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// Channel is the Redis pub/sub channel carrying live notifications for a login.
func Channel(loginID uint) string {
	return fmt.Sprintf("notifications:%d", loginID)
}

// DeliveryCounter records generated notifications.
type DeliveryCounter interface {
	AddNotifications(n int)
}

// Notifier derives notifications from bill and request writes. The Notify
// methods write through the transaction carried by ctx; Publish is called once
// that transaction has committed.
type Notifier interface {
	NotifyBill(ctx context.Context, bill *entity.Bill) ([]entity.Notification, error)
	NotifyRequest(ctx context.Context, request *entity.Request) ([]entity.Notification, error)
	Publish(ctx context.Context, notifications []entity.Notification)
}

type NotificationService interface {
	Notifier
	ResolveLoginID(ctx context.Context, caller *token.Claims) (uint, error)
	ListForUser(ctx context.Context, caller *token.Claims) ([]dto.NotificationResponse, error)
	DeleteNotification(ctx context.Context, caller *token.Claims, id uint) error
}

type notificationService struct {
	repo        notifRepo.NotificationRepository
	loginRepo   loginRepo.LoginRepository
	redisClient *redis.Client
	counter     DeliveryCounter
	log         *zap.Logger
}

func NewNotificationService(
	repo notifRepo.NotificationRepository,
	loginRepo loginRepo.LoginRepository,
	redisClient *redis.Client,
	counter DeliveryCounter,
	log *zap.Logger,
) NotificationService {
	return &notificationService{
		repo:        repo,
		loginRepo:   loginRepo,
		redisClient: redisClient,
		counter:     counter,
		log:         log,
	}
}

func (s *notificationService) NotifyBill(ctx context.Context, bill *entity.Bill) ([]entity.Notification, error) {
	loginIDs, err := s.repo.LoginIDsForAddress(ctx, bill.AddressID)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, entity.NotificationTypeBill, bill.ID, loginIDs)
}

func (s *notificationService) NotifyRequest(ctx context.Context, request *entity.Request) ([]entity.Notification, error) {
	loginIDs, err := s.repo.LoginIDsForCitizen(ctx, request.CitizenID)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, entity.NotificationTypeService, request.ID, loginIDs)
}

func (s *notificationService) create(ctx context.Context, kind string, targetID uint, loginIDs []uint) ([]entity.Notification, error) {
	notifications := make([]entity.Notification, 0, len(loginIDs))
	for _, loginID := range loginIDs {
		notifications = append(notifications, entity.Notification{
			LoginID: loginID,
			Type:    kind,
			TypeID:  targetID,
		})
	}

	if err := s.repo.CreateBatch(ctx, notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// Publish pushes each notification to its login's channel. Delivery is best effort.
func (s *notificationService) Publish(ctx context.Context, notifications []entity.Notification) {
	if len(notifications) == 0 {
		return
	}
	if s.counter != nil {
		s.counter.AddNotifications(len(notifications))
	}
	if s.redisClient == nil {
		return
	}

	for _, n := range notifications {
		payload, err := json.Marshal(n)
		if err != nil {
			continue
		}
		if err := s.redisClient.Publish(ctx, Channel(n.LoginID), payload).Err(); err != nil {
			s.log.Warn("failed to publish notification",
				zap.Uint("login_id", n.LoginID),
				zap.Uint("notification_id", n.ID),
				zap.Error(err),
			)
		}
	}
}

func (s *notificationService) ResolveLoginID(ctx context.Context, caller *token.Claims) (uint, error) {
	if caller == nil {
		return 0, apperror.ErrUnauthorized
	}
	login, err := s.loginRepo.FindByEmail(ctx, caller.Email)
	if err != nil {
		if database.IsNotFound(err) {
			return 0, apperror.Unauthorized("login no longer exists")
		}
		return 0, err
	}
	return login.ID, nil
}

func (s *notificationService) ListForUser(ctx context.Context, caller *token.Claims) ([]dto.NotificationResponse, error) {
	loginID, err := s.ResolveLoginID(ctx, caller)
	if err != nil {
		return nil, err
	}

	notifications, err := s.repo.ListByLogin(ctx, loginID)
	if err != nil {
		return nil, err
	}

	var billIDs, requestIDs []uint
	for _, n := range notifications {
		switch n.Type {
		case entity.NotificationTypeBill:
			billIDs = append(billIDs, n.TypeID)
		case entity.NotificationTypeService:
			requestIDs = append(requestIDs, n.TypeID)
		}
	}

	bills, err := s.billDetails(ctx, billIDs)
	if err != nil {
		return nil, err
	}
	requests, err := s.requestDetails(ctx, requestIDs)
	if err != nil {
		return nil, err
	}

	out := make([]dto.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		res := dto.NotificationResponse{
			NotificationID: n.ID,
			Type:           n.Type,
			TypeID:         n.TypeID,
			CreatedAt:      n.CreatedAt,
			Details:        map[string]interface{}{},
		}
		switch n.Type {
		case entity.NotificationTypeBill:
			if details, ok := bills[n.TypeID]; ok {
				res.Details = details
			}
		case entity.NotificationTypeService:
			if details, ok := requests[n.TypeID]; ok {
				res.Details = details
			}
		}
		out = append(out, res)
	}
	return out, nil
}

func (s *notificationService) billDetails(ctx context.Context, ids []uint) (map[uint]dto.BillDetails, error) {
	rows, err := s.repo.FindBillRows(ctx, ids)
	if err != nil {
		return nil, err
	}

	details := make(map[uint]dto.BillDetails, len(rows))
	for _, row := range rows {
		billType := ""
		if row.BillType != nil {
			billType = *row.BillType
		}
		details[row.BillID] = dto.BillDetails{
			BillID:   row.BillID,
			BillType: billType,
			Amount:   row.Amount,
			DueDate:  row.DueDate.Format(dateLayout),
			Status:   row.Status,
			Address:  fmt.Sprintf("%s, %s, %s", row.FlatNo, row.BuildingName, row.Street),
		}
	}
	return details, nil
}

func (s *notificationService) requestDetails(ctx context.Context, ids []uint) (map[uint]dto.RequestDetails, error) {
	requests, err := s.repo.FindRequests(ctx, ids)
	if err != nil {
		return nil, err
	}

	details := make(map[uint]dto.RequestDetails, len(requests))
	for _, r := range requests {
		details[r.ID] = dto.RequestDetails{
			RequestID:   r.ID,
			ServiceType: r.ServiceType,
			Details:     r.Details,
			Status:      r.Status,
			Comment:     r.Comment,
			CreatedAt:   r.CreatedAt,
			UpdatedAt:   r.UpdatedAt,
		}
	}
	return details, nil
}

// DeleteNotification removes one of the caller's notifications. Notifications
// of other logins are reported as missing unless the caller is ADMIN.
func (s *notificationService) DeleteNotification(ctx context.Context, caller *token.Claims, id uint) error {
	loginID, err := s.ResolveLoginID(ctx, caller)
	if err != nil {
		return err
	}

	notification, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return database.TranslateError(err, "notification not found", "")
	}
	if notification.LoginID != loginID && !caller.IsAdmin() {
		return apperror.NotFound("notification not found")
	}

	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperror.NotFound("notification not found")
	}
	return nil
}
