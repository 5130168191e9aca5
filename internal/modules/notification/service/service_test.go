package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"anoa.com/municipalservices/internal/entity"
	authDto "anoa.com/municipalservices/internal/modules/auth/dto"
	"anoa.com/municipalservices/internal/modules/notification/dto"
	"anoa.com/municipalservices/pkg/apperror"
	"anoa.com/municipalservices/pkg/token"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeNotificationRepo struct {
	notifications map[uint]entity.Notification
	nextID        uint
	addressLogins map[uint][]uint
	citizenLogins map[uint][]uint
	bills         map[uint]dto.BillRow
	requests      map[uint]entity.Request
}

func (r *fakeNotificationRepo) CreateBatch(_ context.Context, notifications []entity.Notification) error {
	for i := range notifications {
		r.nextID++
		notifications[i].ID = r.nextID
		notifications[i].CreatedAt = time.Now().Add(time.Duration(r.nextID) * time.Second)
		r.notifications[r.nextID] = notifications[i]
	}
	return nil
}

func (r *fakeNotificationRepo) ListByLogin(_ context.Context, loginID uint) ([]entity.Notification, error) {
	var out []entity.Notification
	for id := r.nextID; id >= 1; id-- {
		if n, ok := r.notifications[id]; ok && n.LoginID == loginID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) FindByID(_ context.Context, id uint) (*entity.Notification, error) {
	n, ok := r.notifications[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &n, nil
}

func (r *fakeNotificationRepo) Delete(_ context.Context, id uint) (int64, error) {
	if _, ok := r.notifications[id]; !ok {
		return 0, nil
	}
	delete(r.notifications, id)
	return 1, nil
}

func (r *fakeNotificationRepo) LoginIDsForAddress(_ context.Context, addressID uint) ([]uint, error) {
	return r.addressLogins[addressID], nil
}

func (r *fakeNotificationRepo) LoginIDsForCitizen(_ context.Context, citizenID uint) ([]uint, error) {
	return r.citizenLogins[citizenID], nil
}

func (r *fakeNotificationRepo) FindBillRows(_ context.Context, ids []uint) ([]dto.BillRow, error) {
	var out []dto.BillRow
	for _, id := range ids {
		if row, ok := r.bills[id]; ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) FindRequests(_ context.Context, ids []uint) ([]entity.Request, error) {
	var out []entity.Request
	for _, id := range ids {
		if req, ok := r.requests[id]; ok {
			out = append(out, req)
		}
	}
	return out, nil
}

type fakeLoginRepo struct {
	byEmail map[string]*entity.Login
}

func (r *fakeLoginRepo) Create(context.Context, *entity.Login) error { return nil }

func (r *fakeLoginRepo) FindByEmail(_ context.Context, email string) (*entity.Login, error) {
	if l, ok := r.byEmail[email]; ok {
		return l, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeLoginRepo) FindByCitizenID(context.Context, uint) (*entity.Login, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeLoginRepo) FindByIDs(context.Context, []uint) ([]*entity.Login, error) { return nil, nil }

func (r *fakeLoginRepo) UpdatePasswordHash(context.Context, uint, string) error { return nil }

func (r *fakeLoginRepo) DeleteByCitizenID(context.Context, uint) (int64, error) { return 0, nil }

func (r *fakeLoginRepo) FindProfileAddresses(context.Context, uint) ([]authDto.ProfileAddress, error) {
	return nil, nil
}

type counter struct{ n int }

func (c *counter) AddNotifications(n int) { c.n += n }

type NotificationServiceSuite struct {
	suite.Suite
	ctx     context.Context
	repo    *fakeNotificationRepo
	counter *counter
	svc     NotificationService

	resident *token.Claims
	neighbor *token.Claims
	admin    *token.Claims
}

func TestNotificationServiceSuite(t *testing.T) {
	suite.Run(t, new(NotificationServiceSuite))
}

func (s *NotificationServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = &fakeNotificationRepo{
		notifications: map[uint]entity.Notification{},
		addressLogins: map[uint][]uint{10: {1, 2}},
		citizenLogins: map[uint][]uint{100: {1}},
		bills:         map[uint]dto.BillRow{},
		requests:      map[uint]entity.Request{},
	}
	logins := &fakeLoginRepo{byEmail: map[string]*entity.Login{
		"resident@city.gov": {ID: 1, Email: "resident@city.gov", Role: entity.RoleCitizen},
		"neighbor@city.gov": {ID: 2, Email: "neighbor@city.gov", Role: entity.RoleCitizen},
		"admin@city.gov":    {ID: 3, Email: "admin@city.gov", Role: entity.RoleAdmin},
	}}
	s.counter = &counter{}
	s.svc = NewNotificationService(s.repo, logins, nil, s.counter, zap.NewNop())

	s.resident = &token.Claims{Email: "resident@city.gov", Role: entity.RoleCitizen}
	s.neighbor = &token.Claims{Email: "neighbor@city.gov", Role: entity.RoleCitizen}
	s.admin = &token.Claims{Email: "admin@city.gov", Role: entity.RoleAdmin}
}

func (s *NotificationServiceSuite) TestNotifyBillReachesEveryLinkedLogin() {
	created, err := s.svc.NotifyBill(s.ctx, &entity.Bill{ID: 5, AddressID: 10})
	s.Require().NoError(err)
	s.Len(created, 2)

	s.svc.Publish(s.ctx, created)
	s.Equal(2, s.counter.n)
}

func (s *NotificationServiceSuite) TestNotifyBillWithoutOccupantsCreatesNothing() {
	created, err := s.svc.NotifyBill(s.ctx, &entity.Bill{ID: 5, AddressID: 99})
	s.Require().NoError(err)
	s.Empty(created)
	s.Empty(s.repo.notifications)
}

func (s *NotificationServiceSuite) TestListForUserEnrichesTargets() {
	s.repo.bills[5] = dto.BillRow{
		BillID:       5,
		BillType:     nil,
		Amount:       decimal.RequireFromString("120.50"),
		DueDate:      time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC),
		Status:       entity.BillStatusPending,
		FlatNo:       "4B",
		BuildingName: "Oak Apts",
		Street:       "Main St",
	}
	s.repo.requests[7] = entity.Request{ID: 7, CitizenID: 100, ServiceType: "pothole", Details: "deep", Status: entity.RequestStatusApproved}

	_, err := s.svc.NotifyBill(s.ctx, &entity.Bill{ID: 5, AddressID: 10})
	s.Require().NoError(err)
	_, err = s.svc.NotifyRequest(s.ctx, &entity.Request{ID: 7, CitizenID: 100})
	s.Require().NoError(err)

	list, err := s.svc.ListForUser(s.ctx, s.resident)
	s.Require().NoError(err)
	s.Require().Len(list, 2)

	s.Equal(entity.NotificationTypeService, list[0].Type, "newest first")
	request, ok := list[0].Details.(dto.RequestDetails)
	s.Require().True(ok)
	s.Equal(entity.RequestStatusApproved, request.Status)

	bill, ok := list[1].Details.(dto.BillDetails)
	s.Require().True(ok)
	s.Equal("4B, Oak Apts, Main St", bill.Address)
	s.Equal("2024-06-30", bill.DueDate)
	s.Equal("", bill.BillType)
}

func (s *NotificationServiceSuite) TestListForUserWithDeletedTarget() {
	_, err := s.svc.NotifyRequest(s.ctx, &entity.Request{ID: 8, CitizenID: 100})
	s.Require().NoError(err)

	list, err := s.svc.ListForUser(s.ctx, s.resident)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(map[string]interface{}{}, list[0].Details)
}

func (s *NotificationServiceSuite) TestDeleteNotificationOwnership() {
	created, err := s.svc.NotifyBill(s.ctx, &entity.Bill{ID: 5, AddressID: 10})
	s.Require().NoError(err)

	var residentsID, neighborsID uint
	for _, n := range created {
		if n.LoginID == 1 {
			residentsID = n.ID
		} else {
			neighborsID = n.ID
		}
	}

	err = s.svc.DeleteNotification(s.ctx, s.resident, neighborsID)
	s.Equal(http.StatusNotFound, apperror.MapErrorToStatus(err))

	s.NoError(s.svc.DeleteNotification(s.ctx, s.resident, residentsID))
	s.NoError(s.svc.DeleteNotification(s.ctx, s.admin, neighborsID))

	err = s.svc.DeleteNotification(s.ctx, s.neighbor, neighborsID)
	s.Equal(http.StatusNotFound, apperror.MapErrorToStatus(err))
}

func (s *NotificationServiceSuite) TestUnknownLoginIsUnauthorized() {
	_, err := s.svc.ListForUser(s.ctx, &token.Claims{Email: "gone@city.gov", Role: entity.RoleCitizen})
	s.Equal(http.StatusUnauthorized, apperror.MapErrorToStatus(err))
}

func (s *NotificationServiceSuite) TestChannelName() {
	s.Equal("notifications:42", Channel(42))
}
