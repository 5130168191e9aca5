package service

import (
	"context"
	"time"

	"anoa.com/municipalservices/internal/entity"
	addressRepo "anoa.com/municipalservices/internal/modules/address/repository"
	loginRepo "anoa.com/municipalservices/internal/modules/auth/repository"
	"anoa.com/municipalservices/internal/modules/bill/dto"
	billRepo "anoa.com/municipalservices/internal/modules/bill/repository"
	notifService "anoa.com/municipalservices/internal/modules/notification/service"
	utilityService "anoa.com/municipalservices/internal/modules/utility/service"
	"anoa.com/municipalservices/pkg/apperror"
	"anoa.com/municipalservices/pkg/database"
	"anoa.com/municipalservices/pkg/token"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// CreationCounter records created bills.
type CreationCounter interface {
	IncBillsCreated()
}

type BillService interface {
	CreateBill(ctx context.Context, req dto.CreateBillRequest) (*dto.BillView, error)
	UpdateBill(ctx context.Context, id uint, req dto.UpdateBillRequest) (*dto.BillView, error)
	DeleteBill(ctx context.Context, id uint) error
	ViewBills(ctx context.Context, caller *token.Claims) ([]dto.BillView, error)
	GetBill(ctx context.Context, caller *token.Claims, id uint) (*dto.BillView, error)
}

type billService struct {
	repo        billRepo.BillRepository
	addressRepo addressRepo.AddressRepository
	loginRepo   loginRepo.LoginRepository
	utilities   utilityService.UtilityService
	notifier    notifService.Notifier
	transactor  database.Transactor
	counter     CreationCounter
	log         *zap.Logger
}

func NewBillService(
	repo billRepo.BillRepository,
	addressRepo addressRepo.AddressRepository,
	loginRepo loginRepo.LoginRepository,
	utilities utilityService.UtilityService,
	notifier notifService.Notifier,
	transactor database.Transactor,
	counter CreationCounter,
	log *zap.Logger,
) BillService {
	return &billService{
		repo:        repo,
		addressRepo: addressRepo,
		loginRepo:   loginRepo,
		utilities:   utilities,
		notifier:    notifier,
		transactor:  transactor,
		counter:     counter,
		log:         log,
	}
}

func (s *billService) requireAddress(ctx context.Context, addressID uint) error {
	exists, err := s.addressRepo.Exists(ctx, addressID)
	if err != nil {
		return err
	}
	if !exists {
		return apperror.BadRequest("address not found")
	}
	return nil
}

// CreateBill resolves the utility, prices the bill and notifies every login
// linked to the address, all in one transaction.
func (s *billService) CreateBill(ctx context.Context, req dto.CreateBillRequest) (*dto.BillView, error) {
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = entity.BillStatusPending
	}
	if !entity.ValidBillStatus(status) {
		return nil, apperror.BadRequest("invalid bill status")
	}

	bill := &entity.Bill{
		AddressID: req.AddressID,
		DueDate:   dueDate,
		Status:    status,
	}
	if req.Units != nil {
		bill.Units = decimal.NewNullDecimal(*req.Units)
	}

	var notifications []entity.Notification
	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.requireAddress(ctx, req.AddressID); err != nil {
			return err
		}

		utility, err := s.utilities.FindOrCreate(ctx, req.BillType)
		if err != nil {
			return err
		}
		bill.UtilityID = &utility.ID

		bill.Amount, err = resolveAmount(req.Units, req.Amount, utility.ChargePerUnit)
		if err != nil {
			return err
		}

		if err := s.repo.Create(ctx, bill); err != nil {
			return database.TranslateError(err, "", "bill already exists")
		}

		notifications, err = s.notifier.NotifyBill(ctx, bill)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Publish(ctx, notifications)
	if s.counter != nil {
		s.counter.IncBillsCreated()
	}
	s.log.Info("bill created",
		zap.Uint("bill_id", bill.ID),
		zap.Uint("address_id", bill.AddressID),
		zap.Int("notified", len(notifications)),
	)

	return s.view(ctx, bill.ID)
}

func (s *billService) UpdateBill(ctx context.Context, id uint, req dto.UpdateBillRequest) (*dto.BillView, error) {
	if req.Empty() {
		return nil, apperror.BadRequest("no fields to update")
	}

	var notifications []entity.Notification
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		bill, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return database.TranslateError(err, "bill not found", "")
		}

		updates := map[string]interface{}{}

		if req.AddressID != nil {
			if err := s.requireAddress(ctx, *req.AddressID); err != nil {
				return err
			}
			updates["address_id"] = *req.AddressID
			bill.AddressID = *req.AddressID
		}

		if req.DueDate != nil {
			dueDate, err := parseDate(*req.DueDate)
			if err != nil {
				return err
			}
			updates["due_date"] = dueDate
		}

		if req.Status != nil {
			if !entity.ValidBillStatus(*req.Status) {
				return apperror.BadRequest("invalid bill status")
			}
			updates["status"] = *req.Status
		}

		rate := decimal.NullDecimal{}
		if bill.Utility != nil {
			rate = bill.Utility.ChargePerUnit
		}
		if req.BillType != nil {
			utility, err := s.utilities.FindOrCreate(ctx, *req.BillType)
			if err != nil {
				return err
			}
			updates["utility_id"] = utility.ID
			rate = utility.ChargePerUnit
		}

		units := req.Units
		if req.Units != nil {
			if req.Units.IsNegative() {
				return apperror.BadRequest("units must not be negative")
			}
			updates["units"] = decimal.NewNullDecimal(*req.Units)
		} else if bill.Units.Valid {
			units = &bill.Units.Decimal
		}

		switch {
		case (req.Units != nil || req.BillType != nil) && units != nil && rate.Valid:
			updates["amount"] = units.Mul(rate.Decimal).Round(2)
		case req.Amount != nil:
			amount, err := resolveAmount(nil, req.Amount, rate)
			if err != nil {
				return err
			}
			updates["amount"] = amount
		}

		affected, err := s.repo.Update(ctx, id, updates)
		if err != nil {
			return database.TranslateError(err, "bill not found", "")
		}
		if affected == 0 {
			return apperror.NotFound("bill not found")
		}

		notifications, err = s.notifier.NotifyBill(ctx, bill)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Publish(ctx, notifications)
	return s.view(ctx, id)
}

func (s *billService) DeleteBill(ctx context.Context, id uint) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperror.NotFound("bill not found")
	}
	return nil
}

// ViewBills returns all bills to ADMIN and only the bills of linked addresses to everyone else.
func (s *billService) ViewBills(ctx context.Context, caller *token.Claims) ([]dto.BillView, error) {
	scope, err := s.scope(ctx, caller)
	if err != nil {
		return nil, err
	}

	views, err := s.repo.ListViews(ctx, scope)
	if err != nil {
		return nil, err
	}
	if views == nil {
		views = []dto.BillView{}
	}
	for i := range views {
		views[i].DueDateText = views[i].DueDate.Format(dateLayout)
	}
	return views, nil
}

func (s *billService) GetBill(ctx context.Context, caller *token.Claims, id uint) (*dto.BillView, error) {
	scope, err := s.scope(ctx, caller)
	if err != nil {
		return nil, err
	}

	view, err := s.repo.FindView(ctx, id, scope)
	if err != nil {
		return nil, database.TranslateError(err, "bill not found", "")
	}
	view.DueDateText = view.DueDate.Format(dateLayout)
	return view, nil
}

// scope resolves the citizen whose bills the caller may see; nil means all.
func (s *billService) scope(ctx context.Context, caller *token.Claims) (*uint, error) {
	if caller == nil {
		return nil, apperror.ErrUnauthorized
	}
	if caller.IsAdmin() {
		return nil, nil
	}

	login, err := s.loginRepo.FindByEmail(ctx, caller.Email)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, apperror.Unauthorized("login no longer exists")
		}
		return nil, err
	}
	return &login.CitizenID, nil
}

func (s *billService) view(ctx context.Context, id uint) (*dto.BillView, error) {
	view, err := s.repo.FindView(ctx, id, nil)
	if err != nil {
		return nil, database.TranslateError(err, "bill not found", "")
	}
	view.DueDateText = view.DueDate.Format(dateLayout)
	return view, nil
}

func parseDate(value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, apperror.BadRequest("date must be formatted as YYYY-MM-DD")
	}
	return t, nil
}
