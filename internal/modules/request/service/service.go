package service

import (
	"context"
	"fmt"
	"strings"

	"anoa.com/municipalservices/internal/entity"
	loginRepo "anoa.com/municipalservices/internal/modules/auth/repository"
	citizenRepo "anoa.com/municipalservices/internal/modules/citizen/repository"
	notifService "anoa.com/municipalservices/internal/modules/notification/service"
	"anoa.com/municipalservices/internal/modules/request/dto"
	requestRepo "anoa.com/municipalservices/internal/modules/request/repository"
	"anoa.com/municipalservices/pkg/apperror"
	"anoa.com/municipalservices/pkg/database"
	"anoa.com/municipalservices/pkg/token"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

type RequestService interface {
	CreateRequest(ctx context.Context, caller *token.Claims, req dto.CreateRequestRequest) (*entity.Request, error)
	UpdateRequest(ctx context.Context, caller *token.Claims, id uint, req dto.UpdateRequestRequest) (*entity.Request, error)
	DeleteRequest(ctx context.Context, caller *token.Claims, id uint) error
	GetRequest(ctx context.Context, caller *token.Claims, id uint) (*entity.Request, error)
	ListByCitizen(ctx context.Context, caller *token.Claims, citizenID uint) ([]*entity.Request, error)
	ListRequests(ctx context.Context, caller *token.Claims) ([]*entity.Request, error)
}

type requestService struct {
	repo        requestRepo.RequestRepository
	citizenRepo citizenRepo.CitizenRepository
	loginRepo   loginRepo.LoginRepository
	notifier    notifService.Notifier
	transactor  database.Transactor
	sanitizer   *bluemonday.Policy
	log         *zap.Logger
}

func NewRequestService(
	repo requestRepo.RequestRepository,
	citizenRepo citizenRepo.CitizenRepository,
	loginRepo loginRepo.LoginRepository,
	notifier notifService.Notifier,
	transactor database.Transactor,
	log *zap.Logger,
) RequestService {
	return &requestService{
		repo:        repo,
		citizenRepo: citizenRepo,
		loginRepo:   loginRepo,
		notifier:    notifier,
		transactor:  transactor,
		sanitizer:   bluemonday.StrictPolicy(),
		log:         log,
	}
}

// callerCitizen resolves the citizen behind a session.
func (s *requestService) callerCitizen(ctx context.Context, caller *token.Claims) (uint, error) {
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
	return login.CitizenID, nil
}

// authorize allows ADMIN and the citizen owning the request.
func (s *requestService) authorize(ctx context.Context, caller *token.Claims, request *entity.Request) error {
	if caller != nil && caller.IsAdmin() {
		return nil
	}
	citizenID, err := s.callerCitizen(ctx, caller)
	if err != nil {
		return err
	}
	if citizenID != request.CitizenID {
		return apperror.Forbidden("you do not have access to this request")
	}
	return nil
}

// sanitize strips markup and keeps the policy's entity escaping, so stored
// text never carries a live tag even when the input was entity-encoded.
func (s *requestService) sanitize(value string) string {
	return strings.TrimSpace(s.sanitizer.Sanitize(value))
}

func (s *requestService) clean(field, value string) (string, error) {
	cleaned := s.sanitize(value)
	if cleaned == "" {
		return "", apperror.BadRequest(field + " is required")
	}
	return cleaned, nil
}

func (s *requestService) CreateRequest(ctx context.Context, caller *token.Claims, req dto.CreateRequestRequest) (*entity.Request, error) {
	serviceType, err := s.clean("service_type", req.ServiceType)
	if err != nil {
		return nil, err
	}
	details, err := s.clean("details", req.Details)
	if err != nil {
		return nil, err
	}

	var citizenID uint
	if caller != nil && caller.IsAdmin() && req.CitizenID != nil {
		exists, err := s.citizenRepo.Exists(ctx, *req.CitizenID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, apperror.BadRequest("citizen not found")
		}
		citizenID = *req.CitizenID
	} else {
		citizenID, err = s.callerCitizen(ctx, caller)
		if err != nil {
			return nil, err
		}
	}

	request := &entity.Request{
		CitizenID:   citizenID,
		ServiceType: serviceType,
		Details:     details,
		Status:      entity.RequestStatusPending,
	}
	if err := s.repo.Create(ctx, request); err != nil {
		return nil, database.TranslateError(err, "", "request already exists")
	}

	s.log.Info("service request opened",
		zap.Uint("request_id", request.ID),
		zap.Uint("citizen_id", request.CitizenID),
	)
	return request, nil
}

// UpdateRequest applies a partial update. Status changes follow the request
// lifecycle and notify the owner inside the same transaction.
func (s *requestService) UpdateRequest(ctx context.Context, caller *token.Claims, id uint, req dto.UpdateRequestRequest) (*entity.Request, error) {
	if req.Empty() {
		return nil, apperror.BadRequest("no fields to update")
	}
	isAdmin := caller != nil && caller.IsAdmin()
	if req.TouchesStaffFields() && !isAdmin {
		return nil, apperror.Forbidden("only ADMIN may change status or comment")
	}

	var notifications []entity.Notification
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		request, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return database.TranslateError(err, "request not found", "")
		}
		if err := s.authorize(ctx, caller, request); err != nil {
			return err
		}
		if !isAdmin && request.Status != entity.RequestStatusPending {
			return apperror.BadRequest("request can no longer be edited")
		}

		updates := map[string]interface{}{}
		if req.ServiceType != nil {
			if request.ServiceType, err = s.clean("service_type", *req.ServiceType); err != nil {
				return err
			}
			updates["service_type"] = request.ServiceType
		}
		if req.Details != nil {
			if request.Details, err = s.clean("details", *req.Details); err != nil {
				return err
			}
			updates["details"] = request.Details
		}
		if req.Comment != nil {
			comment := s.sanitize(*req.Comment)
			request.Comment = &comment
			updates["comment"] = comment
		}

		statusChanged := false
		if req.Status != nil {
			if !entity.CanTransition(request.Status, *req.Status) {
				return apperror.BadRequest(fmt.Sprintf("cannot move request from %s to %s", request.Status, *req.Status))
			}
			statusChanged = request.Status != *req.Status
			request.Status = *req.Status
			updates["status"] = *req.Status
		}

		affected, err := s.repo.Update(ctx, id, updates)
		if err != nil {
			return err
		}
		if affected == 0 {
			return apperror.NotFound("request not found")
		}

		if statusChanged {
			notifications, err = s.notifier.NotifyRequest(ctx, request)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Publish(ctx, notifications)
	return s.repo.FindByID(ctx, id)
}

func (s *requestService) DeleteRequest(ctx context.Context, caller *token.Claims, id uint) error {
	request, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return database.TranslateError(err, "request not found", "")
	}
	if err := s.authorize(ctx, caller, request); err != nil {
		return err
	}

	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperror.NotFound("request not found")
	}
	return nil
}

func (s *requestService) GetRequest(ctx context.Context, caller *token.Claims, id uint) (*entity.Request, error) {
	request, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, database.TranslateError(err, "request not found", "")
	}
	if err := s.authorize(ctx, caller, request); err != nil {
		return nil, err
	}
	return request, nil
}

func (s *requestService) ListByCitizen(ctx context.Context, caller *token.Claims, citizenID uint) ([]*entity.Request, error) {
	if caller == nil || !caller.IsAdmin() {
		own, err := s.callerCitizen(ctx, caller)
		if err != nil {
			return nil, err
		}
		if own != citizenID {
			return nil, apperror.Forbidden("you can only view your own requests")
		}
	}
	return s.list(s.repo.ListByCitizen(ctx, citizenID))
}

// ListRequests returns every request to ADMIN and the caller's own requests otherwise.
func (s *requestService) ListRequests(ctx context.Context, caller *token.Claims) ([]*entity.Request, error) {
	if caller != nil && caller.IsAdmin() {
		return s.list(s.repo.ListAll(ctx))
	}
	citizenID, err := s.callerCitizen(ctx, caller)
	if err != nil {
		return nil, err
	}
	return s.list(s.repo.ListByCitizen(ctx, citizenID))
}

func (s *requestService) list(requests []*entity.Request, err error) ([]*entity.Request, error) {
	if err != nil {
		return nil, err
	}
	if requests == nil {
		requests = []*entity.Request{}
	}
	return requests, nil
}
