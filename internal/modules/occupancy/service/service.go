package service

import (
	"context"
	"strings"
	"time"

	"anoa.com/municipalservices/internal/entity"
	addressRepo "anoa.com/municipalservices/internal/modules/address/repository"
	citizenRepo "anoa.com/municipalservices/internal/modules/citizen/repository"
	"anoa.com/municipalservices/internal/modules/occupancy/dto"
	occupancyRepo "anoa.com/municipalservices/internal/modules/occupancy/repository"
	"anoa.com/municipalservices/pkg/apperror"
	"anoa.com/municipalservices/pkg/database"
)

const (
	dateLayout      = "2006-01-02"
	alreadyLinked   = "citizen already linked to this address"
	occupancyAbsent = "occupancy not found"
)

type OccupancyService interface {
	ListOccupants(ctx context.Context, buildingID, addressID uint) ([]dto.OccupantView, error)
	LinkCitizen(ctx context.Context, buildingID, addressID uint, req dto.LinkCitizenRequest) (*entity.CitizenAddress, error)
	UpdateOccupancy(ctx context.Context, buildingID, addressID, citizenID uint, req dto.UpdateOccupancyRequest) (*entity.CitizenAddress, error)
	UnlinkCitizen(ctx context.Context, buildingID, addressID, citizenID uint) error
}

type occupancyService struct {
	repo        occupancyRepo.OccupancyRepository
	addressRepo addressRepo.AddressRepository
	citizenRepo citizenRepo.CitizenRepository
	transactor  database.Transactor
	now         func() time.Time
}

func NewOccupancyService(
	repo occupancyRepo.OccupancyRepository,
	addressRepo addressRepo.AddressRepository,
	citizenRepo citizenRepo.CitizenRepository,
	transactor database.Transactor,
) OccupancyService {
	return &occupancyService{
		repo:        repo,
		addressRepo: addressRepo,
		citizenRepo: citizenRepo,
		transactor:  transactor,
		now:         time.Now,
	}
}

func (s *occupancyService) requireAddress(ctx context.Context, buildingID, addressID uint) error {
	if _, err := s.addressRepo.FindInBuilding(ctx, buildingID, addressID); err != nil {
		return database.TranslateError(err, "address not found", "")
	}
	return nil
}

func (s *occupancyService) ListOccupants(ctx context.Context, buildingID, addressID uint) ([]dto.OccupantView, error) {
	if err := s.requireAddress(ctx, buildingID, addressID); err != nil {
		return nil, err
	}

	views, err := s.repo.ListByAddress(ctx, addressID)
	if err != nil {
		return nil, err
	}
	if views == nil {
		views = []dto.OccupantView{}
	}
	return views, nil
}

// LinkCitizen creates the occupancy. The existence checks and the insert share
// one transaction; the composite primary key rejects a racing duplicate.
func (s *occupancyService) LinkCitizen(ctx context.Context, buildingID, addressID uint, req dto.LinkCitizenRequest) (*entity.CitizenAddress, error) {
	start, end, err := s.resolvePeriod(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	if start == nil {
		today := s.now().UTC().Truncate(24 * time.Hour)
		start = &today
	}
	if err := checkPeriod(*start, end); err != nil {
		return nil, err
	}

	link := &entity.CitizenAddress{
		CitizenID: req.CitizenID,
		AddressID: addressID,
		Role:      strings.TrimSpace(req.Role),
		StartDate: *start,
		EndDate:   end,
	}

	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.requireAddress(ctx, buildingID, addressID); err != nil {
			return err
		}

		exists, err := s.citizenRepo.Exists(ctx, req.CitizenID)
		if err != nil {
			return err
		}
		if !exists {
			return apperror.BadRequest("citizen not found")
		}

		if _, err := s.repo.Find(ctx, addressID, req.CitizenID); err == nil {
			return apperror.Conflict(alreadyLinked)
		} else if !database.IsNotFound(err) {
			return err
		}

		return database.TranslateError(s.repo.Create(ctx, link), "", alreadyLinked)
	})
	if err != nil {
		return nil, err
	}
	return link, nil
}

// UpdateOccupancy changes role or dates of an existing pair and never creates one.
func (s *occupancyService) UpdateOccupancy(ctx context.Context, buildingID, addressID, citizenID uint, req dto.UpdateOccupancyRequest) (*entity.CitizenAddress, error) {
	if req.Empty() {
		return nil, apperror.BadRequest("no fields to update")
	}
	if req.ClearEndDate && req.EndDate != nil {
		return nil, apperror.BadRequest("end_date and clear_end_date cannot be combined")
	}

	start, end, err := s.resolvePeriod(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Role != nil {
		updates["role"] = strings.TrimSpace(*req.Role)
	}
	if start != nil {
		updates["start_date"] = *start
	}
	if end != nil {
		updates["end_date"] = *end
	}
	if req.ClearEndDate {
		updates["end_date"] = nil
	}

	var link *entity.CitizenAddress
	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.requireAddress(ctx, buildingID, addressID); err != nil {
			return err
		}

		current, err := s.repo.Find(ctx, addressID, citizenID)
		if err != nil {
			return database.TranslateError(err, occupancyAbsent, "")
		}

		effectiveStart, effectiveEnd := current.StartDate, current.EndDate
		if start != nil {
			effectiveStart = *start
		}
		if end != nil {
			effectiveEnd = end
		}
		if req.ClearEndDate {
			effectiveEnd = nil
		}
		if err := checkPeriod(effectiveStart, effectiveEnd); err != nil {
			return err
		}

		affected, err := s.repo.Update(ctx, addressID, citizenID, updates)
		if err != nil {
			return err
		}
		if affected == 0 {
			return apperror.NotFound(occupancyAbsent)
		}

		link, err = s.repo.Find(ctx, addressID, citizenID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return link, nil
}

func (s *occupancyService) UnlinkCitizen(ctx context.Context, buildingID, addressID, citizenID uint) error {
	return s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.requireAddress(ctx, buildingID, addressID); err != nil {
			return err
		}

		affected, err := s.repo.Delete(ctx, addressID, citizenID)
		if err != nil {
			return err
		}
		if affected == 0 {
			return apperror.NotFound(occupancyAbsent)
		}
		return nil
	})
}

func (s *occupancyService) resolvePeriod(startValue, endValue *string) (*time.Time, *time.Time, error) {
	start, err := parseOptionalDate(startValue)
	if err != nil {
		return nil, nil, err
	}
	end, err := parseOptionalDate(endValue)
	if err != nil {
		return nil, nil, err
	}
	return start, end, nil
}

func checkPeriod(start time.Time, end *time.Time) error {
	if end != nil && end.Before(start) {
		return apperror.BadRequest("end_date must not be before start_date")
	}
	return nil
}

func parseOptionalDate(value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *value)
	if err != nil {
		return nil, apperror.BadRequest("date must be formatted as YYYY-MM-DD")
	}
	return &t, nil
}
