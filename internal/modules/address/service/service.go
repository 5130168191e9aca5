package service

import (
	"context"
	"strings"

	"anoa.com/municipalservices/internal/entity"
	"anoa.com/municipalservices/internal/modules/address/dto"
	addressRepo "anoa.com/municipalservices/internal/modules/address/repository"
	buildingRepo "anoa.com/municipalservices/internal/modules/building/repository"
	"anoa.com/municipalservices/pkg/apperror"
	"anoa.com/municipalservices/pkg/database"
)

const duplicateAddress = "address already exists in this building"

type AddressService interface {
	ListAddresses(ctx context.Context, buildingID uint) ([]*entity.Address, error)
	ListAllAddresses(ctx context.Context) ([]dto.AddressView, error)
	GetAddress(ctx context.Context, buildingID, addressID uint) (*entity.Address, error)
	AddAddress(ctx context.Context, buildingID uint, req dto.AddressRequest) (*entity.Address, error)
	// UpsertAddress renames the address when it exists under the building and
	// otherwise creates a new one there, ignoring addressID. created reports which happened.
	UpsertAddress(ctx context.Context, buildingID, addressID uint, req dto.AddressRequest) (address *entity.Address, created bool, err error)
	DeleteAddress(ctx context.Context, buildingID, addressID uint) error
}

type addressService struct {
	repo         addressRepo.AddressRepository
	buildingRepo buildingRepo.BuildingRepository
	transactor   database.Transactor
}

func NewAddressService(repo addressRepo.AddressRepository, buildingRepo buildingRepo.BuildingRepository, transactor database.Transactor) AddressService {
	return &addressService{
		repo:         repo,
		buildingRepo: buildingRepo,
		transactor:   transactor,
	}
}

func (s *addressService) requireBuilding(ctx context.Context, buildingID uint) error {
	exists, err := s.buildingRepo.Exists(ctx, buildingID)
	if err != nil {
		return err
	}
	if !exists {
		return apperror.NotFound("building not found")
	}
	return nil
}

func (s *addressService) ListAddresses(ctx context.Context, buildingID uint) ([]*entity.Address, error) {
	if err := s.requireBuilding(ctx, buildingID); err != nil {
		return nil, err
	}
	return s.repo.ListByBuilding(ctx, buildingID)
}

func (s *addressService) ListAllAddresses(ctx context.Context) ([]dto.AddressView, error) {
	views, err := s.repo.ListViews(ctx)
	if err != nil {
		return nil, err
	}
	if views == nil {
		views = []dto.AddressView{}
	}
	return views, nil
}

func (s *addressService) GetAddress(ctx context.Context, buildingID, addressID uint) (*entity.Address, error) {
	address, err := s.repo.FindInBuilding(ctx, buildingID, addressID)
	if err != nil {
		return nil, database.TranslateError(err, "address not found", "")
	}
	return address, nil
}

func (s *addressService) AddAddress(ctx context.Context, buildingID uint, req dto.AddressRequest) (*entity.Address, error) {
	flatNo := strings.TrimSpace(req.FlatNo)
	if flatNo == "" {
		return nil, apperror.BadRequest("flat_no is required")
	}

	address := &entity.Address{BuildingID: buildingID, FlatNo: flatNo}
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.requireBuilding(ctx, buildingID); err != nil {
			return err
		}
		return database.TranslateError(s.repo.Create(ctx, address), "", duplicateAddress)
	})
	if err != nil {
		return nil, err
	}
	return address, nil
}

func (s *addressService) UpsertAddress(ctx context.Context, buildingID, addressID uint, req dto.AddressRequest) (*entity.Address, bool, error) {
	flatNo := strings.TrimSpace(req.FlatNo)
	if flatNo == "" {
		return nil, false, apperror.BadRequest("flat_no is required")
	}

	var (
		address *entity.Address
		created bool
	)
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.requireBuilding(ctx, buildingID); err != nil {
			return err
		}

		existing, err := s.repo.FindInBuilding(ctx, buildingID, addressID)
		if err != nil && !database.IsNotFound(err) {
			return err
		}

		if existing == nil {
			address = &entity.Address{BuildingID: buildingID, FlatNo: flatNo}
			created = true
			return database.TranslateError(s.repo.Create(ctx, address), "", duplicateAddress)
		}

		if err := s.repo.UpdateFlatNo(ctx, existing.ID, flatNo); err != nil {
			return database.TranslateError(err, "", duplicateAddress)
		}
		existing.FlatNo = flatNo
		address = existing
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return address, created, nil
}

func (s *addressService) DeleteAddress(ctx context.Context, buildingID, addressID uint) error {
	return s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.FindInBuilding(ctx, buildingID, addressID); err != nil {
			return database.TranslateError(err, "address not found", "")
		}

		count, err := s.repo.CountByBuilding(ctx, buildingID)
		if err != nil {
			return database.TranslateError(err, "address not found", "")
		}
		if count <= 1 {
			return apperror.BadRequest("a building must keep at least one address")
		}

		affected, err := s.repo.Delete(ctx, buildingID, addressID)
		if err != nil {
			return err
		}
		if affected == 0 {
			return apperror.NotFound("address not found")
		}
		return nil
	})
}
