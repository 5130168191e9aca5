package service

import (
	"context"
	"strings"

	"anoa.com/municipalservices/internal/entity"
	addressRepo "anoa.com/municipalservices/internal/modules/address/repository"
	"anoa.com/municipalservices/internal/modules/building/dto"
	buildingRepo "anoa.com/municipalservices/internal/modules/building/repository"
	"anoa.com/municipalservices/pkg/apperror"
	"anoa.com/municipalservices/pkg/database"
)

type BuildingService interface {
	CreateBuilding(ctx context.Context, req dto.CreateBuildingRequest) (*dto.CreateBuildingResponse, error)
	ListBuildings(ctx context.Context, filter dto.BuildingFilter) ([]*entity.Building, error)
	GetBuilding(ctx context.Context, id uint) (*entity.Building, error)
	ListBuildingTypes(ctx context.Context) ([]*entity.BuildingType, error)
	DeleteBuilding(ctx context.Context, id uint) error
}

type buildingService struct {
	repo        buildingRepo.BuildingRepository
	addressRepo addressRepo.AddressRepository
	transactor  database.Transactor
}

func NewBuildingService(repo buildingRepo.BuildingRepository, addressRepo addressRepo.AddressRepository, transactor database.Transactor) BuildingService {
	return &buildingService{
		repo:        repo,
		addressRepo: addressRepo,
		transactor:  transactor,
	}
}

// CreateBuilding inserts the building and its DEFAULT address atomically.
func (s *buildingService) CreateBuilding(ctx context.Context, req dto.CreateBuildingRequest) (*dto.CreateBuildingResponse, error) {
	building := &entity.Building{
		BuildingName: strings.TrimSpace(req.BuildingName),
		Street:       strings.TrimSpace(req.Street),
		Zone:         strings.TrimSpace(req.Zone),
		Pincode:      strings.TrimSpace(req.Pincode),
		TypeID:       req.TypeID,
	}
	var address *entity.Address

	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		buildingType, err := s.repo.FindTypeByID(ctx, req.TypeID)
		if err != nil {
			if database.IsNotFound(err) {
				return apperror.BadRequest("invalid type")
			}
			return err
		}

		if err := s.repo.Create(ctx, building); err != nil {
			return database.TranslateError(err, "", "building already exists")
		}
		building.Type = *buildingType

		address = &entity.Address{BuildingID: building.ID, FlatNo: entity.DefaultFlatNo}
		return s.addressRepo.Create(ctx, address)
	})
	if err != nil {
		return nil, err
	}

	return &dto.CreateBuildingResponse{Building: building, Address: address}, nil
}

func (s *buildingService) ListBuildings(ctx context.Context, filter dto.BuildingFilter) ([]*entity.Building, error) {
	return s.repo.List(ctx, strings.TrimSpace(filter.Type))
}

func (s *buildingService) GetBuilding(ctx context.Context, id uint) (*entity.Building, error) {
	building, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, database.TranslateError(err, "building not found", "")
	}
	return building, nil
}

func (s *buildingService) ListBuildingTypes(ctx context.Context) ([]*entity.BuildingType, error) {
	return s.repo.ListTypes(ctx)
}

// DeleteBuilding cascades to the building's addresses, their occupancies and bills.
func (s *buildingService) DeleteBuilding(ctx context.Context, id uint) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperror.NotFound("building not found")
	}
	return nil
}
