package service

import (
	"context"
	"strings"

	"anoa.com/municipalservices/internal/entity"
	"anoa.com/municipalservices/internal/modules/utility/dto"
	utilityRepo "anoa.com/municipalservices/internal/modules/utility/repository"
	"anoa.com/municipalservices/pkg/apperror"
	"anoa.com/municipalservices/pkg/database"
	"go.uber.org/zap"
)

// CreationCounter records utilities created on first use.
type CreationCounter interface {
	IncUtilitiesCreated()
}

type UtilityService interface {
	FindOrCreate(ctx context.Context, label string) (*entity.Utility, error)
	ListUtilities(ctx context.Context) ([]*entity.Utility, error)
	ListUtilityTypes(ctx context.Context) ([]string, error)
	UpdateUtility(ctx context.Context, id uint, req dto.UpdateUtilityRequest) (*entity.Utility, error)
}

type utilityService struct {
	repo    utilityRepo.UtilityRepository
	counter CreationCounter
	log     *zap.Logger
}

func NewUtilityService(repo utilityRepo.UtilityRepository, counter CreationCounter, log *zap.Logger) UtilityService {
	return &utilityService{repo: repo, counter: counter, log: log}
}

// NormalizeLabel is the canonical form utility labels are stored and matched in.
func NormalizeLabel(label string) string {
	return strings.ToUpper(strings.TrimSpace(label))
}

func (s *utilityService) FindOrCreate(ctx context.Context, label string) (*entity.Utility, error) {
	label = NormalizeLabel(label)
	if label == "" {
		return nil, apperror.BadRequest("bill_type is required")
	}

	utility, created, err := s.repo.FindOrCreate(ctx, label)
	if err != nil {
		return nil, err
	}
	if created {
		s.log.Info("utility created on first use", zap.String("type", label), zap.Uint("utility_id", utility.ID))
		if s.counter != nil {
			s.counter.IncUtilitiesCreated()
		}
	}
	return utility, nil
}

func (s *utilityService) ListUtilities(ctx context.Context) ([]*entity.Utility, error) {
	return s.repo.List(ctx)
}

func (s *utilityService) ListUtilityTypes(ctx context.Context) ([]string, error) {
	types, err := s.repo.ListTypes(ctx)
	if err != nil {
		return nil, err
	}
	if types == nil {
		types = []string{}
	}
	return types, nil
}

func (s *utilityService) UpdateUtility(ctx context.Context, id uint, req dto.UpdateUtilityRequest) (*entity.Utility, error) {
	if req.Empty() {
		return nil, apperror.BadRequest("no fields to update")
	}

	updates := map[string]interface{}{}
	if req.ChargePerUnit != nil {
		if req.ChargePerUnit.IsNegative() {
			return nil, apperror.BadRequest("charge_per_unit must not be negative")
		}
		updates["charge_per_unit"] = *req.ChargePerUnit
	}
	if req.DeptID != nil {
		updates["dept_id"] = *req.DeptID
	}

	affected, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return nil, database.TranslateError(err, "utility not found", "")
	}
	if affected == 0 {
		return nil, apperror.NotFound("utility not found")
	}

	utility, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, database.TranslateError(err, "utility not found", "")
	}
	return utility, nil
}
