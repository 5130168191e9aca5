package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"anoa.com/municipalservices/internal/entity"
	loginRepo "anoa.com/municipalservices/internal/modules/auth/repository"
	"anoa.com/municipalservices/internal/modules/citizen/dto"
	citizenRepo "anoa.com/municipalservices/internal/modules/citizen/repository"
	searchService "anoa.com/municipalservices/internal/modules/search/service"
	"anoa.com/municipalservices/pkg/apperror"
	"anoa.com/municipalservices/pkg/database"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const searchLimit = 20

type CitizenService interface {
	CreateCitizen(ctx context.Context, req dto.CreateCitizenRequest) (*dto.CitizenResponse, error)
	ListCitizens(ctx context.Context, filter dto.CitizenFilter) ([]dto.CitizenResponse, error)
	SearchCitizens(ctx context.Context, query string) ([]dto.CitizenResponse, error)
	GetCitizen(ctx context.Context, id uint) (*dto.CitizenResponse, error)
	UpdateCitizen(ctx context.Context, id uint, req dto.UpdateCitizenRequest) (*dto.CitizenResponse, error)
	DeleteCitizen(ctx context.Context, id uint) error
	CreateLogin(ctx context.Context, citizenID uint, req dto.CreateLoginRequest) (*dto.LoginSummary, error)
	DeleteLogin(ctx context.Context, citizenID uint) error
}

type citizenService struct {
	repo       citizenRepo.CitizenRepository
	loginRepo  loginRepo.LoginRepository
	transactor database.Transactor
	index      searchService.CitizenIndex
	hashCost   int
	log        *zap.Logger
}

// NewCitizenService wires the citizen administration use cases. index may be
// nil, in which case search falls back to the database.
func NewCitizenService(
	repo citizenRepo.CitizenRepository,
	loginRepo loginRepo.LoginRepository,
	transactor database.Transactor,
	index searchService.CitizenIndex,
	log *zap.Logger,
) CitizenService {
	return &citizenService{
		repo:       repo,
		loginRepo:  loginRepo,
		transactor: transactor,
		index:      index,
		hashCost:   bcrypt.DefaultCost,
		log:        log,
	}
}

func (s *citizenService) CreateCitizen(ctx context.Context, req dto.CreateCitizenRequest) (*dto.CitizenResponse, error) {
	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		return nil, err
	}

	citizen := &entity.Citizen{
		FullName:    strings.TrimSpace(req.FullName),
		Phone:       strings.TrimSpace(req.Phone),
		Gender:      strings.TrimSpace(req.Gender),
		DateOfBirth: dob,
	}
	if err := s.repo.Create(ctx, citizen); err != nil {
		return nil, err
	}

	s.reindex(citizen)
	return toCitizenResponse(citizen), nil
}

func (s *citizenService) ListCitizens(ctx context.Context, filter dto.CitizenFilter) ([]dto.CitizenResponse, error) {
	citizens, err := s.repo.List(ctx, strings.TrimSpace(filter.Search))
	if err != nil {
		return nil, err
	}
	return toCitizenResponses(citizens), nil
}

// SearchCitizens asks the search index first and keeps its ranking. Any index
// failure degrades to the database substring search.
func (s *citizenService) SearchCitizens(ctx context.Context, query string) ([]dto.CitizenResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" || s.index == nil {
		return s.ListCitizens(ctx, dto.CitizenFilter{Search: query})
	}

	ids, err := s.index.SearchCitizens(query, searchLimit)
	if err != nil {
		s.log.Warn("citizen search index unavailable, using database", zap.Error(err))
		return s.ListCitizens(ctx, dto.CitizenFilter{Search: query})
	}

	citizens, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	rank := make(map[uint]int, len(ids))
	for i, id := range ids {
		rank[id] = i
	}
	sort.SliceStable(citizens, func(i, j int) bool {
		return rank[citizens[i].ID] < rank[citizens[j].ID]
	})

	return toCitizenResponses(citizens), nil
}

func (s *citizenService) GetCitizen(ctx context.Context, id uint) (*dto.CitizenResponse, error) {
	citizen, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, database.TranslateError(err, "citizen not found", "")
	}
	return toCitizenResponse(citizen), nil
}

func (s *citizenService) UpdateCitizen(ctx context.Context, id uint, req dto.UpdateCitizenRequest) (*dto.CitizenResponse, error) {
	if req.Empty() {
		return nil, apperror.BadRequest("no fields to update")
	}

	updates := map[string]interface{}{}
	if req.FullName != nil {
		updates["full_name"] = strings.TrimSpace(*req.FullName)
	}
	if req.Phone != nil {
		updates["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.Gender != nil {
		updates["gender"] = strings.TrimSpace(*req.Gender)
	}
	if req.DateOfBirth != nil {
		dob, err := parseDate(*req.DateOfBirth)
		if err != nil {
			return nil, err
		}
		updates["date_of_birth"] = dob
	}

	var citizen *entity.Citizen
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		exists, err := s.repo.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return apperror.NotFound("citizen not found")
		}
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return err
		}
		citizen, err = s.repo.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.reindex(citizen)
	return toCitizenResponse(citizen), nil
}

// DeleteCitizen removes the citizen together with its login, occupancies,
// requests and the login's notifications.
func (s *citizenService) DeleteCitizen(ctx context.Context, id uint) error {
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		affected, err := s.repo.Delete(ctx, id)
		if err != nil {
			return err
		}
		if affected == 0 {
			return apperror.NotFound("citizen not found")
		}
		return nil
	})
	if err != nil {
		return err
	}

	if s.index != nil {
		if err := s.index.DeleteCitizen(id); err != nil {
			s.log.Warn("failed to remove citizen from search index", zap.Uint("citizen_id", id), zap.Error(err))
		}
	}
	return nil
}

func (s *citizenService) CreateLogin(ctx context.Context, citizenID uint, req dto.CreateLoginRequest) (*dto.LoginSummary, error) {
	role := req.Role
	if role == "" {
		role = entity.RoleCitizen
	}

	login := &entity.Login{
		CitizenID: citizenID,
		Email:     strings.TrimSpace(req.Email),
		Role:      role,
	}
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
		if err != nil {
			return nil, err
		}
		hash := string(hashed)
		login.PasswordHash = &hash
	}

	var citizen *entity.Citizen
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		citizen, err = s.repo.FindByID(ctx, citizenID)
		if err != nil {
			return database.TranslateError(err, "citizen not found", "")
		}
		if citizen.Login != nil {
			return apperror.Conflict("citizen already has a login")
		}
		if err := s.loginRepo.Create(ctx, login); err != nil {
			return database.TranslateError(err, "", "email already in use")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	citizen.Login = login
	s.reindex(citizen)

	return &dto.LoginSummary{LoginID: login.ID, Email: login.Email, Role: login.Role}, nil
}

func (s *citizenService) DeleteLogin(ctx context.Context, citizenID uint) error {
	affected, err := s.loginRepo.DeleteByCitizenID(ctx, citizenID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperror.NotFound("login not found")
	}
	return nil
}

func (s *citizenService) reindex(citizen *entity.Citizen) {
	if s.index == nil || citizen == nil {
		return
	}

	doc := searchService.CitizenDocument{ID: citizen.ID, FullName: citizen.FullName, Phone: citizen.Phone}
	if citizen.Login != nil {
		doc.Email = citizen.Login.Email
	}
	if err := s.index.IndexCitizen(doc); err != nil {
		s.log.Warn("failed to index citizen", zap.Uint("citizen_id", citizen.ID), zap.Error(err))
	}
}

func parseDate(value string) (time.Time, error) {
	t, err := time.Parse(dto.DateLayout, value)
	if err != nil {
		return time.Time{}, apperror.BadRequest("date must be formatted as YYYY-MM-DD")
	}
	return t, nil
}

func toCitizenResponse(c *entity.Citizen) *dto.CitizenResponse {
	res := &dto.CitizenResponse{
		CitizenID:   c.ID,
		FullName:    c.FullName,
		Phone:       c.Phone,
		Gender:      c.Gender,
		DateOfBirth: c.DateOfBirth.Format(dto.DateLayout),
		CreatedAt:   c.CreatedAt,
	}
	if c.Login != nil {
		res.Login = &dto.LoginSummary{LoginID: c.Login.ID, Email: c.Login.Email, Role: c.Login.Role}
	}
	return res
}

func toCitizenResponses(citizens []*entity.Citizen) []dto.CitizenResponse {
	out := make([]dto.CitizenResponse, 0, len(citizens))
	for _, c := range citizens {
		out = append(out, *toCitizenResponse(c))
	}
	return out
}
