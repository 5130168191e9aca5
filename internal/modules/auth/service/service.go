package service

import (
	"context"
	"fmt"
	"time"

	"anoa.com/municipalservices/internal/modules/auth/dto"
	"anoa.com/municipalservices/internal/modules/auth/repository"
	"anoa.com/municipalservices/pkg/apperror"
	"anoa.com/municipalservices/pkg/database"
	"anoa.com/municipalservices/pkg/token"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailNotFound     = apperror.Unauthorized("email not found")
	ErrIncorrectPassword = apperror.Unauthorized("incorrect password")
)

type AuthService interface {
	Login(ctx context.Context, input dto.LoginInput) (*dto.LoginResult, error)
	ChangePassword(ctx context.Context, caller *token.Claims, email, password string) error
	GetProfile(ctx context.Context, caller *token.Claims) (*dto.ProfileResponse, error)
}

type authService struct {
	repo       repository.LoginRepository
	maker      token.Maker
	limiter    LoginLimiter
	sessionTTL time.Duration
	hashCost   int
	log        *zap.Logger
}

func NewAuthService(repo repository.LoginRepository, maker token.Maker, limiter LoginLimiter, sessionTTL time.Duration, log *zap.Logger) AuthService {
	if limiter == nil {
		limiter = noopLimiter{}
	}
	return &authService{
		repo:       repo,
		maker:      maker,
		limiter:    limiter,
		sessionTTL: sessionTTL,
		hashCost:   bcrypt.DefaultCost,
		log:        log,
	}
}

func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.LoginResult, error) {
	allowed, retryAfter, err := s.limiter.Allow(ctx, input.Email)
	if err != nil {
		s.log.Warn("login limiter unavailable", zap.Error(err))
	} else if !allowed {
		return nil, apperror.TooManyRequests(fmt.Sprintf("too many failed attempts, retry in %s", retryAfter.Round(time.Second)))
	}

	login, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, ErrEmailNotFound
		}
		return nil, err
	}

	cred, err := credentialFor(login)
	if err != nil {
		return nil, err
	}

	if !cred.verify(input.Password) {
		if err := s.limiter.RecordFailure(ctx, input.Email); err != nil {
			s.log.Warn("failed to record login failure", zap.Error(err))
		}
		return nil, ErrIncorrectPassword
	}

	if err := s.limiter.Reset(ctx, input.Email); err != nil {
		s.log.Warn("failed to reset login failures", zap.Error(err))
	}

	signed, claims, err := s.maker.CreateToken(login.Email, login.Role, s.sessionTTL)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResult{
		Role:      login.Role,
		Token:     signed,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// ChangePassword overwrites the stored hash. The old password is not checked;
// callers may only change their own password unless they are ADMIN.
func (s *authService) ChangePassword(ctx context.Context, caller *token.Claims, email, password string) error {
	if caller == nil {
		return apperror.ErrUnauthorized
	}
	if !caller.IsAdmin() && caller.Email != email {
		return apperror.Forbidden("cannot change another user's password")
	}
	if len(password) < 6 {
		return apperror.BadRequest("password must be at least 6 characters")
	}

	login, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return database.TranslateError(err, "email not found", "")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return err
	}

	return s.repo.UpdatePasswordHash(ctx, login.ID, string(hashed))
}

func (s *authService) GetProfile(ctx context.Context, caller *token.Claims) (*dto.ProfileResponse, error) {
	if caller == nil {
		return nil, apperror.ErrUnauthorized
	}

	login, err := s.repo.FindByEmail(ctx, caller.Email)
	if err != nil {
		return nil, database.TranslateError(err, "profile not found", "")
	}
	if login.Citizen == nil {
		return nil, apperror.NotFound("profile not found")
	}

	addresses, err := s.repo.FindProfileAddresses(ctx, login.CitizenID)
	if err != nil {
		return nil, err
	}
	if addresses == nil {
		addresses = []dto.ProfileAddress{}
	}

	return &dto.ProfileResponse{
		CitizenID:   login.Citizen.ID,
		LoginID:     login.ID,
		FullName:    login.Citizen.FullName,
		Phone:       login.Citizen.Phone,
		Gender:      login.Citizen.Gender,
		DateOfBirth: login.Citizen.DateOfBirth,
		Email:       login.Email,
		Role:        login.Role,
		Addresses:   addresses,
	}, nil
}
