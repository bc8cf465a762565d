package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"CryptoDash/internal/domain/models"
	drepo "CryptoDash/internal/domain/repository"
	dservice "CryptoDash/internal/domain/service"
	"CryptoDash/pkg/logger"
)

type AuthUseCase struct {
	users  drepo.UserRepository
	hasher dservice.PasswordHasher
	tokens dservice.TokenIssuer
	log    *logger.Logger
	now    func() time.Time
}

func NewAuthUseCase(users drepo.UserRepository, hasher dservice.PasswordHasher, tokens dservice.TokenIssuer, l *logger.Logger) *AuthUseCase {
	return &AuthUseCase{users: users, hasher: hasher, tokens: tokens, log: l, now: time.Now}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (uc *AuthUseCase) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResult, error) {
	email := normalizeEmail(req.Email)
	if _, err := uc.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, drepo.ErrNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := uc.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := uc.now().UTC()
	u := &models.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.users.Create(ctx, u); err != nil {
		if errors.Is(err, drepo.ErrAlreadyExist) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	uc.log.Info("user registered", logger.String("user_id", u.ID.String()))
	return uc.issue(u)
}

func (uc *AuthUseCase) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResult, error) {
	u, err := uc.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, drepo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	if err := uc.hasher.Compare(u.PasswordHash, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return uc.issue(u)
}

func (uc *AuthUseCase) Me(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	u, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, drepo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// UpdateProfile changes the name and/or password. A password change is
// verified, hashed and persisted before the call returns; nothing is
// acknowledged earlier.
func (uc *AuthUseCase) UpdateProfile(ctx context.Context, userID uuid.UUID, req *models.UpdateProfileRequest) (*models.User, error) {
	u, err := uc.Me(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		u.Name = strings.TrimSpace(*req.Name)
	}
	if req.NewPassword != "" {
		if err := uc.hasher.Compare(u.PasswordHash, req.CurrentPassword); err != nil {
			return nil, ErrWrongPassword
		}
		hash, err := uc.hasher.Hash(req.NewPassword)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = hash
	}
	u.UpdatedAt = uc.now().UTC()

	if err := uc.users.Update(ctx, u); err != nil {
		if errors.Is(err, drepo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

func (uc *AuthUseCase) issue(u *models.User) (*models.AuthResult, error) {
	token, exp, err := uc.tokens.Issue(u.ID, u.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &models.AuthResult{User: u, Token: token, ExpiresAt: exp}, nil
}
