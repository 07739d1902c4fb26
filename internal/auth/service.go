package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/minsukim/ptstudio/go-api-server/internal/model"
	"github.com/minsukim/ptstudio/go-api-server/internal/shared/database"
	"github.com/minsukim/ptstudio/go-api-server/internal/shared/logger"
	"github.com/minsukim/ptstudio/go-api-server/internal/shared/token"
	"github.com/minsukim/ptstudio/go-api-server/internal/user"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	db             *gorm.DB
	userRepository *user.UserRepository
	tokenManager   token.Manager
}

func NewAuthService(db *gorm.DB, userRepository *user.UserRepository, tokenManager token.Manager) *AuthService {
	return &AuthService{
		db:             db,
		userRepository: userRepository,
		tokenManager:   tokenManager,
	}
}

func (a *AuthService) Login(ctx context.Context, request *LoginRequest) (*LoginResponse, error) {
	log := logger.FromContext(ctx)

	// 1. Find account by email
	account, err := a.userRepository.FindByEmail(ctx, a.db, request.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("로그인 실패 - user email not found", "email", logger.MaskEmail(request.Email))
			return nil, fmt.Errorf("error %w", ErrInCorrectEmailPassword) // Security: don't reveal if email exists
		}
		log.Error("로그인 실패 - 알 수 없는 오류", "error", err)
		return nil, fmt.Errorf("로그인 실패: %w", err)
	}

	// 2. Validate password
	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(request.Password)); err != nil {
		log.Warn("로그인 실패 - invalid password", "email", logger.MaskEmail(request.Email))
		return nil, fmt.Errorf("error %w", ErrInCorrectEmailPassword)
	}

	// 3. Generate JWT tokens
	userID := strconv.FormatUint(uint64(account.ID), 10)
	accessToken, err := a.tokenManager.GenerateAccessToken(userID, account.Email)
	if err != nil {
		log.Error("access token 생성 실패", "error", err)
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err := a.tokenManager.GenerateRefreshToken(userID, account.Email)
	if err != nil {
		log.Error("refresh token 생성 실패", "error", err)
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	log.Info("로그인 성공", "email", logger.MaskEmail(request.Email), "role", account.Role)

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Signup registers a new account in unassigned state. An admin must assign a
// role before the account can see anything.
func (a *AuthService) Signup(ctx context.Context, request *SignupRequest) error {
	log := logger.FromContext(ctx)
	return database.WithTransaction(ctx, a.db, func(tx *gorm.DB) error {
		exists, err := a.userRepository.IsExist(ctx, tx, request.Email)
		if err != nil {
			log.Error("Failed to check user existence", "error", err)
			return fmt.Errorf("check user existence: %w", err)
		}
		if exists {
			log.Warn("User already exists", "email", logger.MaskEmail(request.Email))
			return fmt.Errorf("error %w", user.ErrUserAlreadyExists)
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Error("Failed to hash password", "error", err)
			return fmt.Errorf("hash password: %w", err)
		}

		account := &model.User{
			Name:     request.Name,
			Email:    request.Email,
			Password: string(hashedPassword),
			Role:     model.RoleUnassigned, // 관리자 승인 대기
		}
		if err := a.userRepository.Create(ctx, tx, account); err != nil {
			log.Error("Failed to create user", "error", err)
			return fmt.Errorf("create user: %w", err)
		}

		log.Info("User created successfully", "email", logger.MaskEmail(request.Email))
		return nil
	})
}

// Me returns the caller's own account profile.
func (a *AuthService) Me(ctx context.Context, userID uint32) (*MeResponse, error) {
	account, err := a.userRepository.FindByID(ctx, a.db, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("계정을 찾을 수 없습니다 userID=%d %w", userID, user.ErrUserNotFound)
		}
		return nil, fmt.Errorf("계정 조회 실패: %w", err)
	}

	return &MeResponse{
		ID:        account.ID,
		Email:     account.Email,
		Name:      account.Name,
		Role:      account.Role,
		BranchIDs: account.BranchIDs(),
		TrainerID: account.TrainerID,
	}, nil
}
