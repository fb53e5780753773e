// Package auth はユーザー登録、ログイン、アクセストークン管理を提供する。
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/cookassist/internal/model"
	"github.com/hitoshi/cookassist/internal/repository"
)

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository, tokenRepo repository.TokenRepository) *Service {
	return &Service{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
	}
}

// Signup は新規ユーザーを登録し、アクセストークンを発行する。
// ユーザー名が既に使用されている場合はエラーを返す。
func (s *Service) Signup(ctx context.Context, username, password, email string) (*model.User, *model.Token, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, nil, model.NewInvalidRequestError("username and password are required")
	}

	existing, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check username: %w", err)
	}
	if existing != nil {
		return nil, nil, model.NewUsernameTakenError()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// 事前チェック後に同名ユーザーが挿入された場合も重複として扱う
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, nil, model.NewUsernameTakenError()
		}
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.getOrCreateToken(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	slog.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return user, token, nil
}

// Login は認証情報を検証し、アクセストークンを返す。
// 既存トークンがあれば再利用し、なければ新規発行する。
// ユーザー名の存在有無は認証失敗メッセージで区別しない。
func (s *Service) Login(ctx context.Context, username, password string) (*model.User, *model.Token, error) {
	if username == "" || password == "" {
		return nil, nil, model.NewInvalidRequestError("username and password are required")
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, nil, model.NewInvalidCredentialsError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, model.NewInvalidCredentialsError()
	}

	token, err := s.getOrCreateToken(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	slog.Info("user logged in",
		slog.String("user_id", user.ID),
	)

	return user, token, nil
}

// Logout は指定ユーザーのアクセストークンを失効させる。
func (s *Service) Logout(ctx context.Context, userID string) error {
	if err := s.tokenRepo.DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// GetUserByToken はトークンキーからユーザーを特定する。
// トークンが無効な場合はnilを返す。
func (s *Service) GetUserByToken(ctx context.Context, key string) (*model.User, error) {
	token, err := s.tokenRepo.FindByKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to find token: %w", err)
	}
	if token == nil {
		return nil, nil
	}

	user, err := s.userRepo.FindByID(ctx, token.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find token user: %w", err)
	}
	return user, nil
}

// getOrCreateToken は既存トークンを返すか、なければ新規発行する。
func (s *Service) getOrCreateToken(ctx context.Context, userID string) (*model.Token, error) {
	existing, err := s.tokenRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find token: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	key, err := generateTokenKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token key: %w", err)
	}

	token := &model.Token{
		Key:       key,
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	if err := s.tokenRepo.Create(ctx, token); err != nil {
		return nil, fmt.Errorf("failed to create token: %w", err)
	}

	return token, nil
}

// generateTokenKey は40文字の16進トークンキーを生成する。
func generateTokenKey() (string, error) {
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
