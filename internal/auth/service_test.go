package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/cookassist/internal/model"
	"github.com/hitoshi/cookassist/internal/repository"
)

// --- モック定義 ---

type mockUserRepo struct {
	findByIDFn       func(ctx context.Context, id string) (*model.User, error)
	findByUsernameFn func(ctx context.Context, username string) (*model.User, error)
	createFn         func(ctx context.Context, user *model.User) error
	deleteByIDFn     func(ctx context.Context, id string) error
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.findByUsernameFn != nil {
		return m.findByUsernameFn(ctx, username)
	}
	return nil, nil
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) DeleteByID(ctx context.Context, id string) error {
	if m.deleteByIDFn != nil {
		return m.deleteByIDFn(ctx, id)
	}
	return nil
}

type mockTokenRepo struct {
	findByKeyFn      func(ctx context.Context, key string) (*model.Token, error)
	findByUserIDFn   func(ctx context.Context, userID string) (*model.Token, error)
	createFn         func(ctx context.Context, token *model.Token) error
	deleteByUserIDFn func(ctx context.Context, userID string) error
}

func (m *mockTokenRepo) FindByKey(ctx context.Context, key string) (*model.Token, error) {
	if m.findByKeyFn != nil {
		return m.findByKeyFn(ctx, key)
	}
	return nil, nil
}

func (m *mockTokenRepo) FindByUserID(ctx context.Context, userID string) (*model.Token, error) {
	if m.findByUserIDFn != nil {
		return m.findByUserIDFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockTokenRepo) Create(ctx context.Context, token *model.Token) error {
	if m.createFn != nil {
		return m.createFn(ctx, token)
	}
	return nil
}

func (m *mockTokenRepo) DeleteByUserID(ctx context.Context, userID string) error {
	if m.deleteByUserIDFn != nil {
		return m.deleteByUserIDFn(ctx, userID)
	}
	return nil
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("ハッシュ生成に失敗: %v", err)
	}
	return string(hash)
}

// --- テスト ---

func TestSignup_CreatesUserAndToken(t *testing.T) {
	var createdUser *model.User
	var createdToken *model.Token

	userRepo := &mockUserRepo{
		createFn: func(ctx context.Context, user *model.User) error {
			createdUser = user
			return nil
		},
	}
	tokenRepo := &mockTokenRepo{
		createFn: func(ctx context.Context, token *model.Token) error {
			createdToken = token
			return nil
		},
	}
	svc := NewService(userRepo, tokenRepo)

	user, token, err := svc.Signup(context.Background(), "alice", "secret123", "alice@example.com")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if user.Username != "alice" {
		t.Errorf("Username = %q, want %q", user.Username, "alice")
	}
	if user.Email != "alice@example.com" {
		t.Errorf("Email = %q, want %q", user.Email, "alice@example.com")
	}
	// 平文パスワードが保存されていないこと
	if user.PasswordHash == "secret123" || user.PasswordHash == "" {
		t.Error("password is not hashed")
	}
	if createdUser == nil {
		t.Fatal("user was not persisted")
	}
	if createdToken == nil {
		t.Fatal("token was not persisted")
	}
	if len(token.Key) != 40 {
		t.Errorf("len(token.Key) = %d, want 40", len(token.Key))
	}
	if token.UserID != user.ID {
		t.Errorf("token.UserID = %q, want %q", token.UserID, user.ID)
	}
}

func TestSignup_DuplicateUsername_ReturnsError(t *testing.T) {
	created := false
	userRepo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			return &model.User{ID: "existing", Username: username}, nil
		},
		createFn: func(ctx context.Context, user *model.User) error {
			created = true
			return nil
		},
	}
	svc := NewService(userRepo, &mockTokenRepo{})

	_, _, err := svc.Signup(context.Background(), "alice", "secret123", "")
	if err == nil {
		t.Fatal("expected error for duplicate username")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeUsernameTaken {
		t.Errorf("error = %v, want code %s", err, model.ErrCodeUsernameTaken)
	}
	// 新規ユーザーレコードが作成されないこと
	if created {
		t.Error("user was created despite duplicate username")
	}
}

func TestSignup_ConcurrentDuplicateUsername_ReturnsError(t *testing.T) {
	// 事前チェック時点では未登録だが、INSERT時に一意制約違反となるケース
	userRepo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			return nil, nil
		},
		createFn: func(ctx context.Context, user *model.User) error {
			return fmt.Errorf("username %s: %w", user.Username, repository.ErrDuplicate)
		},
	}
	svc := NewService(userRepo, &mockTokenRepo{})

	_, _, err := svc.Signup(context.Background(), "alice", "secret123", "")
	if err == nil {
		t.Fatal("expected error for duplicate username")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeUsernameTaken {
		t.Errorf("error = %v, want code %s", err, model.ErrCodeUsernameTaken)
	}
}

func TestSignup_MissingFields_ReturnsValidationError(t *testing.T) {
	svc := NewService(&mockUserRepo{}, &mockTokenRepo{})

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"空のユーザー名", "", "secret"},
		{"空のパスワード", "alice", ""},
		{"空白のみのユーザー名", "   ", "secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Signup(context.Background(), tt.username, tt.password, "")
			var apiErr *model.APIError
			if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeInvalidRequest {
				t.Errorf("error = %v, want code %s", err, model.ErrCodeInvalidRequest)
			}
		})
	}
}

func TestLogin_ValidCredentials_ReturnsToken(t *testing.T) {
	hash := hashPassword(t, "secret123")
	userRepo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			return &model.User{ID: "user-1", Username: username, PasswordHash: hash}, nil
		},
	}
	tokenRepo := &mockTokenRepo{
		findByUserIDFn: func(ctx context.Context, userID string) (*model.Token, error) {
			return &model.Token{Key: "existing-token-key", UserID: userID, CreatedAt: time.Now()}, nil
		},
	}
	svc := NewService(userRepo, tokenRepo)

	user, token, err := svc.Login(context.Background(), "alice", "secret123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.ID != "user-1" {
		t.Errorf("user.ID = %q, want %q", user.ID, "user-1")
	}
	// 既存トークンが再利用されること
	if token.Key != "existing-token-key" {
		t.Errorf("token.Key = %q, want %q", token.Key, "existing-token-key")
	}
}

func TestLogin_WrongPassword_ReturnsInvalidCredentials(t *testing.T) {
	hash := hashPassword(t, "secret123")
	userRepo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			return &model.User{ID: "user-1", Username: username, PasswordHash: hash}, nil
		},
	}
	svc := NewService(userRepo, &mockTokenRepo{})

	_, _, err := svc.Login(context.Background(), "alice", "wrong")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeInvalidCredentials {
		t.Errorf("error = %v, want code %s", err, model.ErrCodeInvalidCredentials)
	}
}

func TestLogin_UnknownUser_ReturnsSameErrorAsWrongPassword(t *testing.T) {
	svc := NewService(&mockUserRepo{}, &mockTokenRepo{})

	_, _, err := svc.Login(context.Background(), "nobody", "whatever")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeInvalidCredentials {
		t.Errorf("error = %v, want code %s", err, model.ErrCodeInvalidCredentials)
	}
}

func TestLogout_RevokesToken(t *testing.T) {
	var deletedUserID string
	tokenRepo := &mockTokenRepo{
		deleteByUserIDFn: func(ctx context.Context, userID string) error {
			deletedUserID = userID
			return nil
		},
	}
	svc := NewService(&mockUserRepo{}, tokenRepo)

	if err := svc.Logout(context.Background(), "user-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if deletedUserID != "user-1" {
		t.Errorf("deletedUserID = %q, want %q", deletedUserID, "user-1")
	}
}

func TestGetUserByToken_ValidKey_ReturnsUser(t *testing.T) {
	tokenRepo := &mockTokenRepo{
		findByKeyFn: func(ctx context.Context, key string) (*model.Token, error) {
			return &model.Token{Key: key, UserID: "user-1"}, nil
		},
	}
	userRepo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Username: "alice"}, nil
		},
	}
	svc := NewService(userRepo, tokenRepo)

	user, err := svc.GetUserByToken(context.Background(), "some-key")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user == nil || user.ID != "user-1" {
		t.Errorf("user = %+v, want user-1", user)
	}
}

func TestGetUserByToken_UnknownKey_ReturnsNil(t *testing.T) {
	svc := NewService(&mockUserRepo{}, &mockTokenRepo{})

	user, err := svc.GetUserByToken(context.Background(), "missing-key")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user != nil {
		t.Errorf("user = %+v, want nil", user)
	}
}

func TestGetUserByToken_RepoError_Propagates(t *testing.T) {
	tokenRepo := &mockTokenRepo{
		findByKeyFn: func(ctx context.Context, key string) (*model.Token, error) {
			return nil, errors.New("db down")
		},
	}
	svc := NewService(&mockUserRepo{}, tokenRepo)

	if _, err := svc.GetUserByToken(context.Background(), "key"); err == nil {
		t.Error("expected error to propagate")
	}
}
