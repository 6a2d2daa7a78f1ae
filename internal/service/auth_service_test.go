package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"noah/backend/config"
	"noah/backend/internal/dto"
	"noah/backend/internal/model"
	"noah/backend/internal/repository"
	"noah/backend/pkg/jwt"
)

func setupTestAuthService() (AuthService, *repository.Repository) {
	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret-key-for-unit-testing-2026",
			AccessTokenTTL:          15 * time.Minute,
			RefreshTokenTTLDefault:  24 * time.Hour,
			RefreshTokenTTLRemember: 30 * 24 * time.Hour,
		},
	}

	repo := newMockRepository()
	jwtMgr := jwt.NewManager(&cfg.Auth)

	svc := NewAuthService(cfg, repo, jwtMgr, nil, zap.NewNop())
	return svc, repo
}

func createTestLoginUser(repo *repository.Repository, email, password string, company *model.Company) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	user := &model.User{
		UserID:       "user-" + email,
		Name:         "测试用户",
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleProfessional,
	}
	if company != nil {
		user.CompanyID = &company.CompanyID
		user.Company = company
	}
	repo.User.Create(context.Background(), user)
	return user
}

// ── 登录 ──

func TestLogin_Success(t *testing.T) {
	svc, repo := setupTestAuthService()
	company := &model.Company{CompanyID: "company-1", Name: "测试公司", IsActive: true}
	createTestLoginUser(repo, "pro@test.com", "password123", company)

	result, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "pro@test.com",
		Password: "password123",
	})

	if err != nil {
		t.Fatalf("Login 应成功，但返回错误: %v", err)
	}
	if result.AccessToken == "" {
		t.Error("AccessToken 不应为空")
	}
	if result.RefreshToken == "" {
		t.Error("RefreshToken 不应为空")
	}
	if result.ExpiresIn != 900 {
		t.Errorf("期望 ExpiresIn=900，实际=%d", result.ExpiresIn)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, repo := setupTestAuthService()
	createTestLoginUser(repo, "pro@test.com", "password123", nil)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "pro@test.com",
		Password: "wrong_password",
	})

	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestLogin_UserNotFound(t *testing.T) {
	svc, _ := setupTestAuthService()

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "nobody@test.com",
		Password: "password123",
	})

	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestLogin_CompanyDisabled(t *testing.T) {
	svc, repo := setupTestAuthService()
	company := &model.Company{CompanyID: "company-1", Name: "停用公司", IsActive: false}
	createTestLoginUser(repo, "pro@test.com", "password123", company)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "pro@test.com",
		Password: "password123",
	})

	if !errors.Is(err, ErrCompanyDisabled) {
		t.Errorf("期望 ErrCompanyDisabled，实际: %v", err)
	}
}

// ── 刷新 ──

func TestRefreshToken_Success(t *testing.T) {
	svc, repo := setupTestAuthService()
	company := &model.Company{CompanyID: "company-1", Name: "测试公司", IsActive: true}
	createTestLoginUser(repo, "pro@test.com", "password123", company)

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "pro@test.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}

	refreshed, err := svc.RefreshToken(context.Background(), login.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshToken 应成功: %v", err)
	}
	if refreshed.AccessToken == "" {
		t.Error("刷新后的 AccessToken 不应为空")
	}
}

func TestRefreshToken_AccessTokenRejected(t *testing.T) {
	svc, repo := setupTestAuthService()
	createTestLoginUser(repo, "pro@test.com", "password123", nil)

	login, _ := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "pro@test.com",
		Password: "password123",
	})

	// access token 不能当 refresh token 用
	_, err := svc.RefreshToken(context.Background(), login.AccessToken)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("期望 ErrTokenInvalid，实际: %v", err)
	}
}

func TestRefreshToken_Garbage(t *testing.T) {
	svc, _ := setupTestAuthService()

	_, err := svc.RefreshToken(context.Background(), "not-a-jwt")
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("期望 ErrTokenInvalid，实际: %v", err)
	}
}

// ── 修改密码 ──

func TestChangePassword(t *testing.T) {
	svc, repo := setupTestAuthService()
	user := createTestLoginUser(repo, "pro@test.com", "oldpassword", nil)

	err := svc.ChangePassword(context.Background(), user.UserID, &dto.ChangePasswordRequest{
		OldPassword: "oldpassword",
		NewPassword: "newpassword1",
	})
	if err != nil {
		t.Fatalf("ChangePassword 应成功: %v", err)
	}

	// 新密码生效
	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "pro@test.com",
		Password: "newpassword1",
	}); err != nil {
		t.Errorf("新密码登录应成功: %v", err)
	}

	// 旧密码失效
	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "pro@test.com",
		Password: "oldpassword",
	}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("旧密码应失效，实际: %v", err)
	}
}

func TestChangePassword_WrongOld(t *testing.T) {
	svc, repo := setupTestAuthService()
	user := createTestLoginUser(repo, "pro@test.com", "oldpassword", nil)

	err := svc.ChangePassword(context.Background(), user.UserID, &dto.ChangePasswordRequest{
		OldPassword: "not-the-password",
		NewPassword: "newpassword1",
	})
	if !errors.Is(err, ErrOldPasswordWrong) {
		t.Errorf("期望 ErrOldPasswordWrong，实际: %v", err)
	}
}
