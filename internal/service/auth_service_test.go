package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/chinkunlim/Project-Synapse/config"
	"github.com/chinkunlim/Project-Synapse/internal/dto"
	"github.com/chinkunlim/Project-Synapse/pkg/jwt"
)

// ── 测试辅助 ──

func setupTestAuthService(t *testing.T, password string) (AuthService, *jwt.Manager) {
	t.Helper()
	cfg := &config.AuthConfig{
		JWTSecret:      "test-secret-key-for-unit-tests",
		AccessTokenTTL: 2 * time.Hour,
		AdminUsername:  "admin",
	}
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		if err != nil {
			t.Fatalf("生成密码哈希失败: %v", err)
		}
		cfg.AdminPasswordHash = string(hash)
	}
	jwtMgr := jwt.NewManager(cfg)
	return NewAuthService(cfg, jwtMgr, zap.NewNop()), jwtMgr
}

// ── Login 测试 ──

func TestLogin_Success(t *testing.T) {
	svc, jwtMgr := setupTestAuthService(t, "s3cret-pass")

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "admin", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}
	if resp.AccessToken == "" {
		t.Error("AccessToken 不应为空")
	}
	if resp.ExpiresIn != 7200 {
		t.Errorf("期望ExpiresIn=7200，实际=%d", resp.ExpiresIn)
	}

	claims, err := jwtMgr.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("Token 应可解析: %v", err)
	}
	if claims.Username != "admin" || claims.Role != RoleAdmin {
		t.Errorf("Claims 不符: %+v", claims)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := setupTestAuthService(t, "s3cret-pass")

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "admin", Password: "wrong"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际 %v", err)
	}
}

func TestLogin_WrongUsername(t *testing.T) {
	svc, _ := setupTestAuthService(t, "s3cret-pass")

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "root", Password: "s3cret-pass"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际 %v", err)
	}
}

func TestLogin_NotConfigured(t *testing.T) {
	svc, _ := setupTestAuthService(t, "")

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "admin", Password: "x"})
	if !errors.Is(err, ErrAuthDisabled) {
		t.Errorf("期望 ErrAuthDisabled，实际 %v", err)
	}
}
