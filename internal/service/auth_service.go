package service

import (
	"context"
	"crypto/subtle"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/chinkunlim/Project-Synapse/config"
	"github.com/chinkunlim/Project-Synapse/internal/dto"
	"github.com/chinkunlim/Project-Synapse/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("用户名或密码错误")
	ErrAuthDisabled       = errors.New("未配置管理员账号")
)

// RoleAdmin 管理员角色，写操作需要该角色
const RoleAdmin = "admin"

// AuthService 认证业务接口
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
}

type authService struct {
	cfg    *config.AuthConfig
	jwtMgr *jwt.Manager
	logger *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(cfg *config.AuthConfig, jwtMgr *jwt.Manager, logger *zap.Logger) AuthService {
	return &authService{
		cfg:    cfg,
		jwtMgr: jwtMgr,
		logger: logger,
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	if s.cfg.AdminUsername == "" || s.cfg.AdminPasswordHash == "" {
		return nil, ErrAuthDisabled
	}

	// 1. 校验用户名（常量时间比较）
	if subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.cfg.AdminUsername)) != 1 {
		return nil, ErrInvalidCredentials
	}

	// 2. 验证密码 (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPasswordHash), []byte(req.Password)); err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			s.logger.Warn("管理员密码哈希无效", zap.Error(err))
		}
		return nil, ErrInvalidCredentials
	}

	// 3. 签发 AccessToken
	token, err := s.jwtMgr.GenerateAccessToken(req.Username, RoleAdmin)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("管理员登录", zap.String("username", req.Username))
	return &dto.TokenResponse{
		AccessToken: token,
		ExpiresIn:   int(s.jwtMgr.AccessTokenTTL().Seconds()),
		Username:    req.Username,
	}, nil
}
