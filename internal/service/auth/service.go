// Package auth 登录与 Token 刷新
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gemstore_server/internal/dao/db/repository"
	myredis "gemstore_server/internal/dao/redis"
	"gemstore_server/internal/model"
	"gemstore_server/pkg/constants"
	"gemstore_server/pkg/errorx"
	"gemstore_server/pkg/util/jwt"

	"go.uber.org/zap"
)

// LoginResult 登录结果
type LoginResult struct {
	UserID       uint   `json:"userId"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	IsAdmin      bool   `json:"isAdmin"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Service 认证服务
type Service struct {
	repos *repository.Repositories
	// cache 为 nil 时不做单点互踢校验
	cache myredis.CacheService
}

// NewAuthService 构造函数
func NewAuthService(repos *repository.Repositories, cache myredis.CacheService) *Service {
	return &Service{repos: repos, cache: cache}
}

func tokenKey(userID uint) string {
	return fmt.Sprintf("user_token:%d", userID)
}

// Login 邮箱 + 密码登录，签发双 Token
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.repos.User.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeUserNotExist, "用户不存在")
		}
		zap.L().Error("find user error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if !user.CheckPassword(password) {
		return nil, errorx.New(errorx.CodeInvalidPassword, "密码不正确，请重试")
	}

	accessToken, err := jwt.GenerateAccessToken(user.ID, user.IsAdmin)
	if err != nil {
		zap.L().Error("生成 Access Token 失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	refreshToken, tokenID, err := jwt.GenerateRefreshToken(user.ID, user.IsAdmin)
	if err != nil {
		zap.L().Error("生成 Refresh Token 失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	// 新登录覆盖旧 Token ID，旧设备无法再刷新
	if s.cache != nil {
		ttl := time.Duration(constants.REFRESH_TOKEN_EXPIRY_HOURS) * time.Hour
		if err := s.cache.Set(ctx, tokenKey(user.ID), tokenID, ttl); err != nil {
			zap.L().Error("存储 Token ID 到 Redis 失败", zap.Error(err))
		}
	}

	return &LoginResult{
		UserID:       user.ID,
		Email:        user.Email,
		Name:         user.Name,
		IsAdmin:      user.IsAdmin,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh 用 Refresh Token 换新的 Access Token
// 管理员标记以数据库为准，降权后刷新即生效
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := jwt.ParseToken(refreshToken)
	if err != nil {
		return "", errorx.New(errorx.CodeUnauthorized, "Refresh Token 已过期或无效，请重新登录")
	}
	if claims.Subject != jwt.SubjectRefreshToken {
		return "", errorx.New(errorx.CodeUnauthorized, "请使用 Refresh Token")
	}

	if s.cache != nil {
		validTokenID, err := s.cache.Get(ctx, tokenKey(claims.UserID))
		if err != nil || validTokenID == "" {
			return "", errorx.New(errorx.CodeUnauthorized, "登录状态已失效，请重新登录")
		}
		if claims.TokenID != validTokenID {
			return "", errorx.New(errorx.CodeUnauthorized, "您的账号已在其他设备登录，请重新登录")
		}
	}

	user, err := s.repos.User.FindByID(ctx, claims.UserID)
	if err != nil {
		if errorx.IsNotFound(err) {
			return "", errorx.New(errorx.CodeUnauthorized, "用户不存在，请重新登录")
		}
		zap.L().Error("find user error", zap.Error(err))
		return "", errorx.ErrServerBusy
	}

	accessToken, err := jwt.GenerateAccessToken(user.ID, user.IsAdmin)
	if err != nil {
		zap.L().Error("生成 Access Token 失败", zap.Error(err))
		return "", errorx.ErrServerBusy
	}
	return accessToken, nil
}

// Actor 从 Access Token 解析调用方身份
func Actor(accessToken string) (*model.Actor, error) {
	claims, err := jwt.ParseToken(accessToken)
	if err != nil {
		return nil, errorx.New(errorx.CodeUnauthorized, "Token 已过期或无效")
	}
	if claims.Subject != jwt.SubjectAccessToken {
		return nil, errorx.New(errorx.CodeUnauthorized, "请使用 Access Token")
	}
	return &model.Actor{UserID: claims.UserID, IsAdmin: claims.IsAdmin}, nil
}
