package service

import (
	"context"
	"errors"
	"time"

	"foodgram-go/internal/api/dto"
	"foodgram-go/pkg/utils"

	"gorm.io/gorm"
)

var (
	ErrInvalidCredential = errors.New("邮箱或密码错误")
	ErrTokenRevoked      = errors.New("认证令牌已注销")
)

type AuthService struct {
	users     UserStore
	tokens    *utils.TokenManager
	blacklist TokenBlacklist
}

func NewAuthService(users UserStore, tokens *utils.TokenManager, blacklist TokenBlacklist) *AuthService {
	return &AuthService{users: users, tokens: tokens, blacklist: blacklist}
}

// Login 邮箱+密码登录，返回 Token
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenData, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredential
		}
		return nil, err
	}

	if !utils.VerifyPassword(req.Password, user.Password) {
		return nil, ErrInvalidCredential
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, err
	}
	return &dto.TokenData{AuthToken: token}, nil
}

// Logout 注销令牌，直到其自然过期
func (s *AuthService) Logout(ctx context.Context, claims *utils.Claims) error {
	ttl := s.tokens.TTL()
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	return s.blacklist.Revoke(ctx, claims.ID, ttl)
}

// Authenticate 校验令牌签名、有效期与注销状态
func (s *AuthService) Authenticate(ctx context.Context, token string) (*utils.Claims, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}
