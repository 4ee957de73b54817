package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"foodgram-go/internal/model"

	"gorm.io/gorm"
)

var (
	ErrShortLinkNotFound  = errors.New("短链不存在")
	ErrShortLinkExhausted = errors.New("无法生成唯一短链，请稍后重试")
)

const tokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// TokenFunc 生成指定长度的随机短链标识
type TokenFunc func(length int) (string, error)

// RandomToken 使用 crypto/rand 从 [a-zA-Z0-9] 中取字符
func RandomToken(length int) (string, error) {
	size := big.NewInt(int64(len(tokenAlphabet)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", fmt.Errorf("generate token: %w", err)
		}
		buf[i] = tokenAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// ShortLinkService 菜谱短链：首次请求时生成并持久化，之后始终返回同一地址
type ShortLinkService struct {
	links       ShortLinkStore
	recipes     RecipeStore
	length      int
	maxAttempts int
	token       TokenFunc
}

func NewShortLinkService(links ShortLinkStore, recipes RecipeStore, length, maxAttempts int, token TokenFunc) *ShortLinkService {
	if length <= 0 {
		length = 6
	}
	if maxAttempts <= 0 {
		maxAttempts = 10
	}
	if token == nil {
		token = RandomToken
	}
	return &ShortLinkService{
		links:       links,
		recipes:     recipes,
		length:      length,
		maxAttempts: maxAttempts,
		token:       token,
	}
}

// GetOrCreate 返回菜谱的短链地址，host 为请求的 Host
func (s *ShortLinkService) GetOrCreate(ctx context.Context, host string, recipeID int64) (string, error) {
	if _, err := s.recipes.GetBrief(ctx, recipeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrRecipeNotFound
		}
		return "", err
	}

	if link, err := s.stored(ctx, recipeID); err != nil || link != nil {
		return shortURL(link), err
	}

	fullURL := fmt.Sprintf("https://%s/recipes/%d/", host, recipeID)
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		token, err := s.token(s.length)
		if err != nil {
			return "", err
		}

		taken, err := s.links.TokenExists(ctx, token)
		if err != nil {
			return "", err
		}
		if taken {
			continue
		}

		link := &model.ShortLink{
			RecipeID: recipeID,
			Token:    token,
			FullURL:  fullURL,
			ShortURL: fmt.Sprintf("https://%s/s/%s/", host, token),
		}
		err = s.links.Create(ctx, link)
		if err == nil {
			return link.ShortURL, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", err
		}

		// 冲突可能来自并发请求已为该菜谱生成了短链
		existing, err := s.stored(ctx, recipeID)
		if err != nil {
			return "", err
		}
		if existing != nil {
			return existing.ShortURL, nil
		}
	}
	return "", ErrShortLinkExhausted
}

// Resolve 根据短链标识返回菜谱完整地址
func (s *ShortLinkService) Resolve(ctx context.Context, token string) (string, error) {
	link, err := s.links.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrShortLinkNotFound
		}
		return "", err
	}
	return link.FullURL, nil
}

func (s *ShortLinkService) stored(ctx context.Context, recipeID int64) (*model.ShortLink, error) {
	link, err := s.links.GetByRecipe(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return link, nil
}

func shortURL(link *model.ShortLink) string {
	if link == nil {
		return ""
	}
	return link.ShortURL
}
