package service

import (
	"context"
	"errors"

	"foodgram-go/internal/api/dto"
	"foodgram-go/internal/model"

	"gorm.io/gorm"
)

var (
	ErrAlreadyFavorited  = errors.New("菜谱已在收藏中")
	ErrNotFavorited      = errors.New("菜谱不在收藏中")
	ErrAlreadyInCart     = errors.New("菜谱已在购物清单中")
	ErrNotInCart         = errors.New("菜谱不在购物清单中")
	ErrCannotFollowSelf  = errors.New("不能订阅自己")
	ErrAlreadySubscribed = errors.New("您已经订阅了该作者")
	ErrNotSubscribed     = errors.New("您尚未订阅该作者")
)

// RelationKind 描述一类用户关系的冲突语义
type RelationKind struct {
	Name       string
	ErrExists  error
	ErrAbsent  error
	ForbidSelf bool
}

var (
	FavoriteRelation     = RelationKind{Name: "favorite", ErrExists: ErrAlreadyFavorited, ErrAbsent: ErrNotFavorited}
	ShoppingCartRelation = RelationKind{Name: "shopping_cart", ErrExists: ErrAlreadyInCart, ErrAbsent: ErrNotInCart}
	SubscriptionRelation = RelationKind{Name: "subscription", ErrExists: ErrAlreadySubscribed, ErrAbsent: ErrNotSubscribed, ForbidSelf: true}
)

// RelationWriter Toggle 需要的最小存储能力
type RelationWriter interface {
	Create(ctx context.Context, userID, targetID int64) error
	Delete(ctx context.Context, userID, targetID int64) (bool, error)
	Exists(ctx context.Context, userID, targetID int64) (bool, error)
}

// Toggle 添加/移除一条 (user, target) 关系，同一对至多一条记录
type Toggle struct {
	kind  RelationKind
	store RelationWriter
}

func NewToggle(kind RelationKind, store RelationWriter) *Toggle {
	return &Toggle{kind: kind, store: store}
}

// Add 目标是否存在由调用方事先确认
func (t *Toggle) Add(ctx context.Context, userID, targetID int64) error {
	if t.kind.ForbidSelf && userID == targetID {
		return ErrCannotFollowSelf
	}

	exists, err := t.store.Exists(ctx, userID, targetID)
	if err != nil {
		return err
	}
	if exists {
		return t.kind.ErrExists
	}

	// 并发插入时由唯一索引兜底
	if err := t.store.Create(ctx, userID, targetID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return t.kind.ErrExists
		}
		return err
	}
	return nil
}

func (t *Toggle) Remove(ctx context.Context, userID, targetID int64) error {
	deleted, err := t.store.Delete(ctx, userID, targetID)
	if err != nil {
		return err
	}
	if !deleted {
		return t.kind.ErrAbsent
	}
	return nil
}

// SubscriptionService 作者订阅
type SubscriptionService struct {
	subs    RelationStore
	toggle  *Toggle
	users   UserStore
	recipes RecipeStore
}

func NewSubscriptionService(subs RelationStore, users UserStore, recipes RecipeStore) *SubscriptionService {
	return &SubscriptionService{
		subs:    subs,
		toggle:  NewToggle(SubscriptionRelation, subs),
		users:   users,
		recipes: recipes,
	}
}

// Subscribe 订阅作者，返回作者信息及其最新菜谱
func (s *SubscriptionService) Subscribe(ctx context.Context, userID, authorID int64, recipesLimit int) (*dto.SubscriptionInfo, error) {
	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := s.toggle.Add(ctx, userID, authorID); err != nil {
		return nil, err
	}

	return s.describe(ctx, author, true, recipesLimit)
}

// Unsubscribe 取消订阅
func (s *SubscriptionService) Unsubscribe(ctx context.Context, userID, authorID int64) error {
	if _, err := s.users.GetByID(ctx, authorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return s.toggle.Remove(ctx, userID, authorID)
}

// ListSubscriptions 当前用户订阅的作者，按订阅先后排序
func (s *SubscriptionService) ListSubscriptions(ctx context.Context, userID int64, offset, limit, recipesLimit int) ([]dto.SubscriptionInfo, int64, error) {
	authorIDs, total, err := s.subs.ListTargetIDs(ctx, userID, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	authors, err := s.users.GetByIDs(ctx, authorIDs)
	if err != nil {
		return nil, 0, err
	}
	byID := make(map[int64]*model.User, len(authors))
	for i := range authors {
		byID[authors[i].ID] = &authors[i]
	}

	items := make([]dto.SubscriptionInfo, 0, len(authorIDs))
	for _, id := range authorIDs {
		author, ok := byID[id]
		if !ok {
			continue
		}
		info, err := s.describe(ctx, author, true, recipesLimit)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *info)
	}
	return items, total, nil
}

func (s *SubscriptionService) describe(ctx context.Context, author *model.User, subscribed bool, recipesLimit int) (*dto.SubscriptionInfo, error) {
	recipes, count, err := s.recipes.ListByAuthor(ctx, author.ID, recipesLimit)
	if err != nil {
		return nil, err
	}

	short := make([]dto.RecipeShort, 0, len(recipes))
	for i := range recipes {
		short = append(short, *toRecipeShort(&recipes[i]))
	}

	return &dto.SubscriptionInfo{
		UserInfo:     *toUserInfo(author, subscribed),
		Recipes:      short,
		RecipesCount: count,
	}, nil
}
