package service

import (
	"context"
	"time"

	"foodgram-go/internal/model"
	"foodgram-go/internal/repository"
)

// 服务层依赖的存储接口，由 repository 与 infra 中的实现满足

type UserStore interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByIDs(ctx context.Context, ids []int64) ([]model.User, error)
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	List(ctx context.Context, offset, limit int) ([]model.User, int64, error)
}

// RelationStore 收藏、购物清单、订阅关系
type RelationStore interface {
	Create(ctx context.Context, userID, targetID int64) error
	Delete(ctx context.Context, userID, targetID int64) (bool, error)
	Exists(ctx context.Context, userID, targetID int64) (bool, error)
	BatchExists(ctx context.Context, userID int64, targetIDs []int64) (map[int64]bool, error)
	ListTargetIDs(ctx context.Context, userID int64, offset, limit int) ([]int64, int64, error)
	Count(ctx context.Context, userID int64) (int64, error)
}

type CartStore interface {
	RelationStore
	Lines(ctx context.Context, userID int64) ([]repository.CartLine, error)
}

type RecipeStore interface {
	GetByID(ctx context.Context, id int64) (*model.Recipe, error)
	GetBrief(ctx context.Context, id int64) (*model.Recipe, error)
	GetByIDs(ctx context.Context, ids []int64) ([]model.Recipe, error)
	List(ctx context.Context, f repository.RecipeFilter, offset, limit int) ([]model.Recipe, int64, error)
	ListByAuthor(ctx context.Context, authorID int64, limit int) ([]model.Recipe, int64, error)
	SearchByName(ctx context.Context, q string, offset, limit int) ([]model.Recipe, int64, error)
	ListAllIDs(ctx context.Context) ([]int64, error)
	Create(ctx context.Context, recipe *model.Recipe, ingredients []model.RecipeIngredient, tagIDs []int64) error
	Update(ctx context.Context, id int64, u repository.RecipeUpdate) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type CatalogStore interface {
	ListTags(ctx context.Context) ([]model.Tag, error)
	GetTag(ctx context.Context, id int64) (*model.Tag, error)
	ListIngredients(ctx context.Context, namePrefix string) ([]model.Ingredient, error)
	GetIngredient(ctx context.Context, id int64) (*model.Ingredient, error)
	ExistingTagIDs(ctx context.Context, ids []int64) ([]int64, error)
	ExistingIngredientIDs(ctx context.Context, ids []int64) ([]int64, error)
}

type ShortLinkStore interface {
	GetByRecipe(ctx context.Context, recipeID int64) (*model.ShortLink, error)
	GetByToken(ctx context.Context, token string) (*model.ShortLink, error)
	TokenExists(ctx context.Context, token string) (bool, error)
	Create(ctx context.Context, link *model.ShortLink) error
}

// ImageStore 图片对象存储
type ImageStore interface {
	Save(ctx context.Context, objectName string, data []byte, contentType string) (string, error)
	Remove(ctx context.Context, url string) error
}

// EventPublisher 菜谱变更事件
type EventPublisher interface {
	PublishRecipeEvent(ctx context.Context, eventType string, recipeID int64) error
}

// TokenBlacklist 已注销的令牌
type TokenBlacklist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
