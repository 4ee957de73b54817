package repository

import (
	"context"

	"foodgram-go/internal/model"

	"gorm.io/gorm"
)

// Relation 用户到目标的一条关系记录（收藏、购物清单、订阅）
type Relation[T any] interface {
	*T
	Bind(userID, targetID int64)
}

// RelationRepository 三类用户关系共用的存取，(user_id, target) 上有唯一索引
type RelationRepository[T any, PT Relation[T]] struct {
	db     *gorm.DB
	target string
}

func NewFavoriteRepository(db *gorm.DB) *RelationRepository[model.Favorite, *model.Favorite] {
	return &RelationRepository[model.Favorite, *model.Favorite]{db: db, target: "recipe_id"}
}

func NewSubscriptionRepository(db *gorm.DB) *RelationRepository[model.Subscription, *model.Subscription] {
	return &RelationRepository[model.Subscription, *model.Subscription]{db: db, target: "following_id"}
}

func (r *RelationRepository[T, PT]) model() PT {
	return PT(new(T))
}

// Create 插入关系；重复时返回 gorm.ErrDuplicatedKey
func (r *RelationRepository[T, PT]) Create(ctx context.Context, userID, targetID int64) error {
	row := r.model()
	row.Bind(userID, targetID)
	return r.db.WithContext(ctx).Create(row).Error
}

// Delete 删除关系，返回是否有记录被删除
func (r *RelationRepository[T, PT]) Delete(ctx context.Context, userID, targetID int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND "+r.target+" = ?", userID, targetID).
		Delete(r.model())
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *RelationRepository[T, PT]) Exists(ctx context.Context, userID, targetID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(r.model()).
		Where("user_id = ? AND "+r.target+" = ?", userID, targetID).
		Count(&count).Error
	return count > 0, err
}

// BatchExists 批量查询关系状态
func (r *RelationRepository[T, PT]) BatchExists(ctx context.Context, userID int64, targetIDs []int64) (map[int64]bool, error) {
	result := make(map[int64]bool, len(targetIDs))
	if len(targetIDs) == 0 || userID == 0 {
		return result, nil
	}

	var ids []int64
	err := r.db.WithContext(ctx).Model(r.model()).
		Where("user_id = ? AND "+r.target+" IN ?", userID, targetIDs).
		Pluck(r.target, &ids).Error
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		result[id] = true
	}
	return result, nil
}

// ListTargetIDs 按建立顺序分页获取目标 ID
func (r *RelationRepository[T, PT]) ListTargetIDs(ctx context.Context, userID int64, offset, limit int) ([]int64, int64, error) {
	query := r.db.WithContext(ctx).Model(r.model()).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ids []int64
	err := query.Order("id ASC").Offset(offset).Limit(limit).Pluck(r.target, &ids).Error
	return ids, total, err
}

// Count 用户拥有的关系数量
func (r *RelationRepository[T, PT]) Count(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(r.model()).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
