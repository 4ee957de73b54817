package repository

import (
	"context"

	"foodgram-go/internal/model"

	"gorm.io/gorm"
)

// CartLine 购物清单中某菜谱的一行食材
type CartLine struct {
	Name   string
	Unit   string
	Amount int
}

// ShoppingCartRepository 购物清单
type ShoppingCartRepository struct {
	*RelationRepository[model.ShoppingCartEntry, *model.ShoppingCartEntry]
}

func NewShoppingCartRepository(db *gorm.DB) *ShoppingCartRepository {
	return &ShoppingCartRepository{
		RelationRepository: &RelationRepository[model.ShoppingCartEntry, *model.ShoppingCartEntry]{db: db, target: "recipe_id"},
	}
}

// Lines 展开用户购物清单中全部菜谱的食材，按条目ID、关联ID排序
func (r *ShoppingCartRepository) Lines(ctx context.Context, userID int64) ([]CartLine, error) {
	var lines []CartLine
	err := r.db.WithContext(ctx).
		Table("shopping_carts AS sc").
		Select("i.name AS name, mu.short_name AS unit, ri.amount AS amount").
		Joins("JOIN recipe_ingredients AS ri ON ri.recipe_id = sc.recipe_id").
		Joins("JOIN ingredients AS i ON i.id = ri.ingredient_id").
		Joins("JOIN measurement_units AS mu ON mu.id = i.measurement_unit_id").
		Where("sc.user_id = ?", userID).
		Order("sc.id ASC, ri.id ASC").
		Scan(&lines).Error
	return lines, err
}
