package repository

import (
	"context"

	"foodgram-go/internal/model"

	"gorm.io/gorm"
)

// RecipeFilter 菜谱列表筛选条件，零值表示不筛选
type RecipeFilter struct {
	TagSlugs    []string
	AuthorID    int64
	FavoritedBy int64
	InCartOf    int64
}

// RecipeUpdate 更新内容；nil 字段保持不变
type RecipeUpdate struct {
	Fields      map[string]interface{}
	Ingredients []model.RecipeIngredient
	TagIDs      []int64
}

type RecipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

func (r *RecipeRepository) withDetails(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.id ASC") }).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_ingredients.id ASC") }).
		Preload("Ingredients.Ingredient.MeasurementUnit")
}

// GetByID 查询菜谱及其作者、标签、食材
func (r *RecipeRepository) GetByID(ctx context.Context, id int64) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := r.withDetails(ctx).First(&recipe, id).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// GetBrief 只查询菜谱本身
func (r *RecipeRepository) GetBrief(ctx context.Context, id int64) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := r.db.WithContext(ctx).First(&recipe, id).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// GetByIDs 批量查询详情，结果顺序与 ids 无关
func (r *RecipeRepository) GetByIDs(ctx context.Context, ids []int64) ([]model.Recipe, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var recipes []model.Recipe
	err := r.withDetails(ctx).Where("id IN ?", ids).Find(&recipes).Error
	return recipes, err
}

// List 按发布时间倒序分页
func (r *RecipeRepository) List(ctx context.Context, f RecipeFilter, offset, limit int) ([]model.Recipe, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Recipe{})

	if len(f.TagSlugs) > 0 {
		query = query.Where("recipes.id IN (?)", r.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", f.TagSlugs))
	}
	if f.AuthorID != 0 {
		query = query.Where("recipes.author_id = ?", f.AuthorID)
	}
	if f.FavoritedBy != 0 {
		query = query.Where("recipes.id IN (?)", r.db.Model(&model.Favorite{}).
			Select("recipe_id").Where("user_id = ?", f.FavoritedBy))
	}
	if f.InCartOf != 0 {
		query = query.Where("recipes.id IN (?)", r.db.Model(&model.ShoppingCartEntry{}).
			Select("recipe_id").Where("user_id = ?", f.InCartOf))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ids []int64
	err := query.Order("recipes.created_at DESC, recipes.id DESC").
		Offset(offset).Limit(limit).Pluck("recipes.id", &ids).Error
	if err != nil {
		return nil, 0, err
	}

	recipes, err := r.GetByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	return orderByIDs(recipes, ids), total, nil
}

// ListByAuthor 作者最新的若干菜谱及其菜谱总数
func (r *RecipeRepository) ListByAuthor(ctx context.Context, authorID int64, limit int) ([]model.Recipe, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Recipe{}).Where("author_id = ?", authorID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recipes []model.Recipe
	err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&recipes).Error
	return recipes, total, err
}

// SearchByName 名称模糊匹配，搜索引擎不可用时的降级路径
func (r *RecipeRepository) SearchByName(ctx context.Context, q string, offset, limit int) ([]model.Recipe, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Recipe{}).
		Where("name ILIKE ?", "%"+escapeLike(q)+"%")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ids []int64
	if err := query.Order("created_at DESC, id DESC").Offset(offset).Limit(limit).Pluck("id", &ids).Error; err != nil {
		return nil, 0, err
	}

	recipes, err := r.GetByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	return orderByIDs(recipes, ids), total, nil
}

// ListAllIDs 全部菜谱ID，用于重建索引
func (r *RecipeRepository) ListAllIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&model.Recipe{}).Order("id ASC").Pluck("id", &ids).Error
	return ids, err
}

// Create 在一个事务中写入菜谱与关联
func (r *RecipeRepository) Create(ctx context.Context, recipe *model.Recipe, ingredients []model.RecipeIngredient, tagIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Author", "Ingredients", "Tags").Create(recipe).Error; err != nil {
			return err
		}
		if err := insertIngredients(tx, recipe.ID, ingredients); err != nil {
			return err
		}
		return insertTags(tx, recipe.ID, tagIDs)
	})
}

// Update 在一个事务中更新字段并替换给出的关联
func (r *RecipeRepository) Update(ctx context.Context, id int64, u RecipeUpdate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(u.Fields) > 0 {
			result := tx.Model(&model.Recipe{}).Where("id = ?", id).Updates(u.Fields)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		if u.Ingredients != nil {
			if err := tx.Where("recipe_id = ?", id).Delete(&model.RecipeIngredient{}).Error; err != nil {
				return err
			}
			if err := insertIngredients(tx, id, u.Ingredients); err != nil {
				return err
			}
		}
		if u.TagIDs != nil {
			if err := tx.Where("recipe_id = ?", id).Delete(&model.RecipeTag{}).Error; err != nil {
				return err
			}
			if err := insertTags(tx, id, u.TagIDs); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete 删除菜谱，关联记录由外键级联删除
func (r *RecipeRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&model.Recipe{}, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func insertIngredients(tx *gorm.DB, recipeID int64, items []model.RecipeIngredient) error {
	if len(items) == 0 {
		return nil
	}
	rows := make([]model.RecipeIngredient, len(items))
	for i, it := range items {
		rows[i] = model.RecipeIngredient{RecipeID: recipeID, IngredientID: it.IngredientID, Amount: it.Amount}
	}
	return tx.Omit("Ingredient").Create(&rows).Error
}

func insertTags(tx *gorm.DB, recipeID int64, tagIDs []int64) error {
	if len(tagIDs) == 0 {
		return nil
	}
	rows := make([]model.RecipeTag, len(tagIDs))
	for i, id := range tagIDs {
		rows[i] = model.RecipeTag{RecipeID: recipeID, TagID: id}
	}
	return tx.Create(&rows).Error
}

func orderByIDs(recipes []model.Recipe, ids []int64) []model.Recipe {
	byID := make(map[int64]*model.Recipe, len(recipes))
	for i := range recipes {
		byID[recipes[i].ID] = &recipes[i]
	}
	ordered := make([]model.Recipe, 0, len(ids))
	for _, id := range ids {
		if rec, ok := byID[id]; ok {
			ordered = append(ordered, *rec)
		}
	}
	return ordered
}
