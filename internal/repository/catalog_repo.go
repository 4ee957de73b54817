package repository

import (
	"context"
	"strings"

	"foodgram-go/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CatalogRepository 标签、食材与计量单位
type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) ListTags(ctx context.Context) ([]model.Tag, error) {
	var tags []model.Tag
	err := r.db.WithContext(ctx).Order("id ASC").Find(&tags).Error
	return tags, err
}

func (r *CatalogRepository) GetTag(ctx context.Context, id int64) (*model.Tag, error) {
	var tag model.Tag
	if err := r.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// ListIngredients 按名称前缀（不区分大小写）过滤
func (r *CatalogRepository) ListIngredients(ctx context.Context, namePrefix string) ([]model.Ingredient, error) {
	query := r.db.WithContext(ctx).Preload("MeasurementUnit")
	if namePrefix != "" {
		query = query.Where("name ILIKE ?", escapeLike(namePrefix)+"%")
	}

	var ingredients []model.Ingredient
	err := query.Order("name ASC, id ASC").Find(&ingredients).Error
	return ingredients, err
}

func (r *CatalogRepository) GetIngredient(ctx context.Context, id int64) (*model.Ingredient, error) {
	var ingredient model.Ingredient
	if err := r.db.WithContext(ctx).Preload("MeasurementUnit").First(&ingredient, id).Error; err != nil {
		return nil, err
	}
	return &ingredient, nil
}

// ExistingTagIDs 返回 ids 中实际存在的标签ID
func (r *CatalogRepository) ExistingTagIDs(ctx context.Context, ids []int64) ([]int64, error) {
	return r.pluckExisting(ctx, &model.Tag{}, ids)
}

// ExistingIngredientIDs 返回 ids 中实际存在的食材ID
func (r *CatalogRepository) ExistingIngredientIDs(ctx context.Context, ids []int64) ([]int64, error) {
	return r.pluckExisting(ctx, &model.Ingredient{}, ids)
}

func (r *CatalogRepository) pluckExisting(ctx context.Context, m interface{}, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []int64
	err := r.db.WithContext(ctx).Model(m).Where("id IN ?", ids).Pluck("id", &found).Error
	return found, err
}

// CreateTagIfAbsent 名称或 slug 已存在时跳过，返回是否新建
func (r *CatalogRepository) CreateTagIfAbsent(ctx context.Context, tag *model.Tag) (bool, error) {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(tag)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// CreateIngredientIfAbsent 同名同单位的食材已存在时跳过，返回是否新建
func (r *CatalogRepository) CreateIngredientIfAbsent(ctx context.Context, name, unit string) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		mu := model.MeasurementUnit{}
		if err := tx.Where(model.MeasurementUnit{ShortName: unit}).
			Attrs(model.MeasurementUnit{FullName: unit}).
			FirstOrCreate(&mu).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&model.Ingredient{}).
			Where("name = ? AND measurement_unit_id = ?", name, mu.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		created = true
		return tx.Create(&model.Ingredient{Name: name, MeasurementUnitID: mu.ID}).Error
	})
	return created, err
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
}
