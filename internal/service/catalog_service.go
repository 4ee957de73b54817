package service

import (
	"context"
	"errors"
	"strings"

	"foodgram-go/internal/api/dto"
	"foodgram-go/internal/model"

	"gorm.io/gorm"
)

var (
	ErrTagNotFound        = errors.New("标签不存在")
	ErrIngredientNotFound = errors.New("食材不存在")
)

// CatalogService 标签与食材的只读查询
type CatalogService struct {
	catalog CatalogStore
}

func NewCatalogService(catalog CatalogStore) *CatalogService {
	return &CatalogService{catalog: catalog}
}

func (s *CatalogService) ListTags(ctx context.Context) ([]dto.TagInfo, error) {
	tags, err := s.catalog.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TagInfo, 0, len(tags))
	for i := range tags {
		items = append(items, toTagInfo(&tags[i]))
	}
	return items, nil
}

func (s *CatalogService) GetTag(ctx context.Context, id int64) (*dto.TagInfo, error) {
	tag, err := s.catalog.GetTag(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}
	info := toTagInfo(tag)
	return &info, nil
}

// ListIngredients name 为名称前缀，不区分大小写
func (s *CatalogService) ListIngredients(ctx context.Context, name string) ([]dto.IngredientInfo, error) {
	ingredients, err := s.catalog.ListIngredients(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}
	items := make([]dto.IngredientInfo, 0, len(ingredients))
	for i := range ingredients {
		items = append(items, toIngredientInfo(&ingredients[i]))
	}
	return items, nil
}

func (s *CatalogService) GetIngredient(ctx context.Context, id int64) (*dto.IngredientInfo, error) {
	ingredient, err := s.catalog.GetIngredient(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIngredientNotFound
		}
		return nil, err
	}
	info := toIngredientInfo(ingredient)
	return &info, nil
}

func toTagInfo(t *model.Tag) dto.TagInfo {
	return dto.TagInfo{ID: t.ID, Name: t.Name, Slug: t.Slug}
}

func toIngredientInfo(i *model.Ingredient) dto.IngredientInfo {
	return dto.IngredientInfo{
		ID:              i.ID,
		Name:            i.Name,
		MeasurementUnit: i.MeasurementUnit.ShortName,
	}
}
