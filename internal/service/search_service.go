package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"foodgram-go/internal/api/dto"
	infraES "foodgram-go/internal/infra/elasticsearch"
	infraKafka "foodgram-go/internal/infra/kafka"
	"foodgram-go/internal/model"
	"foodgram-go/pkg/logger"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RecipeSearcher 全文检索
type RecipeSearcher interface {
	Search(ctx context.Context, q string, from, size int) ([]int64, int64, error)
}

// RecipeIndexWriter 检索索引的写入
type RecipeIndexWriter interface {
	EnsureIndex(ctx context.Context) error
	Put(ctx context.Context, doc *infraES.RecipeDoc) error
	Delete(ctx context.Context, recipeID int64) error
	BulkPut(ctx context.Context, docs []*infraES.RecipeDoc) (success, failed int, err error)
}

// 连续失败达到阈值后熔断，熔断期间搜索直接走数据库
const (
	searchBreakerFailures = 5
	searchBreakerTimeout  = 30 * time.Second
)

type searchHits struct {
	ids   []int64
	total int64
}

type SearchService struct {
	recipes  RecipeStore
	searcher RecipeSearcher
	describe *RecipeService
	breaker  *gobreaker.CircuitBreaker[searchHits]
}

// NewSearchService searcher 为 nil 时直接走数据库
func NewSearchService(recipes RecipeStore, searcher RecipeSearcher, describe *RecipeService) *SearchService {
	return &SearchService{
		recipes:  recipes,
		searcher: searcher,
		describe: describe,
		breaker: gobreaker.NewCircuitBreaker[searchHits](gobreaker.Settings{
			Name:        "recipe-search",
			MaxRequests: 1,
			Timeout:     searchBreakerTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= searchBreakerFailures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("Search breaker state changed",
					zap.String("name", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()),
				)
			},
		}),
	}
}

// SearchRecipes 搜索菜谱（ES 优先，失败则降级到 DB）
func (s *SearchService) SearchRecipes(ctx context.Context, viewerID int64, q string, offset, limit int) ([]dto.RecipeInfo, int64, error) {
	q = strings.TrimSpace(q)

	recipes, total, err := s.searchFromES(ctx, q, offset, limit)
	if err != nil {
		logger.Warn("ES search failed, fallback to DB", zap.Error(err))
		recipes, total, err = s.recipes.SearchByName(ctx, q, offset, limit)
		if err != nil {
			return nil, 0, err
		}
	}

	infos, err := s.describe.Describe(ctx, viewerID, recipes)
	if err != nil {
		return nil, 0, err
	}
	return infos, total, nil
}

func (s *SearchService) searchFromES(ctx context.Context, q string, offset, limit int) ([]model.Recipe, int64, error) {
	if s.searcher == nil {
		return nil, 0, errors.New("search index not configured")
	}

	hits, err := s.breaker.Execute(func() (searchHits, error) {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		ids, total, err := s.searcher.Search(ctx, q, offset, limit)
		return searchHits{ids: ids, total: total}, err
	})
	if err != nil {
		return nil, 0, err
	}
	ids, total := hits.ids, hits.total

	recipes, err := s.recipes.GetByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	// 保持相关度顺序，跳过索引中已过期的菜谱
	byID := make(map[int64]*model.Recipe, len(recipes))
	for i := range recipes {
		byID[recipes[i].ID] = &recipes[i]
	}
	ordered := make([]model.Recipe, 0, len(ids))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			ordered = append(ordered, *r)
		}
	}
	return ordered, total, nil
}

// RecipeIndexer 将菜谱变更同步到检索索引（worker 使用）
type RecipeIndexer struct {
	recipes RecipeStore
	index   RecipeIndexWriter
}

func NewRecipeIndexer(recipes RecipeStore, index RecipeIndexWriter) *RecipeIndexer {
	return &RecipeIndexer{recipes: recipes, index: index}
}

// HandleEvent 处理一条菜谱事件
func (x *RecipeIndexer) HandleEvent(ctx context.Context, event *infraKafka.RecipeEvent) error {
	switch event.Type {
	case infraKafka.RecipeCreated, infraKafka.RecipeUpdated:
		recipe, err := x.recipes.GetByID(ctx, event.RecipeID)
		if err != nil {
			// 事件到达前菜谱已被删除
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return x.index.Delete(ctx, event.RecipeID)
			}
			return err
		}
		return x.index.Put(ctx, infraES.NewRecipeDoc(recipe))
	case infraKafka.RecipeDeleted:
		return x.index.Delete(ctx, event.RecipeID)
	default:
		return fmt.Errorf("unknown recipe event type %q", event.Type)
	}
}

// Reindex 全量重建索引
func (x *RecipeIndexer) Reindex(ctx context.Context, batchSize int) (success, failed int, err error) {
	if err := x.index.EnsureIndex(ctx); err != nil {
		return 0, 0, err
	}

	ids, err := x.recipes.ListAllIDs(ctx)
	if err != nil {
		return 0, 0, err
	}

	for start := 0; start < len(ids); start += batchSize {
		end := min(start+batchSize, len(ids))
		recipes, err := x.recipes.GetByIDs(ctx, ids[start:end])
		if err != nil {
			return success, failed, err
		}

		docs := make([]*infraES.RecipeDoc, 0, len(recipes))
		for i := range recipes {
			docs = append(docs, infraES.NewRecipeDoc(&recipes[i]))
		}
		ok, bad, err := x.index.BulkPut(ctx, docs)
		success += ok
		failed += bad
		if err != nil {
			return success, failed, err
		}
	}
	return success, failed, nil
}
