package elasticsearch

import (
	"context"
	"fmt"
	"strings"

	"foodgram-go/pkg/logger"

	"go.uber.org/zap"
)

const recipesIndexMapping = `{
	"settings": {
		"number_of_shards": 1,
		"number_of_replicas": 0,
		"analysis": {
			"analyzer": {
				"recipe_text": {
					"type": "custom",
					"tokenizer": "standard",
					"filter": ["lowercase", "asciifolding"]
				}
			}
		}
	},
	"mappings": {
		"properties": {
			"id": {"type": "long"},
			"author_id": {"type": "long"},
			"author_username": {"type": "keyword"},
			"name": {
				"type": "text",
				"analyzer": "recipe_text",
				"fields": {"keyword": {"type": "keyword", "ignore_above": 256}}
			},
			"text": {"type": "text", "analyzer": "recipe_text"},
			"ingredients": {"type": "text", "analyzer": "recipe_text"},
			"tags": {"type": "keyword"},
			"cooking_time": {"type": "integer"},
			"created_at": {"type": "date", "format": "strict_date_optional_time||epoch_millis"}
		}
	}
}`

// EnsureIndex 确保菜谱索引存在，不存在则创建
func (r *RecipeIndex) EnsureIndex(ctx context.Context) error {
	resp, err := r.es.Indices.Exists([]string{r.index}, r.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index exists: %w", err)
	}
	resp.Body.Close()
	if resp.StatusCode == 200 {
		logger.Info("Elasticsearch recipes index already exists", zap.String("index", r.index))
		return nil
	}

	resp, err = r.es.Indices.Create(
		r.index,
		r.es.Indices.Create.WithContext(ctx),
		r.es.Indices.Create.WithBody(strings.NewReader(recipesIndexMapping)),
	)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return fmt.Errorf("create index failed: %s", resp.String())
	}

	logger.Info("Elasticsearch recipes index created", zap.String("index", r.index))
	return nil
}
