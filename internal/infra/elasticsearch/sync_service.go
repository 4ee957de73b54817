package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"foodgram-go/internal/model"
	"foodgram-go/pkg/logger"

	"github.com/elastic/go-elasticsearch/v8"
	"go.uber.org/zap"
)

// RecipeDoc ES 菜谱文档结构
type RecipeDoc struct {
	ID             int64    `json:"id"`
	AuthorID       int64    `json:"author_id"`
	AuthorUsername string   `json:"author_username"`
	Name           string   `json:"name"`
	Text           string   `json:"text"`
	Ingredients    []string `json:"ingredients"`
	Tags           []string `json:"tags"`
	CookingTime    int      `json:"cooking_time"`
	CreatedAt      string   `json:"created_at"`
}

// NewRecipeDoc 由预加载了作者、食材与标签的菜谱构造文档
func NewRecipeDoc(r *model.Recipe) *RecipeDoc {
	doc := &RecipeDoc{
		ID:             r.ID,
		AuthorID:       r.AuthorID,
		AuthorUsername: r.Author.Username,
		Name:           r.Name,
		Text:           r.Text,
		Ingredients:    make([]string, 0, len(r.Ingredients)),
		Tags:           make([]string, 0, len(r.Tags)),
		CookingTime:    r.CookingTime,
		CreatedAt:      r.CreatedAt.Format(time.RFC3339),
	}
	for _, ri := range r.Ingredients {
		doc.Ingredients = append(doc.Ingredients, ri.Ingredient.Name)
	}
	for _, t := range r.Tags {
		doc.Tags = append(doc.Tags, t.Slug)
	}
	return doc
}

// RecipeIndex 菜谱索引的读写
type RecipeIndex struct {
	es    *elasticsearch.Client
	index string
}

// NewRecipeIndex 创建 RecipeIndex
func NewRecipeIndex(es *elasticsearch.Client, index string) *RecipeIndex {
	return &RecipeIndex{es: es, index: index}
}

// Put 写入或覆盖菜谱文档
func (r *RecipeIndex) Put(ctx context.Context, doc *RecipeDoc) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	resp, err := r.es.Index(
		r.index,
		bytes.NewReader(body),
		r.es.Index.WithContext(ctx),
		r.es.Index.WithDocumentID(strconv.FormatInt(doc.ID, 10)),
	)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return fmt.Errorf("index document failed: %s", resp.String())
	}

	logger.Debug("Recipe synced to ES", zap.Int64("recipe_id", doc.ID))
	return nil
}

// Delete 从 ES 删除菜谱，文档不存在视为成功
func (r *RecipeIndex) Delete(ctx context.Context, recipeID int64) error {
	resp, err := r.es.Delete(r.index, strconv.FormatInt(recipeID, 10), r.es.Delete.WithContext(ctx))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.IsError() && resp.StatusCode != 404 {
		return fmt.Errorf("delete document failed: %s", resp.String())
	}
	return nil
}

// BulkPut 批量写入
func (r *RecipeIndex) BulkPut(ctx context.Context, docs []*RecipeDoc) (success, failed int, err error) {
	var buf strings.Builder
	for _, doc := range docs {
		docBody, err := json.Marshal(doc)
		if err != nil {
			failed++
			continue
		}
		fmt.Fprintf(&buf, `{"index":{"_index":%q,"_id":"%d"}}`+"\n", r.index, doc.ID)
		buf.Write(docBody)
		buf.WriteString("\n")
	}

	if buf.Len() == 0 {
		return 0, failed, nil
	}

	resp, err := r.es.Bulk(strings.NewReader(buf.String()), r.es.Bulk.WithContext(ctx))
	if err != nil {
		return 0, len(docs), err
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return 0, len(docs), fmt.Errorf("bulk failed: %s", resp.String())
	}

	var bulkResp struct {
		Items []struct {
			Index struct {
				Status int `json:"status"`
			} `json:"index"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&bulkResp); err != nil {
		return 0, len(docs), fmt.Errorf("decode bulk response: %w", err)
	}

	for _, item := range bulkResp.Items {
		if item.Index.Status >= 200 && item.Index.Status < 300 {
			success++
		} else {
			failed++
		}
	}

	logger.Info("Bulk sync to ES completed", zap.Int("success", success), zap.Int("failed", failed))
	return success, failed, nil
}

// Search 全文检索，返回按相关度排序的菜谱ID与命中总数
func (r *RecipeIndex) Search(ctx context.Context, q string, from, size int) ([]int64, int64, error) {
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":    q,
				"fields":   []string{"name^3", "ingredients^2", "text"},
				"type":     "best_fields",
				"operator": "or",
			},
		},
		"_source": []string{"id"},
		"from":    from,
		"size":    size,
		"sort": []interface{}{
			map[string]interface{}{"_score": map[string]string{"order": "desc"}},
			map[string]interface{}{"created_at": map[string]string{"order": "desc"}},
		},
	}
	body, err := json.Marshal(query)
	if err != nil {
		return nil, 0, err
	}

	resp, err := r.es.Search(
		r.es.Search.WithContext(ctx),
		r.es.Search.WithIndex(r.index),
		r.es.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return nil, 0, fmt.Errorf("ES search error: %s", resp.String())
	}

	var esResp struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source struct {
					ID int64 `json:"id"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&esResp); err != nil {
		return nil, 0, err
	}

	ids := make([]int64, 0, len(esResp.Hits.Hits))
	for _, h := range esResp.Hits.Hits {
		ids = append(ids, h.Source.ID)
	}
	return ids, esResp.Hits.Total.Value, nil
}
