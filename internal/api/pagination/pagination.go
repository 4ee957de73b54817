package pagination

import (
	"net/url"
	"strconv"

	"foodgram-go/internal/api/dto"

	"github.com/gin-gonic/gin"
)

const offsetParam = "offset"

// Paginator limit/offset 分页参数，limit 超出范围时截断到 [Min, Max]
type Paginator struct {
	Param   string
	Default int
	Min     int
	Max     int
}

var (
	Users         = Paginator{Param: "limit", Default: 4, Min: 1, Max: 4}
	Recipes       = Paginator{Param: "limit", Default: 6, Min: 2, Max: 6}
	Subscriptions = Paginator{Param: "limit", Default: 2, Min: 1, Max: 2}
	// SubscriptionRecipes 订阅列表中每位作者展示的菜谱数
	SubscriptionRecipes = Paginator{Param: "recipes_limit", Default: 11, Min: 2, Max: 11}
)

// Limit 缺省或无法解析时取默认值
func (p Paginator) Limit(c *gin.Context) int {
	raw, ok := c.GetQuery(p.Param)
	if !ok {
		return p.Default
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return p.Default
	}
	return max(p.Min, min(n, p.Max))
}

// Parse 返回 limit 与 offset
func (p Paginator) Parse(c *gin.Context) (limit, offset int) {
	limit = p.Limit(c)
	if raw, ok := c.GetQuery(offsetParam); ok {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			offset = n
		}
	}
	return limit, offset
}

// NewPage 组装分页结果，next/previous 为当前请求地址换上新的 limit/offset
func NewPage[T any](c *gin.Context, p Paginator, results []T, count int64, limit, offset int) dto.Page[T] {
	page := dto.Page[T]{Count: count, Results: results}
	if page.Results == nil {
		page.Results = []T{}
	}

	if int64(offset+limit) < count {
		next := pageURL(c, p.Param, limit, offset+limit)
		page.Next = &next
	}
	if offset > 0 {
		prev := pageURL(c, p.Param, limit, max(offset-limit, 0))
		page.Previous = &prev
	}
	return page
}

func pageURL(c *gin.Context, limitParam string, limit, offset int) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	query := c.Request.URL.Query()
	query.Set(limitParam, strconv.Itoa(limit))
	if offset > 0 {
		query.Set(offsetParam, strconv.Itoa(offset))
	} else {
		query.Del(offsetParam)
	}

	u := url.URL{
		Scheme:   scheme,
		Host:     c.Request.Host,
		Path:     c.Request.URL.Path,
		RawQuery: query.Encode(),
	}
	return u.String()
}
