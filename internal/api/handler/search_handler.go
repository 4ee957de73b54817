package handler

import (
	"foodgram-go/internal/api/dto"
	"foodgram-go/internal/api/middleware"
	"foodgram-go/internal/api/pagination"
	"foodgram-go/internal/api/response"
	"foodgram-go/internal/service"
	"foodgram-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SearchHandler struct {
	searchService *service.SearchService
}

func NewSearchHandler(searchService *service.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// SearchRecipes 搜索菜谱
// @Summary 搜索菜谱
// @Description 按名称、食材、描述全文检索，检索服务不可用时退化为名称匹配
// @Tags 搜索
// @Produce json
// @Param q query string true "搜索关键词"
// @Param limit query int false "每页数量" default(6)
// @Param offset query int false "偏移量" default(0)
// @Success 200 {object} dto.Page[dto.RecipeInfo] "搜索成功"
// @Failure 400 {object} response.ErrorResponse "请求参数无效"
// @Router /search/recipes/ [get]
func (h *SearchHandler) SearchRecipes(c *gin.Context) {
	var req dto.SearchRecipeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}
	limit, offset := pagination.Recipes.Parse(c)

	items, total, err := h.searchService.SearchRecipes(c.Request.Context(), middleware.ViewerID(c), req.Q, offset, limit)
	if err != nil {
		logger.Error("Search recipes failed", zap.Error(err), zap.String("q", req.Q))
		response.InternalError(c, "搜索失败")
		return
	}

	response.OK(c, pagination.NewPage(c, pagination.Recipes, items, total, limit, offset))
}
