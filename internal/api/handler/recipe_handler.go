package handler

import (
	"context"
	"errors"
	"net/http"

	"foodgram-go/internal/api/dto"
	"foodgram-go/internal/api/middleware"
	"foodgram-go/internal/api/pagination"
	"foodgram-go/internal/api/response"
	"foodgram-go/internal/service"
	"foodgram-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecipeManager 菜谱的增删改查
type RecipeManager interface {
	Create(ctx context.Context, authorID int64, req *dto.RecipeWriteRequest) (*dto.RecipeInfo, error)
	Update(ctx context.Context, userID, recipeID int64, req *dto.RecipeWriteRequest, partial bool) (*dto.RecipeInfo, error)
	Delete(ctx context.Context, userID, recipeID int64) error
	Get(ctx context.Context, viewerID, recipeID int64) (*dto.RecipeInfo, error)
	List(ctx context.Context, viewerID int64, q *dto.RecipeListQuery, offset, limit int) ([]dto.RecipeInfo, int64, error)
}

// ShortLinker 菜谱短链
type ShortLinker interface {
	GetOrCreate(ctx context.Context, host string, recipeID int64) (string, error)
	Resolve(ctx context.Context, token string) (string, error)
}

type RecipeHandler struct {
	recipes RecipeManager
	links   ShortLinker
}

func NewRecipeHandler(recipes RecipeManager, links ShortLinker) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, links: links}
}

// ListRecipes 菜谱列表
// @Summary 菜谱列表
// @Description 按发布时间倒序；tags 可重复，匹配任一标签
// @Tags 菜谱
// @Produce json
// @Param limit query int false "每页数量" default(6)
// @Param offset query int false "偏移量" default(0)
// @Param tags query []string false "标签 slug" collectionFormat(multi)
// @Param author query int false "作者ID"
// @Param is_favorited query int false "仅收藏 (1)"
// @Param is_in_shopping_cart query int false "仅购物清单 (1)"
// @Success 200 {object} dto.Page[dto.RecipeInfo] "获取成功"
// @Router /recipes/ [get]
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	var q dto.RecipeListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}
	limit, offset := pagination.Recipes.Parse(c)

	items, total, err := h.recipes.List(c.Request.Context(), middleware.ViewerID(c), &q, offset, limit)
	if err != nil {
		handleRecipeError(c, err)
		return
	}

	response.OK(c, pagination.NewPage(c, pagination.Recipes, items, total, limit, offset))
}

// CreateRecipe 创建菜谱
// @Summary 创建菜谱
// @Tags 菜谱
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param request body dto.RecipeWriteRequest true "菜谱内容"
// @Success 201 {object} dto.RecipeInfo "创建成功"
// @Failure 400 {object} response.ErrorResponse "请求参数无效"
// @Router /recipes/ [post]
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req dto.RecipeWriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	info, err := h.recipes.Create(c.Request.Context(), middleware.ViewerID(c), &req)
	if err != nil {
		handleRecipeError(c, err)
		return
	}

	response.Created(c, info)
}

// GetRecipe 菜谱详情
// @Summary 菜谱详情
// @Tags 菜谱
// @Produce json
// @Param id path int true "菜谱ID"
// @Success 200 {object} dto.RecipeInfo "获取成功"
// @Failure 404 {object} response.ErrorResponse "菜谱不存在"
// @Router /recipes/{id}/ [get]
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	recipeID, ok := recipeIDParam(c)
	if !ok {
		return
	}

	info, err := h.recipes.Get(c.Request.Context(), middleware.ViewerID(c), recipeID)
	if err != nil {
		handleRecipeError(c, err)
		return
	}

	response.OK(c, info)
}

// UpdateRecipe 更新菜谱
// @Summary 更新菜谱（仅作者）
// @Description PUT 需提供除图片外的全部字段；PATCH 只更新给出的字段。给出的标签/食材列表整体替换原有内容
// @Tags 菜谱
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param id path int true "菜谱ID"
// @Param request body dto.RecipeWriteRequest true "菜谱内容"
// @Success 200 {object} dto.RecipeInfo "更新成功"
// @Failure 400 {object} response.ErrorResponse "请求参数无效"
// @Failure 403 {object} response.ErrorResponse "不是作者"
// @Failure 404 {object} response.ErrorResponse "菜谱不存在"
// @Router /recipes/{id}/ [put]
// @Router /recipes/{id}/ [patch]
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	recipeID, ok := recipeIDParam(c)
	if !ok {
		return
	}

	var req dto.RecipeWriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	partial := c.Request.Method == http.MethodPatch
	info, err := h.recipes.Update(c.Request.Context(), middleware.ViewerID(c), recipeID, &req, partial)
	if err != nil {
		handleRecipeError(c, err)
		return
	}

	response.OK(c, info)
}

// DeleteRecipe 删除菜谱
// @Summary 删除菜谱（仅作者）
// @Tags 菜谱
// @Security TokenAuth
// @Param id path int true "菜谱ID"
// @Success 204 "删除成功"
// @Failure 403 {object} response.ErrorResponse "不是作者"
// @Failure 404 {object} response.ErrorResponse "菜谱不存在"
// @Router /recipes/{id}/ [delete]
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	recipeID, ok := recipeIDParam(c)
	if !ok {
		return
	}

	if err := h.recipes.Delete(c.Request.Context(), middleware.ViewerID(c), recipeID); err != nil {
		handleRecipeError(c, err)
		return
	}

	response.NoContent(c)
}

// GetLink 获取菜谱短链
// @Summary 获取菜谱短链
// @Description 首次请求时生成，之后始终返回同一地址
// @Tags 菜谱
// @Produce json
// @Param id path int true "菜谱ID"
// @Success 200 {object} dto.ShortLinkData "获取成功"
// @Failure 404 {object} response.ErrorResponse "菜谱不存在"
// @Router /recipes/{id}/get-link/ [get]
func (h *RecipeHandler) GetLink(c *gin.Context) {
	recipeID, ok := recipeIDParam(c)
	if !ok {
		return
	}

	link, err := h.links.GetOrCreate(c.Request.Context(), c.Request.Host, recipeID)
	if err != nil {
		handleRecipeError(c, err)
		return
	}

	response.OK(c, dto.ShortLinkData{ShortLink: link})
}

// RedirectShortLink 短链跳转到菜谱页面
// @Summary 短链跳转
// @Tags 菜谱
// @Param token path string true "短链标识"
// @Success 302 "跳转"
// @Failure 404 {object} response.ErrorResponse "短链不存在"
// @Router /s/{token}/ [get]
func (h *RecipeHandler) RedirectShortLink(c *gin.Context) {
	fullURL, err := h.links.Resolve(c.Request.Context(), c.Param("token"))
	if err != nil {
		handleRecipeError(c, err)
		return
	}

	c.Redirect(http.StatusFound, fullURL)
}

func recipeIDParam(c *gin.Context) (int64, bool) {
	id, err := parseIDParam(c)
	if err != nil {
		response.NotFound(c, service.ErrRecipeNotFound.Error())
		return 0, false
	}
	return id, true
}

func handleRecipeError(c *gin.Context, err error) {
	if writeValidationError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrRecipeNotFound), errors.Is(err, service.ErrShortLinkNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrNotRecipeAuthor):
		response.Forbidden(c, err.Error())
	case errors.Is(err, service.ErrAlreadyFavorited),
		errors.Is(err, service.ErrNotFavorited),
		errors.Is(err, service.ErrAlreadyInCart),
		errors.Is(err, service.ErrNotInCart),
		errors.Is(err, service.ErrEmptyCart):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrShortLinkExhausted):
		response.Fail(c, http.StatusServiceUnavailable, "ServiceUnavailable", err.Error())
	default:
		logger.Error("Recipe operation failed", zap.Error(err), zap.String("path", c.Request.URL.Path))
		response.InternalError(c, "操作失败，请稍后重试")
	}
}
