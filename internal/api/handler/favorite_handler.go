package handler

import (
	"context"
	"net/http"

	"foodgram-go/internal/api/dto"
	"foodgram-go/internal/api/middleware"
	"foodgram-go/internal/api/response"
	"foodgram-go/internal/service"

	"github.com/gin-gonic/gin"
)

const shoppingListFilename = "shopping_cart.txt"

// RecipeMarker 收藏与购物清单
type RecipeMarker interface {
	AddFavorite(ctx context.Context, userID, recipeID int64) (*dto.RecipeShort, error)
	RemoveFavorite(ctx context.Context, userID, recipeID int64) error
	AddToCart(ctx context.Context, userID, recipeID int64) (*dto.RecipeShort, error)
	RemoveFromCart(ctx context.Context, userID, recipeID int64) error
}

// ShoppingLister 汇总购物清单
type ShoppingLister interface {
	ShoppingList(ctx context.Context, userID int64) ([]service.CartItem, error)
}

// FavoriteHandler 收藏、购物清单及其下载
type FavoriteHandler struct {
	marker RecipeMarker
	cart   ShoppingLister
}

func NewFavoriteHandler(marker RecipeMarker, cart ShoppingLister) *FavoriteHandler {
	return &FavoriteHandler{marker: marker, cart: cart}
}

// Favorite 收藏菜谱
// @Summary 收藏菜谱
// @Tags 收藏
// @Produce json
// @Security TokenAuth
// @Param id path int true "菜谱ID"
// @Success 201 {object} dto.RecipeShort "收藏成功"
// @Failure 400 {object} response.ErrorResponse "已收藏"
// @Failure 404 {object} response.ErrorResponse "菜谱不存在"
// @Router /recipes/{id}/favorite/ [post]
func (h *FavoriteHandler) Favorite(c *gin.Context) {
	h.add(c, h.marker.AddFavorite)
}

// Unfavorite 取消收藏
// @Summary 取消收藏
// @Tags 收藏
// @Security TokenAuth
// @Param id path int true "菜谱ID"
// @Success 204 "取消成功"
// @Failure 400 {object} response.ErrorResponse "未收藏"
// @Router /recipes/{id}/favorite/ [delete]
func (h *FavoriteHandler) Unfavorite(c *gin.Context) {
	h.remove(c, h.marker.RemoveFavorite)
}

// AddToCart 加入购物清单
// @Summary 加入购物清单
// @Tags 购物清单
// @Produce json
// @Security TokenAuth
// @Param id path int true "菜谱ID"
// @Success 201 {object} dto.RecipeShort "添加成功"
// @Failure 400 {object} response.ErrorResponse "已在购物清单中"
// @Failure 404 {object} response.ErrorResponse "菜谱不存在"
// @Router /recipes/{id}/shopping_cart/ [post]
func (h *FavoriteHandler) AddToCart(c *gin.Context) {
	h.add(c, h.marker.AddToCart)
}

// RemoveFromCart 移出购物清单
// @Summary 移出购物清单
// @Tags 购物清单
// @Security TokenAuth
// @Param id path int true "菜谱ID"
// @Success 204 "移除成功"
// @Failure 400 {object} response.ErrorResponse "不在购物清单中"
// @Router /recipes/{id}/shopping_cart/ [delete]
func (h *FavoriteHandler) RemoveFromCart(c *gin.Context) {
	h.remove(c, h.marker.RemoveFromCart)
}

// DownloadShoppingCart 下载购物清单
// @Summary 下载购物清单
// @Description 同名同单位的食材合并，每行 "名称 (单位) - 数量"
// @Tags 购物清单
// @Produce plain
// @Security TokenAuth
// @Success 200 {string} string "购物清单文本"
// @Failure 400 {object} response.ErrorResponse "购物清单为空"
// @Router /recipes/download_shopping_cart/ [get]
func (h *FavoriteHandler) DownloadShoppingCart(c *gin.Context) {
	items, err := h.cart.ShoppingList(c.Request.Context(), middleware.ViewerID(c))
	if err != nil {
		handleRecipeError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+shoppingListFilename+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(service.RenderShoppingList(items)))
}

func (h *FavoriteHandler) add(c *gin.Context, add func(ctx context.Context, userID, recipeID int64) (*dto.RecipeShort, error)) {
	recipeID, ok := recipeIDParam(c)
	if !ok {
		return
	}

	short, err := add(c.Request.Context(), middleware.ViewerID(c), recipeID)
	if err != nil {
		handleRecipeError(c, err)
		return
	}

	response.Created(c, short)
}

func (h *FavoriteHandler) remove(c *gin.Context, remove func(ctx context.Context, userID, recipeID int64) error) {
	recipeID, ok := recipeIDParam(c)
	if !ok {
		return
	}

	if err := remove(c.Request.Context(), middleware.ViewerID(c), recipeID); err != nil {
		handleRecipeError(c, err)
		return
	}

	response.NoContent(c)
}
