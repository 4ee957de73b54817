package handler

import (
	"errors"

	"foodgram-go/internal/api/middleware"
	"foodgram-go/internal/api/pagination"
	"foodgram-go/internal/api/response"
	"foodgram-go/internal/service"
	"foodgram-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RelationHandler struct {
	subscriptionService *service.SubscriptionService
}

func NewRelationHandler(subscriptionService *service.SubscriptionService) *RelationHandler {
	return &RelationHandler{subscriptionService: subscriptionService}
}

// Subscribe 订阅作者
// @Summary 订阅作者
// @Tags 订阅
// @Produce json
// @Security TokenAuth
// @Param id path int true "作者ID"
// @Param recipes_limit query int false "返回的菜谱数量" default(11)
// @Success 201 {object} dto.SubscriptionInfo "订阅成功"
// @Failure 400 {object} response.ErrorResponse "不能订阅自己/已订阅"
// @Failure 404 {object} response.ErrorResponse "用户不存在"
// @Router /users/{id}/subscribe/ [post]
func (h *RelationHandler) Subscribe(c *gin.Context) {
	authorID, err := parseIDParam(c)
	if err != nil {
		response.NotFound(c, "用户不存在")
		return
	}

	info, err := h.subscriptionService.Subscribe(
		c.Request.Context(),
		middleware.ViewerID(c),
		authorID,
		pagination.SubscriptionRecipes.Limit(c),
	)
	if err != nil {
		handleRelationError(c, err)
		return
	}

	response.Created(c, info)
}

// Unsubscribe 取消订阅
// @Summary 取消订阅
// @Tags 订阅
// @Security TokenAuth
// @Param id path int true "作者ID"
// @Success 204 "取消成功"
// @Failure 400 {object} response.ErrorResponse "未订阅该作者"
// @Failure 404 {object} response.ErrorResponse "用户不存在"
// @Router /users/{id}/subscribe/ [delete]
func (h *RelationHandler) Unsubscribe(c *gin.Context) {
	authorID, err := parseIDParam(c)
	if err != nil {
		response.NotFound(c, "用户不存在")
		return
	}

	if err := h.subscriptionService.Unsubscribe(c.Request.Context(), middleware.ViewerID(c), authorID); err != nil {
		handleRelationError(c, err)
		return
	}

	response.NoContent(c)
}

// ListSubscriptions 我的订阅
// @Summary 当前用户订阅的作者
// @Tags 订阅
// @Produce json
// @Security TokenAuth
// @Param limit query int false "每页数量" default(2)
// @Param offset query int false "偏移量" default(0)
// @Param recipes_limit query int false "每位作者返回的菜谱数量" default(11)
// @Success 200 {object} dto.Page[dto.SubscriptionInfo] "获取成功"
// @Router /users/subscriptions/ [get]
func (h *RelationHandler) ListSubscriptions(c *gin.Context) {
	limit, offset := pagination.Subscriptions.Parse(c)

	items, total, err := h.subscriptionService.ListSubscriptions(
		c.Request.Context(),
		middleware.ViewerID(c),
		offset,
		limit,
		pagination.SubscriptionRecipes.Limit(c),
	)
	if err != nil {
		logger.Error("List subscriptions failed", zap.Error(err))
		response.InternalError(c, "获取订阅列表失败")
		return
	}

	response.OK(c, pagination.NewPage(c, pagination.Subscriptions, items, total, limit, offset))
}

func handleRelationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrCannotFollowSelf),
		errors.Is(err, service.ErrAlreadySubscribed),
		errors.Is(err, service.ErrNotSubscribed):
		response.BadRequest(c, err.Error())
	default:
		logger.Error("Subscription operation failed", zap.Error(err))
		response.InternalError(c, "操作失败，请稍后重试")
	}
}
