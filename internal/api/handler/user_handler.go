package handler

import (
	"errors"
	"strconv"

	"foodgram-go/internal/api/dto"
	"foodgram-go/internal/api/middleware"
	"foodgram-go/internal/api/pagination"
	"foodgram-go/internal/api/response"
	"foodgram-go/internal/service"
	"foodgram-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// ListUsers 用户列表
// @Summary 用户列表
// @Tags 用户
// @Produce json
// @Param limit query int false "每页数量" default(4)
// @Param offset query int false "偏移量" default(0)
// @Success 200 {object} dto.Page[dto.UserInfo] "获取成功"
// @Router /users/ [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	limit, offset := pagination.Users.Parse(c)

	items, total, err := h.userService.ListUsers(c.Request.Context(), middleware.ViewerID(c), offset, limit)
	if err != nil {
		logger.Error("List users failed", zap.Error(err))
		response.InternalError(c, "获取用户列表失败")
		return
	}

	response.OK(c, pagination.NewPage(c, pagination.Users, items, total, limit, offset))
}

// Register 用户注册
// @Summary 用户注册
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body dto.UserCreateRequest true "注册信息"
// @Success 201 {object} dto.UserCreated "注册成功"
// @Failure 400 {object} response.ErrorResponse "请求参数无效/邮箱或用户名已存在"
// @Router /users/ [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.UserCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	created, err := h.userService.Register(c.Request.Context(), &req)
	if err != nil {
		handleUserError(c, err)
		return
	}

	response.Created(c, created)
}

// GetUser 用户信息
// @Summary 获取指定用户信息
// @Tags 用户
// @Produce json
// @Param id path int true "用户ID"
// @Success 200 {object} dto.UserInfo "获取成功"
// @Failure 404 {object} response.ErrorResponse "用户不存在"
// @Router /users/{id}/ [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	targetID, err := parseIDParam(c)
	if err != nil {
		response.NotFound(c, "用户不存在")
		return
	}

	info, err := h.userService.GetUser(c.Request.Context(), middleware.ViewerID(c), targetID)
	if err != nil {
		handleUserError(c, err)
		return
	}

	response.OK(c, info)
}

// GetMe 获取当前用户信息
// @Summary 获取当前用户信息
// @Tags 用户
// @Produce json
// @Security TokenAuth
// @Success 200 {object} dto.UserInfo "获取成功"
// @Failure 401 {object} response.ErrorResponse "未授权"
// @Router /users/me/ [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	userID := middleware.ViewerID(c)

	info, err := h.userService.GetUser(c.Request.Context(), userID, userID)
	if err != nil {
		handleUserError(c, err)
		return
	}

	response.OK(c, info)
}

// SetAvatar 上传头像
// @Summary 上传头像
// @Description 头像为 base64 编码的 data URI
// @Tags 用户
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param request body dto.AvatarRequest true "头像"
// @Success 200 {object} dto.AvatarData "上传成功"
// @Failure 400 {object} response.ErrorResponse "图片无效"
// @Router /users/me/avatar/ [put]
func (h *UserHandler) SetAvatar(c *gin.Context) {
	var req dto.AvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, "avatar", "该字段是必填项")
		return
	}

	data, err := h.userService.SetAvatar(c.Request.Context(), middleware.ViewerID(c), req.Avatar)
	if err != nil {
		handleUserError(c, err)
		return
	}

	response.OK(c, data)
}

// DeleteAvatar 删除头像
// @Summary 删除头像
// @Tags 用户
// @Security TokenAuth
// @Success 204 "删除成功"
// @Failure 400 {object} response.ErrorResponse "未设置头像"
// @Router /users/me/avatar/ [delete]
func (h *UserHandler) DeleteAvatar(c *gin.Context) {
	if err := h.userService.DeleteAvatar(c.Request.Context(), middleware.ViewerID(c)); err != nil {
		handleUserError(c, err)
		return
	}

	response.NoContent(c)
}

// SetPassword 修改密码
// @Summary 修改密码
// @Tags 用户
// @Accept json
// @Security TokenAuth
// @Param request body dto.SetPasswordRequest true "新旧密码"
// @Success 204 "修改成功"
// @Failure 400 {object} response.ErrorResponse "当前密码错误"
// @Router /users/set_password/ [post]
func (h *UserHandler) SetPassword(c *gin.Context) {
	var req dto.SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	if err := h.userService.SetPassword(c.Request.Context(), middleware.ViewerID(c), &req); err != nil {
		handleUserError(c, err)
		return
	}

	response.NoContent(c)
}

// parseIDParam 从 URL 路径参数中解析 int64 ID
func parseIDParam(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

// writeValidationError 字段校验错误统一为 400
func writeValidationError(c *gin.Context, err error) bool {
	var verr *service.ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	response.Invalid(c, verr.Field, verr.Message)
	return true
}

func handleUserError(c *gin.Context, err error) {
	if writeValidationError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrEmailExists),
		errors.Is(err, service.ErrUsernameExists),
		errors.Is(err, service.ErrWrongPassword),
		errors.Is(err, service.ErrAvatarNotExists):
		response.BadRequest(c, err.Error())
	default:
		logger.Error("User operation failed", zap.Error(err))
		response.InternalError(c, "操作失败，请稍后重试")
	}
}
