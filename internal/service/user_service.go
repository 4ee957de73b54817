package service

import (
	"context"
	"errors"

	"foodgram-go/internal/api/dto"
	"foodgram-go/internal/media"
	"foodgram-go/internal/model"
	"foodgram-go/pkg/logger"
	"foodgram-go/pkg/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound    = errors.New("用户不存在")
	ErrEmailExists     = errors.New("该邮箱已被注册")
	ErrUsernameExists  = errors.New("用户名已存在")
	ErrWrongPassword   = errors.New("当前密码错误")
	ErrAvatarNotExists = errors.New("未设置头像")
)

const avatarDir = "users/images"

type UserService struct {
	users  UserStore
	subs   RelationStore
	images ImageStore
}

func NewUserService(users UserStore, subs RelationStore, images ImageStore) *UserService {
	return &UserService{users: users, subs: subs, images: images}
}

// Register 用户注册
func (s *UserService) Register(ctx context.Context, req *dto.UserCreateRequest) (*dto.UserCreated, error) {
	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	exists, err = s.users.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUsernameExists
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  hashedPassword,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, s.conflictOnCreate(ctx, req.Email)
		}
		return nil, err
	}

	return &dto.UserCreated{
		Email:     user.Email,
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}, nil
}

// conflictOnCreate 并发注册撞上唯一约束时，判断冲突的是邮箱还是用户名
func (s *UserService) conflictOnCreate(ctx context.Context, email string) error {
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return ErrEmailExists
	}
	return ErrUsernameExists
}

// GetUser 获取用户信息，viewerID 为 0 表示匿名访问
func (s *UserService) GetUser(ctx context.Context, viewerID, id int64) (*dto.UserInfo, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	subscribed := false
	if viewerID != 0 && viewerID != id {
		subscribed, err = s.subs.Exists(ctx, viewerID, id)
		if err != nil {
			return nil, err
		}
	}
	return toUserInfo(user, subscribed), nil
}

// ListUsers 用户列表
func (s *UserService) ListUsers(ctx context.Context, viewerID int64, offset, limit int) ([]dto.UserInfo, int64, error) {
	users, total, err := s.users.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]int64, 0, len(users))
	for i := range users {
		ids = append(ids, users[i].ID)
	}
	subscribed, err := s.subs.BatchExists(ctx, viewerID, ids)
	if err != nil {
		return nil, 0, err
	}

	items := make([]dto.UserInfo, 0, len(users))
	for i := range users {
		items = append(items, *toUserInfo(&users[i], subscribed[users[i].ID]))
	}
	return items, total, nil
}

// SetPassword 修改密码，已签发的令牌不受影响
func (s *UserService) SetPassword(ctx context.Context, userID int64, req *dto.SetPasswordRequest) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if !utils.VerifyPassword(req.CurrentPassword, user.Password) {
		return ErrWrongPassword
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.users.Update(ctx, userID, map[string]interface{}{"password": hashedPassword})
}

// SetAvatar 上传并替换头像
func (s *UserService) SetAvatar(ctx context.Context, userID int64, dataURI string) (*dto.AvatarData, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	img, err := media.DecodeDataURI(dataURI)
	if err != nil {
		return nil, invalid("avatar", err.Error())
	}

	url, err := s.images.Save(ctx, img.ObjectName(avatarDir), img.Data, img.ContentType)
	if err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, userID, map[string]interface{}{"avatar": url}); err != nil {
		return nil, err
	}

	s.removeImage(ctx, user.Avatar)
	return &dto.AvatarData{Avatar: url}, nil
}

// DeleteAvatar 删除头像
func (s *UserService) DeleteAvatar(ctx context.Context, userID int64) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if user.Avatar == nil {
		return ErrAvatarNotExists
	}

	if err := s.users.Update(ctx, userID, map[string]interface{}{"avatar": nil}); err != nil {
		return err
	}
	s.removeImage(ctx, user.Avatar)
	return nil
}

// removeImage 旧图片清理失败只记录日志
func (s *UserService) removeImage(ctx context.Context, url *string) {
	if url == nil || *url == "" {
		return
	}
	if err := s.images.Remove(ctx, *url); err != nil {
		logger.Warn("Remove old avatar failed", zap.String("url", *url), zap.Error(err))
	}
}

func toUserInfo(user *model.User, subscribed bool) *dto.UserInfo {
	return &dto.UserInfo{
		Email:        user.Email,
		ID:           user.ID,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: subscribed,
		Avatar:       user.Avatar,
	}
}
