package service

import (
	"context"
	"errors"
	"testing"

	"foodgram-go/internal/api/dto"
	"foodgram-go/internal/model"
)

func newUserFixture() (*UserService, *fakeUsers, *fakeRelations, *fakeImages) {
	users := newFakeUsers()
	subs := &fakeRelations{}
	images := &fakeImages{}
	return NewUserService(users, subs, images), users, subs, images
}

func registerRequest(username, email string) *dto.UserCreateRequest {
	return &dto.UserCreateRequest{
		Email:     email,
		Username:  username,
		FirstName: "Ivan",
		LastName:  "Petrov",
		Password:  "long-enough-pass",
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc, users, _, _ := newUserFixture()

	created, err := svc.Register(ctx, registerRequest("ivan", "ivan@foodgram.test"))
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	stored, _ := users.GetByID(ctx, created.ID)
	if stored.Password == "long-enough-pass" {
		t.Error("password stored in plain text")
	}

	if _, err := svc.Register(ctx, registerRequest("other", "ivan@foodgram.test")); !errors.Is(err, ErrEmailExists) {
		t.Errorf("duplicate email err = %v", err)
	}
	if _, err := svc.Register(ctx, registerRequest("ivan", "other@foodgram.test")); !errors.Is(err, ErrUsernameExists) {
		t.Errorf("duplicate username err = %v", err)
	}
}

// racingUsers 在 Create 前插入一个并发注册的用户
type racingUsers struct {
	*fakeUsers
	rival *model.User
}

func (r *racingUsers) Create(ctx context.Context, user *model.User) error {
	if r.rival != nil {
		_ = r.fakeUsers.Create(ctx, r.rival)
		r.rival = nil
	}
	return r.fakeUsers.Create(ctx, user)
}

func TestRegisterConcurrentConflict(t *testing.T) {
	tests := []struct {
		name  string
		rival *model.User
		want  error
	}{
		{"email taken meanwhile", &model.User{Email: "ivan@foodgram.test", Username: "someone"}, ErrEmailExists},
		{"username taken meanwhile", &model.User{Email: "someone@foodgram.test", Username: "ivan"}, ErrUsernameExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &racingUsers{fakeUsers: newFakeUsers(), rival: tt.rival}
			svc := NewUserService(users, &fakeRelations{}, &fakeImages{})

			_, err := svc.Register(context.Background(), registerRequest("ivan", "ivan@foodgram.test"))
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestGetUserSubscriptionFlag(t *testing.T) {
	ctx := context.Background()
	svc, _, subs, _ := newUserFixture()
	a, _ := svc.Register(ctx, registerRequest("alice", "alice@foodgram.test"))
	b, _ := svc.Register(ctx, registerRequest("bob", "bob@foodgram.test"))
	_ = subs.Create(ctx, a.ID, b.ID)

	info, err := svc.GetUser(ctx, a.ID, b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !info.IsSubscribed {
		t.Error("alice follows bob")
	}
	if info, _ := svc.GetUser(ctx, 0, b.ID); info.IsSubscribed {
		t.Error("anonymous viewer must see is_subscribed=false")
	}
	if info, _ := svc.GetUser(ctx, a.ID, a.ID); info.IsSubscribed {
		t.Error("own profile must see is_subscribed=false")
	}
	if _, err := svc.GetUser(ctx, a.ID, 999); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("unknown user err = %v", err)
	}
}

func TestSetPassword(t *testing.T) {
	ctx := context.Background()
	svc, users, _, _ := newUserFixture()
	u, _ := svc.Register(ctx, registerRequest("ivan", "ivan@foodgram.test"))

	err := svc.SetPassword(ctx, u.ID, &dto.SetPasswordRequest{CurrentPassword: "wrong", NewPassword: "brand-new-pass"})
	if !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("err = %v, want ErrWrongPassword", err)
	}
	if err := svc.SetPassword(ctx, u.ID, &dto.SetPasswordRequest{CurrentPassword: "long-enough-pass", NewPassword: "brand-new-pass"}); err != nil {
		t.Fatal(err)
	}
	stored, _ := users.GetByID(ctx, u.ID)
	if stored.Password == "" || stored.Password == "brand-new-pass" {
		t.Errorf("password not rehashed: %q", stored.Password)
	}
}

func TestAvatarLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _, _, images := newUserFixture()
	u, _ := svc.Register(ctx, registerRequest("ivan", "ivan@foodgram.test"))

	if err := svc.DeleteAvatar(ctx, u.ID); !errors.Is(err, ErrAvatarNotExists) {
		t.Errorf("delete missing avatar err = %v", err)
	}

	var verr *ValidationError
	if _, err := svc.SetAvatar(ctx, u.ID, "plain text"); !errors.As(err, &verr) || verr.Field != "avatar" {
		t.Errorf("bad avatar err = %v", err)
	}

	first, err := svc.SetAvatar(ctx, u.ID, testImage)
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.SetAvatar(ctx, u.ID, testImage)
	if err != nil {
		t.Fatal(err)
	}
	if len(images.removed) != 1 || images.removed[0] != first.Avatar {
		t.Errorf("replacing avatar should remove the old one, removed = %v", images.removed)
	}

	if err := svc.DeleteAvatar(ctx, u.ID); err != nil {
		t.Fatal(err)
	}
	if images.removed[len(images.removed)-1] != second.Avatar {
		t.Errorf("removed = %v", images.removed)
	}
	info, _ := svc.GetUser(ctx, 0, u.ID)
	if info.Avatar != nil {
		t.Errorf("avatar = %v, want nil", *info.Avatar)
	}
}
