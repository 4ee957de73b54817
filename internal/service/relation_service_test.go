package service

import (
	"context"
	"errors"
	"testing"

	"foodgram-go/internal/model"
)

func TestToggleAddRemove(t *testing.T) {
	ctx := context.Background()
	store := &fakeRelations{}
	toggle := NewToggle(FavoriteRelation, store)

	if err := toggle.Add(ctx, 1, 10); err != nil {
		t.Fatalf("first Add: %v", err)
	}
	if err := toggle.Add(ctx, 1, 10); !errors.Is(err, ErrAlreadyFavorited) {
		t.Errorf("second Add err = %v, want ErrAlreadyFavorited", err)
	}
	if store.count() != 1 {
		t.Errorf("rows = %d, want 1", store.count())
	}

	if err := toggle.Remove(ctx, 1, 10); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := toggle.Remove(ctx, 1, 10); !errors.Is(err, ErrNotFavorited) {
		t.Errorf("second Remove err = %v, want ErrNotFavorited", err)
	}
}

func TestToggleWriteTimeDuplicate(t *testing.T) {
	store := &fakeRelations{raceOnCreate: true}
	err := NewToggle(ShoppingCartRelation, store).Add(context.Background(), 1, 10)
	if !errors.Is(err, ErrAlreadyInCart) {
		t.Fatalf("err = %v, want ErrAlreadyInCart", err)
	}
	if store.count() != 1 {
		t.Errorf("rows = %d, want 1", store.count())
	}
}

func TestToggleForbidsSelfSubscription(t *testing.T) {
	store := &fakeRelations{}
	err := NewToggle(SubscriptionRelation, store).Add(context.Background(), 3, 3)
	if !errors.Is(err, ErrCannotFollowSelf) {
		t.Fatalf("err = %v, want ErrCannotFollowSelf", err)
	}
	if store.creates != 0 {
		t.Error("self subscription must not reach the store")
	}
}

func TestSubscribeReturnsLimitedRecipes(t *testing.T) {
	ctx := context.Background()
	users := newFakeUsers(
		&model.User{ID: 1, Email: "reader@foodgram.test", Username: "reader"},
		&model.User{ID: 2, Email: "chef@foodgram.test", Username: "chef"},
	)
	recipes := newFakeRecipes()
	for i := 0; i < 3; i++ {
		recipes.add(&model.Recipe{AuthorID: 2, Name: "dish"})
	}
	subs := &fakeRelations{}
	svc := NewSubscriptionService(subs, users, recipes)

	info, err := svc.Subscribe(ctx, 1, 2, 2)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if !info.IsSubscribed || info.Username != "chef" {
		t.Errorf("info = %+v", info.UserInfo)
	}
	if len(info.Recipes) != 2 || info.RecipesCount != 3 {
		t.Errorf("recipes = %d, count = %d; want 2, 3", len(info.Recipes), info.RecipesCount)
	}

	if _, err := svc.Subscribe(ctx, 1, 2, 2); !errors.Is(err, ErrAlreadySubscribed) {
		t.Errorf("duplicate subscribe err = %v", err)
	}
	if _, err := svc.Subscribe(ctx, 1, 99, 2); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("unknown author err = %v", err)
	}

	list, total, err := svc.ListSubscriptions(ctx, 1, 0, 10, 11)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || len(list) != 1 || list[0].ID != 2 {
		t.Errorf("subscriptions = %+v (total %d)", list, total)
	}

	if err := svc.Unsubscribe(ctx, 1, 2); err != nil {
		t.Fatal(err)
	}
	if err := svc.Unsubscribe(ctx, 1, 2); !errors.Is(err, ErrNotSubscribed) {
		t.Errorf("second unsubscribe err = %v", err)
	}
}
