package service

import (
	"context"
	"errors"
	"testing"

	"foodgram-go/internal/api/dto"
	infraKafka "foodgram-go/internal/infra/kafka"
	"foodgram-go/internal/model"
)

const testImage = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

type recipeFixture struct {
	svc       *RecipeService
	recipes   *fakeRecipes
	favorites *fakeRelations
	cart      *fakeRelations
	images    *fakeImages
	events    *fakeEvents
}

func newRecipeFixture() *recipeFixture {
	f := &recipeFixture{
		recipes:   newFakeRecipes(),
		favorites: &fakeRelations{},
		cart:      &fakeRelations{},
		images:    &fakeImages{},
		events:    &fakeEvents{},
	}
	f.svc = NewRecipeService(f.recipes, newFakeCatalog(), f.favorites, f.cart, &fakeRelations{}, f.images, f.events)
	return f
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func validRecipeRequest() *dto.RecipeWriteRequest {
	return &dto.RecipeWriteRequest{
		Ingredients: []dto.IngredientAmount{{ID: 10, Amount: 200}, {ID: 11, Amount: 50}},
		Tags:        []int64{1},
		Image:       strPtr(testImage),
		Name:        strPtr("  Pancakes  "),
		Text:        strPtr("Mix and fry."),
		CookingTime: intPtr(15),
	}
}

func TestCreateRecipe(t *testing.T) {
	f := newRecipeFixture()
	info, err := f.svc.Create(context.Background(), 1, validRecipeRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if info.Name != "Pancakes" {
		t.Errorf("name = %q, want trimmed", info.Name)
	}
	if len(f.images.saved) != 1 || info.Image != f.images.saved[0] {
		t.Errorf("image = %q, saved = %v", info.Image, f.images.saved)
	}
	if got := f.recipes.links[info.ID]; len(got) != 2 {
		t.Errorf("ingredient links = %d, want 2", len(got))
	}
	if len(f.events.events) != 1 || f.events.events[0] != infraKafka.RecipeCreated {
		t.Errorf("events = %v", f.events.events)
	}
}

func TestCreateRecipeRejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*dto.RecipeWriteRequest)
		field  string
	}{
		{"no tags", func(r *dto.RecipeWriteRequest) { r.Tags = []int64{} }, "tags"},
		{"missing tags", func(r *dto.RecipeWriteRequest) { r.Tags = nil }, "tags"},
		{"duplicate tags", func(r *dto.RecipeWriteRequest) { r.Tags = []int64{1, 1} }, "tags"},
		{"unknown tag", func(r *dto.RecipeWriteRequest) { r.Tags = []int64{1, 42} }, "tags"},
		{"no ingredients", func(r *dto.RecipeWriteRequest) { r.Ingredients = []dto.IngredientAmount{} }, "ingredients"},
		{"duplicate ingredients", func(r *dto.RecipeWriteRequest) {
			r.Ingredients = []dto.IngredientAmount{{ID: 10, Amount: 1}, {ID: 10, Amount: 2}}
		}, "ingredients"},
		{"zero amount", func(r *dto.RecipeWriteRequest) { r.Ingredients[0].Amount = 0 }, "ingredients"},
		{"unknown ingredient", func(r *dto.RecipeWriteRequest) { r.Ingredients[0].ID = 999 }, "ingredients"},
		{"zero ingredient id", func(r *dto.RecipeWriteRequest) {
			r.Ingredients = []dto.IngredientAmount{{ID: 0, Amount: 5}}
		}, "ingredients"},
		{"negative ingredient id", func(r *dto.RecipeWriteRequest) { r.Ingredients[1].ID = -3 }, "ingredients"},
		{"zero tag id", func(r *dto.RecipeWriteRequest) { r.Tags = []int64{0} }, "tags"},
		{"blank name", func(r *dto.RecipeWriteRequest) { r.Name = strPtr("   ") }, "name"},
		{"zero cooking time", func(r *dto.RecipeWriteRequest) { r.CookingTime = intPtr(0) }, "cooking_time"},
		{"missing image", func(r *dto.RecipeWriteRequest) { r.Image = nil }, "image"},
		{"bad image", func(r *dto.RecipeWriteRequest) { r.Image = strPtr("not-a-data-uri") }, "image"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newRecipeFixture()
			req := validRecipeRequest()
			tc.mutate(req)

			_, err := f.svc.Create(context.Background(), 1, req)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if verr.Field != tc.field {
				t.Errorf("field = %q, want %q", verr.Field, tc.field)
			}
			if f.recipes.writes != 0 || len(f.images.saved) != 0 {
				t.Errorf("nothing should be persisted: writes=%d images=%d", f.recipes.writes, len(f.images.saved))
			}
		})
	}
}

func TestFirstMissing(t *testing.T) {
	tests := []struct {
		want, found []int64
		missing     int64
		ok          bool
	}{
		{[]int64{1, 2}, []int64{2, 1}, 0, false},
		{[]int64{1, 0}, []int64{1}, 0, true},
		{[]int64{3, 4}, []int64{3}, 4, true},
	}
	for _, tt := range tests {
		missing, ok := firstMissing(tt.want, tt.found)
		if missing != tt.missing || ok != tt.ok {
			t.Errorf("firstMissing(%v, %v) = %d, %v; want %d, %v", tt.want, tt.found, missing, ok, tt.missing, tt.ok)
		}
	}
}

func TestUpdateRecipe(t *testing.T) {
	ctx := context.Background()
	f := newRecipeFixture()
	created, err := f.svc.Create(ctx, 1, validRecipeRequest())
	if err != nil {
		t.Fatal(err)
	}
	f.recipes.writes = 0

	t.Run("non author", func(t *testing.T) {
		_, err := f.svc.Update(ctx, 2, created.ID, &dto.RecipeWriteRequest{Name: strPtr("Mine")}, true)
		if !errors.Is(err, ErrNotRecipeAuthor) {
			t.Errorf("err = %v, want ErrNotRecipeAuthor", err)
		}
		if err := f.svc.Delete(ctx, 2, created.ID); !errors.Is(err, ErrNotRecipeAuthor) {
			t.Errorf("delete err = %v, want ErrNotRecipeAuthor", err)
		}
	})

	t.Run("patch with empty tags", func(t *testing.T) {
		_, err := f.svc.Update(ctx, 1, created.ID, &dto.RecipeWriteRequest{Tags: []int64{}}, true)
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Field != "tags" {
			t.Errorf("err = %v, want tags ValidationError", err)
		}
	})

	t.Run("put without ingredients", func(t *testing.T) {
		req := validRecipeRequest()
		req.Ingredients = nil
		req.Image = nil
		_, err := f.svc.Update(ctx, 1, created.ID, req, false)
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Field != "ingredients" {
			t.Errorf("err = %v, want ingredients ValidationError", err)
		}
	})

	if f.recipes.writes != 0 {
		t.Fatalf("rejected updates wrote %d times", f.recipes.writes)
	}

	t.Run("patch name keeps links", func(t *testing.T) {
		info, err := f.svc.Update(ctx, 1, created.ID, &dto.RecipeWriteRequest{Name: strPtr("Crepes")}, true)
		if err != nil {
			t.Fatal(err)
		}
		if info.Name != "Crepes" {
			t.Errorf("name = %q", info.Name)
		}
		if len(f.recipes.links[created.ID]) != 2 || len(f.recipes.tags[created.ID]) != 1 {
			t.Error("patch without lists must keep existing links")
		}
	})

	t.Run("put replaces tags", func(t *testing.T) {
		req := validRecipeRequest()
		req.Image = nil
		req.Tags = []int64{2}
		if _, err := f.svc.Update(ctx, 1, created.ID, req, false); err != nil {
			t.Fatal(err)
		}
		if got := f.recipes.tags[created.ID]; len(got) != 1 || got[0] != 2 {
			t.Errorf("tags = %v, want [2]", got)
		}
	})
}

func TestDeleteRecipe(t *testing.T) {
	ctx := context.Background()
	f := newRecipeFixture()
	created, err := f.svc.Create(ctx, 1, validRecipeRequest())
	if err != nil {
		t.Fatal(err)
	}

	if err := f.svc.Delete(ctx, 1, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(f.images.removed) != 1 || f.images.removed[0] != created.Image {
		t.Errorf("removed = %v", f.images.removed)
	}
	if _, err := f.svc.Get(ctx, 1, created.ID); !errors.Is(err, ErrRecipeNotFound) {
		t.Errorf("Get after delete err = %v", err)
	}
	if last := f.events.events[len(f.events.events)-1]; last != infraKafka.RecipeDeleted {
		t.Errorf("last event = %q", last)
	}
}

func TestFavoriteAndCartFlags(t *testing.T) {
	ctx := context.Background()
	f := newRecipeFixture()
	f.recipes.add(&model.Recipe{ID: 3, AuthorID: 1, Name: "Soup", CookingTime: 30})

	short, err := f.svc.AddFavorite(ctx, 5, 3)
	if err != nil {
		t.Fatal(err)
	}
	if short.ID != 3 || short.Name != "Soup" || short.CookingTime != 30 {
		t.Errorf("short = %+v", short)
	}
	if _, err := f.svc.AddFavorite(ctx, 5, 3); !errors.Is(err, ErrAlreadyFavorited) {
		t.Errorf("duplicate favorite err = %v", err)
	}
	if _, err := f.svc.AddToCart(ctx, 5, 404); !errors.Is(err, ErrRecipeNotFound) {
		t.Errorf("missing recipe err = %v", err)
	}
	if err := f.svc.RemoveFromCart(ctx, 5, 3); !errors.Is(err, ErrNotInCart) {
		t.Errorf("remove absent err = %v", err)
	}

	info, err := f.svc.Get(ctx, 5, 3)
	if err != nil {
		t.Fatal(err)
	}
	if !info.IsFavorited || info.IsInShoppingCart {
		t.Errorf("flags = favorited %v, in cart %v", info.IsFavorited, info.IsInShoppingCart)
	}

	anon, err := f.svc.Get(ctx, 0, 3)
	if err != nil {
		t.Fatal(err)
	}
	if anon.IsFavorited || anon.IsInShoppingCart || anon.Author.IsSubscribed {
		t.Error("anonymous viewer must see false flags")
	}
}

func TestListAnonymousPersonalFilters(t *testing.T) {
	f := newRecipeFixture()
	f.recipes.add(&model.Recipe{ID: 3, AuthorID: 1, Name: "Soup"})

	items, total, err := f.svc.List(context.Background(), 0, &dto.RecipeListQuery{IsFavorited: 1}, 0, 6)
	if err != nil {
		t.Fatal(err)
	}
	if total != 0 || len(items) != 0 {
		t.Errorf("anonymous favorites filter returned %d items", len(items))
	}
}
