package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"foodgram-go/internal/model"
	"foodgram-go/internal/repository"

	"gorm.io/gorm"
)

type pair struct{ user, target int64 }

// fakeRelations 内存版 RelationStore，保持插入顺序
type fakeRelations struct {
	mu      sync.Mutex
	rows    []pair
	creates int

	// raceOnCreate 模拟预检查之后被并发请求抢先插入
	raceOnCreate bool
}

func (f *fakeRelations) index(userID, targetID int64) int {
	for i, p := range f.rows {
		if p.user == userID && p.target == targetID {
			return i
		}
	}
	return -1
}

func (f *fakeRelations) Create(_ context.Context, userID, targetID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if f.raceOnCreate {
		f.raceOnCreate = false
		f.rows = append(f.rows, pair{userID, targetID})
		return gorm.ErrDuplicatedKey
	}
	if f.index(userID, targetID) >= 0 {
		return gorm.ErrDuplicatedKey
	}
	f.rows = append(f.rows, pair{userID, targetID})
	return nil
}

func (f *fakeRelations) Delete(_ context.Context, userID, targetID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.index(userID, targetID)
	if i < 0 {
		return false, nil
	}
	f.rows = append(f.rows[:i], f.rows[i+1:]...)
	return true, nil
}

func (f *fakeRelations) Exists(_ context.Context, userID, targetID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.raceOnCreate {
		return false, nil
	}
	return f.index(userID, targetID) >= 0, nil
}

func (f *fakeRelations) BatchExists(_ context.Context, userID int64, targetIDs []int64) (map[int64]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[int64]bool)
	for _, id := range targetIDs {
		if f.index(userID, id) >= 0 {
			out[id] = true
		}
	}
	return out, nil
}

func (f *fakeRelations) ListTargetIDs(_ context.Context, userID int64, offset, limit int) ([]int64, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []int64
	for _, p := range f.rows {
		if p.user == userID {
			ids = append(ids, p.target)
		}
	}
	total := int64(len(ids))
	if offset >= len(ids) {
		return nil, total, nil
	}
	end := min(offset+limit, len(ids))
	return ids[offset:end], total, nil
}

func (f *fakeRelations) Count(_ context.Context, userID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, p := range f.rows {
		if p.user == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeRelations) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

// fakeCart 购物清单，lines 为每个菜谱的食材行
type fakeCart struct {
	fakeRelations
	lines map[int64][]repository.CartLine
}

func (f *fakeCart) Lines(_ context.Context, userID int64) ([]repository.CartLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []repository.CartLine
	for _, p := range f.rows {
		if p.user == userID {
			out = append(out, f.lines[p.target]...)
		}
	}
	return out, nil
}

type fakeRecipes struct {
	mu      sync.Mutex
	nextID  int64
	recipes map[int64]*model.Recipe
	links   map[int64][]model.RecipeIngredient
	tags    map[int64][]int64
	writes  int
}

func newFakeRecipes() *fakeRecipes {
	return &fakeRecipes{
		recipes: make(map[int64]*model.Recipe),
		links:   make(map[int64][]model.RecipeIngredient),
		tags:    make(map[int64][]int64),
	}
}

func (f *fakeRecipes) add(r *model.Recipe) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.ID == 0 {
		f.nextID++
		r.ID = f.nextID
	} else if r.ID > f.nextID {
		f.nextID = r.ID
	}
	f.recipes[r.ID] = r
}

func (f *fakeRecipes) GetByID(_ context.Context, id int64) (*model.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.recipes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRecipes) GetBrief(ctx context.Context, id int64) (*model.Recipe, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeRecipes) GetByIDs(_ context.Context, ids []int64) ([]model.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Recipe
	for _, id := range ids {
		if r, ok := f.recipes[id]; ok {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRecipes) List(_ context.Context, flt repository.RecipeFilter, offset, limit int) ([]model.Recipe, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Recipe
	for _, r := range f.recipes {
		if flt.AuthorID != 0 && r.AuthorID != flt.AuthorID {
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	total := int64(len(out))
	if offset >= len(out) {
		return nil, total, nil
	}
	return out[offset:min(offset+limit, len(out))], total, nil
}

func (f *fakeRecipes) ListByAuthor(ctx context.Context, authorID int64, limit int) ([]model.Recipe, int64, error) {
	return f.List(ctx, repository.RecipeFilter{AuthorID: authorID}, 0, limit)
}

func (f *fakeRecipes) SearchByName(ctx context.Context, _ string, offset, limit int) ([]model.Recipe, int64, error) {
	return f.List(ctx, repository.RecipeFilter{}, offset, limit)
}

func (f *fakeRecipes) ListAllIDs(_ context.Context) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []int64
	for id := range f.recipes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (f *fakeRecipes) Create(_ context.Context, r *model.Recipe, ingredients []model.RecipeIngredient, tagIDs []int64) error {
	f.mu.Lock()
	f.writes++
	f.mu.Unlock()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	f.add(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.links[r.ID] = ingredients
	f.tags[r.ID] = tagIDs
	return nil
}

func (f *fakeRecipes) Update(_ context.Context, id int64, u repository.RecipeUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	r, ok := f.recipes[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := u.Fields["name"]; ok {
		r.Name = v.(string)
	}
	if v, ok := u.Fields["text"]; ok {
		r.Text = v.(string)
	}
	if v, ok := u.Fields["cooking_time"]; ok {
		r.CookingTime = v.(int)
	}
	if v, ok := u.Fields["image"]; ok {
		r.Image = v.(string)
	}
	if u.Ingredients != nil {
		f.links[id] = u.Ingredients
	}
	if u.TagIDs != nil {
		f.tags[id] = u.TagIDs
	}
	return nil
}

func (f *fakeRecipes) Delete(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	if _, ok := f.recipes[id]; !ok {
		return false, nil
	}
	delete(f.recipes, id)
	return true, nil
}

type fakeCatalog struct {
	tags        map[int64]model.Tag
	ingredients map[int64]model.Ingredient
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		tags: map[int64]model.Tag{
			1: {ID: 1, Name: "Завтрак", Slug: "breakfast"},
			2: {ID: 2, Name: "Обед", Slug: "lunch"},
		},
		ingredients: map[int64]model.Ingredient{
			10: {ID: 10, Name: "Flour", MeasurementUnit: model.MeasurementUnit{ShortName: "g"}},
			11: {ID: 11, Name: "Sugar", MeasurementUnit: model.MeasurementUnit{ShortName: "g"}},
			12: {ID: 12, Name: "Egg", MeasurementUnit: model.MeasurementUnit{ShortName: "pcs"}},
		},
	}
}

func (f *fakeCatalog) ListTags(_ context.Context) ([]model.Tag, error) {
	var out []model.Tag
	for _, t := range f.tags {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCatalog) GetTag(_ context.Context, id int64) (*model.Tag, error) {
	t, ok := f.tags[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &t, nil
}

func (f *fakeCatalog) ListIngredients(_ context.Context, _ string) ([]model.Ingredient, error) {
	var out []model.Ingredient
	for _, i := range f.ingredients {
		out = append(out, i)
	}
	return out, nil
}

func (f *fakeCatalog) GetIngredient(_ context.Context, id int64) (*model.Ingredient, error) {
	i, ok := f.ingredients[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &i, nil
}

func (f *fakeCatalog) ExistingTagIDs(_ context.Context, ids []int64) ([]int64, error) {
	var out []int64
	for _, id := range ids {
		if _, ok := f.tags[id]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}

func (f *fakeCatalog) ExistingIngredientIDs(_ context.Context, ids []int64) ([]int64, error) {
	var out []int64
	for _, id := range ids {
		if _, ok := f.ingredients[id]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}

type fakeImages struct {
	saved   []string
	removed []string
}

func (f *fakeImages) Save(_ context.Context, objectName string, _ []byte, _ string) (string, error) {
	url := "http://media.test/media/" + objectName
	f.saved = append(f.saved, url)
	return url, nil
}

func (f *fakeImages) Remove(_ context.Context, url string) error {
	f.removed = append(f.removed, url)
	return nil
}

type fakeEvents struct {
	events []string
}

func (f *fakeEvents) PublishRecipeEvent(_ context.Context, eventType string, _ int64) error {
	f.events = append(f.events, eventType)
	return nil
}

type fakeUsers struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*model.User
}

func newFakeUsers(users ...*model.User) *fakeUsers {
	f := &fakeUsers{users: make(map[int64]*model.User)}
	for _, u := range users {
		_ = f.Create(context.Background(), u)
	}
	return f
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUsers) GetByIDs(ctx context.Context, ids []int64) ([]model.User, error) {
	var out []model.User
	for _, id := range ids {
		if u, err := f.GetByID(ctx, id); err == nil {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUsers) Create(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email || u.Username == user.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.ID == 0 {
		f.nextID++
		user.ID = f.nextID
	} else if user.ID > f.nextID {
		f.nextID = user.ID
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUsers) Update(_ context.Context, id int64, updates map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range updates {
		switch k {
		case "password":
			u.Password = v.(string)
		case "avatar":
			if v == nil {
				u.Avatar = nil
			} else {
				s := v.(string)
				u.Avatar = &s
			}
		}
	}
	return nil
}

func (f *fakeUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := f.GetByEmail(ctx, email)
	return err == nil, nil
}

func (f *fakeUsers) ExistsByUsername(_ context.Context, username string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUsers) List(_ context.Context, offset, limit int) ([]model.User, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	total := int64(len(out))
	if offset >= len(out) {
		return nil, total, nil
	}
	return out[offset:min(offset+limit, len(out))], total, nil
}
