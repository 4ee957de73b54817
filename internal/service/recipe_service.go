package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"foodgram-go/internal/api/dto"
	infraKafka "foodgram-go/internal/infra/kafka"
	"foodgram-go/internal/media"
	"foodgram-go/internal/model"
	"foodgram-go/internal/repository"
	"foodgram-go/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrRecipeNotFound  = errors.New("菜谱不存在")
	ErrNotRecipeAuthor = errors.New("只有作者可以修改或删除菜谱")
)

const (
	recipeImageDir   = "recipes/images"
	maxRecipeNameLen = 256
)

// writeMode 决定哪些字段必填：创建时全部必填，PUT 除图片外必填，PATCH 缺省字段保持不变
type writeMode int

const (
	modeCreate writeMode = iota
	modeReplace
	modePatch
)

// recipeWrite 校验通过、可直接落库的写入内容
type recipeWrite struct {
	fields      map[string]interface{}
	ingredients []model.RecipeIngredient
	tagIDs      []int64
	image       *media.Image
}

type RecipeService struct {
	recipes   RecipeStore
	catalog   CatalogStore
	favorites RelationStore
	cart      RelationStore
	subs      RelationStore
	images    ImageStore
	events    EventPublisher

	favoriteToggle *Toggle
	cartToggle     *Toggle
}

// NewRecipeService events 为 nil 时不发送变更事件
func NewRecipeService(
	recipes RecipeStore,
	catalog CatalogStore,
	favorites RelationStore,
	cart RelationStore,
	subs RelationStore,
	images ImageStore,
	events EventPublisher,
) *RecipeService {
	return &RecipeService{
		recipes:        recipes,
		catalog:        catalog,
		favorites:      favorites,
		cart:           cart,
		subs:           subs,
		images:         images,
		events:         events,
		favoriteToggle: NewToggle(FavoriteRelation, favorites),
		cartToggle:     NewToggle(ShoppingCartRelation, cart),
	}
}

// Create 创建菜谱；校验全部通过后才写入，写入在一个事务内完成
func (s *RecipeService) Create(ctx context.Context, authorID int64, req *dto.RecipeWriteRequest) (*dto.RecipeInfo, error) {
	w, err := s.validate(ctx, req, modeCreate)
	if err != nil {
		return nil, err
	}

	imageURL, err := s.images.Save(ctx, w.image.ObjectName(recipeImageDir), w.image.Data, w.image.ContentType)
	if err != nil {
		return nil, err
	}

	recipe := &model.Recipe{
		AuthorID:    authorID,
		Name:        w.fields["name"].(string),
		Text:        w.fields["text"].(string),
		Image:       imageURL,
		CookingTime: w.fields["cooking_time"].(int),
	}
	if err := s.recipes.Create(ctx, recipe, w.ingredients, w.tagIDs); err != nil {
		s.removeImage(ctx, imageURL)
		return nil, fmt.Errorf("create recipe: %w", err)
	}

	s.publish(ctx, infraKafka.RecipeCreated, recipe.ID)
	return s.Get(ctx, authorID, recipe.ID)
}

// Update PUT 与 PATCH；给出的标签/食材列表整体替换原有关联
func (s *RecipeService) Update(ctx context.Context, userID, recipeID int64, req *dto.RecipeWriteRequest, partial bool) (*dto.RecipeInfo, error) {
	recipe, err := s.authored(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}

	mode := modeReplace
	if partial {
		mode = modePatch
	}
	w, err := s.validate(ctx, req, mode)
	if err != nil {
		return nil, err
	}

	newImage := ""
	if w.image != nil {
		newImage, err = s.images.Save(ctx, w.image.ObjectName(recipeImageDir), w.image.Data, w.image.ContentType)
		if err != nil {
			return nil, err
		}
		w.fields["image"] = newImage
	}

	update := repository.RecipeUpdate{Fields: w.fields, Ingredients: w.ingredients, TagIDs: w.tagIDs}
	if err := s.recipes.Update(ctx, recipeID, update); err != nil {
		s.removeImage(ctx, newImage)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("update recipe: %w", err)
	}
	if newImage != "" {
		s.removeImage(ctx, recipe.Image)
	}

	s.publish(ctx, infraKafka.RecipeUpdated, recipeID)
	return s.Get(ctx, userID, recipeID)
}

// Delete 删除菜谱（仅作者）
func (s *RecipeService) Delete(ctx context.Context, userID, recipeID int64) error {
	recipe, err := s.authored(ctx, userID, recipeID)
	if err != nil {
		return err
	}

	deleted, err := s.recipes.Delete(ctx, recipeID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrRecipeNotFound
	}

	s.removeImage(ctx, recipe.Image)
	s.publish(ctx, infraKafka.RecipeDeleted, recipeID)
	return nil
}

// Get 菜谱详情，viewerID 为 0 表示匿名访问
func (s *RecipeService) Get(ctx context.Context, viewerID, recipeID int64) (*dto.RecipeInfo, error) {
	recipe, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	infos, err := s.Describe(ctx, viewerID, []model.Recipe{*recipe})
	if err != nil {
		return nil, err
	}
	return &infos[0], nil
}

// List 菜谱列表，按发布时间倒序
func (s *RecipeService) List(ctx context.Context, viewerID int64, q *dto.RecipeListQuery, offset, limit int) ([]dto.RecipeInfo, int64, error) {
	filter := repository.RecipeFilter{
		TagSlugs: q.Tags,
		AuthorID: q.Author,
	}
	if q.IsFavorited == 1 || q.IsInShoppingCart == 1 {
		// 匿名用户没有收藏与购物清单
		if viewerID == 0 {
			return []dto.RecipeInfo{}, 0, nil
		}
		if q.IsFavorited == 1 {
			filter.FavoritedBy = viewerID
		}
		if q.IsInShoppingCart == 1 {
			filter.InCartOf = viewerID
		}
	}

	recipes, total, err := s.recipes.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	infos, err := s.Describe(ctx, viewerID, recipes)
	if err != nil {
		return nil, 0, err
	}
	return infos, total, nil
}

// AddFavorite 加入收藏
func (s *RecipeService) AddFavorite(ctx context.Context, userID, recipeID int64) (*dto.RecipeShort, error) {
	return s.addRelation(ctx, s.favoriteToggle, userID, recipeID)
}

// RemoveFavorite 移出收藏
func (s *RecipeService) RemoveFavorite(ctx context.Context, userID, recipeID int64) error {
	return s.removeRelation(ctx, s.favoriteToggle, userID, recipeID)
}

// AddToCart 加入购物清单
func (s *RecipeService) AddToCart(ctx context.Context, userID, recipeID int64) (*dto.RecipeShort, error) {
	return s.addRelation(ctx, s.cartToggle, userID, recipeID)
}

// RemoveFromCart 移出购物清单
func (s *RecipeService) RemoveFromCart(ctx context.Context, userID, recipeID int64) error {
	return s.removeRelation(ctx, s.cartToggle, userID, recipeID)
}

func (s *RecipeService) addRelation(ctx context.Context, t *Toggle, userID, recipeID int64) (*dto.RecipeShort, error) {
	recipe, err := s.brief(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if err := t.Add(ctx, userID, recipeID); err != nil {
		return nil, err
	}
	return toRecipeShort(recipe), nil
}

func (s *RecipeService) removeRelation(ctx context.Context, t *Toggle, userID, recipeID int64) error {
	if _, err := s.brief(ctx, recipeID); err != nil {
		return err
	}
	return t.Remove(ctx, userID, recipeID)
}

// Describe 将菜谱转换为对 viewer 的完整表示
func (s *RecipeService) Describe(ctx context.Context, viewerID int64, recipes []model.Recipe) ([]dto.RecipeInfo, error) {
	ids := make([]int64, 0, len(recipes))
	authorIDs := make([]int64, 0, len(recipes))
	for i := range recipes {
		ids = append(ids, recipes[i].ID)
		authorIDs = append(authorIDs, recipes[i].AuthorID)
	}

	favorited, err := s.favorites.BatchExists(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}
	inCart, err := s.cart.BatchExists(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}
	subscribed, err := s.subs.BatchExists(ctx, viewerID, authorIDs)
	if err != nil {
		return nil, err
	}

	infos := make([]dto.RecipeInfo, 0, len(recipes))
	for i := range recipes {
		r := &recipes[i]
		info := dto.RecipeInfo{
			ID:               r.ID,
			Tags:             make([]dto.TagInfo, 0, len(r.Tags)),
			Author:           *toUserInfo(&r.Author, subscribed[r.AuthorID]),
			Ingredients:      make([]dto.RecipeIngredientInfo, 0, len(r.Ingredients)),
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			Name:             r.Name,
			Image:            r.Image,
			Text:             r.Text,
			CookingTime:      r.CookingTime,
		}
		for j := range r.Tags {
			info.Tags = append(info.Tags, toTagInfo(&r.Tags[j]))
		}
		for j := range r.Ingredients {
			ri := &r.Ingredients[j]
			info.Ingredients = append(info.Ingredients, dto.RecipeIngredientInfo{
				IngredientInfo: toIngredientInfo(&ri.Ingredient),
				Amount:         ri.Amount,
			})
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func (s *RecipeService) brief(ctx context.Context, recipeID int64) (*model.Recipe, error) {
	recipe, err := s.recipes.GetBrief(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return recipe, nil
}

func (s *RecipeService) authored(ctx context.Context, userID, recipeID int64) (*model.Recipe, error) {
	recipe, err := s.brief(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if recipe.AuthorID != userID {
		return nil, ErrNotRecipeAuthor
	}
	return recipe, nil
}

// validate 在任何写入之前校验整组内容
func (s *RecipeService) validate(ctx context.Context, req *dto.RecipeWriteRequest, mode writeMode) (*recipeWrite, error) {
	w := &recipeWrite{fields: make(map[string]interface{})}
	required := mode != modePatch

	if req.Ingredients == nil && required {
		return nil, invalid("ingredients", "该字段是必填项")
	}
	if req.Ingredients != nil {
		if len(req.Ingredients) == 0 {
			return nil, invalid("ingredients", "至少需要一种食材")
		}
		seen := make(map[int64]bool, len(req.Ingredients))
		for _, it := range req.Ingredients {
			if it.ID < 1 {
				return nil, invalid("ingredients", fmt.Sprintf("食材 %d 不存在", it.ID))
			}
			if it.Amount < 1 {
				return nil, invalid("ingredients", "食材用量不能小于1")
			}
			if seen[it.ID] {
				return nil, invalid("ingredients", "食材不能重复")
			}
			seen[it.ID] = true
			w.ingredients = append(w.ingredients, model.RecipeIngredient{IngredientID: it.ID, Amount: it.Amount})
		}
	}

	if req.Tags == nil && required {
		return nil, invalid("tags", "该字段是必填项")
	}
	if req.Tags != nil {
		if len(req.Tags) == 0 {
			return nil, invalid("tags", "至少需要一个标签")
		}
		seen := make(map[int64]bool, len(req.Tags))
		for _, id := range req.Tags {
			if id < 1 {
				return nil, invalid("tags", fmt.Sprintf("标签 %d 不存在", id))
			}
			if seen[id] {
				return nil, invalid("tags", "标签不能重复")
			}
			seen[id] = true
		}
		w.tagIDs = append([]int64{}, req.Tags...)
	}

	if req.Name == nil && required {
		return nil, invalid("name", "该字段是必填项")
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, invalid("name", "名称不能为空")
		}
		if utf8.RuneCountInString(name) > maxRecipeNameLen {
			return nil, invalid("name", fmt.Sprintf("名称不能超过%d个字符", maxRecipeNameLen))
		}
		w.fields["name"] = name
	}

	if req.Text == nil && required {
		return nil, invalid("text", "该字段是必填项")
	}
	if req.Text != nil {
		if strings.TrimSpace(*req.Text) == "" {
			return nil, invalid("text", "描述不能为空")
		}
		w.fields["text"] = *req.Text
	}

	if req.CookingTime == nil && required {
		return nil, invalid("cooking_time", "该字段是必填项")
	}
	if req.CookingTime != nil {
		if *req.CookingTime < 1 {
			return nil, invalid("cooking_time", "烹饪时间不能小于1分钟")
		}
		w.fields["cooking_time"] = *req.CookingTime
	}

	if req.Image == nil && mode == modeCreate {
		return nil, invalid("image", "该字段是必填项")
	}
	if req.Image != nil {
		img, err := media.DecodeDataURI(*req.Image)
		if err != nil {
			return nil, invalid("image", err.Error())
		}
		w.image = img
	}

	if err := s.checkReferences(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// checkReferences 确认引用的标签与食材都存在
func (s *RecipeService) checkReferences(ctx context.Context, w *recipeWrite) error {
	if len(w.ingredients) > 0 {
		ids := make([]int64, 0, len(w.ingredients))
		for _, it := range w.ingredients {
			ids = append(ids, it.IngredientID)
		}
		found, err := s.catalog.ExistingIngredientIDs(ctx, ids)
		if err != nil {
			return err
		}
		if missing, ok := firstMissing(ids, found); ok {
			return invalid("ingredients", fmt.Sprintf("食材 %d 不存在", missing))
		}
	}

	if len(w.tagIDs) > 0 {
		found, err := s.catalog.ExistingTagIDs(ctx, w.tagIDs)
		if err != nil {
			return err
		}
		if missing, ok := firstMissing(w.tagIDs, found); ok {
			return invalid("tags", fmt.Sprintf("标签 %d 不存在", missing))
		}
	}
	return nil
}

// firstMissing 返回 want 中第一个不在 found 里的 ID
func firstMissing(want, found []int64) (int64, bool) {
	set := make(map[int64]bool, len(found))
	for _, id := range found {
		set[id] = true
	}
	for _, id := range want {
		if !set[id] {
			return id, true
		}
	}
	return 0, false
}

// publish 事件发送失败不影响请求结果
func (s *RecipeService) publish(ctx context.Context, eventType string, recipeID int64) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishRecipeEvent(ctx, eventType, recipeID); err != nil {
		logger.Warn("Publish recipe event failed",
			zap.String("type", eventType),
			zap.Int64("recipe_id", recipeID),
			zap.Error(err),
		)
	}
}

func (s *RecipeService) removeImage(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.images.Remove(ctx, url); err != nil {
		logger.Warn("Remove recipe image failed", zap.String("url", url), zap.Error(err))
	}
}

func toRecipeShort(r *model.Recipe) *dto.RecipeShort {
	return &dto.RecipeShort{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}
